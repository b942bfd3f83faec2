package certificates

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	sharedauth "ecotrack-backend/internal/shared/auth"
	"ecotrack-backend/internal/shared/server/middleware"
	"ecotrack-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

type completeGoalRequest struct {
	Proof string `json:"proof"`
}

// RegisterRoutes attaches certificate routes. Admin routes are gated by role.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/certificates", h.catalog)
	rg.GET("/certificates/mine", h.mine)
	rg.POST("/certificates/:id/enroll", h.enroll)
	rg.PUT("/certificates/mine/:userCertId/goals/:goalId", h.completeGoal)

	admin := rg.Group("", middleware.RequireRole(sharedauth.RoleAdmin))
	admin.GET("/certificates/all", h.all)
	admin.PUT("/certificates/verify/:userCertId/:goalId", h.verifyGoal)
}

func (h *Handler) catalog(c *gin.Context) {
	certs, err := h.Svc.Catalog(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list certificates", nil)
		return
	}
	respond.OK(c, certs)
}

func (h *Handler) enroll(c *gin.Context) {
	certID := c.Param("id")
	c.Set(middleware.CertificateIDKey, certID)

	uc, err := h.Svc.Enroll(c.Request.Context(), middleware.UserIDFromContext(c), certID)
	if err != nil {
		writeError(c, err, "failed to enroll")
		return
	}
	respond.OK(c, uc)
}

func (h *Handler) mine(c *gin.Context) {
	items, err := h.Svc.Mine(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to list certificates")
		return
	}
	respond.OK(c, items)
}

func (h *Handler) completeGoal(c *gin.Context) {
	var req completeGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}

	uc, err := h.Svc.CompleteGoal(c.Request.Context(),
		middleware.UserIDFromContext(c),
		c.Param("userCertId"),
		c.Param("goalId"),
		req.Proof,
	)
	if err != nil {
		writeError(c, err, "failed to complete goal")
		return
	}
	c.Set(middleware.CertificateIDKey, uc.CertificateID)
	respond.OK(c, uc)
}

func (h *Handler) all(c *gin.Context) {
	items, err := h.Svc.All(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list enrollments")
		return
	}
	respond.OK(c, items)
}

func (h *Handler) verifyGoal(c *gin.Context) {
	uc, err := h.Svc.VerifyGoal(c.Request.Context(), c.Param("userCertId"), c.Param("goalId"))
	if err != nil {
		writeError(c, err, "failed to verify goal")
		return
	}
	c.Set(middleware.CertificateIDKey, uc.CertificateID)
	respond.OK(c, uc)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrNotCompleted):
		respond.Error(c, http.StatusConflict, "goal_not_completed", "goal must be completed before verification", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
