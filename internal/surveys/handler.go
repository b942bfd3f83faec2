package surveys

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches survey routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/user-data", h.get)
	rg.POST("/user-data", h.save)
	rg.GET("/users", h.compare)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	sv, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "no survey data for this user", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch survey", nil)
		}
		return
	}
	respond.OK(c, sv)
}

func (h *Handler) save(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req Survey
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	if req.Email == "" {
		req.Email = middleware.UserEmailFromContext(c)
	}
	if req.FullName == "" {
		req.FullName = middleware.UserNameFromContext(c)
	}

	sv, err := h.Svc.Save(c.Request.Context(), userID, req)
	if err != nil {
		var fieldErr *FieldError
		switch {
		case errors.As(err, &fieldErr):
			respond.Error(c, http.StatusBadRequest, "validation_error", "numeric fields must be non-negative", gin.H{"fields": fieldErr.Fields})
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save survey", nil)
		}
		return
	}
	respond.OK(c, sv)
}

func (h *Handler) compare(c *gin.Context) {
	items, err := h.Svc.Compare(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list users", nil)
		return
	}
	respond.OK(c, items)
}
