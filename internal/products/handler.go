package products

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ecotrack-backend/internal/ecoscore"
	"ecotrack-backend/internal/shared/server/middleware"
	"ecotrack-backend/internal/shared/server/respond"
	"ecotrack-backend/internal/shared/util"
)

const defaultMaxUploadBytes = 10 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler. A non-positive maxUpload uses 10MB.
func NewHandler(svc *Service, maxUpload int64) *Handler {
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUpload}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analysis/products", h.analyze)
	rg.POST("/analysis/score", h.score)
	rg.GET("/analysis/history", h.history)
	rg.GET("/analysis/:id", h.get)
}

func (h *Handler) analyze(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "image exceeds upload limit", gin.H{"limitBytes": h.MaxUploadBytes})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "image is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read image", nil)
		return
	}
	defer file.Close()

	a, err := h.Svc.Analyze(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze product", nil)
		}
		return
	}

	c.Set(middleware.AnalysisIDKey, a.ID)
	c.Set(middleware.MaterialKey, string(a.Material))
	respond.Created(c, toResponse(a))
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	page, limit := util.ParsePage(c.Query("page"), c.Query("limit"))

	items, pagination, err := h.Svc.History(c.Request.Context(), userID, page, limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		}
		return
	}

	resp := HistoryResponse{
		Items:      make([]AnalysisResponse, 0, len(items)),
		Pagination: pagination,
	}
	for _, a := range items {
		resp.Items = append(resp.Items, toResponse(a))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := strings.TrimSpace(c.Param("id"))
	c.Set(middleware.AnalysisIDKey, id)

	a, err := h.Svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	c.Set(middleware.MaterialKey, string(a.Material))
	respond.OK(c, toResponse(a))
}

func (h *Handler) score(c *gin.Context) {
	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	if req.Width < 0 || req.Height < 0 || req.FileSizeKB < 0 || req.ColorCount < 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "metadata values must be non-negative", nil)
		return
	}

	if req.Material != "" || req.Size != "" {
		material, ok := ecoscore.Lookup(req.Material)
		if !ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown material", gin.H{"materials": ecoscore.Materials()})
			return
		}
		size, err := ecoscore.ParseSize(req.Size)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		c.Set(middleware.MaterialKey, string(material))
		respond.OK(c, ecoscore.Score(material, size))
		return
	}

	res := h.Svc.Score(&ecoscore.Metadata{
		Width:      req.Width,
		Height:     req.Height,
		FileSizeKB: req.FileSizeKB,
		ColorCount: req.ColorCount,
	})
	c.Set(middleware.MaterialKey, string(res.Material))
	respond.OK(c, res)
}
