package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ecotrack-backend/internal/shared/server/middleware"
	"ecotrack-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// me prefers the stored profile and falls back to the token claims when
// the user has not been persisted yet.
func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	resp := gin.H{
		"userId":  userID,
		"email":   middleware.UserEmailFromContext(c),
		"name":    middleware.UserNameFromContext(c),
		"picture": middleware.UserPictureFromContext(c),
		"role":    middleware.UserRoleFromContext(c),
	}

	if h.Svc != nil {
		user, err := h.Svc.GetByID(c.Request.Context(), userID)
		switch {
		case err == nil:
			resp["email"] = user.Email
			resp["name"] = user.Name
			resp["picture"] = user.Picture
			if user.Role != "" {
				resp["role"] = user.Role
			}
			resp["createdAt"] = user.CreatedAt
			resp["lastLogin"] = user.LastLogin
		case errors.Is(err, ErrNotFound):
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
			return
		}
	}

	respond.OK(c, resp)
}
