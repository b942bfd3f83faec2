// Package departments serves the organization dashboard figures.
package departments

import (
	"github.com/gin-gonic/gin"

	sharedauth "ecotrack-backend/internal/shared/auth"
	"ecotrack-backend/internal/shared/server/middleware"
	"ecotrack-backend/internal/shared/server/respond"
)

type Department struct {
	Name            string  `json:"name"`
	EnergyUsage     float64 `json:"energyUsage"`
	CarbonFootprint float64 `json:"carbonFootprint"`
	LogisticScore   int     `json:"logisticScore"`
}

// List returns the static department figures.
func List() []Department {
	return []Department{
		{Name: "Department 1", EnergyUsage: 1200, CarbonFootprint: 800, LogisticScore: 85},
		{Name: "Department 2", EnergyUsage: 2800, CarbonFootprint: 1600, LogisticScore: 90},
	}
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches GET /departments for admin and organization roles.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/departments",
		middleware.RequireRole(sharedauth.RoleAdmin, sharedauth.RoleOrganization),
		h.list,
	)
}

func (h *Handler) list(c *gin.Context) {
	respond.OK(c, List())
}
