package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"styledecor-server/guards"
	"styledecor-server/middleware"
	"styledecor-server/models"
	"styledecor-server/services"
)

// AdminHandler serves the dashboard aggregates.
type AdminHandler struct {
	stats *services.StatsService
}

func NewAdminHandler(stats *services.StatsService) *AdminHandler {
	return &AdminHandler{stats: stats}
}

func (h *AdminHandler) Register(r *gin.RouterGroup) {
	r.GET("/admin/stats", h.dashboard)
}

func (h *AdminHandler) dashboard(c *gin.Context) {
	if err := guards.RequireRole(middleware.CurrentUser(c), models.RoleAdmin); err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
