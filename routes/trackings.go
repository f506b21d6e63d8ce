package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"styledecor-server/services"
)

// TrackingHandler serves the per-booking audit trail. Read-only and public.
type TrackingHandler struct {
	tracking *services.TrackingService
}

func NewTrackingHandler(tracking *services.TrackingService) *TrackingHandler {
	return &TrackingHandler{tracking: tracking}
}

func (h *TrackingHandler) Register(r *gin.RouterGroup) {
	r.GET("/trackings/:trackingId/logs", h.logs)
}

func (h *TrackingHandler) logs(c *gin.Context) {
	logs, err := h.tracking.Logs(c.Request.Context(), c.Param("trackingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
