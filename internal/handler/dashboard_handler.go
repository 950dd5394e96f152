package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/engage-dash-api/internal/service"
	appErrors "github.com/noah-isme/engage-dash-api/pkg/errors"
	"github.com/noah-isme/engage-dash-api/pkg/response"
)

// DashboardHandler serves the aggregate dashboard payload.
type DashboardHandler struct {
	analytics *service.AnalyticsService
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(analytics *service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{analytics: analytics}
}

// Stats godoc
// @Summary Dashboard statistics
// @Description Organization-wide counts, averages and the engagement leaderboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	stats, cacheHit, err := h.analytics.DashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, cacheHit, stats)
}
