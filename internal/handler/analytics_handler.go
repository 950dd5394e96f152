package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/engage-dash-api/internal/middleware"
	"github.com/noah-isme/engage-dash-api/internal/service"
	appErrors "github.com/noah-isme/engage-dash-api/pkg/errors"
	"github.com/noah-isme/engage-dash-api/pkg/response"
)

// AnalyticsHandler exposes per-user and aggregate analytics endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// EngagementScore godoc
// @Summary Engagement score
// @Description Multi-factor engagement score for one user
// @Tags Analytics
// @Produce json
// @Param id path string true "User ID"
// @Param days query int false "Lookback window in days (default 30)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /analytics/engagement/{id} [get]
func (h *AnalyticsHandler) EngagementScore(c *gin.Context) {
	days := parseDays(c, 30)
	start := time.Now()
	score, cacheHit, err := h.analytics.EngagementScore(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, cacheHit, score)
}

// AttendancePercentage godoc
// @Summary Attendance percentage
// @Description Rounded attendance share for one user
// @Tags Analytics
// @Produce json
// @Param id path string true "User ID"
// @Param days query int false "Lookback window in days (default 30)"
// @Success 200 {object} response.Envelope
// @Router /analytics/attendance/{id} [get]
func (h *AnalyticsHandler) AttendancePercentage(c *gin.Context) {
	days := parseDays(c, 30)
	start := time.Now()
	pct, cacheHit, err := h.analytics.AttendancePercentage(c.Request.Context(), c.Param("id"), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, cacheHit, gin.H{"userId": c.Param("id"), "days": days, "attendancePercentage": pct})
}

// Consistency godoc
// @Summary Attendance consistency
// @Description Streaks, weekly trend and regularity classification
// @Tags Analytics
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /analytics/consistency/{id} [get]
func (h *AnalyticsHandler) Consistency(c *gin.Context) {
	start := time.Now()
	data, cacheHit, err := h.analytics.Consistency(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, cacheHit, data)
}

// AttendanceTrend godoc
// @Summary Attendance trend
// @Description Day-indexed attendance counts for charting
// @Tags Analytics
// @Produce json
// @Param days query int false "Series length in days (default 14)"
// @Success 200 {object} response.Envelope
// @Router /analytics/trends/attendance [get]
func (h *AnalyticsHandler) AttendanceTrend(c *gin.Context) {
	days := parseDays(c, 14)
	start := time.Now()
	trend, cacheHit, err := h.analytics.AttendanceTrend(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, cacheHit, trend)
}

// EngagementTrend godoc
// @Summary Engagement trend
// @Description Day-indexed average engagement score for charting
// @Tags Analytics
// @Produce json
// @Param days query int false "Series length in days (default 14)"
// @Success 200 {object} response.Envelope
// @Router /analytics/trends/engagement [get]
func (h *AnalyticsHandler) EngagementTrend(c *gin.Context) {
	days := parseDays(c, 14)
	start := time.Now()
	trend, cacheHit, err := h.analytics.EngagementTrend(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, cacheHit, trend)
}

// Comparison godoc
// @Summary User comparison
// @Description Cross-user attendance and engagement comparison chart data
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/comparison [get]
func (h *AnalyticsHandler) Comparison(c *gin.Context) {
	start := time.Now()
	comparison, cacheHit, err := h.analytics.UserComparison(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, cacheHit, comparison)
}

// SystemMetrics godoc
// @Summary System metrics snapshot
// @Description Cache, request and query instrumentation counters
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analytics/system [get]
func (h *AnalyticsHandler) SystemMetrics(c *gin.Context) {
	if h.analytics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.analytics.SystemMetrics(), nil)
}

func respondWithMeta(c *gin.Context, start time.Time, cacheHit bool, data interface{}) {
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = make(map[string]interface{})
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, data, nil, meta)
}

func parseDays(c *gin.Context, fallback int) int {
	raw := c.Query("days")
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return fallback
	}
	return days
}
