package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/engage-dash-api/internal/models"
	"github.com/noah-isme/engage-dash-api/internal/service"
)

type staticUsers struct{ users []models.User }

func (s staticUsers) ListAll(ctx context.Context) ([]models.User, error) { return s.users, nil }

type staticAttendance struct{ records []models.AttendanceRecord }

func (s staticAttendance) ListAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	return s.records, nil
}

type staticEngagement struct{ samples []models.EngagementSample }

func (s staticEngagement) ListAll(ctx context.Context) ([]models.EngagementSample, error) {
	return s.samples, nil
}

func newAnalyticsHandlerFixture() *AnalyticsHandler {
	svc := service.NewAnalyticsService(
		staticUsers{users: []models.User{{ID: "u1", FullName: "Ava Stone", Role: models.RoleStudent, Active: true}}},
		staticAttendance{},
		staticEngagement{},
		nil, nil, nil, nil,
	)
	return NewAnalyticsHandler(svc)
}

func TestAnalyticsHandlerEngagementScore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAnalyticsHandlerFixture()

	c, w := newGinContext(http.MethodGet, "/analytics/engagement/u1?days=14", nil)
	c.Params = gin.Params{{Key: "id", Value: "u1"}}

	handler.EngagementScore(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Ava Stone")
	require.Contains(t, w.Body.String(), "processing_time_ms")
}

func TestAnalyticsHandlerConsistencyUnknownUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAnalyticsHandlerFixture()

	c, w := newGinContext(http.MethodGet, "/analytics/consistency/ghost", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.Consistency(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "dropped-off")
	require.Contains(t, w.Body.String(), "Never")
}
