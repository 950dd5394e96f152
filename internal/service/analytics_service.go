package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/engage-dash-api/internal/analytics"
	"github.com/noah-isme/engage-dash-api/internal/models"
)

// UserSource supplies the user collection for snapshots.
type UserSource interface {
	ListAll(ctx context.Context) ([]models.User, error)
}

// AttendanceSource supplies the attendance collection for snapshots.
type AttendanceSource interface {
	ListAll(ctx context.Context) ([]models.AttendanceRecord, error)
}

// EngagementSource supplies the engagement collection for snapshots.
type EngagementSource interface {
	ListAll(ctx context.Context) ([]models.EngagementSample, error)
}

// AnalyticsService computes derived metrics over the full record store
// with cache integration. Every read loads a fresh snapshot, hands it to
// the engine and caches the derived result, so cached values stay
// consistent until a write invalidates them.
type AnalyticsService struct {
	users      UserSource
	attendance AttendanceSource
	engagement EngagementSource
	engine     *analytics.Engine
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewAnalyticsService constructs an analytics service. A nil engine
// defaults to the wall clock.
func NewAnalyticsService(users UserSource, attendance AttendanceSource, engagement EngagementSource, engine *analytics.Engine, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AnalyticsService {
	if engine == nil {
		engine = analytics.NewEngine(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		users:      users,
		attendance: attendance,
		engagement: engagement,
		engine:     engine,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
	}
}

// EngagementScore returns the multi-factor score for one user. The boolean
// indicates whether data originated from cache.
func (s *AnalyticsService) EngagementScore(ctx context.Context, userID string, days int) (models.EngagementScore, bool, error) {
	cacheKey := makeAnalyticsCacheKey("engagement", userID, strconv.Itoa(days))
	var cached models.EngagementScore
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return models.EngagementScore{}, false, fmt.Errorf("get engagement cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return models.EngagementScore{}, false, err
	}
	score := s.engine.EngagementScore(snap, userID, days)
	s.cacheSet(ctx, cacheKey, score)
	return score, false, nil
}

// AttendancePercentage returns the rounded attendance share for one user.
func (s *AnalyticsService) AttendancePercentage(ctx context.Context, userID string, days int) (int, bool, error) {
	cacheKey := makeAnalyticsCacheKey("attendance", userID, strconv.Itoa(days))
	var cached int
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return 0, false, fmt.Errorf("get attendance cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return 0, false, err
	}
	pct := s.engine.AttendancePercentage(snap, userID, days)
	s.cacheSet(ctx, cacheKey, pct)
	return pct, false, nil
}

// Consistency returns the attendance regularity classification for one user.
func (s *AnalyticsService) Consistency(ctx context.Context, userID string) (models.ConsistencyData, bool, error) {
	cacheKey := makeAnalyticsCacheKey("consistency", userID)
	var cached models.ConsistencyData
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return models.ConsistencyData{}, false, fmt.Errorf("get consistency cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return models.ConsistencyData{}, false, err
	}
	data := s.engine.Consistency(snap, userID)
	s.cacheSet(ctx, cacheKey, data)
	return data, false, nil
}

// DashboardStats returns the organization-wide aggregate snapshot.
func (s *AnalyticsService) DashboardStats(ctx context.Context) (models.DashboardStats, bool, error) {
	cacheKey := makeAnalyticsCacheKey("dashboard")
	var cached models.DashboardStats
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return models.DashboardStats{}, false, fmt.Errorf("get dashboard cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return models.DashboardStats{}, false, err
	}
	stats := s.engine.DashboardStats(snap)
	s.cacheSet(ctx, cacheKey, stats)
	return stats, false, nil
}

// AttendanceTrend returns the day-indexed attendance chart series.
func (s *AnalyticsService) AttendanceTrend(ctx context.Context, days int) (models.AttendanceTrend, bool, error) {
	cacheKey := makeAnalyticsCacheKey("attendance-trend", strconv.Itoa(days))
	var cached models.AttendanceTrend
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return models.AttendanceTrend{}, false, fmt.Errorf("get attendance trend cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return models.AttendanceTrend{}, false, err
	}
	trend := s.engine.AttendanceTrend(snap, days)
	s.cacheSet(ctx, cacheKey, trend)
	return trend, false, nil
}

// EngagementTrend returns the day-indexed engagement chart series.
func (s *AnalyticsService) EngagementTrend(ctx context.Context, days int) (models.EngagementTrend, bool, error) {
	cacheKey := makeAnalyticsCacheKey("engagement-trend", strconv.Itoa(days))
	var cached models.EngagementTrend
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return models.EngagementTrend{}, false, fmt.Errorf("get engagement trend cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return models.EngagementTrend{}, false, err
	}
	trend := s.engine.EngagementTrend(snap, days)
	s.cacheSet(ctx, cacheKey, trend)
	return trend, false, nil
}

// UserComparison returns the cross-user comparison chart data.
func (s *AnalyticsService) UserComparison(ctx context.Context) (models.UserComparison, bool, error) {
	cacheKey := makeAnalyticsCacheKey("comparison")
	var cached models.UserComparison
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return models.UserComparison{}, false, fmt.Errorf("get comparison cache: %w", err)
	} else if hit {
		return cached, true, nil
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return models.UserComparison{}, false, err
	}
	comparison := s.engine.UserComparison(snap)
	s.cacheSet(ctx, cacheKey, comparison)
	return comparison, false, nil
}

// GenerateReport assembles a report for the given type. Reports carry a
// generation timestamp in their identity, so they bypass the cache.
func (s *AnalyticsService) GenerateReport(ctx context.Context, reportType models.ReportType) (models.Report, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return models.Report{}, err
	}
	return s.engine.GenerateReport(snap, reportType), nil
}

// Invalidate drops every cached analytics derivation. Called after any
// attendance, engagement or user write.
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "analytics:*"); err != nil {
		s.logger.Warn("invalidate analytics cache", zap.Error(err))
	}
}

// SystemMetrics returns the system instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.SystemMetrics {
	if s.metrics == nil {
		return models.SystemMetrics{}
	}
	return s.metrics.Snapshot()
}

func (s *AnalyticsService) loadSnapshot(ctx context.Context) (analytics.Snapshot, error) {
	start := time.Now()
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("load users: %w", err)
	}
	attendance, err := s.attendance.ListAll(ctx)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("load attendance: %w", err)
	}
	engagement, err := s.engagement.ListAll(ctx)
	if err != nil {
		return analytics.Snapshot{}, fmt.Errorf("load engagement: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("analytics_snapshot", time.Since(start))
	}
	return analytics.Snapshot{Users: users, Attendance: attendance, Engagement: engagement}, nil
}

func (s *AnalyticsService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, 0); err != nil {
		s.logger.Warn("cache analytics value", zap.String("key", key), zap.Error(err))
	}
}

func makeAnalyticsCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("analytics")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}
