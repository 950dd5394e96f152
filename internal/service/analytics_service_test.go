package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/engage-dash-api/internal/analytics"
	"github.com/noah-isme/engage-dash-api/internal/models"
	appErrors "github.com/noah-isme/engage-dash-api/pkg/errors"
)

type fakeUserSource struct {
	users []models.User
	calls int
	err   error
}

func (f *fakeUserSource) ListAll(ctx context.Context) ([]models.User, error) {
	f.calls++
	return f.users, f.err
}

type fakeAttendanceSource struct {
	records []models.AttendanceRecord
	calls   int
}

func (f *fakeAttendanceSource) ListAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	f.calls++
	return f.records, nil
}

type fakeEngagementSource struct {
	samples []models.EngagementSample
	calls   int
}

func (f *fakeEngagementSource) ListAll(ctx context.Context) ([]models.EngagementSample, error) {
	f.calls++
	return f.samples, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

func serviceFixtures() (*fakeUserSource, *fakeAttendanceSource, *fakeEngagementSource) {
	users := &fakeUserSource{users: []models.User{
		{ID: "u1", FullName: "Ava Stone", Role: models.RoleStudent, Active: true},
	}}
	attendance := &fakeAttendanceSource{records: []models.AttendanceRecord{
		{UserID: "u1", Date: fixedNowService().Format(models.DateLayout), Status: models.StatusPresent},
	}}
	engagement := &fakeEngagementSource{}
	return users, attendance, engagement
}

func fixedNowService() time.Time {
	return time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)
}

func newTestAnalyticsService(users *fakeUserSource, attendance *fakeAttendanceSource, engagement *fakeEngagementSource, repo CacheRepository) *AnalyticsService {
	var cache *CacheService
	if repo != nil {
		cache = NewCacheService(repo, nil, time.Minute, nil, true)
	}
	engine := analytics.NewEngine(fixedNowService)
	return NewAnalyticsService(users, attendance, engagement, engine, cache, nil, nil)
}

func TestAttendancePercentageCachesDerivation(t *testing.T) {
	users, attendance, engagement := serviceFixtures()
	svc := newTestAnalyticsService(users, attendance, engagement, newMemoryCacheRepo())

	pct, cached, err := svc.AttendancePercentage(context.Background(), "u1", 30)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 100, pct)
	assert.Equal(t, 1, users.calls)

	pct, cached, err = svc.AttendancePercentage(context.Background(), "u1", 30)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 100, pct)
	assert.Equal(t, 1, users.calls, "cache hit must not reload the snapshot")
}

func TestInvalidateForcesRecompute(t *testing.T) {
	users, attendance, engagement := serviceFixtures()
	svc := newTestAnalyticsService(users, attendance, engagement, newMemoryCacheRepo())

	_, _, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)

	svc.Invalidate(context.Background())

	_, cached, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, users.calls)
}

func TestAnalyticsWithoutCacheAlwaysComputes(t *testing.T) {
	users, attendance, engagement := serviceFixtures()
	svc := newTestAnalyticsService(users, attendance, engagement, nil)

	for i := 0; i < 2; i++ {
		score, cached, err := svc.EngagementScore(context.Background(), "u1", 30)
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, "Ava Stone", score.UserName)
	}
	assert.Equal(t, 2, users.calls)
}

func TestAnalyticsSourceErrorPropagates(t *testing.T) {
	users, attendance, engagement := serviceFixtures()
	users.err = errors.New("db down")
	svc := newTestAnalyticsService(users, attendance, engagement, newMemoryCacheRepo())

	_, _, err := svc.Consistency(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load users")
}

func TestGenerateReportBypassesCache(t *testing.T) {
	users, attendance, engagement := serviceFixtures()
	repo := newMemoryCacheRepo()
	svc := newTestAnalyticsService(users, attendance, engagement, repo)

	report, err := svc.GenerateReport(context.Background(), models.ReportTypeWeekly)
	require.NoError(t, err)
	assert.Equal(t, models.ReportTypeWeekly, report.Type)
	assert.Empty(t, repo.entries)
}

func TestMakeAnalyticsCacheKey(t *testing.T) {
	assert.Equal(t, "analytics:engagement:u1:30", makeAnalyticsCacheKey("engagement", "u1", "30"))
	assert.Equal(t, "analytics:dashboard", makeAnalyticsCacheKey("dashboard", ""))
	assert.Equal(t, "analytics:consistency:a|b", makeAnalyticsCacheKey("consistency", "a:b"))
}
