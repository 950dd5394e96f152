package models

import "time"

// EngagementTrendDirection classifies the short-term direction of a user's
// engagement within a window.
type EngagementTrendDirection string

const (
	TrendImproving EngagementTrendDirection = "improving"
	TrendStable    EngagementTrendDirection = "stable"
	TrendDeclining EngagementTrendDirection = "declining"
)

// EngagementScore is the derived multi-factor score breakdown for one user.
// All scores are normalized to [0, 100].
type EngagementScore struct {
	UserID           string                   `json:"userId"`
	UserName         string                   `json:"userName"`
	OverallScore     int                      `json:"overallScore"`
	LoginScore       int                      `json:"loginScore"`
	TimeScore        int                      `json:"timeScore"`
	InteractionScore int                      `json:"interactionScore"`
	ConsistencyScore int                      `json:"consistencyScore"`
	Trend            EngagementTrendDirection `json:"trend"`
}

// ConsistencyLevel is a four-valued classification of attendance regularity.
type ConsistencyLevel string

const (
	LevelConsistent ConsistencyLevel = "consistent"
	LevelIrregular  ConsistencyLevel = "irregular"
	LevelAtRisk     ConsistencyLevel = "at-risk"
	LevelDroppedOff ConsistencyLevel = "dropped-off"
)

// NeverActive is the sentinel last-active date for users without a single
// attendance record.
const NeverActive = "Never"

// ConsistencyData describes a user's attendance regularity.
type ConsistencyData struct {
	UserID           string           `json:"userId"`
	UserName         string           `json:"userName"`
	Level            ConsistencyLevel `json:"level"`
	AttendanceStreak int              `json:"attendanceStreak"`
	LongestStreak    int              `json:"longestStreak"`
	MissedDays       int              `json:"missedDays"`
	LastActiveDate   string           `json:"lastActiveDate"`
	WeeklyTrend      []int            `json:"weeklyTrend"`
}

// TopEngagedUser is one leaderboard entry on the dashboard.
type TopEngagedUser struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// AttendanceTodayCounts splits today's attendance records by status.
type AttendanceTodayCounts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
}

// DashboardStats is the organization-wide snapshot shown on the admin
// dashboard. Only trackable users feed the averages and rankings.
type DashboardStats struct {
	TotalUsers        int                   `json:"totalUsers"`
	ActiveUsers       int                   `json:"activeUsers"`
	AverageAttendance int                   `json:"averageAttendance"`
	AverageEngagement int                   `json:"averageEngagement"`
	TopEngagedUsers   []TopEngagedUser      `json:"topEngagedUsers"`
	AttendanceToday   AttendanceTodayCounts `json:"attendanceToday"`
}

// AttendanceTrend is a day-indexed series of attendance counts, ordered
// oldest to newest.
type AttendanceTrend struct {
	Dates   []string `json:"dates"`
	Present []int    `json:"present"`
	Absent  []int    `json:"absent"`
}

// EngagementTrend is a day-indexed series of average daily engagement
// scores, ordered oldest to newest.
type EngagementTrend struct {
	Dates  []string `json:"dates"`
	Scores []int    `json:"scores"`
}

// SystemMetrics is an aggregated instrumentation snapshot exposed to
// operators alongside the Prometheus endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// UserComparison holds parallel arrays for the cross-user comparison chart.
type UserComparison struct {
	Names      []string `json:"names"`
	Attendance []int    `json:"attendance"`
	Engagement []int    `json:"engagement"`
}
