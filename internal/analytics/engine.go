// Package analytics derives attendance and engagement metrics from an
// in-memory snapshot of the record store. Every function is pure with
// respect to its inputs and total over well-formed data: degenerate input
// (no records, empty window, unknown user) yields zero values, never an
// error. The only ambient dependency is the clock, which is injected so
// callers can pin "now" in tests.
package analytics

import (
	"math"
	"time"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

const (
	// DefaultWindowDays bounds per-user metric lookback.
	DefaultWindowDays = 30
	// DefaultTrendDays bounds the day-indexed chart series.
	DefaultTrendDays = 14
	// TopEngagedLimit caps the dashboard leaderboard.
	TopEngagedLimit = 5
	// ComparisonUserLimit caps the cross-user comparison chart.
	ComparisonUserLimit = 7
)

// Snapshot is the immutable full read of the record store collections that
// feeds every derivation. All windowing happens here, not in storage.
type Snapshot struct {
	Users      []models.User
	Attendance []models.AttendanceRecord
	Engagement []models.EngagementSample
}

// UserName resolves a display name, falling back to a placeholder so a
// missing user never fails a whole computation.
func (s Snapshot) UserName(userID string) string {
	for _, u := range s.Users {
		if u.ID == userID {
			return u.FullName
		}
	}
	return "Unknown"
}

// TrackableUsers returns the users subject to analytics, preserving
// snapshot order. Encounter order is the documented tie-break for every
// ranking and truncation downstream.
func (s Snapshot) TrackableUsers() []models.User {
	trackable := make([]models.User, 0, len(s.Users))
	for _, u := range s.Users {
		if u.Role.Trackable() {
			trackable = append(trackable, u)
		}
	}
	return trackable
}

// Engine computes derived metrics over snapshots.
type Engine struct {
	now func() time.Time
}

// NewEngine constructs an engine. A nil clock defaults to time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// today returns the current calendar day.
func (e *Engine) today() string {
	return e.now().Format(models.DateLayout)
}

// daysAgo returns the calendar day n days before now. daysAgo(0) is today.
func (e *Engine) daysAgo(n int) string {
	return e.now().AddDate(0, 0, -n).Format(models.DateLayout)
}

// daysSince counts full days elapsed between the given calendar day and
// now. Malformed dates parse to the zero time and report a huge elapse,
// which classifies the user as dropped off rather than failing.
func (e *Engine) daysSince(date string) int {
	parsed, _ := time.Parse(models.DateLayout, date)
	return int(e.now().Sub(parsed).Hours() / 24)
}

// roundMean rounds sum/count, guarding the empty set to 0.
func roundMean(sum, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

// min100 caps a sub-score at its saturation ceiling.
func min100(v float64) float64 {
	return math.Min(100, v)
}
