package analytics

import "math"

// AttendancePercentage computes the share of attendance-positive records
// (present or late) among the user's records dated within the trailing
// window, rounded to the nearest integer. A window with no records yields
// 0. days <= 0 falls back to the default 30-day window.
func (e *Engine) AttendancePercentage(snap Snapshot, userID string, days int) int {
	if days <= 0 {
		days = DefaultWindowDays
	}
	cutoff := e.daysAgo(days)

	total := 0
	positive := 0
	for _, rec := range snap.Attendance {
		if rec.UserID != userID || rec.Date < cutoff {
			continue
		}
		total++
		if rec.Status.Positive() {
			positive++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(positive) / float64(total) * 100))
}
