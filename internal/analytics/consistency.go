package analytics

import (
	"math"
	"sort"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

// Classification thresholds, evaluated in priority order.
const (
	droppedOffAfterDays  = 14
	consistentMinPercent = 90
	consistentMinStreak  = 5
	irregularMinPercent  = 70
	weeklyTrendBuckets   = 4
)

// Consistency classifies a user's attendance regularity from their full
// record history (no window limit). A user with no records at all is
// dropped off with the "Never" last-active sentinel.
//
// The current streak is whatever remains after scanning all records in
// date order: a long-ago streak still counts as current when no absence
// follows it. Recency is enforced separately by the level rules.
func (e *Engine) Consistency(snap Snapshot, userID string) models.ConsistencyData {
	records := make([]models.AttendanceRecord, 0, len(snap.Attendance))
	for _, rec := range snap.Attendance {
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})

	data := models.ConsistencyData{
		UserID:         userID,
		UserName:       snap.UserName(userID),
		Level:          models.LevelDroppedOff,
		LastActiveDate: models.NeverActive,
		WeeklyTrend:    make([]int, weeklyTrendBuckets),
	}
	if len(records) == 0 {
		return data
	}

	streak := 0
	for _, rec := range records {
		if rec.Status.Positive() {
			streak++
			if streak > data.LongestStreak {
				data.LongestStreak = streak
			}
		} else {
			streak = 0
			data.MissedDays++
		}
	}
	data.AttendanceStreak = streak
	data.WeeklyTrend = e.weeklyTrend(records)
	data.LastActiveDate = records[len(records)-1].Date

	rate := e.AttendancePercentage(snap, userID, DefaultWindowDays)
	switch {
	case e.daysSince(data.LastActiveDate) > droppedOffAfterDays:
		data.Level = models.LevelDroppedOff
	case rate >= consistentMinPercent && data.AttendanceStreak >= consistentMinStreak:
		data.Level = models.LevelConsistent
	case rate >= irregularMinPercent:
		data.Level = models.LevelIrregular
	default:
		data.Level = models.LevelAtRisk
	}
	return data
}

// weeklyTrend computes the attendance-positive percentage for each of the
// four most recent 7-day buckets, oldest bucket first. Empty buckets score
// 0. Bucket edges come from date arithmetic, independent of the streak
// scan.
func (e *Engine) weeklyTrend(records []models.AttendanceRecord) []int {
	trend := make([]int, 0, weeklyTrendBuckets)
	for week := weeklyTrendBuckets - 1; week >= 0; week-- {
		start := e.daysAgo((week + 1) * 7)
		end := e.daysAgo(week * 7)

		total := 0
		positive := 0
		for _, rec := range records {
			if rec.Date < start || rec.Date >= end {
				continue
			}
			total++
			if rec.Status.Positive() {
				positive++
			}
		}
		if total == 0 {
			trend = append(trend, 0)
			continue
		}
		trend = append(trend, int(math.Round(float64(positive)/float64(total)*100)))
	}
	return trend
}
