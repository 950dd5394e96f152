package analytics

import (
	"math"
	"strings"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

// chartLabelLayout is the short human date printed on chart axes.
const chartLabelLayout = "Jan 02"

// AttendanceTrend builds the day-indexed present/absent series for the
// trailing window, oldest day first. Present counts include late arrivals.
func (e *Engine) AttendanceTrend(snap Snapshot, days int) models.AttendanceTrend {
	if days <= 0 {
		days = DefaultTrendDays
	}
	trend := models.AttendanceTrend{
		Dates:   make([]string, 0, days),
		Present: make([]int, 0, days),
		Absent:  make([]int, 0, days),
	}
	for i := days - 1; i >= 0; i-- {
		day := e.now().AddDate(0, 0, -i)
		date := day.Format(models.DateLayout)

		present := 0
		absent := 0
		for _, rec := range snap.Attendance {
			if rec.Date != date {
				continue
			}
			if rec.Status.Positive() {
				present++
			} else {
				absent++
			}
		}
		trend.Dates = append(trend.Dates, day.Format(chartLabelLayout))
		trend.Present = append(trend.Present, present)
		trend.Absent = append(trend.Absent, absent)
	}
	return trend
}

// EngagementTrend builds the day-indexed series of average simplified
// engagement scores, oldest day first. Days without samples score 0.
func (e *Engine) EngagementTrend(snap Snapshot, days int) models.EngagementTrend {
	if days <= 0 {
		days = DefaultTrendDays
	}
	trend := models.EngagementTrend{
		Dates:  make([]string, 0, days),
		Scores: make([]int, 0, days),
	}
	for i := days - 1; i >= 0; i-- {
		day := e.now().AddDate(0, 0, -i)
		date := day.Format(models.DateLayout)

		var sum float64
		count := 0
		for _, sample := range snap.Engagement {
			if sample.Date != date {
				continue
			}
			sum += dailySampleScore(sample)
			count++
		}
		score := 0
		if count > 0 {
			score = int(math.Round(sum / float64(count)))
		}
		trend.Dates = append(trend.Dates, day.Format(chartLabelLayout))
		trend.Scores = append(trend.Scores, score)
	}
	return trend
}

// UserComparison builds parallel first-name/attendance/engagement arrays
// for the first seven trackable users in snapshot order. The truncation is
// deliberately order-based, there is no ranking step.
func (e *Engine) UserComparison(snap Snapshot) models.UserComparison {
	trackable := snap.TrackableUsers()
	if len(trackable) > ComparisonUserLimit {
		trackable = trackable[:ComparisonUserLimit]
	}

	comparison := models.UserComparison{
		Names:      make([]string, 0, len(trackable)),
		Attendance: make([]int, 0, len(trackable)),
		Engagement: make([]int, 0, len(trackable)),
	}
	for _, user := range trackable {
		comparison.Names = append(comparison.Names, firstName(user.FullName))
		comparison.Attendance = append(comparison.Attendance, e.AttendancePercentage(snap, user.ID, DefaultWindowDays))
		comparison.Engagement = append(comparison.Engagement, e.EngagementScore(snap, user.ID, DefaultWindowDays).OverallScore)
	}
	return comparison
}

func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return fullName
	}
	return fields[0]
}
