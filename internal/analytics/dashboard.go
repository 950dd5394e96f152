package analytics

import (
	"sort"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

// activeWithinDays bounds the dashboard's active-user count.
const activeWithinDays = 7

// DashboardStats aggregates the organization-wide snapshot: averages over
// all trackable users, the engagement leaderboard, today's attendance
// split, and the recently-active count. Empty trackable sets yield zeroed
// averages and an empty leaderboard.
func (e *Engine) DashboardStats(snap Snapshot) models.DashboardStats {
	trackable := snap.TrackableUsers()

	stats := models.DashboardStats{
		TotalUsers:      len(trackable),
		TopEngagedUsers: []models.TopEngagedUser{},
	}

	attendanceSum := 0
	engagementSum := 0
	scores := make([]models.EngagementScore, 0, len(trackable))
	for _, user := range trackable {
		attendanceSum += e.AttendancePercentage(snap, user.ID, DefaultWindowDays)
		score := e.EngagementScore(snap, user.ID, DefaultWindowDays)
		engagementSum += score.OverallScore
		scores = append(scores, score)
	}
	stats.AverageAttendance = roundMean(attendanceSum, len(trackable))
	stats.AverageEngagement = roundMean(engagementSum, len(trackable))

	// Stable sort keeps encounter order as the tie-break.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].OverallScore > scores[j].OverallScore
	})
	for i := 0; i < len(scores) && i < TopEngagedLimit; i++ {
		stats.TopEngagedUsers = append(stats.TopEngagedUsers, models.TopEngagedUser{
			UserID: scores[i].UserID,
			Name:   scores[i].UserName,
			Score:  scores[i].OverallScore,
		})
	}

	today := e.today()
	for _, rec := range snap.Attendance {
		if rec.Date != today {
			continue
		}
		switch rec.Status {
		case models.StatusPresent:
			stats.AttendanceToday.Present++
		case models.StatusAbsent:
			stats.AttendanceToday.Absent++
		case models.StatusLate:
			stats.AttendanceToday.Late++
		}
	}

	for _, user := range trackable {
		lastActive := e.Consistency(snap, user.ID).LastActiveDate
		if lastActive == models.NeverActive {
			continue
		}
		if e.daysSince(lastActive) <= activeWithinDays {
			stats.ActiveUsers++
		}
	}
	return stats
}
