package analytics

import (
	"fmt"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

// reportTimeLayout matches the ISO timestamp stamped on generated reports.
const reportTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// GenerateReport assembles a point-in-time report for the window mapped to
// the report type (daily=1, weekly=7, monthly=30). Attendance and
// engagement rows use the mapped window; the consistency level always
// reflects the classifier's own fixed lookback regardless of report type,
// so a daily report still carries a 30-day-style classification.
func (e *Engine) GenerateReport(snap Snapshot, reportType models.ReportType) models.Report {
	days := reportType.WindowDays()
	now := e.now()
	trackable := snap.TrackableUsers()

	userStats := make([]models.ReportUserStat, 0, len(trackable))
	attendanceSum := 0
	engagementSum := 0
	for _, user := range trackable {
		attendance := e.AttendancePercentage(snap, user.ID, days)
		engagement := e.EngagementScore(snap, user.ID, days).OverallScore
		attendanceSum += attendance
		engagementSum += engagement

		department := user.Department
		if department == "" {
			department = "N/A"
		}
		userStats = append(userStats, models.ReportUserStat{
			UserID:               user.ID,
			Name:                 user.FullName,
			Email:                user.Email,
			Department:           department,
			AttendancePercentage: attendance,
			EngagementScore:      engagement,
			ConsistencyLevel:     e.Consistency(snap, user.ID).Level,
		})
	}

	return models.Report{
		ID:          fmt.Sprintf("report-%d", now.UnixMilli()),
		Type:        reportType,
		GeneratedAt: now.UTC().Format(reportTimeLayout),
		Period: models.ReportPeriod{
			Start: now.AddDate(0, 0, -days).Format(models.DateLayout),
			End:   now.Format(models.DateLayout),
		},
		Summary: models.ReportSummary{
			TotalUsers:        len(trackable),
			AverageAttendance: roundMean(attendanceSum, len(userStats)),
			AverageEngagement: roundMean(engagementSum, len(userStats)),
		},
		UserStats: userStats,
	}
}
