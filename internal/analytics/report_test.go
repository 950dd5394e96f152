package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

func TestGenerateReportEmptySnapshot(t *testing.T) {
	e := testEngine()

	report := e.GenerateReport(Snapshot{}, models.ReportTypeWeekly)

	assert.Equal(t, models.ReportTypeWeekly, report.Type)
	assert.Equal(t, 0, report.Summary.TotalUsers)
	assert.Equal(t, 0, report.Summary.AverageAttendance)
	assert.Equal(t, 0, report.Summary.AverageEngagement)
	assert.Empty(t, report.UserStats)
}

func TestGenerateReportIDAndPeriod(t *testing.T) {
	e := testEngine()

	report := e.GenerateReport(Snapshot{}, models.ReportTypeDaily)

	assert.Equal(t, fmt.Sprintf("report-%d", fixedNow.UnixMilli()), report.ID)
	assert.Equal(t, "2025-03-15T10:30:00.000Z", report.GeneratedAt)
	assert.Equal(t, day(1), report.Period.Start)
	assert.Equal(t, day(0), report.Period.End)
}

func TestGenerateReportMonthlyWindow(t *testing.T) {
	e := testEngine()

	report := e.GenerateReport(Snapshot{}, models.ReportTypeMonthly)

	assert.Equal(t, day(30), report.Period.Start)
}

func TestGenerateReportRowsAndSummary(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Users: []models.User{
		trackableUser("u1", "Ava Stone"),
		trackableUser("u2", "Ben Reyes"),
		{ID: "a1", FullName: "Site Admin", Role: models.RoleAdmin, Active: true},
	}}
	snap.Users[0].Department = "Engineering"
	for i := 0; i < 7; i++ {
		snap.Attendance = append(snap.Attendance, presentOn("u1", i), absentOn("u2", i))
		snap.Engagement = append(snap.Engagement, sampleOn("u1", i, 5, 120, 50))
	}

	report := e.GenerateReport(snap, models.ReportTypeWeekly)

	require.Len(t, report.UserStats, 2)
	assert.Equal(t, 2, report.Summary.TotalUsers)

	ava := report.UserStats[0]
	assert.Equal(t, "u1", ava.UserID)
	assert.Equal(t, "Engineering", ava.Department)
	assert.Equal(t, 100, ava.AttendancePercentage)
	assert.Equal(t, 100, ava.EngagementScore)
	assert.Equal(t, models.LevelConsistent, ava.ConsistencyLevel)

	ben := report.UserStats[1]
	assert.Equal(t, "N/A", ben.Department)
	assert.Equal(t, 0, ben.AttendancePercentage)
	assert.Equal(t, 0, ben.EngagementScore)

	assert.Equal(t, 50, report.Summary.AverageAttendance)
	assert.Equal(t, 50, report.Summary.AverageEngagement)
}

func TestGenerateReportConsistencyIgnoresReportWindow(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Users: []models.User{trackableUser("u1", "Ava Stone")}}
	// Activity ended 10 days ago. A daily report window sees none of it,
	// but the consistency classifier still does.
	for i := 19; i >= 10; i-- {
		snap.Attendance = append(snap.Attendance, presentOn("u1", i))
	}

	report := e.GenerateReport(snap, models.ReportTypeDaily)

	require.Len(t, report.UserStats, 1)
	assert.Equal(t, 0, report.UserStats[0].AttendancePercentage)
	assert.Equal(t, models.LevelConsistent, report.UserStats[0].ConsistencyLevel)
}
