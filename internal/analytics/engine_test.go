package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

var fixedNow = time.Date(2025, time.March, 15, 10, 30, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine(func() time.Time { return fixedNow })
}

// day returns the calendar day n days before the pinned clock.
func day(n int) string {
	return fixedNow.AddDate(0, 0, -n).Format(models.DateLayout)
}

func trackableUser(id, name string) models.User {
	return models.User{ID: id, FullName: name, Email: id + "@example.com", Role: models.RoleEmployee, Active: true}
}

func presentOn(userID string, daysAgo int) models.AttendanceRecord {
	return models.AttendanceRecord{ID: userID + "-a-" + day(daysAgo), UserID: userID, Date: day(daysAgo), Status: models.StatusPresent}
}

func absentOn(userID string, daysAgo int) models.AttendanceRecord {
	return models.AttendanceRecord{ID: userID + "-b-" + day(daysAgo), UserID: userID, Date: day(daysAgo), Status: models.StatusAbsent}
}

func lateOn(userID string, daysAgo int) models.AttendanceRecord {
	return models.AttendanceRecord{ID: userID + "-c-" + day(daysAgo), UserID: userID, Date: day(daysAgo), Status: models.StatusLate}
}

func sampleOn(userID string, daysAgo, logins, minutes, interactions int) models.EngagementSample {
	return models.EngagementSample{
		ID:               userID + "-e-" + day(daysAgo),
		UserID:           userID,
		Date:             day(daysAgo),
		LoginCount:       logins,
		TimeSpentMinutes: minutes,
		InteractionCount: interactions,
	}
}

func TestAttendancePercentageNoRecords(t *testing.T) {
	e := testEngine()

	assert.Equal(t, 0, e.AttendancePercentage(Snapshot{}, "u1", 30))
}

func TestAttendancePercentageAllAbsent(t *testing.T) {
	e := testEngine()
	snap := Snapshot{}
	for i := 0; i < 10; i++ {
		snap.Attendance = append(snap.Attendance, absentOn("u1", i))
	}

	assert.Equal(t, 0, e.AttendancePercentage(snap, "u1", 30))
}

func TestAttendancePercentageLateCountsAsPresent(t *testing.T) {
	e := testEngine()
	snap := Snapshot{}
	for i := 0; i < 18; i++ {
		snap.Attendance = append(snap.Attendance, presentOn("u1", i))
	}
	snap.Attendance = append(snap.Attendance, lateOn("u1", 18), lateOn("u1", 19))
	for i := 20; i < 30; i++ {
		snap.Attendance = append(snap.Attendance, absentOn("u1", i))
	}

	// 20 positive out of 30 rounds to 67.
	assert.Equal(t, 67, e.AttendancePercentage(snap, "u1", 30))
}

func TestAttendancePercentageIgnoresOtherUsersAndOldRecords(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Attendance: []models.AttendanceRecord{
		presentOn("u1", 1),
		absentOn("u1", 45),
		absentOn("u2", 1),
	}}

	assert.Equal(t, 100, e.AttendancePercentage(snap, "u1", 30))
}

func TestAttendancePercentageDefaultWindow(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Attendance: []models.AttendanceRecord{
		presentOn("u1", 5),
		absentOn("u1", 45),
	}}

	assert.Equal(t, 100, e.AttendancePercentage(snap, "u1", 0))
}

func TestEngagementScoreNoSamples(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Users: []models.User{trackableUser("u1", "Ava Stone")}}

	score := e.EngagementScore(snap, "u1", 30)

	assert.Equal(t, "u1", score.UserID)
	assert.Equal(t, "Ava Stone", score.UserName)
	assert.Equal(t, 0, score.OverallScore)
	assert.Equal(t, 0, score.LoginScore)
	assert.Equal(t, 0, score.TimeScore)
	assert.Equal(t, 0, score.InteractionScore)
	assert.Equal(t, 0, score.ConsistencyScore)
	assert.Equal(t, models.TrendStable, score.Trend)
}

func TestEngagementScoreUnknownUserName(t *testing.T) {
	e := testEngine()

	score := e.EngagementScore(Snapshot{}, "ghost", 30)

	assert.Equal(t, "Unknown", score.UserName)
}

func TestEngagementScoreFullSaturation(t *testing.T) {
	e := testEngine()
	snap := Snapshot{}
	for i := 0; i < 30; i++ {
		snap.Engagement = append(snap.Engagement, sampleOn("u1", i, 5, 120, 50))
	}

	score := e.EngagementScore(snap, "u1", 30)

	assert.Equal(t, 100, score.LoginScore)
	assert.Equal(t, 100, score.TimeScore)
	assert.Equal(t, 100, score.InteractionScore)
	assert.Equal(t, 100, score.ConsistencyScore)
	assert.Equal(t, 100, score.OverallScore)
}

func TestEngagementScoreClampsAboveSaturation(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Engagement: []models.EngagementSample{
		sampleOn("u1", 1, 50, 600, 400),
	}}

	score := e.EngagementScore(snap, "u1", 30)

	assert.Equal(t, 100, score.LoginScore)
	assert.Equal(t, 100, score.TimeScore)
	assert.Equal(t, 100, score.InteractionScore)
}

func TestEngagementScoreSamplingDensity(t *testing.T) {
	e := testEngine()
	snap := Snapshot{}
	for i := 0; i < 10; i++ {
		snap.Engagement = append(snap.Engagement, sampleOn("u1", i, 5, 120, 50))
	}

	score := e.EngagementScore(snap, "u1", 30)

	// 10 samples over a 30-day window.
	assert.Equal(t, 33, score.ConsistencyScore)
	assert.Equal(t, 83, score.OverallScore)
}

func TestEngagementTrendImproving(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Engagement: []models.EngagementSample{
		sampleOn("u1", 10, 1, 30, 0),
		sampleOn("u1", 9, 1, 30, 0),
		sampleOn("u1", 2, 10, 30, 0),
		sampleOn("u1", 1, 10, 30, 0),
	}}

	assert.Equal(t, models.TrendImproving, e.EngagementScore(snap, "u1", 30).Trend)
}

func TestEngagementTrendDeclining(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Engagement: []models.EngagementSample{
		sampleOn("u1", 10, 10, 30, 0),
		sampleOn("u1", 9, 10, 30, 0),
		sampleOn("u1", 2, 1, 30, 0),
		sampleOn("u1", 1, 1, 30, 0),
	}}

	assert.Equal(t, models.TrendDeclining, e.EngagementScore(snap, "u1", 30).Trend)
}

func TestEngagementTrendStable(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Engagement: []models.EngagementSample{
		sampleOn("u1", 3, 4, 30, 0),
		sampleOn("u1", 2, 4, 30, 0),
		sampleOn("u1", 1, 4, 30, 0),
		sampleOn("u1", 0, 4, 30, 0),
	}}

	assert.Equal(t, models.TrendStable, e.EngagementScore(snap, "u1", 30).Trend)
}

func TestEngagementTrendUnsortedInput(t *testing.T) {
	e := testEngine()
	// Newest first in the snapshot; the trend split must still see them
	// chronologically.
	snap := Snapshot{Engagement: []models.EngagementSample{
		sampleOn("u1", 1, 10, 30, 0),
		sampleOn("u1", 2, 10, 30, 0),
		sampleOn("u1", 9, 1, 30, 0),
		sampleOn("u1", 10, 1, 30, 0),
	}}

	assert.Equal(t, models.TrendImproving, e.EngagementScore(snap, "u1", 30).Trend)
}

func TestSnapshotTrackableUsersPreservesOrder(t *testing.T) {
	snap := Snapshot{Users: []models.User{
		trackableUser("u1", "Ava Stone"),
		{ID: "a1", FullName: "Site Admin", Role: models.RoleAdmin, Active: true},
		trackableUser("u2", "Ben Reyes"),
		{ID: "t1", FullName: "Ana Cruz", Role: models.RoleTeacher, Active: true},
		trackableUser("u3", "Cara Lim"),
	}}

	trackable := snap.TrackableUsers()

	require.Len(t, trackable, 3)
	assert.Equal(t, "u1", trackable[0].ID)
	assert.Equal(t, "u2", trackable[1].ID)
	assert.Equal(t, "u3", trackable[2].ID)
}
