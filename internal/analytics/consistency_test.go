package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

func TestConsistencyNoHistory(t *testing.T) {
	e := testEngine()

	data := e.Consistency(Snapshot{}, "u1")

	assert.Equal(t, models.LevelDroppedOff, data.Level)
	assert.Equal(t, models.NeverActive, data.LastActiveDate)
	assert.Equal(t, 0, data.AttendanceStreak)
	assert.Equal(t, 0, data.LongestStreak)
	assert.Equal(t, 0, data.MissedDays)
	assert.Equal(t, []int{0, 0, 0, 0}, data.WeeklyTrend)
}

func TestConsistencyConsistentStreak(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Users: []models.User{trackableUser("u1", "Ava Stone")}}
	for i := 9; i >= 0; i-- {
		snap.Attendance = append(snap.Attendance, presentOn("u1", i))
	}

	data := e.Consistency(snap, "u1")

	assert.Equal(t, models.LevelConsistent, data.Level)
	assert.Equal(t, 10, data.AttendanceStreak)
	assert.Equal(t, 10, data.LongestStreak)
	assert.Equal(t, 0, data.MissedDays)
	assert.Equal(t, day(0), data.LastActiveDate)
}

func TestConsistencyStreakResetByAbsence(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Attendance: []models.AttendanceRecord{
		presentOn("u1", 5),
		presentOn("u1", 4),
		presentOn("u1", 3),
		absentOn("u1", 2),
		presentOn("u1", 1),
		presentOn("u1", 0),
	}}

	data := e.Consistency(snap, "u1")

	assert.Equal(t, 2, data.AttendanceStreak)
	assert.Equal(t, 3, data.LongestStreak)
	assert.Equal(t, 1, data.MissedDays)
}

func TestConsistencySingleOldRecordDropsOff(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Attendance: []models.AttendanceRecord{presentOn("u1", 20)}}

	data := e.Consistency(snap, "u1")

	assert.Equal(t, models.LevelDroppedOff, data.Level)
	assert.Equal(t, day(20), data.LastActiveDate)
	assert.Equal(t, 1, data.AttendanceStreak)
}

func TestConsistencyIrregular(t *testing.T) {
	e := testEngine()
	snap := Snapshot{}
	// 8 of 10 positive in the trailing month, recent, short streak.
	for i := 9; i >= 2; i-- {
		snap.Attendance = append(snap.Attendance, presentOn("u1", i))
	}
	snap.Attendance = append(snap.Attendance, absentOn("u1", 1), presentOn("u1", 0))

	data := e.Consistency(snap, "u1")

	assert.Equal(t, models.LevelIrregular, data.Level)
	assert.Equal(t, 1, data.AttendanceStreak)
}

func TestConsistencyAtRisk(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Attendance: []models.AttendanceRecord{
		presentOn("u1", 6),
		absentOn("u1", 4),
		absentOn("u1", 2),
		presentOn("u1", 0),
	}}

	data := e.Consistency(snap, "u1")

	assert.Equal(t, models.LevelAtRisk, data.Level)
}

func TestConsistencyWeeklyTrendBuckets(t *testing.T) {
	e := testEngine()
	snap := Snapshot{}
	for i := 9; i >= 0; i-- {
		snap.Attendance = append(snap.Attendance, presentOn("u1", i))
	}

	data := e.Consistency(snap, "u1")

	// Records span the two most recent buckets only. Today's record sits
	// outside the newest bucket's half-open range.
	require.Len(t, data.WeeklyTrend, 4)
	assert.Equal(t, []int{0, 0, 100, 100}, data.WeeklyTrend)
}

func TestConsistencyUnsortedHistory(t *testing.T) {
	e := testEngine()
	snap := Snapshot{Attendance: []models.AttendanceRecord{
		presentOn("u1", 0),
		absentOn("u1", 2),
		presentOn("u1", 1),
		presentOn("u1", 3),
	}}

	data := e.Consistency(snap, "u1")

	assert.Equal(t, 2, data.AttendanceStreak)
	assert.Equal(t, day(0), data.LastActiveDate)
}
