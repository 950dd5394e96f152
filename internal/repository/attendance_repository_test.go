package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

func attendanceRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "date", "time", "status", "marked_by", "notes", "created_at", "updated_at"}).
		AddRow("r1", "u1", "2025-03-15", "09:00", string(models.StatusPresent), "u1", nil, now, now)
}

func TestAttendanceListAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("to_char(date, 'YYYY-MM-DD') AS date")).
		WillReturnRows(attendanceRows(time.Now()))

	records, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-03-15", records[0].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceListByUserAndRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND user_id = $1 AND date >= $2")).
		WithArgs("u1", "2025-03-01").
		WillReturnRows(attendanceRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM attendance_records WHERE 1=1 AND user_id = $1 AND date >= $2")).
		WithArgs("u1", "2025-03-01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows, total, err := repo.List(context.Background(), models.AttendanceFilter{UserID: "u1", DateFrom: "2025-03-01"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (user_id, date)")).
		WillReturnRows(attendanceRows(time.Now()))

	stored, err := repo.Upsert(context.Background(), &models.AttendanceRecord{
		UserID: "u1",
		Date:   "2025-03-15",
		Time:   "09:00",
		Status: models.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, models.StatusPresent, stored.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance_records WHERE user_id = $1 AND date = $2")).
		WithArgs("u1", "2025-03-15").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "u1", "2025-03-15")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
