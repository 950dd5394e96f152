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

func engagementRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "date", "login_count", "time_spent_minutes", "interaction_count", "tasks_completed", "responses_submitted", "created_at", "updated_at"}).
		AddRow("e1", "u1", "2025-03-15", 3, 90, 25, 4, 2, now, now)
}

func TestEngagementListAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEngagementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM engagement_samples ORDER BY date ASC")).
		WillReturnRows(engagementRows(time.Now()))

	samples, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 3, samples[0].LoginCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementRecordAccumulates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEngagementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("login_count = engagement_samples.login_count + EXCLUDED.login_count")).
		WillReturnRows(engagementRows(time.Now()))

	stored, err := repo.Record(context.Background(), &models.EngagementSample{
		UserID:           "u1",
		Date:             "2025-03-15",
		LoginCount:       1,
		TimeSpentMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", stored.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngagementListByRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEngagementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND user_id = $1 AND date >= $2 AND date <= $3")).
		WithArgs("u1", "2025-03-01", "2025-03-15").
		WillReturnRows(engagementRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM engagement_samples")).
		WithArgs("u1", "2025-03-01", "2025-03-15").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows, total, err := repo.List(context.Background(), models.EngagementFilter{UserID: "u1", DateFrom: "2025-03-01", DateTo: "2025-03-15"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
