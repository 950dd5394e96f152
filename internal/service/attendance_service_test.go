package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/engage-dash-api/internal/models"
	appErrors "github.com/noah-isme/engage-dash-api/pkg/errors"
)

type fakeAttendanceRepo struct {
	stored  *models.AttendanceRecord
	deleted []string
	records []models.AttendanceRecord
	total   int
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	return f.records, f.total, nil
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	f.stored = record
	out := *record
	out.ID = "att-1"
	return &out, nil
}

func (f *fakeAttendanceRepo) Delete(ctx context.Context, userID, date string) error {
	f.deleted = append(f.deleted, userID+"/"+date)
	return nil
}

type fakeUserLookup struct {
	users map[string]*models.User
}

func (f *fakeUserLookup) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) {
	f.calls++
}

func newTestAttendanceService(repo *fakeAttendanceRepo, invalidator *fakeInvalidator) *AttendanceService {
	users := &fakeUserLookup{users: map[string]*models.User{
		"u1": {ID: "u1", Role: models.RoleStudent, Active: true},
		"adm": {ID: "adm", Role: models.RoleAdmin, Active: true},
	}}
	svc := NewAttendanceService(repo, users, invalidator, nil)
	svc.now = fixedNowService
	return svc
}

func TestMarkDefaultsDateAndTime(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	invalidator := &fakeInvalidator{}
	svc := newTestAttendanceService(repo, invalidator)

	stored, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		UserID: "u1",
		Status: models.StatusPresent,
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", stored.Date)
	assert.Equal(t, "10:30", stored.Time)
	assert.Equal(t, 1, invalidator.calls)
}

func TestMarkRejectsInvalidStatus(t *testing.T) {
	svc := newTestAttendanceService(&fakeAttendanceRepo{}, &fakeInvalidator{})

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{UserID: "u1", Status: "vacation"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestMarkRejectsMalformedDate(t *testing.T) {
	svc := newTestAttendanceService(&fakeAttendanceRepo{}, &fakeInvalidator{})

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		UserID: "u1",
		Date:   "15/03/2025",
		Status: models.StatusPresent,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestMarkRejectsUntrackableRole(t *testing.T) {
	invalidator := &fakeInvalidator{}
	svc := newTestAttendanceService(&fakeAttendanceRepo{}, invalidator)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{UserID: "adm", Status: models.StatusPresent})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotTrackable.Code, appErr.Code)
	assert.Zero(t, invalidator.calls)
}

func TestMarkUnknownUser(t *testing.T) {
	svc := newTestAttendanceService(&fakeAttendanceRepo{}, &fakeInvalidator{})

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{UserID: "ghost", Status: models.StatusPresent})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestUnmarkInvalidatesAnalytics(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	invalidator := &fakeInvalidator{}
	svc := newTestAttendanceService(repo, invalidator)

	require.NoError(t, svc.Unmark(context.Background(), "u1", "2025-03-14"))
	assert.Equal(t, []string{"u1/2025-03-14"}, repo.deleted)
	assert.Equal(t, 1, invalidator.calls)
}

func TestListAttendanceNormalizesPagination(t *testing.T) {
	repo := &fakeAttendanceRepo{total: 3}
	svc := newTestAttendanceService(repo, &fakeInvalidator{})

	_, pagination, err := svc.List(context.Background(), models.AttendanceFilter{Page: 0, PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 50, pagination.PageSize)
	assert.Equal(t, 3, pagination.TotalCount)
}
