package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/engage-dash-api/internal/models"
	appErrors "github.com/noah-isme/engage-dash-api/pkg/errors"
)

// analyticsInvalidator drops derived analytics after a write.
type analyticsInvalidator interface {
	Invalidate(ctx context.Context)
}

type attendanceRepository interface {
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error)
	Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	Delete(ctx context.Context, userID, date string) error
}

type userLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// MarkAttendanceRequest carries an attendance mark for one user and day.
type MarkAttendanceRequest struct {
	UserID   string
	Date     string
	Time     string
	Status   models.AttendanceStatus
	MarkedBy string
	Notes    *string
}

// AttendanceService manages attendance records and keeps derived
// analytics coherent by invalidating them on every write.
type AttendanceService struct {
	repo      attendanceRepository
	users     userLookup
	analytics analyticsInvalidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs an attendance service.
func NewAttendanceService(repo attendanceRepository, users userLookup, analytics analyticsInvalidator, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, users: users, analytics: analytics, logger: logger, now: time.Now}
}

// Mark records or overwrites the attendance for a (user, date) pair. An
// empty date defaults to today and an empty time to the current clock
// time. Only trackable users may be marked.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if req.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be present, absent or late")
	}

	now := s.now().UTC()
	if req.Date == "" {
		req.Date = now.Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use the YYYY-MM-DD format")
	}
	if req.Time == "" {
		req.Time = now.Format("15:04")
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if !user.Role.Trackable() {
		return nil, appErrors.Clone(appErrors.ErrNotTrackable, "attendance is only tracked for students and employees")
	}

	stored, err := s.repo.Upsert(ctx, &models.AttendanceRecord{
		UserID:   req.UserID,
		Date:     req.Date,
		Time:     req.Time,
		Status:   req.Status,
		MarkedBy: req.MarkedBy,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attendance")
	}

	if s.analytics != nil {
		s.analytics.Invalidate(ctx)
	}
	return stored, nil
}

// List returns attendance records matching the filter with pagination.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return records, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Unmark removes the attendance record for a (user, date) pair.
func (s *AttendanceService) Unmark(ctx context.Context, userID, date string) error {
	if userID == "" || date == "" {
		return appErrors.Clone(appErrors.ErrValidation, "user id and date are required")
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "date must use the YYYY-MM-DD format")
	}
	if err := s.repo.Delete(ctx, userID, date); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete attendance")
	}
	if s.analytics != nil {
		s.analytics.Invalidate(ctx)
	}
	return nil
}
