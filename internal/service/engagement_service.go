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

type engagementRepository interface {
	List(ctx context.Context, filter models.EngagementFilter) ([]models.EngagementSample, int, error)
	Record(ctx context.Context, sample *models.EngagementSample) (*models.EngagementSample, error)
}

// RecordEngagementRequest carries daily activity counters for one user.
// Counters are deltas that accumulate onto any sample already stored for
// the day.
type RecordEngagementRequest struct {
	UserID             string
	Date               string
	LoginCount         int
	TimeSpentMinutes   int
	InteractionCount   int
	TasksCompleted     int
	ResponsesSubmitted int
}

// EngagementService manages engagement samples.
type EngagementService struct {
	repo      engagementRepository
	users     userLookup
	analytics analyticsInvalidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewEngagementService constructs an engagement service.
func NewEngagementService(repo engagementRepository, users userLookup, analytics analyticsInvalidator, logger *zap.Logger) *EngagementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngagementService{repo: repo, users: users, analytics: analytics, logger: logger, now: time.Now}
}

// Record accumulates activity counters for a (user, date) pair. An empty
// date defaults to today. Negative counters are rejected.
func (s *EngagementService) Record(ctx context.Context, req RecordEngagementRequest) (*models.EngagementSample, error) {
	if req.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}
	if req.LoginCount < 0 || req.TimeSpentMinutes < 0 || req.InteractionCount < 0 || req.TasksCompleted < 0 || req.ResponsesSubmitted < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "activity counters must not be negative")
	}

	if req.Date == "" {
		req.Date = s.now().UTC().Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use the YYYY-MM-DD format")
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if !user.Role.Trackable() {
		return nil, appErrors.Clone(appErrors.ErrNotTrackable, "engagement is only tracked for students and employees")
	}

	stored, err := s.repo.Record(ctx, &models.EngagementSample{
		UserID:             req.UserID,
		Date:               req.Date,
		LoginCount:         req.LoginCount,
		TimeSpentMinutes:   req.TimeSpentMinutes,
		InteractionCount:   req.InteractionCount,
		TasksCompleted:     req.TasksCompleted,
		ResponsesSubmitted: req.ResponsesSubmitted,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store engagement")
	}

	if s.analytics != nil {
		s.analytics.Invalidate(ctx)
	}
	return stored, nil
}

// List returns engagement samples matching the filter with pagination.
func (s *EngagementService) List(ctx context.Context, filter models.EngagementFilter) ([]models.EngagementSample, *models.Pagination, error) {
	samples, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list engagement")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return samples, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
