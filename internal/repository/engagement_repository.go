package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/engage-dash-api/internal/models"
)

const engagementColumns = "id, user_id, to_char(date, 'YYYY-MM-DD') AS date, login_count, time_spent_minutes, interaction_count, tasks_completed, responses_submitted, created_at, updated_at"

// EngagementRepository handles persistence for daily engagement samples.
type EngagementRepository struct {
	db *sqlx.DB
}

// NewEngagementRepository constructs the repository.
func NewEngagementRepository(db *sqlx.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// ListAll returns every engagement sample, feeding the analytics snapshot.
func (r *EngagementRepository) ListAll(ctx context.Context) ([]models.EngagementSample, error) {
	query := fmt.Sprintf("SELECT %s FROM engagement_samples ORDER BY date ASC, created_at ASC", engagementColumns)
	var samples []models.EngagementSample
	if err := r.db.SelectContext(ctx, &samples, query); err != nil {
		return nil, fmt.Errorf("list all engagement: %w", err)
	}
	return samples, nil
}

// List returns engagement samples matching the provided filter.
func (r *EngagementRepository) List(ctx context.Context, filter models.EngagementFilter) ([]models.EngagementSample, int, error) {
	base := "FROM engagement_samples"
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.UserID != "" {
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.DateFrom != "" {
		where = append(where, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		where = append(where, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, filter.DateTo)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY date DESC, created_at DESC LIMIT %d OFFSET %d",
		engagementColumns, base, whereClause, size, offset)

	var rows []models.EngagementSample
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list engagement: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count engagement: %w", err)
	}
	return rows, total, nil
}

// Record upserts the sample for a (user, date) pair by adding the incoming
// counters onto any stored values. Repeated activity reports within a day
// accumulate instead of overwriting.
func (r *EngagementRepository) Record(ctx context.Context, sample *models.EngagementSample) (*models.EngagementSample, error) {
	now := time.Now().UTC()
	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = now
	}
	sample.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO engagement_samples (id, user_id, date, login_count, time_spent_minutes, interaction_count, tasks_completed, responses_submitted, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (user_id, date)
DO UPDATE SET
    login_count = engagement_samples.login_count + EXCLUDED.login_count,
    time_spent_minutes = engagement_samples.time_spent_minutes + EXCLUDED.time_spent_minutes,
    interaction_count = engagement_samples.interaction_count + EXCLUDED.interaction_count,
    tasks_completed = engagement_samples.tasks_completed + EXCLUDED.tasks_completed,
    responses_submitted = engagement_samples.responses_submitted + EXCLUDED.responses_submitted,
    updated_at = EXCLUDED.updated_at
RETURNING %s`, engagementColumns)

	var stored models.EngagementSample
	if err := r.db.GetContext(ctx, &stored, query,
		sample.ID, sample.UserID, sample.Date, sample.LoginCount, sample.TimeSpentMinutes,
		sample.InteractionCount, sample.TasksCompleted, sample.ResponsesSubmitted,
		sample.CreatedAt, sample.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("record engagement: %w", err)
	}
	return &stored, nil
}
