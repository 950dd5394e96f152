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

// Date columns are rendered as plain YYYY-MM-DD strings so the scan target
// matches the string-typed model fields.
const attendanceColumns = "id, user_id, to_char(date, 'YYYY-MM-DD') AS date, time, status, marked_by, notes, created_at, updated_at"

// AttendanceRepository handles persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListAll returns every attendance record, feeding the analytics snapshot.
func (r *AttendanceRepository) ListAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM attendance_records ORDER BY date ASC, created_at ASC", attendanceColumns)
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list all attendance: %w", err)
	}
	return records, nil
}

// List returns attendance rows matching the provided filter.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceRecord, int, error) {
	base := "FROM attendance_records"
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.UserID != "" {
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.Status != nil && filter.Status.Valid() {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
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
		attendanceColumns, base, whereClause, size, offset)

	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	return rows, total, nil
}

// Upsert inserts or updates the record for a (user, date) pair. A repeated
// mark for the same day overwrites status, time and notes.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	query := fmt.Sprintf(`INSERT INTO attendance_records (id, user_id, date, time, status, marked_by, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id, date)
DO UPDATE SET status = EXCLUDED.status, time = EXCLUDED.time, marked_by = EXCLUDED.marked_by, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at
RETURNING %s`, attendanceColumns)

	var stored models.AttendanceRecord
	if err := r.db.GetContext(ctx, &stored, query,
		record.ID, record.UserID, record.Date, record.Time, record.Status,
		record.MarkedBy, record.Notes, record.CreatedAt, record.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return &stored, nil
}

// Delete removes the record for a (user, date) pair.
func (r *AttendanceRepository) Delete(ctx context.Context, userID, date string) error {
	const query = `DELETE FROM attendance_records WHERE user_id = $1 AND date = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, date); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	return nil
}
