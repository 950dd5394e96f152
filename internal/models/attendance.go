package models

import "time"

// DateLayout is the calendar-day format used on every attendance and
// engagement record. Dates carry no time-of-day component, so lexical
// comparison of two date strings is equivalent to chronological order.
const DateLayout = "2006-01-02"

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	default:
		return false
	}
}

// Positive reports whether the status counts towards attendance. Late
// arrivals still count as attended for percentage and streak purposes.
func (s AttendanceStatus) Positive() bool {
	return s == StatusPresent || s == StatusLate
}

// AttendanceRecord represents a single daily attendance row. The intended
// steady state is one record per (user, date); readers filter rather than
// assert uniqueness.
type AttendanceRecord struct {
	ID       string           `db:"id" json:"id"`
	UserID   string           `db:"user_id" json:"user_id"`
	Date     string           `db:"date" json:"date"`
	Time     string           `db:"time" json:"time"`
	Status   AttendanceStatus `db:"status" json:"status"`
	MarkedBy string           `db:"marked_by" json:"marked_by"`
	Notes    *string          `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AttendanceFilter scopes attendance listing queries.
type AttendanceFilter struct {
	UserID   string
	Status   *AttendanceStatus
	DateFrom string
	DateTo   string
	Page     int
	PageSize int
}
