package dto

import "github.com/noah-isme/engage-dash-api/internal/models"

// MarkAttendanceRequest captures the POST /attendance payload. Date and
// time default to today and the current clock time when omitted.
type MarkAttendanceRequest struct {
	UserID string                  `json:"user_id" binding:"required"`
	Date   string                  `json:"date"`
	Time   string                  `json:"time"`
	Status models.AttendanceStatus `json:"status" binding:"required"`
	Notes  *string                 `json:"notes,omitempty"`
}

// UnmarkAttendanceRequest captures the DELETE /attendance payload.
type UnmarkAttendanceRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Date   string `json:"date" binding:"required"`
}
