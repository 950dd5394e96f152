package models

import "time"

// ReportType selects the lookback window for a generated report.
type ReportType string

const (
	ReportTypeDaily   ReportType = "daily"
	ReportTypeWeekly  ReportType = "weekly"
	ReportTypeMonthly ReportType = "monthly"
)

// Valid returns true when the report type is supported.
func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeDaily, ReportTypeWeekly, ReportTypeMonthly:
		return true
	default:
		return false
	}
}

// WindowDays maps the report type to its fixed lookback window.
func (t ReportType) WindowDays() int {
	switch t {
	case ReportTypeDaily:
		return 1
	case ReportTypeWeekly:
		return 7
	default:
		return 30
	}
}

// ReportFormat selects the export rendering for a report download.
type ReportFormat string

const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatPDF  ReportFormat = "pdf"
)

// Valid returns true when the format is supported.
func (f ReportFormat) Valid() bool {
	return f == ReportFormatJSON || f == ReportFormatCSV || f == ReportFormatPDF
}

// ReportPeriod bounds the report window as calendar days.
type ReportPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReportSummary aggregates the per-user rows.
type ReportSummary struct {
	TotalUsers        int `json:"totalUsers"`
	AverageAttendance int `json:"averageAttendance"`
	AverageEngagement int `json:"averageEngagement"`
}

// ReportUserStat is one row of per-user metrics inside a report. The
// consistency level always reflects the classifier's own fixed lookback,
// not the report window.
type ReportUserStat struct {
	UserID               string           `json:"userId"`
	Name                 string           `json:"name"`
	Email                string           `json:"email"`
	Department           string           `json:"department"`
	AttendancePercentage int              `json:"attendancePercentage"`
	EngagementScore      int              `json:"engagementScore"`
	ConsistencyLevel     ConsistencyLevel `json:"consistencyLevel"`
}

// ReportStatus tracks the lifecycle of an asynchronous export job.
type ReportStatus string

const (
	ReportStatusQueued     ReportStatus = "queued"
	ReportStatusProcessing ReportStatus = "processing"
	ReportStatusFinished   ReportStatus = "finished"
	ReportStatusFailed     ReportStatus = "failed"
)

// ReportJob is a persisted export job. The rendered file is referenced by
// a signed download URL once the job finishes.
type ReportJob struct {
	ID           string       `db:"id" json:"id"`
	Type         ReportType   `db:"type" json:"type"`
	Format       ReportFormat `db:"format" json:"format"`
	Status       ReportStatus `db:"status" json:"status"`
	Progress     int          `db:"progress" json:"progress"`
	ResultURL    *string      `db:"result_url" json:"result_url,omitempty"`
	ErrorMessage *string      `db:"error_message" json:"error,omitempty"`
	CreatedBy    string       `db:"created_by" json:"created_by"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time   `db:"finished_at" json:"finished_at,omitempty"`
}

// Report is the point-in-time report object assembled from the analytics
// engine for a given period.
type Report struct {
	ID          string           `json:"id"`
	Type        ReportType       `json:"type"`
	GeneratedAt string           `json:"generatedAt"`
	Period      ReportPeriod     `json:"period"`
	Summary     ReportSummary    `json:"summary"`
	UserStats   []ReportUserStat `json:"userStats"`
}
