package dto

import "github.com/noah-isme/engage-dash-api/internal/models"

// GenerateReportRequest captures the POST /reports payload.
type GenerateReportRequest struct {
	Type models.ReportType `json:"type" binding:"required"`
}

// ExportReportRequest captures the POST /reports/export payload.
type ExportReportRequest struct {
	Type   models.ReportType   `json:"type" binding:"required"`
	Format models.ReportFormat `json:"format" binding:"required"`
}

// ReportJobResponse is returned after enqueueing an export.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes export job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
