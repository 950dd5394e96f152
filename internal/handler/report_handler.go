package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/engage-dash-api/internal/dto"
	"github.com/noah-isme/engage-dash-api/internal/models"
	"github.com/noah-isme/engage-dash-api/internal/service"
	appErrors "github.com/noah-isme/engage-dash-api/pkg/errors"
	"github.com/noah-isme/engage-dash-api/pkg/response"
)

type reportJobService interface {
	CreateJob(ctx context.Context, req service.ExportReportRequest, actorID string) (*models.ReportJob, error)
	GetStatus(ctx context.Context, id, actorID string, role models.UserRole) (*models.ReportJob, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

type reportSource interface {
	GenerateReport(ctx context.Context, reportType models.ReportType) (models.Report, error)
}

// ReportHandler exposes report generation and export endpoints.
type ReportHandler struct {
	jobs    reportJobService
	reports reportSource
}

// NewReportHandler constructs the handler.
func NewReportHandler(jobs reportJobService, reports reportSource) *ReportHandler {
	return &ReportHandler{jobs: jobs, reports: reports}
}

// Generate godoc
// @Summary Generate report
// @Description Assemble a point-in-time engagement report synchronously
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.GenerateReportRequest true "Report payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "report source not configured"))
		return
	}
	var req dto.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if !req.Type.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "type must be daily, weekly or monthly"))
		return
	}

	report, err := h.reports.GenerateReport(c.Request.Context(), req.Type)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export report
// @Description Queue an asynchronous report export in the requested format
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ExportReportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ExportReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	job, err := h.jobs.CreateJob(c.Request.Context(), service.ExportReportRequest{
		Type:   req.Type,
		Format: req.Format,
	}, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, dto.ReportJobResponse{
		ID:       job.ID,
		Status:   job.Status,
		Progress: job.Progress,
	}, nil)
}

// Status godoc
// @Summary Export job status
// @Description Progress and result URL for an export job
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/status/{id} [get]
func (h *ReportHandler) Status(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	job, err := h.jobs.GetStatus(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.ReportStatusResponse{
		ID:       job.ID,
		Status:   job.Status,
		Progress: job.Progress,
	}
	if job.ResultURL != nil {
		resp.ResultURL = job.ResultURL
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Download godoc
// @Summary Download export
// @Description Stream a finished export via its signed token
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reports/export/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	result, err := h.jobs.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck

	info, err := result.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), mimeTypeFor(result.Format), result.File, nil)
}

func mimeTypeFor(format models.ReportFormat) string {
	switch format {
	case models.ReportFormatJSON:
		return "application/json"
	case models.ReportFormatCSV:
		return "text/csv"
	case models.ReportFormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
