package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/engage-dash-api/internal/dto"
	"github.com/noah-isme/engage-dash-api/internal/middleware"
	"github.com/noah-isme/engage-dash-api/internal/models"
	"github.com/noah-isme/engage-dash-api/internal/service"
)

type reportJobServiceMock struct {
	createJob   *models.ReportJob
	createErr   error
	statusJob   *models.ReportJob
	statusErr   error
	download    *service.ReportDownload
	downloadErr error
}

func (m *reportJobServiceMock) CreateJob(ctx context.Context, req service.ExportReportRequest, actorID string) (*models.ReportJob, error) {
	return m.createJob, m.createErr
}

func (m *reportJobServiceMock) GetStatus(ctx context.Context, id, actorID string, role models.UserRole) (*models.ReportJob, error) {
	return m.statusJob, m.statusErr
}

func (m *reportJobServiceMock) ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error) {
	return m.download, m.downloadErr
}

type reportSourceMock struct {
	report models.Report
	err    error
}

func (m *reportSourceMock) GenerateReport(ctx context.Context, reportType models.ReportType) (models.Report, error) {
	if m.err != nil {
		return models.Report{}, m.err
	}
	report := m.report
	report.Type = reportType
	return report, nil
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestReportHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportJobServiceMock{}, &reportSourceMock{
		report: models.Report{ID: "report-1"},
	})

	payload, _ := json.Marshal(dto.GenerateReportRequest{Type: models.ReportTypeWeekly})
	c, w := newGinContext(http.MethodPost, "/reports", payload)

	handler.Generate(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"weekly"`)
}

func TestReportHandlerGenerateRejectsUnknownType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportJobServiceMock{}, &reportSourceMock{})

	payload, _ := json.Marshal(dto.GenerateReportRequest{Type: "hourly"})
	c, w := newGinContext(http.MethodPost, "/reports", payload)

	handler.Generate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportJobServiceMock{
		createJob: &models.ReportJob{ID: "job-1", Status: models.ReportStatusQueued},
	}
	handler := NewReportHandler(mockSvc, &reportSourceMock{})

	payload, _ := json.Marshal(dto.ExportReportRequest{Type: models.ReportTypeDaily, Format: models.ReportFormatCSV})
	c, w := newGinContext(http.MethodPost, "/reports/export", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.Export(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.Contains(t, w.Body.String(), "job-1")
}

func TestReportHandlerExportRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportJobServiceMock{}, &reportSourceMock{})

	payload, _ := json.Marshal(dto.ExportReportRequest{Type: models.ReportTypeDaily, Format: models.ReportFormatCSV})
	c, w := newGinContext(http.MethodPost, "/reports/export", payload)

	handler.Export(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportHandlerStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	url := "/api/v1/reports/export/tok"
	mockSvc := &reportJobServiceMock{
		statusJob: &models.ReportJob{ID: "job-1", Status: models.ReportStatusFinished, Progress: 100, ResultURL: &url},
	}
	handler := NewReportHandler(mockSvc, &reportSourceMock{})

	c, w := newGinContext(http.MethodGet, "/reports/status/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})

	handler.Status(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "result_url")
}

func TestReportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	file, err := os.CreateTemp(t.TempDir(), "report*.csv")
	require.NoError(t, err)
	_, _ = file.WriteString("Report Type: daily")
	_, _ = file.Seek(0, 0)

	mockSvc := &reportJobServiceMock{
		download: &service.ReportDownload{
			File:      file,
			Filename:  "daily_report.csv",
			Format:    models.ReportFormatCSV,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	handler := NewReportHandler(mockSvc, &reportSourceMock{})

	c, w := newGinContext(http.MethodGet, "/reports/export/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	handler.Download(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "daily_report.csv")
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
}
