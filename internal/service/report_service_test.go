package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/engage-dash-api/internal/models"
	"github.com/noah-isme/engage-dash-api/internal/repository"
	appErrors "github.com/noah-isme/engage-dash-api/pkg/errors"
	"github.com/noah-isme/engage-dash-api/pkg/jobs"
	"github.com/noah-isme/engage-dash-api/pkg/storage"
)

type fakeJobStore struct {
	jobs map[string]*models.ReportJob
	seq  int
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]*models.ReportJob)}
}

func (f *fakeJobStore) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		f.seq++
		job.ID = fmt.Sprintf("job-%d", f.seq)
	}
	if job.Status == "" {
		job.Status = models.ReportStatusQueued
	}
	clone := *job
	f.jobs[job.ID] = &clone
	return nil
}

func (f *fakeJobStore) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *job
	return &clone, nil
}

func (f *fakeJobStore) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	job, ok := f.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (f *fakeJobStore) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	var queued []models.ReportJob
	for _, job := range f.jobs {
		if job.Status == models.ReportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

func (f *fakeJobStore) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	return nil, nil
}

type fakeDispatcher struct {
	enqueued []jobs.Job
	err      error
}

func (f *fakeDispatcher) Enqueue(job jobs.Job) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, job)
	return nil
}

type fakeReportGenerator struct {
	report models.Report
	err    error
}

func (f *fakeReportGenerator) GenerateReport(ctx context.Context, reportType models.ReportType) (models.Report, error) {
	if f.err != nil {
		return models.Report{}, f.err
	}
	report := f.report
	report.Type = reportType
	return report, nil
}

func newTestExporter(t *testing.T, generator reportGenerator) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(generator, store, signer, nil, ExportConfig{APIPrefix: "/api/v1"}, nil)
}

func newTestReportService(t *testing.T, repo reportJobStore, queue jobDispatcher, generator reportGenerator) *ReportService {
	t.Helper()
	return NewReportService(repo, queue, newTestExporter(t, generator), nil, ReportServiceConfig{})
}

func TestCreateJobQueuesExport(t *testing.T) {
	store := newFakeJobStore()
	dispatcher := &fakeDispatcher{}
	svc := newTestReportService(t, store, dispatcher, &fakeReportGenerator{})

	job, err := svc.CreateJob(context.Background(), ExportReportRequest{
		Type:   models.ReportTypeWeekly,
		Format: models.ReportFormatCSV,
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, job.Status)
	assert.Equal(t, "u1", job.CreatedBy)
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, job.ID, dispatcher.enqueued[0].ID)
}

func TestCreateJobRejectsUnknownTypeAndFormat(t *testing.T) {
	svc := newTestReportService(t, newFakeJobStore(), &fakeDispatcher{}, &fakeReportGenerator{})

	_, err := svc.CreateJob(context.Background(), ExportReportRequest{Type: "hourly", Format: models.ReportFormatCSV}, "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateJob(context.Background(), ExportReportRequest{Type: models.ReportTypeDaily, Format: "xlsx"}, "u1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateJobMarksFailureWhenEnqueueFails(t *testing.T) {
	store := newFakeJobStore()
	dispatcher := &fakeDispatcher{err: errors.New("queue full")}
	svc := newTestReportService(t, store, dispatcher, &fakeReportGenerator{})

	_, err := svc.CreateJob(context.Background(), ExportReportRequest{
		Type:   models.ReportTypeDaily,
		Format: models.ReportFormatJSON,
	}, "u1")
	require.Error(t, err)

	require.Len(t, store.jobs, 1)
	for _, job := range store.jobs {
		assert.Equal(t, models.ReportStatusFailed, job.Status)
		require.NotNil(t, job.ErrorMessage)
		assert.Equal(t, "failed to enqueue job", *job.ErrorMessage)
	}
}

func TestGetStatusEnforcesOwnership(t *testing.T) {
	store := newFakeJobStore()
	job := &models.ReportJob{ID: "job-1", Type: models.ReportTypeDaily, Format: models.ReportFormatPDF, CreatedBy: "u1"}
	require.NoError(t, store.Create(context.Background(), job))
	svc := newTestReportService(t, store, &fakeDispatcher{}, &fakeReportGenerator{})

	_, err := svc.GetStatus(context.Background(), "job-1", "u2", models.RoleEmployee)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	got, err := svc.GetStatus(context.Background(), "job-1", "u2", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "job-1", got.ID)

	_, err = svc.GetStatus(context.Background(), "missing", "u1", models.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestWorkerFinishesJob(t *testing.T) {
	store := newFakeJobStore()
	job := &models.ReportJob{ID: "job-1", Type: models.ReportTypeWeekly, Format: models.ReportFormatCSV, CreatedBy: "u1"}
	require.NoError(t, store.Create(context.Background(), job))
	exporter := newTestExporter(t, &fakeReportGenerator{})
	worker := NewReportWorker(store, exporter, 3, nil)

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1"}))

	finished, err := store.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, finished.Status)
	assert.Equal(t, 100, finished.Progress)
	require.NotNil(t, finished.ResultURL)
	assert.True(t, strings.HasPrefix(*finished.ResultURL, "/api/v1/reports/export/"))
	require.NotNil(t, finished.FinishedAt)
}

func TestWorkerRequeuesThenFails(t *testing.T) {
	store := newFakeJobStore()
	job := &models.ReportJob{ID: "job-1", Type: models.ReportTypeDaily, Format: models.ReportFormatJSON, CreatedBy: "u1"}
	require.NoError(t, store.Create(context.Background(), job))
	exporter := newTestExporter(t, &fakeReportGenerator{err: errors.New("snapshot unavailable")})
	worker := NewReportWorker(store, exporter, 2, nil)

	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 0}))
	requeued, err := store.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, requeued.Status)
	assert.Equal(t, 0, requeued.Progress)

	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 2}))
	failed, err := store.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFailed, failed.Status)
	require.NotNil(t, failed.ErrorMessage)
	assert.Equal(t, "snapshot unavailable", *failed.ErrorMessage)
}

func TestResolveDownload(t *testing.T) {
	store := newFakeJobStore()
	job := &models.ReportJob{ID: "job-1", Type: models.ReportTypeMonthly, Format: models.ReportFormatCSV, CreatedBy: "u1"}
	require.NoError(t, store.Create(context.Background(), job))
	exporter := newTestExporter(t, &fakeReportGenerator{})
	svc := NewReportService(store, &fakeDispatcher{}, exporter, nil, ReportServiceConfig{})
	worker := NewReportWorker(store, exporter, 3, nil)
	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1"}))

	finished, err := store.GetByID(context.Background(), "job-1")
	require.NoError(t, err)
	token := (*finished.ResultURL)[strings.LastIndex(*finished.ResultURL, "/")+1:]

	download, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, models.ReportFormatCSV, download.Format)
	assert.True(t, strings.HasSuffix(download.Filename, ".csv"))
	content, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Report Type: monthly")
}

func TestResolveDownloadRejectsUnfinishedJob(t *testing.T) {
	store := newFakeJobStore()
	job := &models.ReportJob{ID: "job-1", Type: models.ReportTypeDaily, Format: models.ReportFormatJSON, CreatedBy: "u1"}
	require.NoError(t, store.Create(context.Background(), job))
	exporter := newTestExporter(t, &fakeReportGenerator{})
	svc := NewReportService(store, &fakeDispatcher{}, exporter, nil, ReportServiceConfig{})

	token, _, err := exporter.signer.Generate("job-1", "daily_report.json")
	require.NoError(t, err)
	url := "/api/v1/reports/export/" + token
	require.NoError(t, store.Update(context.Background(), "job-1", repository.UpdateReportJobParams{ResultURL: &url}))

	_, err = svc.ResolveDownload(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrReportNotReady.Code, appErrors.FromError(err).Code)
}

func TestResolveDownloadRejectsTamperedToken(t *testing.T) {
	store := newFakeJobStore()
	svc := NewReportService(store, &fakeDispatcher{}, newTestExporter(t, &fakeReportGenerator{}), nil, ReportServiceConfig{})

	_, err := svc.ResolveDownload(context.Background(), "not-a-valid-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
