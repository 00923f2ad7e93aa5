package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sk-kehadiran-api/internal/dto"
	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	"github.com/noah-isme/sk-kehadiran-api/internal/service"
	appErrors "github.com/noah-isme/sk-kehadiran-api/pkg/errors"
	"github.com/noah-isme/sk-kehadiran-api/pkg/export"
	"github.com/noah-isme/sk-kehadiran-api/pkg/storage"
)

func storedReport(id string, date time.Time, subject models.Subject, present map[string]bool) models.Report {
	attendance := models.AttendanceMap{}
	total := 0
	for pupil, flag := range present {
		attendance[pupil] = flag
		if flag {
			total++
		}
	}
	return models.Report{
		ID:           id,
		Date:         date,
		CreatedAt:    date,
		TeacherID:    "t-1",
		TeacherName:  "Cikgu Zaid",
		Subject:      subject,
		Timeslot:     models.Timeslot0730,
		Attendance:   attendance,
		TotalPresent: total,
	}
}

func newReportStack(t *testing.T, repo *blobRepoMock) (*gin.Engine, *service.ReportStoreService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := service.NewReportStoreService(repo, nil, nil, nil)
	_ = store.Load(context.Background())

	exportStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exporter := service.NewExportService(handlerRoster(t), export.NewCSVExporter(), export.NewPDFExporter(), exportStorage, nil)
	h := NewReportHandler(store, exporter)

	router := gin.New()
	router.GET("/reports", h.List)
	router.DELETE("/reports", h.Clear)
	router.DELETE("/reports/:id", h.Delete)
	router.POST("/reports/:id/export", h.Export)
	return router, store
}

func TestReportHandlerList(t *testing.T) {
	march := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	repo := &blobRepoMock{stored: []models.Report{
		storedReport("r-2", march.AddDate(0, 0, 1), models.SubjectSains, nil),
		storedReport("r-1", march, models.SubjectMatematik, nil),
	}}
	router, _ := newReportStack(t, repo)

	w, env := do(t, router, http.MethodGet, "/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reports []models.Report
	require.NoError(t, json.Unmarshal(env.Data, &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "r-2", reports[0].ID)
	assert.Equal(t, float64(2), env.Meta["count"])
	_, degraded := env.Meta["degraded"]
	assert.False(t, degraded)
}

func TestReportHandlerListDegraded(t *testing.T) {
	router, _ := newReportStack(t, &blobRepoMock{loadErr: errors.New("corrupt blob")})

	w, env := do(t, router, http.MethodGet, "/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), env.Meta["count"])
	assert.Equal(t, true, env.Meta["degraded"])
}

func TestReportHandlerDelete(t *testing.T) {
	repo := &blobRepoMock{stored: []models.Report{
		storedReport("r-1", time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), models.SubjectMatematik, nil),
	}}
	router, store := newReportStack(t, repo)

	w, _ := do(t, router, http.MethodDelete, "/reports/r-1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, store.Count())

	// Absent ids are a silent no-op.
	w, _ = do(t, router, http.MethodDelete, "/reports/ghost", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestReportHandlerClear(t *testing.T) {
	repo := &blobRepoMock{stored: []models.Report{
		storedReport("r-1", time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), models.SubjectMatematik, nil),
		storedReport("r-2", time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC), models.SubjectSains, nil),
	}}
	router, store := newReportStack(t, repo)

	w, _ := do(t, router, http.MethodDelete, "/reports", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, store.Count())
	assert.Empty(t, repo.stored)
}

func TestReportHandlerExport(t *testing.T) {
	repo := &blobRepoMock{stored: []models.Report{
		storedReport("r-1", time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), models.SubjectMatematik, map[string]bool{"p-1": true}),
	}}
	router, _ := newReportStack(t, repo)

	w, env := do(t, router, http.MethodPost, "/reports/r-1/export", dto.ExportRequest{Format: "csv"})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.ExportResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "report-r-1.csv", resp.File)
}

func TestReportHandlerExportUnknownReport(t *testing.T) {
	router, _ := newReportStack(t, &blobRepoMock{})

	w, env := do(t, router, http.MethodPost, "/reports/ghost/export", dto.ExportRequest{Format: "csv"})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrNotFound.Code, env.Error.Code)
}
