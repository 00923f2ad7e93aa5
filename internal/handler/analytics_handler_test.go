package handler

import (
	"context"
	"encoding/json"
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

func newAnalyticsStack(t *testing.T, reports []models.Report) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	roster := handlerRoster(t)
	store := service.NewReportStoreService(&blobRepoMock{stored: reports}, nil, nil, nil)
	require.NoError(t, store.Load(context.Background()))
	analytics := service.NewAnalyticsService(store, roster, nil, nil, nil)

	exportStorage, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exporter := service.NewExportService(roster, export.NewCSVExporter(), export.NewPDFExporter(), exportStorage, nil)
	h := NewAnalyticsHandler(analytics, exporter)

	router := gin.New()
	router.GET("/analytics/subjects", h.Subjects)
	router.POST("/analytics/subjects/export", h.Export)
	return router
}

func analyticsFixtures() []models.Report {
	march := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	return []models.Report{
		// Roster has 3 pupils, so each session contributes 3 to the
		// possible count.
		storedReport("r-1", march, models.SubjectMatematik, map[string]bool{"p-1": true, "p-2": true}),
		storedReport("r-2", march.AddDate(0, 0, 7), models.SubjectMatematik, map[string]bool{"p-1": true}),
		storedReport("r-3", march.AddDate(0, 0, 14), models.SubjectSains, map[string]bool{"p-1": true, "p-2": true, "p-3": true}),
	}
}

func TestAnalyticsHandlerMonthlyWindow(t *testing.T) {
	router := newAnalyticsStack(t, analyticsFixtures())

	w, env := do(t, router, http.MethodGet, "/analytics/subjects?year=2025&month=3", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats []models.SubjectStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	require.Len(t, stats, len(models.Subjects()))

	byName := map[models.Subject]models.SubjectStats{}
	for _, s := range stats {
		byName[s.Subject] = s
	}
	mate := byName[models.SubjectMatematik]
	assert.Equal(t, 2, mate.SessionCount)
	assert.Equal(t, 3, mate.TotalPresent)
	assert.Equal(t, 6, mate.TotalPossible)
	assert.Equal(t, 50, mate.Percentage)
	assert.Equal(t, 100, byName[models.SubjectSains].Percentage)

	assert.Equal(t, false, env.Meta["cache_hit"])
	// (50 + 100) / 2.
	assert.Equal(t, float64(75), env.Meta["overall_average"])
}

func TestAnalyticsHandlerYearlyWindow(t *testing.T) {
	router := newAnalyticsStack(t, analyticsFixtures())

	w, env := do(t, router, http.MethodGet, "/analytics/subjects?year=2024", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats []models.SubjectStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	for _, s := range stats {
		assert.Zero(t, s.SessionCount)
	}
	assert.Equal(t, float64(0), env.Meta["overall_average"])
}

func TestAnalyticsHandlerValidation(t *testing.T) {
	router := newAnalyticsStack(t, nil)

	w, env := do(t, router, http.MethodGet, "/analytics/subjects", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, env.Error.Code)

	w, _ = do(t, router, http.MethodGet, "/analytics/subjects?year=2025&month=13", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsHandlerExport(t *testing.T) {
	router := newAnalyticsStack(t, analyticsFixtures())

	w, env := do(t, router, http.MethodPost, "/analytics/subjects/export?year=2025&month=3&format=csv", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.ExportResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "stats-2025-03.csv", resp.File)
}
