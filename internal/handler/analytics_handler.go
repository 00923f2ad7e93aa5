package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sk-kehadiran-api/internal/dto"
	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	"github.com/noah-isme/sk-kehadiran-api/internal/service"
	appErrors "github.com/noah-isme/sk-kehadiran-api/pkg/errors"
	"github.com/noah-isme/sk-kehadiran-api/pkg/response"
)

// AnalyticsHandler exposes subject statistics windows.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	exporter  *service.ExportService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, exporter *service.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, exporter: exporter}
}

func (h *AnalyticsHandler) window(c *gin.Context) ([]models.SubjectStats, bool, string, error) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return nil, false, "", appErrors.Clone(appErrors.ErrValidation, "year query parameter required")
	}

	if rawMonth := c.Query("month"); rawMonth != "" {
		month, err := strconv.Atoi(rawMonth)
		if err != nil {
			return nil, false, "", appErrors.Clone(appErrors.ErrValidation, "month must be an integer")
		}
		stats, hit, err := h.analytics.Monthly(c.Request.Context(), year, time.Month(month))
		return stats, hit, fmt.Sprintf("%d-%02d", year, month), err
	}

	stats, hit, err := h.analytics.Yearly(c.Request.Context(), year)
	return stats, hit, fmt.Sprintf("%d", year), err
}

// Subjects godoc
// @Summary Per-subject attendance statistics
// @Description Monthly window when month is given, yearly otherwise.
// @Tags Analytics
// @Produce json
// @Param year query int true "Calendar year"
// @Param month query int false "Calendar month (1-12)"
// @Success 200 {object} response.Envelope
// @Router /analytics/subjects [get]
func (h *AnalyticsHandler) Subjects(c *gin.Context) {
	stats, cacheHit, _, err := h.window(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{
		"cache_hit":       cacheHit,
		"overall_average": service.OverallAverage(stats),
	}
	response.JSON(c, http.StatusOK, stats, meta)
}

// Export godoc
// @Summary Render a statistics window to CSV or PDF
// @Tags Analytics
// @Produce json
// @Param year query int true "Calendar year"
// @Param month query int false "Calendar month (1-12)"
// @Param format query string true "csv or pdf"
// @Success 201 {object} response.Envelope
// @Router /analytics/subjects/export [post]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	stats, _, label, err := h.window(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exporter.ExportStats(stats, label, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ExportResponse{File: file})
}
