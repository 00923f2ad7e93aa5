package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sk-kehadiran-api/internal/dto"
	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	"github.com/noah-isme/sk-kehadiran-api/internal/service"
	appErrors "github.com/noah-isme/sk-kehadiran-api/pkg/errors"
	"github.com/noah-isme/sk-kehadiran-api/pkg/response"
)

// ReportHandler exposes the stored report history.
type ReportHandler struct {
	store    *service.ReportStoreService
	exporter *service.ExportService
}

// NewReportHandler constructs handler.
func NewReportHandler(store *service.ReportStoreService, exporter *service.ExportService) *ReportHandler {
	return &ReportHandler{store: store, exporter: exporter}
}

// List godoc
// @Summary List stored reports, newest-added first
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	reports := h.store.List()
	meta := map[string]interface{}{"count": len(reports)}
	if h.store.Degraded() {
		meta["degraded"] = true
	}
	response.JSON(c, http.StatusOK, reports, meta)
}

// Delete godoc
// @Summary Delete one report by id (no-op when absent)
// @Tags Reports
// @Param id path string true "Report ID"
// @Success 204
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.store.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Clear godoc
// @Summary Delete the entire report history
// @Description Destructive and irreversible. Confirmation is a client
// @Description concern; the store does not gate it.
// @Tags Reports
// @Success 204
// @Router /reports [delete]
func (h *ReportHandler) Clear(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Render one report to CSV or PDF
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body dto.ExportRequest true "Export format"
// @Success 201 {object} response.Envelope
// @Router /reports/{id}/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format required"))
		return
	}

	var report *models.Report
	for _, stored := range h.store.List() {
		if stored.ID == c.Param("id") {
			found := stored
			report = &found
			break
		}
	}
	if report == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "report not found"))
		return
	}

	file, err := h.exporter.ExportReport(*report, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ExportResponse{File: file})
}
