package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sk-kehadiran-api/internal/dto"
	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	"github.com/noah-isme/sk-kehadiran-api/internal/service"
	appErrors "github.com/noah-isme/sk-kehadiran-api/pkg/errors"
	"github.com/noah-isme/sk-kehadiran-api/pkg/response"
)

// SessionHandler exposes the active attendance session.
type SessionHandler struct {
	session *service.SessionService
	store   *service.ReportStoreService
	sync    *service.SyncService
	logger  *zap.Logger
}

// NewSessionHandler constructs handler.
func NewSessionHandler(session *service.SessionService, store *service.ReportStoreService, sync *service.SyncService, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{session: session, store: store, sync: sync, logger: logger}
}

func (h *SessionHandler) sessionResponse() dto.SessionResponse {
	snapshot := h.session.Snapshot()
	return dto.SessionResponse{Session: snapshot, TotalPresent: snapshot.Attendance.TotalPresent()}
}

// Get godoc
// @Summary Current session state
// @Tags Session
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.sessionResponse())
}

// Update godoc
// @Summary Set session date, teacher, subject or timeslot
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body dto.UpdateSessionRequest true "Fields to set"
// @Success 200 {object} response.Envelope
// @Router /session [put]
func (h *SessionHandler) Update(c *gin.Context) {
	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}

	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD"))
			return
		}
		h.session.SetDate(date)
	}
	if req.TeacherID != nil {
		if err := h.session.SetTeacher(*req.TeacherID); err != nil {
			response.Error(c, err)
			return
		}
	}
	if req.Subject != nil {
		if err := h.session.SetSubject(models.Subject(*req.Subject)); err != nil {
			response.Error(c, err)
			return
		}
	}
	if req.Timeslot != nil {
		if err := h.session.SetTimeslot(models.Timeslot(*req.Timeslot)); err != nil {
			response.Error(c, err)
			return
		}
	}

	response.JSON(c, http.StatusOK, h.sessionResponse())
}

// Toggle godoc
// @Summary Toggle one pupil's attendance flag
// @Tags Session
// @Produce json
// @Param id path string true "Pupil ID"
// @Success 200 {object} response.Envelope
// @Router /session/pupils/{id}/toggle [post]
func (h *SessionHandler) Toggle(c *gin.Context) {
	present, err := h.session.ToggleAttendance(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ToggleResponse{PupilID: c.Param("id"), Present: present})
}

// SetYear godoc
// @Summary Mark every pupil of one year present or absent
// @Tags Session
// @Accept json
// @Produce json
// @Param year path int true "Year group (1-6)"
// @Param payload body dto.YearAttendanceRequest true "Present flag"
// @Success 200 {object} response.Envelope
// @Router /session/years/{year} [post]
func (h *SessionHandler) SetYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
		return
	}
	var req dto.YearAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Present == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "present flag required"))
		return
	}
	if err := h.session.SetAllInYear(year, *req.Present); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.sessionResponse())
}

// Reset godoc
// @Summary Discard the session and start a fresh one
// @Tags Session
// @Success 204
// @Router /session [delete]
func (h *SessionHandler) Reset(c *gin.Context) {
	h.session.Reset()
	response.NoContent(c)
}

// Finalize godoc
// @Summary Finalize the session into a stored report
// @Description Converts the session into an immutable report, persists it
// @Description locally, then schedules the best-effort spreadsheet sync.
// @Tags Session
// @Produce json
// @Param reset query bool false "Reset the session after finalizing"
// @Success 201 {object} response.Envelope
// @Router /session/finalize [post]
func (h *SessionHandler) Finalize(c *gin.Context) {
	report, err := h.session.Finalize()
	if err != nil {
		response.Error(c, err)
		return
	}

	persisted := true
	if err := h.store.Add(c.Request.Context(), *report); err != nil {
		// The in-memory add stands; surface the persistence failure in meta
		// instead of discarding attendance that was already taken.
		h.logger.Warn("report stored in memory only", zap.String("report_id", report.ID), zap.Error(err))
		persisted = false
	}

	if h.sync != nil {
		h.sync.EnqueueReport(*report)
	}

	if c.Query("reset") == "true" {
		h.session.Reset()
	}

	response.JSON(c, http.StatusCreated, report, map[string]interface{}{"persisted": persisted})
}
