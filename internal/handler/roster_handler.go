package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sk-kehadiran-api/internal/dto"
	"github.com/noah-isme/sk-kehadiran-api/internal/service"
	"github.com/noah-isme/sk-kehadiran-api/pkg/response"
)

// RosterHandler exposes the fixed roster.
type RosterHandler struct {
	roster *service.RosterService
}

// NewRosterHandler constructs handler.
func NewRosterHandler(roster *service.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

// Roster godoc
// @Summary Full roster bundle
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster [get]
func (h *RosterHandler) Roster(c *gin.Context) {
	bundle := dto.RosterResponse{
		Pupils:    h.roster.Pupils(),
		Teachers:  h.roster.Teachers(),
		Subjects:  h.roster.Subjects(),
		Timeslots: h.roster.Timeslots(),
	}
	response.JSON(c, http.StatusOK, bundle)
}

// Pupils godoc
// @Summary List pupils ordered by year then name
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster/pupils [get]
func (h *RosterHandler) Pupils(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.roster.Pupils())
}

// Teachers godoc
// @Summary List teachers ordered by name
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster/teachers [get]
func (h *RosterHandler) Teachers(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.roster.Teachers())
}

// Subjects godoc
// @Summary List subjects in enumeration order
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster/subjects [get]
func (h *RosterHandler) Subjects(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.roster.Subjects())
}

// Timeslots godoc
// @Summary List timeslots in enumeration order
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster/timeslots [get]
func (h *RosterHandler) Timeslots(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.roster.Timeslots())
}
