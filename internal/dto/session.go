package dto

import "github.com/noah-isme/sk-kehadiran-api/internal/models"

// UpdateSessionRequest captures PUT /session. All fields are optional so a
// session can be filled in piecewise.
type UpdateSessionRequest struct {
	Date      *string `json:"date,omitempty"`
	TeacherID *string `json:"teacher_id,omitempty"`
	Subject   *string `json:"subject,omitempty"`
	Timeslot  *string `json:"timeslot,omitempty"`
}

// YearAttendanceRequest captures POST /session/years/:year.
type YearAttendanceRequest struct {
	Present *bool `json:"present" validate:"required"`
}

// SessionResponse is the current session plus its derived present count.
type SessionResponse struct {
	models.Session
	TotalPresent int `json:"total_present"`
}

// ToggleResponse reports the flag state after a toggle.
type ToggleResponse struct {
	PupilID string `json:"pupil_id"`
	Present bool   `json:"present"`
}
