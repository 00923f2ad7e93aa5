package models

import "time"

// AttendanceMap maps pupil id to a present flag. A pupil missing from the
// map is absent, never an error.
type AttendanceMap map[string]bool

// TotalPresent counts the true entries.
func (m AttendanceMap) TotalPresent() int {
	total := 0
	for _, present := range m {
		if present {
			total++
		}
	}
	return total
}

// Clone returns an independent copy of the map.
func (m AttendanceMap) Clone() AttendanceMap {
	if m == nil {
		return AttendanceMap{}
	}
	clone := make(AttendanceMap, len(m))
	for id, present := range m {
		clone[id] = present
	}
	return clone
}

// Session is the mutable working state for one attendance-taking flow.
// Teacher, subject and timeslot may stay unset while the session is being
// filled in; they are only required at finalization.
type Session struct {
	Date       time.Time     `json:"date"`
	TeacherID  string        `json:"teacher_id,omitempty"`
	Subject    Subject       `json:"subject,omitempty"`
	Timeslot   Timeslot      `json:"timeslot,omitempty"`
	Attendance AttendanceMap `json:"attendance"`
}

// Report is an immutable finalized session. The teacher name and the
// attendance map are snapshots taken at finalization, so later roster edits
// or session mutation never alter stored history.
type Report struct {
	ID           string        `json:"id"`
	Date         time.Time     `json:"date"`
	CreatedAt    time.Time     `json:"created_at"`
	TeacherID    string        `json:"teacher_id"`
	TeacherName  string        `json:"teacher_name"`
	Subject      Subject       `json:"subject"`
	Timeslot     Timeslot      `json:"timeslot"`
	Attendance   AttendanceMap `json:"attendance"`
	TotalPresent int           `json:"total_present"`
}

// Valid reports whether a decoded report carries the minimum shape required
// to participate in listings and analytics. Used when importing the
// persisted blob, which is never trusted as-is.
func (r Report) Valid() bool {
	if r.ID == "" || r.Date.IsZero() {
		return false
	}
	if r.TeacherID == "" || !r.Subject.Valid() || !r.Timeslot.Valid() {
		return false
	}
	return r.TotalPresent == r.Attendance.TotalPresent()
}
