package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	appErrors "github.com/noah-isme/sk-kehadiran-api/pkg/errors"
)

// Clock supplies wall-clock time. Injected so finalization is deterministic
// under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall-clock implementation.
func SystemClock() Clock { return systemClock{} }

// IDGenerator produces ids unique across the lifetime of the store.
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// UUIDGenerator returns the uuid-backed implementation.
func UUIDGenerator() IDGenerator { return uuidGenerator{} }

// SessionService owns the single active attendance session. An incomplete
// session is a valid intermediate state; completeness is only enforced at
// finalization.
type SessionService struct {
	roster *RosterService
	idGen  IDGenerator
	clock  Clock
	logger *zap.Logger

	mu      sync.Mutex
	session models.Session
}

// NewSessionService constructs the service with a fresh session dated today.
func NewSessionService(roster *RosterService, idGen IDGenerator, clock Clock, logger *zap.Logger) *SessionService {
	if idGen == nil {
		idGen = UUIDGenerator()
	}
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &SessionService{roster: roster, idGen: idGen, clock: clock, logger: logger}
	svc.session = svc.blankSession()
	return svc
}

func (s *SessionService) blankSession() models.Session {
	now := s.clock.Now()
	return models.Session{
		Date:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Attendance: models.AttendanceMap{},
	}
}

// Snapshot returns a copy of the current session with an independent
// attendance map.
func (s *SessionService) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.session
	snapshot.Attendance = s.session.Attendance.Clone()
	return snapshot
}

// SetDate replaces the session date.
func (s *SessionService) SetDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// SetTeacher replaces the session teacher after checking roster membership.
func (s *SessionService) SetTeacher(id string) error {
	if _, ok := s.roster.TeacherByID(id); !ok {
		return appErrors.Clone(appErrors.ErrUnknownTeacher, "")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.TeacherID = id
	return nil
}

// SetSubject replaces the session subject after checking the enumeration.
func (s *SessionService) SetSubject(subject models.Subject) error {
	if !subject.Valid() {
		return appErrors.Clone(appErrors.ErrUnknownSubject, "")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Subject = subject
	return nil
}

// SetTimeslot replaces the session timeslot after checking the enumeration.
func (s *SessionService) SetTimeslot(timeslot models.Timeslot) error {
	if !timeslot.Valid() {
		return appErrors.Clone(appErrors.ErrUnknownTimeslot, "")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Timeslot = timeslot
	return nil
}

// ToggleAttendance flips the flag for the pupil, treating an unset entry as
// absent. Unknown pupils are rejected. The new value is returned.
func (s *SessionService) ToggleAttendance(pupilID string) (bool, error) {
	if _, ok := s.roster.PupilByID(pupilID); !ok {
		return false, appErrors.Clone(appErrors.ErrUnknownPupil, "")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := !s.session.Attendance[pupilID]
	s.session.Attendance[pupilID] = next
	return next, nil
}

// SetAllInYear marks every pupil of the given year, leaving other years
// untouched. Repeated calls with the same arguments are no-ops.
func (s *SessionService) SetAllInYear(year int, present bool) error {
	if year < 1 || year > 6 {
		return appErrors.Clone(appErrors.ErrValidation, "year must be between 1 and 6")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pupil := range s.roster.pupils {
		if pupil.Year == year {
			s.session.Attendance[pupil.ID] = present
		}
	}
	return nil
}

// TotalPresent recounts the present entries on every call.
func (s *SessionService) TotalPresent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Attendance.TotalPresent()
}

// Finalize converts the session into an immutable report. The session is
// left untouched; persisting the report and resetting are the caller's
// decisions.
func (s *SessionService) Finalize() (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.TeacherID == "" || s.session.Subject == "" || s.session.Timeslot == "" {
		return nil, appErrors.Clone(appErrors.ErrIncompleteSession, "")
	}
	teacher, ok := s.roster.TeacherByID(s.session.TeacherID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownTeacher, "")
	}

	attendance := s.session.Attendance.Clone()
	report := &models.Report{
		ID:           s.idGen.NewID(),
		Date:         s.session.Date,
		CreatedAt:    s.clock.Now().UTC(),
		TeacherID:    teacher.ID,
		TeacherName:  teacher.Name,
		Subject:      s.session.Subject,
		Timeslot:     s.session.Timeslot,
		Attendance:   attendance,
		TotalPresent: attendance.TotalPresent(),
	}
	return report, nil
}

// Reset clears the session back to a fresh one dated today.
func (s *SessionService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = s.blankSession()
}
