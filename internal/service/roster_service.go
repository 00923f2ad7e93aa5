package service

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	"github.com/noah-isme/sk-kehadiran-api/internal/repository"
)

// RosterService exposes ordered, read-only views over the fixed roster.
// Ordering is applied once at construction; the stored ids keep their
// load-time values regardless of display order.
type RosterService struct {
	pupils       []models.Pupil
	teachers     []models.Teacher
	pupilsByID   map[string]models.Pupil
	teachersByID map[string]models.Teacher
}

// NewRosterService orders the validated roster data using a locale-aware
// collation and builds lookup indexes.
func NewRosterService(data *repository.RosterData, locale string) *RosterService {
	if locale == "" {
		locale = "ms"
	}
	coll := collate.New(language.Make(locale), collate.IgnoreCase)

	pupils := make([]models.Pupil, len(data.Pupils))
	copy(pupils, data.Pupils)
	sort.SliceStable(pupils, func(i, j int) bool {
		if pupils[i].Year != pupils[j].Year {
			return pupils[i].Year < pupils[j].Year
		}
		return coll.CompareString(pupils[i].Name, pupils[j].Name) < 0
	})

	teachers := make([]models.Teacher, len(data.Teachers))
	copy(teachers, data.Teachers)
	sort.SliceStable(teachers, func(i, j int) bool {
		return coll.CompareString(teachers[i].Name, teachers[j].Name) < 0
	})

	pupilsByID := make(map[string]models.Pupil, len(pupils))
	for _, pupil := range pupils {
		pupilsByID[pupil.ID] = pupil
	}
	teachersByID := make(map[string]models.Teacher, len(teachers))
	for _, teacher := range teachers {
		teachersByID[teacher.ID] = teacher
	}

	return &RosterService{
		pupils:       pupils,
		teachers:     teachers,
		pupilsByID:   pupilsByID,
		teachersByID: teachersByID,
	}
}

// Pupils returns the roster ordered by ascending year, then name.
func (s *RosterService) Pupils() []models.Pupil {
	out := make([]models.Pupil, len(s.pupils))
	copy(out, s.pupils)
	return out
}

// Teachers returns the teachers ordered by name.
func (s *RosterService) Teachers() []models.Teacher {
	out := make([]models.Teacher, len(s.teachers))
	copy(out, s.teachers)
	return out
}

// Subjects returns the subject enumeration in its fixed order.
func (s *RosterService) Subjects() []models.Subject {
	return models.Subjects()
}

// Timeslots returns the timeslot enumeration in its fixed order.
func (s *RosterService) Timeslots() []models.Timeslot {
	return models.Timeslots()
}

// PupilCount returns the total number of pupils on the roster.
func (s *RosterService) PupilCount() int {
	return len(s.pupils)
}

// PupilByID looks up a pupil by its stable id.
func (s *RosterService) PupilByID(id string) (models.Pupil, bool) {
	pupil, ok := s.pupilsByID[id]
	return pupil, ok
}

// TeacherByID looks up a teacher by id.
func (s *RosterService) TeacherByID(id string) (models.Teacher, bool) {
	teacher, ok := s.teachersByID[id]
	return teacher, ok
}
