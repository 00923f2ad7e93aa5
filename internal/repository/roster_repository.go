package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sk-kehadiran-api/internal/models"
)

// RosterData is the decoded, validated roster file. Subjects and timeslots
// are compile-time enumerations and do not appear in the file.
type RosterData struct {
	Pupils   []models.Pupil   `json:"pupils" validate:"required,min=1,dive"`
	Teachers []models.Teacher `json:"teachers" validate:"required,min=1,dive"`
}

// RosterRepository loads the fixed roster from a JSON file.
type RosterRepository struct {
	path     string
	validate *validator.Validate
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(path string, validate *validator.Validate) *RosterRepository {
	if validate == nil {
		validate = validator.New()
	}
	return &RosterRepository{path: path, validate: validate}
}

// Load reads and validates the roster file. Any malformed content is a hard
// error so startup aborts instead of running with a broken roster.
func (r *RosterRepository) Load() (*RosterData, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read roster file %s: %w", r.path, err)
	}

	var data RosterData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode roster file %s: %w", r.path, err)
	}
	if err := r.validate.Struct(&data); err != nil {
		return nil, fmt.Errorf("validate roster file %s: %w", r.path, err)
	}

	seenPupils := make(map[string]struct{}, len(data.Pupils))
	for _, pupil := range data.Pupils {
		if _, dup := seenPupils[pupil.ID]; dup {
			return nil, fmt.Errorf("roster file %s: duplicate pupil id %q", r.path, pupil.ID)
		}
		seenPupils[pupil.ID] = struct{}{}
	}

	seenTeachers := make(map[string]struct{}, len(data.Teachers))
	for _, teacher := range data.Teachers {
		if _, dup := seenTeachers[teacher.ID]; dup {
			return nil, fmt.Errorf("roster file %s: duplicate teacher id %q", r.path, teacher.ID)
		}
		seenTeachers[teacher.ID] = struct{}{}
	}

	return &data, nil
}
