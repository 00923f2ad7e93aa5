package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	"github.com/noah-isme/sk-kehadiran-api/internal/repository"
)

func testRosterData() *repository.RosterData {
	return &repository.RosterData{
		Pupils: []models.Pupil{
			{ID: "p-1", Name: "Zara", Year: 2},
			{ID: "p-2", Name: "amir", Year: 1},
			{ID: "p-3", Name: "Balqis", Year: 1},
			{ID: "p-4", Name: "Danish", Year: 2},
			{ID: "p-5", Name: "Farah", Year: 3},
		},
		Teachers: []models.Teacher{
			{ID: "t-1", Name: "Cikgu Zaid"},
			{ID: "t-2", Name: "Cikgu Aminah"},
		},
	}
}

func newTestRoster(t *testing.T) *RosterService {
	t.Helper()
	return NewRosterService(testRosterData(), "ms")
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type sequenceIDs struct {
	prefix string
	next   int
}

func (g *sequenceIDs) NewID() string {
	g.next++
	return g.prefix + "-" + string(rune('0'+g.next))
}

func TestRosterServicePupilOrdering(t *testing.T) {
	roster := newTestRoster(t)

	pupils := roster.Pupils()
	require.Len(t, pupils, 5)

	// Ascending year, then case-insensitive name within the year.
	assert.Equal(t, []string{"p-2", "p-3", "p-4", "p-1", "p-5"}, []string{
		pupils[0].ID, pupils[1].ID, pupils[2].ID, pupils[3].ID, pupils[4].ID,
	})
}

func TestRosterServiceIDsStableUnderOrdering(t *testing.T) {
	roster := newTestRoster(t)

	pupil, ok := roster.PupilByID("p-1")
	require.True(t, ok)
	assert.Equal(t, "Zara", pupil.Name)
	assert.Equal(t, 2, pupil.Year)
}

func TestRosterServiceTeacherOrdering(t *testing.T) {
	roster := newTestRoster(t)

	teachers := roster.Teachers()
	require.Len(t, teachers, 2)
	assert.Equal(t, "t-2", teachers[0].ID)
	assert.Equal(t, "t-1", teachers[1].ID)
}

func TestRosterServiceEnumerations(t *testing.T) {
	roster := newTestRoster(t)

	assert.Equal(t, models.Subjects(), roster.Subjects())
	assert.Equal(t, models.Timeslots(), roster.Timeslots())
	assert.Equal(t, 5, roster.PupilCount())

	_, ok := roster.PupilByID("nope")
	assert.False(t, ok)
	_, ok = roster.TeacherByID("nope")
	assert.False(t, ok)
}
