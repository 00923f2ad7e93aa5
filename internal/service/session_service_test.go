package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sk-kehadiran-api/internal/models"
	appErrors "github.com/noah-isme/sk-kehadiran-api/pkg/errors"
)

func newTestSession(t *testing.T) *SessionService {
	t.Helper()
	clock := fixedClock{now: time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)}
	return NewSessionService(newTestRoster(t), &sequenceIDs{prefix: "report"}, clock, nil)
}

func assertAppError(t *testing.T, err error, want *appErrors.Error) {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, want.Code, appErr.Code)
}

func TestSessionToggleInvolution(t *testing.T) {
	session := newTestSession(t)

	first, err := session.ToggleAttendance("p-1")
	require.NoError(t, err)
	assert.True(t, first)
	assert.Equal(t, 1, session.TotalPresent())

	second, err := session.ToggleAttendance("p-1")
	require.NoError(t, err)
	assert.False(t, second)
	assert.Equal(t, 0, session.TotalPresent())
}

func TestSessionToggleUnknownPupil(t *testing.T) {
	session := newTestSession(t)

	_, err := session.ToggleAttendance("ghost")
	assertAppError(t, err, appErrors.ErrUnknownPupil)
	assert.Equal(t, 0, session.TotalPresent())
}

func TestSessionSetAllInYear(t *testing.T) {
	session := newTestSession(t)

	_, err := session.ToggleAttendance("p-5") // year 3 pupil, must stay untouched
	require.NoError(t, err)

	require.NoError(t, session.SetAllInYear(1, true))
	snapshot := session.Snapshot()
	assert.True(t, snapshot.Attendance["p-2"])
	assert.True(t, snapshot.Attendance["p-3"])
	assert.True(t, snapshot.Attendance["p-5"])
	assert.False(t, snapshot.Attendance["p-1"])
	assert.Equal(t, 3, session.TotalPresent())

	// Idempotent under repetition.
	require.NoError(t, session.SetAllInYear(1, true))
	assert.Equal(t, 3, session.TotalPresent())

	require.NoError(t, session.SetAllInYear(1, false))
	require.NoError(t, session.SetAllInYear(1, false))
	snapshot = session.Snapshot()
	assert.False(t, snapshot.Attendance["p-2"])
	assert.False(t, snapshot.Attendance["p-3"])
	assert.True(t, snapshot.Attendance["p-5"])
	assert.Equal(t, 1, session.TotalPresent())
}

func TestSessionSetAllInYearRange(t *testing.T) {
	session := newTestSession(t)

	assertAppError(t, session.SetAllInYear(0, true), appErrors.ErrValidation)
	assertAppError(t, session.SetAllInYear(7, true), appErrors.ErrValidation)
}

func TestSessionFieldMembership(t *testing.T) {
	session := newTestSession(t)

	assertAppError(t, session.SetTeacher("ghost"), appErrors.ErrUnknownTeacher)
	assertAppError(t, session.SetSubject("Astrofizik"), appErrors.ErrUnknownSubject)
	assertAppError(t, session.SetTimeslot("25:00 - 26:00"), appErrors.ErrUnknownTimeslot)

	require.NoError(t, session.SetTeacher("t-1"))
	require.NoError(t, session.SetSubject(models.SubjectMatematik))
	require.NoError(t, session.SetTimeslot(models.Timeslot0730))
}

func TestSessionFinalizeIncomplete(t *testing.T) {
	session := newTestSession(t)

	_, err := session.Finalize()
	assertAppError(t, err, appErrors.ErrIncompleteSession)

	require.NoError(t, session.SetTeacher("t-1"))
	_, err = session.Finalize()
	assertAppError(t, err, appErrors.ErrIncompleteSession)

	require.NoError(t, session.SetSubject(models.SubjectSains))
	_, err = session.Finalize()
	assertAppError(t, err, appErrors.ErrIncompleteSession)

	require.NoError(t, session.SetTimeslot(models.Timeslot0830))
	_, err = session.Finalize()
	require.NoError(t, err)
}

func TestSessionFinalizeSnapshotsState(t *testing.T) {
	session := newTestSession(t)
	session.SetDate(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, session.SetTeacher("t-1"))
	require.NoError(t, session.SetSubject(models.SubjectMatematik))
	require.NoError(t, session.SetTimeslot(models.Timeslot0930))
	_, err := session.ToggleAttendance("p-1")
	require.NoError(t, err)
	_, err = session.ToggleAttendance("p-2")
	require.NoError(t, err)

	report, err := session.Finalize()
	require.NoError(t, err)

	assert.Equal(t, "report-1", report.ID)
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), report.Date)
	assert.Equal(t, time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC), report.CreatedAt)
	assert.Equal(t, "t-1", report.TeacherID)
	assert.Equal(t, "Cikgu Zaid", report.TeacherName)
	assert.Equal(t, models.SubjectMatematik, report.Subject)
	assert.Equal(t, 2, report.TotalPresent)
	assert.Equal(t, session.TotalPresent(), report.TotalPresent)

	// Later session mutation must not leak into the stored report.
	_, err = session.ToggleAttendance("p-1")
	require.NoError(t, err)
	assert.True(t, report.Attendance["p-1"])
	assert.Equal(t, 2, report.Attendance.TotalPresent())
}

func TestSessionFinalizeDoesNotReset(t *testing.T) {
	session := newTestSession(t)
	require.NoError(t, session.SetTeacher("t-2"))
	require.NoError(t, session.SetSubject(models.SubjectSains))
	require.NoError(t, session.SetTimeslot(models.Timeslot1100))
	_, err := session.ToggleAttendance("p-4")
	require.NoError(t, err)

	_, err = session.Finalize()
	require.NoError(t, err)
	assert.Equal(t, 1, session.TotalPresent())

	session.Reset()
	snapshot := session.Snapshot()
	assert.Empty(t, snapshot.Attendance)
	assert.Empty(t, snapshot.TeacherID)
	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), snapshot.Date)
}

func TestSessionSnapshotIsCopy(t *testing.T) {
	session := newTestSession(t)
	_, err := session.ToggleAttendance("p-1")
	require.NoError(t, err)

	snapshot := session.Snapshot()
	snapshot.Attendance["p-2"] = true
	assert.Equal(t, 1, session.TotalPresent())
}
