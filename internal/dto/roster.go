package dto

import "github.com/noah-isme/sk-kehadiran-api/internal/models"

// RosterResponse bundles the complete fixed roster for form rendering.
type RosterResponse struct {
	Pupils    []models.Pupil    `json:"pupils"`
	Teachers  []models.Teacher  `json:"teachers"`
	Subjects  []models.Subject  `json:"subjects"`
	Timeslots []models.Timeslot `json:"timeslots"`
}
