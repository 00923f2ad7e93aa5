package dto

import "github.com/noah-isme/sk-kehadiran-api/internal/models"

// ExportRequest captures POST /reports/:id/export.
type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportResponse points at the stored document.
type ExportResponse struct {
	File string `json:"file"`
}

// SheetSyncRow is one per-pupil line of the spreadsheet submission.
type SheetSyncRow struct {
	PupilID string `json:"pupil_id"`
	Name    string `json:"name"`
	Year    int    `json:"year"`
	Present bool   `json:"present"`
}

// SheetSyncPayload is the document posted to the spreadsheet webhook.
type SheetSyncPayload struct {
	Report models.Report  `json:"report"`
	Rows   []SheetSyncRow `json:"rows"`
}
