package models

// SubjectStats is the derived attendance aggregate for one subject over a
// query window. Never persisted; recomputed on every query.
type SubjectStats struct {
	Subject       Subject `json:"subject"`
	SessionCount  int     `json:"session_count"`
	TotalPresent  int     `json:"total_present"`
	TotalPossible int     `json:"total_possible"`
	Percentage    int     `json:"percentage"`
}
