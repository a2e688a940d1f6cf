package models

import "time"

// ReportRecord is the history entry written for every generated report
type ReportRecord struct {
	ID          string    `json:"id"`
	BoardID     BoardID   `json:"board_id"`
	BoardName   string    `json:"board_name"`
	GeneratedAt time.Time `json:"generated_at"`
	Days        int       `json:"days"`
	Summaries   bool      `json:"summaries"`
	Started     int       `json:"started"`
	Completed   int       `json:"completed"`
	Blocked     int       `json:"blocked"`
	Other       int       `json:"other"`
	OutputPath  string    `json:"output_path,omitempty"`
}
