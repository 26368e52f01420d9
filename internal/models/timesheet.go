package models

import "time"

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// TimesheetEntry is unplanned time logged against a phase
type TimesheetEntry struct {
	ID        string    `json:"id"`
	PhaseID   string    `json:"phase_id"`
	Title     string    `json:"title"`
	Note      string    `json:"note,omitempty"`
	StartTime string    `json:"start_time"` // HH:MM format
	EndTime   string    `json:"end_time"`   // HH:MM format
	Priority  Priority  `json:"priority"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}
