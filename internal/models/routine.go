package models

import (
	"time"

	"github.com/julianstephens/phaseflow/internal/constants"
)

// RoutineBlock is either a template block (IsTemplate, no Date) describing a
// recurring daily pattern, or a dated block scheduled on a concrete day.
type RoutineBlock struct {
	ID         string     `json:"id"`
	PhaseID    string     `json:"phase_id"`
	CategoryID string     `json:"category_id"`
	Title      string     `json:"title"`
	Note       string     `json:"note,omitempty"`
	StartTime  string     `json:"start_time"` // HH:MM format
	EndTime    string     `json:"end_time"`   // HH:MM format
	Color      string     `json:"color"`
	IsTemplate bool       `json:"is_template"`
	Date       *time.Time `json:"date,omitempty"` // set iff !IsTemplate
	CreatedAt  time.Time  `json:"created_at"`
}

// DateKey returns the block's YYYY-MM-DD key, or "" for template blocks
func (b RoutineBlock) DateKey() string {
	if b.Date == nil {
		return ""
	}
	return b.Date.Format(constants.DateFormat)
}

type ExecutionStatus string

const (
	ExecutionDone    ExecutionStatus = "DONE"
	ExecutionSkipped ExecutionStatus = "SKIPPED"
)

// Valid reports whether s is one of the recordable statuses
func (s ExecutionStatus) Valid() bool {
	return s == ExecutionDone || s == ExecutionSkipped
}

// RoutineExecution records the outcome of one dated block. There is at most
// one per (RoutineBlockID, Date); no record means pending.
type RoutineExecution struct {
	ID             string          `json:"id"`
	RoutineBlockID string          `json:"routine_block_id"`
	PhaseID        string          `json:"phase_id"`
	Date           time.Time       `json:"date"`
	Status         ExecutionStatus `json:"status"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DateKey returns the execution's YYYY-MM-DD key
func (e RoutineExecution) DateKey() string {
	return e.Date.Format(constants.DateFormat)
}
