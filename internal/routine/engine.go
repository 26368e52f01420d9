// Package routine writes routine blocks for a phase. The clone and edit
// engines replace dated blocks wholesale; the tracker records executions and
// keeps the phase's streaks current.
//
// Each clone or edit runs in a single store transaction, so a failure on any
// target date leaves every date as it was. Concurrent writers to the same
// phase are not coordinated: the last committed write wins.
package routine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/phaseflow/internal/clock"
	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/scheduler"
	"github.com/julianstephens/phaseflow/internal/storage"
	"github.com/julianstephens/phaseflow/internal/validation"
)

// BlockSpec is a block definition without a date, as read from a blocks file
type BlockSpec struct {
	Title     string `yaml:"title" json:"title"`
	Note      string `yaml:"note,omitempty" json:"note,omitempty"`
	StartTime string `yaml:"start" json:"start_time"`
	EndTime   string `yaml:"end" json:"end_time"`
	Color     string `yaml:"color,omitempty" json:"color,omitempty"`
	Category  string `yaml:"category,omitempty" json:"category,omitempty"`
}

type Engine struct {
	store     storage.Provider
	planner   *scheduler.Scheduler
	validator *validation.Validator
	clock     clock.Clock
}

func NewEngine(store storage.Provider, clk clock.Clock) *Engine {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Engine{
		store:     store,
		planner:   scheduler.New(),
		validator: validation.New(),
		clock:     clk,
	}
}

// ownedPhase loads a phase and hides phases of other users behind NotFound
func ownedPhase(ctx context.Context, store storage.Repository, phaseID, userID string) (models.Phase, error) {
	phase, err := store.GetPhase(ctx, phaseID)
	if err != nil {
		return models.Phase{}, err
	}
	if phase.UserID != userID {
		return models.Phase{}, apperrors.NotFound("phase", phaseID)
	}
	return phase, nil
}

func (e *Engine) validateSpecs(specs []BlockSpec) error {
	intervals := make([]validation.Interval, len(specs))
	for i, s := range specs {
		intervals[i] = validation.Interval{Title: s.Title, Start: s.StartTime, End: s.EndTime}
	}
	result := e.validator.ValidateBlocks(intervals)
	return result.Err()
}

func (e *Engine) validateBlocks(blocks []models.RoutineBlock) error {
	intervals := make([]validation.Interval, len(blocks))
	for i, b := range blocks {
		intervals[i] = validation.Interval{Title: b.Title, Start: b.StartTime, End: b.EndTime}
	}
	result := e.validator.ValidateBlocks(intervals)
	return result.Err()
}

// replaceDated removes the given dated blocks, executions first
func replaceDated(ctx context.Context, tx storage.Repository, existing []models.RoutineBlock) error {
	if len(existing) == 0 {
		return nil
	}
	ids := make([]string, len(existing))
	for i, b := range existing {
		ids[i] = b.ID
	}
	if err := tx.DeleteExecutionsForBlocks(ctx, ids); err != nil {
		return err
	}
	return tx.DeleteBlocks(ctx, ids)
}

func newDatedBlock(phaseID, categoryID string, src BlockSpec, day, now time.Time) models.RoutineBlock {
	d := day
	return models.RoutineBlock{
		ID:         uuid.New().String(),
		PhaseID:    phaseID,
		CategoryID: categoryID,
		Title:      src.Title,
		Note:       src.Note,
		StartTime:  src.StartTime,
		EndTime:    src.EndTime,
		Color:      colorOrDefault(src.Color),
		Date:       &d,
		CreatedAt:  now,
	}
}
