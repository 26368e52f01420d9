package routine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/phaseflow/internal/clock"
	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/logger"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/storage"
	"github.com/julianstephens/phaseflow/internal/streak"
	"github.com/julianstephens/phaseflow/internal/utils"
)

// Tracker records block executions. Every write recalculates the owning
// phase's streaks in the same transaction, so a status never commits
// without its streaks.
type Tracker struct {
	store  storage.Provider
	recalc *streak.Recalculator
	clock  clock.Clock
}

func NewTracker(store storage.Provider, clk clock.Clock) *Tracker {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Tracker{
		store:  store,
		recalc: streak.NewRecalculator(store, clk),
		clock:  clk,
	}
}

type LogResult struct {
	Execution models.RoutineExecution `json:"execution"`
	Streak    streak.Result           `json:"streak"`
}

// DaySchedule is one day of a phase with the recorded status of each block.
// Blocks without an entry in Status are pending.
type DaySchedule struct {
	Date       time.Time
	Blocks     []models.RoutineBlock
	Status     map[string]models.ExecutionStatus
	Successful bool
}

// LogExecution records status for a dated block on its own date. Re-logging
// a block overwrites the earlier status.
func (t *Tracker) LogExecution(ctx context.Context, userID, blockID string, status models.ExecutionStatus) (LogResult, error) {
	if !status.Valid() {
		return LogResult{}, apperrors.Validation(apperrors.InvalidInput,
			"unknown execution status %q (expected DONE or SKIPPED)", status)
	}

	block, phase, err := t.ownedDatedBlock(ctx, userID, blockID)
	if err != nil {
		return LogResult{}, err
	}

	now := t.clock.Now()
	today := utils.Day(now.In(block.Date.Location()))
	if block.Date.After(today) {
		return LogResult{}, apperrors.Validation(apperrors.InvalidDate,
			"block %q is scheduled for %s, which has not happened yet", block.Title, block.DateKey())
	}

	exec := models.RoutineExecution{
		ID:             uuid.New().String(),
		RoutineBlockID: block.ID,
		PhaseID:        phase.ID,
		Date:           *block.Date,
		Status:         status,
		UpdatedAt:      now.UTC(),
	}
	var (
		stored models.RoutineExecution
		result streak.Result
	)
	err = t.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		if err := tx.UpsertExecution(ctx, exec); err != nil {
			return err
		}
		var err error
		if stored, err = tx.GetExecution(ctx, block.ID, *block.Date); err != nil {
			return err
		}
		result, err = t.recalc.RecalculateTx(ctx, tx, phase.ID)
		return err
	})
	if err != nil {
		return LogResult{}, err
	}

	logger.Debug("Logged execution", "block", block.ID, "date", block.DateKey(), "status", status)
	return LogResult{Execution: stored, Streak: result}, nil
}

// ClearExecution returns a block to pending. Clearing a block that has no
// record is not an error.
func (t *Tracker) ClearExecution(ctx context.Context, userID, blockID string) (streak.Result, error) {
	block, phase, err := t.ownedDatedBlock(ctx, userID, blockID)
	if err != nil {
		return streak.Result{}, err
	}

	var result streak.Result
	err = t.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		if err := tx.DeleteExecution(ctx, block.ID, *block.Date); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		var err error
		result, err = t.recalc.RecalculateTx(ctx, tx, phase.ID)
		return err
	})
	return result, err
}

// Recalculate recomputes the phase's streaks without recording anything
func (t *Tracker) Recalculate(ctx context.Context, phaseID, userID string) (streak.Result, error) {
	phase, err := ownedPhase(ctx, t.store, phaseID, userID)
	if err != nil {
		return streak.Result{}, err
	}
	return t.recalc.Recalculate(ctx, phase.ID)
}

// Day returns the phase's blocks on day ordered by start time
func (t *Tracker) Day(ctx context.Context, phaseID, userID string, day time.Time) (DaySchedule, error) {
	phase, err := ownedPhase(ctx, t.store, phaseID, userID)
	if err != nil {
		return DaySchedule{}, err
	}

	day = utils.Day(day)
	blocks, err := t.store.GetDatedBlocks(ctx, phase.ID, day, day)
	if err != nil {
		return DaySchedule{}, err
	}
	executions, err := t.store.GetExecutions(ctx, phase.ID, day, day)
	if err != nil {
		return DaySchedule{}, err
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].StartTime < blocks[j].StartTime
	})

	status := make(map[string]models.ExecutionStatus, len(executions))
	for _, e := range executions {
		status[e.RoutineBlockID] = e.Status
	}

	return DaySchedule{
		Date:       day,
		Blocks:     blocks,
		Status:     status,
		Successful: streak.IsDaySuccessful(blocks, executions),
	}, nil
}

// ownedDatedBlock loads a dated block whose phase belongs to userID. Blocks
// of other users are reported as missing.
func (t *Tracker) ownedDatedBlock(ctx context.Context, userID, blockID string) (models.RoutineBlock, models.Phase, error) {
	block, err := t.store.GetBlock(ctx, blockID)
	if err != nil {
		return models.RoutineBlock{}, models.Phase{}, err
	}

	phase, err := t.store.GetPhase(ctx, block.PhaseID)
	if err != nil {
		return models.RoutineBlock{}, models.Phase{}, err
	}
	if phase.UserID != userID {
		return models.RoutineBlock{}, models.Phase{}, apperrors.NotFound("routine block", blockID)
	}

	if block.IsTemplate || block.Date == nil {
		return models.RoutineBlock{}, models.Phase{}, apperrors.Validation(apperrors.InvalidInput,
			"block %q is a template block; only dated blocks can be tracked", block.Title)
	}
	return block, phase, nil
}
