package streak

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/phaseflow/internal/clock"
	"github.com/julianstephens/phaseflow/internal/logger"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/storage"
	"github.com/julianstephens/phaseflow/internal/utils"
)

// Result is the streak state persisted by a recalculation
type Result struct {
	PhaseID       string `json:"phase_id"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	DaysEvaluated int    `json:"days_evaluated"`
}

// Recalculator recomputes a phase's streaks from scratch on every call, so
// repeated calls without data changes are no-ops.
type Recalculator struct {
	store storage.Repository
	clock clock.Clock
}

func NewRecalculator(store storage.Repository, clk clock.Clock) *Recalculator {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Recalculator{store: store, clock: clk}
}

// phaseWindow is the portion of a phase that has already happened
type phaseWindow struct {
	start, end time.Time
}

func (w phaseWindow) empty() bool {
	return w.end.Before(w.start)
}

func (w phaseWindow) days() []time.Time {
	return utils.EnumerateDays(w.start, w.end)
}

// window clips the phase to today in the phase's own location
func window(phase models.Phase, now time.Time) phaseWindow {
	today := utils.Day(now.In(phase.StartDate.Location()))
	return phaseWindow{start: phase.StartDate, end: utils.MinDay(phase.EndDate, today)}
}

// dayData holds one range read grouped by date key
type dayData struct {
	blocks     map[string][]models.RoutineBlock
	executions map[string][]models.RoutineExecution
}

// loader fetches the window's dated blocks and executions
type loader func(ctx context.Context, store storage.Repository, phaseID string, w phaseWindow) ([]models.RoutineBlock, []models.RoutineExecution, error)

// loadConcurrent reads dated blocks and executions for the window once each,
// in parallel. Only safe on a pooled store, not inside a transaction.
func loadConcurrent(ctx context.Context, store storage.Repository, phaseID string, w phaseWindow) ([]models.RoutineBlock, []models.RoutineExecution, error) {
	var blocks []models.RoutineBlock
	var execs []models.RoutineExecution

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		blocks, err = store.GetDatedBlocks(gctx, phaseID, w.start, w.end)
		return err
	})
	g.Go(func() error {
		var err error
		execs, err = store.GetExecutions(gctx, phaseID, w.start, w.end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return blocks, execs, nil
}

// loadSequential is loadConcurrent for a transaction, which holds one
// connection and cannot serve two result sets at once on postgres.
func loadSequential(ctx context.Context, store storage.Repository, phaseID string, w phaseWindow) ([]models.RoutineBlock, []models.RoutineExecution, error) {
	blocks, err := store.GetDatedBlocks(ctx, phaseID, w.start, w.end)
	if err != nil {
		return nil, nil, err
	}
	execs, err := store.GetExecutions(ctx, phaseID, w.start, w.end)
	if err != nil {
		return nil, nil, err
	}
	return blocks, execs, nil
}

func load(ctx context.Context, fetch loader, store storage.Repository, phaseID string, w phaseWindow) (dayData, error) {
	blocks, execs, err := fetch(ctx, store, phaseID, w)
	if err != nil {
		return dayData{}, fmt.Errorf("failed to load schedule for phase %s: %w", phaseID, err)
	}

	data := dayData{
		blocks:     make(map[string][]models.RoutineBlock),
		executions: make(map[string][]models.RoutineExecution),
	}
	for _, b := range blocks {
		data.blocks[b.DateKey()] = append(data.blocks[b.DateKey()], b)
	}
	for _, e := range execs {
		data.executions[e.DateKey()] = append(data.executions[e.DateKey()], e)
	}
	return data, nil
}

func (d dayData) count(day time.Time) tally {
	key := utils.DateKey(day)
	return countDay(d.blocks[key], d.executions[key])
}

// Recalculate derives current and longest streak for the phase and stores
// them. The stored longest streak is a high-water mark: it is never lowered,
// even if older executions were changed since it was reached.
func (r *Recalculator) Recalculate(ctx context.Context, phaseID string) (Result, error) {
	return r.recalculate(ctx, r.store, loadConcurrent, phaseID)
}

// RecalculateTx is Recalculate against tx, so a data change and the
// streaks it produces commit together.
func (r *Recalculator) RecalculateTx(ctx context.Context, tx storage.Repository, phaseID string) (Result, error) {
	return r.recalculate(ctx, tx, loadSequential, phaseID)
}

func (r *Recalculator) recalculate(ctx context.Context, store storage.Repository, fetch loader, phaseID string) (Result, error) {
	phase, err := store.GetPhase(ctx, phaseID)
	if err != nil {
		return Result{}, err
	}

	w := window(phase, r.clock.Now())
	result := Result{PhaseID: phase.ID, LongestStreak: phase.LongestStreak}

	if !w.empty() {
		data, err := load(ctx, fetch, store, phase.ID, w)
		if err != nil {
			return Result{}, err
		}

		days := w.days()
		successful := make([]bool, len(days))
		for i, day := range days {
			successful[i] = data.count(day).successful()
		}

		current, longest := ComputeStreaks(successful)
		result.CurrentStreak = current
		result.DaysEvaluated = len(days)
		if longest > result.LongestStreak {
			result.LongestStreak = longest
		}
	}

	if err := store.UpdatePhaseStreaks(ctx, phase.ID, result.CurrentStreak, result.LongestStreak); err != nil {
		return Result{}, err
	}

	logger.Debug("Recalculated streaks",
		"phase", phase.ID,
		"days", result.DaysEvaluated,
		"current", result.CurrentStreak,
		"longest", result.LongestStreak)

	return result, nil
}
