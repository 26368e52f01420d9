package routine

import (
	"context"
	"time"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/logger"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/scheduler"
	"github.com/julianstephens/phaseflow/internal/storage"
)

type EditRequest struct {
	PhaseID       string
	UserID        string
	AnchorDate    time.Time
	Blocks        []BlockSpec
	Scope         scheduler.Scope
	SelectedDates []time.Time

	// BeforeWrite, when set, runs once the request has passed every check
	// and before anything is written.
	BeforeWrite func()
}

type EditResult struct {
	BlocksWritten []models.RoutineBlock `json:"blocks_written"`
	Dates         []time.Time           `json:"dates"`
}

// ApplyScopedBlockEdit replaces the dated blocks of every day in scope with
// req.Blocks. An empty block list clears those days.
func (e *Engine) ApplyScopedBlockEdit(ctx context.Context, req EditRequest) (EditResult, error) {
	if !req.Scope.Valid() {
		return EditResult{}, apperrors.Validation(apperrors.InvalidScope,
			"unknown edit scope %q (expected day, future or selected)", req.Scope)
	}
	if req.Scope == scheduler.ScopeSelected && len(req.SelectedDates) == 0 {
		return EditResult{}, apperrors.Validation(apperrors.EmptySelection,
			"scope 'selected' requires at least one date")
	}
	if err := e.validateSpecs(req.Blocks); err != nil {
		return EditResult{}, err
	}

	phase, err := ownedPhase(ctx, e.store, req.PhaseID, req.UserID)
	if err != nil {
		return EditResult{}, err
	}

	days, err := e.planner.EditDays(phase, req.Scope, req.AnchorDate, req.SelectedDates)
	if err != nil {
		return EditResult{}, err
	}

	if req.BeforeWrite != nil {
		req.BeforeWrite()
	}

	logger.Debug("Applying block edit",
		"phase", phase.ID,
		"scope", req.Scope,
		"blocks", len(req.Blocks),
		"days", len(days))

	now := e.clock.Now().UTC()
	var written []models.RoutineBlock
	err = e.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		resolver := newCategoryResolver(tx, phase.UserID, now)
		categories := make([]string, len(req.Blocks))
		for i, spec := range req.Blocks {
			id, err := resolver.ByName(ctx, spec.Category)
			if err != nil {
				return err
			}
			categories[i] = id
		}

		for _, day := range days {
			existing, err := tx.GetDatedBlocks(ctx, phase.ID, day, day)
			if err != nil {
				return err
			}
			if err := replaceDated(ctx, tx, existing); err != nil {
				return err
			}

			if len(req.Blocks) == 0 {
				continue
			}
			blocks := make([]models.RoutineBlock, len(req.Blocks))
			for i, spec := range req.Blocks {
				blocks[i] = newDatedBlock(phase.ID, categories[i], spec, day, now)
			}
			if err := tx.AddBlocks(ctx, blocks); err != nil {
				return err
			}
			written = append(written, blocks...)
		}
		return nil
	})
	if err != nil {
		return EditResult{}, err
	}

	logger.Debug("Applied block edit", "phase", phase.ID, "written", len(written))

	return EditResult{BlocksWritten: written, Dates: days}, nil
}
