package routine

import (
	"context"
	"time"

	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/logger"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/scheduler"
	"github.com/julianstephens/phaseflow/internal/storage"
	"github.com/julianstephens/phaseflow/internal/utils"
)

type CloneRequest struct {
	PhaseID    string
	UserID     string
	Policy     scheduler.Policy
	Exclusions []time.Time

	// BeforeWrite is called after validation, right before the replace
	BeforeWrite func()
}

type CloneResult struct {
	BlocksCreated int         `json:"blocks_created"`
	DatesCloned   int         `json:"dates_cloned"`
	Dates         []time.Time `json:"dates"`
}

// CloneTemplateToRange expands the phase's template into dated blocks for
// every day the policy selects. All existing dated blocks of the phase, and
// their executions, are discarded first.
func (e *Engine) CloneTemplateToRange(ctx context.Context, req CloneRequest) (CloneResult, error) {
	if !req.Policy.Valid() {
		return CloneResult{}, apperrors.Validation(apperrors.InvalidPolicy,
			"unknown clone policy %q (expected all, weekdays or custom)", req.Policy)
	}

	phase, err := ownedPhase(ctx, e.store, req.PhaseID, req.UserID)
	if err != nil {
		return CloneResult{}, err
	}

	templates, err := e.store.GetTemplateBlocks(ctx, phase.ID)
	if err != nil {
		return CloneResult{}, err
	}
	if len(templates) == 0 {
		return CloneResult{}, apperrors.Validation(apperrors.NoTemplateBlocks,
			"phase %q has no template blocks to clone", phase.Name)
	}

	days, err := e.planner.CloneDays(phase, req.Policy, req.Exclusions)
	if err != nil {
		return CloneResult{}, err
	}
	if len(days) == 0 {
		return CloneResult{}, apperrors.Validation(apperrors.NoDatesToClone,
			"no dates left to clone to between %s and %s with policy %q",
			utils.DateKey(phase.StartDate), utils.DateKey(phase.EndDate), req.Policy)
	}

	if err := e.validateBlocks(templates); err != nil {
		return CloneResult{}, err
	}

	if req.BeforeWrite != nil {
		req.BeforeWrite()
	}

	logger.Debug("Cloning template",
		"phase", phase.ID,
		"policy", req.Policy,
		"templates", len(templates),
		"days", len(days))

	now := e.clock.Now().UTC()
	var created int
	err = e.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		existing, err := tx.GetAllDatedBlocks(ctx, phase.ID)
		if err != nil {
			return err
		}
		if err := replaceDated(ctx, tx, existing); err != nil {
			return err
		}

		resolver := newCategoryResolver(tx, phase.UserID, now)
		specs := make([]BlockSpec, len(templates))
		categories := make([]string, len(templates))
		for i, tmpl := range templates {
			id, err := resolver.ByID(ctx, tmpl.CategoryID, tmpl.Title)
			if err != nil {
				return err
			}
			categories[i] = id
			specs[i] = specOf(tmpl)
		}

		blocks := make([]models.RoutineBlock, 0, len(templates)*len(days))
		for _, day := range days {
			for i := range specs {
				blocks = append(blocks, newDatedBlock(phase.ID, categories[i], specs[i], day, now))
			}
		}
		created = len(blocks)
		return tx.AddBlocks(ctx, blocks)
	})
	if err != nil {
		return CloneResult{}, err
	}

	logger.Debug("Cloned template", "phase", phase.ID, "blocks", created)

	return CloneResult{BlocksCreated: created, DatesCloned: len(days), Dates: days}, nil
}

func specOf(b models.RoutineBlock) BlockSpec {
	return BlockSpec{
		Title:     b.Title,
		Note:      b.Note,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Color:     b.Color,
	}
}
