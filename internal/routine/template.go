package routine

import (
	"context"

	"github.com/google/uuid"

	"github.com/julianstephens/phaseflow/internal/logger"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/storage"
)

// SaveTemplate replaces the phase's template blocks with specs
func (e *Engine) SaveTemplate(ctx context.Context, phaseID, userID string, specs []BlockSpec) ([]models.RoutineBlock, error) {
	if err := e.validateSpecs(specs); err != nil {
		return nil, err
	}

	phase, err := ownedPhase(ctx, e.store, phaseID, userID)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now().UTC()
	blocks := make([]models.RoutineBlock, len(specs))
	err = e.store.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		if err := tx.DeleteTemplateBlocks(ctx, phase.ID); err != nil {
			return err
		}

		resolver := newCategoryResolver(tx, phase.UserID, now)
		for i, spec := range specs {
			categoryID, err := resolver.ByName(ctx, spec.Category)
			if err != nil {
				return err
			}
			blocks[i] = models.RoutineBlock{
				ID:         uuid.New().String(),
				PhaseID:    phase.ID,
				CategoryID: categoryID,
				Title:      spec.Title,
				Note:       spec.Note,
				StartTime:  spec.StartTime,
				EndTime:    spec.EndTime,
				Color:      colorOrDefault(spec.Color),
				IsTemplate: true,
				CreatedAt:  now,
			}
		}
		if len(blocks) == 0 {
			return nil
		}
		return tx.AddBlocks(ctx, blocks)
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Saved template", "phase", phase.ID, "blocks", len(blocks))
	return blocks, nil
}

// Template returns the phase's template blocks
func (e *Engine) Template(ctx context.Context, phaseID, userID string) ([]models.RoutineBlock, error) {
	phase, err := ownedPhase(ctx, e.store, phaseID, userID)
	if err != nil {
		return nil, err
	}
	return e.store.GetTemplateBlocks(ctx, phase.ID)
}

