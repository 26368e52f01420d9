package testutil

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/storage"
)

// FailOnNthWrite wraps a Provider so that the Nth write made through a
// WithTx callback fails with Err. Writes are counted starting at 1 across
// AddBlocks, DeleteBlocks, DeleteExecutionsForBlocks, AddCategory,
// UpsertExecution, DeleteExecution and UpdatePhaseStreaks. Reads and writes
// outside WithTx pass through.
type FailOnNthWrite struct {
	storage.Provider
	FailOn int32
	Err    error

	count atomic.Int32
}

// Writes returns how many transactional writes were attempted
func (f *FailOnNthWrite) Writes() int {
	return int(f.count.Load())
}

func (f *FailOnNthWrite) WithTx(ctx context.Context, fn storage.TxFunc) error {
	return f.Provider.WithTx(ctx, func(ctx context.Context, tx storage.Repository) error {
		return fn(ctx, &failingRepo{Repository: tx, parent: f})
	})
}

func (f *FailOnNthWrite) hit() error {
	if f.count.Add(1) == f.FailOn {
		return f.Err
	}
	return nil
}

type failingRepo struct {
	storage.Repository
	parent *FailOnNthWrite
}

func (r *failingRepo) AddBlocks(ctx context.Context, blocks []models.RoutineBlock) error {
	if err := r.parent.hit(); err != nil {
		return err
	}
	return r.Repository.AddBlocks(ctx, blocks)
}

func (r *failingRepo) DeleteBlocks(ctx context.Context, ids []string) error {
	if err := r.parent.hit(); err != nil {
		return err
	}
	return r.Repository.DeleteBlocks(ctx, ids)
}

func (r *failingRepo) DeleteExecutionsForBlocks(ctx context.Context, ids []string) error {
	if err := r.parent.hit(); err != nil {
		return err
	}
	return r.Repository.DeleteExecutionsForBlocks(ctx, ids)
}

func (r *failingRepo) AddCategory(ctx context.Context, c models.Category) error {
	if err := r.parent.hit(); err != nil {
		return err
	}
	return r.Repository.AddCategory(ctx, c)
}

func (r *failingRepo) UpsertExecution(ctx context.Context, e models.RoutineExecution) error {
	if err := r.parent.hit(); err != nil {
		return err
	}
	return r.Repository.UpsertExecution(ctx, e)
}

func (r *failingRepo) DeleteExecution(ctx context.Context, blockID string, date time.Time) error {
	if err := r.parent.hit(); err != nil {
		return err
	}
	return r.Repository.DeleteExecution(ctx, blockID, date)
}

func (r *failingRepo) UpdatePhaseStreaks(ctx context.Context, phaseID string, current, longest int) error {
	if err := r.parent.hit(); err != nil {
		return err
	}
	return r.Repository.UpdatePhaseStreaks(ctx, phaseID, current, longest)
}
