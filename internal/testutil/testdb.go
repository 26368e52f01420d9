package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/storage"
	"github.com/julianstephens/phaseflow/internal/storage/sqlite"
	"github.com/julianstephens/phaseflow/internal/utils"
)

// NewTestStore creates a migrated SQLite store in a temporary directory.
// The store is closed when the test completes.
func NewTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "phaseflow.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Day parses a YYYY-MM-DD string as local midnight, failing the test on error
func Day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

// Seed is the minimal owned graph most engine tests start from
type Seed struct {
	User     models.User
	Category models.Category
	Phase    models.Phase
}

// SeedPhase inserts a user, a category and a phase built from opts
func SeedPhase(t *testing.T, store storage.Repository, start, end time.Time, opts ...PhaseOption) Seed {
	t.Helper()
	ctx := context.Background()

	user := NewTestUser()
	if err := store.AddUser(ctx, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	cat := NewTestCategory(user.ID, "Health")
	if err := store.AddCategory(ctx, cat); err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	phase := NewTestPhase(user.ID, start, end, opts...)
	if err := store.AddPhase(ctx, phase); err != nil {
		t.Fatalf("failed to seed phase: %v", err)
	}
	return Seed{User: user, Category: cat, Phase: phase}
}
