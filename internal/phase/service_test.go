package phase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/phaseflow/internal/clock"
	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/testutil"
)

func newService(t *testing.T) (*Service, clock.Fixed) {
	t.Helper()
	clk := clock.Fixed{Time: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)}
	return NewService(testutil.NewTestStore(t), clk), clk
}

func create(t *testing.T, svc *Service, userID, name string, activate bool) string {
	t.Helper()
	p, err := svc.Create(context.Background(), CreateRequest{
		UserID:   userID,
		Name:     name,
		Start:    testutil.Day(t, "2026-03-01"),
		End:      testutil.Day(t, "2026-03-30"),
		Why:      "consistency",
		Activate: activate,
	})
	require.NoError(t, err)
	return p.ID
}

func TestCreate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateRequest{
		UserID:  "alex",
		Name:    "  Spring reset ",
		Start:   testutil.Day(t, "2026-03-01").Add(15 * time.Hour),
		End:     testutil.Day(t, "2026-03-30"),
		Why:     "sleep better",
		Outcome: "lights out by 23:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Spring reset", p.Name)
	assert.Equal(t, 30, p.DurationDays)
	assert.Equal(t, testutil.Day(t, "2026-03-01"), p.StartDate)
	assert.False(t, p.IsActive)

	stored, err := svc.Get(ctx, "alex", p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Why, stored.Why)
	assert.Equal(t, 30, stored.DurationDays)

	// a second phase for the same user reuses the user record
	create(t, svc, "alex", "Summer", false)
	phases, err := svc.List(ctx, "alex")
	require.NoError(t, err)
	assert.Len(t, phases, 2)
}

func TestCreate_SingleDayPhase(t *testing.T) {
	svc, _ := newService(t)
	day := testutil.Day(t, "2026-03-01")
	p, err := svc.Create(context.Background(), CreateRequest{UserID: "alex", Name: "Sprint", Start: day, End: day})
	require.NoError(t, err)
	assert.Equal(t, 1, p.DurationDays)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateRequest
		kind apperrors.ValidationKind
	}{
		{"blank name", CreateRequest{UserID: "u", Name: "  ", Start: time.Now(), End: time.Now()}, apperrors.InvalidInput},
		{"missing user", CreateRequest{Name: "P", Start: time.Now(), End: time.Now()}, apperrors.InvalidInput},
		{
			"end before start",
			CreateRequest{UserID: "u", Name: "P", Start: testutil.Day(t, "2026-03-10"), End: testutil.Day(t, "2026-03-09")},
			apperrors.InvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.True(t, apperrors.IsKind(err, tt.kind), "got %v", err)
		})
	}
}

func TestActivate_KeepsOneActivePhase(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first := create(t, svc, "alex", "First", true)
	second := create(t, svc, "alex", "Second", false)
	other := create(t, svc, "sam", "Theirs", true)

	active, err := svc.Active(ctx, "alex")
	require.NoError(t, err)
	assert.Equal(t, first, active.ID)

	_, err = svc.Activate(ctx, "alex", second)
	require.NoError(t, err)

	active, err = svc.Active(ctx, "alex")
	require.NoError(t, err)
	assert.Equal(t, second, active.ID)

	prev, err := svc.Get(ctx, "alex", first)
	require.NoError(t, err)
	assert.False(t, prev.IsActive)

	// other users are unaffected
	theirs, err := svc.Active(ctx, "sam")
	require.NoError(t, err)
	assert.Equal(t, other, theirs.ID)

	// creating an active phase demotes the current one
	third := create(t, svc, "alex", "Third", true)
	active, err = svc.Active(ctx, "alex")
	require.NoError(t, err)
	assert.Equal(t, third, active.ID)
}

func TestActivate_OtherUsersPhase(t *testing.T) {
	svc, _ := newService(t)
	other := create(t, svc, "sam", "Theirs", false)

	_, err := svc.Activate(context.Background(), "alex", other)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestArchive(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()
	id := create(t, svc, "alex", "Done soon", true)

	archived, err := svc.Archive(ctx, "alex", id)
	require.NoError(t, err)
	assert.False(t, archived.IsActive)
	require.NotNil(t, archived.CompletedAt)
	assert.True(t, archived.CompletedAt.Equal(clk.Time))

	_, err = svc.Active(ctx, "alex")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	reactivated, err := svc.Activate(ctx, "alex", id)
	require.NoError(t, err)
	assert.Nil(t, reactivated.CompletedAt)
}

func TestArchive_KeepsRecalculatedStreaks(t *testing.T) {
	store := testutil.NewTestStore(t)
	svc := NewService(store, clock.Fixed{Time: time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)})
	ctx := context.Background()
	id := create(t, svc, "alex", "Streaky", true)

	require.NoError(t, store.UpdatePhaseStreaks(ctx, id, 4, 9))

	archived, err := svc.Archive(ctx, "alex", id)
	require.NoError(t, err)
	assert.False(t, archived.IsActive)

	got, err := store.GetPhase(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, got.CurrentStreak)
	assert.Equal(t, 9, got.LongestStreak)
	assert.NotNil(t, got.CompletedAt)

	_, err = svc.Archive(ctx, "sam", id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetAndResolve(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	id := create(t, svc, "alex", "Mine", true)

	_, err := svc.Get(ctx, "sam", id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	p, err := svc.Resolve(ctx, "alex", "")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)

	_, err = svc.Resolve(ctx, "alex", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
