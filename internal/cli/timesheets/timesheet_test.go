package timesheets

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/clock"
	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/testutil"
)

func setup(t *testing.T) (*cli.Context, testutil.Seed) {
	t.Helper()
	store := testutil.NewTestStore(t)
	seed := testutil.SeedPhase(t, store, testutil.Day(t, "2026-03-01"), testutil.Day(t, "2026-03-31"), testutil.WithActive())
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.Local)
	return cli.NewContext(context.Background(), store, seed.User.ID, clock.Fixed{Time: now}), seed
}

func TestTimesheetCmds(t *testing.T) {
	ctx, seed := setup(t)

	add := &TimesheetAddCmd{Title: "Incident call", Start: "14:00", End: "15:30", Date: "today", Priority: "high"}
	require.NoError(t, add.Run(ctx))
	add2 := &TimesheetAddCmd{Title: "Errand", Start: "09:00", End: "09:45", Date: "2026-03-02", Priority: "MEDIUM", Note: "post office"}
	require.NoError(t, add2.Run(ctx))

	entries, err := ctx.Timesheet.List(ctx.Ctx, seed.User.ID, seed.Phase.ID, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Errand", entries[0].Title)
	assert.Equal(t, models.PriorityHigh, entries[1].Priority)

	require.NoError(t, (&TimesheetListCmd{}).Run(ctx))
	require.NoError(t, (&TimesheetSummaryCmd{}).Run(ctx))

	list := &TimesheetListCmd{}
	list.From, list.To = "2026-03-05", "2026-03-31"
	inRange, err := list.entries(ctx)
	require.NoError(t, err)
	require.Len(t, inRange, 1)

	require.NoError(t, (&TimesheetDeleteCmd{ID: entries[0].ID}).Run(ctx))
	err = (&TimesheetDeleteCmd{ID: entries[0].ID}).Run(ctx)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestTimesheetAddCmd_Errors(t *testing.T) {
	ctx, _ := setup(t)

	tests := []struct {
		name string
		cmd  TimesheetAddCmd
		kind apperrors.ValidationKind
	}{
		{"backwards", TimesheetAddCmd{Title: "x", Start: "10:00", End: "09:00", Date: "today"}, apperrors.InvalidBlock},
		{"priority", TimesheetAddCmd{Title: "x", Start: "09:00", End: "10:00", Date: "today", Priority: "urgent"}, apperrors.InvalidInput},
		{"outside phase", TimesheetAddCmd{Title: "x", Start: "09:00", End: "10:00", Date: "2026-04-01"}, apperrors.InvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Run(ctx)
			assert.True(t, apperrors.IsKind(err, tt.kind), "got %v", err)
		})
	}

	bad := &TimesheetAddCmd{Title: "x", Start: "09:00", End: "10:00", Date: "someday"}
	assert.Error(t, bad.Run(ctx))
}
