package routines

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/phaseflow/internal/backup"
	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/clock"
	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/testutil"
)

const templateYAML = `
blocks:
  - title: Run
    start: "06:00"
    end: "07:00"
    category: Health
  - title: Read
    note: fiction
    start: "21:00"
    end: "21:30"
`

type fixture struct {
	ctx  *cli.Context
	seed testutil.Seed
	dir  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := testutil.NewTestStore(t)
	seed := testutil.SeedPhase(t, store, testutil.Day(t, "2026-03-01"), testutil.Day(t, "2026-03-14"), testutil.WithActive())
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	ctx := cli.NewContext(context.Background(), store, seed.User.ID, clock.Fixed{Time: now})
	return fixture{ctx: ctx, seed: seed, dir: t.TempDir()}
}

func (f fixture) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func (f fixture) withTemplate(t *testing.T) fixture {
	t.Helper()
	require.NoError(t, (&TemplateSetCmd{File: f.writeFile(t, "template.yaml", templateYAML)}).Run(f.ctx))
	return f
}

func (f fixture) dated(t *testing.T) []models.RoutineBlock {
	t.Helper()
	blocks, err := f.ctx.Store.GetAllDatedBlocks(f.ctx.Ctx, f.seed.Phase.ID)
	require.NoError(t, err)
	return blocks
}

func TestTemplateCmds(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, (&TemplateListCmd{}).Run(f.ctx))
	f.withTemplate(t)

	blocks, err := f.ctx.Routines.Template(f.ctx.Ctx, f.seed.Phase.ID, f.seed.User.ID)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	require.NoError(t, (&TemplateListCmd{}).Run(f.ctx))
}

func TestTemplateSetCmd_RejectsOverlap(t *testing.T) {
	f := newFixture(t)
	path := f.writeFile(t, "bad.yaml", "- title: A\n  start: \"09:00\"\n  end: \"10:00\"\n- title: B\n  start: \"09:30\"\n  end: \"10:30\"\n")

	err := (&TemplateSetCmd{File: path}).Run(f.ctx)
	assert.True(t, apperrors.IsKind(err, apperrors.OverlapConflict))
}

func TestCloneCmd(t *testing.T) {
	f := newFixture(t).withTemplate(t)

	require.NoError(t, (&CloneCmd{Policy: "weekdays"}).Run(f.ctx))
	assert.Len(t, f.dated(t), 20)

	// the second run replaces rather than appends
	require.NoError(t, (&CloneCmd{Policy: "all", Exclude: []string{"2026-03-01,2026-03-02"}, Yes: true}).Run(f.ctx))
	assert.Len(t, f.dated(t), 24)

	backups, err := backup.NewManager(f.ctx.Store.GetConfigPath()).List()
	require.NoError(t, err)
	assert.NotEmpty(t, backups, "replacing a schedule takes a backup first")
}

func TestCloneCmd_NoTemplate(t *testing.T) {
	f := newFixture(t)

	err := (&CloneCmd{Policy: "all"}).Run(f.ctx)
	assert.True(t, apperrors.IsKind(err, apperrors.NoTemplateBlocks))
}

func TestCloneCmd_BadExclusion(t *testing.T) {
	f := newFixture(t).withTemplate(t)
	assert.Error(t, (&CloneCmd{Policy: "all", Exclude: []string{"03/02"}}).Run(f.ctx))
}

func TestEditCmd(t *testing.T) {
	f := newFixture(t).withTemplate(t)
	require.NoError(t, (&CloneCmd{Policy: "all"}).Run(f.ctx))

	path := f.writeFile(t, "edit.yaml", "- title: Deep work\n  start: \"09:00\"\n  end: \"11:00\"\n  category: Work\n")
	require.NoError(t, (&EditCmd{Date: "2026-03-12", Scope: "future", File: path}).Run(f.ctx))

	day := testutil.Day(t, "2026-03-13")
	blocks, err := f.ctx.Store.GetDatedBlocks(f.ctx.Ctx, f.seed.Phase.ID, day, day)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Deep work", blocks[0].Title)

	// days before the anchor keep the template
	assert.Len(t, f.dated(t), 11*2+3)
}

func TestEditCmd_SelectedAndClear(t *testing.T) {
	f := newFixture(t).withTemplate(t)
	require.NoError(t, (&CloneCmd{Policy: "all"}).Run(f.ctx))

	path := f.writeFile(t, "empty.yaml", "blocks: []\n")
	require.NoError(t, (&EditCmd{Scope: "selected", Dates: []string{"2026-03-03", "2026-03-04"}, File: path}).Run(f.ctx))
	assert.Len(t, f.dated(t), 12*2)
}

func TestEditCmd_Errors(t *testing.T) {
	f := newFixture(t).withTemplate(t)
	require.NoError(t, (&CloneCmd{Policy: "all"}).Run(f.ctx))
	before := len(f.dated(t))

	overlap := f.writeFile(t, "overlap.yaml", "- title: Standup\n  start: \"09:00\"\n  end: \"09:30\"\n- title: Review\n  start: \"09:15\"\n  end: \"10:00\"\n")
	err := (&EditCmd{Date: "today", Scope: "day", File: overlap}).Run(f.ctx)
	assert.True(t, apperrors.IsKind(err, apperrors.OverlapConflict))

	ok := f.writeFile(t, "ok.yaml", "- title: Nap\n  start: \"13:00\"\n  end: \"13:20\"\n")
	err = (&EditCmd{Scope: "selected", File: ok}).Run(f.ctx)
	assert.True(t, apperrors.IsKind(err, apperrors.EmptySelection))

	err = (&EditCmd{Date: "2026-04-01", Scope: "day", File: ok}).Run(f.ctx)
	assert.True(t, apperrors.IsKind(err, apperrors.InvalidDate))

	assert.Len(t, f.dated(t), before)

	backups, err := backup.NewManager(f.ctx.Store.GetConfigPath()).List()
	require.NoError(t, err)
	assert.Empty(t, backups, "a rejected edit must not snapshot or rotate backups")

	require.NoError(t, (&EditCmd{Date: "today", Scope: "day", File: ok}).Run(f.ctx))
	backups, err = backup.NewManager(f.ctx.Store.GetConfigPath()).List()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestCloneCmd_RejectedCloneTakesNoBackup(t *testing.T) {
	f := newFixture(t).withTemplate(t)
	require.NoError(t, (&CloneCmd{Policy: "all"}).Run(f.ctx))

	// every day excluded leaves nothing to clone
	err := (&CloneCmd{Policy: "all", Exclude: []string{
		"2026-03-01,2026-03-02,2026-03-03,2026-03-04,2026-03-05,2026-03-06,2026-03-07",
		"2026-03-08,2026-03-09,2026-03-10,2026-03-11,2026-03-12,2026-03-13,2026-03-14",
	}, Yes: true}).Run(f.ctx)
	assert.True(t, apperrors.IsKind(err, apperrors.NoDatesToClone))

	backups, err := backup.NewManager(f.ctx.Store.GetConfigPath()).List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestTrackingCmds(t *testing.T) {
	f := newFixture(t).withTemplate(t)
	require.NoError(t, (&CloneCmd{Policy: "all"}).Run(f.ctx))
	require.NoError(t, (&DayCmd{Date: "today", DayStart: "06:00", DayEnd: "22:00"}).Run(f.ctx))

	today := testutil.Day(t, "2026-03-10")
	blocks, err := f.ctx.Store.GetDatedBlocks(f.ctx.Ctx, f.seed.Phase.ID, today, today)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	require.NoError(t, (&DoneCmd{BlockID: blocks[0].ID}).Run(f.ctx))
	require.NoError(t, (&SkipCmd{BlockID: blocks[1].ID}).Run(f.ctx))

	exec, err := f.ctx.Store.GetExecution(f.ctx.Ctx, blocks[1].ID, today)
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionSkipped, exec.Status)

	require.NoError(t, (&ClearCmd{BlockID: blocks[1].ID}).Run(f.ctx))
	_, err = f.ctx.Store.GetExecution(f.ctx.Ctx, blocks[1].ID, today)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	require.NoError(t, (&DayCmd{Date: "today", DayStart: "06:00", DayEnd: "22:00"}).Run(f.ctx))
}

func TestDoneCmd_FutureBlock(t *testing.T) {
	f := newFixture(t).withTemplate(t)
	require.NoError(t, (&CloneCmd{Policy: "all"}).Run(f.ctx))

	day := testutil.Day(t, "2026-03-12")
	blocks, err := f.ctx.Store.GetDatedBlocks(f.ctx.Ctx, f.seed.Phase.ID, day, day)
	require.NoError(t, err)
	require.NotEmpty(t, blocks)

	err = (&DoneCmd{BlockID: blocks[0].ID}).Run(f.ctx)
	assert.True(t, apperrors.IsKind(err, apperrors.InvalidDate))
}

func TestDayCmd_BadWindow(t *testing.T) {
	f := newFixture(t).withTemplate(t)
	require.NoError(t, (&CloneCmd{Policy: "all"}).Run(f.ctx))

	assert.Error(t, (&DayCmd{Date: "today", DayStart: "6am", DayEnd: "22:00"}).Run(f.ctx))
}
