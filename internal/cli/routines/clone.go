package routines

import (
	"fmt"

	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/routine"
	"github.com/julianstephens/phaseflow/internal/scheduler"
)

type CloneCmd struct {
	Phase   string   `help:"Phase ID. Defaults to the active phase."`
	Policy  string   `enum:"all,weekdays,custom" default:"all" help:"Which days receive the template (all, weekdays, custom)."`
	Exclude []string `help:"Dates to leave out (YYYY-MM-DD, repeatable or comma separated)."`
	Yes     bool     `short:"y" help:"Skip the confirmation prompt."`
}

func (c *CloneCmd) Run(ctx *cli.Context) error {
	exclusions, err := ctx.ParseDays(c.Exclude)
	if err != nil {
		return fmt.Errorf("invalid --exclude date: %w", err)
	}
	phase, err := ctx.ResolvePhase(c.Phase)
	if err != nil {
		return err
	}

	existing, err := ctx.Store.GetAllDatedBlocks(ctx.Ctx, phase.ID)
	if err != nil {
		return err
	}
	var beforeWrite func()
	if len(existing) > 0 {
		ok, err := cli.Confirm(c.Yes,
			fmt.Sprintf("Replace the schedule of %q?", phase.Name),
			fmt.Sprintf("%d scheduled block(s) and their recorded executions will be deleted.", len(existing)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Clone cancelled.")
			return nil
		}
		beforeWrite = ctx.PerformAutomaticBackup
	}

	res, err := ctx.Routines.CloneTemplateToRange(ctx.Ctx, routine.CloneRequest{
		PhaseID:     phase.ID,
		UserID:      ctx.UserID,
		Policy:      scheduler.Policy(c.Policy),
		Exclusions:  exclusions,
		BeforeWrite: beforeWrite,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Cloned template to %d day(s), %d block(s) created\n", res.DatesCloned, res.BlocksCreated)
	streaks, err := ctx.Tracker.Recalculate(ctx.Ctx, phase.ID, ctx.UserID)
	if err != nil {
		return err
	}
	printStreak(streaks)
	return nil
}
