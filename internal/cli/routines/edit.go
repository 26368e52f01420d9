package routines

import (
	"fmt"

	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/routine"
	"github.com/julianstephens/phaseflow/internal/scheduler"
	"github.com/julianstephens/phaseflow/internal/utils"
)

type EditCmd struct {
	Phase string   `help:"Phase ID. Defaults to the active phase."`
	Date  string   `default:"today" help:"Anchor day of the edit (YYYY-MM-DD or 'today')."`
	Scope string   `enum:"day,future,selected" default:"day" help:"Days to rewrite (day, future, selected)."`
	Dates []string `help:"Days for the 'selected' scope (YYYY-MM-DD, repeatable or comma separated)."`
	File  string   `short:"f" required:"" type:"existingfile" help:"YAML file with the replacement blocks. An empty list clears the days."`
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	anchor, err := ctx.ParseDay(c.Date)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}
	selected, err := ctx.ParseDays(c.Dates)
	if err != nil {
		return fmt.Errorf("invalid --dates entry: %w", err)
	}
	specs, err := cli.LoadBlockFile(c.File)
	if err != nil {
		return err
	}
	phase, err := ctx.ResolvePhase(c.Phase)
	if err != nil {
		return err
	}

	res, err := ctx.Routines.ApplyScopedBlockEdit(ctx.Ctx, routine.EditRequest{
		PhaseID:       phase.ID,
		UserID:        ctx.UserID,
		AnchorDate:    anchor,
		Blocks:        specs,
		Scope:         scheduler.Scope(c.Scope),
		SelectedDates: selected,
		BeforeWrite:   ctx.PerformAutomaticBackup,
	})
	if err != nil {
		return err
	}

	switch len(res.Dates) {
	case 0:
		fmt.Println("No days updated")
	case 1:
		fmt.Printf("✓ Updated %s (%d block(s))\n", utils.DateKey(res.Dates[0]), len(res.BlocksWritten))
	default:
		fmt.Printf("✓ Updated %d day(s) from %s to %s (%d block(s))\n",
			len(res.Dates), utils.DateKey(res.Dates[0]), utils.DateKey(res.Dates[len(res.Dates)-1]), len(res.BlocksWritten))
	}

	streaks, err := ctx.Tracker.Recalculate(ctx.Ctx, phase.ID, ctx.UserID)
	if err != nil {
		return err
	}
	printStreak(streaks)
	return nil
}
