package routines

import (
	"fmt"

	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/utils"
)

type DayCmd struct {
	Date     string `default:"today" help:"Day to show (YYYY-MM-DD, 'today', 'yesterday' or 'tomorrow')."`
	Phase    string `help:"Phase ID. Defaults to the active phase."`
	DayStart string `default:"06:00" help:"Start of the waking day, used for free time."`
	DayEnd   string `default:"22:00" help:"End of the waking day, used for free time."`
}

func (c *DayCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}
	phase, err := ctx.ResolvePhase(c.Phase)
	if err != nil {
		return err
	}

	schedule, err := ctx.Tracker.Day(ctx.Ctx, phase.ID, ctx.UserID, day)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("%s  %s", utils.DateKey(day), day.Weekday())
	if !phase.Contains(day) {
		header += "  " + cli.WarnStyle.Render("(outside "+phase.Name+")")
	}
	fmt.Println(cli.TitleStyle.Render(header))

	if len(schedule.Blocks) == 0 {
		fmt.Println(cli.MutedStyle.Render("No blocks scheduled."))
		return nil
	}

	categories, err := categoryNames(ctx)
	if err != nil {
		return err
	}
	for _, b := range schedule.Blocks {
		printBlock(b, categories[b.CategoryID], cli.StatusLabel(schedule.Status[b.ID]))
		fmt.Println(cli.MutedStyle.Render("               id: " + b.ID))
	}

	if schedule.Successful {
		fmt.Println(cli.SuccessStyle.Render("\n✓ Day successful"))
	}

	windows, err := ctx.Scheduler.FreeWindows(schedule.Blocks, c.DayStart, c.DayEnd)
	if err != nil {
		return err
	}
	if len(windows) > 0 {
		fmt.Println("\nFree time:")
		for _, w := range windows {
			fmt.Printf("  %s-%s  %s\n", w.Start, w.End, cli.MutedStyle.Render(utils.FormatMinutes(w.Minutes())))
		}
	}
	return nil
}
