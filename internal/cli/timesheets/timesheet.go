package timesheets

import (
	"fmt"
	"time"

	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/timesheet"
	"github.com/julianstephens/phaseflow/internal/utils"
)

type TimesheetCmd struct {
	Add     TimesheetAddCmd     `cmd:"" help:"Log unplanned time."`
	List    TimesheetListCmd    `cmd:"" help:"List logged time." default:"1"`
	Delete  TimesheetDeleteCmd  `cmd:"" help:"Delete a timesheet entry."`
	Summary TimesheetSummaryCmd `cmd:"" help:"Total logged time by priority."`
}

type TimesheetAddCmd struct {
	Title    string `arg:"" help:"What the time was spent on."`
	Start    string `required:"" help:"Start time (HH:MM)."`
	End      string `required:"" help:"End time (HH:MM)."`
	Date     string `default:"today" help:"Day of the entry (YYYY-MM-DD or 'today')."`
	Priority string `default:"MEDIUM" help:"HIGH, MEDIUM or LOW."`
	Note     string `help:"Optional note."`
	Phase    string `help:"Phase ID. Defaults to the active phase."`
}

func (c *TimesheetAddCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}
	phase, err := ctx.ResolvePhase(c.Phase)
	if err != nil {
		return err
	}

	entry, err := ctx.Timesheet.Log(ctx.Ctx, ctx.UserID, models.TimesheetEntry{
		PhaseID:   phase.ID,
		Title:     c.Title,
		Note:      c.Note,
		StartTime: c.Start,
		EndTime:   c.End,
		Priority:  models.Priority(c.Priority),
		Date:      day,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Logged %q on %s (%s-%s, %s)\n", entry.Title, utils.DateKey(entry.Date), entry.StartTime, entry.EndTime, entry.Priority)
	fmt.Printf("  ID: %s\n", entry.ID)
	return nil
}

// RangeFlags are shared by list and summary
type RangeFlags struct {
	From  string `help:"First day (YYYY-MM-DD). Defaults to the phase start."`
	To    string `help:"Last day (YYYY-MM-DD). Defaults to the phase end."`
	Phase string `help:"Phase ID. Defaults to the active phase."`
}

func (r RangeFlags) entries(ctx *cli.Context) ([]models.TimesheetEntry, error) {
	var from, to time.Time
	var err error
	if r.From != "" {
		if from, err = ctx.ParseDay(r.From); err != nil {
			return nil, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if r.To != "" {
		if to, err = ctx.ParseDay(r.To); err != nil {
			return nil, fmt.Errorf("invalid --to: %w", err)
		}
	}
	phase, err := ctx.ResolvePhase(r.Phase)
	if err != nil {
		return nil, err
	}
	return ctx.Timesheet.List(ctx.Ctx, ctx.UserID, phase.ID, from, to)
}

type TimesheetListCmd struct {
	RangeFlags `embed:""`
}

func (c *TimesheetListCmd) Run(ctx *cli.Context) error {
	entries, err := c.entries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No timesheet entries.")
		return nil
	}

	var day string
	for _, e := range entries {
		if key := utils.DateKey(e.Date); key != day {
			day = key
			fmt.Println(cli.TitleStyle.Render(day))
		}
		fmt.Printf("  %s-%s  %-28s %-6s %s\n", e.StartTime, e.EndTime, e.Title, e.Priority, cli.MutedStyle.Render(e.ID))
		if e.Note != "" {
			fmt.Println("               " + cli.MutedStyle.Render(e.Note))
		}
	}
	return nil
}

type TimesheetDeleteCmd struct {
	ID string `arg:"" help:"ID of the entry."`
}

func (c *TimesheetDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Timesheet.Delete(ctx.Ctx, ctx.UserID, c.ID); err != nil {
		return err
	}
	fmt.Println("✓ Timesheet entry deleted")
	return nil
}

type TimesheetSummaryCmd struct {
	RangeFlags `embed:""`
}

func (c *TimesheetSummaryCmd) Run(ctx *cli.Context) error {
	entries, err := c.entries(ctx)
	if err != nil {
		return err
	}
	s := timesheet.Summarize(entries)

	fmt.Println(cli.TitleStyle.Render("Timesheet summary"))
	fmt.Printf("Entries  %d\n", s.Entries)
	fmt.Printf("Total    %s\n", utils.FormatMinutes(s.TotalMinutes))
	for _, p := range []models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		share := 0.0
		if s.TotalMinutes > 0 {
			share = float64(s.ByPriority[p]) / float64(s.TotalMinutes)
		}
		fmt.Printf("  %-6s %s %6s\n", p, cli.Bar(share, 20), utils.FormatMinutes(s.ByPriority[p]))
	}
	return nil
}
