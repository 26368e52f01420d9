package phases

import (
	"fmt"
	"strings"

	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/phase"
	"github.com/julianstephens/phaseflow/internal/utils"
)

type PhaseCmd struct {
	Add      PhaseAddCmd      `cmd:"" help:"Create a new phase."`
	List     PhaseListCmd     `cmd:"" help:"List phases." default:"1"`
	Show     PhaseShowCmd     `cmd:"" help:"Show phase details."`
	Activate PhaseActivateCmd `cmd:"" help:"Make a phase the active one."`
	Archive  PhaseArchiveCmd  `cmd:"" help:"Mark a phase as completed."`
}

type PhaseAddCmd struct {
	Name     string `arg:"" help:"Phase name."`
	Start    string `required:"" help:"First day (YYYY-MM-DD or 'today')."`
	End      string `required:"" help:"Last day, inclusive (YYYY-MM-DD)."`
	Why      string `help:"Why this phase matters."`
	Outcome  string `help:"What done looks like."`
	Activate bool   `help:"Make the new phase the active one."`
}

func (c *PhaseAddCmd) Run(ctx *cli.Context) error {
	start, err := ctx.ParseDay(c.Start)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := ctx.ParseDay(c.End)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}

	p, err := ctx.Phases.Create(ctx.Ctx, phase.CreateRequest{
		UserID:   ctx.UserID,
		Name:     c.Name,
		Start:    start,
		End:      end,
		Why:      c.Why,
		Outcome:  c.Outcome,
		Activate: c.Activate,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Created phase %q (%d days)\n", p.Name, p.DurationDays)
	fmt.Printf("  ID: %s\n", p.ID)
	if p.IsActive {
		fmt.Println("  Active: yes")
	}
	return nil
}

type PhaseListCmd struct{}

func (c *PhaseListCmd) Run(ctx *cli.Context) error {
	phases, err := ctx.Phases.List(ctx.Ctx, ctx.UserID)
	if err != nil {
		return err
	}
	if len(phases) == 0 {
		fmt.Println("No phases yet. Create one with 'phaseflow phase add'.")
		return nil
	}

	for _, p := range phases {
		marker := " "
		if p.IsActive {
			marker = "*"
		}
		fmt.Printf("%s %s  %s → %s  %-24s %s\n",
			marker, p.ID, utils.DateKey(p.StartDate), utils.DateKey(p.EndDate), p.Name, phaseState(p))
	}
	return nil
}

type PhaseShowCmd struct {
	ID string `arg:"" optional:"" help:"Phase ID. Defaults to the active phase."`
}

func (c *PhaseShowCmd) Run(ctx *cli.Context) error {
	p, err := ctx.ResolvePhase(c.ID)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintln(&b, cli.TitleStyle.Render(p.Name))
	fmt.Fprintf(&b, "ID:       %s\n", p.ID)
	fmt.Fprintf(&b, "Dates:    %s → %s (%d days)\n", utils.DateKey(p.StartDate), utils.DateKey(p.EndDate), p.DurationDays)
	fmt.Fprintf(&b, "Status:   %s\n", phaseState(p))
	fmt.Fprintf(&b, "Streak:   %d current, %d longest", p.CurrentStreak, p.LongestStreak)
	if p.Why != "" {
		fmt.Fprintf(&b, "\nWhy:      %s", p.Why)
	}
	if p.Outcome != "" {
		fmt.Fprintf(&b, "\nOutcome:  %s", p.Outcome)
	}
	fmt.Println(cli.BoxStyle.Render(b.String()))
	return nil
}

type PhaseActivateCmd struct {
	ID string `arg:"" help:"Phase ID."`
}

func (c *PhaseActivateCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Phases.Activate(ctx.Ctx, ctx.UserID, c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Phase %q is now active\n", p.Name)
	return nil
}

type PhaseArchiveCmd struct {
	ID string `arg:"" optional:"" help:"Phase ID. Defaults to the active phase."`
}

func (c *PhaseArchiveCmd) Run(ctx *cli.Context) error {
	target, err := ctx.ResolvePhase(c.ID)
	if err != nil {
		return err
	}
	p, err := ctx.Phases.Archive(ctx.Ctx, ctx.UserID, target.ID)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Archived phase %q\n", p.Name)
	return nil
}

func phaseState(p models.Phase) string {
	switch {
	case p.IsActive:
		return cli.SuccessStyle.Render("active")
	case p.CompletedAt != nil:
		return cli.MutedStyle.Render("completed " + utils.DateKey(p.CompletedAt.Local()))
	default:
		return cli.MutedStyle.Render("inactive")
	}
}
