package reports

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/streak"
	"github.com/julianstephens/phaseflow/internal/utils"
)

type StreakCmd struct {
	Phase string `help:"Phase ID. Defaults to the active phase."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	phase, err := ctx.ResolvePhase(c.Phase)
	if err != nil {
		return err
	}
	res, err := ctx.Tracker.Recalculate(ctx.Ctx, phase.ID, ctx.UserID)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("%s\n\nCurrent streak  %s\nLongest streak  %s\nDays evaluated  %d",
		cli.TitleStyle.Render(phase.Name),
		cli.SuccessStyle.Render(strconv.Itoa(res.CurrentStreak)),
		strconv.Itoa(res.LongestStreak),
		res.DaysEvaluated)
	fmt.Println(cli.BoxStyle.Render(body))
	return nil
}

type ReportCmd struct {
	Phase string `help:"Phase ID. Defaults to the active phase."`
	Last  int    `help:"Only show the most recent N days (0 shows all)."`
	JSON  bool   `name:"json" help:"Print the report as JSON."`
}

type reportOutput struct {
	PhaseID string                `json:"phase_id"`
	Summary streak.Summary        `json:"summary"`
	Days    []streak.DayAdherence `json:"days"`
}

func (c *ReportCmd) Run(ctx *cli.Context) error {
	phase, err := ctx.ResolvePhase(c.Phase)
	if err != nil {
		return err
	}
	days, err := ctx.Analyzer.DailyAdherence(ctx.Ctx, phase.ID)
	if err != nil {
		return err
	}
	summary := streak.Summarize(days)
	if c.Last > 0 && len(days) > c.Last {
		days = days[len(days)-c.Last:]
	}

	if c.JSON {
		out, err := json.MarshalIndent(reportOutput{PhaseID: phase.ID, Summary: summary, Days: days}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Adherence for %s", phase.Name)))
	if len(days) == 0 {
		fmt.Println(cli.MutedStyle.Render("The phase has not started yet."))
		return nil
	}

	fmt.Println(renderDays(days))
	fmt.Printf("Successful days  %d of %d  %s\n", summary.SuccessfulDays, summary.TotalDays, cli.Percent(summary.AdherencePct))
	fmt.Printf("Blocks done      %s %s\n", cli.Bar(summary.CompletionPct/100, 20), cli.Percent(summary.CompletionPct))
	return nil
}

func renderDays(days []streak.DayAdherence) string {
	rows := make([][]string, 0, len(days))
	for _, d := range days {
		mark := ""
		if d.Successful {
			mark = "✓"
		}
		rows = append(rows, []string{
			utils.DateKey(d.Date),
			d.Date.Weekday().String()[:3],
			strconv.Itoa(d.Scheduled),
			strconv.Itoa(d.Done),
			strconv.Itoa(d.Skipped),
			strconv.Itoa(d.Pending),
			cli.Percent(d.Ratio * 100),
			mark,
		})
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(cli.MutedStyle).
		Headers("Date", "Day", "Blocks", "Done", "Skipped", "Pending", "Ratio", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == 7 {
				return cell.Foreground(lipgloss.Color("42"))
			}
			return cell
		}).
		Render()
}
