package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/logger"
	"github.com/julianstephens/phaseflow/internal/models"
)

type DebugCmd struct {
	DBPath    *DebugDBPathCmd    `cmd:"" help:"Show database path."`
	DumpPhase *DebugDumpPhaseCmd `cmd:"" help:"Dump phase data as JSON."`
	DumpDay   *DebugDumpDayCmd   `cmd:"" help:"Dump a day's blocks and executions as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
		"log":  logger.Path(),
	})
}

type DebugDumpPhaseCmd struct {
	ID string `arg:"" optional:"" help:"ID of the phase to dump. Defaults to the active phase."`
}

type phaseDump struct {
	Phase      models.Phase          `json:"phase"`
	Template   []models.RoutineBlock `json:"template"`
	Categories []models.Category     `json:"categories"`
}

func (cmd *DebugDumpPhaseCmd) Run(ctx *cli.Context) error {
	phase, err := ctx.ResolvePhase(cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get phase: %w", err)
	}
	template, err := ctx.Store.GetTemplateBlocks(ctx.Ctx, phase.ID)
	if err != nil {
		return fmt.Errorf("failed to get template: %w", err)
	}
	categories, err := ctx.Store.ListCategories(ctx.Ctx, ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	return printJSON(phaseDump{Phase: phase, Template: template, Categories: categories})
}

type DebugDumpDayCmd struct {
	Date  string `arg:"" help:"Date to dump (YYYY-MM-DD or 'today')."`
	Phase string `help:"Phase ID. Defaults to the active phase."`
}

type dayDump struct {
	Date       string                    `json:"date"`
	Blocks     []models.RoutineBlock     `json:"blocks"`
	Executions []models.RoutineExecution `json:"executions"`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ParseDay(cmd.Date)
	if err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", cmd.Date)
	}
	phase, err := ctx.ResolvePhase(cmd.Phase)
	if err != nil {
		return fmt.Errorf("failed to get phase: %w", err)
	}

	blocks, err := ctx.Store.GetDatedBlocks(ctx.Ctx, phase.ID, day, day)
	if err != nil {
		return fmt.Errorf("failed to get blocks: %w", err)
	}
	execs, err := ctx.Store.GetExecutions(ctx.Ctx, phase.ID, day, day)
	if err != nil {
		return fmt.Errorf("failed to get executions: %w", err)
	}
	return printJSON(dayDump{Date: day.Format("2006-01-02"), Blocks: blocks, Executions: execs})
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
