package routines

import (
	"fmt"

	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/streak"
)

type DoneCmd struct {
	BlockID string `arg:"" help:"ID of the scheduled block."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	return logStatus(ctx, c.BlockID, models.ExecutionDone)
}

type SkipCmd struct {
	BlockID string `arg:"" help:"ID of the scheduled block."`
}

func (c *SkipCmd) Run(ctx *cli.Context) error {
	return logStatus(ctx, c.BlockID, models.ExecutionSkipped)
}

type ClearCmd struct {
	BlockID string `arg:"" help:"ID of the scheduled block."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	res, err := ctx.Tracker.ClearExecution(ctx.Ctx, ctx.UserID, c.BlockID)
	if err != nil {
		return err
	}
	fmt.Println("✓ Block returned to pending")
	printStreak(res)
	return nil
}

func logStatus(ctx *cli.Context, blockID string, status models.ExecutionStatus) error {
	res, err := ctx.Tracker.LogExecution(ctx.Ctx, ctx.UserID, blockID, status)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Marked %s %s\n", res.Execution.DateKey(), cli.StatusLabel(res.Execution.Status))
	printStreak(res.Streak)
	return nil
}

func printStreak(res streak.Result) {
	fmt.Printf("  Streak: %d current, %d longest\n", res.CurrentStreak, res.LongestStreak)
}
