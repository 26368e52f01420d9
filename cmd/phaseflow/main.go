package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/phaseflow/internal/cli"
	"github.com/julianstephens/phaseflow/internal/cli/backups"
	"github.com/julianstephens/phaseflow/internal/cli/phases"
	"github.com/julianstephens/phaseflow/internal/cli/reports"
	"github.com/julianstephens/phaseflow/internal/cli/routines"
	"github.com/julianstephens/phaseflow/internal/cli/system"
	"github.com/julianstephens/phaseflow/internal/cli/timesheets"
	"github.com/julianstephens/phaseflow/internal/clock"
	"github.com/julianstephens/phaseflow/internal/constants"
	"github.com/julianstephens/phaseflow/internal/logger"
)

// CLI is the kong command tree
type CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use environment variables, .pgpass, or OS keyring instead." type:"string" default:"~/.config/phaseflow/phaseflow.db"`
	User    string `help:"ID of the user whose data is read and written." default:"local" env:"PHASEFLOW_USER"`
	Debug   bool   `help:"Log debug output to stderr."`

	LogLevel string `help:"Log file level (debug, info, warn, error). Defaults to warn, or debug with --debug." env:"PHASEFLOW_LOG_LEVEL"`

	Init     system.InitCmd          `cmd:"" help:"Initialize phaseflow storage."`
	Migrate  system.MigrateCmd       `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd        `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd      `cmd:"" help:"Check a phase's blocks for conflicts."`
	Debugger system.DebugCmd         `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring  system.KeyringCmd       `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Phase    phases.PhaseCmd         `cmd:"" help:"Manage phases."`
	Template routines.TemplateCmd    `cmd:"" help:"Manage the phase's daily template."`
	Clone    routines.CloneCmd       `cmd:"" help:"Schedule the template across the phase."`
	Edit     routines.EditCmd        `cmd:"" help:"Rewrite the blocks of one or more days."`
	Day      routines.DayCmd         `cmd:"" help:"Show a day's schedule." default:"1"`
	Done     routines.DoneCmd        `cmd:"" help:"Mark a block done."`
	Skip     routines.SkipCmd        `cmd:"" help:"Mark a block skipped."`
	Clear    routines.ClearCmd       `cmd:"" help:"Return a block to pending."`
	Streak   reports.StreakCmd       `cmd:"" help:"Show current and longest streak."`
	Report   reports.ReportCmd       `cmd:"" help:"Show daily adherence."`
	Sheet    timesheets.TimesheetCmd `cmd:"" name:"timesheet" help:"Log unplanned time."`
	Backup   backups.BackupCmd       `cmd:"" help:"Manage database backups."`
}

// commands that open the store themselves, or never need it
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errEmbeddedCredentials) {
			printCredentialHelp()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newParser(root *CLI) (*kong.Kong, error) {
	return kong.New(root,
		kong.Name(constants.AppName),
		kong.Description("Phase-based routine planner and streak tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
}

func run(args []string) error {
	var root CLI
	parser, err := newParser(&root)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logCfg := logger.Config{Debug: root.Debug, ConfigDir: configDir(root.Config), Level: root.LogLevel}
	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer func() { _ = logger.Close() }()

	store, err := openStore(root.Config)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := cli.NewContext(runCtx, store, root.User, clock.RealClock{})

	if !skipLoad[strings.Fields(kctx.Command())[0]] {
		if err := store.Load(); err != nil {
			return err
		}
	}

	err = kctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	if err != nil {
		logger.Error("Command failed", "command", kctx.Command(), "error", err)
	}
	return err
}
