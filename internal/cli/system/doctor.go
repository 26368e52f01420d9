package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/phaseflow/internal/backup"
	"github.com/julianstephens/phaseflow/internal/cli"
	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/storage"
	"github.com/julianstephens/phaseflow/internal/storage/sqlite"
)

type DoctorCmd struct{}

// check is one diagnostic. A warnOnly failure is reported but does not
// fail the run.
type check struct {
	name     string
	warnOnly bool
	needsDB  bool
	run      func(ctx *cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Active phase", warnOnly: true, needsDB: true, run: checkActivePhase},
	{name: "Routine integrity", needsDB: true, run: checkRoutineIntegrity},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRowContext(ctx.Ctx, "SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func schemaVersion(ctx *cli.Context) (int, int, error) {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return 0, 0, nil
	}
	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return current, latest, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := schemaVersion(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return fmt.Errorf("automatic backups are only available for SQLite storage")
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'phaseflow backup create'")
	}
	return nil
}

func checkActivePhase(ctx *cli.Context) error {
	_, err := ctx.Phases.Active(ctx.Ctx, ctx.UserID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("no active phase - create one with 'phaseflow phase add --activate'")
	}
	return err
}

func checkRoutineIntegrity(ctx *cli.Context) error {
	phases, err := ctx.Phases.List(ctx.Ctx, ctx.UserID)
	if err != nil {
		return fmt.Errorf("failed to list phases: %w", err)
	}

	problems := 0
	for _, p := range phases {
		reports, err := ctx.AuditPhase(p)
		if err != nil {
			return fmt.Errorf("failed to audit phase %s: %w", p.Name, err)
		}
		problems += len(reports)
	}
	if problems > 0 {
		return fmt.Errorf("found %d block set(s) with conflicts - run 'phaseflow validate' for details", problems)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := ctx.Clock.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
