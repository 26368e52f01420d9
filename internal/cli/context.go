package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/phaseflow/internal/backup"
	"github.com/julianstephens/phaseflow/internal/clock"
	apperrors "github.com/julianstephens/phaseflow/internal/errors"
	"github.com/julianstephens/phaseflow/internal/logger"
	"github.com/julianstephens/phaseflow/internal/models"
	"github.com/julianstephens/phaseflow/internal/phase"
	"github.com/julianstephens/phaseflow/internal/routine"
	"github.com/julianstephens/phaseflow/internal/scheduler"
	"github.com/julianstephens/phaseflow/internal/storage"
	"github.com/julianstephens/phaseflow/internal/storage/sqlite"
	"github.com/julianstephens/phaseflow/internal/streak"
	"github.com/julianstephens/phaseflow/internal/timesheet"
	"github.com/julianstephens/phaseflow/internal/utils"
)

// Context is handed to every command's Run method
type Context struct {
	Ctx       context.Context
	Store     storage.Provider
	UserID    string
	Clock     clock.Clock
	Scheduler *scheduler.Scheduler
	Phases    *phase.Service
	Routines  *routine.Engine
	Tracker   *routine.Tracker
	Analyzer  *streak.Analyzer
	Timesheet *timesheet.Service
}

func NewContext(ctx context.Context, store storage.Provider, userID string, clk clock.Clock) *Context {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Context{
		Ctx:       ctx,
		Store:     store,
		UserID:    userID,
		Clock:     clk,
		Scheduler: scheduler.New(),
		Phases:    phase.NewService(store, clk),
		Routines:  routine.NewEngine(store, clk),
		Tracker:   routine.NewTracker(store, clk),
		Analyzer:  streak.NewAnalyzer(store, clk),
		Timesheet: timesheet.NewService(store, clk),
	}
}

// Today is the current calendar day at local midnight
func (c *Context) Today() time.Time {
	return utils.Day(c.Clock.Now())
}

// ResolvePhase returns the named phase, or the user's active phase when
// phaseID is empty.
func (c *Context) ResolvePhase(phaseID string) (models.Phase, error) {
	p, err := c.Phases.Resolve(c.Ctx, c.UserID, phaseID)
	if err != nil && phaseID == "" && apperrors.Is(err, apperrors.ErrNotFound) {
		return models.Phase{}, fmt.Errorf("%w (create one with 'phaseflow phase add --activate' or pass --phase)", err)
	}
	return p, err
}

// IsSQLite reports whether the store is file backed
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// PerformAutomaticBackup snapshots a SQLite database before destructive
// commands. Failures are logged and never stop the command.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath(), backup.WithClock(c.Clock))
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
