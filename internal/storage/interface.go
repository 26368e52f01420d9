package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/julianstephens/phaseflow/internal/models"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so store methods run the
// same SQL inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// Repository holds every data operation. Missing rows are reported as
// errors wrapping errors.ErrNotFound. Date range arguments are inclusive
// calendar days.
type Repository interface {
	// Users
	AddUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)

	// Phases
	AddPhase(ctx context.Context, phase models.Phase) error
	GetPhase(ctx context.Context, id string) (models.Phase, error)
	GetActivePhase(ctx context.Context, userID string) (models.Phase, error)
	ListPhases(ctx context.Context, userID string) ([]models.Phase, error)
	// UpdatePhase never writes streak columns; see UpdatePhaseStreaks
	UpdatePhase(ctx context.Context, phase models.Phase) error
	UpdatePhaseStreaks(ctx context.Context, phaseID string, current, longest int) error
	DeactivatePhases(ctx context.Context, userID string) error

	// Categories
	AddCategory(ctx context.Context, category models.Category) error
	GetCategory(ctx context.Context, id string) (models.Category, error)
	GetCategoryByName(ctx context.Context, userID, name string) (models.Category, error)
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)

	// Routine blocks
	AddBlocks(ctx context.Context, blocks []models.RoutineBlock) error
	GetBlock(ctx context.Context, id string) (models.RoutineBlock, error)
	GetTemplateBlocks(ctx context.Context, phaseID string) ([]models.RoutineBlock, error)
	DeleteTemplateBlocks(ctx context.Context, phaseID string) error
	GetDatedBlocks(ctx context.Context, phaseID string, start, end time.Time) ([]models.RoutineBlock, error)
	GetAllDatedBlocks(ctx context.Context, phaseID string) ([]models.RoutineBlock, error)
	DeleteBlocks(ctx context.Context, ids []string) error

	// Executions
	UpsertExecution(ctx context.Context, exec models.RoutineExecution) error
	GetExecution(ctx context.Context, blockID string, date time.Time) (models.RoutineExecution, error)
	GetExecutions(ctx context.Context, phaseID string, start, end time.Time) ([]models.RoutineExecution, error)
	DeleteExecution(ctx context.Context, blockID string, date time.Time) error
	DeleteExecutionsForBlocks(ctx context.Context, blockIDs []string) error

	// Timesheet
	AddTimesheetEntry(ctx context.Context, entry models.TimesheetEntry) error
	GetTimesheetEntry(ctx context.Context, id string) (models.TimesheetEntry, error)
	GetTimesheetEntries(ctx context.Context, phaseID string, start, end time.Time) ([]models.TimesheetEntry, error)
	DeleteTimesheetEntry(ctx context.Context, id string) error
}

// TxFunc runs inside a transaction; tx is a Repository bound to it
type TxFunc func(ctx context.Context, tx Repository) error

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string

	Repository

	// WithTx runs fn in a single transaction, committing when fn returns nil
	// and rolling back otherwise.
	WithTx(ctx context.Context, fn TxFunc) error
}

// Migrator is implemented by stores whose schema is managed by the
// embedded migrations.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}
