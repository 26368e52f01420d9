package constants

import "time"

const (
	AppName            = "phaseflow"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/phaseflow/phaseflow.db"
	DefaultUserID      = "local"
	Version            = "v0.3.0"

	// ConnectionEnvVar holds a PostgreSQL connection string when --config is not one
	ConnectionEnvVar = "PHASEFLOW_DB_CONNECTION"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DaySuccessThreshold is the minimum fraction of a day's scheduled blocks
	// that must be DONE for the day to count towards a streak.
	DaySuccessThreshold = 0.70

	// DefaultCategoryName is substituted when a block has no usable category
	DefaultCategoryName = "Uncategorized"

	// DefaultBlockColor is used when a block definition omits a color
	DefaultBlockColor = "#6366f1"

	// Log file rotation
	LogDirName    = "logs"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "phaseflow-"
	BackupFileSuffix = ".db"

	// Postgres pool settings
	PostgresMaxOpenConns    = 25
	PostgresMaxIdleConns    = 25
	PostgresConnMaxLifetime = 5 * time.Minute

	// SQLiteMaxBatchParams caps the number of bound parameters in one IN (...) list
	SQLiteMaxBatchParams = 500
)
