// Package logger is phaseflow's process-wide structured logger. Records go
// to a rotating file next to the database; debug mode copies them to stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/phaseflow/internal/constants"
)

// std discards everything until Init runs, so packages can log from tests
// without setup.
var (
	std     = log.New(io.Discard)
	rotator *lumberjack.Logger
)

type Config struct {
	Debug     bool
	ConfigDir string

	// Level overrides the level policy (debug, info, warn, error). Empty
	// means Debug with --debug and Warn otherwise.
	Level string
}

// LogPath returns the log file phaseflow writes for configDir
func LogPath(configDir string) string {
	return filepath.Join(configDir, constants.LogDirName, constants.AppName+".log")
}

// Path returns the active log file, or "" before Init
func Path() string {
	if rotator == nil {
		return ""
	}
	return rotator.Filename
}

func level(cfg Config) (log.Level, error) {
	if cfg.Level == "" {
		if cfg.Debug {
			return log.DebugLevel, nil
		}
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", cfg.Level)
	}
	return lvl, nil
}

// Init points the package logger at LogPath(cfg.ConfigDir). Calling it again
// closes the previous file.
func Init(cfg Config) error {
	lvl, err := level(cfg)
	if err != nil {
		return err
	}

	path := LogPath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	if err := Close(); err != nil {
		return err
	}
	rotator = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   true,
	}

	var w io.Writer = rotator
	if cfg.Debug {
		w = io.MultiWriter(os.Stderr, rotator)
	}

	std = log.NewWithOptions(w, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          constants.AppName,
	})
	std.Debug("Logger ready", "path", path, "level", lvl.String())
	return nil
}

// Close flushes and releases the log file. Later records are discarded.
func Close() error {
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	std = log.New(io.Discard)
	return err
}

func Debug(msg string, keyvals ...interface{}) { std.Debug(msg, keyvals...) }
func Info(msg string, keyvals ...interface{}) { std.Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{}) { std.Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { std.Error(msg, keyvals...) }
