package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(data)
}

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { _ = Close() })

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got, want := Path(), filepath.Join(configDir, "logs", "phaseflow.log"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	Debug("debug message", "phase", "p1")
	Info("info message")
	Warn("warning message", "blocks", 3)
	Error("error message")

	out := readLog(t, LogPath(configDir))
	if !strings.Contains(out, "warning message") || !strings.Contains(out, "error message") {
		t.Errorf("warn and error records missing from log:\n%s", out)
	}
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("records below warn should be dropped by default:\n%s", out)
	}
}

func TestLevelPolicy(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    log.Level
		wantErr bool
	}{
		{"default is warn", Config{}, log.WarnLevel, false},
		{"debug flag", Config{Debug: true}, log.DebugLevel, false},
		{"explicit level wins over debug", Config{Debug: true, Level: "error"}, log.ErrorLevel, false},
		{"case and spaces ignored", Config{Level: " INFO "}, log.InfoLevel, false},
		{"unknown level", Config{Level: "chatty"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := level(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("level() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitRejectsBadLevel(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	if err := Init(Config{ConfigDir: configDir, Level: "loud"}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
	if Path() != "" {
		t.Errorf("a rejected Init must not open a log file, got %q", Path())
	}
}

func TestInitInfoLevel(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	t.Cleanup(func() { _ = Close() })

	if err := Init(Config{ConfigDir: configDir, Level: "info"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Info("phase archived", "phase", "p1")

	if out := readLog(t, LogPath(configDir)); !strings.Contains(out, "phase archived") {
		t.Errorf("info record missing:\n%s", out)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if Path() != "" {
		t.Errorf("Path() = %q after Close", Path())
	}

	// None of these may panic
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
}
