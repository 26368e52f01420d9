package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/phaseflow/internal/clock"
	"github.com/julianstephens/phaseflow/internal/constants"
)

// ticking advances one second per call so every backup gets its own stamp
type ticking struct {
	t time.Time
}

func (c *ticking) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "phaseflow.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE phases (id TEXT PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO phases (id, name) VALUES ('p1', 'Spring'), ('p2', 'Summer')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func countPhases(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM phases").Scan(&n); err != nil {
		t.Fatalf("failed to count phases in %s: %v", path, err)
	}
	return n
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(clock.Fixed{Time: time.Date(2026, 3, 14, 15, 30, 0, 0, time.Local)}))

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if got, want := filepath.Base(path), "phaseflow-20260314-153000.db"; got != want {
		t.Errorf("backup name = %s, want %s", got, want)
	}
	if filepath.Dir(path) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written outside backup dir: %s", path)
	}
	if n := countPhases(t, path); n != 2 {
		t.Errorf("backup has %d phases, want 2", n)
	}
}

func TestCreate_SameSecondGetsCounter(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(clock.Fixed{Time: time.Date(2026, 3, 14, 15, 30, 0, 0, time.Local)}))

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	clk := &ticking{t: time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local)}
	mgr := NewManager(dbPath, WithClock(clk), WithRetention(3))

	var paths []string
	for i := 0; i < 5; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
		paths = append(paths, path)
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}
	if backups[0].Path != paths[4] {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, paths[4])
	}
	for _, old := range paths[:2] {
		if _, err := os.Stat(old); !os.IsNotExist(err) {
			t.Errorf("old backup %s should have been removed", old)
		}
	}
}

func TestDefaultRetention(t *testing.T) {
	mgr := NewManager("/tmp/phaseflow.db")
	if mgr.Retention() != constants.MaxBackups {
		t.Errorf("Retention() = %d, want %d", mgr.Retention(), constants.MaxBackups)
	}
}

func TestList(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List on missing dir failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}

	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "phaseflow-garbage.db", "other-20260101-000000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := NewManager(dbPath, WithClock(clock.Fixed{Time: time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local)})).Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected only the real backup, got %d", len(backups))
	}
	if want := time.Date(2026, 1, 2, 3, 4, 5, 0, time.Local); !backups[0].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", backups[0].Timestamp, want)
	}
	if backups[0].Size == 0 {
		t.Error("expected non-zero size")
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"phaseflow-20260314-153000.db", true},
		{"phaseflow-20260314-153000-2.db", true},
		{"phaseflow-20260314.db", false},
		{"daylit-20260314-153000.db", false},
		{"phaseflow-20260314-153000.json", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseName(tt.name); ok != tt.ok {
				t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	clk := &ticking{t: time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local)}
	mgr := NewManager(dbPath, WithClock(clk))

	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO phases (id, name) VALUES ('p3', 'Autumn')`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	previous, err := mgr.Restore(snapshot)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if n := countPhases(t, dbPath); n != 2 {
		t.Errorf("restored database has %d phases, want 2", n)
	}
	if previous == "" {
		t.Fatal("expected the replaced database to be backed up")
	}
	if n := countPhases(t, previous); n != 3 {
		t.Errorf("pre-restore backup has %d phases, want 3", n)
	}
}

func TestRestore_RejectsInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "phaseflow-20260314-153000.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite, padded to look like a header"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(bogus); err == nil {
		t.Fatal("expected error restoring corrupted backup")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Fatal("expected error restoring missing backup")
	}
	if n := countPhases(t, dbPath); n != 2 {
		t.Errorf("database changed after failed restore: %d phases", n)
	}
}

func TestCreate_NoDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Fatal("expected error backing up a missing database")
	}
}

func TestResolve(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(clock.Fixed{Time: time.Date(2026, 3, 14, 15, 30, 0, 0, time.Local)}))
	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := mgr.Resolve(filepath.Base(path))
	if err != nil {
		t.Fatalf("Resolve by name failed: %v", err)
	}
	if got != path {
		t.Errorf("Resolve = %s, want %s", got, path)
	}
	if _, err := mgr.Resolve(path); err != nil {
		t.Errorf("Resolve by absolute path failed: %v", err)
	}
	if _, err := mgr.Resolve("phaseflow-19990101-000000.db"); err == nil {
		t.Error("expected error for unknown backup")
	}
}
