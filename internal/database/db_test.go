package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenAndMigrateInMemory(t *testing.T) {
	ctx := context.Background()
	db, err := OpenAndMigrate(ctx, DriverPureGo, ":memory:")
	if err != nil {
		t.Fatalf("OpenAndMigrate: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"accounts", "players", "pets", "mission_slots", "small_event_history", "potions"} {
		var name string
		err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}

	// A second run is a no-op.
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	applied, err := AppliedVersions(ctx, db)
	if err != nil {
		t.Fatalf("AppliedVersions: %v", err)
	}
	files, err := MigrationFiles()
	if err != nil {
		t.Fatalf("MigrationFiles: %v", err)
	}
	if len(applied) != len(files) {
		t.Fatalf("applied %d migrations, have %d files", len(applied), len(files))
	}
}

func TestOpenAndMigrateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "crownicles.db")
	db, err := OpenAndMigrate(context.Background(), DriverPureGo, path)
	if err != nil {
		t.Fatalf("OpenAndMigrate: %v", err)
	}
	defer db.Close()

	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("expected foreign keys on, got %d", fk)
	}
}

func TestOpenAndMigrateRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenAndMigrate(context.Background(), "postgres", ":memory:"); err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}
	if _, err := OpenAndMigrate(context.Background(), DriverPureGo, ""); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}

func TestDSN(t *testing.T) {
	if got := DSN(DriverCGO, "data/app.db"); got != "file:data/app.db?_foreign_keys=on&_busy_timeout=5000" {
		t.Fatalf("unexpected cgo DSN %q", got)
	}
	if got := DSN(DriverPureGo, "data/app.db"); !strings.Contains(got, "_pragma=foreign_keys(1)") {
		t.Fatalf("unexpected pure-go DSN %q", got)
	}
	if got := DSN(DriverCGO, "file:custom.db?mode=ro"); got != "file:custom.db?mode=ro" {
		t.Fatalf("expected file: DSN passthrough, got %q", got)
	}
}

func TestStripLineComments(t *testing.T) {
	in := "SELECT '--not a comment'; -- gone\nSELECT 1;"
	out := stripLineComments(in)
	if strings.Contains(out, "gone") {
		t.Fatalf("comment not stripped: %q", out)
	}
	if !strings.Contains(out, "'--not a comment'") {
		t.Fatalf("quoted text altered: %q", out)
	}
}
