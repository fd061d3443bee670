package migration

import (
	"strings"
	"testing"
	"testing/fstest"

	"resume-ats/migrations"
)

func TestLoadOrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"V10__later.sql": {Data: []byte("SELECT 10;")},
		"V2__second.sql": {Data: []byte("SELECT 2;")},
		"V1__first.sql":  {Data: []byte(" SELECT 1; \n")},
		"README.md":      {Data: []byte("ignored")},
		"v3__lower.sql":  {Data: []byte("ignored")},
	}

	migs, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(migs) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[1].Version != 2 || migs[2].Version != 10 {
		t.Fatalf("unexpected order: %d %d %d", migs[0].Version, migs[1].Version, migs[2].Version)
	}
	if migs[0].SQL != "SELECT 1;" {
		t.Fatalf("expected trimmed sql, got %q", migs[0].SQL)
	}
	if migs[0].Name != "first" || len(migs[0].Checksum) != 64 {
		t.Fatalf("unexpected migration: %+v", migs[0])
	}
}

func TestLoadRejectsEmptyAndDuplicate(t *testing.T) {
	if _, err := Load(fstest.MapFS{"V1__empty.sql": {Data: []byte("  ")}}); err == nil {
		t.Fatalf("expected error for empty migration")
	}

	dup := fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := Load(dup)
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	migs, err := Load(migrations.Files)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(migs) < 2 {
		t.Fatalf("expected embedded migrations, got %d", len(migs))
	}
	if !strings.Contains(migs[0].SQL, "resume_analyses") {
		t.Fatalf("expected first migration to create resume_analyses")
	}
}
