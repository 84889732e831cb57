package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/msomdec/skillbarter/internal/domain"
)

func openTestDB(t *testing.T, path string) *DB {
	t.Helper()

	db, err := New(path)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func TestPreferenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	prefs := db.Preferences()

	if err := prefs.Set(ctx, "acct-1", domain.ThemeKey, domain.ThemeLight); err != nil {
		t.Fatalf("setting preference: %v", err)
	}

	got, err := prefs.Get(ctx, "acct-1", domain.ThemeKey)
	if err != nil {
		t.Fatalf("getting preference: %v", err)
	}
	if got != domain.ThemeLight {
		t.Errorf("theme = %q, want %q", got, domain.ThemeLight)
	}
}

func TestPreferenceUpsert(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	prefs := db.Preferences()

	if err := prefs.Set(ctx, "acct-1", domain.ThemeKey, domain.ThemeLight); err != nil {
		t.Fatalf("setting preference: %v", err)
	}
	if err := prefs.Set(ctx, "acct-1", domain.ThemeKey, domain.ThemeDark); err != nil {
		t.Fatalf("overwriting preference: %v", err)
	}

	got, err := prefs.Get(ctx, "acct-1", domain.ThemeKey)
	if err != nil {
		t.Fatalf("getting preference: %v", err)
	}
	if got != domain.ThemeDark {
		t.Errorf("theme = %q, want overwritten %q", got, domain.ThemeDark)
	}
}

func TestPreferenceMissing(t *testing.T) {
	db := openTestDB(t, filepath.Join(t.TempDir(), "test.db"))

	_, err := db.Preferences().Get(context.Background(), "acct-1", domain.ThemeKey)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing preference: got %v, want ErrNotFound", err)
	}
}

func TestPreferenceSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db := openTestDB(t, path)
	if err := db.Preferences().Set(ctx, "acct-1", domain.ThemeKey, domain.ThemeLight); err != nil {
		t.Fatalf("setting preference: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	reopened := openTestDB(t, path)
	got, err := reopened.Preferences().Get(ctx, "acct-1", domain.ThemeKey)
	if err != nil {
		t.Fatalf("getting preference after reopen: %v", err)
	}
	if got != domain.ThemeLight {
		t.Errorf("theme after reopen = %q, want %q", got, domain.ThemeLight)
	}
}

func TestPreferenceIsolatedPerAccount(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	prefs := db.Preferences()

	if err := prefs.Set(ctx, "acct-1", domain.ThemeKey, domain.ThemeLight); err != nil {
		t.Fatalf("setting preference: %v", err)
	}

	if _, err := prefs.Get(ctx, "acct-2", domain.ThemeKey); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("other account's preference: got %v, want ErrNotFound", err)
	}
}
