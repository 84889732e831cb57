package domain

import "context"

// Theme values persisted for a user across restarts. Everything else
// in this application is memory-only.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ThemeKey is the fixed key the theme flag is stored under.
const ThemeKey = "skillbarter-theme"

// PreferenceRepository stores small per-user key/value preferences.
type PreferenceRepository interface {
	Get(ctx context.Context, accountID, key string) (string, error)
	Set(ctx context.Context, accountID, key, value string) error
}
