package catalog

import "time"

// TUI is one catalogued terminal program.
type TUI struct {
	ID           string
	Name         string
	Command      string
	Args         []string
	WorkingDir   string
	Description  string
	Category     string
	Favorite     bool
	LaunchCount  int
	LastLaunched *time.Time
	CreatedAt    time.Time
}

// Category groups catalog entries; Position controls tab order in the UI.
type Category struct {
	Name     string
	Position int
}

// LaunchRecord is one row of launch history. ExitCode is nil when the
// process exit was never observed (detached launches, spawn failures,
// no terminal found).
type LaunchRecord struct {
	ID         string
	TUIID      string
	LaunchedAt time.Time
	Success    bool
	ExitCode   *int
	DurationMS int64
	Error      string
}

// Filter narrows List results.
type Filter struct {
	Category      string
	FavoritesOnly bool
}
