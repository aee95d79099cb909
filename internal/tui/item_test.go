package tui

import (
	"strings"
	"testing"
	"time"

	"hangar/internal/catalog"
	"hangar/internal/config"
)

func TestItemTitle(t *testing.T) {
	plain := item{tui: catalog.TUI{Name: "htop"}}
	if got := plain.Title(); !strings.HasSuffix(got, "htop") || strings.Contains(got, "★") {
		t.Errorf("Title() = %q", got)
	}

	fav := item{tui: catalog.TUI{Name: "htop", Favorite: true}}
	if got := fav.Title(); !strings.Contains(got, "★") {
		t.Errorf("favorite Title() = %q, want star prefix", got)
	}
}

func TestItemDescription(t *testing.T) {
	last := time.Now().Add(-2 * time.Hour)
	testCases := []struct {
		name string
		item item
		want []string
	}{
		{
			name: "bare entry falls back to the command",
			item: item{tui: catalog.TUI{Name: "htop", Command: "htop"}},
			want: []string{"htop"},
		},
		{
			name: "full entry",
			item: item{
				tui: catalog.TUI{
					Name:         "htop",
					Command:      "htop",
					Description:  "Process viewer",
					Category:     "System",
					LaunchCount:  3,
					LastLaunched: &last,
				},
				showDesc: true,
			},
			want: []string{"Process viewer", "System", "3 launches", "2h ago"},
		},
		{
			name: "descriptions hidden by config",
			item: item{
				tui:      catalog.TUI{Name: "htop", Command: "htop", Description: "Process viewer", Category: "System"},
				showDesc: false,
			},
			want: []string{"System"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.item.Description()
			for _, part := range tc.want {
				if !strings.Contains(got, part) {
					t.Errorf("Description() = %q, missing %q", got, part)
				}
			}
			if !tc.item.showDesc && strings.Contains(got, "Process viewer") {
				t.Errorf("Description() = %q, description should be hidden", got)
			}
		})
	}
}

func TestItemCommandLine(t *testing.T) {
	noArgs := item{tui: catalog.TUI{Command: "htop"}}
	if got := noArgs.CommandLine(); got != "htop" {
		t.Errorf("CommandLine() = %q, want htop", got)
	}

	withArgs := item{tui: catalog.TUI{Command: "htop", Args: []string{"--tree", "-d", "10"}}}
	if got := withArgs.CommandLine(); got != "htop --tree -d 10" {
		t.Errorf("CommandLine() = %q", got)
	}
}

func TestHistoryItem(t *testing.T) {
	code := 1
	h := historyItem{
		rec: catalog.LaunchRecord{
			LaunchedAt: time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
			Success:    false,
			ExitCode:   &code,
			DurationMS: 1250,
		},
		name: "lazygit",
	}
	if got := h.Title(); !strings.Contains(got, "✗") || !strings.Contains(got, "exit 1") {
		t.Errorf("Title() = %q", got)
	}
	if got := h.Description(); !strings.Contains(got, "1250ms") {
		t.Errorf("Description() = %q", got)
	}

	ok := historyItem{rec: catalog.LaunchRecord{Success: true}, name: "lazygit"}
	if got := ok.Title(); !strings.Contains(got, "✓") || strings.Contains(got, "exit") {
		t.Errorf("detached success Title() = %q", got)
	}
}

func TestKeyMapConfigOverride(t *testing.T) {
	keys := newDelegateKeyMap(config.KeysConfig{Launch: "l", Detach: ""})

	if got := keys.launch.Keys(); len(got) != 1 || got[0] != "l" {
		t.Errorf("launch keys = %v, want [l]", got)
	}
	// Empty config values fall back to the defaults
	if got := keys.detach.Keys(); len(got) != 1 || got[0] != "d" {
		t.Errorf("detach keys = %v, want [d]", got)
	}
}
