package tui

import (
	"fmt"
	"strings"
	"time"

	"hangar/internal/catalog"
)

// item adapts a catalog entry to the bubbles list.
type item struct {
	tui      catalog.TUI
	showDesc bool
}

func (i item) Title() string {
	if i.tui.Favorite {
		return "★ " + i.tui.Name
	}
	return "  " + i.tui.Name
}

func (i item) Description() string {
	var parts []string
	if i.showDesc && i.tui.Description != "" {
		parts = append(parts, i.tui.Description)
	}
	if i.tui.Category != "" {
		parts = append(parts, i.tui.Category)
	}
	if i.tui.LaunchCount > 0 {
		parts = append(parts, fmt.Sprintf("%d launches", i.tui.LaunchCount))
	}
	if i.tui.LastLaunched != nil {
		parts = append(parts, "last "+relativeTime(*i.tui.LastLaunched))
	}
	if len(parts) == 0 {
		return i.tui.Command
	}
	return strings.Join(parts, " | ")
}

func (i item) FilterValue() string { return i.tui.Name + " " + i.tui.Category }

// CommandLine returns the full shell command, for yanking.
func (i item) CommandLine() string {
	if len(i.tui.Args) == 0 {
		return i.tui.Command
	}
	return i.tui.Command + " " + strings.Join(i.tui.Args, " ")
}

// historyItem adapts one launch record to the history list.
type historyItem struct {
	rec  catalog.LaunchRecord
	name string
}

func (h historyItem) Title() string {
	mark := "✗"
	if h.rec.Success {
		mark = "✓"
	}
	title := fmt.Sprintf("%s %s", mark, h.name)
	if h.rec.ExitCode != nil {
		title += fmt.Sprintf("  exit %d", *h.rec.ExitCode)
	}
	return title
}

func (h historyItem) Description() string {
	desc := fmt.Sprintf("%s  %dms", h.rec.LaunchedAt.Format("2006-01-02 15:04:05"), h.rec.DurationMS)
	if h.rec.Error != "" {
		desc += "  " + h.rec.Error
	}
	return desc
}

func (h historyItem) FilterValue() string { return h.name }

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 14*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
