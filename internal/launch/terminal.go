// Package launch opens catalogued programs in a terminal emulator and
// records the outcome of every attempt.
package launch

import (
	"os/exec"
	"strings"

	"hangar/internal/debug"
)

// TerminalInfo describes one terminal emulator candidate
type TerminalInfo struct {
	ID      string // Identifier used in config and the wrapper table
	Name    string // Display name
	Cmd     string // Binary probed on PATH
	Default bool   // True for the first candidate found
	Version string // First line of --version output, when available
}

// candidates is the detection priority order, most preferred first.
// Earlier entries are the more modern emulators.
var candidates = []TerminalInfo{
	{ID: "alacritty", Name: "Alacritty", Cmd: "alacritty"},
	{ID: "kitty", Name: "Kitty", Cmd: "kitty"},
	{ID: "wezterm", Name: "WezTerm", Cmd: "wezterm"},
	{ID: "gnome-terminal", Name: "GNOME Terminal", Cmd: "gnome-terminal"},
	{ID: "konsole", Name: "Konsole", Cmd: "konsole"},
	{ID: "xterm", Name: "XTerm", Cmd: "xterm"},
	{ID: "urxvt", Name: "rxvt-unicode", Cmd: "urxvt"},
	{ID: "terminator", Name: "Terminator", Cmd: "terminator"},
	{ID: "tilix", Name: "Tilix", Cmd: "tilix"},
}

// Detect returns the ID of the first candidate emulator present on PATH.
// The second return is false when none resolve.
func Detect() (string, bool) {
	for _, term := range candidates {
		if _, err := exec.LookPath(term.Cmd); err == nil {
			debug.Log(debug.LAUNCH, "detected terminal %s", term.ID)
			return term.ID, true
		}
	}
	debug.Log(debug.LAUNCH, "no terminal emulator on PATH")
	return "", false
}

// DetectTerminals returns every installed candidate in priority order,
// with the first found marked default and its version probed.
func DetectTerminals() []TerminalInfo {
	var installed []TerminalInfo
	foundDefault := false

	for _, term := range candidates {
		path, err := exec.LookPath(term.Cmd)
		if err != nil {
			continue
		}
		if !foundDefault {
			term.Default = true
			foundDefault = true
		}
		term.Version = getCommandVersion(path, "--version")
		installed = append(installed, term)
	}

	return installed
}

func getCommandVersion(cmd string, versionFlag string) string {
	out, err := exec.Command(cmd, versionFlag).Output()
	if err != nil {
		return ""
	}
	// Return first line of version output
	lines := strings.Split(string(out), "\n")
	if len(lines) > 0 {
		return strings.TrimSpace(lines[0])
	}
	return ""
}
