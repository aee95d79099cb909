package launch

import "strings"

// terminalWrappers maps an emulator ID to the argv prefix that runs a
// shell command in a new window; the command string is appended last.
// Adding an emulator is a table change, not a code change.
var terminalWrappers = map[string][]string{
	"alacritty":      {"-e", "sh", "-c"},
	"kitty":          {"-e", "sh", "-c"},
	"wezterm":        {"start", "--", "sh", "-c"},
	"gnome-terminal": {"--", "sh", "-c"},
	"konsole":        {"-e", "sh", "-c"},
	"xterm":          {"-e", "sh", "-c"},
	"urxvt":          {"-e", "sh", "-c"},
	"terminator":     {"-x", "sh", "-c"},
	"tilix":          {"-e", "sh", "-c"},
}

// fallbackWrapper serves unknown emulator IDs; most terminals accept the
// xterm-style -e flag.
var fallbackWrapper = []string{"-e", "sh", "-c"}

// ShellCommand joins a command and its arguments into the single string
// handed to sh -c. No quoting is added beyond the shell wrapper itself.
func ShellCommand(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}

// BuildArgv produces the full process argv that opens terminalID running
// the given command. The first element is the emulator binary; the result
// is ready for a process spawn with no further escaping.
func BuildArgv(terminalID, command string, args []string) []string {
	wrapper, ok := terminalWrappers[terminalID]
	if !ok {
		wrapper = fallbackWrapper
	}

	argv := make([]string, 0, len(wrapper)+2)
	argv = append(argv, terminalID)
	argv = append(argv, wrapper...)
	argv = append(argv, ShellCommand(command, args))
	return argv
}
