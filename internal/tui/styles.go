package tui

import "github.com/charmbracelet/lipgloss"

var (
	lipglossWhite  = lipgloss.Color("#FFFDF5")
	lipglossGrey   = lipgloss.Color("#B8B8B8")
	lipglossAccent = lipgloss.Color("#5F5FD7")

	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"})

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"})

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("210")).
			Padding(1, 2)

	dialogTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("210"))

	dialogLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	dialogValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dialogChoiceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
