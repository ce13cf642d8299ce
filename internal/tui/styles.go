// Package tui holds the Bubble Tea models behind ecopulse's interactive views.
package tui

import "github.com/charmbracelet/lipgloss"

// ViewState is the screen an interactive model is showing.
type ViewState int

// View states.
const (
	ViewStateList ViewState = iota
	ViewStateDetail
	ViewStateConfirm
	ViewStateQuitting
	ViewStateError
)

// Key bindings shared by the models.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
	keySlash = "/"
	keyS     = "s"
	keyD     = "d"
	keyYes   = "y"
	keyNo    = "n"
)

// Layout defaults used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 100
	defaultHeight = 24
	minHeight     = 5
	borderPadding = 4
	// chromeHeight covers the status bar, filter line and footer.
	chromeHeight = 4
)

const msgSelectedOutOfBounds = "No activity selected\n"

// Shared styles.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	LabelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	ValueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	SubtleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	InfoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("240"))
	TableSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))
)
