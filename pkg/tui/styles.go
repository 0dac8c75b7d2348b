package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary = lipgloss.Color("#8B5CF6")
	colorAccent  = lipgloss.Color("#06B6D4")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorDimmed  = lipgloss.Color("#374151")
	colorText    = lipgloss.Color("#F8FAFC")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	lessonStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	selectedLessonStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	pausedStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	questionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Foreground(colorText).
			Padding(1, 2)

	timerStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	timerWarningStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Bold(true).
				Blink(true)

	completedStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorSuccess).
			Foreground(colorSuccess).
			Bold(true).
			Padding(0, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWarning).
			Padding(1, 3)

	logStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorDimmed).
			Foreground(colorMuted)
)
