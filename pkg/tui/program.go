package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the terminal UI until the user quits, ctx is done or the
// runner stopped.
func Run(ctx context.Context, runner Runner, logs LogSource) error {
	p := tea.NewProgram(
		NewModel(ctx, runner, logs),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrInterrupted) {
		return fmt.Errorf("cannot run terminal UI: %w", err)
	}
	return nil
}
