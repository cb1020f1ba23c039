package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run blocks on the TUI until the user quits or the context is cancelled.
func Run(opts Options) error {
	if opts.Tracker == nil {
		return fmt.Errorf("ui requires a session tracker")
	}

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}

	p := tea.NewProgram(New(opts), progOpts...)
	if _, err := p.Run(); err != nil {
		// Context cancellation (signal shutdown) is a clean exit.
		if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
			return nil
		}
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
