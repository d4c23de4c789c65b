// Package tui is the terminal shell: a Bubble Tea program that feeds keys
// through the keymap into the reducer, hands the resulting effects to the
// worker pool, and renders the state it gets back. All decisions live in
// the reducer; this package only schedules timers, touches the clipboard,
// and draws.
package tui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"flowdeck/internal/kinds"
	"flowdeck/internal/nav"
	"flowdeck/internal/poller"
)

// Config wires the shell to the rest of the program.
type Config struct {
	Registry  *kinds.Registry
	Pool      EffectRunner
	Namespace string
	Address   string
	PageSize  int
	Poll      poller.Config
	Theme     string
	Log       *slog.Logger

	// StartAt opens the program at a deep link instead of the namespace's
	// workflow listing ("flowdeck open <uri>").
	StartAt *nav.Location
}

func Run(cfg Config) error {
	applyColorProfilePreference()
	applyThemePreference(cfg.Theme)

	m := newModel(cfg)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
