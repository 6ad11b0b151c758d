package tray

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmylchreest/toastq/internal/clock"
	"github.com/jmylchreest/toastq/internal/config"
	"github.com/jmylchreest/toastq/internal/notifications"
)

// RunOptions configures the tray.
type RunOptions struct {
	Config     *config.Config
	Controller *notifications.Controller[string]
	Surface    *Surface
	Clock      clock.Clock
	Page       string          // Scrollable content (empty = filler)
	Watcher    *config.Watcher // Optional; reloads are applied live
}

// Run starts the tray and blocks until the user quits.
func Run(opts RunOptions) error {
	m := New(opts.Config, opts.Controller, opts.Surface, opts.Clock)
	if opts.Page != "" {
		m.SetPage(opts.Page)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if opts.Watcher != nil {
		opts.Watcher.SetReloadCallback(func(cfg *config.Config) {
			p.Send(configMsg{cfg: cfg})
		})
		opts.Watcher.SetErrorCallback(func(err error) {
			p.Send(statusMsg{text: "Config error: " + err.Error(), isErr: true})
		})
	}

	_, err := p.Run()
	return err
}
