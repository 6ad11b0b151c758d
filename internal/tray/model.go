// Package tray provides a BubbleTea terminal host for the notification
// controller: a scrollable page with a toast tray anchored below it.
package tray

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toastq/internal/clock"
	"github.com/jmylchreest/toastq/internal/config"
	"github.com/jmylchreest/toastq/internal/notifications"
)

const welcomeBody = "Thanks for trying toastq. Scroll the page to move the tray."

// Model is the tray TUI model.
type Model struct {
	// Configuration
	cfg   *config.Config
	ctrl  *notifications.Controller[string]
	clock clock.Clock

	// Components
	viewport viewport.Model
	surface  *Surface
	help     help.Model
	keys     KeyMap

	// State
	page     string
	seq      int
	showHelp bool
	width    int
	height   int
	ready    bool

	// Status message
	statusMsg string
	statusErr bool

	// Controller change subscription
	events <-chan notifications.ChangeEvent
}

// New creates a tray model. The controller must have been created with
// surface as its scroll surface.
func New(cfg *config.Config, ctrl *notifications.Controller[string], surface *Surface, clk clock.Clock) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if clk == nil {
		clk = clock.Real()
	}

	ctrl.SetRenderer(BoxRenderer(cfg.Tray.Width))

	return Model{
		cfg:     cfg,
		ctrl:    ctrl,
		clock:   clk,
		surface: surface,
		help:    help.New(),
		keys:    DefaultKeyMap(),
		page:    DefaultPage(),
		events:  ctrl.Subscribe(),
	}
}

// SetPage replaces the scrollable page content.
func (m *Model) SetPage(page string) {
	m.page = page
	if m.ready {
		m.viewport.SetContent(page)
	}
}

// Init initializes the tray.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.watchForChanges,
		tick(),
	)
}

type changeMsg struct {
	event notifications.ChangeEvent
}

type tickMsg time.Time

type configMsg struct {
	cfg *config.Config
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// watchForChanges waits for the next controller change.
func (m Model) watchForChanges() tea.Msg {
	if m.events == nil {
		return nil
	}
	ev, ok := <-m.events
	if !ok {
		return nil
	}
	return changeMsg{event: ev}
}

// tick redraws once a second so toast ages stay current.
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.viewport = viewport.New(msg.Width, pageHeight(msg.Height))
		m.viewport.SetContent(m.page)
		m.surface.Sync(m.viewport)
		return m, nil

	case changeMsg:
		return m, m.watchForChanges

	case tickMsg:
		return m, tick()

	case configMsg:
		m.cfg = msg.cfg
		m.ctrl.UpdateConfig(msg.cfg)
		m.ctrl.SetRenderer(BoxRenderer(msg.cfg.Tray.Width))
		return m, status("Configuration reloaded", false)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	// Mouse wheel and other viewport input
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.surface.Sync(m.viewport)
	return m, cmd
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.seq++
		name := fmt.Sprintf("toast-%d", m.seq)
		m.raise(name, fmt.Sprintf("Notification number %d", m.seq), false, false)
		return m, nil

	case key.Matches(msg, m.keys.Welcome):
		before := m.ctrl.Stats().Suppressed
		m.raise("welcome", welcomeBody, false, false)
		if m.ctrl.Stats().Suppressed > before {
			return m, status("welcome already shown; press c to clear the cache or f to force", false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Forced):
		m.raise("welcome", welcomeBody, true, false)
		return m, nil

	case key.Matches(msg, m.keys.Repeated):
		m.raise("ping", "pong", true, true)
		return m, nil

	case key.Matches(msg, m.keys.ClearCache):
		m.ctrl.ClearNotificationsCache()
		return m, status("Notification cache cleared", false)

	case key.Matches(msg, m.keys.ClearAll):
		m.ctrl.ClearAllNotifications()
		return m, status("Notifications cleared", false)

	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		m.surface.Sync(m.viewport)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	m.surface.Sync(m.viewport)
	return m, cmd
}

// raise adds a toast to the controller.
func (m Model) raise(name, body string, forced, repeated bool) {
	m.ctrl.AddNotification(name, forced, repeated, Producer(name, body, m.clock, m.cfg.Tray.Width))
}

// View renders the tray.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var s strings.Builder
	s.WriteString(m.viewHeader())
	s.WriteString("\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")

	tray := RenderTray(m.ctrl.CurrentDisplaySnapshot(), m.cfg.Display.MaxRendered)
	placed := PlaceTray(tray, m.width, config.Position(m.cfg.Tray.Position), m.ctrl.Position().Bottom)
	if placed != "" {
		s.WriteString(placed)
		s.WriteString("\n")
	}

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s.WriteString(statusStyle.Render(m.statusMsg))
	} else {
		s.WriteString(m.help.View(m.keys))
	}

	return s.String()
}

func (m Model) viewHeader() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	return headerStyle.Render(m.ctrl.ContainerClassName()) +
		labelStyle.Render(fmt.Sprintf("%d active · bottom %s", m.ctrl.Len(), m.ctrl.Position()))
}

// pageHeight leaves room below the page for the header, tray and help.
func pageHeight(height int) int {
	h := height / 2
	if h < 3 {
		return 3
	}
	return h
}

// DefaultPage returns filler content to scroll through.
func DefaultPage() string {
	var b strings.Builder
	for i := 1; i <= 200; i++ {
		fmt.Fprintf(&b, "%3d  Scroll with j/k or the mouse wheel; the toast tray follows the page.\n", i)
	}
	return b.String()
}
