package bus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/toastq/internal/model"
	"github.com/jmylchreest/toastq/internal/notifications"
)

const (
	// Interface is the control interface name.
	Interface = "io.github.jmylchreest.Toastq"
	// Path is the control object path.
	Path = "/io/github/jmylchreest/Toastq"
	// BusName is the bus name to claim.
	BusName = "io.github.jmylchreest.Toastq"
)

// ContentFunc builds the content producer for a notification raised over
// the bus.
type ContentFunc func(name, body string) model.Producer[string]

// PlainContent produces the body, or the name when the body is empty.
func PlainContent(name, body string) model.Producer[string] {
	text := body
	if text == "" {
		text = name
	}
	return func() string { return text }
}

// Server exports a controller on the session bus.
type Server struct {
	conn    *dbus.Conn
	logger  *slog.Logger
	ctrl    *notifications.Controller[string]
	content ContentFunc

	mu      sync.Mutex
	running bool
	events  <-chan notifications.ChangeEvent
	stopped chan struct{}
}

// NewServer creates a server for the given controller.
func NewServer(ctrl *notifications.Controller[string], logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:  logger,
		ctrl:    ctrl,
		content: PlainContent,
	}
}

// SetContentFunc sets how bus requests are turned into content producers.
func (s *Server) SetContentFunc(fn ContentFunc) {
	s.content = fn
}

// Start connects to the session bus, exports the control object and claims
// the bus name.
func (s *Server) Start() error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return s.Serve(conn)
}

// Serve exports the control object on an existing connection.
func (s *Server) Serve(conn *dbus.Conn) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	s.conn = conn

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: controlMethods(),
				Signals: controlSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.mu.Lock()
	s.running = true
	s.events = s.ctrl.Subscribe()
	s.stopped = make(chan struct{})
	events, stopped := s.events, s.stopped
	s.mu.Unlock()

	go s.forwardChanges(events, stopped)

	s.logger.Info("D-Bus control server started", "interface", Interface, "path", Path)
	return nil
}

// Stop releases the bus name and stops forwarding change signals.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	events, stopped := s.events, s.stopped
	s.events = nil
	s.mu.Unlock()

	s.ctrl.Unsubscribe(events)
	<-stopped

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// The session bus connection is shared, so it stays open
	}

	s.logger.Info("D-Bus control server stopped")
	return nil
}

// AddNotification raises a notification.
// D-Bus method: AddNotification(sbbs) -> nothing
func (s *Server) AddNotification(name string, forced, repeated bool, body string) *dbus.Error {
	s.logger.Debug("AddNotification called", "name", name, "forced", forced, "repeated", repeated)
	if name == "" {
		return dbus.MakeFailedError(model.ErrEmptyName)
	}
	s.ctrl.AddNotification(name, forced, repeated, s.content(name, body))
	return nil
}

// ClearNotificationsCache forgets every shown name.
// D-Bus method: ClearNotificationsCache() -> nothing
func (s *Server) ClearNotificationsCache() *dbus.Error {
	s.logger.Debug("ClearNotificationsCache called")
	s.ctrl.ClearNotificationsCache()
	return nil
}

// ClearAllNotifications removes every active notification.
// D-Bus method: ClearAllNotifications() -> nothing
func (s *Server) ClearAllNotifications() *dbus.Error {
	s.logger.Debug("ClearAllNotifications called")
	s.ctrl.ClearAllNotifications()
	return nil
}

// Snapshot returns the active notification names, most recent first.
// D-Bus method: Snapshot() -> as
func (s *Server) Snapshot() ([]string, *dbus.Error) {
	snap := s.ctrl.CurrentDisplaySnapshot()
	names := make([]string, len(snap))
	for i, r := range snap {
		names[i] = r.Name
	}
	return names, nil
}

// Position returns the tray offset, "0" or e.g. "-100px".
// D-Bus method: Position() -> s
func (s *Server) Position() (string, *dbus.Error) {
	return s.ctrl.Position().String(), nil
}

// controlMethods returns the D-Bus method introspection data.
func controlMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "AddNotification",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "forced", Type: "b", Direction: "in"},
				{Name: "repeated", Type: "b", Direction: "in"},
				{Name: "body", Type: "s", Direction: "in"},
			},
		},
		{Name: "ClearNotificationsCache"},
		{Name: "ClearAllNotifications"},
		{
			Name: "Snapshot",
			Args: []introspect.Arg{
				{Name: "names", Type: "as", Direction: "out"},
			},
		},
		{
			Name: "Position",
			Args: []introspect.Arg{
				{Name: "bottom", Type: "s", Direction: "out"},
			},
		},
	}
}

// controlSignals returns the D-Bus signal introspection data.
func controlSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "Changed",
			Args: []introspect.Arg{
				{Name: "kind", Type: "s"},
				{Name: "active", Type: "u"},
			},
		},
	}
}
