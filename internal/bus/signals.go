package bus

import (
	"fmt"

	"github.com/jmylchreest/toastq/internal/notifications"
)

// EmitChanged emits the Changed signal.
func (s *Server) EmitChanged(kind notifications.ChangeType, active int) error {
	if s.conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := s.conn.Emit(Path, Interface+".Changed", kind.String(), uint32(active))
	if err != nil {
		return fmt.Errorf("failed to emit Changed signal: %w", err)
	}

	s.logger.Debug("emitted Changed signal", "kind", kind.String(), "active", active)
	return nil
}

// forwardChanges emits a Changed signal for every controller change until
// the subscription is closed.
func (s *Server) forwardChanges(events <-chan notifications.ChangeEvent, stopped chan struct{}) {
	defer close(stopped)
	for ev := range events {
		if err := s.EmitChanged(ev.Type, ev.Active); err != nil {
			s.logger.Warn("failed to forward change", "type", ev.Type.String(), "error", err)
		}
	}
}
