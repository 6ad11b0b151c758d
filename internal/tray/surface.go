package tray

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/jmylchreest/toastq/internal/position"
)

// Surface exposes the page viewport's scroll offset to the controller.
// A terminal has no document measurement, so only the viewport offset is
// reported.
type Surface struct {
	*position.Static
	last int
}

// NewSurface creates a surface at offset zero.
func NewSurface() *Surface {
	return &Surface{Static: position.NewStaticViewport()}
}

// Sync records the viewport offset, dispatching a scroll event when it
// changed since the last sync.
func (s *Surface) Sync(vp viewport.Model) bool {
	if vp.YOffset == s.last {
		return false
	}
	s.last = vp.YOffset
	s.ScrollTo(vp.YOffset)
	return true
}
