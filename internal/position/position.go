// Package position computes the notification tray offset from the scroll
// position of the host surface.
package position

import (
	"strconv"
	"sync"
)

// DefaultUnit is the unit used when formatting an offset.
const DefaultUnit = "px"

// Surface reports scroll measurements of the host. A measurement that
// returns false is unavailable in the current environment.
type Surface interface {
	// DocumentScrollTop is the distance scrolled from the top of the document.
	DocumentScrollTop() (int, bool)
	// ViewportScrollY is the vertical scroll offset of the viewport.
	ViewportScrollY() (int, bool)
}

// Subscriber is implemented by surfaces that can report scroll events.
type Subscriber interface {
	// OnScroll registers fn to run after every scroll and returns a function
	// that deregisters it.
	OnScroll(fn func()) (cancel func())
}

// Position is the tray offset from the bottom of the viewport.
type Position struct {
	Bottom int    `json:"bottom"`
	Unit   string `json:"unit,omitempty"`
}

// Zero is the resting position.
var Zero = Position{}

// IsZero reports whether the tray sits at the bottom of the viewport.
func (p Position) IsZero() bool {
	return p.Bottom == 0
}

// String returns the CSS value of the offset: "0" or e.g. "-100px".
func (p Position) String() string {
	if p.Bottom == 0 {
		return "0"
	}
	unit := p.Unit
	if unit == "" {
		unit = DefaultUnit
	}
	return strconv.Itoa(p.Bottom) + unit
}

// CSS returns a declaration suitable for a style attribute.
func (p Position) CSS() string {
	return "bottom: " + p.String()
}

// Style returns the container style contract as a property map.
func (p Position) Style() map[string]string {
	return map[string]string{"bottom": p.String()}
}

// Resolver turns surface measurements into a Position.
type Resolver struct {
	surface Surface
	unit    string
}

// NewResolver creates a resolver for surface. A nil surface always
// resolves to Zero.
func NewResolver(surface Surface) *Resolver {
	return &Resolver{surface: surface, unit: DefaultUnit}
}

// Surface returns the surface the resolver reads from.
func (r *Resolver) Surface() Surface {
	return r.surface
}

// Distance returns the absolute scroll distance, preferring the document
// measurement and falling back to the viewport.
func (r *Resolver) Distance() int {
	if r == nil || r.surface == nil {
		return 0
	}
	if d, ok := r.surface.DocumentScrollTop(); ok {
		return abs(d)
	}
	if d, ok := r.surface.ViewportScrollY(); ok {
		return abs(d)
	}
	return 0
}

// Offset returns the tray position. The tray moves up as the page scrolls
// down, so a non-zero distance is negated.
func (r *Resolver) Offset() Position {
	d := r.Distance()
	if d == 0 {
		return Zero
	}
	return Position{Bottom: -d, Unit: r.unit}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Static is a Surface with fixed, settable measurements. It is used for
// headless hosts such as script replay.
type Static struct {
	mu          sync.Mutex
	document    int
	hasDocument bool
	viewport    int
	hasViewport bool
	listeners   map[int]func()
	nextID      int
}

// NewStatic creates a surface that reports a document scroll of zero.
func NewStatic() *Static {
	return &Static{hasDocument: true, listeners: make(map[int]func())}
}

// NewStaticViewport creates a surface with no document measurement, only a
// viewport offset.
func NewStaticViewport() *Static {
	return &Static{hasViewport: true, listeners: make(map[int]func())}
}

// DocumentScrollTop implements Surface.
func (s *Static) DocumentScrollTop() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document, s.hasDocument
}

// ViewportScrollY implements Surface.
func (s *Static) ViewportScrollY() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport, s.hasViewport
}

// OnScroll implements Subscriber.
func (s *Static) OnScroll(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Listeners returns the number of registered scroll listeners.
func (s *Static) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// ScrollTo sets the active measurement to y and dispatches a scroll event.
func (s *Static) ScrollTo(y int) {
	s.mu.Lock()
	if s.hasDocument {
		s.document = y
	} else {
		s.viewport = y
	}
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
