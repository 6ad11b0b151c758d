package notifications

import (
	"github.com/jmylchreest/toastq/internal/position"
)

// ChangeType indicates the type of controller change.
type ChangeType int

const (
	// ChangeTypeAdd indicates a notification was queued.
	ChangeTypeAdd ChangeType = iota
	// ChangeTypeEvict indicates the oldest notification was evicted.
	ChangeTypeEvict
	// ChangeTypeClear indicates all notifications were cleared.
	ChangeTypeClear
	// ChangeTypeScroll indicates the tray position changed after a scroll.
	ChangeTypeScroll
)

// String returns the string representation of ChangeType.
func (t ChangeType) String() string {
	switch t {
	case ChangeTypeAdd:
		return "add"
	case ChangeTypeEvict:
		return "evict"
	case ChangeTypeClear:
		return "clear"
	case ChangeTypeScroll:
		return "scroll"
	default:
		return "unknown"
	}
}

// ChangeEvent signals a change the host may want to redraw for.
type ChangeEvent struct {
	Type     ChangeType
	Name     string // Notification name, empty for clear and scroll
	Active   int    // Active notifications after the change
	Position position.Position
}

// Subscribe returns a channel that receives change events. Events are
// dropped for subscribers that fall behind. The channel is closed when the
// controller is closed.
func (c *Controller[T]) Subscribe() <-chan ChangeEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan ChangeEvent, 16)
	if c.closed {
		close(ch)
		return ch
	}
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (c *Controller[T]) Unsubscribe(ch <-chan ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, sub := range c.subscribers {
		if sub == ch {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// notifyChangeLocked fans an event out to subscribers. Caller must hold the lock.
func (c *Controller[T]) notifyChangeLocked(event ChangeEvent) {
	for _, ch := range c.subscribers {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}

// closeSubscribersLocked closes every subscriber channel. Caller must hold the lock.
func (c *Controller[T]) closeSubscribersLocked() {
	for _, ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = nil
}
