// Package notifications provides the controller that owns the lifecycle of
// transient notifications: dedup, queueing, timed eviction and tray position.
package notifications

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmylchreest/toastq/internal/cache"
	"github.com/jmylchreest/toastq/internal/clock"
	"github.com/jmylchreest/toastq/internal/config"
	"github.com/jmylchreest/toastq/internal/model"
	"github.com/jmylchreest/toastq/internal/position"
	"github.com/jmylchreest/toastq/internal/queue"
)

// Renderer transforms produced content into its displayable form.
type Renderer[T any] func(content T) T

// ScrollObserver is notified with the recomputed position after every scroll.
type ScrollObserver func(pos position.Position)

// Notifier is the surface handed to components that raise notifications.
type Notifier[T any] interface {
	AddNotification(name string, forced, repeated bool, content model.Producer[T])
	ClearNotificationsCache()
	ClearAllNotifications()
}

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Cache          *cache.Cache     // nil uses cache.Shared()
	Surface        position.Surface // nil means no scrollable surface
	Interval       time.Duration    // 0 uses config.DefaultInterval
	Clock          clock.Clock      // nil uses clock.Real()
	Logger         *slog.Logger
	ContainerClass string
	KeyPrefix      string
}

// OptionsFromConfig builds controller options from a loaded configuration.
// An instance cache scope gives the controller its own dedup cache.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Interval:       cfg.Interval(),
		ContainerClass: cfg.Display.ContainerClass,
		KeyPrefix:      cfg.Behavior.KeyPrefix,
	}
	if config.CacheScope(cfg.Behavior.CacheScope) == config.CacheScopeInstance {
		opts.Cache = cache.New()
	}
	return opts
}

// Rendered is one entry of a display snapshot.
type Rendered[T any] struct {
	Key       string
	ID        string
	Name      string
	Content   T
	CreatedAt time.Time
}

// Stats counts controller activity since creation.
type Stats struct {
	Accepted   uint64
	Suppressed uint64 // blocked by the dedup cache
	Rejected   uint64 // blocked by an active record of the same name
	Evicted    uint64
	Cleared    uint64
}

// Controller orchestrates the dedup cache, active queue, eviction timer and
// tray position. All mutations happen under one mutex so a caller operation
// is atomic with respect to timer and scroll callbacks.
type Controller[T any] struct {
	mu sync.Mutex

	cache    *cache.Cache
	queue    *queue.Queue[T]
	resolver *position.Resolver
	evictor  *evictor
	clock    clock.Clock
	logger   *slog.Logger

	renderer Renderer[T]
	observer ScrollObserver

	containerClass string
	keyPrefix      string
	position       position.Position

	seq  uint64
	keys atomic.Uint64

	unsubscribe func()
	subscribers []chan ChangeEvent
	closed      bool
	stats       Stats
}

// New creates a controller. If the surface also implements
// position.Subscriber the controller registers for its scroll events.
func New[T any](opts Options) *Controller[T] {
	if opts.Cache == nil {
		opts.Cache = cache.Shared()
	}
	if opts.Interval <= 0 {
		opts.Interval = config.DefaultInterval
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ContainerClass == "" {
		opts.ContainerClass = config.DefaultContainerClass
	}
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = config.DefaultKeyPrefix
	}

	c := &Controller[T]{
		cache:          opts.Cache,
		queue:          queue.New[T](),
		resolver:       position.NewResolver(opts.Surface),
		clock:          opts.Clock,
		logger:         opts.Logger,
		containerClass: opts.ContainerClass,
		keyPrefix:      opts.KeyPrefix,
		position:       position.Zero,
		subscribers:    make([]chan ChangeEvent, 0),
	}
	c.evictor = newEvictor(opts.Clock, opts.Interval, c.handleEviction)

	if sub, ok := opts.Surface.(position.Subscriber); ok {
		c.unsubscribe = sub.OnScroll(c.OnScroll)
	}

	return c
}

// SetRenderer sets the function applied to produced content in snapshots.
func (c *Controller[T]) SetRenderer(fn Renderer[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderer = fn
}

// SetScrollObserver sets the callback invoked after each scroll.
func (c *Controller[T]) SetScrollObserver(fn ScrollObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = fn
}

// AddNotification queues a notification. A name already in the dedup cache
// is ignored unless forced. An active non-repeated name is not queued twice,
// though the cache still records it. Invalid input is ignored.
func (c *Controller[T]) AddNotification(name string, forced, repeated bool, content model.Producer[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Debug("notification ignored, controller closed", "name", name)
		return
	}
	if name == "" || content == nil {
		c.logger.Debug("notification ignored, invalid input", "name", name, "has_content", content != nil)
		return
	}

	if c.cache.Has(name) && !forced {
		c.stats.Suppressed++
		c.logger.Debug("notification suppressed, already shown", "name", name)
		return
	}
	rec, err := model.NewRecord(name, forced, repeated, content, c.clock.Now(), c.seq+1)
	if err != nil {
		c.logger.Debug("notification ignored", "name", name, "error", err)
		return
	}
	c.seq++
	c.cache.Add(name)

	result := c.queue.Insert(rec)
	c.position = c.resolver.Offset()

	switch result {
	case queue.Accepted:
		c.stats.Accepted++
		c.evictor.arm()
		c.logger.Debug("notification queued", "name", name, "id", rec.ID, "active", c.queue.Len())
		c.notifyChangeLocked(ChangeEvent{
			Type:     ChangeTypeAdd,
			Name:     name,
			Active:   c.queue.Len(),
			Position: c.position,
		})
	case queue.Rejected:
		c.stats.Rejected++
		c.logger.Debug("notification rejected, already active", "name", name)
	}
}

// Show raises a non-forced, non-repeated notification.
func (c *Controller[T]) Show(name string, content model.Producer[T]) {
	c.AddNotification(name, false, false, content)
}

// ShowValue raises a non-forced, non-repeated notification with fixed content.
func (c *Controller[T]) ShowValue(name string, value T) {
	c.Show(name, func() T { return value })
}

// ClearNotificationsCache forgets every shown name. Active notifications are kept.
func (c *Controller[T]) ClearNotificationsCache() {
	c.cache.Clear()
	c.logger.Debug("notification cache cleared")
}

// ClearAllNotifications removes every active notification. The dedup cache
// is kept.
func (c *Controller[T]) ClearAllNotifications() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	n := c.queue.Clear()
	c.evictor.disarm()
	c.position = c.resolver.Offset()
	if n == 0 {
		return
	}

	c.stats.Cleared += uint64(n)
	c.logger.Debug("notifications cleared", "count", n)
	c.notifyChangeLocked(ChangeEvent{
		Type:     ChangeTypeClear,
		Position: c.position,
	})
}

// CurrentDisplaySnapshot renders the active notifications, most recent
// first. Content producers are invoked now, outside the controller lock, and
// every entry gets a fresh key.
func (c *Controller[T]) CurrentDisplaySnapshot() []Rendered[T] {
	c.mu.Lock()
	records := c.queue.Snapshot()
	renderer := c.renderer
	prefix := c.keyPrefix
	c.mu.Unlock()

	out := make([]Rendered[T], 0, len(records))
	for _, rec := range records {
		content := rec.Render()
		if renderer != nil {
			content = renderer(content)
		}
		out = append(out, Rendered[T]{
			Key:       fmt.Sprintf("%s-%d", prefix, c.keys.Add(1)),
			ID:        rec.ID,
			Name:      rec.Name,
			Content:   content,
			CreatedAt: rec.CreatedAt,
		})
	}
	return out
}

// OnScroll recomputes the tray position and passes it to the scroll observer.
func (c *Controller[T]) OnScroll() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	pos := c.resolver.Offset()
	c.position = pos
	observer := c.observer
	c.notifyChangeLocked(ChangeEvent{
		Type:     ChangeTypeScroll,
		Active:   c.queue.Len(),
		Position: pos,
	})
	c.mu.Unlock()

	if observer != nil {
		observer(pos)
	}
}

// Position returns the current tray position.
func (c *Controller[T]) Position() position.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// Len returns the number of active notifications.
func (c *Controller[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

// ContainerClassName returns the identifier of the tray element.
func (c *Controller[T]) ContainerClassName() string {
	return c.containerClass
}

// Cache returns the dedup cache in use.
func (c *Controller[T]) Cache() *cache.Cache {
	return c.cache
}

// EvictorState returns the state of the eviction timer.
func (c *Controller[T]) EvictorState() EvictorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictor.state
}

// Stats returns a copy of the activity counters.
func (c *Controller[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// UpdateConfig applies a reloaded configuration. A pending eviction is
// rescheduled only when the display interval changed.
func (c *Controller[T]) UpdateConfig(cfg *config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	changed := c.evictor.reset(cfg.Interval())
	if cfg.Behavior.KeyPrefix != "" {
		c.keyPrefix = cfg.Behavior.KeyPrefix
	}
	c.logger.Debug("controller config updated", "interval", cfg.Interval(), "interval_changed", changed)
}

// Close cancels any pending eviction, drops active notifications and stops
// listening for scroll events. Later calls do nothing.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.evictor.stop()
	c.queue.Clear()
	c.closeSubscribersLocked()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	c.logger.Debug("controller closed")
}

// handleEviction runs when the eviction timer fires.
func (c *Controller[T]) handleEviction(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.evictor.fired(generation) {
		return
	}

	rec, ok := c.queue.EvictOldest()
	c.position = c.resolver.Offset()
	if !ok {
		return
	}

	c.stats.Evicted++
	c.logger.Debug("notification evicted", "name", rec.Name, "id", rec.ID, "remaining", c.queue.Len())

	if c.queue.Len() > 0 {
		c.evictor.arm()
	}
	c.notifyChangeLocked(ChangeEvent{
		Type:     ChangeTypeEvict,
		Name:     rec.Name,
		Active:   c.queue.Len(),
		Position: c.position,
	})
}

var _ Notifier[string] = (*Controller[string])(nil)
