package notifications

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastq/internal/cache"
	"github.com/jmylchreest/toastq/internal/clock"
	"github.com/jmylchreest/toastq/internal/config"
	"github.com/jmylchreest/toastq/internal/position"
)

const testInterval = 3000 * time.Millisecond

type harness struct {
	ctrl    *Controller[string]
	clock   *clock.Fake
	surface *position.Static
	cache   *cache.Cache
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:   clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		surface: position.NewStatic(),
		cache:   cache.New(),
	}
	h.ctrl = New[string](Options{
		Cache:    h.cache,
		Surface:  h.surface,
		Interval: testInterval,
		Clock:    h.clock,
	})
	t.Cleanup(h.ctrl.Close)
	return h
}

func text(s string) func() string {
	return func() string { return s }
}

func contents(snapshot []Rendered[string]) []string {
	out := make([]string, len(snapshot))
	for i, r := range snapshot {
		out[i] = r.Content
	}
	return out
}

func TestAddNotification_DuplicateSuppressed(t *testing.T) {
	h := newHarness(t)

	h.ctrl.AddNotification("saved", false, false, text("Saved"))
	h.ctrl.AddNotification("saved", false, false, text("Saved"))

	assert.Equal(t, 1, h.ctrl.Len())
	assert.Equal(t, uint64(1), h.ctrl.Stats().Suppressed)
}

func TestAddNotification_ForcedBypassesCache(t *testing.T) {
	h := newHarness(t)

	h.ctrl.AddNotification("saved", false, false, text("Saved"))
	require.True(t, h.cache.Has("saved"))

	h.ctrl.AddNotification("saved", true, false, text("Saved again"))

	assert.Equal(t, 2, h.ctrl.Len())
	assert.Equal(t, []string{"Saved again", "Saved"}, contents(h.ctrl.CurrentDisplaySnapshot()))
}

func TestAddNotification_RepeatedGrowsQueue(t *testing.T) {
	h := newHarness(t)

	for i := 0; i < 4; i++ {
		// Repeats still go through the cache, so force after the first
		h.ctrl.AddNotification("ping", i > 0, true, text("pong"))
		assert.Equal(t, i+1, h.ctrl.Len())
	}

	snap := h.ctrl.CurrentDisplaySnapshot()
	ids := make(map[string]bool)
	for _, r := range snap {
		ids[r.ID] = true
	}
	assert.Len(t, ids, 4, "every repeat is a distinct record")
}

func TestAddNotification_RejectedStillCached(t *testing.T) {
	h := newHarness(t)

	h.ctrl.AddNotification("a", false, false, text("first"))
	h.ctrl.ClearNotificationsCache()

	// Not blocked by the cache, but "a" is still active
	h.ctrl.AddNotification("a", false, false, text("second"))

	assert.Equal(t, 1, h.ctrl.Len())
	assert.True(t, h.cache.Has("a"))
	assert.Equal(t, uint64(1), h.ctrl.Stats().Rejected)
}

func TestAddNotification_InvalidInputIgnored(t *testing.T) {
	h := newHarness(t)

	h.ctrl.AddNotification("", false, false, text("x"))
	h.ctrl.AddNotification("nil-content", false, false, nil)

	assert.Equal(t, 0, h.ctrl.Len())
	assert.Equal(t, 0, h.cache.Len())
	assert.Equal(t, EvictorIdle, h.ctrl.EvictorState())
}

func TestClearNotificationsCache_AllowsReshow(t *testing.T) {
	h := newHarness(t)

	h.ctrl.AddNotification("welcome", false, false, text("Hi"))
	h.ctrl.ClearAllNotifications()
	h.ctrl.AddNotification("welcome", false, false, text("Hi"))
	assert.Equal(t, 0, h.ctrl.Len(), "cache still blocks")

	h.ctrl.ClearNotificationsCache()
	h.ctrl.AddNotification("welcome", false, false, text("Hi"))
	assert.Equal(t, 1, h.ctrl.Len())
}

func TestClearAllNotifications_KeepsCache(t *testing.T) {
	h := newHarness(t)

	h.ctrl.AddNotification("a", false, false, text("A"))
	h.ctrl.AddNotification("b", false, false, text("B"))
	h.ctrl.ClearAllNotifications()

	assert.Equal(t, 0, h.ctrl.Len())
	assert.True(t, h.cache.Has("a"))
	assert.True(t, h.cache.Has("b"))
	assert.Equal(t, EvictorIdle, h.ctrl.EvictorState())
	assert.Equal(t, 0, h.clock.Pending())
}

func TestClear_Idempotent(t *testing.T) {
	h := newHarness(t)

	h.ctrl.AddNotification("a", false, false, text("A"))

	h.ctrl.ClearAllNotifications()
	h.ctrl.ClearAllNotifications()
	assert.Equal(t, 0, h.ctrl.Len())
	assert.Equal(t, uint64(1), h.ctrl.Stats().Cleared)

	h.ctrl.ClearNotificationsCache()
	h.ctrl.ClearNotificationsCache()
	assert.Equal(t, 0, h.cache.Len())
}

func TestEviction_OnePerInterval(t *testing.T) {
	h := newHarness(t)

	h.ctrl.AddNotification("first", false, false, text("1"))
	h.ctrl.AddNotification("second", false, false, text("2"))
	require.Equal(t, 1, h.clock.Pending(), "burst coalesces into one timer")

	h.clock.Advance(testInterval - time.Millisecond)
	assert.Equal(t, 2, h.ctrl.Len())

	h.clock.Advance(time.Millisecond)
	require.Equal(t, 1, h.ctrl.Len())
	assert.Equal(t, []string{"2"}, contents(h.ctrl.CurrentDisplaySnapshot()))
	assert.Equal(t, EvictorArmed, h.ctrl.EvictorState())

	h.clock.Advance(testInterval)
	assert.Equal(t, 0, h.ctrl.Len())
	assert.Equal(t, EvictorIdle, h.ctrl.EvictorState())
	assert.Equal(t, 0, h.clock.Pending())
	assert.Equal(t, uint64(2), h.ctrl.Stats().Evicted)
}

func TestEviction_InsertWhileArmedDoesNotReschedule(t *testing.T) {
	h := newHarness(t)

	h.ctrl.AddNotification("a", false, false, text("A"))
	h.clock.Advance(2 * time.Second)
	h.ctrl.AddNotification("b", false, false, text("B"))

	// The original timer still fires at 3s
	h.clock.Advance(time.Second)
	assert.Equal(t, []string{"B"}, contents(h.ctrl.CurrentDisplaySnapshot()))
}

func TestAddNotification_ZeroClockTime(t *testing.T) {
	fc := clock.NewFake(time.Time{})
	c := cache.New()
	ctrl := New[string](Options{Cache: c, Interval: testInterval, Clock: fc})
	t.Cleanup(ctrl.Close)

	ctrl.AddNotification("a", false, false, text("A"))

	assert.Equal(t, 1, ctrl.Len())
	assert.True(t, c.Has("a"))
	assert.Equal(t, []string{"A"}, contents(ctrl.CurrentDisplaySnapshot()))

	fc.Advance(testInterval)
	assert.Equal(t, 0, ctrl.Len())
}

func TestUpdateConfig_ReschedulesPendingEviction(t *testing.T) {
	h := newHarness(t)

	h.ctrl.AddNotification("a", false, false, text("A"))

	cfg := config.DefaultConfig()
	cfg.Display.Interval = config.Duration(500 * time.Millisecond)
	h.ctrl.UpdateConfig(cfg)

	h.clock.Advance(500 * time.Millisecond)
	assert.Equal(t, 0, h.ctrl.Len())
}

func TestUpdateConfig_UnchangedIntervalKeepsDeadline(t *testing.T) {
	h := newHarness(t)

	h.ctrl.AddNotification("a", false, false, text("A"))
	h.clock.Advance(testInterval / 2)

	cfg := config.DefaultConfig()
	cfg.Display.Interval = config.Duration(testInterval)
	for i := 0; i < 3; i++ {
		h.ctrl.UpdateConfig(cfg)
	}

	h.clock.Advance(testInterval/2 - time.Millisecond)
	assert.Equal(t, 1, h.ctrl.Len())

	h.clock.Advance(time.Millisecond)
	assert.Equal(t, 0, h.ctrl.Len())
}

func TestOnScroll_Position(t *testing.T) {
	h := newHarness(t)

	var observed []position.Position
	h.ctrl.SetScrollObserver(func(pos position.Position) {
		observed = append(observed, pos)
	})

	assert.True(t, h.ctrl.Position().IsZero())

	h.surface.ScrollTo(100)
	assert.Equal(t, "-100px", h.ctrl.Position().String())

	h.surface.ScrollTo(0)
	assert.Equal(t, "0", h.ctrl.Position().String())

	require.Len(t, observed, 2)
	assert.Equal(t, "-100px", observed[0].String())
	assert.True(t, observed[1].IsZero())
}

// fixedSurface reports a document offset but never dispatches scroll events.
type fixedSurface int

func (f fixedSurface) DocumentScrollTop() (int, bool) { return int(f), true }
func (f fixedSurface) ViewportScrollY() (int, bool)   { return 0, false }

func TestAddNotification_RecomputesPosition(t *testing.T) {
	ctrl := New[string](Options{
		Cache:   cache.New(),
		Surface: fixedSurface(25),
		Clock:   clock.NewFake(time.Now()),
	})
	defer ctrl.Close()

	require.True(t, ctrl.Position().IsZero())
	ctrl.AddNotification("a", false, false, text("A"))
	assert.Equal(t, -25, ctrl.Position().Bottom)
}

func TestPosition_NoSurface(t *testing.T) {
	ctrl := New[string](Options{Cache: cache.New(), Clock: clock.NewFake(time.Now())})
	defer ctrl.Close()

	ctrl.OnScroll()
	ctrl.AddNotification("a", false, false, text("A"))
	assert.True(t, ctrl.Position().IsZero())
}

func TestCurrentDisplaySnapshot_Order(t *testing.T) {
	h := newHarness(t)

	for _, name := range []string{"A", "B", "C"} {
		h.ctrl.AddNotification(name, false, false, text(name))
	}

	snap := h.ctrl.CurrentDisplaySnapshot()
	assert.Equal(t, []string{"C", "B", "A"}, contents(snap))

	keys := make(map[string]bool)
	for _, r := range snap {
		assert.True(t, strings.HasPrefix(r.Key, "Notification-"), r.Key)
		keys[r.Key] = true
	}
	for _, r := range h.ctrl.CurrentDisplaySnapshot() {
		keys[r.Key] = true
	}
	assert.Len(t, keys, 6, "keys are unique across snapshots")
}

func TestCurrentDisplaySnapshot_LazyContent(t *testing.T) {
	h := newHarness(t)

	calls := 0
	count := "one"
	h.ctrl.AddNotification("lazy", false, false, func() string {
		calls++
		return count
	})
	assert.Equal(t, 0, calls, "producer not invoked at insertion")

	count = "two"
	assert.Equal(t, []string{"two"}, contents(h.ctrl.CurrentDisplaySnapshot()))
	assert.Equal(t, 1, calls)
}

func TestCurrentDisplaySnapshot_Renderer(t *testing.T) {
	h := newHarness(t)
	h.ctrl.SetRenderer(strings.ToUpper)

	h.ctrl.ShowValue("hello", "hello")
	assert.Equal(t, []string{"HELLO"}, contents(h.ctrl.CurrentDisplaySnapshot()))
}

func TestShow_NeverForced(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Show("tip", text("Tip"))
	h.ctrl.ClearAllNotifications()
	h.ctrl.Show("tip", text("Tip"))

	assert.Equal(t, 0, h.ctrl.Len())
}

func TestSubscribe_Events(t *testing.T) {
	h := newHarness(t)
	events := h.ctrl.Subscribe()

	h.ctrl.AddNotification("a", false, false, text("A"))
	h.clock.Advance(testInterval)
	h.surface.ScrollTo(10)
	h.ctrl.AddNotification("b", false, false, text("B"))
	h.ctrl.ClearAllNotifications()

	var got []ChangeType
	for i := 0; i < 5; i++ {
		ev := <-events
		got = append(got, ev.Type)
	}
	assert.Equal(t, []ChangeType{
		ChangeTypeAdd, ChangeTypeEvict, ChangeTypeScroll, ChangeTypeAdd, ChangeTypeClear,
	}, got)

	h.ctrl.Unsubscribe(events)
	_, ok := <-events
	assert.False(t, ok)
}

func TestClose(t *testing.T) {
	h := newHarness(t)
	events := h.ctrl.Subscribe()
	require.Equal(t, 1, h.surface.Listeners())

	h.ctrl.AddNotification("a", false, false, text("A"))
	require.Equal(t, 1, h.clock.Pending())

	h.ctrl.Close()
	h.ctrl.Close()

	assert.Equal(t, 0, h.clock.Pending(), "pending eviction cancelled")
	assert.Equal(t, 0, h.surface.Listeners(), "scroll listener removed")
	assert.Equal(t, EvictorStopped, h.ctrl.EvictorState())

	// Drain the add event, then the channel is closed
	<-events
	_, ok := <-events
	assert.False(t, ok)

	// Mutations after close do nothing
	h.ctrl.AddNotification("b", false, false, text("B"))
	h.ctrl.OnScroll()
	assert.Equal(t, 0, h.ctrl.Len())

	closed := h.ctrl.Subscribe()
	_, ok = <-closed
	assert.False(t, ok)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	opts := OptionsFromConfig(cfg)
	assert.Nil(t, opts.Cache, "shared scope uses the process cache")
	assert.Equal(t, 3*time.Second, opts.Interval)

	cfg.Behavior.CacheScope = string(config.CacheScopeInstance)
	cfg.Display.ContainerClass = "Toasts"
	opts = OptionsFromConfig(cfg)
	assert.NotNil(t, opts.Cache)
	assert.Equal(t, "Toasts", opts.ContainerClass)

	ctrl := New[string](opts)
	defer ctrl.Close()
	assert.Equal(t, "Toasts", ctrl.ContainerClassName())
	assert.Same(t, opts.Cache, ctrl.Cache())
}

func TestNew_Defaults(t *testing.T) {
	ctrl := New[string](Options{})
	defer ctrl.Close()

	assert.Same(t, cache.Shared(), ctrl.Cache())
	assert.Equal(t, "Notifications", ctrl.ContainerClassName())
}

func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "add", ChangeTypeAdd.String())
	assert.Equal(t, "evict", ChangeTypeEvict.String())
	assert.Equal(t, "clear", ChangeTypeClear.String())
	assert.Equal(t, "scroll", ChangeTypeScroll.String())
	assert.Equal(t, "unknown", ChangeType(99).String())
}
