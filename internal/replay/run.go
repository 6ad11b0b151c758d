package replay

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastq/internal/cache"
	"github.com/jmylchreest/toastq/internal/clock"
	"github.com/jmylchreest/toastq/internal/config"
	"github.com/jmylchreest/toastq/internal/notifications"
	"github.com/jmylchreest/toastq/internal/output"
	"github.com/jmylchreest/toastq/internal/position"
)

// epoch is the fixed start time of every replay so output is reproducible.
var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Options configures a replay run.
type Options struct {
	Logger *slog.Logger
	// Cache overrides the dedup cache. By default every run gets a fresh
	// cache unless the script asks for the shared one.
	Cache *cache.Cache
}

// Run replays the script and returns the frames captured by snapshot steps
// and the optional end frame.
func Run(s *Script, opts Options) ([]output.Frame, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := opts.Cache
	if c == nil {
		if config.CacheScope(s.CacheScope) == config.CacheScopeShared {
			c = cache.Shared()
		} else {
			c = cache.New()
		}
	}

	fc := clock.NewFake(epoch)
	surface := position.NewStatic()
	ctrl := notifications.New[string](notifications.Options{
		Cache:     c,
		Surface:   surface,
		Interval:  s.Interval.Duration(),
		Clock:     fc,
		Logger:    opts.Logger,
		KeyPrefix: s.KeyPrefix,
	})
	defer ctrl.Close()

	r := &runner{ctrl: ctrl, clock: fc, surface: surface, logger: opts.Logger}

	for i, step := range s.Steps {
		fc.AdvanceTo(epoch.Add(step.At.Duration()))
		if err := r.apply(i+1, step); err != nil {
			return r.frames, err
		}
	}

	if s.End != 0 {
		fc.AdvanceTo(epoch.Add(s.End.Duration()))
		r.capture(len(s.Steps)+1, "end")
	}

	return r.frames, nil
}

type runner struct {
	ctrl    *notifications.Controller[string]
	clock   *clock.Fake
	surface *position.Static
	logger  *slog.Logger
	frames  []output.Frame
}

func (r *runner) apply(n int, step Step) error {
	r.logger.Debug("replay step", "step", n, "at", step.At.Duration(), "kind", step.Kind())

	switch {
	case step.Add != nil:
		add := step.Add
		content := add.Body
		if content == "" {
			content = add.Name
		}
		r.ctrl.AddNotification(add.Name, add.Forced, add.Repeated, func() string {
			return content
		})

	case step.Scroll != nil:
		r.surface.ScrollTo(*step.Scroll)

	case step.Clear == ClearCache:
		r.ctrl.ClearNotificationsCache()

	case step.Clear == ClearAll:
		r.ctrl.ClearAllNotifications()

	case step.Snapshot:
		r.capture(n, step.Label)

	default:
		return &ScriptError{Step: n, Message: fmt.Sprintf("unsupported step %q", step.Kind())}
	}
	return nil
}

func (r *runner) capture(n int, label string) {
	now := r.clock.Now()
	snap := r.ctrl.CurrentDisplaySnapshot()

	toasts := make([]output.Toast, len(snap))
	for i, t := range snap {
		toasts[i] = output.Toast{
			Key:     t.Key,
			Name:    t.Name,
			Content: t.Content,
			Age:     humanize.RelTime(t.CreatedAt, now, "ago", "from now"),
		}
	}

	r.frames = append(r.frames, output.Frame{
		Step:     n,
		At:       now.Sub(epoch),
		Label:    label,
		Position: r.ctrl.Position().String(),
		Active:   len(snap),
		Toasts:   toasts,
	})
}
