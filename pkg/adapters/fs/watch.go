package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/hexa/pkg/core"
)

const debounceWindow = 50 * time.Millisecond

// Watch implements core.Watchable. It reports changes to order documents whose
// decimal ID matches pattern. The channel closes when ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.ordersDir()); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.ordersDir(), err)
	}

	events := make(chan core.Event)
	d := newDebouncer(debounceWindow)
	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer d.stopAndWait()
		defer r.setWatcherActive(false)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return nil

			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				e, ok := r.translate(ev, pattern)
				if !ok {
					continue
				}
				d.add(e, func(e core.Event) {
					select {
					case events <- e:
					case <-ctx.Done():
					}
				})

			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				r.config.Logger.Error("fsnotify error", "error", werr)
				if r.config.ErrorHandler != nil {
					r.config.ErrorHandler(werr)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		r.config.Logger.Error("watcher panic", "error", err)
		if r.config.ErrorHandler != nil {
			r.config.ErrorHandler(fmt.Errorf("watcher panic: %w", err))
		}
	}))

	return events, nil
}

// translate maps a filesystem event to an order event, dropping temp files,
// foreign files and IDs outside pattern.
func (r *Repository) translate(ev fsnotify.Event, pattern string) (core.Event, bool) {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != docExt {
		return core.Event{}, false
	}

	key := strings.TrimSuffix(base, docExt)
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return core.Event{}, false
	}
	if ok, _ := doublestar.Match(pattern, key); !ok {
		return core.Event{}, false
	}

	var typ core.EventType
	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		typ = core.EventDelete
	case ev.Has(fsnotify.Create):
		typ = core.EventCreate
	case ev.Has(fsnotify.Write):
		typ = core.EventModify
	default:
		return core.Event{}, false
	}

	return core.Event{Type: typ, ID: core.OrderID(n), Timestamp: time.Now()}, true
}

// debouncer coalesces bursts of events for the same order into the last one.
// An atomic rename shows up as CREATE+WRITE or similar pairs.
type debouncer struct {
	window time.Duration

	mu      sync.Mutex
	pending map[core.OrderID]*pendingEvent
	stopped bool
	wg      sync.WaitGroup
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, pending: make(map[core.OrderID]*pendingEvent)}
}

func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if p, ok := d.pending[e.ID]; ok {
		// A create followed by writes is still a create.
		if p.event.Type == core.EventCreate && e.Type == core.EventModify {
			e.Type = core.EventCreate
		}
		p.event = e
		return
	}

	p := &pendingEvent{event: e}
	d.pending[e.ID] = p
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.window, func() {
		defer d.wg.Done()
		d.mu.Lock()
		ev := p.event
		delete(d.pending, e.ID)
		d.mu.Unlock()
		emit(ev)
	})
}

// stopAndWait drops pending events and waits for in-flight emits.
func (d *debouncer) stopAndWait() {
	d.mu.Lock()
	d.stopped = true
	for id, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, id)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
