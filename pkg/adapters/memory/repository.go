// Package memory provides in-process adapters for every port of the core.
// They need no infrastructure, which makes them the default for tests and development.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/hexa/pkg/core"
)

// Repository is a map-backed core.OrderRepository.
// The application never knows it is a map.
type Repository struct {
	mu     sync.RWMutex
	orders map[core.OrderID]core.Order
	seq    core.OrderID
	logger *slog.Logger

	subMu sync.Mutex
	subs  map[*subscriber]struct{}
}

type subscriber struct {
	pattern string
	ch      chan core.Event
}

// NewRepository creates an empty repository. A nil logger disables logging.
func NewRepository(logger *slog.Logger) *Repository {
	return &Repository{
		orders: make(map[core.OrderID]core.Order),
		logger: logger,
		subs:   make(map[*subscriber]struct{}),
	}
}

func (r *Repository) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

// Initialize implements core.OrderRepository. There is nothing to prepare.
func (r *Repository) Initialize(ctx context.Context) error { return nil }

// NextID implements core.Sequencer. IDs continue after the highest stored order.
func (r *Repository) NextID(ctx context.Context) (core.OrderID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

// Save stores a copy of the order.
func (r *Repository) Save(ctx context.Context, order core.Order) error {
	r.debug("[InMemory] saving order", "id", order.ID)

	r.mu.Lock()
	_, existed := r.orders[order.ID]
	r.orders[order.ID] = order.Clone()
	if order.ID > r.seq {
		r.seq = order.ID
	}
	r.mu.Unlock()

	typ := core.EventCreate
	if existed {
		typ = core.EventModify
	}
	r.publish(core.Event{Type: typ, ID: order.ID, Timestamp: time.Now()})
	return nil
}

// Find returns a copy of the stored order.
func (r *Repository) Find(ctx context.Context, id core.OrderID) (core.Order, error) {
	r.debug("[InMemory] finding order", "id", id)

	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return core.Order{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return order.Clone(), nil
}

// List returns copies of all orders sorted by ID.
func (r *Repository) List(ctx context.Context) ([]core.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]core.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes an order.
func (r *Repository) Delete(ctx context.Context, id core.OrderID) error {
	r.mu.Lock()
	if _, ok := r.orders[id]; !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	delete(r.orders, id)
	r.mu.Unlock()

	r.publish(core.Event{Type: core.EventDelete, ID: id, Timestamp: time.Now()})
	return nil
}

// Watch implements core.Watchable. The pattern is a glob matched against the
// decimal order ID ("*" for everything, "1*" for 1, 10..19, ...).
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	sub := &subscriber{pattern: pattern, ch: make(chan core.Event, 16)}
	r.subMu.Lock()
	r.subs[sub] = struct{}{}
	r.subMu.Unlock()

	go func() {
		<-ctx.Done()
		r.subMu.Lock()
		delete(r.subs, sub)
		close(sub.ch)
		r.subMu.Unlock()
	}()

	return sub.ch, nil
}

func (r *Repository) publish(e core.Event) {
	key := strconv.FormatUint(uint64(e.ID), 10)

	r.subMu.Lock()
	defer r.subMu.Unlock()
	for sub := range r.subs {
		if ok, _ := doublestar.Match(sub.pattern, key); !ok {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			r.debug("[InMemory] dropping event for slow watcher", "event", e.String())
		}
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "memory-repository"
}

var (
	_ core.OrderRepository = (*Repository)(nil)
	_ core.Sequencer       = (*Repository)(nil)
	_ core.Watchable       = (*Repository)(nil)
)
