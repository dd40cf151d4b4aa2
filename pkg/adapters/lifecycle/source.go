// Package lifecycle exposes order changes as lifecycle sources so the CLI can
// supervise them alongside signals and servers.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/hexa/pkg/core"
)

// Watcher is the slice of core.Service a Source needs.
type Watcher interface {
	Watch(ctx context.Context, pattern string) (<-chan core.Event, error)
	GetOrder(ctx context.Context, id core.OrderID) (core.Order, error)
}

// OrderEvent is a repository change enriched with the order as it was read
// right after the change. Order is the zero value for deletions and for
// orders that disappeared before they could be read.
type OrderEvent struct {
	core.Event
	Order core.Order
}

// Found reports whether the order snapshot was loaded.
func (e OrderEvent) Found() bool {
	return e.Order.ID != 0
}

func (e OrderEvent) String() string {
	if !e.Found() {
		return e.Event.String()
	}
	return fmt.Sprintf("%s (%d items, %s)", e.Event, len(e.Order.Items), e.Order.Total)
}

// Source watches a service for orders matching a pattern.
type Source struct {
	watcher Watcher
	pattern string
	logger  *slog.Logger
	out     chan lifecycle.Event
}

// NewSource creates a source over watcher. The watch starts with Start.
func NewSource(watcher Watcher, pattern string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{
		watcher: watcher,
		pattern: pattern,
		logger:  logger,
		out:     make(chan lifecycle.Event),
	}
}

// Events implements lifecycle.Source. The channel closes when the watch ends.
func (s *Source) Events() <-chan lifecycle.Event {
	return s.out
}

// Start opens the watch and returns its error, if any. Events are then
// resolved and forwarded in a tracked goroutine until ctx is done.
func (s *Source) Start(ctx context.Context) error {
	changes, err := s.watcher.Watch(ctx, s.pattern)
	if err != nil {
		close(s.out)
		return fmt.Errorf("watch %q: %w", s.pattern, err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case change, ok := <-changes:
				if !ok {
					return nil
				}
				select {
				case s.out <- s.resolve(ctx, change):
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

func (s *Source) resolve(ctx context.Context, change core.Event) OrderEvent {
	e := OrderEvent{Event: change}
	if change.Type == core.EventDelete {
		return e
	}
	order, err := s.watcher.GetOrder(ctx, change.ID)
	if err != nil {
		s.logger.Debug("order vanished before it could be read", "id", change.ID, "error", err)
		return e
	}
	e.Order = order
	return e
}

var _ lifecycle.Source = (*Source)(nil)
