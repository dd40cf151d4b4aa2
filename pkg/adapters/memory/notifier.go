package memory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/aretw0/hexa/pkg/core"
)

// ConsoleNotifier prints a confirmation line per order.
// Totals are raw cents unless Formatted is set.
type ConsoleNotifier struct {
	W         io.Writer
	Formatted bool
}

// Notify implements core.Notifier.
func (c ConsoleNotifier) Notify(ctx context.Context, order core.Order) error {
	total := strconv.FormatInt(int64(order.Total), 10)
	if c.Formatted {
		total = order.Total.String()
	}
	_, err := fmt.Fprintf(c.W, "[Console] Order %s confirmed! Total: %s\n", order.ID, total)
	return err
}

// InMemoryNotifier keeps the messages it would have sent.
type InMemoryNotifier struct {
	mu       sync.Mutex
	messages []string
}

// NewInMemoryNotifier creates an empty notifier.
func NewInMemoryNotifier() *InMemoryNotifier {
	return &InMemoryNotifier{}
}

// Notify implements core.Notifier.
func (n *InMemoryNotifier) Notify(ctx context.Context, order core.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, fmt.Sprintf("Order %s stored, total = %d", order.ID, order.Total))
	return nil
}

// Messages returns a copy of the recorded messages.
func (n *InMemoryNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// LogNotifier reports orders through a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements core.Notifier.
func (l LogNotifier) Notify(ctx context.Context, order core.Order) error {
	l.Logger.InfoContext(ctx, "order confirmed", "id", order.ID, "items", len(order.Items), "total", order.Total.String())
	return nil
}

var (
	_ core.Notifier = ConsoleNotifier{}
	_ core.Notifier = (*InMemoryNotifier)(nil)
	_ core.Notifier = LogNotifier{}
)
