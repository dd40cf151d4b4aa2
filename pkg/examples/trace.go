package examples

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/hexa/pkg/core"
)

// tracedRepository prints each persistence call before delegating, so the
// scenarios show which adapter answered.
type tracedRepository struct {
	core.OrderRepository
	w      io.Writer
	indent string
	label  string
	save   string // verb printed for Save, e.g. "Saving" or "INSERT"
	find   string
}

func (t *tracedRepository) Save(ctx context.Context, order core.Order) error {
	fmt.Fprintf(t.w, "%s[%s] %s order %s\n", t.indent, t.label, t.save, order.ID)
	return t.OrderRepository.Save(ctx, order)
}

func (t *tracedRepository) Find(ctx context.Context, id core.OrderID) (core.Order, error) {
	fmt.Fprintf(t.w, "%s[%s] %s order %s\n", t.indent, t.label, t.find, id)
	return t.OrderRepository.Find(ctx, id)
}

// NextID keeps the wrapped repository's sequence visible to the service.
func (t *tracedRepository) NextID(ctx context.Context) (core.OrderID, error) {
	if seq, ok := t.OrderRepository.(core.Sequencer); ok {
		return seq.NextID(ctx)
	}
	return 0, fmt.Errorf("%w: no sequence", core.ErrUnsupported)
}

// consoleSender prints the confirmation with the amount in dollars.
func consoleSender(w io.Writer) core.Notifier {
	return core.NotifierFunc(func(ctx context.Context, order core.Order) error {
		_, err := fmt.Fprintf(w, "  [Console] Order %s confirmed, total %s\n", order.ID, order.Total)
		return err
	})
}
