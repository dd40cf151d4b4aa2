package examples

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/hexa/pkg/adapters/memory"
	"github.com/aretw0/hexa/pkg/circus"
	"github.com/aretw0/hexa/pkg/core"
	"github.com/aretw0/hexa/pkg/stuff"
)

const sampleTotal core.Money = 4999

func reportProcessed(w io.Writer, order core.Order, err error) {
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Success! Order %s processed.\n", order.ID)
}

func runEx00(ctx context.Context, w io.Writer) error {
	svc := core.NewService(core.WithNotifier(memory.ConsoleNotifier{W: w}))
	order, err := svc.ProcessOrder(ctx, sampleTotal)
	reportProcessed(w, order, err)
	return nil
}

func runEx01(ctx context.Context, w io.Writer) error {
	svc := circus.NewService(circus.MegaphoneAnnouncer{W: w})
	act, err := svc.ScheduleAct(ctx, 9001)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "🤡 Success! Clown act #%d scheduled.\n", act.ActNumber)
	return nil
}

// runEx02 performs the check that lives in a test: the use case against a
// notifier that accepts everything.
func runEx02(ctx context.Context, w io.Writer) error {
	accept := core.NotifierFunc(func(context.Context, core.Order) error { return nil })
	svc := core.NewService(core.WithNotifier(accept))

	order, err := svc.ProcessOrder(ctx, sampleTotal)
	if err != nil {
		return err
	}
	if order.ID != 1 || order.Total != sampleTotal {
		return fmt.Errorf("process order: got %s with total %d, want #1 with total %d", order.ID, order.Total, sampleTotal)
	}
	fmt.Fprintln(w, "test process_order_successfully ... ok")
	return nil
}

func runEx03(ctx context.Context, w io.Writer) error {
	notifier := &memory.ConsoleNotifier{W: w}
	svc := core.NewService(core.WithNotifier(notifier))
	order, err := svc.ProcessOrder(ctx, sampleTotal)
	reportProcessed(w, order, err)
	return nil
}

func runEx03bis(ctx context.Context, w io.Writer) error {
	notifier := memory.ConsoleNotifier{W: w}
	svc := core.NewService()
	order, err := svc.ProcessOrderVia(ctx, sampleTotal, notifier)
	reportProcessed(w, order, err)
	return nil
}

func runEx04(ctx context.Context, w io.Writer) error {
	console := core.NewService(core.WithNotifier(memory.ConsoleNotifier{W: w}))
	order, err := console.ProcessOrder(ctx, sampleTotal)
	reportProcessed(w, order, err)

	inMemory := memory.NewInMemoryNotifier()
	svc := core.NewService(core.WithNotifier(inMemory))
	if _, err := svc.ProcessOrder(ctx, 42); err != nil {
		return err
	}
	for _, msg := range inMemory.Messages() {
		fmt.Fprintf(w, "[Memory] %s\n", msg)
	}
	return nil
}

func runEx05(ctx context.Context, w io.Writer) error {
	svc := stuff.NewService(stuff.MyAdapter{})
	s, err := svc.Process(ctx, 42)
	if errors.Is(err, stuff.ErrNotImplemented) {
		fmt.Fprintf(w, "MyAdapter is a placeholder: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Processed stuff %d\n", s.Value)
	return nil
}

func runEx06(ctx context.Context, w io.Writer) error {
	repo := &tracedRepository{
		OrderRepository: memory.NewRepository(nil),
		w:               w,
		label:           "InMemory",
		save:            "Saving",
		find:            "Finding",
	}
	svc := core.NewService(
		core.WithRepository(repo),
		core.WithNotifier(memory.ConsoleNotifier{W: w}),
	)

	order, err := svc.ProcessOrder(ctx, sampleTotal)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n\n", err)
	} else {
		fmt.Fprintf(w, "Success! Order %s processed.\n\n", order.ID)
	}

	fmt.Fprintln(w, "Retrieving order #1...")
	found, err := svc.GetOrder(ctx, 1)
	switch {
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintln(w, "Order not found")
	case err != nil:
		fmt.Fprintf(w, "Error: %v\n", err)
	default:
		fmt.Fprintf(w, "Found: Order %s, total: %d\n", found.ID, found.Total)
	}
	return nil
}
