package platform

import (
	"context"
	"io"

	"github.com/aretw0/hexa/pkg/core"
)

// Instance is a wired application: the service plus the driven adapters
// plugged into its ports.
type Instance struct {
	Service    *core.Service
	Repository core.OrderRepository
	Payment    core.PaymentGateway
	Notifier   core.Notifier
}

// New wires a service from the options. The uri is handed to the persistence
// adapter (see Init).
//
//	inst, err := hexa.New(ctx, "./data", hexa.WithAdapter("sqlite"))
//	defer inst.Close()
func New(ctx context.Context, uri string, opts ...Option) (*Instance, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo, err := initRepository(ctx, uri, o)
	if err != nil {
		return nil, err
	}
	payment, err := buildPayment(o)
	if err != nil {
		closeRepository(repo)
		return nil, err
	}
	notifier, err := buildNotifier(o)
	if err != nil {
		closeRepository(repo)
		return nil, err
	}

	serviceOpts := []core.Option{
		core.WithRepository(repo),
		core.WithLogger(o.logger),
		core.WithEventBuffer(o.eventBuffer),
	}
	if payment != nil {
		serviceOpts = append(serviceOpts, core.WithPayment(payment))
	}
	if notifier != nil {
		serviceOpts = append(serviceOpts, core.WithNotifier(notifier))
	}

	return &Instance{
		Service:    core.NewService(serviceOpts...),
		Repository: repo,
		Payment:    payment,
		Notifier:   notifier,
	}, nil
}

// Close releases the repository when it holds resources.
func (i *Instance) Close() error {
	if c, ok := i.Repository.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
