package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

const defaultEventBuffer = 100

// Service coordinates the order use cases. It does not implement business
// rules and it does not know which adapters sit behind its ports.
type Service struct {
	mu              sync.RWMutex
	repo            OrderRepository
	payment         PaymentGateway
	notifier        Notifier
	logger          *slog.Logger
	eventBufferSize int

	seqMu  sync.Mutex
	nextID OrderID
}

// Option configures a Service.
type Option func(*Service)

// WithRepository plugs an adapter into the persistence port.
func WithRepository(repo OrderRepository) Option {
	return func(s *Service) {
		s.repo = repo
	}
}

// WithPayment plugs an adapter into the payment port.
func WithPayment(p PaymentGateway) Option {
	return func(s *Service) {
		s.payment = p
	}
}

// WithNotifier plugs an adapter into the notification port.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventBuffer sets the size of the buffer between a watched repository
// and the consumer. Zero or less means the default (100).
func WithEventBuffer(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.eventBufferSize = size
		}
	}
}

// NewService creates a new Service. Ports left unset are skipped by the use cases.
func NewService(opts ...Option) *Service {
	s := &Service{
		logger:          slog.New(slog.DiscardHandler),
		eventBufferSize: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nextOrderID hands out IDs. An ID is consumed even if the use case fails later.
func (s *Service) nextOrderID(ctx context.Context) (OrderID, error) {
	if seq, ok := s.repo.(Sequencer); ok {
		id, err := seq.NextID(ctx)
		if err != nil {
			return 0, fmt.Errorf("%w: allocate id: %w", ErrStorageFailed, err)
		}
		return id, nil
	}

	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.nextID++
	return s.nextID, nil
}

// ProcessOrder records an order for the given total, stores it when a
// repository is configured and notifies the configured notifier.
func (s *Service) ProcessOrder(ctx context.Context, total Money) (Order, error) {
	return s.ProcessOrderVia(ctx, total, s.notifier)
}

// ProcessOrderVia is ProcessOrder with the notifier supplied per call.
// The service keeps its numbering state but owns no notifier.
func (s *Service) ProcessOrderVia(ctx context.Context, total Money, notifier Notifier) (Order, error) {
	id, err := s.nextOrderID(ctx)
	if err != nil {
		return Order{}, err
	}
	if total < 0 {
		return Order{}, fmt.Errorf("%w: negative total %s", ErrInvalidOrder, total)
	}

	order := Order{ID: id, Total: total}

	if err := s.save(ctx, order); err != nil {
		return Order{}, err
	}
	if err := notify(ctx, notifier, order); err != nil {
		return Order{}, err
	}

	s.logger.Debug("order processed", "id", order.ID, "total", order.Total)
	return order, nil
}

// PlaceOrder is the main use case: a customer places an order.
//
// The order is validated by the domain, then charged, stored and announced,
// stopping at the first failing step.
func (s *Service) PlaceOrder(ctx context.Context, items []LineItem) (Order, error) {
	id, err := s.nextOrderID(ctx)
	if err != nil {
		return Order{}, err
	}

	order, err := NewOrder(id, items)
	if err != nil {
		return Order{}, err
	}

	if s.payment != nil {
		if err := s.payment.Charge(ctx, order.Total); err != nil {
			s.logger.Warn("charge failed", "id", order.ID, "error", err)
			return Order{}, fmt.Errorf("%w: order %s: %w", ErrPaymentFailed, order.ID, err)
		}
	}
	if err := s.save(ctx, order); err != nil {
		return Order{}, err
	}
	if err := notify(ctx, s.notifier, order); err != nil {
		return Order{}, err
	}

	s.logger.Info("order placed", "id", order.ID, "items", len(order.Items), "total", order.Total)
	return order, nil
}

func (s *Service) save(ctx context.Context, order Order) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, order); err != nil {
		s.logger.Warn("save failed", "id", order.ID, "error", err)
		return fmt.Errorf("%w: order %s: %w", ErrStorageFailed, order.ID, err)
	}
	return nil
}

func notify(ctx context.Context, n Notifier, order Order) error {
	if n == nil {
		return nil
	}
	if err := n.Notify(ctx, order); err != nil {
		return fmt.Errorf("%w: order %s: %w", ErrNotificationFailed, order.ID, err)
	}
	return nil
}

// GetOrder retrieves an order.
func (s *Service) GetOrder(ctx context.Context, id OrderID) (Order, error) {
	if s.repo == nil {
		return Order{}, fmt.Errorf("%w: no repository configured", ErrUnsupported)
	}
	return s.repo.Find(ctx, id)
}

// ListOrders retrieves all orders.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("%w: no repository configured", ErrUnsupported)
	}
	return s.repo.List(ctx)
}

// DeleteOrder removes an order.
func (s *Service) DeleteOrder(ctx context.Context, id OrderID) error {
	if s.repo == nil {
		return fmt.Errorf("%w: no repository configured", ErrUnsupported)
	}
	return s.repo.Delete(ctx, id)
}

// Watch observes changes in the repository if supported.
// The returned stream is buffered and decoupled from the repository: when the
// consumer falls behind, events are dropped instead of blocking the producer.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, fmt.Errorf("%w: repository does not support watching", ErrUnsupported)
	}

	upstream, err := w.Watch(ctx, pattern)
	if err != nil {
		return nil, err
	}

	out := make(chan Event, s.eventBufferSize)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-upstream:
				if !ok {
					return
				}
				select {
				case out <- e:
				default:
					s.logger.Warn("event buffer full, dropping event", "event", e.String())
				}
			}
		}
	}()

	return out, nil
}
