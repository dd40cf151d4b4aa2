package core

import "context"

// Notifier tells the outside world that an order went through.
// It could be a console, an email API or a message bus; the core does not care.
type Notifier interface {
	Notify(ctx context.Context, order Order) error
}

// OrderRepository defines the contract for storing and retrieving orders.
// Adhering to this interface keeps the core independent of the storage
// mechanism (in-memory map, files, SQL, key-value stores).
type OrderRepository interface {
	// Save persists an order. It creates if not exists, or replaces it.
	Save(ctx context.Context, order Order) error
	// Find retrieves an order by its ID. Missing orders yield ErrNotFound.
	Find(ctx context.Context, id OrderID) (Order, error)
	// List returns all stored orders sorted by ID.
	List(ctx context.Context) ([]Order, error)
	// Delete removes an order. Missing orders yield ErrNotFound.
	Delete(ctx context.Context, id OrderID) error
	// Initialize ensures the underlying storage is ready (directories, schema, buckets).
	Initialize(ctx context.Context) error
}

// PaymentGateway charges customers.
type PaymentGateway interface {
	Charge(ctx context.Context, amount Money) error
}

// Sequencer is implemented by repositories able to hand out order IDs
// that survive restarts.
type Sequencer interface {
	NextID(ctx context.Context) (OrderID, error)
}

// Watchable is implemented by repositories that can stream changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// NotifierFunc adapts a plain function to the Notifier port.
type NotifierFunc func(ctx context.Context, order Order) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, order Order) error {
	return f(ctx, order)
}
