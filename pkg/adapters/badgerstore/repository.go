// Package badgerstore stores orders in a Badger key-value database.
package badgerstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/aretw0/hexa/pkg/core"
)

const (
	orderPrefix = "order:"
	seqKey      = "meta:sequence"
)

// Repository implements core.OrderRepository on Badger.
//
// Keys:
//   - order:<8 byte big-endian id> -> JSON order
//   - meta:sequence -> last handed out id
type Repository struct {
	db    *badger.DB
	seqMu sync.Mutex
}

// Open opens a database directory. An empty path runs fully in memory.
func Open(path string) (*Repository, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close flushes and closes the database.
func (r *Repository) Close() error { return r.db.Close() }

func orderKey(id core.OrderID) []byte {
	k := make([]byte, len(orderPrefix)+8)
	copy(k, orderPrefix)
	binary.BigEndian.PutUint64(k[len(orderPrefix):], uint64(id))
	return k
}

// Initialize implements core.OrderRepository. Badger needs no schema.
func (r *Repository) Initialize(ctx context.Context) error { return nil }

// Save stores the order as JSON.
func (r *Repository) Save(ctx context.Context, order core.Order) error {
	buf, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(orderKey(order.ID), buf)
	})
}

// Find loads one order.
func (r *Repository) Find(ctx context.Context, id core.OrderID) (core.Order, error) {
	var order core.Order
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(orderKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &order)
		})
	})
	return order, err
}

// List iterates the order prefix; keys sort by ID.
func (r *Repository) List(ctx context.Context) ([]core.Order, error) {
	var orders []core.Order
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(orderPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var o core.Order
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &o)
			}); err != nil {
				return err
			}
			orders = append(orders, o)
		}
		return nil
	})
	return orders, err
}

// Delete removes an order.
func (r *Repository) Delete(ctx context.Context, id core.OrderID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(orderKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", core.ErrNotFound, id)
			}
			return err
		}
		return txn.Delete(orderKey(id))
	})
}

// NextID implements core.Sequencer.
func (r *Repository) NextID(ctx context.Context) (core.OrderID, error) {
	r.seqMu.Lock()
	defer r.seqMu.Unlock()

	var next uint64
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(seqKey))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				next = binary.BigEndian.Uint64(val)
				return nil
			}); err != nil {
				return err
			}
		}

		// Never fall behind the last stored order.
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(orderPrefix)
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		seek := append([]byte(orderPrefix), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
		it.Seek(seek)
		if it.Valid() {
			k := it.Item().Key()
			next = max(next, binary.BigEndian.Uint64(k[len(orderPrefix):]))
		}
		it.Close()

		next++
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, next)
		return txn.Set([]byte(seqKey), buf)
	})
	return core.OrderID(next), err
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "badger-repository"
}

var (
	_ core.OrderRepository = (*Repository)(nil)
	_ core.Sequencer       = (*Repository)(nil)
)
