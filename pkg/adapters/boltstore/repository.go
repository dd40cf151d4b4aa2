// Package boltstore stores orders in an embedded BoltDB file.
package boltstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/aretw0/hexa/pkg/core"
)

var ordersBucket = []byte("orders")

// Repository implements core.OrderRepository on a bolt database.
type Repository struct {
	db *bolt.DB
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Repository, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bolt: open %s: %w", path, err)
	}
	return &Repository{db: db}, nil
}

// Close releases the file lock.
func (r *Repository) Close() error {
	return r.db.Close()
}

func key(id core.OrderID) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

// Initialize creates the orders bucket.
func (r *Repository) Initialize(ctx context.Context) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(ordersBucket)
		return err
	})
}

// Save stores the order as JSON under its big-endian ID, which keeps the
// bucket ordered by ID.
func (r *Repository) Save(ctx context.Context, order core.Order) error {
	buf, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(ordersBucket)
		if err != nil {
			return err
		}
		return b.Put(key(order.ID), buf)
	})
}

// Find loads one order.
func (r *Repository) Find(ctx context.Context, id core.OrderID) (core.Order, error) {
	var order core.Order
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(ordersBucket)
		if b == nil {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		v := b.Get(key(id))
		if v == nil {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return json.Unmarshal(v, &order)
	})
	return order, err
}

// List walks the bucket in key order.
func (r *Repository) List(ctx context.Context) ([]core.Order, error) {
	var orders []core.Order
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(ordersBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var o core.Order
			if err := json.Unmarshal(v, &o); err != nil {
				return fmt.Errorf("decode order %x: %w", k, err)
			}
			orders = append(orders, o)
			return nil
		})
	})
	return orders, err
}

// Delete removes an order.
func (r *Repository) Delete(ctx context.Context, id core.OrderID) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(ordersBucket)
		if b == nil || b.Get(key(id)) == nil {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return b.Delete(key(id))
	})
}

// NextID implements core.Sequencer with the bucket sequence, kept ahead of
// the last stored key.
func (r *Repository) NextID(ctx context.Context) (core.OrderID, error) {
	var next uint64
	err := r.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(ordersBucket)
		if err != nil {
			return err
		}
		next = b.Sequence()
		if k, _ := b.Cursor().Last(); k != nil {
			next = max(next, binary.BigEndian.Uint64(k))
		}
		next++
		return b.SetSequence(next)
	})
	return core.OrderID(next), err
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "bolt-repository"
}

var (
	_ core.OrderRepository = (*Repository)(nil)
	_ core.Sequencer       = (*Repository)(nil)
)
