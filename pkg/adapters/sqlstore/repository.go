// Package sqlstore persists orders in a relational database through
// database/sql. SQLite and PostgreSQL are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/hexa/pkg/core"
)

// Repository implements core.OrderRepository over database/sql.
type Repository struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// NewRepository wraps an open database. The repository owns db and closes it in Close.
func NewRepository(db *sql.DB, dialect Dialect, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{db: db, dialect: dialect, logger: logger}
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Initialize creates the schema if needed.
func (r *Repository) Initialize(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: schema migration failed: %w", r.dialect.Name, err)
		}
	}
	return nil
}

func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", r.dialect.Name, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", r.dialect.Name, err)
	}
	return nil
}

// Save upserts the order and replaces its items in one transaction.
func (r *Repository) Save(ctx context.Context, order core.Order) error {
	r.logger.Debug("INSERT order", "dialect", r.dialect.Name, "id", order.ID)

	return r.withTx(ctx, func(tx *sql.Tx) error {
		upsert := r.dialect.rebind(`INSERT INTO orders (id, total) VALUES (?, ?)
			ON CONFLICT (id) DO UPDATE SET total = excluded.total`)
		if _, err := tx.ExecContext(ctx, upsert, int64(order.ID), int64(order.Total)); err != nil {
			return fmt.Errorf("save order %s: %w", order.ID, err)
		}

		if _, err := tx.ExecContext(ctx, r.dialect.rebind(`DELETE FROM order_items WHERE order_id = ?`), int64(order.ID)); err != nil {
			return fmt.Errorf("clear items of %s: %w", order.ID, err)
		}

		insert := r.dialect.rebind(`INSERT INTO order_items (order_id, line_no, name, price) VALUES (?, ?, ?, ?)`)
		for i, item := range order.Items {
			if _, err := tx.ExecContext(ctx, insert, int64(order.ID), i, item.Name, int64(item.Price)); err != nil {
				return fmt.Errorf("save item %d of %s: %w", i, order.ID, err)
			}
		}
		return nil
	})
}

// Find loads one order with its items.
func (r *Repository) Find(ctx context.Context, id core.OrderID) (core.Order, error) {
	r.logger.Debug("SELECT order", "dialect", r.dialect.Name, "id", id)

	var total int64
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(`SELECT total FROM orders WHERE id = ?`), int64(id)).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Order{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Order{}, fmt.Errorf("find order %s: %w", id, err)
	}

	items, err := r.items(ctx, `WHERE order_id = ?`, int64(id))
	if err != nil {
		return core.Order{}, err
	}

	return core.Order{ID: id, Items: items[id], Total: core.Money(total)}, nil
}

// items loads line items grouped by order, in line order.
func (r *Repository) items(ctx context.Context, where string, args ...any) (map[core.OrderID][]core.LineItem, error) {
	q := r.dialect.rebind(`SELECT order_id, name, price FROM order_items ` + where + ` ORDER BY order_id, line_no`)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	out := make(map[core.OrderID][]core.LineItem)
	for rows.Next() {
		var (
			orderID int64
			item    core.LineItem
			price   int64
		)
		if err := rows.Scan(&orderID, &item.Name, &price); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.Price = core.Money(price)
		out[core.OrderID(orderID)] = append(out[core.OrderID(orderID)], item)
	}
	return out, rows.Err()
}

// List returns all orders sorted by ID.
func (r *Repository) List(ctx context.Context) ([]core.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, total FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []core.Order
	for rows.Next() {
		var id, total int64
		if err := rows.Scan(&id, &total); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, core.Order{ID: core.OrderID(id), Total: core.Money(total)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	items, err := r.items(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

// Delete removes the order and, through the foreign key, its items.
func (r *Repository) Delete(ctx context.Context, id core.OrderID) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.dialect.rebind(`DELETE FROM order_items WHERE order_id = ?`), int64(id)); err != nil {
			return fmt.Errorf("delete items of %s: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, r.dialect.rebind(`DELETE FROM orders WHERE id = ?`), int64(id))
		if err != nil {
			return fmt.Errorf("delete order %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return nil
	})
}

// NextID implements core.Sequencer with a single-row counter table, seeded by
// Initialize, that never falls behind the highest stored order.
func (r *Repository) NextID(ctx context.Context) (core.OrderID, error) {
	var next int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var current int64
		err := tx.QueryRowContext(ctx, `SELECT value FROM order_sequence WHERE id = 1`+r.dialect.LockClause).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return errors.New("read sequence: not initialized")
		}
		if err != nil {
			return fmt.Errorf("read sequence: %w", err)
		}

		var highest int64
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM orders`).Scan(&highest); err != nil {
			return fmt.Errorf("read highest id: %w", err)
		}

		next = max(current, highest) + 1
		if _, err := tx.ExecContext(ctx, r.dialect.rebind(`UPDATE order_sequence SET value = ? WHERE id = 1`), next); err != nil {
			return fmt.Errorf("bump sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return core.OrderID(next), nil
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return r.dialect.Name + "-repository"
}

var (
	_ core.OrderRepository = (*Repository)(nil)
	_ core.Sequencer       = (*Repository)(nil)
)
