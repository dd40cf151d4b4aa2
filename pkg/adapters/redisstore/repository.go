// Package redisstore keeps orders in a Redis hash.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aretw0/hexa/pkg/core"
)

// Config holds Redis connection configuration.
type Config struct {
	Addr      string // host:port
	Password  string
	DB        int
	KeyPrefix string // defaults to "hexa"
}

// raiseSeq keeps the sequence at or above an explicitly saved ID.
var raiseSeq = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
if cur < tonumber(ARGV[1]) then
	redis.call('SET', KEYS[1], ARGV[1])
end
return 0
`)

// Repository implements core.OrderRepository on Redis.
type Repository struct {
	client  *redis.Client
	ordersK string
	seqK    string
}

// New connects to Redis and checks the connection.
func New(ctx context.Context, cfg Config) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return NewWithClient(client, cfg.KeyPrefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string) *Repository {
	if prefix == "" {
		prefix = "hexa"
	}
	return &Repository{
		client:  client,
		ordersK: prefix + ":orders",
		seqK:    prefix + ":orders:seq",
	}
}

// Close closes the client.
func (r *Repository) Close() error { return r.client.Close() }

// Initialize checks connectivity.
func (r *Repository) Initialize(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func field(id core.OrderID) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Save writes the order into the hash.
func (r *Repository) Save(ctx context.Context, order core.Order) error {
	buf, err := json.Marshal(order)
	if err != nil {
		return err
	}
	if err := r.client.HSet(ctx, r.ordersK, field(order.ID), buf).Err(); err != nil {
		return fmt.Errorf("redis: save order %s: %w", order.ID, err)
	}
	if err := raiseSeq.Run(ctx, r.client, []string{r.seqK}, uint64(order.ID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis: raise sequence: %w", err)
	}
	return nil
}

// Find loads one order.
func (r *Repository) Find(ctx context.Context, id core.OrderID) (core.Order, error) {
	val, err := r.client.HGet(ctx, r.ordersK, field(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.Order{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Order{}, fmt.Errorf("redis: find order %s: %w", id, err)
	}
	var order core.Order
	if err := json.Unmarshal(val, &order); err != nil {
		return core.Order{}, fmt.Errorf("redis: decode order %s: %w", id, err)
	}
	return order, nil
}

// List returns all orders sorted by ID.
func (r *Repository) List(ctx context.Context) ([]core.Order, error) {
	all, err := r.client.HGetAll(ctx, r.ordersK).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list orders: %w", err)
	}
	orders := make([]core.Order, 0, len(all))
	for k, v := range all {
		var o core.Order
		if err := json.Unmarshal([]byte(v), &o); err != nil {
			return nil, fmt.Errorf("redis: decode order %s: %w", k, err)
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

// Delete removes an order.
func (r *Repository) Delete(ctx context.Context, id core.OrderID) error {
	n, err := r.client.HDel(ctx, r.ordersK, field(id)).Result()
	if err != nil {
		return fmt.Errorf("redis: delete order %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return nil
}

// NextID implements core.Sequencer with INCR.
func (r *Repository) NextID(ctx context.Context) (core.OrderID, error) {
	n, err := r.client.Incr(ctx, r.seqK).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: next id: %w", err)
	}
	return core.OrderID(n), nil
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "redis-repository"
}

var (
	_ core.OrderRepository = (*Repository)(nil)
	_ core.Sequencer       = (*Repository)(nil)
)
