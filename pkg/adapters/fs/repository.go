// Package fs stores orders as YAML documents in a directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/hexa/pkg/core"
)

const (
	// DefaultSystemDir holds the index cache next to the orders.
	DefaultSystemDir = ".hexa"
	// OrdersDir is the sub directory holding one document per order.
	OrdersDir = "orders"

	docExt = ".yaml"
)

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool
	ReadOnly  bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".hexa"
	// ErrorHandler receives runtime watcher failures which are otherwise only logged.
	ErrorHandler func(error)
}

// Repository implements core.OrderRepository on top of the filesystem.
type Repository struct {
	Path   string
	config Config
	cache  *cache

	seqMu sync.Mutex

	mu            sync.RWMutex
	watcherActive bool
	lastReconcile *time.Time
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{
		Path:   config.Path,
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
	}
}

func (r *Repository) ordersDir() string {
	return filepath.Join(r.Path, OrdersDir)
}

func fileName(id core.OrderID) string {
	return fmt.Sprintf("%d%s", id, docExt)
}

// Initialize prepares the directory layout and loads the index.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", r.Path)
		}
	}

	if !r.config.ReadOnly {
		if err := os.MkdirAll(r.ordersDir(), 0755); err != nil {
			return fmt.Errorf("failed to create orders directory: %w", err)
		}
	}

	return r.cache.Load()
}

// Save writes the order document atomically.
func (r *Repository) Save(ctx context.Context, order core.Order) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if order.ID == 0 {
		return fmt.Errorf("order has no ID")
	}

	data, err := yaml.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to serialize order %s: %w", order.ID, err)
	}

	if err := os.MkdirAll(r.ordersDir(), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	name := fileName(order.ID)
	fullPath := filepath.Join(r.ordersDir(), name)
	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return err
	}
	r.config.Logger.Debug("order written", "id", order.ID, "path", fullPath)

	if info, err := os.Stat(fullPath); err == nil {
		r.cache.Set(name, &indexEntry{Order: order.Clone(), LastModified: info.ModTime()})
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Warn("failed to persist index", "error", err)
		}
	}
	return nil
}

// Find reads an order document.
func (r *Repository) Find(ctx context.Context, id core.OrderID) (core.Order, error) {
	order, err := r.readFile(filepath.Join(r.ordersDir(), fileName(id)))
	if errors.Is(err, iofs.ErrNotExist) {
		return core.Order{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return order, err
}

func (r *Repository) readFile(path string) (core.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Order{}, err
	}
	var order core.Order
	if err := yaml.Unmarshal(data, &order); err != nil {
		return core.Order{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return order, nil
}

// List returns every order sorted by ID. Documents whose mtime matches the
// index are served from the cache without being parsed again.
func (r *Repository) List(ctx context.Context) ([]core.Order, error) {
	return r.Glob(ctx, "*")
}

// Glob lists the orders whose decimal ID matches pattern (doublestar syntax).
func (r *Repository) Glob(ctx context.Context, pattern string) ([]core.Order, error) {
	if pattern == "" {
		pattern = "*"
	}
	names, err := doublestar.Glob(os.DirFS(r.ordersDir()), pattern+docExt)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]core.Order, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(r.ordersDir(), name)
		info, err := os.Stat(fullPath)
		if err != nil {
			continue
		}
		seen[name] = true

		if entry, ok := r.cache.Get(name, info.ModTime()); ok {
			orders = append(orders, entry.Order.Clone())
			continue
		}

		order, err := r.readFile(fullPath)
		if err != nil {
			r.config.Logger.Warn("skipping unreadable order", "file", name, "error", err)
			continue
		}
		r.cache.Set(name, &indexEntry{Order: order.Clone(), LastModified: info.ModTime()})
		orders = append(orders, order)
	}

	if pattern == "*" {
		r.cache.Prune(seen)
		r.recordReconcile()
	}
	if !r.config.ReadOnly {
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Warn("failed to persist index", "error", err)
		}
	}

	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

// Delete removes an order document.
func (r *Repository) Delete(ctx context.Context, id core.OrderID) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	name := fileName(id)
	if err := os.Remove(filepath.Join(r.ordersDir(), name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", core.ErrNotFound, id)
		}
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}

	r.cache.Delete(name)
	if err := r.cache.Save(); err != nil {
		r.config.Logger.Warn("failed to persist index", "error", err)
	}
	return nil
}

// NextID implements core.Sequencer. The sequence lives in the index and never
// goes below the highest order already on disk.
func (r *Repository) NextID(ctx context.Context) (core.OrderID, error) {
	if r.config.ReadOnly {
		return 0, core.ErrReadOnly
	}

	r.seqMu.Lock()
	defer r.seqMu.Unlock()

	orders, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	var highest core.OrderID
	if n := len(orders); n > 0 {
		highest = orders[n-1].ID
	}

	id := r.cache.Bump(highest)
	if err := r.cache.Save(); err != nil {
		return 0, fmt.Errorf("failed to persist sequence: %w", err)
	}
	return id, nil
}

var (
	_ core.OrderRepository = (*Repository)(nil)
	_ core.Sequencer       = (*Repository)(nil)
	_ core.Watchable       = (*Repository)(nil)
)
