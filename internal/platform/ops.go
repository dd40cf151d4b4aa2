package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/hexa/pkg/adapters/badgerstore"
	"github.com/aretw0/hexa/pkg/adapters/boltstore"
	"github.com/aretw0/hexa/pkg/adapters/fs"
	"github.com/aretw0/hexa/pkg/adapters/memory"
	"github.com/aretw0/hexa/pkg/adapters/redisstore"
	"github.com/aretw0/hexa/pkg/adapters/sendgrid"
	"github.com/aretw0/hexa/pkg/adapters/sqlstore"
	"github.com/aretw0/hexa/pkg/adapters/stripe"
	"github.com/aretw0/hexa/pkg/core"
)

// Adapter names.
const (
	AdapterMemory   = "memory"
	AdapterFS       = "fs"
	AdapterSQLite   = "sqlite"
	AdapterPostgres = "postgres"
	AdapterBolt     = "bolt"
	AdapterBadger   = "badger"
	AdapterRedis    = "redis"
)

// Payment and notifier provider names.
const (
	ProviderNone = "none"

	PaymentMock   = "mock"
	PaymentStripe = "stripe"

	NotifierConsole  = "console"
	NotifierMemory   = "memory"
	NotifierLog      = "log"
	NotifierSendGrid = "sendgrid"
)

func isFileAdapter(name string) bool {
	switch name {
	case "", AdapterFS, AdapterSQLite, AdapterBolt, AdapterBadger:
		return true
	}
	return false
}

// Init opens and initializes the repository selected by the options.
// The uri is adapter specific: a directory for fs and badger, a file for
// sqlite and bolt, a DSN for postgres, an address for redis.
func Init(ctx context.Context, uri string, opts ...Option) (core.OrderRepository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRepository(ctx, uri, o)
}

func initRepository(ctx context.Context, uri string, o *options) (core.OrderRepository, error) {
	if o.repository != nil {
		return o.repository, nil
	}
	if uri == "" {
		uri = o.config.Path
	}

	// An empty badger path selects its in-memory mode.
	if isFileAdapter(o.adapter) && !(o.adapter == AdapterBadger && uri == "") {
		uri = o.resolvePath(uri)
	}

	var (
		repo core.OrderRepository
		err  error
	)
	switch o.adapter {
	case AdapterMemory:
		repo = memory.NewRepository(o.logger)
	case AdapterFS:
		repo = fs.NewRepository(fs.Config{
			Path:         uri,
			MustExist:    o.mustExist,
			ReadOnly:     o.readOnly,
			Logger:       o.logger,
			SystemDir:    o.systemDir,
			ErrorHandler: o.errorHandler,
		})
	case AdapterSQLite:
		repo, err = openSQLite(uri, o)
	case AdapterPostgres:
		db, perr := sqlstore.OpenPostgres(ctx, uri)
		if perr != nil {
			return nil, perr
		}
		repo = sqlstore.NewRepository(db, sqlstore.Postgres, o.logger)
	case AdapterBolt:
		path, perr := prepareFile(uri, "orders.bolt", o)
		if perr != nil {
			return nil, perr
		}
		repo, err = boltstore.Open(path)
	case AdapterBadger:
		repo, err = badgerstore.Open(uri)
	case AdapterRedis:
		cfg := redisstore.Config(o.config.Redis)
		if uri != "" {
			cfg.Addr = uri
		}
		repo, err = redisstore.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(ctx); err != nil {
		closeRepository(repo)
		return nil, err
	}
	return repo, nil
}

// resolvePath applies the dev sandbox to file-backed stores.
func (o *options) resolvePath(path string) string {
	bypass := o.readOnly || !o.devSafety
	useTemp := o.forceTemp || (IsDevRun() && !bypass)
	resolved := ResolveStorePath(path, useTemp)

	if useTemp && resolved != path && o.logger != nil {
		o.logger.Warn("running in SAFE MODE (dev sandbox)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

// prepareFile treats a directory argument as the place for a default file
// name and creates the parent directory of the result.
func prepareFile(path, name string, o *options) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, name)
	}
	if !o.readOnly && !o.mustExist {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("create directory for %s: %w", filepath.Base(path), err)
		}
	}
	return path, nil
}

func openSQLite(path string, o *options) (core.OrderRepository, error) {
	path, err := prepareFile(path, "orders.db", o)
	if err != nil {
		return nil, err
	}
	db, err := sqlstore.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	return sqlstore.NewRepository(db, sqlstore.SQLite, o.logger), nil
}

func closeRepository(repo core.OrderRepository) {
	if c, ok := repo.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}

func buildPayment(o *options) (core.PaymentGateway, error) {
	if o.payment != nil {
		return o.payment, nil
	}
	switch o.paymentProvider {
	case ProviderNone:
		return nil, nil
	case "", PaymentMock:
		return memory.NewPaymentGateway(o.out), nil
	case PaymentStripe:
		s := o.config.Payment.Stripe
		return stripe.New(stripe.Config{
			Endpoint:      s.Endpoint,
			APIKey:        s.APIKey,
			Currency:      s.Currency,
			RatePerSecond: s.RatePerSecond,
			Logger:        o.logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown payment provider: %s", o.paymentProvider)
	}
}

func buildNotifier(o *options) (core.Notifier, error) {
	if o.notifier != nil {
		return o.notifier, nil
	}
	switch o.notifierProvider {
	case ProviderNone:
		return nil, nil
	case "", NotifierConsole:
		return memory.ConsoleNotifier{W: o.out, Formatted: true}, nil
	case NotifierMemory:
		return memory.NewInMemoryNotifier(), nil
	case NotifierLog:
		logger := o.logger
		if logger == nil {
			logger = slog.Default()
		}
		return memory.LogNotifier{Logger: logger}, nil
	case NotifierSendGrid:
		s := o.config.Notifier.SendGrid
		return sendgrid.New(sendgrid.Config{
			Endpoint: s.Endpoint,
			APIKey:   s.APIKey,
			From:     s.From,
			To:       s.To,
			Logger:   o.logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown notifier: %s", o.notifierProvider)
	}
}
