package hexa

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/hexa/internal/platform"
	"github.com/aretw0/hexa/pkg/core"
)

// --- Types ---

// Instance is a wired service together with its adapters.
type Instance = platform.Instance

// Config mirrors the hexa.yaml configuration file.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring hexa.
type Option = platform.Option

// Adapter names accepted by WithAdapter.
const (
	AdapterMemory   = platform.AdapterMemory
	AdapterFS       = platform.AdapterFS
	AdapterSQLite   = platform.AdapterSQLite
	AdapterPostgres = platform.AdapterPostgres
	AdapterBolt     = platform.AdapterBolt
	AdapterBadger   = platform.AdapterBadger
	AdapterRedis    = platform.AdapterRedis
)

// Provider names accepted by WithPaymentProvider and WithNotifierProvider.
const (
	ProviderNone     = platform.ProviderNone
	PaymentMock      = platform.PaymentMock
	PaymentStripe    = platform.PaymentStripe
	NotifierConsole  = platform.NotifierConsole
	NotifierMemory   = platform.NotifierMemory
	NotifierLog      = platform.NotifierLog
	NotifierSendGrid = platform.NotifierSendGrid
)

// ConfigFileName is the configuration file looked up by FindRoot.
const ConfigFileName = platform.ConfigFileName

// WithConfig applies a loaded configuration file.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// WithAdapter selects the persistence adapter by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithRepository injects a custom persistence adapter.
func WithRepository(repo core.OrderRepository) Option {
	return platform.WithRepository(repo)
}

// WithPaymentProvider selects the payment adapter by name.
func WithPaymentProvider(name string) Option {
	return platform.WithPaymentProvider(name)
}

// WithPaymentGateway injects a custom payment adapter.
func WithPaymentGateway(p core.PaymentGateway) Option {
	return platform.WithPaymentGateway(p)
}

// WithNotifierProvider selects the notification adapter by name.
func WithNotifierProvider(name string) Option {
	return platform.WithNotifierProvider(name)
}

// WithNotifier injects a custom notifier.
func WithNotifier(n core.Notifier) Option {
	return platform.WithNotifier(n)
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithOutput sets where console adapters print.
func WithOutput(w io.Writer) Option {
	return platform.WithOutput(w)
}

// WithEventBuffer sets the size of the watch buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithReadOnly opens file-backed stores read-only.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist requires the store directory to exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithSystemDir names the hidden directory of the fs adapter (e.g. ".hexa").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithWatcherErrorHandler receives runtime failures of the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithForceTemp forces file-backed stores into the dev sandbox.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New wires a service and its adapters.
func New(ctx context.Context, uri string, opts ...Option) (*Instance, error) {
	return platform.New(ctx, uri, opts...)
}

// Init opens and initializes a repository explicitly.
func Init(ctx context.Context, uri string, opts ...Option) (core.OrderRepository, error) {
	return platform.Init(ctx, uri, opts...)
}

// LoadConfig reads a hexa.yaml file.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// --- Safety & Utils ---

// ResolveStorePath applies the dev sandbox rules to a store path.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun reports whether the process runs via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a project root (hexa.yaml, .hexa or .git).
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
