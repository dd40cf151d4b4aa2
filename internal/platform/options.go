package platform

import (
	"io"
	"log/slog"

	"github.com/aretw0/hexa/pkg/core"
)

// options holds the composition choices for one hexa instance.
type options struct {
	adapter    string
	repository core.OrderRepository

	paymentProvider string
	payment         core.PaymentGateway

	notifierProvider string
	notifier         core.Notifier

	logger       *slog.Logger
	out          io.Writer
	eventBuffer  int
	readOnly     bool
	mustExist    bool
	devSafety    bool
	forceTemp    bool
	systemDir    string
	errorHandler func(error)

	config Config
}

// Option configures the composition root.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter:          AdapterFS,
		paymentProvider:  PaymentMock,
		notifierProvider: NotifierConsole,
		out:              io.Discard,
		devSafety:        true,
	}
}

// WithConfig applies a loaded configuration file. Options given after it win.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
		if cfg.Adapter != "" {
			o.adapter = cfg.Adapter
		}
		if cfg.Payment.Provider != "" {
			o.paymentProvider = cfg.Payment.Provider
		}
		if cfg.Notifier.Provider != "" {
			o.notifierProvider = cfg.Notifier.Provider
		}
		if cfg.EventBuffer > 0 {
			o.eventBuffer = cfg.EventBuffer
		}
		if cfg.SystemDir != "" {
			o.systemDir = cfg.SystemDir
		}
		o.readOnly = o.readOnly || cfg.ReadOnly
	}
}

// WithAdapter selects the persistence adapter by name (memory, fs, sqlite,
// postgres, bolt, badger, redis). Defaults to fs.
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithRepository injects a ready repository. The named adapter is then skipped.
func WithRepository(repo core.OrderRepository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithPaymentProvider selects the payment adapter by name (mock, stripe, none).
func WithPaymentProvider(name string) Option {
	return func(o *options) {
		o.paymentProvider = name
	}
}

// WithPaymentGateway injects a ready payment adapter.
func WithPaymentGateway(p core.PaymentGateway) Option {
	return func(o *options) {
		o.payment = p
	}
}

// WithNotifierProvider selects the notification adapter by name
// (console, memory, log, sendgrid, none).
func WithNotifierProvider(name string) Option {
	return func(o *options) {
		o.notifierProvider = name
	}
}

// WithNotifier injects a ready notifier.
func WithNotifier(n core.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithLogger sets the logger handed to the service and the adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput sets where console adapters print. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithEventBuffer sets the watch buffer size. Zero means the default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithReadOnly opens file-backed stores without writing to them.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist fails instead of creating a missing store directory.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithSystemDir names the hidden directory of the fs adapter. Defaults to ".hexa".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.systemDir = name
	}
}

// WithWatcherErrorHandler receives runtime failures of the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithForceTemp re-roots file-backed stores into the dev sandbox.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default file-backed stores are re-rooted into a temporary directory in
// that case. Read-only stores are never re-rooted.
//
// CAUTION: only disable this if the target path may be written to.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}
