package core

import "errors"

// Domain errors describe business failures, not technical ones.
// Adapters' causes are wrapped underneath them.
var (
	ErrInvalidOrder       = errors.New("invalid order")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrStorageFailed      = errors.New("storage failed")
	ErrNotificationFailed = errors.New("notification failed")
	ErrNotFound           = errors.New("order not found")
	ErrReadOnly           = errors.New("repository is in read-only mode")
	ErrUnsupported        = errors.New("operation not supported by the configured adapters")
)
