package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/hexa/pkg/core"
)

// ErrDeclined is returned by a PaymentGateway set to decline.
var ErrDeclined = errors.New("card declined")

// PaymentGateway is a mock gateway. It succeeds unless told otherwise and
// remembers every amount it charged.
type PaymentGateway struct {
	// Label prefixes the printed line, "MockPayment" by default.
	Label string
	W     io.Writer

	mu      sync.Mutex
	decline bool
	charged []core.Money
}

// NewPaymentGateway creates a gateway printing to w. A nil w prints nothing.
func NewPaymentGateway(w io.Writer) *PaymentGateway {
	return &PaymentGateway{Label: "MockPayment", W: w}
}

// Decline makes subsequent charges fail (or succeed again).
func (p *PaymentGateway) Decline(decline bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.decline = decline
}

// Charge implements core.PaymentGateway.
func (p *PaymentGateway) Charge(ctx context.Context, amount core.Money) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.decline {
		return fmt.Errorf("charge %s: %w", amount, ErrDeclined)
	}
	if p.W != nil {
		fmt.Fprintf(p.W, "  [%s] Charging %s\n", p.Label, amount)
	}
	p.charged = append(p.charged, amount)
	return nil
}

// Charged returns the amounts charged so far.
func (p *PaymentGateway) Charged() []core.Money {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.Money(nil), p.charged...)
}

var _ core.PaymentGateway = (*PaymentGateway)(nil)
