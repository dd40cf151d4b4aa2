// Package core holds the business vocabulary of hexa, its rules and the ports
// the application needs from the outside world.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OrderID is the business identifier of an order.
type OrderID uint32

func (id OrderID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}

// ParseOrderID accepts both "7" and "#7".
func ParseOrderID(s string) (OrderID, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid order id %q: %w", s, err)
	}
	return OrderID(n), nil
}

// Money is an amount stored in cents.
type Money int64

func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s$%d.%02d", sign, m/100, m%100)
}

// ParseMoney parses a decimal dollar amount such as "49.99", "$5" or "0.5".
func ParseMoney(s string) (Money, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "$")
	if raw == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	units, frac, hasFrac := strings.Cut(raw, ".")
	if units == "" {
		units = "0"
	}
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, fmt.Errorf("invalid amount %q: expected at most two decimals", s)
	}

	u, err := strconv.ParseUint(units, 10, 53)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	var cents uint64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseUint(frac, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	}

	return Money(u*100 + cents), nil
}

// LineItem is one product line of an order.
type LineItem struct {
	Name  string `json:"name" yaml:"name"`
	Price Money  `json:"price" yaml:"price"`
}

// Order is pure business data. It knows nothing about databases or transports.
type Order struct {
	ID    OrderID    `json:"id" yaml:"id"`
	Items []LineItem `json:"items,omitempty" yaml:"items,omitempty"`
	Total Money      `json:"total" yaml:"total"`
}

// NewOrder builds an order and enforces its invariants:
// at least one item, named items, non-negative prices and a total that fits in Money.
func NewOrder(id OrderID, items []LineItem) (Order, error) {
	if len(items) == 0 {
		return Order{}, fmt.Errorf("%w: an order needs at least one item", ErrInvalidOrder)
	}

	var total Money
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return Order{}, fmt.Errorf("%w: item %d has no name", ErrInvalidOrder, i)
		}
		if item.Price < 0 {
			return Order{}, fmt.Errorf("%w: item %q has a negative price", ErrInvalidOrder, item.Name)
		}
		if item.Price > math.MaxInt64-total {
			return Order{}, fmt.Errorf("%w: total overflows at item %q", ErrInvalidOrder, item.Name)
		}
		total += item.Price
	}

	return Order{
		ID:    id,
		Items: append([]LineItem(nil), items...),
		Total: total,
	}, nil
}

// Clone returns a copy that shares no memory with o.
func (o Order) Clone() Order {
	c := o
	if o.Items != nil {
		c.Items = append([]LineItem(nil), o.Items...)
	}
	return c
}
