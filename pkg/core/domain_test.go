package core_test

import (
	"math"
	"testing"

	"github.com/aretw0/hexa/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("sums item prices", func(t *testing.T) {
		items := []core.LineItem{{Name: "Rust Book", Price: 4999}, {Name: "Keyboard", Price: 12999}}
		order, err := core.NewOrder(7, items)
		require.NoError(t, err)

		want := core.Order{ID: 7, Items: items, Total: 17998}
		if diff := cmp.Diff(want, order); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("does not alias the caller's slice", func(t *testing.T) {
		items := []core.LineItem{{Name: "Pen", Price: 100}}
		order, err := core.NewOrder(1, items)
		require.NoError(t, err)
		items[0].Name = "Changed"
		assert.Equal(t, "Pen", order.Items[0].Name)
	})

	for name, items := range map[string][]core.LineItem{
		"no items":       nil,
		"empty items":    {},
		"unnamed item":   {{Name: "  ", Price: 1}},
		"negative price": {{Name: "Refund", Price: -5}},
		"total overflow": {{Name: "Yacht", Price: math.MaxInt64}, {Name: "Pen", Price: 2}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := core.NewOrder(1, items)
			assert.ErrorIs(t, err, core.ErrInvalidOrder)
		})
	}
}

func TestOrder_Clone(t *testing.T) {
	order := core.Order{ID: 1, Items: []core.LineItem{{Name: "A", Price: 1}}, Total: 1}
	clone := order.Clone()
	clone.Items[0].Price = 99
	assert.Equal(t, core.Money(1), order.Items[0].Price)
}

func TestMoney_String(t *testing.T) {
	tests := map[core.Money]string{
		0:     "$0.00",
		5:     "$0.05",
		4999:  "$49.99",
		12999: "$129.99",
		-250:  "-$2.50",
	}
	for m, want := range tests {
		assert.Equal(t, want, m.String())
	}
}

func TestParseMoney(t *testing.T) {
	valid := map[string]core.Money{
		"49.99":  4999,
		"$5":     500,
		"0.5":    50,
		".75":    75,
		" 12.3 ": 1230,
	}
	for in, want := range valid {
		got, err := core.ParseMoney(in)
		if assert.NoError(t, err, in) {
			assert.Equal(t, want, got, in)
		}
	}

	for _, in := range []string{"", "abc", "1.234", "-3", "1.", "$"} {
		_, err := core.ParseMoney(in)
		assert.Error(t, err, in)
	}
}

func TestOrderID(t *testing.T) {
	assert.Equal(t, "#12", core.OrderID(12).String())

	id, err := core.ParseOrderID("#12")
	require.NoError(t, err)
	assert.Equal(t, core.OrderID(12), id)

	id, err = core.ParseOrderID("3")
	require.NoError(t, err)
	assert.Equal(t, core.OrderID(3), id)

	_, err = core.ParseOrderID("x")
	assert.Error(t, err)
}
