package stripe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hexa/pkg/adapters/stripe"
	"github.com/aretw0/hexa/pkg/core"
)

type fakeStripe struct {
	mu      sync.Mutex
	amounts []string
	keys    map[string]bool
}

func newFakeStripe(t *testing.T) (*fakeStripe, *httptest.Server) {
	f := &fakeStripe{keys: make(map[string]bool)}
	r := chi.NewRouter()
	r.Post("/v1/charges", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk_test" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key provided"}}`))
			return
		}
		assert.NoError(t, r.ParseForm())

		f.mu.Lock()
		defer f.mu.Unlock()
		f.keys[r.Header.Get("Idempotency-Key")] = true
		amount := r.PostForm.Get("amount")
		if amount == "666" {
			w.WriteHeader(http.StatusPaymentRequired)
			_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
			return
		}
		f.amounts = append(f.amounts, amount+" "+r.PostForm.Get("currency"))
		_, _ = w.Write([]byte(`{"id":"ch_1","paid":true}`))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func TestCharge(t *testing.T) {
	f, srv := newFakeStripe(t)
	g := stripe.New(stripe.Config{Endpoint: srv.URL, APIKey: "sk_test", RatePerSecond: 1000})

	require.NoError(t, g.Charge(context.Background(), 17998))
	require.NoError(t, g.Charge(context.Background(), 100))
	require.NoError(t, g.Charge(context.Background(), 0), "zero amounts are skipped")

	assert.Equal(t, []string{"17998 usd", "100 usd"}, f.amounts)
	assert.Len(t, f.keys, 2, "each charge carries its own idempotency key")
}

func TestCharge_Declined(t *testing.T) {
	_, srv := newFakeStripe(t)
	g := stripe.New(stripe.Config{Endpoint: srv.URL, APIKey: "sk_test"})

	err := g.Charge(context.Background(), 666)
	require.ErrorIs(t, err, stripe.ErrCardDeclined)
	assert.Contains(t, err.Error(), "Your card was declined.")
}

func TestCharge_Unauthorized(t *testing.T) {
	_, srv := newFakeStripe(t)
	g := stripe.New(stripe.Config{Endpoint: srv.URL, APIKey: "wrong"})

	err := g.Charge(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestCharge_ThroughService(t *testing.T) {
	_, srv := newFakeStripe(t)
	g := stripe.New(stripe.Config{Endpoint: srv.URL, APIKey: "sk_test"})
	svc := core.NewService(core.WithPayment(g))

	_, err := svc.PlaceOrder(context.Background(), []core.LineItem{{Name: "Cursed", Price: 666}})
	assert.ErrorIs(t, err, core.ErrPaymentFailed)
	assert.ErrorIs(t, err, stripe.ErrCardDeclined)
}

func TestCharge_CanceledContext(t *testing.T) {
	_, srv := newFakeStripe(t)
	g := stripe.New(stripe.Config{Endpoint: srv.URL, APIKey: "sk_test"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, g.Charge(ctx, 1))
}
