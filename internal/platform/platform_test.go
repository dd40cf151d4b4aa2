package platform_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hexa/internal/platform"
	"github.com/aretw0/hexa/pkg/adapters/fs"
	"github.com/aretw0/hexa/pkg/adapters/memory"
	"github.com/aretw0/hexa/pkg/core"
)

var items = []core.LineItem{{Name: "Rust Book", Price: 4999}, {Name: "Keyboard", Price: 12999}}

func TestNew_Adapters(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		adapter  string
		uri      func(t *testing.T) string
		wantType string
	}{
		{platform.AdapterMemory, func(*testing.T) string { return "" }, "memory-repository"},
		{platform.AdapterFS, func(t *testing.T) string { return t.TempDir() }, "fs-repository"},
		{platform.AdapterSQLite, func(t *testing.T) string { return filepath.Join(t.TempDir(), "shop.db") }, "sqlite-repository"},
		{platform.AdapterBolt, func(t *testing.T) string { return t.TempDir() }, "bolt-repository"},
		{platform.AdapterBadger, func(*testing.T) string { return "" }, "badger-repository"},
		{platform.AdapterRedis, func(*testing.T) string { return mr.Addr() }, "redis-repository"},
	}

	for _, tt := range tests {
		t.Run(tt.adapter, func(t *testing.T) {
			ctx := context.Background()
			var out bytes.Buffer

			inst, err := platform.New(ctx, tt.uri(t),
				platform.WithAdapter(tt.adapter),
				platform.WithOutput(&out),
			)
			require.NoError(t, err)
			t.Cleanup(func() { assert.NoError(t, inst.Close()) })

			order, err := inst.Service.PlaceOrder(ctx, items)
			require.NoError(t, err)
			assert.Equal(t, core.OrderID(1), order.ID)

			got, err := inst.Service.GetOrder(ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, order, got)

			assert.Contains(t, out.String(), "[MockPayment] Charging $179.98")
			assert.Contains(t, out.String(), "[Console] Order #1 confirmed! Total: $179.98")

			state := inst.Service.State().(core.ServiceState)
			assert.Equal(t, tt.wantType, state.RepositoryType)
		})
	}
}

func TestNew_UnknownNames(t *testing.T) {
	ctx := context.Background()

	_, err := platform.New(ctx, "", platform.WithAdapter("cassandra"))
	assert.ErrorContains(t, err, "unknown adapter")

	_, err = platform.New(ctx, "", platform.WithAdapter(platform.AdapterMemory), platform.WithPaymentProvider("paypal"))
	assert.ErrorContains(t, err, "unknown payment provider")

	_, err = platform.New(ctx, "", platform.WithAdapter(platform.AdapterMemory), platform.WithNotifierProvider("pigeon"))
	assert.ErrorContains(t, err, "unknown notifier")
}

func TestNew_Injection(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository(nil)
	notifier := memory.NewInMemoryNotifier()

	inst, err := platform.New(ctx, "",
		platform.WithRepository(repo),
		platform.WithPaymentProvider(platform.ProviderNone),
		platform.WithNotifier(notifier),
	)
	require.NoError(t, err)

	_, err = inst.Service.ProcessOrder(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"Order #1 stored, total = 42"}, notifier.Messages())
	assert.Nil(t, inst.Payment)

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestInit_FSReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := platform.Init(ctx, dir, platform.WithAdapter(platform.AdapterFS))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, core.Order{ID: 1, Total: 5}))

	ro, err := platform.Init(ctx, dir, platform.WithAdapter(platform.AdapterFS), platform.WithReadOnly(true))
	require.NoError(t, err)
	assert.ErrorIs(t, ro.Save(ctx, core.Order{ID: 2, Total: 5}), core.ErrReadOnly)

	fsRepo, ok := ro.(*fs.Repository)
	require.True(t, ok)
	assert.Equal(t, dir, fsRepo.Path)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HEXA_TEST_STRIPE_KEY", "sk_test_123")

	doc := `adapter: sqlite
path: data/shop.db
event_buffer: 10
payment:
  provider: stripe
  stripe:
    endpoint: http://127.0.0.1:12111
    api_key: ${HEXA_TEST_STRIPE_KEY}
notifier:
  provider: log
http:
  addr: ":9090"
  request_limit: 60
  window: 1m
`
	path := filepath.Join(dir, platform.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := platform.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Adapter)
	assert.Equal(t, filepath.Join(dir, "data", "shop.db"), cfg.Path)
	assert.Equal(t, "sk_test_123", cfg.Payment.Stripe.APIKey)
	assert.Equal(t, "log", cfg.Notifier.Provider)
	assert.Equal(t, 60, cfg.HTTP.RequestLimit)
	assert.Equal(t, "1m0s", cfg.HTTP.Window.String())

	inst, err := platform.New(context.Background(), "", platform.WithConfig(cfg))
	require.NoError(t, err)
	defer inst.Close()

	state := inst.Service.State().(core.ServiceState)
	assert.Equal(t, "sqlite-repository", state.RepositoryType)
	assert.Equal(t, 10, state.EventBufferSize)
	assert.True(t, state.HasPayment)

	_, err = os.Stat(filepath.Join(dir, "data", "shop.db"))
	assert.NoError(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), platform.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("adapter: [unclosed"), 0644))

	_, err := platform.LoadConfig(path)
	assert.Error(t, err)

	_, err = platform.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
