package sqlstore_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hexa/pkg/adapters/sqlstore"
	"github.com/aretw0/hexa/pkg/core"
)

func openSQLite(t *testing.T) *sqlstore.Repository {
	t.Helper()
	db, err := sqlstore.OpenSQLite(filepath.Join(t.TempDir(), "orders.sqlite"))
	require.NoError(t, err)

	repo := sqlstore.NewRepository(db, sqlstore.SQLite, nil)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Initialize(context.Background()))
	return repo
}

func openPostgres(t *testing.T) *sqlstore.Repository {
	t.Helper()
	dsn := os.Getenv("HEXA_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HEXA_POSTGRES_DSN not set")
	}
	db, err := sqlstore.OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)

	repo := sqlstore.NewRepository(db, sqlstore.Postgres, nil)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Initialize(context.Background()))
	for _, stmt := range []string{"DELETE FROM order_items", "DELETE FROM orders", "UPDATE order_sequence SET value = 0"} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return repo
}

func TestRepository(t *testing.T) {
	for name, open := range map[string]func(*testing.T) *sqlstore.Repository{
		"sqlite":   openSQLite,
		"postgres": openPostgres,
	} {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			order, err := core.NewOrder(1, []core.LineItem{{Name: "Rust Book", Price: 4999}, {Name: "Keyboard", Price: 12999}})
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, order))
			require.NoError(t, repo.Save(ctx, core.Order{ID: 2, Total: 42}))

			got, err := repo.Find(ctx, 1)
			require.NoError(t, err)
			if diff := cmp.Diff(order, got); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}

			// Saving again replaces items instead of appending.
			order.Items = order.Items[:1]
			order.Total = 4999
			require.NoError(t, repo.Save(ctx, order))
			got, err = repo.Find(ctx, 1)
			require.NoError(t, err)
			assert.Len(t, got.Items, 1)
			assert.Equal(t, core.Money(4999), got.Total)

			list, err := repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, core.OrderID(2), list[1].ID)
			assert.Empty(t, list[1].Items)

			id, err := repo.NextID(ctx)
			require.NoError(t, err)
			assert.Equal(t, core.OrderID(3), id)
			id, err = repo.NextID(ctx)
			require.NoError(t, err)
			assert.Equal(t, core.OrderID(4), id)

			require.NoError(t, repo.Delete(ctx, 1))
			_, err = repo.Find(ctx, 1)
			assert.ErrorIs(t, err, core.ErrNotFound)
			assert.ErrorIs(t, repo.Delete(ctx, 1), core.ErrNotFound)
		})
	}
}

func TestNextID_Concurrent(t *testing.T) {
	for name, open := range map[string]func(*testing.T) *sqlstore.Repository{
		"sqlite":   openSQLite,
		"postgres": openPostgres,
	} {
		t.Run(name, func(t *testing.T) {
			repo := open(t)
			ctx := context.Background()

			const workers = 8
			ids := make(chan core.OrderID, workers)
			var wg sync.WaitGroup
			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					id, err := repo.NextID(ctx)
					assert.NoError(t, err)
					ids <- id
				}()
			}
			wg.Wait()
			close(ids)

			seen := make(map[core.OrderID]bool)
			for id := range ids {
				assert.False(t, seen[id], "id %s handed out twice", id)
				seen[id] = true
			}
			assert.Len(t, seen, workers)
			for id := core.OrderID(1); id <= workers; id++ {
				assert.True(t, seen[id], "missing id %s", id)
			}
		})
	}
}

func TestInitialize_KeepsSequence(t *testing.T) {
	repo := openSQLite(t)
	ctx := context.Background()

	_, err := repo.NextID(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(ctx))

	id, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.OrderID(2), id)
}

func TestServiceOverSQLite(t *testing.T) {
	repo := openSQLite(t)
	svc := core.NewService(core.WithRepository(repo))
	ctx := context.Background()

	placed, err := svc.PlaceOrder(ctx, []core.LineItem{{Name: "Pen", Price: 150}})
	require.NoError(t, err)
	assert.Equal(t, core.OrderID(1), placed.ID)

	got, err := svc.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed, got)
	assert.Equal(t, "sqlite-repository", repo.ComponentType())
}
