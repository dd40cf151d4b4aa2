package boltstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hexa/pkg/adapters/boltstore"
	"github.com/aretw0/hexa/pkg/core"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "orders.db")

	repo, err := boltstore.Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(ctx))

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	for _, id := range []core.OrderID{300, 2, 1} {
		require.NoError(t, repo.Save(ctx, core.Order{ID: id, Items: []core.LineItem{{Name: "Pen", Price: 1}}, Total: 1}))
	}

	orders, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, core.OrderID(1), orders[0].ID)
	assert.Equal(t, core.OrderID(300), orders[2].ID, "big-endian keys keep numeric order")

	got, err := repo.Find(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Pen", got.Items[0].Name)

	id, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.OrderID(301), id)

	require.NoError(t, repo.Delete(ctx, 300))
	assert.ErrorIs(t, repo.Delete(ctx, 300), core.ErrNotFound)
	_, err = repo.Find(ctx, 300)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// The sequence does not reuse IDs after deletions or restarts.
	require.NoError(t, repo.Close())
	repo, err = boltstore.Open(path)
	require.NoError(t, err)
	defer repo.Close()

	id, err = repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.OrderID(302), id)
}
