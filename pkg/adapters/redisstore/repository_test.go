package redisstore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hexa/pkg/adapters/redisstore"
	"github.com/aretw0/hexa/pkg/core"
)

func setup(t *testing.T) (*miniredis.Miniredis, *redisstore.Repository) {
	t.Helper()
	mr := miniredis.RunT(t)

	repo, err := redisstore.New(context.Background(), redisstore.Config{Addr: mr.Addr(), KeyPrefix: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return mr, repo
}

func TestRepository(t *testing.T) {
	mr, repo := setup(t)
	ctx := context.Background()
	require.NoError(t, repo.Initialize(ctx))

	id, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.OrderID(1), id)

	require.NoError(t, repo.Save(ctx, core.Order{ID: 1, Total: 4999}))
	require.NoError(t, repo.Save(ctx, core.Order{ID: 10, Items: []core.LineItem{{Name: "Lamp", Price: 2500}}, Total: 2500}))
	assert.True(t, mr.Exists("test:orders"))

	got, err := repo.Find(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Items[0].Name)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, core.OrderID(1), list[0].ID)

	id, err = repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.OrderID(11), id, "sequence follows explicitly saved ids")

	require.NoError(t, repo.Delete(ctx, 1))
	assert.ErrorIs(t, repo.Delete(ctx, 1), core.ErrNotFound)
	_, err = repo.Find(ctx, 1)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestNew_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := redisstore.New(context.Background(), redisstore.Config{Addr: addr})
	assert.Error(t, err)
}
