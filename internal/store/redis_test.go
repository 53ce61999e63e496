package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/risk-catalog/internal/store"
)

func newRedisStore(t *testing.T) store.DocumentStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.NewRedisStore(client)
}

func TestRedisStoreInsertAndFind(t *testing.T) {
	docs := newRedisStore(t)
	ctx := context.Background()

	storageID, err := docs.Insert(ctx, "assets", store.Document{"id": "srv-1", "name": "app server"})
	require.NoError(t, err)
	require.NotEmpty(t, storageID)
	// The storage key is generated and never equals the logical id.
	assert.NotEqual(t, "srv-1", storageID)

	doc, err := docs.FindByID(ctx, "assets", "srv-1")
	require.NoError(t, err)
	assert.Equal(t, "app server", doc["name"])

	_, err = docs.FindByID(ctx, "assets", "srv-2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRedisStoreInsertDuplicateLogicalID(t *testing.T) {
	docs := newRedisStore(t)
	ctx := context.Background()

	_, err := docs.Insert(ctx, "assets", store.Document{"id": "srv-1", "name": "first"})
	require.NoError(t, err)

	_, err = docs.Insert(ctx, "assets", store.Document{"id": "srv-1", "name": "second"})
	assert.ErrorIs(t, err, store.ErrDuplicateID)

	// The rejected insert must leave no orphan behind.
	list, err := docs.List(ctx, "assets")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "first", list[0]["name"])

	existed, err := docs.Delete(ctx, "assets", "srv-1")
	require.NoError(t, err)
	assert.True(t, existed)

	list, err = docs.List(ctx, "assets")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRedisStoreUpdateMergesPatch(t *testing.T) {
	docs := newRedisStore(t)
	ctx := context.Background()

	_, err := docs.Insert(ctx, "threats", store.Document{"id": "t-1", "name": "fire", "severity": "high"})
	require.NoError(t, err)

	changed, err := docs.Update(ctx, "threats", "t-1", store.Document{"severity": "low"})
	require.NoError(t, err)
	assert.True(t, changed)

	doc, err := docs.FindByID(ctx, "threats", "t-1")
	require.NoError(t, err)
	assert.Equal(t, "fire", doc["name"])
	assert.Equal(t, "low", doc["severity"])

	changed, err = docs.Update(ctx, "threats", "missing", store.Document{"severity": "low"})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestRedisStoreUpdateReindexesLogicalID(t *testing.T) {
	docs := newRedisStore(t)
	ctx := context.Background()

	_, err := docs.Insert(ctx, "safeguards", store.Document{"id": "s-1", "name": "backup"})
	require.NoError(t, err)

	changed, err := docs.Update(ctx, "safeguards", "s-1", store.Document{"id": "s-2"})
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = docs.FindByID(ctx, "safeguards", "s-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	doc, err := docs.FindByID(ctx, "safeguards", "s-2")
	require.NoError(t, err)
	assert.Equal(t, "backup", doc["name"])

	// Renaming onto an id another document holds is rejected.
	_, err = docs.Insert(ctx, "safeguards", store.Document{"id": "s-3", "name": "monitoring"})
	require.NoError(t, err)
	_, err = docs.Update(ctx, "safeguards", "s-2", store.Document{"id": "s-3"})
	assert.ErrorIs(t, err, store.ErrDuplicateID)
}

func TestRedisStoreDelete(t *testing.T) {
	docs := newRedisStore(t)
	ctx := context.Background()

	_, err := docs.Insert(ctx, "relations", store.Document{"id": "r-1", "asset": "srv-1", "threat": "t-1"})
	require.NoError(t, err)

	existed, err := docs.Delete(ctx, "relations", "r-1")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = docs.Delete(ctx, "relations", "r-1")
	require.NoError(t, err)
	assert.False(t, existed)

	list, err := docs.List(ctx, "relations")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRedisStoreListIsolatesCollections(t *testing.T) {
	docs := newRedisStore(t)
	ctx := context.Background()

	_, err := docs.Insert(ctx, "assets", store.Document{"id": "srv-1"})
	require.NoError(t, err)
	_, err = docs.Insert(ctx, "threats", store.Document{"id": "t-1"})
	require.NoError(t, err)

	assets, err := docs.List(ctx, "assets")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "srv-1", assets[0].LogicalID())
}
