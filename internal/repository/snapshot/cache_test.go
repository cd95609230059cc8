package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCacheRoundTrip(t *testing.T) {
	cache := openTestCache(t)

	data, err := cache.Load("animals")
	require.NoError(t, err)
	assert.Nil(t, data, "missing entity loads as nil")

	require.NoError(t, cache.Save("animals", []byte(`[{"id":"a1"}]`)))

	data, err = cache.Load("animals")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"a1"}]`), data)
}

func TestCacheOverwrite(t *testing.T) {
	cache := openTestCache(t)

	require.NoError(t, cache.Save("invoices", []byte(`[]`)))
	require.NoError(t, cache.Save("invoices", []byte(`[{"id":"i1"}]`)))

	data, err := cache.Load("invoices")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":"i1"}]`), data)
}

func TestCacheEntitiesAreIsolated(t *testing.T) {
	cache := openTestCache(t)

	require.NoError(t, cache.Save("animals", []byte(`[1]`)))
	require.NoError(t, cache.Save("inventory", []byte(`[2]`)))

	animals, err := cache.Load("animals")
	require.NoError(t, err)
	inventory, err := cache.Load("inventory")
	require.NoError(t, err)

	assert.Equal(t, []byte(`[1]`), animals)
	assert.Equal(t, []byte(`[2]`), inventory)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
