package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreBehavior(t *testing.T, s Store) {
	t.Helper()

	_, err := s.Get("shop", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put("shop", "products", []byte(`[]`)))
	got, err := s.Get("shop", "products")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	// buckets are isolated
	_, err = s.Get("quote", "products")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put("shop", "products", []byte(`[1]`)))
	got, err = s.Get("shop", "products")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), got)

	require.NoError(t, s.Delete("shop", "products"))
	_, err = s.Get("shop", "products")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting an absent key or bucket is not an error
	assert.NoError(t, s.Delete("shop", "products"))
	assert.NoError(t, s.Delete("never-seen", "key"))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	testStoreBehavior(t, s)
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := NewBoltStore(path)
	require.NoError(t, err)
	defer s.Close()
	testStoreBehavior(t, s)
}

func TestBoltStoreValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("shop", "products_version", []byte("2")))
	require.NoError(t, s.Close())

	reopened, err := NewBoltStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get("shop", "products_version")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put("b", "k", []byte("abc")))

	got, err := s.Get("b", "k")
	require.NoError(t, err)
	got[0] = 'x'

	again, err := s.Get("b", "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
