package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreGetSetRemove(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	_, err = store.Get("missing")
	require.Equal(t, ErrNotFound, err)

	require.NoError(t, store.Set("key", []byte("value")))
	value, err := store.Get("key")
	require.NoError(t, err)
	require.Equal(t, []byte("value"), value)

	require.NoError(t, store.Set("key", []byte("other")))
	value, err = store.Get("key")
	require.NoError(t, err)
	require.Equal(t, []byte("other"), value)

	require.NoError(t, store.Remove("key"))
	_, err = store.Get("key")
	require.Equal(t, ErrNotFound, err)

	// removing twice is fine
	require.NoError(t, store.Remove("key"))
}

func TestLevelDBStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewLevelDBStore(dir, "sessions")
	require.NoError(t, err)
	require.NoError(t, store.Set("key", []byte("value")))
	require.NoError(t, store.Close())

	store, err = NewLevelDBStore(dir, "sessions")
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	value, err := store.Get("key")
	require.NoError(t, err)
	require.Equal(t, []byte("value"), value)
}
