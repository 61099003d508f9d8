package storefake_test

import (
	"testing"

	"github.com/jrsteele09/b2bmarket-portal/internal/errors"
	"github.com/jrsteele09/b2bmarket-portal/storage"
	"github.com/jrsteele09/b2bmarket-portal/storage/storefake"
	"github.com/stretchr/testify/require"
)

func TestFakeStore(t *testing.T) {
	fs := storefake.NewFakeStore()

	_, err := fs.Get("k")
	require.ErrorIs(t, err, errors.ErrKeyNotFound)

	require.NoError(t, fs.Set("k", "v"))
	value, err := fs.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v", value)

	snap := fs.Snapshot()
	snap["k"] = "changed"
	value, _ = fs.Get("k")
	require.Equal(t, "v", value)

	fs.FailSet = map[string]bool{"k": true}
	require.Error(t, fs.Set("k", "other"))

	require.NoError(t, fs.Delete("k"))
	require.NoError(t, fs.Delete("k"))
	require.Empty(t, fs.Snapshot())
}

func TestPrefixedLookup(t *testing.T) {
	fs := storefake.NewFakeStore()
	s := storage.WithPrefix(fs, "b2bmarket_")

	_, found, err := storage.Lookup(s, storage.AccessTokenKey)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.Set(storage.AccessTokenKey, "A"))
	value, found, err := storage.Lookup(s, storage.AccessTokenKey)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "A", value)
	require.Equal(t, map[string]string{"b2bmarket_access_token": "A"}, fs.Snapshot())

	require.NoError(t, s.Set(storage.UserKey, ""))
	_, found, err = storage.Lookup(s, storage.UserKey)
	require.NoError(t, err)
	require.False(t, found)
}
