package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcspragu/SwitchingAnalyzer/switching"
)

func TestGetMissing(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	tbl, ok, err := s.Get(Key{Fingerprint: "abc", Patterns: 64, Seed: 1}, 4)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, tbl)
}

func TestPutGet(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	k := Key{Fingerprint: "abc", Patterns: 64, Seed: 1}
	want := switching.Table{0, 0.5, 0.5, 0.375}
	require.NoError(t, s.Put(k, want))

	got, ok, err := s.Get(k, len(want))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// every key field takes part
	for _, other := range []Key{
		{Fingerprint: "abd", Patterns: 64, Seed: 1},
		{Fingerprint: "abc", Patterns: 128, Seed: 1},
		{Fingerprint: "abc", Patterns: 64, Seed: 2},
	} {
		_, ok, err := s.Get(other, len(want))
		require.NoError(t, err)
		assert.False(t, ok, "%+v", other)
	}
}

func TestPersistentReopen(t *testing.T) {
	dir := t.TempDir()
	k := Key{Fingerprint: "f00d", Patterns: 32, Seed: 9}

	s, err := Open(Config{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, s.Put(k, switching.Table{0, 0.25}))
	require.NoError(t, s.Close())

	s, err = Open(Config{Path: dir})
	require.NoError(t, err)
	defer s.Close()
	got, ok, err := s.Get(k, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, switching.Table{0, 0.25}, got)
}

func TestGetWrongSizeIsMiss(t *testing.T) {
	s, err := OpenInMemory()
	require.NoError(t, err)
	defer s.Close()

	k := Key{Fingerprint: "abc", Patterns: 64, Seed: 1}
	require.NoError(t, s.Put(k, switching.Table{0, 0.5, 0.5}))

	tbl, ok, err := s.Get(k, 4)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, tbl)

	// a fresh table under the same key replaces the stale one
	require.NoError(t, s.Put(k, switching.Table{0, 0.5, 0.5, 0.375}))
	tbl, ok, err = s.Get(k, 4)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, switching.Table{0, 0.5, 0.5, 0.375}, tbl)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := decode([]byte{1, 2, 3})
	assert.Error(t, err)
}
