package sqliteslot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlot_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "shoplist.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())

	_, ok, err := s.Get("list")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put("list", []byte(`[{"id":"a"}]`)))
	require.NoError(t, s.Put("list", []byte(`[]`)))
	require.NoError(t, s.Put("other", []byte(`x`)))

	got, ok, err := s.Get("list")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(got))

	assert.Error(t, s.Put("", []byte(`x`)))
}

func TestSlot_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shoplist.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put("list", []byte(`[1]`)))
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	got, ok, err := s2.Get("list")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1]`, string(got))
}
