package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetPut(t *testing.T) {
	m := NewMemory()

	_, ok, err := m.Get("list")
	require.NoError(t, err)
	assert.False(t, ok)

	buf := []byte(`[]`)
	require.NoError(t, m.Put("list", buf))
	buf[0] = 'x'

	got, ok, err := m.Get("list")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(got))
}

func TestMemory_PutErr(t *testing.T) {
	m := NewMemory()
	m.PutErr = errors.New("boom")
	assert.EqualError(t, m.Put("list", nil), "boom")
	assert.Error(t, NewMemory().Put("", nil))
}
