package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKnownBackends(t *testing.T) {
	for _, backend := range Backends() {
		t.Run(backend, func(t *testing.T) {
			adapter, err := New(backend)
			require.NoError(t, err)
			assert.Equal(t, backend, adapter.Name())
		})
	}
}

func TestNewReturnsFreshInstances(t *testing.T) {
	first, err := New("sqlite")
	require.NoError(t, err)
	second, err := New("sqlite")
	require.NoError(t, err)
	assert.NotSame(t, first, second, "each run owns its own handle")
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New("cassandra")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cassandra")
}
