package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientDirect(t *testing.T) {
	client, err := NewClient("")
	require.NoError(t, err)
	assert.Nil(t, client.Transport)
	assert.Equal(t, defaultTimeout, client.Timeout)
}

func TestNewClientSocks(t *testing.T) {
	client, err := NewClient("127.0.0.1:1080")
	require.NoError(t, err)
	assert.NotNil(t, client.Transport)
}
