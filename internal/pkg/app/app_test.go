package app

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"zapata/internal/app/infrastructure/config"
)

func TestNewHTTPClient(t *testing.T) {
	client, err := newHTTPClient(nil)
	require.NoError(t, err)
	assert.Equal(t, http.DefaultTransport, client.Transport)
	assert.Zero(t, client.Timeout, "long poll sets its own deadline")

	client, err = newHTTPClient(&config.Proxy{Address: "127.0.0.1", Port: 1080})
	require.NoError(t, err)

	tr, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, tr.DialContext)
}

func TestNew_FirstStartWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	err := New(path)
	assert.ErrorIs(t, err, config.ErrCreated)
	assert.Contains(t, err.Error(), "telegram.token")

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
