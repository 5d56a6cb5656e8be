package google

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFilePerAccount(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")

	tests := []struct {
		name    string
		account string
		want    string
	}{
		{name: "default account", account: "default", want: "/tmp/cache/inboxpilot/google.token"},
		{name: "empty falls back to default", account: "", want: "/tmp/cache/inboxpilot/google.token"},
		{name: "named account", account: "work", want: "/tmp/cache/inboxpilot/google-work.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenFile(tt.account))
		})
	}
}

func TestHasTokenForAccount(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cache)

	assert.False(t, HasTokenForAccount("default"))

	dir := filepath.Join(cache, "inboxpilot")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "google.token"), []byte("access refresh"), 0600))

	assert.True(t, HasTokenForAccount("default"))
	assert.False(t, HasTokenForAccount("work"))
}
