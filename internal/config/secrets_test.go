package config

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/grazer/internal/platform"
)

func TestKeyringStore_RoundTrip(t *testing.T) {
	store := NewKeyringStore(keyring.NewArrayKeyring(nil))

	require.NoError(t, store.Set("moltx", "mx-key"))
	require.NoError(t, store.Set("bottube", "bt-key"))

	got, err := store.Get("moltx")
	require.NoError(t, err)
	assert.Equal(t, "mx-key", got)

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"bottube", "moltx"}, keys)
}

func TestKeyringStore_NotFound(t *testing.T) {
	store := NewKeyringStore(keyring.NewArrayKeyring(nil))

	_, err := store.Get("clawsta")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestCredentials_KeyringFallback(t *testing.T) {
	store := NewKeyringStore(keyring.NewArrayKeyring([]keyring.Item{
		{Key: "moltbook", Data: []byte("from-keyring")},
		{Key: "bottube", Data: []byte("shadowed")},
	}))
	cfg := &Config{Platforms: map[string]PlatformConfig{
		"bottube": {APIKey: "from-file"},
	}}

	creds := cfg.Credentials(store)

	assert.Equal(t, "from-file", creds[platform.BoTTube], "file key wins over keyring")
	assert.Equal(t, "from-keyring", creds[platform.Moltbook])
	assert.NotContains(t, creds, platform.Clawsta)
}
