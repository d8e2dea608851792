package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/99designs/keyring"
)

const (
	// KeyringService is the OS keychain service name for stored API keys.
	KeyringService = "grazer"
	// KeyringPasswordEnv unlocks the encrypted-file backend on systems
	// without a native keychain.
	KeyringPasswordEnv = "GRAZER_KEYRING_PASSWORD"
)

// ErrSecretNotFound is returned when no key is stored for a platform.
var ErrSecretNotFound = errors.New("secret not found")

// SecretStore keeps platform API keys outside the config file.
type SecretStore interface {
	Get(platform string) (string, error)
	Set(platform, value string) error
	Remove(platform string) error
	Keys() ([]string, error)
}

// KeyringStore is a SecretStore backed by 99designs/keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

// OpenKeyring opens the OS keychain for the grazer service. When no native
// backend is available it falls back to an encrypted file store under dir.
func OpenKeyring(dir string) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      KeyringService,
		FileDir:          filepath.Join(dir, "keys"),
		FilePasswordFunc: keyring.FixedStringPrompt(os.Getenv(KeyringPasswordEnv)),
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return NewKeyringStore(ring), nil
}

// NewKeyringStore wraps an open keyring. Tests pass keyring.NewArrayKeyring.
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

func (k *KeyringStore) Get(platform string) (string, error) {
	item, err := k.ring.Get(platform)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("%s: %w", platform, ErrSecretNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("keyring get %s: %w", platform, err)
	}
	return string(item.Data), nil
}

func (k *KeyringStore) Set(platform, value string) error {
	err := k.ring.Set(keyring.Item{
		Key:         platform,
		Data:        []byte(value),
		Label:       "grazer " + platform + " API key",
		Description: "API key used by grazer",
	})
	if err != nil {
		return fmt.Errorf("keyring set %s: %w", platform, err)
	}
	return nil
}

func (k *KeyringStore) Remove(platform string) error {
	err := k.ring.Remove(platform)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("%s: %w", platform, ErrSecretNotFound)
	}
	if err != nil {
		return fmt.Errorf("keyring remove %s: %w", platform, err)
	}
	return nil
}

// Keys lists platforms with a stored key, sorted.
func (k *KeyringStore) Keys() ([]string, error) {
	keys, err := k.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("keyring list: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
