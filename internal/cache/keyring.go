package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStore stores artifacts in the OS-native credential store.
// Uses macOS Keychain, Windows Credential Manager, or Linux Secret Service.
// Each artifact name maps to one keyring entry holding the JSON document.
type KeyringStore struct {
	service string
	user    string
}

// Compile-time check to ensure KeyringStore implements Store
var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore using the given service and user
// identifiers.
func NewKeyringStore(service, user string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}

	return &KeyringStore{
		service: service,
		user:    user,
	}, nil
}

func (k *KeyringStore) entry(name string) string {
	return k.user + "/" + name
}

// Load reads and deserializes the named artifact from the keyring.
// A missing entry yields (false, nil).
func (k *KeyringStore) Load(ctx context.Context, name string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	data, err := keyring.Get(k.service, k.entry(name))
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading keyring entry %s: %w", name, err)
	}

	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("parsing keyring entry %s: %w", name, err)
	}
	return true, nil
}

// Save serializes v into the named keyring entry, overwriting any existing value.
func (k *KeyringStore) Save(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializing keyring entry %s: %w", name, err)
	}
	if err := keyring.Set(k.service, k.entry(name), string(data)); err != nil {
		return fmt.Errorf("writing keyring entry %s: %w", name, err)
	}
	return nil
}

// Delete removes the named keyring entry. Repeatable without error.
func (k *KeyringStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := keyring.Delete(k.service, k.entry(name))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting keyring entry %s: %w", name, err)
	}
	return nil
}
