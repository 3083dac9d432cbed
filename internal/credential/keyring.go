package credential

import (
	"context"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "foldersync"

// Source supplies bearer credentials for remote mailbox calls, keyed by
// user and provider. Refresh obtains a fresh credential after the
// current one is rejected; implementations that cannot refresh return
// an error so the caller can surface "please reconnect your account".
type Source interface {
	Token(ctx context.Context, user, provider string) (string, error)
	Refresh(ctx context.Context, user, provider string) (string, error)
}

// tokenKey is the keyring entry name for a (provider, user) pair.
func tokenKey(user, provider string) string {
	return provider + "/" + user
}

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/foldersync/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("foldersync-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a stored bearer token for a user and provider.
func Get(user, provider string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey(user, provider))
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", tokenKey(user, provider), err)
	}

	return string(item.Data), nil
}

// Set stores a bearer token for a user and provider.
func Set(user, provider, token string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  tokenKey(user, provider),
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", tokenKey(user, provider), err)
	}

	return nil
}

// Delete removes a stored bearer token for a user and provider.
func Delete(user, provider string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey(user, provider))
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", tokenKey(user, provider), err)
	}

	return nil
}

// KeyringSource is a Source backed by the system keyring. The external
// OAuth flow writes refreshed tokens into the keyring; Refresh here
// simply re-reads, picking up whatever the refresher wrote since the
// last read.
type KeyringSource struct{}

// Token reads the stored bearer token.
func (KeyringSource) Token(_ context.Context, user, provider string) (string, error) {
	return Get(user, provider)
}

// Refresh re-reads the keyring entry.
func (KeyringSource) Refresh(_ context.Context, user, provider string) (string, error) {
	return Get(user, provider)
}
