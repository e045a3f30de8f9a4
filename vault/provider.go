// Package vault provides a KeyProvider whose master secrets are unwrapped by
// the HashiCorp Vault Transit secrets engine.
//
// Each master secret was previously encrypted with the Transit encrypt
// endpoint. Secrets are decrypted once at construction time and sealed in
// memory by a cahc.StaticKeyProvider.
//
// Usage:
//
//	provider, err := vault.New(ctx, client,
//	    vault.WithEncryptedKey("vault:v1:base64data", "key-1", "my-transit-key"),
//	)
package vault

import (
	"context"
	"fmt"
	"strings"

	cahc "github.com/rbaliyan/config-cahc"
)

// transitPrefix starts every Transit ciphertext ("vault:v<version>:<data>").
const transitPrefix = "vault:v"

// Client abstracts the Vault Transit decrypt operation.
// This allows injecting a mock for testing or wrapping any Vault client library.
type Client interface {
	// TransitDecrypt decrypts ciphertext using the named Transit key.
	// Returns the plaintext bytes.
	TransitDecrypt(ctx context.Context, keyName string, ciphertext string) ([]byte, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, keyName string, ciphertext string) ([]byte, error)

// TransitDecrypt calls f.
func (f ClientFunc) TransitDecrypt(ctx context.Context, keyName string, ciphertext string) ([]byte, error) {
	return f(ctx, keyName, ciphertext)
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	secrets []encryptedSecret
}

type encryptedSecret struct {
	ciphertext     string
	id             string
	transitKeyName string
}

// WithEncryptedKey adds a Transit-encrypted master secret.
// The ciphertext must be in Vault's format (e.g., "vault:v1:base64data").
// The first key added becomes the current key for new encryptions.
func WithEncryptedKey(ciphertext string, id, transitKeyName string) Option {
	return func(o *options) {
		o.secrets = append(o.secrets, encryptedSecret{
			ciphertext:     ciphertext,
			id:             id,
			transitKeyName: transitKeyName,
		})
	}
}

// New creates a KeyProvider from Transit-encrypted master secrets.
// The Vault client is not retained after construction.
func New(ctx context.Context, client Client, opts ...Option) (*cahc.StaticKeyProvider, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.secrets) == 0 {
		return nil, fmt.Errorf("vault: at least one encrypted key is required")
	}

	wrapped := make([]cahc.WrappedSecret, 0, len(o.secrets))
	for _, s := range o.secrets {
		if !strings.HasPrefix(s.ciphertext, transitPrefix) {
			return nil, fmt.Errorf("vault: key %q is not a Transit ciphertext", s.id)
		}
		wrapped = append(wrapped, cahc.WrappedSecret{
			ID: s.id,
			Unwrap: func(ctx context.Context) ([]byte, error) {
				return client.TransitDecrypt(ctx, s.transitKeyName, s.ciphertext)
			},
		})
	}

	provider, err := cahc.UnwrapKeyProvider(ctx, wrapped...)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}
	return provider, nil
}
