// Package azurekv provides a KeyProvider whose master secrets are unwrapped by Azure Key Vault.
//
// Each master secret was previously wrapped with the Key Vault WrapKey
// operation. Secrets are unwrapped once at construction time and sealed in
// memory by a cahc.StaticKeyProvider.
//
// Usage:
//
//	cred, err := azidentity.NewDefaultAzureCredential(nil)
//	client, err := azkeys.NewClient("https://my-vault.vault.azure.net/", cred, nil)
//
//	provider, err := azurekv.New(ctx, client,
//	    azurekv.WithWrappedKey(wrappedSecret, "key-1", "my-key-name", "key-version"),
//	)
package azurekv

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azkeys"
	cahc "github.com/rbaliyan/config-cahc"
)

// Client is the subset of the Azure Key Vault API used by this provider.
type Client interface {
	UnwrapKey(ctx context.Context, keyName string, keyVersion string, parameters azkeys.KeyOperationParameters, options *azkeys.UnwrapKeyOptions) (azkeys.UnwrapKeyResponse, error)
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	secrets []wrappedSecret
}

type wrappedSecret struct {
	ciphertext []byte
	id         string
	keyName    string
	keyVersion string
	algorithm  azkeys.EncryptionAlgorithm
}

// WithWrappedKey adds a wrapped master secret, unwrapped with RSA-OAEP-256.
// The keyName and keyVersion identify the Key Vault key used for wrapping.
// The first key added becomes the current key for new encryptions.
func WithWrappedKey(ciphertext []byte, id, keyName, keyVersion string) Option {
	return WithWrappedKeyAlgorithm(ciphertext, id, keyName, keyVersion, azkeys.EncryptionAlgorithmRSAOAEP256)
}

// WithWrappedKeyAlgorithm is like WithWrappedKey but sets the unwrap algorithm.
func WithWrappedKeyAlgorithm(ciphertext []byte, id, keyName, keyVersion string, alg azkeys.EncryptionAlgorithm) Option {
	return func(o *options) {
		o.secrets = append(o.secrets, wrappedSecret{
			ciphertext: ciphertext,
			id:         id,
			keyName:    keyName,
			keyVersion: keyVersion,
			algorithm:  alg,
		})
	}
}

// New creates a KeyProvider from Key Vault wrapped master secrets.
// The Key Vault client is not retained after construction.
func New(ctx context.Context, client Client, opts ...Option) (*cahc.StaticKeyProvider, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.secrets) == 0 {
		return nil, fmt.Errorf("azurekv: at least one wrapped key is required")
	}

	wrapped := make([]cahc.WrappedSecret, 0, len(o.secrets))
	for _, s := range o.secrets {
		wrapped = append(wrapped, cahc.WrappedSecret{
			ID: s.id,
			Unwrap: func(ctx context.Context) ([]byte, error) {
				resp, err := client.UnwrapKey(ctx, s.keyName, s.keyVersion, azkeys.KeyOperationParameters{
					Algorithm: &s.algorithm,
					Value:     s.ciphertext,
				}, nil)
				if err != nil {
					return nil, err
				}
				return resp.Result, nil
			},
		})
	}

	provider, err := cahc.UnwrapKeyProvider(ctx, wrapped...)
	if err != nil {
		return nil, fmt.Errorf("azurekv: %w", err)
	}
	return provider, nil
}
