// Package gcpkms provides a KeyProvider whose master secrets are unwrapped by Google Cloud KMS.
//
// Secrets are decrypted once at construction time with the CryptoKeys.Decrypt
// RPC and sealed in memory by a cahc.StaticKeyProvider.
//
// Usage:
//
//	client, err := kms.NewKeyManagementClient(ctx)
//	provider, err := gcpkms.New(ctx, client,
//	    gcpkms.WithEncryptedKey(ciphertext, "key-1", resourceName),
//	)
package gcpkms

import (
	"context"
	"fmt"

	kmspb "cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/googleapis/gax-go/v2"
	cahc "github.com/rbaliyan/config-cahc"
)

// Client is the subset of the Cloud KMS API used by this provider.
// *kms.KeyManagementClient satisfies it.
type Client interface {
	Decrypt(ctx context.Context, req *kmspb.DecryptRequest, opts ...gax.CallOption) (*kmspb.DecryptResponse, error)
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	secrets []encryptedSecret
}

type encryptedSecret struct {
	ciphertext   []byte
	id           string
	resourceName string // projects/*/locations/*/keyRings/*/cryptoKeys/*
	aad          []byte
}

// WithEncryptedKey adds a Cloud KMS encrypted master secret.
// The resourceName is the full CryptoKey resource name.
// The first key added becomes the current key for new encryptions.
func WithEncryptedKey(ciphertext []byte, id, resourceName string) Option {
	return WithEncryptedKeyAAD(ciphertext, id, resourceName, nil)
}

// WithEncryptedKeyAAD is like WithEncryptedKey for secrets encrypted with
// additional authenticated data.
func WithEncryptedKeyAAD(ciphertext []byte, id, resourceName string, aad []byte) Option {
	return func(o *options) {
		o.secrets = append(o.secrets, encryptedSecret{
			ciphertext:   ciphertext,
			id:           id,
			resourceName: resourceName,
			aad:          aad,
		})
	}
}

// New creates a KeyProvider from Cloud KMS encrypted master secrets.
// The KMS client is not retained after construction.
func New(ctx context.Context, client Client, opts ...Option) (*cahc.StaticKeyProvider, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.secrets) == 0 {
		return nil, fmt.Errorf("gcpkms: at least one encrypted key is required")
	}

	wrapped := make([]cahc.WrappedSecret, 0, len(o.secrets))
	for _, s := range o.secrets {
		wrapped = append(wrapped, cahc.WrappedSecret{
			ID: s.id,
			Unwrap: func(ctx context.Context) ([]byte, error) {
				resp, err := client.Decrypt(ctx, &kmspb.DecryptRequest{
					Name:                        s.resourceName,
					Ciphertext:                  s.ciphertext,
					AdditionalAuthenticatedData: s.aad,
				})
				if err != nil {
					return nil, err
				}
				return resp.Plaintext, nil
			},
		})
	}

	provider, err := cahc.UnwrapKeyProvider(ctx, wrapped...)
	if err != nil {
		return nil, fmt.Errorf("gcpkms: %w", err)
	}
	return provider, nil
}
