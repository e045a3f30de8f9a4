// Package awskms provides a KeyProvider whose master secrets are unwrapped by AWS KMS.
//
// Secrets are decrypted once at construction time and sealed in memory by a
// cahc.StaticKeyProvider. Each secret is the output of KMS Encrypt or
// GenerateDataKey over the raw master secret.
//
// Usage:
//
//	cfg, err := awsconfig.LoadDefaultConfig(ctx)
//	kmsClient := kms.NewFromConfig(cfg)
//
//	provider, err := awskms.New(ctx, kmsClient,
//	    awskms.WithEncryptedKey(encryptedSecret, "key-1"),
//	)
package awskms

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/kms"
	cahc "github.com/rbaliyan/config-cahc"
)

// Client is the subset of the AWS KMS API used by this provider.
type Client interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	secrets []encryptedSecret
}

type encryptedSecret struct {
	ciphertext []byte
	id         string
	kmsKeyID   string // KMS key ARN or alias; empty = let KMS determine
}

// WithEncryptedKey adds a KMS-encrypted master secret.
// The first key added becomes the current key for new encryptions.
func WithEncryptedKey(ciphertext []byte, id string) Option {
	return WithEncryptedKeyForKMSKey(ciphertext, id, "")
}

// WithEncryptedKeyForKMSKey is like WithEncryptedKey but pins the KMS key
// ARN or alias used for decryption.
func WithEncryptedKeyForKMSKey(ciphertext []byte, id, kmsKeyID string) Option {
	return func(o *options) {
		o.secrets = append(o.secrets, encryptedSecret{
			ciphertext: ciphertext,
			id:         id,
			kmsKeyID:   kmsKeyID,
		})
	}
}

// New creates a KeyProvider from KMS-encrypted master secrets.
// The KMS client is not retained after construction.
func New(ctx context.Context, client Client, opts ...Option) (*cahc.StaticKeyProvider, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.secrets) == 0 {
		return nil, fmt.Errorf("awskms: at least one encrypted key is required")
	}

	wrapped := make([]cahc.WrappedSecret, 0, len(o.secrets))
	for _, s := range o.secrets {
		wrapped = append(wrapped, cahc.WrappedSecret{
			ID: s.id,
			Unwrap: func(ctx context.Context) ([]byte, error) {
				input := &kms.DecryptInput{CiphertextBlob: s.ciphertext}
				if s.kmsKeyID != "" {
					input.KeyId = &s.kmsKeyID
				}
				out, err := client.Decrypt(ctx, input)
				if err != nil {
					return nil, err
				}
				return out.Plaintext, nil
			},
		})
	}

	provider, err := cahc.UnwrapKeyProvider(ctx, wrapped...)
	if err != nil {
		return nil, fmt.Errorf("awskms: %w", err)
	}
	return provider, nil
}
