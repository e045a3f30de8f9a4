package cahc

import (
	"context"
	"fmt"
)

// WrappedSecret is a master secret held encrypted by an external key
// service. Unwrap returns the plaintext secret; the returned slice is
// cleared once it has been sealed into the provider.
type WrappedSecret struct {
	ID     string
	Unwrap func(ctx context.Context) ([]byte, error)
}

// UnwrapKeyProvider unwraps every secret once and caches the results in a
// StaticKeyProvider. The first secret becomes the current key; the rest are
// kept for decrypting data written before a rotation.
func UnwrapKeyProvider(ctx context.Context, secrets ...WrappedSecret) (*StaticKeyProvider, error) {
	if len(secrets) == 0 {
		return nil, fmt.Errorf("%w: at least one wrapped secret is required", ErrNoKeys)
	}

	plain := make([][]byte, 0, len(secrets))
	defer func() {
		for _, b := range plain {
			clear(b)
		}
	}()

	for _, s := range secrets {
		if s.Unwrap == nil {
			return nil, fmt.Errorf("cahc: wrapped secret %q has no unwrap function", s.ID)
		}
		b, err := s.Unwrap(ctx)
		if err != nil {
			return nil, fmt.Errorf("cahc: failed to unwrap key %q: %w", s.ID, err)
		}
		plain = append(plain, b)
	}

	opts := make([]StaticOption, 0, len(secrets)-1)
	for i, s := range secrets[1:] {
		opts = append(opts, WithOldKey(plain[i+1], s.ID))
	}
	return NewStaticKeyProvider(plain[0], secrets[0].ID, opts...)
}
