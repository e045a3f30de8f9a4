package cahc

import (
	"crypto/rand"
	"io"
	"time"
)

// DefaultKeySize is the number of random bytes in a generated master key.
const DefaultKeySize = 32

// EncryptOption configures a single Encrypt call.
type EncryptOption func(*encryptOptions)

type encryptOptions struct {
	masterKey  string
	iterations int
	saltSize   int
	customSalt string
	hasSalt    bool
	rand       io.Reader
	now        func() time.Time
}

func defaultEncryptOptions() encryptOptions {
	return encryptOptions{
		iterations: DefaultIterations,
		saltSize:   SaltSize,
		rand:       rand.Reader,
		now:        time.Now,
	}
}

// WithMasterKey sets the master key. Its UTF-8 bytes are the master secret.
// When unset or empty, a fresh key is generated and returned in Result.Key.
func WithMasterKey(key string) EncryptOption {
	return func(o *encryptOptions) {
		o.masterKey = key
	}
}

// WithIterations sets the PBKDF2 iteration count. Values outside
// [MinIterations, MaxIterations] are clamped; zero selects DefaultIterations.
func WithIterations(n int) EncryptOption {
	return func(o *encryptOptions) {
		o.iterations = n
	}
}

// WithSaltSize sets the size of a generated salt. The envelope carries a
// fixed-width salt, so any value other than SaltSize is rejected.
func WithSaltSize(n int) EncryptOption {
	return func(o *encryptOptions) {
		o.saltSize = n
	}
}

// WithCustomSalt uses a caller-supplied hex-encoded salt instead of a random one.
func WithCustomSalt(hexSalt string) EncryptOption {
	return func(o *encryptOptions) {
		o.customSalt = hexSalt
		o.hasSalt = true
	}
}

// WithRandom sets the source for salts, nonces and generated keys.
// It must be safe for concurrent use if shared between goroutines.
func WithRandom(r io.Reader) EncryptOption {
	return func(o *encryptOptions) {
		if r != nil {
			o.rand = r
		}
	}
}

// WithClock sets the time source for Result.Timestamp.
func WithClock(now func() time.Time) EncryptOption {
	return func(o *encryptOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// DecryptOption configures a single Decrypt call.
type DecryptOption func(*decryptOptions)

type decryptOptions struct {
	expectedSalt string
	hasSalt      bool
}

// WithExpectedSalt requires the envelope salt to equal the given hex value.
func WithExpectedSalt(hexSalt string) DecryptOption {
	return func(o *decryptOptions) {
		o.expectedSalt = hexSalt
		o.hasSalt = true
	}
}
