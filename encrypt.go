package cahc

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// Result describes one encryption. It is not modified after Encrypt returns.
type Result struct {
	// Ciphertext is the base64-encoded envelope.
	Ciphertext string

	// Key is the master key used, either supplied or generated.
	Key string

	// Salt is the envelope salt, hex-encoded.
	Salt string

	// Iterations is the PBKDF2 iteration count after clamping.
	Iterations int

	// Timestamp is when the envelope was created.
	Timestamp time.Time
}

// Encrypt encrypts plaintext into a base64 envelope.
// All parameters are validated before any cryptographic work is done.
func Encrypt(plaintext []byte, opts ...EncryptOption) (*Result, error) {
	o := defaultEncryptOptions()
	for _, opt := range opts {
		opt(&o)
	}

	salt, iterations, err := o.resolve()
	if err != nil {
		return nil, err
	}

	key := o.masterKey
	if key == "" {
		generated, err := generateKey(o.rand, DefaultKeySize)
		if err != nil {
			return nil, err
		}
		key = generated
	}

	secret := []byte(key)
	defer clear(secret)

	text, salt, err := encrypt(plaintext, secret, salt, iterations, o.rand)
	if err != nil {
		return nil, err
	}

	return &Result{
		Ciphertext: text,
		Key:        key,
		Salt:       hex.EncodeToString(salt),
		Iterations: iterations,
		Timestamp:  o.now(),
	}, nil
}

// resolve validates the options and returns the custom salt (nil when a
// random one should be drawn) and the clamped iteration count.
func (o *encryptOptions) resolve() ([]byte, int, error) {
	if o.saltSize != SaltSize {
		return nil, 0, fmt.Errorf("%w: salt size must be %d, got %d", ErrInvalidParameter, SaltSize, o.saltSize)
	}

	var salt []byte
	if o.hasSalt {
		s, err := hex.DecodeString(o.customSalt)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: custom salt is not valid hex", ErrInvalidParameter)
		}
		if len(s) != SaltSize {
			return nil, 0, fmt.Errorf("%w: custom salt must be %d bytes, got %d", ErrInvalidParameter, SaltSize, len(s))
		}
		salt = s
	}

	return salt, clampIterations(o.iterations), nil
}

// encrypt seals plaintext under secret and returns the encoded envelope and
// the salt used. A nil salt is drawn from r, as is the nonce.
func encrypt(plaintext, secret, salt []byte, iterations int, r io.Reader) (string, []byte, error) {
	if salt == nil {
		salt = make([]byte, SaltSize)
		if _, err := io.ReadFull(r, salt); err != nil {
			return "", nil, fmt.Errorf("cahc: failed to generate salt: %w", err)
		}
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(r, nonce); err != nil {
		return "", nil, fmt.Errorf("cahc: failed to generate nonce: %w", err)
	}

	e, err := seal(secret, salt, nonce, iterations, plaintext)
	if err != nil {
		return "", nil, err
	}
	raw, err := e.marshal()
	if err != nil {
		return "", nil, err
	}
	return encodeText(raw), salt, nil
}

// seal runs the encryption path: derive keys, stream layer, block layer,
// then authenticate salt || nonce || ciphertext.
func seal(secret, salt, nonce []byte, iterations int, plaintext []byte) (*envelope, error) {
	if len(secret) == 0 {
		return nil, ErrInvalidKey
	}

	k := deriveKeys(secret, salt, iterations)
	defer k.wipe()

	ciphertext := make([]byte, len(plaintext))
	streamXOR(ciphertext, plaintext, k.cipherA[:], nonce)
	if err := blockXOR(ciphertext, ciphertext, k.cipherB[:], nonce); err != nil {
		return nil, err
	}

	return &envelope{
		version:    formatVersion,
		iterations: uint32(iterations),
		salt:       salt,
		nonce:      nonce,
		tag:        computeTag(k.auth[:], salt, nonce, ciphertext),
		ciphertext: ciphertext,
	}, nil
}

// GenerateSecureKey returns size random bytes as a lowercase hex string.
func GenerateSecureKey(size int) (string, error) {
	return generateKey(nil, size)
}

func generateKey(r io.Reader, size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("%w: key size must be positive, got %d", ErrInvalidParameter, size)
	}
	if r == nil {
		r = rand.Reader
	}
	b := make([]byte, size)
	defer clear(b)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("cahc: failed to generate key: %w", err)
	}
	return hex.EncodeToString(b), nil
}
