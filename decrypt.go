package cahc

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Decrypt decrypts a base64 envelope produced by Encrypt with the same key.
// The salt and iteration count are read from the envelope. The tag is
// verified before either cipher layer is inverted.
func Decrypt(ciphertext, key string, opts ...DecryptOption) ([]byte, error) {
	var o decryptOptions
	for _, opt := range opts {
		opt(&o)
	}

	e, err := parse(ciphertext)
	if err != nil {
		return nil, err
	}

	if o.hasSalt {
		want, err := hex.DecodeString(o.expectedSalt)
		if err != nil {
			return nil, fmt.Errorf("%w: expected salt is not valid hex", ErrInvalidParameter)
		}
		if !bytes.Equal(want, e.salt) {
			return nil, fmt.Errorf("%w: envelope salt does not match expected salt", ErrInvalidParameter)
		}
	}

	secret := []byte(key)
	defer clear(secret)
	return open(secret, e)
}

// decrypt tries each key from the provider in order. A wrong key fails tag
// verification, so no plaintext is produced until a key authenticates.
func decrypt(ciphertext string, provider KeyProvider) ([]byte, error) {
	e, err := parse(ciphertext)
	if err != nil {
		return nil, err
	}

	candidates, err := provider.Keys()
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoKeys
	}

	defer func() {
		for _, k := range candidates {
			clear(k.Secret)
		}
	}()

	for _, k := range candidates {
		plaintext, err := open(k.Secret, e)
		if err == nil {
			return plaintext, nil
		}
		if !IsAuthenticationFailed(err) {
			return nil, err
		}
	}
	return nil, ErrAuthenticationFailed
}

// open runs the decryption path on a parsed envelope.
func open(secret []byte, e *envelope) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrInvalidKey
	}
	if e.iterations < MinIterations || e.iterations > MaxIterations {
		return nil, fmt.Errorf("%w: envelope iterations %d out of range", ErrInvalidParameter, e.iterations)
	}

	k := deriveKeys(secret, e.salt, int(e.iterations))
	defer k.wipe()

	if !verifyTag(k.auth[:], e) {
		return nil, ErrAuthenticationFailed
	}

	plaintext := make([]byte, len(e.ciphertext))
	if err := blockXOR(plaintext, e.ciphertext, k.cipherB[:], e.nonce); err != nil {
		return nil, err
	}
	streamXOR(plaintext, plaintext, k.cipherA[:], e.nonce)
	return plaintext, nil
}

// Info describes an envelope without decrypting it.
type Info struct {
	Version        int `json:"version" yaml:"version"`
	Iterations     int `json:"iterations" yaml:"iterations"`
	SaltSize       int `json:"saltSize" yaml:"saltSize"`
	CiphertextSize int `json:"ciphertextSize" yaml:"ciphertextSize"`
}

// Inspect parses an envelope and reports its parameters. No key is needed.
func Inspect(ciphertext string) (Info, error) {
	e, err := parse(ciphertext)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Version:        int(e.version),
		Iterations:     int(e.iterations),
		SaltSize:       len(e.salt),
		CiphertextSize: len(e.ciphertext),
	}, nil
}
