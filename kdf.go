package cahc

import (
	"crypto/sha512"

	"golang.org/x/crypto/pbkdf2"
)

// Iteration bounds applied at encryption time.
const (
	MinIterations     = 1000
	MaxIterations     = 100000
	DefaultIterations = MaxIterations
)

// derivedSize is the PBKDF2 output length: three 32-byte sub-keys.
const derivedSize = 3 * keySize

// keys holds the sub-keys derived for a single encrypt or decrypt call.
type keys struct {
	cipherA [keySize]byte // stream layer
	cipherB [keySize]byte // block layer
	auth    [keySize]byte // authenticator
}

// deriveKeys stretches secret and salt with PBKDF2-HMAC-SHA512 into 96 bytes
// and splits them into non-overlapping sub-keys.
func deriveKeys(secret, salt []byte, iterations int) *keys {
	material := pbkdf2.Key(secret, salt, iterations, derivedSize, sha512.New)
	defer clear(material)

	k := &keys{}
	copy(k.cipherA[:], material[0:keySize])
	copy(k.cipherB[:], material[keySize:2*keySize])
	copy(k.auth[:], material[2*keySize:derivedSize])
	return k
}

// wipe zeroes all sub-keys.
func (k *keys) wipe() {
	clear(k.cipherA[:])
	clear(k.cipherB[:])
	clear(k.auth[:])
}

// clampIterations bounds n to [MinIterations, MaxIterations]. Zero selects
// DefaultIterations.
func clampIterations(n int) int {
	switch {
	case n == 0:
		return DefaultIterations
	case n < MinIterations:
		return MinIterations
	case n > MaxIterations:
		return MaxIterations
	default:
		return n
	}
}
