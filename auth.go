package cahc

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
)

// computeTag returns HMAC-SHA512(authKey, salt || nonce || ciphertext).
func computeTag(authKey, salt, nonce, ciphertext []byte) []byte {
	mac := hmac.New(sha512.New, authKey)
	mac.Write(salt)
	mac.Write(nonce)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

// verifyTag recomputes the tag for e and compares it with the stored one in
// constant time.
func verifyTag(authKey []byte, e *envelope) bool {
	return tagsEqual(computeTag(authKey, e.salt, e.nonce, e.ciphertext), e.tag)
}

// tagsEqual reports whether a and b are equal. The running time depends only
// on the lengths, never on where the inputs differ.
func tagsEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
