// Package cahc implements a layered symmetric encryption envelope.
//
// A master secret and a random 32-byte salt are stretched with
// PBKDF2-HMAC-SHA512 into three independent 32-byte sub-keys. Plaintext is
// passed through an HMAC-SHA512 counter-mode keystream, then AES-256-CTR,
// and the result is authenticated with HMAC-SHA512 over salt, nonce and
// ciphertext. The envelope is
//
//	version(1) | iterations(4, big-endian) | salt(32) | nonce(12) | tag(64) | ciphertext
//
// encoded with standard base64. Decryption verifies the tag in constant
// time before either cipher layer is inverted.
//
// Codec adapts the construction to github.com/rbaliyan/config so stored
// configuration values are encrypted under keys from a KeyProvider.
package cahc
