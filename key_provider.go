package cahc

// Key is a named master secret.
type Key struct {
	// ID is a unique identifier for the key (e.g., "key-2024-01").
	ID string

	// Secret is the master secret. It must not be empty.
	Secret []byte
}

// KeyProvider abstracts master-key retrieval for encryption and decryption.
// Implementations must be safe for concurrent use.
//
// Envelopes carry no key identifier, so decryption tries Keys in order
// until one authenticates.
type KeyProvider interface {
	// CurrentKey returns the key to use for new encryptions.
	// The returned secret may be shared with the provider; callers must not modify it.
	CurrentKey() (Key, error)

	// Keys returns every key usable for decryption, current key first.
	// Returned secrets are copies; callers may clear them.
	Keys() ([]Key, error)
}
