package cahc

import (
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
)

// StaticKeyProvider is a KeyProvider backed by in-memory keys. Secrets are
// held in memguard enclaves, encrypted while at rest in memory.
// It is safe for concurrent use.
type StaticKeyProvider struct {
	mu       sync.RWMutex
	order    []string // current first, then old keys in the order added
	enclaves map[string]*memguard.Enclave
	err      error // deferred validation error from options
	gone     bool
}

// StaticOption configures a StaticKeyProvider.
type StaticOption func(*StaticKeyProvider)

// WithOldKey adds a previous key for decryption during key rotation.
// The secret must not be empty and id must be unique and not empty.
func WithOldKey(secret []byte, id string) StaticOption {
	return func(p *StaticKeyProvider) {
		if p.err != nil {
			return
		}
		if err := p.add(secret, id); err != nil {
			p.err = fmt.Errorf("old key %q: %w", id, err)
		}
	}
}

// NewStaticKeyProvider creates a KeyProvider with the given current key.
// Old keys can be added with WithOldKey for rotation support.
// Secrets are copied internally; the caller may safely zero the original after construction.
func NewStaticKeyProvider(secret []byte, id string, opts ...StaticOption) (*StaticKeyProvider, error) {
	p := &StaticKeyProvider{
		enclaves: make(map[string]*memguard.Enclave),
	}
	if err := p.add(secret, id); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.err != nil {
		return nil, p.err
	}

	return p, nil
}

func (p *StaticKeyProvider) add(secret []byte, id string) error {
	if len(secret) == 0 {
		return ErrInvalidKey
	}
	if id == "" {
		return fmt.Errorf("%w: key ID must not be empty", ErrInvalidKeyID)
	}
	if _, ok := p.enclaves[id]; ok {
		return fmt.Errorf("%w: duplicate key ID %q", ErrInvalidKeyID, id)
	}

	// NewEnclave wipes its argument, so seal a copy.
	b := make([]byte, len(secret))
	copy(b, secret)
	p.enclaves[id] = memguard.NewEnclave(b)
	p.order = append(p.order, id)
	return nil
}

// CurrentKey returns the current key for new encryptions.
func (p *StaticKeyProvider) CurrentKey() (Key, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.gone {
		return Key{}, ErrProviderDestroyed
	}
	return p.open(p.order[0])
}

// Keys returns all keys, current first.
func (p *StaticKeyProvider) Keys() ([]Key, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.gone {
		return nil, ErrProviderDestroyed
	}

	out := make([]Key, 0, len(p.order))
	for _, id := range p.order {
		k, err := p.open(id)
		if err != nil {
			for _, prev := range out {
				clear(prev.Secret)
			}
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// IDs returns the key IDs, current first.
func (p *StaticKeyProvider) IDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.order...)
}

// Destroy releases every sealed secret. Later calls to CurrentKey and Keys
// return ErrProviderDestroyed. Destroy is idempotent. It does not purge
// memguard's process-wide session key; call memguard.Purge at shutdown.
func (p *StaticKeyProvider) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.enclaves)
	p.order = nil
	p.gone = true
}

func (p *StaticKeyProvider) open(id string) (Key, error) {
	buf, err := p.enclaves[id].Open()
	if err != nil {
		return Key{}, fmt.Errorf("cahc: failed to open key %q: %w", id, err)
	}
	defer buf.Destroy()

	secret := make([]byte, buf.Size())
	copy(secret, buf.Bytes())
	return Key{ID: id, Secret: secret}, nil
}

// Compile-time interface check.
var _ KeyProvider = (*StaticKeyProvider)(nil)
