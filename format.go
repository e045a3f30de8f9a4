package cahc

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// Binary format constants.
const (
	// formatVersion is the only supported envelope version.
	formatVersion = 0x01

	// SaltSize is the salt length carried in every envelope.
	SaltSize = 32

	// NonceSize is the per-encryption nonce length, shared by both cipher layers.
	NonceSize = 12

	// TagSize is the HMAC-SHA512 authentication tag length.
	TagSize = 64

	// keySize is the length of each derived sub-key.
	keySize = 32

	versionSize    = 1
	iterationsSize = 4

	// HeaderSize is the fixed envelope prefix: version(1) + iterations(4) +
	// salt(32) + nonce(12) + tag(64).
	HeaderSize = versionSize + iterationsSize + SaltSize + NonceSize + TagSize
)

// Field offsets within the binary envelope.
const (
	offIterations = versionSize
	offSalt       = offIterations + iterationsSize
	offNonce      = offSalt + SaltSize
	offTag        = offNonce + NonceSize
	offCiphertext = offTag + TagSize
)

// envelope is the parsed form of an encrypted payload.
type envelope struct {
	version    byte
	iterations uint32
	salt       []byte // 32 bytes
	nonce      []byte // 12 bytes
	tag        []byte // 64 bytes
	ciphertext []byte
}

// size returns the serialized length of e.
func (e *envelope) size() int {
	return HeaderSize + len(e.ciphertext)
}

// marshal concatenates the envelope fields in wire order.
func (e *envelope) marshal() ([]byte, error) {
	if len(e.salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrInvalidParameter, SaltSize, len(e.salt))
	}
	if len(e.nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", ErrInvalidParameter, NonceSize, len(e.nonce))
	}
	if len(e.tag) != TagSize {
		return nil, fmt.Errorf("%w: tag must be %d bytes, got %d", ErrInvalidParameter, TagSize, len(e.tag))
	}

	out := make([]byte, e.size())
	out[0] = e.version
	binary.BigEndian.PutUint32(out[offIterations:offSalt], e.iterations)
	copy(out[offSalt:offNonce], e.salt)
	copy(out[offNonce:offTag], e.nonce)
	copy(out[offTag:offCiphertext], e.tag)
	copy(out[offCiphertext:], e.ciphertext)
	return out, nil
}

// unmarshalEnvelope parses a binary envelope. Parsing is all-or-nothing and
// every returned slice is a copy, safe from caller mutation of data.
func unmarshalEnvelope(data []byte) (*envelope, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrTruncated, len(data), HeaderSize)
	}

	if data[0] != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[0])
	}

	return &envelope{
		version:    data[0],
		iterations: binary.BigEndian.Uint32(data[offIterations:offSalt]),
		salt:       append([]byte(nil), data[offSalt:offNonce]...),
		nonce:      append([]byte(nil), data[offNonce:offTag]...),
		tag:        append([]byte(nil), data[offTag:offCiphertext]...),
		ciphertext: append([]byte(nil), data[offCiphertext:]...),
	}, nil
}

// encodeText applies the outer text-safe encoding to a binary envelope.
func encodeText(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}

// decodeText reverses encodeText.
func decodeText(s string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return raw, nil
}

// parse runs the full decode pipeline: text decoding, then envelope parsing.
func parse(s string) (*envelope, error) {
	raw, err := decodeText(s)
	if err != nil {
		return nil, err
	}
	return unmarshalEnvelope(raw)
}
