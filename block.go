package cahc

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// blockXOR applies AES-256-CTR to src, writing into dst. The initial counter
// block is nonce || 0x00000000. Encryption and decryption are the same call.
func blockXOR(dst, src, key, nonce []byte) error {
	if len(nonce) != NonceSize {
		return fmt.Errorf("%w: nonce must be %d bytes, got %d", ErrInvalidParameter, NonceSize, len(nonce))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("cahc: failed to create block cipher: %w", err)
	}

	var iv [aes.BlockSize]byte
	copy(iv[:], nonce)
	cipher.NewCTR(block, iv[:]).XORKeyStream(dst, src)
	return nil
}
