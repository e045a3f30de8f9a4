package cahc

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
)

// streamBlockSize is the stream layer block size. It equals the HMAC-SHA512
// output width, so each keystream block covers a full data block and the
// final short block uses a prefix of its keystream block.
const streamBlockSize = sha512.Size

// streamXOR XORs src with the HMAC-SHA512 counter keystream into dst.
// Keystream block i is HMAC(key, nonce || uint32be(i)). dst and src may
// overlap entirely; dst must be at least len(src) bytes.
func streamXOR(dst, src, key, nonce []byte) {
	mac := hmac.New(sha512.New, key)

	input := make([]byte, len(nonce)+4)
	copy(input, nonce)

	block := make([]byte, 0, streamBlockSize)
	for i, off := uint32(0), 0; off < len(src); i, off = i+1, off+streamBlockSize {
		binary.BigEndian.PutUint32(input[len(nonce):], i)
		mac.Reset()
		mac.Write(input)
		block = mac.Sum(block[:0])

		end := min(off+streamBlockSize, len(src))
		for j := off; j < end; j++ {
			dst[j] = src[j] ^ block[j-off]
		}
	}
	clear(block[:cap(block)])
}
