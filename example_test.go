package cahc_test

import (
	"fmt"
	"strings"

	cahc "github.com/rbaliyan/config-cahc"
	"github.com/rbaliyan/config/codec"
)

func ExampleEncrypt() {
	res, err := cahc.Encrypt([]byte("hello world"),
		cahc.WithMasterKey("test-key"),
		cahc.WithIterations(1000),
		cahc.WithCustomSalt(strings.Repeat("00", cahc.SaltSize)),
	)
	if err != nil {
		panic(err)
	}
	fmt.Println("Iterations:", res.Iterations)
	fmt.Println("Ciphertext length:", len(res.Ciphertext))

	plaintext, err := cahc.Decrypt(res.Ciphertext, "test-key")
	if err != nil {
		panic(err)
	}
	fmt.Println("Decrypted:", string(plaintext))

	_, err = cahc.Decrypt(res.Ciphertext, "wrong-key")
	fmt.Println("Wrong key:", cahc.IsAuthenticationFailed(err))

	// Output:
	// Iterations: 1000
	// Ciphertext length: 168
	// Decrypted: hello world
	// Wrong key: true
}

func ExampleInspect() {
	res, err := cahc.Encrypt([]byte("payload"), cahc.WithIterations(5000))
	if err != nil {
		panic(err)
	}

	info, err := cahc.Inspect(res.Ciphertext)
	if err != nil {
		panic(err)
	}
	fmt.Printf("version=%d iterations=%d salt=%d ciphertext=%d\n",
		info.Version, info.Iterations, info.SaltSize, info.CiphertextSize)

	// Output:
	// version=1 iterations=5000 salt=32 ciphertext=7
}

func ExampleGenerateSecureKey() {
	key, err := cahc.GenerateSecureKey(cahc.DefaultKeySize)
	if err != nil {
		panic(err)
	}
	fmt.Println("Hex characters:", len(key))

	// Output:
	// Hex characters: 64
}

func ExampleNewCodec() {
	provider, err := cahc.NewStaticKeyProvider([]byte("config master key"), "key-1")
	if err != nil {
		panic(err)
	}

	encJSON, err := cahc.NewCodec(codec.JSON(), provider, cahc.WithCodecIterations(1000))
	if err != nil {
		panic(err)
	}
	fmt.Println("Codec name:", encJSON.Name())

	data, err := encJSON.Encode("my-secret")
	if err != nil {
		panic(err)
	}
	fmt.Printf("Encrypted size: %d bytes\n", len(data))

	var result string
	if err := encJSON.Decode(data, &result); err != nil {
		panic(err)
	}
	fmt.Println("Decrypted:", result)

	// Output:
	// Codec name: cahc:json
	// Encrypted size: 168 bytes
	// Decrypted: my-secret
}

func ExampleNewCodec_withConfig() {
	provider, err := cahc.NewStaticKeyProvider([]byte("config master key"), "key-1")
	if err != nil {
		panic(err)
	}

	encJSON, err := cahc.NewCodec(codec.JSON(), provider)
	if err != nil {
		panic(err)
	}
	codec.Register(encJSON)

	// Now "cahc:json" is available in the codec registry
	resolved := codec.Get("cahc:json")
	fmt.Println("Resolved:", resolved.Name())

	// Output:
	// Resolved: cahc:json
}

func ExampleNewStaticKeyProvider_rotation() {
	oldKey := []byte("master key v1")

	oldProvider, err := cahc.NewStaticKeyProvider(oldKey, "key-v1")
	if err != nil {
		panic(err)
	}
	oldCodec, err := cahc.NewCodec(codec.JSON(), oldProvider, cahc.WithCodecIterations(1000))
	if err != nil {
		panic(err)
	}

	encrypted, err := oldCodec.Encode("secret-data")
	if err != nil {
		panic(err)
	}

	// Rotate: new key is current, old key is tried when it fails to authenticate
	newProvider, err := cahc.NewStaticKeyProvider([]byte("master key v2"), "key-v2",
		cahc.WithOldKey(oldKey, "key-v1"),
	)
	if err != nil {
		panic(err)
	}
	newCodec, err := cahc.NewCodec(codec.JSON(), newProvider, cahc.WithCodecIterations(1000))
	if err != nil {
		panic(err)
	}

	var result string
	if err := newCodec.Decode(encrypted, &result); err != nil {
		panic(err)
	}
	fmt.Println("Decrypted with rotated provider:", result)

	reEncrypted, err := newCodec.Encode(result)
	if err != nil {
		panic(err)
	}

	var result2 string
	if err := newCodec.Decode(reEncrypted, &result2); err != nil {
		panic(err)
	}
	fmt.Println("Re-encrypted and decrypted:", result2)

	// Output:
	// Decrypted with rotated provider: secret-data
	// Re-encrypted and decrypted: secret-data
}
