package azurekv

import (
	"context"
	"fmt"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azkeys"
	cahc "github.com/rbaliyan/config-cahc"
)

type unwrapCall struct {
	keyName    string
	keyVersion string
	algorithm  azkeys.EncryptionAlgorithm
}

type mockClient struct {
	keys   map[string][]byte // ciphertext -> plaintext
	failOn string
	calls  []unwrapCall
}

func (m *mockClient) UnwrapKey(ctx context.Context, keyName string, keyVersion string, params azkeys.KeyOperationParameters, opts *azkeys.UnwrapKeyOptions) (azkeys.UnwrapKeyResponse, error) {
	m.calls = append(m.calls, unwrapCall{keyName: keyName, keyVersion: keyVersion, algorithm: *params.Algorithm})
	ct := string(params.Value)
	if ct == m.failOn {
		return azkeys.UnwrapKeyResponse{}, fmt.Errorf("keyvault: access denied")
	}
	plaintext, ok := m.keys[ct]
	if !ok {
		return azkeys.UnwrapKeyResponse{}, fmt.Errorf("keyvault: invalid ciphertext")
	}
	return azkeys.UnwrapKeyResponse{
		KeyOperationResult: azkeys.KeyOperationResult{
			Result: plaintext,
		},
	}, nil
}

func TestNew(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"wrapped-key-1": []byte("vault-secret"),
		},
	}

	provider, err := New(context.Background(), client,
		WithWrappedKey([]byte("wrapped-key-1"), "key-1", "my-key", "v1"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	key, err := provider.CurrentKey()
	if err != nil {
		t.Fatalf("CurrentKey: %v", err)
	}
	if key.ID != "key-1" {
		t.Errorf("CurrentKey().ID: got %q, want %q", key.ID, "key-1")
	}

	if len(client.calls) != 1 {
		t.Fatalf("UnwrapKey calls: got %d, want 1", len(client.calls))
	}
	call := client.calls[0]
	if call.keyName != "my-key" || call.keyVersion != "v1" {
		t.Errorf("UnwrapKey key: got %s/%s, want my-key/v1", call.keyName, call.keyVersion)
	}
	if call.algorithm != azkeys.EncryptionAlgorithmRSAOAEP256 {
		t.Errorf("algorithm: got %s, want %s", call.algorithm, azkeys.EncryptionAlgorithmRSAOAEP256)
	}
}

func TestNewCustomAlgorithm(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"wrapped": []byte("secret"),
		},
	}

	_, err := New(context.Background(), client,
		WithWrappedKeyAlgorithm([]byte("wrapped"), "key-1", "my-key", "v1", azkeys.EncryptionAlgorithmRSAOAEP),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.calls[0].algorithm != azkeys.EncryptionAlgorithmRSAOAEP {
		t.Errorf("algorithm: got %s, want %s", client.calls[0].algorithm, azkeys.EncryptionAlgorithmRSAOAEP)
	}
}

func TestNewWithRotation(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"wrapped-new": []byte("new-secret"),
			"wrapped-old": []byte("old-secret"),
		},
	}

	provider, err := New(context.Background(), client,
		WithWrappedKey([]byte("wrapped-new"), "key-v2", "my-key", "v2"),
		WithWrappedKey([]byte("wrapped-old"), "key-v1", "my-key", "v1"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ids := provider.IDs()
	if len(ids) != 2 || ids[0] != "key-v2" || ids[1] != "key-v1" {
		t.Errorf("IDs: got %v, want [key-v2 key-v1]", ids)
	}
}

func TestNewNoKeys(t *testing.T) {
	_, err := New(context.Background(), &mockClient{})
	if err == nil {
		t.Error("expected error for no keys")
	}
}

func TestNewUnwrapFailure(t *testing.T) {
	client := &mockClient{failOn: "wrapped"}

	_, err := New(context.Background(), client,
		WithWrappedKey([]byte("wrapped"), "key-1", "my-key", "v1"),
	)
	if err == nil {
		t.Error("expected error for unwrap failure")
	}
}

func TestNewEmptySecret(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"wrapped": {},
		},
	}

	_, err := New(context.Background(), client,
		WithWrappedKey([]byte("wrapped"), "key-1", "my-key", "v1"),
	)
	if !cahc.IsInvalidKey(err) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}
