package gcpkms

import (
	"context"
	"fmt"
	"testing"

	kmspb "cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/googleapis/gax-go/v2"
	cahc "github.com/rbaliyan/config-cahc"
)

type mockClient struct {
	keys     map[string][]byte // ciphertext -> plaintext
	failOn   string
	requests []*kmspb.DecryptRequest
}

func (m *mockClient) Decrypt(ctx context.Context, req *kmspb.DecryptRequest, opts ...gax.CallOption) (*kmspb.DecryptResponse, error) {
	m.requests = append(m.requests, req)
	ct := string(req.Ciphertext)
	if ct == m.failOn {
		return nil, fmt.Errorf("kms: permission denied")
	}
	plaintext, ok := m.keys[ct]
	if !ok {
		return nil, fmt.Errorf("kms: invalid ciphertext")
	}
	return &kmspb.DecryptResponse{Plaintext: plaintext}, nil
}

const resource = "projects/p/locations/global/keyRings/r/cryptoKeys/k"

func TestNew(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"encrypted-key-1": []byte("gcp-secret"),
		},
	}

	provider, err := New(context.Background(), client,
		WithEncryptedKey([]byte("encrypted-key-1"), "key-1", resource),
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
	if client.requests[0].Name != resource {
		t.Errorf("Name: got %q, want %q", client.requests[0].Name, resource)
	}
}

func TestNewWithAAD(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"encrypted": []byte("secret"),
		},
	}

	_, err := New(context.Background(), client,
		WithEncryptedKeyAAD([]byte("encrypted"), "key-1", resource, []byte("ctx")),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if string(client.requests[0].AdditionalAuthenticatedData) != "ctx" {
		t.Error("AAD was not passed to KMS")
	}
}

func TestNewWithRotation(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"encrypted-new": []byte("new-secret"),
			"encrypted-old": []byte("old-secret"),
		},
	}

	provider, err := New(context.Background(), client,
		WithEncryptedKey([]byte("encrypted-new"), "key-v2", resource),
		WithEncryptedKey([]byte("encrypted-old"), "key-v1", resource),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	current, err := provider.CurrentKey()
	if err != nil {
		t.Fatal(err)
	}
	if current.ID != "key-v2" {
		t.Errorf("CurrentKey().ID: got %q, want %q", current.ID, "key-v2")
	}

	keys, err := provider.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || string(keys[1].Secret) != "old-secret" {
		t.Error("old key not available for decryption")
	}
}

func TestNewNoKeys(t *testing.T) {
	_, err := New(context.Background(), &mockClient{})
	if err == nil {
		t.Error("expected error for no keys")
	}
}

func TestNewDecryptFailure(t *testing.T) {
	client := &mockClient{failOn: "encrypted"}

	_, err := New(context.Background(), client,
		WithEncryptedKey([]byte("encrypted"), "key-1", resource),
	)
	if err == nil {
		t.Error("expected error for decrypt failure")
	}
}

func TestNewDuplicateID(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"a": []byte("secret-a"),
			"b": []byte("secret-b"),
		},
	}

	_, err := New(context.Background(), client,
		WithEncryptedKey([]byte("a"), "key-1", resource),
		WithEncryptedKey([]byte("b"), "key-1", resource),
	)
	if !cahc.IsInvalidKeyID(err) {
		t.Errorf("expected ErrInvalidKeyID, got %v", err)
	}
}
