package crypto

import (
	"bytes"
	"testing"
)

func TestSealOpen(t *testing.T) {
	key, err := DeriveKey("hunter2")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	plain := []byte(`{"op":"PASTE","type":"text"}`)

	ct, err := Seal(plain, key)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if bytes.Contains(ct, plain) {
		t.Fatal("ciphertext contains plaintext")
	}
	got, err := Open(ct, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("Open = %q, want %q", got, plain)
	}
}

func TestOpenWrongKeyFails(t *testing.T) {
	k1, _ := DeriveKey("alpha")
	k2, _ := DeriveKey("beta")
	ct, err := Seal([]byte("secret"), k1)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := Open(ct, k2); err == nil {
		t.Fatal("Open with wrong key succeeded")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	a, _ := DeriveKey("token")
	b, _ := DeriveKey("token")
	if *a != *b {
		t.Fatal("same token derived different keys")
	}
	c, _ := DeriveKey("other")
	if *a == *c {
		t.Fatal("different tokens derived the same key")
	}
}

func TestOpenShortCiphertext(t *testing.T) {
	key, _ := DeriveKey("x")
	if _, err := Open([]byte("short"), key); err == nil {
		t.Fatal("want error for truncated ciphertext")
	}
}
