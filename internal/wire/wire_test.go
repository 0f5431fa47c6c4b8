package wire

import (
	"net"
	"testing"

	"go.klb.dev/clipt/internal/crypto"
	"go.klb.dev/clipt/internal/message"
)

func exchange(t *testing.T, key *[32]byte) {
	t.Helper()
	a, b := net.Pipe()
	client := New(a, key)
	server := New(b, key)
	defer client.Close()
	defer server.Close()

	req := &message.Request{Op: message.OpCopy, Items: []message.Item{
		message.NewItem("text", false, []byte("hello")),
		message.NewItem("com.custom.type", true, []byte{0x00, 0x01, 0xff}),
	}}

	done := make(chan error, 1)
	go func() { done <- client.WriteRequest(req) }()

	got, err := server.ReadRequest()
	if err != nil {
		t.Fatalf("ReadRequest: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("WriteRequest: %v", err)
	}
	if got.Op != message.OpCopy || len(got.Items) != 2 {
		t.Fatalf("request = %+v", got)
	}
	if !got.Items[1].System || got.Items[1].Type != "com.custom.type" {
		t.Fatalf("system item lost its escape: %+v", got.Items[1])
	}

	go func() { done <- server.WriteResponse(&message.Response{OK: true}) }()
	resp, err := client.ReadResponse()
	if err != nil {
		t.Fatalf("ReadResponse: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}
	if !resp.OK {
		t.Fatalf("response = %+v", resp)
	}
}

func TestPlainRoundTrip(t *testing.T) {
	exchange(t, nil)
}

func TestEncryptedRoundTrip(t *testing.T) {
	key, err := crypto.DeriveKey("shared-token")
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	exchange(t, key)
}

func TestMismatchedKeysFail(t *testing.T) {
	a, b := net.Pipe()
	k1, _ := crypto.DeriveKey("one")
	k2, _ := crypto.DeriveKey("two")
	client := New(a, k1)
	server := New(b, k2)
	defer client.Close()
	defer server.Close()

	go func() { _ = client.WriteRequest(&message.Request{Op: message.OpStatus}) }()
	if _, err := server.ReadRequest(); err == nil {
		t.Fatal("read with mismatched key succeeded")
	}
}
