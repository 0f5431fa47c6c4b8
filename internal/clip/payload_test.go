package clip

import (
	"bytes"
	"testing"
)

func TestSelectionPayloadRoundTrip(t *testing.T) {
	items := map[string][]byte{
		"text/plain;charset=utf-8": []byte("hello"),
		"image/png":                {0x89, 'P', 'N', 'G', 0x00, 0xff},
	}
	raw, err := EncodeSelection(items)
	if err != nil {
		t.Fatalf("EncodeSelection: %v", err)
	}
	got, err := DecodeSelection(raw)
	if err != nil {
		t.Fatalf("DecodeSelection: %v", err)
	}
	if len(got) != len(items) {
		t.Fatalf("got %d items, want %d", len(got), len(items))
	}
	for id, data := range items {
		if !bytes.Equal(got[id], data) {
			t.Errorf("item %q = %v, want %v", id, got[id], data)
		}
	}
}

func TestDecodeSelectionRejectsGarbage(t *testing.T) {
	if _, err := DecodeSelection([]byte("not json")); err == nil {
		t.Fatal("want error for malformed payload")
	}
	if _, err := DecodeSelection([]byte(`{"items":{"x":"!!"}}`)); err == nil {
		t.Fatal("want error for bad base64")
	}
}
