package main

import (
	"encoding/base64"
	"testing"

	"go.klb.dev/clipt/internal/clip"
	"go.klb.dev/clipt/internal/cliperr"
	"go.klb.dev/clipt/internal/ctype"
	"go.klb.dev/clipt/internal/engine"
	"go.klb.dev/clipt/internal/message"
)

type stubBackend struct {
	items map[string][]byte
}

func (b *stubBackend) Name() string             { return "stub" }
func (b *stubBackend) Platform() ctype.Platform { return ctype.X11 }
func (b *stubBackend) Close()                   {}

func (b *stubBackend) Enumerate() ([]string, error) {
	ids := make([]string, 0, len(b.items))
	for id := range b.items {
		ids = append(ids, id)
	}
	return ids, nil
}

func (b *stubBackend) Read(id string) ([]byte, error) { return b.items[id], nil }

func (b *stubBackend) Write(items map[string][]byte) error {
	b.items = items
	return nil
}

func stubEngine(items map[string][]byte) *engine.Engine {
	return engine.New(&stubBackend{items: items})
}

func TestDispatchPaste(t *testing.T) {
	eng := stubEngine(map[string][]byte{"text/plain;charset=utf-8": []byte("hello")})
	resp := dispatch(&message.Request{Op: message.OpPaste, Type: "text"}, eng)
	if !resp.OK {
		t.Fatalf("paste failed: %s", resp.Error)
	}
	data, err := resp.PasteData()
	if err != nil || string(data) != "hello" {
		t.Errorf("paste data = %q, %v", data, err)
	}
}

func TestDispatchPasteNoData(t *testing.T) {
	resp := dispatch(&message.Request{Op: message.OpPaste, Type: "png"}, stubEngine(nil))
	if resp.OK {
		t.Fatal("expected failure")
	}
	if resp.Code != int(cliperr.ExitNoData) {
		t.Errorf("code = %d, want %d", resp.Code, cliperr.ExitNoData)
	}
}

func TestDispatchPasteBadAlias(t *testing.T) {
	resp := dispatch(&message.Request{Op: message.OpPaste, Type: "TEXT"}, stubEngine(nil))
	if resp.OK || resp.Code != int(cliperr.ExitUsage) {
		t.Errorf("ok=%v code=%d, want usage failure", resp.OK, resp.Code)
	}
}

func TestDispatchCopyRoundTrip(t *testing.T) {
	eng := stubEngine(nil)
	blob := []byte{0x00, 0xff, 0x10}
	req := &message.Request{
		Op: message.OpCopy,
		Items: []message.Item{
			message.NewItem("text", false, []byte("hi")),
			message.NewItem("com.custom", true, blob),
		},
	}
	if resp := dispatch(req, eng); !resp.OK {
		t.Fatalf("copy failed: %s", resp.Error)
	}

	resp := dispatch(&message.Request{Op: message.OpPaste, Type: "com.custom", System: true}, eng)
	if !resp.OK {
		t.Fatalf("paste back failed: %s", resp.Error)
	}
	if data, _ := resp.PasteData(); string(data) != string(blob) {
		t.Errorf("round trip = %v, want %v", data, blob)
	}
}

func TestDispatchCopyRejectsBadItemBeforeWrite(t *testing.T) {
	eng := stubEngine(map[string][]byte{"text/plain;charset=utf-8": []byte("keep")})
	req := &message.Request{
		Op: message.OpCopy,
		Items: []message.Item{
			message.NewItem("text", false, []byte("new")),
			{Type: "png", Data: "not base64"},
		},
	}
	if resp := dispatch(req, eng); resp.OK || resp.Code != int(cliperr.ExitUsage) {
		t.Fatalf("ok=%v code=%d, want usage failure", resp.OK, resp.Code)
	}
	if data, _ := eng.Paste(nil); string(data) != "keep" {
		t.Errorf("clipboard mutated by rejected copy: %q", data)
	}
}

func TestDispatchListTypes(t *testing.T) {
	eng := stubEngine(map[string][]byte{"text/html": []byte("<b/>")})
	resp := dispatch(&message.Request{Op: message.OpListTypes}, eng)
	if !resp.OK || resp.Degraded {
		t.Fatalf("list-types: ok=%v degraded=%v error=%s", resp.OK, resp.Degraded, resp.Error)
	}
	if len(resp.Types) != 1 || resp.Types[0].ID != "text/html" || resp.Types[0].Alias != "html" {
		t.Errorf("types = %+v", resp.Types)
	}
}

func TestDispatchListTypesDegraded(t *testing.T) {
	eng := engine.New(&degradedBackend{})
	resp := dispatch(&message.Request{Op: message.OpListTypes}, eng)
	if !resp.OK || !resp.Degraded {
		t.Errorf("ok=%v degraded=%v, want degraded success", resp.OK, resp.Degraded)
	}
}

type degradedBackend struct{ stubBackend }

func (b *degradedBackend) Enumerate() ([]string, error) {
	return nil, clip.ErrEnumerateUnsupported
}

func TestDispatchStatus(t *testing.T) {
	resp := dispatch(&message.Request{Op: message.OpStatus}, stubEngine(nil))
	if !resp.OK || resp.Backend != "stub" || resp.Platform != "x11" {
		t.Errorf("status = %+v", resp)
	}
}

func TestDispatchUnknownOp(t *testing.T) {
	resp := dispatch(&message.Request{Op: "NOPE"}, stubEngine(nil))
	if resp.OK || resp.Code != int(cliperr.ExitUsage) {
		t.Errorf("ok=%v code=%d, want usage failure", resp.OK, resp.Code)
	}
}

func TestServePasteEncoding(t *testing.T) {
	blob := []byte{0x89, 0x50, 0x4e, 0x47}
	eng := stubEngine(map[string][]byte{"image/png": blob})
	resp := dispatch(&message.Request{Op: message.OpPaste, Type: "png"}, eng)
	if resp.Data != base64.StdEncoding.EncodeToString(blob) {
		t.Errorf("data field = %q, want base64 of %v", resp.Data, blob)
	}
}
