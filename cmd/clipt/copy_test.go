package main

import (
	"encoding/base64"
	"errors"
	"testing"

	"go.klb.dev/clipt/internal/cliperr"
	"go.klb.dev/clipt/internal/ctype"
	"go.klb.dev/clipt/internal/engine"
	"go.klb.dev/clipt/internal/resolve"
)

func findItem(t *testing.T, items []engine.Item, spec string) engine.Item {
	t.Helper()
	for _, it := range items {
		if it.Spec.String() == spec {
			return it
		}
	}
	t.Fatalf("no item with specifier %q in %v", spec, items)
	return engine.Item{}
}

func TestParseJSONItems(t *testing.T) {
	items, err := parseJSONItems([]byte(`{"html": "<b>hi</b>", "text": "hi"}`), false)
	if err != nil {
		t.Fatalf("parseJSONItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if got := findItem(t, items, "html"); string(got.Data) != "<b>hi</b>" {
		t.Errorf("html data = %q", got.Data)
	}
}

func TestParseJSONItemsSystemEscape(t *testing.T) {
	items, err := parseJSONItems([]byte(`{"@text": "verbatim"}`), false)
	if err != nil {
		t.Fatalf("parseJSONItems: %v", err)
	}
	it := items[0]
	if !it.Spec.System || it.Spec.ID != "text" {
		t.Errorf("escaped key parsed as %+v, want verbatim system id \"text\"", it.Spec)
	}
}

func TestParseJSONItemsBase64(t *testing.T) {
	blob := []byte{0x89, 'P', 'N', 'G', 0x00}
	in := `{"png": "` + base64.StdEncoding.EncodeToString(blob) + `"}`
	items, err := parseJSONItems([]byte(in), true)
	if err != nil {
		t.Fatalf("parseJSONItems: %v", err)
	}
	if got := findItem(t, items, "png"); string(got.Data) != string(blob) {
		t.Errorf("decoded data = %v, want %v", got.Data, blob)
	}
}

func TestParseJSONItemsRejectsUnknownAlias(t *testing.T) {
	_, err := parseJSONItems([]byte(`{"TEXT": "hi"}`), false)
	if !errors.Is(err, resolve.ErrUnknownAlias) {
		t.Fatalf("err = %v, want ErrUnknownAlias", err)
	}
	if !errors.Is(err, cliperr.ErrUsage) {
		t.Errorf("err = %v, want usage classification", err)
	}
}

func TestParseJSONItemsAggregatesErrors(t *testing.T) {
	_, err := parseJSONItems([]byte(`{"nope": "a", "png": "!!", "text": "ok"}`), true)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, resolve.ErrUnknownAlias) {
		t.Errorf("missing alias error in %v", err)
	}
}

func TestParseJSONItemsRejectsEmpty(t *testing.T) {
	for _, in := range []string{`{}`, `[]`, `not json`} {
		if _, err := parseJSONItems([]byte(in), false); !errors.Is(err, cliperr.ErrUsage) {
			t.Errorf("input %q: err = %v, want usage error", in, err)
		}
	}
}

func TestSpecifierWire(t *testing.T) {
	if typ, sys := specifierWire(nil); typ != "" || sys {
		t.Errorf("nil specifier = (%q, %v)", typ, sys)
	}
	if typ, sys := specifierWire(&resolve.Specifier{Alias: ctype.Html}); typ != "html" || sys {
		t.Errorf("alias specifier = (%q, %v)", typ, sys)
	}
	if typ, sys := specifierWire(&resolve.Specifier{System: true, ID: "public.tiff"}); typ != "public.tiff" || !sys {
		t.Errorf("system specifier = (%q, %v)", typ, sys)
	}
}

func TestExitCode(t *testing.T) {
	if got := exitCode(&remoteError{code: 1, msg: "no data"}); got != 1 {
		t.Errorf("remote error code = %d, want 1", got)
	}
	if got := exitCode(errors.New("boom")); got != int(cliperr.ExitBackend) {
		t.Errorf("unknown error code = %d, want %d", got, cliperr.ExitBackend)
	}
}
