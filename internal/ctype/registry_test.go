package ctype

import "testing"

func TestLookupNonEmptyEverywhere(t *testing.T) {
	for _, p := range Platforms {
		for _, a := range Aliases {
			ids := Lookup(a, p)
			if len(ids) == 0 {
				t.Errorf("Lookup(%s, %s) returned no candidates", a, p)
			}
			seen := make(map[string]struct{}, len(ids))
			for _, id := range ids {
				if id == "" {
					t.Errorf("Lookup(%s, %s) contains an empty identifier", a, p)
				}
				if _, dup := seen[id]; dup {
					t.Errorf("Lookup(%s, %s) contains duplicate %q", a, p, id)
				}
				seen[id] = struct{}{}
			}
		}
	}
}

func TestLookupDeterministicOrder(t *testing.T) {
	first := Lookup(Text, X11)
	for i := 0; i < 10; i++ {
		again := Lookup(Text, X11)
		if len(again) != len(first) {
			t.Fatalf("candidate count changed between calls")
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("candidate order changed between calls: %v vs %v", first, again)
			}
		}
	}
	if first[0] != "text/plain;charset=utf-8" {
		t.Errorf("most-preferred X11 text candidate = %q, want text/plain;charset=utf-8", first[0])
	}
}

func TestReverseLookup(t *testing.T) {
	tests := []struct {
		id       string
		platform Platform
		want     Alias
		found    bool
	}{
		{"public.html", Darwin, Html, true},
		{"com.adobe.pdf", Darwin, Pdf, true},
		{"HTML Format", Windows, Html, true},
		{"text/html", X11, Html, true},
		{"UTF8_STRING", X11, Text, true},
		{"STRING", Wayland, Text, true},
		{"application/rtf", X11, Rtf, true},
		// Non-primary candidates still reverse-map.
		{"UniformResourceLocator", Windows, URL, true},
		// Identifiers with no alias stay unannotated.
		{"public.tiff", Darwin, 0, false},
		{"CF_HDROP", Windows, 0, false},
		{"image/jpeg", X11, 0, false},
		// Identifiers never match across platforms.
		{"public.html", X11, 0, false},
	}
	for _, tt := range tests {
		got, ok := ReverseLookup(tt.id, tt.platform)
		if ok != tt.found {
			t.Errorf("ReverseLookup(%q, %s): found=%v, want %v", tt.id, tt.platform, ok, tt.found)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ReverseLookup(%q, %s) = %s, want %s", tt.id, tt.platform, got, tt.want)
		}
	}
}

func TestEveryCandidateReverseMapsToItsAlias(t *testing.T) {
	for _, p := range Platforms {
		for _, a := range Aliases {
			for _, id := range Lookup(a, p) {
				got, ok := ReverseLookup(id, p)
				if !ok || got != a {
					t.Errorf("candidate %q of %s on %s reverse-maps to (%v, %v)", id, a, p, got, ok)
				}
			}
		}
	}
}

func TestParseAliasCaseSensitive(t *testing.T) {
	for _, a := range Aliases {
		got, ok := ParseAlias(a.String())
		if !ok || got != a {
			t.Errorf("ParseAlias(%q) = (%v, %v)", a.String(), got, ok)
		}
	}
	for _, bad := range []string{"TEXT", "Html", "bogus-format", "", " text", "text "} {
		if _, ok := ParseAlias(bad); ok {
			t.Errorf("ParseAlias(%q) matched, want no match", bad)
		}
	}
}
