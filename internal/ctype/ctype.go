// Package ctype defines the portable content-type aliases and the per-platform
// registry that maps them onto native clipboard type identifiers.
//
// Aliases are the small, stable vocabulary users type (`text`, `html`, ...).
// Native identifiers are whatever the platform's clipboard subsystem speaks:
// UTIs on macOS, registered format names on Windows, negotiated MIME strings
// on X11 and Wayland. The registry tables are compiled in and never change at
// runtime.
package ctype

import "fmt"

// Alias is a cross-platform nickname for a clipboard content type.
type Alias int

const (
	URL Alias = iota
	Html
	Pdf
	Png
	Rtf
	Text
)

// Aliases lists every portable alias, in display order.
var Aliases = []Alias{URL, Html, Pdf, Png, Rtf, Text}

var aliasNames = map[Alias]string{
	URL:  "url",
	Html: "html",
	Pdf:  "pdf",
	Png:  "png",
	Rtf:  "rtf",
	Text: "text",
}

func (a Alias) String() string {
	if s, ok := aliasNames[a]; ok {
		return s
	}
	return fmt.Sprintf("alias(%d)", int(a))
}

// ParseAlias matches s against the alias vocabulary. The match is
// case-sensitive: only the lowercase spellings are aliases, anything else is
// not (callers escape to a native identifier instead of guessing).
func ParseAlias(s string) (Alias, bool) {
	for a, name := range aliasNames {
		if s == name {
			return a, true
		}
	}
	return 0, false
}

// Platform identifies a clipboard subsystem. Native identifiers are only
// meaningful within a single platform; an identifier is never compared across
// platforms.
type Platform int

const (
	Darwin Platform = iota
	Windows
	X11
	Wayland
)

// Platforms lists every supported platform.
var Platforms = []Platform{Darwin, Windows, X11, Wayland}

func (p Platform) String() string {
	switch p {
	case Darwin:
		return "darwin"
	case Windows:
		return "windows"
	case X11:
		return "x11"
	case Wayland:
		return "wayland"
	}
	return fmt.Sprintf("platform(%d)", int(p))
}
