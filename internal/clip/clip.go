// Package clip provides a uniform capability interface over the platform
// clipboard subsystems. Build constraints select the implementation:
//
//	clip_darwin.go   macOS via cgo NSPasteboard (full UTI access)
//	clip_windows.go  Windows via cgo clipboard API (registered formats)
//	clip_linux.go    Wayland (wl-clipboard + wlr-data-control) or X11
//	                 (xclip), falling back to golang.design/x/clipboard
//	clip_other.go    headless / container stub
//
// The clipboard is global mutable state owned by the OS: every call here hits
// the live clipboard, there is no caching, and another process may write
// between any two calls.
package clip

import (
	"errors"

	"go.klb.dev/clipt/internal/ctype"
)

// ErrEnumerateUnsupported is returned by Enumerate on backends that can only
// read and write known formats. It is distinct from an empty result so that
// callers can tell "no types on the clipboard" from "cannot enumerate".
var ErrEnumerateUnsupported = errors.New("backend cannot enumerate clipboard types")

// ErrUnavailable is returned by every operation of the headless backend.
var ErrUnavailable = errors.New("no clipboard available")

// Backend is the interface that all platform clipboard implementations satisfy.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Platform identifies which registry tables apply to this backend's
	// native type identifiers.
	Platform() ctype.Platform

	// Enumerate returns the native type identifiers currently on the
	// clipboard, or ErrEnumerateUnsupported on degraded backends.
	Enumerate() ([]string, error)

	// Read returns the bytes stored under id, or nil, nil when the clipboard
	// holds no representation of that type.
	Read(id string) ([]byte, error)

	// Write replaces the clipboard with one logical item carrying every
	// provided representation. Backends publish all types together where the
	// platform allows it; degraded backends keep the single most useful one.
	Write(items map[string][]byte) error

	// Close releases any resources held by the backend.
	Close()
}
