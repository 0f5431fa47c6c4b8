//go:build !darwin && !windows && !linux

package clip

import "go.klb.dev/clipt/internal/ctype"

// headlessBackend is the stub for platforms without a clipboard subsystem.
// Every operation fails with ErrUnavailable so callers surface a clear error
// instead of silently losing data.
type headlessBackend struct{}

// New returns the headless stub backend.
func New() (Backend, error) {
	return &headlessBackend{}, nil
}

func (b *headlessBackend) Name() string                  { return "headless (unavailable)" }
func (b *headlessBackend) Platform() ctype.Platform      { return ctype.X11 }
func (b *headlessBackend) Enumerate() ([]string, error)  { return nil, ErrUnavailable }
func (b *headlessBackend) Read(string) ([]byte, error)   { return nil, ErrUnavailable }
func (b *headlessBackend) Write(map[string][]byte) error { return ErrUnavailable }
func (b *headlessBackend) Close()                        {}

// ServeSelection is Wayland-only.
func ServeSelection(map[string][]byte) error { return ErrUnavailable }
