// Package engine orchestrates paste, copy and list-types against a clipboard
// backend. It is a thin, stateless layer: specifiers are resolved through the
// registry for the backend's platform, and every operation is one synchronous
// interaction with the live clipboard, with no caching and no retries.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"go.klb.dev/clipt/internal/clip"
	"go.klb.dev/clipt/internal/ctype"
	"go.klb.dev/clipt/internal/resolve"
)

// ErrFormatNotFound reports that none of a specifier's candidate types exist
// in the current clipboard contents. It is an expected, recoverable condition
// (the CLI maps it to its own exit code), unlike backend I/O failures.
var ErrFormatNotFound = errors.New("no data found for this type")

// ErrWriteFailed marks a copy whose backend write failed after all
// specifiers had already resolved.
var ErrWriteFailed = errors.New("clipboard write failed")

// ErrDuplicateType reports two copy items resolving to the same native
// identifier, which would silently drop one of them.
var ErrDuplicateType = errors.New("duplicate representation")

// Item is one representation to place on the clipboard.
type Item struct {
	Spec resolve.Specifier
	Data []byte
}

// TypeInfo is one entry of a type listing: a native identifier and, when the
// registry knows it, the portable alias it corresponds to.
type TypeInfo struct {
	ID       string
	Alias    ctype.Alias
	HasAlias bool
}

// Engine runs clipboard operations against one backend.
type Engine struct {
	backend clip.Backend
}

func New(b clip.Backend) *Engine {
	return &Engine{backend: b}
}

// Backend returns the engine's backend.
func (e *Engine) Backend() clip.Backend { return e.backend }

// Paste returns the clipboard bytes for spec. The candidates are tried in
// registry priority order and the first representation present wins. A nil
// spec asks for the default representation, which is the text alias chain.
func (e *Engine) Paste(spec *resolve.Specifier) ([]byte, error) {
	if spec == nil {
		spec = &resolve.Specifier{Alias: ctype.Text}
	}
	platform := e.backend.Platform()
	for _, id := range spec.Candidates(platform) {
		data, err := e.backend.Read(id)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", id, err)
		}
		if data != nil {
			slog.Debug("paste hit", "specifier", spec, "type", id, "size", len(data))
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrFormatNotFound, spec)
}

// Copy publishes items as one logical clipboard item. Every specifier is
// resolved before the backend is touched: if any fails, the aggregate error
// is returned and the clipboard is left exactly as it was (all-or-nothing).
// Each alias resolves to its single most-preferred native identifier.
func (e *Engine) Copy(items []Item) error {
	if len(items) == 0 {
		return errors.New("nothing to copy")
	}
	platform := e.backend.Platform()

	resolved := make(map[string][]byte, len(items))
	var errs []error
	for _, it := range items {
		id := it.Spec.Candidates(platform)[0]
		if _, dup := resolved[id]; dup {
			errs = append(errs, fmt.Errorf("%w: %q (from %s)", ErrDuplicateType, id, it.Spec))
			continue
		}
		resolved[id] = it.Data
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if err := e.backend.Write(resolved); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	slog.Debug("copy published", "types", len(resolved))
	return nil
}

// ListTypes enumerates the native identifiers currently on the clipboard and
// annotates each with its portable alias where one exists. Backends that
// cannot enumerate pass clip.ErrEnumerateUnsupported through unchanged so the
// caller can degrade rather than mistake it for an empty clipboard.
func (e *Engine) ListTypes() ([]TypeInfo, error) {
	ids, err := e.backend.Enumerate()
	if err != nil {
		return nil, err
	}
	platform := e.backend.Platform()
	infos := make([]TypeInfo, 0, len(ids))
	for _, id := range ids {
		info := TypeInfo{ID: id}
		info.Alias, info.HasAlias = ctype.ReverseLookup(id, platform)
		infos = append(infos, info)
	}
	return infos, nil
}
