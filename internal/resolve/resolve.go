// Package resolve turns user-supplied type specifiers into native clipboard
// identifiers.
//
// A specifier arrives through one of two escape contexts that must never be
// conflated: the CLI uses a dedicated --system-type flag, the structured JSON
// input uses an "@" key prefix. In both cases the escaped remainder is taken
// verbatim with no registry consultation, even when it happens to spell an
// alias name. Unescaped input must match the alias vocabulary exactly or
// resolution fails; the resolver never guesses.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"go.klb.dev/clipt/internal/ctype"
)

// SystemPrefix marks a verbatim native identifier in structured (JSON) input.
const SystemPrefix = "@"

// ErrUnknownAlias reports an unescaped specifier outside the alias vocabulary.
var ErrUnknownAlias = errors.New("unknown type alias")

// ErrEmptySystemID reports an escaped specifier with nothing after the
// escape. It is user input gone wrong, like ErrUnknownAlias.
var ErrEmptySystemID = errors.New("empty native identifier")

// Specifier is a parsed type specifier: either a portable alias resolved via
// the registry, or a verbatim native identifier that bypasses it.
type Specifier struct {
	Alias  ctype.Alias // valid only when System is false
	System bool
	ID     string // verbatim native identifier when System is true
}

// FromCLI builds a Specifier from the --type and --system-type flag values.
// Both empty means no specifier was given and the return is nil, nil. The
// flags are mutually exclusive; cobra enforces that before this is reached,
// but a double assignment is still rejected here.
func FromCLI(alias, systemType string) (*Specifier, error) {
	switch {
	case alias != "" && systemType != "":
		return nil, errors.New("--type and --system-type are mutually exclusive")
	case systemType != "":
		return &Specifier{System: true, ID: systemType}, nil
	case alias != "":
		a, ok := ctype.ParseAlias(alias)
		if !ok {
			return nil, fmt.Errorf("%w: %q (use --system-type for a native identifier)", ErrUnknownAlias, alias)
		}
		return &Specifier{Alias: a}, nil
	}
	return nil, nil
}

// FromKey builds a Specifier from a structured-input key, applying the "@"
// escape. An escaped key must have a non-empty remainder; nothing else about
// it is validated.
func FromKey(key string) (Specifier, error) {
	if strings.HasPrefix(key, SystemPrefix) {
		id := key[len(SystemPrefix):]
		if id == "" {
			return Specifier{}, fmt.Errorf("%w after %q", ErrEmptySystemID, SystemPrefix)
		}
		return Specifier{System: true, ID: id}, nil
	}
	a, ok := ctype.ParseAlias(key)
	if !ok {
		return Specifier{}, fmt.Errorf("%w: %q (prefix with %q for a native identifier)", ErrUnknownAlias, key, SystemPrefix)
	}
	return Specifier{Alias: a}, nil
}

// FromParts builds a Specifier from an already-split (type, system) pair as
// carried by the daemon protocol.
func FromParts(typ string, system bool) (Specifier, error) {
	if system {
		if typ == "" {
			return Specifier{}, ErrEmptySystemID
		}
		return Specifier{System: true, ID: typ}, nil
	}
	a, ok := ctype.ParseAlias(typ)
	if !ok {
		return Specifier{}, fmt.Errorf("%w: %q", ErrUnknownAlias, typ)
	}
	return Specifier{Alias: a}, nil
}

// Candidates returns the native identifiers to try for this specifier on p,
// most-preferred first. A system specifier has exactly one candidate and the
// registry is not consulted.
func (s Specifier) Candidates(p ctype.Platform) []string {
	if s.System {
		return []string{s.ID}
	}
	return ctype.Lookup(s.Alias, p)
}

// String renders the specifier the way the user wrote it, for error messages.
func (s Specifier) String() string {
	if s.System {
		return SystemPrefix + s.ID
	}
	return s.Alias.String()
}
