// Package cliperr maps the error taxonomy onto process exit codes.
//
// Expected, recoverable conditions get their own codes so scripts can branch
// on them: 1 means the clipboard simply lacked the requested representation
// (or the write failed), while usage mistakes and OS-level failures are kept
// distinct above that.
package cliperr

import (
	"errors"

	"go.klb.dev/clipt/internal/clip"
	"go.klb.dev/clipt/internal/engine"
	"go.klb.dev/clipt/internal/resolve"
)

// ExitCode is the process exit status for a finished operation.
type ExitCode int

const (
	ExitSuccess ExitCode = 0
	ExitNoData  ExitCode = 1 // requested format absent, or the write failed
	ExitUsage   ExitCode = 2 // unknown alias, bad flags, malformed input
	ExitBackend ExitCode = 3 // clipboard subsystem unavailable or erroring
)

// ErrUsage marks errors caused by bad user input that are not already part
// of the resolver's taxonomy (malformed JSON, bad base64, empty stdin).
var ErrUsage = errors.New("invalid input")

// FromError maps err to its exit code. nil maps to ExitSuccess.
func FromError(err error) ExitCode {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, engine.ErrFormatNotFound), errors.Is(err, engine.ErrWriteFailed):
		return ExitNoData
	case errors.Is(err, resolve.ErrUnknownAlias), errors.Is(err, resolve.ErrEmptySystemID),
		errors.Is(err, ErrUsage), errors.Is(err, engine.ErrDuplicateType):
		return ExitUsage
	case errors.Is(err, clip.ErrUnavailable):
		return ExitBackend
	}
	return ExitBackend
}
