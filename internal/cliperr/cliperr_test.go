package cliperr

import (
	"errors"
	"fmt"
	"testing"

	"go.klb.dev/clipt/internal/clip"
	"go.klb.dev/clipt/internal/engine"
	"go.klb.dev/clipt/internal/resolve"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ExitCode
	}{
		{"nil", nil, ExitSuccess},
		{"format not found", engine.ErrFormatNotFound, ExitNoData},
		{"wrapped format not found", fmt.Errorf("paste: %w", engine.ErrFormatNotFound), ExitNoData},
		{"write failed", fmt.Errorf("%w: device busy", engine.ErrWriteFailed), ExitNoData},
		{"unknown alias", fmt.Errorf("%w: %q", resolve.ErrUnknownAlias, "bogus"), ExitUsage},
		{"duplicate representation", fmt.Errorf("%w: %q", engine.ErrDuplicateType, "text/plain"), ExitUsage},
		{"empty system identifier", resolve.ErrEmptySystemID, ExitUsage},
		{"bad input", fmt.Errorf("%w: not json", ErrUsage), ExitUsage},
		{"no clipboard", clip.ErrUnavailable, ExitBackend},
		{"anything else", errors.New("broken pipe"), ExitBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromError(tt.err); got != tt.want {
				t.Errorf("FromError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
