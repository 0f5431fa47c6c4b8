// clipt: typed access to the system clipboard.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/clipt/internal/clip"
	"go.klb.dev/clipt/internal/cliperr"
	"go.klb.dev/clipt/internal/engine"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipt",
		Short: "Typed access to the system clipboard",
		Long: `clipt reads and writes the system clipboard by content type.

A clipboard holds one logical item in several representations at once (the
same selection might be text/html and plain text). -t/--type addresses them
through a small portable vocabulary (url, html, pdf, png, rtf, text) that
clipt maps onto the native identifiers of the running platform: UTIs on
macOS, registered formats on Windows, MIME types on X11 and Wayland.
--system-type bypasses the vocabulary and passes a native identifier through
verbatim.

Run "clipt serve" to expose the clipboard on a local socket (and optionally
TCP); paste/copy/list-types use a running daemon automatically, which lets
SSH sessions and containers reach the host clipboard.

Config file search order (first found wins):
  /etc/clipt/clipt.toml
  $HOME/.config/clipt/clipt.toml
  path supplied via --config

All flags can be set via CLIPT_<FLAG> env vars or config-file keys.

Exit codes: 0 success, 1 no data for the requested type (or write failed),
2 usage error, 3 clipboard backend failure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %s", cliperr.ErrUsage, err)
	})

	root.AddCommand(
		newPasteCmd(),
		newCopyCmd(),
		newListTypesCmd(),
		newStatusCmd(),
		newServeCmd(),
		newServeSelectionCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var re *remoteError
	if errors.As(err, &re) {
		return re.code
	}
	return int(cliperr.FromError(err))
}

func newLocalEngine() (*engine.Engine, error) {
	b, err := clip.New()
	if err != nil {
		return nil, fmt.Errorf("clipboard backend: %w", err)
	}
	return engine.New(b), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipt %s\n", Version)
		},
	}
}
