package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/clipt/internal/clip"
)

// newServeSelectionCmd is the re-exec entry point for Wayland selection
// ownership. A wlr data-control source must stay alive to answer receive
// requests, so copy spawns a detached child running this command with the
// encoded items on stdin. It exits when another client takes the selection.
func newServeSelectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "__serve-selection",
		Short:  "Own the Wayland selection until replaced (internal)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read selection payload: %w", err)
			}
			items, err := clip.DecodeSelection(raw)
			if err != nil {
				return err
			}
			return clip.ServeSelection(items)
		},
	}
}
