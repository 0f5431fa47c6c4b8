package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipt/internal/clip"
	"go.klb.dev/clipt/internal/message"
)

func newListTypesCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "list-types",
		Short: "List the native types the clipboard currently holds",
		Long: `List the native types the clipboard currently holds, one per line,
with the portable alias when one maps back to it.

Not every backend can enumerate; in that case a warning is logged and
nothing is printed, which is distinct from an empty clipboard. With --json
the output is an object {"degraded": bool, "types": [...]} so consumers can
tell the two apart as well.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindViper(cmd, v)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runListTypes(v)
		},
	}

	cmd.Flags().Bool("json", false, "emit the list as JSON")
	cmd.Flags().String("server", "", "daemon address (host:port); default is the local socket when running")
	cmd.Flags().String("token", "", "shared secret for --server")
	addConfigFlag(cmd)
	addLoggingFlags(cmd)
	return cmd
}

func runListTypes(v *viper.Viper) error {
	setupLogging(v)

	var (
		entries  []message.TypeEntry
		degraded bool
	)
	if useDaemon(v) {
		resp, err := roundTrip(v, &message.Request{Op: message.OpListTypes})
		if err != nil {
			return err
		}
		degraded = resp.Degraded
		entries = resp.Types
	} else {
		eng, err := newLocalEngine()
		if err != nil {
			return err
		}
		defer eng.Backend().Close()

		infos, err := eng.ListTypes()
		switch {
		case errors.Is(err, clip.ErrEnumerateUnsupported):
			degraded = true
		case err != nil:
			return err
		default:
			for _, info := range infos {
				e := message.TypeEntry{ID: info.ID}
				if info.HasAlias {
					e.Alias = info.Alias.String()
				}
				entries = append(entries, e)
			}
		}
	}

	if degraded {
		slog.Warn("clipboard backend cannot enumerate types")
	}
	return writeTypeListing(os.Stdout, entries, degraded, v.GetBool("json"))
}

// typeListing is the --json output shape. The degraded flag keeps "cannot
// enumerate" distinguishable from an empty clipboard for machine consumers.
type typeListing struct {
	Degraded bool                `json:"degraded"`
	Types    []message.TypeEntry `json:"types"`
}

func writeTypeListing(w io.Writer, entries []message.TypeEntry, degraded, asJSON bool) error {
	if asJSON {
		if entries == nil {
			entries = []message.TypeEntry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(typeListing{Degraded: degraded, Types: entries})
	}
	if degraded {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\n", e.ID, e.Alias)
	}
	return tw.Flush()
}
