package main

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipt/internal/cliperr"
	"go.klb.dev/clipt/internal/logging"
	"go.klb.dev/clipt/internal/message"
	"go.klb.dev/clipt/internal/resolve"
)

func newPasteCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Print clipboard data to stdout",
		Long: `Print clipboard data to stdout.

Without flags, paste prints the text representation. -t/--type selects
another portable alias; --system-type selects a native identifier verbatim.
An alias resolves to a preference-ordered list of native identifiers and the
first one the clipboard holds wins, so "-t text" still works when the
clipboard offers only a legacy plain-text format.

Binary data (anything that is not valid UTF-8) is refused when stdout is a
terminal; pipe the output or pass --binary always to override.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindViper(cmd, v)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runPaste(v)
		},
	}

	f := cmd.Flags()
	f.StringP("type", "t", "", "portable type alias: url|html|pdf|png|rtf|text")
	f.String("system-type", "", "native type identifier, passed through verbatim")
	f.String("binary", "auto", "allow non-UTF-8 output: auto|always|never")
	f.String("server", "", "daemon address (host:port); default is the local socket when running")
	f.String("token", "", "shared secret for --server")
	cmd.MarkFlagsMutuallyExclusive("type", "system-type")
	addConfigFlag(cmd)
	addLoggingFlags(cmd)
	return cmd
}

func runPaste(v *viper.Viper) error {
	setupLogging(v)

	spec, err := resolve.FromCLI(v.GetString("type"), v.GetString("system-type"))
	if err != nil {
		return err
	}

	var data []byte
	if useDaemon(v) {
		typ, system := specifierWire(spec)
		resp, err := roundTrip(v, &message.Request{Op: message.OpPaste, Type: typ, System: system})
		if err != nil {
			return err
		}
		if data, err = resp.PasteData(); err != nil {
			return err
		}
	} else {
		eng, err := newLocalEngine()
		if err != nil {
			return err
		}
		defer eng.Backend().Close()
		if data, err = eng.Paste(spec); err != nil {
			return err
		}
	}

	return writeOutput(data, v.GetString("binary"))
}

// writeOutput writes data to stdout, refusing binary payloads that would
// garble an interactive terminal unless the user opted in.
func writeOutput(data []byte, binaryMode string) error {
	var allowed bool
	switch binaryMode {
	case "always":
		allowed = true
	case "never":
		allowed = false
	case "auto", "":
		allowed = !logging.IsTTY(os.Stdout)
	default:
		return fmt.Errorf("%w: invalid --binary value %q", cliperr.ErrUsage, binaryMode)
	}
	if !allowed && !utf8.Valid(data) {
		return fmt.Errorf("%w: refusing to write binary data to a terminal (use --binary always)", cliperr.ErrUsage)
	}
	_, err := os.Stdout.Write(data)
	return err
}
