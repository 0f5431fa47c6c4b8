package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipt/internal/cliperr"
	"go.klb.dev/clipt/internal/ctype"
	"go.klb.dev/clipt/internal/engine"
	"go.klb.dev/clipt/internal/message"
	"go.klb.dev/clipt/internal/resolve"
)

func newCopyCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Write stdin to the clipboard",
		Long: `Write stdin to the clipboard.

By default stdin becomes the text representation; -t/--type or --system-type
select a different one. With --json, stdin is a JSON object mapping type
specifiers to values, and every entry is placed on the clipboard as one item
with multiple representations:

  {"html": "<b>hi</b>", "text": "hi"}

A key is a portable alias unless prefixed with "@", which passes the rest
through as a native identifier ("@public.tiff"). JSON strings cannot carry
arbitrary bytes, so binary values must be base64-encoded and flagged with
--base64 (which then applies to every value in the object).

Nothing is written unless every specifier resolves; a bad entry leaves the
clipboard untouched.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindViper(cmd, v)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCopy(v, os.Stdin)
		},
	}

	f := cmd.Flags()
	f.StringP("type", "t", "", "portable type alias: url|html|pdf|png|rtf|text")
	f.String("system-type", "", "native type identifier, passed through verbatim")
	f.Bool("json", false, "read a JSON object of type/value pairs from stdin")
	f.Bool("base64", false, "with --json, values are base64-encoded")
	f.String("server", "", "daemon address (host:port); default is the local socket when running")
	f.String("token", "", "shared secret for --server")
	cmd.MarkFlagsMutuallyExclusive("type", "system-type")
	cmd.MarkFlagsMutuallyExclusive("type", "json")
	cmd.MarkFlagsMutuallyExclusive("system-type", "json")
	addConfigFlag(cmd)
	addLoggingFlags(cmd)
	return cmd
}

func runCopy(v *viper.Viper, in io.Reader) error {
	setupLogging(v)

	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	var items []engine.Item
	if v.GetBool("json") {
		if items, err = parseJSONItems(raw, v.GetBool("base64")); err != nil {
			return err
		}
	} else {
		spec, err := resolve.FromCLI(v.GetString("type"), v.GetString("system-type"))
		if err != nil {
			return err
		}
		if spec == nil {
			spec = &resolve.Specifier{Alias: ctype.Text}
		}
		items = []engine.Item{{Spec: *spec, Data: raw}}
	}

	if useDaemon(v) {
		req := &message.Request{Op: message.OpCopy}
		for _, it := range items {
			typ, system := specifierWire(&it.Spec)
			req.Items = append(req.Items, message.NewItem(typ, system, it.Data))
		}
		_, err := roundTrip(v, req)
		return err
	}

	eng, err := newLocalEngine()
	if err != nil {
		return err
	}
	defer eng.Backend().Close()
	return eng.Copy(items)
}

// parseJSONItems decodes the --json input object. Keys are resolved with the
// "@" escape and values decoded up front so that any error is reported before
// the clipboard is touched; errors across entries are aggregated.
func parseJSONItems(raw []byte, b64 bool) ([]engine.Item, error) {
	var obj map[string]string
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: parse JSON input: %v", cliperr.ErrUsage, err)
	}
	if len(obj) == 0 {
		return nil, fmt.Errorf("%w: JSON input has no entries", cliperr.ErrUsage)
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		items []engine.Item
		errs  []error
	)
	for _, key := range keys {
		spec, err := resolve.FromKey(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		data := []byte(obj[key])
		if b64 {
			if data, err = base64.StdEncoding.DecodeString(obj[key]); err != nil {
				errs = append(errs, fmt.Errorf("decode %q: %w", key, err))
				continue
			}
		}
		items = append(items, engine.Item{Spec: spec, Data: data})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("%w: %w", cliperr.ErrUsage, err)
	}
	return items, nil
}
