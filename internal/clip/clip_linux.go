//go:build linux

package clip

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"

	"golang.design/x/clipboard"

	"go.klb.dev/clipt/internal/clip/wayland"
	"go.klb.dev/clipt/internal/ctype"
)

// New picks the richest backend the session supports: wl-clipboard under
// Wayland, xclip under X11, then golang.design/x/clipboard as a last resort
// (text and PNG only, no enumeration).
func New() (Backend, error) {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		if _, err := exec.LookPath("wl-paste"); err == nil {
			return &waylandBackend{}, nil
		}
		slog.Warn("WAYLAND_DISPLAY set but wl-clipboard is not installed")
	}
	if os.Getenv("DISPLAY") != "" {
		if _, err := exec.LookPath("xclip"); err == nil {
			return &x11Backend{}, nil
		}
		slog.Warn("DISPLAY set but xclip is not installed")
	}
	if err := clipboard.Init(); err == nil {
		return &basicBackend{}, nil
	}
	return nil, fmt.Errorf("no usable display session: %w", ErrUnavailable)
}

// ServeSelection claims the Wayland clipboard and serves every representation
// until another process takes the selection over. It blocks; callers run it
// in a detached child process.
func ServeSelection(items map[string][]byte) error {
	return wayland.Own(items)
}

// ── Wayland ────────────────────────────────────────────────────────────────

type waylandBackend struct{}

func (b *waylandBackend) Name() string             { return "Wayland (wl-clipboard)" }
func (b *waylandBackend) Platform() ctype.Platform { return ctype.Wayland }

func (b *waylandBackend) Enumerate() ([]string, error) {
	out, err := runOut(exec.Command("wl-paste", "--list-types"))
	if err != nil {
		// wl-paste exits non-zero for an empty clipboard.
		if isExitError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("wl-paste --list-types: %w", err)
	}
	return splitLines(out), nil
}

func (b *waylandBackend) Read(id string) ([]byte, error) {
	out, err := runOut(exec.Command("wl-paste", "--no-newline", "--type", id))
	if err != nil {
		// Non-zero exit means no offer of that type (or empty clipboard).
		if isExitError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("wl-paste --type %s: %w", id, err)
	}
	return out, nil
}

// Write publishes a single representation through wl-copy, and anything more
// through a detached child of this binary that owns the selection via
// zwlr_data_control_v1, offering every MIME type from one source.
func (b *waylandBackend) Write(items map[string][]byte) error {
	if len(items) == 0 {
		return nil
	}
	if len(items) == 1 {
		for id, data := range items {
			return runIn(data, exec.Command("wl-copy", "--type", id))
		}
	}
	return spawnSelectionOwner(items)
}

func (b *waylandBackend) Close() {}

// spawnSelectionOwner re-execs this binary as a detached selection owner.
// The child holds the selection until another clipboard write cancels it;
// the parent returns immediately, which is the usual wl-copy behaviour.
func spawnSelectionOwner(items map[string][]byte) error {
	payload, err := EncodeSelection(items)
	if err != nil {
		return err
	}
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	// The payload goes over an explicit pipe written before returning, so the
	// parent cannot exit with the transfer still in flight.
	pr, pw, err := os.Pipe()
	if err != nil {
		return err
	}
	defer pr.Close()

	cmd := exec.Command(exe, "__serve-selection")
	cmd.Stdin = pr
	// New session so the child survives the parent exiting.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		return err
	}
	if _, err := pw.Write(payload); err != nil {
		_ = pw.Close()
		return fmt.Errorf("send selection payload: %w", err)
	}
	return pw.Close()
}

// ── X11 ────────────────────────────────────────────────────────────────────

// metaTargets are ICCCM bookkeeping atoms that every selection owner offers;
// they are not content representations and are dropped from enumeration.
var metaTargets = map[string]struct{}{
	"TARGETS":      {},
	"TIMESTAMP":    {},
	"MULTIPLE":     {},
	"SAVE_TARGETS": {},
}

type x11Backend struct{}

func (b *x11Backend) Name() string             { return "X11 (xclip)" }
func (b *x11Backend) Platform() ctype.Platform { return ctype.X11 }

func (b *x11Backend) Enumerate() ([]string, error) {
	out, err := runOut(exec.Command("xclip", "-selection", "clipboard", "-o", "-t", "TARGETS"))
	if err != nil {
		if isExitError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("xclip targets: %w", err)
	}
	var ids []string
	for _, id := range splitLines(out) {
		if _, meta := metaTargets[id]; !meta {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (b *x11Backend) Read(id string) ([]byte, error) {
	out, err := runOut(exec.Command("xclip", "-selection", "clipboard", "-o", "-t", id))
	if err != nil {
		if isExitError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("xclip -t %s: %w", id, err)
	}
	return out, nil
}

// Write keeps a single representation: one xclip process owns one target set,
// and a second invocation would replace the first. The text representation is
// preferred because it is what most X11 clients request.
func (b *x11Backend) Write(items map[string][]byte) error {
	if len(items) == 0 {
		return nil
	}
	id := pickX11Representation(items)
	if len(items) > 1 {
		slog.Warn("x11 backend stores a single representation", "kept", id, "given", len(items))
	}
	return runIn(items[id], exec.Command("xclip", "-in", "-selection", "clipboard", "-t", id))
}

func (b *x11Backend) Close() {}

func pickX11Representation(items map[string][]byte) string {
	ids := make([]string, 0, len(items))
	for id := range items {
		if a, ok := ctype.ReverseLookup(id, ctype.X11); ok && a == ctype.Text {
			return id
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids[0]
}

// ── basic (golang.design/x/clipboard) ──────────────────────────────────────

// basicBackend speaks X11 directly through golang.design/x/clipboard.
// It moves only text and PNG and cannot enumerate, exercising the degraded
// list-types path.
type basicBackend struct{}

func (b *basicBackend) Name() string             { return "basic (golang.design/x/clipboard)" }
func (b *basicBackend) Platform() ctype.Platform { return ctype.X11 }

func (b *basicBackend) Enumerate() ([]string, error) {
	return nil, ErrEnumerateUnsupported
}

func (b *basicBackend) Read(id string) ([]byte, error) {
	switch {
	case isTextID(id):
		return clipboard.Read(clipboard.FmtText), nil
	case id == "image/png":
		return clipboard.Read(clipboard.FmtImage), nil
	}
	return nil, nil
}

// Write keeps a single representation: each clipboard.Write replaces the
// whole clipboard, so text is preferred, then PNG.
func (b *basicBackend) Write(items map[string][]byte) error {
	if len(items) == 0 {
		return nil
	}
	if len(items) > 1 {
		slog.Warn("basic backend stores a single representation", "given", len(items))
	}
	var textData, pngData []byte
	for id, data := range items {
		switch {
		case isTextID(id):
			textData = data
		case id == "image/png":
			pngData = data
		default:
			return fmt.Errorf("basic backend cannot store %q", id)
		}
	}
	if textData != nil {
		clipboard.Write(clipboard.FmtText, textData)
		return nil
	}
	clipboard.Write(clipboard.FmtImage, pngData)
	return nil
}

func (b *basicBackend) Close() {}

func isTextID(id string) bool {
	a, ok := ctype.ReverseLookup(id, ctype.X11)
	return ok && a == ctype.Text
}

// ── exec helpers ───────────────────────────────────────────────────────────

func runOut(cmd *exec.Cmd) ([]byte, error) {
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && errb.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(errb.String()))
		}
		return nil, err
	}
	return out.Bytes(), nil
}

func runIn(data []byte, cmd *exec.Cmd) error {
	cmd.Stdin = bytes.NewReader(data)
	var errb bytes.Buffer
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		if errb.Len() > 0 {
			return fmt.Errorf("%w: %s", err, strings.TrimSpace(errb.String()))
		}
		return err
	}
	return nil
}

func isExitError(err error) bool {
	var ee *exec.ExitError
	return errors.As(err, &ee)
}

func splitLines(out []byte) []string {
	var lines []string
	for _, l := range strings.Split(string(out), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
