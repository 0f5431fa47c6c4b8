//go:build windows

package clip

// #cgo LDFLAGS: -luser32 -lkernel32
//
// #include <windows.h>
// #include <stdlib.h>
// #include <string.h>
//
// static int clipt_format_count(void) { return CountClipboardFormats(); }
//
// static int clipt_formats(UINT *out, int max) {
//     if (!OpenClipboard(NULL)) return -1;
//     int n = 0;
//     UINT fmt = 0;
//     while ((fmt = EnumClipboardFormats(fmt)) != 0 && n < max) {
//         out[n++] = fmt;
//     }
//     CloseClipboard();
//     return n;
// }
//
// static int clipt_format_name(UINT fmt, char *buf, int buflen) {
//     return GetClipboardFormatNameA(fmt, buf, buflen);
// }
//
// static UINT clipt_register(const char *name) {
//     return RegisterClipboardFormatA(name);
// }
//
// static void *clipt_read(UINT fmt, int *len) {
//     *len = 0;
//     if (!OpenClipboard(NULL)) return NULL;
//     HANDLE h = GetClipboardData(fmt);
//     if (h == NULL) { CloseClipboard(); return NULL; }
//     SIZE_T sz = GlobalSize(h);
//     void *src = GlobalLock(h);
//     if (src == NULL) { CloseClipboard(); return NULL; }
//     void *buf = malloc(sz > 0 ? sz : 1);
//     memcpy(buf, src, sz);
//     GlobalUnlock(h);
//     CloseClipboard();
//     *len = (int)sz;
//     return buf;
// }
//
// static int clipt_write_open(void) {
//     if (!OpenClipboard(NULL)) return -1;
//     if (!EmptyClipboard()) { CloseClipboard(); return -1; }
//     return 0;
// }
//
// static int clipt_write_one(UINT fmt, const void *data, int len) {
//     HGLOBAL h = GlobalAlloc(GMEM_MOVEABLE, len > 0 ? len : 1);
//     if (h == NULL) return -1;
//     void *dst = GlobalLock(h);
//     if (dst == NULL) { GlobalFree(h); return -1; }
//     memcpy(dst, data, len);
//     GlobalUnlock(h);
//     if (SetClipboardData(fmt, h) == NULL) { GlobalFree(h); return -1; }
//     return 0;
// }
//
// static void clipt_write_close(void) { CloseClipboard(); }
import "C"

import (
	"fmt"
	"unicode/utf16"
	"unsafe"

	"go.klb.dev/clipt/internal/ctype"
)

// cfUnicodeText is the only predefined format the registry maps an alias to;
// its payload is UTF-16LE on the clipboard but UTF-8 at the Backend boundary.
const cfUnicodeText = 13

// Predefined formats have numeric IDs and no registered name, so
// GetClipboardFormatName fails for them. This table covers the ones worth
// showing by name during enumeration.
var predefinedNames = map[uint32]string{
	1:  "CF_TEXT",
	2:  "CF_BITMAP",
	8:  "CF_DIB",
	13: "CF_UNICODETEXT",
	15: "CF_HDROP",
	17: "CF_DIBV5",
}

type windowsBackend struct{}

// New returns the Windows clipboard backend.
func New() (Backend, error) {
	return &windowsBackend{}, nil
}

func (b *windowsBackend) Name() string             { return "Windows Clipboard" }
func (b *windowsBackend) Platform() ctype.Platform { return ctype.Windows }

func (b *windowsBackend) Enumerate() ([]string, error) {
	// CountClipboardFormats races with other writers between the count and the
	// walk, so size with slack and retry larger whenever the buffer fills: a
	// full buffer is indistinguishable from a truncated one.
	size := int(C.clipt_format_count()) + 8
	for {
		buf := make([]C.UINT, size)
		n := C.clipt_formats(&buf[0], C.int(size))
		if n < 0 {
			return nil, fmt.Errorf("open clipboard: %w", ErrUnavailable)
		}
		if int(n) == size {
			size *= 2
			continue
		}
		ids := make([]string, 0, int(n))
		for _, f := range buf[:n] {
			ids = append(ids, formatName(uint32(f)))
		}
		return ids, nil
	}
}

func (b *windowsBackend) Read(id string) ([]byte, error) {
	f := formatID(id)
	if f == 0 {
		return nil, fmt.Errorf("register clipboard format %q failed", id)
	}

	var n C.int
	buf := C.clipt_read(f, &n)
	if buf == nil {
		return nil, nil
	}
	defer C.free(buf)

	data := C.GoBytes(buf, n)
	if f == cfUnicodeText {
		data = utf16BytesToUTF8(data)
	}
	return data, nil
}

// Write performs the whole multi-format write inside one
// OpenClipboard/EmptyClipboard/.../CloseClipboard window. Other processes
// cannot open the clipboard while it is held, so all representations become
// visible together.
func (b *windowsBackend) Write(items map[string][]byte) error {
	if len(items) == 0 {
		return nil
	}
	if C.clipt_write_open() != 0 {
		return fmt.Errorf("open clipboard for write: %w", ErrUnavailable)
	}
	defer C.clipt_write_close()

	for id, data := range items {
		f := formatID(id)
		if f == 0 {
			return fmt.Errorf("register clipboard format %q failed", id)
		}
		if f == cfUnicodeText {
			data = utf8ToUTF16Bytes(data)
		}
		var p unsafe.Pointer
		if len(data) > 0 {
			p = unsafe.Pointer(&data[0])
		} else {
			z := []byte{0}
			p = unsafe.Pointer(&z[0])
		}
		if C.clipt_write_one(f, p, C.int(len(data))) != 0 {
			return fmt.Errorf("set clipboard data for %q failed", id)
		}
	}
	return nil
}

func (b *windowsBackend) Close() {}

// formatID maps a native identifier string to a clipboard format handle.
// Predefined CF_* names resolve through the table, everything else through
// RegisterClipboardFormat (which is idempotent for existing names).
func formatID(id string) C.UINT {
	for f, name := range predefinedNames {
		if name == id {
			return C.UINT(f)
		}
	}
	cs := C.CString(id)
	defer C.free(unsafe.Pointer(cs))
	return C.clipt_register(cs)
}

func formatName(f uint32) string {
	if name, ok := predefinedNames[f]; ok {
		return name
	}
	var buf [256]C.char
	n := C.clipt_format_name(C.UINT(f), &buf[0], C.int(len(buf)))
	if n > 0 {
		return C.GoStringN(&buf[0], n)
	}
	return fmt.Sprintf("CF_%d", f)
}

func utf16BytesToUTF8(b []byte) []byte {
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		c := uint16(b[i]) | uint16(b[i+1])<<8
		if c == 0 {
			break
		}
		u = append(u, c)
	}
	return []byte(string(utf16.Decode(u)))
}

func utf8ToUTF16Bytes(b []byte) []byte {
	u := utf16.Encode([]rune(string(b)))
	out := make([]byte, 0, 2*len(u)+2)
	for _, c := range u {
		out = append(out, byte(c), byte(c>>8))
	}
	return append(out, 0, 0)
}

// ServeSelection is the Wayland selection-owner entry point; it has no
// meaning on Windows.
func ServeSelection(map[string][]byte) error { return ErrUnavailable }
