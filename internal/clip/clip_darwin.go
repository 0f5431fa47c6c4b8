//go:build darwin

package clip

// #cgo CFLAGS: -x objective-c
// #cgo LDFLAGS: -framework Cocoa
// #import <Cocoa/Cocoa.h>
// #include <stdlib.h>
// #include <string.h>
//
// int clipt_types(char ***out) {
//     NSArray<NSPasteboardType> *types = [[NSPasteboard generalPasteboard] types];
//     int n = (int)[types count];
//     if (n == 0) { *out = NULL; return 0; }
//     char **arr = malloc(sizeof(char *) * n);
//     for (int i = 0; i < n; i++) {
//         arr[i] = strdup([[types objectAtIndex:i] UTF8String]);
//     }
//     *out = arr;
//     return n;
// }
//
// void clipt_free_types(char **arr, int n) {
//     for (int i = 0; i < n; i++) free(arr[i]);
//     free(arr);
// }
//
// void *clipt_data_for_type(const char *type, int *len) {
//     NSString *t = [NSString stringWithUTF8String:type];
//     NSData *d = [[NSPasteboard generalPasteboard] dataForType:t];
//     if (d == nil) { *len = 0; return NULL; }
//     *len = (int)[d length];
//     void *buf = malloc(*len > 0 ? *len : 1);
//     memcpy(buf, [d bytes], *len);
//     return buf;
// }
//
// int clipt_write(const char **types, const void **datas, const int *lens, int n) {
//     NSPasteboardItem *item = [[NSPasteboardItem alloc] init];
//     for (int i = 0; i < n; i++) {
//         NSData *d = [NSData dataWithBytes:datas[i] length:lens[i]];
//         NSString *t = [NSString stringWithUTF8String:types[i]];
//         if (![item setData:d forType:t]) return -1;
//     }
//     NSPasteboard *pb = [NSPasteboard generalPasteboard];
//     [pb clearContents];
//     return [pb writeObjects:@[item]] ? 0 : -1;
// }
import "C"

import (
	"fmt"
	"unsafe"

	"go.klb.dev/clipt/internal/ctype"
)

type darwinBackend struct{}

// New returns the macOS clipboard backend. NSPasteboard exposes the full UTI
// set of the current item, so enumeration is always supported here.
func New() (Backend, error) {
	return &darwinBackend{}, nil
}

func (b *darwinBackend) Name() string             { return "macOS NSPasteboard" }
func (b *darwinBackend) Platform() ctype.Platform { return ctype.Darwin }

func (b *darwinBackend) Enumerate() ([]string, error) {
	var arr **C.char
	n := C.clipt_types(&arr)
	if n == 0 {
		return nil, nil
	}
	defer C.clipt_free_types(arr, n)

	ids := make([]string, 0, int(n))
	cstrs := unsafe.Slice(arr, int(n))
	for _, cs := range cstrs {
		ids = append(ids, C.GoString(cs))
	}
	return ids, nil
}

func (b *darwinBackend) Read(id string) ([]byte, error) {
	ct := C.CString(id)
	defer C.free(unsafe.Pointer(ct))

	var n C.int
	buf := C.clipt_data_for_type(ct, &n)
	if buf == nil {
		return nil, nil
	}
	defer C.free(buf)
	return C.GoBytes(buf, n), nil
}

// Write publishes all representations as one NSPasteboardItem, so the write
// is atomic at the pasteboard level: observers see either the previous item
// or the complete new one. Payloads are staged in C memory first; the cgo
// pointer check forbids handing C a pointer into memory that itself holds
// Go pointers.
func (b *darwinBackend) Write(items map[string][]byte) error {
	n := len(items)
	if n == 0 {
		return nil
	}

	types := make([]*C.char, 0, n)
	datas := make([]unsafe.Pointer, 0, n)
	lens := make([]C.int, 0, n)
	defer func() {
		for _, t := range types {
			C.free(unsafe.Pointer(t))
		}
		for _, d := range datas {
			C.free(d)
		}
	}()

	for id, data := range items {
		buf := C.malloc(C.size_t(len(data) + 1))
		if len(data) > 0 {
			C.memcpy(buf, unsafe.Pointer(&data[0]), C.size_t(len(data)))
		}
		types = append(types, C.CString(id))
		datas = append(datas, buf)
		lens = append(lens, C.int(len(data)))
	}

	rc := C.clipt_write(
		(**C.char)(unsafe.Pointer(&types[0])),
		(*unsafe.Pointer)(unsafe.Pointer(&datas[0])),
		(*C.int)(unsafe.Pointer(&lens[0])),
		C.int(n),
	)
	if rc != 0 {
		return fmt.Errorf("pasteboard write failed (%d types)", n)
	}
	return nil
}

func (b *darwinBackend) Close() {}

// ServeSelection is the Wayland selection-owner entry point; it has no
// meaning on macOS.
func ServeSelection(map[string][]byte) error { return ErrUnavailable }
