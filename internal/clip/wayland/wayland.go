//go:build linux

// Package wayland implements just enough of the Wayland wire protocol to own
// the clipboard selection through zwlr_data_control_manager_v1, offering
// several MIME types from a single data source. That is the only way to
// publish a multi-format item on Wayland without a compositor-side manager;
// wl-copy can only carry one type per process.
//
// No Wayland client library is involved. The protocol is a stream of
// little-endian framed messages over the compositor's Unix socket, with
// pipe file descriptors delivered via SCM_RIGHTS when a client pastes.
package wayland

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

var le = binary.LittleEndian

// Client-assigned object IDs. wl_display is always 1; the rest are ours to
// choose from the client range.
const (
	objDisplay  uint32 = 1
	objRegistry uint32 = 2
	objSyncA    uint32 = 3
	objSeat     uint32 = 4
	objManager  uint32 = 5 // zwlr_data_control_manager_v1
	objSource   uint32 = 6 // zwlr_data_control_source_v1
	objDevice   uint32 = 7 // zwlr_data_control_device_v1
	objSyncB    uint32 = 8
)

type conn struct {
	fd      int
	buf     []byte
	pending []int // fds received via SCM_RIGHTS, in arrival order
}

func dial() (*conn, error) {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		return nil, fmt.Errorf("wayland: XDG_RUNTIME_DIR not set")
	}
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = "wayland-0"
	}
	path := filepath.Join(dir, display)

	fd, err := syscall.Socket(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, err
	}
	if err := syscall.Connect(fd, &syscall.SockaddrUnix{Name: path}); err != nil {
		_ = syscall.Close(fd)
		return nil, fmt.Errorf("wayland: connect %s: %w", path, err)
	}
	return &conn{fd: fd}, nil
}

func (c *conn) close() { _ = syscall.Close(c.fd) }

// request writes one framed request: object id, opcode packed with size,
// then the argument bytes.
func (c *conn) request(obj uint32, opcode uint16, args ...[]byte) error {
	var argLen int
	for _, a := range args {
		argLen += len(a)
	}
	size := 8 + argLen
	buf := make([]byte, 8, size)
	le.PutUint32(buf[0:], obj)
	le.PutUint32(buf[4:], uint32(opcode)|uint32(size)<<16)
	for _, a := range args {
		buf = append(buf, a...)
	}
	_, err := syscall.Write(c.fd, buf)
	return err
}

// event reads the next complete event. fd is -1 unless the compositor passed
// a descriptor with this message.
func (c *conn) event() (obj uint32, opcode uint16, payload []byte, fd int, err error) {
	fd = -1
	for {
		if len(c.buf) >= 8 {
			head := le.Uint32(c.buf[4:8])
			size := int(head >> 16)
			if size >= 8 && len(c.buf) >= size {
				obj = le.Uint32(c.buf[0:4])
				opcode = uint16(head & 0xffff)
				payload = append([]byte(nil), c.buf[8:size]...)
				c.buf = c.buf[size:]
				if len(c.pending) > 0 {
					fd = c.pending[0]
					c.pending = c.pending[1:]
				}
				return
			}
		}

		data := make([]byte, 4096)
		oob := make([]byte, syscall.CmsgSpace(8*4))
		n, oobn, _, _, rerr := syscall.Recvmsg(c.fd, data, oob, 0)
		if rerr != nil {
			err = rerr
			return
		}
		if n == 0 {
			err = fmt.Errorf("wayland: connection closed")
			return
		}
		c.buf = append(c.buf, data[:n]...)

		if oobn > 0 {
			if scms, perr := syscall.ParseSocketControlMessage(oob[:oobn]); perr == nil {
				for _, scm := range scms {
					if fds, ferr := syscall.ParseUnixRights(&scm); ferr == nil {
						c.pending = append(c.pending, fds...)
					}
				}
			}
		}
	}
}

func argUint(v uint32) []byte {
	b := make([]byte, 4)
	le.PutUint32(b, v)
	return b
}

// argString encodes a protocol string: length including the NUL terminator,
// the bytes, then padding to 4-byte alignment.
func argString(s string) []byte {
	raw := append([]byte(s), 0)
	padded := (len(raw) + 3) &^ 3
	b := make([]byte, 4+padded)
	le.PutUint32(b, uint32(len(raw)))
	copy(b[4:], raw)
	return b
}

func parseString(data []byte) (string, error) {
	if len(data) < 4 {
		return "", fmt.Errorf("wayland: truncated string length")
	}
	n := int(le.Uint32(data[:4]))
	if n == 0 {
		return "", nil
	}
	if len(data[4:]) < n {
		return "", fmt.Errorf("wayland: truncated string data")
	}
	return string(data[4 : 4+n-1]), nil // strip NUL
}

// Own claims the clipboard selection and serves items until another client
// takes the selection over (the compositor then cancels our source) or the
// compositor goes away. It blocks for that whole time.
func Own(items map[string][]byte) error {
	c, err := dial()
	if err != nil {
		return err
	}
	defer c.close()

	seat, err := c.bindGlobals()
	if err != nil {
		return err
	}

	// One data source offering every representation, then set_selection,
	// so the multi-format item becomes visible atomically.
	if err := c.request(objManager, 0 /*create_data_source*/, argUint(objSource)); err != nil {
		return err
	}
	for id := range items {
		if err := c.request(objSource, 0 /*offer*/, argString(id)); err != nil {
			return err
		}
	}
	if err := c.request(objManager, 1 /*get_data_device*/, argUint(objDevice), argUint(seat)); err != nil {
		return err
	}
	if err := c.request(objDevice, 0 /*set_selection*/, argUint(objSource)); err != nil {
		return err
	}
	if err := c.roundtrip(objSyncB); err != nil {
		return err
	}

	for {
		obj, opcode, payload, fd, err := c.event()
		if err != nil {
			// Compositor went away; nothing left to serve.
			return nil
		}
		if obj != objSource {
			closeIfValid(fd)
			continue
		}
		switch opcode {
		case 0: // send(mime_type, fd)
			id, perr := parseString(payload)
			if fd >= 0 {
				if data, ok := items[id]; perr == nil && ok {
					_, _ = syscall.Write(fd, data)
				}
				_ = syscall.Close(fd)
			}
		case 1: // cancelled: someone else owns the selection now
			return nil
		}
	}
}

// bindGlobals walks the registry, binds wl_seat and the data-control manager,
// and returns the bound seat object ID.
func (c *conn) bindGlobals() (uint32, error) {
	if err := c.request(objDisplay, 1 /*get_registry*/, argUint(objRegistry)); err != nil {
		return 0, err
	}
	if err := c.request(objDisplay, 0 /*sync*/, argUint(objSyncA)); err != nil {
		return 0, err
	}

	var seatName, managerName uint32
	var haveSeat, haveManager bool
	for done := false; !done; {
		obj, opcode, payload, fd, err := c.event()
		if err != nil {
			return 0, err
		}
		closeIfValid(fd)

		switch {
		case obj == objRegistry && opcode == 0: // global
			if len(payload) < 4 {
				continue
			}
			name := le.Uint32(payload[:4])
			iface, perr := parseString(payload[4:])
			if perr != nil {
				continue
			}
			switch iface {
			case "wl_seat":
				seatName, haveSeat = name, true
			case "zwlr_data_control_manager_v1":
				managerName, haveManager = name, true
			}
		case obj == objSyncA && opcode == 0: // done
			done = true
		}
	}

	if !haveSeat {
		return 0, fmt.Errorf("wayland: no wl_seat global")
	}
	if !haveManager {
		return 0, fmt.Errorf("wayland: compositor does not expose zwlr_data_control_manager_v1")
	}

	// wl_registry.bind inlines the new_id as [name][interface][version][id].
	if err := c.request(objRegistry, 0 /*bind*/, argUint(seatName),
		argString("wl_seat"), argUint(1), argUint(objSeat)); err != nil {
		return 0, err
	}
	if err := c.request(objRegistry, 0 /*bind*/, argUint(managerName),
		argString("zwlr_data_control_manager_v1"), argUint(2), argUint(objManager)); err != nil {
		return 0, err
	}
	return objSeat, nil
}

// roundtrip issues wl_display.sync on cb and drains events until its done
// callback arrives, confirming the compositor processed everything before it.
func (c *conn) roundtrip(cb uint32) error {
	if err := c.request(objDisplay, 0 /*sync*/, argUint(cb)); err != nil {
		return err
	}
	for {
		obj, opcode, _, fd, err := c.event()
		if err != nil {
			return err
		}
		closeIfValid(fd)
		if obj == cb && opcode == 0 {
			return nil
		}
	}
}

func closeIfValid(fd int) {
	if fd >= 0 {
		_ = syscall.Close(fd)
	}
}
