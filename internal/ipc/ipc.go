// Package ipc provides the local socket channel that paste/copy/list-types
// use to reach a running clipt daemon instead of opening the OS clipboard
// themselves. The daemon listens on a Unix domain socket; CLI invocations
// probe for it and fall back to direct backend access when it is absent.
package ipc

import (
	"net"
	"os"
	"path/filepath"
)

// SocketPath returns the path of the daemon socket.
//
//	$CLIPT_SOCKET if set, else
//	$XDG_RUNTIME_DIR/clipt.sock, else
//	$TMPDIR/clipt.sock
func SocketPath() string {
	if s := os.Getenv("CLIPT_SOCKET"); s != "" {
		return s
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "clipt.sock")
	}
	return filepath.Join(os.TempDir(), "clipt.sock")
}

// IsRunning reports whether a clipt daemon appears to be listening on the
// socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := net.Dial("unix", SocketPath())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Dial connects to the daemon socket.
func Dial() (net.Conn, error) {
	return net.Dial("unix", SocketPath())
}

// Listen creates a net.Listener on the socket path, removing any stale
// socket left by a crashed daemon first.
func Listen() (net.Listener, error) {
	path := SocketPath()
	_ = os.Remove(path)
	return net.Listen("unix", path)
}
