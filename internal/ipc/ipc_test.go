//go:build !windows

package ipc

import (
	"net"
	"path/filepath"
	"testing"
)

func TestSocketPathOverride(t *testing.T) {
	t.Setenv("CLIPT_SOCKET", "/run/custom.sock")
	if got := SocketPath(); got != "/run/custom.sock" {
		t.Errorf("SocketPath() = %q", got)
	}
}

func TestSocketPathRuntimeDir(t *testing.T) {
	t.Setenv("CLIPT_SOCKET", "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := SocketPath(); got != filepath.Join("/run/user/1000", "clipt.sock") {
		t.Errorf("SocketPath() = %q", got)
	}
}

func TestProbeAndDial(t *testing.T) {
	t.Setenv("CLIPT_SOCKET", filepath.Join(t.TempDir(), "clipt.sock"))

	if IsRunning() {
		t.Fatal("IsRunning() true before Listen")
	}

	ln, err := Listen()
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	if !IsRunning() {
		t.Fatal("IsRunning() false while listening")
	}
	c, err := Dial()
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	_ = c.Close()
}

func TestListenReplacesStaleSocket(t *testing.T) {
	t.Setenv("CLIPT_SOCKET", filepath.Join(t.TempDir(), "clipt.sock"))

	ln, err := Listen()
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	// Simulate a crash: the socket file survives the listener.
	ln.(*net.UnixListener).SetUnlinkOnClose(false)
	ln.Close()

	ln2, err := Listen()
	if err != nil {
		t.Fatalf("Listen over stale socket: %v", err)
	}
	ln2.Close()
}
