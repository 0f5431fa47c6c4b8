package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/viper"

	"go.klb.dev/clipt/internal/cliperr"
	"go.klb.dev/clipt/internal/crypto"
	"go.klb.dev/clipt/internal/ipc"
	"go.klb.dev/clipt/internal/message"
	"go.klb.dev/clipt/internal/resolve"
	"go.klb.dev/clipt/internal/wire"
)

const dialTimeout = 5 * time.Second

// remoteError carries a failure reported by a daemon, preserving the exit
// code that was computed on the serving side.
type remoteError struct {
	code int
	msg  string
}

func (e *remoteError) Error() string { return e.msg }

// useDaemon reports whether the command should be served by a daemon instead
// of touching the clipboard directly: either --server names one explicitly,
// or a local daemon is listening on the socket.
func useDaemon(v *viper.Viper) bool {
	return v.GetString("server") != "" || ipc.IsRunning()
}

func dialDaemon(v *viper.Viper) (*wire.Conn, error) {
	if addr := v.GetString("server"); addr != "" {
		var key *[32]byte
		if token := v.GetString("token"); token != "" {
			k, err := crypto.DeriveKey(token)
			if err != nil {
				return nil, err
			}
			key = k
		}
		conn, err := net.DialTimeout("tcp", addr, dialTimeout)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}
		return wire.New(conn, key), nil
	}
	conn, err := ipc.Dial()
	if err != nil {
		return nil, err
	}
	return wire.New(conn, nil), nil
}

// roundTrip performs a single request/response exchange with the daemon. A
// response carrying an error is surfaced as a remoteError so the client exits
// with the same code the operation would have produced locally.
func roundTrip(v *viper.Viper, req *message.Request) (*message.Response, error) {
	wc, err := dialDaemon(v)
	if err != nil {
		return nil, err
	}
	defer wc.Close()

	if err := wc.WriteRequest(req); err != nil {
		return nil, err
	}
	resp, err := wc.ReadResponse()
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		code := resp.Code
		if code == 0 {
			code = int(cliperr.ExitBackend)
		}
		return nil, &remoteError{code: code, msg: resp.Error}
	}
	return resp, nil
}

// specifierWire splits an optional specifier into the (type, system) pair of
// the request envelope.
func specifierWire(spec *resolve.Specifier) (string, bool) {
	switch {
	case spec == nil:
		return "", false
	case spec.System:
		return spec.ID, true
	default:
		return spec.Alias.String(), false
	}
}
