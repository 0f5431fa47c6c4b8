package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipt/internal/clip"
	"go.klb.dev/clipt/internal/cliperr"
	"go.klb.dev/clipt/internal/crypto"
	"go.klb.dev/clipt/internal/engine"
	"go.klb.dev/clipt/internal/ipc"
	"go.klb.dev/clipt/internal/message"
	"go.klb.dev/clipt/internal/resolve"
	"go.klb.dev/clipt/internal/wire"
)

func newServeCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the clipboard on a local socket, and optionally TCP",
		Long: `Run a daemon that serves clipboard operations over a local socket.
While it runs, paste/copy/list-types on this machine go through it instead of
opening the clipboard themselves.

With --addr the daemon also listens on TCP so remote clients (SSH sessions,
containers) can reach this machine's clipboard with --server. Set --token on
both ends to authenticate and encrypt the TCP traffic; the socket listener is
never encrypted.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindViper(cmd, v)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(v)
		},
	}

	cmd.Flags().String("addr", "", "also listen on this TCP address (host:port)")
	cmd.Flags().String("token", "", "shared secret for TCP clients")
	addConfigFlag(cmd)
	addLoggingFlags(cmd)
	return cmd
}

func runServe(v *viper.Viper) error {
	setupLogging(v)

	backend, err := clip.New()
	if err != nil {
		return fmt.Errorf("clipboard backend: %w", err)
	}
	defer backend.Close()
	eng := engine.New(backend)

	ln, err := ipc.Listen()
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	slog.Info("daemon started",
		"version", Version,
		"backend", backend.Name(),
		"platform", backend.Platform().String(),
		"socket", ipc.SocketPath())

	if addr := v.GetString("addr"); addr != "" {
		var key *[32]byte
		if token := v.GetString("token"); token != "" {
			if key, err = crypto.DeriveKey(token); err != nil {
				return err
			}
		} else {
			slog.Warn("TCP listener without --token accepts unauthenticated clients", "addr", addr)
		}
		tcpLn, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		defer tcpLn.Close()
		slog.Info("TCP listener started", "addr", addr, "encrypted", key != nil)
		go acceptLoop(tcpLn, eng, key)
	} else if v.GetString("token") != "" {
		slog.Warn("--token has no effect without --addr")
	}

	acceptLoop(ln, eng, nil)
	return nil
}

func acceptLoop(ln net.Listener, eng *engine.Engine, key *[32]byte) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			slog.Error("accept failed", "error", err)
			return
		}
		go handleConn(wire.New(conn, key), eng)
	}
}

// handleConn serves a single request per connection, mirroring the CLI's
// one-shot usage pattern.
func handleConn(wc *wire.Conn, eng *engine.Engine) {
	defer wc.Close()

	req, err := wc.ReadRequest()
	if err != nil {
		slog.Debug("bad request", "remote", wc.RemoteAddr(), "error", err)
		return
	}
	resp := dispatch(req, eng)
	if err := wc.WriteResponse(resp); err != nil {
		slog.Debug("write response", "remote", wc.RemoteAddr(), "error", err)
	}
	slog.Debug("served", "op", req.Op, "remote", wc.RemoteAddr(), "ok", resp.OK)
}

func dispatch(req *message.Request, eng *engine.Engine) *message.Response {
	switch req.Op {
	case message.OpPaste:
		return servePaste(req, eng)
	case message.OpCopy:
		return serveCopy(req, eng)
	case message.OpListTypes:
		return serveListTypes(eng)
	case message.OpStatus:
		return &message.Response{
			OK:       true,
			Backend:  eng.Backend().Name(),
			Platform: eng.Backend().Platform().String(),
			Version:  Version,
		}
	default:
		return failResponse(fmt.Errorf("%w: unknown op %q", cliperr.ErrUsage, req.Op))
	}
}

func servePaste(req *message.Request, eng *engine.Engine) *message.Response {
	var spec *resolve.Specifier
	if req.Type != "" || req.System {
		s, err := resolve.FromParts(req.Type, req.System)
		if err != nil {
			return failResponse(err)
		}
		spec = &s
	}
	data, err := eng.Paste(spec)
	if err != nil {
		return failResponse(err)
	}
	return &message.Response{OK: true, Data: base64.StdEncoding.EncodeToString(data)}
}

func serveCopy(req *message.Request, eng *engine.Engine) *message.Response {
	if len(req.Items) == 0 {
		return failResponse(fmt.Errorf("%w: copy request without items", cliperr.ErrUsage))
	}
	items := make([]engine.Item, 0, len(req.Items))
	for _, it := range req.Items {
		spec, err := resolve.FromParts(it.Type, it.System)
		if err != nil {
			return failResponse(err)
		}
		data, err := it.Decode()
		if err != nil {
			return failResponse(fmt.Errorf("%w: decode item %q: %v", cliperr.ErrUsage, it.Type, err))
		}
		items = append(items, engine.Item{Spec: spec, Data: data})
	}
	if err := eng.Copy(items); err != nil {
		return failResponse(err)
	}
	return &message.Response{OK: true}
}

func serveListTypes(eng *engine.Engine) *message.Response {
	infos, err := eng.ListTypes()
	if err != nil {
		if errors.Is(err, clip.ErrEnumerateUnsupported) {
			return &message.Response{OK: true, Degraded: true}
		}
		return failResponse(err)
	}
	resp := &message.Response{OK: true}
	for _, info := range infos {
		e := message.TypeEntry{ID: info.ID}
		if info.HasAlias {
			e.Alias = info.Alias.String()
		}
		resp.Types = append(resp.Types, e)
	}
	return resp
}

func failResponse(err error) *message.Response {
	return &message.Response{
		Error: err.Error(),
		Code:  int(cliperr.FromError(err)),
	}
}
