package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipt/internal/ipc"
	"go.klb.dev/clipt/internal/message"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and clipboard backend status",
		Long: `Show whether a clipt daemon is reachable and which clipboard backend
serves this machine. With a running daemon (or --server) the answer comes
from the serving side; otherwise the local backend is opened directly.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindViper(cmd, v)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runStatus(v)
		},
	}

	cmd.Flags().String("server", "", "daemon address (host:port); default is the local socket when running")
	cmd.Flags().String("token", "", "shared secret for --server")
	addConfigFlag(cmd)
	addLoggingFlags(cmd)
	return cmd
}

type statusInfo struct {
	Running  bool
	Endpoint string
	Backend  string
	Platform string
	Version  string
}

func runStatus(v *viper.Viper) error {
	setupLogging(v)

	if useDaemon(v) {
		resp, err := roundTrip(v, &message.Request{Op: message.OpStatus})
		if err != nil {
			return err
		}
		endpoint := v.GetString("server")
		if endpoint == "" {
			endpoint = ipc.SocketPath()
		}
		return printStatus(os.Stdout, statusInfo{
			Running:  true,
			Endpoint: endpoint,
			Backend:  resp.Backend,
			Platform: resp.Platform,
			Version:  resp.Version,
		})
	}

	eng, err := newLocalEngine()
	if err != nil {
		return err
	}
	defer eng.Backend().Close()
	return printStatus(os.Stdout, statusInfo{
		Backend:  eng.Backend().Name(),
		Platform: eng.Backend().Platform().String(),
		Version:  Version,
	})
}

func printStatus(w io.Writer, s statusInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	state := "not running"
	if s.Running {
		state = "running"
	}
	fmt.Fprintf(tw, "daemon:\t%s\n", state)
	if s.Endpoint != "" {
		fmt.Fprintf(tw, "endpoint:\t%s\n", s.Endpoint)
	}
	fmt.Fprintf(tw, "backend:\t%s\n", s.Backend)
	fmt.Fprintf(tw, "platform:\t%s\n", s.Platform)
	fmt.Fprintf(tw, "version:\t%s\n", s.Version)
	return tw.Flush()
}
