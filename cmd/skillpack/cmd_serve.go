package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	xlog "skillpack/internal/log"
	"skillpack/pkg/web"
)

// newServeCmd creates the "skillpack serve" subcommand.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [root]",
		Short: "Serve an HTML preview of the corpus",
		Long: `Runs a local HTTP server rendering the corpus: overview with the
document list, rendered markdown under /doc/, raw files under /raw/,
the manifest at /skill.json, and prometheus metrics at /metrics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xlog.Configure(xlog.Config{})

			srv, err := web.NewServer(web.Config{Addr: addr, Root: corpusRoot(args)})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8322", "listen address")

	return cmd
}
