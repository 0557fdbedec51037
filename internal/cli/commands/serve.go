package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quadpde/quadpde/internal/api"
	"github.com/quadpde/quadpde/internal/cli/config"
	"github.com/quadpde/quadpde/internal/registry"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the example catalog over HTTP",
		Long: `Start an HTTP server exposing the example catalog:

  GET /health              liveness probe
  GET /api/examples        example summaries
  GET /api/examples/{id}   one example with its equations

The catalog is built on the first request. If the examples directory is
missing, catalog routes answer 503 until it appears.`,
		Example: `  # Serve on the default address
  quadpde serve

  # Serve on all interfaces
  quadpde serve --addr 0.0.0.0:8000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd)
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "Listen address")
	cmd.Flags().Duration("shutdown-timeout", config.DefaultShutdownTimeout, "Grace period for in-flight requests on shutdown")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	srv := api.NewServer(api.Config{
		Addr:            cmdCtx.Cfg.Server.Addr,
		Catalog:         registry.New(cmdCtx.RegistryConfig()),
		Logger:          cmdCtx.Logger,
		ShutdownTimeout: cmdCtx.Cfg.Server.ShutdownTimeout,
	})
	return srv.Serve(ctx)
}
