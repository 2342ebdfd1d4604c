package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/autocrud/internal/gateway"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Long: `Start the HTTP gateway exposing POST /create, /delete and /update.

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  # Serve on the configured address (default :8080)
  autocrud serve

  # Serve a DuckDB file on another port
  autocrud serve --target-type duckdb --database data.duckdb --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			mgr, err := cmdCtx.Engine.Schema(ctx)
			if err != nil {
				return err
			}

			srv := gateway.New(gateway.Config{
				Tables:            mgr,
				Addr:              cmdCtx.Cfg.Server.Addr,
				MaxBodyBytes:      cmdCtx.Cfg.Server.MaxBodyBytes,
				ReadHeaderTimeout: cmdCtx.Cfg.Server.ReadHeaderTimeout,
				ShutdownTimeout:   cmdCtx.Cfg.Server.ShutdownTimeout,
				Logger:            cmdCtx.Logger,
			})
			return srv.Serve(ctx)
		},
	}

	// Mapped onto server.* keys by config.Load.
	cmd.Flags().String("addr", "", "Listen address (default :8080)")
	cmd.Flags().Int64("max-body-bytes", 0, "Maximum request body size in bytes")

	return cmd
}
