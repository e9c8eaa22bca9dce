package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkgscout/pkgscout/internal/server"
)

// shutdownGrace bounds how long in-flight requests may drain on shutdown.
const shutdownGrace = 10 * time.Second

func newServeCmd(cfgPath *string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pkgscout HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			a, err := buildApp(ctx, *cfgPath, logger)
			if err != nil {
				return err
			}
			defer a.close(context.Background())

			addr := a.cfg.Server.Listen
			if listen != "" {
				addr = listen
			}
			srv := server.New(addr, a.catalog, a.aggregator, logger)

			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}
