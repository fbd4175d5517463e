package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/five82/wpreport/internal/app"
	"github.com/five82/wpreport/internal/config"
	"github.com/five82/wpreport/internal/logging"
	"github.com/five82/wpreport/internal/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(root *rootOptions) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recent errors over HTTP",
		Long: `Serve the error list and exports over HTTP.

Endpoints:
  GET /api/v1/errors?log_type=wordpress|server&limit=N
  GET /api/v1/export/csv?log_type=...
  GET /api/v1/export/pdf?log_type=...

Set [server] token to require "Authorization: Bearer <token>".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Server.Bind = bind
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "listen address (default: server.bind)")
	return cmd
}

func serve(ctx context.Context, cmd *cobra.Command, cfg config.Config) error {
	logger, closer, err := logging.File(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	gin.SetMode(gin.ReleaseMode)
	engine := server.New(server.Options{
		Source:         app.NewService(cfg, logger),
		DefaultLimit:   cfg.Logs.MaxResults,
		Token:          cfg.Server.Token,
		Limiter:        server.NewSlidingWindow(cfg.Server.RateLimit, cfg.Server.RateWindow),
		Logger:         logger,
		Site:           cfg.WordPress.ABSPath,
		TrustedProxies: cfg.Server.TrustedProxies,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Bind,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info().Str("bind", cfg.Server.Bind).Msg("listening")
	fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s\n", cfg.Server.Bind)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("stopped")
	return nil
}
