package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/reportgest/internal/api"
	"github.com/dgallion1/reportgest/internal/metrics"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the snapshot and on-demand extraction over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			cfg.Port = orDefault(port, cfg.Port)
			if cfg.APIKey == "" {
				a.log.Warn("REPORTGEST_API_KEY not set, api endpoints are unauthenticated")
			}

			srv := api.NewServer(api.NewStore(cfg.OutputPath), metrics.NewExtractions(cfg.StatsWindow), a.log, cfg)
			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      srv,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("starting reportgest", "port", cfg.Port, "report", cfg.OutputPath, "version", version)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default $PORT or 8090)")
	return cmd
}
