package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/gradesheet-go/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve workbook exports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if address != "" {
				cfg.Server.Address = address
			}

			exportOpts, err := cfg.Export.Options()
			if err != nil {
				return err
			}
			src, closeSrc, err := newSource(cmd.Context(), cfg.Source)
			if err != nil {
				return err
			}
			defer closeSrc()

			srv := server.NewServer(&server.Options{
				Address:        cfg.Server.Address,
				DisableReqLogs: cfg.Server.DisableReqLogs,
				BodyLimit:      cfg.Server.MaxBodySize,
				Export:         exportOpts,
				Source:         src,
				Logger:         logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil {
				logger.Error("shutdown", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "Listen address (default: server.address)")
	return cmd
}
