package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/statementform/internal/config"
	"github.com/cleared-dev/statementform/internal/download"
	"github.com/cleared-dev/statementform/internal/form"
	"github.com/cleared-dev/statementform/internal/notice"
	"github.com/cleared-dev/statementform/internal/uploader"
	"github.com/cleared-dev/statementform/internal/web"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 5 * time.Second
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var addr string
	var endpoint string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload form in a browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if endpoint != "" {
				cfg.Endpoint = endpoint
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, opts.logger(cmd.ErrOrStderr()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "processing service upload URL")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	vault := download.NewVault(cfg.DownloadTTL())
	f := form.New(
		uploader.New(cfg.Endpoint, uploader.WithLogger(logger)),
		vault,
		notice.NewBoard(cfg.NoticeDuration()),
		logger,
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           web.New(f, vault, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go vault.Sweep(ctx, sweepInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving upload form", "addr", "http://"+cfg.Server.Addr, "endpoint", cfg.Endpoint)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
