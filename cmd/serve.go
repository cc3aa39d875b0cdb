package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quotesdb/quotes-crawler/internal/api"
)

// newServeCmd creates the 'serve' subcommand, which exposes the read-only
// browse API over the persisted quotes.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the read-only browse API",
		Long: `Starts an HTTP server exposing the persisted quotes, authors, and
tags: lookups by id, by author, by tag, and the top-N aggregates.`,

		RunE: runServeCommand,
	}
	return cmd
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	logger := appInstance.GetLogger()

	store := appInstance.GetStore()
	if err := store.CreateTables(cmd.Context()); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	server := &http.Server{
		Addr:              viper.GetString("api.addr"),
		Handler:           api.NewServer(store, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Browse API listening", zap.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve api: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown api: %w", err)
		}
	}

	logger.Info("Serve command finished.")
	return nil
}
