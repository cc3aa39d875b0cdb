// Package cmd defines and implements the CLI commands for the
// quotes-crawler executable.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quotesdb/quotes-crawler/internal/logging"
	"github.com/quotesdb/quotes-crawler/internal/pipeline"
	"github.com/quotesdb/quotes-crawler/internal/scraper"
)

// newCrawlCmd creates and configures the 'crawl' subcommand, which runs a
// single crawl-clean-persist cycle and exits with its outcome.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Runs one crawl-clean-persist cycle",
		Long: `Walks the configured quotes site page by page, fetches each distinct
author's detail page, normalizes the extracted records, and upserts the
batch into the configured database.`,

		RunE: runCrawlCommand,
	}
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	pipe, err := buildPipeline(cmd.Context())
	if err != nil {
		return err
	}

	if err := pipe.Run(cmd.Context()); err != nil {
		return fmt.Errorf("run crawl: %w", err)
	}

	logging.L.Info("Crawl command finished.")
	return nil
}

// buildPipeline assembles one ready-to-run pipeline from the injected app
// services and the viper configuration, ensuring the schema exists first.
func buildPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	appInstance, err := resolveApp(ctx)
	if err != nil {
		return nil, err
	}
	logger := appInstance.GetLogger()

	cfg, err := scraper.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load scraper config: %w", err)
	}

	source, err := scraper.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init scraper: %w", err)
	}

	store := appInstance.GetStore()
	if err := store.CreateTables(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logger.Info("Pipeline ready", zap.String("base_url", cfg.BaseURL))

	return pipeline.New(source, store, logger), nil
}
