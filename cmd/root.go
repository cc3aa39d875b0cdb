package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quotesdb/quotes-crawler/internal/app"
	"github.com/quotesdb/quotes-crawler/internal/logging"
	"github.com/quotesdb/quotes-crawler/internal/repository"
	"github.com/quotesdb/quotes-crawler/pkg/config"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands use. This allows us
// to inject a mock app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetStore() *repository.SQLStore
}

// newApp is the application factory. It's a variable so tests can replace
// it with a mock factory.
var newApp func(ctx context.Context) (App, error) = func(ctx context.Context) (App, error) {
	return app.NewApp(ctx)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes-crawler",
		Short: "Scrapes quotes and author metadata into a relational store.",
		Long: `quotes-crawler walks a paginated quotes site, cleans the extracted
records, and upserts them into a relational database. The persisted data is
served back through a small read-only browse API.`,

		// Runs after config is loaded but before the subcommand's RunE:
		// the place to build and inject the application services.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		// Ensures services shut down gracefully.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cobra.OnInitialize(func() {
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		}
		config.InitConfig()
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.quotes-crawler/config.yaml)")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newScheduleCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newInitDBCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	logging.InitLogger()

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("Command execution failed", zap.Error(err))
	}
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
