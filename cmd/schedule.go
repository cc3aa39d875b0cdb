package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quotesdb/quotes-crawler/internal/logging"
	"github.com/quotesdb/quotes-crawler/internal/scheduler"
)

// newScheduleCmd creates the 'schedule' subcommand: a long-lived process
// that re-runs the crawl pipeline on a fixed cadence. A failed cycle is
// logged and the process waits for the next tick.
func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Runs the crawl pipeline on a fixed interval",
		Long: `Starts a long-lived process that invokes the crawl-clean-persist
cycle once per configured interval (scheduler.interval). Failed cycles are
logged without stopping the scheduler.`,

		RunE: runScheduleCommand,
	}
	return cmd
}

func runScheduleCommand(cmd *cobra.Command, _ []string) error {
	pipe, err := buildPipeline(cmd.Context())
	if err != nil {
		return err
	}
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	interval := viper.GetDuration("scheduler.interval")
	runner, err := scheduler.New(interval, pipe.Run, appInstance.GetLogger())
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run scheduler: %w", err)
	}

	logging.L.Info("Schedule command finished.")
	return nil
}
