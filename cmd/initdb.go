package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quotesdb/quotes-crawler/internal/logging"
)

// newInitDBCmd creates the 'initdb' subcommand, which applies the schema
// DDL and exits. The DDL is idempotent, so running it against an existing
// database is safe.
func newInitDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Creates the database schema",

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := appInstance.GetStore().CreateTables(cmd.Context()); err != nil {
				return fmt.Errorf("create tables: %w", err)
			}
			logging.L.Info("Database schema ensured.")
			return nil
		},
	}
	return cmd
}
