package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/verbdrill/internal/bootstrap"
	"github.com/at-ishikawa/verbdrill/internal/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEnvironment(cmd.Context(), func(ctx context.Context, _ *bootstrap.App, env *environment) error {
				if err := database.Migrate(ctx, env.db); err != nil {
					return fmt.Errorf("database.Migrate() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Migrated the %s database\n", env.cfg.Database.Driver)
				return nil
			})
		},
	}
}
