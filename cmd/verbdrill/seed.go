package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/verbdrill/internal/bootstrap"
	"github.com/at-ishikawa/verbdrill/internal/seed"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file or url]",
		Short: "Import verbs from a YAML, JSON, CSV or XLSX file",
		Long:  "Import verbs from a YAML, JSON, CSV or XLSX file. Verbs whose infinitive already exists are skipped. Without an argument, seed.file of the configuration is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEnvironment(cmd.Context(), func(ctx context.Context, _ *bootstrap.App, env *environment) error {
				source := env.cfg.Seed.File
				if len(args) > 0 {
					source = args[0]
				}
				if source == "" {
					return fmt.Errorf("a seed file is required")
				}

				rows, err := seed.NewReader().Read(ctx, source)
				if err != nil {
					return fmt.Errorf("seed.Read(%s) > %w", source, err)
				}
				importer, err := seed.NewImporter(env.catalog, slog.Default())
				if err != nil {
					return err
				}
				result, err := importer.Import(ctx, rows)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "Created %d verbs (%d already existed, %d skipped) from %s\n",
					result.Created, result.Existing, result.Skipped, source)
				for _, msg := range result.Errors {
					_, _ = fmt.Fprintf(out, "  %s\n", msg)
				}
				return nil
			})
		},
	}
}
