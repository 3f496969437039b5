package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/verbdrill/internal/bootstrap"
	"github.com/at-ishikawa/verbdrill/internal/config"
	"github.com/at-ishikawa/verbdrill/internal/verb"
)

func newVerbCommand() *cobra.Command {
	verbCommand := &cobra.Command{
		Use:   "verb",
		Short: "Browse the verb catalog",
	}
	verbCommand.AddCommand(
		newVerbSearchCommand(),
		newVerbStatsCommand(),
	)
	return verbCommand
}

type searchVerbsInput struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit" validate:"gte=1,lte=100"`
}

func newVerbSearchCommand() *cobra.Command {
	var input searchVerbsInput
	command := &cobra.Command{
		Use:   "search [query]",
		Short: "Search verbs by any form or translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Query = args[0]
			validate, trans, err := config.NewValidator()
			if err != nil {
				return err
			}
			if err := validate.Struct(input); err != nil {
				return config.TranslateError(err, trans)
			}

			return runWithEnvironment(cmd.Context(), func(ctx context.Context, _ *bootstrap.App, env *environment) error {
				verbs, err := env.catalog.Search(ctx, input.Query, input.Limit)
				if err != nil {
					return err
				}
				return writeVerbTable(cmd.OutOrStdout(), verbs)
			})
		},
	}
	command.Flags().IntVar(&input.Limit, "limit", 20, "maximum number of verbs, up to 100")
	return command
}

func newVerbStatsCommand() *cobra.Command {
	var asYAML bool
	command := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEnvironment(cmd.Context(), func(ctx context.Context, _ *bootstrap.App, env *environment) error {
				stats, err := env.catalog.Stats(ctx)
				if err != nil {
					return err
				}
				if asYAML {
					return writeYAML(cmd.OutOrStdout(), stats)
				}
				writeCatalogStats(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
	command.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML")
	return command
}

func writeVerbTable(w io.Writer, verbs []verb.Verb) error {
	if len(verbs) == 0 {
		_, err := fmt.Fprintln(w, "No verbs found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tFORMS\tTRANSLATION")
	for _, v := range verbs {
		_, _ = fmt.Fprintf(tw, "%d\t%s - %s - %s\t%s\n", v.ID, v.Infinitive, v.Past, v.Participle, v.Translation)
	}
	return tw.Flush()
}

func writeCatalogStats(w io.Writer, stats verb.Stats) {
	_, _ = fmt.Fprintf(w, "Verbs: %d (average infinitive length %.1f)\n", stats.Total, stats.AverageInfinitiveLength)
	letters := make([]string, 0, len(stats.ByLetter))
	for letter := range stats.ByLetter {
		letters = append(letters, letter)
	}
	slices.Sort(letters)
	for _, letter := range letters {
		_, _ = fmt.Fprintf(w, "  %s: %d\n", letter, stats.ByLetter[letter])
	}
}
