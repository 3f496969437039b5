package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/verbdrill/internal/bootstrap"
	"github.com/at-ishikawa/verbdrill/internal/practice"
)

func newProgressCommand() *cobra.Command {
	progressCommand := &cobra.Command{
		Use:   "progress",
		Short: "Progress commands",
	}
	progressCommand.AddCommand(
		newProgressInitCommand(),
		newProgressListCommand(),
		newProgressExportCommand(),
	)
	return progressCommand
}

func newProgressInitCommand() *cobra.Command {
	var userID int64
	command := &cobra.Command{
		Use:   "init",
		Short: "Schedule every verb of the catalog for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEnvironment(cmd.Context(), func(ctx context.Context, app *bootstrap.App, env *environment) error {
				service, err := env.newService(app)
				if err != nil {
					return err
				}
				created, err := service.InitializeUser(ctx, practice.InitRequest{UserID: userID})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %d progress records for user %d\n", created, userID)
				return nil
			})
		},
	}
	addUserFlag(command.Flags(), &userID)
	return command
}

func newProgressListCommand() *cobra.Command {
	var userID int64
	command := &cobra.Command{
		Use:   "list",
		Short: "List a user's progress, weakest verbs first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEnvironment(cmd.Context(), func(ctx context.Context, app *bootstrap.App, env *environment) error {
				service, err := env.newService(app)
				if err != nil {
					return err
				}
				entries, err := service.ListProgress(ctx, practice.ListRequest{UserID: userID})
				if err != nil {
					return err
				}
				return writeProgressTable(cmd.OutOrStdout(), entries, time.Now())
			})
		},
	}
	addUserFlag(command.Flags(), &userID)
	return command
}

func newProgressExportCommand() *cobra.Command {
	var (
		userID int64
		output string
	)
	command := &cobra.Command{
		Use:   "export",
		Short: "Export a user's progress as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEnvironment(cmd.Context(), func(ctx context.Context, app *bootstrap.App, env *environment) error {
				service, err := env.newService(app)
				if err != nil {
					return err
				}
				entries, err := service.ListProgress(ctx, practice.ListRequest{UserID: userID})
				if err != nil {
					return err
				}

				if output == "" || output == "-" {
					return writeYAML(cmd.OutOrStdout(), entries)
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("os.Create(%s) > %w", output, err)
				}
				defer func() {
					_ = f.Close()
				}()
				if err := writeYAML(f, entries); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(entries), output)
				return nil
			})
		},
	}
	addUserFlag(command.Flags(), &userID)
	command.Flags().StringVarP(&output, "output", "o", "", "output file, stdout when empty")
	return command
}

func writeProgressTable(w io.Writer, entries []practice.Entry, now time.Time) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No progress yet")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "VERB\tFORMS\tSTREAK\tMISTAKES\tDUE")
	for _, entry := range entries {
		due := entry.Record.DueAt.Local().Format("2006-01-02 15:04")
		if entry.Record.IsDue(now) {
			due = "now"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s - %s - %s\t%d\t%d\t%s\n",
			entry.Verb.ID,
			entry.Verb.Infinitive, entry.Verb.Past, entry.Verb.Participle,
			entry.Record.Streak, entry.Record.Mistakes, due)
	}
	return tw.Flush()
}
