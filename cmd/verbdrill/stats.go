package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/verbdrill/internal/bootstrap"
	"github.com/at-ishikawa/verbdrill/internal/practice"
	"github.com/at-ishikawa/verbdrill/internal/statistics"
)

func newStatsCommand() *cobra.Command {
	var (
		userID int64
		asYAML bool
	)
	command := &cobra.Command{
		Use:   "stats",
		Short: "Show a user's statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEnvironment(cmd.Context(), func(ctx context.Context, app *bootstrap.App, env *environment) error {
				service, err := env.newService(app)
				if err != nil {
					return err
				}
				stats, err := service.UserStats(ctx, practice.StatsRequest{UserID: userID})
				if err != nil {
					return err
				}
				if asYAML {
					return writeYAML(cmd.OutOrStdout(), stats)
				}
				writeStatistics(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
	addUserFlag(command.Flags(), &userID)
	command.Flags().BoolVar(&asYAML, "yaml", false, "print as YAML")
	return command
}

func writeStatistics(w io.Writer, stats statistics.Statistics) {
	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(w, "Level %d", stats.Level)
	_, _ = fmt.Fprintf(w, " (%d XP, %d to next level)\n", stats.TotalXP, stats.XPToNextLevel)
	_, _ = fmt.Fprintf(w, "Verbs:          %d learned / %d total, %d remaining\n",
		stats.VerbsLearned, stats.TotalVerbs, stats.VerbsRemaining)
	_, _ = fmt.Fprintf(w, "Due now:        %d\n", stats.DueVerbs)
	_, _ = fmt.Fprintf(w, "Average streak: %.1f\n", stats.AverageStreak)
	_, _ = fmt.Fprintf(w, "Mastery:        %.1f%%\n", stats.MasteryPercentage)
	_, _ = fmt.Fprintf(w, "Mistakes:       %d\n", stats.TotalMistakes)
	_, _ = fmt.Fprintf(w, "Learning days:  %d\n", stats.LearningStreakDays)
}
