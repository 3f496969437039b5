package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/verbdrill/internal/bootstrap"
	"github.com/at-ishikawa/verbdrill/internal/cli"
	"github.com/at-ishikawa/verbdrill/internal/practice"
	"github.com/at-ishikawa/verbdrill/internal/verb"
)

func newPracticeCommand() *cobra.Command {
	practiceCommand := &cobra.Command{
		Use:   "practice",
		Short: "Practice commands",
	}
	practiceCommand.AddCommand(
		newPracticeSelectCommand(),
		newPracticeAnswerCommand(),
		newPracticeSessionCommand(),
	)
	return practiceCommand
}

func newPracticeSelectCommand() *cobra.Command {
	var (
		userID int64
		limit  int
	)
	command := &cobra.Command{
		Use:   "select",
		Short: "Print the next practice batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEnvironment(cmd.Context(), func(ctx context.Context, app *bootstrap.App, env *environment) error {
				service, err := env.newService(app)
				if err != nil {
					return err
				}
				verbs, err := service.SelectPractice(ctx, practice.SelectRequest{UserID: userID, Limit: limit})
				if err != nil {
					return err
				}
				return writeBatch(cmd.OutOrStdout(), verbs)
			})
		},
	}
	addUserFlag(command.Flags(), &userID)
	addLimitFlag(command.Flags(), &limit)
	return command
}

func newPracticeAnswerCommand() *cobra.Command {
	var (
		userID  int64
		verbID  int64
		correct bool
	)
	command := &cobra.Command{
		Use:   "answer",
		Short: "Record an answer for a verb",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEnvironment(cmd.Context(), func(ctx context.Context, app *bootstrap.App, env *environment) error {
				service, err := env.newService(app)
				if err != nil {
					return err
				}
				summary, err := service.SubmitOutcome(ctx, practice.OutcomeRequest{
					UserID:  userID,
					VerbID:  verbID,
					Correct: correct,
				})
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), summary)
			})
		},
	}
	addUserFlag(command.Flags(), &userID)
	command.Flags().Int64Var(&verbID, "verb", 0, "verb id")
	command.Flags().BoolVar(&correct, "correct", false, "whether the answer was correct")
	return command
}

func newPracticeSessionCommand() *cobra.Command {
	var (
		userID int64
		limit  int
	)
	command := &cobra.Command{
		Use:   "session",
		Short: "Practice past simple and past participle interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEnvironment(cmd.Context(), func(ctx context.Context, app *bootstrap.App, env *environment) error {
				service, err := env.newService(app)
				if err != nil {
					return err
				}
				quiz, err := cli.NewVerbQuizCLI(ctx, service, userID, limit, os.Stdin, cmd.OutOrStdout())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Practice session started with %d verbs!\n\n", quiz.GetCardCount())
				return quiz.Run(ctx, quiz)
			})
		},
	}
	addUserFlag(command.Flags(), &userID)
	addLimitFlag(command.Flags(), &limit)
	return command
}

func writeBatch(w io.Writer, verbs []verb.Verb) error {
	if len(verbs) == 0 {
		_, err := fmt.Fprintln(w, "No verbs in the catalog")
		return err
	}
	for i, v := range verbs {
		if _, err := fmt.Fprintf(w, "%d. [%d] %s\n", i+1, v.ID, v.Infinitive); err != nil {
			return err
		}
	}
	return nil
}
