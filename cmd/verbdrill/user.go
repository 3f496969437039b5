package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/verbdrill/internal/bootstrap"
	"github.com/at-ishikawa/verbdrill/internal/config"
	"github.com/at-ishikawa/verbdrill/internal/user"
)

func newUserCommand() *cobra.Command {
	userCommand := &cobra.Command{
		Use:   "user",
		Short: "User commands",
	}
	userCommand.AddCommand(newUserCreateCommand())
	return userCommand
}

type createUserInput struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
}

func newUserCreateCommand() *cobra.Command {
	var input createUserInput
	command := &cobra.Command{
		Use:   "create",
		Short: "Create a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			validate, trans, err := config.NewValidator()
			if err != nil {
				return err
			}
			if err := validate.Struct(input); err != nil {
				return config.TranslateError(err, trans)
			}

			return runWithEnvironment(cmd.Context(), func(ctx context.Context, _ *bootstrap.App, env *environment) error {
				existing, err := env.users.FindByUsername(ctx, input.Username)
				if err != nil {
					return err
				}
				if existing != nil {
					return fmt.Errorf("user %s already exists with id %d", input.Username, existing.ID)
				}

				u := &user.User{Username: input.Username, Email: input.Email}
				if err := env.users.Create(ctx, u); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created user %s with id %d\n", u.Username, u.ID)
				return nil
			})
		},
	}
	command.Flags().StringVar(&input.Username, "username", "", "unique user name")
	command.Flags().StringVar(&input.Email, "email", "", "unique email address")
	return command
}
