package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/verbdrill/internal/bootstrap"
	"github.com/at-ishikawa/verbdrill/internal/reward"
)

func newRewardCommand() *cobra.Command {
	rewardCommand := &cobra.Command{
		Use:   "reward",
		Short: "Reward commands",
	}
	rewardCommand.AddCommand(newRewardConsumeCommand())
	return rewardCommand
}

func newRewardConsumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Apply reward events published on NATS to users' XP until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithEnvironment(cmd.Context(), func(ctx context.Context, app *bootstrap.App, env *environment) error {
				natsConfig := env.cfg.Reward.NATS
				if natsConfig.URL == "" {
					return fmt.Errorf("reward.nats.url or NATS_URL is required")
				}
				nc, err := reward.Connect(natsConfig)
				if err != nil {
					return err
				}
				app.AddCloser("nats", nc.Drain)

				slog.Info("consuming reward events", "url", natsConfig.URL, "subject", natsConfig.Subject)
				return reward.NewConsumer(env.users).Subscribe(ctx, nc, natsConfig.Subject)
			})
		},
	}
}
