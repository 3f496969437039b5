package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/verbdrill/internal/bootstrap"
	"github.com/at-ishikawa/verbdrill/internal/config"
	"github.com/at-ishikawa/verbdrill/internal/database"
	"github.com/at-ishikawa/verbdrill/internal/practice"
	"github.com/at-ishikawa/verbdrill/internal/progress"
	"github.com/at-ishikawa/verbdrill/internal/reward"
	"github.com/at-ishikawa/verbdrill/internal/user"
	"github.com/at-ishikawa/verbdrill/internal/verb"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// environment holds the resources shared by commands. Everything opened here
// is closed by the app's shutdown hooks.
type environment struct {
	cfg     *config.Config
	db      *sqlx.DB
	users   *user.DBRepository
	catalog *verb.DBRepository
	store   *progress.DBRepository
}

func openEnvironment(app *bootstrap.App) (*environment, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	app.AddCloser("database", db.Close)

	return &environment{
		cfg:     cfg,
		db:      db,
		users:   user.NewDBRepository(db),
		catalog: verb.NewDBRepository(db),
		store:   progress.NewDBRepository(db),
	}, nil
}

// newService wires the practice service with the configured reward sink.
func (env *environment) newService(app *bootstrap.App) (*practice.Service, error) {
	sink, closeSink, err := reward.New(env.cfg.Reward, env.users)
	if err != nil {
		return nil, fmt.Errorf("reward.New() > %w", err)
	}
	app.AddCloser("reward sink", closeSink)

	return practice.NewService(env.users, env.catalog, env.store, sink, env.cfg.Practice, slog.Default())
}

// runWithEnvironment opens the environment, runs fn and releases everything
// afterwards.
func runWithEnvironment(ctx context.Context, fn func(ctx context.Context, app *bootstrap.App, env *environment) error) error {
	app := bootstrap.New()
	return app.Run(ctx, func(ctx context.Context) error {
		env, err := openEnvironment(app)
		if err != nil {
			return err
		}
		return fn(ctx, app, env)
	})
}

func addUserFlag(flags *pflag.FlagSet, userID *int64) {
	flags.Int64Var(userID, "user", 0, "user id")
}

func addLimitFlag(flags *pflag.FlagSet, limit *int) {
	flags.IntVar(limit, "limit", 0, "number of verbs, 0 uses practice.default_limit")
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	return encoder.Close()
}
