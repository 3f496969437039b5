package practice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/verbdrill/internal/progress"
	"github.com/at-ishikawa/verbdrill/internal/reward"
	"github.com/at-ishikawa/verbdrill/internal/srs"
)

// Result is the outcome of a recorded answer.
type Result struct {
	Record progress.Record
	Reward int
}

// Updater applies answers to progress records and forwards the reward.
type Updater struct {
	store  progress.Repository
	sink   reward.Sink
	logger *slog.Logger
}

// NewUpdater creates a new Updater. A nil sink discards rewards.
func NewUpdater(store progress.Repository, sink reward.Sink, logger *slog.Logger) *Updater {
	if sink == nil {
		sink = reward.NopSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		store:  store,
		sink:   sink,
		logger: logger,
	}
}

// RecordAnswer advances the record of the verb for the user. A verb the user
// has never seen is enrolled first. A failing reward sink is logged and does
// not fail the answer.
func (u *Updater) RecordAnswer(ctx context.Context, userID, verbID int64, correct bool, now time.Time) (Result, error) {
	rec, err := ensureRecord(ctx, u.store, userID, verbID, now)
	if err != nil {
		return Result{}, err
	}

	outcome := srs.Advance(srs.State{Streak: rec.Streak, Mistakes: rec.Mistakes}, correct, now)
	rec.Streak = outcome.Streak
	rec.Mistakes = outcome.Mistakes
	rec.DueAt = outcome.DueAt
	rec.UpdatedAt = now
	if err := u.store.Update(ctx, rec); err != nil {
		return Result{}, fmt.Errorf("store.Update() > %w", err)
	}

	if err := u.sink.ApplyReward(ctx, userID, outcome.Reward); err != nil {
		u.logger.Warn("failed to apply reward",
			"user_id", userID,
			"verb_id", verbID,
			"amount", outcome.Reward,
			"error", err,
		)
	}
	return Result{
		Record: *rec,
		Reward: outcome.Reward,
	}, nil
}
