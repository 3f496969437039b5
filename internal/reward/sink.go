// Package reward delivers experience points earned by answers.
package reward

import (
	"context"
	"fmt"

	"github.com/at-ishikawa/verbdrill/internal/user"
)

//go:generate mockgen -source=sink.go -destination=../mocks/reward/mock_sink.go -package=mock_reward Sink

// Sink receives the reward for an answer. Delivery failures never undo the
// progress update that produced the reward.
type Sink interface {
	ApplyReward(ctx context.Context, userID int64, amount int) error
}

// NopSink discards rewards.
type NopSink struct{}

func (NopSink) ApplyReward(context.Context, int64, int) error {
	return nil
}

// DBSink adds rewards to the user's total XP.
type DBSink struct {
	users user.Repository
}

// NewDBSink creates a new DBSink.
func NewDBSink(users user.Repository) *DBSink {
	return &DBSink{users: users}
}

func (s *DBSink) ApplyReward(ctx context.Context, userID int64, amount int) error {
	if err := s.users.AddXP(ctx, userID, amount); err != nil {
		return fmt.Errorf("users.AddXP(%d) > %w", userID, err)
	}
	return nil
}
