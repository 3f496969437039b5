// Package srs implements the review interval policy for verb practice.
package srs

import "time"

const (
	// MaxIntervalDays caps the review interval after a correct answer.
	MaxIntervalDays = 32
	// MissInterval is the delay before a missed verb is due again.
	MissInterval = 24 * time.Hour
	// MasteryStreak is the streak at which a verb counts as mastered.
	MasteryStreak = 5

	baseReward    = 10
	maxBonusLevel = 5
	missReward    = 2

	// 2^5 already exceeds the cap, so larger streaks never need the shift.
	capStreak = 5
)

// State is the part of a progress record the policy reads.
type State struct {
	Streak   int
	Mistakes int
}

// Outcome is the schedule produced for one answer.
type Outcome struct {
	Streak   int
	Mistakes int
	DueAt    time.Time
	Reward   int
}

// Advance applies one answer to the state.
// A correct answer extends the streak and pushes the due date out exponentially;
// a miss resets the streak and brings the verb back in a day.
func Advance(state State, correct bool, now time.Time) Outcome {
	if !correct {
		return Outcome{
			Streak:   0,
			Mistakes: state.Mistakes + 1,
			DueAt:    now.Add(MissInterval),
			Reward:   missReward,
		}
	}

	streak := state.Streak + 1
	return Outcome{
		Streak:   streak,
		Mistakes: state.Mistakes,
		DueAt:    now.Add(time.Duration(IntervalDays(streak)) * 24 * time.Hour),
		Reward:   Reward(streak),
	}
}

// IntervalDays returns min(2^streak, MaxIntervalDays).
func IntervalDays(streak int) int {
	if streak <= 0 {
		return 1
	}
	if streak >= capStreak {
		return MaxIntervalDays
	}
	return min(1<<streak, MaxIntervalDays)
}

// Reward returns the XP granted for a correct answer at the given streak.
func Reward(streak int) int {
	return baseReward * (1 + min(max(streak, 0), maxBonusLevel))
}
