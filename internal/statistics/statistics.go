// Package statistics summarizes a user's practice progress.
package statistics

import (
	"math"
	"time"

	"github.com/at-ishikawa/verbdrill/internal/progress"
	"github.com/at-ishikawa/verbdrill/internal/srs"
	"github.com/at-ishikawa/verbdrill/internal/user"
)

const (
	// verbsPerStreakDay converts learned verbs into learning streak days.
	verbsPerStreakDay     = 5
	maxLearningStreakDays = 30
)

// Statistics is the progress summary of one user.
type Statistics struct {
	UserID             int64   `json:"user_id" yaml:"user_id"`
	TotalVerbs         int     `json:"total_verbs" yaml:"total_verbs"`
	VerbsLearned       int     `json:"verbs_learned" yaml:"verbs_learned"`
	VerbsRemaining     int     `json:"verbs_remaining" yaml:"verbs_remaining"`
	DueVerbs           int     `json:"due_verbs" yaml:"due_verbs"`
	AverageStreak      float64 `json:"average_streak" yaml:"average_streak"`
	TotalMistakes      int     `json:"total_mistakes" yaml:"total_mistakes"`
	MasteryPercentage  float64 `json:"mastery_percentage" yaml:"mastery_percentage"`
	TotalXP            int     `json:"total_xp" yaml:"total_xp"`
	Level              int     `json:"level" yaml:"level"`
	XPToNextLevel      int     `json:"xp_to_next_level" yaml:"xp_to_next_level"`
	LearningStreakDays int     `json:"learning_streak_days" yaml:"learning_streak_days"`
}

// Calculate builds the statistics of u from the catalog size and the user's
// progress records. Every record counts as a learned verb; a verb is
// mastered once its streak reaches the interval cap.
func Calculate(u user.User, totalVerbs int, records []progress.Record, now time.Time) Statistics {
	stats := Statistics{
		UserID:        u.ID,
		TotalVerbs:    totalVerbs,
		VerbsLearned:  len(records),
		TotalXP:       u.TotalXP,
		Level:         u.Level(),
		XPToNextLevel: u.XPToNextLevel(),
	}
	stats.VerbsRemaining = max(totalVerbs-stats.VerbsLearned, 0)
	stats.LearningStreakDays = min(stats.VerbsLearned/verbsPerStreakDay, maxLearningStreakDays)

	var totalStreak, mastered int
	for _, rec := range records {
		if rec.IsDue(now) {
			stats.DueVerbs++
		}
		totalStreak += rec.Streak
		stats.TotalMistakes += rec.Mistakes
		if rec.Streak >= srs.MasteryStreak {
			mastered++
		}
	}
	if stats.VerbsLearned > 0 {
		stats.AverageStreak = round1(float64(totalStreak) / float64(stats.VerbsLearned))
		stats.MasteryPercentage = round1(float64(mastered) / float64(stats.VerbsLearned) * 100)
	}
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
