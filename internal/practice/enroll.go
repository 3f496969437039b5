package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/at-ishikawa/verbdrill/internal/progress"
)

// enroll creates a baseline record due at now. If another writer created the
// pair first, the stored record is returned with created=false.
func enroll(ctx context.Context, store progress.Repository, userID, verbID int64, now time.Time) (*progress.Record, bool, error) {
	rec := &progress.Record{
		UserID:    userID,
		VerbID:    verbID,
		DueAt:     now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := store.Create(ctx, rec)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, progress.ErrDuplicate) {
		return nil, false, fmt.Errorf("store.Create() > %w", err)
	}

	existing, err := store.Get(ctx, userID, verbID)
	if err != nil {
		return nil, false, fmt.Errorf("store.Get() > %w", err)
	}
	if existing == nil {
		return nil, false, fmt.Errorf("record for user %d verb %d vanished after duplicate insert", userID, verbID)
	}
	return existing, false, nil
}

// ensureRecord returns the existing record or enrolls the verb.
func ensureRecord(ctx context.Context, store progress.Repository, userID, verbID int64, now time.Time) (*progress.Record, error) {
	rec, err := store.Get(ctx, userID, verbID)
	if err != nil {
		return nil, fmt.Errorf("store.Get() > %w", err)
	}
	if rec != nil {
		return rec, nil
	}
	rec, _, err = enroll(ctx, store, userID, verbID, now)
	return rec, err
}
