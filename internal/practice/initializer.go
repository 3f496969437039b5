package practice

import (
	"context"
	"fmt"
	"time"

	"github.com/at-ishikawa/verbdrill/internal/progress"
)

// Initializer enrolls a user in every verb of the catalog.
type Initializer struct {
	store progress.Repository
}

// NewInitializer creates a new Initializer.
func NewInitializer(store progress.Repository) *Initializer {
	return &Initializer{store: store}
}

// Initialize creates a baseline record due at now for each verb the user has
// not seen yet and returns how many were created. Running it again creates
// nothing.
func (i *Initializer) Initialize(ctx context.Context, userID int64, now time.Time) (int, error) {
	unseen, err := i.store.ListUnseenVerbs(ctx, userID, 0)
	if err != nil {
		return 0, fmt.Errorf("store.ListUnseenVerbs() > %w", err)
	}
	created := 0
	for _, v := range unseen {
		_, ok, err := enroll(ctx, i.store, userID, v.ID, now)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}
