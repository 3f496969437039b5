// Package practice selects verbs for review and records answers.
package practice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/verbdrill/internal/progress"
	"github.com/at-ishikawa/verbdrill/internal/verb"
)

// batch accumulates the verbs chosen across tiers. Every tier consults the
// same selected set, so a verb is never added twice.
type batch struct {
	verbs    []verb.Verb
	selected map[int64]struct{}
	limit    int
}

func newBatch(limit int) *batch {
	return &batch{
		verbs:    make([]verb.Verb, 0, limit),
		selected: make(map[int64]struct{}, limit),
		limit:    limit,
	}
}

func (b *batch) remaining() int {
	return b.limit - len(b.verbs)
}

func (b *batch) full() bool {
	return b.remaining() <= 0
}

func (b *batch) contains(verbID int64) bool {
	_, ok := b.selected[verbID]
	return ok
}

func (b *batch) add(v verb.Verb) bool {
	if b.full() || b.contains(v.ID) {
		return false
	}
	b.selected[v.ID] = struct{}{}
	b.verbs = append(b.verbs, v)
	return true
}

type tier struct {
	name string
	fill func(ctx context.Context, userID int64, now time.Time, b *batch) error
}

// Selector builds practice batches from an ordered list of tiers:
// due verbs, unseen verbs, the user's weakest verbs, then random verbs.
type Selector struct {
	store   progress.Repository
	catalog verb.Repository
	logger  *slog.Logger
	tiers   []tier
}

// NewSelector creates a new Selector.
func NewSelector(store progress.Repository, catalog verb.Repository, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Selector{
		store:   store,
		catalog: catalog,
		logger:  logger,
	}
	s.tiers = []tier{
		{name: "due", fill: s.fillDue},
		{name: "unseen", fill: s.fillUnseen},
		{name: "weakest", fill: s.fillWeakest},
		{name: "random", fill: s.fillRandom},
	}
	return s
}

// Select returns up to limit distinct verbs for the user. A non-positive
// limit yields an empty batch without touching the store.
func (s *Selector) Select(ctx context.Context, userID int64, limit int, now time.Time) ([]verb.Verb, error) {
	if limit <= 0 {
		return []verb.Verb{}, nil
	}

	b := newBatch(limit)
	for _, t := range s.tiers {
		if b.full() {
			break
		}
		before := len(b.verbs)
		if err := t.fill(ctx, userID, now, b); err != nil {
			return nil, fmt.Errorf("%s tier > %w", t.name, err)
		}
		s.logger.Debug("practice tier filled",
			"tier", t.name,
			"user_id", userID,
			"added", len(b.verbs)-before,
			"remaining", b.remaining(),
		)
	}
	return b.verbs, nil
}

func (s *Selector) fillDue(ctx context.Context, userID int64, now time.Time, b *batch) error {
	records, err := s.store.ListDue(ctx, userID, now, b.remaining())
	if err != nil {
		return fmt.Errorf("store.ListDue() > %w", err)
	}
	return s.addRecords(ctx, records, b)
}

func (s *Selector) fillUnseen(ctx context.Context, userID int64, now time.Time, b *batch) error {
	verbs, err := s.store.ListUnseenVerbs(ctx, userID, b.remaining())
	if err != nil {
		return fmt.Errorf("store.ListUnseenVerbs() > %w", err)
	}
	for _, v := range verbs {
		if b.full() {
			break
		}
		if b.contains(v.ID) {
			continue
		}
		if _, _, err := enroll(ctx, s.store, userID, v.ID, now); err != nil {
			return err
		}
		b.add(v)
	}
	return nil
}

func (s *Selector) fillWeakest(ctx context.Context, userID int64, _ time.Time, b *batch) error {
	records, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("store.ListByUser() > %w", err)
	}
	candidates := make([]progress.Record, 0, b.remaining())
	for _, rec := range records {
		if len(candidates) >= b.remaining() {
			break
		}
		if !b.contains(rec.VerbID) {
			candidates = append(candidates, rec)
		}
	}
	return s.addRecords(ctx, candidates, b)
}

func (s *Selector) fillRandom(ctx context.Context, userID int64, now time.Time, b *batch) error {
	// over-fetch by the batch size so that already selected verbs can be skipped
	verbs, err := s.store.ListRandomVerbs(ctx, b.remaining()+len(b.verbs))
	if err != nil {
		return fmt.Errorf("store.ListRandomVerbs() > %w", err)
	}
	for _, v := range verbs {
		if b.full() {
			break
		}
		if b.contains(v.ID) {
			continue
		}
		if _, err := ensureRecord(ctx, s.store, userID, v.ID, now); err != nil {
			return err
		}
		b.add(v)
	}
	return nil
}

// addRecords resolves the verbs of records and adds them in record order.
func (s *Selector) addRecords(ctx context.Context, records []progress.Record, b *batch) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.VerbID)
	}
	verbs, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("catalog.FindByIDs() > %w", err)
	}
	byID := make(map[int64]verb.Verb, len(verbs))
	for _, v := range verbs {
		byID[v.ID] = v
	}
	for _, rec := range records {
		if v, ok := byID[rec.VerbID]; ok {
			b.add(v)
		}
	}
	return nil
}
