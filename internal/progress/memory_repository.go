package progress

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/at-ishikawa/verbdrill/internal/verb"
)

type recordKey struct {
	userID int64
	verbID int64
}

// MemoryRepository keeps records in memory and reads verbs from a catalog.
// It enforces the same (user, verb) uniqueness as the database schema.
type MemoryRepository struct {
	mu      sync.RWMutex
	catalog verb.Repository
	records map[recordKey]Record
	nextID  int64
	shuffle func(n int, swap func(i, j int))
}

// NewMemoryRepository creates an empty store over the catalog.
func NewMemoryRepository(catalog verb.Repository) *MemoryRepository {
	return &MemoryRepository{
		catalog: catalog,
		records: make(map[recordKey]Record),
		nextID:  1,
		shuffle: rand.Shuffle,
	}
}

func (r *MemoryRepository) Get(_ context.Context, userID, verbID int64) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[recordKey{userID, verbID}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *MemoryRepository) Create(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := recordKey{record.UserID, record.VerbID}
	if _, ok := r.records[key]; ok {
		return fmt.Errorf("user %d verb %d: %w", record.UserID, record.VerbID, ErrDuplicate)
	}
	record.ID = r.nextID
	r.nextID++
	r.records[key] = *record
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := recordKey{record.UserID, record.VerbID}
	stored, ok := r.records[key]
	if !ok {
		return fmt.Errorf("user %d verb %d: progress record not found", record.UserID, record.VerbID)
	}
	stored.DueAt = record.DueAt
	stored.Streak = record.Streak
	stored.Mistakes = record.Mistakes
	stored.UpdatedAt = record.UpdatedAt
	r.records[key] = stored
	return nil
}

func (r *MemoryRepository) ListDue(_ context.Context, userID int64, now time.Time, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	due := r.filter(func(rec Record) bool {
		return rec.UserID == userID && rec.IsDue(now)
	})
	sort.Slice(due, func(i, j int) bool {
		if !due[i].DueAt.Equal(due[j].DueAt) {
			return due[i].DueAt.Before(due[j].DueAt)
		}
		return due[i].ID < due[j].ID
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID int64) ([]Record, error) {
	records := r.filter(func(rec Record) bool {
		return rec.UserID == userID
	})
	sort.Slice(records, func(i, j int) bool {
		if records[i].Streak != records[j].Streak {
			return records[i].Streak < records[j].Streak
		}
		if !records[i].DueAt.Equal(records[j].DueAt) {
			return records[i].DueAt.Before(records[j].DueAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (r *MemoryRepository) ListUnseenVerbs(ctx context.Context, userID int64, limit int) ([]verb.Verb, error) {
	all, err := r.catalog.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog.FindAll() > %w", err)
	}

	r.mu.RLock()
	var unseen []verb.Verb
	for _, v := range all {
		if _, ok := r.records[recordKey{userID, v.ID}]; !ok {
			unseen = append(unseen, v)
		}
	}
	r.mu.RUnlock()

	if limit <= 0 {
		return unseen, nil
	}
	r.shuffle(len(unseen), func(i, j int) { unseen[i], unseen[j] = unseen[j], unseen[i] })
	if len(unseen) > limit {
		unseen = unseen[:limit]
	}
	return unseen, nil
}

func (r *MemoryRepository) ListRandomVerbs(ctx context.Context, limit int) ([]verb.Verb, error) {
	if limit <= 0 {
		return nil, nil
	}
	all, err := r.catalog.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog.FindAll() > %w", err)
	}
	r.shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemoryRepository) filter(keep func(Record) bool) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var records []Record
	for _, rec := range r.records {
		if keep(rec) {
			records = append(records, rec)
		}
	}
	return records
}
