package verb

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// MemoryRepository keeps the catalog in memory. It is used for dry runs and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	verbs  []Verb
	nextID int64
}

// NewMemoryRepository creates a repository seeded with verbs. Verbs without
// an id are assigned one.
func NewMemoryRepository(verbs ...Verb) *MemoryRepository {
	r := &MemoryRepository{nextID: 1}
	for _, v := range verbs {
		if v.ID == 0 {
			v.ID = r.nextID
		}
		r.nextID = max(r.nextID, v.ID+1)
		r.verbs = append(r.verbs, v)
	}
	return r
}

func (r *MemoryRepository) FindAll(_ context.Context) ([]Verb, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.verbs), nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (*Verb, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.verbs {
		if v.ID == id {
			return &v, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) FindByIDs(_ context.Context, ids []int64) ([]Verb, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found []Verb
	for _, v := range r.verbs {
		if slices.Contains(ids, v.ID) {
			found = append(found, v)
		}
	}
	return found, nil
}

func (r *MemoryRepository) FindByInfinitive(_ context.Context, infinitive string) (*Verb, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.verbs {
		if v.Infinitive == infinitive {
			return &v, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) FindExistingInfinitives(_ context.Context, infinitives []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var existing []string
	for _, v := range r.verbs {
		if slices.Contains(infinitives, v.Infinitive) {
			existing = append(existing, v.Infinitive)
		}
	}
	return existing, nil
}

func (r *MemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.verbs), nil
}

func (r *MemoryRepository) Search(_ context.Context, q string, limit int) ([]Verb, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q = strings.ToLower(q)
	var found []Verb
	for _, v := range r.verbs {
		for _, field := range []string{v.Infinitive, v.Past, v.Participle, v.Translation} {
			if strings.Contains(strings.ToLower(field), q) {
				found = append(found, v)
				break
			}
		}
	}
	slices.SortStableFunc(found, func(a, b Verb) int {
		return strings.Compare(a.Infinitive, b.Infinitive)
	})
	if len(found) > limit {
		found = found[:max(limit, 0)]
	}
	return found, nil
}

func (r *MemoryRepository) Stats(_ context.Context) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := Stats{ByLetter: make(map[string]int)}
	for _, v := range r.verbs {
		stats.add(firstLetter(v.Infinitive), 1, utf8.RuneCountInString(v.Infinitive))
	}
	stats.finish()
	return stats, nil
}

func (r *MemoryRepository) BatchCreate(_ context.Context, verbs []Verb) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range verbs {
		for _, existing := range r.verbs {
			if existing.Infinitive == v.Infinitive {
				return fmt.Errorf("verb %s already exists", v.Infinitive)
			}
		}
	}
	now := time.Now().UTC()
	for i := range verbs {
		verbs[i].ID = r.nextID
		verbs[i].CreatedAt = now
		r.nextID++
		r.verbs = append(r.verbs, verbs[i])
	}
	return nil
}
