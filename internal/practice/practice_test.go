package practice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/verbdrill/internal/progress"
	"github.com/at-ishikawa/verbdrill/internal/verb"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func testVerbs(n int) []verb.Verb {
	infinitives := []string{"be", "begin", "break", "bring", "buy", "catch", "choose", "come", "do", "drink"}
	verbs := make([]verb.Verb, 0, n)
	for i := 0; i < n; i++ {
		verbs = append(verbs, verb.Verb{
			ID:         int64(i + 1),
			Infinitive: infinitives[i%len(infinitives)],
		})
	}
	return verbs
}

func newTestStore(t *testing.T, verbs []verb.Verb, records ...progress.Record) (*verb.MemoryRepository, *progress.MemoryRepository) {
	t.Helper()
	catalog := verb.NewMemoryRepository(verbs...)
	store := progress.NewMemoryRepository(catalog)
	for _, rec := range records {
		require.NoError(t, store.Create(context.Background(), &rec))
	}
	return catalog, store
}

func verbIDs(verbs []verb.Verb) []int64 {
	ids := make([]int64, 0, len(verbs))
	for _, v := range verbs {
		ids = append(ids, v.ID)
	}
	return ids
}

func assertNoDuplicates(t *testing.T, verbs []verb.Verb) {
	t.Helper()
	seen := make(map[int64]bool, len(verbs))
	for _, v := range verbs {
		assert.False(t, seen[v.ID], "verb %d selected twice", v.ID)
		seen[v.ID] = true
	}
}
