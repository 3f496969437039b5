package verb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verbColumns = []string{"id", "infinitive", "past", "participle", "translation", "example", "created_at"}

func TestDBRepository_FindAll(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []Verb
		wantErr   bool
	}{
		{
			name: "returns all verbs",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(verbColumns).
					AddRow(1, "go", "went", "gone", "ir", "I have gone home.", now).
					AddRow(2, "see", "saw", "seen", "ver", "", now)
				mock.ExpectQuery("SELECT \\* FROM verbs ORDER BY id").WillReturnRows(rows)
			},
			want: []Verb{
				{ID: 1, Infinitive: "go", Past: "went", Participle: "gone", Translation: "ir", Example: "I have gone home.", CreatedAt: now},
				{ID: 2, Infinitive: "see", Past: "saw", Participle: "seen", Translation: "ver", CreatedAt: now},
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM verbs ORDER BY id").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			got, err := repo.FindAll(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_FindByID(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		id        int64
		setupMock func(mock sqlmock.Sqlmock)
		want      *Verb
		wantErr   bool
	}{
		{
			name: "found",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM verbs WHERE id = \\?").
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows(verbColumns).AddRow(1, "go", "went", "gone", "ir", "", now))
			},
			want: &Verb{ID: 1, Infinitive: "go", Past: "went", Participle: "gone", Translation: "ir", CreatedAt: now},
		},
		{
			name: "not found returns nil",
			id:   99,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM verbs WHERE id = \\?").
					WithArgs(int64(99)).
					WillReturnRows(sqlmock.NewRows(verbColumns))
			},
			want: nil,
		},
		{
			name: "db error",
			id:   1,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM verbs WHERE id = \\?").
					WithArgs(int64(1)).
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			got, err := repo.FindByID(context.Background(), tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_FindByIDs(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("expands ids", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT \\* FROM verbs WHERE id IN \\(\\?, \\?\\)").
			WithArgs(int64(3), int64(1)).
			WillReturnRows(sqlmock.NewRows(verbColumns).
				AddRow(1, "go", "went", "gone", "", "", now).
				AddRow(3, "take", "took", "taken", "", "", now))

		got, err := NewDBRepository(sqlx.NewDb(db, "mysql")).FindByIDs(context.Background(), []int64{3, 1})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "take", got[1].Infinitive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no ids skips the query", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		got, err := NewDBRepository(sqlx.NewDb(db, "mysql")).FindByIDs(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDBRepository_FindExistingInfinitives(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT infinitive FROM verbs WHERE infinitive IN \\(\\?, \\?, \\?\\)").
		WithArgs("go", "see", "fly").
		WillReturnRows(sqlmock.NewRows([]string{"infinitive"}).AddRow("go"))

	got, err := NewDBRepository(sqlx.NewDb(db, "mysql")).FindExistingInfinitives(context.Background(), []string{"go", "see", "fly"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM verbs").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(96))

	got, err := NewDBRepository(sqlx.NewDb(db, "mysql")).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 96, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_Search(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		q         string
		setupMock func(mock sqlmock.Sqlmock)
		want      []Verb
		wantErr   bool
	}{
		{
			name: "matches lowercased pattern on every form",
			q:    "Go",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM verbs\\s+WHERE LOWER\\(infinitive\\) LIKE \\? OR LOWER\\(past\\) LIKE \\? OR LOWER\\(participle\\) LIKE \\? OR LOWER\\(translation\\) LIKE \\?\\s+ORDER BY infinitive LIMIT \\?").
					WithArgs("%go%", "%go%", "%go%", "%go%", 20).
					WillReturnRows(sqlmock.NewRows(verbColumns).
						AddRow(1, "forgo", "forwent", "forgone", "renunciar", "", now).
						AddRow(2, "go", "went", "gone", "ir", "", now))
			},
			want: []Verb{
				{ID: 1, Infinitive: "forgo", Past: "forwent", Participle: "forgone", Translation: "renunciar", CreatedAt: now},
				{ID: 2, Infinitive: "go", Past: "went", Participle: "gone", Translation: "ir", CreatedAt: now},
			},
		},
		{
			name: "db error",
			q:    "go",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM verbs").WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			got, err := NewDBRepository(sqlx.NewDb(db, "mysql")).Search(context.Background(), tt.q, 20)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_Stats(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      Stats
		wantErr   bool
	}{
		{
			name: "groups by first letter",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT UPPER\\(SUBSTR\\(infinitive, 1, 1\\)\\) AS letter").
					WillReturnRows(sqlmock.NewRows([]string{"letter", "count", "length_sum"}).
						AddRow("G", 2, 6).
						AddRow("S", 1, 3))
			},
			want: Stats{Total: 3, AverageInfinitiveLength: 3, ByLetter: map[string]int{"G": 2, "S": 1}},
		},
		{
			name: "empty catalog",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT UPPER").
					WillReturnRows(sqlmock.NewRows([]string{"letter", "count", "length_sum"}))
			},
			want: Stats{ByLetter: map[string]int{}},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT UPPER").WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			got, err := NewDBRepository(sqlx.NewDb(db, "mysql")).Stats(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_BatchCreate(t *testing.T) {
	tests := []struct {
		name      string
		verbs     []Verb
		setupMock func(mock sqlmock.Sqlmock)
		wantIDs   []int64
		wantErr   bool
	}{
		{
			name: "inserts in a transaction",
			verbs: []Verb{
				{Infinitive: "go", Past: "went", Participle: "gone"},
				{Infinitive: "see", Past: "saw", Participle: "seen", Translation: "ver"},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO verbs").
					WithArgs("go", "went", "gone", "", "").
					WillReturnResult(sqlmock.NewResult(10, 1))
				mock.ExpectExec("INSERT INTO verbs").
					WithArgs("see", "saw", "seen", "ver", "").
					WillReturnResult(sqlmock.NewResult(11, 1))
				mock.ExpectCommit()
			},
			wantIDs: []int64{10, 11},
		},
		{
			name: "rolls back on insert failure",
			verbs: []Verb{
				{Infinitive: "go", Past: "went", Participle: "gone"},
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO verbs").
					WillReturnError(fmt.Errorf("duplicate"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
		{
			name:      "empty batch is a no-op",
			verbs:     nil,
			setupMock: func(mock sqlmock.Sqlmock) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			err = repo.BatchCreate(context.Background(), tt.verbs)
			if tt.wantErr {
				assert.Error(t, err)
				assert.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			for i, id := range tt.wantIDs {
				assert.Equal(t, id, tt.verbs[i].ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(
		Verb{Infinitive: "go", Past: "went", Participle: "gone"},
		Verb{Infinitive: "see", Past: "saw", Participle: "seen"},
	)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := repo.FindByInfinitive(ctx, "see")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)

	missing, err := repo.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)

	newVerbs := []Verb{{Infinitive: "take", Past: "took", Participle: "taken"}}
	require.NoError(t, repo.BatchCreate(ctx, newVerbs))
	assert.Equal(t, int64(3), newVerbs[0].ID)

	assert.Error(t, repo.BatchCreate(ctx, []Verb{{Infinitive: "go"}}))

	existing, err := repo.FindExistingInfinitives(ctx, []string{"take", "fly"})
	require.NoError(t, err)
	assert.Equal(t, []string{"take"}, existing)
}

func TestMemoryRepository_SearchAndStats(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(
		Verb{Infinitive: "see", Past: "saw", Participle: "seen", Translation: "ver"},
		Verb{Infinitive: "go", Past: "went", Participle: "gone", Translation: "ir"},
		Verb{Infinitive: "forgo", Past: "forwent", Participle: "forgone", Translation: "renunciar"},
		Verb{Infinitive: "take", Past: "took", Participle: "taken", Translation: "tomar"},
	)

	found, err := repo.Search(ctx, "WENT", 10)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "forgo", found[0].Infinitive)
	assert.Equal(t, "go", found[1].Infinitive)

	found, err = repo.Search(ctx, "ver", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "see", found[0].Infinitive)

	found, err = repo.Search(ctx, "o", 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		Total:                   4,
		AverageInfinitiveLength: 3.5,
		ByLetter:                map[string]int{"F": 1, "G": 1, "S": 1, "T": 1},
	}, stats)
}
