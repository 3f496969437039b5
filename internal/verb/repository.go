// Package verb provides the irregular verb catalog.
package verb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/verbdrill/internal/database"
)

// Verb is a catalog entry. The infinitive is unique across the catalog.
type Verb struct {
	ID          int64     `db:"id" yaml:"id" json:"id"`
	Infinitive  string    `db:"infinitive" yaml:"infinitive" json:"infinitive" validate:"required,max=64"`
	Past        string    `db:"past" yaml:"past" json:"past" validate:"required,max=64"`
	Participle  string    `db:"participle" yaml:"participle" json:"participle" validate:"required,max=64"`
	Translation string    `db:"translation" yaml:"translation" json:"translation" validate:"max=255"`
	Example     string    `db:"example" yaml:"example" json:"example"`
	CreatedAt   time.Time `db:"created_at" yaml:"-" json:"-"`
}

// Stats summarizes the catalog.
type Stats struct {
	Total                   int            `yaml:"total_verbs" json:"total_verbs"`
	AverageInfinitiveLength float64        `yaml:"average_infinitive_length" json:"average_infinitive_length"`
	ByLetter                map[string]int `yaml:"verbs_by_letter" json:"verbs_by_letter"`
}

func (s *Stats) add(letter string, count, lengthSum int) {
	if s.ByLetter == nil {
		s.ByLetter = make(map[string]int)
	}
	s.ByLetter[letter] += count
	s.Total += count
	s.AverageInfinitiveLength += float64(lengthSum)
}

func (s *Stats) finish() {
	if s.Total == 0 {
		s.AverageInfinitiveLength = 0
		return
	}
	s.AverageInfinitiveLength = math.Round(s.AverageInfinitiveLength/float64(s.Total)*10) / 10
}

func firstLetter(infinitive string) string {
	for _, r := range infinitive {
		return strings.ToUpper(string(r))
	}
	return "?"
}

//go:generate mockgen -source=repository.go -destination=../mocks/verb/mock_repository.go -package=mock_verb Repository

// Repository defines read and import operations on the verb catalog.
type Repository interface {
	FindAll(ctx context.Context) ([]Verb, error)
	FindByID(ctx context.Context, id int64) (*Verb, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Verb, error)
	FindByInfinitive(ctx context.Context, infinitive string) (*Verb, error)
	FindExistingInfinitives(ctx context.Context, infinitives []string) ([]string, error)
	Count(ctx context.Context) (int, error)
	// Search matches q case-insensitively against every form and the
	// translation, ordered by infinitive.
	Search(ctx context.Context, q string, limit int) ([]Verb, error)
	Stats(ctx context.Context) (Stats, error)
	BatchCreate(ctx context.Context, verbs []Verb) error
}

// DBRepository implements Repository on top of sqlx.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindAll returns every verb ordered by id.
func (r *DBRepository) FindAll(ctx context.Context) ([]Verb, error) {
	var verbs []Verb
	if err := r.db.SelectContext(ctx, &verbs, "SELECT * FROM verbs ORDER BY id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(verbs) > %w", err)
	}
	return verbs, nil
}

// FindByID returns the verb with the id, or nil if not found.
func (r *DBRepository) FindByID(ctx context.Context, id int64) (*Verb, error) {
	var v Verb
	err := r.db.GetContext(ctx, &v, r.db.Rebind("SELECT * FROM verbs WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(verb) > %w", err)
	}
	return &v, nil
}

// FindByIDs returns the verbs with the given ids in no particular order. Unknown ids are ignored.
func (r *DBRepository) FindByIDs(ctx context.Context, ids []int64) ([]Verb, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT * FROM verbs WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(verbs) > %w", err)
	}
	var verbs []Verb
	if err := r.db.SelectContext(ctx, &verbs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(verbs by ids) > %w", err)
	}
	return verbs, nil
}

// FindByInfinitive returns the verb with the infinitive, or nil if not found.
func (r *DBRepository) FindByInfinitive(ctx context.Context, infinitive string) (*Verb, error) {
	var v Verb
	err := r.db.GetContext(ctx, &v, r.db.Rebind("SELECT * FROM verbs WHERE infinitive = ?"), infinitive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(verb by infinitive) > %w", err)
	}
	return &v, nil
}

// FindExistingInfinitives returns the subset of infinitives already in the catalog.
func (r *DBRepository) FindExistingInfinitives(ctx context.Context, infinitives []string) ([]string, error) {
	if len(infinitives) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT infinitive FROM verbs WHERE infinitive IN (?)", infinitives)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(infinitives) > %w", err)
	}
	var existing []string
	if err := r.db.SelectContext(ctx, &existing, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(infinitives) > %w", err)
	}
	return existing, nil
}

// Count returns the catalog size.
func (r *DBRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM verbs"); err != nil {
		return 0, fmt.Errorf("db.GetContext(count verbs) > %w", err)
	}
	return count, nil
}

// Search returns at most limit verbs whose forms or translation contain q.
func (r *DBRepository) Search(ctx context.Context, q string, limit int) ([]Verb, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	query := r.db.Rebind(`SELECT * FROM verbs
		WHERE LOWER(infinitive) LIKE ? OR LOWER(past) LIKE ? OR LOWER(participle) LIKE ? OR LOWER(translation) LIKE ?
		ORDER BY infinitive LIMIT ?`)
	var verbs []Verb
	if err := r.db.SelectContext(ctx, &verbs, query, pattern, pattern, pattern, pattern, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(search verbs %q) > %w", q, err)
	}
	return verbs, nil
}

type letterCount struct {
	Letter    string `db:"letter"`
	Count     int    `db:"count"`
	LengthSum int    `db:"length_sum"`
}

// Stats counts verbs per first letter and averages the infinitive length.
func (r *DBRepository) Stats(ctx context.Context) (Stats, error) {
	var rows []letterCount
	if err := r.db.SelectContext(ctx, &rows, `SELECT UPPER(SUBSTR(infinitive, 1, 1)) AS letter,
		COUNT(*) AS count, SUM(LENGTH(infinitive)) AS length_sum
		FROM verbs GROUP BY UPPER(SUBSTR(infinitive, 1, 1))`); err != nil {
		return Stats{}, fmt.Errorf("db.SelectContext(verb stats) > %w", err)
	}

	stats := Stats{ByLetter: make(map[string]int, len(rows))}
	for _, row := range rows {
		letter := row.Letter
		if letter == "" {
			letter = "?"
		}
		stats.add(letter, row.Count, row.LengthSum)
	}
	stats.finish()
	return stats, nil
}

// BatchCreate inserts all verbs in one transaction and sets their ids.
func (r *DBRepository) BatchCreate(ctx context.Context, verbs []Verb) error {
	if len(verbs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer tx.Rollback()

	for i := range verbs {
		id, err := database.InsertReturningID(ctx, tx,
			"INSERT INTO verbs (infinitive, past, participle, translation, example) VALUES (?, ?, ?, ?, ?)",
			verbs[i].Infinitive, verbs[i].Past, verbs[i].Participle, verbs[i].Translation, verbs[i].Example)
		if err != nil {
			return fmt.Errorf("insert verb %s > %w", verbs[i].Infinitive, err)
		}
		verbs[i].ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}
