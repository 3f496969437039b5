// Package progress stores per-user review state for each verb.
package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/verbdrill/internal/database"
	"github.com/at-ishikawa/verbdrill/internal/verb"
)

// ErrDuplicate is returned by Create when a record for the (user, verb) pair already exists.
var ErrDuplicate = errors.New("progress record already exists")

// Record is the review state of one verb for one user.
// At most one record exists per (UserID, VerbID).
type Record struct {
	ID        int64     `db:"id" yaml:"id" json:"id"`
	UserID    int64     `db:"user_id" yaml:"user_id" json:"user_id"`
	VerbID    int64     `db:"verb_id" yaml:"verb_id" json:"verb_id"`
	DueAt     time.Time `db:"due_at" yaml:"due_at" json:"due_at"`
	Streak    int       `db:"streak" yaml:"streak" json:"streak"`
	Mistakes  int       `db:"mistakes" yaml:"mistakes" json:"mistakes"`
	CreatedAt time.Time `db:"created_at" yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" yaml:"updated_at" json:"updated_at"`
}

// IsDue reports whether the record should be reviewed at now.
func (r Record) IsDue(now time.Time) bool {
	return !r.DueAt.After(now)
}

//go:generate mockgen -source=repository.go -destination=../mocks/progress/mock_repository.go -package=mock_progress Repository

// Repository is the progress store. It owns the uniqueness of (user, verb).
type Repository interface {
	// Get returns the record, or nil if the user has not seen the verb.
	Get(ctx context.Context, userID, verbID int64) (*Record, error)
	// Create inserts a record and sets its id. It returns ErrDuplicate when
	// another writer created the same pair first.
	Create(ctx context.Context, record *Record) error
	// Update persists due date, streak and mistakes of an existing record.
	Update(ctx context.Context, record *Record) error
	// ListDue returns records with DueAt <= now, earliest first.
	ListDue(ctx context.Context, userID int64, now time.Time, limit int) ([]Record, error)
	// ListByUser returns all records of a user, weakest first: lowest streak, then earliest due.
	ListByUser(ctx context.Context, userID int64) ([]Record, error)
	// ListUnseenVerbs returns verbs without a record for the user in random order.
	// A non-positive limit returns all of them.
	ListUnseenVerbs(ctx context.Context, userID int64, limit int) ([]verb.Verb, error)
	// ListRandomVerbs returns up to limit catalog verbs in random order.
	ListRandomVerbs(ctx context.Context, limit int) ([]verb.Verb, error)
}

// DBRepository implements Repository on top of sqlx. Queries are written with
// ? placeholders and rebound for the driver in use.
type DBRepository struct {
	db      *sqlx.DB
	dialect database.Dialect
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{
		db:      db,
		dialect: database.DialectOf(db.DriverName()),
	}
}

func (r *DBRepository) Get(ctx context.Context, userID, verbID int64) (*Record, error) {
	var rec Record
	err := r.db.GetContext(ctx, &rec,
		r.db.Rebind("SELECT * FROM user_progress WHERE user_id = ? AND verb_id = ?"),
		userID, verbID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user_progress) > %w", err)
	}
	return &rec, nil
}

func (r *DBRepository) Create(ctx context.Context, record *Record) error {
	id, err := database.InsertReturningID(ctx, r.db,
		`INSERT INTO user_progress (user_id, verb_id, due_at, streak, mistakes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.UserID, record.VerbID, record.DueAt, record.Streak, record.Mistakes,
		record.CreatedAt, record.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("user %d verb %d: %w", record.UserID, record.VerbID, ErrDuplicate)
		}
		return fmt.Errorf("insert user_progress > %w", err)
	}
	record.ID = id
	return nil
}

func (r *DBRepository) Update(ctx context.Context, record *Record) error {
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE user_progress SET due_at = ?, streak = ?, mistakes = ?, updated_at = ? WHERE user_id = ? AND verb_id = ?"),
		record.DueAt, record.Streak, record.Mistakes, record.UpdatedAt, record.UserID, record.VerbID)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update user_progress) > %w", err)
	}
	return nil
}

func (r *DBRepository) ListDue(ctx context.Context, userID int64, now time.Time, limit int) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		r.db.Rebind("SELECT * FROM user_progress WHERE user_id = ? AND due_at <= ? ORDER BY due_at, id LIMIT ?"),
		userID, now, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due user_progress) > %w", err)
	}
	return records, nil
}

func (r *DBRepository) ListByUser(ctx context.Context, userID int64) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		r.db.Rebind("SELECT * FROM user_progress WHERE user_id = ? ORDER BY streak, due_at, id"),
		userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(user_progress by user) > %w", err)
	}
	return records, nil
}

func (r *DBRepository) ListUnseenVerbs(ctx context.Context, userID int64, limit int) ([]verb.Verb, error) {
	query := `SELECT v.* FROM verbs v
		WHERE NOT EXISTS (SELECT 1 FROM user_progress p WHERE p.verb_id = v.id AND p.user_id = ?)`
	args := []any{userID}
	if limit > 0 {
		query += " ORDER BY " + r.dialect.RandomFunc() + " LIMIT ?"
		args = append(args, limit)
	} else {
		query += " ORDER BY v.id"
	}

	var verbs []verb.Verb
	if err := r.db.SelectContext(ctx, &verbs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(unseen verbs) > %w", err)
	}
	return verbs, nil
}

func (r *DBRepository) ListRandomVerbs(ctx context.Context, limit int) ([]verb.Verb, error) {
	if limit <= 0 {
		return nil, nil
	}
	var verbs []verb.Verb
	if err := r.db.SelectContext(ctx, &verbs,
		r.db.Rebind("SELECT * FROM verbs ORDER BY "+r.dialect.RandomFunc()+" LIMIT ?"),
		limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(random verbs) > %w", err)
	}
	return verbs, nil
}
