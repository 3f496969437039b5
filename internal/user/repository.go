// Package user provides learner accounts and their experience points.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/verbdrill/internal/database"
)

// XPPerLevel is the experience needed to gain one level.
const XPPerLevel = 100

// ErrNotFound is returned by writes addressed to a user that does not exist.
var ErrNotFound = errors.New("user not found")

// User is a learner.
type User struct {
	ID        int64     `db:"id" yaml:"id" json:"id"`
	Username  string    `db:"username" yaml:"username" json:"username" validate:"required,min=3,max=64"`
	Email     string    `db:"email" yaml:"email" json:"email" validate:"required,email"`
	TotalXP   int       `db:"total_xp" yaml:"total_xp" json:"total_xp"`
	CreatedAt time.Time `db:"created_at" yaml:"created_at" json:"created_at"`
}

// Level returns the learner level derived from total XP, starting at 1.
func (u User) Level() int {
	return u.TotalXP/XPPerLevel + 1
}

// XPToNextLevel returns the XP still needed to reach the next level.
func (u User) XPToNextLevel() int {
	return XPPerLevel - u.TotalXP%XPPerLevel
}

//go:generate mockgen -source=repository.go -destination=../mocks/user/mock_repository.go -package=mock_user Repository

// Repository defines operations on users.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	AddXP(ctx context.Context, id int64, amount int) error
}

// DBRepository implements Repository on top of sqlx.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindByID returns the user, or nil if not found.
func (r *DBRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, r.db.Rebind("SELECT * FROM users WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user) > %w", err)
	}
	return &u, nil
}

// FindByUsername returns the user, or nil if not found.
func (r *DBRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, r.db.Rebind("SELECT * FROM users WHERE username = ?"), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user by username) > %w", err)
	}
	return &u, nil
}

// Create inserts a user and sets its id.
func (r *DBRepository) Create(ctx context.Context, user *User) error {
	id, err := database.InsertReturningID(ctx, r.db,
		"INSERT INTO users (username, email, total_xp) VALUES (?, ?, ?)",
		user.Username, user.Email, user.TotalXP)
	if err != nil {
		return fmt.Errorf("insert user > %w", err)
	}
	user.ID = id
	return nil
}

// AddXP increments the user's total XP in a single statement.
func (r *DBRepository) AddXP(ctx context.Context, id int64, amount int) error {
	if amount == 0 {
		return nil
	}
	result, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE users SET total_xp = total_xp + ? WHERE id = ?"), amount, id)
	if err != nil {
		return fmt.Errorf("db.ExecContext(update total_xp) > %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("result.RowsAffected() > %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d > %w", id, ErrNotFound)
	}
	return nil
}
