package user

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

func TestUser_Level(t *testing.T) {
	tests := []struct {
		totalXP       int
		wantLevel     int
		wantRemaining int
	}{
		{totalXP: 0, wantLevel: 1, wantRemaining: 100},
		{totalXP: 99, wantLevel: 1, wantRemaining: 1},
		{totalXP: 100, wantLevel: 2, wantRemaining: 100},
		{totalXP: 250, wantLevel: 3, wantRemaining: 50},
	}
	for _, tt := range tests {
		u := User{TotalXP: tt.totalXP}
		assert.Equal(t, tt.wantLevel, u.Level(), "xp %d", tt.totalXP)
		assert.Equal(t, tt.wantRemaining, u.XPToNextLevel(), "xp %d", tt.totalXP)
	}
}

func TestDBRepository_FindByID(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	columns := []string{"id", "username", "email", "total_xp", "created_at"}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      *User
		wantErr   bool
	}{
		{
			name: "found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM users WHERE id = \\?").
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows(columns).AddRow(1, "alice", "alice@example.com", 120, now))
			},
			want: &User{ID: 1, Username: "alice", Email: "alice@example.com", TotalXP: 120, CreatedAt: now},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM users WHERE id = \\?").
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows(columns))
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM users WHERE id = \\?").
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

			got, err := repo.FindByID(context.Background(), 1)
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

func TestDBRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users \\(username, email, total_xp\\) VALUES \\(\\?, \\?, \\?\\)").
		WithArgs("alice", "alice@example.com", 0).
		WillReturnResult(sqlmock.NewResult(5, 1))

	u := &User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, NewDBRepository(sqlx.NewDb(db, "mysql")).Create(context.Background(), u))
	assert.Equal(t, int64(5), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_AddXP(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
		wantIs    error
	}{
		{
			name: "increments total xp",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE users SET total_xp = total_xp \\+ \\? WHERE id = \\?").
					WithArgs(50, int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "unknown user",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE users SET total_xp").
					WithArgs(50, int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
			wantIs:  ErrNotFound,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE users SET total_xp").
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

			err = repo.AddXP(context.Background(), 1, 50)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantIs != nil {
					assert.ErrorIs(t, err, tt.wantIs)
				}
				return
			}
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
