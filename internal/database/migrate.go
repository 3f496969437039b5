package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/verbdrill/schemas"
)

// Migrate applies the embedded schema files for the connection's dialect in
// file name order. Every statement is idempotent, so running it twice is safe.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	return migrate(ctx, db, schemas.Migrations)
}

func migrate(ctx context.Context, db *sqlx.DB, migrations fs.FS) error {
	dir := path.Join("migrations", string(DialectOf(db.DriverName())))
	entries, err := fs.ReadDir(migrations, dir)
	if err != nil {
		return fmt.Errorf("fs.ReadDir(%s) > %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		file := path.Join(dir, entry.Name())
		contents, err := fs.ReadFile(migrations, file)
		if err != nil {
			return fmt.Errorf("fs.ReadFile(%s) > %w", file, err)
		}
		for _, stmt := range splitStatements(string(contents)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("db.ExecContext(%s) > %w", entry.Name(), err)
			}
		}
		slog.Default().Debug("applied migration", "file", file)
	}
	return nil
}

func splitStatements(contents string) []string {
	var stmts []string
	for _, stmt := range strings.Split(contents, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}
