// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains the SQL migration files, one directory per dialect
// (migrations/mysql, migrations/postgres, migrations/sqlite).
//
//go:embed migrations
var Migrations embed.FS
