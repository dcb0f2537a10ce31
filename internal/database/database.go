// Package database opens the relational store and applies the schema.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect selects the DDL variant for the few statements that differ
// between the production Postgres store and the sqlite store used in tests.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
)

// OpenPostgres connects to the Postgres instance at the given URL.
func OpenPostgres(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens a sqlite database with foreign keys enabled. Tests use
// this with an in-memory DSN.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema if it does not exist yet. Click rows reference
// their link with ON DELETE CASCADE, so deleting a link removes its clicks.
func Migrate(db *sql.DB, dialect Dialect) error {
	serial := "BIGSERIAL"
	if dialect == SQLite {
		serial = "INTEGER"
	}
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS links (
			id %s PRIMARY KEY,
			alias TEXT UNIQUE NOT NULL,
			long_url TEXT NOT NULL,
			owner_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
			has_qr BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS clicks (
			id %s PRIMARY KEY,
			link_id BIGINT NOT NULL REFERENCES links (id) ON DELETE CASCADE,
			referrer TEXT,
			ua TEXT,
			ip TEXT,
			ts TIMESTAMP NOT NULL
		)`, serial),
		`CREATE INDEX IF NOT EXISTS idx_links_owner ON links (owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_clicks_link_ts ON clicks (link_id, ts)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
