// Package db opens the five logical SQLite databases named in §6 and
// bootstraps each from its embedded schema. Schema bootstrap is treated as
// declarative data (§1's external-collaborator carve-out) — the core never
// branches on schema contents beyond the column names the repositories
// already assume are present.
package db

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Set holds an open connection to every logical database, keyed by name.
type Set struct {
	conns map[string]*sql.DB
}

// Open opens (creating if absent) every logical database under
// <basePath>/db/<name>.db and runs its bootstrap schema.
func Open(basePath string) (*Set, error) {
	set := &Set{conns: make(map[string]*sql.DB)}
	for _, name := range Names() {
		path := filepath.Join(basePath, "db", name+".db")
		conn, err := sql.Open("sqlite3", path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s database: %w", name, err)
		}
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys on %s: %w", name, err)
		}
		if _, err := conn.Exec(schemas[name]); err != nil {
			return nil, fmt.Errorf("failed to initialize schema for %s: %w", name, err)
		}
		set.conns[name] = conn
	}
	return set, nil
}

// DB returns the open connection for a logical database name, or nil if
// unrecognized.
func (s *Set) DB(name string) *sql.DB {
	return s.conns[name]
}

// Close closes every open connection, returning the first error
// encountered (if any) after attempting to close them all.
func (s *Set) Close() error {
	var first error
	for _, conn := range s.conns {
		if err := conn.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// GetSchemaSQL returns the bootstrap SQL for a logical database name, for
// test setup that wants the authoritative schema without opening a real
// Set.
func GetSchemaSQL(name string) string {
	return schemas[name]
}
