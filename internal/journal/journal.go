// Package journal is the write-only, append-only session history backed by
// modernc.org/sqlite, grounded on internal/graph/sqlite_graph.go's pure-Go
// embedded-database usage. Never read back by the engine itself — this
// exists purely so a human debugging a session afterward has one place to
// look (spec.md §6.5, ambient addition beyond spec.md's persisted-state
// layout).
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Journal appends rows to journal.db inside a session's output directory.
type Journal struct {
	db *sql.DB
}

// Open creates (or reopens) the journal database at path, creating its
// tables if absent.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS registered_inputs (
			ts INTEGER NOT NULL,
			type_id TEXT NOT NULL,
			chunk_count INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS cmplog_hits (
			ts INTEGER NOT NULL,
			path TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS minimizations (
			ts INTEGER NOT NULL,
			kind TEXT NOT NULL,
			accepted INTEGER NOT NULL
		);
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal tables: %w", err)
	}
	return &Journal{db: db}, nil
}

// RecordInput logs one RegisterInput call: the root value's TypeID and how
// many chunks it produced.
func (j *Journal) RecordInput(typeID string, chunkCount int, now time.Time) error {
	_, err := j.db.Exec(
		`INSERT INTO registered_inputs (ts, type_id, chunk_count) VALUES (?, ?, ?)`,
		now.UnixNano(), typeID, chunkCount,
	)
	if err != nil {
		return fmt.Errorf("journal: record input: %w", err)
	}
	return nil
}

// RecordCmpHit logs one interesting-path addition from the cmplog stage.
func (j *Journal) RecordCmpHit(pathRepr string, now time.Time) error {
	_, err := j.db.Exec(
		`INSERT INTO cmplog_hits (ts, path) VALUES (?, ?)`,
		now.UnixNano(), pathRepr,
	)
	if err != nil {
		return fmt.Errorf("journal: record cmp hit: %w", err)
	}
	return nil
}

// RecordMinimization logs one minimization pass outcome.
func (j *Journal) RecordMinimization(kind string, accepted bool, now time.Time) error {
	acceptedInt := 0
	if accepted {
		acceptedInt = 1
	}
	_, err := j.db.Exec(
		`INSERT INTO minimizations (ts, kind, accepted) VALUES (?, ?, ?)`,
		now.UnixNano(), kind, acceptedInt,
	)
	if err != nil {
		return fmt.Errorf("journal: record minimization: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}
