// Package adstest seeds throwaway sqlite databases with the ADS tables.
package adstest

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alexanderjulianmartinez/adswatch/pkg/types"
)

const schema = `
CREATE TABLE nullifiers (
	id         INTEGER PRIMARY KEY,
	value      BIGINT NOT NULL,
	tree_index BIGINT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	is_active  BOOLEAN NOT NULL DEFAULT 1
);
CREATE TABLE ads_state_commits (
	id          INTEGER PRIMARY KEY,
	batch_id    INTEGER NOT NULL,
	merkle_root TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL
);
CREATE TABLE tree_state (
	tree_id              TEXT PRIMARY KEY,
	total_nullifiers     BIGINT NOT NULL,
	next_available_index BIGINT NOT NULL,
	updated_at           TIMESTAMP NOT NULL
);
CREATE TABLE proof_batches (
	id                INTEGER PRIMARY KEY,
	transaction_count INTEGER,
	proof_status      TEXT,
	created_at        TIMESTAMP NOT NULL
);
`

// Base is the creation time of the oldest seeded row.
var Base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type Fixture struct {
	ActiveNullifiers   int
	InactiveNullifiers int
	Commits            int
	Tree               *types.TreeState
	Batches            []types.ProofBatch
}

// OpenMemory returns a single-connection in-memory database with the schema
// applied.
func OpenMemory(t testing.TB) *sql.DB {
	t.Helper()
	return open(t, ":memory:")
}

// OpenFile creates the schema in a sqlite file at path.
func OpenFile(t testing.TB, path string) *sql.DB {
	t.Helper()
	return open(t, path)
}

func open(t testing.TB, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

// Seed inserts the fixture rows. Newer rows get later creation times, so
// the i-th active nullifier has value 1000+i and tree index i+1.
func Seed(t testing.TB, db *sql.DB, f Fixture) {
	t.Helper()

	for i := 0; i < f.ActiveNullifiers; i++ {
		mustExec(t, db, "INSERT INTO nullifiers (value, tree_index, created_at, is_active) VALUES (?, ?, ?, ?)",
			1000+i, i+1, Base.Add(time.Duration(i)*time.Second), true)
	}
	for i := 0; i < f.InactiveNullifiers; i++ {
		// inactive rows are the newest so they would win an unfiltered query
		mustExec(t, db, "INSERT INTO nullifiers (value, tree_index, created_at, is_active) VALUES (?, ?, ?, ?)",
			9000+i, 900+i, Base.Add(time.Hour+time.Duration(i)*time.Second), false)
	}
	for i := 0; i < f.Commits; i++ {
		mustExec(t, db, "INSERT INTO ads_state_commits (batch_id, created_at) VALUES (?, ?)",
			i+1, Base.Add(time.Duration(i)*time.Minute))
	}
	if f.Tree != nil {
		mustExec(t, db, "INSERT INTO tree_state (tree_id, total_nullifiers, next_available_index, updated_at) VALUES (?, ?, ?, ?)",
			f.Tree.TreeID, f.Tree.TotalNullifiers, f.Tree.NextAvailableIndex, f.Tree.UpdatedAt)
	}
	for _, b := range f.Batches {
		var status any
		if b.ProofStatus != "" {
			status = b.ProofStatus
		}
		mustExec(t, db, "INSERT INTO proof_batches (id, transaction_count, proof_status, created_at) VALUES (?, ?, ?, ?)",
			b.ID, b.TransactionCount, status, b.CreatedAt)
	}
}

// Batches builds n proven batches one hour apart, with ids 1..n and
// transaction counts 10, 20, ...
func Batches(n int) []types.ProofBatch {
	out := make([]types.ProofBatch, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.ProofBatch{
			ID:               int64(i + 1),
			TransactionCount: int64(10 * (i + 1)),
			ProofStatus:      types.ProofStatusProven,
			CreatedAt:        Base.Add(time.Duration(i) * time.Hour),
		})
	}
	return out
}

func mustExec(t testing.TB, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
