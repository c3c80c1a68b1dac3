// Package simstore persists offline simulation runs to SQLite so balance
// sweeps can be aggregated across invocations.
package simstore

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Winner labels for a stored run.
const (
	WinnerLeft  = "left"
	WinnerRight = "right"
	WinnerDraw  = "draw"
)

// Run is one simulated combat.
type Run struct {
	ID              int64
	LeftComp        string
	RightComp       string
	Seed            int64
	Winner          string
	Ticks           int
	DurationSeconds float64
	Survivors       int
	Damage          int
}

// MatchupSummary aggregates every stored run of one comp pairing.
type MatchupSummary struct {
	LeftComp  string
	RightComp string
	Games     int
	LeftWins  int
	RightWins int
	Draws     int
	AvgTicks  float64
	AvgDamage float64
}

// DB wraps a sql.DB for the run store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies the schema.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// InsertRuns bulk-inserts runs in a transaction.
func (db *DB) InsertRuns(runs []Run) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO runs(left_comp, right_comp, seed, winner, ticks, duration_seconds, survivors, damage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range runs {
		if _, err := stmt.Exec(
			r.LeftComp, r.RightComp, r.Seed, r.Winner,
			r.Ticks, r.DurationSeconds, r.Survivors, r.Damage,
		); err != nil {
			return fmt.Errorf("insert run seed %d: %w", r.Seed, err)
		}
	}
	return tx.Commit()
}

// CountRuns returns the total number of stored runs.
func (db *DB) CountRuns() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM runs").Scan(&count)
	return count, err
}

// Summaries aggregates stored runs per comp pairing, largest sample first.
func (db *DB) Summaries() ([]MatchupSummary, error) {
	rows, err := db.conn.Query(`
		SELECT left_comp, right_comp,
		       COUNT(1),
		       SUM(CASE WHEN winner = 'left' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN winner = 'right' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN winner = 'draw' THEN 1 ELSE 0 END),
		       AVG(ticks),
		       AVG(damage)
		FROM runs
		GROUP BY left_comp, right_comp
		ORDER BY COUNT(1) DESC, left_comp, right_comp`)
	if err != nil {
		return nil, fmt.Errorf("summaries: %w", err)
	}
	defer rows.Close()

	var summaries []MatchupSummary
	for rows.Next() {
		var s MatchupSummary
		if err := rows.Scan(&s.LeftComp, &s.RightComp, &s.Games, &s.LeftWins, &s.RightWins, &s.Draws, &s.AvgTicks, &s.AvgDamage); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
