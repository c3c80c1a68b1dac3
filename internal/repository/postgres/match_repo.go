package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/hexbrawl/server/internal/repository"
)

// Schema is the match archive DDL. Idempotent; applied at startup.
//
//go:embed schema.sql
var Schema string

// MatchRepo archives finished matches. Implements repository.ResultSink.
type MatchRepo struct {
	db *sql.DB
}

// NewMatchRepo creates a MatchRepo.
func NewMatchRepo(db *sql.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Migrate applies the schema.
func (r *MatchRepo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// RecordMatch inserts a finished match and its per-player rows in one
// transaction.
func (r *MatchRepo) RecordMatch(ctx context.Context, result repository.MatchResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record match: %w", err)
	}
	defer tx.Rollback()

	var matchID string
	err = tx.QueryRowContext(ctx,
		`INSERT INTO matches (room_code, winner_id, winner_name, rounds, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		result.RoomCode, result.WinnerID, result.WinnerName, result.Rounds, result.StartedAt, result.EndedAt,
	).Scan(&matchID)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	for _, p := range result.Players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO match_players (match_id, player_id, name, placement, health)
			 VALUES ($1, $2, $3, $4, $5)`,
			matchID, p.PlayerID, p.Name, p.Placement, p.Health,
		); err != nil {
			return fmt.Errorf("insert match player: %w", err)
		}
	}
	return tx.Commit()
}

// RecentMatches returns the latest finished matches with their players,
// newest first.
func (r *MatchRepo) RecentMatches(ctx context.Context, limit int) ([]repository.MatchResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, room_code, winner_id, winner_name, rounds, started_at, ended_at
		 FROM matches ORDER BY ended_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var results []repository.MatchResult
	var ids []string
	for rows.Next() {
		var id string
		var m repository.MatchResult
		if err := rows.Scan(&id, &m.RoomCode, &m.WinnerID, &m.WinnerName, &m.Rounds, &m.StartedAt, &m.EndedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		ids = append(ids, id)
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		players, err := r.matchPlayers(ctx, id)
		if err != nil {
			return nil, err
		}
		results[i].Players = players
	}
	return results, nil
}

func (r *MatchRepo) matchPlayers(ctx context.Context, matchID string) ([]repository.MatchPlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT player_id, name, placement, health
		 FROM match_players WHERE match_id = $1 ORDER BY placement, name`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match players: %w", err)
	}
	defer rows.Close()

	var players []repository.MatchPlayer
	for rows.Next() {
		var p repository.MatchPlayer
		if err := rows.Scan(&p.PlayerID, &p.Name, &p.Placement, &p.Health); err != nil {
			return nil, fmt.Errorf("scan match player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}
