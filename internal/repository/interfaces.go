// Package repository defines the storage interfaces the game server can
// report into. Both backends are optional: the server runs fully in-memory
// and the no-op implementations are used when no DSN is configured.
package repository

import (
	"context"
	"time"
)

// MatchPlayer is one participant's final line in a finished game.
type MatchPlayer struct {
	PlayerID  string
	Name      string
	Placement int
	Health    int
}

// MatchResult is one finished game.
type MatchResult struct {
	RoomCode   string
	WinnerID   string
	WinnerName string
	Rounds     int
	StartedAt  time.Time
	EndedAt    time.Time
	Players    []MatchPlayer
}

// ResultSink archives finished games. Implemented by the Postgres match
// repo; rooms call it fire-and-forget off the room goroutine.
type ResultSink interface {
	RecordMatch(ctx context.Context, result MatchResult) error
}

// LeaderboardEntry is one row of the win table.
type LeaderboardEntry struct {
	Name string  `json:"name"`
	Wins float64 `json:"wins"`
}

// Leaderboard tracks wins across games. Implemented by the Redis repo.
type Leaderboard interface {
	RecordWin(ctx context.Context, name string) error
	RecordResult(ctx context.Context, result MatchResult) error
	Top(ctx context.Context, n int) ([]LeaderboardEntry, error)
}

// NoopSink discards results. Used when no database is configured.
type NoopSink struct{}

func (NoopSink) RecordMatch(context.Context, MatchResult) error { return nil }

// NoopLeaderboard discards results. Used when no Redis is configured.
type NoopLeaderboard struct{}

func (NoopLeaderboard) RecordWin(context.Context, string) error         { return nil }
func (NoopLeaderboard) RecordResult(context.Context, MatchResult) error { return nil }
func (NoopLeaderboard) Top(context.Context, int) ([]LeaderboardEntry, error) {
	return nil, nil
}
