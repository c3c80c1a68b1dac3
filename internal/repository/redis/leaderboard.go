package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hexbrawl/server/internal/repository"
)

// Redis keys for the win table and the recent-match list.
const (
	winsKey   = "hexbrawl:wins"
	recentKey = "hexbrawl:recent"

	recentCap = 100
)

// RecordWin bumps a player's win count. Implements part of
// repository.Leaderboard.
func (c *Client) RecordWin(ctx context.Context, name string) error {
	return c.rdb.ZIncrBy(ctx, winsKey, 1, name).Err()
}

// RecordResult pushes a finished match onto the capped recent list.
func (c *Client) RecordResult(ctx context.Context, result repository.MatchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal match result: %w", err)
	}
	pipe := c.rdb.TxPipeline()
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, recentCap-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Top returns the n highest win counts, descending.
func (c *Client) Top(ctx context.Context, n int) ([]repository.LeaderboardEntry, error) {
	scores, err := c.rdb.ZRevRangeWithScores(ctx, winsKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard range: %w", err)
	}
	entries := make([]repository.LeaderboardEntry, 0, len(scores))
	for _, z := range scores {
		name, _ := z.Member.(string)
		entries = append(entries, repository.LeaderboardEntry{Name: name, Wins: z.Score})
	}
	return entries, nil
}

// Recent returns up to n of the latest finished matches, newest first.
func (c *Client) Recent(ctx context.Context, n int) ([]repository.MatchResult, error) {
	raw, err := c.rdb.LRange(ctx, recentKey, 0, int64(n-1)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("recent matches: %w", err)
	}
	results := make([]repository.MatchResult, 0, len(raw))
	for _, item := range raw {
		var m repository.MatchResult
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue
		}
		results = append(results, m)
	}
	return results, nil
}
