//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hexbrawl/server/internal/repository"
	"github.com/hexbrawl/server/internal/testutil"
)

var testDB *sql.DB

func setup(t *testing.T) *MatchRepo {
	t.Helper()
	if testDB == nil {
		testDB = testutil.SetupDB(t)
	}
	testutil.CleanupDB(t, testDB)
	return NewMatchRepo(testDB)
}

func sampleResult(code string) repository.MatchResult {
	started := time.Now().Add(-20 * time.Minute).UTC().Truncate(time.Millisecond)
	return repository.MatchResult{
		RoomCode:   code,
		WinnerID:   "p1",
		WinnerName: "Alice",
		Rounds:     17,
		StartedAt:  started,
		EndedAt:    started.Add(18 * time.Minute),
		Players: []repository.MatchPlayer{
			{PlayerID: "p1", Name: "Alice", Placement: 1, Health: 9},
			{PlayerID: "p2", Name: "Bob", Placement: 2, Health: 0},
		},
	}
}

func TestRecordMatchRoundTrip(t *testing.T) {
	repo := setup(t)

	if err := repo.RecordMatch(context.Background(), sampleResult("AB2C")); err != nil {
		t.Fatalf("record: %v", err)
	}

	matches, err := repo.RecentMatches(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.RoomCode != "AB2C" || m.WinnerName != "Alice" || m.Rounds != 17 {
		t.Errorf("match = %+v", m)
	}
	if len(m.Players) != 2 {
		t.Fatalf("got %d players, want 2", len(m.Players))
	}
	if m.Players[0].Placement != 1 || m.Players[0].Name != "Alice" {
		t.Errorf("first player = %+v, want Alice placed 1st", m.Players[0])
	}
}

func TestRecentMatchesNewestFirst(t *testing.T) {
	repo := setup(t)

	first := sampleResult("AAAA")
	second := sampleResult("BBBB")
	second.EndedAt = first.EndedAt.Add(time.Minute)
	if err := repo.RecordMatch(context.Background(), first); err != nil {
		t.Fatalf("record first: %v", err)
	}
	if err := repo.RecordMatch(context.Background(), second); err != nil {
		t.Fatalf("record second: %v", err)
	}

	matches, err := repo.RecentMatches(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(matches) != 2 || matches[0].RoomCode != "BBBB" {
		t.Errorf("order wrong: %+v", matches)
	}
}

func TestRecordMatchDrawHasNoWinner(t *testing.T) {
	repo := setup(t)

	result := sampleResult("DRAW")
	result.WinnerID = ""
	result.WinnerName = ""
	if err := repo.RecordMatch(context.Background(), result); err != nil {
		t.Fatalf("record: %v", err)
	}
	matches, err := repo.RecentMatches(context.Background(), 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if matches[0].WinnerID != "" || matches[0].WinnerName != "" {
		t.Errorf("draw stored winner %q/%q", matches[0].WinnerID, matches[0].WinnerName)
	}
}
