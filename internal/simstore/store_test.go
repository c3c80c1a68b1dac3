package simstore

import "testing"

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndCount(t *testing.T) {
	db := openMemDB(t)

	runs := []Run{
		{LeftComp: "wolf x2", RightComp: "archer x2", Seed: 1, Winner: WinnerLeft, Ticks: 120, DurationSeconds: 6, Survivors: 1, Damage: 2},
		{LeftComp: "wolf x2", RightComp: "archer x2", Seed: 2, Winner: WinnerRight, Ticks: 200, DurationSeconds: 10, Survivors: 2, Damage: 3},
	}
	if err := db.InsertRuns(runs); err != nil {
		t.Fatalf("InsertRuns: %v", err)
	}

	count, err := db.CountRuns()
	if err != nil {
		t.Fatalf("CountRuns: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestSummariesAggregate(t *testing.T) {
	db := openMemDB(t)

	runs := []Run{
		{LeftComp: "a", RightComp: "b", Seed: 1, Winner: WinnerLeft, Ticks: 100, Damage: 2},
		{LeftComp: "a", RightComp: "b", Seed: 2, Winner: WinnerLeft, Ticks: 200, Damage: 4},
		{LeftComp: "a", RightComp: "b", Seed: 3, Winner: WinnerDraw, Ticks: 300, Damage: 0},
		{LeftComp: "c", RightComp: "d", Seed: 4, Winner: WinnerRight, Ticks: 50, Damage: 5},
	}
	if err := db.InsertRuns(runs); err != nil {
		t.Fatalf("InsertRuns: %v", err)
	}

	summaries, err := db.Summaries()
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	// Largest sample first.
	s := summaries[0]
	if s.LeftComp != "a" || s.Games != 3 || s.LeftWins != 2 || s.RightWins != 0 || s.Draws != 1 {
		t.Errorf("summary = %+v", s)
	}
	if s.AvgTicks != 200 {
		t.Errorf("avg ticks = %v, want 200", s.AvgTicks)
	}
	if s.AvgDamage != 2 {
		t.Errorf("avg damage = %v, want 2", s.AvgDamage)
	}

	second := summaries[1]
	if second.LeftComp != "c" || second.RightWins != 1 {
		t.Errorf("second summary = %+v", second)
	}
}

func TestRejectsUnknownWinnerLabel(t *testing.T) {
	db := openMemDB(t)
	err := db.InsertRuns([]Run{{LeftComp: "a", RightComp: "b", Seed: 1, Winner: "sideways"}})
	if err == nil {
		t.Error("expected check constraint to reject unknown winner label")
	}
}
