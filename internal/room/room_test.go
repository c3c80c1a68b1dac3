package room

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hexbrawl/server/internal/catalog"
	"github.com/hexbrawl/server/internal/game"
	"github.com/hexbrawl/server/internal/protocol"
	"github.com/hexbrawl/server/pkg/combat"
)

// captureSender records every frame per client.
type captureSender struct {
	mu     sync.Mutex
	frames map[string][]any
}

func newCaptureSender() *captureSender {
	return &captureSender{frames: make(map[string][]any)}
}

func (c *captureSender) Send(clientID string, frame any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames[clientID] = append(c.frames[clientID], frame)
}

func newTestRoom(t *testing.T, seed int64, players int) (*Room, *captureSender) {
	t.Helper()
	sender := newCaptureSender()
	r := New("TEST", catalog.Default(), sender, Options{Seed: seed})
	t.Cleanup(r.Close)
	for i := 0; i < players; i++ {
		id := fmt.Sprintf("p%d", i)
		var err error
		r.Do(func() { err = r.Join(id, "Player"+id) })
		if err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	return r, sender
}

func TestJoinCapsAtFourPlayers(t *testing.T) {
	r, _ := newTestRoom(t, 1, 4)
	var err error
	r.Do(func() { err = r.Join("p4", "Latecomer") })
	if err != ErrRoomFull {
		t.Errorf("fifth join err = %v, want %v", err, ErrRoomFull)
	}
}

func TestJoinRejectedMidGame(t *testing.T) {
	r, _ := newTestRoom(t, 1, 2)
	r.Do(func() { r.startGame() })
	var err error
	r.Do(func() { err = r.Join("late", "Late") })
	if err != ErrGameInProgress {
		t.Errorf("mid-game join err = %v, want %v", err, ErrGameInProgress)
	}
}

func TestAllReadyStartsGame(t *testing.T) {
	r, _ := newTestRoom(t, 1, 2)
	r.Do(func() { r.SetReady("p0", true) })
	r.Do(func() { r.SetReady("p1", true) })

	var phase Phase
	var round int
	var benched int
	r.Do(func() {
		phase = r.phase
		round = r.round
		for _, u := range r.findPlayer("p0").Bench {
			if u != nil {
				benched++
			}
		}
	})
	if phase != PhasePlanning || round != 1 {
		t.Fatalf("phase/round = %s/%d, want planning/1", phase, round)
	}
	if benched != 1 {
		t.Errorf("starting units on bench = %d, want 1", benched)
	}
}

func TestSingleReadyDoesNotStart(t *testing.T) {
	r, _ := newTestRoom(t, 1, 2)
	r.Do(func() { r.SetReady("p0", true) })
	var phase Phase
	r.Do(func() { phase = r.phase })
	if phase != PhaseWaiting {
		t.Errorf("phase = %s, want waiting with one unready player", phase)
	}
}

func TestGenerationGuardsLateCallbacks(t *testing.T) {
	r, _ := newTestRoom(t, 1, 2)

	fired := false
	r.Do(func() {
		r.schedule(10*time.Millisecond, func() { fired = true })
		r.bumpGeneration()
	})
	time.Sleep(60 * time.Millisecond)
	r.Do(func() {})
	if fired {
		t.Error("callback from a stale generation mutated state")
	}

	ran := false
	r.Do(func() {
		r.schedule(10*time.Millisecond, func() { ran = true })
	})
	time.Sleep(60 * time.Millisecond)
	r.Do(func() {})
	if !ran {
		t.Error("callback from the live generation never ran")
	}
}

func TestGenerationStrictlyIncreases(t *testing.T) {
	r, _ := newTestRoom(t, 1, 2)
	var gens [3]int
	r.Do(func() {
		gens[0] = r.generation
		r.startGame()
		gens[1] = r.generation
		r.enterCombat()
		gens[2] = r.generation
	})
	if !(gens[0] < gens[1] && gens[1] < gens[2]) {
		t.Errorf("generations not strictly increasing: %v", gens)
	}
}

func TestForcedAdvanceCancelsResultsCallback(t *testing.T) {
	r, _ := newTestRoom(t, 1, 2)
	r.Do(func() {
		r.startGame()
		r.round = 2 // pvp
		r.enterCombat()
	})

	var phase Phase
	r.Do(func() {
		// Force the game over before the scheduled results fire.
		r.endGame(nil)
		phase = r.phase
	})
	if phase != PhaseGameOver {
		t.Fatalf("phase = %s, want gameOver", phase)
	}

	time.Sleep(50 * time.Millisecond)
	r.Do(func() { phase = r.phase })
	if phase != PhaseGameOver {
		t.Errorf("stale results callback moved phase to %s", phase)
	}
}

func TestHostAlternatesAcrossMeetings(t *testing.T) {
	r, _ := newTestRoom(t, 1, 2)
	var hosts [4]string
	r.Do(func() {
		r.startGame()
		a, b := r.findPlayer("p0"), r.findPlayer("p1")
		for i := range hosts {
			h, _ := r.chooseHost(a, b)
			hosts[i] = h.ID
		}
	})
	for i := 1; i < len(hosts); i++ {
		if hosts[i] == hosts[i-1] {
			t.Errorf("meeting %d: host %s repeated", i, hosts[i])
		}
	}
}

func TestThreePlayerRoundHasGhostMatch(t *testing.T) {
	r, _ := newTestRoom(t, 3, 3)
	var matchups []*Matchup
	r.Do(func() {
		r.startGame()
		matchups = r.buildPvPMatchups()
	})
	if len(matchups) != 2 {
		t.Fatalf("matchups = %d, want 2", len(matchups))
	}
	if matchups[0].Ghost {
		t.Error("first matchup is a ghost")
	}
	if !matchups[1].Ghost {
		t.Error("odd player's matchup is not a ghost")
	}
}

func TestGhostMatchDealsNoDamage(t *testing.T) {
	r, _ := newTestRoom(t, 3, 3)
	r.Do(func() {
		r.startGame()
		m := &Matchup{HostID: "p0", AwayID: "p2", Ghost: true}
		m.result = combat.Result{Winner: combat.SideHost, Survivors: 3, Damage: 4}
		r.applyMatchupResult(m)
	})
	var health [2]int
	r.Do(func() {
		health[0] = r.findPlayer("p0").Health
		health[1] = r.findPlayer("p2").Health
	})
	if health[0] != catalog.StartingHealth || health[1] != catalog.StartingHealth {
		t.Errorf("ghost match changed health: %v", health)
	}
}

func TestEliminationEndsGame(t *testing.T) {
	r, sender := newTestRoom(t, 1, 2)
	r.Do(func() {
		r.startGame()
		r.findPlayer("p1").ApplyCombatDamage(100)
		r.enterResults()
	})
	var phase Phase
	r.Do(func() { phase = r.phase })
	if phase != PhaseGameOver {
		t.Fatalf("phase = %s, want gameOver after elimination", phase)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	found := false
	for _, f := range sender.frames["p0"] {
		if end, ok := f.(protocol.GameEnd); ok {
			found = true
			if end.WinnerID != "p0" {
				t.Errorf("winnerId = %s, want p0", end.WinnerID)
			}
		}
	}
	if !found {
		t.Error("no gameEnd frame sent")
	}
}

func TestLeaveMidGameReturnsUnitsToPool(t *testing.T) {
	r, _ := newTestRoom(t, 1, 3)
	var heldBefore, heldAfter int
	r.Do(func() {
		r.startGame()
		heldBefore = r.pool.TotalHeld()
		r.Leave("p1")
		heldAfter = r.pool.TotalHeld()
	})
	// p1 held one starting unit plus four shop reservations.
	if heldAfter >= heldBefore {
		t.Errorf("pool held %d -> %d, expected copies returned on leave", heldBefore, heldAfter)
	}
	var seats int
	r.Do(func() { seats = len(r.players) })
	if seats != 2 {
		t.Errorf("seats = %d, want 2", seats)
	}
}

func TestLastLeaveDeletesRoom(t *testing.T) {
	deleted := make(chan *Room, 1)
	sender := newCaptureSender()
	r := New("GONE", catalog.Default(), sender, Options{Seed: 1, OnEmpty: func(r *Room) { deleted <- r }})
	r.Do(func() {
		if err := r.Join("p0", "Solo"); err != nil {
			t.Errorf("join: %v", err)
		}
	})
	r.Do(func() { r.Leave("p0") })

	select {
	case got := <-deleted:
		if got != r {
			t.Error("onEmpty called with wrong room")
		}
	case <-time.After(time.Second):
		t.Fatal("room never reported empty")
	}
}

func TestReadyAdvancesPlanningEarly(t *testing.T) {
	r, _ := newTestRoom(t, 1, 2)
	r.Do(func() {
		r.startGame()
		r.startRound(2) // pvp
	})
	r.Do(func() { r.SetReady("p0", true) })
	var phase Phase
	r.Do(func() { phase = r.phase })
	if phase != PhasePlanning {
		t.Fatalf("phase = %s after one ready, want planning", phase)
	}
	r.Do(func() { r.SetReady("p1", true) })
	r.Do(func() { phase = r.phase })
	if phase != PhaseCombat {
		t.Errorf("phase = %s after all ready, want combat", phase)
	}
}

func TestRoundScheduleSpecialRounds(t *testing.T) {
	tests := []struct {
		round int
		want  catalog.RoundType
	}{
		{1, catalog.RoundPvEIntro},
		{4, catalog.RoundMerchant},
		{6, catalog.RoundMajorCrest},
		{8, catalog.RoundPvELoot},
		{12, catalog.RoundPvEBoss},
		{15, catalog.RoundPvP},
		{99, catalog.RoundPvP},
	}
	for _, tt := range tests {
		if got := catalog.RoundTypeAt(tt.round); got != tt.want {
			t.Errorf("RoundTypeAt(%d) = %s, want %s", tt.round, got, tt.want)
		}
	}
}

func TestEventBatching(t *testing.T) {
	events := make([]combat.Event, 120)
	batches := batchEvents(events)
	if len(batches) != 3 {
		t.Fatalf("batches = %d, want 3", len(batches))
	}
	for i, want := range []int{50, 50, 20} {
		if len(batches[i]) != want {
			t.Errorf("batch %d size = %d, want %d", i, len(batches[i]), want)
		}
	}
	if got := batchEvents(nil); len(got) != 1 || len(got[0]) != 0 {
		t.Errorf("empty log should yield one empty batch, got %d", len(got))
	}
}

func TestPvERoundQueuesLoot(t *testing.T) {
	r, _ := newTestRoom(t, 1, 2)
	r.Do(func() {
		r.startGame()
		p := r.findPlayer("p0")
		events := []combat.Event{
			{Type: combat.EventUnitDeath, Loot: &catalog.LootDrop{Kind: catalog.LootGold, Amount: 3}},
			{Type: combat.EventUnitDeath}, // no loot carried
			{Type: combat.EventUnitDamage, Loot: &catalog.LootDrop{Kind: catalog.LootGold}},
		}
		r.queuePvELoot(p, events)
	})
	var loot []game.LootToken
	r.Do(func() { loot = r.findPlayer("p0").Loot })
	if len(loot) != 1 {
		t.Fatalf("loot tokens = %d, want 1", len(loot))
	}
	if loot[0].Drop.Kind != catalog.LootGold || loot[0].Drop.Amount != 3 {
		t.Errorf("unexpected drop %+v", loot[0].Drop)
	}
}

func TestActionRejectedInLobby(t *testing.T) {
	r, sender := newTestRoom(t, 1, 2)
	r.Do(func() {
		r.HandleAction("p0", &protocol.Action{Type: protocol.ActBuyUnit})
	})
	sender.mu.Lock()
	defer sender.mu.Unlock()
	var res *protocol.ActionResult
	for _, f := range sender.frames["p0"] {
		if ar, ok := f.(protocol.ActionResult); ok {
			res = &ar
		}
	}
	if res == nil {
		t.Fatal("no actionResult sent")
	}
	if res.Success {
		t.Error("lobby action succeeded")
	}
}

func TestBuyAndMergeChain(t *testing.T) {
	r, _ := newTestRoom(t, 1, 2)
	var star int
	r.Do(func() {
		r.startGame()
		p := r.findPlayer("p0")
		p.Bench = [catalog.BenchSize]*game.UnitInstance{}
		p.Bench[0] = game.NewUnitInstance("footman")
		p.Bench[1] = game.NewUnitInstance("footman")
		p.Gold = 10
		p.Shop[0] = "footman"
		unit, err := p.BuyUnit(r.cat, 0)
		if err != nil {
			t.Errorf("buy: %v", err)
			return
		}
		merges := p.MergeFrom(unit)
		if len(merges) != 1 {
			t.Errorf("merges = %d, want 1", len(merges))
			return
		}
		star = merges[0].Kept.Star
		if p.Shop[0] != "" {
			t.Error("shop slot not cleared after buy")
		}
	})
	if star != 2 {
		t.Errorf("merged star = %d, want 2", star)
	}
}
