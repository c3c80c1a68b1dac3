package room

import "testing"

// merchantTestRoom starts a 3-player game and jumps to the merchant round
// with the given healths on slots 0..2.
func merchantTestRoom(t *testing.T, healths [3]int) *Room {
	t.Helper()
	r, _ := newTestRoom(t, 7, 3)
	r.Do(func() {
		r.startGame()
		for i, h := range healths {
			r.players[i].Health = h
		}
		r.bumpGeneration()
		r.round = 4
		r.phase = PhasePlanning
		r.startMerchant()
	})
	return r
}

func TestMerchantPickOrderByAscendingHealth(t *testing.T) {
	r := merchantTestRoom(t, [3]int{10, 20, 15})
	var order []string
	r.Do(func() { order = r.merchant.order })

	want := []string{"p0", "p2", "p1"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestMerchantHealthTieBreaksBySlot(t *testing.T) {
	r := merchantTestRoom(t, [3]int{15, 15, 10})
	var order []string
	r.Do(func() { order = r.merchant.order })
	want := []string{"p2", "p0", "p1"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestMerchantTurnAdvancesAfterPick(t *testing.T) {
	r := merchantTestRoom(t, [3]int{10, 20, 15})
	var err error
	var next string
	r.Do(func() {
		err = r.handleMerchantPick(r.findPlayer("p0"), r.merchant.options[0].ID)
		next = r.currentPicker().ID
	})
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if next != "p2" {
		t.Errorf("current picker = %s, want p2", next)
	}
}

func TestMerchantRejectsOutOfTurnPick(t *testing.T) {
	r := merchantTestRoom(t, [3]int{10, 20, 15})
	var err error
	r.Do(func() {
		err = r.handleMerchantPick(r.findPlayer("p1"), r.merchant.options[0].ID)
	})
	if err != ErrNotYourTurn {
		t.Errorf("out-of-turn pick err = %v, want %v", err, ErrNotYourTurn)
	}
}

func TestMerchantRejectsTakenOption(t *testing.T) {
	r := merchantTestRoom(t, [3]int{10, 20, 15})
	var err error
	r.Do(func() {
		opt := r.merchant.options[0]
		if pickErr := r.handleMerchantPick(r.findPlayer("p0"), opt.ID); pickErr != nil {
			t.Errorf("first pick: %v", pickErr)
		}
		err = r.handleMerchantPick(r.findPlayer("p2"), opt.ID)
	})
	if err != ErrOptionTaken {
		t.Errorf("taken pick err = %v, want %v", err, ErrOptionTaken)
	}
}

func TestMerchantDisconnectSkipsPicker(t *testing.T) {
	r := merchantTestRoom(t, [3]int{10, 20, 15})
	var next string
	r.Do(func() {
		r.Disconnect("p0")
		next = r.currentPicker().ID
	})
	if next != "p2" {
		t.Errorf("picker after disconnect = %s, want p2", next)
	}
}

func TestMerchantEndsWhenAllPicked(t *testing.T) {
	r := merchantTestRoom(t, [3]int{10, 20, 15})
	var done bool
	r.Do(func() {
		for _, id := range []string{"p0", "p2", "p1"} {
			p := r.findPlayer(id)
			if err := r.handleMerchantPick(p, r.merchant.autoPickOption().ID); err != nil {
				t.Errorf("pick by %s: %v", id, err)
			}
		}
		done = r.merchant.done
	})
	if !done {
		t.Error("merchant not done after every picker picked")
	}
}

func TestAutoPickPrefersGold(t *testing.T) {
	m := &merchantRound{options: []*MerchantOption{
		{ID: "a", Rewards: []MerchantReward{{Kind: RewardItem, ItemID: "x"}}},
		{ID: "b", Rewards: []MerchantReward{{Kind: RewardGold, Gold: 6}, {Kind: RewardItem, ItemID: "y"}}},
		{ID: "c", Rewards: []MerchantReward{{Kind: RewardCrest, CrestID: "z"}}},
	}}
	if got := m.autoPickOption(); got.ID != "b" {
		t.Errorf("autoPick = %s, want the gold pair b", got.ID)
	}
	m.options[1].Taken = true
	if got := m.autoPickOption(); got.ID != "a" {
		t.Errorf("autoPick without gold = %s, want first open a", got.ID)
	}
}

func TestMerchantGoldAndRerollRewards(t *testing.T) {
	r, _ := newTestRoom(t, 7, 2)
	r.Do(func() {
		r.startGame()
		p := r.findPlayer("p0")
		goldBefore := p.Gold
		opt := &MerchantOption{ID: "t", Rewards: []MerchantReward{
			{Kind: RewardGold, Gold: 7},
			{Kind: RewardRerolls, Rerolls: 3},
		}}
		r.applyMerchantPick(p, opt)
		if p.Gold != goldBefore+7 {
			t.Errorf("gold = %d, want +7", p.Gold)
		}
		if p.FreeRerolls != 3 {
			t.Errorf("free rerolls = %d, want 3", p.FreeRerolls)
		}
		if !opt.Taken || opt.TakenBy != "p0" {
			t.Error("option not marked taken")
		}
	})
}
