package catalog

import "testing"

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default catalog failed validation: %v", err)
	}
}

func TestShopOddsRowsSumTo100(t *testing.T) {
	for level := 1; level <= MaxLevel; level++ {
		odds := ShopOdds(level)
		sum := 0
		for _, pct := range odds {
			sum += pct
		}
		if sum != 100 {
			t.Errorf("level %d odds sum to %d, want 100", level, sum)
		}
	}
}

func TestShopOddsClamp(t *testing.T) {
	if ShopOdds(0) != ShopOdds(1) {
		t.Error("level 0 should clamp to level 1 odds")
	}
	if ShopOdds(99) != ShopOdds(MaxLevel) {
		t.Error("level 99 should clamp to max level odds")
	}
}

func TestRoundSchedule(t *testing.T) {
	tests := []struct {
		round int
		want  RoundType
	}{
		{1, RoundPvEIntro},
		{2, RoundPvP},
		{4, RoundMerchant},
		{6, RoundMajorCrest},
		{8, RoundPvELoot},
		{10, RoundMerchant},
		{12, RoundPvEBoss},
		{14, RoundPvP},
		{15, RoundPvP},
		{99, RoundPvP},
	}
	for _, tt := range tests {
		if got := RoundTypeAt(tt.round); got != tt.want {
			t.Errorf("RoundTypeAt(%d) = %q, want %q", tt.round, got, tt.want)
		}
	}
}

func TestSellPrice(t *testing.T) {
	tests := []struct {
		cost, star, want int
	}{
		{1, 1, 1},
		{1, 2, 3},
		{1, 3, 9},
		{3, 2, 9},
		{5, 3, 45},
	}
	for _, tt := range tests {
		if got := SellPrice(tt.cost, tt.star); got != tt.want {
			t.Errorf("SellPrice(%d, %d) = %d, want %d", tt.cost, tt.star, got, tt.want)
		}
	}
	if SellCopies(3) != 9 {
		t.Errorf("SellCopies(3) = %d, want 9", SellCopies(3))
	}
}

func TestCombinedForIsUnordered(t *testing.T) {
	c := Default()
	a, okA := c.CombinedFor("sharpened_blade", "mystic_orb")
	b, okB := c.CombinedFor("mystic_orb", "sharpened_blade")
	if !okA || !okB {
		t.Fatal("expected a recipe for blade+orb in either order")
	}
	if a.ID != b.ID {
		t.Errorf("pair order changed the recipe result: %q vs %q", a.ID, b.ID)
	}
	if a.ID != "spellblade" {
		t.Errorf("blade+orb = %q, want spellblade", a.ID)
	}
	if _, ok := c.CombinedFor("sharpened_blade", "no_such_item"); ok {
		t.Error("unknown pair should have no recipe")
	}
}

func TestTraitTierFor(t *testing.T) {
	c := Default()
	tr, ok := c.Trait("ironclad")
	if !ok {
		t.Fatal("ironclad trait missing")
	}
	if tier := tr.TierFor(1); tier != nil {
		t.Errorf("count 1 should activate nothing, got tier at count %d", tier.Count)
	}
	if tier := tr.TierFor(2); tier == nil || tier.Count != 2 {
		t.Error("count 2 should activate the first tier")
	}
	if tier := tr.TierFor(3); tier == nil || tier.Count != 2 {
		t.Error("count 3 should still sit on the first tier")
	}
	if tier := tr.TierFor(5); tier == nil || tier.Count != 4 {
		t.Error("count 5 should activate the second tier")
	}
}

func TestBonusScale(t *testing.T) {
	b := Bonus{Health: 80, Attack: 9, AttackSpeedPct: 8}
	s := b.Scale(1.5)
	if s.Health != 120 {
		t.Errorf("health scaled to %d, want 120", s.Health)
	}
	if s.Attack != 14 {
		t.Errorf("attack scaled to %d, want 14 (13.5 rounded)", s.Attack)
	}
	if s.AttackSpeedPct != 12 {
		t.Errorf("attack speed scaled to %v, want 12", s.AttackSpeedPct)
	}
}

func TestCrestBonusAtRank(t *testing.T) {
	c := Default()
	minor, ok := c.Crest("crest_of_stone")
	if !ok || minor.Major {
		t.Fatal("crest_of_stone should be a minor crest")
	}
	if got := minor.BonusAtRank(2).Armor; got != 15 {
		t.Errorf("rank 2 armor = %d, want 15", got)
	}
	if got := minor.BonusAtRank(3).Armor; got != 20 {
		t.Errorf("rank 3 armor = %d, want 20", got)
	}
	major, ok := c.Crest("colossus_sigil")
	if !ok || !major.Major {
		t.Fatal("colossus_sigil should be a major crest")
	}
	if major.BonusAtRank(3) != major.Bonus {
		t.Error("major crest bonus must ignore rank")
	}
}

func TestMaxUnits(t *testing.T) {
	tests := []struct{ level, want int }{
		{1, 2}, {3, 4}, {6, 7}, {0, 2}, {9, 7},
	}
	for _, tt := range tests {
		if got := MaxUnits(tt.level); got != tt.want {
			t.Errorf("MaxUnits(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestXPForLevel(t *testing.T) {
	prev := 0
	for level := 2; level <= MaxLevel; level++ {
		xp, ok := XPForLevel(level)
		if !ok {
			t.Fatalf("no XP threshold for level %d", level)
		}
		if xp <= prev {
			t.Errorf("threshold for level %d (%d) not above previous (%d)", level, xp, prev)
		}
		prev = xp
	}
	if _, ok := XPForLevel(MaxLevel + 1); ok {
		t.Error("there should be no threshold past max level")
	}
}

func TestFootmanTemplate(t *testing.T) {
	u, ok := Default().Unit("footman")
	if !ok {
		t.Fatal("footman template missing")
	}
	if u.Cost != 1 {
		t.Errorf("footman cost = %d, want 1", u.Cost)
	}
	if u.Name != "Footman" {
		t.Errorf("footman name = %q, want Footman", u.Name)
	}
}

func TestPvEBoardsSpawnPvEUnits(t *testing.T) {
	c := Default()
	for _, rt := range []RoundType{RoundPvEIntro, RoundPvELoot, RoundPvEBoss} {
		board := c.PvEBoard(rt)
		if len(board) == 0 {
			t.Errorf("no board for %q", rt)
			continue
		}
		for _, sp := range board {
			u, ok := c.Unit(sp.UnitID)
			if !ok {
				t.Errorf("%q spawns unknown unit %q", rt, sp.UnitID)
				continue
			}
			if u.Cost != 0 {
				t.Errorf("%q spawns player unit %q", rt, sp.UnitID)
			}
		}
	}
}

func TestMerchantItemsExcludeComponents(t *testing.T) {
	for _, it := range Default().MerchantItems() {
		if it.Kind == ItemComponent {
			t.Errorf("merchant offers component %q", it.ID)
		}
	}
}
