package game

import (
	"testing"

	"github.com/hexbrawl/server/internal/catalog"
)

func findComposed(units []ComposedUnit, instanceID string) *ComposedUnit {
	for i := range units {
		if units[i].Instance.ID == instanceID {
			return &units[i]
		}
	}
	return nil
}

func TestStarScaling(t *testing.T) {
	cat := catalog.Default()
	tmpl, _ := cat.Unit("footman")

	inst := NewUnitInstance("footman")
	inst.Star = 2
	stats := BaseStats(cat, inst)
	if stats.Health != 900 {
		t.Errorf("2-star health = %d, want 900 (600 × 1.5)", stats.Health)
	}
	if stats.Attack != 83 {
		t.Errorf("2-star attack = %d, want 83 (55 × 1.5 rounded)", stats.Attack)
	}
	if stats.Armor != tmpl.Base.Armor {
		t.Errorf("armor should not scale with stars, got %d", stats.Armor)
	}
	if stats.AttackSpeed != tmpl.Base.AttackSpeed {
		t.Errorf("attack speed should not scale with stars, got %v", stats.AttackSpeed)
	}
}

func TestActiveTraitsCountUniqueTemplates(t *testing.T) {
	cat := catalog.Default()
	p := testPlayer()
	p.Level = 5
	p.Board[0][0] = NewUnitInstance("footman")      // ironclad, warband
	p.Board[1][0] = NewUnitInstance("footman")      // duplicate template: no extra count
	p.Board[2][0] = NewUnitInstance("shield_bearer") // ironclad, bulwark
	p.Board[3][0] = NewUnitInstance("duelist")      // swiftblade, deadeye

	active := ActiveTraits(cat, p)
	byID := make(map[string]ActiveTrait)
	for _, at := range active {
		byID[at.TraitID] = at
	}

	ironclad, ok := byID["ironclad"]
	if !ok {
		t.Fatal("ironclad should be active at 2 unique carriers")
	}
	if ironclad.Count != 2 || ironclad.Tier != 1 {
		t.Errorf("ironclad = count %d tier %d, want 2/1", ironclad.Count, ironclad.Tier)
	}
	if _, ok := byID["warband"]; ok {
		t.Error("warband needs 2 unique carriers, only footman present")
	}
	if _, ok := byID["swiftblade"]; ok {
		t.Error("swiftblade needs 2 carriers, only duelist present")
	}
	if _, ok := byID["bulwark"]; ok {
		t.Error("bulwark needs 2 carriers, only shield_bearer present")
	}
}

func TestComposeBoardTraitBonuses(t *testing.T) {
	cat := catalog.Default()
	p := testPlayer()
	p.Level = 4
	foot := NewUnitInstance("footman")
	bearer := NewUnitInstance("shield_bearer")
	archer := NewUnitInstance("thicket_archer")
	p.Board[0][0] = foot
	p.Board[1][0] = bearer
	p.Board[2][0] = archer

	units := ComposeBoard(cat, p, catalog.Fire)

	footTmpl, _ := cat.Unit("footman")
	got := findComposed(units, foot.ID)
	if got == nil {
		t.Fatal("footman missing from composition")
	}
	// Ironclad tier 1 (+10 armor) is unit-scoped to carriers.
	if got.Stats.Armor != footTmpl.Base.Armor+10 {
		t.Errorf("footman armor = %d, want %d", got.Stats.Armor, footTmpl.Base.Armor+10)
	}
	// Archer carries no ironclad: base armor only.
	archerTmpl, _ := cat.Unit("thicket_archer")
	gotArcher := findComposed(units, archer.ID)
	if gotArcher.Stats.Armor != archerTmpl.Base.Armor {
		t.Errorf("archer armor = %d, want %d (no unit-scoped leak)", gotArcher.Stats.Armor, archerTmpl.Base.Armor)
	}
}

func TestComposeBoardTeamScopedAndBlessed(t *testing.T) {
	cat := catalog.Default()
	p := testPlayer()
	p.Level = 5
	foot := NewUnitInstance("footman")
	captain := NewUnitInstance("longbow_captain")
	lord := NewUnitInstance("warlord") // blessed: +5 team attack
	p.Board[0][0] = foot
	p.Board[1][0] = captain
	p.Board[2][0] = lord

	units := ComposeBoard(cat, p, catalog.Fire)
	footTmpl, _ := cat.Unit("footman")
	got := findComposed(units, foot.ID)
	// Warband tier 2 (3 carriers ≥ 2): +8 team attack, plus warlord blessing +5.
	want := footTmpl.Base.Attack + 8 + 5
	if got.Stats.Attack != want {
		t.Errorf("footman attack = %d, want %d", got.Stats.Attack, want)
	}
}

func TestComposeBoardItemAttackSpeedMultiplicative(t *testing.T) {
	cat := catalog.Default()
	p := testPlayer()
	p.Level = 2
	foot := NewUnitInstance("footman")
	foot.Items = []string{"swift_feather"}
	p.Board[0][0] = foot

	units := ComposeBoard(cat, p, catalog.Fire)
	got := findComposed(units, foot.ID)
	footTmpl, _ := cat.Unit("footman")
	want := footTmpl.Base.AttackSpeed * 1.12
	if diff := got.Stats.AttackSpeed - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("attack speed = %v, want %v", got.Stats.AttackSpeed, want)
	}
}

func TestComposeBoardCrestRank(t *testing.T) {
	cat := catalog.Default()
	p := testPlayer()
	p.Level = 2
	foot := NewUnitInstance("footman")
	p.Board[0][0] = foot
	p.MinorCrests = []OwnedCrest{{CrestID: "crest_of_stone", Rank: 2}}

	units := ComposeBoard(cat, p, catalog.Fire)
	got := findComposed(units, foot.ID)
	footTmpl, _ := cat.Unit("footman")
	// Rank 2 stone crest: 10 × 1.5 = 15 armor.
	if got.Stats.Armor != footTmpl.Base.Armor+15 {
		t.Errorf("armor = %d, want %d", got.Stats.Armor, footTmpl.Base.Armor+15)
	}
}

func TestComposeBoardAttunedGating(t *testing.T) {
	cat := catalog.Default()
	p := testPlayer()
	p.Level = 4
	ember := NewUnitInstance("ember_acolyte") // fire
	whelp := NewUnitInstance("frost_whelp")   // frost
	p.Board[0][0] = ember
	p.Board[1][0] = whelp

	// Attuned is active (2 carriers). With fire rolled, only the acolyte
	// gets the unit bonus; both convert affinity to fire.
	units := ComposeBoard(cat, p, catalog.Fire)
	emberTmpl, _ := cat.Unit("ember_acolyte")
	whelpTmpl, _ := cat.Unit("frost_whelp")

	gotEmber := findComposed(units, ember.ID)
	gotWhelp := findComposed(units, whelp.ID)

	// Arcanist is not active (1 carrier), so ember's AP gain is attuned only.
	if gotEmber.Stats.AbilityPower != emberTmpl.Base.AbilityPower+10 {
		t.Errorf("ember AP = %d, want %d", gotEmber.Stats.AbilityPower, emberTmpl.Base.AbilityPower+10)
	}
	if gotWhelp.Stats.AbilityPower != whelpTmpl.Base.AbilityPower {
		t.Errorf("whelp AP = %d, want %d (element mismatch)", gotWhelp.Stats.AbilityPower, whelpTmpl.Base.AbilityPower)
	}
	if gotEmber.Affinity != catalog.Fire || gotWhelp.Affinity != catalog.Fire {
		t.Error("attuned carriers should convert affinity to the rolled element")
	}
}

func TestComposeBoardBenchUnitsExcluded(t *testing.T) {
	cat := catalog.Default()
	p := testPlayer()
	p.Board[0][0] = NewUnitInstance("footman")
	p.Bench[0] = NewUnitInstance("duelist")

	units := ComposeBoard(cat, p, catalog.Fire)
	if len(units) != 1 {
		t.Fatalf("composed %d units, want board only (1)", len(units))
	}
}
