package combat

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/hexbrawl/server/pkg/hexgrid"
)

func newTestRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func meleeSpec(id string, x, y int) UnitSpec {
	return UnitSpec{
		InstanceID:  id,
		TemplateID:  "footman",
		Name:        "Footman",
		Star:        1,
		X:           x,
		Y:           y,
		Health:      550,
		Attack:      50,
		Armor:       20,
		MagicResist: 20,
		AttackSpeed: 0.7,
		Range:       1,
		ManaCap:     100,
		MoveSpeed:   1.4,
	}
}

func archerSpec(id string, x, y int) UnitSpec {
	s := meleeSpec(id, x, y)
	s.TemplateID = "archer"
	s.Name = "Archer"
	s.Health = 450
	s.Range = 3
	s.AttackSpeed = 0.8
	return s
}

func TestDamageFormula(t *testing.T) {
	tests := []struct {
		name    string
		attack  int
		armor   int
		resist  int
		magical bool
		want    int
	}{
		{"hundred armor halves", 100, 100, 0, false, 50},
		{"zero armor full damage", 100, 0, 0, false, 100},
		{"magic ignores armor", 100, 100, 0, true, 100},
		{"magic uses resist", 100, 0, 100, true, 50},
		{"rounding", 70, 50, 0, false, 47},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &sim{rng: newTestRNG()}
			attacker := &unit{spec: UnitSpec{Attack: tt.attack, Magical: tt.magical}}
			target := &unit{spec: UnitSpec{Armor: tt.armor, MagicResist: tt.resist}}
			if got := s.rollDamage(attacker, target, 1); got != tt.want {
				t.Errorf("rollDamage = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDeterministicEventLog(t *testing.T) {
	host := []UnitSpec{meleeSpec("h1", 2, 0), archerSpec("h2", 1, 0)}
	away := []UnitSpec{meleeSpec("a1", 2, 0), archerSpec("a2", 3, 0)}

	first := Run(host, away, 42)
	second := Run(host, away, 42)

	if first.DurationTicks != second.DurationTicks {
		t.Fatalf("durations differ: %d vs %d", first.DurationTicks, second.DurationTicks)
	}
	a, err := json.Marshal(first.Events)
	if err != nil {
		t.Fatalf("marshal first log: %v", err)
	}
	b, err := json.Marshal(second.Events)
	if err != nil {
		t.Fatalf("marshal second log: %v", err)
	}
	if string(a) != string(b) {
		t.Error("identical inputs and seed produced different event logs")
	}
}

func TestSeedChangesCritOutcomes(t *testing.T) {
	spec := meleeSpec("h1", 2, 0)
	spec.CritChance = 0.5
	spec.CritDamage = 2.0
	host := []UnitSpec{spec}
	away := []UnitSpec{meleeSpec("a1", 2, 0)}

	base := Run(host, away, 1)
	same := Run(host, away, 1)
	if base.DurationTicks != same.DurationTicks {
		t.Errorf("same seed diverged: %d vs %d ticks", base.DurationTicks, same.DurationTicks)
	}
}

func TestEmptySideLosesImmediately(t *testing.T) {
	host := []UnitSpec{meleeSpec("h1", 2, 0), meleeSpec("h2", 3, 0)}

	res := Run(host, nil, 7)
	if res.Winner != SideHost {
		t.Fatalf("winner = %d, want host", res.Winner)
	}
	if res.Survivors != 2 {
		t.Errorf("survivors = %d, want 2", res.Survivors)
	}
	if res.Damage != 3 {
		t.Errorf("damage = %d, want 1 + survivors = 3", res.Damage)
	}
}

func TestBothSidesEmptyIsDraw(t *testing.T) {
	res := Run(nil, nil, 7)
	if res.Winner != SideNone {
		t.Errorf("winner = %d, want none", res.Winner)
	}
}

func TestAwayBoardMirrored(t *testing.T) {
	res := Run([]UnitSpec{meleeSpec("h1", 2, 0)}, []UnitSpec{meleeSpec("a1", 2, 0)}, 3)

	start := res.Events[0]
	if start.Type != EventCombatStart {
		t.Fatalf("first event = %s, want combatStart", start.Type)
	}
	if len(start.Units) != 2 {
		t.Fatalf("roster size = %d, want 2", len(start.Units))
	}
	if start.Units[0].Y != 0 {
		t.Errorf("host y = %d, want 0", start.Units[0].Y)
	}
	if start.Units[1].Y != 7 {
		t.Errorf("away y = %d, want mirrored 7", start.Units[1].Y)
	}
}

func TestDuelEndsWithSingleSurvivor(t *testing.T) {
	strong := meleeSpec("h1", 2, 0)
	strong.Attack = 120
	strong.Health = 900

	res := Run([]UnitSpec{strong}, []UnitSpec{meleeSpec("a1", 2, 0)}, 11)

	if res.Winner != SideHost {
		t.Fatalf("winner = %d, want host", res.Winner)
	}
	if res.Survivors != 1 || res.Damage != 2 {
		t.Errorf("survivors/damage = %d/%d, want 1/2", res.Survivors, res.Damage)
	}
	if res.DurationTicks >= MaxTicks {
		t.Errorf("duel ran to the tick cap (%d ticks)", res.DurationTicks)
	}
	last := res.Events[len(res.Events)-1]
	if last.Type != EventCombatEnd || last.End == nil {
		t.Fatalf("last event = %s, want combatEnd with summary", last.Type)
	}
	if last.End.Winner != SideHost {
		t.Errorf("end summary winner = %d, want host", last.End.Winner)
	}
}

func TestTickCapDecidesByRemainingHealth(t *testing.T) {
	// Pacifists: no attack speed means nobody ever swings.
	tank := meleeSpec("h1", 2, 0)
	tank.AttackSpeed = 0
	tank.Health = 1000
	frail := meleeSpec("a1", 2, 0)
	frail.AttackSpeed = 0
	frail.Health = 100

	res := Run([]UnitSpec{tank}, []UnitSpec{frail}, 5)
	if res.DurationTicks != MaxTicks {
		t.Fatalf("duration = %d, want tick cap %d", res.DurationTicks, MaxTicks)
	}
	if res.Winner != SideHost {
		t.Errorf("winner = %d, want host on higher remaining health", res.Winner)
	}
}

func TestMeleeHitDiesWithAttacker(t *testing.T) {
	s := &sim{rng: newTestRNG(), tick: 5}
	attacker := &unit{spec: meleeSpec("m", 0, 0), alive: false}
	target := &unit{spec: meleeSpec("t", 1, 0), hp: 100, alive: true}
	s.pending = []pendingHit{{attacker: attacker, target: target, damage: 40, landingTick: 5, melee: true}}

	s.resolveHits()
	if target.hp != 100 {
		t.Errorf("melee hit from a dead attacker landed, hp = %d", target.hp)
	}
	if len(s.pending) != 0 {
		t.Errorf("%d hits still pending", len(s.pending))
	}
}

func TestProjectileOutlivesAttacker(t *testing.T) {
	s := &sim{rng: newTestRNG(), tick: 5}
	attacker := &unit{spec: archerSpec("r", 0, 0), alive: false}
	target := &unit{spec: meleeSpec("t", 1, 0), hp: 100, alive: true}
	s.pending = []pendingHit{{attacker: attacker, target: target, damage: 40, landingTick: 5, melee: false}}

	s.resolveHits()
	if target.hp != 60 {
		t.Errorf("projectile did not land, hp = %d, want 60", target.hp)
	}
}

func TestHitOnDeadTargetDropped(t *testing.T) {
	s := &sim{rng: newTestRNG(), tick: 5}
	attacker := &unit{spec: meleeSpec("m", 0, 0), alive: true}
	target := &unit{spec: meleeSpec("t", 1, 0), hp: 0, alive: false}
	s.pending = []pendingHit{{attacker: attacker, target: target, damage: 40, landingTick: 5, melee: true}}

	s.resolveHits()
	if len(s.events) != 0 {
		t.Errorf("hit on a dead target emitted %d events", len(s.events))
	}
}

func TestTargetTieBreakPrefersSmallerColumnGap(t *testing.T) {
	s := &sim{rng: newTestRNG()}
	me := &unit{spec: meleeSpec("me", 2, 0), pos: hexgrid.Coord{X: 2, Y: 0}, alive: true, side: SideHost}
	far := &unit{spec: meleeSpec("far", 0, 2), pos: hexgrid.Coord{X: 0, Y: 2}, alive: true, side: SideAway}
	near := &unit{spec: meleeSpec("near", 2, 2), pos: hexgrid.Coord{X: 2, Y: 2}, alive: true, side: SideAway}
	s.units = []*unit{me, far, near}

	if got := s.closestEnemy(me, nil); got != near {
		t.Errorf("closestEnemy = %s, want the one in the same column", got.spec.InstanceID)
	}
}

func TestTicksFor(t *testing.T) {
	tests := []struct {
		seconds float64
		want    int
	}{
		{0.05, 1},
		{0.4, 8},
		{1.0, 20},
		{0.57, 12}, // rounds up
		{0.0, 1},   // never instant
	}
	for _, tt := range tests {
		if got := ticksFor(tt.seconds); got != tt.want {
			t.Errorf("ticksFor(%v) = %d, want %d", tt.seconds, got, tt.want)
		}
	}
}

func TestDurationSecondsConversion(t *testing.T) {
	r := Result{DurationTicks: 200}
	if got := r.DurationSeconds(); got != 10.0 {
		t.Errorf("DurationSeconds = %v, want 10s at 20 Hz", got)
	}
}
