package combat

import (
	"math"
	"math/rand"

	"github.com/hexbrawl/server/pkg/hexgrid"
)

// unit is the private per-simulation state of one combatant.
type unit struct {
	spec  UnitSpec
	side  int
	index int // roster position, final determinism tiebreaker

	pos   hexgrid.Coord
	hp    int
	mana  int
	alive bool

	attackCooldown int // ticks until the next swing may start
	moveCooldown   int // ticks until the next step may start
	arrivalTick    int // the unit is mid-step until this tick
	stuckTicks     int
	target         *unit
}

// pendingHit is a scheduled attack or ability landing.
type pendingHit struct {
	attacker    *unit
	target      *unit
	damage      int
	landingTick int
	melee       bool
}

// moveDecision is one unit's intent from the decision phase, applied later
// in insertion order.
type moveDecision struct {
	mover *unit
	dest  hexgrid.Coord
}

type sim struct {
	rng     *rand.Rand
	units   []*unit
	pending []pendingHit
	events  []Event
	tick    int
}

// Run simulates one matchup. Both boards are given in their own local
// coordinates (x 0–4, y 0–3); the away board is mirrored onto rows 7–4.
// Identical inputs and seed produce a byte-identical event log.
func Run(host, away []UnitSpec, seed int64) Result {
	s := &sim{rng: rand.New(rand.NewSource(seed))}

	for i, spec := range host {
		s.addUnit(spec, SideHost, i, hexgrid.Coord{X: spec.X, Y: spec.Y})
	}
	for i, spec := range away {
		s.addUnit(spec, SideAway, len(host)+i, hexgrid.Coord{X: spec.X, Y: FieldHeight - 1 - spec.Y})
	}

	s.emitStart()

	for s.tick = 1; s.tick <= MaxTicks; s.tick++ {
		s.resolveHits()
		if s.done() {
			// A wiped side ends the fight once in-flight hits have landed.
			if len(s.pending) == 0 {
				break
			}
			continue
		}
		decisions := s.decideMovement()
		s.applyMovement(decisions)
		s.actPhase()
	}
	if s.tick > MaxTicks {
		s.tick = MaxTicks
	}

	return s.finish()
}

func (s *sim) addUnit(spec UnitSpec, side, index int, pos hexgrid.Coord) {
	s.units = append(s.units, &unit{
		spec:  spec,
		side:  side,
		index: index,
		pos:   pos,
		hp:    spec.Health,
		alive: spec.Health > 0,
	})
}

func (s *sim) emitStart() {
	roster := make([]RosterUnit, 0, len(s.units))
	for _, u := range s.units {
		ru := RosterUnit{UnitSpec: u.spec, Side: u.side}
		ru.X = u.pos.X
		ru.Y = u.pos.Y
		roster = append(roster, ru)
	}
	s.events = append(s.events, Event{Type: EventCombatStart, Tick: 0, Units: roster})
}

// done reports whether a side has been wiped out.
func (s *sim) done() bool {
	return s.aliveCount(SideHost) == 0 || s.aliveCount(SideAway) == 0
}

func (s *sim) aliveCount(side int) int {
	n := 0
	for _, u := range s.units {
		if u.alive && u.side == side {
			n++
		}
	}
	return n
}

func (s *sim) totalHealth(side int) int {
	total := 0
	for _, u := range s.units {
		if u.alive && u.side == side {
			total += u.hp
		}
	}
	return total
}

// resolveHits applies every queued hit due this tick. Melee hits die with
// their attacker; projectiles land regardless. Hits on the already dead
// are dropped.
func (s *sim) resolveHits() {
	remaining := s.pending[:0]
	for _, h := range s.pending {
		if h.landingTick > s.tick {
			remaining = append(remaining, h)
			continue
		}
		if !h.target.alive {
			continue
		}
		if h.melee && !h.attacker.alive {
			continue
		}
		s.applyDamage(h.attacker, h.target, h.damage)
	}
	s.pending = remaining
}

func (s *sim) applyDamage(attacker, target *unit, damage int) {
	target.hp -= damage
	if target.hp < 0 {
		target.hp = 0
	}
	s.events = append(s.events, Event{
		Type:     EventUnitDamage,
		Tick:     s.tick,
		UnitID:   target.spec.InstanceID,
		TargetID: target.spec.InstanceID,
		X:        target.pos.X,
		Y:        target.pos.Y,
		Damage:   damage,
		NewHP:    target.hp,
	})
	if target.hp == 0 {
		target.alive = false
		s.events = append(s.events, Event{
			Type:     EventUnitDeath,
			Tick:     s.tick,
			UnitID:   target.spec.InstanceID,
			TargetID: target.spec.InstanceID,
			KillerID: attacker.spec.InstanceID,
			X:        target.pos.X,
			Y:        target.pos.Y,
			Loot:     target.spec.Loot,
		})
	}
}

// decideMovement runs the decision phase against a position snapshot:
// cooldowns tick down, targets are (re)selected, and each unit that wants
// to step declares its destination.
func (s *sim) decideMovement() []moveDecision {
	snapshot := make(map[hexgrid.Coord]*unit, len(s.units))
	for _, u := range s.units {
		if u.alive {
			snapshot[u.pos] = u
		}
	}

	var decisions []moveDecision
	for _, u := range s.units {
		if !u.alive {
			continue
		}
		if u.attackCooldown > 0 {
			u.attackCooldown--
		}
		if u.moveCooldown > 0 {
			u.moveCooldown--
		}
		s.retarget(u)
		if u.target == nil {
			continue
		}
		if hexgrid.Distance(u.pos, u.target.pos) <= u.spec.Range {
			continue
		}
		if u.moveCooldown > 0 || u.arrivalTick > s.tick || u.spec.MoveSpeed <= 0 {
			continue
		}

		target := u.target
		blocked := func(c hexgrid.Coord) bool {
			occ, ok := snapshot[c]
			return ok && occ != u && occ != target
		}
		path, ok := hexgrid.FindPath(u.pos, target.pos, u.spec.Range, FieldWidth, FieldHeight, blocked)
		if !ok || len(path) == 0 {
			u.stuckTicks++
			continue
		}
		decisions = append(decisions, moveDecision{mover: u, dest: path[0]})
	}
	return decisions
}

// retarget applies the target-selection rules: acquire on death, switch
// when the current target left range while another enemy is in range, and
// abandon a target the unit has been stuck behind.
func (s *sim) retarget(u *unit) {
	if u.target != nil && !u.target.alive {
		u.target = nil
	}
	if u.target == nil {
		u.target = s.closestEnemy(u, nil)
		u.stuckTicks = 0
		return
	}
	if hexgrid.Distance(u.pos, u.target.pos) > u.spec.Range {
		if in := s.closestEnemyInRange(u); in != nil && in != u.target {
			u.target = in
			u.stuckTicks = 0
			return
		}
	}
	if u.stuckTicks >= StuckRetargetTicks {
		if other := s.closestEnemy(u, u.target); other != nil {
			u.target = other
		}
		u.stuckTicks = 0
	}
}

// closestEnemy picks the nearest living enemy by hex distance, ties broken
// by smaller |Δx| then roster order. exclude skips one candidate.
func (s *sim) closestEnemy(u *unit, exclude *unit) *unit {
	var best *unit
	bestDist, bestDX := 0, 0
	for _, e := range s.units {
		if !e.alive || e.side == u.side || e == exclude {
			continue
		}
		d := hexgrid.Distance(u.pos, e.pos)
		dx := absInt(u.pos.X - e.pos.X)
		if best == nil || d < bestDist || (d == bestDist && dx < bestDX) {
			best, bestDist, bestDX = e, d, dx
		}
	}
	return best
}

func (s *sim) closestEnemyInRange(u *unit) *unit {
	best := s.closestEnemy(u, nil)
	if best != nil && hexgrid.Distance(u.pos, best.pos) <= u.spec.Range {
		return best
	}
	return nil
}

// applyMovement commits decisions in insertion order. A destination taken
// since the decision phase blocks the step and counts toward stuck.
func (s *sim) applyMovement(decisions []moveDecision) {
	occupied := make(map[hexgrid.Coord]bool, len(s.units))
	for _, u := range s.units {
		if u.alive {
			occupied[u.pos] = true
		}
	}
	for _, d := range decisions {
		if !d.mover.alive {
			continue
		}
		if occupied[d.dest] {
			d.mover.stuckTicks++
			continue
		}
		delete(occupied, d.mover.pos)
		occupied[d.dest] = true
		d.mover.pos = d.dest

		ticks := ticksFor(1 / d.mover.spec.MoveSpeed)
		d.mover.arrivalTick = s.tick + ticks
		d.mover.moveCooldown = ticks
		d.mover.stuckTicks = 0

		s.events = append(s.events, Event{
			Type:     EventUnitMove,
			Tick:     s.tick,
			UnitID:   d.mover.spec.InstanceID,
			X:        d.dest.X,
			Y:        d.dest.Y,
			Duration: ticks,
		})
	}
}

// actPhase lets every settled unit with its target in range swing or cast.
// Moving targets are safe from melee; ranged attackers lead them anyway.
func (s *sim) actPhase() {
	for _, u := range s.units {
		if !u.alive || u.target == nil || !u.target.alive {
			continue
		}
		if u.attackCooldown > 0 || u.arrivalTick > s.tick {
			continue
		}
		if hexgrid.Distance(u.pos, u.target.pos) > u.spec.Range {
			continue
		}
		ranged := u.spec.Range > 1
		if u.target.arrivalTick > s.tick && !ranged {
			continue
		}
		if u.spec.AttackSpeed <= 0 {
			continue
		}
		if u.spec.ManaCap > 0 && u.mana >= u.spec.ManaCap {
			s.castAbility(u, u.target, ranged)
		} else {
			s.autoAttack(u, u.target, ranged)
		}
	}
}

func (s *sim) autoAttack(u, target *unit, ranged bool) {
	interval := 1 / u.spec.AttackSpeed
	damage := s.rollDamage(u, target, 1)
	landing := s.tick + ticksFor(interval*HitFraction)

	u.attackCooldown = ticksFor(interval)
	u.mana += ManaPerAttack
	s.pending = append(s.pending, pendingHit{
		attacker:    u,
		target:      target,
		damage:      damage,
		landingTick: landing,
		melee:       !ranged,
	})
	s.events = append(s.events, Event{
		Type:        EventUnitAttack,
		Tick:        s.tick,
		UnitID:      u.spec.InstanceID,
		TargetID:    target.spec.InstanceID,
		X:           u.pos.X,
		Y:           u.pos.Y,
		Damage:      damage,
		LandingTick: landing,
	})
}

// castAbility replaces the swing when mana is full. Attack and movement
// stay locked for the cast, and mana keeps only the overfill.
func (s *sim) castAbility(u, target *unit, ranged bool) {
	mult := u.spec.AbilityDamageMult
	if mult <= 0 {
		mult = DefaultAbilityDamageMult
	}
	castSeconds := u.spec.AbilityCastSeconds
	if castSeconds <= 0 {
		castSeconds = DefaultAbilityCastSeconds
	}
	damage := s.rollDamage(u, target, mult)
	castTicks := ticksFor(castSeconds)
	landing := s.tick + ticksFor(castSeconds*HitFraction)

	u.mana -= u.spec.ManaCap
	u.attackCooldown = castTicks
	if u.moveCooldown < castTicks {
		u.moveCooldown = castTicks
	}
	s.pending = append(s.pending, pendingHit{
		attacker:    u,
		target:      target,
		damage:      damage,
		landingTick: landing,
		melee:       !ranged,
	})
	s.events = append(s.events, Event{
		Type:        EventUnitAbility,
		Tick:        s.tick,
		UnitID:      u.spec.InstanceID,
		TargetID:    target.spec.InstanceID,
		X:           u.pos.X,
		Y:           u.pos.Y,
		Damage:      damage,
		LandingTick: landing,
		Duration:    castTicks,
	})
}

// rollDamage applies the mitigation formula against the matching resist
// and rolls the attacker's crit on the simulation RNG.
func (s *sim) rollDamage(u, target *unit, mult float64) int {
	raw := float64(u.spec.Attack) * mult
	if u.spec.CritChance > 0 && s.rng.Float64() < u.spec.CritChance {
		critMult := u.spec.CritDamage
		if critMult <= 0 {
			critMult = 1.5
		}
		raw *= critMult
	}
	resist := float64(target.spec.Armor)
	if u.spec.Magical {
		resist = float64(target.spec.MagicResist)
	}
	if resist < 0 {
		resist = 0
	}
	return int(math.Round(raw * (1 - resist/(resist+100))))
}

// finish determines the winner and closes the event log. A wiped side
// loses; at the tick cap the higher total health wins; a dead heat is a
// draw with one damage to each side.
func (s *sim) finish() Result {
	hostAlive := s.aliveCount(SideHost)
	awayAlive := s.aliveCount(SideAway)

	winner := SideNone
	switch {
	case hostAlive > 0 && awayAlive == 0:
		winner = SideHost
	case awayAlive > 0 && hostAlive == 0:
		winner = SideAway
	case hostAlive > 0 && awayAlive > 0:
		hostHP, awayHP := s.totalHealth(SideHost), s.totalHealth(SideAway)
		if hostHP > awayHP {
			winner = SideHost
		} else if awayHP > hostHP {
			winner = SideAway
		}
	}

	survivors := 0
	damage := 1
	switch winner {
	case SideHost:
		survivors = hostAlive
		damage = 1 + hostAlive
	case SideAway:
		survivors = awayAlive
		damage = 1 + awayAlive
	}

	end := EndSummary{Winner: winner, Survivors: survivors, Damage: damage}
	s.events = append(s.events, Event{Type: EventCombatEnd, Tick: s.tick, End: &end})

	return Result{
		Winner:        winner,
		Survivors:     survivors,
		Damage:        damage,
		DurationTicks: s.tick,
		Events:        s.events,
	}
}

// ticksFor converts a duration in simulated seconds to whole ticks,
// rounding up so nothing resolves early. Never returns less than one tick.
func ticksFor(seconds float64) int {
	t := int(math.Ceil(seconds / TickSeconds))
	if t < 1 {
		t = 1
	}
	return t
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
