package room

import (
	"time"

	"github.com/google/uuid"

	"github.com/hexbrawl/server/internal/catalog"
	"github.com/hexbrawl/server/internal/game"
	"github.com/hexbrawl/server/internal/protocol"
	"github.com/hexbrawl/server/pkg/combat"
)

// Matchup is one combat pairing within a round. AwayID is empty for PvE
// matchups.
type Matchup struct {
	ID     string
	HostID string
	AwayID string
	Ghost  bool
	PvE    bool

	hostSpecs []combat.UnitSpec
	awaySpecs []combat.UnitSpec
	result    combat.Result
}

// MatchupView is the per-matchup summary broadcast with combatEnd.
type MatchupView struct {
	MatchupID     string `json:"matchupId"`
	HostID        string `json:"hostId"`
	AwayID        string `json:"awayId,omitempty"`
	Ghost         bool   `json:"ghost,omitempty"`
	PvE           bool   `json:"pve,omitempty"`
	WinnerID      string `json:"winnerId,omitempty"`
	Survivors     int    `json:"survivors"`
	Damage        int    `json:"damage"`
	DurationTicks int    `json:"durationTicks"`
}

// enterCombat freezes boards, runs every matchup through the simulator,
// applies damage and streaks, streams the event logs, and schedules the
// results transition after the longest animation window.
func (r *Room) enterCombat() {
	r.bumpGeneration()
	r.phase = PhaseCombat
	rt := catalog.RoundTypeAt(r.round)

	var matchups []*Matchup
	if rt == catalog.RoundPvEIntro || rt == catalog.RoundPvELoot || rt == catalog.RoundPvEBoss {
		matchups = r.buildPvEMatchups(rt)
	} else {
		matchups = r.buildPvPMatchups()
	}

	maxSeconds := 0.0
	for _, m := range matchups {
		m.result = combat.Run(m.hostSpecs, m.awaySpecs, r.rng.Int63())
		r.applyMatchupResult(m)
		if s := m.result.DurationSeconds(); s > maxSeconds {
			maxSeconds = s
		}
	}
	r.results = matchupViews(matchups)

	delay := maxSeconds + CombatExtraSeconds
	r.log.Info().Int("round", r.round).Int("matchups", len(matchups)).
		Float64("delaySeconds", delay).Msg("Combat resolved")

	r.broadcast(protocol.PhaseUpdate{
		Type:  protocol.FramePhaseUpdate,
		Phase: string(PhaseCombat),
		Timer: delay,
		Round: r.round,
	})
	r.streamCombat(matchups)
	r.schedule(time.Duration(delay*float64(time.Second)), r.enterResults)
}

// buildPvPMatchups pairs the active players: two fight with alternating
// home side, an odd third gets a non-damaging ghost rematch, four shuffle
// into two pairs.
func (r *Room) buildPvPMatchups() []*Matchup {
	active := r.activePlayers()
	var matchups []*Matchup

	switch len(active) {
	case 2:
		matchups = append(matchups, r.pairMatchup(active[0], active[1], false))
	case 3:
		shuffled := r.shuffledPlayers(active)
		matchups = append(matchups, r.pairMatchup(shuffled[0], shuffled[1], false))
		matchups = append(matchups, r.pairMatchup(shuffled[2], shuffled[0], true))
	case 4:
		shuffled := r.shuffledPlayers(active)
		matchups = append(matchups, r.pairMatchup(shuffled[0], shuffled[1], false))
		matchups = append(matchups, r.pairMatchup(shuffled[2], shuffled[3], false))
	}
	return matchups
}

func (r *Room) shuffledPlayers(players []*game.Player) []*game.Player {
	shuffled := make([]*game.Player, len(players))
	copy(shuffled, players)
	r.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// pairMatchup builds one player-vs-player matchup with the alternating
// host rule. Ghost matches reuse the rule but never deal damage.
func (r *Room) pairMatchup(a, b *game.Player, ghost bool) *Matchup {
	host, away := r.chooseHost(a, b)
	return &Matchup{
		ID:        uuid.NewString(),
		HostID:    host.ID,
		AwayID:    away.ID,
		Ghost:     ghost,
		hostSpecs: r.combatSpecs(host),
		awaySpecs: r.combatSpecs(away),
	}
}

// chooseHost flips the home side on every repeat meeting of an unordered
// pair; the first meeting is random.
func (r *Room) chooseHost(a, b *game.Player) (host, away *game.Player) {
	key := pairKey(a.ID, b.ID)
	switch r.lastHost[key] {
	case a.ID:
		host, away = b, a
	case b.ID:
		host, away = a, b
	default:
		if r.rng.Intn(2) == 0 {
			host, away = a, b
		} else {
			host, away = b, a
		}
	}
	r.lastHost[key] = host.ID
	return host, away
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// buildPvEMatchups runs every active player against the round's scripted
// enemy board.
func (r *Room) buildPvEMatchups(rt catalog.RoundType) []*Matchup {
	var matchups []*Matchup
	for _, p := range r.activePlayers() {
		matchups = append(matchups, &Matchup{
			ID:        uuid.NewString(),
			HostID:    p.ID,
			PvE:       true,
			hostSpecs: r.combatSpecs(p),
			awaySpecs: r.pveSpecs(rt),
		})
	}
	return matchups
}

// combatSpecs freezes a player's board through the full stat pipeline into
// simulator inputs.
func (r *Room) combatSpecs(p *game.Player) []combat.UnitSpec {
	var specs []combat.UnitSpec
	for _, cu := range game.ComposeBoard(r.cat, p, r.attuned) {
		spec := combat.UnitSpec{
			InstanceID:   cu.Instance.ID,
			TemplateID:   cu.Template.ID,
			Name:         cu.Template.Name,
			Star:         cu.Instance.Star,
			X:            cu.X,
			Y:            cu.Y,
			Health:       cu.Stats.Health,
			Attack:       cu.Stats.Attack,
			AbilityPower: cu.Stats.AbilityPower,
			Armor:        cu.Stats.Armor,
			MagicResist:  cu.Stats.MagicResist,
			AttackSpeed:  cu.Stats.AttackSpeed,
			Range:        cu.Stats.Range,
			ManaCap:      cu.Stats.ManaCap,
			MoveSpeed:    cu.Stats.MoveSpeed,
			CritChance:   cu.Stats.CritChance,
			CritDamage:   cu.Stats.CritDamage,
			Magical:      cu.Affinity.Magical(),
			Affinity:     string(cu.Affinity),
		}
		if cu.Template.Ability != nil {
			spec.AbilityName = cu.Template.Ability.Name
			spec.AbilityDamageMult = cu.Template.Ability.DamageMult
			spec.AbilityCastSeconds = cu.Template.Ability.CastSeconds
		}
		specs = append(specs, spec)
	}
	return specs
}

// pveSpecs builds the scripted enemy board for a PvE round, loot
// descriptors attached so deaths can drop.
func (r *Room) pveSpecs(rt catalog.RoundType) []combat.UnitSpec {
	var specs []combat.UnitSpec
	for i, spawn := range r.cat.PvEBoard(rt) {
		tmpl, ok := r.cat.Unit(spawn.UnitID)
		if !ok {
			continue
		}
		spec := combat.UnitSpec{
			InstanceID:   pveInstanceID(rt, i),
			TemplateID:   tmpl.ID,
			Name:         tmpl.Name,
			Star:         1,
			X:            spawn.X,
			Y:            spawn.Y,
			Health:       tmpl.Base.Health,
			Attack:       tmpl.Base.Attack,
			AbilityPower: tmpl.Base.AbilityPower,
			Armor:        tmpl.Base.Armor,
			MagicResist:  tmpl.Base.MagicResist,
			AttackSpeed:  tmpl.Base.AttackSpeed,
			Range:        tmpl.Base.Range,
			ManaCap:      tmpl.Base.ManaCap,
			MoveSpeed:    tmpl.Base.MoveSpeed,
			Magical:      tmpl.Affinity.Magical(),
			Affinity:     string(tmpl.Affinity),
		}
		if spawn.Loot != nil {
			spec.Loot = spawn.Loot
		}
		specs = append(specs, spec)
	}
	return specs
}

func pveInstanceID(rt catalog.RoundType, i int) string {
	return "pve-" + string(rt) + "-" + string(rune('a'+i))
}

// applyMatchupResult commits a simulation back to player state: damage and
// streaks for real matches, loot queuing for PvE. Ghost matches change
// nothing.
func (r *Room) applyMatchupResult(m *Matchup) {
	if m.Ghost {
		return
	}
	host := r.findPlayer(m.HostID)
	if m.PvE {
		if host == nil {
			return
		}
		switch m.result.Winner {
		case combat.SideHost:
			host.RecordWin()
		case combat.SideAway:
			host.ApplyCombatDamage(m.result.Damage)
			host.RecordLoss()
		default:
			host.ApplyCombatDamage(1)
			host.ResetStreaks()
		}
		r.queuePvELoot(host, m.result.Events)
		return
	}

	away := r.findPlayer(m.AwayID)
	if host == nil || away == nil {
		return
	}
	switch m.result.Winner {
	case combat.SideHost:
		host.RecordWin()
		away.ApplyCombatDamage(m.result.Damage)
		away.RecordLoss()
	case combat.SideAway:
		away.RecordWin()
		host.ApplyCombatDamage(m.result.Damage)
		host.RecordLoss()
	default:
		host.ApplyCombatDamage(1)
		away.ApplyCombatDamage(1)
		host.ResetStreaks()
		away.ResetStreaks()
	}
}

// queuePvELoot turns every loot-carrying PvE death into a pending drop
// token on the player's queue.
func (r *Room) queuePvELoot(p *game.Player, events []combat.Event) {
	for _, ev := range events {
		if ev.Type != combat.EventUnitDeath || ev.Loot == nil {
			continue
		}
		drop, ok := ev.Loot.(*catalog.LootDrop)
		if !ok {
			continue
		}
		p.AddLoot(*drop)
	}
}

func matchupViews(matchups []*Matchup) []MatchupView {
	views := make([]MatchupView, 0, len(matchups))
	for _, m := range matchups {
		v := MatchupView{
			MatchupID:     m.ID,
			HostID:        m.HostID,
			AwayID:        m.AwayID,
			Ghost:         m.Ghost,
			PvE:           m.PvE,
			Survivors:     m.result.Survivors,
			Damage:        m.result.Damage,
			DurationTicks: m.result.DurationTicks,
		}
		switch m.result.Winner {
		case combat.SideHost:
			v.WinnerID = m.HostID
		case combat.SideAway:
			v.WinnerID = m.AwayID
		}
		views = append(views, v)
	}
	return views
}

// streamCombat fans the event logs out: every participant receives their
// own matchup batched from the combatStart frame, plus spectator streams
// for the other matchups.
func (r *Room) streamCombat(matchups []*Matchup) {
	views := matchupViews(matchups)
	for _, p := range r.players {
		if !p.Connected {
			continue
		}
		own := ownMatchup(matchups, p.ID)
		for _, m := range matchups {
			if m == own {
				r.streamOwn(p.ID, m, views)
			} else {
				r.streamScout(p.ID, m)
			}
		}
	}
}

func ownMatchup(matchups []*Matchup, playerID string) *Matchup {
	for _, m := range matchups {
		if m.HostID == playerID || m.AwayID == playerID {
			return m
		}
	}
	return nil
}

func (r *Room) streamOwn(clientID string, m *Matchup, views []MatchupView) {
	myTeam, opponentTeam := m.hostSpecs, m.awaySpecs
	if m.AwayID == clientID {
		myTeam, opponentTeam = m.awaySpecs, m.hostSpecs
	}
	batches := batchEvents(m.result.Events)
	r.sender.Send(clientID, protocol.CombatStart{
		Type:         protocol.FrameCombatStart,
		Round:        r.round,
		Matchups:     views,
		CombatEvents: batches[0],
		MyTeam:       myTeam,
		OpponentTeam: opponentTeam,
		TotalEvents:  len(m.result.Events),
		BatchIndex:   0,
	})
	for i := 1; i < len(batches); i++ {
		r.sender.Send(clientID, protocol.CombatEventsBatch{
			Type:         protocol.FrameCombatBatch,
			Round:        r.round,
			CombatEvents: batches[i],
			BatchIndex:   i,
			IsLast:       i == len(batches)-1,
		})
	}
}

func (r *Room) streamScout(clientID string, m *Matchup) {
	batches := batchEvents(m.result.Events)
	r.sender.Send(clientID, protocol.ScoutCombatStart{
		Type:         protocol.FrameScoutStart,
		Round:        r.round,
		MatchupID:    m.ID,
		CombatEvents: batches[0],
		TotalEvents:  len(m.result.Events),
		BatchIndex:   0,
	})
	for i := 1; i < len(batches); i++ {
		r.sender.Send(clientID, protocol.ScoutCombatBatch{
			Type:         protocol.FrameScoutBatch,
			Round:        r.round,
			MatchupID:    m.ID,
			CombatEvents: batches[i],
			BatchIndex:   i,
			IsLast:       i == len(batches)-1,
		})
	}
}

// batchEvents slices an event log into transport-sized batches. Always
// returns at least one (possibly empty) batch so combatStart has a body.
func batchEvents(events []combat.Event) [][]combat.Event {
	if len(events) == 0 {
		return [][]combat.Event{{}}
	}
	var batches [][]combat.Event
	for start := 0; start < len(events); start += protocol.EventBatchSize {
		end := start + protocol.EventBatchSize
		if end > len(events) {
			end = len(events)
		}
		batches = append(batches, events[start:end])
	}
	return batches
}
