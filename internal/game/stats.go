package game

import (
	"sort"

	"github.com/hexbrawl/server/internal/catalog"
)

// ActiveTrait is one activated synergy on a player's board.
type ActiveTrait struct {
	TraitID string `json:"traitId"`
	Count   int    `json:"count"`
	Tier    int    `json:"tier"`
}

// ActiveTraits counts unique unit templates on the board per trait and
// returns the traits whose lowest breakpoint is met, sorted by trait id.
func ActiveTraits(cat *catalog.Catalog, p *Player) []ActiveTrait {
	counts := make(map[string]int)
	seen := make(map[string]bool)
	for _, u := range p.BoardUnits() {
		if seen[u.TemplateID] {
			continue
		}
		seen[u.TemplateID] = true
		tmpl, ok := cat.Unit(u.TemplateID)
		if !ok {
			continue
		}
		for _, traitID := range tmpl.Traits {
			counts[traitID]++
		}
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var active []ActiveTrait
	for _, id := range ids {
		trait, ok := cat.Trait(id)
		if !ok {
			continue
		}
		tierIdx := -1
		for i := range trait.Tiers {
			if trait.Tiers[i].Count <= counts[id] {
				tierIdx = i
			}
		}
		if tierIdx >= 0 {
			active = append(active, ActiveTrait{TraitID: id, Count: counts[id], Tier: tierIdx + 1})
		}
	}
	return active
}

// ComposedUnit is one board unit with its final stat block resolved.
type ComposedUnit struct {
	Instance *UnitInstance
	Template *catalog.UnitTemplate
	X, Y     int
	Stats    catalog.Stats
	Affinity catalog.Element
}

// ComposeBoard resolves every board unit through the full pipeline:
// star-scaled base, unit-scoped trait bonuses, team-scoped trait bonuses
// and blessings, item bonuses, then crest bonuses. The attuned element
// gates the attuned trait's unit bonus and converts carrier affinity.
func ComposeBoard(cat *catalog.Catalog, p *Player, attuned catalog.Element) []ComposedUnit {
	active := ActiveTraits(cat, p)
	teamBonuses := teamBonusList(cat, p, active)

	var out []ComposedUnit
	for x := 0; x < catalog.BoardWidth; x++ {
		for y := 0; y < catalog.BoardHeight; y++ {
			inst := p.Board[x][y]
			if inst == nil {
				continue
			}
			tmpl, ok := cat.Unit(inst.TemplateID)
			if !ok {
				continue
			}
			stats := starScaled(tmpl.Base, inst.Star)

			// Unit-scoped trait bonuses for the traits this template carries.
			for _, at := range active {
				if !containsString(tmpl.Traits, at.TraitID) {
					continue
				}
				if at.TraitID == "attuned" && tmpl.Affinity != attuned {
					continue
				}
				trait, _ := cat.Trait(at.TraitID)
				applyBonus(&stats, trait.Tiers[at.Tier-1].Unit)
			}

			// Team-scoped bonuses reach every fielded unit.
			for _, b := range teamBonuses {
				applyBonus(&stats, b)
			}

			// Items.
			for _, itemID := range inst.Items {
				if item, ok := cat.Item(itemID); ok {
					applyBonus(&stats, item.Bonus)
				}
			}

			// Crests.
			for _, owned := range p.MinorCrests {
				if crest, ok := cat.Crest(owned.CrestID); ok {
					applyBonus(&stats, crest.BonusAtRank(owned.Rank))
				}
			}
			if p.MajorCrest != "" {
				if crest, ok := cat.Crest(p.MajorCrest); ok {
					applyBonus(&stats, crest.Bonus)
				}
			}

			clampStats(&stats)
			out = append(out, ComposedUnit{
				Instance: inst,
				Template: tmpl,
				X:        x,
				Y:        y,
				Stats:    stats,
				Affinity: resolveAffinity(tmpl, attuned),
			})
		}
	}
	return out
}

// BaseStats resolves an instance outside the board context: star-scaled
// template plus item bonuses. Used for bench display.
func BaseStats(cat *catalog.Catalog, inst *UnitInstance) catalog.Stats {
	tmpl, ok := cat.Unit(inst.TemplateID)
	if !ok {
		return catalog.Stats{}
	}
	stats := starScaled(tmpl.Base, inst.Star)
	for _, itemID := range inst.Items {
		if item, ok := cat.Item(itemID); ok {
			applyBonus(&stats, item.Bonus)
		}
	}
	clampStats(&stats)
	return stats
}

// teamBonusList gathers every team-wide grant: team-scoped tiers of active
// traits and the blessings of fielded units.
func teamBonusList(cat *catalog.Catalog, p *Player, active []ActiveTrait) []catalog.Bonus {
	var bonuses []catalog.Bonus
	for _, at := range active {
		trait, ok := cat.Trait(at.TraitID)
		if !ok {
			continue
		}
		team := trait.Tiers[at.Tier-1].Team
		if team != (catalog.Bonus{}) {
			bonuses = append(bonuses, team)
		}
	}
	for _, u := range p.BoardUnits() {
		tmpl, ok := cat.Unit(u.TemplateID)
		if ok && tmpl.Blessed != nil {
			bonuses = append(bonuses, *tmpl.Blessed)
		}
	}
	return bonuses
}

// resolveAffinity converts an attuned carrier's damage to the rolled
// element.
func resolveAffinity(tmpl *catalog.UnitTemplate, attuned catalog.Element) catalog.Element {
	if attuned != "" && containsString(tmpl.Traits, "attuned") {
		return attuned
	}
	return tmpl.Affinity
}

// starScaled multiplies the scaling stats (health, attack, ability power)
// by the star multiplier, rounding to nearest.
func starScaled(base catalog.Stats, star int) catalog.Stats {
	mult := catalog.StarMultiplier(star)
	out := base
	out.Health = roundScale(base.Health, mult)
	out.Attack = roundScale(base.Attack, mult)
	out.AbilityPower = roundScale(base.AbilityPower, mult)
	return out
}

func roundScale(v int, mult float64) int {
	return int(float64(v)*mult + 0.5)
}

// applyBonus adds a grant onto a stat block. Flat fields add; attack speed
// applies multiplicatively as ×(1+pct/100).
func applyBonus(stats *catalog.Stats, b catalog.Bonus) {
	stats.Health += b.Health
	stats.Attack += b.Attack
	stats.AbilityPower += b.AbilityPower
	stats.Armor += b.Armor
	stats.MagicResist += b.MagicResist
	stats.CritChance += b.CritChance
	stats.CritDamage += b.CritDamage
	if b.AttackSpeedPct != 0 {
		stats.AttackSpeed *= 1 + b.AttackSpeedPct/100
	}
}

func clampStats(stats *catalog.Stats) {
	if stats.CritChance > 1 {
		stats.CritChance = 1
	}
	if stats.CritChance < 0 {
		stats.CritChance = 0
	}
	if stats.Health < 1 {
		stats.Health = 1
	}
	if stats.Attack < 0 {
		stats.Attack = 0
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
