// Package catalog holds the immutable content tables the game is played
// with: unit templates, traits, items, crests, shop odds, the round
// schedule, and the PvE boards. Tables are built once and shared; nothing
// here is mutated after load.
package catalog

import (
	"fmt"
	"sort"
	"sync"
)

// Element classifies damage and the attunement tag. Physical damage is
// resisted by armor, everything else by magic resist.
type Element string

const (
	Physical Element = "physical"
	Magic    Element = "magic"
	Fire     Element = "fire"
	Frost    Element = "frost"
	Storm    Element = "storm"
	Venom    Element = "venom"
)

// Magical reports whether damage of this element is resisted by magic
// resist rather than armor.
func (e Element) Magical() bool {
	return e != Physical
}

// AttunableElements are the elements the attuned trait can roll at game
// start.
var AttunableElements = []Element{Fire, Frost, Storm, Venom}

// Stats is the full stat block of a unit template. Attack speed is in
// attacks per second, range in hex tiles, move speed in tiles per second.
type Stats struct {
	Health       int     `json:"health"`
	Attack       int     `json:"attack"`
	AbilityPower int     `json:"abilityPower"`
	Armor        int     `json:"armor"`
	MagicResist  int     `json:"magicResist"`
	AttackSpeed  float64 `json:"attackSpeed"`
	Range        int     `json:"range"`
	ManaCap      int     `json:"manaCap"`
	MoveSpeed    float64 `json:"moveSpeed"`
	CritChance   float64 `json:"critChance"`
	CritDamage   float64 `json:"critDamage"`
}

// Bonus is a partial stat grant from a trait tier, an item, a blessing, or
// a crest. Flat fields add onto the stat block; AttackSpeedPct applies
// multiplicatively as ×(1+pct/100).
type Bonus struct {
	Health         int     `json:"health,omitempty"`
	Attack         int     `json:"attack,omitempty"`
	AbilityPower   int     `json:"abilityPower,omitempty"`
	Armor          int     `json:"armor,omitempty"`
	MagicResist    int     `json:"magicResist,omitempty"`
	AttackSpeedPct float64 `json:"attackSpeedPct,omitempty"`
	CritChance     float64 `json:"critChance,omitempty"`
	CritDamage     float64 `json:"critDamage,omitempty"`
}

// Scale returns the bonus with every field multiplied by f, rounding flat
// fields to the nearest integer. Used for minor-crest ranks.
func (b Bonus) Scale(f float64) Bonus {
	return Bonus{
		Health:         roundMult(b.Health, f),
		Attack:         roundMult(b.Attack, f),
		AbilityPower:   roundMult(b.AbilityPower, f),
		Armor:          roundMult(b.Armor, f),
		MagicResist:    roundMult(b.MagicResist, f),
		AttackSpeedPct: b.AttackSpeedPct * f,
		CritChance:     b.CritChance * f,
		CritDamage:     b.CritDamage * f,
	}
}

func roundMult(v int, f float64) int {
	scaled := float64(v) * f
	if scaled >= 0 {
		return int(scaled + 0.5)
	}
	return int(scaled - 0.5)
}

// Ability describes a unit's cast: damage as a multiple of the auto-attack
// and a fixed animation length. Units without one use DefaultAbility*.
type Ability struct {
	Name        string  `json:"name"`
	DamageMult  float64 `json:"damageMult"`
	CastSeconds float64 `json:"castSeconds"`
}

// Defaults for units whose template carries no ability descriptor.
const (
	DefaultAbilityDamageMult  = 3.0
	DefaultAbilityCastSeconds = 1.0
)

// UnitTemplate is one immutable unit definition. Cost 0 marks PvE-only
// units that never enter the pool or shops.
type UnitTemplate struct {
	ID       string   `json:"unitId"`
	Name     string   `json:"name"`
	Cost     int      `json:"cost"`
	Traits   []string `json:"traits"`
	Affinity Element  `json:"affinity"`
	Base     Stats    `json:"stats"`
	Blessed  *Bonus   `json:"blessed,omitempty"`
	Ability  *Ability `json:"ability,omitempty"`
}

// TraitTier is one breakpoint of a trait: at Count unique carriers on the
// board, Unit applies to carriers and Team to every allied unit.
type TraitTier struct {
	Count int   `json:"count"`
	Unit  Bonus `json:"unit"`
	Team  Bonus `json:"team"`
}

// Trait is a named synergy over a set of unit templates.
type Trait struct {
	ID     string      `json:"traitId"`
	Name   string      `json:"name"`
	Units  []string    `json:"units"`
	Tiers  []TraitTier `json:"tiers"`
	Unique bool        `json:"unique,omitempty"`
}

// TierFor returns the highest tier whose count threshold is met, or nil.
func (t *Trait) TierFor(count int) *TraitTier {
	var best *TraitTier
	for i := range t.Tiers {
		if t.Tiers[i].Count <= count {
			best = &t.Tiers[i]
		}
	}
	return best
}

// ItemKind separates equippable components, recipe results, and
// consumables.
type ItemKind string

const (
	ItemComponent  ItemKind = "component"
	ItemCombined   ItemKind = "combined"
	ItemConsumable ItemKind = "consumable"
)

// ConsumableEffect names what a consumable opens when used.
type ConsumableEffect string

const (
	EffectCrestChoice ConsumableEffect = "crestChoice"
	EffectItemChoice  ConsumableEffect = "itemChoice"
)

// Item is a component, a combined item, or a consumable. Combined items
// carry the two component ids of their recipe.
type Item struct {
	ID     string           `json:"itemId"`
	Name   string           `json:"name"`
	Kind   ItemKind         `json:"kind"`
	Bonus  Bonus            `json:"bonus"`
	Recipe []string         `json:"recipe,omitempty"`
	Effect ConsumableEffect `json:"effect,omitempty"`
}

// Crest grants a team-wide bonus. Minor crests stack to rank 3 with
// multipliers ×1/×1.5/×2; a player holds at most one major crest.
type Crest struct {
	ID    string `json:"crestId"`
	Name  string `json:"name"`
	Major bool   `json:"major"`
	Bonus Bonus  `json:"bonus"`
}

// BonusAtRank returns the crest bonus scaled by the minor-crest rank
// multiplier. Major crests ignore rank.
func (c *Crest) BonusAtRank(rank int) Bonus {
	if c.Major {
		return c.Bonus
	}
	return c.Bonus.Scale(CrestRankMultiplier(rank))
}

// LootKind tags what a PvE loot descriptor drops.
type LootKind string

const (
	LootGold LootKind = "gold"
	LootItem LootKind = "item"
	LootUnit LootKind = "unit"
)

// LootDrop describes what a PvE unit drops on death. An empty ItemID rolls
// a random component; an empty UnitID rolls at the collector's level.
type LootDrop struct {
	Kind   LootKind `json:"kind"`
	Amount int      `json:"amount,omitempty"`
	ItemID string   `json:"itemId,omitempty"`
	UnitID string   `json:"unitId,omitempty"`
}

// PvESpawn places one PvE unit on the enemy half, in that side's local
// board coordinates (x 0–4, y 0–3).
type PvESpawn struct {
	UnitID string
	X, Y   int
	Loot   *LootDrop
}

// Catalog is the loaded content set. All lookup slices are sorted by id so
// iteration order is stable.
type Catalog struct {
	units       map[string]*UnitTemplate
	traits      map[string]*Trait
	items       map[string]*Item
	crests      map[string]*Crest
	unitsByCost map[int][]*UnitTemplate
	recipes     map[[2]string]*Item
	components  []*Item
	merchant    []*Item
	minor       []*Crest
	major       []*Crest
	pveBoards   map[RoundType][]PvESpawn
}

var (
	defaultOnce sync.Once
	defaultInst *Catalog
)

// Default returns the built-in content set. The catalog is built once and
// cached; callers must not mutate it.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultInst = buildDefault()
	})
	return defaultInst
}

// Unit returns the template with the given id.
func (c *Catalog) Unit(id string) (*UnitTemplate, bool) {
	u, ok := c.units[id]
	return u, ok
}

// UnitsOfCost returns all player unit templates at the given cost tier,
// sorted by id.
func (c *Catalog) UnitsOfCost(cost int) []*UnitTemplate {
	return c.unitsByCost[cost]
}

// PlayerUnits returns every template with cost ≥ 1, sorted by id.
func (c *Catalog) PlayerUnits() []*UnitTemplate {
	var out []*UnitTemplate
	for cost := 1; cost <= 5; cost++ {
		out = append(out, c.unitsByCost[cost]...)
	}
	return out
}

// Trait returns the trait with the given id.
func (c *Catalog) Trait(id string) (*Trait, bool) {
	t, ok := c.traits[id]
	return t, ok
}

// Item returns the item with the given id.
func (c *Catalog) Item(id string) (*Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// Crest returns the crest with the given id.
func (c *Catalog) Crest(id string) (*Crest, bool) {
	cr, ok := c.crests[id]
	return cr, ok
}

// Components returns the component items, sorted by id.
func (c *Catalog) Components() []*Item {
	return c.components
}

// MerchantItems returns the non-component items the merchant offers,
// sorted by id.
func (c *Catalog) MerchantItems() []*Item {
	return c.merchant
}

// MinorCrests returns all minor crests, sorted by id.
func (c *Catalog) MinorCrests() []*Crest {
	return c.minor
}

// MajorCrests returns all major crests, sorted by id.
func (c *Catalog) MajorCrests() []*Crest {
	return c.major
}

// CombinedFor returns the combined item produced by the unordered pair of
// component ids, if a recipe exists.
func (c *Catalog) CombinedFor(a, b string) (*Item, bool) {
	it, ok := c.recipes[recipeKey(a, b)]
	return it, ok
}

// PvEBoard returns the enemy board for a PvE round type.
func (c *Catalog) PvEBoard(rt RoundType) []PvESpawn {
	return c.pveBoards[rt]
}

func recipeKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// Validate checks table integrity. A non-nil error means the content set
// is unusable and the process must not start.
func (c *Catalog) Validate() error {
	if err := c.validateUnits(); err != nil {
		return err
	}
	if err := c.validateTraits(); err != nil {
		return err
	}
	if err := c.validateItems(); err != nil {
		return err
	}
	if err := c.validateCrests(); err != nil {
		return err
	}
	if err := c.validateTables(); err != nil {
		return err
	}
	return c.validatePvE()
}

func (c *Catalog) validateUnits() error {
	for _, id := range sortedKeys(c.units) {
		u := c.units[id]
		if u.Name == "" {
			return fmt.Errorf("catalog: unit %q has no name", id)
		}
		if u.Cost < 0 || u.Cost > 5 {
			return fmt.Errorf("catalog: unit %q has cost %d outside 0..5", id, u.Cost)
		}
		s := u.Base
		if s.Health <= 0 || s.Attack < 0 {
			return fmt.Errorf("catalog: unit %q has invalid health/attack", id)
		}
		if s.AttackSpeed <= 0 || s.MoveSpeed <= 0 {
			return fmt.Errorf("catalog: unit %q has non-positive speed", id)
		}
		if s.Range < 1 {
			return fmt.Errorf("catalog: unit %q has range %d < 1", id, s.Range)
		}
		if s.ManaCap <= 0 {
			return fmt.Errorf("catalog: unit %q has non-positive mana cap", id)
		}
		if s.CritChance < 0 || s.CritChance > 1 {
			return fmt.Errorf("catalog: unit %q has crit chance %v outside [0,1]", id, s.CritChance)
		}
		if s.CritDamage < 1 {
			return fmt.Errorf("catalog: unit %q has crit damage %v < 1", id, s.CritDamage)
		}
		for _, tr := range u.Traits {
			t, ok := c.traits[tr]
			if !ok {
				return fmt.Errorf("catalog: unit %q lists unknown trait %q", id, tr)
			}
			if !containsString(t.Units, id) {
				return fmt.Errorf("catalog: trait %q does not list member %q back", tr, id)
			}
		}
		if u.Ability != nil && (u.Ability.DamageMult <= 0 || u.Ability.CastSeconds <= 0) {
			return fmt.Errorf("catalog: unit %q has invalid ability numbers", id)
		}
	}
	return nil
}

func (c *Catalog) validateTraits() error {
	for _, id := range sortedKeys(c.traits) {
		t := c.traits[id]
		if len(t.Tiers) == 0 {
			return fmt.Errorf("catalog: trait %q has no tiers", id)
		}
		prev := 0
		for _, tier := range t.Tiers {
			if tier.Count <= prev {
				return fmt.Errorf("catalog: trait %q tiers are not strictly ascending", id)
			}
			prev = tier.Count
		}
		if len(t.Units) == 0 {
			return fmt.Errorf("catalog: trait %q has no member units", id)
		}
		for _, uid := range t.Units {
			u, ok := c.units[uid]
			if !ok {
				return fmt.Errorf("catalog: trait %q lists unknown unit %q", id, uid)
			}
			if !containsString(u.Traits, id) {
				return fmt.Errorf("catalog: unit %q does not carry trait %q back", uid, id)
			}
		}
		if t.Unique && (len(t.Units) != 1 || len(t.Tiers) != 1 || t.Tiers[0].Count != 1) {
			return fmt.Errorf("catalog: unique trait %q must have one unit and one tier at count 1", id)
		}
	}
	return nil
}

func (c *Catalog) validateItems() error {
	for _, id := range sortedKeys(c.items) {
		it := c.items[id]
		if it.Name == "" {
			return fmt.Errorf("catalog: item %q has no name", id)
		}
		switch it.Kind {
		case ItemComponent:
			if len(it.Recipe) != 0 || it.Effect != "" {
				return fmt.Errorf("catalog: component %q must not carry recipe or effect", id)
			}
		case ItemCombined:
			if len(it.Recipe) != 2 {
				return fmt.Errorf("catalog: combined item %q needs a two-component recipe", id)
			}
			for _, comp := range it.Recipe {
				ci, ok := c.items[comp]
				if !ok || ci.Kind != ItemComponent {
					return fmt.Errorf("catalog: combined item %q recipe references non-component %q", id, comp)
				}
			}
		case ItemConsumable:
			if it.Effect != EffectCrestChoice && it.Effect != EffectItemChoice {
				return fmt.Errorf("catalog: consumable %q has unknown effect %q", id, it.Effect)
			}
			if it.Bonus != (Bonus{}) {
				return fmt.Errorf("catalog: consumable %q must not grant stats", id)
			}
		default:
			return fmt.Errorf("catalog: item %q has unknown kind %q", id, it.Kind)
		}
	}
	seen := make(map[[2]string]string)
	for _, id := range sortedKeys(c.items) {
		it := c.items[id]
		if it.Kind != ItemCombined {
			continue
		}
		key := recipeKey(it.Recipe[0], it.Recipe[1])
		if other, dup := seen[key]; dup {
			return fmt.Errorf("catalog: recipe %v produces both %q and %q", key, other, id)
		}
		seen[key] = id
	}
	return nil
}

func (c *Catalog) validateCrests() error {
	if len(c.minor) < 4 {
		return fmt.Errorf("catalog: need at least 4 minor crests, have %d", len(c.minor))
	}
	if len(c.major) < 3 {
		return fmt.Errorf("catalog: need at least 3 major crests, have %d", len(c.major))
	}
	for _, id := range sortedKeys(c.crests) {
		cr := c.crests[id]
		if cr.Name == "" {
			return fmt.Errorf("catalog: crest %q has no name", id)
		}
		if cr.Bonus == (Bonus{}) {
			return fmt.Errorf("catalog: crest %q grants nothing", id)
		}
	}
	return nil
}

func (c *Catalog) validateTables() error {
	for level := 1; level <= MaxLevel; level++ {
		odds := ShopOdds(level)
		sum := 0
		for tier, pct := range odds {
			if pct < 0 {
				return fmt.Errorf("catalog: shop odds level %d tier %d negative", level, tier+1)
			}
			if pct > 0 && len(c.unitsByCost[tier+1]) == 0 {
				return fmt.Errorf("catalog: shop odds level %d reference empty tier %d", level, tier+1)
			}
			sum += pct
		}
		if sum != 100 {
			return fmt.Errorf("catalog: shop odds for level %d sum to %d, want 100", level, sum)
		}
	}
	for tier := 1; tier <= 5; tier++ {
		if PoolSize(tier) <= 0 {
			return fmt.Errorf("catalog: pool size for tier %d is not positive", tier)
		}
	}
	prev := 0
	for level := 2; level <= MaxLevel; level++ {
		xp, ok := XPForLevel(level)
		if !ok || xp <= prev {
			return fmt.Errorf("catalog: xp thresholds are not strictly ascending at level %d", level)
		}
		prev = xp
	}
	for round := 1; round <= len(roundSchedule); round++ {
		switch RoundTypeAt(round) {
		case RoundPvP, RoundPvEIntro, RoundPvELoot, RoundPvEBoss, RoundMerchant, RoundMajorCrest:
		default:
			return fmt.Errorf("catalog: round %d has unknown type %q", round, RoundTypeAt(round))
		}
	}
	return nil
}

func (c *Catalog) validatePvE() error {
	for _, rt := range []RoundType{RoundPvEIntro, RoundPvELoot, RoundPvEBoss} {
		board := c.pveBoards[rt]
		if len(board) == 0 {
			return fmt.Errorf("catalog: no PvE board for round type %q", rt)
		}
		occupied := make(map[[2]int]bool)
		for _, sp := range board {
			u, ok := c.units[sp.UnitID]
			if !ok {
				return fmt.Errorf("catalog: PvE board %q spawns unknown unit %q", rt, sp.UnitID)
			}
			if u.Cost != 0 {
				return fmt.Errorf("catalog: PvE board %q spawns player unit %q", rt, sp.UnitID)
			}
			if sp.X < 0 || sp.X >= BoardWidth || sp.Y < 0 || sp.Y >= BoardHeight {
				return fmt.Errorf("catalog: PvE board %q spawn %q out of bounds (%d,%d)", rt, sp.UnitID, sp.X, sp.Y)
			}
			cell := [2]int{sp.X, sp.Y}
			if occupied[cell] {
				return fmt.Errorf("catalog: PvE board %q has two spawns at (%d,%d)", rt, sp.X, sp.Y)
			}
			occupied[cell] = true
			if sp.Loot != nil && sp.Loot.Kind == LootItem && sp.Loot.ItemID != "" {
				it, ok := c.items[sp.Loot.ItemID]
				if !ok || it.Kind == ItemConsumable {
					return fmt.Errorf("catalog: PvE board %q drops unknown item %q", rt, sp.Loot.ItemID)
				}
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
