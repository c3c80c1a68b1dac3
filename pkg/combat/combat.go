// Package combat simulates one matchup between two boards on a 5×8 hex
// field. The simulation is a pure function of its inputs: identical specs
// and seed produce a byte-identical event log. Time advances in fixed
// 50 ms ticks with a hard cap of 60 simulated seconds.
package combat

// Field and timing constants.
const (
	FieldWidth  = 5
	FieldHeight = 8
	BoardRows   = 4

	// TickSeconds is the simulated length of one tick (20 Hz).
	TickSeconds = 0.05
	// MaxTicks caps a simulation at 60 seconds.
	MaxTicks = 1200

	// ManaPerAttack is gained on every auto-attack start.
	ManaPerAttack = 10
	// HitFraction is how far into a swing or cast the hit lands.
	HitFraction = 0.4
	// StuckRetargetTicks forces a new target after this many blocked ticks.
	StuckRetargetTicks = 10

	// Ability fallback numbers for specs without their own.
	DefaultAbilityDamageMult  = 3.0
	DefaultAbilityCastSeconds = 1.0
)

// Sides of a matchup. The host occupies rows 0–3; the away board is
// mirrored onto rows 7–4 so front ranks face.
const (
	SideNone = 0
	SideHost = 1
	SideAway = 2
)

// UnitSpec is one combat-ready unit: final stats after the owner's full
// composition pipeline, positioned in its own board's local coordinates
// (x 0–4, y 0–3). Loot is an opaque drop descriptor echoed on the unit's
// death event.
type UnitSpec struct {
	InstanceID string `json:"instanceId"`
	TemplateID string `json:"unitId"`
	Name       string `json:"name"`
	Star       int    `json:"starLevel"`
	X          int    `json:"x"`
	Y          int    `json:"y"`

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

	// Magical damage is resisted by magic resist instead of armor.
	Magical  bool   `json:"magical,omitempty"`
	Affinity string `json:"affinity,omitempty"`

	AbilityName        string  `json:"abilityName,omitempty"`
	AbilityDamageMult  float64 `json:"abilityDamageMult,omitempty"`
	AbilityCastSeconds float64 `json:"abilityCastSeconds,omitempty"`

	Loot any `json:"loot,omitempty"`
}

// EventType enumerates the combat event stream.
type EventType string

const (
	EventCombatStart EventType = "combatStart"
	EventUnitMove    EventType = "unitMove"
	EventUnitAttack  EventType = "unitAttack"
	EventUnitAbility EventType = "unitAbility"
	EventUnitDamage  EventType = "unitDamage"
	EventUnitDeath   EventType = "unitDeath"
	EventCombatEnd   EventType = "combatEnd"
)

// RosterUnit is a combatStart roster entry: the spec with field
// coordinates (away side mirrored) and its side tag.
type RosterUnit struct {
	UnitSpec
	Side int `json:"side"`
}

// EndSummary closes the event stream.
type EndSummary struct {
	Winner    int `json:"winner"`
	Survivors int `json:"survivors"`
	Damage    int `json:"damage"`
}

// Event is one entry of the combat log. X and Y carry the position most
// relevant to the event: the destination for moves, the actor for attacks
// and casts, the victim for damage and deaths.
type Event struct {
	Type        EventType    `json:"type"`
	Tick        int          `json:"tick"`
	Units       []RosterUnit `json:"units,omitempty"`
	UnitID      string       `json:"unitId,omitempty"`
	TargetID    string       `json:"targetId,omitempty"`
	KillerID    string       `json:"killerId,omitempty"`
	X           int          `json:"x"`
	Y           int          `json:"y"`
	Damage      int          `json:"damage,omitempty"`
	NewHP       int          `json:"newHp"`
	LandingTick int          `json:"landingTick,omitempty"`
	Duration    int          `json:"duration,omitempty"`
	Loot        any          `json:"loot,omitempty"`
	End         *EndSummary  `json:"end,omitempty"`
}

// Result is what a finished simulation reports back to the room.
type Result struct {
	Winner        int     `json:"winner"`
	Survivors     int     `json:"survivors"`
	Damage        int     `json:"damage"`
	DurationTicks int     `json:"durationTicks"`
	Events        []Event `json:"events"`
}

// DurationSeconds converts the simulated tick count to real-time seconds.
func (r Result) DurationSeconds() float64 {
	return float64(r.DurationTicks) * TickSeconds
}
