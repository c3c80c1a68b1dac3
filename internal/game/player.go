package game

import (
	"github.com/google/uuid"

	"github.com/hexbrawl/server/internal/catalog"
)

// UnitInstance is one owned copy (or merged stack) of a unit template.
type UnitInstance struct {
	ID         string   `json:"instanceId"`
	TemplateID string   `json:"unitId"`
	Star       int      `json:"starLevel"`
	Items      []string `json:"items"`
}

// NewUnitInstance mints a 1-star instance of a template.
func NewUnitInstance(templateID string) *UnitInstance {
	return &UnitInstance{
		ID:         uuid.NewString(),
		TemplateID: templateID,
		Star:       1,
	}
}

// OwnedCrest is a minor crest held by a player at a rank 1..3.
type OwnedCrest struct {
	CrestID string `json:"crestId"`
	Rank    int    `json:"rank"`
}

// LootToken is a pending drop awaiting a collectLoot action.
type LootToken struct {
	ID   string           `json:"lootId"`
	Drop catalog.LootDrop `json:"drop"`
}

// CrestOutcome reports what acquiring a minor crest did.
type CrestOutcome int

const (
	CrestAdded CrestOutcome = iota
	CrestRanked
	CrestMaxed
	CrestNeedsReplacement
)

// Player is the full per-player game state. It is created on room join,
// reset on game start, and mutated only from the owning room's goroutine.
type Player struct {
	ID   string
	Name string
	Slot int

	Gold       int
	Level      int
	XP         int
	Health     int
	MaxHealth  int
	WinStreak  int
	LossStreak int

	Board [catalog.BoardWidth][catalog.BoardHeight]*UnitInstance
	Bench [catalog.BenchSize]*UnitInstance

	Shop        [catalog.ShopSize]string
	ShopLocked  bool
	FreeRerolls int

	Inventory   []string
	MinorCrests []OwnedCrest
	MajorCrest  string

	PendingCrestChoice      []string
	PendingItemChoice       []string
	PendingCrestReplacement string
	PendingMajorChoice      []string

	Loot []LootToken

	Ready      bool
	Eliminated bool
	Connected  bool
}

// NewPlayer creates the lobby-time shell for a seat. Game fields are zeroed
// until ResetForGame.
func NewPlayer(id, name string, slot int) *Player {
	return &Player{ID: id, Name: name, Slot: slot, Connected: true}
}

// ResetForGame puts the player into the round-1 starting state. Shops are
// filled separately so the pool can account for them.
func (p *Player) ResetForGame() {
	p.Gold = catalog.StartingGold
	p.Level = 1
	p.XP = 0
	p.Health = catalog.StartingHealth
	p.MaxHealth = catalog.StartingHealth
	p.WinStreak = 0
	p.LossStreak = 0
	p.Board = [catalog.BoardWidth][catalog.BoardHeight]*UnitInstance{}
	p.Bench = [catalog.BenchSize]*UnitInstance{}
	p.Shop = [catalog.ShopSize]string{}
	p.ShopLocked = false
	p.FreeRerolls = 0
	p.Inventory = nil
	p.MinorCrests = nil
	p.MajorCrest = ""
	p.PendingCrestChoice = nil
	p.PendingItemChoice = nil
	p.PendingCrestReplacement = ""
	p.PendingMajorChoice = nil
	p.Loot = nil
	p.Ready = false
	p.Eliminated = false
}

// BoardUnits returns the units on the board in scan order (x, then y).
func (p *Player) BoardUnits() []*UnitInstance {
	var out []*UnitInstance
	for x := 0; x < catalog.BoardWidth; x++ {
		for y := 0; y < catalog.BoardHeight; y++ {
			if u := p.Board[x][y]; u != nil {
				out = append(out, u)
			}
		}
	}
	return out
}

// BoardCount returns how many units the player has fielded.
func (p *Player) BoardCount() int {
	n := 0
	for x := 0; x < catalog.BoardWidth; x++ {
		for y := 0; y < catalog.BoardHeight; y++ {
			if p.Board[x][y] != nil {
				n++
			}
		}
	}
	return n
}

// UnitAt returns the board unit at (x, y), or nil.
func (p *Player) UnitAt(x, y int) *UnitInstance {
	if x < 0 || x >= catalog.BoardWidth || y < 0 || y >= catalog.BoardHeight {
		return nil
	}
	return p.Board[x][y]
}

// findBoard locates an instance on the board.
func (p *Player) findBoard(instanceID string) (x, y int, ok bool) {
	for x := 0; x < catalog.BoardWidth; x++ {
		for y := 0; y < catalog.BoardHeight; y++ {
			if u := p.Board[x][y]; u != nil && u.ID == instanceID {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// findBench locates an instance on the bench.
func (p *Player) findBench(instanceID string) (slot int, ok bool) {
	for i, u := range p.Bench {
		if u != nil && u.ID == instanceID {
			return i, true
		}
	}
	return 0, false
}

// FindUnit returns the instance with the given id wherever it sits.
func (p *Player) FindUnit(instanceID string) (*UnitInstance, bool) {
	if x, y, ok := p.findBoard(instanceID); ok {
		return p.Board[x][y], true
	}
	if slot, ok := p.findBench(instanceID); ok {
		return p.Bench[slot], true
	}
	return nil, false
}

// freeBenchSlot returns the lowest open bench index, or -1.
func (p *Player) freeBenchSlot() int {
	for i, u := range p.Bench {
		if u == nil {
			return i
		}
	}
	return -1
}

// AllUnits returns board then bench units in deterministic order.
func (p *Player) AllUnits() []*UnitInstance {
	out := p.BoardUnits()
	for _, u := range p.Bench {
		if u != nil {
			out = append(out, u)
		}
	}
	return out
}

// Income pays the planning-phase entry gold: base, plus interest of
// ⌊gold/5⌋ capped at 3, plus a streak bonus of min(streak, 5) once the
// better streak reaches 2. Returns the amount granted.
func (p *Player) Income() int {
	interest := p.Gold / 5
	if interest > catalog.InterestCap {
		interest = catalog.InterestCap
	}
	streak := p.WinStreak
	if p.LossStreak > streak {
		streak = p.LossStreak
	}
	bonus := 0
	if streak >= catalog.StreakMin {
		bonus = streak
		if bonus > catalog.StreakBonusCap {
			bonus = catalog.StreakBonusCap
		}
	}
	income := catalog.BaseIncome + interest + bonus
	p.Gold += income
	return income
}

// AddXP grants experience and applies any level-ups it unlocks.
func (p *Player) AddXP(amount int) {
	p.XP += amount
	for p.Level < catalog.MaxLevel {
		threshold, ok := catalog.XPForLevel(p.Level + 1)
		if !ok || p.XP < threshold {
			break
		}
		p.Level++
	}
}

// ApplyCombatDamage reduces health, clamping at zero, and flags
// elimination. Returns true if the player was eliminated by this hit.
func (p *Player) ApplyCombatDamage(damage int) bool {
	if damage <= 0 || p.Eliminated {
		return false
	}
	p.Health -= damage
	if p.Health <= 0 {
		p.Health = 0
		p.Eliminated = true
		return true
	}
	return false
}

// RecordWin updates streaks after a won matchup.
func (p *Player) RecordWin() {
	p.WinStreak++
	p.LossStreak = 0
}

// RecordLoss updates streaks after a lost matchup.
func (p *Player) RecordLoss() {
	p.LossStreak++
	p.WinStreak = 0
}

// ResetStreaks clears both streaks. Used for draws.
func (p *Player) ResetStreaks() {
	p.WinStreak = 0
	p.LossStreak = 0
}

// AddMinorCrest applies the crest ranking rule and reports the outcome.
// When the player already holds three distinct crests, the new one is
// parked in PendingCrestReplacement until a replaceCrest action resolves
// it.
func (p *Player) AddMinorCrest(crestID string) CrestOutcome {
	for i := range p.MinorCrests {
		if p.MinorCrests[i].CrestID != crestID {
			continue
		}
		if p.MinorCrests[i].Rank < catalog.MaxCrestRank {
			p.MinorCrests[i].Rank++
			return CrestRanked
		}
		return CrestMaxed
	}
	if len(p.MinorCrests) < catalog.MaxMinorCrests {
		p.MinorCrests = append(p.MinorCrests, OwnedCrest{CrestID: crestID, Rank: 1})
		return CrestAdded
	}
	p.PendingCrestReplacement = crestID
	return CrestNeedsReplacement
}

// AddLoot queues a pending drop and returns its token id.
func (p *Player) AddLoot(drop catalog.LootDrop) string {
	token := LootToken{ID: uuid.NewString(), Drop: drop}
	p.Loot = append(p.Loot, token)
	return token.ID
}

// takeLoot removes and returns the token with the given id.
func (p *Player) takeLoot(lootID string) (LootToken, bool) {
	for i, t := range p.Loot {
		if t.ID == lootID {
			p.Loot = append(p.Loot[:i], p.Loot[i+1:]...)
			return t, true
		}
	}
	return LootToken{}, false
}
