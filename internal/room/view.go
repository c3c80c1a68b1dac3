package room

import (
	"github.com/hexbrawl/server/internal/catalog"
	"github.com/hexbrawl/server/internal/game"
)

// PlayerSummary is the lobby-level view of a seat.
type PlayerSummary struct {
	ID        string `json:"playerId"`
	Name      string `json:"name"`
	Slot      int    `json:"slot"`
	Ready     bool   `json:"ready"`
	Connected bool   `json:"connected"`
}

// UnitView is one unit instance with its resolved display stats.
type UnitView struct {
	InstanceID string        `json:"instanceId"`
	UnitID     string        `json:"unitId"`
	Name       string        `json:"name"`
	Star       int           `json:"starLevel"`
	Items      []string      `json:"items,omitempty"`
	X          int           `json:"x"`
	Y          int           `json:"y"`
	BenchSlot  int           `json:"benchSlot"`
	Stats      catalog.Stats `json:"stats"`
}

// PlayerView is the full in-game view of one player.
type PlayerView struct {
	PlayerSummary
	Gold        int                `json:"gold"`
	Level       int                `json:"level"`
	XP          int                `json:"xp"`
	Health      int                `json:"health"`
	MaxHealth   int                `json:"maxHealth"`
	WinStreak   int                `json:"winStreak"`
	LossStreak  int                `json:"lossStreak"`
	Board       []UnitView         `json:"board"`
	Bench       []UnitView         `json:"bench"`
	Shop        []string           `json:"shop"`
	ShopLocked  bool               `json:"shopLocked"`
	FreeRerolls int                `json:"freeRerolls"`
	Inventory   []string           `json:"inventory"`
	MinorCrests []game.OwnedCrest  `json:"minorCrests"`
	MajorCrest  string             `json:"majorCrest,omitempty"`
	Traits      []game.ActiveTrait `json:"activeTraits"`
	Loot        []game.LootToken   `json:"pendingLoot,omitempty"`
	Eliminated  bool               `json:"eliminated"`

	PendingCrestChoice      []string `json:"pendingCrestChoice,omitempty"`
	PendingItemChoice       []string `json:"pendingItemChoice,omitempty"`
	PendingCrestReplacement string   `json:"pendingCrestReplacement,omitempty"`
	PendingMajorChoice      []string `json:"pendingMajorChoice,omitempty"`
}

// StateView is the gameState snapshot body.
type StateView struct {
	RoomID    string       `json:"roomId"`
	HostID    string       `json:"hostId"`
	Phase     string       `json:"phase"`
	Round     int          `json:"round"`
	RoundType string       `json:"roundType,omitempty"`
	Attuned   string       `json:"attunedElement,omitempty"`
	Players   []PlayerView `json:"players"`
}

// Info is the roomList view of a room.
type Info struct {
	RoomID  string `json:"roomId"`
	Players int    `json:"players"`
	InGame  bool   `json:"inGame"`
}

// Snapshot returns the roomList summary. Safe to call from any goroutine
// via Do.
func (r *Room) Snapshot() Info {
	return Info{
		RoomID:  r.Code,
		Players: len(r.players),
		InGame:  r.phase != PhaseWaiting,
	}
}

func playerSummary(p *game.Player) PlayerSummary {
	return PlayerSummary{
		ID:        p.ID,
		Name:      p.Name,
		Slot:      p.Slot,
		Ready:     p.Ready,
		Connected: p.Connected,
	}
}

func (r *Room) playerSummaries() []PlayerSummary {
	out := make([]PlayerSummary, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, playerSummary(p))
	}
	return out
}

func (r *Room) stateView() StateView {
	view := StateView{
		RoomID:  r.Code,
		HostID:  r.hostID,
		Phase:   string(r.phase),
		Round:   r.round,
		Attuned: string(r.attuned),
		Players: make([]PlayerView, 0, len(r.players)),
	}
	if r.round > 0 {
		view.RoundType = string(catalog.RoundTypeAt(r.round))
	}
	for _, p := range r.players {
		view.Players = append(view.Players, r.playerView(p))
	}
	return view
}

func (r *Room) playerView(p *game.Player) PlayerView {
	view := PlayerView{
		PlayerSummary: playerSummary(p),
		Gold:          p.Gold,
		Level:         p.Level,
		XP:            p.XP,
		Health:        p.Health,
		MaxHealth:     p.MaxHealth,
		WinStreak:     p.WinStreak,
		LossStreak:    p.LossStreak,
		Shop:          p.Shop[:],
		ShopLocked:    p.ShopLocked,
		FreeRerolls:   p.FreeRerolls,
		Inventory:     p.Inventory,
		MinorCrests:   p.MinorCrests,
		MajorCrest:    p.MajorCrest,
		Loot:          p.Loot,
		Eliminated:    p.Eliminated,

		PendingCrestChoice:      p.PendingCrestChoice,
		PendingItemChoice:       p.PendingItemChoice,
		PendingCrestReplacement: p.PendingCrestReplacement,
		PendingMajorChoice:      p.PendingMajorChoice,
	}
	view.Traits = game.ActiveTraits(r.cat, p)

	for _, cu := range game.ComposeBoard(r.cat, p, r.attuned) {
		view.Board = append(view.Board, UnitView{
			InstanceID: cu.Instance.ID,
			UnitID:     cu.Template.ID,
			Name:       cu.Template.Name,
			Star:       cu.Instance.Star,
			Items:      cu.Instance.Items,
			X:          cu.X,
			Y:          cu.Y,
			BenchSlot:  -1,
			Stats:      cu.Stats,
		})
	}
	for slot, u := range p.Bench {
		if u == nil {
			continue
		}
		bench := UnitView{
			InstanceID: u.ID,
			UnitID:     u.TemplateID,
			Star:       u.Star,
			Items:      u.Items,
			X:          -1,
			Y:          -1,
			BenchSlot:  slot,
			Stats:      game.BaseStats(r.cat, u),
		}
		if tmpl, ok := r.cat.Unit(u.TemplateID); ok {
			bench.Name = tmpl.Name
		}
		view.Bench = append(view.Bench, bench)
	}
	return view
}
