package room

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hexbrawl/server/internal/game"
	"github.com/hexbrawl/server/internal/protocol"
)

// Merchant round timers.
const (
	MerchantTurnSeconds   = 15
	MerchantSafetySeconds = 90
	MerchantGraceSeconds  = 1
	MerchantPairCount     = 6
)

// RewardKind tags one half of a merchant pair.
type RewardKind string

const (
	RewardUnit    RewardKind = "unit"
	RewardItem    RewardKind = "item"
	RewardCrest   RewardKind = "crest"
	RewardGold    RewardKind = "gold"
	RewardRerolls RewardKind = "rerolls"
)

// MerchantReward is one half of a pair.
type MerchantReward struct {
	Kind    RewardKind `json:"kind"`
	UnitID  string     `json:"unitId,omitempty"`
	ItemID  string     `json:"itemId,omitempty"`
	CrestID string     `json:"crestId,omitempty"`
	Gold    int        `json:"gold,omitempty"`
	Rerolls int        `json:"rerolls,omitempty"`
}

// MerchantOption is one pickable pair.
type MerchantOption struct {
	ID      string           `json:"optionId"`
	Rewards []MerchantReward `json:"rewards"`
	Taken   bool             `json:"taken"`
	TakenBy string           `json:"takenBy,omitempty"`
}

// merchantRound is the live state of one mad-merchant draft.
type merchantRound struct {
	options []*MerchantOption
	order   []string // player ids, ascending health then slot
	turn    int
	done    bool
}

// startMerchant opens the draft: six random pairs, pickers ordered by
// ascending health, a per-turn timer and a hard safety cap.
func (r *Room) startMerchant() {
	m := &merchantRound{options: r.rollMerchantOptions()}
	active := r.activePlayers()
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Health != active[j].Health {
			return active[i].Health < active[j].Health
		}
		return active[i].Slot < active[j].Slot
	})
	for _, p := range active {
		m.order = append(m.order, p.ID)
	}
	r.merchant = m
	r.log.Info().Strs("pickOrder", m.order).Msg("Merchant round starting")

	// The picker at the head of the order may already be unreachable.
	r.merchantSkipUnavailable()
	if m.done {
		return
	}

	r.broadcast(protocol.MerchantStart{
		Type:          protocol.FrameMerchantStart,
		Options:       m.options,
		PickOrder:     m.order,
		CurrentPicker: m.order[m.turn],
		Timer:         MerchantTurnSeconds,
	})
	r.scheduleMerchantTurn()
	r.schedule(MerchantSafetySeconds*time.Second, r.finishMerchant)
}

// rollMerchantOptions generates the six pairs, each a random one of the
// six pair types.
func (r *Room) rollMerchantOptions() []*MerchantOption {
	options := make([]*MerchantOption, 0, MerchantPairCount)
	for i := 0; i < MerchantPairCount; i++ {
		var rewards []MerchantReward
		switch r.rng.Intn(6) {
		case 0:
			rewards = []MerchantReward{r.rollUnitReward(), r.rollItemReward()}
		case 1:
			rewards = []MerchantReward{r.rollCrestReward(), {Kind: RewardRerolls, Rerolls: 3}}
		case 2:
			rewards = []MerchantReward{{Kind: RewardGold, Gold: 5 + r.rng.Intn(4)}, r.rollItemReward()}
		case 3:
			rewards = []MerchantReward{r.rollItemReward(), r.rollItemReward()}
		case 4:
			rewards = []MerchantReward{r.rollUnitReward(), r.rollCrestReward()}
		case 5:
			rewards = []MerchantReward{r.rollItemReward(), r.rollCrestReward()}
		}
		options = append(options, &MerchantOption{ID: uuid.NewString(), Rewards: rewards})
	}
	return options
}

func (r *Room) rollUnitReward() MerchantReward {
	tier := 2 + r.rng.Intn(3)
	units := r.cat.UnitsOfCost(tier)
	return MerchantReward{Kind: RewardUnit, UnitID: units[r.rng.Intn(len(units))].ID}
}

func (r *Room) rollItemReward() MerchantReward {
	items := r.cat.MerchantItems()
	return MerchantReward{Kind: RewardItem, ItemID: items[r.rng.Intn(len(items))].ID}
}

func (r *Room) rollCrestReward() MerchantReward {
	minors := r.cat.MinorCrests()
	return MerchantReward{Kind: RewardCrest, CrestID: minors[r.rng.Intn(len(minors))].ID}
}

// currentPicker returns the player whose turn it is, or nil once the
// draft is over.
func (r *Room) currentPicker() *game.Player {
	m := r.merchant
	if m == nil || m.done || m.turn >= len(m.order) {
		return nil
	}
	return r.findPlayer(m.order[m.turn])
}

// scheduleMerchantTurn arms the per-turn timer: on expiry the current
// picker is auto-picked the first open pair, preferring one with gold.
func (r *Room) scheduleMerchantTurn() {
	m := r.merchant
	turn := m.turn
	r.schedule(MerchantTurnSeconds*time.Second, func() {
		if r.merchant != m || m.done || m.turn != turn {
			return
		}
		picker := r.currentPicker()
		if picker != nil {
			if opt := m.autoPickOption(); opt != nil {
				r.applyMerchantPick(picker, opt)
			}
		}
		r.advanceMerchant()
	})
}

// autoPickOption returns the first untaken pair, preferring one that
// contains gold.
func (m *merchantRound) autoPickOption() *MerchantOption {
	var first *MerchantOption
	for _, opt := range m.options {
		if opt.Taken {
			continue
		}
		if first == nil {
			first = opt
		}
		for _, reward := range opt.Rewards {
			if reward.Kind == RewardGold {
				return opt
			}
		}
	}
	return first
}

// HandleMerchantPick resolves a merchantPick action.
func (r *Room) handleMerchantPick(p *game.Player, optionID string) error {
	m := r.merchant
	if m == nil || m.done {
		return ErrWrongPhase
	}
	picker := r.currentPicker()
	if picker == nil || picker.ID != p.ID {
		return ErrNotYourTurn
	}
	var opt *MerchantOption
	for _, o := range m.options {
		if o.ID == optionID {
			opt = o
			break
		}
	}
	if opt == nil {
		return ErrInvalidOption
	}
	if opt.Taken {
		return ErrOptionTaken
	}
	r.applyMerchantPick(p, opt)
	r.advanceMerchant()
	return nil
}

// applyMerchantPick grants both rewards of a pair and marks it taken.
func (r *Room) applyMerchantPick(p *game.Player, opt *MerchantOption) {
	opt.Taken = true
	opt.TakenBy = p.ID
	for _, reward := range opt.Rewards {
		switch reward.Kind {
		case RewardItem:
			if !p.GrantItem(reward.ItemID) {
				r.log.Debug().Str("clientId", p.ID).Str("itemId", reward.ItemID).Msg("Merchant item dropped, inventory full")
			}
		case RewardUnit:
			if unit, _ := p.GrantUnit(r.cat, r.pool, reward.UnitID); unit != nil {
				p.MergeSweep()
			}
		case RewardGold:
			p.Gold += reward.Gold
		case RewardRerolls:
			p.FreeRerolls += reward.Rerolls
		case RewardCrest:
			p.AddMinorCrest(reward.CrestID)
		}
	}
	r.broadcast(protocol.MerchantPick{
		Type:     protocol.FrameMerchantPick,
		PlayerID: p.ID,
		OptionID: opt.ID,
		Option:   opt,
	})
	r.broadcastState()
}

// advanceMerchant moves to the next picker still in the room and
// connected, finishing the draft when the order is exhausted.
func (r *Room) advanceMerchant() {
	m := r.merchant
	if m == nil || m.done {
		return
	}
	m.turn++
	r.merchantSkipUnavailable()
	if m.done {
		return
	}
	r.broadcast(protocol.MerchantTurnUpdate{
		Type:          protocol.FrameMerchantTurn,
		CurrentPicker: m.order[m.turn],
		Timer:         MerchantTurnSeconds,
	})
	r.scheduleMerchantTurn()
}

// merchantSkipUnavailable advances past pickers who left, disconnected,
// or were eliminated, ending the draft when nobody remains.
func (r *Room) merchantSkipUnavailable() {
	m := r.merchant
	for m.turn < len(m.order) {
		p := r.findPlayer(m.order[m.turn])
		if p != nil && p.Connected && !p.Eliminated {
			return
		}
		m.turn++
	}
	r.finishMerchant()
}

// merchantSkipIfPicking advances the draft immediately when the current
// picker drops out.
func (r *Room) merchantSkipIfPicking(clientID string) {
	m := r.merchant
	if m == nil || m.done || m.turn >= len(m.order) {
		return
	}
	if m.order[m.turn] == clientID {
		r.advanceMerchant()
	}
}

// finishMerchant closes the draft and advances to the next round after a
// short grace. Skips combat and results entirely.
func (r *Room) finishMerchant() {
	m := r.merchant
	if m == nil || m.done {
		return
	}
	m.done = true
	r.log.Info().Msg("Merchant round complete")
	r.broadcast(protocol.MerchantEnd{Type: protocol.FrameMerchantEnd})
	if r.checkGameOver() {
		return
	}
	next := r.round + 1
	r.schedule(MerchantGraceSeconds*time.Second, func() { r.startRound(next) })
}
