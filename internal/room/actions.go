package room

import (
	"github.com/hexbrawl/server/internal/catalog"
	"github.com/hexbrawl/server/internal/game"
	"github.com/hexbrawl/server/internal/protocol"
)

// HandleAction validates and applies one in-game action. The result goes
// back to the actor only; a state broadcast follows every successful
// mutation.
func (r *Room) HandleAction(clientID string, act *protocol.Action) {
	p := r.findPlayer(clientID)
	if p == nil {
		r.sendError(clientID, ErrNotInGame.Error())
		return
	}
	result := protocol.ActionResult{Type: protocol.FrameActionResult, Action: act.Type}

	detail, err := r.applyAction(p, act)
	if err != nil {
		result.Error = err.Error()
		r.sender.Send(clientID, result)
		return
	}
	result.Success = true
	result.Detail = detail
	r.sender.Send(clientID, result)
	r.broadcastState()
}

// applyAction runs one action against the actor's state. Validation
// failures return an error and mutate nothing.
func (r *Room) applyAction(p *game.Player, act *protocol.Action) (any, error) {
	if r.phase == PhaseWaiting || r.phase == PhaseGameOver {
		return nil, ErrWrongPhase
	}
	if p.Eliminated {
		return nil, ErrEliminated
	}

	switch act.Type {
	case protocol.ActBuyUnit:
		unit, err := p.BuyUnit(r.cat, act.ShopIndex)
		if err != nil {
			return nil, err
		}
		// Combat runs on frozen specs, so merging mid-combat is safe;
		// the planning sweep still catches anything missed.
		if merges := p.MergeFrom(unit); len(merges) > 0 {
			return mergeDetail(merges), nil
		}
		return unitView(r.cat, unit), nil

	case protocol.ActSellUnit:
		price, err := p.SellUnit(r.cat, r.pool, act.InstanceID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"gold": price}, nil

	case protocol.ActPlaceUnit:
		if r.phase != PhasePlanning {
			return nil, ErrWrongPhase
		}
		return nil, p.PlaceUnit(act.InstanceID, act.X, act.Y)

	case protocol.ActBenchUnit:
		if r.phase != PhasePlanning {
			return nil, ErrWrongPhase
		}
		slot := -1
		if act.TargetSlot != nil {
			slot = *act.TargetSlot
		}
		return nil, p.BenchUnit(act.InstanceID, slot)

	case protocol.ActMoveBenchUnit:
		slot := -1
		if act.TargetSlot != nil {
			slot = *act.TargetSlot
		}
		return nil, p.MoveBenchUnit(act.InstanceID, slot)

	case protocol.ActReroll:
		return nil, p.Reroll(r.pool)

	case protocol.ActBuyXP:
		return nil, p.BuyXP()

	case protocol.ActToggleShopLock:
		p.ToggleShopLock()
		return map[string]any{"locked": p.ShopLocked}, nil

	case protocol.ActReady:
		r.SetReady(p.ID, act.Ready)
		return nil, nil

	case protocol.ActCollectLoot:
		res, err := p.CollectLoot(r.cat, r.pool, r.rng, act.LootID)
		if err != nil {
			return nil, err
		}
		if res.Unit != nil {
			p.MergeFrom(res.Unit)
		}
		return res, nil

	case protocol.ActEquipItem:
		return nil, p.EquipItem(r.cat, act.ItemIndex, act.InstanceID)

	case protocol.ActUnequipItem:
		return nil, p.UnequipItem(act.InstanceID, act.ItemSlot)

	case protocol.ActCombineItems:
		item, err := p.CombineItems(r.cat, act.ItemIndex1, act.ItemIndex2)
		if err != nil {
			return nil, err
		}
		return item, nil

	case protocol.ActUseConsumable:
		item, err := p.UseConsumable(r.cat, r.rng, act.ItemIndex)
		if err != nil {
			return nil, err
		}
		return item, nil

	case protocol.ActSelectCrestChoice:
		_, err := p.SelectCrestChoice(act.ChoiceIndex)
		return nil, err

	case protocol.ActSelectItemChoice:
		itemID, err := p.SelectItemChoice(act.ChoiceIndex)
		if err != nil {
			return nil, err
		}
		return map[string]any{"itemId": itemID}, nil

	case protocol.ActReplaceCrest:
		return nil, p.ReplaceCrest(act.ReplaceIndex)

	case protocol.ActSelectMinorCrest:
		return nil, r.selectMinorCrestByID(p, act.CrestID)

	case protocol.ActSelectMajorCrest:
		return nil, r.handleSelectMajorCrest(p, act.CrestID)

	case protocol.ActMerchantPick:
		return nil, r.handleMerchantPick(p, act.OptionID)

	default:
		return nil, protocol.ErrUnknownType
	}
}

// selectMinorCrestByID resolves a pending crest choice by crest id rather
// than index.
func (r *Room) selectMinorCrestByID(p *game.Player, crestID string) error {
	if p.PendingCrestChoice == nil {
		return game.ErrNoPendingChoice
	}
	for i, id := range p.PendingCrestChoice {
		if id == crestID {
			_, err := p.SelectCrestChoice(i)
			return err
		}
	}
	return game.ErrInvalidChoice
}

func mergeDetail(merges []game.MergeResult) any {
	last := merges[len(merges)-1]
	return map[string]any{
		"mergedUnit": map[string]any{
			"instanceId": last.Kept.ID,
			"unitId":     last.Kept.TemplateID,
			"starLevel":  last.Kept.Star,
		},
	}
}

func unitView(cat *catalog.Catalog, u *game.UnitInstance) any {
	view := map[string]any{
		"instanceId": u.ID,
		"unitId":     u.TemplateID,
		"starLevel":  u.Star,
	}
	if tmpl, ok := cat.Unit(u.TemplateID); ok {
		view["name"] = tmpl.Name
	}
	return view
}
