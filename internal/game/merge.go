package game

import "github.com/hexbrawl/server/internal/catalog"

// MergeResult records one star-up: the surviving instance and the ids of
// the copies folded into it.
type MergeResult struct {
	Kept    *UnitInstance
	Removed []string
}

// MergeFrom runs the merge check for a newly introduced unit. All other
// instances with the same template and star are folded into one kept copy,
// which stars up; the check then recurses at the new star level. The kept
// copy is a board-resident duplicate when one exists, otherwise the
// introduced unit if it sits on the board, otherwise the first duplicate
// found. Items from consumed copies move to the kept unit's free slots,
// overflow to the inventory, and are dropped past the inventory cap.
func (p *Player) MergeFrom(introduced *UnitInstance) []MergeResult {
	var results []MergeResult
	current := introduced
	for current != nil && current.Star < 3 {
		others := p.duplicatesOf(current)
		if len(others) == 0 {
			break
		}
		kept := p.pickKept(current, others)

		var removedIDs []string
		for _, dup := range append(others, current) {
			if dup == kept {
				continue
			}
			p.removeInstance(dup.ID)
			p.transferItems(kept, dup.Items)
			removedIDs = append(removedIDs, dup.ID)
		}
		kept.Star++
		results = append(results, MergeResult{Kept: kept, Removed: removedIDs})
		current = kept
	}
	return results
}

// MergeSweep runs merge checks over the whole bench and board until a full
// pass produces no change. This resolves copies accumulated while merging
// was deferred, such as units bought during combat.
func (p *Player) MergeSweep() []MergeResult {
	var results []MergeResult
	for {
		merged := false
		for _, u := range p.AllUnits() {
			if res := p.MergeFrom(u); len(res) > 0 {
				results = append(results, res...)
				merged = true
				break
			}
		}
		if !merged {
			return results
		}
	}
}

// duplicatesOf collects every other instance with the same template and
// star, board first in scan order, then bench.
func (p *Player) duplicatesOf(u *UnitInstance) []*UnitInstance {
	var dups []*UnitInstance
	for _, other := range p.AllUnits() {
		if other.ID != u.ID && other.TemplateID == u.TemplateID && other.Star == u.Star {
			dups = append(dups, other)
		}
	}
	return dups
}

// pickKept chooses which copy survives a merge.
func (p *Player) pickKept(introduced *UnitInstance, others []*UnitInstance) *UnitInstance {
	for _, dup := range others {
		if _, _, onBoard := p.findBoard(dup.ID); onBoard {
			return dup
		}
	}
	if _, _, onBoard := p.findBoard(introduced.ID); onBoard {
		return introduced
	}
	return others[0]
}

// removeInstance clears a unit from wherever it sits.
func (p *Player) removeInstance(instanceID string) {
	if x, y, ok := p.findBoard(instanceID); ok {
		p.Board[x][y] = nil
		return
	}
	if slot, ok := p.findBench(instanceID); ok {
		p.Bench[slot] = nil
	}
}

// transferItems moves items onto a unit's free slots, overflowing to the
// inventory and dropping anything past its cap.
func (p *Player) transferItems(dst *UnitInstance, items []string) {
	for _, itemID := range items {
		if len(dst.Items) < catalog.MaxItemsPerUnit {
			dst.Items = append(dst.Items, itemID)
		} else if len(p.Inventory) < catalog.MaxInventory {
			p.Inventory = append(p.Inventory, itemID)
		}
	}
}
