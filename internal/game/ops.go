package game

import (
	"math/rand"

	"github.com/hexbrawl/server/internal/catalog"
)

// BuyUnit purchases the unit in a shop slot onto the bench. The pool copy
// was reserved when the slot was rolled, so no pool mutation happens here.
// Validation failures leave the player untouched.
func (p *Player) BuyUnit(cat *catalog.Catalog, shopIndex int) (*UnitInstance, error) {
	if shopIndex < 0 || shopIndex >= catalog.ShopSize {
		return nil, ErrShopSlotEmpty
	}
	templateID := p.Shop[shopIndex]
	if templateID == "" {
		return nil, ErrShopSlotEmpty
	}
	tmpl, ok := cat.Unit(templateID)
	if !ok {
		return nil, ErrUnitNotFound
	}
	if p.Gold < tmpl.Cost {
		return nil, ErrNotEnoughGold
	}
	slot := p.freeBenchSlot()
	if slot < 0 {
		return nil, ErrBenchFull
	}
	p.Gold -= tmpl.Cost
	p.Shop[shopIndex] = ""
	inst := NewUnitInstance(templateID)
	p.Bench[slot] = inst
	return inst, nil
}

// SellUnit removes a unit from the board or bench, refunds cost × 3^(star−1)
// gold, returns the same number of copies to the pool, and moves its items
// back to the inventory. The sale is rejected when the items would not fit.
func (p *Player) SellUnit(cat *catalog.Catalog, pool *Pool, instanceID string) (int, error) {
	inst, ok := p.FindUnit(instanceID)
	if !ok {
		return 0, ErrUnitNotFound
	}
	tmpl, ok := cat.Unit(inst.TemplateID)
	if !ok {
		return 0, ErrUnitNotFound
	}
	if len(p.Inventory)+len(inst.Items) > catalog.MaxInventory {
		return 0, ErrInventoryFull
	}
	if x, y, onBoard := p.findBoard(instanceID); onBoard {
		p.Board[x][y] = nil
	} else if slot, onBench := p.findBench(instanceID); onBench {
		p.Bench[slot] = nil
	}
	p.Inventory = append(p.Inventory, inst.Items...)
	price := catalog.SellPrice(tmpl.Cost, inst.Star)
	p.Gold += price
	pool.Return(inst.TemplateID, catalog.SellCopies(inst.Star))
	return price, nil
}

// PlaceUnit puts a unit on a board cell. Moving within the board is always
// allowed; placing from the bench onto an occupied cell swaps the two
// units; placing from the bench onto an empty cell requires board capacity
// for the player's level.
func (p *Player) PlaceUnit(instanceID string, x, y int) error {
	if x < 0 || x >= catalog.BoardWidth || y < 0 || y >= catalog.BoardHeight {
		return ErrInvalidPosition
	}
	occupant := p.Board[x][y]

	if fx, fy, onBoard := p.findBoard(instanceID); onBoard {
		if fx == x && fy == y {
			return nil
		}
		moving := p.Board[fx][fy]
		p.Board[fx][fy] = occupant
		p.Board[x][y] = moving
		return nil
	}

	slot, onBench := p.findBench(instanceID)
	if !onBench {
		return ErrUnitNotFound
	}
	moving := p.Bench[slot]
	if occupant != nil {
		p.Bench[slot] = occupant
		p.Board[x][y] = moving
		return nil
	}
	if p.BoardCount() >= catalog.MaxUnits(p.Level) {
		return ErrBoardFull
	}
	p.Bench[slot] = nil
	p.Board[x][y] = moving
	return nil
}

// BenchUnit moves a board unit to the bench. targetSlot < 0 means the first
// free slot; a specified occupied slot swaps the occupant onto the board
// cell the unit came from.
func (p *Player) BenchUnit(instanceID string, targetSlot int) error {
	x, y, onBoard := p.findBoard(instanceID)
	if !onBoard {
		return ErrUnitNotFound
	}
	if targetSlot >= catalog.BenchSize {
		return ErrInvalidPosition
	}
	moving := p.Board[x][y]
	if targetSlot < 0 {
		free := p.freeBenchSlot()
		if free < 0 {
			return ErrBenchFull
		}
		p.Board[x][y] = nil
		p.Bench[free] = moving
		return nil
	}
	occupant := p.Bench[targetSlot]
	p.Board[x][y] = occupant
	p.Bench[targetSlot] = moving
	return nil
}

// MoveBenchUnit rearranges the bench, swapping when the target slot is
// occupied.
func (p *Player) MoveBenchUnit(instanceID string, targetSlot int) error {
	if targetSlot < 0 || targetSlot >= catalog.BenchSize {
		return ErrInvalidPosition
	}
	slot, onBench := p.findBench(instanceID)
	if !onBench {
		return ErrUnitNotFound
	}
	if slot == targetSlot {
		return nil
	}
	p.Bench[slot], p.Bench[targetSlot] = p.Bench[targetSlot], p.Bench[slot]
	return nil
}

// RefreshShop returns unpurchased slots to the pool and rolls four new
// ones, reserving each. Slots stay empty once the pool runs dry.
func (p *Player) RefreshShop(pool *Pool) {
	for i, id := range p.Shop {
		if id != "" {
			pool.Return(id, 1)
			p.Shop[i] = ""
		}
	}
	for i := range p.Shop {
		id, ok := pool.Roll(p.Level)
		if !ok {
			break
		}
		if pool.Take(id) {
			p.Shop[i] = id
		}
	}
}

// Reroll refreshes the shop, consuming a free reroll if one is banked and
// charging gold otherwise.
func (p *Player) Reroll(pool *Pool) error {
	if p.FreeRerolls > 0 {
		p.FreeRerolls--
	} else {
		if p.Gold < catalog.RerollCost {
			return ErrNotEnoughGold
		}
		p.Gold -= catalog.RerollCost
	}
	p.RefreshShop(pool)
	return nil
}

// BuyXP spends gold for a fixed XP grant, applying level-ups.
func (p *Player) BuyXP() error {
	if p.Level >= catalog.MaxLevel {
		return ErrAlreadyMaxLevel
	}
	if p.Gold < catalog.XPPurchaseCost {
		return ErrNotEnoughGold
	}
	p.Gold -= catalog.XPPurchaseCost
	p.AddXP(catalog.XPPurchaseGain)
	return nil
}

// ToggleShopLock flips the lock flag. A locked shop survives the planning
// refresh.
func (p *Player) ToggleShopLock() {
	p.ShopLocked = !p.ShopLocked
}

// EquipItem moves an equippable item from the inventory onto a unit.
func (p *Player) EquipItem(cat *catalog.Catalog, itemIndex int, instanceID string) error {
	if itemIndex < 0 || itemIndex >= len(p.Inventory) {
		return ErrItemNotFound
	}
	item, ok := cat.Item(p.Inventory[itemIndex])
	if !ok {
		return ErrItemNotFound
	}
	if item.Kind == catalog.ItemConsumable {
		return ErrNotEquippable
	}
	inst, ok := p.FindUnit(instanceID)
	if !ok {
		return ErrUnitNotFound
	}
	if len(inst.Items) >= catalog.MaxItemsPerUnit {
		return ErrNoFreeItemSlot
	}
	inst.Items = append(inst.Items, item.ID)
	p.Inventory = append(p.Inventory[:itemIndex], p.Inventory[itemIndex+1:]...)
	return nil
}

// UnequipItem moves the item in a unit's slot back to the inventory.
func (p *Player) UnequipItem(instanceID string, itemSlot int) error {
	inst, ok := p.FindUnit(instanceID)
	if !ok {
		return ErrUnitNotFound
	}
	if itemSlot < 0 || itemSlot >= len(inst.Items) {
		return ErrItemNotFound
	}
	if len(p.Inventory) >= catalog.MaxInventory {
		return ErrInventoryFull
	}
	itemID := inst.Items[itemSlot]
	inst.Items = append(inst.Items[:itemSlot], inst.Items[itemSlot+1:]...)
	p.Inventory = append(p.Inventory, itemID)
	return nil
}

// CombineItems fuses two inventory components by recipe into one combined
// item.
func (p *Player) CombineItems(cat *catalog.Catalog, first, second int) (*catalog.Item, error) {
	if first == second {
		return nil, ErrInvalidChoice
	}
	if first < 0 || first >= len(p.Inventory) || second < 0 || second >= len(p.Inventory) {
		return nil, ErrItemNotFound
	}
	a, okA := cat.Item(p.Inventory[first])
	b, okB := cat.Item(p.Inventory[second])
	if !okA || !okB {
		return nil, ErrItemNotFound
	}
	if a.Kind != catalog.ItemComponent || b.Kind != catalog.ItemComponent {
		return nil, ErrNoRecipe
	}
	combined, ok := cat.CombinedFor(a.ID, b.ID)
	if !ok {
		return nil, ErrNoRecipe
	}
	// Remove the higher index first so the lower one stays valid.
	hi, lo := first, second
	if hi < lo {
		hi, lo = lo, hi
	}
	p.Inventory = append(p.Inventory[:hi], p.Inventory[hi+1:]...)
	p.Inventory = append(p.Inventory[:lo], p.Inventory[lo+1:]...)
	p.Inventory = append(p.Inventory, combined.ID)
	return combined, nil
}

// UseConsumable opens a chest, rolling three distinct options into the
// matching pending selection.
func (p *Player) UseConsumable(cat *catalog.Catalog, rng *rand.Rand, itemIndex int) (*catalog.Item, error) {
	if itemIndex < 0 || itemIndex >= len(p.Inventory) {
		return nil, ErrItemNotFound
	}
	item, ok := cat.Item(p.Inventory[itemIndex])
	if !ok {
		return nil, ErrItemNotFound
	}
	if item.Kind != catalog.ItemConsumable {
		return nil, ErrNotConsumable
	}
	switch item.Effect {
	case catalog.EffectCrestChoice:
		if p.PendingCrestChoice != nil {
			return nil, ErrChoicePending
		}
		p.PendingCrestChoice = rollCrestChoices(cat, rng, 3)
	case catalog.EffectItemChoice:
		if p.PendingItemChoice != nil {
			return nil, ErrChoicePending
		}
		p.PendingItemChoice = rollComponentChoices(cat, rng, 3)
	default:
		return nil, ErrNotConsumable
	}
	p.Inventory = append(p.Inventory[:itemIndex], p.Inventory[itemIndex+1:]...)
	return item, nil
}

// SelectCrestChoice resolves a pending crest selection through the ranking
// rule.
func (p *Player) SelectCrestChoice(choiceIndex int) (CrestOutcome, error) {
	if p.PendingCrestChoice == nil {
		return 0, ErrNoPendingChoice
	}
	if choiceIndex < 0 || choiceIndex >= len(p.PendingCrestChoice) {
		return 0, ErrInvalidChoice
	}
	crestID := p.PendingCrestChoice[choiceIndex]
	p.PendingCrestChoice = nil
	return p.AddMinorCrest(crestID), nil
}

// SelectItemChoice resolves a pending item selection into the inventory.
// The pending choice survives an inventory-full rejection so the player can
// free a slot and retry.
func (p *Player) SelectItemChoice(choiceIndex int) (string, error) {
	if p.PendingItemChoice == nil {
		return "", ErrNoPendingChoice
	}
	if choiceIndex < 0 || choiceIndex >= len(p.PendingItemChoice) {
		return "", ErrInvalidChoice
	}
	if len(p.Inventory) >= catalog.MaxInventory {
		return "", ErrInventoryFull
	}
	itemID := p.PendingItemChoice[choiceIndex]
	p.PendingItemChoice = nil
	p.Inventory = append(p.Inventory, itemID)
	return itemID, nil
}

// ReplaceCrest evicts the minor crest at the given index in favor of the
// crest parked in PendingCrestReplacement.
func (p *Player) ReplaceCrest(replaceIndex int) error {
	if p.PendingCrestReplacement == "" {
		return ErrNoPendingChoice
	}
	if replaceIndex < 0 || replaceIndex >= len(p.MinorCrests) {
		return ErrInvalidChoice
	}
	p.MinorCrests[replaceIndex] = OwnedCrest{CrestID: p.PendingCrestReplacement, Rank: 1}
	p.PendingCrestReplacement = ""
	return nil
}

// LootResult describes what a collected drop granted.
type LootResult struct {
	Drop catalog.LootDrop
	Unit *UnitInstance
	Gold int
}

// CollectLoot resolves a pending drop token. Random item and unit drops are
// rolled at collection time; unit drops reserve a pool copy and fall back
// to cost×2 gold when the bench or pool cannot take them.
func (p *Player) CollectLoot(cat *catalog.Catalog, pool *Pool, rng *rand.Rand, lootID string) (LootResult, error) {
	idx := -1
	for i, t := range p.Loot {
		if t.ID == lootID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return LootResult{}, ErrLootNotFound
	}
	drop := p.Loot[idx].Drop
	res := LootResult{Drop: drop}

	switch drop.Kind {
	case catalog.LootGold:
		p.Gold += drop.Amount
		res.Gold = drop.Amount

	case catalog.LootItem:
		if len(p.Inventory) >= catalog.MaxInventory {
			return LootResult{}, ErrInventoryFull
		}
		itemID := drop.ItemID
		if itemID == "" {
			components := cat.Components()
			itemID = components[rng.Intn(len(components))].ID
		}
		res.Drop.ItemID = itemID
		p.Inventory = append(p.Inventory, itemID)

	case catalog.LootUnit:
		templateID := drop.UnitID
		if templateID == "" {
			rolled, ok := pool.Roll(p.Level)
			if !ok {
				p.Gold += 2
				res.Gold = 2
				break
			}
			templateID = rolled
		}
		res.Drop.UnitID = templateID
		unit, gold := p.GrantUnit(cat, pool, templateID)
		res.Unit = unit
		res.Gold = gold

	default:
		return LootResult{}, ErrLootNotFound
	}

	p.Loot = append(p.Loot[:idx], p.Loot[idx+1:]...)
	return res, nil
}

// GrantUnit reserves a pool copy of a template and benches a fresh
// instance. When the bench is full or the pool has no copy left, the player
// receives cost×2 gold instead; the returned gold is that fallback amount.
func (p *Player) GrantUnit(cat *catalog.Catalog, pool *Pool, templateID string) (*UnitInstance, int) {
	tmpl, ok := cat.Unit(templateID)
	if !ok {
		return nil, 0
	}
	slot := p.freeBenchSlot()
	if slot < 0 || !pool.Take(templateID) {
		fallback := tmpl.Cost * 2
		p.Gold += fallback
		return nil, fallback
	}
	inst := NewUnitInstance(templateID)
	p.Bench[slot] = inst
	return inst, 0
}

// GrantItem appends an item to the inventory, reporting false when it had
// to be dropped for lack of space.
func (p *Player) GrantItem(itemID string) bool {
	if len(p.Inventory) >= catalog.MaxInventory {
		return false
	}
	p.Inventory = append(p.Inventory, itemID)
	return true
}

// ReturnAllToPool gives every copy the player holds back to the pool: shop
// reservations, bench and board stacks at 3^(star−1) copies each. Used when
// a player leaves mid-game.
func (p *Player) ReturnAllToPool(pool *Pool) {
	for i, id := range p.Shop {
		if id != "" {
			pool.Return(id, 1)
			p.Shop[i] = ""
		}
	}
	for x := 0; x < catalog.BoardWidth; x++ {
		for y := 0; y < catalog.BoardHeight; y++ {
			if u := p.Board[x][y]; u != nil {
				pool.Return(u.TemplateID, catalog.SellCopies(u.Star))
				p.Board[x][y] = nil
			}
		}
	}
	for i, u := range p.Bench {
		if u != nil {
			pool.Return(u.TemplateID, catalog.SellCopies(u.Star))
			p.Bench[i] = nil
		}
	}
}

func rollCrestChoices(cat *catalog.Catalog, rng *rand.Rand, n int) []string {
	minors := cat.MinorCrests()
	perm := rng.Perm(len(minors))
	if n > len(minors) {
		n = len(minors)
	}
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, minors[i].ID)
	}
	return out
}

func rollComponentChoices(cat *catalog.Catalog, rng *rand.Rand, n int) []string {
	components := cat.Components()
	perm := rng.Perm(len(components))
	if n > len(components) {
		n = len(components)
	}
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, components[i].ID)
	}
	return out
}
