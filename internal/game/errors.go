package game

import "errors"

// Sentinel errors whose text is shown to players verbatim.
var (
	ErrNotEnoughGold   = errors.New("Not enough gold")
	ErrBenchFull       = errors.New("Bench is full")
	ErrBoardFull       = errors.New("Board is full")
	ErrInventoryFull   = errors.New("Inventory full")
	ErrAlreadyMaxLevel = errors.New("Already max level")
	ErrUnitNotFound    = errors.New("Unit not found")
	ErrItemNotFound    = errors.New("Item not found")
	ErrLootNotFound    = errors.New("Loot not found")
	ErrInvalidPosition = errors.New("Invalid position")
	ErrShopSlotEmpty   = errors.New("Shop slot is empty")
	ErrNoRecipe        = errors.New("Items cannot be combined")
	ErrNoFreeItemSlot  = errors.New("Unit has no free item slot")
	ErrNotEquippable   = errors.New("Item cannot be equipped")
	ErrNotConsumable   = errors.New("Item cannot be used")
	ErrNoPendingChoice = errors.New("No selection pending")
	ErrChoicePending   = errors.New("Selection already pending")
	ErrInvalidChoice   = errors.New("Invalid selection")
	ErrCrestMaxRank    = errors.New("Crest is already at max rank")
)
