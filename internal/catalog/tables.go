package catalog

// RoundType categorizes a round in the schedule.
type RoundType string

const (
	RoundPvP        RoundType = "pvp"
	RoundPvEIntro   RoundType = "pve_intro"
	RoundPvELoot    RoundType = "pve_loot"
	RoundPvEBoss    RoundType = "pve_boss"
	RoundMerchant   RoundType = "mad_merchant"
	RoundMajorCrest RoundType = "major_crest"
)

// Board and roster limits.
const (
	BoardWidth      = 5
	BoardHeight     = 4
	BenchSize       = 7
	ShopSize        = 4
	MaxInventory    = 10
	MaxItemsPerUnit = 3
	MaxMinorCrests  = 3
	MaxCrestRank    = 3
	MaxPlayers      = 4
	MaxLevel        = 6
)

// Economy constants.
const (
	StartingGold   = 5
	StartingHealth = 20
	BaseIncome     = 5
	InterestCap    = 3
	StreakMin      = 2
	StreakBonusCap = 5
	RerollCost     = 2
	XPPurchaseCost = 4
	XPPurchaseGain = 4
)

// RoundCap ends a game that is still running at this round; the healthiest
// player wins.
const RoundCap = 30

// roundSchedule fixes the type of rounds 1..14. Later rounds are pvp.
var roundSchedule = []RoundType{
	RoundPvEIntro,   // 1
	RoundPvP,        // 2
	RoundPvP,        // 3
	RoundMerchant,   // 4
	RoundPvP,        // 5
	RoundMajorCrest, // 6
	RoundPvP,        // 7
	RoundPvELoot,    // 8
	RoundPvP,        // 9
	RoundMerchant,   // 10
	RoundPvP,        // 11
	RoundPvEBoss,    // 12
	RoundPvP,        // 13
	RoundPvP,        // 14
}

// RoundTypeAt returns the scheduled type of a 1-based round number.
func RoundTypeAt(round int) RoundType {
	if round < 1 {
		return RoundPvP
	}
	if round <= len(roundSchedule) {
		return roundSchedule[round-1]
	}
	return RoundPvP
}

// shopOdds maps player level to the percent chance of each cost tier 1..5
// filling a shop slot. Rows sum to 100.
var shopOdds = map[int][5]int{
	1: {100, 0, 0, 0, 0},
	2: {80, 20, 0, 0, 0},
	3: {60, 30, 10, 0, 0},
	4: {35, 30, 25, 10, 0},
	5: {20, 25, 25, 25, 5},
	6: {10, 15, 25, 25, 25},
}

// ShopOdds returns the tier distribution row for a player level. Levels
// outside 1..MaxLevel clamp to the nearest row.
func ShopOdds(level int) [5]int {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return shopOdds[level]
}

// poolSizes is the number of copies of each template in the shared pool,
// by cost tier.
var poolSizes = map[int]int{
	1: 24,
	2: 18,
	3: 14,
	4: 10,
	5: 8,
}

// PoolSize returns the per-template copy count for a cost tier.
func PoolSize(tier int) int {
	return poolSizes[tier]
}

// starMultipliers scales template base stats by star level.
var starMultipliers = map[int]float64{
	1: 1.0,
	2: 1.5,
	3: 2.0,
}

// StarMultiplier returns the stat multiplier for a star level 1..3.
func StarMultiplier(star int) float64 {
	if m, ok := starMultipliers[star]; ok {
		return m
	}
	return 1.0
}

// crestRankMultipliers scales a minor crest's bonus by its rank.
var crestRankMultipliers = map[int]float64{
	1: 1.0,
	2: 1.5,
	3: 2.0,
}

// CrestRankMultiplier returns the bonus multiplier for a minor-crest rank.
func CrestRankMultiplier(rank int) float64 {
	if m, ok := crestRankMultipliers[rank]; ok {
		return m
	}
	return 1.0
}

// SellCopies returns how many pool copies a star-s unit represents.
func SellCopies(star int) int {
	n := 1
	for i := 1; i < star; i++ {
		n *= 3
	}
	return n
}

// SellPrice returns the gold refunded for selling a unit: cost × 3^(star−1).
func SellPrice(cost, star int) int {
	return cost * SellCopies(star)
}

// xpThresholds is the cumulative XP needed to reach each level.
var xpThresholds = map[int]int{
	2: 2,
	3: 6,
	4: 12,
	5: 20,
	6: 32,
}

// XPForLevel returns the cumulative XP threshold to reach a level. Returns
// false for levels with no threshold (1, or above MaxLevel).
func XPForLevel(level int) (int, bool) {
	xp, ok := xpThresholds[level]
	return xp, ok
}

// MaxUnits returns how many units a player of the given level may field.
func MaxUnits(level int) int {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return level + 1
}
