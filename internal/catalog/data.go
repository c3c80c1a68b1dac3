package catalog

import "sort"

func buildDefault() *Catalog {
	c := &Catalog{
		units:       make(map[string]*UnitTemplate, 24),
		traits:      make(map[string]*Trait, 12),
		items:       make(map[string]*Item, 20),
		crests:      make(map[string]*Crest, 12),
		unitsByCost: make(map[int][]*UnitTemplate, 6),
		recipes:     make(map[[2]string]*Item, 12),
		pveBoards:   make(map[RoundType][]PvESpawn, 3),
	}

	unit := func(u UnitTemplate) {
		c.units[u.ID] = &u
	}
	trait := func(t Trait) {
		c.traits[t.ID] = &t
	}
	item := func(it Item) {
		c.items[it.ID] = &it
	}
	crest := func(cr Crest) {
		c.crests[cr.ID] = &cr
	}

	// =========================================================================
	// Player units: 16 templates across cost tiers 1-5
	// =========================================================================

	// --- Tier 1 ---
	unit(UnitTemplate{
		ID: "footman", Name: "Footman", Cost: 1,
		Traits: []string{"ironclad", "warband"}, Affinity: Physical,
		Base: Stats{Health: 600, Attack: 55, Armor: 25, MagicResist: 15, AttackSpeed: 0.7, Range: 1, ManaCap: 80, MoveSpeed: 1.4, CritChance: 0.1, CritDamage: 1.5},
	})
	unit(UnitTemplate{
		ID: "ember_acolyte", Name: "Ember Acolyte", Cost: 1,
		Traits: []string{"arcanist", "attuned"}, Affinity: Fire,
		Base:    Stats{Health: 450, Attack: 40, AbilityPower: 20, Armor: 10, MagicResist: 20, AttackSpeed: 0.65, Range: 3, ManaCap: 60, MoveSpeed: 1.2, CritChance: 0.05, CritDamage: 1.5},
		Ability: &Ability{Name: "Cinder Burst", DamageMult: 2.6, CastSeconds: 0.8},
	})
	unit(UnitTemplate{
		ID: "thicket_archer", Name: "Thicket Archer", Cost: 1,
		Traits: []string{"deadeye", "wildheart"}, Affinity: Physical,
		Base: Stats{Health: 480, Attack: 50, Armor: 12, MagicResist: 12, AttackSpeed: 0.8, Range: 4, ManaCap: 90, MoveSpeed: 1.3, CritChance: 0.2, CritDamage: 1.6},
	})
	unit(UnitTemplate{
		ID: "frost_whelp", Name: "Frost Whelp", Cost: 1,
		Traits: []string{"swiftblade", "attuned"}, Affinity: Frost,
		Base: Stats{Health: 560, Attack: 48, AbilityPower: 10, Armor: 18, MagicResist: 22, AttackSpeed: 0.85, Range: 1, ManaCap: 70, MoveSpeed: 1.6, CritChance: 0.1, CritDamage: 1.5},
	})

	// --- Tier 2 ---
	unit(UnitTemplate{
		ID: "shield_bearer", Name: "Shield Bearer", Cost: 2,
		Traits: []string{"ironclad", "bulwark"}, Affinity: Physical,
		Base: Stats{Health: 850, Attack: 58, Armor: 45, MagicResist: 25, AttackSpeed: 0.6, Range: 1, ManaCap: 90, MoveSpeed: 1.2, CritChance: 0.05, CritDamage: 1.5},
	})
	unit(UnitTemplate{
		ID: "storm_caller", Name: "Storm Caller", Cost: 2,
		Traits: []string{"arcanist", "attuned"}, Affinity: Storm,
		Base:    Stats{Health: 520, Attack: 45, AbilityPower: 35, Armor: 12, MagicResist: 28, AttackSpeed: 0.7, Range: 3, ManaCap: 70, MoveSpeed: 1.2, CritChance: 0.05, CritDamage: 1.5},
		Ability: &Ability{Name: "Chain Spark", DamageMult: 2.4, CastSeconds: 0.8},
	})
	unit(UnitTemplate{
		ID: "duelist", Name: "Duelist", Cost: 2,
		Traits: []string{"swiftblade", "deadeye"}, Affinity: Physical,
		Base: Stats{Health: 620, Attack: 65, Armor: 20, MagicResist: 18, AttackSpeed: 1.0, Range: 1, ManaCap: 100, MoveSpeed: 1.7, CritChance: 0.25, CritDamage: 1.6},
	})
	unit(UnitTemplate{
		ID: "briar_druid", Name: "Briar Druid", Cost: 2,
		Traits: []string{"arcanist", "wildheart"}, Affinity: Venom,
		Base: Stats{Health: 680, Attack: 50, AbilityPower: 30, Armor: 18, MagicResist: 30, AttackSpeed: 0.65, Range: 2, ManaCap: 80, MoveSpeed: 1.3, CritChance: 0.05, CritDamage: 1.5},
	})

	// --- Tier 3 ---
	unit(UnitTemplate{
		ID: "venom_stalker", Name: "Venom Stalker", Cost: 3,
		Traits: []string{"swiftblade", "attuned"}, Affinity: Venom,
		Base: Stats{Health: 720, Attack: 78, AbilityPower: 15, Armor: 22, MagicResist: 25, AttackSpeed: 1.1, Range: 1, ManaCap: 90, MoveSpeed: 1.9, CritChance: 0.2, CritDamage: 1.7},
	})
	unit(UnitTemplate{
		ID: "longbow_captain", Name: "Longbow Captain", Cost: 3,
		Traits: []string{"deadeye", "warband"}, Affinity: Physical,
		Base:    Stats{Health: 640, Attack: 85, Armor: 15, MagicResist: 15, AttackSpeed: 0.75, Range: 5, ManaCap: 110, MoveSpeed: 1.2, CritChance: 0.25, CritDamage: 1.8},
		Ability: &Ability{Name: "Piercing Volley", DamageMult: 2.8, CastSeconds: 0.9},
	})
	unit(UnitTemplate{
		ID: "rune_knight", Name: "Rune Knight", Cost: 3,
		Traits: []string{"ironclad", "arcanist"}, Affinity: Magic,
		Base: Stats{Health: 950, Attack: 70, AbilityPower: 40, Armor: 40, MagicResist: 40, AttackSpeed: 0.65, Range: 1, ManaCap: 100, MoveSpeed: 1.3, CritChance: 0.05, CritDamage: 1.5},
	})

	// --- Tier 4 ---
	unit(UnitTemplate{
		ID: "frost_matriarch", Name: "Frost Matriarch", Cost: 4,
		Traits: []string{"arcanist", "attuned"}, Affinity: Frost,
		Base:    Stats{Health: 820, Attack: 60, AbilityPower: 70, Armor: 25, MagicResist: 45, AttackSpeed: 0.7, Range: 3, ManaCap: 90, MoveSpeed: 1.2, CritChance: 0.05, CritDamage: 1.5},
		Ability: &Ability{Name: "Glacial Prison", DamageMult: 3.2, CastSeconds: 1.2},
	})
	unit(UnitTemplate{
		ID: "warlord", Name: "Warlord", Cost: 4,
		Traits: []string{"ironclad", "warband"}, Affinity: Physical,
		Base:    Stats{Health: 1200, Attack: 95, Armor: 50, MagicResist: 35, AttackSpeed: 0.7, Range: 1, ManaCap: 120, MoveSpeed: 1.4, CritChance: 0.15, CritDamage: 1.6},
		Blessed: &Bonus{Attack: 5},
	})
	unit(UnitTemplate{
		ID: "shadow_dancer", Name: "Shadow Dancer", Cost: 4,
		Traits: []string{"swiftblade", "deadeye"}, Affinity: Physical,
		Base: Stats{Health: 780, Attack: 90, Armor: 25, MagicResist: 25, AttackSpeed: 1.25, Range: 1, ManaCap: 100, MoveSpeed: 2.2, CritChance: 0.35, CritDamage: 1.9},
	})

	// --- Tier 5 ---
	unit(UnitTemplate{
		ID: "ancient_colossus", Name: "Ancient Colossus", Cost: 5,
		Traits: []string{"ancient", "bulwark"}, Affinity: Physical,
		Base:    Stats{Health: 2000, Attack: 110, Armor: 70, MagicResist: 55, AttackSpeed: 0.55, Range: 1, ManaCap: 140, MoveSpeed: 1.1, CritChance: 0.05, CritDamage: 1.5},
		Blessed: &Bonus{Health: 40},
		Ability: &Ability{Name: "Earthshatter", DamageMult: 3.5, CastSeconds: 1.4},
	})
	unit(UnitTemplate{
		ID: "storm_sovereign", Name: "Storm Sovereign", Cost: 5,
		Traits: []string{"arcanist", "attuned", "warband"}, Affinity: Storm,
		Base:    Stats{Health: 1100, Attack: 90, AbilityPower: 100, Armor: 35, MagicResist: 50, AttackSpeed: 0.8, Range: 4, ManaCap: 100, MoveSpeed: 1.3, CritChance: 0.15, CritDamage: 1.7},
		Ability: &Ability{Name: "Tempest", DamageMult: 3.4, CastSeconds: 1.1},
	})

	// =========================================================================
	// PvE units (cost 0, never pooled)
	// =========================================================================

	unit(UnitTemplate{
		ID: "training_dummy", Name: "Training Dummy", Cost: 0, Affinity: Physical,
		Base: Stats{Health: 250, Attack: 5, AttackSpeed: 0.5, Range: 1, ManaCap: 200, MoveSpeed: 0.8, CritDamage: 1.5},
	})
	unit(UnitTemplate{
		ID: "wild_boar", Name: "Wild Boar", Cost: 0, Affinity: Physical,
		Base: Stats{Health: 320, Attack: 22, Armor: 5, MagicResist: 5, AttackSpeed: 0.6, Range: 1, ManaCap: 120, MoveSpeed: 1.5, CritDamage: 1.5},
	})
	unit(UnitTemplate{
		ID: "loot_sprite", Name: "Loot Sprite", Cost: 0, Affinity: Magic,
		Base: Stats{Health: 440, Attack: 28, Armor: 10, MagicResist: 20, AttackSpeed: 0.7, Range: 1, ManaCap: 150, MoveSpeed: 1.8, CritDamage: 1.5},
	})
	unit(UnitTemplate{
		ID: "ogre_grunt", Name: "Ogre Grunt", Cost: 0, Affinity: Physical,
		Base: Stats{Health: 800, Attack: 65, Armor: 25, MagicResist: 15, AttackSpeed: 0.65, Range: 1, ManaCap: 120, MoveSpeed: 1.3, CritChance: 0.1, CritDamage: 1.5},
	})
	unit(UnitTemplate{
		ID: "ogre_warboss", Name: "Ogre Warboss", Cost: 0, Affinity: Physical,
		Base:    Stats{Health: 2600, Attack: 130, Armor: 45, MagicResist: 35, AttackSpeed: 0.6, Range: 1, ManaCap: 80, MoveSpeed: 1.1, CritChance: 0.15, CritDamage: 1.6},
		Ability: &Ability{Name: "Skullcrack", DamageMult: 4.0, CastSeconds: 1.5},
	})

	// =========================================================================
	// Traits
	// =========================================================================

	trait(Trait{
		ID: "ironclad", Name: "Ironclad",
		Units: []string{"footman", "shield_bearer", "rune_knight", "warlord"},
		Tiers: []TraitTier{
			{Count: 2, Unit: Bonus{Armor: 10}},
			{Count: 4, Unit: Bonus{Armor: 25, MagicResist: 10}},
		},
	})
	trait(Trait{
		ID: "swiftblade", Name: "Swiftblade",
		Units: []string{"frost_whelp", "duelist", "venom_stalker", "shadow_dancer"},
		Tiers: []TraitTier{
			{Count: 2, Unit: Bonus{AttackSpeedPct: 15}},
			{Count: 4, Unit: Bonus{AttackSpeedPct: 35}},
		},
	})
	trait(Trait{
		ID: "arcanist", Name: "Arcanist",
		Units: []string{"ember_acolyte", "storm_caller", "briar_druid", "rune_knight", "frost_matriarch", "storm_sovereign"},
		Tiers: []TraitTier{
			{Count: 2, Unit: Bonus{AbilityPower: 15}},
			{Count: 4, Unit: Bonus{AbilityPower: 40}},
		},
	})
	trait(Trait{
		ID: "deadeye", Name: "Deadeye",
		Units: []string{"thicket_archer", "duelist", "longbow_captain", "shadow_dancer"},
		Tiers: []TraitTier{
			{Count: 2, Unit: Bonus{CritChance: 0.1}},
			{Count: 3, Unit: Bonus{CritChance: 0.25, CritDamage: 0.5}},
		},
	})
	trait(Trait{
		ID: "warband", Name: "Warband",
		Units: []string{"footman", "longbow_captain", "warlord", "storm_sovereign"},
		Tiers: []TraitTier{
			{Count: 2, Team: Bonus{Attack: 8}},
			{Count: 4, Team: Bonus{Attack: 20}},
		},
	})
	trait(Trait{
		ID: "wildheart", Name: "Wildheart",
		Units: []string{"thicket_archer", "briar_druid"},
		Tiers: []TraitTier{
			{Count: 2, Team: Bonus{Health: 90}},
		},
	})
	trait(Trait{
		ID: "bulwark", Name: "Bulwark",
		Units: []string{"shield_bearer", "ancient_colossus"},
		Tiers: []TraitTier{
			{Count: 2, Team: Bonus{Armor: 12, MagicResist: 8}},
		},
	})
	// Attuned bonuses apply only to carriers matching the element rolled at
	// game start; every carrier's damage converts to that element.
	trait(Trait{
		ID: "attuned", Name: "Attuned",
		Units: []string{"ember_acolyte", "frost_whelp", "storm_caller", "venom_stalker", "frost_matriarch", "storm_sovereign"},
		Tiers: []TraitTier{
			{Count: 2, Unit: Bonus{Attack: 5, AbilityPower: 10}},
			{Count: 4, Unit: Bonus{Attack: 12, AbilityPower: 25}},
		},
	})
	trait(Trait{
		ID: "ancient", Name: "Ancient", Unique: true,
		Units: []string{"ancient_colossus"},
		Tiers: []TraitTier{
			{Count: 1, Team: Bonus{Health: 60, Armor: 5}},
		},
	})

	// =========================================================================
	// Items
	// =========================================================================

	// --- Components ---
	item(Item{ID: "sharpened_blade", Name: "Sharpened Blade", Kind: ItemComponent, Bonus: Bonus{Attack: 12}})
	item(Item{ID: "oak_shield", Name: "Oak Shield", Kind: ItemComponent, Bonus: Bonus{Armor: 12}})
	item(Item{ID: "mystic_orb", Name: "Mystic Orb", Kind: ItemComponent, Bonus: Bonus{AbilityPower: 12}})
	item(Item{ID: "swift_feather", Name: "Swift Feather", Kind: ItemComponent, Bonus: Bonus{AttackSpeedPct: 12}})
	item(Item{ID: "troll_charm", Name: "Troll Charm", Kind: ItemComponent, Bonus: Bonus{Health: 120}})
	item(Item{ID: "silver_veil", Name: "Silver Veil", Kind: ItemComponent, Bonus: Bonus{MagicResist: 12}})

	// --- Combined ---
	item(Item{ID: "greatsword", Name: "Greatsword", Kind: ItemCombined, Recipe: []string{"sharpened_blade", "sharpened_blade"}, Bonus: Bonus{Attack: 30}})
	item(Item{ID: "windblade", Name: "Windblade", Kind: ItemCombined, Recipe: []string{"sharpened_blade", "swift_feather"}, Bonus: Bonus{Attack: 15, AttackSpeedPct: 18}})
	item(Item{ID: "spellblade", Name: "Spellblade", Kind: ItemCombined, Recipe: []string{"sharpened_blade", "mystic_orb"}, Bonus: Bonus{Attack: 15, AbilityPower: 15}})
	item(Item{ID: "spellbreaker", Name: "Spellbreaker", Kind: ItemCombined, Recipe: []string{"sharpened_blade", "silver_veil"}, Bonus: Bonus{Attack: 15, MagicResist: 15}})
	item(Item{ID: "bulwark_plate", Name: "Bulwark Plate", Kind: ItemCombined, Recipe: []string{"oak_shield", "oak_shield"}, Bonus: Bonus{Armor: 30}})
	item(Item{ID: "heartguard", Name: "Heartguard", Kind: ItemCombined, Recipe: []string{"oak_shield", "troll_charm"}, Bonus: Bonus{Health: 120, Armor: 12}})
	item(Item{ID: "archmage_focus", Name: "Archmage Focus", Kind: ItemCombined, Recipe: []string{"mystic_orb", "mystic_orb"}, Bonus: Bonus{AbilityPower: 30}})
	item(Item{ID: "nullstone", Name: "Nullstone", Kind: ItemCombined, Recipe: []string{"mystic_orb", "silver_veil"}, Bonus: Bonus{AbilityPower: 15, MagicResist: 15}})
	item(Item{ID: "zephyr_crown", Name: "Zephyr Crown", Kind: ItemCombined, Recipe: []string{"swift_feather", "swift_feather"}, Bonus: Bonus{AttackSpeedPct: 30}})
	item(Item{ID: "wardens_oath", Name: "Warden's Oath", Kind: ItemCombined, Recipe: []string{"troll_charm", "silver_veil"}, Bonus: Bonus{Health: 120, MagicResist: 12}})

	// --- Consumables ---
	item(Item{ID: "small_crest_chest", Name: "Small Crest Chest", Kind: ItemConsumable, Effect: EffectCrestChoice})
	item(Item{ID: "small_item_chest", Name: "Small Item Chest", Kind: ItemConsumable, Effect: EffectItemChoice})

	// =========================================================================
	// Crests
	// =========================================================================

	// --- Minor ---
	crest(Crest{ID: "crest_of_fury", Name: "Crest of Fury", Bonus: Bonus{Attack: 8}})
	crest(Crest{ID: "crest_of_stone", Name: "Crest of Stone", Bonus: Bonus{Armor: 10}})
	crest(Crest{ID: "crest_of_vigor", Name: "Crest of Vigor", Bonus: Bonus{Health: 80}})
	crest(Crest{ID: "crest_of_focus", Name: "Crest of Focus", Bonus: Bonus{AbilityPower: 10}})
	crest(Crest{ID: "crest_of_haste", Name: "Crest of Haste", Bonus: Bonus{AttackSpeedPct: 8}})
	crest(Crest{ID: "crest_of_warding", Name: "Crest of Warding", Bonus: Bonus{MagicResist: 10}})

	// --- Major ---
	crest(Crest{ID: "warbringer_sigil", Name: "Warbringer Sigil", Major: true, Bonus: Bonus{Attack: 20, AttackSpeedPct: 10}})
	crest(Crest{ID: "colossus_sigil", Name: "Colossus Sigil", Major: true, Bonus: Bonus{Health: 200, Armor: 15}})
	crest(Crest{ID: "archon_sigil", Name: "Archon Sigil", Major: true, Bonus: Bonus{AbilityPower: 25, MagicResist: 15}})
	crest(Crest{ID: "tempest_sigil", Name: "Tempest Sigil", Major: true, Bonus: Bonus{AttackSpeedPct: 15, CritChance: 0.1, CritDamage: 0.2}})

	// =========================================================================
	// PvE boards (local coordinates; y 3 is the front rank after mirroring)
	// =========================================================================

	c.pveBoards[RoundPvEIntro] = []PvESpawn{
		{UnitID: "training_dummy", X: 1, Y: 3, Loot: &LootDrop{Kind: LootGold, Amount: 1}},
		{UnitID: "training_dummy", X: 3, Y: 3, Loot: &LootDrop{Kind: LootGold, Amount: 1}},
		{UnitID: "wild_boar", X: 2, Y: 2, Loot: &LootDrop{Kind: LootGold, Amount: 2}},
	}
	c.pveBoards[RoundPvELoot] = []PvESpawn{
		{UnitID: "loot_sprite", X: 0, Y: 3, Loot: &LootDrop{Kind: LootGold, Amount: 3}},
		{UnitID: "loot_sprite", X: 2, Y: 3, Loot: &LootDrop{Kind: LootItem}},
		{UnitID: "loot_sprite", X: 4, Y: 3, Loot: &LootDrop{Kind: LootGold, Amount: 2}},
		{UnitID: "loot_sprite", X: 2, Y: 1, Loot: &LootDrop{Kind: LootUnit}},
	}
	c.pveBoards[RoundPvEBoss] = []PvESpawn{
		{UnitID: "ogre_warboss", X: 2, Y: 2, Loot: &LootDrop{Kind: LootItem}},
		{UnitID: "ogre_grunt", X: 1, Y: 3, Loot: &LootDrop{Kind: LootGold, Amount: 2}},
		{UnitID: "ogre_grunt", X: 3, Y: 3, Loot: &LootDrop{Kind: LootGold, Amount: 2}},
	}

	c.buildIndexes()
	return c
}

// buildIndexes derives the sorted lookup slices and the recipe map.
func (c *Catalog) buildIndexes() {
	for _, id := range sortedKeys(c.units) {
		u := c.units[id]
		if u.Cost >= 1 {
			c.unitsByCost[u.Cost] = append(c.unitsByCost[u.Cost], u)
		}
	}
	for cost := range c.unitsByCost {
		sort.Slice(c.unitsByCost[cost], func(i, j int) bool {
			return c.unitsByCost[cost][i].ID < c.unitsByCost[cost][j].ID
		})
	}
	for _, id := range sortedKeys(c.items) {
		it := c.items[id]
		switch it.Kind {
		case ItemComponent:
			c.components = append(c.components, it)
		case ItemCombined:
			c.recipes[recipeKey(it.Recipe[0], it.Recipe[1])] = it
			c.merchant = append(c.merchant, it)
		case ItemConsumable:
			c.merchant = append(c.merchant, it)
		}
	}
	for _, id := range sortedKeys(c.crests) {
		cr := c.crests[id]
		if cr.Major {
			c.major = append(c.major, cr)
		} else {
			c.minor = append(c.minor, cr)
		}
	}
}
