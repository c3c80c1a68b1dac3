package game

import (
	"math/rand"

	"github.com/hexbrawl/server/internal/catalog"
)

// Pool is the shared multiset of unit copies for one game. Every copy shown
// in a shop, sitting on a bench or board, or folded into a higher star is
// accounted against it. The pool is owned by the room goroutine and needs
// no locking.
type Pool struct {
	cat    *catalog.Catalog
	counts map[string]int
	caps   map[string]int
	byTier map[int][]string
	rng    *rand.Rand
}

// NewPool fills the pool to the configured per-tier size for every player
// unit template.
func NewPool(cat *catalog.Catalog, rng *rand.Rand) *Pool {
	p := &Pool{
		cat:    cat,
		counts: make(map[string]int),
		caps:   make(map[string]int),
		byTier: make(map[int][]string),
		rng:    rng,
	}
	for tier := 1; tier <= 5; tier++ {
		size := catalog.PoolSize(tier)
		for _, u := range cat.UnitsOfCost(tier) {
			p.counts[u.ID] = size
			p.caps[u.ID] = size
			p.byTier[tier] = append(p.byTier[tier], u.ID)
		}
	}
	return p
}

// Count returns the copies of a template still in the pool.
func (p *Pool) Count(id string) int {
	return p.counts[id]
}

// Cap returns the configured pool size for a template.
func (p *Pool) Cap(id string) int {
	return p.caps[id]
}

// Take reserves one copy. It reports false when none are left; the pool is
// unchanged in that case.
func (p *Pool) Take(id string) bool {
	if p.counts[id] <= 0 {
		return false
	}
	p.counts[id]--
	return true
}

// Return puts n copies back, saturating at the configured pool size.
func (p *Pool) Return(id string, n int) {
	limit, ok := p.caps[id]
	if !ok || n <= 0 {
		return
	}
	p.counts[id] += n
	if p.counts[id] > limit {
		p.counts[id] = limit
	}
}

// Roll picks a template for a shop slot at the given player level. It
// samples a cost tier from the level's odds row, then uniformly among
// templates with copies left at that tier, falling back through tiers 1..5
// when the rolled tier is empty. Roll never removes a copy; callers must
// Take to reserve. The second return is false only when the pool is
// completely empty.
func (p *Pool) Roll(level int) (string, bool) {
	odds := catalog.ShopOdds(level)
	roll := p.rng.Intn(100)
	tier := 5
	acc := 0
	for i, pct := range odds {
		acc += pct
		if roll < acc {
			tier = i + 1
			break
		}
	}
	if id, ok := p.rollAtTier(tier); ok {
		return id, true
	}
	for t := 1; t <= 5; t++ {
		if t == tier {
			continue
		}
		if id, ok := p.rollAtTier(t); ok {
			return id, true
		}
	}
	return "", false
}

func (p *Pool) rollAtTier(tier int) (string, bool) {
	available := make([]string, 0, len(p.byTier[tier]))
	for _, id := range p.byTier[tier] {
		if p.counts[id] > 0 {
			available = append(available, id)
		}
	}
	if len(available) == 0 {
		return "", false
	}
	return available[p.rng.Intn(len(available))], true
}

// TotalHeld sums every copy currently outside the pool. Used by
// conservation checks.
func (p *Pool) TotalHeld() int {
	held := 0
	for id, limit := range p.caps {
		held += limit - p.counts[id]
	}
	return held
}
