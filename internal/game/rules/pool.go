package rules

// Weighted is one entry of a weighted pool.
type Weighted[T any] struct {
	Item   T
	Weight int
}

// WeightedPool draws items with probability proportional to their weight.
type WeightedPool[T any] struct {
	entries []Weighted[T]
	total   int
}

// NewWeightedPool builds a pool, skipping entries with non-positive weight.
func NewWeightedPool[T any](entries ...Weighted[T]) *WeightedPool[T] {
	pool := &WeightedPool[T]{}
	for _, entry := range entries {
		if entry.Weight <= 0 {
			continue
		}
		pool.entries = append(pool.entries, entry)
		pool.total += entry.Weight
	}
	return pool
}

// Total returns the summed weight of the pool.
func (p *WeightedPool[T]) Total() int {
	return p.total
}

// Draw picks one item. ok is false for an empty pool.
func (p *WeightedPool[T]) Draw(src Source) (item T, ok bool) {
	if p.total == 0 {
		return item, false
	}
	roll := src.IntN(p.total)
	for _, entry := range p.entries {
		if roll < entry.Weight {
			return entry.Item, true
		}
		roll -= entry.Weight
	}
	// unreachable while IntN honours its range
	return p.entries[len(p.entries)-1].Item, true
}
