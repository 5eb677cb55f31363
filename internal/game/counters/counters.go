package counters

import "sort"

// Counters is the set of counters on a single card, keyed by kind.
// A nil Counters behaves as empty for reads.
type Counters map[Kind]int

// New creates an empty counter set.
func New() Counters {
	return make(Counters)
}

// Add places amount counters of the given kind. Non-positive amounts are ignored.
func (c Counters) Add(kind Kind, amount int) {
	if amount <= 0 || kind == Any {
		return
	}
	c[kind] += amount
}

// Remove takes up to amount counters of the given kind and returns how many
// were actually removed. Counts never go below zero.
func (c Counters) Remove(kind Kind, amount int) int {
	if amount <= 0 {
		return 0
	}
	have := c[kind]
	if have == 0 {
		return 0
	}
	if amount > have {
		amount = have
	}
	if have-amount == 0 {
		delete(c, kind)
	} else {
		c[kind] = have - amount
	}
	return amount
}

// Count returns the number of counters of a kind; Any sums every kind.
func (c Counters) Count(kind Kind) int {
	if kind == Any {
		return c.Total()
	}
	return c[kind]
}

// Total returns the number of counters of all kinds.
func (c Counters) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Boost returns the summed power/toughness delta from boost counters.
func (c Counters) Boost() (power, toughness int) {
	for kind, n := range c {
		if p, t, ok := Boost(kind); ok {
			power += p * n
			toughness += t * n
		}
	}
	return power, toughness
}

// Clone returns an independent copy.
func (c Counters) Clone() Counters {
	out := make(Counters, len(c))
	for kind, n := range c {
		out[kind] = n
	}
	return out
}

// Kinds returns the kinds present, sorted for deterministic output.
func (c Counters) Kinds() []Kind {
	kinds := make([]Kind, 0, len(c))
	for kind, n := range c {
		if n > 0 {
			kinds = append(kinds, kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
