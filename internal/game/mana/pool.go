package mana

import (
	"fmt"
	"sort"
	"strings"
)

// Pool is a player's mana pool, tracked per mana kind and per source.
//
// The engine is single-threaded per game, so the pool carries no lock.
type Pool struct {
	sourced map[Mana]map[Source]int
}

// NewPool creates an empty mana pool.
func NewPool() *Pool {
	return &Pool{sourced: make(map[Mana]map[Source]int)}
}

// Spent records one unit of mana removed from the pool.
type Spent struct {
	Mana   Mana
	Source Source
}

// Add adds amount mana of the given kind from the given source.
func (p *Pool) Add(m Mana, source Source, amount int) {
	if amount <= 0 {
		return
	}
	if source == "" {
		source = SourceAny
	}
	bySource, ok := p.sourced[m]
	if !ok {
		bySource = make(map[Source]int)
		p.sourced[m] = bySource
	}
	bySource[source] += amount
}

// Count returns how much mana of the kind is in the pool, across sources.
func (p *Pool) Count(m Mana) int {
	total := 0
	for _, n := range p.sourced[m] {
		total += n
	}
	return total
}

// CountFrom returns how much mana of the kind came from the given source.
func (p *Pool) CountFrom(m Mana, source Source) int {
	return p.sourced[m][source]
}

// Total returns the total amount of mana in the pool.
func (p *Pool) Total() int {
	total := 0
	for _, m := range All {
		total += p.Count(m)
	}
	return total
}

// IsEmpty reports whether the pool holds no mana.
func (p *Pool) IsEmpty() bool {
	return p.Total() == 0
}

// Spend removes one unit of the mana kind. A specific source is honoured
// exactly; SourceAny falls back through every source in Sources order.
func (p *Pool) Spend(m Mana, source Source) (Spent, bool) {
	bySource := p.sourced[m]
	if bySource == nil {
		return Spent{}, false
	}
	if source == "" {
		source = SourceAny
	}
	if bySource[source] > 0 {
		bySource[source]--
		return Spent{Mana: m, Source: source}, true
	}
	if source != SourceAny {
		return Spent{}, false
	}
	for _, alt := range Sources {
		if bySource[alt] > 0 {
			bySource[alt]--
			return Spent{Mana: m, Source: alt}, true
		}
	}
	return Spent{}, false
}

// mostPlentiful returns the mana kind with the largest count. Ties go to
// the kind that comes first in All.
func (p *Pool) mostPlentiful() (Mana, int) {
	best := Mana("")
	bestCount := 0
	for _, m := range All {
		if n := p.Count(m); n > bestCount {
			best, bestCount = m, n
		}
	}
	return best, bestCount
}

// SpendGeneric spends amount mana for a generic cost, one unit at a time
// from whichever kind is currently most plentiful. Either the whole amount
// is spent or the pool is left untouched.
func (p *Pool) SpendGeneric(amount int) ([]Spent, bool) {
	if amount <= 0 {
		return nil, true
	}
	if p.Total() < amount {
		return nil, false
	}
	spent := make([]Spent, 0, amount)
	for i := 0; i < amount; i++ {
		m, n := p.mostPlentiful()
		if n == 0 {
			return nil, false
		}
		s, _ := p.Spend(m, SourceAny)
		spent = append(spent, s)
	}
	return spent, true
}

// Pay spends the full cost, treating X as x. Colored symbols are paid
// first with exact kinds, then generic and X from the most plentiful
// kind. On failure the pool is unchanged.
func (p *Pool) Pay(costs Costs, x int) ([]Spent, error) {
	trial := p.Clone()
	var spent []Spent
	for _, c := range costs.Sorted() {
		switch c.Kind {
		case CostGeneric:
			s, ok := trial.SpendGeneric(c.Generic)
			if !ok {
				return nil, fmt.Errorf("insufficient mana for generic cost (need %d, have %d)", c.Generic, trial.Total())
			}
			spent = append(spent, s...)
		case CostX, CostTwoX:
			need := x
			if c.Kind == CostTwoX {
				need = 2 * x
			}
			s, ok := trial.SpendGeneric(need)
			if !ok {
				return nil, fmt.Errorf("insufficient mana for X=%d (need %d, have %d)", x, need, trial.Total())
			}
			spent = append(spent, s...)
		default:
			m, _ := c.Mana()
			s, ok := trial.Spend(m, SourceAny)
			if !ok {
				return nil, fmt.Errorf("insufficient %s mana", strings.ToLower(string(m)))
			}
			spent = append(spent, s)
		}
	}
	p.sourced = trial.sourced
	return spent, nil
}

// CanPay reports whether Pay would succeed, without touching the pool.
func (p *Pool) CanPay(costs Costs, x int) bool {
	_, err := p.Clone().Pay(costs, x)
	return err == nil
}

// Drain empties the pool (rule 500.4) and returns how much was lost.
func (p *Pool) Drain() int {
	lost := p.Total()
	p.sourced = make(map[Mana]map[Source]int)
	return lost
}

// Clone returns an independent copy of the pool.
func (p *Pool) Clone() *Pool {
	out := NewPool()
	for m, bySource := range p.sourced {
		for source, n := range bySource {
			if n > 0 {
				out.Add(m, source, n)
			}
		}
	}
	return out
}

// String renders the pool in WUBRGC order, e.g. "{R}{C}{C}".
func (p *Pool) String() string {
	var b strings.Builder
	for _, m := range All {
		for i := 0; i < p.Count(m); i++ {
			b.WriteString("{" + m.Symbol() + "}")
		}
	}
	return b.String()
}

// Entries lists the non-empty (kind, source, count) buckets in a stable
// order, for digests and display.
func (p *Pool) Entries() []Entry {
	var out []Entry
	for _, m := range All {
		sources := make([]string, 0, len(p.sourced[m]))
		for s, n := range p.sourced[m] {
			if n > 0 {
				sources = append(sources, string(s))
			}
		}
		sort.Strings(sources)
		for _, s := range sources {
			out = append(out, Entry{Mana: m, Source: Source(s), Count: p.sourced[m][Source(s)]})
		}
	}
	return out
}

// Entry is one bucket of the pool.
type Entry struct {
	Mana   Mana
	Source Source
	Count  int
}
