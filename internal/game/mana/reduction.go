package mana

// Reduction lowers a cost. Generic reduction never takes a cost below zero
// and colored reduction removes matching symbols only (rule 601.2f).
type Reduction struct {
	Generic int          `yaml:"generic"`
	Colored map[Mana]int `yaml:"colored"`
}

// IsZero reports whether the reduction changes nothing.
func (r Reduction) IsZero() bool {
	if r.Generic > 0 {
		return false
	}
	for _, n := range r.Colored {
		if n > 0 {
			return false
		}
	}
	return true
}

// Reduce applies a reduction and returns the new cost.
func (cs Costs) Reduce(r Reduction) Costs {
	if r.IsZero() {
		return append(Costs(nil), cs...)
	}

	colored := make(map[Mana]int, len(r.Colored))
	for m, n := range r.Colored {
		colored[m] = n
	}
	generic := r.Generic

	out := make(Costs, 0, len(cs))
	for _, c := range cs {
		if m, ok := c.Mana(); ok && colored[m] > 0 {
			colored[m]--
			continue
		}
		if c.Kind == CostGeneric {
			left := c.Generic - generic
			if left <= 0 {
				generic = -left
				continue
			}
			generic = 0
			c.Generic = left
		}
		out = append(out, c)
	}
	return out
}
