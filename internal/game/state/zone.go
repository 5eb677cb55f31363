package state

// Zone is an ordered set of cards. For libraries the last element is the
// top card.
type Zone struct {
	ids []CardID
}

// Add appends id if it is not already present.
func (z *Zone) Add(id CardID) {
	if z.Contains(id) {
		return
	}
	z.ids = append(z.ids, id)
}

// AddBottom inserts id at the front (the bottom of a library).
func (z *Zone) AddBottom(id CardID) {
	if z.Contains(id) {
		return
	}
	z.ids = append([]CardID{id}, z.ids...)
}

// Remove deletes id and reports whether it was present.
func (z *Zone) Remove(id CardID) bool {
	for i, have := range z.ids {
		if have == id {
			z.ids = append(z.ids[:i], z.ids[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports membership.
func (z *Zone) Contains(id CardID) bool {
	for _, have := range z.ids {
		if have == id {
			return true
		}
	}
	return false
}

// IDs returns a copy of the members in order.
func (z *Zone) IDs() []CardID {
	return append([]CardID(nil), z.ids...)
}

// Len returns the number of members.
func (z *Zone) Len() int {
	return len(z.ids)
}

// Top returns the last member.
func (z *Zone) Top() (CardID, bool) {
	if len(z.ids) == 0 {
		return 0, false
	}
	return z.ids[len(z.ids)-1], true
}

// TopN returns up to n members from the top, topmost first.
func (z *Zone) TopN(n int) []CardID {
	var out []CardID
	for i := len(z.ids) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, z.ids[i])
	}
	return out
}

// Shuffle reorders the members with the given swap source.
func (z *Zone) Shuffle(shuffle func(n int, swap func(i, j int))) {
	shuffle(len(z.ids), func(i, j int) { z.ids[i], z.ids[j] = z.ids[j], z.ids[i] })
}
