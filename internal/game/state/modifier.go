package state

import (
	"sort"

	"github.com/magefree/mage-rules-go/internal/game/card"
)

// Modifier is a continuous effect record. Spec points into an immutable
// card definition.
type Modifier struct {
	ID           ModifierID
	Source       CardID
	Controller   PlayerID
	Spec         *card.ModifierSpec
	Duration     card.Duration
	Restrictions []card.Restriction

	Active bool
	// Temporary modifiers are deleted outright on deactivation.
	Temporary bool
	Modifying map[CardID]struct{}
}

// Affects reports whether the modifier is scoped to the card. Activity and
// restrictions are checked separately.
func (m *Modifier) Affects(id CardID, onBattlefield bool) bool {
	if m.Spec.Global {
		return true
	}
	if m.Spec.EntireBattlefield && onBattlefield {
		return true
	}
	_, ok := m.Modifying[id]
	return ok
}

// Modify adds a card to the modifying set.
func (m *Modifier) Modify(id CardID) {
	if m.Modifying == nil {
		m.Modifying = make(map[CardID]struct{})
	}
	m.Modifying[id] = struct{}{}
}

// Forget removes a card from the modifying set.
func (m *Modifier) Forget(id CardID) {
	delete(m.Modifying, id)
}

// ModifyingIDs lists the modifying set in ID order.
func (m *Modifier) ModifyingIDs() []CardID {
	out := make([]CardID, 0, len(m.Modifying))
	for id := range m.Modifying {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OwnedKey identifies the modifier a static ability materialises on a
// particular card.
type OwnedKey struct {
	Source  CardID
	Ability *card.StaticAbility
}
