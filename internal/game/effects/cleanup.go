package effects

import (
	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// CleanupEndOfTurn deactivates modifiers that last until end of turn
// (rule 514.2) and returns them.
func CleanupEndOfTurn(s *state.Store) []state.ModifierID {
	return deactivateWhere(s, func(m *state.Modifier) bool {
		return m.Duration == card.UntilEndOfTurn
	})
}

// CleanupSourceLeft deactivates modifiers that last while source stays on
// the battlefield.
func CleanupSourceLeft(s *state.Store, source state.CardID) []state.ModifierID {
	return deactivateWhere(s, func(m *state.Modifier) bool {
		return m.Source == source && m.Duration == card.UntilSourceLeavesBattlefield
	})
}

// CleanupUntapped deactivates modifiers that last until source untaps.
func CleanupUntapped(s *state.Store, source state.CardID) []state.ModifierID {
	return deactivateWhere(s, func(m *state.Modifier) bool {
		return m.Source == source && m.Duration == card.UntilUntapped
	})
}

func deactivateWhere(s *state.Store, match func(*state.Modifier) bool) []state.ModifierID {
	// Collect first, deactivation may delete records.
	var toRemove []state.ModifierID
	for _, m := range s.ActiveModifiers() {
		if match(m) {
			toRemove = append(toRemove, m.ID)
		}
	}
	for _, id := range toRemove {
		Deactivate(s, id)
	}
	return toRemove
}
