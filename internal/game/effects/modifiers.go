package effects

import (
	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// NewModifier stores an inactive modifier for a battlefield modifier
// created by source. Temporary modifiers are deleted when deactivated.
func NewModifier(s *state.Store, source state.CardID, bm *card.BattlefieldModifier, temporary bool) state.ModifierID {
	return s.AddModifier(&state.Modifier{
		Source:       source,
		Controller:   controllerOf(s, source),
		Spec:         &bm.Modifier,
		Duration:     bm.Duration,
		Restrictions: bm.Restrictions,
		Temporary:    temporary,
	})
}

// NewTargetModifier stores an inactive temporary modifier that applies to
// the given cards only.
func NewTargetModifier(s *state.Store, source state.CardID, spec *card.ModifierSpec, duration card.Duration, targets ...state.CardID) state.ModifierID {
	m := &state.Modifier{
		Source:     source,
		Controller: controllerOf(s, source),
		Spec:       spec,
		Duration:   duration,
		Temporary:  true,
	}
	for _, id := range targets {
		m.Modify(id)
	}
	return s.AddModifier(m)
}

func controllerOf(s *state.Store, id state.CardID) state.PlayerID {
	if c, ok := s.Card(id); ok {
		return c.Controller
	}
	return 0
}

// Activate turns a modifier on. Unknown IDs are ignored.
func Activate(s *state.Store, id state.ModifierID) {
	if m, ok := s.Modifier(id); ok {
		m.Active = true
	}
}

// Deactivate turns a modifier off. Temporary modifiers are removed
// entirely, others keep their record with an empty modifying set.
func Deactivate(s *state.Store, id state.ModifierID) {
	m, ok := s.Modifier(id)
	if !ok {
		return
	}
	if m.Temporary {
		s.RemoveModifier(id)
		return
	}
	m.Active = false
	m.Modifying = nil
}

// ForgetCard drops a card from every modifier's modifying set, as when it
// changes zones (rule 400.7).
func ForgetCard(s *state.Store, id state.CardID) {
	for _, m := range s.Modifiers() {
		m.Forget(id)
	}
}
