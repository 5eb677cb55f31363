package restrictions

import (
	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// DynamicValue evaluates a dynamic power/toughness rule for source.
func DynamicValue(s *state.Store, source state.CardID, dyn *card.DynamicPT) int {
	switch dyn.Kind {
	case card.DynamicCounters:
		return s.MustCard(source).Counters.Count(dyn.Counter)
	case card.DynamicPermanents:
		count := 0
		session := s.Log.Current()
		for _, id := range s.Battlefield() {
			if Passes(s, session, source, id, dyn.Restrictions) {
				count++
			}
		}
		return count
	}
	panic("unhandled dynamic power/toughness " + string(dyn.Kind))
}
