package restrictions

import (
	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// PlayerPasses evaluates clauses against a player instead of a card.
// Clauses that only make sense for cards fail.
func PlayerPasses(s *state.Store, source state.CardID, player state.PlayerID, clauses []card.Restriction) bool {
	src, ok := s.Card(source)
	if !ok {
		return false
	}
	p := s.Player(player)
	if p.Lost {
		return false
	}
	for _, r := range clauses {
		switch r.Kind {
		case card.RestrictSelf:
			if player != src.Controller {
				return false
			}
		case card.RestrictNotSelf:
			if player == src.Controller {
				return false
			}
		case card.RestrictController:
			if (r.Controller == card.ControllerSelf) != (player == src.Controller) {
				return false
			}
		case card.RestrictControllerControlsBlackOrGreen:
			colors := controlledColors(s, player)
			if !colors.Has(card.ColorBlack) && !colors.Has(card.ColorGreen) {
				return false
			}
		case card.RestrictControllerControlsColors:
			if !controlledColors(s, player).Intersects(r.Colors) {
				return false
			}
		case card.RestrictControllerHandEmpty:
			if p.Hand.Len() != 0 {
				return false
			}
		case card.RestrictLifeGainedThisTurn:
			if p.LifeGainedThisTurn < r.Count {
				return false
			}
		case card.RestrictDuringControllersTurn:
			if s.ActivePlayer() != player {
				return false
			}
		default:
			return false
		}
	}
	return true
}
