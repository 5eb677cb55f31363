package game

import (
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// CheckStateBased applies state-based actions until none apply (rule
// 704.3) and returns the triggers they caused. The loop is bounded by
// Options.MaxStateIterations.
func (e *Engine) CheckStateBased() *PendingResults {
	results := e.newPending()
	limit := e.opts.MaxStateIterations
	for i := 0; i < limit; i++ {
		actions := e.stateBasedActions()
		if len(actions) == 0 {
			return results
		}
		results.Extend(e.Apply(actions))

		if i == limit-1 {
			e.logger.Warn("state-based actions hit iteration limit",
				zap.String("game_id", e.ID),
				zap.Int("iterations", limit))
		}
	}
	return results
}

// stateBasedActions lists the actions for the current state (rule 704.5).
func (e *Engine) stateBasedActions() []Action {
	var actions []Action
	for _, p := range e.Store.Players() {
		if p.Lost {
			continue
		}
		if p.Life <= 0 || p.DrewFromEmptyLibrary {
			actions = append(actions, PlayerLoses{Player: p.ID})
		}
	}

	for _, id := range e.Store.Battlefield() {
		c := e.Store.MustCard(id)
		if toughness := c.Modified.Toughness(); toughness != nil && c.Modified.Types.Has(card.TypeCreature) {
			if *toughness <= 0 {
				actions = append(actions, PermanentToGraveyard{Card: id})
				continue
			}
			if c.Damage >= *toughness && !c.Modified.HasKeyword(card.KeywordIndestructible) {
				actions = append(actions, PermanentToGraveyard{Card: id, Destroy: true})
				continue
			}
		}
		if c.Face.IsAura() && !e.attached(c.AttachedTo) {
			actions = append(actions, PermanentToGraveyard{Card: id})
		}
	}

	for _, id := range e.Store.CardIDs() {
		c := e.Store.MustCard(id)
		if c.Token && c.Location != card.LocationBattlefield && c.Location != card.LocationStack {
			actions = append(actions, DeleteCard{Card: id})
		}
	}
	return actions
}

func (e *Engine) attached(id state.CardID) bool {
	if id == 0 {
		return false
	}
	c, ok := e.Store.Card(id)
	return ok && c.Location == card.LocationBattlefield
}
