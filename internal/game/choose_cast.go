package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// choosingCast offers to cast a discovered card without paying its mana
// cost. Declining, or being unable to cast it, puts it into its owner's
// hand.
type choosingCast struct {
	controller state.PlayerID
	card       state.CardID
	source     state.CardID
}

func (d *choosingCast) kind() DecisionKind { return DecisionChoosingCast }

func (d *choosingCast) player() state.PlayerID { return d.controller }

func (d *choosingCast) cancelable() bool { return false }

func (d *choosingCast) isEmpty() bool { return false }

func (d *choosingCast) description(e *Engine) string {
	return fmt.Sprintf("cast %s without paying its mana cost?", e.cardName(d.card))
}

func (d *choosingCast) recompute(*Engine, *PendingResults) bool { return false }

func (d *choosingCast) options(e *Engine, _ *PendingResults) ChoiceOptions {
	return labelled(Optional, []string{"cast " + e.cardName(d.card)})
}

func (d *choosingCast) choose(e *Engine, p *PendingResults, choice Choice) bool {
	if i, ok := choice.Index(); ok && i == 0 {
		cast, err := e.prepareCast(d.controller, d.card, card.LocationExile, true)
		if err == nil {
			p.Extend(cast)
			return true
		}
		e.logger.Debug("discovered card can't be cast",
			append(e.cardFields(d.card), zap.Error(err))...)
	}
	p.pushSettled(ReturnToHand{Card: d.card})
	return true
}
