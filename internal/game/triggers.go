package game

import (
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/restrictions"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// fire puts every triggered ability listening for source on the stack
// whose restrictions pass with the listener as source and candidate as the
// triggering card (rule 603.2). Listeners are the permanents on the
// battlefield plus the candidate itself, so "when this dies" still sees
// its own card.
func (e *Engine) fire(source card.TriggerSource, candidate state.CardID, from card.Location) *PendingResults {
	results := e.newPending()
	c, ok := e.Store.Card(candidate)
	if !ok {
		return results
	}
	listeners := e.Store.Battlefield()
	if c.Location != card.LocationBattlefield {
		listeners = append(listeners, candidate)
	}

	session := e.Store.Log.Current()
	for _, listener := range listeners {
		for _, t := range e.Store.MustCard(listener).Modified.Triggers {
			if t.Trigger.Source != source {
				continue
			}
			if t.Trigger.From != "" && t.Trigger.From != from {
				continue
			}
			if !restrictions.Passes(e.Store, session, listener, candidate, t.Trigger.Restrictions) {
				continue
			}
			e.logger.Debug("triggered",
				append(e.cardFields(listener),
					zap.String("trigger", string(source)),
					zap.Uint64("candidate_id", uint64(candidate)))...)
			results.Extend(e.pushAbility(listener, triggered(t)))
		}
	}
	return results
}

// fireStep puts step triggers (upkeep, start of combat, end step) of
// every permanent on the stack. The listener is its own candidate.
func (e *Engine) fireStep(source card.TriggerSource) *PendingResults {
	results := e.newPending()
	session := e.Store.Log.Current()
	for _, listener := range e.Store.Battlefield() {
		for _, t := range e.Store.MustCard(listener).Modified.Triggers {
			if t.Trigger.Source != source {
				continue
			}
			if !restrictions.Passes(e.Store, session, listener, listener, t.Trigger.Restrictions) {
				continue
			}
			results.Extend(e.pushAbility(listener, triggered(t)))
		}
	}
	return results
}

func triggered(t *card.TriggeredAbility) *state.StackAbility {
	return &state.StackAbility{
		Kind:    state.AbilityTriggered,
		Effects: t.Effects,
		Text:    t.Text,
	}
}

// logTargets records every permanent targeted by source and fires
// "becomes the target" triggers.
func (e *Engine) logTargets(source state.CardID, targets [][]state.Target) *PendingResults {
	results := e.newPending()
	targeted := false
	for _, list := range targets {
		for _, t := range list {
			if t.Kind != state.TargetCard {
				continue
			}
			if c, ok := e.Store.Card(t.Card); !ok || c.Location != card.LocationBattlefield {
				continue
			}
			e.Store.Log.Record(state.LogEntry{Kind: state.LogTargeted, Source: source, Card: t.Card})
			targeted = true
		}
	}
	if targeted {
		results.Extend(e.fire(card.TriggerTargeted, source, e.Store.MustCard(source).Location))
	}
	return results
}
