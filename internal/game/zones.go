package game

import (
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/effects"
	"github.com/magefree/mage-rules-go/internal/game/restrictions"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// Zone transitions are the only code that changes a card's location
// during play. Each one forgets the card's old object (rule 400.7),
// recomputes it and returns any triggered work.

// leaveBattlefield records a permanent's departure while it is still on the
// battlefield and ends effects lasting while it stays there.
func (e *Engine) leaveBattlefield(c *state.Card, reason state.LeaveReason) *PendingResults {
	results := e.newPending()
	if c.Location != card.LocationBattlefield {
		return results
	}
	e.Store.Log.Record(state.LogEntry{
		Kind:         state.LogLeftBattlefield,
		Card:         c.ID,
		Controller:   c.Controller,
		Reason:       reason,
		Name:         c.Modified.Name,
		Types:        c.Modified.Types.Sorted(),
		WasAttacking: c.IsAttacking(),
		WasToken:     c.Token,
		WasTapped:    c.Tapped,
		HadCounters:  c.Counters.Clone(),
		Turn:         e.Store.TurnNumber(),
	})
	results.Extend(e.fire(card.TriggerLeavesBattlefield, c.ID, card.LocationBattlefield))
	effects.CleanupSourceLeft(e.Store, c.ID)
	e.logger.Debug("left the battlefield",
		append(e.cardFields(c.ID), zap.String("reason", string(reason)))...)
	return results
}

// forget drops the card's old object.
func (e *Engine) forget(c *state.Card) {
	effects.ForgetCard(e.Store, c.ID)
	c.Reset()
}

// land places a card in its new zone. Tokens that leave the battlefield
// go to limbo instead and are deleted by state-based actions.
func (e *Engine) land(c *state.Card, loc card.Location, bottom bool) {
	switch {
	case c.Token && loc != card.LocationBattlefield:
		e.Store.Place(c.ID, card.LocationLimbo)
	case bottom:
		e.Store.PlaceBottom(c.ID)
	default:
		e.Store.Place(c.ID, loc)
	}
	e.layers.Recompute(e.Store, c.ID)
}

// MoveToGraveyard puts a card into its owner's graveyard.
func (e *Engine) MoveToGraveyard(id state.CardID) *PendingResults {
	c := e.Store.MustCard(id)
	from := c.Location
	results := e.leaveBattlefield(c, state.LeaveGraveyard)
	e.forget(c)
	e.land(c, card.LocationGraveyard, false)
	if !c.Token && c.Face.IsPermanent() {
		e.Store.Player(c.Owner).DescendedThisTurn++
	}
	results.Extend(e.fire(card.TriggerPutIntoGraveyard, id, from))
	return results
}

// MoveToHand returns a card to its owner's hand.
func (e *Engine) MoveToHand(id state.CardID) *PendingResults {
	c := e.Store.MustCard(id)
	results := e.leaveBattlefield(c, state.LeaveReturnedToHand)
	e.forget(c)
	e.land(c, card.LocationHand, false)
	return results
}

// MoveToLibrary puts a card on top of, or at the bottom of, its owner's
// library.
func (e *Engine) MoveToLibrary(id state.CardID, bottom bool) *PendingResults {
	c := e.Store.MustCard(id)
	results := e.leaveBattlefield(c, state.LeaveLibrary)
	e.forget(c)
	e.land(c, card.LocationLibrary, bottom)
	return results
}

// MoveToExile exiles a card, remembering which card exiled it.
func (e *Engine) MoveToExile(id, exiledWith state.CardID) *PendingResults {
	c := e.Store.MustCard(id)
	results := e.leaveBattlefield(c, state.LeaveExiled)
	e.forget(c)
	c.ExiledWith = exiledWith
	e.land(c, card.LocationExile, false)
	return results
}

// MoveToLimbo takes a card out of every zone.
func (e *Engine) MoveToLimbo(id state.CardID) *PendingResults {
	c := e.Store.MustCard(id)
	results := e.leaveBattlefield(c, state.LeaveExiled)
	e.forget(c)
	e.Store.Place(id, card.LocationLimbo)
	e.layers.Recompute(e.Store, id)
	return results
}

// MoveToStack puts a card on the stack zone as a spell cast from from.
// The stack entry itself is pushed by the caller.
func (e *Engine) MoveToStack(id state.CardID, from card.Location) {
	c := e.Store.MustCard(id)
	e.forget(c)
	c.CastFrom = from
	e.land(c, card.LocationStack, false)
}

// MoveToBattlefield puts a card onto the battlefield under its owner's
// control. A resolving spell keeps what it knew about how it was cast.
func (e *Engine) MoveToBattlefield(id state.CardID) *PendingResults {
	c := e.Store.MustCard(id)
	from := c.Location
	castFrom, manaFrom, x := c.CastFrom, c.ManaFrom, c.X
	e.forget(c)
	if from == card.LocationStack {
		c.CastFrom, c.ManaFrom, c.X = castFrom, manaFrom, x
	}
	e.Store.Place(id, card.LocationBattlefield)
	c.EnteredBattlefieldTurn = e.Store.TurnNumber()
	e.layers.Recompute(e.Store, id)
	if e.forcedTapped(id) {
		c.Tapped = true
	}
	e.logger.Info("entered the battlefield",
		append(e.cardFields(id), zap.Int("controller", int(c.Controller)))...)

	results := e.newPending()
	if len(c.Modified.ETB) > 0 {
		results.Extend(e.pushAbility(id, &state.StackAbility{
			Kind:    state.AbilityETB,
			Effects: c.Modified.ETB,
		}))
	}
	results.Extend(e.fire(card.TriggerEntersBattlefield, id, from))
	return results
}

// forcedTapped reports whether a permanent's static ability makes the
// entering card enter tapped.
func (e *Engine) forcedTapped(id state.CardID) bool {
	session := e.Store.Log.Current()
	for _, source := range e.Store.Battlefield() {
		for _, sa := range e.Store.MustCard(source).Modified.Static {
			if sa.Kind != card.StaticForceEtbTapped {
				continue
			}
			if restrictions.Passes(e.Store, session, source, id, sa.Restrictions) {
				return true
			}
		}
	}
	return false
}

// drawCard moves the top card of a library into its owner's hand. Drawing
// from an empty library is remembered for state-based actions.
func (e *Engine) drawCard(player state.PlayerID) (state.CardID, bool) {
	p := e.Store.Player(player)
	top, ok := p.Library.Top()
	if !ok {
		p.DrewFromEmptyLibrary = true
		return 0, false
	}
	e.Store.Place(top, card.LocationHand)
	e.layers.Recompute(e.Store, top)
	return top, true
}
