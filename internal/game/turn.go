package game

import (
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/rules"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// PassPriority passes priority for the player holding it. Once every
// player has passed in succession the top of the stack resolves, or the
// step ends when the stack is empty (rule 117.4).
func (e *Engine) PassPriority() *PendingResults {
	if e.GameOver() {
		return e.newPending()
	}
	passer := e.Store.PriorityPlayer()
	if !e.priority.Pass(int(passer)) {
		e.Store.Turn.SetPriority(int(e.nextLiving(passer)))
		return e.newPending()
	}
	e.priority.Reset()
	e.Store.Turn.SetPriority(int(e.Store.ActivePlayer()))
	if !e.Store.Stack.IsEmpty() {
		return e.ResolveTop()
	}
	return e.AdvancePhase()
}

// nextLiving returns the next player in turn order who hasn't lost.
func (e *Engine) nextLiving(after state.PlayerID) state.PlayerID {
	next := after
	for range e.Store.Players() {
		next = state.PlayerID(e.Store.Turn.NextPlayer(int(next)))
		if !e.Store.Player(next).Lost {
			return next
		}
	}
	return after
}

// AdvancePhase ends the current step and performs the turn-based actions
// of the next one (rule 500).
func (e *Engine) AdvancePhase() *PendingResults {
	for _, p := range e.Store.Players() {
		p.Pool.Drain()
	}
	_, step, newTurn := e.Store.Turn.AdvanceStep()
	e.priority.Reset()
	active := e.Store.ActivePlayer()

	if newTurn {
		for _, p := range e.Store.Players() {
			p.ResetTurn()
		}
		e.Store.AttackersThisTurn = 0
		e.Store.Log.Record(state.LogEntry{Kind: state.LogNewTurn, Player: active, Turn: e.Store.TurnNumber()})
		e.logger.Info("turn started",
			zap.String("game_id", e.ID),
			zap.Int("turn", e.Store.TurnNumber()),
			zap.Int("active_player", int(active)))
	}
	e.logger.Debug("step",
		zap.String("game_id", e.ID),
		zap.String("step", step.String()))

	results := e.newPending()
	switch step {
	case rules.StepUntap:
		for _, id := range e.Store.Controlled(active) {
			if e.Store.MustCard(id).Tapped {
				results.pushSettled(UntapPermanent{Card: id})
			}
		}

	case rules.StepUpkeep:
		results.Extend(e.fireStep(card.TriggerUpkeep))

	case rules.StepDraw:
		// The player who goes first skips their first draw (rule 103.8a).
		if e.Store.TurnNumber() > 1 {
			results.pushSettled(DrawCards{Player: active, Count: 1})
		}

	case rules.StepBeginCombat:
		results.Extend(e.fireStep(card.TriggerStartOfCombat))

	case rules.StepDeclareAttackers:
		if d := newDeclaringAttackers(e, active); len(d.candidates) > 0 && len(d.defenders) > 0 {
			results.push(d)
		}

	case rules.StepCombatDamage:
		for _, id := range e.Store.Battlefield() {
			c := e.Store.MustCard(id)
			if !c.IsAttacking() {
				continue
			}
			if power := c.Modified.Power(); power != nil && *power > 0 {
				results.pushSettled(DamageTarget{Source: id, Target: state.PlayerTarget(c.Attacking), Amount: *power})
			}
		}

	case rules.StepEndCombat:
		results.pushSettled(EndCombat{})

	case rules.StepEnd:
		results.Extend(e.fireStep(card.TriggerEndStep))

	case rules.StepCleanup:
		if over := e.Store.Player(active).Hand.Len() - e.opts.MaxHandSize; over > 0 {
			results.push(&discard{controller: active, count: over})
		}
		results.pushSettled(EndTurnCleanup{})
	}
	return results
}
