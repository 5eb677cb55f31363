package game

import (
	"fmt"
	"slices"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// declaringAttackers lets the active player pick attacking creatures one
// at a time. With more than one opponent each pick is followed by the
// player it attacks. None ends the declaration.
type declaringAttackers struct {
	attacker state.PlayerID

	candidates []state.CardID
	defenders  []state.PlayerID

	attackers []state.CardID
	targets   []state.PlayerID
	// choosing is an attacker waiting for its defender.
	choosing state.CardID
}

func newDeclaringAttackers(e *Engine, player state.PlayerID) *declaringAttackers {
	d := &declaringAttackers{attacker: player}
	for _, op := range e.Store.Opponents(player) {
		if !op.Lost {
			d.defenders = append(d.defenders, op.ID)
		}
	}
	d.candidates = e.canAttack(player, nil)
	return d
}

// canAttack lists the player's creatures able to attack, less exclude
// (rule 508.1a).
func (e *Engine) canAttack(player state.PlayerID, exclude []state.CardID) []state.CardID {
	var out []state.CardID
	for _, id := range e.Store.Controlled(player) {
		c := e.Store.MustCard(id)
		switch {
		case slices.Contains(exclude, id):
		case !c.Modified.Types.Has(card.TypeCreature):
		case c.Tapped:
		case c.Modified.HasKeyword(card.KeywordDefender):
		case e.summoningSick(c):
		default:
			out = append(out, id)
		}
	}
	return out
}

// summoningSick reports whether a creature came under its controller's
// control this turn and lacks haste (rule 302.6).
func (e *Engine) summoningSick(c *state.Card) bool {
	return c.EnteredBattlefieldTurn == e.Store.TurnNumber() && !c.Modified.HasKeyword(card.KeywordHaste)
}

func (d *declaringAttackers) kind() DecisionKind { return DecisionDeclaringAttackers }

func (d *declaringAttackers) player() state.PlayerID { return d.attacker }

func (d *declaringAttackers) cancelable() bool { return false }

func (d *declaringAttackers) isEmpty() bool { return false }

func (d *declaringAttackers) description(e *Engine) string {
	if d.choosing != 0 {
		return fmt.Sprintf("player for %s to attack", e.cardName(d.choosing))
	}
	return "declare attackers"
}

func (d *declaringAttackers) recompute(e *Engine, _ *PendingResults) bool {
	exclude := d.attackers
	if d.choosing != 0 {
		exclude = append(slices.Clone(exclude), d.choosing)
	}
	candidates := e.canAttack(d.attacker, exclude)
	changed := !slices.Equal(candidates, d.candidates)
	d.candidates = candidates
	return changed
}

func (d *declaringAttackers) options(e *Engine, _ *PendingResults) ChoiceOptions {
	if d.choosing != 0 {
		labels := make([]string, len(d.defenders))
		for i, p := range d.defenders {
			labels[i] = e.Store.Player(p).Name
		}
		return labelled(Mandatory, labels)
	}
	labels := make([]string, len(d.candidates))
	for i, id := range d.candidates {
		labels[i] = e.cardName(id)
	}
	return labelled(Optional, labels)
}

func (d *declaringAttackers) choose(e *Engine, p *PendingResults, choice Choice) bool {
	i, ok := choice.Index()
	if d.choosing != 0 {
		if !ok || i < 0 || i >= len(d.defenders) {
			return false
		}
		d.attackers = append(d.attackers, d.choosing)
		d.targets = append(d.targets, d.defenders[i])
		d.choosing = 0
		d.recompute(e, p)
		return false
	}
	if !ok {
		p.pushSettled(DeclareAttackers{Attackers: d.attackers, Targets: d.targets})
		return true
	}
	if i < 0 || i >= len(d.candidates) || len(d.defenders) == 0 {
		return false
	}
	picked := d.candidates[i]
	if len(d.defenders) == 1 {
		d.attackers = append(d.attackers, picked)
		d.targets = append(d.targets, d.defenders[0])
	} else {
		d.choosing = picked
	}
	d.recompute(e, p)
	return false
}
