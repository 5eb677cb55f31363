package game

import (
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game/state"
)

// chooseModes picks one mode of a modal spell, then asks for that mode's
// targets.
type chooseModes struct {
	source     state.CardID
	controller state.PlayerID
}

func (d *chooseModes) kind() DecisionKind { return DecisionChooseModes }

func (d *chooseModes) player() state.PlayerID { return d.controller }

func (d *chooseModes) cancelable() bool { return true }

func (d *chooseModes) isEmpty() bool { return false }

func (d *chooseModes) description(e *Engine) string {
	return fmt.Sprintf("mode for %s", e.cardName(d.source))
}

func (d *chooseModes) recompute(*Engine, *PendingResults) bool { return false }

func (d *chooseModes) options(e *Engine, _ *PendingResults) ChoiceOptions {
	modes := e.Store.MustCard(d.source).Face.Modes
	labels := make([]string, len(modes))
	for i, m := range modes {
		labels[i] = m.Text
		if labels[i] == "" {
			labels[i] = fmt.Sprintf("mode %d", i+1)
		}
	}
	return labelled(Mandatory, labels)
}

func (d *chooseModes) choose(e *Engine, p *PendingResults, choice Choice) bool {
	face := e.Store.MustCard(d.source).Face
	i, ok := choice.Index()
	if !ok && len(face.Modes) == 1 {
		i, ok = 0, true
	}
	if !ok || i < 0 || i >= len(face.Modes) {
		return false
	}

	offset := len(face.SpellEffects(p.chosenModes))
	p.chosenModes = append(p.chosenModes, i)
	var targets []decision
	var first *chooseTargets
	for j, eff := range face.Modes[i].Effects {
		if eff.WantsTargets() == 0 {
			continue
		}
		t := newChooseTargets(d.source, d.controller, eff, offset+j)
		if !face.ApplyIndividually && first != nil {
			t.follows = first
		}
		if first == nil {
			first = t
		}
		targets = append(targets, t)
	}
	p.pushFront(targets...)
	return true
}
