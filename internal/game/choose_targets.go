package game

import (
	"fmt"
	"slices"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// chooseTargets collects the targets of one effect, or the enchant target
// of an aura. The choice lands in slot of the stack entry's target lists.
type chooseTargets struct {
	source     state.CardID
	controller state.PlayerID
	targeting  targeting
	slot       int
	wants      int
	needs      int

	// mandatory choices belong to triggered abilities, which must go on
	// the stack once triggered.
	mandatory bool
	// follows is an earlier effect of the same source whose targets are
	// reused when this effect can take them.
	follows *chooseTargets

	valid  []state.Target
	chosen []state.Target
}

func newChooseTargets(source state.CardID, controller state.PlayerID, eff card.Effect, slot int) *chooseTargets {
	return &chooseTargets{
		source:     source,
		controller: controller,
		targeting:  effectTargeting(eff),
		slot:       slot,
		wants:      eff.WantsTargets(),
		needs:      eff.NeedsTargets(),
	}
}

func newAuraTargets(source state.CardID, controller state.PlayerID, enchant *card.Enchant, slot int) *chooseTargets {
	return &chooseTargets{
		source:     source,
		controller: controller,
		targeting:  enchantTargeting(enchant),
		slot:       slot,
		wants:      1,
		needs:      1,
	}
}

func (d *chooseTargets) kind() DecisionKind { return DecisionChooseTargets }

func (d *chooseTargets) player() state.PlayerID { return d.controller }

func (d *chooseTargets) cancelable() bool { return !d.mandatory }

func (d *chooseTargets) isEmpty() bool { return false }

func (d *chooseTargets) description(e *Engine) string {
	return fmt.Sprintf("targets for %s (%d of %d chosen)", e.cardName(d.source), len(d.chosen), d.wants)
}

func (d *chooseTargets) recompute(e *Engine, p *PendingResults) bool {
	var valid []state.Target
	for _, t := range e.validTargets(d.source, d.controller, d.targeting) {
		if slices.Contains(d.chosen, t) {
			continue
		}
		if d.follows == nil && p.isChosen(t) {
			continue
		}
		valid = append(valid, t)
	}
	changed := !slices.Equal(valid, d.valid)
	d.valid = valid
	return changed
}

func (d *chooseTargets) options(e *Engine, _ *PendingResults) ChoiceOptions {
	kind := Optional
	if len(d.chosen) < d.needs {
		kind = Mandatory
	}
	labels := make([]string, len(d.valid))
	for i, t := range d.valid {
		labels[i] = e.targetLabel(t)
	}
	return labelled(kind, labels)
}

// choose takes a pick, or with None reuses the followed effect's targets,
// picks the only valid target, or stops once enough are chosen.
func (d *chooseTargets) choose(e *Engine, p *PendingResults, choice Choice) bool {
	if i, ok := choice.Index(); ok {
		if i < 0 || i >= len(d.valid) {
			return false
		}
		d.chosen = append(d.chosen, d.valid[i])
		d.recompute(e, p)
		if len(d.chosen) >= d.wants || len(d.valid) == 0 {
			d.finish(p)
			return true
		}
		return false
	}

	if d.follows != nil && len(d.follows.chosen) > 0 {
		for _, t := range d.follows.chosen {
			if slices.Contains(d.valid, t) && len(d.chosen) < d.wants {
				d.chosen = append(d.chosen, t)
			}
		}
		if len(d.chosen) > 0 {
			d.finish(p)
			return true
		}
	}
	switch {
	case len(d.valid) == 0, len(d.chosen) >= d.needs:
		d.finish(p)
		return true
	case len(d.valid) == 1:
		d.chosen = append(d.chosen, d.valid[0])
		d.recompute(e, p)
		if len(d.chosen) >= d.wants || len(d.valid) == 0 {
			d.finish(p)
			return true
		}
	}
	return false
}

func (d *chooseTargets) finish(p *PendingResults) {
	for len(p.chosenTargets) <= d.slot {
		p.chosenTargets = append(p.chosenTargets, nil)
	}
	p.chosenTargets[d.slot] = append(p.chosenTargets[d.slot], d.chosen...)
	p.markChosen(d.chosen...)
}

// targetLabel names a target for display.
func (e *Engine) targetLabel(t state.Target) string {
	switch t.Kind {
	case state.TargetCard:
		return e.cardName(t.Card)
	case state.TargetStack:
		if entry, ok := e.Store.Stack.Get(t.Stack); ok {
			return fmt.Sprintf("%s on the stack", e.cardName(entry.Card))
		}
		return t.String()
	default:
		return fmt.Sprintf("player %s", e.Store.Player(t.Player).Name)
	}
}
