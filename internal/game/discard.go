package game

import (
	"fmt"
	"slices"

	"github.com/magefree/mage-rules-go/internal/game/state"
)

// discard makes a player discard count cards of their choice. A player
// with count or fewer cards discards the whole hand without choosing.
type discard struct {
	controller state.PlayerID
	count      int
	source     state.CardID

	valid  []state.CardID
	chosen []state.CardID
}

func (d *discard) kind() DecisionKind { return DecisionDiscard }

func (d *discard) player() state.PlayerID { return d.controller }

func (d *discard) cancelable() bool { return false }

func (d *discard) isEmpty() bool { return false }

func (d *discard) description(*Engine) string {
	return fmt.Sprintf("discard %d of %d", d.count-len(d.chosen), d.count)
}

func (d *discard) recompute(e *Engine, _ *PendingResults) bool {
	var valid []state.CardID
	for _, id := range e.Store.Player(d.controller).Hand.IDs() {
		if !slices.Contains(d.chosen, id) {
			valid = append(valid, id)
		}
	}
	changed := !slices.Equal(valid, d.valid)
	d.valid = valid
	return changed
}

func (d *discard) options(e *Engine, _ *PendingResults) ChoiceOptions {
	labels := make([]string, len(d.valid))
	for i, id := range d.valid {
		labels[i] = e.cardName(id)
	}
	return labelled(Mandatory, labels)
}

func (d *discard) choose(e *Engine, p *PendingResults, choice Choice) bool {
	i, ok := choice.Index()
	switch {
	case ok && i >= 0 && i < len(d.valid):
		d.chosen = append(d.chosen, d.valid[i])
		d.recompute(e, p)
	case !ok && len(d.chosen)+len(d.valid) <= d.count:
		d.chosen = append(d.chosen, d.valid...)
		d.valid = nil
	default:
		return false
	}
	if len(d.chosen) < d.count && len(d.valid) > 0 {
		return false
	}
	for _, id := range d.chosen {
		p.pushSettled(Discard{Card: id})
	}
	return true
}
