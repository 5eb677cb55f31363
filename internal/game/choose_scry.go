package game

import (
	"fmt"
	"slices"

	"github.com/magefree/mage-rules-go/internal/game/state"
)

// choosingScry looks at the top cards of a library and puts any number of
// them on the bottom (rule 701.18). Each pick sends one card to the
// bottom; None keeps the rest on top in their order.
type choosingScry struct {
	controller state.PlayerID
	count      int

	cards  []state.CardID
	loaded bool
	bottom []state.CardID
}

func (d *choosingScry) kind() DecisionKind { return DecisionChoosingScry }

func (d *choosingScry) player() state.PlayerID { return d.controller }

func (d *choosingScry) cancelable() bool { return false }

func (d *choosingScry) isEmpty() bool { return false }

func (d *choosingScry) description(*Engine) string {
	return fmt.Sprintf("scry %d: choose cards to put on the bottom", d.count)
}

func (d *choosingScry) recompute(*Engine, *PendingResults) bool { return false }

// load reads the library when the decision is first asked, after earlier
// actions of the same resolution were applied.
func (d *choosingScry) load(e *Engine) {
	if d.loaded {
		return
	}
	d.loaded = true
	d.cards = e.Store.Player(d.controller).Library.TopN(d.count)
}

func (d *choosingScry) kept() []state.CardID {
	var out []state.CardID
	for _, id := range d.cards {
		if !slices.Contains(d.bottom, id) {
			out = append(out, id)
		}
	}
	return out
}

func (d *choosingScry) options(e *Engine, _ *PendingResults) ChoiceOptions {
	d.load(e)
	kept := d.kept()
	labels := make([]string, len(kept))
	for i, id := range kept {
		labels[i] = e.cardName(id)
	}
	return labelled(Optional, labels)
}

func (d *choosingScry) choose(e *Engine, p *PendingResults, choice Choice) bool {
	d.load(e)
	if i, ok := choice.Index(); ok {
		kept := d.kept()
		if i < 0 || i >= len(kept) {
			return false
		}
		d.bottom = append(d.bottom, kept[i])
		if len(d.kept()) > 0 {
			return false
		}
	}
	for _, id := range d.bottom {
		p.pushSettled(PutOnBottom{Card: id})
	}
	return true
}
