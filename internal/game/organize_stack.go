package game

import (
	"fmt"
	"slices"

	"github.com/magefree/mage-rules-go/internal/game/state"
)

// organizingStack orders abilities that were put on the stack together
// (rule 603.3b). Picks go from the bottom up; None keeps the default
// order, which puts the active player's abilities lowest.
type organizingStack struct {
	chooser state.PlayerID
	entries []state.StackID
	order   []state.StackID
}

// newOrganizingStack returns a decision when two or more stack entries
// are unsettled, and nil otherwise.
func newOrganizingStack(e *Engine) *organizingStack {
	unsettled := e.Store.Stack.Unsettled()
	if len(unsettled) < 2 {
		return nil
	}
	active := e.Store.ActivePlayer()
	ordered := slices.Clone(unsettled)
	slices.SortStableFunc(ordered, func(a, b *state.StackEntry) int {
		return apnapRank(e, active, a.Controller) - apnapRank(e, active, b.Controller)
	})
	d := &organizingStack{chooser: active}
	for _, entry := range ordered {
		d.entries = append(d.entries, entry.ID)
	}
	return d
}

// apnapRank is the seat distance from the active player.
func apnapRank(e *Engine, active, player state.PlayerID) int {
	n := len(e.Store.Players())
	return (int(player) - int(active) + n) % n
}

func (d *organizingStack) remaining() []state.StackID {
	var out []state.StackID
	for _, id := range d.entries {
		if !slices.Contains(d.order, id) {
			out = append(out, id)
		}
	}
	return out
}

func (d *organizingStack) kind() DecisionKind { return DecisionOrganizingStack }

func (d *organizingStack) player() state.PlayerID { return d.chooser }

func (d *organizingStack) cancelable() bool { return false }

func (d *organizingStack) isEmpty() bool { return false }

func (d *organizingStack) description(*Engine) string {
	return fmt.Sprintf("order %d abilities on the stack, lowest first", len(d.entries))
}

func (d *organizingStack) recompute(*Engine, *PendingResults) bool { return false }

func (d *organizingStack) options(e *Engine, _ *PendingResults) ChoiceOptions {
	rest := d.remaining()
	labels := make([]string, len(rest))
	for i, id := range rest {
		entry, ok := e.Store.Stack.Get(id)
		if !ok {
			labels[i] = fmt.Sprintf("stack#%d", id)
			continue
		}
		labels[i] = e.cardName(entry.Card)
		if entry.Ability != nil && entry.Ability.Text != "" {
			labels[i] += ": " + entry.Ability.Text
		}
	}
	return labelled(WithDefault, labels)
}

func (d *organizingStack) choose(_ *Engine, p *PendingResults, choice Choice) bool {
	rest := d.remaining()
	if i, ok := choice.Index(); ok {
		if i < 0 || i >= len(rest) {
			return false
		}
		d.order = append(d.order, rest[i])
		if len(d.order) < len(d.entries) {
			return false
		}
	} else {
		d.order = append(d.order, rest...)
	}
	p.pushSettled(ReorderStack{Order: d.order})
	return true
}
