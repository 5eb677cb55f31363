package sim

import "github.com/magefree/mage-rules-go/internal/game"

// Policy answers pending decisions on behalf of the players.
type Policy interface {
	Choose(p *game.PendingResults) game.Choice
}

// FirstOption attacks with every creature that can, takes the first
// option when a pick is required and the default otherwise.
type FirstOption struct{}

// Choose implements Policy.
func (FirstOption) Choose(p *game.PendingResults) game.Choice {
	opts := p.Options()
	if opts.IsEmpty() {
		return game.None
	}
	kind, _ := p.Current()
	if kind == game.DecisionDeclaringAttackers || opts.Kind == game.Mandatory {
		return game.Pick(opts.Items[0].Index)
	}
	return game.None
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(p *game.PendingResults) game.Choice

// Choose implements Policy.
func (f PolicyFunc) Choose(p *game.PendingResults) game.Choice {
	return f(p)
}
