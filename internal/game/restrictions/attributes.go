package restrictions

import (
	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// Attributes is the snapshot of characteristics a clause reads. The
// layering engine passes partially computed snapshots; everyone else uses
// Snapshot.
type Attributes struct {
	Types     card.Set[card.Type]
	Subtypes  card.Set[card.Subtype]
	Keywords  map[card.Keyword]int
	Colors    card.Set[card.Color]
	Activated int
	Power     *int
	Toughness *int
}

// Snapshot captures a card's current modified characteristics.
func Snapshot(c *state.Card) Attributes {
	return Attributes{
		Types:     c.Modified.Types,
		Subtypes:  c.Modified.Subtypes,
		Keywords:  c.Modified.Keywords,
		Colors:    c.Modified.Colors,
		Activated: len(c.Modified.Activated),
		Power:     c.Modified.Power(),
		Toughness: c.Modified.Toughness(),
	}
}
