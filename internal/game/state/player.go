package state

import (
	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/mana"
)

// Player is a seat at the table with its zones and per-turn tallies.
type Player struct {
	ID   PlayerID
	Name string
	Life int
	Pool *mana.Pool

	Library   Zone
	Hand      Zone
	Graveyard Zone
	Exile     Zone

	LandsPlayedThisTurn  int
	LifeGainedThisTurn   int
	DescendedThisTurn    int
	DrewFromEmptyLibrary bool
	Lost                 bool
}

// Zone returns the player's container for loc. The battlefield and stack
// are shared and live on the store.
func (p *Player) Zone(loc card.Location) *Zone {
	switch loc {
	case card.LocationLibrary:
		return &p.Library
	case card.LocationHand:
		return &p.Hand
	case card.LocationGraveyard:
		return &p.Graveyard
	case card.LocationExile:
		return &p.Exile
	}
	return nil
}

// ResetTurn clears per-turn tallies at the start of a turn.
func (p *Player) ResetTurn() {
	p.LandsPlayedThisTurn = 0
	p.LifeGainedThisTurn = 0
	p.DescendedThisTurn = 0
}
