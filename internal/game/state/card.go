package state

import (
	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/mana"
)

// Activated is an activated ability a card currently has. Abilities granted
// from another card keep that card as Origin and may carry extra
// activation restrictions.
type Activated struct {
	Ability *card.ActivatedAbility
	Origin  CardID
	Extra   []card.Restriction
}

// Characteristics are a card's current values after every continuous
// effect has been applied. Only the layering engine writes them.
type Characteristics struct {
	Name          string
	Cost          mana.Costs
	Types         card.Set[card.Type]
	Subtypes      card.Set[card.Subtype]
	Colors        card.Set[card.Color]
	Keywords      map[card.Keyword]int
	Triggers      []*card.TriggeredAbility
	ETB           []card.Effect
	Static        []*card.StaticAbility
	Activated     []Activated
	ManaAbilities []*card.ManaAbility
	Replacements  []*card.Replacement
	BasePower     *int
	BaseToughness *int
	AddPower      int
	AddToughness  int
}

// Power returns the current power, or nil if the card has none.
func (c *Characteristics) Power() *int {
	if c.BasePower == nil {
		return nil
	}
	p := *c.BasePower + c.AddPower
	return &p
}

// Toughness returns the current toughness, or nil if the card has none.
func (c *Characteristics) Toughness() *int {
	if c.BaseToughness == nil {
		return nil
	}
	t := *c.BaseToughness + c.AddToughness
	return &t
}

// HasKeyword reports whether the card currently has the keyword.
func (c *Characteristics) HasKeyword(k card.Keyword) bool {
	return c.Keywords[k] > 0
}

// IsPermanent reports whether any current type is a permanent type.
func (c *Characteristics) IsPermanent() bool {
	for t := range c.Types {
		if t.IsPermanent() {
			return true
		}
	}
	return false
}

// Card is the mutable record of one card instance.
type Card struct {
	ID   CardID
	Face *card.Definition

	Owner      PlayerID
	Controller PlayerID
	Location   card.Location

	Tapped      bool
	Revealed    bool
	FaceDown    bool
	Transformed bool
	Token       bool

	// Attacking is the player this card attacks, zero when not attacking.
	Attacking PlayerID
	Counters  counters.Counters
	Damage    int
	X         int
	// CastFrom is the zone the card was cast from, empty when not cast.
	CastFrom card.Location
	// ManaFrom records the sources of the mana spent to cast it.
	ManaFrom map[mana.Source]int

	EnteredBattlefieldTurn int
	CloningFrom            CardID
	AttachedTo             CardID
	ExiledWith             CardID

	Modified Characteristics
}

// IsAttacking reports whether the card is attacking.
func (c *Card) IsAttacking() bool {
	return c.Attacking != 0
}

// Reset clears everything a card forgets when it changes zones
// (rule 400.7). Face, owner, token status and location survive.
func (c *Card) Reset() {
	c.Controller = c.Owner
	c.Tapped = false
	c.Revealed = false
	c.FaceDown = false
	c.Transformed = false
	c.Attacking = 0
	c.Counters = counters.New()
	c.Damage = 0
	c.X = 0
	c.CastFrom = ""
	c.ManaFrom = nil
	c.EnteredBattlefieldTurn = 0
	c.CloningFrom = 0
	c.AttachedTo = 0
	c.ExiledWith = 0
}
