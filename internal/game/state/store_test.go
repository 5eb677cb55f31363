package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/mage-rules-go/internal/game/card"
)

var bears = &card.Definition{
	Name:      "Grizzly Bears",
	Types:     []card.Type{card.TypeCreature},
	Power:     card.Int(2),
	Toughness: card.Int(2),
}

func TestStoreUploadAndPlace(t *testing.T) {
	s := NewStore([]string{"Alice", "Bob"}, 20)

	c := s.Upload(bears, 1, card.LocationHand)
	assert.Equal(t, PlayerID(1), c.Controller)
	assert.Equal(t, []CardID{c.ID}, s.InZone(1, card.LocationHand))

	s.Place(c.ID, card.LocationBattlefield)
	assert.Empty(t, s.InZone(1, card.LocationHand))
	assert.Equal(t, []CardID{c.ID}, s.Battlefield())
	assert.Equal(t, []CardID{c.ID}, s.Controlled(1))
	assert.Empty(t, s.Controlled(2))

	s.Place(c.ID, card.LocationLimbo)
	assert.Empty(t, s.Battlefield())
	assert.Equal(t, []CardID{c.ID}, s.InZone(1, card.LocationLimbo))

	s.Delete(c.ID)
	_, ok := s.Card(c.ID)
	assert.False(t, ok)
	assert.Panics(t, func() { s.MustCard(c.ID) })
}

func TestStoreLibraryOrder(t *testing.T) {
	s := NewStore([]string{"Alice"}, 20)
	a := s.Upload(bears, 1, card.LocationLibrary)
	b := s.Upload(bears, 1, card.LocationLibrary)
	c := s.Upload(bears, 1, card.LocationHand)

	s.PlaceBottom(c.ID)
	lib := s.Player(1).Library
	top, ok := lib.Top()
	require.True(t, ok)
	assert.Equal(t, b.ID, top)
	assert.Equal(t, []CardID{b.ID, a.ID, c.ID}, lib.TopN(5))
}

func TestStoreModifiers(t *testing.T) {
	s := NewStore([]string{"Alice"}, 20)
	spec := &card.ModifierSpec{AddPower: 1}

	first := s.AddModifier(&Modifier{Spec: spec, Active: true})
	second := s.AddModifier(&Modifier{Spec: spec})
	assert.Len(t, s.Modifiers(), 2)
	assert.Len(t, s.ActiveModifiers(), 1)

	key := OwnedKey{Source: 1}
	s.SetOwned(key, second)
	got, ok := s.Owned(key)
	require.True(t, ok)
	assert.Equal(t, second, got)
	assert.Equal(t, []OwnedKey{key}, s.OwnedBy(1))

	s.RemoveModifier(second)
	_, ok = s.Owned(key)
	assert.False(t, ok, "removing a modifier drops its owner entry")
	assert.Len(t, s.Modifiers(), 1)
	assert.Equal(t, first, s.Modifiers()[0].ID)
}

func TestModifierScope(t *testing.T) {
	m := &Modifier{Spec: &card.ModifierSpec{}}
	assert.False(t, m.Affects(1, true), "empty modifying set affects nothing")

	m.Modify(1)
	assert.True(t, m.Affects(1, false))
	m.Forget(1)
	assert.False(t, m.Affects(1, false))

	m.Spec = &card.ModifierSpec{EntireBattlefield: true}
	assert.True(t, m.Affects(2, true))
	assert.False(t, m.Affects(2, false))

	m.Spec = &card.ModifierSpec{Global: true}
	assert.True(t, m.Affects(3, false))
}

func TestCardReset(t *testing.T) {
	s := NewStore([]string{"Alice", "Bob"}, 20)
	c := s.Upload(bears, 1, card.LocationBattlefield)
	c.Controller = 2
	c.Tapped = true
	c.Damage = 1
	c.Attacking = 2
	c.Counters.Add("+1/+1", 2)

	c.Reset()
	assert.Equal(t, PlayerID(1), c.Controller)
	assert.False(t, c.Tapped)
	assert.False(t, c.IsAttacking())
	assert.Zero(t, c.Damage)
	assert.Zero(t, c.Counters.Total())
}

func TestCharacteristicsPowerToughness(t *testing.T) {
	var ch Characteristics
	assert.Nil(t, ch.Power())
	ch.BasePower = card.Int(2)
	ch.BaseToughness = card.Int(3)
	ch.AddPower = 3
	ch.AddToughness = -1
	assert.Equal(t, 5, *ch.Power())
	assert.Equal(t, 2, *ch.Toughness())
}
