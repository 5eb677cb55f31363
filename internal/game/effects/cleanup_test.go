package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

func TestCleanupEndOfTurn(t *testing.T) {
	s := newStore()
	c := s.Upload(bear, 1, card.LocationBattlefield)
	eot := activeTargetModifier(s, c.ID, &card.ModifierSpec{AddPower: 1}, c.ID)
	lasting := NewTargetModifier(s, c.ID, &card.ModifierSpec{AddPower: 1}, card.Permanently, c.ID)
	Activate(s, lasting)

	removed := CleanupEndOfTurn(s)

	assert.Equal(t, []state.ModifierID{eot}, removed)
	_, ok := s.Modifier(eot)
	assert.False(t, ok)
	_, ok = s.Modifier(lasting)
	assert.True(t, ok)
}

func TestCleanupSourceLeft(t *testing.T) {
	s := newStore()
	src := s.Upload(bear, 1, card.LocationBattlefield)
	other := s.Upload(bear, 1, card.LocationBattlefield)
	mine := NewTargetModifier(s, src.ID, &card.ModifierSpec{AddPower: 1}, card.UntilSourceLeavesBattlefield, other.ID)
	theirs := NewTargetModifier(s, other.ID, &card.ModifierSpec{AddPower: 1}, card.UntilSourceLeavesBattlefield, src.ID)
	Activate(s, mine)
	Activate(s, theirs)

	assert.Equal(t, []state.ModifierID{mine}, CleanupSourceLeft(s, src.ID))
	_, ok := s.Modifier(theirs)
	assert.True(t, ok)
}

func TestCleanupUntapped(t *testing.T) {
	s := newStore()
	src := s.Upload(bear, 1, card.LocationBattlefield)
	id := NewTargetModifier(s, src.ID, &card.ModifierSpec{AddPower: 1}, card.UntilUntapped, src.ID)
	Activate(s, id)

	assert.Empty(t, CleanupEndOfTurn(s))
	assert.Equal(t, []state.ModifierID{id}, CleanupUntapped(s, src.ID))
}
