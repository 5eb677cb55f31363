package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/mage-rules-go/internal/game/card"
)

func TestStackLIFO(t *testing.T) {
	var s Stack
	a := s.Push(&StackEntry{Kind: EntryAbility, Card: 1})
	b := s.Push(&StackEntry{Kind: EntryCard, Card: 2})

	top, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, b, top.ID)

	found, ok := s.FindCard(2)
	require.True(t, ok)
	assert.Equal(t, b, found.ID)
	_, ok = s.FindCard(1)
	assert.False(t, ok, "abilities are not spells")

	popped, _ := s.Pop()
	assert.Equal(t, b, popped.ID)
	popped, _ = s.Pop()
	assert.Equal(t, a, popped.ID)
	assert.True(t, s.IsEmpty())
}

func TestStackReorder(t *testing.T) {
	var s Stack
	base := s.Push(&StackEntry{Card: 1})
	s.SettleAll()
	x := s.Push(&StackEntry{Card: 2})
	y := s.Push(&StackEntry{Card: 3})

	require.Len(t, s.Unsettled(), 2)
	s.Reorder([]StackID{y, x})

	var order []StackID
	for _, e := range s.Entries() {
		order = append(order, e.ID)
	}
	assert.Equal(t, []StackID{base, y, x}, order)
	assert.Empty(t, s.Unsettled())
	assert.Panics(t, func() { s.Reorder([]StackID{x}) })
}

func TestStackSplitSecond(t *testing.T) {
	store := NewStore([]string{"Alice"}, 20)
	def := &card.Definition{
		Name:     "Sudden Shock",
		Types:    []card.Type{card.TypeInstant},
		Keywords: map[card.Keyword]int{card.KeywordSplitSecond: 1},
	}
	c := store.Upload(def, 1, card.LocationStack)
	c.Modified.Keywords = map[card.Keyword]int{card.KeywordSplitSecond: 1}

	assert.False(t, store.Stack.SplitSecond(store))
	store.Stack.Push(&StackEntry{Kind: EntryCard, Card: c.ID})
	assert.True(t, store.Stack.SplitSecond(store))
	store.Stack.Push(&StackEntry{Kind: EntryAbility, Card: c.ID})
	assert.False(t, store.Stack.SplitSecond(store))
}
