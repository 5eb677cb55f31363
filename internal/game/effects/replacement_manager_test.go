package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-rules-go/internal/game/card"
)

func TestReplacementManager(t *testing.T) {
	doubler := &card.Definition{
		Name:  "Parallel Lives",
		Types: []card.Type{card.TypeEnchantment},
		Replacements: []card.Replacement{{
			Kind:         card.ReplaceTokenCreation,
			Restrictions: []card.Restriction{{Kind: card.RestrictController, Controller: card.ControllerSelf}},
		}},
	}
	hardened := &card.Definition{
		Name:  "Hardened Scales",
		Types: []card.Type{card.TypeEnchantment},
		Replacements: []card.Replacement{{
			Kind: card.ReplaceCounterPlacement,
			Restrictions: []card.Restriction{
				{Kind: card.RestrictController, Controller: card.ControllerSelf},
				{Kind: card.RestrictOfType, Types: []card.Type{card.TypeCreature}},
			},
		}},
	}

	s := newStore()
	ls := NewLayerSystem(nil)
	rm := NewReplacementManager(zaptest.NewLogger(t))
	s.Upload(doubler, 1, card.LocationBattlefield)
	s.Upload(doubler, 1, card.LocationBattlefield)
	s.Upload(hardened, 1, card.LocationBattlefield)
	mine := s.Upload(bear, 1, card.LocationBattlefield)
	theirs := s.Upload(bear, 2, card.LocationBattlefield)
	ls.RecomputeAll(s)

	t.Run("tokens", func(t *testing.T) {
		assert.Equal(t, 4, rm.TokenCount(s, mine.ID, 1))
		assert.Equal(t, 1, rm.TokenCount(s, theirs.ID, 1))
	})

	t.Run("counters", func(t *testing.T) {
		assert.Equal(t, 3, rm.CounterCount(s, mine.ID, 2))
		assert.Equal(t, 2, rm.CounterCount(s, theirs.ID, 2))
		assert.Equal(t, 0, rm.CounterCount(s, mine.ID, 0))
	})
}
