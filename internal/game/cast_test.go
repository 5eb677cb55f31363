package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/mana"
	"github.com/magefree/mage-rules-go/internal/game/rules"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

func TestCastCreatureResolvesOntoBattlefield(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	id := s.hand(alice, bears())
	s.addMana(alice, mana.Green, 2)

	s.cast(alice, id)
	assert.Equal(t, card.LocationStack, s.location(id))
	assert.True(t, s.e.Store.Player(alice).Pool.IsEmpty())
	assert.Equal(t, card.LocationHand, s.e.Card(id).CastFrom)

	s.passBoth()
	c := s.e.Card(id)
	assert.Equal(t, card.LocationBattlefield, c.Location)
	assert.Equal(t, alice, c.Controller)
	assert.Equal(t, 1, c.EnteredBattlefieldTurn)
	assert.True(t, s.e.Store.Stack.IsEmpty())
	assert.Equal(t, 2, c.ManaFrom[mana.SourceAny])
	assert.Contains(t, s.logKinds(), state.LogCast)
	assert.Contains(t, s.logKinds(), state.LogSpellResolved)
}

func TestCastChecks(t *testing.T) {
	s := newScenario(t)
	id := s.hand(alice, bears())
	s.addMana(alice, mana.Green, 2)

	_, err := s.e.Cast(alice, id)
	assert.ErrorIs(t, err, ErrTiming, "creatures wait for a main phase")

	s.toMain()
	_, err = s.e.Cast(bob, id)
	assert.ErrorIs(t, err, ErrNotYourPriority)

	land := s.hand(alice, forest())
	_, err = s.e.Cast(alice, land)
	assert.ErrorIs(t, err, ErrIsALand)

	s.e.Store.Player(alice).Pool.Drain()
	_, err = s.e.Cast(alice, id)
	assert.ErrorIs(t, err, ErrCannotPay)
	assert.False(t, s.e.CanCast(alice, id))
}

func TestCastWithoutTargetsFails(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	id := s.hand(alice, giantGrowth())
	s.addMana(alice, mana.Green, 1)

	_, err := s.e.Cast(alice, id)
	assert.ErrorIs(t, err, ErrNoTargets)
	assert.Equal(t, card.LocationHand, s.location(id))
}

func TestPlayLand(t *testing.T) {
	s := newScenario(t)
	first := s.hand(alice, forest())
	second := s.hand(alice, forest())

	_, err := s.e.PlayLand(alice, first)
	assert.ErrorIs(t, err, ErrTiming)

	s.toMain()
	assert.ElementsMatch(t, []state.CardID{first, second}, s.e.PlayableCards(alice))

	p, err := s.e.PlayLand(alice, first)
	require.NoError(t, err)
	s.drive(p)
	assert.Equal(t, card.LocationBattlefield, s.location(first))

	_, err = s.e.PlayLand(alice, second)
	assert.ErrorIs(t, err, ErrLandAlreadyPlayed)
	assert.Empty(t, s.e.PlayableCards(alice))
}

func TestActivateManaAbility(t *testing.T) {
	s := newScenario(t)
	land := s.battlefield(alice, forest())

	assert.Equal(t, []int{0}, s.e.ActivatableAbilities(alice, land))
	p, err := s.e.Activate(alice, land, 0)
	require.NoError(t, err)
	s.drive(p)

	assert.True(t, s.e.Card(land).Tapped)
	assert.Equal(t, 1, s.e.Store.Player(alice).Pool.Count(mana.Green))
	assert.False(t, s.e.CanActivate(alice, land, 0), "tapped lands can't tap again")
	_, err = s.e.Activate(alice, land, 1)
	assert.ErrorIs(t, err, ErrNoSuchAbility)
}

func TestTapForManaPaysFromLands(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	s.battlefield(alice, forest())
	s.battlefield(alice, forest())
	s.battlefield(alice, forest())
	id := s.hand(alice, bears())

	require.NoError(t, s.e.TapForMana(alice, bears().Cost))
	assert.Equal(t, 2, s.e.Store.Player(alice).Pool.Total(), "stops once the cost is covered")
	s.cast(alice, id)
	assert.Equal(t, card.LocationStack, s.location(id))

	assert.ErrorIs(t, s.e.TapForMana(alice, mana.MustParseCost("{R}{R}")), ErrCannotPay)
}

func TestCanCastAfterTappingTapsNothing(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	lands := []state.CardID{s.battlefield(alice, forest()), s.battlefield(alice, forest())}
	bear := s.hand(alice, bears())
	bolt := s.hand(alice, shock())
	bounce := s.hand(alice, sorcery("Unsummon", "{G}", card.Effect{
		Kind:         card.EffectReturnToHand,
		Targets:      1,
		Restrictions: creatureType(),
	}))

	assert.False(t, s.e.CanCast(alice, bear), "nothing is tapped yet")
	assert.True(t, s.e.CanCastAfterTapping(alice, bear))
	assert.False(t, s.e.CanCastAfterTapping(alice, bolt), "forests can't make red")
	assert.False(t, s.e.CanCastAfterTapping(alice, bounce), "no creature to target")

	for _, id := range lands {
		assert.False(t, s.e.Card(id).Tapped)
	}
	assert.True(t, s.e.Store.Player(alice).Pool.IsEmpty())
}

func TestActivatedAbilityUsesTheStack(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	pinger := &card.Definition{
		Name:      "Prodigal Pyromancer",
		Types:     []card.Type{card.TypeCreature},
		Power:     card.Int(1),
		Toughness: card.Int(1),
		ActivatedAbilities: []card.ActivatedAbility{{
			Cost:    card.AbilityCost{Tap: true},
			Effects: []card.Effect{{Kind: card.EffectDealDamage, Count: 1, Players: true}},
		}},
	}
	id := s.battlefield(alice, pinger)

	p, err := s.e.Activate(alice, id, 0)
	require.NoError(t, err)
	s.expect(DecisionChooseTargets, "player Bob").drive(p)

	require.Equal(t, 1, s.e.Store.Stack.Len())
	top, _ := s.e.Store.Stack.Top()
	assert.Equal(t, state.EntryAbility, top.Kind)
	assert.True(t, s.e.Card(id).Tapped)

	s.passBoth()
	assert.Equal(t, 19, s.e.Store.Player(bob).Life)
	assert.Contains(t, s.logKinds(), state.LogAbilityResolved)
}

func TestSummoningSickCreatureCantTap(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	elf := &card.Definition{
		Name:      "Llanowar Elves",
		Types:     []card.Type{card.TypeCreature},
		Power:     card.Int(1),
		Toughness: card.Int(1),
		ManaAbilities: []card.ManaAbility{{
			Cost: card.AbilityCost{Tap: true},
			Gain: []mana.Mana{mana.Green},
		}},
	}
	id := s.battlefield(alice, elf)
	s.e.Card(id).EnteredBattlefieldTurn = s.e.Store.TurnNumber()

	_, err := s.e.Activate(alice, id, 0)
	assert.ErrorIs(t, err, ErrCannotPay)

	for _, p := range []state.PlayerID{alice, bob} {
		s.library(p, forest())
		s.library(p, forest())
	}
	s.passUntil(3, rules.StepUpkeep)
	assert.True(t, s.e.CanActivate(alice, id, 0))
}
