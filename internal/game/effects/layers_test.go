package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/mana"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

var (
	bear = &card.Definition{
		Name:      "Grizzly Bears",
		Cost:      mana.MustParseCost("{1}{G}"),
		Types:     []card.Type{card.TypeCreature},
		Subtypes:  []card.Subtype{"Bear"},
		Power:     card.Int(2),
		Toughness: card.Int(2),
	}
	forest = &card.Definition{
		Name:     "Forest",
		Types:    []card.Type{card.TypeLand, card.TypeBasic},
		Subtypes: []card.Subtype{card.SubtypeForest},
	}
	anthem = &card.Definition{
		Name:  "Glorious Anthem",
		Cost:  mana.MustParseCost("{1}{W}{W}"),
		Types: []card.Type{card.TypeEnchantment},
		StaticAbilities: []card.StaticAbility{{
			Kind: card.StaticBattlefieldModifier,
			Modifier: &card.BattlefieldModifier{
				Modifier: card.ModifierSpec{
					EntireBattlefield: true,
					AddPower:          1,
					AddToughness:      1,
				},
				Restrictions: []card.Restriction{
					{Kind: card.RestrictController, Controller: card.ControllerSelf},
					{Kind: card.RestrictOfType, Types: []card.Type{card.TypeCreature}},
				},
			},
		}},
	}
	thopter = &card.Definition{
		Name:      "Gearsmith Thopter",
		Types:     []card.Type{card.TypeCreature},
		Power:     card.Int(1),
		Toughness: card.Int(1),
		StaticAbilities: []card.StaticAbility{{
			Kind:         card.StaticAddKeywordsIf,
			Keywords:     map[card.Keyword]int{card.KeywordFlying: 1},
			Restrictions: []card.Restriction{{Kind: card.RestrictOfType, Types: []card.Type{card.TypeArtifact}}},
		}},
	}
)

func newStore() *state.Store {
	return state.NewStore([]string{"Alice", "Bob"}, 20)
}

func activeTargetModifier(s *state.Store, source state.CardID, spec *card.ModifierSpec, targets ...state.CardID) state.ModifierID {
	id := NewTargetModifier(s, source, spec, card.UntilEndOfTurn, targets...)
	Activate(s, id)
	return id
}

func TestRecomputePrintedValues(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	c := s.Upload(bear, 1, card.LocationBattlefield)

	applied := ls.Recompute(s, c.ID)

	assert.Empty(t, applied)
	assert.Equal(t, "Grizzly Bears", c.Modified.Name)
	assert.True(t, c.Modified.Types.Has(card.TypeCreature))
	assert.True(t, c.Modified.Colors.Has(card.ColorGreen), "cost colors are card colors")
	require.NotNil(t, c.Modified.Power())
	assert.Equal(t, 2, *c.Modified.Power())
	assert.Equal(t, 2, *c.Modified.Toughness())
}

func TestRecomputeIsIdempotent(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	c := s.Upload(bear, 1, card.LocationBattlefield)
	s.Upload(anthem, 1, card.LocationBattlefield)
	s.Upload(forest, 1, card.LocationBattlefield)
	c.Counters.Add(counters.P1P1, 1)
	ls.RecomputeAll(s)

	for _, id := range s.CardIDs() {
		before := s.MustCard(id).Modified
		ls.Recompute(s, id)
		assert.Equal(t, before, s.MustCard(id).Modified, "card %d", id)
	}
	assert.Equal(t, 4, *c.Modified.Power())
}

func TestEmptyModifyingSetHasNoEffect(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	c := s.Upload(bear, 1, card.LocationBattlefield)
	activeTargetModifier(s, c.ID, &card.ModifierSpec{AddPower: 3})

	applied := ls.Recompute(s, c.ID)

	assert.Empty(t, applied)
	assert.Equal(t, 2, *c.Modified.Power())
}

func TestModifierScopedToTarget(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	a := s.Upload(bear, 1, card.LocationBattlefield)
	b := s.Upload(bear, 2, card.LocationBattlefield)
	id := activeTargetModifier(s, a.ID, &card.ModifierSpec{AddPower: 3, AddToughness: 3}, a.ID)

	ls.RecomputeAll(s)

	assert.Equal(t, 5, *a.Modified.Power())
	assert.Equal(t, 2, *b.Modified.Power())
	assert.Equal(t, []state.ModifierID{id}, ls.Recompute(s, a.ID))
}

func TestModifierAppliesAtMostOnce(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	c := s.Upload(bear, 1, card.LocationBattlefield)
	m := s.AddModifier(&state.Modifier{
		Source: c.ID,
		Spec: &card.ModifierSpec{
			AddTypes: []card.Type{card.TypeArtifact},
			AddPower: 1,
		},
		Restrictions: []card.Restriction{
			{Kind: card.RestrictNotOfType, Types: []card.Type{card.TypeArtifact}},
		},
	})
	mod, _ := s.Modifier(m)
	mod.Modify(c.ID)
	Activate(s, m)

	applied := ls.Recompute(s, c.ID)

	// The type change makes the restriction fail in later layers, but a
	// modifier that started applying keeps applying.
	assert.Equal(t, []state.ModifierID{m}, applied)
	assert.True(t, c.Modified.Types.Has(card.TypeArtifact))
	assert.Equal(t, 3, *c.Modified.Power())
}

func TestCountersFoldIntoPowerToughness(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	c := s.Upload(bear, 1, card.LocationBattlefield)

	c.Counters.Add(counters.P1P1, 3)
	ls.Recompute(s, c.ID)
	assert.Equal(t, 5, *c.Modified.Power())
	assert.Equal(t, 5, *c.Modified.Toughness())

	c.Counters.Add(counters.M1M1, 2)
	ls.Recompute(s, c.ID)
	assert.Equal(t, 3, *c.Modified.Power())
	assert.Equal(t, 3, *c.Modified.Toughness())
}

func TestKeywordGrantSeesEarlierTypeChange(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	c := s.Upload(thopter, 1, card.LocationBattlefield)

	ls.Recompute(s, c.ID)
	assert.False(t, c.Modified.HasKeyword(card.KeywordFlying))

	activeTargetModifier(s, c.ID, &card.ModifierSpec{AddTypes: []card.Type{card.TypeArtifact}}, c.ID)
	ls.Recompute(s, c.ID)
	assert.True(t, c.Modified.HasKeyword(card.KeywordFlying))
}

func TestKeywordGrantsStack(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	def := *bear
	def.Keywords = map[card.Keyword]int{card.KeywordFlying: 1}
	c := s.Upload(&def, 1, card.LocationBattlefield)
	grant := &card.ModifierSpec{AddKeywords: map[card.Keyword]int{card.KeywordFlying: 1}}
	activeTargetModifier(s, c.ID, grant, c.ID)
	activeTargetModifier(s, c.ID, grant, c.ID)

	ls.Recompute(s, c.ID)
	assert.Equal(t, 3, c.Modified.Keywords[card.KeywordFlying])

	ls.Recompute(s, c.ID)
	assert.Equal(t, 3, c.Modified.Keywords[card.KeywordFlying], "recompute starts from the printed count")
}

func TestStaticModifierFollowsSource(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	mine := s.Upload(bear, 1, card.LocationBattlefield)
	theirs := s.Upload(bear, 2, card.LocationBattlefield)
	a := s.Upload(anthem, 1, card.LocationBattlefield)

	ls.RecomputeAll(s)
	assert.Equal(t, 3, *mine.Modified.Power())
	assert.Equal(t, 2, *theirs.Modified.Power())
	assert.Len(t, s.OwnedBy(a.ID), 1)
	assert.Len(t, s.Modifiers(), 1)

	ls.RecomputeAll(s)
	assert.Len(t, s.Modifiers(), 1, "owned modifier is materialised once")

	s.Place(a.ID, card.LocationGraveyard)
	ls.RecomputeAll(s)
	assert.Equal(t, 2, *mine.Modified.Power())
	assert.Empty(t, s.OwnedBy(a.ID))
	assert.Empty(t, s.Modifiers())
}

func TestFaceDownIsVanillaTwoTwo(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	c := s.Upload(thopter, 1, card.LocationBattlefield)
	c.FaceDown = true

	ls.Recompute(s, c.ID)

	assert.Empty(t, c.Modified.Name)
	assert.Equal(t, []card.Type{card.TypeCreature}, c.Modified.Types.Sorted())
	assert.Empty(t, c.Modified.Static)
	assert.Equal(t, 2, *c.Modified.Power())
	assert.Equal(t, 2, *c.Modified.Toughness())
}

func TestTransformedUsesBackFace(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	front := *bear
	front.Back = &card.Definition{
		Name:      "Ursine Terror",
		Types:     []card.Type{card.TypeCreature},
		Colors:    []card.Color{card.ColorBlack},
		Power:     card.Int(4),
		Toughness: card.Int(4),
	}
	c := s.Upload(&front, 1, card.LocationBattlefield)
	c.Transformed = true

	ls.Recompute(s, c.ID)

	assert.Equal(t, "Ursine Terror", c.Modified.Name)
	assert.Equal(t, []card.Color{card.ColorBlack}, c.Modified.Colors.Sorted())
	assert.Equal(t, 4, *c.Modified.Power())
}

func TestBasicLandTypesGrantManaAbilities(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	c := s.Upload(forest, 1, card.LocationBattlefield)

	ls.Recompute(s, c.ID)
	require.Len(t, c.Modified.ManaAbilities, 1)
	assert.Equal(t, []mana.Mana{mana.Green}, c.Modified.ManaAbilities[0].Gain)

	activeTargetModifier(s, c.ID, &card.ModifierSpec{
		AddSubtypes: []card.Subtype{card.SubtypeIsland},
	}, c.ID)
	ls.Recompute(s, c.ID)
	assert.Len(t, c.Modified.ManaAbilities, 2)

	activeTargetModifier(s, c.ID, &card.ModifierSpec{RemoveAllAbilities: true}, c.ID)
	ls.Recompute(s, c.ID)
	assert.Empty(t, c.Modified.ManaAbilities)
}

func TestColorPasses(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	c := s.Upload(bear, 1, card.LocationBattlefield)

	activeTargetModifier(s, c.ID, &card.ModifierSpec{
		AddColors: []card.Color{card.ColorColorless, card.ColorRed},
	}, c.ID)
	ls.Recompute(s, c.ID)
	assert.Equal(t, []card.Color{card.ColorGreen, card.ColorRed}, c.Modified.Colors.Sorted())

	activeTargetModifier(s, c.ID, &card.ModifierSpec{RemoveAllColors: true}, c.ID)
	ls.Recompute(s, c.ID)
	assert.Empty(t, c.Modified.Colors)
}

func TestBasePowerOverrideThenAdd(t *testing.T) {
	s := newStore()
	ls := NewLayerSystem(zap.NewNop())
	c := s.Upload(bear, 1, card.LocationBattlefield)
	activeTargetModifier(s, c.ID, &card.ModifierSpec{AddPower: 2}, c.ID)
	activeTargetModifier(s, c.ID, &card.ModifierSpec{
		BasePower:     card.Int(0),
		BaseToughness: card.Int(1),
	}, c.ID)

	ls.Recompute(s, c.ID)

	assert.Equal(t, 2, *c.Modified.Power())
	assert.Equal(t, 1, *c.Modified.Toughness())
}

func TestDeactivateClearsModifier(t *testing.T) {
	s := newStore()
	c := s.Upload(bear, 1, card.LocationBattlefield)
	temp := activeTargetModifier(s, c.ID, &card.ModifierSpec{AddPower: 1}, c.ID)
	kept := s.AddModifier(&state.Modifier{Source: c.ID, Spec: &card.ModifierSpec{AddPower: 1}})
	m, _ := s.Modifier(kept)
	m.Modify(c.ID)
	Activate(s, kept)

	Deactivate(s, temp)
	Deactivate(s, kept)

	_, ok := s.Modifier(temp)
	assert.False(t, ok)
	m, ok = s.Modifier(kept)
	require.True(t, ok)
	assert.False(t, m.Active)
	assert.Empty(t, m.Modifying)
}

func TestForgetCard(t *testing.T) {
	s := newStore()
	a := s.Upload(bear, 1, card.LocationBattlefield)
	b := s.Upload(bear, 1, card.LocationBattlefield)
	id := activeTargetModifier(s, a.ID, &card.ModifierSpec{AddPower: 1}, a.ID, b.ID)

	ForgetCard(s, a.ID)

	m, _ := s.Modifier(id)
	assert.Equal(t, []state.CardID{b.ID}, m.ModifyingIDs())
}
