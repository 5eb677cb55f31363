package restrictions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/mana"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

var (
	goblin = &card.Definition{
		Name:      "Goblin Piker",
		Cost:      mana.MustParseCost("{1}{R}"),
		Types:     []card.Type{card.TypeCreature},
		Subtypes:  []card.Subtype{"Goblin"},
		Colors:    []card.Color{card.ColorRed},
		Power:     card.Int(2),
		Toughness: card.Int(1),
	}
	elf = &card.Definition{
		Name:      "Llanowar Elves",
		Cost:      mana.MustParseCost("{G}"),
		Types:     []card.Type{card.TypeCreature},
		Subtypes:  []card.Subtype{"Elf"},
		Colors:    []card.Color{card.ColorGreen},
		Power:     card.Int(1),
		Toughness: card.Int(1),
	}
	forest = &card.Definition{
		Name:     "Forest",
		Types:    []card.Type{card.TypeLand, card.TypeBasic},
		Subtypes: []card.Subtype{card.SubtypeForest},
	}
)

// upload places a card and fills its modified characteristics straight
// from the definition, standing in for the layering engine.
func upload(s *state.Store, def *card.Definition, owner state.PlayerID, loc card.Location) *state.Card {
	c := s.Upload(def, owner, loc)
	c.Modified = state.Characteristics{
		Name:          def.Name,
		Cost:          def.Cost,
		Types:         card.NewSet(def.Types...),
		Subtypes:      card.NewSet(def.Subtypes...),
		Colors:        card.NewSet(def.Colors...),
		Keywords:      map[card.Keyword]int{},
		BasePower:     def.Power,
		BaseToughness: def.Toughness,
	}
	return c
}

func newStore() *state.Store {
	return state.NewStore([]string{"Alice", "Bob"}, 20)
}

func TestEmptyRestrictionsAlwaysPass(t *testing.T) {
	s := newStore()
	a := upload(s, goblin, 1, card.LocationHand)
	b := upload(s, forest, 2, card.LocationBattlefield)

	assert.True(t, Passes(s, 0, a.ID, b.ID, nil))
	assert.True(t, Passes(s, 0, b.ID, a.ID, []card.Restriction{}))
	assert.True(t, Passes(s, 0, 999, 998, nil), "empty list passes without touching the store")
}

func TestTypeAndColorClauses(t *testing.T) {
	s := newStore()
	src := upload(s, forest, 1, card.LocationBattlefield)
	g := upload(s, goblin, 1, card.LocationBattlefield)
	session := s.Log.Current()

	tests := []struct {
		name    string
		clauses []card.Restriction
		want    bool
	}{
		{"of type creature", []card.Restriction{{Kind: card.RestrictOfType, Types: []card.Type{card.TypeCreature}}}, true},
		{"of type land", []card.Restriction{{Kind: card.RestrictOfType, Types: []card.Type{card.TypeLand}}}, false},
		{"of subtype goblin", []card.Restriction{{Kind: card.RestrictOfType, Subtypes: []card.Subtype{"Goblin"}}}, true},
		{"of type empty lists", []card.Restriction{{Kind: card.RestrictOfType}}, true},
		{"not of type land", []card.Restriction{{Kind: card.RestrictNotOfType, Types: []card.Type{card.TypeLand}}}, true},
		{"not of subtype goblin", []card.Restriction{{Kind: card.RestrictNotOfType, Subtypes: []card.Subtype{"Goblin"}}}, false},
		{"red", []card.Restriction{{Kind: card.RestrictOfColor, Colors: []card.Color{card.ColorRed, card.ColorBlue}}}, true},
		{"green", []card.Restriction{{Kind: card.RestrictOfColor, Colors: []card.Color{card.ColorGreen}}}, false},
		{"cmc >= 2", []card.Restriction{{Kind: card.RestrictCmc, Comparison: &card.Comparison{Op: card.GreaterThanOrEqual, Value: 2}}}, true},
		{"power < 2", []card.Restriction{{Kind: card.RestrictPower, Comparison: &card.Comparison{Op: card.LessThan, Value: 2}}}, false},
		{"toughness <= 1", []card.Restriction{{Kind: card.RestrictToughness, Comparison: &card.Comparison{Op: card.LessThanOrEqual, Value: 1}}}, true},
		{"controller self", []card.Restriction{{Kind: card.RestrictController, Controller: card.ControllerSelf}}, true},
		{"controller opponent", []card.Restriction{{Kind: card.RestrictController, Controller: card.ControllerOpponent}}, false},
		{"not self", []card.Restriction{{Kind: card.RestrictNotSelf}}, true},
		{"self", []card.Restriction{{Kind: card.RestrictSelf}}, false},
		{"on battlefield", []card.Restriction{{Kind: card.RestrictOnBattlefield}}, true},
		{"in graveyard", []card.Restriction{{Kind: card.RestrictInGraveyard}}, false},
		{"non token", []card.Restriction{{Kind: card.RestrictNonToken}}, true},
		{"and short circuits", []card.Restriction{
			{Kind: card.RestrictOfType, Types: []card.Type{card.TypeLand}},
			{Kind: "NEVER_EVALUATED"},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Passes(s, session, src.ID, g.ID, tt.clauses))
		})
	}
}

func TestPowerFailsWithoutPower(t *testing.T) {
	s := newStore()
	land := upload(s, forest, 1, card.LocationBattlefield)
	clause := []card.Restriction{{Kind: card.RestrictPower, Comparison: &card.Comparison{Op: card.GreaterThanOrEqual, Value: 0}}}
	assert.False(t, Passes(s, 0, land.ID, land.ID, clause))
}

func TestPassesGivenUsesSnapshot(t *testing.T) {
	s := newStore()
	g := upload(s, goblin, 1, card.LocationBattlefield)
	attrs := Snapshot(g)
	attrs.Types = card.NewSet(card.TypeArtifact)

	clause := []card.Restriction{{Kind: card.RestrictOfType, Types: []card.Type{card.TypeArtifact}}}
	assert.False(t, Passes(s, 0, g.ID, g.ID, clause))
	assert.True(t, PassesGiven(s, 0, g.ID, g.ID, g.Controller, clause, attrs))
}

func TestCountersClause(t *testing.T) {
	s := newStore()
	g := upload(s, goblin, 1, card.LocationBattlefield)
	g.Counters.Add(counters.P1P1, 2)
	g.Counters.Add(counters.Charge, 1)

	twoPlus := []card.Restriction{{
		Kind:       card.RestrictNumberOfCountersOnThis,
		Counter:    counters.P1P1,
		Comparison: &card.Comparison{Op: card.GreaterThanOrEqual, Value: 2},
	}}
	assert.True(t, Passes(s, 0, g.ID, g.ID, twoPlus))

	anyThree := []card.Restriction{{
		Kind:       card.RestrictNumberOfCountersOnThis,
		Counter:    counters.Any,
		Comparison: &card.Comparison{Op: card.GreaterThanOrEqual, Value: 3},
	}}
	assert.True(t, Passes(s, 0, g.ID, g.ID, anyThree))
}

func TestSessionClauses(t *testing.T) {
	s := newStore()
	src := upload(s, goblin, 1, card.LocationBattlefield)
	spell := upload(s, elf, 1, card.LocationStack)

	justCast := []card.Restriction{{Kind: card.RestrictJustCast}}
	controllerJustCast := []card.Restriction{{Kind: card.RestrictControllerJustCast}}

	session := s.Log.Record(state.LogEntry{Kind: state.LogCast, Card: spell.ID})
	assert.True(t, Passes(s, session, src.ID, spell.ID, justCast))
	assert.True(t, Passes(s, session, src.ID, src.ID, controllerJustCast))
	assert.False(t, Passes(s, session, src.ID, src.ID, justCast))

	s.Log.Record(state.LogEntry{Kind: state.LogCardChosen, Card: spell.ID})
	assert.True(t, Passes(s, session, src.ID, spell.ID, []card.Restriction{{Kind: card.RestrictChosen}}))
	assert.False(t, Passes(s, session, src.ID, spell.ID, []card.Restriction{{Kind: card.RestrictNotChosen}}))

	later := s.Log.Record(state.LogEntry{Kind: state.LogSpellResolved, Card: spell.ID})
	assert.False(t, Passes(s, later, src.ID, spell.ID, justCast), "a new session forgets the cast")

	s.Log.Record(state.LogEntry{Kind: state.LogTargeted, Source: spell.ID, Card: src.ID})
	assert.True(t, Passes(s, later, src.ID, spell.ID, []card.Restriction{{Kind: card.RestrictTargetedBy}}))
}

func TestHistoricalClauses(t *testing.T) {
	s := newStore()
	src := upload(s, forest, 1, card.LocationBattlefield)
	g := upload(s, goblin, 1, card.LocationBattlefield)
	g.EnteredBattlefieldTurn = s.TurnNumber()

	entered := []card.Restriction{{
		Kind:         card.RestrictEnteredBattlefieldThisTurn,
		Count:        1,
		Restrictions: []card.Restriction{{Kind: card.RestrictOfType, Types: []card.Type{card.TypeCreature}}},
	}}
	assert.True(t, Passes(s, 0, src.ID, src.ID, entered))
	entered[0].Count = 2
	assert.False(t, Passes(s, 0, src.ID, src.ID, entered))

	s.Log.Record(state.LogEntry{Kind: state.LogNewTurn, Player: 1})
	left := []card.Restriction{{
		Kind:         card.RestrictLeftBattlefieldThisTurn,
		Count:        1,
		Restrictions: []card.Restriction{{Kind: card.RestrictNonToken}, {Kind: card.RestrictOfType, Types: []card.Type{card.TypeCreature}}},
	}}
	assert.False(t, Passes(s, 0, src.ID, src.ID, left))
	s.Log.Record(state.LogEntry{Kind: state.LogLeftBattlefield, Card: 77, Types: []card.Type{card.TypeCreature}})
	assert.True(t, Passes(s, 0, src.ID, src.ID, left))

	s.Player(1).LifeGainedThisTurn = 3
	assert.True(t, Passes(s, 0, src.ID, src.ID, []card.Restriction{{Kind: card.RestrictLifeGainedThisTurn, Count: 3}}))
	assert.False(t, Passes(s, 0, src.ID, src.ID, []card.Restriction{{Kind: card.RestrictDescendedThisTurn}}))
}

func TestControllerClauses(t *testing.T) {
	s := newStore()
	src := upload(s, elf, 1, card.LocationBattlefield)
	opp := upload(s, goblin, 2, card.LocationBattlefield)

	assert.True(t, Passes(s, 0, src.ID, src.ID, []card.Restriction{{Kind: card.RestrictControllerControlsBlackOrGreen}}))
	assert.False(t, Passes(s, 0, src.ID, opp.ID, []card.Restriction{{Kind: card.RestrictControllerControlsBlackOrGreen}}))
	assert.True(t, Passes(s, 0, src.ID, opp.ID, []card.Restriction{{Kind: card.RestrictController, Controller: card.ControllerOpponent}}))
	assert.True(t, Passes(s, 0, src.ID, src.ID, []card.Restriction{{Kind: card.RestrictDuringControllersTurn}}))
	assert.False(t, Passes(s, 0, src.ID, opp.ID, []card.Restriction{{Kind: card.RestrictDuringControllersTurn}}))
	assert.True(t, Passes(s, 0, src.ID, src.ID, []card.Restriction{{Kind: card.RestrictControllerHandEmpty}}))
}

func TestPlayerPasses(t *testing.T) {
	s := newStore()
	src := upload(s, goblin, 1, card.LocationStack)

	opponent := []card.Restriction{{Kind: card.RestrictController, Controller: card.ControllerOpponent}}
	assert.True(t, PlayerPasses(s, src.ID, 2, opponent))
	assert.False(t, PlayerPasses(s, src.ID, 1, opponent))
	assert.True(t, PlayerPasses(s, src.ID, 1, nil))
	assert.False(t, PlayerPasses(s, src.ID, 2, []card.Restriction{{Kind: card.RestrictOfType, Types: []card.Type{card.TypeCreature}}}))

	s.Player(2).Lost = true
	assert.False(t, PlayerPasses(s, src.ID, 2, nil))
}

func TestDynamicValue(t *testing.T) {
	s := newStore()
	src := upload(s, goblin, 1, card.LocationBattlefield)
	upload(s, elf, 1, card.LocationBattlefield)
	upload(s, forest, 1, card.LocationBattlefield)
	src.Counters.Add(counters.P1P1, 4)

	require.Equal(t, 4, DynamicValue(s, src.ID, &card.DynamicPT{Kind: card.DynamicCounters, Counter: counters.P1P1}))
	creatures := &card.DynamicPT{
		Kind:         card.DynamicPermanents,
		Restrictions: []card.Restriction{{Kind: card.RestrictOfType, Types: []card.Type{card.TypeCreature}}},
	}
	assert.Equal(t, 2, DynamicValue(s, src.ID, creatures))
}
