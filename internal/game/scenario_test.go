package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/mana"
	"github.com/magefree/mage-rules-go/internal/game/rules"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

const (
	alice state.PlayerID = 1
	bob   state.PlayerID = 2
)

// scripted is a choice the scenario makes when a decision of kind comes
// up: the first option whose label starts with label.
type scripted struct {
	kind  DecisionKind
	label string
}

// scenario wraps an engine with helpers for setting up boards and driving
// pending results with scripted choices.
type scenario struct {
	t      *testing.T
	e      *Engine
	script []scripted
}

func newScenario(t *testing.T) *scenario {
	t.Helper()
	opts := DefaultOptions()
	opts.StartingHandSize = 0
	return newScenarioWith(t, opts)
}

func newScenarioWith(t *testing.T, opts Options) *scenario {
	t.Helper()
	return &scenario{t: t, e: NewEngine(opts, zaptest.NewLogger(t))}
}

// expect queues a choice for the next decision of kind.
func (s *scenario) expect(kind DecisionKind, label string) *scenario {
	s.script = append(s.script, scripted{kind: kind, label: label})
	return s
}

func (s *scenario) hand(player state.PlayerID, def *card.Definition) state.CardID {
	return s.e.Upload(def, player, card.LocationHand)
}

func (s *scenario) battlefield(player state.PlayerID, def *card.Definition) state.CardID {
	return s.e.Upload(def, player, card.LocationBattlefield)
}

func (s *scenario) library(player state.PlayerID, def *card.Definition) state.CardID {
	return s.e.Upload(def, player, card.LocationLibrary)
}

func (s *scenario) addMana(player state.PlayerID, m mana.Mana, n int) {
	s.e.Store.Player(player).Pool.Add(m, mana.SourceAny, n)
}

// drive resolves p to completion, answering decisions from the script.
// A decision that needs a choice the script doesn't have fails the test.
func (s *scenario) drive(p *PendingResults) {
	s.t.Helper()
	for i := 0; i < 1000; i++ {
		choice := None
		if kind, ok := p.Current(); ok && len(s.script) > 0 && s.script[0].kind == kind && p.awaitingChoice() {
			choice = s.pick(p, s.script[0].label)
			s.script = s.script[1:]
		}
		switch p.Resolve(choice) {
		case Complete:
			return
		case PendingChoice:
			if _, picked := choice.Index(); !picked {
				kind, _ := p.Current()
				s.t.Fatalf("unscripted %s decision: %s %v", kind, p.Description(), p.Options().Items)
			}
		}
	}
	s.t.Fatalf("resolution did not complete")
}

func (s *scenario) pick(p *PendingResults, label string) Choice {
	s.t.Helper()
	opts := p.Options()
	for _, o := range opts.Items {
		if strings.HasPrefix(o.Label, label) {
			return Pick(o.Index)
		}
	}
	s.t.Fatalf("no option %q in %v", label, opts.Items)
	return None
}

// cast casts a card from hand and drives the cast to completion.
func (s *scenario) cast(player state.PlayerID, id state.CardID) {
	s.t.Helper()
	p, err := s.e.Cast(player, id)
	require.NoError(s.t, err)
	s.drive(p)
}

// passBoth has every player pass once, resolving the top of the stack or
// ending the step.
func (s *scenario) passBoth() {
	s.t.Helper()
	for range s.e.Store.Players() {
		s.drive(s.e.PassPriority())
	}
}

// passUntil passes priority until the given step of the given turn.
func (s *scenario) passUntil(turn int, step rules.Step) {
	s.t.Helper()
	for i := 0; i < 500; i++ {
		if s.e.Store.TurnNumber() == turn && s.e.Store.Turn.CurrentStep() == step {
			return
		}
		s.drive(s.e.PassPriority())
	}
	s.t.Fatalf("never reached turn %d step %s", turn, step)
}

func (s *scenario) toMain() {
	s.t.Helper()
	s.passUntil(1, rules.StepMain1)
}

func (s *scenario) location(id state.CardID) card.Location {
	c, ok := s.e.Store.Card(id)
	if !ok {
		return ""
	}
	return c.Location
}

func (s *scenario) power(id state.CardID) int {
	s.t.Helper()
	p := s.e.Card(id).Modified.Power()
	require.NotNil(s.t, p)
	return *p
}

func (s *scenario) logKinds() []state.LogKind {
	var out []state.LogKind
	for _, e := range s.e.Store.Log.Entries() {
		out = append(out, e.Kind)
	}
	return out
}

func creatureType() []card.Restriction {
	return []card.Restriction{{Kind: card.RestrictOfType, Types: []card.Type{card.TypeCreature}}}
}

func forest() *card.Definition {
	return &card.Definition{
		Name:     "Forest",
		Types:    []card.Type{card.TypeBasic, card.TypeLand},
		Subtypes: []card.Subtype{card.SubtypeForest},
		ManaAbilities: []card.ManaAbility{{
			Cost: card.AbilityCost{Tap: true},
			Gain: []mana.Mana{mana.Green},
		}},
	}
}

func bears() *card.Definition {
	return &card.Definition{
		Name:      "Grizzly Bears",
		Cost:      mana.MustParseCost("{1}{G}"),
		Types:     []card.Type{card.TypeCreature},
		Subtypes:  []card.Subtype{"Bear"},
		Colors:    []card.Color{card.ColorGreen},
		Power:     card.Int(2),
		Toughness: card.Int(2),
	}
}

func vanilla(name string, power, toughness int, keywords ...card.Keyword) *card.Definition {
	def := &card.Definition{
		Name:      name,
		Types:     []card.Type{card.TypeCreature},
		Power:     card.Int(power),
		Toughness: card.Int(toughness),
		Keywords:  map[card.Keyword]int{},
	}
	for _, k := range keywords {
		def.Keywords[k] = 1
	}
	return def
}

func shock() *card.Definition {
	return &card.Definition{
		Name:  "Shock",
		Cost:  mana.MustParseCost("{R}"),
		Types: []card.Type{card.TypeInstant},
		Effects: []card.Effect{{
			Kind:    card.EffectDealDamage,
			Count:   2,
			Players: true,
		}},
	}
}

func giantGrowth() *card.Definition {
	return &card.Definition{
		Name:  "Giant Growth",
		Cost:  mana.MustParseCost("{G}"),
		Types: []card.Type{card.TypeInstant},
		Effects: []card.Effect{{
			Kind:         card.EffectModifyTarget,
			Restrictions: creatureType(),
			Modifier:     &card.ModifierSpec{AddPower: 3, AddToughness: 3},
			Duration:     card.UntilEndOfTurn,
		}},
	}
}

func counterspell() *card.Definition {
	return &card.Definition{
		Name:    "Counterspell",
		Cost:    mana.MustParseCost("{U}"),
		Types:   []card.Type{card.TypeInstant},
		Effects: []card.Effect{{Kind: card.EffectCounterSpell}},
	}
}

func suddenShock() *card.Definition {
	def := shock()
	def.Name = "Sudden Shock"
	def.Keywords = map[card.Keyword]int{card.KeywordSplitSecond: 1}
	return def
}

func rancor() *card.Definition {
	return &card.Definition{
		Name:     "Rancor",
		Cost:     mana.MustParseCost("{G}"),
		Types:    []card.Type{card.TypeEnchantment},
		Subtypes: []card.Subtype{card.SubtypeAura},
		Enchant: &card.Enchant{
			Restrictions: creatureType(),
			Modifiers:    []card.ModifierSpec{{AddPower: 2}},
		},
	}
}

func saproling() *card.Definition {
	return vanilla("Saproling", 1, 1)
}

func spawnSaproling() *card.Definition {
	return &card.Definition{
		Name:  "Spawn Saproling",
		Cost:  mana.MustParseCost("{G}"),
		Types: []card.Type{card.TypeSorcery},
		Effects: []card.Effect{{
			Kind:  card.EffectCreateToken,
			Count: 1,
			Token: saproling(),
		}},
	}
}

func doublingSeason() *card.Definition {
	return &card.Definition{
		Name:         "Doubling Season",
		Types:        []card.Type{card.TypeEnchantment},
		Replacements: []card.Replacement{{Kind: card.ReplaceTokenCreation}},
	}
}

// gainOnEnter gains life whenever another creature enters.
func gainOnEnter(name string, life int) *card.Definition {
	return &card.Definition{
		Name:  name,
		Types: []card.Type{card.TypeEnchantment},
		TriggeredAbilities: []card.TriggeredAbility{{
			Trigger: card.Trigger{
				Source: card.TriggerEntersBattlefield,
				Restrictions: append(creatureType(),
					card.Restriction{Kind: card.RestrictNotSelf}),
			},
			Effects: []card.Effect{{Kind: card.EffectGainLife, Count: life}},
			Text:    "gain life",
		}},
	}
}

// gainOnCast gains 1 life whenever its controller casts a spell.
func gainOnCast() *card.Definition {
	return &card.Definition{
		Name:  "Monastery Bell",
		Types: []card.Type{card.TypeArtifact},
		TriggeredAbilities: []card.TriggeredAbility{{
			Trigger: card.Trigger{
				Source:       card.TriggerCast,
				Restrictions: []card.Restriction{{Kind: card.RestrictController, Controller: card.ControllerSelf}},
			},
			Effects: []card.Effect{{Kind: card.EffectGainLife, Count: 1}},
		}},
	}
}

func sorcery(name string, cost string, effects ...card.Effect) *card.Definition {
	return &card.Definition{
		Name:    name,
		Cost:    mana.MustParseCost(cost),
		Types:   []card.Type{card.TypeSorcery},
		Effects: effects,
	}
}
