package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/effects"
	"github.com/magefree/mage-rules-go/internal/game/mana"
	"github.com/magefree/mage-rules-go/internal/game/restrictions"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// Action is a committed, fully decided change to the game. Applying one
// never asks a question; any follow-up choices come back as pending work.
// Preconditions were validated when the action was built, so a failed
// precondition is a bug and panics.
type Action interface {
	apply(e *Engine, results *PendingResults)
}

// Apply applies a batch of actions in order, then recomputes every card.
func (e *Engine) Apply(actions []Action) *PendingResults {
	results := e.newPending()
	for _, a := range actions {
		e.logger.Debug("applying action",
			zap.String("game_id", e.ID),
			zap.String("action", fmt.Sprintf("%T", a)))
		a.apply(e, results)
	}
	e.layers.RecomputeAll(e.Store)
	return results
}

// CastCard moves a spell to the stack with its choices.
type CastCard struct {
	Card    state.CardID
	Targets [][]state.Target
	Modes   []int
	From    card.Location
	X       int
}

func (a CastCard) apply(e *Engine, results *PendingResults) {
	results.Extend(e.pushCard(a.Card, a.From, a.Targets, a.Modes, a.X))
}

// AddAbilityToStack pushes an activated, triggered or ETB ability.
type AddAbilityToStack struct {
	Source  state.CardID
	Ability *state.StackAbility
	Targets [][]state.Target
}

func (a AddAbilityToStack) apply(e *Engine, results *PendingResults) {
	results.Extend(e.pushAbilityEntry(a.Source, a.Ability, a.Targets))
}

// SpendMana removes exactly the listed mana from a pool and records the
// sources against the card it paid for, if any.
type SpendMana struct {
	Player state.PlayerID
	Spent  []mana.Spent
	For    state.CardID
}

func (a SpendMana) apply(e *Engine, _ *PendingResults) {
	pool := e.Store.Player(a.Player).Pool
	if !mana.ExecutePayment(&mana.PaymentPlan{Spent: a.Spent}, pool) {
		panic(fmt.Sprintf("player %d cannot spend %v from %s", a.Player, a.Spent, pool))
	}
	if a.For == 0 {
		return
	}
	c, ok := e.Store.Card(a.For)
	if !ok {
		return
	}
	if c.ManaFrom == nil {
		c.ManaFrom = make(map[mana.Source]int)
	}
	for _, s := range a.Spent {
		c.ManaFrom[s.Source]++
	}
}

// TapPermanent taps an untapped permanent.
type TapPermanent struct {
	Card state.CardID
}

func (a TapPermanent) apply(e *Engine, results *PendingResults) {
	c := e.Store.MustCard(a.Card)
	if c.Tapped {
		panic(fmt.Sprintf("card %d is already tapped", a.Card))
	}
	c.Tapped = true
	e.Store.Log.Record(state.LogEntry{Kind: state.LogTapped, Card: a.Card, Controller: c.Controller})
	results.Extend(e.fire(card.TriggerTapped, a.Card, c.Location))
}

// UntapPermanent untaps a permanent and ends effects lasting while it
// stays tapped.
type UntapPermanent struct {
	Card state.CardID
}

func (a UntapPermanent) apply(e *Engine, _ *PendingResults) {
	c := e.Store.MustCard(a.Card)
	c.Tapped = false
	effects.CleanupUntapped(e.Store, a.Card)
}

// PermanentToGraveyard puts a permanent into its owner's graveyard.
// Destroy marks destruction, which indestructible permanents ignore.
type PermanentToGraveyard struct {
	Card    state.CardID
	Destroy bool
}

func (a PermanentToGraveyard) apply(e *Engine, results *PendingResults) {
	c, ok := e.Store.Card(a.Card)
	if !ok || c.Location != card.LocationBattlefield {
		return
	}
	if a.Destroy && c.Modified.HasKeyword(card.KeywordIndestructible) {
		return
	}
	results.Extend(e.MoveToGraveyard(a.Card))
}

// StackToGraveyard puts a spell that left the stack into the graveyard.
type StackToGraveyard struct {
	Card state.CardID
}

func (a StackToGraveyard) apply(e *Engine, results *PendingResults) {
	results.Extend(e.MoveToGraveyard(a.Card))
}

// Discard puts a card from hand into the graveyard.
type Discard struct {
	Card state.CardID
}

func (a Discard) apply(e *Engine, results *PendingResults) {
	c := e.Store.MustCard(a.Card)
	if c.Location != card.LocationHand {
		panic(fmt.Sprintf("card %d is not in hand", a.Card))
	}
	e.Store.Log.Record(state.LogEntry{Kind: state.LogDiscarded, Card: a.Card, Player: c.Owner})
	results.Extend(e.MoveToGraveyard(a.Card))
}

// ExileCard exiles a card from any zone.
type ExileCard struct {
	Card       state.CardID
	ExiledWith state.CardID
}

func (a ExileCard) apply(e *Engine, results *PendingResults) {
	if _, ok := e.Store.Card(a.Card); !ok {
		return
	}
	results.Extend(e.MoveToExile(a.Card, a.ExiledWith))
}

// ReturnToHand returns a card to its owner's hand.
type ReturnToHand struct {
	Card state.CardID
}

func (a ReturnToHand) apply(e *Engine, results *PendingResults) {
	if _, ok := e.Store.Card(a.Card); !ok {
		return
	}
	results.Extend(e.MoveToHand(a.Card))
}

// PutOnBottom puts a card on the bottom of its owner's library.
type PutOnBottom struct {
	Card state.CardID
}

func (a PutOnBottom) apply(e *Engine, results *PendingResults) {
	results.Extend(e.MoveToLibrary(a.Card, true))
}

// AddToBattlefield puts a card onto the battlefield, attached to AttachTo
// when it is an aura.
type AddToBattlefield struct {
	Card     state.CardID
	AttachTo state.CardID
}

func (a AddToBattlefield) apply(e *Engine, results *PendingResults) {
	results.Extend(e.MoveToBattlefield(a.Card))
	if a.AttachTo != 0 {
		ApplyAuraToTarget{Aura: a.Card, Target: a.AttachTo}.apply(e, results)
	}
}

// ApplyAuraToTarget attaches an aura and starts its modifiers on the
// enchanted permanent.
type ApplyAuraToTarget struct {
	Aura   state.CardID
	Target state.CardID
}

func (a ApplyAuraToTarget) apply(e *Engine, _ *PendingResults) {
	aura := e.Store.MustCard(a.Aura)
	aura.AttachedTo = a.Target
	enchant := aura.Face.Enchant
	if enchant == nil {
		return
	}
	for i := range enchant.Modifiers {
		id := effects.NewTargetModifier(e.Store, a.Aura, &enchant.Modifiers[i], card.UntilSourceLeavesBattlefield, a.Target)
		effects.Activate(e.Store, id)
	}
}

// DamageTarget deals damage to a permanent or a player. A lifelink source
// also gains its controller that much life.
type DamageTarget struct {
	Source state.CardID
	Target state.Target
	Amount int
}

func (a DamageTarget) apply(e *Engine, _ *PendingResults) {
	if a.Amount <= 0 {
		return
	}
	switch a.Target.Kind {
	case state.TargetCard:
		c, ok := e.Store.Card(a.Target.Card)
		if !ok || c.Location != card.LocationBattlefield {
			return
		}
		c.Damage += a.Amount
	case state.TargetPlayer:
		e.Store.Player(a.Target.Player).Life -= a.Amount
	default:
		panic(fmt.Sprintf("cannot damage %s", a.Target))
	}
	if src, ok := e.Store.Card(a.Source); ok && src.Modified.HasKeyword(card.KeywordLifelink) {
		GainLife{Player: src.Controller, Amount: a.Amount}.apply(e, nil)
	}
}

// AddCounters places counters, after replacement effects.
type AddCounters struct {
	Source  state.CardID
	Target  state.CardID
	Counter counters.Kind
	Count   int
}

func (a AddCounters) apply(e *Engine, _ *PendingResults) {
	c, ok := e.Store.Card(a.Target)
	if !ok {
		return
	}
	c.Counters.Add(a.Counter, e.replacements.CounterCount(e.Store, a.Target, a.Count))
}

// ApplyModifier starts a modifier on specific cards.
type ApplyModifier struct {
	Source   state.CardID
	Modifier *card.ModifierSpec
	Duration card.Duration
	Targets  []state.CardID
}

func (a ApplyModifier) apply(e *Engine, _ *PendingResults) {
	id := effects.NewTargetModifier(e.Store, a.Source, a.Modifier, a.Duration, a.Targets...)
	effects.Activate(e.Store, id)
}

// ApplyBattlefieldModifier starts a modifier on every permanent passing
// its restrictions.
type ApplyBattlefieldModifier struct {
	Source   state.CardID
	Modifier *card.BattlefieldModifier
}

func (a ApplyBattlefieldModifier) apply(e *Engine, _ *PendingResults) {
	id := effects.NewModifier(e.Store, a.Source, a.Modifier, true)
	effects.Activate(e.Store, id)
}

// CounterSpell removes a stack entry without resolving it. Spells that
// can't be countered stay.
type CounterSpell struct {
	Source state.CardID
	Target state.StackID
}

func (a CounterSpell) apply(e *Engine, results *PendingResults) {
	entry, ok := e.Store.Stack.Get(a.Target)
	if !ok {
		return
	}
	if entry.Kind == state.EntryCard && e.cantBeCountered(entry.Card) {
		e.logger.Debug("spell can't be countered", e.cardFields(entry.Card)...)
		return
	}
	e.Store.Stack.Remove(a.Target)
	if entry.Kind == state.EntryCard {
		results.Extend(e.MoveToGraveyard(entry.Card))
	}
	e.logger.Info("countered", e.cardFields(entry.Card)...)
}

func (e *Engine) cantBeCountered(spell state.CardID) bool {
	c := e.Store.MustCard(spell)
	if c.Face.CannotBeCountered {
		return true
	}
	session := e.Store.Log.Current()
	for _, source := range append(e.Store.Battlefield(), spell) {
		for _, sa := range e.Store.MustCard(source).Modified.Static {
			if sa.Kind != card.StaticCantBeCountered {
				continue
			}
			if restrictions.Passes(e.Store, session, source, spell, sa.Restrictions) {
				return true
			}
		}
	}
	return false
}

// DrawCards draws cards one at a time.
type DrawCards struct {
	Player state.PlayerID
	Count  int
}

func (a DrawCards) apply(e *Engine, _ *PendingResults) {
	for i := 0; i < a.Count; i++ {
		if _, ok := e.drawCard(a.Player); !ok {
			return
		}
	}
}

// GainLife adds life.
type GainLife struct {
	Player state.PlayerID
	Amount int
}

func (a GainLife) apply(e *Engine, _ *PendingResults) {
	if a.Amount <= 0 {
		return
	}
	p := e.Store.Player(a.Player)
	p.Life += a.Amount
	p.LifeGainedThisTurn += a.Amount
}

// LoseLife removes life.
type LoseLife struct {
	Player state.PlayerID
	Amount int
}

func (a LoseLife) apply(e *Engine, _ *PendingResults) {
	e.Store.Player(a.Player).Life -= a.Amount
}

// PayLife pays life as a cost. It was validated when the cost was built.
type PayLife struct {
	Player state.PlayerID
	Amount int
}

func (a PayLife) apply(e *Engine, _ *PendingResults) {
	p := e.Store.Player(a.Player)
	if p.Life < a.Amount {
		panic(fmt.Sprintf("player %d cannot pay %d life", a.Player, a.Amount))
	}
	p.Life -= a.Amount
}

// CreateToken creates Count tokens from a definition, multiplied by
// replacement effects.
type CreateToken struct {
	Source state.CardID
	Player state.PlayerID
	Token  *card.Definition
	Count  int
}

func (a CreateToken) apply(e *Engine, results *PendingResults) {
	e.createTokens(results, a.Player, a.Token, a.Count)
}

// CreateTokenCopy creates a token with the printed values of a permanent
// (rule 707.2).
type CreateTokenCopy struct {
	Source state.CardID
	Player state.PlayerID
	Of     state.CardID
}

func (a CreateTokenCopy) apply(e *Engine, results *PendingResults) {
	of, ok := e.Store.Card(a.Of)
	if !ok {
		return
	}
	e.createTokens(results, a.Player, of.Face, 1)
}

func (e *Engine) createTokens(results *PendingResults, player state.PlayerID, def *card.Definition, count int) {
	if count <= 0 {
		return
	}
	first := e.newToken(player, def)
	count = e.replacements.TokenCount(e.Store, first, count)
	ids := []state.CardID{first}
	for i := 1; i < count; i++ {
		ids = append(ids, e.newToken(player, def))
	}
	for _, id := range ids {
		results.Extend(e.MoveToBattlefield(id))
	}
	e.logger.Debug("created tokens",
		zap.String("game_id", e.ID),
		zap.String("token", def.Name),
		zap.Int("count", count))
}

func (e *Engine) newToken(player state.PlayerID, def *card.Definition) state.CardID {
	c := e.Store.Upload(def, player, card.LocationLimbo)
	c.Token = true
	e.layers.Recompute(e.Store, c.ID)
	return c.ID
}

// GainMana adds each listed mana once.
type GainMana struct {
	Player state.PlayerID
	Mana   []mana.Mana
	Source mana.Source
}

func (a GainMana) apply(e *Engine, _ *PendingResults) {
	pool := e.Store.Player(a.Player).Pool
	for _, m := range a.Mana {
		pool.Add(m, a.Source, 1)
	}
}

// Mill puts the top cards of a library into the graveyard.
type Mill struct {
	Player state.PlayerID
	Count  int
}

func (a Mill) apply(e *Engine, results *PendingResults) {
	for _, id := range e.Store.Player(a.Player).Library.TopN(a.Count) {
		results.Extend(e.MoveToGraveyard(id))
	}
}

// DeclareAttackers marks creatures as attacking. Creatures without
// vigilance tap.
type DeclareAttackers struct {
	Attackers []state.CardID
	Targets   []state.PlayerID
}

func (a DeclareAttackers) apply(e *Engine, results *PendingResults) {
	if len(a.Attackers) != len(a.Targets) {
		panic(fmt.Sprintf("%d attackers for %d targets", len(a.Attackers), len(a.Targets)))
	}
	for i, id := range a.Attackers {
		c := e.Store.MustCard(id)
		c.Attacking = a.Targets[i]
		if !c.Modified.HasKeyword(card.KeywordVigilance) && !c.Tapped {
			TapPermanent{Card: id}.apply(e, results)
		}
	}
	e.Store.AttackersThisTurn += len(a.Attackers)
	for _, id := range a.Attackers {
		results.Extend(e.fire(card.TriggerAttacks, id, card.LocationBattlefield))
	}
	if len(a.Attackers) > 0 {
		e.logger.Info("attackers declared",
			zap.String("game_id", e.ID),
			zap.Int("attackers", len(a.Attackers)))
	}
}

// EndCombat removes every creature from combat.
type EndCombat struct{}

func (EndCombat) apply(e *Engine, _ *PendingResults) {
	for _, id := range e.Store.Battlefield() {
		e.Store.MustCard(id).Attacking = 0
	}
}

// ReorderStack puts the unsettled stack entries in the chosen order.
type ReorderStack struct {
	Order []state.StackID
}

func (a ReorderStack) apply(e *Engine, _ *PendingResults) {
	e.Store.Stack.Reorder(a.Order)
}

// ChooseCard records that a card was chosen, for restrictions that ask.
type ChooseCard struct {
	Card state.CardID
}

func (a ChooseCard) apply(e *Engine, _ *PendingResults) {
	e.Store.Log.Record(state.LogEntry{Kind: state.LogCardChosen, Card: a.Card})
}

// EndTurnCleanup removes marked damage and ends until-end-of-turn
// effects (rule 514.2).
type EndTurnCleanup struct{}

func (EndTurnCleanup) apply(e *Engine, _ *PendingResults) {
	for _, id := range e.Store.Battlefield() {
		e.Store.MustCard(id).Damage = 0
	}
	effects.CleanupEndOfTurn(e.Store)
}

// PlayerLoses removes a player from the game.
type PlayerLoses struct {
	Player state.PlayerID
}

func (a PlayerLoses) apply(e *Engine, _ *PendingResults) {
	p := e.Store.Player(a.Player)
	if p.Lost {
		return
	}
	p.Lost = true
	e.priority.Eliminate(int(a.Player))
	e.logger.Info("player lost",
		zap.String("game_id", e.ID),
		zap.Int("player", int(a.Player)),
		zap.Int("life", p.Life))
}

// DeleteCard removes a card that has ceased to exist.
type DeleteCard struct {
	Card state.CardID
}

func (a DeleteCard) apply(e *Engine, _ *PendingResults) {
	effects.ForgetCard(e.Store, a.Card)
	var toRemove []state.ModifierID
	for _, m := range e.Store.Modifiers() {
		if m.Source == a.Card {
			toRemove = append(toRemove, m.ID)
		}
	}
	for _, id := range toRemove {
		e.Store.RemoveModifier(id)
	}
	e.Store.Delete(a.Card)
}
