package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/mana"
	"github.com/magefree/mage-rules-go/internal/game/restrictions"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

var (
	ErrNotYourPriority   = errors.New("player does not have priority")
	ErrNotInHand         = errors.New("card is not in the player's hand")
	ErrNotALand          = errors.New("card is not a land")
	ErrIsALand           = errors.New("lands are played, not cast")
	ErrTiming            = errors.New("not allowed at this time")
	ErrLandAlreadyPlayed = errors.New("no land plays left this turn")
	ErrSplitSecond       = errors.New("a spell with split second is on the stack")
	ErrCannotPay         = errors.New("costs cannot be paid")
	ErrNoTargets         = errors.New("not enough valid targets")
	ErrNoSuchAbility     = errors.New("no such ability")
	ErrGameOver          = errors.New("game is over")
)

// sorceryTiming reports whether the player could cast a sorcery now
// (rule 307.1).
func (e *Engine) sorceryTiming(player state.PlayerID) bool {
	return e.Store.ActivePlayer() == player &&
		e.Store.Turn.CurrentStep().IsMain() &&
		e.Store.Stack.IsEmpty()
}

func (e *Engine) checkPriority(player state.PlayerID) error {
	if e.GameOver() {
		return ErrGameOver
	}
	if e.Store.PriorityPlayer() != player {
		return ErrNotYourPriority
	}
	return nil
}

// PlayLand plays a land from hand as a special action (rule 305).
func (e *Engine) PlayLand(player state.PlayerID, id state.CardID) (*PendingResults, error) {
	if err := e.checkLand(player, id); err != nil {
		return nil, err
	}
	e.Store.Player(player).LandsPlayedThisTurn++
	e.priority.Reset()
	e.logger.Info("land played", append(e.cardFields(id), zap.Int("player", int(player)))...)
	return e.MoveToBattlefield(id), nil
}

func (e *Engine) checkLand(player state.PlayerID, id state.CardID) error {
	if err := e.checkPriority(player); err != nil {
		return err
	}
	c, ok := e.Store.Card(id)
	if !ok || c.Location != card.LocationHand || c.Owner != player {
		return ErrNotInHand
	}
	if !c.Face.HasType(card.TypeLand) {
		return fmt.Errorf("play %s: %w", c.Face.Name, ErrNotALand)
	}
	if !e.sorceryTiming(player) {
		return fmt.Errorf("play %s: %w", c.Face.Name, ErrTiming)
	}
	if e.Store.Player(player).LandsPlayedThisTurn >= e.opts.LandsPerTurn {
		return ErrLandAlreadyPlayed
	}
	return nil
}

// Cast starts casting a spell from hand (rule 601.2). Nothing changes
// until the returned results are resolved to completion.
func (e *Engine) Cast(player state.PlayerID, id state.CardID) (*PendingResults, error) {
	if err := e.checkCast(player, id); err != nil {
		return nil, err
	}
	results, err := e.prepareCast(player, id, card.LocationHand, false)
	if err != nil {
		return nil, fmt.Errorf("cast %s: %w", e.cardName(id), err)
	}
	e.priority.Reset()
	return results, nil
}

func (e *Engine) checkCast(player state.PlayerID, id state.CardID) error {
	return e.checkCastFrom(player, id, e.Store.Player(player).Pool)
}

// checkCastFrom is checkCast with the mana available taken from pool.
func (e *Engine) checkCastFrom(player state.PlayerID, id state.CardID, pool *mana.Pool) error {
	if err := e.checkPriority(player); err != nil {
		return err
	}
	c, ok := e.Store.Card(id)
	if !ok || c.Location != card.LocationHand || c.Owner != player {
		return ErrNotInHand
	}
	name := c.Face.Name
	if c.Face.HasType(card.TypeLand) {
		return fmt.Errorf("cast %s: %w", name, ErrIsALand)
	}
	if e.Store.Stack.SplitSecond(e.Store) {
		return fmt.Errorf("cast %s: %w", name, ErrSplitSecond)
	}
	if !c.Face.IsInstantSpeed() && !e.sorceryTiming(player) {
		return fmt.Errorf("cast %s: %w", name, ErrTiming)
	}
	if !pool.CanPay(e.spellCost(player, c), 0) {
		return fmt.Errorf("cast %s: %w", name, ErrCannotPay)
	}
	return nil
}

// CanCast reports whether Cast would start for the card.
func (e *Engine) CanCast(player state.PlayerID, id state.CardID) bool {
	if e.checkCast(player, id) != nil {
		return false
	}
	_, err := e.prepareCast(player, id, card.LocationHand, false)
	return err == nil
}

// CanCastAfterTapping reports whether Cast would start for the card once
// the player's untapped tap-only mana abilities have been activated.
// Nothing is tapped.
func (e *Engine) CanCastAfterTapping(player state.PlayerID, id state.CardID) bool {
	if e.checkCastFrom(player, id, e.potentialPool(player)) != nil {
		return false
	}
	_, err := e.prepareCast(player, id, card.LocationHand, false)
	return err == nil
}

// potentialPool is a copy of the player's pool plus what the first usable
// tap-only mana ability of each of their permanents would add.
func (e *Engine) potentialPool(player state.PlayerID) *mana.Pool {
	pool := e.Store.Player(player).Pool.Clone()
	for _, id := range e.Store.Controlled(player) {
		c := e.Store.MustCard(id)
		for i, ma := range c.Modified.ManaAbilities {
			if !tapOnly(ma) || !e.CanActivate(player, id, len(c.Modified.Activated)+i) {
				continue
			}
			for _, m := range ma.Gain {
				pool.Add(m, ma.Source, 1)
			}
			break
		}
	}
	return pool
}

func tapOnly(ma *card.ManaAbility) bool {
	return ma.Cost.Tap && len(ma.Cost.Mana) == 0 && len(ma.Cost.Additional) == 0
}

// PlayableCards lists the cards in hand the player could play or cast
// right now.
func (e *Engine) PlayableCards(player state.PlayerID) []state.CardID {
	var out []state.CardID
	for _, id := range e.Store.Player(player).Hand.IDs() {
		if e.checkLand(player, id) == nil || e.CanCast(player, id) {
			out = append(out, id)
		}
	}
	return out
}

// spellCost is the printed cost less any reduction the caster qualifies
// for.
func (e *Engine) spellCost(player state.PlayerID, c *state.Card) mana.Costs {
	cost := c.Face.Cost
	reducer := c.Face.Reducer
	if reducer == nil {
		return cost
	}
	session := e.Store.Log.Current()
	for _, id := range e.Store.Controlled(player) {
		if restrictions.Passes(e.Store, session, c.ID, id, reducer.When) {
			return cost.Reduce(reducer.Reduction)
		}
	}
	return cost
}

// prepareCast builds the decisions for casting a card in the order of
// rule 601.2: modes, targets, then costs. Free casts skip the mana cost.
func (e *Engine) prepareCast(player state.PlayerID, id state.CardID, from card.Location, free bool) (*PendingResults, error) {
	c := e.Store.MustCard(id)
	face := c.Face
	results := e.newPending()
	results.addCardToStack(id, from)

	if face.IsModal() {
		results.push(&chooseModes{source: id, controller: player})
	} else {
		var first *chooseTargets
		for i, eff := range face.Effects {
			if eff.WantsTargets() == 0 {
				continue
			}
			if len(e.validTargets(id, player, effectTargeting(eff))) < eff.NeedsTargets() {
				return nil, ErrNoTargets
			}
			d := newChooseTargets(id, player, eff, i)
			if !face.ApplyIndividually && first != nil {
				d.follows = first
			}
			if first == nil {
				first = d
			}
			results.push(d)
		}
	}
	if face.IsAura() {
		if len(e.validTargets(id, player, enchantTargeting(face.Enchant))) == 0 {
			return nil, ErrNoTargets
		}
		results.push(newAuraTargets(id, player, face.Enchant, len(face.Effects)))
	}

	if err := e.pushCosts(results, id, player, face.AdditionalCosts); err != nil {
		return nil, err
	}
	if !free {
		if cost := e.spellCost(player, c); len(cost) > 0 {
			results.push(newSpendMana(player, id, cost))
		}
	}
	return results, nil
}

// pushCosts adds the decisions for additional costs. Life is paid without
// a choice.
func (e *Engine) pushCosts(results *PendingResults, source state.CardID, player state.PlayerID, costs []card.AdditionalCost) error {
	for _, ac := range costs {
		if ac.Kind == card.CostPayLife {
			if e.Store.Player(player).Life < ac.Count {
				return ErrCannotPay
			}
			results.pushSettled(PayLife{Player: player, Amount: ac.Count})
			continue
		}
		d := newPayWithCards(ac, source, player)
		if !d.feasible(e) {
			return ErrCannotPay
		}
		results.push(d)
	}
	return nil
}

// abilityAt returns the activated or mana ability at index. Activated
// abilities come first, then mana abilities.
func abilityAt(c *state.Card, index int) (*state.Activated, *card.ManaAbility, bool) {
	switch {
	case index < 0:
		return nil, nil, false
	case index < len(c.Modified.Activated):
		return &c.Modified.Activated[index], nil, true
	case index < len(c.Modified.Activated)+len(c.Modified.ManaAbilities):
		return nil, c.Modified.ManaAbilities[index-len(c.Modified.Activated)], true
	}
	return nil, nil, false
}

// Activate activates an ability of a permanent (rule 602). Mana abilities
// don't use the stack and may be activated under split second.
func (e *Engine) Activate(player state.PlayerID, id state.CardID, index int) (*PendingResults, error) {
	if err := e.checkActivate(player, id, index); err != nil {
		return nil, err
	}
	c := e.Store.MustCard(id)
	activated, manaAbility, _ := abilityAt(c, index)
	results := e.newPending()

	if manaAbility != nil {
		if err := e.pushAbilityCost(results, id, player, manaAbility.Cost); err != nil {
			return nil, err
		}
		results.pushSettled(GainMana{Player: player, Mana: manaAbility.Gain, Source: manaAbility.Source})
		return results, nil
	}

	ability := activated.Ability
	stacked := &state.StackAbility{
		Kind:        state.AbilityActivated,
		Effects:     ability.Effects,
		ApplyToSelf: ability.ApplyToSelf,
		Text:        ability.Text,
	}
	results.addAbilityToStack(id, stacked)
	if !ability.ApplyToSelf {
		var first *chooseTargets
		for i, eff := range ability.Effects {
			if eff.WantsTargets() == 0 {
				continue
			}
			if len(e.validTargets(id, player, effectTargeting(eff))) < eff.NeedsTargets() {
				return nil, ErrNoTargets
			}
			d := newChooseTargets(id, player, eff, i)
			if !c.Face.ApplyIndividually && first != nil {
				d.follows = first
			}
			if first == nil {
				first = d
			}
			results.push(d)
		}
	}
	if err := e.pushAbilityCost(results, id, player, ability.Cost); err != nil {
		return nil, err
	}
	e.priority.Reset()
	return results, nil
}

func (e *Engine) pushAbilityCost(results *PendingResults, id state.CardID, player state.PlayerID, cost card.AbilityCost) error {
	if cost.Tap {
		results.pushSettled(TapPermanent{Card: id})
	}
	if err := e.pushCosts(results, id, player, cost.Additional); err != nil {
		return err
	}
	if len(cost.Mana) > 0 {
		results.push(newSpendMana(player, 0, cost.Mana))
	}
	return nil
}

func (e *Engine) checkActivate(player state.PlayerID, id state.CardID, index int) error {
	if e.GameOver() {
		return ErrGameOver
	}
	c, ok := e.Store.Card(id)
	if !ok || c.Location != card.LocationBattlefield || c.Controller != player {
		return ErrNoSuchAbility
	}
	activated, manaAbility, ok := abilityAt(c, index)
	if !ok {
		return ErrNoSuchAbility
	}

	var cost card.AbilityCost
	extra := []card.Restriction(nil)
	origin := id
	if manaAbility != nil {
		cost = manaAbility.Cost
	} else {
		if err := e.checkPriority(player); err != nil {
			return err
		}
		if e.Store.Stack.SplitSecond(e.Store) {
			return ErrSplitSecond
		}
		if activated.Ability.SorcerySpeed && !e.sorceryTiming(player) {
			return ErrTiming
		}
		cost = activated.Ability.Cost
		extra = activated.Extra
		if activated.Origin != 0 {
			origin = activated.Origin
		}
	}

	session := e.Store.Log.Current()
	if !restrictions.Passes(e.Store, session, origin, id, append(append([]card.Restriction(nil), cost.Restrictions...), extra...)) {
		return fmt.Errorf("activate %s: %w", c.Modified.Name, ErrTiming)
	}
	if cost.Tap && (c.Tapped || (c.Modified.Types.Has(card.TypeCreature) && e.summoningSick(c))) {
		return fmt.Errorf("activate %s: %w", c.Modified.Name, ErrCannotPay)
	}
	if !e.Store.Player(player).Pool.CanPay(cost.Mana, 0) {
		return fmt.Errorf("activate %s: %w", c.Modified.Name, ErrCannotPay)
	}
	return nil
}

// CanActivate reports whether Activate would start for the ability.
func (e *Engine) CanActivate(player state.PlayerID, id state.CardID, index int) bool {
	return e.checkActivate(player, id, index) == nil
}

// ActivatableAbilities lists the indices of the card's abilities the
// player could activate right now.
func (e *Engine) ActivatableAbilities(player state.PlayerID, id state.CardID) []int {
	c, ok := e.Store.Card(id)
	if !ok {
		return nil
	}
	var out []int
	for i := 0; i < len(c.Modified.Activated)+len(c.Modified.ManaAbilities); i++ {
		if e.CanActivate(player, id, i) {
			out = append(out, i)
		}
	}
	return out
}

// TapForMana activates untapped tap-only mana abilities of the player's
// permanents until the pool can pay cost.
func (e *Engine) TapForMana(player state.PlayerID, cost mana.Costs) error {
	pool := e.Store.Player(player).Pool
	for _, id := range e.Store.Controlled(player) {
		if pool.CanPay(cost, 0) {
			return nil
		}
		c := e.Store.MustCard(id)
		for i, ma := range c.Modified.ManaAbilities {
			if !tapOnly(ma) {
				continue
			}
			if !e.wantsMana(pool, cost, ma.Gain) {
				continue
			}
			results, err := e.Activate(player, id, len(c.Modified.Activated)+i)
			if err != nil {
				continue
			}
			results.resolveDefaults()
			break
		}
	}
	if !pool.CanPay(cost, 0) {
		return ErrCannotPay
	}
	return nil
}

// wantsMana reports whether gaining gain brings the pool closer to paying
// cost.
func (e *Engine) wantsMana(pool *mana.Pool, cost mana.Costs, gain []mana.Mana) bool {
	need := make(map[mana.Mana]int)
	total := 0
	for _, c := range cost {
		switch c.Kind {
		case mana.CostGeneric:
			total += c.Generic
		case mana.CostX, mana.CostTwoX:
		default:
			m, _ := c.Mana()
			need[m]++
			total++
		}
	}
	short := false
	for m, n := range need {
		if pool.Count(m) < n {
			short = true
			for _, g := range gain {
				if g == m {
					return true
				}
			}
		}
	}
	return !short && pool.Total() < total
}
