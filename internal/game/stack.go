package game

import (
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// pushAbility prepares an ability for the stack. Abilities with targets
// wait for their choices; the rest go straight on.
func (e *Engine) pushAbility(source state.CardID, ability *state.StackAbility) *PendingResults {
	results := e.newPending()
	c, ok := e.Store.Card(source)
	if !ok {
		return results
	}
	if !ability.ApplyToSelf {
		shared := !c.Face.ApplyIndividually
		var first *chooseTargets
		for i, eff := range ability.Effects {
			if eff.WantsTargets() == 0 {
				continue
			}
			d := newChooseTargets(source, c.Controller, eff, i)
			d.mandatory = ability.Kind != state.AbilityActivated
			if shared && first != nil {
				d.follows = first
			}
			if first == nil {
				first = d
			}
			results.push(d)
		}
	}
	if len(results.pending) == 0 {
		results.pushSettled(AddAbilityToStack{Source: source, Ability: ability})
		return results
	}
	results.addAbilityToStack(source, ability)
	return results
}

// pushAbilityEntry puts a fully chosen ability on the stack.
func (e *Engine) pushAbilityEntry(source state.CardID, ability *state.StackAbility, targets [][]state.Target) *PendingResults {
	results := e.newPending()
	c, ok := e.Store.Card(source)
	if !ok {
		return results
	}
	if e.Store.Stack.SplitSecond(e.Store) {
		e.logger.Warn("ability not put on the stack under split second", e.cardFields(source)...)
		return results
	}
	e.Store.Stack.Push(&state.StackEntry{
		Kind:       state.EntryAbility,
		Card:       source,
		Controller: c.Controller,
		Ability:    ability,
		Targets:    targets,
	})
	kind := state.LogEtbOrTriggered
	if ability.Kind == state.AbilityActivated {
		kind = state.LogActivated
	}
	e.Store.Log.Record(state.LogEntry{Kind: kind, Card: source, Player: c.Controller})
	e.logger.Debug("ability on the stack",
		append(e.cardFields(source), zap.String("kind", string(ability.Kind)))...)

	results.Extend(e.logTargets(source, targets))
	if ability.Kind == state.AbilityActivated {
		results.Extend(e.fire(card.TriggerAbilityActivated, source, c.Location))
	}
	return results
}

// pushCard moves a cast card onto the stack with its choices.
func (e *Engine) pushCard(id state.CardID, from card.Location, targets [][]state.Target, modes []int, x int) *PendingResults {
	results := e.newPending()
	if e.Store.Stack.SplitSecond(e.Store) {
		e.logger.Warn("spell not cast under split second", e.cardFields(id)...)
		return results
	}
	e.MoveToStack(id, from)
	c := e.Store.MustCard(id)
	c.X = x
	e.Store.Stack.Push(&state.StackEntry{
		Kind:       state.EntryCard,
		Card:       id,
		Controller: c.Controller,
		Targets:    targets,
		Modes:      modes,
		// Only triggers put on the stack together are ordered by the
		// player; a spell lands below them.
		Settled: true,
	})
	e.Store.Log.Record(state.LogEntry{Kind: state.LogCast, Card: id, Player: c.Controller})
	e.logger.Info("cast",
		append(e.cardFields(id),
			zap.Int("player", int(c.Controller)),
			zap.String("from", string(from)))...)

	results.Extend(e.logTargets(id, targets))
	results.Extend(e.fire(card.TriggerCast, id, from))
	return results
}

// stackEffects returns what a stack entry will do when it resolves, and
// the aura's enchant target list index when the entry is an aura spell.
func (e *Engine) stackEffects(entry *state.StackEntry) ([]card.Effect, int) {
	if entry.Kind == state.EntryAbility {
		return entry.Ability.Effects, -1
	}
	face := e.Store.MustCard(entry.Card).Face
	effs := face.SpellEffects(entry.Modes)
	if face.IsAura() {
		return effs, len(effs)
	}
	return effs, -1
}

// targetingAt returns how the entry's list at index i was chosen.
func targetingAt(entry *state.StackEntry, effs []card.Effect, aura, i int, face *card.Definition) targeting {
	if i == aura {
		return enchantTargeting(face.Enchant)
	}
	return effectTargeting(effs[i])
}

// ResolveTop resolves the topmost stack entry (rule 608). Targets that
// became illegal are dropped; an entry whose targets are all illegal does
// nothing and a spell goes to its owner's graveyard.
func (e *Engine) ResolveTop() *PendingResults {
	results := e.newPending()
	entry, ok := e.Store.Stack.Pop()
	if !ok {
		return results
	}
	e.Store.Stack.SettleAll()
	e.priority.Reset()
	results.applyInStages = true

	source := entry.Card
	controller := entry.Controller
	c, ok := e.Store.Card(source)
	if !ok {
		return results
	}
	effs, aura := e.stackEffects(entry)

	targets := make([][]state.Target, len(entry.Targets))
	had, kept := 0, 0
	for i, list := range entry.Targets {
		if i >= len(effs) && i != aura {
			continue
		}
		t := targetingAt(entry, effs, aura, i, c.Face)
		for _, target := range list {
			had++
			if e.isLegalTarget(source, controller, t, target) {
				targets[i] = append(targets[i], target)
				kept++
			}
		}
	}
	if had > 0 && kept == 0 {
		e.logger.Info("fizzled", e.cardFields(source)...)
		if entry.Kind == state.EntryCard {
			results.pushSettled(StackToGraveyard{Card: source})
		}
		return results
	}

	if entry.Kind == state.EntryCard {
		e.Store.Log.Record(state.LogEntry{Kind: state.LogSpellResolved, Card: source, Player: controller})
	} else {
		e.Store.Log.Record(state.LogEntry{Kind: state.LogAbilityResolved, Card: source, Player: controller})
	}
	e.logger.Info("resolving", e.cardFields(source)...)

	selfTarget := entry.Ability != nil && entry.Ability.ApplyToSelf
	for i, eff := range effs {
		var list []state.Target
		switch {
		case selfTarget:
			list = []state.Target{state.CardTarget(source)}
		case i < len(targets):
			list = targets[i]
		}
		if eff.WantsTargets() > 0 && len(list) == 0 && !selfTarget {
			continue
		}
		e.pushEffect(results, source, controller, eff, list)
	}

	if entry.Kind == state.EntryCard {
		if c.Face.IsPermanent() {
			var attachTo state.CardID
			if aura >= 0 && aura < len(targets) && len(targets[aura]) > 0 {
				attachTo = targets[aura][0].Card
			}
			results.pushSettled(AddToBattlefield{Card: source, AttachTo: attachTo})
		} else {
			results.pushSettled(StackToGraveyard{Card: source})
		}
	}
	return results
}
