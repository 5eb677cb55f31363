package game

import (
	"slices"

	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/restrictions"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// targeting says what a targeted effect may choose.
type targeting struct {
	restrictions       []card.Restriction
	spells             bool
	players            bool
	playerRestrictions []card.Restriction
}

func effectTargeting(eff card.Effect) targeting {
	return targeting{
		restrictions:       eff.Restrictions,
		spells:             eff.Kind == card.EffectCounterSpell,
		players:            eff.Players,
		playerRestrictions: eff.PlayerRestrictions,
	}
}

func enchantTargeting(enchant *card.Enchant) targeting {
	if enchant == nil {
		return targeting{}
	}
	return targeting{restrictions: enchant.Restrictions}
}

// validTargets lists every legal target for source in a stable order:
// stack entries bottom to top, then permanents, then players.
func (e *Engine) validTargets(source state.CardID, controller state.PlayerID, t targeting) []state.Target {
	session := e.Store.Log.Current()
	var out []state.Target
	if t.spells {
		for _, entry := range e.Store.Stack.Entries() {
			if entry.Kind != state.EntryCard || entry.Card == source {
				continue
			}
			if restrictions.Passes(e.Store, session, source, entry.Card, t.restrictions) {
				out = append(out, state.StackTarget(entry.ID))
			}
		}
		return out
	}
	for _, id := range e.Store.Battlefield() {
		if !e.canTarget(controller, id) {
			continue
		}
		if restrictions.Passes(e.Store, session, source, id, t.restrictions) {
			out = append(out, state.CardTarget(id))
		}
	}
	if t.players {
		for _, p := range e.Store.Players() {
			if p.Lost {
				continue
			}
			if restrictions.PlayerPasses(e.Store, source, p.ID, t.playerRestrictions) {
				out = append(out, state.PlayerTarget(p.ID))
			}
		}
	}
	return out
}

// canTarget applies shroud and hexproof (rules 702.18, 702.11).
func (e *Engine) canTarget(controller state.PlayerID, id state.CardID) bool {
	c := e.Store.MustCard(id)
	if c.Modified.HasKeyword(card.KeywordShroud) {
		return false
	}
	if c.Modified.HasKeyword(card.KeywordHexproof) && c.Controller != controller {
		return false
	}
	return true
}

func (e *Engine) isLegalTarget(source state.CardID, controller state.PlayerID, t targeting, target state.Target) bool {
	return slices.Contains(e.validTargets(source, controller, t), target)
}

func countOrOne(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// pushEffect turns one effect with its targets into committed actions and
// decisions.
func (e *Engine) pushEffect(p *PendingResults, source state.CardID, controller state.PlayerID, eff card.Effect, targets []state.Target) {
	switch eff.Kind {
	case card.EffectDealDamage:
		for _, t := range targets {
			p.pushSettled(DamageTarget{Source: source, Target: t, Amount: eff.Count})
		}

	case card.EffectDestroyTarget:
		for _, id := range cardTargets(targets) {
			p.pushSettled(PermanentToGraveyard{Card: id, Destroy: true})
		}

	case card.EffectDestroyEach:
		session := e.Store.Log.Current()
		for _, id := range e.Store.Battlefield() {
			if restrictions.Passes(e.Store, session, source, id, eff.Restrictions) {
				p.pushSettled(PermanentToGraveyard{Card: id, Destroy: true})
			}
		}

	case card.EffectExileTarget:
		for _, id := range cardTargets(targets) {
			p.pushSettled(ExileCard{Card: id, ExiledWith: source})
		}

	case card.EffectReturnToHand:
		for _, id := range cardTargets(targets) {
			p.pushSettled(ReturnToHand{Card: id})
		}

	case card.EffectCounterSpell:
		for _, t := range targets {
			if t.Kind == state.TargetStack {
				p.pushSettled(CounterSpell{Source: source, Target: t.Stack})
			}
		}

	case card.EffectModifyTarget:
		if ids := cardTargets(targets); len(ids) > 0 {
			p.pushSettled(ApplyModifier{Source: source, Modifier: eff.Modifier, Duration: eff.Duration, Targets: ids})
		}

	case card.EffectBattlefieldModifier:
		p.pushSettled(ApplyBattlefieldModifier{Source: source, Modifier: &card.BattlefieldModifier{
			Modifier:     *eff.Modifier,
			Duration:     eff.Duration,
			Restrictions: eff.Restrictions,
		}})

	case card.EffectTapTarget:
		for _, id := range cardTargets(targets) {
			if !e.Store.MustCard(id).Tapped {
				p.pushSettled(TapPermanent{Card: id})
			}
		}

	case card.EffectUntapTarget:
		for _, id := range cardTargets(targets) {
			p.pushSettled(UntapPermanent{Card: id})
		}

	case card.EffectAddCounters:
		if eff.Self {
			p.pushSettled(AddCounters{Source: source, Target: source, Counter: eff.Counter, Count: countOrOne(eff.Count)})
			return
		}
		for _, id := range cardTargets(targets) {
			p.pushSettled(AddCounters{Source: source, Target: id, Counter: eff.Counter, Count: countOrOne(eff.Count)})
		}

	case card.EffectDrawCards:
		p.pushSettled(DrawCards{Player: controller, Count: countOrOne(eff.Count)})

	case card.EffectGainLife:
		p.pushSettled(GainLife{Player: controller, Amount: eff.Count})

	case card.EffectLoseLife:
		for _, op := range e.Store.Opponents(controller) {
			if !op.Lost {
				p.pushSettled(LoseLife{Player: op.ID, Amount: eff.Count})
			}
		}

	case card.EffectCreateToken:
		p.pushSettled(CreateToken{Source: source, Player: controller, Token: eff.Token, Count: countOrOne(eff.Count)})

	case card.EffectCreateTokenCopy:
		for _, id := range cardTargets(targets) {
			p.pushSettled(CreateTokenCopy{Source: source, Player: controller, Of: id})
		}

	case card.EffectScry:
		p.push(&choosingScry{controller: controller, count: countOrOne(eff.Count)})

	case card.EffectDiscard:
		p.push(&discard{controller: controller, count: countOrOne(eff.Count), source: source})

	case card.EffectMill:
		p.pushSettled(Mill{Player: controller, Count: countOrOne(eff.Count)})

	case card.EffectDiscover:
		e.discover(p, source, controller, eff.Count)

	case card.EffectGainMana:
		p.pushSettled(GainMana{Player: controller, Mana: eff.Mana, Source: eff.ManaSource})

	default:
		e.logger.Warn("effect has no behavior",
			append(e.cardFields(source), zap.String("effect", string(eff.Kind)))...)
	}
}

func cardTargets(targets []state.Target) []state.CardID {
	var out []state.CardID
	for _, t := range targets {
		if t.Kind == state.TargetCard {
			out = append(out, t.Card)
		}
	}
	return out
}

// discover exiles cards from the top of the library until a nonland card
// with mana value n or less, which may be cast free or put into hand. The
// other exiled cards go to the bottom in a random order.
func (e *Engine) discover(p *PendingResults, source state.CardID, controller state.PlayerID, n int) {
	library := e.Store.Player(controller).Library.TopN(e.Store.Player(controller).Library.Len())
	var misses []state.CardID
	var hit state.CardID
	for _, id := range library {
		p.pushSettled(ExileCard{Card: id, ExiledWith: source})
		c := e.Store.MustCard(id)
		if !c.Face.HasType(card.TypeLand) && c.Face.Cost.CMC(0) <= n {
			hit = id
			break
		}
		misses = append(misses, id)
	}
	e.rng.Shuffle(len(misses), func(i, j int) { misses[i], misses[j] = misses[j], misses[i] })
	for _, id := range misses {
		p.pushSettled(PutOnBottom{Card: id})
	}
	if hit != 0 {
		p.push(&choosingCast{controller: controller, card: hit, source: source})
	}
}
