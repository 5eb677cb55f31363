package game

import (
	"fmt"
	"slices"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/mana"
	"github.com/magefree/mage-rules-go/internal/game/restrictions"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// spendMana pays a mana cost from the payer's pool. Picks pay colored
// symbols first, then generic, then X. None pays whatever is left
// automatically and fixes X at what was paid towards it.
type spendMana struct {
	payer   state.PlayerID
	forCard state.CardID
	cost    mana.Costs

	colored  []mana.Mana
	generic  int
	xFactor  int
	xPaid    int
	paid     []mana.Spent
	finished bool
}

func newSpendMana(payer state.PlayerID, forCard state.CardID, cost mana.Costs) *spendMana {
	d := &spendMana{payer: payer, forCard: forCard, cost: cost.Sorted()}
	for _, c := range d.cost {
		switch c.Kind {
		case mana.CostGeneric:
			d.generic += c.Generic
		case mana.CostX:
			d.xFactor = 1
		case mana.CostTwoX:
			d.xFactor = 2
		default:
			m, _ := c.Mana()
			d.colored = append(d.colored, m)
		}
	}
	return d
}

func (d *spendMana) kind() DecisionKind { return DecisionPayCosts }

func (d *spendMana) player() state.PlayerID { return d.payer }

func (d *spendMana) cancelable() bool { return true }

func (d *spendMana) isEmpty() bool { return len(d.cost) == 0 }

func (d *spendMana) recompute(*Engine, *PendingResults) bool { return false }

func (d *spendMana) description(*Engine) string {
	switch {
	case len(d.colored) > 0:
		return fmt.Sprintf("pay %s", d.cost)
	case d.generic > 0:
		return "pay generic mana"
	default:
		return "pay X"
	}
}

// remaining is the pool after what has been picked so far.
func (d *spendMana) remaining(e *Engine) *mana.Pool {
	trial := e.Store.Player(d.payer).Pool.Clone()
	mana.ExecutePayment(&mana.PaymentPlan{Spent: d.paid}, trial)
	return trial
}

func (d *spendMana) options(e *Engine, _ *PendingResults) ChoiceOptions {
	entries := d.remaining(e).Entries()
	labels := make([]string, len(entries))
	for i, en := range entries {
		labels[i] = fmt.Sprintf("{%s} from %s (%d)", en.Mana.Symbol(), en.Source, en.Count)
	}
	return labelled(WithDefault, labels)
}

func (d *spendMana) choose(e *Engine, p *PendingResults, choice Choice) bool {
	if i, ok := choice.Index(); ok {
		entries := d.remaining(e).Entries()
		if i < 0 || i >= len(entries) {
			return false
		}
		d.pick(entries[i])
		if len(d.colored) == 0 && d.generic == 0 && d.xFactor == 0 {
			d.finish(p)
			return true
		}
		return false
	}

	var rest mana.Costs
	for _, m := range d.colored {
		rest = append(rest, colorCost(m))
	}
	if d.generic > 0 {
		rest = append(rest, mana.Cost{Kind: mana.CostGeneric, Generic: d.generic})
	}
	spent, err := d.remaining(e).Pay(rest, 0)
	if err != nil {
		return false
	}
	d.paid = append(d.paid, spent...)
	d.colored, d.generic = nil, 0
	d.finish(p)
	return true
}

// pick spends one unit of an entry against the first symbol it can pay.
func (d *spendMana) pick(en mana.Entry) {
	spent := mana.Spent{Mana: en.Mana, Source: en.Source}
	if i := slices.Index(d.colored, en.Mana); i >= 0 {
		d.colored = slices.Delete(d.colored, i, i+1)
		d.paid = append(d.paid, spent)
		return
	}
	if d.generic > 0 {
		d.generic--
		d.paid = append(d.paid, spent)
		return
	}
	if d.xFactor > 0 {
		d.xPaid++
		d.paid = append(d.paid, spent)
	}
}

func (d *spendMana) finish(p *PendingResults) {
	if d.finished {
		return
	}
	d.finished = true
	if d.xFactor > 0 {
		p.x = d.xPaid / d.xFactor
	}
	p.pushSettled(SpendMana{Player: d.payer, Spent: d.paid, For: d.forCard})
}

func colorCost(m mana.Mana) mana.Cost {
	for _, k := range []mana.CostKind{mana.CostWhite, mana.CostBlue, mana.CostBlack, mana.CostRed, mana.CostGreen, mana.CostColorless} {
		if have, _ := (mana.Cost{Kind: k}).Mana(); have == m {
			return mana.Cost{Kind: k}
		}
	}
	panic(fmt.Sprintf("no cost symbol for %s", m))
}

// payWithCards pays a cost by choosing cards: sacrificing, tapping,
// exiling or discarding them.
type payWithCards struct {
	cost       card.AdditionalCost
	source     state.CardID
	controller state.PlayerID

	valid  []state.CardID
	chosen []state.CardID
}

func newPayWithCards(cost card.AdditionalCost, source state.CardID, controller state.PlayerID) *payWithCards {
	return &payWithCards{cost: cost, source: source, controller: controller}
}

func (d *payWithCards) kind() DecisionKind { return DecisionPayCosts }

func (d *payWithCards) player() state.PlayerID { return d.controller }

func (d *payWithCards) cancelable() bool { return true }

func (d *payWithCards) isEmpty() bool { return false }

func (d *payWithCards) description(e *Engine) string {
	switch d.cost.Kind {
	case card.CostSacrificePermanent:
		return "choose a permanent to sacrifice"
	case card.CostTapPermanent:
		return "choose a permanent to tap"
	case card.CostTapPermanentsPowerX:
		return fmt.Sprintf("tap creatures with total power %d or more", d.cost.Count)
	case card.CostExilePermanentsCmcX:
		return fmt.Sprintf("exile permanents with total mana value %d or more", d.cost.Count)
	case card.CostExileCards:
		return fmt.Sprintf("exile %d to %d cards from your graveyard", d.cost.Count, d.maximum())
	default:
		return "choose a card to discard"
	}
}

// candidates lists the cards that could pay the cost, ignoring choices.
func (d *payWithCards) candidates(e *Engine) []state.CardID {
	var pool []state.CardID
	switch d.cost.Kind {
	case card.CostExileCards:
		pool = e.Store.Player(d.controller).Graveyard.IDs()
	case card.CostDiscardCard:
		pool = e.Store.Player(d.controller).Hand.IDs()
	default:
		pool = e.Store.Controlled(d.controller)
	}

	session := e.Store.Log.Current()
	var out []state.CardID
	for _, id := range pool {
		if id == d.source {
			continue
		}
		c := e.Store.MustCard(id)
		switch d.cost.Kind {
		case card.CostTapPermanent, card.CostTapPermanentsPowerX:
			if c.Tapped {
				continue
			}
		}
		if d.cost.Kind == card.CostTapPermanentsPowerX && !c.Modified.Types.Has(card.TypeCreature) {
			continue
		}
		if !restrictions.Passes(e.Store, session, d.source, id, d.cost.Restrictions) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// feasible reports whether the cost could be paid at all.
func (d *payWithCards) feasible(e *Engine) bool {
	all := d.candidates(e)
	switch d.cost.Kind {
	case card.CostTapPermanentsPowerX:
		return d.total(e, all) >= d.cost.Count
	case card.CostExilePermanentsCmcX:
		return d.total(e, all) >= d.cost.Count
	case card.CostExileCards:
		return len(all) >= d.cost.Count
	default:
		return len(all) >= 1
	}
}

func (d *payWithCards) maximum() int {
	if d.cost.Max > 0 {
		return d.cost.Max
	}
	return d.cost.Count
}

// total sums power or mana value over ids.
func (d *payWithCards) total(e *Engine, ids []state.CardID) int {
	sum := 0
	for _, id := range ids {
		c := e.Store.MustCard(id)
		if d.cost.Kind == card.CostTapPermanentsPowerX {
			if p := c.Modified.Power(); p != nil {
				sum += *p
			}
			continue
		}
		sum += c.Modified.Cost.CMC(c.X)
	}
	return sum
}

func (d *payWithCards) paid(e *Engine) bool {
	switch d.cost.Kind {
	case card.CostTapPermanentsPowerX, card.CostExilePermanentsCmcX:
		return d.total(e, d.chosen) >= d.cost.Count
	case card.CostExileCards:
		return len(d.chosen) >= d.maximum()
	default:
		return len(d.chosen) >= 1
	}
}

func (d *payWithCards) recompute(e *Engine, p *PendingResults) bool {
	var valid []state.CardID
	for _, id := range d.candidates(e) {
		if slices.Contains(d.chosen, id) || p.isChosen(state.CardTarget(id)) {
			continue
		}
		valid = append(valid, id)
	}
	changed := !slices.Equal(valid, d.valid)
	d.valid = valid
	return changed
}

func (d *payWithCards) options(e *Engine, _ *PendingResults) ChoiceOptions {
	kind := Mandatory
	if d.cost.Kind == card.CostExileCards && len(d.chosen) >= d.cost.Count {
		kind = Optional
	}
	labels := make([]string, len(d.valid))
	for i, id := range d.valid {
		labels[i] = e.cardName(id)
	}
	return labelled(kind, labels)
}

func (d *payWithCards) choose(e *Engine, p *PendingResults, choice Choice) bool {
	i, ok := choice.Index()
	if !ok {
		if d.cost.Kind == card.CostExileCards && len(d.chosen) >= d.cost.Count {
			d.finish(p)
			return true
		}
		if len(d.valid) != 1 {
			return false
		}
		i = 0
	}
	if i < 0 || i >= len(d.valid) {
		return false
	}
	d.chosen = append(d.chosen, d.valid[i])
	p.markChosen(state.CardTarget(d.valid[i]))
	d.recompute(e, p)
	if d.paid(e) {
		d.finish(p)
		return true
	}
	return false
}

func (d *payWithCards) finish(p *PendingResults) {
	for _, id := range d.chosen {
		switch d.cost.Kind {
		case card.CostSacrificePermanent:
			p.pushSettled(PermanentToGraveyard{Card: id})
		case card.CostTapPermanent, card.CostTapPermanentsPowerX:
			p.pushSettled(TapPermanent{Card: id})
		case card.CostExileCards, card.CostExilePermanentsCmcX:
			p.pushSettled(ExileCard{Card: id, ExiledWith: d.source})
		case card.CostDiscardCard:
			p.pushSettled(Discard{Card: id})
		}
		p.pushSettled(ChooseCard{Card: id})
	}
}
