package restrictions

import (
	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// threshold is the graveyard size for threshold (rule 702.xx, "seven or
// more cards in your graveyard").
const threshold = 7

// Passes reports whether candidate passes every clause with source as
// the restriction's source. An empty list always passes.
func Passes(s *state.Store, session state.LogID, source, candidate state.CardID, clauses []card.Restriction) bool {
	if len(clauses) == 0 {
		return true
	}
	c := s.MustCard(candidate)
	return PassesGiven(s, session, source, candidate, c.Controller, clauses, Snapshot(c))
}

// PassesGiven evaluates clauses against an explicit attribute snapshot and
// controller. Clauses are ANDed and evaluation stops at the first failure.
func PassesGiven(
	s *state.Store,
	session state.LogID,
	source, candidate state.CardID,
	controller state.PlayerID,
	clauses []card.Restriction,
	attrs Attributes,
) bool {
	for i := range clauses {
		if !passesOne(s, session, source, candidate, controller, &clauses[i], attrs) {
			return false
		}
	}
	return true
}

func passesOne(
	s *state.Store,
	session state.LogID,
	source, candidate state.CardID,
	controller state.PlayerID,
	r *card.Restriction,
	attrs Attributes,
) bool {
	self := s.MustCard(candidate)
	src, srcOK := s.Card(source)

	switch r.Kind {
	case card.RestrictAttackedThisTurn:
		return s.AttackersThisTurn >= 1

	case card.RestrictAttacking:
		return self.IsAttacking()

	case card.RestrictAttackingOrBlocking:
		// Blocking is not modelled.
		return self.IsAttacking()

	case card.RestrictCastFromHand:
		return self.CastFrom == card.LocationHand

	case card.RestrictChosen:
		return sessionHas(s, session, func(e state.LogEntry) bool {
			return e.Kind == state.LogCardChosen && e.Card == candidate
		})

	case card.RestrictNotChosen:
		return !sessionHas(s, session, func(e state.LogEntry) bool {
			return e.Kind == state.LogCardChosen && e.Card == candidate
		})

	case card.RestrictCmc:
		cmc := self.Modified.Cost.CMC(self.X)
		if r.Dynamic == card.DynamicX {
			return srcOK && src.X == cmc
		}
		return r.Comparison.Matches(cmc)

	case card.RestrictController:
		if !srcOK {
			return false
		}
		if r.Controller == card.ControllerSelf {
			return src.Controller == controller
		}
		return src.Controller != controller

	case card.RestrictControllerControlsBlackOrGreen:
		colors := controlledColors(s, controller)
		return colors.Has(card.ColorBlack) || colors.Has(card.ColorGreen)

	case card.RestrictControllerControlsColors:
		return controlledColors(s, controller).Intersects(r.Colors)

	case card.RestrictControllerHandEmpty:
		return s.Player(controller).Hand.Len() == 0

	case card.RestrictControllerJustCast:
		return sessionHas(s, session, func(e state.LogEntry) bool {
			if e.Kind != state.LogCast {
				return false
			}
			cast, ok := s.Card(e.Card)
			return ok && cast.Controller == controller
		})

	case card.RestrictDescend:
		permanents := 0
		for _, id := range s.Player(controller).Graveyard.IDs() {
			if s.MustCard(id).Face.IsPermanent() {
				permanents++
			}
		}
		return permanents >= r.Count

	case card.RestrictDescendedThisTurn:
		return s.Player(controller).DescendedThisTurn >= 1

	case card.RestrictDuringControllersTurn:
		return s.ActivePlayer() == controller

	case card.RestrictEnteredBattlefieldThisTurn:
		entered := 0
		for _, id := range s.Battlefield() {
			c := s.MustCard(id)
			if c.EnteredBattlefieldTurn != s.TurnNumber() {
				continue
			}
			if Passes(s, session, source, id, r.Restrictions) {
				entered++
			}
		}
		return entered >= r.Count

	case card.RestrictLeftBattlefieldThisTurn:
		left := 0
		for _, e := range s.Log.SinceLastTurn() {
			if e.Kind == state.LogLeftBattlefield && passesLogged(s, source, e, r.Restrictions) {
				left++
			}
		}
		return left >= r.Count

	case card.RestrictHasActivatedAbility:
		return attrs.Activated > 0

	case card.RestrictInGraveyard:
		return self.Location == card.LocationGraveyard

	case card.RestrictInLocation:
		for _, loc := range r.Locations {
			if self.Location == loc {
				return true
			}
		}
		return false

	case card.RestrictIsPermanent:
		for t := range attrs.Types {
			if t.IsPermanent() {
				return true
			}
		}
		return false

	case card.RestrictJustCast:
		return sessionHas(s, session, func(e state.LogEntry) bool {
			return e.Kind == state.LogCast && e.Card == candidate
		})

	case card.RestrictJustDiscarded:
		return sessionHas(s, session, func(e state.LogEntry) bool {
			return e.Kind == state.LogDiscarded && e.Card == candidate
		})

	case card.RestrictLifeGainedThisTurn:
		return s.Player(controller).LifeGainedThisTurn >= r.Count

	case card.RestrictManaSpentFromSource:
		return self.ManaFrom[r.Source] > 0

	case card.RestrictNonToken:
		return !self.Token

	case card.RestrictNotKeywords:
		for _, k := range r.Keywords {
			if attrs.Keywords[k] > 0 {
				return false
			}
		}
		return true

	case card.RestrictNotOfType:
		if len(r.Types) > 0 && attrs.Types.Intersects(r.Types) {
			return false
		}
		if len(r.Subtypes) > 0 && attrs.Subtypes.Intersects(r.Subtypes) {
			return false
		}
		return true

	case card.RestrictNotSelf:
		return source != candidate

	case card.RestrictNumberOfCountersOnThis:
		return r.Comparison.Matches(countersOn(self, r.Counter))

	case card.RestrictOfColor:
		return attrs.Colors.Intersects(r.Colors)

	case card.RestrictOfType:
		if len(r.Types) > 0 && !attrs.Types.Intersects(r.Types) {
			return false
		}
		if len(r.Subtypes) > 0 && !attrs.Subtypes.Intersects(r.Subtypes) {
			return false
		}
		return true

	case card.RestrictOnBattlefield:
		return self.Location == card.LocationBattlefield

	case card.RestrictPower:
		return attrs.Power != nil && r.Comparison.Matches(*attrs.Power)

	case card.RestrictToughness:
		return attrs.Toughness != nil && r.Comparison.Matches(*attrs.Toughness)

	case card.RestrictSelf:
		return source == candidate

	case card.RestrictSourceCast:
		return srcOK && src.CastFrom != ""

	case card.RestrictTapped:
		return self.Tapped

	case card.RestrictTargetedBy:
		return sessionHas(s, session, func(e state.LogEntry) bool {
			return e.Kind == state.LogTargeted && e.Source == candidate && e.Card == source
		})

	case card.RestrictThreshold:
		return s.Player(controller).Graveyard.Len() >= threshold
	}

	panic("unhandled restriction " + string(r.Kind))
}

func countersOn(c *state.Card, kind counters.Kind) int {
	return c.Counters.Count(kind)
}

func sessionHas(s *state.Store, session state.LogID, match func(state.LogEntry) bool) bool {
	for _, e := range s.Log.Session(session) {
		if match(e) {
			return true
		}
	}
	return false
}

func controlledColors(s *state.Store, player state.PlayerID) card.Set[card.Color] {
	colors := card.NewSet[card.Color]()
	for _, id := range s.Controlled(player) {
		for c := range s.MustCard(id).Modified.Colors {
			colors.Add(c)
		}
	}
	return colors
}

// passesLogged checks clauses against a LeftBattlefield snapshot. Only
// clauses the snapshot can answer are supported; the rest fail.
func passesLogged(s *state.Store, source state.CardID, e state.LogEntry, clauses []card.Restriction) bool {
	types := card.NewSet(e.Types...)
	for _, r := range clauses {
		switch r.Kind {
		case card.RestrictOfType:
			if len(r.Types) > 0 && !types.Intersects(r.Types) {
				return false
			}
		case card.RestrictNotOfType:
			if len(r.Types) > 0 && types.Intersects(r.Types) {
				return false
			}
		case card.RestrictNonToken:
			if e.WasToken {
				return false
			}
		case card.RestrictAttacking:
			if !e.WasAttacking {
				return false
			}
		case card.RestrictTapped:
			if !e.WasTapped {
				return false
			}
		case card.RestrictController:
			src, ok := s.Card(source)
			if !ok {
				return false
			}
			same := src.Controller == e.Controller
			if (r.Controller == card.ControllerSelf) != same {
				return false
			}
		default:
			return false
		}
	}
	return true
}
