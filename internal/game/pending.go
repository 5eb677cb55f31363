package game

import (
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// ResolutionResult is what one Resolve step produced.
type ResolutionResult int

const (
	// Complete means nothing is left to decide or apply.
	Complete ResolutionResult = iota
	// TryAgain means state advanced without input; call Resolve again.
	TryAgain
	// PendingChoice means the caller must supply a choice.
	PendingChoice
)

var resolutionNames = map[ResolutionResult]string{
	Complete:      "COMPLETE",
	TryAgain:      "TRY_AGAIN",
	PendingChoice: "PENDING_CHOICE",
}

func (r ResolutionResult) String() string {
	if name, ok := resolutionNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// Choice is an optional index into the options most recently returned by
// Options. The zero value is None.
type Choice struct {
	index int
	some  bool
}

// None skips an optional decision or accepts its default.
var None = Choice{}

// Pick selects option i.
func Pick(i int) Choice {
	return Choice{index: i, some: true}
}

// Index returns the chosen index and whether one was chosen.
func (c Choice) Index() (int, bool) {
	return c.index, c.some
}

// OptionsKind says whether None is accepted for a decision.
type OptionsKind int

const (
	// Mandatory lists need a pick.
	Mandatory OptionsKind = iota
	// Optional lists accept None to skip.
	Optional
	// WithDefault lists accept None to take the default.
	WithDefault
)

// Option is one selectable entry.
type Option struct {
	Index int
	Label string
}

// ChoiceOptions is the list presented for the current decision.
type ChoiceOptions struct {
	Kind  OptionsKind
	Items []Option
}

// IsEmpty reports whether there is nothing to pick.
func (o ChoiceOptions) IsEmpty() bool {
	return len(o.Items) == 0
}

func labelled(kind OptionsKind, labels []string) ChoiceOptions {
	out := ChoiceOptions{Kind: kind, Items: make([]Option, len(labels))}
	for i, l := range labels {
		out.Items[i] = Option{Index: i, Label: l}
	}
	return out
}

// DecisionKind names a decision record.
type DecisionKind string

const (
	DecisionChooseTargets      DecisionKind = "CHOOSE_TARGETS"
	DecisionChooseModes        DecisionKind = "CHOOSE_MODES"
	DecisionPayCosts           DecisionKind = "PAY_COSTS"
	DecisionDeclaringAttackers DecisionKind = "DECLARING_ATTACKERS"
	DecisionOrganizingStack    DecisionKind = "ORGANIZING_STACK"
	DecisionChoosingScry       DecisionKind = "CHOOSING_SCRY"
	DecisionChoosingCast       DecisionKind = "CHOOSING_CAST"
	DecisionDiscard            DecisionKind = "DISCARD"
)

// decision is one outstanding player choice. Implementations never mutate
// the store; they only push actions and further decisions onto the
// pending results.
type decision interface {
	kind() DecisionKind
	description(e *Engine) string
	options(e *Engine, p *PendingResults) ChoiceOptions
	// player is who makes the choice.
	player() state.PlayerID
	// recompute refreshes the valid options and reports a change.
	recompute(e *Engine, p *PendingResults) bool
	cancelable() bool
	// isEmpty decisions are dropped before they are asked.
	isEmpty() bool
	// choose consumes a choice and reports whether the decision is done.
	choose(e *Engine, p *PendingResults, choice Choice) bool
}

// stackSource is a spell or ability waiting for its decisions before it is
// put on the stack.
type stackSource struct {
	card    state.CardID
	ability *state.StackAbility
}

// PendingResults is the resumable queue of decisions and committed actions
// produced by every mutating engine operation.
type PendingResults struct {
	engine *Engine

	pending []decision

	chosenModes   []int
	chosenTargets [][]state.Target
	allChosen     map[state.Target]struct{}

	settled []Action

	applyInStages bool
	addToStack    *stackSource
	castFrom      card.Location
	x             int

	// queued holds further stack sources, each with its own decisions,
	// taken up once the current one is done.
	queued []*PendingResults

	applied bool
}

func (e *Engine) newPending() *PendingResults {
	return &PendingResults{
		engine:    e,
		allChosen: make(map[state.Target]struct{}),
	}
}

func (p *PendingResults) push(d decision) {
	p.pending = append(p.pending, d)
}

// pushFront makes decisions the next ones asked.
func (p *PendingResults) pushFront(ds ...decision) {
	p.pending = append(append([]decision(nil), ds...), p.pending...)
}

func (p *PendingResults) pushSettled(actions ...Action) {
	p.settled = append(p.settled, actions...)
}

func (p *PendingResults) addCardToStack(id state.CardID, from card.Location) {
	p.addToStack = &stackSource{card: id}
	p.castFrom = from
}

func (p *PendingResults) addAbilityToStack(source state.CardID, ability *state.StackAbility) {
	p.addToStack = &stackSource{card: source, ability: ability}
}

func (p *PendingResults) markChosen(targets ...state.Target) {
	for _, t := range targets {
		p.allChosen[t] = struct{}{}
	}
}

func (p *PendingResults) isChosen(t state.Target) bool {
	_, ok := p.allChosen[t]
	return ok
}

// inFlight reports whether p is collecting choices for a stack source.
func (p *PendingResults) inFlight() bool {
	return len(p.pending) > 0 || p.addToStack != nil || len(p.chosenTargets) > 0 || len(p.chosenModes) > 0
}

// Extend merges more pending work into p. Committed actions are appended;
// decisions for another stack source wait until p's current one is done.
func (p *PendingResults) Extend(more *PendingResults) {
	if more == nil {
		return
	}
	if more.applied {
		p.applied = true
	}
	p.settled = append(p.settled, more.settled...)
	more.settled = nil
	if more.inFlight() {
		if p.inFlight() {
			p.queued = append(p.queued, more)
		} else {
			p.adopt(more)
		}
	}
	p.queued = append(p.queued, more.queued...)
	more.queued = nil
}

// adopt takes over more's in-flight decisions.
func (p *PendingResults) adopt(more *PendingResults) {
	p.pending = more.pending
	p.chosenModes = more.chosenModes
	p.chosenTargets = more.chosenTargets
	p.allChosen = more.allChosen
	p.addToStack = more.addToStack
	p.castFrom = more.castFrom
	p.x = more.x
	p.applyInStages = more.applyInStages
	p.settled = append(p.settled, more.settled...)
}

// IsEmpty reports whether nothing is left to decide or apply.
func (p *PendingResults) IsEmpty() bool {
	return len(p.pending) == 0 && len(p.settled) == 0 && p.addToStack == nil && len(p.queued) == 0
}

// Applied reports whether any committed action has reached the store.
func (p *PendingResults) Applied() bool {
	return p.applied
}

// CanCancel reports whether the caller may abandon the resolution. Once
// anything has been applied the resolution must run to completion.
func (p *PendingResults) CanCancel() bool {
	if p.IsEmpty() {
		return true
	}
	if p.applied {
		return false
	}
	if len(p.pending) > 0 {
		return p.pending[0].cancelable()
	}
	return true
}

// Cancel abandons the resolution. It reports false, and changes nothing,
// when cancelling is not allowed.
func (p *PendingResults) Cancel() bool {
	if !p.CanCancel() {
		return false
	}
	*p = *p.engine.newPending()
	return true
}

// Current returns the kind of the decision waiting for a choice.
func (p *PendingResults) Current() (DecisionKind, bool) {
	if len(p.pending) == 0 {
		return "", false
	}
	return p.pending[0].kind(), true
}

// Description describes the current decision.
func (p *PendingResults) Description() string {
	if len(p.pending) == 0 {
		return ""
	}
	return p.pending[0].description(p.engine)
}

// Options recomputes every decision's valid options and returns those of
// the current one. Indices are stable until the next Resolve.
func (p *PendingResults) Options() ChoiceOptions {
	for _, d := range p.pending {
		d.recompute(p.engine, p)
	}
	if len(p.pending) == 0 {
		return ChoiceOptions{Kind: Optional}
	}
	return p.pending[0].options(p.engine, p)
}

// Priority returns the player who makes the current choice.
func (p *PendingResults) Priority() state.PlayerID {
	if len(p.pending) == 0 {
		return p.engine.Store.PriorityPlayer()
	}
	return p.pending[0].player()
}

// Resolve advances the machine by at most one choice.
func (p *PendingResults) Resolve(choice Choice) ResolutionResult {
	e := p.engine
	if p.applyInStages && p.addToStack != nil {
		panic("staged resolution cannot add to the stack")
	}

	recomputed := false
	for _, d := range p.pending {
		if d.recompute(e, p) {
			recomputed = true
		}
	}
	if recomputed {
		return TryAgain
	}

	if p.applyInStages && len(p.settled) > 0 {
		p.applySettled()
		return p.afterApply()
	}

	kept := p.pending[:0]
	for _, d := range p.pending {
		if d.kind() == DecisionPayCosts && d.isEmpty() {
			continue
		}
		kept = append(kept, d)
	}
	p.pending = kept

	if len(p.pending) == 0 {
		if src := p.addToStack; src != nil {
			p.addToStack = nil
			var push Action
			if src.ability == nil {
				push = CastCard{
					Card:    src.card,
					Targets: p.chosenTargets,
					Modes:   p.chosenModes,
					From:    p.castFrom,
					X:       p.x,
				}
			} else {
				push = AddAbilityToStack{
					Source:  src.card,
					Ability: src.ability,
					Targets: p.chosenTargets,
				}
			}
			// The spell moves to the stack before its costs are recorded
			// against it.
			p.settled = append([]Action{push}, p.settled...)
			p.chosenModes = nil
			p.chosenTargets = nil
			p.x = 0
		}
		if len(p.settled) > 0 {
			p.applySettled()
		}
		return p.afterApply()
	}

	next := p.pending[0]
	p.pending = p.pending[1:]
	if next.choose(e, p, choice) {
		e.logger.Debug("decision complete",
			zap.String("game_id", e.ID),
			zap.String("decision", string(next.kind())))
		return TryAgain
	}
	p.pending = append([]decision{next}, p.pending...)
	return PendingChoice
}

func (p *PendingResults) applySettled() {
	p.applied = true
	actions := p.settled
	p.settled = nil
	p.Extend(p.engine.Apply(actions))
}

// afterApply moves on to queued work, then checks state-based actions and
// whether fresh stack entries need ordering before reporting completion.
func (p *PendingResults) afterApply() ResolutionResult {
	e := p.engine
	if !p.IsEmpty() {
		if !p.inFlight() && len(p.settled) == 0 && len(p.queued) > 0 {
			next := p.queued[0]
			p.queued = p.queued[1:]
			p.adopt(next)
		}
		return TryAgain
	}

	if more := e.CheckStateBased(); !more.IsEmpty() {
		p.Extend(more)
		return TryAgain
	}
	if organize := newOrganizingStack(e); organize != nil {
		p.push(organize)
		return TryAgain
	}
	e.Store.Stack.SettleAll()
	return Complete
}

// resolveDefaults resolves with None until Complete. It reports false,
// leaving p pending, when a decision needs a pick.
func (p *PendingResults) resolveDefaults() bool {
	for {
		switch p.Resolve(None) {
		case Complete:
			return true
		case PendingChoice:
			return false
		}
	}
}

// awaitingChoice reports whether the next Resolve consumes a choice for
// the current decision rather than applying committed actions or dropping
// a cost that is already paid.
func (p *PendingResults) awaitingChoice() bool {
	if len(p.pending) == 0 {
		return false
	}
	if p.applyInStages && len(p.settled) > 0 {
		return false
	}
	d := p.pending[0]
	return !(d.kind() == DecisionPayCosts && d.isEmpty())
}

// Drive resolves until Complete, asking next for a choice before every
// step that consumes one. It returns false if next gives up by returning
// false.
func (p *PendingResults) Drive(next func(p *PendingResults) (Choice, bool)) bool {
	for {
		choice := None
		if p.awaitingChoice() {
			c, ok := next(p)
			if !ok {
				return false
			}
			choice = c
		}
		if p.Resolve(choice) == Complete {
			return true
		}
	}
}
