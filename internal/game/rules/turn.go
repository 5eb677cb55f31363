package rules

import (
	"fmt"
)

// Phase represents the broad phases of a turn.
type Phase int

const (
	PhaseBeginning Phase = iota
	PhasePrecombatMain
	PhaseCombat
	PhasePostcombatMain
	PhaseEnding
)

var phaseNames = map[Phase]string{
	PhaseBeginning:      "BEGINNING",
	PhasePrecombatMain:  "PRECOMBAT_MAIN",
	PhaseCombat:         "COMBAT",
	PhasePostcombatMain: "POSTCOMBAT_MAIN",
	PhaseEnding:         "ENDING",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Step represents the individual steps that comprise a turn.
type Step int

const (
	StepUntap Step = iota
	StepUpkeep
	StepDraw
	StepMain1
	StepBeginCombat
	StepDeclareAttackers
	StepDeclareBlockers
	StepCombatDamage
	StepEndCombat
	StepMain2
	StepEnd
	StepCleanup
)

var stepNames = map[Step]string{
	StepUntap:            "UNTAP",
	StepUpkeep:           "UPKEEP",
	StepDraw:             "DRAW",
	StepMain1:            "MAIN1",
	StepBeginCombat:      "BEGIN_COMBAT",
	StepDeclareAttackers: "DECLARE_ATTACKERS",
	StepDeclareBlockers:  "DECLARE_BLOCKERS",
	StepCombatDamage:     "COMBAT_DAMAGE",
	StepEndCombat:        "END_COMBAT",
	StepMain2:            "MAIN2",
	StepEnd:              "END",
	StepCleanup:          "CLEANUP",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// IsMain reports whether the step is one of the main phases.
func (s Step) IsMain() bool {
	return s == StepMain1 || s == StepMain2
}

type turnEntry struct {
	phase Phase
	step  Step
}

// turnSequence is the turn structure (rule 500.1). There is no first
// strike damage step since blocking is not modelled.
var turnSequence = []turnEntry{
	{PhaseBeginning, StepUntap},
	{PhaseBeginning, StepUpkeep},
	{PhaseBeginning, StepDraw},
	{PhasePrecombatMain, StepMain1},
	{PhaseCombat, StepBeginCombat},
	{PhaseCombat, StepDeclareAttackers},
	{PhaseCombat, StepDeclareBlockers},
	{PhaseCombat, StepCombatDamage},
	{PhaseCombat, StepEndCombat},
	{PhasePostcombatMain, StepMain2},
	{PhaseEnding, StepEnd},
	{PhaseEnding, StepCleanup},
}

// TurnManager tracks the turn counter, the current step and the active and
// priority seats. Seats are numbered 1..players.
type TurnManager struct {
	orderIndex     int
	turnNumber     int
	players        int
	activePlayer   int
	priorityPlayer int
}

// NewTurnManager creates a turn manager at turn 1, untap step, with
// firstPlayer active.
func NewTurnManager(players, firstPlayer int) *TurnManager {
	if players < 1 {
		panic(fmt.Sprintf("turn manager needs at least one player, got %d", players))
	}
	if firstPlayer < 1 || firstPlayer > players {
		firstPlayer = 1
	}
	return &TurnManager{
		turnNumber:     1,
		players:        players,
		activePlayer:   firstPlayer,
		priorityPlayer: firstPlayer,
	}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return turnSequence[tm.orderIndex].phase
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager) CurrentStep() Step {
	return turnSequence[tm.orderIndex].step
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the seat whose turn it is.
func (tm *TurnManager) ActivePlayer() int {
	return tm.activePlayer
}

// PriorityPlayer returns the seat that currently holds priority.
func (tm *TurnManager) PriorityPlayer() int {
	return tm.priorityPlayer
}

// SetPriority gives priority to a seat.
func (tm *TurnManager) SetPriority(player int) {
	tm.priorityPlayer = player
}

// NextPlayer returns the seat after player in turn order.
func (tm *TurnManager) NextPlayer(player int) int {
	return player%tm.players + 1
}

// Players returns the number of seats.
func (tm *TurnManager) Players() int {
	return tm.players
}

// AdvanceStep moves to the next step. Past cleanup the turn number is
// incremented and the next seat becomes active. Reports whether a new
// turn started.
func (tm *TurnManager) AdvanceStep() (Phase, Step, bool) {
	newTurn := false
	tm.orderIndex++
	if tm.orderIndex >= len(turnSequence) {
		tm.orderIndex = 0
		tm.turnNumber++
		tm.activePlayer = tm.NextPlayer(tm.activePlayer)
		newTurn = true
	}

	// Priority reverts to the active player at the start of every step.
	tm.priorityPlayer = tm.activePlayer

	return tm.CurrentPhase(), tm.CurrentStep(), newTurn
}
