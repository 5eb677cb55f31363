package rules

// PriorityRound tracks consecutive passes (rule 117.4). When every seat
// still in the game has passed in succession with no action in between,
// the top of the stack resolves or, on an empty stack, the step ends.
type PriorityRound struct {
	players int
	passed  map[int]bool
	out     map[int]bool
}

// NewPriorityRound creates a tracker for seats 1..players.
func NewPriorityRound(players int) *PriorityRound {
	return &PriorityRound{
		players: players,
		passed:  make(map[int]bool),
		out:     make(map[int]bool),
	}
}

// Pass records a pass by seat and reports whether every seat still in the
// game has now passed.
func (pr *PriorityRound) Pass(seat int) bool {
	pr.passed[seat] = true
	return pr.allPassed()
}

// Eliminate removes a seat that has left the game from the round.
func (pr *PriorityRound) Eliminate(seat int) {
	pr.out[seat] = true
	delete(pr.passed, seat)
}

func (pr *PriorityRound) allPassed() bool {
	for seat := 1; seat <= pr.players; seat++ {
		if !pr.out[seat] && !pr.passed[seat] {
			return false
		}
	}
	return true
}

// Reset clears the passes. Any action taken by a player resets them.
func (pr *PriorityRound) Reset() {
	clear(pr.passed)
}

// Passes returns the number of consecutive passes so far.
func (pr *PriorityRound) Passes() int {
	return len(pr.passed)
}
