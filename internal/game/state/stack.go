package state

import (
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game/card"
)

// EntryKind distinguishes spells from abilities on the stack.
type EntryKind int

const (
	EntryCard EntryKind = iota
	EntryAbility
)

// AbilityKind says where a stacked ability came from.
type AbilityKind string

const (
	AbilityActivated AbilityKind = "ACTIVATED"
	AbilityTriggered AbilityKind = "TRIGGERED"
	AbilityETB       AbilityKind = "ETB"
)

// StackAbility is the resolvable part of an ability on the stack.
type StackAbility struct {
	Kind        AbilityKind
	Effects     []card.Effect
	ApplyToSelf bool
	Text        string
}

// StackEntry is one spell or ability waiting to resolve. Card is the spell
// itself or the source of the ability.
type StackEntry struct {
	ID         StackID
	Kind       EntryKind
	Card       CardID
	Controller PlayerID
	Ability    *StackAbility
	// Targets has one list per effect, in effect order.
	Targets [][]Target
	Modes   []int
	// Settled entries have been seen by the organize-stack decision.
	Settled bool
}

// Stack holds entries bottom to top. Only placement lives here; the
// resolver is in the game package.
type Stack struct {
	entries []*StackEntry
	nextID  StackID
}

// Push places an entry on top and assigns its ID.
func (s *Stack) Push(e *StackEntry) StackID {
	s.nextID++
	e.ID = s.nextID
	s.entries = append(s.entries, e)
	return e.ID
}

// Top returns the topmost entry.
func (s *Stack) Top() (*StackEntry, bool) {
	if len(s.entries) == 0 {
		return nil, false
	}
	return s.entries[len(s.entries)-1], true
}

// Pop removes and returns the topmost entry.
func (s *Stack) Pop() (*StackEntry, bool) {
	top, ok := s.Top()
	if !ok {
		return nil, false
	}
	s.entries = s.entries[:len(s.entries)-1]
	return top, true
}

// Get returns the entry with the given ID.
func (s *Stack) Get(id StackID) (*StackEntry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Remove deletes an entry by ID.
func (s *Stack) Remove(id StackID) (*StackEntry, bool) {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return e, true
		}
	}
	return nil, false
}

// FindCard returns the spell entry for a card.
func (s *Stack) FindCard(id CardID) (*StackEntry, bool) {
	for _, e := range s.entries {
		if e.Kind == EntryCard && e.Card == id {
			return e, true
		}
	}
	return nil, false
}

// Entries returns the entries bottom to top.
func (s *Stack) Entries() []*StackEntry {
	return append([]*StackEntry(nil), s.entries...)
}

// Len returns the number of entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

// IsEmpty reports whether nothing is waiting to resolve.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Unsettled returns entries not yet settled, bottom to top.
func (s *Stack) Unsettled() []*StackEntry {
	var out []*StackEntry
	for _, e := range s.entries {
		if !e.Settled {
			out = append(out, e)
		}
	}
	return out
}

// SettleAll marks every entry settled.
func (s *Stack) SettleAll() {
	for _, e := range s.entries {
		e.Settled = true
	}
}

// Reorder places the listed entries, which must all be unsettled, on top
// of the settled ones in the given order (first listed ends lowest). The
// listed entries become settled.
func (s *Stack) Reorder(order []StackID) {
	unsettled := s.Unsettled()
	if len(order) != len(unsettled) {
		panic(fmt.Sprintf("reorder of %d entries, %d unsettled", len(order), len(unsettled)))
	}
	byID := make(map[StackID]*StackEntry, len(unsettled))
	for _, e := range unsettled {
		byID[e.ID] = e
	}
	kept := make([]*StackEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Settled {
			kept = append(kept, e)
		}
	}
	for _, id := range order {
		e, ok := byID[id]
		if !ok {
			panic(fmt.Sprintf("stack entry %d is not unsettled", id))
		}
		e.Settled = true
		kept = append(kept, e)
	}
	s.entries = kept
}

// SplitSecond reports whether the top of the stack is a spell with split
// second (rule 702.61).
func (s *Stack) SplitSecond(store *Store) bool {
	top, ok := s.Top()
	if !ok || top.Kind != EntryCard {
		return false
	}
	c, ok := store.Card(top.Card)
	return ok && c.Modified.HasKeyword(card.KeywordSplitSecond)
}
