package state

import "fmt"

// CardID is an opaque handle to a card record in the store.
type CardID uint64

// ModifierID is an opaque handle to a modifier record.
type ModifierID uint64

// StackID identifies a stack entry. IDs grow with insertion order.
type StackID uint64

// PlayerID is a seat number, starting at 1.
type PlayerID int

// TargetKind says what a Target refers to.
type TargetKind int

const (
	TargetCard TargetKind = iota
	TargetStack
	TargetPlayer
)

// Target is a chosen target: a card in some zone, a stack entry or a
// player.
type Target struct {
	Kind   TargetKind
	Card   CardID
	Stack  StackID
	Player PlayerID
}

// CardTarget targets a card.
func CardTarget(id CardID) Target {
	return Target{Kind: TargetCard, Card: id}
}

// StackTarget targets a stack entry.
func StackTarget(id StackID) Target {
	return Target{Kind: TargetStack, Stack: id}
}

// PlayerTarget targets a player.
func PlayerTarget(id PlayerID) Target {
	return Target{Kind: TargetPlayer, Player: id}
}

func (t Target) String() string {
	switch t.Kind {
	case TargetCard:
		return fmt.Sprintf("card#%d", t.Card)
	case TargetStack:
		return fmt.Sprintf("stack#%d", t.Stack)
	default:
		return fmt.Sprintf("player#%d", t.Player)
	}
}
