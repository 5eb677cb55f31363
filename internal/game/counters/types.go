package counters

// Kind identifies a kind of counter that can be placed on a card.
type Kind string

const (
	// Any matches every kind when counting; it is never placed on a card.
	Any Kind = "any"

	P1P1 Kind = "+1/+1"
	M1M1 Kind = "-1/-1"

	Loyalty Kind = "loyalty"
	Charge  Kind = "charge"
	Age     Kind = "age"
	Fade    Kind = "fade"
	Time    Kind = "time"
	Shield  Kind = "shield"
	Stun    Kind = "stun"
	Oil     Kind = "oil"
	Lore    Kind = "lore"
	Quest   Kind = "quest"
)

var knownKinds = map[Kind]struct{}{
	Any:     {},
	P1P1:    {},
	M1M1:    {},
	Loyalty: {},
	Charge:  {},
	Age:     {},
	Fade:    {},
	Time:    {},
	Shield:  {},
	Stun:    {},
	Oil:     {},
	Lore:    {},
	Quest:   {},
}

// Known reports whether the kind is one the engine understands.
func Known(kind Kind) bool {
	_, ok := knownKinds[kind]
	return ok
}

// Boost returns the power/toughness delta a single counter of this kind
// grants, and false for counters that do not modify power/toughness.
func Boost(kind Kind) (power, toughness int, ok bool) {
	switch kind {
	case P1P1:
		return 1, 1, true
	case M1M1:
		return -1, -1, true
	default:
		return 0, 0, false
	}
}
