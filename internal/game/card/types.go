package card

import (
	"sort"
)

// Type is a card type (rule 300.1).
type Type string

const (
	TypeArtifact     Type = "ARTIFACT"
	TypeBattle       Type = "BATTLE"
	TypeCreature     Type = "CREATURE"
	TypeEnchantment  Type = "ENCHANTMENT"
	TypeInstant      Type = "INSTANT"
	TypeLand         Type = "LAND"
	TypePlaneswalker Type = "PLANESWALKER"
	TypeSorcery      Type = "SORCERY"
	TypeKindred      Type = "KINDRED"
	TypeLegendary    Type = "LEGENDARY"
	TypeBasic        Type = "BASIC"
)

var knownTypes = map[Type]bool{
	TypeArtifact: true, TypeBattle: true, TypeCreature: true, TypeEnchantment: true,
	TypeInstant: true, TypeLand: true, TypePlaneswalker: true, TypeSorcery: true,
	TypeKindred: true, TypeLegendary: true, TypeBasic: true,
}

// Known reports whether t is a recognised type.
func (t Type) Known() bool {
	return knownTypes[t]
}

// IsPermanent reports whether a card of this type stays on the battlefield
// when it resolves (rule 110.4).
func (t Type) IsPermanent() bool {
	switch t {
	case TypeArtifact, TypeBattle, TypeCreature, TypeEnchantment, TypeLand, TypePlaneswalker:
		return true
	}
	return false
}

// Subtype is a free-form subtype such as Goblin, Aura or Forest.
type Subtype string

const (
	SubtypeAura     Subtype = "Aura"
	SubtypePlains   Subtype = "Plains"
	SubtypeIsland   Subtype = "Island"
	SubtypeSwamp    Subtype = "Swamp"
	SubtypeMountain Subtype = "Mountain"
	SubtypeForest   Subtype = "Forest"
)

// creatureSubtypes is the subset that "loses all creature types" removes.
// Any subtype not known to belong to another type is treated as a
// creature type.
var nonCreatureSubtypes = map[Subtype]bool{
	SubtypeAura: true, SubtypePlains: true, SubtypeIsland: true, SubtypeSwamp: true,
	SubtypeMountain: true, SubtypeForest: true,
	"Equipment": true, "Vehicle": true, "Treasure": true, "Food": true, "Clue": true,
	"Saga": true, "Cave": true, "Gate": true, "Desert": true, "Shrine": true,
}

// IsCreatureType reports whether the subtype is a creature type.
func (s Subtype) IsCreatureType() bool {
	return !nonCreatureSubtypes[s]
}

// Color is one of the five colors or colorless.
type Color string

const (
	ColorWhite     Color = "WHITE"
	ColorBlue      Color = "BLUE"
	ColorBlack     Color = "BLACK"
	ColorRed       Color = "RED"
	ColorGreen     Color = "GREEN"
	ColorColorless Color = "COLORLESS"
)

// Keyword is an evergreen or set mechanic keyword.
type Keyword string

const (
	KeywordDeathtouch     Keyword = "DEATHTOUCH"
	KeywordDefender       Keyword = "DEFENDER"
	KeywordDoubleStrike   Keyword = "DOUBLE_STRIKE"
	KeywordFirstStrike    Keyword = "FIRST_STRIKE"
	KeywordFlash          Keyword = "FLASH"
	KeywordFlying         Keyword = "FLYING"
	KeywordHaste          Keyword = "HASTE"
	KeywordHexproof       Keyword = "HEXPROOF"
	KeywordIndestructible Keyword = "INDESTRUCTIBLE"
	KeywordLifelink       Keyword = "LIFELINK"
	KeywordMenace         Keyword = "MENACE"
	KeywordReach          Keyword = "REACH"
	KeywordShroud         Keyword = "SHROUD"
	KeywordSplitSecond    Keyword = "SPLIT_SECOND"
	KeywordTrample        Keyword = "TRAMPLE"
	KeywordVigilance      Keyword = "VIGILANCE"
	KeywordWard           Keyword = "WARD"
)

// Location is the zone a card occupies.
type Location string

const (
	LocationLibrary     Location = "LIBRARY"
	LocationHand        Location = "HAND"
	LocationBattlefield Location = "BATTLEFIELD"
	LocationGraveyard   Location = "GRAVEYARD"
	LocationExile       Location = "EXILE"
	LocationStack       Location = "STACK"
	LocationLimbo       Location = "LIMBO"
)

// Set is an unordered set of string-like values.
type Set[T ~string] map[T]struct{}

// NewSet builds a set from values.
func NewSet[T ~string](values ...T) Set[T] {
	s := make(Set[T], len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Add inserts values.
func (s Set[T]) Add(values ...T) {
	for _, v := range values {
		s[v] = struct{}{}
	}
}

// Remove deletes values.
func (s Set[T]) Remove(values ...T) {
	for _, v := range values {
		delete(s, v)
	}
}

// Intersects reports whether any of values is in the set.
func (s Set[T]) Intersects(values []T) bool {
	for _, v := range values {
		if s.Has(v) {
			return true
		}
	}
	return false
}

// Sorted returns the members in lexical order.
func (s Set[T]) Sorted() []T {
	out := make([]T, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone copies the set.
func (s Set[T]) Clone() Set[T] {
	out := make(Set[T], len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}
