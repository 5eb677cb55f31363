package card

import (
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/mana"
)

// RestrictionKind names a restriction clause.
type RestrictionKind string

const (
	RestrictAttacking                      RestrictionKind = "ATTACKING"
	RestrictAttackedThisTurn               RestrictionKind = "ATTACKED_THIS_TURN"
	RestrictAttackingOrBlocking            RestrictionKind = "ATTACKING_OR_BLOCKING"
	RestrictCastFromHand                   RestrictionKind = "CAST_FROM_HAND"
	RestrictChosen                         RestrictionKind = "CHOSEN"
	RestrictCmc                            RestrictionKind = "CMC"
	RestrictController                     RestrictionKind = "CONTROLLER"
	RestrictControllerControlsBlackOrGreen RestrictionKind = "CONTROLLER_CONTROLS_BLACK_OR_GREEN"
	RestrictControllerControlsColors       RestrictionKind = "CONTROLLER_CONTROLS_COLORS"
	RestrictControllerHandEmpty            RestrictionKind = "CONTROLLER_HAND_EMPTY"
	RestrictControllerJustCast             RestrictionKind = "CONTROLLER_JUST_CAST"
	RestrictDescend                        RestrictionKind = "DESCEND"
	RestrictDescendedThisTurn              RestrictionKind = "DESCENDED_THIS_TURN"
	RestrictDuringControllersTurn          RestrictionKind = "DURING_CONTROLLERS_TURN"
	RestrictEnteredBattlefieldThisTurn     RestrictionKind = "ENTERED_BATTLEFIELD_THIS_TURN"
	RestrictHasActivatedAbility            RestrictionKind = "HAS_ACTIVATED_ABILITY"
	RestrictInGraveyard                    RestrictionKind = "IN_GRAVEYARD"
	RestrictInLocation                     RestrictionKind = "IN_LOCATION"
	RestrictIsPermanent                    RestrictionKind = "IS_PERMANENT"
	RestrictJustCast                       RestrictionKind = "JUST_CAST"
	RestrictJustDiscarded                  RestrictionKind = "JUST_DISCARDED"
	RestrictLeftBattlefieldThisTurn        RestrictionKind = "LEFT_BATTLEFIELD_THIS_TURN"
	RestrictLifeGainedThisTurn             RestrictionKind = "LIFE_GAINED_THIS_TURN"
	RestrictManaSpentFromSource            RestrictionKind = "MANA_SPENT_FROM_SOURCE"
	RestrictNonToken                       RestrictionKind = "NON_TOKEN"
	RestrictNotChosen                      RestrictionKind = "NOT_CHOSEN"
	RestrictNotKeywords                    RestrictionKind = "NOT_KEYWORDS"
	RestrictNotOfType                      RestrictionKind = "NOT_OF_TYPE"
	RestrictNotSelf                        RestrictionKind = "NOT_SELF"
	RestrictNumberOfCountersOnThis         RestrictionKind = "NUMBER_OF_COUNTERS_ON_THIS"
	RestrictOfColor                        RestrictionKind = "OF_COLOR"
	RestrictOfType                         RestrictionKind = "OF_TYPE"
	RestrictOnBattlefield                  RestrictionKind = "ON_BATTLEFIELD"
	RestrictPower                          RestrictionKind = "POWER"
	RestrictSelf                           RestrictionKind = "SELF"
	RestrictSourceCast                     RestrictionKind = "SOURCE_CAST"
	RestrictTapped                         RestrictionKind = "TAPPED"
	RestrictTargetedBy                     RestrictionKind = "TARGETED_BY"
	RestrictThreshold                      RestrictionKind = "THRESHOLD"
	RestrictToughness                      RestrictionKind = "TOUGHNESS"
)

var knownRestrictions = map[RestrictionKind]bool{
	RestrictAttacking: true, RestrictAttackedThisTurn: true, RestrictAttackingOrBlocking: true,
	RestrictCastFromHand: true, RestrictChosen: true, RestrictCmc: true, RestrictController: true,
	RestrictControllerControlsBlackOrGreen: true, RestrictControllerControlsColors: true,
	RestrictControllerHandEmpty: true, RestrictControllerJustCast: true, RestrictDescend: true,
	RestrictDescendedThisTurn: true, RestrictDuringControllersTurn: true,
	RestrictEnteredBattlefieldThisTurn: true, RestrictHasActivatedAbility: true,
	RestrictInGraveyard: true, RestrictInLocation: true, RestrictIsPermanent: true,
	RestrictJustCast: true, RestrictJustDiscarded: true, RestrictLeftBattlefieldThisTurn: true,
	RestrictLifeGainedThisTurn: true, RestrictManaSpentFromSource: true, RestrictNonToken: true,
	RestrictNotChosen: true, RestrictNotKeywords: true, RestrictNotOfType: true,
	RestrictNotSelf: true, RestrictNumberOfCountersOnThis: true, RestrictOfColor: true,
	RestrictOfType: true, RestrictOnBattlefield: true, RestrictPower: true, RestrictSelf: true,
	RestrictSourceCast: true, RestrictTapped: true, RestrictTargetedBy: true,
	RestrictThreshold: true, RestrictToughness: true,
}

// Known reports whether the kind is part of the closed restriction set.
func (k RestrictionKind) Known() bool {
	return knownRestrictions[k]
}

// Operator is a numeric comparison operator.
type Operator string

const (
	LessThan           Operator = "<"
	LessThanOrEqual    Operator = "<="
	GreaterThan        Operator = ">"
	GreaterThanOrEqual Operator = ">="
)

// Comparison compares a value against a literal.
type Comparison struct {
	Op    Operator `yaml:"op" json:"op"`
	Value int      `yaml:"value" json:"value"`
}

// Matches applies the comparison to v.
func (c Comparison) Matches(v int) bool {
	switch c.Op {
	case LessThan:
		return v < c.Value
	case LessThanOrEqual:
		return v <= c.Value
	case GreaterThan:
		return v > c.Value
	case GreaterThanOrEqual:
		return v >= c.Value
	}
	panic(fmt.Sprintf("unknown comparison operator %q", c.Op))
}

// Validate checks the operator.
func (c Comparison) Validate() error {
	switch c.Op {
	case LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual:
		return nil
	}
	return fmt.Errorf("unknown comparison operator %q", c.Op)
}

// DynamicKind names a value computed at evaluation time.
type DynamicKind string

const (
	// DynamicX is the X chosen for the source.
	DynamicX DynamicKind = "X"
)

// ControllerKind is used by the Controller clause.
type ControllerKind string

const (
	ControllerSelf     ControllerKind = "SELF"
	ControllerOpponent ControllerKind = "OPPONENT"
)

// Restriction is one clause of a restriction list. Kind selects the
// variant; only the fields that variant uses are read.
type Restriction struct {
	Kind RestrictionKind `yaml:"kind" json:"kind"`

	// Cmc, NumberOfCountersOnThis, Power, Toughness.
	Comparison *Comparison `yaml:"comparison,omitempty" json:"comparison,omitempty"`
	// Cmc when compared against a dynamic value instead.
	Dynamic DynamicKind `yaml:"dynamic,omitempty" json:"dynamic,omitempty"`
	// Controller.
	Controller ControllerKind `yaml:"controller,omitempty" json:"controller,omitempty"`
	// Descend, EnteredBattlefieldThisTurn, LeftBattlefieldThisTurn,
	// LifeGainedThisTurn.
	Count int `yaml:"count,omitempty" json:"count,omitempty"`
	// NumberOfCountersOnThis.
	Counter counters.Kind `yaml:"counter,omitempty" json:"counter,omitempty"`
	// OfType, NotOfType.
	Types    []Type    `yaml:"types,omitempty" json:"types,omitempty"`
	Subtypes []Subtype `yaml:"subtypes,omitempty" json:"subtypes,omitempty"`
	// OfColor, ControllerControlsColors.
	Colors []Color `yaml:"colors,omitempty" json:"colors,omitempty"`
	// NotKeywords.
	Keywords []Keyword `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	// InLocation.
	Locations []Location `yaml:"locations,omitempty" json:"locations,omitempty"`
	// ManaSpentFromSource.
	Source mana.Source `yaml:"source,omitempty" json:"source,omitempty"`
	// EnteredBattlefieldThisTurn, LeftBattlefieldThisTurn.
	Restrictions []Restriction `yaml:"restrictions,omitempty" json:"restrictions,omitempty"`
}

// Validate checks that the clause is known and carries the payload it needs.
func (r Restriction) Validate() error {
	if !r.Kind.Known() {
		return fmt.Errorf("unknown restriction %q", r.Kind)
	}
	switch r.Kind {
	case RestrictCmc:
		if r.Comparison == nil && r.Dynamic == "" {
			return fmt.Errorf("%s needs a comparison or a dynamic value", r.Kind)
		}
		if r.Dynamic != "" && r.Dynamic != DynamicX {
			return fmt.Errorf("%s: unknown dynamic value %q", r.Kind, r.Dynamic)
		}
	case RestrictNumberOfCountersOnThis, RestrictPower, RestrictToughness:
		if r.Comparison == nil {
			return fmt.Errorf("%s needs a comparison", r.Kind)
		}
	case RestrictController:
		if r.Controller != ControllerSelf && r.Controller != ControllerOpponent {
			return fmt.Errorf("%s needs controller SELF or OPPONENT, got %q", r.Kind, r.Controller)
		}
	case RestrictInLocation:
		if len(r.Locations) == 0 {
			return fmt.Errorf("%s needs at least one location", r.Kind)
		}
	case RestrictOfColor, RestrictControllerControlsColors:
		if len(r.Colors) == 0 {
			return fmt.Errorf("%s needs at least one color", r.Kind)
		}
	case RestrictManaSpentFromSource:
		if r.Source == "" {
			return fmt.Errorf("%s needs a source", r.Kind)
		}
	}
	if r.Comparison != nil {
		if err := r.Comparison.Validate(); err != nil {
			return fmt.Errorf("%s: %w", r.Kind, err)
		}
	}
	return ValidateRestrictions(r.Restrictions)
}

// ValidateRestrictions validates every clause in the list.
func ValidateRestrictions(rs []Restriction) error {
	for i, r := range rs {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("restriction %d: %w", i, err)
		}
	}
	return nil
}
