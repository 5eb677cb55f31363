package card

import (
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game/mana"
)

// AdditionalCostKind names a non-mana cost.
type AdditionalCostKind string

const (
	CostSacrificePermanent  AdditionalCostKind = "SACRIFICE_PERMANENT"
	CostTapPermanent        AdditionalCostKind = "TAP_PERMANENT"
	CostTapPermanentsPowerX AdditionalCostKind = "TAP_PERMANENTS_POWER_X_OR_MORE"
	CostExileCards          AdditionalCostKind = "EXILE_CARDS"
	CostExilePermanentsCmcX AdditionalCostKind = "EXILE_PERMANENTS_CMC_X"
	CostPayLife             AdditionalCostKind = "PAY_LIFE"
	CostDiscardCard         AdditionalCostKind = "DISCARD_CARD"
)

// AdditionalCost is a cost paid alongside mana (rule 601.2f).
type AdditionalCost struct {
	Kind AdditionalCostKind `yaml:"kind" json:"kind"`
	// Power total, mana value total, life, or the minimum card count.
	Count int `yaml:"count,omitempty" json:"count,omitempty"`
	// ExileCards upper bound.
	Max          int           `yaml:"max,omitempty" json:"max,omitempty"`
	Restrictions []Restriction `yaml:"restrictions,omitempty" json:"restrictions,omitempty"`
}

// Validate checks the cost kind.
func (c AdditionalCost) Validate() error {
	switch c.Kind {
	case CostSacrificePermanent, CostTapPermanent, CostDiscardCard:
	case CostTapPermanentsPowerX, CostExilePermanentsCmcX, CostPayLife:
		if c.Count <= 0 {
			return fmt.Errorf("%s needs a positive count", c.Kind)
		}
	case CostExileCards:
		if c.Max != 0 && c.Max < c.Count {
			return fmt.Errorf("%s: max %d below minimum %d", c.Kind, c.Max, c.Count)
		}
	default:
		return fmt.Errorf("unknown additional cost %q", c.Kind)
	}
	return ValidateRestrictions(c.Restrictions)
}

// AbilityCost is the cost of an activated or mana ability.
type AbilityCost struct {
	Mana       mana.Costs       `yaml:"mana,omitempty" json:"mana,omitempty"`
	Tap        bool             `yaml:"tap,omitempty" json:"tap,omitempty"`
	Additional []AdditionalCost `yaml:"additional,omitempty" json:"additional,omitempty"`
	// Conditions on activating at all, checked with the source as candidate.
	Restrictions []Restriction `yaml:"restrictions,omitempty" json:"restrictions,omitempty"`
}

// Validate checks the cost.
func (c AbilityCost) Validate() error {
	for i, a := range c.Additional {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("additional cost %d: %w", i, err)
		}
	}
	return ValidateRestrictions(c.Restrictions)
}

// CostReducer lowers a spell's cost while its controller controls a
// permanent passing When.
type CostReducer struct {
	When      []Restriction  `yaml:"when" json:"when"`
	Reduction mana.Reduction `yaml:"reduction" json:"reduction"`
}

// ActivatedAbility is an ability written "cost: effect" (rule 602).
type ActivatedAbility struct {
	Cost         AbilityCost `yaml:"cost" json:"cost"`
	Effects      []Effect    `yaml:"effects" json:"effects"`
	ApplyToSelf  bool        `yaml:"apply_to_self,omitempty" json:"apply_to_self,omitempty"`
	SorcerySpeed bool        `yaml:"sorcery_speed,omitempty" json:"sorcery_speed,omitempty"`
	Text         string      `yaml:"text,omitempty" json:"text,omitempty"`
}

// Validate checks cost and effects.
func (a ActivatedAbility) Validate() error {
	if err := a.Cost.Validate(); err != nil {
		return err
	}
	if len(a.Effects) == 0 {
		return fmt.Errorf("activated ability has no effects")
	}
	return ValidateEffects(a.Effects)
}

// ManaAbility adds mana without using the stack (rule 605).
type ManaAbility struct {
	Cost   AbilityCost `yaml:"cost" json:"cost"`
	Gain   []mana.Mana `yaml:"gain" json:"gain"`
	Source mana.Source `yaml:"source,omitempty" json:"source,omitempty"`
}

// Validate checks the ability.
func (a ManaAbility) Validate() error {
	if len(a.Gain) == 0 {
		return fmt.Errorf("mana ability gains nothing")
	}
	return a.Cost.Validate()
}

// StaticKind names a static ability.
type StaticKind string

const (
	StaticBattlefieldModifier      StaticKind = "BATTLEFIELD_MODIFIER"
	StaticAddKeywordsIf            StaticKind = "ADD_KEYWORDS_IF"
	StaticAllAbilitiesOfExiledWith StaticKind = "ALL_ABILITIES_OF_EXILED_WITH"
	StaticForceEtbTapped           StaticKind = "FORCE_ETB_TAPPED"
	StaticCantBeCountered          StaticKind = "CANT_BE_COUNTERED"
)

// StaticAbility is always on while its card is on the battlefield.
type StaticAbility struct {
	Kind StaticKind `yaml:"kind" json:"kind"`
	// BattlefieldModifier.
	Modifier *BattlefieldModifier `yaml:"modifier,omitempty" json:"modifier,omitempty"`
	// AddKeywordsIf.
	Keywords map[Keyword]int `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	// AddKeywordsIf: the card itself must pass these. AllAbilitiesOfExiledWith:
	// extra activation restrictions. ForceEtbTapped and CantBeCountered:
	// which cards are affected.
	Restrictions []Restriction `yaml:"restrictions,omitempty" json:"restrictions,omitempty"`
}

// Validate checks the variant.
func (s StaticAbility) Validate() error {
	switch s.Kind {
	case StaticBattlefieldModifier:
		if s.Modifier == nil {
			return fmt.Errorf("%s needs a modifier", s.Kind)
		}
		if err := s.Modifier.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.Kind, err)
		}
	case StaticAddKeywordsIf:
		if len(s.Keywords) == 0 {
			return fmt.Errorf("%s needs keywords", s.Kind)
		}
	case StaticAllAbilitiesOfExiledWith, StaticForceEtbTapped, StaticCantBeCountered:
	default:
		return fmt.Errorf("unknown static ability %q", s.Kind)
	}
	return ValidateRestrictions(s.Restrictions)
}

// TriggerSource is the event a triggered ability listens for.
type TriggerSource string

const (
	TriggerCast              TriggerSource = "CAST"
	TriggerAttacks           TriggerSource = "ATTACKS"
	TriggerTapped            TriggerSource = "TAPPED"
	TriggerEntersBattlefield TriggerSource = "ENTERS_BATTLEFIELD"
	TriggerPutIntoGraveyard  TriggerSource = "PUT_INTO_GRAVEYARD"
	TriggerLeavesBattlefield TriggerSource = "LEAVES_BATTLEFIELD"
	TriggerStartOfCombat     TriggerSource = "START_OF_COMBAT"
	TriggerUpkeep            TriggerSource = "UPKEEP"
	TriggerEndStep           TriggerSource = "END_STEP"
	TriggerTargeted          TriggerSource = "TARGETED"
	TriggerAbilityActivated  TriggerSource = "ABILITY_ACTIVATED"
)

var knownTriggers = map[TriggerSource]bool{
	TriggerCast: true, TriggerAttacks: true, TriggerTapped: true, TriggerEntersBattlefield: true,
	TriggerPutIntoGraveyard: true, TriggerLeavesBattlefield: true, TriggerStartOfCombat: true,
	TriggerUpkeep: true, TriggerEndStep: true, TriggerTargeted: true, TriggerAbilityActivated: true,
}

// Trigger describes when a triggered ability fires. Restrictions are
// checked with the listening card as source and the triggering card as
// candidate.
type Trigger struct {
	Source       TriggerSource `yaml:"source" json:"source"`
	From         Location      `yaml:"from,omitempty" json:"from,omitempty"`
	Restrictions []Restriction `yaml:"restrictions,omitempty" json:"restrictions,omitempty"`
}

// TriggeredAbility is "when/whenever/at ... do ..." (rule 603).
type TriggeredAbility struct {
	Trigger Trigger  `yaml:"trigger" json:"trigger"`
	Effects []Effect `yaml:"effects" json:"effects"`
	Text    string   `yaml:"text,omitempty" json:"text,omitempty"`
}

// Validate checks trigger and effects.
func (t TriggeredAbility) Validate() error {
	if !knownTriggers[t.Trigger.Source] {
		return fmt.Errorf("unknown trigger source %q", t.Trigger.Source)
	}
	if err := ValidateRestrictions(t.Trigger.Restrictions); err != nil {
		return err
	}
	return ValidateEffects(t.Effects)
}

// ReplacementKind names a replacement effect.
type ReplacementKind string

const (
	ReplaceTokenCreation    ReplacementKind = "TOKEN_CREATION"
	ReplaceCounterPlacement ReplacementKind = "COUNTER_PLACEMENT"
)

// Replacement modifies an event as it happens (rule 614).
type Replacement struct {
	Kind         ReplacementKind `yaml:"kind" json:"kind"`
	Restrictions []Restriction   `yaml:"restrictions,omitempty" json:"restrictions,omitempty"`
	// TokenCreation: tokens created are multiplied by this (default 2).
	Multiplier int `yaml:"multiplier,omitempty" json:"multiplier,omitempty"`
	// CounterPlacement: this many extra counters are placed (default 1).
	Extra int `yaml:"extra,omitempty" json:"extra,omitempty"`
}

// Validate checks the replacement.
func (r Replacement) Validate() error {
	switch r.Kind {
	case ReplaceTokenCreation, ReplaceCounterPlacement:
	default:
		return fmt.Errorf("unknown replacement %q", r.Kind)
	}
	if r.Multiplier < 0 || r.Extra < 0 {
		return fmt.Errorf("%s: negative amount", r.Kind)
	}
	return ValidateRestrictions(r.Restrictions)
}

// TokenMultiplier returns the effective multiplier.
func (r Replacement) TokenMultiplier() int {
	if r.Multiplier == 0 {
		return 2
	}
	return r.Multiplier
}

// ExtraCounters returns the effective number of extra counters.
func (r Replacement) ExtraCounters() int {
	if r.Extra == 0 {
		return 1
	}
	return r.Extra
}
