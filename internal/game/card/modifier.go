package card

import (
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game/counters"
)

// Duration is how long a modifier lasts (rule 611.2).
type Duration string

const (
	UntilEndOfTurn               Duration = "UNTIL_END_OF_TURN"
	UntilSourceLeavesBattlefield Duration = "UNTIL_SOURCE_LEAVES_BATTLEFIELD"
	UntilUntapped                Duration = "UNTIL_UNTAPPED"
	Permanently                  Duration = "PERMANENTLY"
)

// Validate checks the duration. Empty means Permanently.
func (d Duration) Validate() error {
	switch d {
	case "", UntilEndOfTurn, UntilSourceLeavesBattlefield, UntilUntapped, Permanently:
		return nil
	}
	return fmt.Errorf("unknown duration %q", d)
}

// DynamicKind for power/toughness.
type DynamicPTKind string

const (
	// DynamicCounters counts counters of a kind on the card itself.
	DynamicCounters DynamicPTKind = "NUMBER_OF_COUNTERS_ON_THIS"
	// DynamicPermanents counts permanents passing restrictions.
	DynamicPermanents DynamicPTKind = "NUMBER_OF_PERMANENTS_MATCHING"
)

// DynamicPT is a power/toughness value computed at recompute time.
type DynamicPT struct {
	Kind         DynamicPTKind `yaml:"kind" json:"kind"`
	Counter      counters.Kind `yaml:"counter,omitempty" json:"counter,omitempty"`
	Restrictions []Restriction `yaml:"restrictions,omitempty" json:"restrictions,omitempty"`
}

// Validate checks the variant.
func (d DynamicPT) Validate() error {
	switch d.Kind {
	case DynamicCounters:
		if d.Counter == "" {
			return fmt.Errorf("%s needs a counter kind", d.Kind)
		}
		return nil
	case DynamicPermanents:
		return ValidateRestrictions(d.Restrictions)
	}
	return fmt.Errorf("unknown dynamic power/toughness %q", d.Kind)
}

// ModifierSpec describes a change to a card's characteristics. A single
// spec may touch several layers.
type ModifierSpec struct {
	// Scope. Neither flag set means only explicitly modified cards.
	Global            bool `yaml:"global,omitempty" json:"global,omitempty"`
	EntireBattlefield bool `yaml:"entire_battlefield,omitempty" json:"entire_battlefield,omitempty"`

	// Layer 4: types and subtypes.
	AddTypes               []Type    `yaml:"add_types,omitempty" json:"add_types,omitempty"`
	AddSubtypes            []Subtype `yaml:"add_subtypes,omitempty" json:"add_subtypes,omitempty"`
	RemoveTypes            []Type    `yaml:"remove_types,omitempty" json:"remove_types,omitempty"`
	RemoveAllTypes         bool      `yaml:"remove_all_types,omitempty" json:"remove_all_types,omitempty"`
	RemoveSubtypes         []Subtype `yaml:"remove_subtypes,omitempty" json:"remove_subtypes,omitempty"`
	RemoveAllCreatureTypes bool      `yaml:"remove_all_creature_types,omitempty" json:"remove_all_creature_types,omitempty"`

	// Layer 5: colors.
	AddColors       []Color `yaml:"add_colors,omitempty" json:"add_colors,omitempty"`
	RemoveAllColors bool    `yaml:"remove_all_colors,omitempty" json:"remove_all_colors,omitempty"`

	// Layer 6: abilities and keywords.
	RemoveAllAbilities bool               `yaml:"remove_all_abilities,omitempty" json:"remove_all_abilities,omitempty"`
	AddManaAbilities   []ManaAbility      `yaml:"add_mana_abilities,omitempty" json:"add_mana_abilities,omitempty"`
	AddStaticAbilities []StaticAbility    `yaml:"add_static_abilities,omitempty" json:"add_static_abilities,omitempty"`
	AddAbilities       []ActivatedAbility `yaml:"add_abilities,omitempty" json:"add_abilities,omitempty"`
	AddKeywords        map[Keyword]int    `yaml:"add_keywords,omitempty" json:"add_keywords,omitempty"`
	RemoveKeywords     []Keyword          `yaml:"remove_keywords,omitempty" json:"remove_keywords,omitempty"`

	// Layer 7: power and toughness.
	BasePower     *int       `yaml:"base_power,omitempty" json:"base_power,omitempty"`
	BaseToughness *int       `yaml:"base_toughness,omitempty" json:"base_toughness,omitempty"`
	AddPower      int        `yaml:"add_power,omitempty" json:"add_power,omitempty"`
	AddToughness  int        `yaml:"add_toughness,omitempty" json:"add_toughness,omitempty"`
	AddDynamicPT  *DynamicPT `yaml:"add_dynamic_power_toughness,omitempty" json:"add_dynamic_power_toughness,omitempty"`
}

// Validate checks nested payloads.
func (m ModifierSpec) Validate() error {
	for _, t := range append(append([]Type(nil), m.AddTypes...), m.RemoveTypes...) {
		if !t.Known() {
			return fmt.Errorf("unknown type %q", t)
		}
	}
	if m.AddDynamicPT != nil {
		if err := m.AddDynamicPT.Validate(); err != nil {
			return err
		}
	}
	for i, a := range m.AddAbilities {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("added ability %d: %w", i, err)
		}
	}
	for i, s := range m.AddStaticAbilities {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("added static ability %d: %w", i, err)
		}
	}
	return nil
}

// BattlefieldModifier is a modifier created by a static ability or an
// effect, applying to every permanent that passes Restrictions.
type BattlefieldModifier struct {
	Modifier     ModifierSpec  `yaml:"modifier" json:"modifier"`
	Duration     Duration      `yaml:"duration,omitempty" json:"duration,omitempty"`
	Restrictions []Restriction `yaml:"restrictions,omitempty" json:"restrictions,omitempty"`
}

// Validate checks the modifier and its restrictions.
func (b BattlefieldModifier) Validate() error {
	if err := b.Duration.Validate(); err != nil {
		return err
	}
	if err := b.Modifier.Validate(); err != nil {
		return err
	}
	return ValidateRestrictions(b.Restrictions)
}
