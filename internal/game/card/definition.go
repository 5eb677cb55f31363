package card

import (
	"errors"
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game/mana"
)

// Mode is one choosable branch of a modal spell (rule 700.2).
type Mode struct {
	Effects []Effect `yaml:"effects" json:"effects"`
	Text    string   `yaml:"text,omitempty" json:"text,omitempty"`
}

// Enchant describes what an aura can be attached to and what it does to
// the enchanted permanent.
type Enchant struct {
	Restrictions []Restriction  `yaml:"restrictions,omitempty" json:"restrictions,omitempty"`
	Modifiers    []ModifierSpec `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
}

// Definition is the immutable printed face of a card. Definitions are
// shared between every instance of the card and never mutated.
type Definition struct {
	Name            string           `yaml:"name" json:"name"`
	Cost            mana.Costs       `yaml:"cost,omitempty" json:"cost,omitempty"`
	AdditionalCosts []AdditionalCost `yaml:"additional_costs,omitempty" json:"additional_costs,omitempty"`
	Reducer         *CostReducer     `yaml:"reducer,omitempty" json:"reducer,omitempty"`

	Types    []Type          `yaml:"types" json:"types"`
	Subtypes []Subtype       `yaml:"subtypes,omitempty" json:"subtypes,omitempty"`
	Colors   []Color         `yaml:"colors,omitempty" json:"colors,omitempty"`
	Keywords map[Keyword]int `yaml:"keywords,omitempty" json:"keywords,omitempty"`

	Power     *int       `yaml:"power,omitempty" json:"power,omitempty"`
	Toughness *int       `yaml:"toughness,omitempty" json:"toughness,omitempty"`
	DynamicPT *DynamicPT `yaml:"dynamic_power_toughness,omitempty" json:"dynamic_power_toughness,omitempty"`

	Modes   []Mode   `yaml:"modes,omitempty" json:"modes,omitempty"`
	Effects []Effect `yaml:"effects,omitempty" json:"effects,omitempty"`
	Enchant *Enchant `yaml:"enchant,omitempty" json:"enchant,omitempty"`

	StaticAbilities    []StaticAbility    `yaml:"static_abilities,omitempty" json:"static_abilities,omitempty"`
	ActivatedAbilities []ActivatedAbility `yaml:"activated_abilities,omitempty" json:"activated_abilities,omitempty"`
	ManaAbilities      []ManaAbility      `yaml:"mana_abilities,omitempty" json:"mana_abilities,omitempty"`
	TriggeredAbilities []TriggeredAbility `yaml:"triggered_abilities,omitempty" json:"triggered_abilities,omitempty"`
	ETBAbilities       []Effect           `yaml:"etb_abilities,omitempty" json:"etb_abilities,omitempty"`
	Replacements       []Replacement      `yaml:"replacements,omitempty" json:"replacements,omitempty"`

	CannotBeCountered bool `yaml:"cannot_be_countered,omitempty" json:"cannot_be_countered,omitempty"`
	// ApplyIndividually makes every effect choose its own targets instead
	// of reusing the first effect's choices.
	ApplyIndividually bool `yaml:"apply_individually,omitempty" json:"apply_individually,omitempty"`

	Back *Definition `yaml:"back,omitempty" json:"back,omitempty"`
}

// HasType reports whether the printed types include t.
func (d *Definition) HasType(t Type) bool {
	for _, have := range d.Types {
		if have == t {
			return true
		}
	}
	return false
}

// HasSubtype reports whether the printed subtypes include s.
func (d *Definition) HasSubtype(s Subtype) bool {
	for _, have := range d.Subtypes {
		if have == s {
			return true
		}
	}
	return false
}

// IsPermanent reports whether the card is a permanent card.
func (d *Definition) IsPermanent() bool {
	for _, t := range d.Types {
		if t.IsPermanent() {
			return true
		}
	}
	return false
}

// IsInstantSpeed reports whether the card can be cast at instant speed.
func (d *Definition) IsInstantSpeed() bool {
	return d.HasType(TypeInstant) || d.Keywords[KeywordFlash] > 0
}

// IsAura reports whether the card is an aura with an enchant clause.
func (d *Definition) IsAura() bool {
	return d.Enchant != nil
}

// IsModal reports whether the spell chooses between modes.
func (d *Definition) IsModal() bool {
	return len(d.Modes) > 0
}

// SpellEffects returns the effects of the chosen modes, or the plain
// effect list when the spell is not modal.
func (d *Definition) SpellEffects(modes []int) []Effect {
	if !d.IsModal() {
		return d.Effects
	}
	var out []Effect
	for _, m := range modes {
		if m >= 0 && m < len(d.Modes) {
			out = append(out, d.Modes[m].Effects...)
		}
	}
	return out
}

// Validate checks the definition's shape. Definitions must pass before
// they reach the engine.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return errors.New("definition has no name")
	}
	if len(d.Types) == 0 {
		return fmt.Errorf("%s: no types", d.Name)
	}
	for _, t := range d.Types {
		if !t.Known() {
			return fmt.Errorf("%s: unknown type %q", d.Name, t)
		}
	}
	if d.Power != nil && *d.Power < 0 {
		return fmt.Errorf("%s: negative power", d.Name)
	}
	if d.Toughness != nil && *d.Toughness < 0 {
		return fmt.Errorf("%s: negative toughness", d.Name)
	}
	if d.HasType(TypeCreature) && (d.Power == nil || d.Toughness == nil) && d.DynamicPT == nil {
		return fmt.Errorf("%s: creature without power and toughness", d.Name)
	}
	if d.DynamicPT != nil {
		if err := d.DynamicPT.Validate(); err != nil {
			return fmt.Errorf("%s: %w", d.Name, err)
		}
	}
	if len(d.Modes) > 0 && len(d.Effects) > 0 {
		return fmt.Errorf("%s: both modes and effects", d.Name)
	}
	for i, m := range d.Modes {
		if len(m.Effects) == 0 {
			return fmt.Errorf("%s: mode %d has no effects", d.Name, i)
		}
		if err := ValidateEffects(m.Effects); err != nil {
			return fmt.Errorf("%s: mode %d: %w", d.Name, i, err)
		}
	}
	if err := ValidateEffects(d.Effects); err != nil {
		return fmt.Errorf("%s: %w", d.Name, err)
	}
	if err := ValidateEffects(d.ETBAbilities); err != nil {
		return fmt.Errorf("%s: etb: %w", d.Name, err)
	}
	for i, c := range d.AdditionalCosts {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: additional cost %d: %w", d.Name, i, err)
		}
	}
	if d.Reducer != nil {
		if err := ValidateRestrictions(d.Reducer.When); err != nil {
			return fmt.Errorf("%s: reducer: %w", d.Name, err)
		}
	}
	if d.Enchant != nil {
		if err := ValidateRestrictions(d.Enchant.Restrictions); err != nil {
			return fmt.Errorf("%s: enchant: %w", d.Name, err)
		}
		for i, m := range d.Enchant.Modifiers {
			if err := m.Validate(); err != nil {
				return fmt.Errorf("%s: enchant modifier %d: %w", d.Name, i, err)
			}
		}
	}
	for i, s := range d.StaticAbilities {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%s: static ability %d: %w", d.Name, i, err)
		}
	}
	for i, a := range d.ActivatedAbilities {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%s: activated ability %d: %w", d.Name, i, err)
		}
	}
	for i, a := range d.ManaAbilities {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%s: mana ability %d: %w", d.Name, i, err)
		}
	}
	for i, t := range d.TriggeredAbilities {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%s: triggered ability %d: %w", d.Name, i, err)
		}
	}
	for i, r := range d.Replacements {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%s: replacement %d: %w", d.Name, i, err)
		}
	}
	if d.Back != nil {
		if err := d.Back.Validate(); err != nil {
			return fmt.Errorf("%s: back face: %w", d.Name, err)
		}
	}
	return nil
}

// Int returns a pointer to v, for literal power and toughness values.
func Int(v int) *int {
	return &v
}
