package card

import (
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/mana"
)

// EffectKind names an effect.
type EffectKind string

const (
	EffectDealDamage          EffectKind = "DEAL_DAMAGE"
	EffectDestroyTarget       EffectKind = "DESTROY_TARGET"
	EffectDestroyEach         EffectKind = "DESTROY_EACH"
	EffectExileTarget         EffectKind = "EXILE_TARGET"
	EffectReturnToHand        EffectKind = "RETURN_TO_HAND"
	EffectCounterSpell        EffectKind = "COUNTER_SPELL"
	EffectModifyTarget        EffectKind = "MODIFY_TARGET"
	EffectBattlefieldModifier EffectKind = "BATTLEFIELD_MODIFIER"
	EffectTapTarget           EffectKind = "TAP_TARGET"
	EffectUntapTarget         EffectKind = "UNTAP_TARGET"
	EffectAddCounters         EffectKind = "ADD_COUNTERS"
	EffectDrawCards           EffectKind = "DRAW_CARDS"
	EffectGainLife            EffectKind = "GAIN_LIFE"
	EffectLoseLife            EffectKind = "LOSE_LIFE"
	EffectCreateToken         EffectKind = "CREATE_TOKEN"
	EffectCreateTokenCopy     EffectKind = "CREATE_TOKEN_COPY"
	EffectScry                EffectKind = "SCRY"
	EffectDiscard             EffectKind = "DISCARD"
	EffectMill                EffectKind = "MILL"
	EffectDiscover            EffectKind = "DISCOVER"
	EffectGainMana            EffectKind = "GAIN_MANA"
)

var targetedEffects = map[EffectKind]bool{
	EffectDealDamage:      true,
	EffectDestroyTarget:   true,
	EffectExileTarget:     true,
	EffectReturnToHand:    true,
	EffectCounterSpell:    true,
	EffectModifyTarget:    true,
	EffectTapTarget:       true,
	EffectUntapTarget:     true,
	EffectAddCounters:     true,
	EffectCreateTokenCopy: true,
}

var knownEffects = map[EffectKind]bool{
	EffectDestroyEach: true, EffectBattlefieldModifier: true, EffectDrawCards: true,
	EffectGainLife: true, EffectLoseLife: true, EffectCreateToken: true, EffectScry: true,
	EffectDiscard: true, EffectMill: true, EffectDiscover: true, EffectGainMana: true,
}

// Known reports whether the kind is part of the closed effect set.
func (k EffectKind) Known() bool {
	return knownEffects[k] || targetedEffects[k]
}

// Effect is one instruction of a spell or ability. Kind selects the
// variant; only the fields that variant uses are read.
type Effect struct {
	Kind EffectKind `yaml:"kind" json:"kind"`

	// Damage, cards drawn, life, counters, tokens, scry depth, mill depth,
	// discard count, discover value.
	Count int `yaml:"count,omitempty" json:"count,omitempty"`
	// Number of targets wanted. Zero means one for targeted effects.
	Targets int `yaml:"targets,omitempty" json:"targets,omitempty"`
	// UpTo allows choosing fewer targets than wanted, down to zero.
	UpTo bool `yaml:"up_to,omitempty" json:"up_to,omitempty"`
	// Players allows DealDamage to target players that pass
	// PlayerRestrictions.
	Players            bool          `yaml:"players,omitempty" json:"players,omitempty"`
	PlayerRestrictions []Restriction `yaml:"player_restrictions,omitempty" json:"player_restrictions,omitempty"`
	// Self applies AddCounters to the source instead of a target.
	Self bool `yaml:"self,omitempty" json:"self,omitempty"`
	// Target and DestroyEach restrictions.
	Restrictions []Restriction `yaml:"restrictions,omitempty" json:"restrictions,omitempty"`

	// ModifyTarget and BattlefieldModifier.
	Modifier *ModifierSpec `yaml:"modifier,omitempty" json:"modifier,omitempty"`
	Duration Duration      `yaml:"duration,omitempty" json:"duration,omitempty"`

	// AddCounters.
	Counter counters.Kind `yaml:"counter,omitempty" json:"counter,omitempty"`

	// CreateToken.
	Token *Definition `yaml:"token,omitempty" json:"token,omitempty"`

	// GainMana: every listed mana is gained once.
	Mana       []mana.Mana `yaml:"mana,omitempty" json:"mana,omitempty"`
	ManaSource mana.Source `yaml:"mana_source,omitempty" json:"mana_source,omitempty"`
}

// WantsTargets is the most targets the effect can take.
func (e Effect) WantsTargets() int {
	if !targetedEffects[e.Kind] || (e.Kind == EffectAddCounters && e.Self) {
		return 0
	}
	if e.Targets > 0 {
		return e.Targets
	}
	return 1
}

// NeedsTargets is the fewest targets the effect must take to be cast.
func (e Effect) NeedsTargets() int {
	if e.UpTo {
		return 0
	}
	return e.WantsTargets()
}

// Validate checks the payload for the effect's kind.
func (e Effect) Validate() error {
	if !e.Kind.Known() {
		return fmt.Errorf("unknown effect %q", e.Kind)
	}
	if e.Count < 0 || e.Targets < 0 {
		return fmt.Errorf("%s: negative count", e.Kind)
	}
	switch e.Kind {
	case EffectModifyTarget, EffectBattlefieldModifier:
		if e.Modifier == nil {
			return fmt.Errorf("%s needs a modifier", e.Kind)
		}
		if err := e.Duration.Validate(); err != nil {
			return fmt.Errorf("%s: %w", e.Kind, err)
		}
		if err := e.Modifier.Validate(); err != nil {
			return fmt.Errorf("%s: %w", e.Kind, err)
		}
	case EffectAddCounters:
		if e.Counter == "" || e.Counter == counters.Any {
			return fmt.Errorf("%s needs a concrete counter kind", e.Kind)
		}
	case EffectCreateToken:
		if e.Token == nil {
			return fmt.Errorf("%s needs a token definition", e.Kind)
		}
		if err := e.Token.Validate(); err != nil {
			return fmt.Errorf("%s: token %w", e.Kind, err)
		}
	case EffectGainMana:
		if len(e.Mana) == 0 {
			return fmt.Errorf("%s needs at least one mana", e.Kind)
		}
	}
	if err := ValidateRestrictions(e.PlayerRestrictions); err != nil {
		return err
	}
	return ValidateRestrictions(e.Restrictions)
}

// ValidateEffects validates every effect in the list.
func ValidateEffects(es []Effect) error {
	for i, e := range es {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("effect %d: %w", i, err)
		}
	}
	return nil
}
