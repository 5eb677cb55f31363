package effects

import (
	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/restrictions"
	"github.com/magefree/mage-rules-go/internal/game/state"
	"go.uber.org/zap"
)

// ReplacementManager applies replacement abilities of permanents to token
// creation and counter placement (rule 614).
//
// Each replacement modifies an event at most once (rule 616.1) and
// replacements are considered in card order.
type ReplacementManager struct {
	logger *zap.Logger
}

// NewReplacementManager creates a new replacement manager.
func NewReplacementManager(logger *zap.Logger) *ReplacementManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplacementManager{logger: logger}
}

type watcher struct {
	source      state.CardID
	replacement *card.Replacement
}

// watching lists battlefield replacements of a kind, in card order.
func (rm *ReplacementManager) watching(s *state.Store, kind card.ReplacementKind) []watcher {
	var out []watcher
	for _, id := range s.Battlefield() {
		c := s.MustCard(id)
		for _, r := range c.Modified.Replacements {
			if r.Kind == kind {
				out = append(out, watcher{source: id, replacement: r})
			}
		}
	}
	return out
}

// TokenCount returns how many tokens are created when count tokens like
// candidate would be created.
func (rm *ReplacementManager) TokenCount(s *state.Store, candidate state.CardID, count int) int {
	session := s.Log.Current()
	for _, w := range rm.watching(s, card.ReplaceTokenCreation) {
		if !restrictions.Passes(s, session, w.source, candidate, w.replacement.Restrictions) {
			continue
		}
		count *= w.replacement.TokenMultiplier()
		rm.logger.Debug("replaced token creation",
			zap.Uint64("source_id", uint64(w.source)),
			zap.Int("count", count))
	}
	return count
}

// CounterCount returns how many counters are placed on target when amount
// counters would be placed.
func (rm *ReplacementManager) CounterCount(s *state.Store, target state.CardID, amount int) int {
	if amount <= 0 {
		return amount
	}
	session := s.Log.Current()
	for _, w := range rm.watching(s, card.ReplaceCounterPlacement) {
		if !restrictions.Passes(s, session, w.source, target, w.replacement.Restrictions) {
			continue
		}
		amount += w.replacement.ExtraCounters()
		rm.logger.Debug("replaced counter placement",
			zap.Uint64("source_id", uint64(w.source)),
			zap.Uint64("target_id", uint64(target)),
			zap.Int("amount", amount))
	}
	return amount
}
