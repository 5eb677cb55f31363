package effects

import (
	"sort"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/mana"
	"github.com/magefree/mage-rules-go/internal/game/restrictions"
	"github.com/magefree/mage-rules-go/internal/game/state"
	"go.uber.org/zap"
)

// Layer corresponds to the comprehensive rules layers for continuous
// effects (rule 613.1). Copy, control and text changing effects are not
// modelled beyond cloning the copied face.
type Layer int

const (
	LayerCopy Layer = 1 + iota
	LayerControl
	LayerText
	LayerType
	LayerColor
	LayerAbility
	LayerPowerToughness
)

var layerNames = map[Layer]string{
	LayerCopy:           "copy",
	LayerControl:        "control",
	LayerText:           "text",
	LayerType:           "type",
	LayerColor:          "color",
	LayerAbility:        "ability",
	LayerPowerToughness: "power_toughness",
}

func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return "unknown"
}

// maxOwnedPasses bounds recomputation when materialising owned modifiers
// feeds back into the card being computed.
const maxOwnedPasses = 4

var basicLandMana = map[card.Subtype]*card.ManaAbility{
	card.SubtypePlains:   {Cost: card.AbilityCost{Tap: true}, Gain: []mana.Mana{mana.White}},
	card.SubtypeIsland:   {Cost: card.AbilityCost{Tap: true}, Gain: []mana.Mana{mana.Blue}},
	card.SubtypeSwamp:    {Cost: card.AbilityCost{Tap: true}, Gain: []mana.Mana{mana.Black}},
	card.SubtypeMountain: {Cost: card.AbilityCost{Tap: true}, Gain: []mana.Mana{mana.Red}},
	card.SubtypeForest:   {Cost: card.AbilityCost{Tap: true}, Gain: []mana.Mana{mana.Green}},
}

var basicLandOrder = []card.Subtype{
	card.SubtypePlains,
	card.SubtypeIsland,
	card.SubtypeSwamp,
	card.SubtypeMountain,
	card.SubtypeForest,
}

// LayerSystem recomputes card characteristics from printed values and
// active modifiers.
type LayerSystem struct {
	logger *zap.Logger
}

// NewLayerSystem constructs a layer system.
func NewLayerSystem(logger *zap.Logger) *LayerSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LayerSystem{logger: logger}
}

// snapshot is the partially computed characteristics of one card while
// layers are being applied.
type snapshot struct {
	store *state.Store
	card  *state.Card
	out   state.Characteristics

	basePower     *int
	baseToughness *int
	dynamic       *card.DynamicPT
}

// base evaluates the current base power and toughness. Dynamic bases are
// evaluated with source as the counting card.
func (sn *snapshot) base(source state.CardID) (power, toughness *int) {
	if sn.dynamic != nil {
		v := restrictions.DynamicValue(sn.store, source, sn.dynamic)
		return card.Int(v), card.Int(v)
	}
	return sn.basePower, sn.baseToughness
}

// settleBase freezes a dynamic base so a setting effect can override one
// half of it.
func (sn *snapshot) settleBase(self state.CardID) {
	if sn.dynamic == nil {
		return
	}
	sn.basePower, sn.baseToughness = sn.base(self)
	sn.dynamic = nil
}

func (sn *snapshot) attributes(source state.CardID) restrictions.Attributes {
	power, toughness := sn.base(source)
	return restrictions.Attributes{
		Types:     sn.out.Types,
		Subtypes:  sn.out.Subtypes,
		Keywords:  sn.out.Keywords,
		Colors:    sn.out.Colors,
		Activated: len(sn.out.Activated),
		Power:     power,
		Toughness: toughness,
	}
}

func (sn *snapshot) passes(source state.CardID, clauses []card.Restriction) bool {
	if len(clauses) == 0 {
		return true
	}
	return restrictions.PassesGiven(
		sn.store,
		sn.store.Log.Current(),
		source,
		sn.card.ID,
		sn.card.Controller,
		clauses,
		sn.attributes(source),
	)
}

// Recompute rebuilds one card's modified characteristics and returns the
// modifiers that contributed, in ID order. Calling it again without any
// state change yields identical characteristics.
func (ls *LayerSystem) Recompute(s *state.Store, id state.CardID) []state.ModifierID {
	var applied []state.ModifierID
	for pass := 0; pass < maxOwnedPasses; pass++ {
		applied = ls.apply(s, id)
		if !ls.syncOwned(s, id) {
			return applied
		}
	}
	ls.logger.Warn("owned modifiers did not settle",
		zap.Uint64("card_id", uint64(id)))
	return applied
}

// RecomputeAll recomputes every card until owned modifiers stop changing.
func (ls *LayerSystem) RecomputeAll(s *state.Store) {
	for pass := 0; pass < maxOwnedPasses; pass++ {
		changed := false
		for _, id := range s.CardIDs() {
			ls.apply(s, id)
			if ls.syncOwned(s, id) {
				changed = true
			}
		}
		if !changed {
			return
		}
	}
	ls.logger.Warn("owned modifiers did not settle across the game")
}

func (ls *LayerSystem) apply(s *state.Store, id state.CardID) []state.ModifierID {
	c := s.MustCard(id)
	onBattlefield := c.Location == card.LocationBattlefield

	var mods []*state.Modifier
	for _, m := range s.ActiveModifiers() {
		if m.Affects(id, onBattlefield) {
			mods = append(mods, m)
		}
	}

	sn := seed(s, c)
	applied := make(map[state.ModifierID]bool)

	recheck := func(m *state.Modifier) bool {
		if applied[m.ID] {
			return true
		}
		return sn.passes(m.Source, m.Restrictions)
	}

	// Layer 4.
	for _, m := range mods {
		if !recheck(m) {
			continue
		}
		if applyTypes(&sn.out, m.Spec) {
			applied[m.ID] = true
		}
	}
	if len(sn.out.Subtypes) > 0 {
		for _, sub := range basicLandOrder {
			if sn.out.Subtypes.Has(sub) {
				sn.out.ManaAbilities = append(sn.out.ManaAbilities, basicLandMana[sub])
			}
		}
	}

	// Layer 5.
	for _, m := range mods {
		if !recheck(m) {
			continue
		}
		if applyColors(&sn.out, m.Spec) {
			applied[m.ID] = true
		}
	}
	if len(sn.out.Colors) != 1 {
		sn.out.Colors.Remove(card.ColorColorless)
	}

	// Layer 6, abilities the card grants itself.
	var grants []map[card.Keyword]int
	var borrowed []state.Activated
	for _, sa := range sn.out.Static {
		switch sa.Kind {
		case card.StaticAddKeywordsIf:
			if sn.passes(id, sa.Restrictions) {
				grants = append(grants, sa.Keywords)
			}
		case card.StaticAllAbilitiesOfExiledWith:
			for _, other := range s.CardIDs() {
				exiled := s.MustCard(other)
				if exiled.ExiledWith != id {
					continue
				}
				for i := range exiled.Face.ActivatedAbilities {
					borrowed = append(borrowed, state.Activated{
						Ability: &exiled.Face.ActivatedAbilities[i],
						Origin:  other,
						Extra:   sa.Restrictions,
					})
				}
			}
		}
	}
	for _, add := range grants {
		for kw, n := range add {
			sn.out.Keywords[kw] += n
		}
	}
	sn.out.Activated = append(sn.out.Activated, borrowed...)

	// Layer 6, modifiers.
	for _, m := range mods {
		if !recheck(m) {
			continue
		}
		if applyAbilities(&sn.out, m) {
			applied[m.ID] = true
		}
	}

	// Layer 7.
	addPower, addToughness := 0, 0
	for _, m := range mods {
		if !recheck(m) {
			continue
		}
		spec := m.Spec
		if spec.BasePower != nil {
			applied[m.ID] = true
			sn.settleBase(id)
			sn.basePower = card.Int(*spec.BasePower)
		}
		if spec.BaseToughness != nil {
			applied[m.ID] = true
			sn.settleBase(id)
			sn.baseToughness = card.Int(*spec.BaseToughness)
		}
		if spec.AddPower != 0 {
			applied[m.ID] = true
			addPower += spec.AddPower
		}
		if spec.AddToughness != 0 {
			applied[m.ID] = true
			addToughness += spec.AddToughness
		}
		if spec.AddDynamicPT != nil {
			applied[m.ID] = true
			v := restrictions.DynamicValue(s, m.Source, spec.AddDynamicPT)
			addPower += v
			addToughness += v
		}
	}

	boostP, boostT := c.Counters.Boost()
	addPower += boostP
	addToughness += boostT

	sn.out.BasePower, sn.out.BaseToughness = sn.base(id)
	sn.out.AddPower = addPower
	sn.out.AddToughness = addToughness
	c.Modified = sn.out

	out := make([]state.ModifierID, 0, len(applied))
	for mid := range applied {
		out = append(out, mid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// seed fills the printed characteristics of the face the card presents.
func seed(s *state.Store, c *state.Card) *snapshot {
	sn := &snapshot{store: s, card: c}
	out := &sn.out
	out.Types = card.NewSet[card.Type]()
	out.Subtypes = card.NewSet[card.Subtype]()
	out.Colors = card.NewSet[card.Color]()
	out.Keywords = make(map[card.Keyword]int)

	// Rule 708.2: a face-down permanent is a nameless 2/2 creature.
	if c.FaceDown && !c.Transformed {
		out.Types.Add(card.TypeCreature)
		sn.basePower = card.Int(2)
		sn.baseToughness = card.Int(2)
		return sn
	}

	face := presentedFace(s, c)
	out.Name = face.Name
	out.Cost = face.Cost
	for _, t := range face.Types {
		out.Types.Add(t)
	}
	for _, st := range face.Subtypes {
		out.Subtypes.Add(st)
	}
	for _, col := range face.Colors {
		out.Colors.Add(col)
	}
	for _, m := range face.Cost.Colors() {
		out.Colors.Add(card.Color(m))
	}
	for kw, n := range face.Keywords {
		out.Keywords[kw] = n
	}
	for i := range face.TriggeredAbilities {
		out.Triggers = append(out.Triggers, &face.TriggeredAbilities[i])
	}
	out.ETB = face.ETBAbilities
	for i := range face.StaticAbilities {
		out.Static = append(out.Static, &face.StaticAbilities[i])
	}
	for i := range face.ActivatedAbilities {
		out.Activated = append(out.Activated, state.Activated{
			Ability: &face.ActivatedAbilities[i],
			Origin:  c.ID,
		})
	}
	for i := range face.ManaAbilities {
		out.ManaAbilities = append(out.ManaAbilities, &face.ManaAbilities[i])
	}
	for i := range face.Replacements {
		out.Replacements = append(out.Replacements, &face.Replacements[i])
	}

	if face.DynamicPT != nil {
		sn.dynamic = face.DynamicPT
	} else {
		sn.basePower = face.Power
		sn.baseToughness = face.Toughness
	}
	return sn
}

// presentedFace picks the copied face for clones (rule 707.2) and the back
// face for transformed cards (rule 712.8).
func presentedFace(s *state.Store, c *state.Card) *card.Definition {
	face := c.Face
	if c.CloningFrom != 0 {
		if src, ok := s.Card(c.CloningFrom); ok {
			face = src.Face
		}
	}
	if c.Transformed && face.Back != nil {
		face = face.Back
	}
	return face
}

func applyTypes(out *state.Characteristics, spec *card.ModifierSpec) bool {
	applied := false
	if len(spec.AddTypes) > 0 {
		applied = true
		for _, t := range spec.AddTypes {
			out.Types.Add(t)
		}
	}
	if len(spec.AddSubtypes) > 0 {
		applied = true
		for _, st := range spec.AddSubtypes {
			out.Subtypes.Add(st)
		}
	}
	if len(spec.RemoveTypes) > 0 {
		applied = true
		for _, t := range spec.RemoveTypes {
			out.Types.Remove(t)
		}
	}
	if spec.RemoveAllTypes {
		applied = true
		out.Types = card.NewSet[card.Type]()
	}
	if len(spec.RemoveSubtypes) > 0 {
		applied = true
		for _, st := range spec.RemoveSubtypes {
			out.Subtypes.Remove(st)
		}
	}
	if spec.RemoveAllCreatureTypes {
		applied = true
		for st := range out.Subtypes {
			if st.IsCreatureType() {
				out.Subtypes.Remove(st)
			}
		}
	}
	return applied
}

func applyColors(out *state.Characteristics, spec *card.ModifierSpec) bool {
	applied := false
	if len(spec.AddColors) > 0 {
		applied = true
		for _, col := range spec.AddColors {
			out.Colors.Add(col)
		}
	}
	if spec.RemoveAllColors {
		applied = true
		out.Colors = card.NewSet[card.Color]()
	}
	return applied
}

func applyAbilities(out *state.Characteristics, m *state.Modifier) bool {
	spec := m.Spec
	applied := false
	if spec.RemoveAllAbilities {
		applied = true
		out.Triggers = nil
		out.ETB = nil
		out.Static = nil
		out.Activated = nil
		out.ManaAbilities = nil
		out.Replacements = nil
	}
	if len(spec.AddManaAbilities) > 0 {
		applied = true
		for i := range spec.AddManaAbilities {
			out.ManaAbilities = append(out.ManaAbilities, &spec.AddManaAbilities[i])
		}
	}
	if len(spec.AddStaticAbilities) > 0 {
		applied = true
		for i := range spec.AddStaticAbilities {
			out.Static = append(out.Static, &spec.AddStaticAbilities[i])
		}
	}
	if len(spec.AddAbilities) > 0 {
		applied = true
		for i := range spec.AddAbilities {
			out.Activated = append(out.Activated, state.Activated{
				Ability: &spec.AddAbilities[i],
				Origin:  m.Source,
			})
		}
	}
	if len(spec.RemoveKeywords) > 0 {
		applied = true
		for _, kw := range spec.RemoveKeywords {
			delete(out.Keywords, kw)
		}
	}
	if len(spec.AddKeywords) > 0 {
		applied = true
		for kw, n := range spec.AddKeywords {
			out.Keywords[kw] += n
		}
	}
	return applied
}

// syncOwned materialises a modifier for each battlefield modifier static
// ability the card has while on the battlefield, and drops those whose
// ability is gone. It reports whether anything changed.
func (ls *LayerSystem) syncOwned(s *state.Store, id state.CardID) bool {
	c := s.MustCard(id)
	present := make(map[*card.StaticAbility]bool)
	if c.Location == card.LocationBattlefield {
		for _, sa := range c.Modified.Static {
			if sa.Kind == card.StaticBattlefieldModifier && sa.Modifier != nil {
				present[sa] = true
			}
		}
	}

	changed := false
	for _, key := range s.OwnedBy(id) {
		if present[key.Ability] {
			continue
		}
		mid, _ := s.Owned(key)
		Deactivate(s, mid)
		changed = true
		ls.logger.Debug("dropped owned modifier",
			zap.Uint64("card_id", uint64(id)),
			zap.Uint64("modifier_id", uint64(mid)))
	}

	for _, sa := range c.Modified.Static {
		if !present[sa] {
			continue
		}
		key := state.OwnedKey{Source: id, Ability: sa}
		if _, ok := s.Owned(key); ok {
			continue
		}
		mid := NewModifier(s, id, sa.Modifier, true)
		Activate(s, mid)
		s.SetOwned(key, mid)
		changed = true
		ls.logger.Debug("materialised owned modifier",
			zap.Uint64("card_id", uint64(id)),
			zap.Uint64("modifier_id", uint64(mid)))
	}
	return changed
}
