package state

import (
	"fmt"
	"sort"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/mana"
	"github.com/magefree/mage-rules-go/internal/game/rules"
)

// Store owns every entity of one game. It only places and looks things
// up; rules logic lives in the callers.
type Store struct {
	cards    map[CardID]*Card
	nextCard CardID

	modifiers map[ModifierID]*Modifier
	modOrder  []ModifierID
	nextMod   ModifierID
	owned     map[OwnedKey]ModifierID

	players     []*Player
	battlefield Zone
	stackZone   Zone

	Stack Stack
	Log   Log
	Turn  *rules.TurnManager

	// AttackersThisTurn counts attackers declared this turn.
	AttackersThisTurn int
}

// NewStore creates a store with one player per name. Seats are numbered
// from 1 in the given order and the first seat takes the first turn.
func NewStore(names []string, startingLife int) *Store {
	s := &Store{
		cards:     make(map[CardID]*Card),
		modifiers: make(map[ModifierID]*Modifier),
		owned:     make(map[OwnedKey]ModifierID),
		Turn:      rules.NewTurnManager(len(names), 1),
	}
	for i, name := range names {
		s.players = append(s.players, &Player{
			ID:   PlayerID(i + 1),
			Name: name,
			Life: startingLife,
			Pool: mana.NewPool(),
		})
	}
	return s
}

// Player returns a player by seat.
func (s *Store) Player(id PlayerID) *Player {
	if id < 1 || int(id) > len(s.players) {
		panic(fmt.Sprintf("no player %d", id))
	}
	return s.players[id-1]
}

// Players returns every player in seat order.
func (s *Store) Players() []*Player {
	return append([]*Player(nil), s.players...)
}

// Opponents returns every other player in seat order.
func (s *Store) Opponents(id PlayerID) []*Player {
	var out []*Player
	for _, p := range s.players {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// ActivePlayer returns the seat whose turn it is.
func (s *Store) ActivePlayer() PlayerID {
	return PlayerID(s.Turn.ActivePlayer())
}

// PriorityPlayer returns the seat holding priority.
func (s *Store) PriorityPlayer() PlayerID {
	return PlayerID(s.Turn.PriorityPlayer())
}

// TurnNumber returns the turn counter.
func (s *Store) TurnNumber() int {
	return s.Turn.TurnNumber()
}

// Upload creates a card from a definition and places it in a zone.
func (s *Store) Upload(def *card.Definition, owner PlayerID, loc card.Location) *Card {
	s.nextCard++
	c := &Card{
		ID:         s.nextCard,
		Face:       def,
		Owner:      owner,
		Controller: owner,
		Counters:   counters.New(),
	}
	s.cards[c.ID] = c
	s.place(c, loc, false)
	return c
}

// Card looks up a card.
func (s *Store) Card(id CardID) (*Card, bool) {
	c, ok := s.cards[id]
	return c, ok
}

// MustCard looks up a card that is known to exist.
func (s *Store) MustCard(id CardID) *Card {
	c, ok := s.cards[id]
	if !ok {
		panic(fmt.Sprintf("card %d does not exist", id))
	}
	return c
}

// CardIDs returns every card in creation order.
func (s *Store) CardIDs() []CardID {
	out := make([]CardID, 0, len(s.cards))
	for id := range s.cards {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Delete removes a card from its zone and from the store.
func (s *Store) Delete(id CardID) {
	c, ok := s.cards[id]
	if !ok {
		return
	}
	if z := s.zoneOf(c); z != nil {
		z.Remove(id)
	}
	delete(s.cards, id)
}

// Place moves a card into a zone (on top, for libraries). It does no rules
// bookkeeping.
func (s *Store) Place(id CardID, loc card.Location) {
	c := s.MustCard(id)
	if z := s.zoneOf(c); z != nil {
		z.Remove(id)
	}
	s.place(c, loc, false)
}

// PlaceBottom moves a card to the bottom of its owner's library.
func (s *Store) PlaceBottom(id CardID) {
	c := s.MustCard(id)
	if z := s.zoneOf(c); z != nil {
		z.Remove(id)
	}
	s.place(c, card.LocationLibrary, true)
}

func (s *Store) place(c *Card, loc card.Location, bottom bool) {
	c.Location = loc
	z := s.zoneOf(c)
	if z == nil {
		return
	}
	if bottom {
		z.AddBottom(c.ID)
		return
	}
	z.Add(c.ID)
}

func (s *Store) zoneOf(c *Card) *Zone {
	switch c.Location {
	case card.LocationBattlefield:
		return &s.battlefield
	case card.LocationStack:
		return &s.stackZone
	case card.LocationLimbo, "":
		return nil
	}
	return s.Player(c.Owner).Zone(c.Location)
}

// Battlefield returns every permanent in the order it entered.
func (s *Store) Battlefield() []CardID {
	return s.battlefield.IDs()
}

// Controlled returns the permanents a player controls.
func (s *Store) Controlled(player PlayerID) []CardID {
	var out []CardID
	for _, id := range s.battlefield.IDs() {
		if s.cards[id].Controller == player {
			out = append(out, id)
		}
	}
	return out
}

// InZone returns the cards in a player's zone, or on the shared
// battlefield or stack for those locations.
func (s *Store) InZone(player PlayerID, loc card.Location) []CardID {
	switch loc {
	case card.LocationBattlefield:
		return s.Controlled(player)
	case card.LocationStack:
		var out []CardID
		for _, id := range s.stackZone.IDs() {
			if s.cards[id].Owner == player {
				out = append(out, id)
			}
		}
		return out
	case card.LocationLimbo:
		var out []CardID
		for _, id := range s.CardIDs() {
			c := s.cards[id]
			if c.Owner == player && c.Location == card.LocationLimbo {
				out = append(out, id)
			}
		}
		return out
	}
	return s.Player(player).Zone(loc).IDs()
}

// AddModifier stores a modifier and returns its ID.
func (s *Store) AddModifier(m *Modifier) ModifierID {
	s.nextMod++
	m.ID = s.nextMod
	s.modifiers[m.ID] = m
	s.modOrder = append(s.modOrder, m.ID)
	return m.ID
}

// Modifier looks up a modifier.
func (s *Store) Modifier(id ModifierID) (*Modifier, bool) {
	m, ok := s.modifiers[id]
	return m, ok
}

// RemoveModifier deletes a modifier and any owner bookkeeping for it.
func (s *Store) RemoveModifier(id ModifierID) {
	if _, ok := s.modifiers[id]; !ok {
		return
	}
	delete(s.modifiers, id)
	for i, have := range s.modOrder {
		if have == id {
			s.modOrder = append(s.modOrder[:i], s.modOrder[i+1:]...)
			break
		}
	}
	for key, owned := range s.owned {
		if owned == id {
			delete(s.owned, key)
		}
	}
}

// Modifiers returns every modifier in creation order.
func (s *Store) Modifiers() []*Modifier {
	out := make([]*Modifier, 0, len(s.modOrder))
	for _, id := range s.modOrder {
		out = append(out, s.modifiers[id])
	}
	return out
}

// ActiveModifiers returns the active modifiers in creation order.
func (s *Store) ActiveModifiers() []*Modifier {
	var out []*Modifier
	for _, id := range s.modOrder {
		if m := s.modifiers[id]; m.Active {
			out = append(out, m)
		}
	}
	return out
}

// Owned returns the modifier materialised for a static ability.
func (s *Store) Owned(key OwnedKey) (ModifierID, bool) {
	id, ok := s.owned[key]
	return id, ok
}

// SetOwned records the modifier materialised for a static ability.
func (s *Store) SetOwned(key OwnedKey, id ModifierID) {
	s.owned[key] = id
}

// OwnedBy lists the owned-modifier keys for a source card, in modifier
// order.
func (s *Store) OwnedBy(source CardID) []OwnedKey {
	var keys []OwnedKey
	for key := range s.owned {
		if key.Source == source {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return s.owned[keys[i]] < s.owned[keys[j]] })
	return keys
}
