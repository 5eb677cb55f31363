package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game/state"
)

// checksumVersion changes whenever the digest layout does.
const checksumVersion = 1

// Checksum is a digest of the observable game state. Two games that took
// the same actions from the same seed have equal checksums; the event log
// and the game ID are left out.
type Checksum struct {
	Hash    string
	Version int
}

// Digest returns the hex SHA-256 of the game state.
func (e *Engine) Digest() string {
	return e.Checksum().Hash
}

// Checksum computes the state checksum.
func (e *Engine) Checksum() *Checksum {
	sum := sha256.Sum256([]byte(e.buildDeterministicRepresentation()))
	return &Checksum{
		Hash:    hex.EncodeToString(sum[:]),
		Version: checksumVersion,
	}
}

// VerifyChecksum reports whether the state still matches expected.
func (e *Engine) VerifyChecksum(expected *Checksum) bool {
	if expected == nil || expected.Version != checksumVersion {
		return false
	}
	return e.Digest() == expected.Hash
}

// buildDeterministicRepresentation writes the state in a canonical form.
// Cards are listed by ID; zones keep their order, which is meaningful.
func (e *Engine) buildDeterministicRepresentation() string {
	var buf bytes.Buffer
	s := e.Store

	fmt.Fprintf(&buf, "TURN:%d|%s|%d|%d|%d\n",
		s.TurnNumber(),
		s.Turn.CurrentStep(),
		s.ActivePlayer(),
		s.PriorityPlayer(),
		s.AttackersThisTurn,
	)

	for _, p := range s.Players() {
		fmt.Fprintf(&buf, "PLAYER:%d|%s|%d|%t|%t|%d|%d|%d\n",
			p.ID,
			p.Name,
			p.Life,
			p.Lost,
			p.DrewFromEmptyLibrary,
			p.LandsPlayedThisTurn,
			p.LifeGainedThisTurn,
			p.DescendedThisTurn,
		)
		for _, en := range p.Pool.Entries() {
			fmt.Fprintf(&buf, "POOL:%d|%s|%s|%d\n", p.ID, en.Mana, en.Source, en.Count)
		}
		fmt.Fprintf(&buf, "LIBRARY:%d|%v\n", p.ID, p.Library.IDs())
		fmt.Fprintf(&buf, "HAND:%d|%v\n", p.ID, p.Hand.IDs())
		fmt.Fprintf(&buf, "GRAVEYARD:%d|%v\n", p.ID, p.Graveyard.IDs())
		fmt.Fprintf(&buf, "EXILE:%d|%v\n", p.ID, p.Exile.IDs())
	}
	fmt.Fprintf(&buf, "BATTLEFIELD:%v\n", s.Battlefield())

	for _, id := range s.CardIDs() {
		c := s.MustCard(id)
		fmt.Fprintf(&buf, "CARD:%d|%s|%d|%d|%s|%t|%t|%d|%d|%d|%d|%d|%s|%s|%s\n",
			c.ID,
			c.Face.Name,
			c.Owner,
			c.Controller,
			c.Location,
			c.Tapped,
			c.Token,
			c.Attacking,
			c.Damage,
			c.X,
			c.AttachedTo,
			c.ExiledWith,
			c.CastFrom,
			optionalInt(c.Modified.Power()),
			optionalInt(c.Modified.Toughness()),
		)
		for _, kind := range c.Counters.Kinds() {
			fmt.Fprintf(&buf, "COUNTER:%d|%s|%d\n", c.ID, kind, c.Counters.Count(kind))
		}
	}

	for _, entry := range s.Stack.Entries() {
		fmt.Fprintf(&buf, "STACK:%d|%d|%d|%d|%v|%t|%s\n",
			entry.ID,
			entry.Kind,
			entry.Card,
			entry.Controller,
			entry.Modes,
			entry.Settled,
			targetLists(entry.Targets),
		)
	}

	for _, m := range s.Modifiers() {
		fmt.Fprintf(&buf, "MODIFIER:%d|%d|%t|%s|%v\n",
			m.ID,
			m.Source,
			m.Active,
			m.Duration,
			m.ModifyingIDs(),
		)
	}
	return buf.String()
}

func optionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func targetLists(lists [][]state.Target) string {
	var buf bytes.Buffer
	for i, list := range lists {
		if i > 0 {
			buf.WriteByte(';')
		}
		for j, t := range list {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(t.String())
		}
	}
	return buf.String()
}
