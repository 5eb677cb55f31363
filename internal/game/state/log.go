package state

import (
	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/counters"
)

// LogID identifies a log session. A session is the run of entries that
// belong to one cast, activation, trigger or resolution.
type LogID int

// LogKind names a log entry.
type LogKind string

const (
	LogNewTurn         LogKind = "NEW_TURN"
	LogLeftBattlefield LogKind = "LEFT_BATTLEFIELD"
	LogSpellResolved   LogKind = "SPELL_RESOLVED"
	LogAbilityResolved LogKind = "ABILITY_RESOLVED"
	LogTapped          LogKind = "TAPPED"
	LogCast            LogKind = "CAST"
	LogActivated       LogKind = "ACTIVATED"
	LogEtbOrTriggered  LogKind = "ETB_OR_TRIGGERED"
	LogCardChosen      LogKind = "CARD_CHOSEN"
	LogDiscarded       LogKind = "DISCARDED"
	LogTargeted        LogKind = "TARGETED"
)

// startsSession lists the kinds that open a new session.
var startsSession = map[LogKind]bool{
	LogNewTurn:         true,
	LogSpellResolved:   true,
	LogAbilityResolved: true,
	LogCast:            true,
	LogActivated:       true,
	LogEtbOrTriggered:  true,
}

// LeaveReason says why a card left the battlefield.
type LeaveReason string

const (
	LeaveExiled         LeaveReason = "EXILED"
	LeaveGraveyard      LeaveReason = "PUT_INTO_GRAVEYARD"
	LeaveReturnedToHand LeaveReason = "RETURNED_TO_HAND"
	LeaveLibrary        LeaveReason = "RETURNED_TO_LIBRARY"
)

// LogEntry is one historical event. Kind selects which fields are set.
type LogEntry struct {
	ID   LogID
	Kind LogKind

	Card       CardID
	Source     CardID
	Player     PlayerID
	Controller PlayerID

	// LeftBattlefield snapshot.
	Reason       LeaveReason
	Name         string
	Types        []card.Type
	WasAttacking bool
	WasToken     bool
	WasTapped    bool
	HadCounters  counters.Counters
	Turn         int
}

// Log is the append-only event history. It is never rolled back.
type Log struct {
	entries  []LogEntry
	current  LogID
	lastTurn int

	listeners  []subscription
	nextHandle int
}

// Listener is called synchronously with every entry it subscribed to.
type Listener func(LogEntry)

type subscription struct {
	handle int
	kinds  map[LogKind]bool
	fn     Listener
}

// Record appends an entry, opening a new session when the kind calls for
// it, and returns the session the entry joined.
func (l *Log) Record(e LogEntry) LogID {
	if startsSession[e.Kind] {
		l.current++
	}
	e.ID = l.current
	l.entries = append(l.entries, e)
	if e.Kind == LogNewTurn {
		l.lastTurn = len(l.entries) - 1
	}
	for _, sub := range l.listeners {
		if sub.kinds == nil || sub.kinds[e.Kind] {
			sub.fn(e)
		}
	}
	return e.ID
}

// Subscribe registers fn for entries of the given kinds, or of every kind
// when none are given. Listeners run in subscription order and must not
// record entries themselves.
func (l *Log) Subscribe(fn Listener, kinds ...LogKind) int {
	sub := subscription{handle: l.nextHandle, fn: fn}
	l.nextHandle++
	if len(kinds) > 0 {
		sub.kinds = make(map[LogKind]bool, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = true
		}
	}
	l.listeners = append(l.listeners, sub)
	return sub.handle
}

// Unsubscribe removes the listener registered under handle.
func (l *Log) Unsubscribe(handle int) {
	for i, sub := range l.listeners {
		if sub.handle == handle {
			l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
			return
		}
	}
}

// Current returns the current session ID.
func (l *Log) Current() LogID {
	return l.current
}

// Session returns the most recent contiguous run of entries with the given
// session ID.
func (l *Log) Session(id LogID) []LogEntry {
	end := -1
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].ID == id {
			end = i
			break
		}
	}
	if end < 0 {
		return nil
	}
	start := end
	for start > 0 && l.entries[start-1].ID == id {
		start--
	}
	return append([]LogEntry(nil), l.entries[start:end+1]...)
}

// SinceLastTurn returns the entries recorded during the current turn,
// including its NewTurn entry.
func (l *Log) SinceLastTurn() []LogEntry {
	return append([]LogEntry(nil), l.entries[l.lastTurn:]...)
}

// Entries returns the whole history.
func (l *Log) Entries() []LogEntry {
	return append([]LogEntry(nil), l.entries...)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}
