package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/effects"
	"github.com/magefree/mage-rules-go/internal/game/rules"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

// Options configures one game.
type Options struct {
	Players            []string
	StartingLife       int
	StartingHandSize   int
	MaxHandSize        int
	MaxStateIterations int
	LandsPerTurn       int
	// Seed makes shuffles reproducible.
	Seed uint64
}

// DefaultOptions returns a two player game with the usual constants.
func DefaultOptions() Options {
	return Options{
		Players:            []string{"Alice", "Bob"},
		StartingLife:       20,
		StartingHandSize:   7,
		MaxHandSize:        7,
		MaxStateIterations: 100,
		LandsPerTurn:       1,
		Seed:               1,
	}
}

func (o *Options) normalize() {
	d := DefaultOptions()
	if len(o.Players) == 0 {
		o.Players = d.Players
	}
	if o.StartingLife <= 0 {
		o.StartingLife = d.StartingLife
	}
	if o.StartingHandSize < 0 {
		o.StartingHandSize = 0
	}
	if o.MaxHandSize <= 0 {
		o.MaxHandSize = d.MaxHandSize
	}
	if o.MaxStateIterations <= 0 {
		o.MaxStateIterations = d.MaxStateIterations
	}
	if o.LandsPerTurn <= 0 {
		o.LandsPerTurn = d.LandsPerTurn
	}
}

// Engine runs the rules for one game. It is single-threaded: every
// operation mutates Store synchronously and returns pending work for the
// caller to drive.
type Engine struct {
	ID    string
	Store *state.Store

	logger       *zap.Logger
	layers       *effects.LayerSystem
	replacements *effects.ReplacementManager
	priority     *rules.PriorityRound
	opts         Options
	rng          *rand.Rand
}

// NewEngine creates a game with one seat per configured player.
func NewEngine(opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.normalize()
	e := &Engine{
		ID:           uuid.NewString(),
		Store:        state.NewStore(opts.Players, opts.StartingLife),
		logger:       logger,
		layers:       effects.NewLayerSystem(logger),
		replacements: effects.NewReplacementManager(logger),
		priority:     rules.NewPriorityRound(len(opts.Players)),
		opts:         opts,
		rng:          rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
	e.logger.Debug("game created",
		zap.String("game_id", e.ID),
		zap.Strings("players", opts.Players))
	return e
}

// Options returns the options the engine was created with.
func (e *Engine) Options() Options {
	return e.opts
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *zap.Logger {
	return e.logger
}

// Upload creates a card in a zone and computes its characteristics.
// Cards uploaded onto the battlefield count as having been there since
// before the game started.
func (e *Engine) Upload(def *card.Definition, owner state.PlayerID, loc card.Location) state.CardID {
	c := e.Store.Upload(def, owner, loc)
	e.layers.RecomputeAll(e.Store)
	return c.ID
}

// LoadDeck puts every definition into the player's library.
func (e *Engine) LoadDeck(player state.PlayerID, deck []*card.Definition) []state.CardID {
	ids := make([]state.CardID, 0, len(deck))
	for _, def := range deck {
		ids = append(ids, e.Store.Upload(def, player, card.LocationLibrary).ID)
	}
	e.layers.RecomputeAll(e.Store)
	e.logger.Debug("deck loaded",
		zap.String("game_id", e.ID),
		zap.Int("player", int(player)),
		zap.Int("cards", len(ids)))
	return ids
}

// Shuffle randomises a player's library with the engine's seeded source.
func (e *Engine) Shuffle(player state.PlayerID) {
	e.Store.Player(player).Library.Shuffle(e.rng.Shuffle)
}

// Start shuffles every library, draws opening hands and opens turn one.
func (e *Engine) Start() {
	for _, p := range e.Store.Players() {
		e.Shuffle(p.ID)
		for i := 0; i < e.opts.StartingHandSize; i++ {
			e.drawCard(p.ID)
		}
	}
	e.Store.Log.Record(state.LogEntry{
		Kind:   state.LogNewTurn,
		Player: e.Store.ActivePlayer(),
		Turn:   e.Store.TurnNumber(),
	})
	e.layers.RecomputeAll(e.Store)
	e.logger.Info("game started",
		zap.String("game_id", e.ID),
		zap.Int("active_player", int(e.Store.ActivePlayer())))
}

// Card returns a card record, for drivers and tests.
func (e *Engine) Card(id state.CardID) *state.Card {
	return e.Store.MustCard(id)
}

// Recompute reruns the layering engine over every card.
func (e *Engine) Recompute() {
	e.layers.RecomputeAll(e.Store)
}

// Winner returns the last player standing, if exactly one remains.
func (e *Engine) Winner() (state.PlayerID, bool) {
	var alive []state.PlayerID
	for _, p := range e.Store.Players() {
		if !p.Lost {
			alive = append(alive, p.ID)
		}
	}
	if len(alive) == 1 {
		return alive[0], true
	}
	return 0, false
}

// GameOver reports whether at most one player is left.
func (e *Engine) GameOver() bool {
	alive := 0
	for _, p := range e.Store.Players() {
		if !p.Lost {
			alive++
		}
	}
	return alive <= 1
}

func (e *Engine) cardName(id state.CardID) string {
	c, ok := e.Store.Card(id)
	if !ok {
		return fmt.Sprintf("card#%d", id)
	}
	if c.Modified.Name != "" {
		return c.Modified.Name
	}
	return c.Face.Name
}

func (e *Engine) cardFields(id state.CardID) []zap.Field {
	return []zap.Field{
		zap.String("game_id", e.ID),
		zap.Uint64("card_id", uint64(id)),
		zap.String("card", e.cardName(id)),
	}
}
