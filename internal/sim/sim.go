// Package sim plays scripted games: it builds an engine from configured
// decks and drives it with a Policy until a turn limit or a winner.
package sim

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/carddb"
	"github.com/magefree/mage-rules-go/internal/config"
	"github.com/magefree/mage-rules-go/internal/game"
	"github.com/magefree/mage-rules-go/internal/game/card"
	"github.com/magefree/mage-rules-go/internal/game/rules"
	"github.com/magefree/mage-rules-go/internal/game/state"
)

var (
	// ErrUnknownCard is returned when a deck names a card the library
	// doesn't have.
	ErrUnknownCard = errors.New("unknown card")
	// ErrStuck is returned when a decision doesn't complete or the game
	// stops making progress.
	ErrStuck = errors.New("simulation stuck")
)

const (
	maxChoicesPerDecision = 1000
	maxActionsPerTurn     = 10000
)

// NewEngine creates an engine with a seat per configured player and loads
// each deck into its library. The game is not started.
func NewEngine(cfg *config.Config, lib *carddb.Library, logger *zap.Logger) (*game.Engine, error) {
	if len(cfg.Simulation.Players) < 2 {
		return nil, fmt.Errorf("simulation needs at least two players, got %d", len(cfg.Simulation.Players))
	}
	decks := make([][]*card.Definition, len(cfg.Simulation.Players))
	for i, p := range cfg.Simulation.Players {
		entries, err := p.Entries()
		if err != nil {
			return nil, fmt.Errorf("%s's deck: %w", p.Name, err)
		}
		for _, entry := range entries {
			def, ok := lib.Get(entry.Name)
			if !ok {
				return nil, fmt.Errorf("%s's deck: %w: %s", p.Name, ErrUnknownCard, entry.Name)
			}
			for range entry.Count {
				decks[i] = append(decks[i], def)
			}
		}
	}

	e := game.NewEngine(cfg.Options(), logger)
	for i, deck := range decks {
		e.LoadDeck(state.PlayerID(i+1), deck)
	}
	return e, nil
}

// Result summarises a finished run.
type Result struct {
	GameID string
	// Turn is the turn the run stopped in.
	Turn   int
	Winner string
	Life   map[string]int
	Digest string
	// Spells counts spells cast by either player.
	Spells int
}

// Runner plays one game.
type Runner struct {
	engine *game.Engine
	policy Policy
	logger *zap.Logger

	recording *Recording
	last      Snapshot
	spells    int
}

// NewRunner wraps an engine built by NewEngine. A nil policy plays
// FirstOption.
func NewRunner(e *game.Engine, policy Policy, logger *zap.Logger) *Runner {
	if policy == nil {
		policy = FirstOption{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := e.Options()
	r := &Runner{
		engine: e,
		policy: policy,
		logger: logger.With(zap.String("game_id", e.ID)),
		recording: &Recording{
			Seed:    opts.Seed,
			Players: opts.Players,
		},
	}
	e.Store.Log.Subscribe(r.logged, state.LogCast, state.LogSpellResolved, state.LogLeftBattlefield)
	return r
}

func (r *Runner) logged(entry state.LogEntry) {
	e := r.engine
	switch entry.Kind {
	case state.LogCast:
		r.spells++
	case state.LogSpellResolved:
		if c, ok := e.Store.Card(entry.Card); ok {
			r.logger.Info("resolved", zap.String("card", c.Face.Name), zap.Int("turn", e.Store.TurnNumber()))
		}
	case state.LogLeftBattlefield:
		r.logger.Info("left battlefield",
			zap.String("card", entry.Name),
			zap.String("reason", string(entry.Reason)),
			zap.Int("turn", entry.Turn))
	}
}

// Recording returns the step digests captured so far.
func (r *Runner) Recording() *Recording {
	return r.recording
}

// Run starts the game and plays until turns have been completed, a single
// player is left or ctx is done.
func (r *Runner) Run(ctx context.Context, turns int) (*Result, error) {
	e := r.engine
	e.Start()
	r.recording.Turns = turns
	r.stepStarted()

	actions := 0
	for !e.GameOver() && e.Store.TurnNumber() <= turns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		actions++
		if actions > maxActionsPerTurn {
			return nil, fmt.Errorf("%w: turn %d did not end", ErrStuck, e.Store.TurnNumber())
		}

		acted, err := r.act()
		if err != nil {
			return nil, err
		}
		if !acted {
			if err := r.drive(e.PassPriority()); err != nil {
				return nil, err
			}
		}

		if snap := r.position(); snap.Turn != r.last.Turn || snap.Step != r.last.Step {
			if snap.Turn != r.last.Turn {
				actions = 0
			}
			r.stepStarted()
		}
	}
	return r.result(), nil
}

// act takes at most one sorcery-speed action for the active player: a land
// drop, else the first spell in hand that can be paid for.
func (r *Runner) act() (bool, error) {
	e := r.engine
	player := e.Store.PriorityPlayer()
	if player != e.Store.ActivePlayer() || !e.Store.Turn.CurrentStep().IsMain() || !e.Store.Stack.IsEmpty() {
		return false, nil
	}

	hand := e.Store.Player(player).Hand.IDs()
	for _, id := range hand {
		if !e.Card(id).Face.HasType(card.TypeLand) {
			continue
		}
		results, err := e.PlayLand(player, id)
		if err != nil {
			break
		}
		return true, r.drive(results)
	}

	for _, id := range hand {
		c := e.Card(id)
		if c.Face.HasType(card.TypeLand) {
			continue
		}
		if !e.CanCastAfterTapping(player, id) {
			continue
		}
		if err := e.TapForMana(player, c.Face.Cost); err != nil {
			continue
		}
		results, err := e.Cast(player, id)
		if err != nil {
			r.logger.Debug("cast refused", zap.String("card", c.Face.Name), zap.Error(err))
			continue
		}
		r.logger.Info("casting",
			zap.String("player", e.Store.Player(player).Name),
			zap.String("card", c.Face.Name))
		return true, r.drive(results)
	}
	return false, nil
}

func (r *Runner) drive(p *game.PendingResults) error {
	choices := 0
	var kind game.DecisionKind
	ok := p.Drive(func(p *game.PendingResults) (game.Choice, bool) {
		choices++
		kind, _ = p.Current()
		if choices > maxChoicesPerDecision {
			return game.None, false
		}
		choice := r.policy.Choose(p)
		if r.logger.Core().Enabled(zap.DebugLevel) {
			idx, picked := choice.Index()
			r.logger.Debug("choice",
				zap.String("decision", string(kind)),
				zap.String("description", p.Description()),
				zap.Bool("picked", picked),
				zap.Int("index", idx))
		}
		return choice, true
	})
	if !ok {
		return fmt.Errorf("%w: %s did not complete", ErrStuck, kind)
	}
	return nil
}

func (r *Runner) position() Snapshot {
	e := r.engine
	return Snapshot{
		Turn: e.Store.TurnNumber(),
		Step: e.Store.Turn.CurrentStep().String(),
	}
}

func (r *Runner) stepStarted() {
	e := r.engine
	snap := r.position()
	snap.Digest = e.Digest()
	r.last = snap
	r.recording.Snapshots = append(r.recording.Snapshots, snap)

	fields := []zap.Field{
		zap.Int("turn", snap.Turn),
		zap.String("step", snap.Step),
		zap.String("active", e.Store.Player(e.Store.ActivePlayer()).Name),
	}
	for _, p := range e.Store.Players() {
		fields = append(fields, zap.Int(p.Name, p.Life))
	}
	if e.Store.Turn.CurrentStep() == rules.StepUntap {
		r.logger.Info("turn", fields...)
	} else {
		r.logger.Debug("step", fields...)
	}
}

func (r *Runner) result() *Result {
	e := r.engine
	res := &Result{
		GameID: e.ID,
		Turn:   e.Store.TurnNumber(),
		Life:   make(map[string]int),
		Digest: e.Digest(),
		Spells: r.spells,
	}
	for _, p := range e.Store.Players() {
		res.Life[p.Name] = p.Life
	}
	if id, ok := e.Winner(); ok {
		res.Winner = e.Store.Player(id).Name
	}
	r.logger.Info("simulation finished",
		zap.Int("turn", res.Turn),
		zap.String("winner", res.Winner),
		zap.Int("spells", res.Spells),
		zap.String("digest", res.Digest))
	return res
}
