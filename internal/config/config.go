package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/magefree/mage-rules-go/internal/game"
)

// Config holds the simulator configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Cards      CardsConfig      `mapstructure:"cards"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EngineConfig holds the game constants.
type EngineConfig struct {
	StartingLife       int `mapstructure:"starting_life"`
	StartingHandSize   int `mapstructure:"starting_hand_size"`
	MaxHandSize        int `mapstructure:"max_hand_size"`
	MaxStateIterations int `mapstructure:"max_state_iterations"`
	LandsPerTurn       int `mapstructure:"lands_per_turn"`
}

// CardsConfig says where card definitions come from.
type CardsConfig struct {
	Dirs        []string `mapstructure:"dirs"`
	DatabaseURL string   `mapstructure:"database_url"`
	Table       string   `mapstructure:"table"`
}

// SimulationConfig describes the game `rulesim simulate` plays.
type SimulationConfig struct {
	Turns   int            `mapstructure:"turns"`
	Seed    uint64         `mapstructure:"seed"`
	Players []PlayerConfig `mapstructure:"players"`
}

// PlayerConfig is a seat and its deck list. Deck entries are card names,
// optionally prefixed with a count: "20 Forest".
type PlayerConfig struct {
	Name string   `mapstructure:"name"`
	Deck []string `mapstructure:"deck"`
}

// DeckEntry is one parsed deck list line.
type DeckEntry struct {
	Count int
	Name  string
}

// Load reads the YAML file at path, applies RULESIM_ environment
// overrides and fills in defaults. An empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RULESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("engine.starting_life", 20)
	v.SetDefault("engine.starting_hand_size", 7)
	v.SetDefault("engine.max_hand_size", 7)
	v.SetDefault("engine.max_state_iterations", 100)
	v.SetDefault("engine.lands_per_turn", 1)

	v.SetDefault("cards.dirs", []string{"cards"})
	v.SetDefault("cards.database_url", "")
	v.SetDefault("cards.table", "card_definitions")

	v.SetDefault("simulation.turns", 6)
	v.SetDefault("simulation.seed", 1)
}

// Validate rejects values the engine can't run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", c.Logging.Level))
	}
	if c.Engine.StartingLife <= 0 {
		errs = append(errs, errors.New("engine.starting_life must be positive"))
	}
	if c.Engine.StartingHandSize < 0 || c.Engine.MaxHandSize < 0 {
		errs = append(errs, errors.New("engine hand sizes can't be negative"))
	}
	if c.Engine.MaxStateIterations <= 0 {
		errs = append(errs, errors.New("engine.max_state_iterations must be positive"))
	}
	if c.Engine.LandsPerTurn < 0 {
		errs = append(errs, errors.New("engine.lands_per_turn can't be negative"))
	}
	if c.Cards.Table == "" {
		errs = append(errs, errors.New("cards.table is required"))
	}
	if c.Simulation.Turns < 0 {
		errs = append(errs, errors.New("simulation.turns can't be negative"))
	}
	seen := make(map[string]bool)
	for i, p := range c.Simulation.Players {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("simulation.players[%d]: name is required", i))
		}
		if seen[p.Name] {
			errs = append(errs, fmt.Errorf("simulation.players[%d]: duplicate name %q", i, p.Name))
		}
		seen[p.Name] = true
		if _, err := p.Entries(); err != nil {
			errs = append(errs, fmt.Errorf("simulation.players[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Options converts the engine section into game options. Players come
// from the simulation section when it names any.
func (c *Config) Options() game.Options {
	opts := game.DefaultOptions()
	opts.StartingLife = c.Engine.StartingLife
	opts.StartingHandSize = c.Engine.StartingHandSize
	opts.MaxHandSize = c.Engine.MaxHandSize
	opts.MaxStateIterations = c.Engine.MaxStateIterations
	opts.LandsPerTurn = c.Engine.LandsPerTurn
	opts.Seed = c.Simulation.Seed
	if len(c.Simulation.Players) > 0 {
		opts.Players = make([]string, len(c.Simulation.Players))
		for i, p := range c.Simulation.Players {
			opts.Players[i] = p.Name
		}
	}
	return opts
}

// Entries parses the deck list.
func (p PlayerConfig) Entries() ([]DeckEntry, error) {
	out := make([]DeckEntry, 0, len(p.Deck))
	for _, line := range p.Deck {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entry := DeckEntry{Count: 1, Name: line}
		if head, rest, ok := strings.Cut(line, " "); ok {
			if n, err := strconv.Atoi(head); err == nil {
				if n <= 0 {
					return nil, fmt.Errorf("deck line %q: count must be positive", line)
				}
				entry = DeckEntry{Count: n, Name: strings.TrimSpace(rest)}
			}
		}
		out = append(out, entry)
	}
	return out, nil
}
