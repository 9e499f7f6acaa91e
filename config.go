package gamesweet

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/gorgonia/gamesweet/mcts"
)

// Games that the command line knows how to set up.
const (
	TicTacToe = "tictactoe"
	MNK       = "mnk"
	C4        = "c4"
)

// Policies that the command line knows how to set up.
const (
	PolicyMCTS   = "mcts"
	PolicyRandom = "random"
)

// PlayerConfig configures one side of a match.
type PlayerConfig struct {
	Name   string `yaml:"name"`
	Policy string `yaml:"policy"`
}

// SearchConfig is the YAML form of mcts.Config.
type SearchConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Threshold   uint32        `yaml:"threshold"`
	Exploration float64       `yaml:"exploration"`
	Budget      int           `yaml:"budget"`
}

// Config is the configuration of a match.
type Config struct {
	Name     string         `yaml:"name"`
	Game     string         `yaml:"game"`
	Rows     int            `yaml:"rows"`
	Cols     int            `yaml:"cols"`
	K        int            `yaml:"k"` // how many in a row to win
	Games    int            `yaml:"games"`
	Players  []PlayerConfig `yaml:"players"`
	MCTS     SearchConfig   `yaml:"mcts"`
	LogLevel string         `yaml:"log_level"`
	Seed     uint64         `yaml:"seed"` // 0 means seeded from the clock
}

func DefaultConfig() Config {
	sc := mcts.DefaultConfig()
	return Config{
		Name:  "Tic Tac Toe",
		Game:  TicTacToe,
		Rows:  3,
		Cols:  3,
		K:     3,
		Games: 1,
		Players: []PlayerConfig{
			{Name: "mcts", Policy: PolicyMCTS},
			{Name: "random", Policy: PolicyRandom},
		},
		MCTS: SearchConfig{
			Timeout:     sc.Timeout,
			Threshold:   sc.Threshold,
			Exploration: sc.Exploration,
			Budget:      sc.Budget,
		},
		LogLevel: zerolog.InfoLevel.String(),
	}
}

// LoadConfig loads the defaults, then the YAML file at path (if it exists), then the GAMESWEET_* environment variables.
// The result is validated.
func LoadConfig(path string) (Config, error) {
	conf := DefaultConfig()
	if path != "" {
		if err := loadConfigFile(path, &conf); err != nil {
			return conf, errors.WithMessage(err, "load config file")
		}
	}
	if err := loadConfigFromEnv(&conf); err != nil {
		return conf, errors.WithMessage(err, "load config from environment")
	}
	if err := conf.Validate(); err != nil {
		return conf, errors.WithMessage(err, "invalid config")
	}
	return conf, nil
}

func loadConfigFile(path string, conf *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // use defaults
		}
		return errors.WithStack(err)
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return errors.Wrapf(err, "unable to parse %q", path)
	}
	return nil
}

func loadConfigFromEnv(conf *Config) (err error) {
	if v := os.Getenv("GAMESWEET_TIMEOUT"); v != "" {
		if conf.MCTS.Timeout, err = time.ParseDuration(v); err != nil {
			return errors.Wrap(err, "GAMESWEET_TIMEOUT")
		}
	}
	if v := os.Getenv("GAMESWEET_THRESHOLD"); v != "" {
		var t uint64
		if t, err = strconv.ParseUint(v, 10, 32); err != nil {
			return errors.Wrap(err, "GAMESWEET_THRESHOLD")
		}
		conf.MCTS.Threshold = uint32(t)
	}
	if v := os.Getenv("GAMESWEET_EXPLORATION"); v != "" {
		if conf.MCTS.Exploration, err = strconv.ParseFloat(v, 64); err != nil {
			return errors.Wrap(err, "GAMESWEET_EXPLORATION")
		}
	}
	if v := os.Getenv("GAMESWEET_BUDGET"); v != "" {
		if conf.MCTS.Budget, err = strconv.Atoi(v); err != nil {
			return errors.Wrap(err, "GAMESWEET_BUDGET")
		}
	}
	if v := os.Getenv("GAMESWEET_GAMES"); v != "" {
		if conf.Games, err = strconv.Atoi(v); err != nil {
			return errors.Wrap(err, "GAMESWEET_GAMES")
		}
	}
	if v := os.Getenv("GAMESWEET_LOG_LEVEL"); v != "" {
		conf.LogLevel = v
	}
	return nil
}

// Validate checks that a match can be set up from the config.
func (c Config) Validate() error {
	switch c.Game {
	case TicTacToe:
	case MNK, C4:
		if c.Rows <= 0 || c.Cols <= 0 {
			return errors.Errorf("%s needs a positive board size, got %dx%d", c.Game, c.Rows, c.Cols)
		}
		if c.K <= 0 || (c.K > c.Rows && c.K > c.Cols) {
			return errors.Errorf("%s: %d in a row does not fit on a %dx%d board", c.Game, c.K, c.Rows, c.Cols)
		}
	default:
		return errors.Errorf("unknown game %q", c.Game)
	}
	if c.Games <= 0 {
		return errors.Errorf("games must be positive, got %d", c.Games)
	}
	if len(c.Players) != 2 {
		return errors.Errorf("a match needs 2 players, got %d", len(c.Players))
	}
	for i, p := range c.Players {
		switch p.Policy {
		case PolicyMCTS, PolicyRandom:
		default:
			return errors.Errorf("player %d: unknown policy %q", i+1, p.Policy)
		}
	}
	if c.Players[0].Name == c.Players[1].Name {
		return errors.Errorf("both players are named %q", c.Players[0].Name)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	return errors.WithMessage(c.SearchConfig().Validate(), "mcts")
}

// SearchConfig returns the config of the search engine.
func (c Config) SearchConfig() mcts.Config {
	return mcts.Config{
		Timeout:     c.MCTS.Timeout,
		Threshold:   c.MCTS.Threshold,
		Exploration: c.MCTS.Exploration,
		Budget:      c.MCTS.Budget,
	}
}
