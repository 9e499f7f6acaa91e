// Package gamesweet plays board games between agents. The strong agent is a Monte Carlo tree search (package mcts).
package gamesweet

import (
	"context"
	"encoding/gob"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/gorgonia/gamesweet/game"
	"github.com/gorgonia/gamesweet/game/c4"
	"github.com/gorgonia/gamesweet/game/mnk"
	"github.com/gorgonia/gamesweet/mcts"
)

// Match is the top level structure and the entry point of the API.
// It sets up a game and two agents from a Config, and plays the configured number of games between them.
type Match struct {
	*Arena[game.Player, game.Single]
	conf Config
	game game.Playable
}

// NewMatch sets up a match. searchOpts are given to every MCTS agent, opts to the arena.
func NewMatch(conf Config, searchOpts []mcts.Option, opts ...ArenaOption) (*Match, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	g, err := conf.NewGame()
	if err != nil {
		return nil, err
	}
	players := [2]game.Player{game.Player(game.Black), game.Player(game.White)}
	var agents [2]*Agent[game.Player, game.Single]
	for i := range agents {
		policy, err := conf.NewPolicy(i, searchOpts...)
		if err != nil {
			return nil, err
		}
		agents[i] = NewAgent(conf.Players[i].Name, players[i], policy)
	}
	arena, err := NewArena(agents[0], agents[1], append([]ArenaOption{WithName(conf.Name)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Match{
		Arena: arena,
		conf:  conf,
		game:  g,
	}, nil
}

// Run plays the games of the match. The output encoder, if any, is flushed at the end, even when a game fails.
func (m *Match) Run(ctx context.Context) (err error) {
	defer func() {
		if m.enc == nil {
			return
		}
		if ferr := m.enc.Flush(); ferr != nil && err == nil {
			err = errors.WithMessage(ferr, "unable to flush output encoder")
		}
	}()
	for i := 0; i < m.conf.Games; i++ {
		if err = ctx.Err(); err != nil {
			return errors.WithMessagef(err, "match stopped after %d games", i)
		}
		m.game.Reset()
		if _, _, err = m.Play(m.game); err != nil {
			return errors.WithMessagef(err, "game %d", m.GameNumber())
		}
	}
	m.logger.Info().
		Str("name", m.name).
		Float32(m.A.Name, m.WinRate(m.A.Name)).
		Float32(m.B.Name, m.WinRate(m.B.Name)).
		Msg("match over")
	return nil
}

// Game returns the game being played.
func (m *Match) Game() game.Playable { return m.game }

// Save the statistics of the match into filename
func (m *Match) Save(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	enc := gob.NewEncoder(f)
	return errors.WithStack(enc.Encode(m.Statistics))
}

// Load the statistics of a previous match from filename. The agents keep their own records.
func (m *Match) Load(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	var s Statistics
	dec := gob.NewDecoder(f)
	if err = dec.Decode(&s); err != nil {
		return errors.WithStack(err)
	}
	m.Statistics = s
	return nil
}

// NewGame sets up a fresh game as described by the config.
func (c Config) NewGame() (game.Playable, error) {
	switch c.Game {
	case TicTacToe:
		return mnk.TicTacToe(), nil
	case MNK:
		return mnk.New(c.Rows, c.Cols, c.K), nil
	case C4:
		return c4.New(c.Rows, c.Cols, c.K), nil
	}
	return nil, errors.Errorf("unknown game %q", c.Game)
}

// NewGameOfSize sets up a fresh game of the configured kind with a board of m rows and n columns.
func (c Config) NewGameOfSize(m, n int) (game.Playable, error) {
	if c.Game == TicTacToe {
		c.Game = MNK
		c.K = 3
	}
	c.Rows, c.Cols = m, n
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.NewGame()
}

// NewPolicy sets up the policy of the i-th player. searchOpts are only used by MCTS players.
func (c Config) NewPolicy(i int, searchOpts ...mcts.Option) (Policy[game.Player, game.Single], error) {
	if i < 0 || i >= len(c.Players) {
		return nil, errors.Errorf("no player %d", i)
	}
	r := c.randFor(i)
	switch p := c.Players[i].Policy; p {
	case PolicyMCTS:
		opts := []mcts.Option{mcts.WithLogger(log.Logger.With().Str("agent", c.Players[i].Name).Logger())}
		if r != nil {
			opts = append(opts, mcts.WithRand(r))
		}
		return mcts.New[game.Player, game.Single](c.SearchConfig(), append(opts, searchOpts...)...), nil
	case PolicyRandom:
		return NewRandomPolicy[game.Player, game.Single](r), nil
	default:
		return nil, errors.Errorf("unknown policy %q", p)
	}
}

// randFor returns the generator of the i-th player. It is nil when the config does not fix a seed.
func (c Config) randFor(i int) mcts.Rand {
	if c.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(c.Seed + uint64(i)))
}
