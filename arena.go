package gamesweet

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gorgonia/gamesweet/game"
)

// DefaultMaxRetries is how many times an agent may retry a rejected action before the game is abandoned.
const DefaultMaxRetries = 10

type arenaConfig struct {
	name       string
	maxRetries int
	enc        OutputEncoder
	logger     zerolog.Logger
}

type ArenaOption func(*arenaConfig)

func WithName(name string) ArenaOption {
	return func(c *arenaConfig) {
		if name != "" {
			c.name = name
		}
	}
}

func WithMaxRetries(n int) ArenaOption {
	return func(c *arenaConfig) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithOutputEncoder sends every position of every game to enc.
func WithOutputEncoder(enc OutputEncoder) ArenaOption {
	return func(c *arenaConfig) { c.enc = enc }
}

func WithLogger(l zerolog.Logger) ArenaOption {
	return func(c *arenaConfig) { c.logger = l }
}

// Arena plays games between two agents.
type Arena[P comparable, A any] struct {
	A, B *Agent[P, A]
	Statistics

	arenaConfig

	// state
	game       game.State[P, A]
	gameNumber int
}

// NewArena makes an arena for two agents. The agents must play different players.
func NewArena[P comparable, A any](a, b *Agent[P, A], opts ...ArenaOption) (*Arena[P, A], error) {
	if a == nil || b == nil {
		return nil, errors.New("NewArena requires two agents")
	}
	if a.Player == b.Player {
		return nil, errors.Errorf("agents %q and %q both play %v", a.Name, b.Name, a.Player)
	}
	retVal := &Arena[P, A]{
		A:          a,
		B:          b,
		Statistics: makeStatistics(),
		arenaConfig: arenaConfig{
			name:       "UNKNOWN GAME",
			maxRetries: DefaultMaxRetries,
			logger:     log.Logger,
		},
	}
	for _, opt := range opts {
		opt(&retVal.arenaConfig)
	}
	return retVal, nil
}

// Play plays g to the end, and returns the winner. ok is false for a draw.
// g is played in place.
func (a *Arena[P, A]) Play(g game.State[P, A]) (winner P, ok bool, err error) {
	a.game = g
	a.gameNumber++
	logger := a.logger.With().Str("name", a.name).Int("game", a.gameNumber).Logger()
	logger.Info().Msg("Playing")

	if err = a.encode(); err != nil {
		return winner, false, err
	}
	for !g.Ended() {
		logger.Debug().Msgf("\n%v", g)

		var agent *Agent[P, A]
		if agent, err = a.agentFor(g.ToMove()); err != nil {
			return winner, false, err
		}
		if err = a.turn(logger, agent); err != nil {
			return winner, false, err
		}
		if err = a.encode(); err != nil {
			return winner, false, err
		}
	}
	logger.Debug().Msgf("\n%v", g)

	winner, ok = g.Winner()
	a.record(winner, ok)
	if ok {
		logger.Info().Str("winner", fmt.Sprintf("%v", winner)).Msg("Winner")
	} else {
		logger.Info().Msg("It's a draw")
	}
	a.Statistics.update(a.A, a.B)
	return winner, ok, nil
}

// turn asks the agent for an action until the game accepts it.
func (a *Arena[P, A]) turn(logger zerolog.Logger, agent *Agent[P, A]) error {
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		action := agent.Policy.ChooseAction(a.game)
		if a.game.Apply(action) {
			logger.Info().
				Str("agent", agent.Name).
				Str("player", fmt.Sprintf("%v", agent.Player)).
				Str("action", fmt.Sprintf("%v", action)).
				Msg("turn")
			return nil
		}
		logger.Error().
			Str("agent", agent.Name).
			Str("action", fmt.Sprintf("%v", action)).
			Int("attempt", attempt+1).
			Msg("could not play turn")
	}
	return errors.Errorf("%s could not play a turn after %d retries", agent.Name, a.maxRetries)
}

func (a *Arena[P, A]) agentFor(p P) (*Agent[P, A], error) {
	switch p {
	case a.A.Player:
		return a.A, nil
	case a.B.Player:
		return a.B, nil
	}
	return nil, errors.Errorf("no agent plays %v", p)
}

func (a *Arena[P, A]) record(winner P, ok bool) {
	switch {
	case !ok:
		a.A.Draw++
		a.B.Draw++
	case winner == a.A.Player:
		a.A.Wins++
		a.B.Loss++
	case winner == a.B.Player:
		a.B.Wins++
		a.A.Loss++
	}
}

func (a *Arena[P, A]) encode() error {
	if a.enc == nil {
		return nil
	}
	return errors.WithMessage(a.enc.Encode(a), "unable to encode game state")
}

func (a *Arena[P, A]) Name() string    { return a.name }
func (a *Arena[P, A]) GameNumber() int { return a.gameNumber }
func (a *Arena[P, A]) State() any      { return a.game }

func (a *Arena[P, A]) Result() (ended bool, winner string) {
	if a.game == nil || !a.game.Ended() {
		return false, ""
	}
	if w, ok := a.game.Winner(); ok {
		return true, fmt.Sprintf("%v", w)
	}
	return true, ""
}
