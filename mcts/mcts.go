package mcts

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/gorgonia/gamesweet/game"
)

// Config is the structure to configure the MCTS search.
type Config struct {
	// Timeout is the wall clock budget of one search, measured from the start of the loop.
	Timeout time.Duration

	// Threshold is the number of simulations a leaf must exceed before it is expanded.
	Threshold uint32

	// Exploration is the C in the UCB1 formula.
	Exploration float64

	// Budget caps the number of loop iterations. 0 means no cap.
	Budget int
}

func DefaultConfig() Config {
	return Config{
		Timeout:     995 * time.Millisecond,
		Threshold:   3,
		Exploration: 1.414,
	}
}

// Validate checks the config for values the search cannot run with.
func (c Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.Exploration <= 0 {
		return errors.Errorf("exploration must be positive, got %v", c.Exploration)
	}
	if c.Budget < 0 {
		return errors.Errorf("budget must be >= 0, got %d", c.Budget)
	}
	return nil
}

// Rand is the source of randomness for rollouts and for the first pick after an expansion.
type Rand interface {
	Intn(n int) int
}

// Clock tells the search loop the time.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// Collector receives counts from the search loop.
type Collector interface {
	Start()
	AddIteration()
	AddExpansion(children int)
	Complete(iterations, nodes int, elapsed time.Duration)
}

type noCollector struct{}

func (noCollector) Start()                           {}
func (noCollector) AddIteration()                    {}
func (noCollector) AddExpansion(int)                 {}
func (noCollector) Complete(int, int, time.Duration) {}

type Option func(*config)

// config holds the injectable dependencies. It is shared by the generic MCTS types.
type config struct {
	rand    Rand
	clock   Clock
	logger  zerolog.Logger
	metrics Collector
}

func WithRand(r Rand) Option {
	return func(c *config) {
		if r != nil {
			c.rand = r
		}
	}
}

func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func WithCollector(m Collector) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// MCTS chooses actions for any game that implements game.State. Each call builds a fresh tree.
type MCTS[P comparable, A any] struct {
	Config
	config
}

// New creates a new search engine. The config is assumed to be valid.
func New[P comparable, A any](conf Config, opts ...Option) *MCTS[P, A] {
	retVal := &MCTS[P, A]{
		Config: conf,
		config: config{
			rand:    rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
			clock:   wallClock{},
			logger:  log.Logger,
			metrics: noCollector{},
		},
	}
	for _, opt := range opts {
		opt(&retVal.config)
	}
	return retVal
}

// ChooseAction searches from the given state and returns the action of the most simulated root child.
func (m *MCTS[P, A]) ChooseAction(state game.State[P, A]) A {
	return m.Search(state).Best()
}
