package gamesweet

import (
	"time"

	"golang.org/x/exp/rand"

	"github.com/gorgonia/gamesweet/game"
	"github.com/gorgonia/gamesweet/mcts"
)

// An Agent is a named player backed by a Policy.
type Agent[P comparable, A any] struct {
	Name   string
	Player P
	Policy Policy[P, A]

	// Statistics
	Wins float32
	Loss float32
	Draw float32
}

// NewAgent creates an agent that plays as player.
func NewAgent[P comparable, A any](name string, player P, policy Policy[P, A]) *Agent[P, A] {
	return &Agent[P, A]{
		Name:   name,
		Player: player,
		Policy: policy,
	}
}

func (a *Agent[P, A]) Score() (name string, wins, loss, draw float32) {
	return a.Name, a.Wins, a.Loss, a.Draw
}

// RandomPolicy picks uniformly among the legal actions. It's the baseline opponent.
type RandomPolicy[P comparable, A any] struct {
	r mcts.Rand
}

// NewRandomPolicy creates a RandomPolicy. If r is nil, a time seeded generator is used.
func NewRandomPolicy[P comparable, A any](r mcts.Rand) *RandomPolicy[P, A] {
	if r == nil {
		r = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return &RandomPolicy[P, A]{r: r}
}

// ChooseAction panics if the state has no legal actions.
func (p *RandomPolicy[P, A]) ChooseAction(state game.State[P, A]) A {
	actions := state.LegalActions()
	if len(actions) == 0 {
		panic("random policy: no legal actions")
	}
	return actions[p.r.Intn(len(actions))]
}
