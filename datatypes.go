package gamesweet

import (
	"github.com/gorgonia/gamesweet/game"
)

// Policy picks the next action for the player to move. It must not modify the state.
//
// *mcts.MCTS and RandomPolicy are Policies.
type Policy[P comparable, A any] interface {
	ChooseAction(state game.State[P, A]) A
}

// PolicyFunc is a function that is a Policy.
type PolicyFunc[P comparable, A any] func(state game.State[P, A]) A

func (f PolicyFunc[P, A]) ChooseAction(state game.State[P, A]) A { return f(state) }

// OutputEncoder encodes the entire meta state as whatever.
//
// An example OutputEncoder is the GIF encoder. Another example would be a websocket feed.
type OutputEncoder interface {
	Encode(ms game.MetaState) error
	Flush() error
}

// Scorer is anything that has a win/loss/draw record.
type Scorer interface {
	Score() (name string, wins, loss, draw float32)
}

// MultiEncoder sends every state to each of its encoders in order. The first error stops the rest.
type MultiEncoder []OutputEncoder

func (m MultiEncoder) Encode(ms game.MetaState) error {
	for _, enc := range m {
		if err := enc.Encode(ms); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every encoder, and returns the first error.
func (m MultiEncoder) Flush() (err error) {
	for _, enc := range m {
		if ferr := enc.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}
	return err
}
