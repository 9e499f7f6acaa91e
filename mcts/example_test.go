package mcts_test

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/gorgonia/gamesweet/game"
	"github.com/gorgonia/gamesweet/game/mnk"
	"github.com/gorgonia/gamesweet/mcts"
)

func Example() {
	g := mnk.TicTacToe()
	for _, m := range []game.Single{0, 3, 1, 4} {
		g.Apply(m)
	}
	fmt.Printf("%v", g)

	conf := mcts.DefaultConfig()
	conf.Timeout = 10 * time.Second
	conf.Budget = 5000 // this is a deterministic example
	t := mcts.New[game.Player, game.Single](conf,
		mcts.WithRand(rand.New(rand.NewSource(1337))),
		mcts.WithLogger(zerolog.Nop()),
	)
	best := t.ChooseAction(g)
	g.Apply(best)
	winner, _ := g.Winner()
	fmt.Printf("%v plays %v. WINNER %v\n", winner, best, winner)

	// Output:
	// ⎢ X X · ⎥
	// ⎢ O O · ⎥
	// ⎢ · · · ⎥
	// Black plays 2. WINNER Black
}
