package mcts

import (
	"time"

	"github.com/gorgonia/gamesweet/game"
)

/*
Here lies the search loop, while node.go and tree.go handle the data structure stuff.

Each iteration is SELECT, (EXPAND), SIMULATE, BACKPROPAGATE. A leaf is only expanded once it has been
simulated more than Threshold times; the node that gets simulated right after an expansion is a random
child of the leaf rather than the UCB1 pick.
*/

// Search builds a fresh tree from state and runs the search loop on it until the timeout (or the budget) runs out.
// The finished tree is returned to the caller.
//
// Search panics if state has no legal actions.
func (m *MCTS[P, A]) Search(state game.State[P, A]) *Tree[P, A] {
	m.metrics.Start()

	t := newTree(state, m.Exploration, m.rand, m.logger)
	t.expand(t.root)
	kids := t.Children(t.root)
	m.metrics.AddExpansion(len(kids))

	switch len(kids) {
	case 0:
		panic("search: the root has no legal actions")
	case 1:
		m.logger.Debug().Msg("only one legal action. Returning early")
		m.metrics.Complete(0, t.Len(), 0)
		return t
	}

	start := m.clock.Now()
	for m.running(t, start) {
		leaf := t.selectLeaf()
		if t.nodeFromNaughty(leaf).sims > m.Threshold && !t.expanded(leaf) {
			t.expand(leaf)
			if kids := t.Children(leaf); len(kids) > 0 {
				m.metrics.AddExpansion(len(kids))
				leaf = kids[m.rand.Intn(len(kids))]
			}
		}
		winner, ok := t.simulate(leaf)
		t.backprop(leaf, winner, ok)

		t.iterations++
		m.metrics.AddIteration()
	}

	elapsed := m.clock.Now().Sub(start)
	m.logStats(t, elapsed)
	m.metrics.Complete(t.iterations, t.Len(), elapsed)
	return t
}

// running checks the clock and the iteration budget. It is only called between iterations.
func (m *MCTS[P, A]) running(t *Tree[P, A], start time.Time) bool {
	if m.Budget > 0 && t.iterations >= m.Budget {
		return false
	}
	return m.clock.Now().Sub(start) < m.Timeout
}

func (m *MCTS[P, A]) logStats(t *Tree[P, A], elapsed time.Duration) {
	root := t.nodeFromNaughty(t.root)
	for i, kid := range t.Children(t.root) {
		child := t.nodeFromNaughty(kid)
		m.logger.Debug().
			Int("idx", i).
			Interface("action", child.action).
			Uint32("sims", child.sims).
			Float64("win%", child.WinRate()*100).
			Float64("priority", t.priority(kid, root.sims)).
			Msg("root child")
	}
	best := t.bestChild()
	m.logger.Debug().
		Int("iterations", t.iterations).
		Int("nodes", t.Len()).
		Dur("elapsed", elapsed).
		Int("best", int(best)).
		Msg("search done")
}
