package mcts

import (
	"fmt"

	"github.com/gorgonia/gamesweet/game"
)

// Node is one vertex of the search tree. It owns a snapshot of the game state reached by Action.
type Node[P comparable, A any] struct {
	id     naughty
	parent naughty // nilNode for the root

	state     game.State[P, A]
	action    A
	hasAction bool

	wins uint32 // simulations that were won by the player who moved into this node
	sims uint32 // visits to this node - N(s, a) in the literature
}

func (n *Node[P, A]) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{NodeID: %v Parent: %v Action: %v Wins: %v Sims: %v}", n.id, n.parent, n.action, n.wins, n.sims)
}

func (n *Node[P, A]) ID() int { return int(n.id) }

// Parent returns the handle of the parent. It is not valid for the root.
func (n *Node[P, A]) Parent() naughty { return n.parent }

// Action returns the action that produced this node. The root has no action.
func (n *Node[P, A]) Action() (A, bool) { return n.action, n.hasAction }

// State returns the node's own copy of the game state. It must not be modified.
func (n *Node[P, A]) State() game.State[P, A] { return n.state }

func (n *Node[P, A]) Wins() uint32 { return n.wins }

func (n *Node[P, A]) Sims() uint32 { return n.sims }

// WinRate returns wins/sims, or 0 if the node has not been simulated.
func (n *Node[P, A]) WinRate() float64 {
	if n.sims == 0 {
		return 0
	}
	return float64(n.wins) / float64(n.sims)
}

// IsRoot returns true if this node has no parent.
func (n *Node[P, A]) IsRoot() bool { return !n.parent.isValid() }

// update records one simulation that ended with winner.
func (n *Node[P, A]) update(winner P) {
	n.sims++
	if winner != n.state.ToMove() {
		n.wins++
	}
}
