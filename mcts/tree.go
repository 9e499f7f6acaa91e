package mcts

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/gorgonia/gamesweet/game"
)

// Tree is the arena for one search. Nodes are appended and never freed; a handle is an index into nodes.
// A Tree is not reused across searches.
type Tree[P comparable, A any] struct {
	nodes    []Node[P, A]
	children [][]naughty
	root     naughty

	exploration float64
	iterations  int

	rand   Rand
	logger zerolog.Logger
}

// newTree creates a tree whose root holds a clone of state.
func newTree[P comparable, A any](state game.State[P, A], exploration float64, r Rand, logger zerolog.Logger) *Tree[P, A] {
	t := &Tree[P, A]{
		nodes:       make([]Node[P, A], 0, 1024),
		children:    make([][]naughty, 0, 1024),
		root:        nilNode,
		exploration: exploration,
		rand:        r,
		logger:      logger,
	}
	var noAction A
	t.root = t.alloc(nilNode, state.Clone(), noAction, false)
	return t
}

// alloc appends a new node into the arena and returns its handle.
// Pointers to nodes are invalidated by alloc.
func (t *Tree[P, A]) alloc(parent naughty, state game.State[P, A], action A, hasAction bool) naughty {
	id := naughty(len(t.nodes))
	t.nodes = append(t.nodes, Node[P, A]{
		id:        id,
		parent:    parent,
		state:     state,
		action:    action,
		hasAction: hasAction,
	})
	t.children = append(t.children, nil)
	return id
}

func (t *Tree[P, A]) nodeFromNaughty(n naughty) *Node[P, A] { return &t.nodes[int(n)] }

// Root returns the handle of the root node.
func (t *Tree[P, A]) Root() naughty { return t.root }

// Len returns the number of nodes in the tree.
func (t *Tree[P, A]) Len() int { return len(t.nodes) }

// Node returns the node of the given handle.
func (t *Tree[P, A]) Node(n naughty) *Node[P, A] { return t.nodeFromNaughty(n) }

// Children returns the handles of the children of a node, in the order the actions were enumerated.
func (t *Tree[P, A]) Children(of naughty) []naughty { return t.children[int(of)] }

// Iterations returns the number of select-simulate-backpropagate rounds the search ran.
func (t *Tree[P, A]) Iterations() int { return t.iterations }

// expand creates a child for every legal action of the node. A node can only be expanded once.
func (t *Tree[P, A]) expand(of naughty) {
	if t.expanded(of) {
		panic(fmt.Sprintf("node %d has already been expanded", of))
	}
	state := t.nodeFromNaughty(of).state
	actions := state.LegalActions()
	kids := make([]naughty, 0, len(actions))
	for _, a := range actions {
		next := state.Clone()
		if !next.Apply(a) {
			panic(fmt.Sprintf("node %d: legal action %v could not be applied", of, a))
		}
		kids = append(kids, t.alloc(of, next, a, true))
	}
	t.children[int(of)] = kids
}

// expanded returns true if expand has been called on the node, even if it produced no children.
func (t *Tree[P, A]) expanded(of naughty) bool { return t.children[int(of)] != nil }

// priority is the UCB1 score of a child under the given parent visit count.
func (t *Tree[P, A]) priority(of naughty, parentSims uint32) float64 {
	n := t.nodeFromNaughty(of)
	return ucb1(n.wins, n.sims, parentSims, t.exploration)
}

// selectLeaf descends from the root, taking the child of highest priority until it reaches a node without children.
// The first child with the maximum priority wins ties.
func (t *Tree[P, A]) selectLeaf() naughty {
	current := t.root
	for len(t.children[int(current)]) > 0 {
		parentSims := t.nodeFromNaughty(current).sims
		best := nilNode
		bestValue := math.Inf(-1)
		for i, kid := range t.children[int(current)] {
			p := t.priority(kid, parentSims)
			t.logger.Trace().Int("idx", i).Float64("priority", p).Msg("select")
			if best == nilNode || p > bestValue {
				best = kid
				bestValue = p
			}
		}
		t.logger.Trace().Int("selected", int(best)).Msg("select")
		current = best
	}
	return current
}

// simulate plays the state of the node out with uniformly random legal actions.
func (t *Tree[P, A]) simulate(of naughty) (winner P, ok bool) {
	state := t.nodeFromNaughty(of).state.Clone()
	for !state.Ended() {
		actions := state.LegalActions()
		if len(actions) == 0 {
			panic("rollout: state is not ended but has no legal actions")
		}
		a := actions[t.rand.Intn(len(actions))]
		if !state.Apply(a) {
			panic(fmt.Sprintf("rollout: legal action %v could not be applied", a))
		}
	}
	return state.Winner()
}

// backprop walks from the simulated node to the root, counting the simulation in every node on the way.
// A draw is booked as a win for the player to move at the root.
func (t *Tree[P, A]) backprop(from naughty, winner P, ok bool) {
	if !ok {
		winner = t.nodeFromNaughty(t.root).state.ToMove()
	}
	for n := from; n.isValid(); n = t.nodeFromNaughty(n).parent {
		t.nodeFromNaughty(n).update(winner)
	}
}

// Best returns the action of the root child with the most simulations. The first such child wins ties.
func (t *Tree[P, A]) Best() A {
	best := t.bestChild()
	if best == nilNode {
		panic("root has no children")
	}
	return t.nodeFromNaughty(best).action
}

func (t *Tree[P, A]) bestChild() naughty {
	best := nilNode
	var most uint32
	for _, kid := range t.children[int(t.root)] {
		sims := t.nodeFromNaughty(kid).sims
		if best == nilNode || sims > most {
			best = kid
			most = sims
		}
	}
	return best
}
