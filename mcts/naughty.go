package mcts

// naughty is essentially *Node
type naughty int

func (n naughty) isValid() bool { return n >= 0 }

const (
	nilNode naughty = -1
)

// Handle is the exported name of a node handle, for callers walking a Tree.
type Handle = naughty
