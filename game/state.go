package game

import (
	"fmt"
)

type Colour int32

const (
	None Colour = iota
	Black
	White
)

func (cl Colour) Format(s fmt.State, c rune) {
	switch c {
	case 's': // used in board games
		switch cl {
		case None:
			fmt.Fprint(s, "·")
		case Black:
			fmt.Fprint(s, "X")
		case White:
			fmt.Fprint(s, "O")
		}
	default: // used in debug
		switch cl {
		case None:
			fmt.Fprint(s, "None")
		case Black:
			fmt.Fprint(s, "Black")
		case White:
			fmt.Fprint(s, "White")
		}
	}
}

// Player represents a player. It's also a colour.
type Player Colour

func (p Player) Format(s fmt.State, c rune) { Colour(p).Format(s, c) }

// Opponent returns the other player of a two player board game. None has no opponent.
func (p Player) Opponent() Player {
	switch Colour(p) {
	case Black:
		return Player(White)
	case White:
		return Player(Black)
	}
	return Player(None)
}

// Single represents a move on a board as a single number, utilized in a rowmajor fashion.
// What the number means is up to the game: a cell for m,n,k games, a column for connect four.
type Single int32

// PlayerMove is a tuple indicating the player and the move to be made.
type PlayerMove struct {
	Player
	Single
}

// Eq returns true if both are equal
func (p PlayerMove) Eq(other PlayerMove) bool {
	return p.Player == other.Player && p.Single == other.Single
}

func (p PlayerMove) Format(s fmt.State, c rune) { fmt.Fprintf(s, "%v@%d", p.Player, p.Single) }

// State is a decision state of a deterministic, turn based, perfect information game.
//
// P is the type of the actors (players) and A the type of the actions they take.
// The search engine only ever talks to a game through this interface.
type State[P comparable, A any] interface {
	ToMove() P          // returns the player who is about to move from this state
	LegalActions() []A  // returns every legal action. It must be empty when the game has ended, and non empty otherwise.
	Apply(a A) bool     // applies the action in place. Returns false if the action was rejected.
	Ended() bool        // has the game ended?
	Winner() (P, bool)  // the winner of an ended game. false means there's no winner (a draw)
	Clone() State[P, A] // a deep copy that shares no mutable state with the receiver
}

// Board is a State that is played on a rectangular board of colours.
type Board interface {
	BoardSize() (int, int) // returns the board size
	Board() []Colour       // returns the board state
}

// MetaState is the state of a match, as seen by renderers and loggers.
type MetaState interface {
	Name() string                        // name of the match
	GameNumber() int                     // which game of the match is being played
	State() any                          // the current position. Renderers print it with %s
	Result() (ended bool, winner string) // winner is empty for a draw
}

// Playable is a two player board game that can be restarted. The board games in this module are Playable.
type Playable interface {
	State[Player, Single]
	Board
	MoveNumber() int
	Reset()
}
