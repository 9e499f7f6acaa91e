package mnk

import (
	"fmt"

	"github.com/gorgonia/gamesweet/game"
)

var (
	Cross  = game.Player(game.Black)
	Nought = game.Player(game.White)
)

var (
	_ game.State[game.Player, game.Single] = &MNK{}
	_ game.Board                           = &MNK{}
	_ game.Playable                        = &MNK{}
)

// MNK is a representation of M,N,K games - a game is played on a MxN board. K in a row to win.
type MNK struct {
	board   []game.Colour
	m, n, k int

	nextToMove game.Player
	history    []game.PlayerMove
}

// New creates a new MNK game. Cross moves first.
func New(m, n, k int) *MNK {
	return &MNK{
		board:      make([]game.Colour, m*n),
		history:    make([]game.PlayerMove, 0, m*n),
		m:          m,
		n:          n,
		k:          k,
		nextToMove: Cross,
	}
}

// TicTacToe creates a new MNK game for Tic Tac Toe
func TicTacToe() *MNK { return New(3, 3, 3) }

func (g *MNK) Format(s fmt.State, c rune) {
	for i, c := range g.board {
		if i%g.n == 0 {
			fmt.Fprint(s, "⎢ ")
		}
		fmt.Fprintf(s, "%s ", c)
		if (i+1)%g.n == 0 && i != 0 {
			fmt.Fprint(s, "⎥\n")
		}
	}
}

func (g *MNK) BoardSize() (int, int) { return g.m, g.n }
func (g *MNK) Board() []game.Colour  { return g.board }

func (g *MNK) ToMove() game.Player { return g.nextToMove }

func (g *MNK) MoveNumber() int { return len(g.history) }

func (g *MNK) LastMove() (game.PlayerMove, bool) {
	if len(g.history) == 0 {
		return game.PlayerMove{}, false
	}
	return g.history[len(g.history)-1], true
}

// LegalActions lists the empty cells, in row major order.
func (g *MNK) LegalActions() []game.Single {
	if g.Ended() {
		return nil
	}
	retVal := make([]game.Single, 0, len(g.board)-len(g.history))
	for i, c := range g.board {
		if c == game.None {
			retVal = append(retVal, game.Single(i))
		}
	}
	return retVal
}

func (g *MNK) check(m game.Single) bool {
	if m < 0 || int(m) >= len(g.board) {
		return false
	}
	return g.board[int(m)] == game.None && !g.Ended()
}

// Apply places a piece of the player to move on the cell m.
func (g *MNK) Apply(m game.Single) bool {
	if !g.check(m) {
		return false
	}
	g.board[int(m)] = game.Colour(g.nextToMove)
	g.history = append(g.history, game.PlayerMove{Player: g.nextToMove, Single: m})
	g.nextToMove = g.nextToMove.Opponent()
	return true
}

// Ended checks if the game has ended.
func (g *MNK) Ended() bool {
	if _, ok := g.Winner(); ok {
		return true
	}
	for _, c := range g.board {
		if c == game.None {
			return false
		}
	}
	return true
}

// Winner returns the player who got K in a row, if any.
func (g *MNK) Winner() (game.Player, bool) {
	if g.isWinner(Cross) {
		return Cross, true
	}
	if g.isWinner(Nought) {
		return Nought, true
	}
	return game.Player(game.None), false
}

func (g *MNK) Reset() {
	for i := range g.board {
		g.board[i] = game.None
	}
	g.history = g.history[:0]
	g.nextToMove = Cross
}

func (g *MNK) Clone() game.State[game.Player, game.Single] {
	retVal := New(g.m, g.n, g.k)
	copy(retVal.board, g.board)
	retVal.history = append(retVal.history, g.history...)
	retVal.nextToMove = g.nextToMove
	return retVal
}

// directions to scan from each cell: right, down, down-right, down-left
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

func (g *MNK) isWinner(p game.Player) bool {
	colour := game.Colour(p)
	for i := 0; i < g.m; i++ {
		for j := 0; j < g.n; j++ {
			if g.board[i*g.n+j] != colour {
				continue
			}
			for _, d := range directions {
				if g.run(i, j, d[0], d[1], colour) >= g.k {
					return true
				}
			}
		}
	}
	return false
}

// run counts the consecutive cells of colour starting at (i, j) in the direction (di, dj)
func (g *MNK) run(i, j, di, dj int, colour game.Colour) (count int) {
	for i >= 0 && i < g.m && j >= 0 && j < g.n && g.board[i*g.n+j] == colour {
		count++
		i += di
		j += dj
	}
	return count
}
