package c4

import (
	"fmt"

	"github.com/gorgonia/gamesweet/game"
)

var (
	Red    = game.Player(game.Black)
	Yellow = game.Player(game.White)
)

var (
	_ game.State[game.Player, game.Single] = &Game{}
	_ game.Board                           = &Game{}
	_ game.Playable                        = &Game{}
)

type Game struct {
	b          *Board
	history    []game.PlayerMove
	nextToMove game.Player
}

// New creates a new game with a board of (rows,cols) and N to win (connect4 being 4 to win).
// Red moves first.
func New(rows, cols, N int) *Game {
	return &Game{
		b:          newBoard(rows, cols, N),
		history:    make([]game.PlayerMove, 0, rows*cols),
		nextToMove: Red,
	}
}

// ConnectFour is the classic 6x7 board with 4 to win.
func ConnectFour() *Game { return New(6, 7, 4) }

func (g *Game) BoardSize() (int, int) { return g.b.shape() }

func (g *Game) Board() []game.Colour { return g.b.raw() }

func (g *Game) ToMove() game.Player { return g.nextToMove }

func (g *Game) MoveNumber() int { return len(g.history) }

func (g *Game) LastMove() (game.PlayerMove, bool) {
	if len(g.history) == 0 {
		return game.PlayerMove{}, false
	}
	return g.history[len(g.history)-1], true
}

// LegalActions lists the columns that are not full, left to right.
func (g *Game) LegalActions() []game.Single {
	if g.Ended() {
		return nil
	}
	_, cols := g.b.shape()
	retVal := make([]game.Single, 0, cols)
	for col := 0; col < cols; col++ {
		if g.b.it[0][col] == game.None {
			retVal = append(retVal, game.Single(col))
		}
	}
	return retVal
}

// Apply drops a piece of the player to move into column m.
func (g *Game) Apply(m game.Single) bool {
	if g.Ended() {
		return false
	}
	pm := game.PlayerMove{Player: g.nextToMove, Single: m}
	if err := g.b.apply(pm); err != nil {
		return false
	}
	g.history = append(g.history, pm)
	g.nextToMove = g.nextToMove.Opponent()
	return true
}

func (g *Game) Ended() bool {
	if g.b.checkWin() != game.None {
		return true
	}
	return g.b.full()
}

func (g *Game) Winner() (game.Player, bool) {
	winner := g.b.checkWin()
	if winner == game.None {
		return game.Player(game.None), false
	}
	return game.Player(winner), true
}

func (g *Game) Reset() {
	data := g.b.raw()
	for i := range data {
		data[i] = game.None
	}
	g.history = g.history[:0]
	g.nextToMove = Red
}

func (g *Game) Clone() game.State[game.Player, game.Single] {
	history2 := make([]game.PlayerMove, len(g.history), cap(g.history))
	copy(history2, g.history)
	return &Game{
		b:          g.b.clone(),
		history:    history2,
		nextToMove: g.nextToMove,
	}
}

func (g *Game) Format(s fmt.State, c rune) { g.b.Format(s, c) }
