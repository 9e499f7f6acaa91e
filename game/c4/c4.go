package c4

import (
	"fmt"

	"github.com/gorgonia/gamesweet/game"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
)

type Board struct {
	data *tensor.Dense
	it   [][]game.Colour
	n    int // how many to be considered a win?
}

func newBoard(rows, cols, n int) *Board {
	backing := make([]game.Colour, rows*cols)
	data := tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing))
	iter, err := native.Matrix(data)
	if err != nil {
		panic(err)
	}
	it := iter.([][]game.Colour)
	return &Board{
		data: data,
		it:   it,
		n:    n,
	}
}

func (b *Board) Format(s fmt.State, c rune) {
	for _, row := range b.it {
		fmt.Fprint(s, "⎢ ")
		for _, col := range row {
			fmt.Fprintf(s, "%s ", col)
		}
		fmt.Fprint(s, "⎥\n")
	}
}

func (b *Board) shape() (rows, cols int) {
	sh := b.data.Shape()
	return sh[0], sh[1]
}

func (b *Board) raw() []game.Colour { return b.data.Data().([]game.Colour) }

func (b *Board) apply(m game.PlayerMove) error {
	row, col, err := b.check(m.Single)
	if err != nil {
		return err
	}
	b.it[row][col] = game.Colour(m.Player)
	return nil
}

// check finds the row a piece dropped into column m lands on.
func (b *Board) check(m game.Single) (row, col int, err error) {
	_, cols := b.shape()
	col = int(m)
	if col < 0 || col >= cols {
		return -1, -1, errors.Errorf("Column %d is off the board", col)
	}
	for row = len(b.it) - 1; row >= 0; row-- {
		if b.it[row][col] == game.None {
			return row, col, nil
		}
	}
	return -1, -1, errors.New("Selected column is full")
}

func (b *Board) clone() *Board {
	rows, cols := b.shape()
	b2 := newBoard(rows, cols, b.n)
	copy(b2.raw(), b.raw())
	return b2
}

func (b *Board) full() bool {
	for _, c := range b.raw() {
		if c == game.None {
			return false
		}
	}
	return true
}

func (b *Board) checkWin() game.Colour {
	rows, cols := b.shape()
	if winner := b.checkVertical(rows, cols); winner != game.None {
		return winner
	}
	if winner := b.checkHorizontal(rows, cols); winner != game.None {
		return winner
	}
	if winner := b.checkTLBR(rows, cols); winner != game.None {
		return winner
	}
	return b.checkTRBL(rows, cols)
}

// checkVertical checks downwards
func (b *Board) checkVertical(rows, cols int) game.Colour {
	return b.scan(rows, cols, 1, 0)
}

// checkHorizontal checks rightwards
func (b *Board) checkHorizontal(rows, cols int) game.Colour {
	return b.scan(rows, cols, 0, 1)
}

// checkTLBR checks down and to the left
func (b *Board) checkTLBR(rows, cols int) game.Colour {
	return b.scan(rows, cols, 1, -1)
}

// checkTRBL checks down and to the right
func (b *Board) checkTRBL(rows, cols int) game.Colour {
	return b.scan(rows, cols, 1, 1)
}

// scan looks for n pieces of the same colour in a line going (dy, dx) from any cell.
func (b *Board) scan(rows, cols, dy, dx int) game.Colour {
	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			c := b.it[y][x]
			if c == game.None {
				continue
			}
			winning := true
			for i := 0; i < b.n; i++ {
				yy, xx := y+i*dy, x+i*dx
				if yy < 0 || yy >= rows || xx < 0 || xx >= cols || b.it[yy][xx] != c {
					winning = false
					break
				}
			}
			if winning {
				return c
			}
		}
	}
	return game.None
}
