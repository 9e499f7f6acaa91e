// Package encoding holds what the image based output encoders share: drawing a match position as text on a picture.
package encoding

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"

	"github.com/gorgonia/gamesweet/game"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `Game Number: 10000, Move: 100`
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

var Palette = color.Palette{
	color.Gray{0},
	color.Gray{253},
}

// Renderer draws positions of a match. The picture size is fixed by the first position drawn.
type Renderer struct {
	H, W int
	font.Drawer

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so everything don't start at the topleft
	initialized bool

	moves int // moves drawn in the current game
	last  int // last game number seen
}

// NewRenderer creates a renderer whose pictures are at most h by w pixels.
func NewRenderer(h, w int) *Renderer {
	return &Renderer{
		H:    -1,
		W:    -1,
		maxH: h,
		maxW: w,
		padH: 10,
		padW: 10,

		Drawer: font.Drawer{
			Src: image.Black,
		},
	}
}

func lineHeight() int { return int(math.Ceil(fontsize * lineheight * dpi / 72)) }

func (r *Renderer) init(repr string) {
	r.Drawer.Src = image.Black
	r.Drawer.Face = truetype.NewFace(regular, &truetype.Options{
		Size:    fontsize,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})

	// first calculate how long the max length will be
	splits := strings.Split(repr, "\n")
	oneline := splits[0]
	maxW := max(font.MeasureString(r.Face, oneline).Ceil(), font.MeasureString(r.Face, dummyLongString).Ceil())
	dy := lineHeight()
	w := maxW + 2*r.padW
	h := (len(splits)+3)*dy + 2*r.padH // + 3 is for the 3 extra lines: game name, state, and winner

	w = min(w, r.maxW)
	h = min(h, r.maxH)

	if w == r.maxW {
		r.padW = 0
	}
	if h == r.maxH {
		r.padH = 0
	}

	r.H = h
	r.W = w
	r.initialized = true
}

// Render draws the position of ms along with the name of the match, the game number and the move number.
// ended reports whether the game shown is over, in which case the winner is drawn too.
func (r *Renderer) Render(ms game.MetaState) (im *image.Paletted, ended bool) {
	gameNum := ms.GameNumber()
	repr := strings.TrimRight(fmt.Sprintf("%s", ms.State()), "\n")
	if gameNum != r.last {
		r.last = gameNum
		r.moves = 0
	}
	if !r.initialized {
		r.init(repr)
	}

	im = image.NewPaletted(image.Rect(0, 0, r.W, r.H), Palette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	r.Dst = im

	dy := lineHeight()
	y := r.padH + dy
	line := func(s string) {
		r.Dot = fixed.P(r.padW, y)
		r.DrawString(s)
		y += dy
	}
	for _, s := range strings.Split(repr, "\n") {
		line(s)
	}
	line(ms.Name())
	line(fmt.Sprintf("Game Number: %d, Move: %d", gameNum, r.moves))
	r.moves++

	var winner string
	if ended, winner = ms.Result(); ended {
		if winner == "" {
			winner = "None (draw)"
		}
		line(fmt.Sprintf("Winner: %s", winner))
	}
	return im, ended
}
