package gif

import (
	"image/gif"
	"io"

	"github.com/pkg/errors"

	"github.com/gorgonia/gamesweet/encoding"
	"github.com/gorgonia/gamesweet/game"
)

const endDelay = 300 // hundredths of a second to linger on the final position

// Encoder renders every position it is given as a frame of an animated GIF. It implements gamesweet.OutputEncoder.
type Encoder struct {
	*encoding.Renderer
	io.Writer

	out *gif.GIF
}

// NewEncoder creates an encoder whose frames are at most h by w pixels. Flush writes the GIF to out.
func NewEncoder(h, w int, out io.Writer) *Encoder {
	return &Encoder{
		Renderer: encoding.NewRenderer(h, w),
		Writer:   out,
		out:      &gif.GIF{LoopCount: -1},
	}
}

// Encode a game
func (enc *Encoder) Encode(ms game.MetaState) error {
	im, ended := enc.Render(ms)
	var delay int
	if ended {
		delay = endDelay
	}
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// Flush writes the gif into the writer. Frames are kept, so a later Flush writes them all again.
func (enc *Encoder) Flush() error {
	if enc.Writer == nil {
		return errors.New("gif: no writer to flush to")
	}
	if len(enc.out.Image) == 0 {
		return errors.New("gif: no frames to flush")
	}
	return errors.Wrap(gif.EncodeAll(enc.Writer, enc.out), "gif: unable to encode")
}

// Frames returns the number of frames encoded so far.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }
