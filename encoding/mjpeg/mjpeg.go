// Package mjpeg streams the positions of a match over HTTP as motion JPEG.
package mjpeg

import (
	"bytes"
	"image/jpeg"
	"net/http"

	"github.com/mattn/go-mjpeg"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gorgonia/gamesweet/encoding"
	"github.com/gorgonia/gamesweet/game"
)

// Encoder pushes every position it is given to the clients of its stream. It implements gamesweet.OutputEncoder and http.Handler.
type Encoder struct {
	*encoding.Renderer

	stream *mjpeg.Stream
	logger zerolog.Logger
	last   []byte
}

// NewEncoder with height and width
func NewEncoder(h, w int) *Encoder {
	return &Encoder{
		Renderer: encoding.NewRenderer(h, w),
		stream:   mjpeg.NewStream(),
		logger:   log.Logger,
	}
}

// WithLogger sets the logger of the encoder.
func (enc *Encoder) WithLogger(l zerolog.Logger) *Encoder {
	enc.logger = l
	return enc
}

func (enc *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	enc.stream.ServeHTTP(w, r)
}

// Encode a game
func (enc *Encoder) Encode(ms game.MetaState) error {
	im, _ := enc.Render(ms)
	var b bytes.Buffer
	if err := jpeg.Encode(&b, im, nil); err != nil {
		enc.logger.Error().Err(err).Msg("unable to encode frame")
		return errors.Wrap(err, "mjpeg: unable to encode frame")
	}
	enc.last = b.Bytes()
	if err := enc.stream.Update(enc.last); err != nil {
		enc.logger.Error().Err(err).Msg("unable to update stream")
		return errors.Wrap(err, "mjpeg: unable to update stream")
	}
	return nil
}

// Last returns the latest frame as a JPEG. It is nil before the first Encode.
func (enc *Encoder) Last() []byte { return enc.last }

func (enc *Encoder) Flush() error { return nil }
