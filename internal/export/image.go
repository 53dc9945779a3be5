package export

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
)

var ErrNoFrames = errors.New("export: no frames")

func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WriteGIF encodes frames as a looping animation, delay in hundredths of a
// second per frame. Frames are dithered onto a fixed palette.
func WriteGIF(w io.Writer, frames []image.Image, delay int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, Paletted(frame, palette.Plan9))
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

func Paletted(img image.Image, p color.Palette) *image.Paletted {
	b := img.Bounds()
	out := image.NewPaletted(b, p)
	draw.FloydSteinberg.Draw(out, b, img, b.Min)
	return out
}

// Recorder keeps copies of rendered frames for a later GIF.
type Recorder struct {
	frames []image.Image
	limit  int
}

// NewRecorder keeps at most limit frames; older frames are dropped first.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) Add(img image.Image) {
	b := img.Bounds()
	cp := image.NewRGBA(b)
	draw.Draw(cp, b, img, b.Min, draw.Src)
	r.frames = append(r.frames, cp)
	if r.limit > 0 && len(r.frames) > r.limit {
		r.frames = r.frames[len(r.frames)-r.limit:]
	}
}

func (r *Recorder) Len() int              { return len(r.frames) }
func (r *Recorder) Frames() []image.Image { return r.frames }
func (r *Recorder) Reset()                { r.frames = nil }
