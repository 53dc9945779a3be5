package render

import (
	"image/color"
	"math"

	"github.com/san-kum/driftfield/internal/field"
)

// Scaled presents s as a surface K times larger, so a coarse raster (a
// terminal grid) can host a field laid out in full-size pixels.
type Scaled struct {
	S Surface
	K float64

	// MinWidth keeps thin strokes visible after scaling down.
	MinWidth float64
}

func Scale(s Surface, k float64) *Scaled {
	if k <= 0 {
		k = 1
	}
	return &Scaled{S: s, K: k}
}

func (s *Scaled) Size() (int, int) {
	w, h := s.S.Size()
	return int(math.Round(float64(w) * s.K)), int(math.Round(float64(h) * s.K))
}

func (s *Scaled) FillRect(r Rect, c color.NRGBA) {
	s.S.FillRect(s.rect(r), c)
}

func (s *Scaled) FillRectRadial(r Rect, g Radial) {
	s.S.FillRectRadial(s.rect(r), s.radial(g))
}

func (s *Scaled) FillCircle(center field.Vec2, radius float64, c color.NRGBA) {
	s.S.FillCircle(center.Scale(1/s.K), radius/s.K, c)
}

func (s *Scaled) FillCircleRadial(g Radial) {
	s.S.FillCircleRadial(s.radial(g))
}

func (s *Scaled) StrokeLine(a, b field.Vec2, width float64, c color.NRGBA) {
	s.S.StrokeLine(a.Scale(1/s.K), b.Scale(1/s.K), math.Max(width/s.K, s.MinWidth), c)
}

func (s *Scaled) rect(r Rect) Rect {
	return Rect{X: r.X / s.K, Y: r.Y / s.K, W: r.W / s.K, H: r.H / s.K}
}

func (s *Scaled) radial(g Radial) Radial {
	g.Center = g.Center.Scale(1 / s.K)
	g.Radius /= s.K
	return g
}
