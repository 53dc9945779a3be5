// Package render draws a particle field onto a 2D raster surface.
package render

import (
	"image/color"

	"github.com/san-kum/driftfield/internal/field"
)

type Rect struct {
	X, Y, W, H float64
}

// Radial is a circular gradient from Inner at Center to Outer at Radius.
type Radial struct {
	Center field.Vec2
	Radius float64
	Inner  color.NRGBA
	Outer  color.NRGBA
}

// At returns the gradient color at distance d from the center.
func (g Radial) At(d float64) color.NRGBA {
	if g.Radius <= 0 {
		return g.Outer
	}
	return Lerp(g.Inner, g.Outer, d/g.Radius)
}

// Surface is the drawing target the renderer needs. Colors are
// non-premultiplied; every draw composites source-over using the color's
// alpha.
type Surface interface {
	Size() (w, h int)
	FillRect(r Rect, c color.NRGBA)
	FillRectRadial(r Rect, g Radial)
	FillCircle(center field.Vec2, radius float64, c color.NRGBA)
	FillCircleRadial(g Radial)
	StrokeLine(a, b field.Vec2, width float64, c color.NRGBA)
}

// WithAlpha returns c with its alpha replaced by a, clamped to [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = unit8(a * 255)
	return c
}

// Lerp interpolates two colors in premultiplied space, t clamped to [0, 1].
// Fading toward transparent keeps the hue instead of darkening it.
func Lerp(a, b color.NRGBA, t float64) color.NRGBA {
	t = clamp(t, 0, 1)
	aa, ba := float64(a.A)/255, float64(b.A)/255
	alpha := aa + (ba-aa)*t
	if alpha <= 0 {
		return color.NRGBA{}
	}
	ch := func(x, y uint8) uint8 {
		px, py := float64(x)*aa, float64(y)*ba
		return unit8((px + (py-px)*t) / alpha)
	}
	return color.NRGBA{R: ch(a.R, b.R), G: ch(a.G, b.G), B: ch(a.B, b.B), A: unit8(alpha * 255)}
}

func unit8(v float64) uint8 {
	return uint8(clamp(v, 0, 255) + 0.5)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
