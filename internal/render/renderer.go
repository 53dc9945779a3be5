package render

import (
	"image/color"
	"math"

	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/link"
)

const (
	DefaultTrailOpacity = 0.3
	DefaultGlowScale    = 3.0
	DefaultEdgeOpacity  = 0.3
	DefaultEdgeWidth    = 1.0
)

type Style struct {
	// BackgroundInner and BackgroundOuter are the center and edge stops of
	// the backdrop repainted every frame. Their alpha sets how much of the
	// previous frame survives.
	BackgroundInner color.NRGBA
	BackgroundOuter color.NRGBA
	TrailOpacity    float64
	GlowScale       float64
	EdgeOpacity     float64
	EdgeWidth       float64
}

func DefaultStyle() Style {
	return Style{
		BackgroundInner: color.NRGBA{A: unit8(0.95 * 255)},
		BackgroundOuter: color.NRGBA{A: unit8(0.98 * 255)},
		TrailOpacity:    DefaultTrailOpacity,
		GlowScale:       DefaultGlowScale,
		EdgeOpacity:     DefaultEdgeOpacity,
		EdgeWidth:       DefaultEdgeWidth,
	}
}

type Renderer struct {
	Style
	trail []field.TrailPoint
}

func New(style Style) *Renderer {
	return &Renderer{Style: style}
}

// Draw paints one frame: backdrop, trails, glow and core per particle, then
// edges. A zero-area surface is left untouched.
func (r *Renderer) Draw(s Surface, st *field.Store, edges []link.Edge) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	r.background(s, w, h)

	ps := st.Particles()
	for i := range ps {
		r.trailOf(s, &ps[i])
		r.body(s, &ps[i])
	}
	for _, e := range edges {
		if e.A >= len(ps) || e.B >= len(ps) {
			continue
		}
		r.edge(s, &ps[e.A], &ps[e.B], e)
	}
}

func (r *Renderer) background(s Surface, w, h int) {
	fw, fh := float64(w), float64(h)
	s.FillRectRadial(Rect{W: fw, H: fh}, Radial{
		Center: field.Vec2{X: fw / 2, Y: fh / 2},
		Radius: math.Max(fw, fh) / 2,
		Inner:  r.BackgroundInner,
		Outer:  r.BackgroundOuter,
	})
}

// trailOf draws the retained points oldest first; the oldest is the smallest
// and most transparent.
func (r *Renderer) trailOf(s Surface, p *field.Particle) {
	if p.Trail == nil {
		return
	}
	r.trail = p.Trail.Points(r.trail[:0])
	n := float64(len(r.trail))
	for i, pt := range r.trail {
		frac := float64(i) / n
		radius := p.Size * frac
		alpha := pt.Opacity * frac * r.TrailOpacity
		if radius <= 0 || alpha <= 0 {
			continue
		}
		s.FillCircle(field.Vec2{X: pt.X, Y: pt.Y}, radius, WithAlpha(p.RGBA(), alpha))
	}
}

func (r *Renderer) body(s Surface, p *field.Particle) {
	c := WithAlpha(p.RGBA(), p.Opacity)
	s.FillCircleRadial(Radial{
		Center: p.Pos,
		Radius: p.Size * r.GlowScale,
		Inner:  c,
		Outer:  WithAlpha(p.RGBA(), 0),
	})
	s.FillCircle(p.Pos, p.Size, c)
}

func (r *Renderer) edge(s Surface, a, b *field.Particle, e link.Edge) {
	alpha := e.Strength * r.EdgeOpacity
	if alpha <= 0 {
		return
	}
	s.StrokeLine(a.Pos, b.Pos, r.EdgeWidth, WithAlpha(a.RGBA(), alpha))
}
