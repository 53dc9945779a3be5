package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/render"
)

// SVG is a render.Surface that records draw calls as SVG elements. Radial
// fills become gradient definitions.
type SVG struct {
	w, h  int
	defs  strings.Builder
	body  strings.Builder
	grads int
}

func NewSVG(w, h int) *SVG {
	return &SVG{w: w, h: h}
}

// Context lets an SVG act as an engine target.
func (s *SVG) Context() (render.Surface, error) { return s, nil }

func (s *SVG) Size() (int, int) { return s.w, s.h }

// Reset drops everything drawn so far.
func (s *SVG) Reset() {
	s.defs.Reset()
	s.body.Reset()
	s.grads = 0
}

func (s *SVG) FillRect(r render.Rect, c color.NRGBA) {
	fmt.Fprintf(&s.body, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" %s/>`+"\n",
		r.X, r.Y, r.W, r.H, fill(c))
}

func (s *SVG) FillRectRadial(r render.Rect, g render.Radial) {
	id := s.gradient(g)
	fmt.Fprintf(&s.body, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="url(#%s)"/>`+"\n",
		r.X, r.Y, r.W, r.H, id)
}

func (s *SVG) FillCircle(c field.Vec2, radius float64, col color.NRGBA) {
	if radius <= 0 || col.A == 0 {
		return
	}
	fmt.Fprintf(&s.body, `<circle cx="%.1f" cy="%.1f" r="%.2f" %s/>`+"\n", c.X, c.Y, radius, fill(col))
}

func (s *SVG) FillCircleRadial(g render.Radial) {
	if g.Radius <= 0 {
		return
	}
	id := s.gradient(g)
	fmt.Fprintf(&s.body, `<circle cx="%.1f" cy="%.1f" r="%.2f" fill="url(#%s)"/>`+"\n",
		g.Center.X, g.Center.Y, g.Radius, id)
}

func (s *SVG) StrokeLine(a, b field.Vec2, width float64, c color.NRGBA) {
	if width <= 0 || c.A == 0 {
		return
	}
	fmt.Fprintf(&s.body, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.1f"/>`+"\n",
		a.X, a.Y, b.X, b.Y, hex(c), alpha(c), width)
}

func (s *SVG) gradient(g render.Radial) string {
	s.grads++
	id := fmt.Sprintf("g%d", s.grads)
	fmt.Fprintf(&s.defs, `<radialGradient id="%s" gradientUnits="userSpaceOnUse" cx="%.1f" cy="%.1f" r="%.2f">`+
		`<stop offset="0" stop-color="%s" stop-opacity="%.3f"/>`+
		`<stop offset="1" stop-color="%s" stop-opacity="%.3f"/></radialGradient>`+"\n",
		id, g.Center.X, g.Center.Y, g.Radius, hex(g.Inner), alpha(g.Inner), hex(g.Outer), alpha(g.Outer))
	return id
}

// String returns the complete document.
func (s *SVG) String() string {
	var sb strings.Builder
	s.WriteTo(&sb)
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#000000"/>
<defs>
%s</defs>
%s</svg>
`, s.w, s.h, s.w, s.h, s.defs.String(), s.body.String())
	return int64(n), err
}

func fill(c color.NRGBA) string {
	return fmt.Sprintf(`fill="%s" fill-opacity="%.3f"`, hex(c), alpha(c))
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func alpha(c color.NRGBA) float64 {
	return float64(c.A) / 255
}
