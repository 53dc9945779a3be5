package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/render"
)

const glowTexSize = 64

// Surface draws into a persistent render texture so the translucent
// backdrop can fade earlier frames. Draw calls must happen between Begin
// and End on the window's thread.
type Surface struct {
	target rl.RenderTexture2D
	w, h   int

	glow rl.Texture2D

	backdrop    rl.Texture2D
	backdropKey backdropKey
}

type backdropKey struct {
	side         int
	inner, outer color.NRGBA
}

func NewSurface(w, h int) *Surface {
	img := rl.GenImageGradientRadial(glowTexSize, glowTexSize, 0, rl.White, rl.NewColor(255, 255, 255, 0))
	s := &Surface{glow: rl.LoadTextureFromImage(img)}
	rl.UnloadImage(img)
	rl.SetTextureFilter(s.glow, rl.FilterBilinear)
	s.Resize(w, h)
	return s
}

// Context lets the surface serve as an engine target.
func (s *Surface) Context() (render.Surface, error) { return s, nil }

// Resize replaces the render texture; its content starts cleared.
func (s *Surface) Resize(w, h int) {
	if s.w != 0 || s.h != 0 {
		rl.UnloadRenderTexture(s.target)
	}
	s.w, s.h = max(w, 1), max(h, 1)
	s.target = rl.LoadRenderTexture(int32(s.w), int32(s.h))
	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Black)
	rl.EndTextureMode()
}

func (s *Surface) Begin() { rl.BeginTextureMode(s.target) }
func (s *Surface) End()   { rl.EndTextureMode() }

// Present blits the accumulated frame to the window.
func (s *Surface) Present() {
	src := rl.NewRectangle(0, 0, float32(s.w), -float32(s.h))
	rl.DrawTextureRec(s.target.Texture, src, rl.NewVector2(0, 0), rl.White)
}

func (s *Surface) Unload() {
	rl.UnloadRenderTexture(s.target)
	rl.UnloadTexture(s.glow)
	if s.backdropKey.side > 0 {
		rl.UnloadTexture(s.backdrop)
	}
}

func (s *Surface) Size() (int, int) { return s.w, s.h }

func (s *Surface) FillRect(r render.Rect, c color.NRGBA) {
	rl.DrawRectangleRec(rl.NewRectangle(float32(r.X), float32(r.Y), float32(r.W), float32(r.H)), toRL(c))
}

// FillRectRadial paints a square gradient texture centered on the gradient
// and clipped to r by the texture bounds.
func (s *Surface) FillRectRadial(r render.Rect, g render.Radial) {
	side := int(math.Ceil(2 * g.Radius))
	if side <= 0 {
		s.FillRect(r, g.Outer)
		return
	}
	key := backdropKey{side: side, inner: g.Inner, outer: g.Outer}
	if key != s.backdropKey {
		if s.backdropKey.side > 0 {
			rl.UnloadTexture(s.backdrop)
		}
		img := rl.GenImageGradientRadial(side, side, 0, toRL(g.Inner), toRL(g.Outer))
		s.backdrop = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		s.backdropKey = key
	}

	src, dst := clipSquare(g.Center, side, r)
	if src.Width <= 0 || src.Height <= 0 {
		return
	}
	rl.DrawTexturePro(s.backdrop, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	s.fillOutside(r, dst, g.Outer)
}

// fillOutside covers the parts of r the gradient square does not reach.
func (s *Surface) fillOutside(r render.Rect, inner rl.Rectangle, c color.NRGBA) {
	for _, band := range outside(r, inner) {
		s.FillRect(band, c)
	}
}

func (s *Surface) FillCircle(center field.Vec2, radius float64, c color.NRGBA) {
	if radius <= 0 || c.A == 0 {
		return
	}
	rl.DrawCircleV(toVec(center), float32(radius), toRL(c))
}

func (s *Surface) FillCircleRadial(g render.Radial) {
	if g.Radius <= 0 {
		return
	}
	if g.Outer.A != 0 {
		rl.DrawCircleGradient(int32(g.Center.X), int32(g.Center.Y), float32(g.Radius), toRL(g.Inner), toRL(g.Outer))
		return
	}
	d := float32(2 * g.Radius)
	src := rl.NewRectangle(0, 0, glowTexSize, glowTexSize)
	dst := rl.NewRectangle(float32(g.Center.X)-d/2, float32(g.Center.Y)-d/2, d, d)
	rl.DrawTexturePro(s.glow, src, dst, rl.NewVector2(0, 0), 0, toRL(g.Inner))
}

func (s *Surface) StrokeLine(a, b field.Vec2, width float64, c color.NRGBA) {
	if width <= 0 || c.A == 0 {
		return
	}
	rl.DrawLineEx(toVec(a), toVec(b), float32(width), toRL(c))
}

func toRL(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func toVec(v field.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(v.X), float32(v.Y))
}

// clipSquare intersects a side x side square centered at c with r and
// returns the matching texture source and destination rectangles.
func clipSquare(c field.Vec2, side int, r render.Rect) (src, dst rl.Rectangle) {
	half := float64(side) / 2
	x0, y0 := math.Max(c.X-half, r.X), math.Max(c.Y-half, r.Y)
	x1, y1 := math.Min(c.X+half, r.X+r.W), math.Min(c.Y+half, r.Y+r.H)
	if x1 <= x0 || y1 <= y0 {
		return rl.Rectangle{}, rl.Rectangle{}
	}
	src = rl.NewRectangle(float32(x0-(c.X-half)), float32(y0-(c.Y-half)), float32(x1-x0), float32(y1-y0))
	dst = rl.NewRectangle(float32(x0), float32(y0), float32(x1-x0), float32(y1-y0))
	return src, dst
}

// outside returns up to four bands of r not covered by in.
func outside(r render.Rect, in rl.Rectangle) []render.Rect {
	ix0, iy0 := float64(in.X), float64(in.Y)
	ix1, iy1 := ix0+float64(in.Width), iy0+float64(in.Height)
	var bands []render.Rect
	if iy0 > r.Y {
		bands = append(bands, render.Rect{X: r.X, Y: r.Y, W: r.W, H: iy0 - r.Y})
	}
	if iy1 < r.Y+r.H {
		bands = append(bands, render.Rect{X: r.X, Y: iy1, W: r.W, H: r.Y + r.H - iy1})
	}
	if ix0 > r.X {
		bands = append(bands, render.Rect{X: r.X, Y: iy0, W: ix0 - r.X, H: iy1 - iy0})
	}
	if ix1 < r.X+r.W {
		bands = append(bands, render.Rect{X: ix1, Y: iy0, W: r.X + r.W - ix1, H: iy1 - iy0})
	}
	return bands
}
