package field

import (
	"image/color"
	"math"
)

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64  { return v.Sub(o).Len() }
func (v Vec2) IsFinite() bool       { return isFinite(v.X) && isFinite(v.Y) }
func isFinite(f float64) bool       { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Particle is a simulated point mass. Size, Opacity and Color are fixed at
// spawn; physics only writes Pos, Vel, Angle and Trail.
type Particle struct {
	Pos     Vec2
	Vel     Vec2
	Size    float64
	Opacity float64
	Color   string
	Angle   float64
	Spin    float64
	Trail   *Trail

	rgba color.NRGBA
}

// RGBA returns the resolved palette color of the particle, fully opaque.
func (p *Particle) RGBA() color.NRGBA { return p.rgba }
