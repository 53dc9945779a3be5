package physics

import (
	"github.com/san-kum/driftfield/internal/field"
)

const (
	DefaultAttractRadius   = 150.0
	DefaultAttractStrength = 0.01
	DefaultDamping         = 0.99
)

type Params struct {
	AttractRadius   float64
	AttractStrength float64
	Damping         float64
}

func DefaultParams() Params {
	return Params{
		AttractRadius:   DefaultAttractRadius,
		AttractStrength: DefaultAttractStrength,
		Damping:         DefaultDamping,
	}
}

type Stepper struct {
	Params
}

func NewStepper(p Params) *Stepper {
	return &Stepper{Params: p}
}

// Step advances every particle in st by one tick on a w x h surface, pulled
// toward pointer.
func (s *Stepper) Step(st *field.Store, pointer field.Vec2, w, h int) {
	ps := st.Particles()
	fw, fh := float64(w), float64(h)
	for i := range ps {
		s.advance(&ps[i], pointer, fw, fh)
	}
}

func (s *Stepper) advance(p *field.Particle, pointer field.Vec2, w, h float64) {
	p.Vel = p.Vel.Add(s.Impulse(p.Pos, pointer))

	if p.Trail != nil {
		p.Trail.Push(field.TrailPoint{X: p.Pos.X, Y: p.Pos.Y, Opacity: p.Opacity})
	}

	p.Pos = p.Pos.Add(p.Vel)
	p.Angle += p.Spin

	Wrap(p, w, h)

	p.Vel = p.Vel.Scale(s.Damping)
}

// Impulse is the velocity change pointer applies to a particle at pos. It is
// zero at or beyond the attraction radius and when the two coincide.
func (s *Stepper) Impulse(pos, pointer field.Vec2) field.Vec2 {
	delta := pointer.Sub(pos)
	d := delta.Len()
	if d == 0 || d >= s.AttractRadius {
		return field.Vec2{}
	}
	force := (s.AttractRadius - d) / s.AttractRadius
	return delta.Scale(force * s.AttractStrength / d)
}
