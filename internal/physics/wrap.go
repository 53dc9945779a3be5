package physics

import "github.com/san-kum/driftfield/internal/field"

// Wrap moves a particle that left the w x h surface by more than its own size
// to the opposite edge. Each axis is handled independently.
func Wrap(p *field.Particle, w, h float64) {
	p.Pos.X = wrapAxis(p.Pos.X, p.Size, w)
	p.Pos.Y = wrapAxis(p.Pos.Y, p.Size, h)
}

func wrapAxis(v, size, dim float64) float64 {
	switch {
	case v < -size:
		return dim + size
	case v > dim+size:
		return -size
	}
	return v
}
