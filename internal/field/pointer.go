package field

// Pointer tracks the last pointer position reported by the host. Coordinates
// are stored as given; positions outside the surface simply attract nothing.
type Pointer struct {
	pos Vec2
}

func (p *Pointer) Move(x, y float64) {
	p.pos = Vec2{x, y}
}

// Position returns the last observed position, or the origin before any
// pointer event.
func (p *Pointer) Position() Vec2 { return p.pos }

func (p *Pointer) Reset() { *p = Pointer{} }
