package field

// Store holds the live particle set.
type Store struct {
	particles  []Particle
	generation uint64
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Len() int { return len(s.particles) }

// At returns a pointer into the store; it is invalidated by Replace.
func (s *Store) At(i int) *Particle { return &s.particles[i] }

// Particles exposes the backing slice for in-place iteration.
func (s *Store) Particles() []Particle { return s.particles }

// Replace swaps in a new population. Existing particles are discarded, not
// resized or migrated.
func (s *Store) Replace(ps []Particle) {
	s.particles = ps
	s.generation++
}

func (s *Store) Reset() { s.Replace(nil) }

// Generation counts repopulations since the store was created.
func (s *Store) Generation() uint64 { return s.generation }
