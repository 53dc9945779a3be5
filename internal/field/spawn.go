package field

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	DefaultAreaPerParticle = 20000.0
	DefaultMaxParticles    = 50
	DefaultSpeed           = 1.0
	DefaultAngularSpeed    = 0.01
	DefaultTrailLength     = 3
)

// Range is a half-open interval sampled uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// SpawnPolicy decides how many particles a surface holds and how each one
// starts out.
type SpawnPolicy struct {
	AreaPerParticle float64
	MaxParticles    int
	Size            Range
	Opacity         Range
	Speed           float64
	AngularSpeed    float64
	TrailLength     int
	Palette         *Palette
}

func DefaultSpawnPolicy() SpawnPolicy {
	return SpawnPolicy{
		AreaPerParticle: DefaultAreaPerParticle,
		MaxParticles:    DefaultMaxParticles,
		Size:            Range{Min: 2, Max: 8},
		Opacity:         Range{Min: 0.2, Max: 1.0},
		Speed:           DefaultSpeed,
		AngularSpeed:    DefaultAngularSpeed,
		TrailLength:     DefaultTrailLength,
		Palette:         MustPalette(DefaultColors),
	}
}

// Count returns clamp(floor(w*h / AreaPerParticle), 0, MaxParticles).
func (sp SpawnPolicy) Count(w, h int) int {
	if w <= 0 || h <= 0 || sp.AreaPerParticle <= 0 || sp.MaxParticles <= 0 {
		return 0
	}
	n := math.Floor(float64(w) * float64(h) / sp.AreaPerParticle)
	if n > float64(sp.MaxParticles) {
		return sp.MaxParticles
	}
	return int(n)
}

// Spawn creates one particle placed uniformly over a w x h surface.
func (sp SpawnPolicy) Spawn(rng *rand.Rand, w, h int) Particle {
	pal := sp.Palette
	if pal == nil {
		pal = MustPalette(DefaultColors)
	}
	ci := rng.IntN(pal.Len())
	return Particle{
		Pos: Vec2{
			X: rng.Float64() * float64(w),
			Y: rng.Float64() * float64(h),
		},
		Vel: Vec2{
			X: (rng.Float64()*2 - 1) * sp.Speed,
			Y: (rng.Float64()*2 - 1) * sp.Speed,
		},
		Size:    sp.Size.Sample(rng),
		Opacity: sp.Opacity.Sample(rng),
		Color:   pal.Token(ci),
		Angle:   rng.Float64() * 2 * math.Pi,
		Spin:    (rng.Float64()*2 - 1) * sp.AngularSpeed,
		Trail:   NewTrail(sp.TrailLength),
		rgba:    pal.Color(ci),
	}
}

// Populate replaces the contents of s with Count(w, h) fresh particles and
// returns the new count.
func (sp SpawnPolicy) Populate(s *Store, rng *rand.Rand, w, h int) int {
	n := sp.Count(w, h)
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = sp.Spawn(rng, w, h)
	}
	s.Replace(ps)
	return n
}

// NewRand returns a PCG source for seed, or one seeded from the clock and the
// runtime's entropy when seed is zero.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64() ^ uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
