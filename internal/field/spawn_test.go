package field

import (
	"math"
	"testing"
)

func TestSpawnPolicyCount(t *testing.T) {
	sp := DefaultSpawnPolicy()

	tests := []struct {
		name     string
		w, h     int
		expected int
	}{
		{"800x600", 800, 600, 24},
		{"400x300", 400, 300, 6},
		{"below one particle", 100, 100, 0},
		{"capped", 4000, 4000, 50},
		{"zero width", 0, 600, 0},
		{"zero height", 800, 0, 0},
		{"negative", -800, 600, 0},
		{"exact multiple", 200, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sp.Count(tt.w, tt.h); got != tt.expected {
				t.Errorf("expected %d particles, got %d", tt.expected, got)
			}
		})
	}
}

func TestSpawnPolicyCountFormula(t *testing.T) {
	sp := DefaultSpawnPolicy()
	for w := 1; w <= 2000; w += 137 {
		for h := 1; h <= 1500; h += 91 {
			want := int(math.Floor(float64(w*h) / sp.AreaPerParticle))
			if want > sp.MaxParticles {
				want = sp.MaxParticles
			}
			if got := sp.Count(w, h); got != want {
				t.Fatalf("%dx%d: expected %d, got %d", w, h, want, got)
			}
		}
	}
}

func TestPopulateWithinBounds(t *testing.T) {
	sp := DefaultSpawnPolicy()
	st := NewStore()
	rng := NewRand(7)

	n := sp.Populate(st, rng, 800, 600)
	if n != 24 || st.Len() != 24 {
		t.Fatalf("expected 24 particles, got n=%d len=%d", n, st.Len())
	}

	for i, p := range st.Particles() {
		if p.Pos.X < 0 || p.Pos.X >= 800 || p.Pos.Y < 0 || p.Pos.Y >= 600 {
			t.Errorf("particle %d spawned outside surface: %+v", i, p.Pos)
		}
		if p.Size < sp.Size.Min || p.Size >= sp.Size.Max {
			t.Errorf("particle %d size %f outside %+v", i, p.Size, sp.Size)
		}
		if p.Opacity < sp.Opacity.Min || p.Opacity >= sp.Opacity.Max {
			t.Errorf("particle %d opacity %f outside %+v", i, p.Opacity, sp.Opacity)
		}
		if math.Abs(p.Vel.X) > sp.Speed || math.Abs(p.Vel.Y) > sp.Speed {
			t.Errorf("particle %d velocity too large: %+v", i, p.Vel)
		}
		if !inPalette(sp.Palette, p.Color) {
			t.Errorf("particle %d color %q not in palette", i, p.Color)
		}
		if p.RGBA().A != 255 {
			t.Errorf("particle %d color not resolved", i)
		}
		if p.Trail == nil || p.Trail.Cap() != sp.TrailLength {
			t.Errorf("particle %d trail not allocated with capacity %d", i, sp.TrailLength)
		}
	}
}

func TestPopulateReplacesStore(t *testing.T) {
	sp := DefaultSpawnPolicy()
	st := NewStore()
	rng := NewRand(1)

	sp.Populate(st, rng, 800, 600)
	first := st.At(0)
	gen := st.Generation()

	sp.Populate(st, rng, 400, 300)
	if st.Len() != 6 {
		t.Fatalf("expected 6 particles after repopulation, got %d", st.Len())
	}
	if st.Generation() != gen+1 {
		t.Errorf("expected generation %d, got %d", gen+1, st.Generation())
	}
	if st.At(0) == first {
		t.Error("expected fresh particles, got the previous backing array")
	}
}

func TestPopulateZeroArea(t *testing.T) {
	sp := DefaultSpawnPolicy()
	st := NewStore()
	rng := NewRand(1)

	sp.Populate(st, rng, 800, 600)
	sp.Populate(st, rng, 0, 0)
	if st.Len() != 0 {
		t.Errorf("expected empty store, got %d particles", st.Len())
	}
}

func TestSeededSpawnIsDeterministic(t *testing.T) {
	sp := DefaultSpawnPolicy()
	a, b := NewStore(), NewStore()
	sp.Populate(a, NewRand(42), 800, 600)
	sp.Populate(b, NewRand(42), 800, 600)

	for i := range a.Particles() {
		pa, pb := a.At(i), b.At(i)
		if pa.Pos != pb.Pos || pa.Vel != pb.Vel || pa.Color != pb.Color || pa.Size != pb.Size {
			t.Fatalf("particle %d differs between identical seeds", i)
		}
	}
}

func TestNewPaletteRejectsBadTokens(t *testing.T) {
	if _, err := NewPalette(nil); err == nil {
		t.Error("expected error for empty palette")
	}
	if _, err := NewPalette([]string{"#00FFFF", "cyan"}); err == nil {
		t.Error("expected error for non-hex token")
	}
	p, err := NewPalette([]string{"#ff0080"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := p.Color(0)
	if c.R != 0xff || c.G != 0x00 || c.B != 0x80 {
		t.Errorf("expected #ff0080, got %+v", c)
	}
}

func inPalette(p *Palette, token string) bool {
	for i := 0; i < p.Len(); i++ {
		if p.Token(i) == token {
			return true
		}
	}
	return false
}
