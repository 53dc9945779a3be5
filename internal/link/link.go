package link

import (
	"fmt"

	"github.com/san-kum/driftfield/internal/field"
)

const (
	DefaultWindow    = 3
	DefaultThreshold = 80.0
)

// Edge joins particles A and B (indices in store order, A < B). Strength is
// 1 when the two coincide and falls linearly to 0 at the threshold.
type Edge struct {
	A, B     int
	Distance float64
	Strength float64
}

// Linker produces the edges for the current frame. The returned slice is
// only valid until the next call.
type Linker interface {
	Link(st *field.Store) []Edge
}

// New returns the linker for mode ("window" or "grid").
func New(mode string, window int, threshold float64) (Linker, error) {
	switch mode {
	case "", "window":
		return NewWindowLinker(window, threshold), nil
	case "grid":
		return NewGridLinker(threshold), nil
	}
	return nil, fmt.Errorf("link: unknown mode %q", mode)
}

func strength(d, threshold float64) float64 {
	return (threshold - d) / threshold
}
