package link

import "github.com/san-kum/driftfield/internal/field"

type WindowLinker struct {
	Window    int
	Threshold float64
	edges     []Edge
}

func NewWindowLinker(window int, threshold float64) *WindowLinker {
	return &WindowLinker{Window: window, Threshold: threshold}
}

func (l *WindowLinker) Link(st *field.Store) []Edge {
	l.edges = l.edges[:0]
	ps := st.Particles()
	for i := range ps {
		end := min(i+l.Window, len(ps)-1)
		for j := i + 1; j <= end; j++ {
			d := ps[i].Pos.Dist(ps[j].Pos)
			if d < l.Threshold {
				l.edges = append(l.edges, Edge{A: i, B: j, Distance: d, Strength: strength(d, l.Threshold)})
			}
		}
	}
	return l.edges
}
