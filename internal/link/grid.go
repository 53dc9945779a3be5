package link

import (
	"math"
	"sort"

	"github.com/san-kum/driftfield/internal/field"
)

type cell struct{ x, y int }

// GridLinker finds every pair closer than Threshold. Cells are Threshold wide,
// so only the 3x3 neighbourhood of a cell needs checking.
type GridLinker struct {
	Threshold float64
	cells     map[cell][]int
	edges     []Edge
}

func NewGridLinker(threshold float64) *GridLinker {
	return &GridLinker{Threshold: threshold, cells: make(map[cell][]int)}
}

func (l *GridLinker) Link(st *field.Store) []Edge {
	l.edges = l.edges[:0]
	if l.Threshold <= 0 {
		return l.edges
	}
	for k, v := range l.cells {
		l.cells[k] = v[:0]
	}

	ps := st.Particles()
	for i := range ps {
		c := l.cellOf(ps[i].Pos)
		l.cells[c] = append(l.cells[c], i)
	}

	for i := range ps {
		c := l.cellOf(ps[i].Pos)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range l.cells[cell{c.x + dx, c.y + dy}] {
					if j <= i {
						continue
					}
					d := ps[i].Pos.Dist(ps[j].Pos)
					if d < l.Threshold {
						l.edges = append(l.edges, Edge{A: i, B: j, Distance: d, Strength: strength(d, l.Threshold)})
					}
				}
			}
		}
	}

	sort.Slice(l.edges, func(a, b int) bool {
		if l.edges[a].A != l.edges[b].A {
			return l.edges[a].A < l.edges[b].A
		}
		return l.edges[a].B < l.edges[b].B
	})
	return l.edges
}

func (l *GridLinker) cellOf(p field.Vec2) cell {
	return cell{int(math.Floor(p.X / l.Threshold)), int(math.Floor(p.Y / l.Threshold))}
}
