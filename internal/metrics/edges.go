package metrics

import "github.com/san-kum/driftfield/internal/engine"

// EdgeDensity is the mean number of edges per particle over recent frames.
type EdgeDensity struct {
	samples  *Series
	lastSeen uint64
}

func NewEdgeDensity(window int) *EdgeDensity {
	return &EdgeDensity{samples: NewSeries(window)}
}

func (e *EdgeDensity) Name() string { return "edges_per_particle" }

func (e *EdgeDensity) Observe(st engine.Stats) {
	if st.Frames == 0 || st.Frames == e.lastSeen {
		return
	}
	e.lastSeen = st.Frames
	if st.Particles == 0 {
		e.samples.Add(0)
		return
	}
	e.samples.Add(float64(st.Edges) / float64(st.Particles))
}

func (e *EdgeDensity) Value() float64 {
	vs := e.samples.Values()
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func (e *EdgeDensity) Reset() {
	e.samples.Reset()
	e.lastSeen = 0
}
