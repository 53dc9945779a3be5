package metrics

import (
	"github.com/san-kum/driftfield/internal/engine"
)

// Metric accumulates one number from successive engine snapshots.
type Metric interface {
	Name() string
	Observe(st engine.Stats)
	Value() float64
	Reset()
}

// Observe feeds st to every metric.
func Observe(ms []Metric, st engine.Stats) {
	for _, m := range ms {
		m.Observe(st)
	}
}

// Values maps each metric's name to its current value.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Series is a fixed-size window of the most recent samples.
type Series struct {
	buf  []float64
	head int
	n    int
}

func NewSeries(size int) *Series {
	if size < 1 {
		size = 1
	}
	return &Series{buf: make([]float64, size)}
}

func (s *Series) Add(v float64) {
	s.buf[s.head] = v
	s.head = (s.head + 1) % len(s.buf)
	if s.n < len(s.buf) {
		s.n++
	}
}

func (s *Series) Len() int { return s.n }

// Values returns the samples oldest first.
func (s *Series) Values() []float64 {
	out := make([]float64, s.n)
	start := (s.head - s.n + len(s.buf)) % len(s.buf)
	for i := range out {
		out[i] = s.buf[(start+i)%len(s.buf)]
	}
	return out
}

func (s *Series) Reset() {
	s.head, s.n = 0, 0
}
