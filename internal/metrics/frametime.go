package metrics

import (
	"math"
	"sort"
	"strconv"

	"github.com/san-kum/driftfield/internal/engine"
)

// FrameTime tracks the cost of recent frames in milliseconds.
type FrameTime struct {
	name     string
	pct      float64
	samples  *Series
	lastSeen uint64
}

// NewFrameTime reports the mean frame cost over the last window frames, or
// the given percentile when pct is in (0, 100].
func NewFrameTime(window int, pct float64) *FrameTime {
	name := "frame_ms"
	if pct > 0 {
		name = "frame_p" + strconv.FormatFloat(pct, 'f', -1, 64) + "_ms"
	}
	return &FrameTime{name: name, pct: pct, samples: NewSeries(window)}
}

func (f *FrameTime) Name() string { return f.name }

// Observe records the last frame once per rendered frame.
func (f *FrameTime) Observe(st engine.Stats) {
	if st.Frames == 0 || st.Frames == f.lastSeen {
		return
	}
	f.lastSeen = st.Frames
	f.samples.Add(float64(st.LastFrame.Microseconds()) / 1000)
}

func (f *FrameTime) Value() float64 {
	vs := f.samples.Values()
	if len(vs) == 0 {
		return 0
	}
	if f.pct > 0 {
		return Percentile(vs, f.pct)
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func (f *FrameTime) Samples() []float64 { return f.samples.Values() }

func (f *FrameTime) Reset() {
	f.samples.Reset()
	f.lastSeen = 0
}

// Percentile returns the nearest-rank p-th percentile of vs.
func Percentile(vs []float64, p float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	rank = max(1, min(rank, len(sorted)))
	return sorted[rank-1]
}
