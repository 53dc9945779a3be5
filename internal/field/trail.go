package field

type TrailPoint struct {
	X, Y    float64
	Opacity float64
}

// Trail is a ring buffer of the most recent positions of a particle.
// Index 0 is always the oldest retained point.
type Trail struct {
	buf  []TrailPoint
	head int
	n    int
}

func NewTrail(capacity int) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	return &Trail{buf: make([]TrailPoint, capacity)}
}

// Push appends p, evicting the oldest point once the buffer is full.
func (t *Trail) Push(p TrailPoint) {
	c := len(t.buf)
	if c == 0 {
		return
	}
	t.buf[(t.head+t.n)%c] = p
	if t.n < c {
		t.n++
		return
	}
	t.head = (t.head + 1) % c
}

func (t *Trail) Len() int { return t.n }
func (t *Trail) Cap() int { return len(t.buf) }

func (t *Trail) At(i int) TrailPoint {
	return t.buf[(t.head+i)%len(t.buf)]
}

// Points appends the retained points, oldest first, to dst.
func (t *Trail) Points(dst []TrailPoint) []TrailPoint {
	for i := 0; i < t.n; i++ {
		dst = append(dst, t.At(i))
	}
	return dst
}

func (t *Trail) Reset() {
	t.head, t.n = 0, 0
}
