package overlay

import "image"

// Trail is a fixed-capacity ring of recent ball positions. Pushing onto a full
// trail overwrites the oldest point.
type Trail struct {
	points []image.Point
	next   int
	size   int
}

func NewTrail(capacity int) *Trail {
	if capacity < 1 {
		capacity = 1
	}
	return &Trail{points: make([]image.Point, capacity)}
}

func (t *Trail) Push(p image.Point) {
	t.points[t.next] = p
	t.next = (t.next + 1) % len(t.points)
	if t.size < len(t.points) {
		t.size++
	}
}

func (t *Trail) Len() int { return t.size }

func (t *Trail) Cap() int { return len(t.points) }

// Recent returns the stored points, most recent first.
func (t *Trail) Recent() []image.Point {
	out := make([]image.Point, t.size)
	for i := 0; i < t.size; i++ {
		idx := (t.next - 1 - i + len(t.points)) % len(t.points)
		out[i] = t.points[idx]
	}
	return out
}

// FadeIntensity is the grey level of the i-th most recent trail point.
func FadeIntensity(i, step int) uint8 {
	v := 255 - i*step
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
