package history

// ring is a fixed capacity FIFO of prices. Appending to a full ring
// overwrites the oldest entry.
type ring struct {
	data  []float64
	index int // next write position
	size  int
}

func newRing(capacity int) *ring {
	return &ring{data: make([]float64, capacity)}
}

func (r *ring) push(price float64) {
	r.data[r.index] = price
	r.index = (r.index + 1) % len(r.data)
	if r.size < len(r.data) {
		r.size++
	}
}

// values returns a copy of the contents, oldest first.
func (r *ring) values() []float64 {
	out := make([]float64, r.size)
	start := 0
	if r.size == len(r.data) {
		start = r.index
	}
	for i := 0; i < r.size; i++ {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

func (r *ring) full() bool {
	return r.size == len(r.data)
}
