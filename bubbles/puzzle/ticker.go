package puzzle

// moveRing keeps the last few move descriptions for the sidebar. Single
// writer and reader, fixed window, oldest entries overwritten in place.
type moveRing struct {
	data  []string
	write int
	count int
}

func newMoveRing(size int) *moveRing {
	return &moveRing{data: make([]string, size)}
}

func (r *moveRing) Push(s string) {
	r.data[r.write] = s
	r.write = (r.write + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// Recent returns up to n entries, newest first.
func (r *moveRing) Recent(n int) []string {
	if n > r.count {
		n = r.count
	}
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, r.data[(r.write-i+len(r.data))%len(r.data)])
	}
	return out
}

func (r *moveRing) Clear() {
	r.write = 0
	r.count = 0
}
