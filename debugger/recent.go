package debugger

import "fmt"

// the number of interrupt handler measurements to keep
const maxRecentLen = 100

type measurement struct {
	frame   int
	cycles  uint64
	overrun bool
}

func (m measurement) String() string {
	s := fmt.Sprintf("frame %d: %d cycles", m.frame, m.cycles)
	if m.overrun {
		s = fmt.Sprintf("%s (overrun)", s)
	}
	return s
}

// recent is a fixed size record of interrupt handler measurements. the add()
// function is called from interrupt context so it must not allocate
type recent struct {
	entries [maxRecentLen]measurement
	next    int
	full    bool
}

func (r *recent) add(m measurement) {
	r.entries[r.next] = m
	r.next++
	if r.next >= len(r.entries) {
		r.next = 0
		r.full = true
	}
}

func (r *recent) len() int {
	if r.full {
		return len(r.entries)
	}
	return r.next
}

// last returns the n most recent measurements, oldest first
func (r *recent) last(n int) []measurement {
	n = min(max(n, 0), r.len())
	l := make([]measurement, 0, n)
	for i := n; i > 0; i-- {
		idx := r.next - i
		if idx < 0 {
			idx += len(r.entries)
		}
		l = append(l, r.entries[idx])
	}
	return l
}

func (r *recent) reset() {
	r.next = 0
	r.full = false
}
