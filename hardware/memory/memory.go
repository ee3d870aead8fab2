// Package memory models the DMA-capable heap of the target board. Allocations
// are tracked so that tests and the debugger can assert on the number of
// allocations and frees made by the video hardware.
package memory

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the Heap
var (
	ErrNoMem   = errors.New("out of dma capable memory")
	ErrBadFree = errors.New("free of unallocated block")
)

// Caps describes the capabilities requested of an allocation
type Caps int

// List of valid Caps bits
const (
	CapDMA Caps = 1 << iota
	Cap8Bit
	Cap32Bit
	CapInternal
)

func (c Caps) String() string {
	var s []string
	if c&CapDMA == CapDMA {
		s = append(s, "DMA")
	}
	if c&Cap8Bit == Cap8Bit {
		s = append(s, "8BIT")
	}
	if c&Cap32Bit == Cap32Bit {
		s = append(s, "32BIT")
	}
	if c&CapInternal == CapInternal {
		s = append(s, "INTERNAL")
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, "|")
}

// Block is a single allocation made from the Heap
type Block struct {
	id    int
	label string
	caps  Caps
	Data  []uint8
}

// Label returns the name given to the block when it was allocated
func (b *Block) Label() string {
	return b.label
}

// Caps returns the capabilities requested for the block
func (b *Block) Caps() Caps {
	return b.caps
}

// Len is the size of the block in bytes
func (b *Block) Len() int {
	return len(b.Data)
}

// String returns a hex dump of the block in rows of sixteen bytes
func (b *Block) String() string {
	var s strings.Builder
	for i := 0; i < len(b.Data); i += 16 {
		j := min(i+16, len(b.Data))
		s.WriteString(fmt.Sprintf("%04x : % 02x\n", i, b.Data[i:j]))
	}
	return strings.TrimSuffix(s.String(), "\n")
}

// Stats summarises the allocation history of the Heap
type Stats struct {
	Size   int
	Used   int
	Live   int
	Allocs int
	Frees  int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d/%d bytes used, %d live blocks (%d allocs, %d frees)",
		s.Used, s.Size, s.Live, s.Allocs, s.Frees)
}

// Heap is a fixed size region of DMA capable memory
type Heap struct {
	size   int
	used   int
	nextID int
	live   map[int]*Block

	allocs int
	frees  int

	// number of further allocations that will succeed before the heap
	// reports exhaustion. a negative value means there is no limit
	failAfter int
}

// NewHeap is the preferred method of initialisation for the Heap type
func NewHeap(size int) *Heap {
	return &Heap{
		size:      size,
		live:      make(map[int]*Block),
		failAfter: -1,
	}
}

// Malloc allocates a zeroed block of the requested size
func (h *Heap) Malloc(label string, size int, caps Caps) (*Block, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %s: invalid size %d", ErrNoMem, label, size)
	}
	if h.failAfter == 0 {
		return nil, fmt.Errorf("%w: %s: allocation refused", ErrNoMem, label)
	}
	if h.used+size > h.size {
		return nil, fmt.Errorf("%w: %s: %d bytes requested, %d available", ErrNoMem, label, size, h.size-h.used)
	}
	if h.failAfter > 0 {
		h.failAfter--
	}

	h.nextID++
	b := &Block{
		id:    h.nextID,
		label: label,
		caps:  caps,
		Data:  make([]uint8, size),
	}
	h.live[b.id] = b
	h.used += size
	h.allocs++
	return b, nil
}

// Free returns the block to the heap. Freeing a block that is not currently
// allocated from this heap is an error
func (h *Heap) Free(b *Block) error {
	if b == nil {
		return fmt.Errorf("%w: nil block", ErrBadFree)
	}
	if l, ok := h.live[b.id]; !ok || l != b {
		return fmt.Errorf("%w: %s", ErrBadFree, b.label)
	}
	delete(h.live, b.id)
	h.used -= len(b.Data)
	h.frees++
	return nil
}

// FailAfter arranges for the heap to report exhaustion after n more
// successful allocations. A negative value removes the limit
func (h *Heap) FailAfter(n int) {
	h.failAfter = n
}

// Stats returns the current allocation statistics
func (h *Heap) Stats() Stats {
	return Stats{
		Size:   h.size,
		Used:   h.used,
		Live:   len(h.live),
		Allocs: h.allocs,
		Frees:  h.frees,
	}
}

// Blocks returns the labels of all live blocks
func (h *Heap) Blocks() []string {
	var l []string
	for id := 1; id <= h.nextID; id++ {
		if b, ok := h.live[id]; ok {
			l = append(l, fmt.Sprintf("%s (%d bytes, %s)", b.label, len(b.Data), b.caps))
		}
	}
	return l
}
