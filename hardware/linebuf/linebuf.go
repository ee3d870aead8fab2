// Package linebuf implements the pool of scanline buffers that the DMA chain
// streams from. All lines are carved from a single DMA capable block.
package linebuf

import (
	"errors"
	"fmt"

	"github.com/jetsetilly/directvga/hardware/memory"
)

// ErrPoolSize is returned when the requested pool geometry cannot be used
var ErrPoolSize = errors.New("invalid line pool")

// Pool is a fixed number of line buffers of identical width
type Pool struct {
	heap   *memory.Heap
	region *memory.Block
	lines  [][]uint8
	width  int
}

// NewPool is the preferred method of initialisation for the Pool type
func NewPool(heap *memory.Heap) *Pool {
	return &Pool{heap: heap}
}

// Allocate obtains count lines of width bytes each. The count must be a power
// of two and at least two
func (p *Pool) Allocate(count int, width int) error {
	if p.region != nil {
		return fmt.Errorf("%w: already allocated", ErrPoolSize)
	}
	if count < 2 || count&(count-1) != 0 {
		return fmt.Errorf("%w: count of %d is not a power of two greater than one", ErrPoolSize, count)
	}
	if width <= 0 {
		return fmt.Errorf("%w: width of %d", ErrPoolSize, width)
	}

	region, err := p.heap.Malloc("line pool", count*width, memory.CapDMA|memory.Cap32Bit)
	if err != nil {
		return fmt.Errorf("linebuf: %w", err)
	}

	p.region = region
	p.width = width
	p.lines = make([][]uint8, count)
	for i := range p.lines {
		p.lines[i] = region.Data[i*width : (i+1)*width : (i+1)*width]
	}

	return nil
}

// Free releases the lines back to the heap. It is safe to call Free on a pool
// that has not been allocated
func (p *Pool) Free() error {
	if p.region == nil {
		return nil
	}
	err := p.heap.Free(p.region)
	p.region = nil
	p.lines = nil
	p.width = 0
	if err != nil {
		return fmt.Errorf("linebuf: %w", err)
	}
	return nil
}

// Allocated returns true if the pool currently holds lines
func (p *Pool) Allocated() bool {
	return p.region != nil
}

// Count is the number of lines in the pool
func (p *Pool) Count() int {
	return len(p.lines)
}

// Width is the size of each line in bytes
func (p *Pool) Width() int {
	return p.width
}

// Default returns the line for the slot. The slot wraps around the size of the
// pool
func (p *Pool) Default(slot int) []uint8 {
	return p.lines[slot&(len(p.lines)-1)]
}

// Span returns n contiguous lines starting at slot as a single slice. The
// span must not extend beyond the end of the pool
func (p *Pool) Span(slot int, n int) []uint8 {
	return p.region.Data[slot*p.width : (slot+n)*p.width]
}
