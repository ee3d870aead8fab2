// Package dma models the descriptor chain and the streaming engine of the
// video output peripheral. Descriptors are held in an arena and are addressed
// by their index. The chain is cyclic and represents exactly one frame.
package dma

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jetsetilly/directvga/hardware/memory"
	"github.com/jetsetilly/directvga/hardware/pixel"
	"github.com/jetsetilly/directvga/hardware/spec"
)

// ErrViewport is returned by Build() when the viewport does not fit the
// visible area of the timings
var ErrViewport = errors.New("viewport does not fit timings")

// DescriptorSize is the number of bytes of DMA capable memory used by each
// descriptor in the chain
const DescriptorSize = 12

// Region of the frame that a descriptor belongs to
type Region int

// List of valid Region values
const (
	Visible Region = iota
	FrontPorch
	Sync
	BackPorch
)

func (r Region) String() string {
	switch r {
	case Visible:
		return "visible"
	case FrontPorch:
		return "front porch"
	case Sync:
		return "sync"
	case BackPorch:
		return "back porch"
	}
	return "unknown"
}

// Descriptor is one line of the frame. The bytes of a line are transmitted in
// the order Lead, Buf, Trail
type Descriptor struct {
	// horizontal blanking and left padding
	Lead []uint8

	// viewport data. for rows that are not in the viewport this is a blank line
	Buf []uint8

	// right padding
	Trail []uint8

	// raise an end-of-frame interrupt after the descriptor has been consumed
	EOF bool

	// index of the next descriptor in the chain
	Next int

	Region Region

	// row of the viewport that the descriptor is bound to. the value is -1 if
	// the descriptor is not part of the viewport
	Row  int
	Scan int

	// pool slot bound to the descriptor or -1 if Buf is not a pool line
	Slot int
}

// Len is the number of bytes transmitted for the descriptor
func (d *Descriptor) Len() int {
	return len(d.Lead) + len(d.Buf) + len(d.Trail)
}

// Viewport is the area of the visible display that is fed by the line pool.
// The viewport is centred in the visible area
type Viewport struct {
	Width  int
	Height int
}

// SetupFunc is called by Build() for every descriptor in the chain.
// isStartOfVertFrontPorch is true for the first scan of the first row of the
// vertical front porch. visibleRow is the viewport row if isVisible is true
type SetupFunc func(desc *Descriptor, isStartOfVertFrontPorch bool, scan int, isVisible bool, visibleRow int)

// Chain is a complete frame of descriptors
type Chain struct {
	heap *memory.Heap

	// accounting of the descriptor storage and the blanking lines. both are
	// taken from DMA capable memory
	storage  *memory.Block
	blanking *memory.Block

	Descs []Descriptor

	Timings  spec.Timings
	Viewport Viewport

	// position of the viewport in the visible area
	X, Y int

	// blanking bytes. index 0 is for lines where vertical sync is inactive and
	// index 1 is for lines where it is active
	lead  [2][]uint8
	blank [2][]uint8
	trail [2][]uint8
}

// Build creates a new descriptor chain for the timings and viewport. The setup
// function is called for each descriptor after the default blank values have
// been assigned
func Build(heap *memory.Heap, timings spec.Timings, viewport Viewport, setup SetupFunc) (*Chain, error) {
	if err := timings.Validate(); err != nil {
		return nil, err
	}
	if viewport.Width <= 0 || viewport.Height <= 0 || viewport.Width%4 != 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrViewport, viewport.Width, viewport.Height)
	}
	if viewport.Width > timings.HVisibleArea || viewport.Height > timings.VVisibleArea {
		return nil, fmt.Errorf("%w: %dx%d is larger than %dx%d", ErrViewport,
			viewport.Width, viewport.Height, timings.HVisibleArea, timings.VVisibleArea)
	}

	c := &Chain{
		heap:     heap,
		Timings:  timings,
		Viewport: viewport,
		X:        ((timings.HVisibleArea - viewport.Width) / 2) &^ 3,
		Y:        (timings.VVisibleArea - viewport.Height) / 2,
	}

	var err error
	c.storage, err = heap.Malloc("dma descriptors", timings.FrameSlots()*DescriptorSize, memory.CapDMA)
	if err != nil {
		return nil, fmt.Errorf("dma: %w", err)
	}
	c.blanking, err = heap.Malloc("dma blanking", timings.HLineSize()*2, memory.CapDMA)
	if err != nil {
		_ = heap.Free(c.storage)
		return nil, fmt.Errorf("dma: %w", err)
	}

	c.fillBlanking()
	c.layout(setup)

	return c, nil
}

// fillBlanking carves the lead, blank and trail lines out of the blanking block
// and sets the sync bits for both vertical sync states
func (c *Chain) fillBlanking() {
	t := c.Timings
	leadLen := t.HBlank() + c.X
	trailLen := t.HVisibleArea - c.Viewport.Width - c.X

	for v := range 2 {
		line := c.blanking.Data[v*t.HLineSize() : (v+1)*t.HLineSize()]
		vsync := v == 1

		idle := pixel.SyncBits(false, vsync, t.HSyncLogic, t.VSyncLogic)
		active := pixel.SyncBits(true, vsync, t.HSyncLogic, t.VSyncLogic)
		for x := range line {
			pixel.SetInRow(line, x, idle)
		}
		for x := t.HFrontPorch; x < t.HFrontPorch+t.HSyncPulse; x++ {
			pixel.SetInRow(line, x, active)
		}

		c.lead[v] = line[:leadLen:leadLen]
		c.blank[v] = line[leadLen : leadLen+c.Viewport.Width : leadLen+c.Viewport.Width]
		c.trail[v] = line[leadLen+c.Viewport.Width:][:trailLen:trailLen]
	}
}

func (c *Chain) layout(setup SetupFunc) {
	t := c.Timings
	c.Descs = make([]Descriptor, t.FrameSlots())

	idx := 0
	add := func(region Region, row int, vsync bool, frontPorchStart bool) {
		v := 0
		if vsync {
			v = 1
		}
		for scan := range t.ScanCount {
			d := &c.Descs[idx]
			d.Lead = c.lead[v]
			d.Buf = c.blank[v]
			d.Trail = c.trail[v]
			d.Region = region
			d.Row = -1
			d.Scan = scan
			d.Slot = -1
			d.Next = (idx + 1) % len(c.Descs)

			visible := row >= 0
			if visible {
				d.Row = row
			}
			if setup != nil {
				setup(d, frontPorchStart && scan == 0, scan, visible, row)
			}
			idx++
		}
	}

	for y := range t.VVisibleArea {
		row := y - c.Y
		if row < 0 || row >= c.Viewport.Height {
			row = -1
		}
		add(Visible, row, false, false)
	}
	for i := range t.VFrontPorch {
		add(FrontPorch, -1, false, i == 0)
	}
	for range t.VSyncPulse {
		add(Sync, -1, true, false)
	}
	for range t.VBackPorch {
		add(BackPorch, -1, false, false)
	}
}

// Blank returns the blank viewport line for the vertical sync state
func (c *Chain) Blank(vsync bool) []uint8 {
	if vsync {
		return c.blank[1]
	}
	return c.blank[0]
}

// RowDescriptors returns the indices of the descriptors bound to the viewport
// row. There is one descriptor for each scan of the row
func (c *Chain) RowDescriptors(row int) []int {
	first := (c.Y + row) * c.Timings.ScanCount
	l := make([]int, c.Timings.ScanCount)
	for i := range l {
		l[i] = first + i
	}
	return l
}

// EOFCount is the number of descriptors that raise an interrupt
func (c *Chain) EOFCount() int {
	var n int
	for i := range c.Descs {
		if c.Descs[i].EOF {
			n++
		}
	}
	return n
}

// Free releases the memory used by the chain. It is safe to call Free() more
// than once
func (c *Chain) Free() error {
	if c.storage == nil {
		return nil
	}
	err := errors.Join(c.heap.Free(c.storage), c.heap.Free(c.blanking))
	c.storage = nil
	c.blanking = nil
	c.Descs = nil
	if err != nil {
		return fmt.Errorf("dma: %w", err)
	}
	return nil
}

func (c *Chain) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%d descriptors, viewport %dx%d at %d,%d, %d interrupting\n",
		len(c.Descs), c.Viewport.Width, c.Viewport.Height, c.X, c.Y, c.EOFCount()))
	for i := range c.Descs {
		d := &c.Descs[i]
		if d.Row < 0 && !d.EOF {
			continue
		}
		s.WriteString(fmt.Sprintf("%04d: row=%-4d scan=%d slot=%-2d", i, d.Row, d.Scan, d.Slot))
		if d.EOF {
			s.WriteString(" eof")
		}
		s.WriteString("\n")
	}
	return strings.TrimSuffix(s.String(), "\n")
}
