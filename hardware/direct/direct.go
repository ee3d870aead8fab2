// Package direct implements a VGA controller without a frame buffer. Each
// scanline is generated on demand by a callback function, from inside the
// interrupt raised by the DMA engine.
//
// The controller keeps a pool of 2n line buffers, where n is the number of
// scanlines rendered by each call of the callback. The DMA chain binds viewport
// row r to pool slot r mod 2n and raises an interrupt after every nth row. The
// interrupt handler renders the n rows that follow the row just completed, so
// production always leads transmission by exactly n rows and the callback never
// writes to the slot being transmitted.
//
// Only one controller can be active at any one time.
package direct

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jetsetilly/directvga/hardware/dma"
	"github.com/jetsetilly/directvga/hardware/interrupt"
	"github.com/jetsetilly/directvga/hardware/linebuf"
	"github.com/jetsetilly/directvga/hardware/memory"
	"github.com/jetsetilly/directvga/hardware/spec"
	"github.com/jetsetilly/directvga/logger"
)

// Sentinel errors returned by the controller
var (
	ErrNoCallback       = errors.New("draw scanline callback has not been set")
	ErrNotConfigured    = errors.New("resolution has not been set")
	ErrInstanceActive   = errors.New("a direct controller is already active")
	ErrInvalidViewport  = errors.New("invalid viewport")
	ErrLinesPerCallback = errors.New("invalid number of scanlines per callback")
	ErrDestination      = errors.New("destination buffer too small")
)

// DrawScanlineCallback renders scanlines into dest. The dest slice covers
// ScanlinesPerCallBack() lines of the viewport width, starting with scanLine.
// The function is called in interrupt context and must not block
type DrawScanlineCallback func(arg any, dest []byte, scanLine int)

// Hardware is the set of peripherals used by the controller
type Hardware struct {
	Heap       *memory.Heap
	DMA        *dma.Engine
	Interrupts *interrupt.Controller

	// the core that the interrupt handler is pinned to
	Core int
}

// VideoSource is the interrupt source of the video output peripheral
const VideoSource = interrupt.SourceI2S1

// NewHardware creates a dual core set of peripherals with the DMA engine
// connected to the interrupt controller
func NewHardware(heapSize int, core int) Hardware {
	hw := Hardware{
		Heap:       memory.NewHeap(heapSize),
		DMA:        dma.NewEngine(),
		Interrupts: interrupt.NewController(2, 32),
		Core:       core,
	}
	hw.DMA.AttachInterrupt(func() {
		hw.Interrupts.Raise(VideoSource)
	})
	return hw
}

// the active controller
var active atomic.Pointer[Controller]

// Instance returns the active controller or nil
func Instance() *Controller {
	return active.Load()
}

// VSync returns the vertical sync flag of the active controller. Returns false
// if there is no active controller
func VSync() bool {
	if c := active.Load(); c != nil {
		return c.VSync()
	}
	return false
}

// Controller is the direct VGA controller
type Controller struct {
	hw      Hardware
	autoRun bool

	// number of lines in the pool. always a power of two and at least two
	linesCount int

	callback DrawScanlineCallback
	arg      any

	timings        spec.Timings
	viewport       dma.Viewport
	doubleBuffered bool

	pool  *linebuf.Pool
	chain *dma.Chain

	// descriptors for each viewport row
	rowDescs [][]int

	// index of the descriptor for the first scan of the first viewport row
	frameResetDesc int

	// buffer used by ReadScreen()
	scratch []byte

	isr *interrupt.Handle

	// production state. written only by the interrupt handler
	scanLine atomic.Int32
	vsync    atomic.Bool

	perf        perfCheck
	cycleBudget uint64
}

// Create a new controller and make it the active controller. If autoRun is
// true then output starts as soon as the resolution has been set
func Create(hw Hardware, autoRun bool) (*Controller, error) {
	c := &Controller{
		hw:             hw,
		autoRun:        autoRun,
		linesCount:     2,
		pool:           linebuf.NewPool(hw.Heap),
		frameResetDesc: -1,
	}
	if !active.CompareAndSwap(nil, c) {
		return nil, ErrInstanceActive
	}
	return c, nil
}

// SetDrawScanlineCallback registers the function used to render scanlines.
// It must be called before SetResolution(). The callback can be replaced once
// the controller is configured but it can not be removed
func (c *Controller) SetDrawScanlineCallback(callback DrawScanlineCallback, arg any) error {
	if callback == nil && c.Configured() {
		return fmt.Errorf("%w: callback can not be removed while configured", ErrNoCallback)
	}
	c.callback = callback
	c.arg = arg
	return nil
}

// SetScanlinesPerCallBack sets the number of scanlines rendered by each call
// to the callback. The line pool will be twice this size. Must be called
// before SetResolution()
func (c *Controller) SetScanlinesPerCallBack(n int) error {
	if c.Configured() {
		return fmt.Errorf("%w: resolution already set", ErrLinesPerCallback)
	}
	if n < 1 || n&(n-1) != 0 {
		return fmt.Errorf("%w: %d is not a power of two", ErrLinesPerCallback, n)
	}
	c.linesCount = n * 2
	return nil
}

// ScanlinesPerCallBack returns the number of scanlines rendered by each call to
// the callback
func (c *Controller) ScanlinesPerCallBack() int {
	return c.linesCount / 2
}

// SetResolution configures the controller for the timings and the viewport
// size. A width or height of -1 means the full visible area. The viewport
// width is aligned down to a multiple of four and the height must be a
// multiple of the pool size, which is twice ScanlinesPerCallBack().
//
// If the callback has not been set then ErrNoCallback is returned and nothing
// is changed. Any previous configuration is released before the new one is
// allocated
func (c *Controller) SetResolution(timings spec.Timings, width int, height int, doubleBuffered bool) error {
	if c.callback == nil {
		return ErrNoCallback
	}
	if err := timings.Validate(); err != nil {
		return err
	}

	if width == -1 {
		width = timings.HVisibleArea
	}
	if height == -1 {
		height = timings.VVisibleArea
	}
	width &^= 3

	if width <= 0 || height <= 0 || width > timings.HVisibleArea || height > timings.VVisibleArea {
		return fmt.Errorf("%w: %dx%d for %s", ErrInvalidViewport, width, height, timings.Label)
	}
	if height%c.linesCount != 0 {
		return fmt.Errorf("%w: height of %d is not a multiple of %d", ErrInvalidViewport, height, c.linesCount)
	}

	c.hw.DMA.Stop()
	if err := c.freeViewPort(); err != nil {
		return err
	}

	if err := c.allocateViewPort(timings, dma.Viewport{Width: width, Height: height}); err != nil {
		return err
	}

	c.doubleBuffered = doubleBuffered
	if doubleBuffered {
		logger.Log(logger.Allow, "direct", "double buffering has no effect")
	}
	logger.Logf(logger.Allow, "direct", "%s viewport %dx%d with %d line buffers", timings.Label, width, height, c.linesCount)

	if c.autoRun {
		return c.Run()
	}
	return nil
}

func (c *Controller) allocateViewPort(timings spec.Timings, viewport dma.Viewport) error {
	if err := c.pool.Allocate(c.linesCount, viewport.Width); err != nil {
		return fmt.Errorf("direct: %w", err)
	}

	c.timings = timings
	c.viewport = viewport

	chain, err := dma.Build(c.hw.Heap, timings, viewport, c.setupDescriptor)
	if err != nil {
		_ = c.pool.Free()
		c.timings = spec.Timings{}
		c.viewport = dma.Viewport{}
		return fmt.Errorf("direct: %w", err)
	}
	c.chain = chain

	c.rowDescs = make([][]int, viewport.Height)
	for row := range c.rowDescs {
		c.rowDescs[row] = chain.RowDescriptors(row)
	}
	c.frameResetDesc = c.rowDescs[0][0]

	c.scratch = make([]byte, viewport.Width*c.linesCount/2)
	c.cycleBudget = interruptBudget(timings, c.linesCount/2*timings.ScanCount)

	return nil
}

// setupDescriptor is called by the chain builder for every descriptor
func (c *Controller) setupDescriptor(desc *dma.Descriptor, _ bool, scan int, isVisible bool, visibleRow int) {
	if !isVisible {
		return
	}
	if scan > 0 && c.timings.MultiScanBlack {
		return
	}

	slot := visibleRow % c.linesCount
	desc.Buf = c.pool.Default(slot)
	desc.Slot = slot

	// interrupt every half pool
	if scan == 0 && visibleRow%(c.linesCount/2) == 0 {
		desc.EOF = true
	}
}

// freeViewPort releases the chain and then the line pool
func (c *Controller) freeViewPort() error {
	var err error
	if c.chain != nil {
		err = c.chain.Free()
		c.chain = nil
	}
	err = errors.Join(err, c.pool.Free())
	c.rowDescs = nil
	c.scratch = nil
	c.cycleBudget = 0
	c.frameResetDesc = -1
	c.timings = spec.Timings{}
	c.viewport = dma.Viewport{}
	if err != nil {
		return fmt.Errorf("direct: %w", err)
	}
	return nil
}

// Run starts output. The interrupt handler is installed the first time Run()
// is called and remains installed until End()
func (c *Controller) Run() error {
	if c.chain == nil {
		return ErrNotConfigured
	}

	// the stream must be started before the interrupt is allocated
	if err := c.hw.DMA.Start(c.chain); err != nil {
		return fmt.Errorf("direct: %w", err)
	}

	c.scanLine.Store(0)

	if c.isr == nil {
		c.hw.Interrupts.SetBusiestCore(c.hw.Core)
		h, err := c.hw.Interrupts.AllocPinnedToCore(VideoSource, interrupt.FlagLevel1|interrupt.FlagIRAM, isrHandler, c, c.hw.Core)
		if err != nil {
			c.hw.DMA.Stop()
			return fmt.Errorf("direct: %w", err)
		}
		c.isr = h
		c.hw.DMA.ClearInt(dma.IntAll)
		c.hw.DMA.EnableInt(dma.IntOutEOF)
		logger.Logf(logger.Allow, "direct", "interrupt handler installed on core %d", c.hw.Core)
	}

	return nil
}

// End stops output and releases all resources. The interrupt is freed before
// the stream is halted and the buffers are released
func (c *Controller) End() error {
	var err error
	if c.isr != nil {
		err = c.hw.Interrupts.Free(c.isr)
		c.isr = nil
		c.hw.DMA.DisableInt(dma.IntOutEOF)
	}
	c.hw.DMA.Stop()
	c.vsync.Store(false)
	c.scanLine.Store(0)
	return errors.Join(err, c.freeViewPort())
}

// Close ends output and releases the controller so that another can be
// created
func (c *Controller) Close() error {
	err := c.End()
	active.CompareAndSwap(c, nil)
	return err
}

// Configured returns true if the resolution has been set
func (c *Controller) Configured() bool {
	return c.chain != nil
}

// Running returns true if output has been started
func (c *Controller) Running() bool {
	return c.isr != nil && c.hw.DMA.Running()
}

// ScanLine returns the scanline most recently reached by the interrupt
// handler
func (c *Controller) ScanLine() int {
	return int(c.scanLine.Load())
}

// VSync returns true once all scanlines of the frame have been produced. It is
// reset when the first row of the next frame has been transmitted
func (c *Controller) VSync() bool {
	return c.vsync.Load()
}

// Timings returns the timings set by SetResolution()
func (c *Controller) Timings() spec.Timings {
	return c.timings
}

// Viewport returns the viewport size set by SetResolution()
func (c *Controller) Viewport() dma.Viewport {
	return c.viewport
}

// DoubleBuffered returns the value of the flag given to SetResolution()
func (c *Controller) DoubleBuffered() bool {
	return c.doubleBuffered
}

// Chain returns the current descriptor chain. May be nil
func (c *Controller) Chain() *dma.Chain {
	return c.chain
}

// Pool returns the line pool
func (c *Controller) Pool() *linebuf.Pool {
	return c.pool
}

// FrameResetDescriptor is the index of the descriptor that marks the start of
// a frame. The value is -1 if the controller is not configured
func (c *Controller) FrameResetDescriptor() int {
	return c.frameResetDesc
}

func (c *Controller) String() string {
	if !c.Configured() {
		return "not configured"
	}
	return fmt.Sprintf("%s %dx%d lines=%d scanline=%d vsync=%v",
		c.timings.Label, c.viewport.Width, c.viewport.Height, c.linesCount, c.ScanLine(), c.VSync())
}
