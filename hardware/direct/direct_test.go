package direct_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/jetsetilly/directvga/hardware/direct"
	"github.com/jetsetilly/directvga/hardware/display"
	"github.com/jetsetilly/directvga/hardware/dma"
	"github.com/jetsetilly/directvga/hardware/memory"
	"github.com/jetsetilly/directvga/hardware/pixel"
	"github.com/jetsetilly/directvga/hardware/spec"
	"github.com/jetsetilly/directvga/test"
)

var tiny = spec.Timings{
	Label:        "tiny",
	Frequency:    1000000,
	HVisibleArea: 16,
	HFrontPorch:  4,
	HSyncPulse:   4,
	HBackPorch:   4,
	VVisibleArea: 16,
	VFrontPorch:  2,
	VSyncPulse:   1,
	VBackPorch:   2,
	HSyncLogic:   spec.NegativeSync,
	VSyncLogic:   spec.NegativeSync,
	ScanCount:    1,
}

func newController(t *testing.T, autoRun bool) (*direct.Controller, direct.Hardware) {
	t.Helper()
	hw := direct.NewHardware(1<<16, 1)
	c, err := direct.Create(hw, autoRun)
	test.DemandSuccess(t, err)
	t.Cleanup(func() {
		_ = c.Close()
	})
	return c, hw
}

// step the hardware until n interrupts have been handled
func runInterrupts(hw direct.Hardware, n int) {
	for n > 0 {
		if !hw.DMA.Step() {
			return
		}
		n -= hw.Interrupts.Dispatch()
	}
}

// step the hardware for a number of complete frames
func runFrames(hw direct.Hardware, timings spec.Timings, n int) {
	for range timings.FrameSlots() * n {
		hw.DMA.Step()
		hw.Interrupts.Dispatch()
	}
}

func nop(any, []byte, int) {}

func TestProductionLead(t *testing.T) {
	for _, n := range []int{1, 2, 4} {
		pool := n * 2
		for _, height := range []int{8, 16} {
			t.Run(fmt.Sprintf("pool%d_height%d", pool, height), func(t *testing.T) {
				c, hw := newController(t, true)
				test.DemandSuccess(t, c.SetScanlinesPerCallBack(n))

				var rendered []int
				var transmitted []int
				c.SetDrawScanlineCallback(func(_ any, dest []byte, scanLine int) {
					test.ExpectEquality(t, len(dest), n*tiny.HVisibleArea)
					rendered = append(rendered, scanLine)
					transmitted = append(transmitted, c.Chain().Descs[hw.DMA.OutEOFDesc()].Row)
				}, nil)
				test.DemandSuccess(t, c.SetResolution(tiny, -1, height, false))

				perFrame := height / n
				runInterrupts(hw, perFrame*3)
				test.DemandEquality(t, len(rendered), perFrame*3)

				for i := range rendered {
					j := i % perFrame
					test.ExpectEquality(t, transmitted[i], j*n)
					test.ExpectEquality(t, rendered[i], ((j+1)*n)%height)
					test.ExpectEquality(t, (rendered[i]-transmitted[i]+height)%height, n)

					// the slot being filled is never the slot of the row just
					// transmitted or any row transmitted before the next
					// interrupt
					slot := rendered[i] & (pool - 1)
					for a := range n {
						for b := range n {
							test.ExpectInequality(t, slot+a, (transmitted[i]+b)%pool)
						}
					}
				}
			})
		}
	}
}

func TestVSync(t *testing.T) {
	c, hw := newController(t, true)
	c.SetDrawScanlineCallback(nop, nil)
	test.DemandSuccess(t, c.SetResolution(tiny, -1, 8, false))

	reset := c.FrameResetDescriptor()
	last := c.Chain().RowDescriptors(7)[0]

	test.ExpectFailure(t, c.VSync())

	var rises int
	prev := c.VSync()
	for range tiny.FrameSlots() * 3 {
		desc := hw.DMA.Current()
		hw.DMA.Step()
		hw.Interrupts.Dispatch()

		v := c.VSync()
		test.ExpectEquality(t, direct.VSync(), v)

		switch desc {
		case reset:
			test.ExpectFailure(t, v)
		case last:
			test.ExpectSuccess(t, v)
		}
		if v && !prev {
			rises++
			test.ExpectEquality(t, desc, last)
		}
		if !v && prev {
			test.ExpectEquality(t, desc, reset)
		}
		prev = v
	}
	test.ExpectEquality(t, rises, 3)
}

func TestFrameResetWithPadding(t *testing.T) {
	c, hw := newController(t, true)
	test.DemandSuccess(t, c.SetScanlinesPerCallBack(2))

	var rendered []int
	c.SetDrawScanlineCallback(func(_ any, _ []byte, scanLine int) {
		rendered = append(rendered, scanLine)
	}, nil)

	tm := tiny
	tm.ScanCount = 2
	test.DemandSuccess(t, c.SetResolution(tm, 8, 8, false))

	// viewport is centred so the first row is not the first descriptor
	test.ExpectEquality(t, c.FrameResetDescriptor(), 4*2)

	runFrames(hw, tm, 2)
	test.DemandEquality(t, len(rendered), 8)
	for i, s := range []int{2, 4, 6, 0, 2, 4, 6, 0} {
		test.ExpectEquality(t, rendered[i], s)
	}
}

func TestMultiScanBlack(t *testing.T) {
	c, _ := newController(t, false)
	c.SetDrawScanlineCallback(nop, nil)

	tm := tiny
	tm.ScanCount = 2
	tm.MultiScanBlack = true
	test.DemandSuccess(t, c.SetResolution(tm, -1, -1, false))

	l := c.Chain().RowDescriptors(3)
	test.DemandEquality(t, len(l), 2)
	test.ExpectEquality(t, c.Chain().Descs[l[0]].Slot, 3%2)
	test.ExpectEquality(t, c.Chain().Descs[l[1]].Slot, -1)
	test.ExpectEquality(t, &c.Chain().Descs[l[1]].Buf[0], &c.Chain().Blank(false)[0])
}

func TestReadScreen(t *testing.T) {
	colour := func(row int, x int) pixel.RGB222 {
		return pixel.RGB222{R: uint8(row % 4), G: uint8(x % 4), B: uint8((row + x) % 4)}
	}

	c, _ := newController(t, false)
	test.DemandSuccess(t, c.SetScanlinesPerCallBack(2))

	var calls int
	c.SetDrawScanlineCallback(func(arg any, dest []byte, scanLine int) {
		test.ExpectEquality(t, arg.(string), "arg")
		test.ExpectEquality(t, scanLine%2, 0)
		calls++
		w := len(dest) / 2
		for j := range 2 {
			row := dest[j*w : (j+1)*w]
			for x := range w {
				pixel.SetInRow(row, x, c.CreateRawPixel(colour(scanLine+j, x)))
			}
		}
	}, "arg")

	dest := make([]pixel.RGB888, 16*16)
	test.ExpectError(t, c.ReadScreen(display.Rect{X2: 15, Y2: 15}, dest), direct.ErrNotConfigured)

	test.DemandSuccess(t, c.SetResolution(tiny, -1, -1, false))
	before := c.Pool().Default(0)[0]

	test.DemandSuccess(t, c.ReadScreen(display.Rect{X1: 0, Y1: 0, X2: 15, Y2: 15}, dest))
	test.ExpectEquality(t, calls, 8)
	for y := range 16 {
		for x := range 16 {
			test.ExpectEquality(t, dest[y*16+x], colour(y, x).RGB888())
		}
	}

	// the line pool is not touched
	test.ExpectEquality(t, c.Pool().Default(0)[0], before)

	// rectangle starting on an odd row
	calls = 0
	dest = dest[:3*2]
	test.DemandSuccess(t, c.ReadScreen(display.Rect{X1: 5, Y1: 3, X2: 7, Y2: 4}, dest))
	test.ExpectEquality(t, calls, 2)
	test.ExpectEquality(t, dest[0], colour(3, 5).RGB888())
	test.ExpectEquality(t, dest[5], colour(4, 7).RGB888())

	test.ExpectError(t, c.ReadScreen(display.Rect{X1: 0, Y1: 0, X2: 16, Y2: 0}, dest), direct.ErrInvalidViewport)
	test.ExpectError(t, c.ReadScreen(display.Rect{X1: 0, Y1: 0, X2: 15, Y2: 15}, dest), direct.ErrDestination)
}

func TestReadScreenLevels(t *testing.T) {
	c, _ := newController(t, false)
	c.SetDrawScanlineCallback(func(_ any, dest []byte, scanLine int) {
		v := uint8(scanLine % 4)
		for i := range dest {
			dest[i] = c.CreateRawPixel(pixel.RGB222{R: v, G: v, B: v})
		}
	}, nil)
	test.DemandSuccess(t, c.SetResolution(tiny, -1, -1, false))

	dest := make([]pixel.RGB888, 16*16)
	test.DemandSuccess(t, c.ReadScreen(display.Rect{X2: 15, Y2: 15}, dest))
	for y := range 16 {
		l := uint8(y%4) * 85
		test.ExpectEquality(t, dest[y*16], pixel.RGB888{R: l, G: l, B: l})
	}
}

func TestNoCallback(t *testing.T) {
	c, hw := newController(t, true)
	test.ExpectError(t, c.SetResolution(tiny, -1, -1, false), direct.ErrNoCallback)
	test.ExpectFailure(t, c.Configured())
	test.ExpectFailure(t, c.Running())
	test.ExpectFailure(t, hw.DMA.Running())
	test.ExpectEquality(t, hw.Heap.Stats().Allocs, 0)
	test.ExpectEquality(t, hw.Interrupts.Installed(), 0)
	test.ExpectError(t, c.Run(), direct.ErrNotConfigured)

	dest := make([]pixel.RGB888, 1)
	test.ExpectError(t, c.ReadScreen(display.Rect{}, dest), direct.ErrNoCallback)
}

func TestRemoveCallback(t *testing.T) {
	c, hw := newController(t, true)

	// removing the callback is allowed while unconfigured
	test.ExpectSuccess(t, c.SetDrawScanlineCallback(nil, nil))

	var calls int
	test.ExpectSuccess(t, c.SetDrawScanlineCallback(func(any, []byte, int) {
		calls++
	}, nil))
	test.DemandSuccess(t, c.SetResolution(tiny, -1, -1, false))

	test.ExpectError(t, c.SetDrawScanlineCallback(nil, nil), direct.ErrNoCallback)

	// the original callback is still called by the interrupt handler
	runFrames(hw, tiny, 1)
	test.ExpectEquality(t, calls, tiny.VVisibleArea)

	// replacing the callback is allowed
	var replaced int
	test.ExpectSuccess(t, c.SetDrawScanlineCallback(func(any, []byte, int) {
		replaced++
	}, nil))
	runFrames(hw, tiny, 1)
	test.ExpectEquality(t, calls, tiny.VVisibleArea)
	test.ExpectEquality(t, replaced, tiny.VVisibleArea)
}

func TestRunTwice(t *testing.T) {
	c, hw := newController(t, false)
	c.SetDrawScanlineCallback(nop, nil)
	test.DemandSuccess(t, c.SetResolution(tiny, -1, -1, false))
	test.ExpectFailure(t, c.Running())
	test.ExpectEquality(t, hw.Interrupts.Installed(), 0)

	allocs := hw.Heap.Stats().Allocs
	test.ExpectEquality(t, allocs, 3)

	test.DemandSuccess(t, c.Run())
	test.ExpectSuccess(t, c.Running())
	test.ExpectEquality(t, hw.Interrupts.BusiestCore(), 1)
	runFrames(hw, tiny, 1)
	hw.DMA.Step()

	test.DemandSuccess(t, c.Run())
	test.ExpectEquality(t, hw.DMA.Current(), 0)
	test.ExpectEquality(t, c.ScanLine(), 0)
	test.ExpectEquality(t, hw.Interrupts.Installed(), 1)
	test.ExpectEquality(t, hw.Interrupts.Allocs(), 1)
	test.ExpectEquality(t, hw.Heap.Stats().Allocs, allocs)
	test.ExpectEquality(t, hw.Interrupts.Handles()[0].Core(), 1)
	test.ExpectEquality(t, hw.Interrupts.Handles()[0].Level(), 1)
}

func TestReconfigure(t *testing.T) {
	c, hw := newController(t, true)
	c.SetDrawScanlineCallback(nop, nil)
	test.DemandSuccess(t, c.SetResolution(tiny, -1, -1, false))
	first := hw.Heap.Stats()
	test.ExpectEquality(t, first.Frees, 0)

	test.DemandSuccess(t, c.SetResolution(tiny, 8, 8, true))
	test.ExpectSuccess(t, c.DoubleBuffered())
	second := hw.Heap.Stats()
	test.ExpectEquality(t, second.Frees, first.Live)
	test.ExpectEquality(t, second.Live, first.Live)
	test.ExpectEquality(t, second.Allocs, first.Allocs*2)
	test.ExpectEquality(t, c.Viewport(), dma.Viewport{Width: 8, Height: 8})
	test.ExpectEquality(t, hw.Interrupts.Allocs(), 1)

	// a failed reconfiguration leaves nothing allocated
	test.ExpectError(t, c.SetResolution(tiny, 8, 5, false), direct.ErrInvalidViewport)
	test.ExpectEquality(t, hw.Heap.Stats(), second)

	hw.Heap.FailAfter(1)
	test.ExpectError(t, c.SetResolution(tiny, -1, -1, false), memory.ErrNoMem)
	test.ExpectFailure(t, c.Configured())
	test.ExpectEquality(t, hw.Heap.Stats().Live, 0)
	test.ExpectEquality(t, hw.Heap.Stats().Frees, second.Frees+second.Live+1)
}

func TestExhaustion(t *testing.T) {
	hw := direct.NewHardware(64, 0)
	c, err := direct.Create(hw, true)
	test.DemandSuccess(t, err)
	defer c.Close()

	c.SetDrawScanlineCallback(nop, nil)
	test.ExpectError(t, c.SetResolution(tiny, -1, -1, false), memory.ErrNoMem)
	test.ExpectFailure(t, c.Configured())
	test.ExpectEquality(t, hw.Interrupts.Installed(), 0)
	test.ExpectFailure(t, hw.DMA.Running())
	test.ExpectEquality(t, hw.Heap.Stats().Live, 0)
}

func TestEnd(t *testing.T) {
	c, hw := newController(t, true)
	c.SetDrawScanlineCallback(nop, nil)
	test.DemandSuccess(t, c.SetResolution(tiny, -1, -1, false))
	runFrames(hw, tiny, 1)

	test.DemandSuccess(t, c.End())
	test.ExpectFailure(t, c.Configured())
	test.ExpectFailure(t, hw.DMA.Running())
	test.ExpectEquality(t, hw.Interrupts.Installed(), 0)
	test.ExpectEquality(t, hw.Interrupts.Frees(), 1)
	test.ExpectEquality(t, hw.Heap.Stats().Live, 0)

	// the controller can be configured again
	test.DemandSuccess(t, c.SetResolution(tiny, -1, -1, false))
	test.ExpectEquality(t, hw.Interrupts.Allocs(), 2)
}

func TestInstance(t *testing.T) {
	c, _ := newController(t, false)
	test.ExpectEquality(t, direct.Instance(), c)

	_, err := direct.Create(direct.NewHardware(1024, 0), false)
	test.ExpectError(t, err, direct.ErrInstanceActive)

	test.DemandSuccess(t, c.Close())
	test.ExpectEquality(t, direct.Instance(), nil)
	test.ExpectFailure(t, direct.VSync())

	d, err := direct.Create(direct.NewHardware(1024, 0), false)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, d.Close())
}

func TestScanlinesPerCallBack(t *testing.T) {
	c, _ := newController(t, false)
	test.ExpectEquality(t, c.ScanlinesPerCallBack(), 1)
	test.ExpectError(t, c.SetScanlinesPerCallBack(0), direct.ErrLinesPerCallback)
	test.ExpectError(t, c.SetScanlinesPerCallBack(3), direct.ErrLinesPerCallback)
	test.DemandSuccess(t, c.SetScanlinesPerCallBack(4))
	test.ExpectEquality(t, c.ScanlinesPerCallBack(), 4)
	test.ExpectEquality(t, c.Pool().Allocated(), false)

	c.SetDrawScanlineCallback(nop, nil)
	test.DemandSuccess(t, c.SetResolution(tiny, -1, -1, false))
	test.ExpectEquality(t, c.Pool().Count(), 8)
	test.ExpectError(t, c.SetScanlinesPerCallBack(1), direct.ErrLinesPerCallback)
}

func TestViewport(t *testing.T) {
	c, _ := newController(t, false)
	c.SetDrawScanlineCallback(nop, nil)

	test.DemandSuccess(t, c.SetResolution(tiny, 15, -1, false))
	test.ExpectEquality(t, c.Viewport(), dma.Viewport{Width: 12, Height: 16})
	test.ExpectEquality(t, c.ScreenSize(), display.Size{Width: 12, Height: 16})

	test.ExpectError(t, c.SetResolution(tiny, 20, -1, false), direct.ErrInvalidViewport)
	test.ExpectError(t, c.SetResolution(tiny, 3, -1, false), direct.ErrInvalidViewport)
	test.ExpectError(t, c.SetResolution(tiny, -1, 18, false), direct.ErrInvalidViewport)
	test.ExpectError(t, c.SetResolution(tiny, -1, 7, false), direct.ErrInvalidViewport)

	bad := tiny
	bad.ScanCount = 3
	test.ExpectError(t, c.SetResolution(bad, -1, -1, false), spec.ErrInvalidTimings)

	// failures do not disturb the existing configuration
	test.ExpectEquality(t, c.Viewport(), dma.Viewport{Width: 12, Height: 16})
}

func TestScanlineBuffer(t *testing.T) {
	c, hw := newController(t, true)
	c.SetDrawScanlineCallback(nop, nil)
	test.DemandSuccess(t, c.SetResolution(tiny, -1, -1, false))

	test.ExpectEquality(t, &c.ScanlineBuffer(5)[0], &c.DefaultScanlineBuffer(5)[0])
	test.ExpectEquality(t, &c.DefaultScanlineBuffer(5)[0], &c.Pool().Default(1)[0])

	ext := make([]byte, 16)
	for i := range ext {
		ext[i] = c.CreateRawPixel(pixel.RGB222{R: 3})
	}
	c.SetScanlineBuffer(5, ext)
	test.ExpectEquality(t, &c.ScanlineBuffer(5)[0], &ext[0])
	test.ExpectInequality(t, &c.ScanlineBuffer(5)[0], &c.DefaultScanlineBuffer(5)[0])

	// the external buffer is transmitted in place of the pool line
	var sent []byte
	hw.DMA.AttachSink(sinkFunc(func(lead, buf, trail []uint8) {
		if len(sent) == 0 && &buf[0] == &ext[0] {
			sent = append(sent, buf...)
		}
	}))
	runFrames(hw, tiny, 1)
	test.DemandEquality(t, len(sent), 16)
	test.ExpectEquality(t, sent[0], 0xc3)

	defer func() {
		test.ExpectInequality(t, recover(), nil)
	}()
	c.ScanlineBuffer(16)
}

type sinkFunc func(lead, buf, trail []uint8)

func (f sinkFunc) Line(lead, buf, trail []uint8) {
	f(lead, buf, trail)
}

func TestCreateRawPixel(t *testing.T) {
	c, _ := newController(t, false)
	c.SetDrawScanlineCallback(nop, nil)
	test.DemandSuccess(t, c.SetResolution(tiny, -1, -1, false))
	test.ExpectEquality(t, c.CreateRawPixel(pixel.RGB222{R: 1, G: 2, B: 3}), 0xc0|0x39)

	tm := tiny
	tm.HSyncLogic = spec.PositiveSync
	test.DemandSuccess(t, c.SetResolution(tm, -1, -1, false))
	test.ExpectEquality(t, c.CreateRawPixel(pixel.RGB222{}), 0x80)
}

func TestPerformanceCheck(t *testing.T) {
	c, hw := newController(t, true)

	var slow bool
	c.SetDrawScanlineCallback(func(any, []byte, int) {
		if slow {
			time.Sleep(time.Millisecond)
		}
	}, nil)
	test.DemandSuccess(t, c.SetResolution(tiny, -1, -1, false))

	var hooked int
	c.SetPerformanceCheck(true, func(cycles uint64, overrun bool) {
		hooked++
	})
	runInterrupts(hw, 4)

	p := c.Performance()
	test.ExpectEquality(t, p.Calls, 4)
	test.ExpectEquality(t, hooked, 4)

	// one line of tiny is 28 pixels at 1MHz
	test.ExpectEquality(t, p.Budget, 28*240)

	slow = true
	runInterrupts(hw, 2)
	p = c.Performance()
	test.ExpectEquality(t, p.Calls, 6)
	test.ExpectEquality(t, p.Overruns >= 2, true)
	test.ExpectEquality(t, p.Max >= 240000, true)

	c.SetPerformanceCheck(false, nil)
	runInterrupts(hw, 2)
	test.ExpectEquality(t, c.Performance().Calls, 0)
}

func TestStubPrimitives(t *testing.T) {
	c, _ := newController(t, false)
	var d display.Controller = c
	test.ExpectEquality(t, d.NativePixelFormat(), display.SBGR2222)
	d.Clear(pixel.RGB888{})
	d.DrawLine(display.Point{}, display.Point{X: 10, Y: 10}, pixel.RGB888{R: 255})
}
