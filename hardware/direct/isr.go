package direct

import (
	"fmt"
	"time"

	"github.com/jetsetilly/directvga/hardware/clocks"
	"github.com/jetsetilly/directvga/hardware/dma"
	"github.com/jetsetilly/directvga/hardware/spec"
)

// isrHandler is installed on the video interrupt source. The argument is
// always the controller that installed it
func isrHandler(arg any) {
	c := arg.(*Controller)

	var start time.Time
	if c.perf.enabled {
		start = time.Now()
	}

	status := c.hw.DMA.IntStatus()

	if status&dma.IntOutEOF == dma.IntOutEOF {
		height := c.viewport.Height

		if c.hw.DMA.OutEOFDesc() == c.frameResetDesc {
			c.scanLine.Store(0)
			c.vsync.Store(false)
		}

		half := c.linesCount / 2
		current := int(c.scanLine.Load())
		scanLine := (current + half) % height
		slot := scanLine & (c.linesCount - 1)

		c.callback(c.arg, c.pool.Span(slot, half), scanLine)

		current += half
		c.scanLine.Store(int32(current))
		if current >= height {
			c.vsync.Store(true)
		}
	}

	if c.perf.enabled {
		c.perf.record(clocks.Cycles(time.Since(start)), c.cycleBudget)
	}

	c.hw.DMA.ClearInt(status)
}

// PerfStats summarises the time spent in the interrupt handler
type PerfStats struct {
	Calls    uint64
	Cycles   uint64
	Max      uint64
	Budget   uint64
	Overruns uint64
}

// Mean is the average number of cycles per call
func (p PerfStats) Mean() uint64 {
	if p.Calls == 0 {
		return 0
	}
	return p.Cycles / p.Calls
}

func (p PerfStats) String() string {
	return fmt.Sprintf("%d calls, mean %d cycles (%s), max %d cycles, budget %d cycles (%s), %d overruns",
		p.Calls, p.Mean(), clocks.Duration(p.Mean()), p.Max, p.Budget, clocks.Duration(p.Budget), p.Overruns)
}

// PerfHook is called after every measured run of the interrupt handler
type PerfHook func(cycles uint64, overrun bool)

type perfCheck struct {
	enabled bool
	hook    PerfHook
	stats   PerfStats
}

func (p *perfCheck) record(cycles uint64, budget uint64) {
	p.stats.Calls++
	p.stats.Cycles += cycles
	p.stats.Max = max(p.stats.Max, cycles)
	overrun := cycles > budget
	if overrun {
		p.stats.Overruns++
	}
	if p.hook != nil {
		p.hook(cycles, overrun)
	}
}

// SetPerformanceCheck enables or disables measurement of the interrupt
// handler. The hook may be nil. Statistics are reset every time the function
// is called
func (c *Controller) SetPerformanceCheck(enabled bool, hook PerfHook) {
	c.perf = perfCheck{
		enabled: enabled,
		hook:    hook,
	}
}

// Performance returns the measurements taken by the performance check. The
// budget is the time taken to transmit the lines between two interrupts
func (c *Controller) Performance() PerfStats {
	s := c.perf.stats
	s.Budget = c.cycleBudget
	return s
}

// interruptBudget is the number of cycles between two interrupts
func interruptBudget(timings spec.Timings, lines int) uint64 {
	return clocks.Cycles(timings.LineDuration() * time.Duration(lines))
}
