// Package hardware wires the simulated peripherals of the board together and
// provides the loop that runs them.
package hardware

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/jetsetilly/directvga/hardware/direct"
	"github.com/jetsetilly/directvga/hardware/spec"
	"github.com/jetsetilly/directvga/monitor"
)

// ErrNotRunning is returned when the board is stepped but video output has not
// been started
var ErrNotRunning = errors.New("video output is not running")

// Config for the Board
type Config struct {
	// size of the DMA capable heap in bytes
	HeapSize int

	// the core that the video interrupt is pinned to
	Core int

	// start output as soon as the resolution is set
	AutoRun bool
}

// DefaultConfig is a Config suitable for all preset timings
var DefaultConfig = Config{
	HeapSize: 160 * 1024,
	Core:     1,
	AutoRun:  true,
}

// Board is the complete video system. The direct controller drives the DMA
// engine and the monitor decodes the output
type Board struct {
	HW      direct.Hardware
	VGA     *direct.Controller
	Monitor *monitor.Monitor

	// the limiter can be nudged from the GUI goroutine
	limiter atomic.Pointer[limiter]
	limit   bool

	steps uint64
}

// Create a new board. The direct controller is created as part of the board
// so only one board can exist at a time
func Create(cfg Config) (*Board, error) {
	hw := direct.NewHardware(cfg.HeapSize, cfg.Core)
	vga, err := direct.Create(hw, cfg.AutoRun)
	if err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}

	b := &Board{
		HW:      hw,
		VGA:     vga,
		Monitor: monitor.NewMonitor(spec.VGA640x480),
		limit:   true,
	}
	hw.DMA.AttachSink(b.Monitor)

	return b, nil
}

// Close releases the direct controller
func (b *Board) Close() error {
	if l := b.limiter.Swap(nil); l != nil {
		l.Stop()
	}
	return b.VGA.Close()
}

// SetResolution configures the controller and prepares the monitor for the
// new timings
func (b *Board) SetResolution(timings spec.Timings, width int, height int, doubleBuffered bool) error {
	err := b.VGA.SetResolution(timings, width, height, doubleBuffered)
	if err != nil {
		return err
	}
	b.Monitor.SetTimings(timings)
	if l := b.limiter.Swap(newLimiter(timings)); l != nil {
		l.Stop()
	}
	return nil
}

// SetLimit sets whether Run() is limited to the refresh rate of the timings
func (b *Board) SetLimit(limit bool) {
	b.limit = limit
}

// Nudge the limiter. Should be called when a frame has been presented. Safe
// to call from any goroutine
func (b *Board) Nudge() {
	if l := b.limiter.Load(); l != nil {
		l.Nudge()
	}
}

// Step transmits one line and runs any interrupt handler that the line
// raised. Returns false if output is not running
func (b *Board) Step() bool {
	if !b.HW.DMA.Step() {
		return false
	}
	b.HW.Interrupts.Dispatch()
	b.steps++
	return true
}

// Steps is the number of lines transmitted
func (b *Board) Steps() uint64 {
	return b.steps
}

// StepFrame transmits one complete frame
func (b *Board) StepFrame() error {
	if !b.VGA.Running() {
		return ErrNotRunning
	}
	for range b.VGA.Timings().FrameSlots() {
		if !b.Step() {
			return ErrNotRunning
		}
	}
	return nil
}

// Frame returns the most recent frame decoded by the monitor
func (b *Board) Frame() *image.RGBA {
	return b.Monitor.Frame()
}

// Run frames until the stop channel is signalled or the hook function returns
// an error. The hook is called after every frame
func (b *Board) Run(stop chan bool, hook func() error) error {
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		err := b.StepFrame()
		if err != nil {
			return err
		}

		err = hook()
		if err != nil {
			return err
		}

		if l := b.limiter.Load(); b.limit && l != nil {
			l.Wait()
		}
	}
}
