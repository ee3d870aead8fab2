// Package monitor decodes the signal produced by the video output into
// images. The monitor synchronises to the sync pulses in the signal and so
// will report errors if the pulses are missing or malformed.
package monitor

import (
	"image"
	"image/color"

	"github.com/jetsetilly/directvga/hardware/pixel"
	"github.com/jetsetilly/directvga/hardware/spec"
)

// Monitor implements the dma.Sink interface
type Monitor struct {
	timings spec.Timings

	// concatenated line
	line []uint8

	// two images are used so that the most recently completed frame is never
	// the frame being drawn
	images [2]*image.RGBA
	draw   int

	inVSync bool
	synced  bool
	count   int

	frames     int
	syncErrors int

	onFrame func(*image.RGBA)
}

// NewMonitor is the preferred method of initialisation for the Monitor type
func NewMonitor(timings spec.Timings) *Monitor {
	m := &Monitor{}
	m.SetTimings(timings)
	return m
}

// SetTimings prepares the monitor for a new video mode. The monitor loses
// synchronisation until the next vertical sync pulse
func (m *Monitor) SetTimings(timings spec.Timings) {
	m.timings = timings
	m.line = make([]uint8, 0, timings.HLineSize())
	r := image.Rect(0, 0, timings.HVisibleArea, timings.VVisibleArea*max(timings.ScanCount, 1))
	m.images[0] = image.NewRGBA(r)
	m.images[1] = image.NewRGBA(r)
	m.draw = 0
	m.inVSync = false
	m.synced = false
	m.count = 0
}

// OnFrame sets the function that is called every time a frame is completed.
// The image must not be retained after the function returns
func (m *Monitor) OnFrame(f func(*image.RGBA)) {
	m.onFrame = f
}

// Frame returns the most recently completed frame
func (m *Monitor) Frame() *image.RGBA {
	return m.images[1-m.draw]
}

// Frames is the number of complete frames received
func (m *Monitor) Frames() int {
	return m.frames
}

// SyncErrors is the number of lines that had a missing or misplaced
// horizontal sync pulse
func (m *Monitor) SyncErrors() int {
	return m.syncErrors
}

// Synced returns true if the monitor has seen a vertical sync pulse
func (m *Monitor) Synced() bool {
	return m.synced
}

func (m *Monitor) active(v uint8, bit uint8, polarity byte) bool {
	return (v&bit == bit) == (polarity == spec.PositiveSync)
}

// Line implements the dma.Sink interface
func (m *Monitor) Line(lead []uint8, buf []uint8, trail []uint8) {
	m.line = append(m.line[:0], lead...)
	m.line = append(m.line, buf...)
	m.line = append(m.line, trail...)

	t := m.timings
	if len(m.line) != t.HLineSize() {
		m.syncErrors++
		return
	}

	vsync := m.active(pixel.InRow(m.line, 0), pixel.VSyncBit, t.VSyncLogic)
	if vsync {
		m.inVSync = true
		return
	}
	if m.inVSync {
		m.inVSync = false
		m.synced = true
		m.count = 0
	}
	if !m.synced {
		return
	}

	start := m.visibleStart()
	if start < 0 {
		m.syncErrors++
		m.count++
		return
	}

	scan := max(t.ScanCount, 1)
	y := m.count - t.VBackPorch*scan
	m.count++

	if y < 0 || y >= t.VVisibleArea*scan {
		return
	}

	img := m.images[m.draw]
	for x := range t.HVisibleArea {
		c := pixel.Decode(pixel.InRow(m.line, start+x))
		img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	}

	if y == t.VVisibleArea*scan-1 {
		m.frames++
		m.draw = 1 - m.draw
		if m.onFrame != nil {
			m.onFrame(img)
		}
	}
}

// visibleStart finds the end of the horizontal sync pulse and returns the
// position of the first visible pixel. Returns -1 if the pulse is not where
// it is expected
func (m *Monitor) visibleStart() int {
	t := m.timings
	var begin, end = -1, -1
	for x := range t.HBlank() {
		h := m.active(pixel.InRow(m.line, x), pixel.HSyncBit, t.HSyncLogic)
		if h && begin == -1 {
			begin = x
		}
		if !h && begin != -1 {
			end = x
			break
		}
	}
	if begin != t.HFrontPorch || end-begin != t.HSyncPulse {
		return -1
	}
	return end + t.HBackPorch
}
