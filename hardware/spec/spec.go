// Package spec describes the video timings used to generate a VGA signal. A
// Timings value is immutable once it has been applied to a controller.
package spec

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimings is wrapped by all errors returned by Timings.Validate()
var ErrInvalidTimings = errors.New("invalid timings")

// Sync polarity values
const (
	PositiveSync = '+'
	NegativeSync = '-'
)

// Timings describes one video mode. Horizontal values are measured in pixels
// and vertical values in rows.
//
// The ScanCount field allows each row to be transmitted more than once. A
// value of 2 is "double scan" and is used to create low resolution modes with
// the timings of a higher resolution. If MultiScanBlack is true then the
// repeated scans of a row are black.
type Timings struct {
	Label     string
	Frequency int // pixel clock in Hz

	HVisibleArea int
	HFrontPorch  int
	HSyncPulse   int
	HBackPorch   int

	VVisibleArea int
	VFrontPorch  int
	VSyncPulse   int
	VBackPorch   int

	HSyncLogic byte
	VSyncLogic byte

	ScanCount      int
	MultiScanBlack bool
}

// Validate checks that the timings can be used to build a DMA chain.
// Horizontal values must be multiples of four because pixels are packed into
// 32bit words by the output peripheral
func (t Timings) Validate() error {
	if t.Frequency <= 0 {
		return fmt.Errorf("%w: pixel clock must be positive", ErrInvalidTimings)
	}
	if t.HVisibleArea <= 0 || t.VVisibleArea <= 0 {
		return fmt.Errorf("%w: visible area must be positive", ErrInvalidTimings)
	}
	if t.HFrontPorch < 0 || t.HSyncPulse <= 0 || t.HBackPorch < 0 {
		return fmt.Errorf("%w: horizontal blanking is malformed", ErrInvalidTimings)
	}
	if t.VFrontPorch < 0 || t.VSyncPulse <= 0 || t.VBackPorch < 0 {
		return fmt.Errorf("%w: vertical blanking is malformed", ErrInvalidTimings)
	}
	for _, v := range []int{t.HVisibleArea, t.HFrontPorch, t.HSyncPulse, t.HBackPorch} {
		if v%4 != 0 {
			return fmt.Errorf("%w: horizontal values must be multiples of 4", ErrInvalidTimings)
		}
	}
	switch t.ScanCount {
	case 1, 2, 4:
	default:
		return fmt.Errorf("%w: scan count of %d is not supported", ErrInvalidTimings, t.ScanCount)
	}
	for _, l := range []byte{t.HSyncLogic, t.VSyncLogic} {
		if l != PositiveSync && l != NegativeSync {
			return fmt.Errorf("%w: sync logic must be '+' or '-'", ErrInvalidTimings)
		}
	}
	return nil
}

// HBlank is the number of pixels in the horizontal blanking period
func (t Timings) HBlank() int {
	return t.HFrontPorch + t.HSyncPulse + t.HBackPorch
}

// HLineSize is the total number of pixels in one line, including blanking
func (t Timings) HLineSize() int {
	return t.HBlank() + t.HVisibleArea
}

// VTotal is the number of rows in one frame, including blanking
func (t Timings) VTotal() int {
	return t.VVisibleArea + t.VFrontPorch + t.VSyncPulse + t.VBackPorch
}

// FrameSlots is the number of lines transmitted for one frame. It is the same
// as VTotal() multiplied by the scan count
func (t Timings) FrameSlots() int {
	return t.VTotal() * t.ScanCount
}

// LineDuration is the time taken to transmit one line
func (t Timings) LineDuration() time.Duration {
	return time.Duration(int64(t.HLineSize()) * int64(time.Second) / int64(t.Frequency))
}

// FrameDuration is the time taken to transmit one complete frame
func (t Timings) FrameDuration() time.Duration {
	return time.Duration(int64(t.HLineSize()) * int64(t.FrameSlots()) * int64(time.Second) / int64(t.Frequency))
}

// RefreshRate is the number of frames per second
func (t Timings) RefreshRate() float64 {
	return float64(t.Frequency) / float64(t.HLineSize()*t.FrameSlots())
}

func (t Timings) String() string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("%s: %.3fMHz ", t.Label, float64(t.Frequency)/1e6))
	s.WriteString(fmt.Sprintf("h=%d/%d/%d/%d%c ", t.HVisibleArea, t.HFrontPorch, t.HSyncPulse, t.HBackPorch, t.HSyncLogic))
	s.WriteString(fmt.Sprintf("v=%d/%d/%d/%d%c ", t.VVisibleArea, t.VFrontPorch, t.VSyncPulse, t.VBackPorch, t.VSyncLogic))
	s.WriteString(fmt.Sprintf("scan=%d (%.2fHz)", t.ScanCount, t.RefreshRate()))
	return s.String()
}
