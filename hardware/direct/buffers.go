package direct

import (
	"fmt"

	"github.com/jetsetilly/directvga/hardware/display"
	"github.com/jetsetilly/directvga/hardware/pixel"
)

// SetScanlineBuffer binds an external buffer to the viewport row. The buffer
// must be at least as wide as the viewport. The row is not range checked
func (c *Controller) SetScanlineBuffer(row int, buf []byte) {
	for _, i := range c.rowDescs[row] {
		d := &c.chain.Descs[i]
		if d.Scan > 0 && c.timings.MultiScanBlack {
			continue
		}
		d.Buf = buf
		d.Slot = -1
	}
}

// ScanlineBuffer returns the buffer currently bound to the viewport row. The
// row is not range checked
func (c *Controller) ScanlineBuffer(row int) []byte {
	return c.chain.Descs[c.rowDescs[row][0]].Buf
}

// DefaultScanlineBuffer returns the pool line that the viewport row is
// normally bound to
func (c *Controller) DefaultScanlineBuffer(row int) []byte {
	return c.pool.Default(row % c.linesCount)
}

// CreateRawPixel returns the native pixel for the colour with the sync bits in
// their inactive state. Callbacks should use this function to build the values
// they write
func (c *Controller) CreateRawPixel(rgb pixel.RGB222) uint8 {
	return pixel.Pack(rgb) | pixel.SyncBits(false, false, c.timings.HSyncLogic, c.timings.VSyncLogic)
}

// ReadScreen renders the rows of the rectangle with the callback and decodes
// the pixels into dest, row by row. The interrupt pipeline and the line pool
// are not used
func (c *Controller) ReadScreen(rect display.Rect, dest []pixel.RGB888) error {
	if c.callback == nil {
		return ErrNoCallback
	}
	if !c.Configured() {
		return ErrNotConfigured
	}
	if !rect.Within(display.Size{Width: c.viewport.Width, Height: c.viewport.Height}) {
		return fmt.Errorf("%w: %s is outside %dx%d", ErrInvalidViewport, rect, c.viewport.Width, c.viewport.Height)
	}
	if len(dest) < rect.Area() {
		return fmt.Errorf("%w: %d pixels required", ErrDestination, rect.Area())
	}

	// the callback is always given a scanline that is a multiple of the
	// number of lines per callback
	half := c.linesCount / 2
	width := c.viewport.Width
	rendered := -1

	var i int
	for y := rect.Y1; y <= rect.Y2; y++ {
		base := y - y%half
		if base != rendered {
			c.callback(c.arg, c.scratch, base)
			rendered = base
		}
		row := c.scratch[(y-base)*width : (y-base+1)*width]
		for x := rect.X1; x <= rect.X2; x++ {
			dest[i] = pixel.Decode(pixel.InRow(row, x))
			i++
		}
	}

	return nil
}
