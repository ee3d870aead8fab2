package direct

import (
	"github.com/jetsetilly/directvga/hardware/display"
	"github.com/jetsetilly/directvga/hardware/pixel"
)

// the controller has no frame buffer so the drawing primitives do nothing

func (c *Controller) NativePixelFormat() display.NativePixelFormat {
	return display.SBGR2222
}

func (c *Controller) ScreenSize() display.Size {
	return display.Size{Width: c.viewport.Width, Height: c.viewport.Height}
}

func (c *Controller) SetPixelAt(p display.Point, col pixel.RGB888) {}
func (c *Controller) DrawLine(from display.Point, to display.Point, col pixel.RGB888) {}
func (c *Controller) FillRow(y int, x1 int, x2 int, col pixel.RGB888) {}
func (c *Controller) Clear(col pixel.RGB888) {}
func (c *Controller) VScroll(scroll int, r display.Rect) {}
func (c *Controller) HScroll(scroll int, r display.Rect) {}
func (c *Controller) DrawGlyph(g display.Glyph, pen pixel.RGB888, brush pixel.RGB888) {}
func (c *Controller) InvertRect(r display.Rect) {}
func (c *Controller) CopyRect(src display.Rect, dest display.Point) {}
func (c *Controller) SwapFGBG(r display.Rect) {}
func (c *Controller) DrawBitmap(dest display.Point, b display.Bitmap) {}

var _ display.Controller = (*Controller)(nil)
