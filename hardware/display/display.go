// Package display defines the interface shared by bitmapped display
// controllers. Drawing primitives are normally executed against a frame
// buffer; controllers that do not keep a frame buffer implement them as stubs.
package display

import (
	"fmt"

	"github.com/jetsetilly/directvga/hardware/pixel"
)

// NativePixelFormat identifies the byte layout of a controller's pixels
type NativePixelFormat int

// List of valid NativePixelFormat values
const (
	Mono NativePixelFormat = iota
	SBGR2222
	RGB565BE
)

func (f NativePixelFormat) String() string {
	switch f {
	case Mono:
		return "Mono"
	case SBGR2222:
		return "SBGR2222"
	case RGB565BE:
		return "RGB565BE"
	}
	return "unknown"
}

// Point is a position on the screen
type Point struct {
	X, Y int
}

// Size of a screen area
type Size struct {
	Width, Height int
}

// Rect is a rectangle with inclusive corners
type Rect struct {
	X1, Y1 int
	X2, Y2 int
}

// Width of the rectangle
func (r Rect) Width() int {
	return r.X2 - r.X1 + 1
}

// Height of the rectangle
func (r Rect) Height() int {
	return r.Y2 - r.Y1 + 1
}

// Area is the number of pixels covered by the rectangle
func (r Rect) Area() int {
	if r.Width() <= 0 || r.Height() <= 0 {
		return 0
	}
	return r.Width() * r.Height()
}

// Within returns true if the rectangle is entirely inside a screen of the
// specified size
func (r Rect) Within(s Size) bool {
	return r.X1 >= 0 && r.Y1 >= 0 && r.X1 <= r.X2 && r.Y1 <= r.Y2 && r.X2 < s.Width && r.Y2 < s.Height
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// Glyph is a single character bitmap. Each row is Width bits, packed into
// bytes with the most significant bit on the left
type Glyph struct {
	X, Y          int
	Width, Height int
	Data          []byte
}

// Bitmap is an image in a controller independent format
type Bitmap struct {
	Width, Height int
	Format        NativePixelFormat
	Data          []byte
}

// Controller is implemented by every display controller. The drawing
// primitives operate on the controller's frame buffer
type Controller interface {
	NativePixelFormat() NativePixelFormat
	ScreenSize() Size

	SetPixelAt(p Point, c pixel.RGB888)
	DrawLine(from Point, to Point, c pixel.RGB888)
	FillRow(y int, x1 int, x2 int, c pixel.RGB888)
	Clear(c pixel.RGB888)
	VScroll(scroll int, r Rect)
	HScroll(scroll int, r Rect)
	DrawGlyph(g Glyph, pen pixel.RGB888, brush pixel.RGB888)
	InvertRect(r Rect)
	CopyRect(src Rect, dest Point)
	SwapFGBG(r Rect)
	DrawBitmap(dest Point, b Bitmap)
}
