// Package pixel implements the native pixel format of the video output. Each
// pixel is one byte:
//
//	bit 7     VSync
//	bit 6     HSync
//	bits 5-4  blue
//	bits 3-2  green
//	bits 1-0  red
//
// The output peripheral transmits 32bit words with the two 16bit halves
// swapped. Pixel x of a row is therefore stored at byte x^2 of the buffer. The
// InRow() and SetInRow() functions should be used whenever a row is accessed
// by pixel position.
package pixel

import "image/color"

const (
	RedMask    = 0x03
	GreenMask  = 0x0c
	BlueMask   = 0x30
	ColourMask = RedMask | GreenMask | BlueMask
	HSyncBit   = 0x40
	VSyncBit   = 0x80
)

// RGB222 is a colour with two bits per channel. Values are 0 to 3
type RGB222 struct {
	R, G, B uint8
}

// RGB888 is a colour with eight bits per channel
type RGB888 struct {
	R, G, B uint8
}

// RGB222 reduces the colour to two bits per channel
func (c RGB888) RGB222() RGB222 {
	return RGB222{R: c.R >> 6, G: c.G >> 6, B: c.B >> 6}
}

// RGBA returns the colour as an opaque color.RGBA
func (c RGB888) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// RGB888 expands the colour to eight bits per channel. The channel levels are
// 0, 85, 170 and 255
func (c RGB222) RGB888() RGB888 {
	return RGB888{R: (c.R & 0x03) * 85, G: (c.G & 0x03) * 85, B: (c.B & 0x03) * 85}
}

// Pack the colour into the colour bits of a native pixel. The sync bits are
// left clear
func Pack(c RGB222) uint8 {
	return (c.R & 0x03) | (c.G&0x03)<<2 | (c.B&0x03)<<4
}

// Unpack the colour bits of a native pixel
func Unpack(raw uint8) RGB222 {
	return RGB222{R: raw & 0x03, G: (raw >> 2) & 0x03, B: (raw >> 4) & 0x03}
}

// Decode a native pixel into an RGB888 colour
func Decode(raw uint8) RGB888 {
	return Unpack(raw).RGB888()
}

// SyncBits returns the value of the sync bits for the active state of each
// sync signal. The polarity values should be '+' or '-'. A positive polarity
// means the bit is set while the pulse is active
func SyncBits(hsync bool, vsync bool, hpolarity byte, vpolarity byte) uint8 {
	var v uint8
	if hsync == (hpolarity == '+') {
		v |= HSyncBit
	}
	if vsync == (vpolarity == '+') {
		v |= VSyncBit
	}
	return v
}

// InRow returns the pixel at position x of the row
func InRow(row []byte, x int) uint8 {
	return row[x^2]
}

// SetInRow sets the pixel at position x of the row
func SetInRow(row []byte, x int, v uint8) {
	row[x^2] = v
}
