package pixel_test

import (
	"testing"

	"github.com/jetsetilly/directvga/hardware/pixel"
	"github.com/jetsetilly/directvga/test"
)

func TestPackUnpack(t *testing.T) {
	for r := range uint8(4) {
		for g := range uint8(4) {
			for b := range uint8(4) {
				c := pixel.RGB222{R: r, G: g, B: b}
				raw := pixel.Pack(c)
				test.ExpectEquality(t, raw&^pixel.ColourMask, 0)
				test.ExpectEquality(t, pixel.Unpack(raw), c)

				// sync bits do not affect the colour
				test.ExpectEquality(t, pixel.Unpack(raw|pixel.HSyncBit|pixel.VSyncBit), c)
			}
		}
	}
}

func TestDecodeLevels(t *testing.T) {
	test.ExpectEquality(t, pixel.Decode(0x00), pixel.RGB888{})
	test.ExpectEquality(t, pixel.Decode(0x01), pixel.RGB888{R: 85})
	test.ExpectEquality(t, pixel.Decode(0x0a), pixel.RGB888{R: 170, G: 170})
	test.ExpectEquality(t, pixel.Decode(0xff), pixel.RGB888{R: 255, G: 255, B: 255})
}

func TestRGB888Reduction(t *testing.T) {
	test.ExpectEquality(t, pixel.RGB888{R: 255, G: 128, B: 63}.RGB222(), pixel.RGB222{R: 3, G: 2, B: 0})

	// expanding and reducing is lossless for the four levels
	for v := range uint8(4) {
		c := pixel.RGB222{R: v, G: v, B: v}
		test.ExpectEquality(t, c.RGB888().RGB222(), c)
	}
}

func TestSyncBits(t *testing.T) {
	// negative polarity. bits are set when the signal is not active
	test.ExpectEquality(t, pixel.SyncBits(false, false, '-', '-'), pixel.HSyncBit|pixel.VSyncBit)
	test.ExpectEquality(t, pixel.SyncBits(true, false, '-', '-'), pixel.VSyncBit)
	test.ExpectEquality(t, pixel.SyncBits(true, true, '-', '-'), 0)

	// positive polarity
	test.ExpectEquality(t, pixel.SyncBits(false, false, '+', '+'), 0)
	test.ExpectEquality(t, pixel.SyncBits(false, true, '+', '+'), pixel.VSyncBit)
	test.ExpectEquality(t, pixel.SyncBits(true, false, '-', '+'), 0)
}

func TestInRow(t *testing.T) {
	row := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	test.ExpectEquality(t, pixel.InRow(row, 0), 2)
	test.ExpectEquality(t, pixel.InRow(row, 1), 3)
	test.ExpectEquality(t, pixel.InRow(row, 2), 0)
	test.ExpectEquality(t, pixel.InRow(row, 7), 5)

	pixel.SetInRow(row, 4, 0xff)
	test.ExpectEquality(t, row[6], 0xff)
}
