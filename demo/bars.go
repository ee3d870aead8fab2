package demo

import "github.com/jetsetilly/directvga/hardware/pixel"

// Bars draws eight vertical colour bars and a white line that moves down the
// screen once per frame
type Bars struct {
	height int
	bars   []uint8
	white  uint8
	line   int
}

func (b *Bars) Label() string {
	return "bars"
}

var barColours = []pixel.RGB222{
	{R: 3, G: 3, B: 3},
	{R: 3, G: 3, B: 0},
	{R: 0, G: 3, B: 3},
	{R: 0, G: 3, B: 0},
	{R: 3, G: 0, B: 3},
	{R: 3, G: 0, B: 0},
	{R: 0, G: 0, B: 3},
	{R: 0, G: 0, B: 0},
}

func (b *Bars) Setup(width int, height int, raw RawPixel) {
	b.height = height
	b.line = 0
	b.white = raw(pixel.RGB222{R: 3, G: 3, B: 3})
	b.bars = make([]uint8, width)
	for x := range width {
		b.bars[x] = raw(barColours[x*len(barColours)/width])
	}
}

func (b *Bars) Draw(row []byte, scanLine int) {
	if scanLine == b.line {
		for x := range row {
			row[x] = b.white
		}
		return
	}
	for x, v := range b.bars {
		pixel.SetInRow(row, x, v)
	}
}

func (b *Bars) Tick() {
	if b.height > 0 {
		b.line = (b.line + 1) % b.height
	}
}
