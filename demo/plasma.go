package demo

import (
	"math"

	"github.com/jetsetilly/directvga/hardware/pixel"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Plasma is the classic sum of sine waves, coloured through a hue wheel
type Plasma struct {
	palette [256]uint8
	sine    [256]uint8
	t       int
}

func (p *Plasma) Label() string {
	return "plasma"
}

func (p *Plasma) Setup(width int, height int, raw RawPixel) {
	for i := range p.palette {
		c := colorful.Hsv(float64(i)*360/256, 1, 1)
		r, g, b := c.RGB255()
		p.palette[i] = raw(pixel.RGB888{R: r, G: g, B: b}.RGB222())
	}
	for i := range p.sine {
		p.sine[i] = uint8(127.5 + 127.5*math.Sin(float64(i)*2*math.Pi/256))
	}
	p.t = 0
}

func (p *Plasma) Draw(row []byte, scanLine int) {
	y := p.sine[(scanLine*2+p.t)&0xff]
	for x := range row {
		v := int(p.sine[(x+p.t)&0xff]) + int(y) + int(p.sine[(x+scanLine+p.t*2)&0xff])
		pixel.SetInRow(row, x, p.palette[(v/3)&0xff])
	}
}

func (p *Plasma) Tick() {
	p.t++
}
