package demo

import (
	"image/color"

	"github.com/jetsetilly/directvga/hardware/pixel"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// mask is a one bit per pixel image. it is the target for the font renderer
type mask struct {
	width, height int
	bits          []bool
}

var _ drivers.Displayer = (*mask)(nil)

func (m *mask) Size() (x, y int16) {
	return int16(m.width), int16(m.height)
}

func (m *mask) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || int(x) >= m.width || int(y) >= m.height {
		return
	}
	m.bits[int(y)*m.width+int(x)] = c.A > 0
}

func (m *mask) Display() error {
	return nil
}

// Text draws a message that scrolls horizontally across a background
// gradient
type Text struct {
	message string
	mask    mask

	fg     uint8
	bg     []uint8
	height int
	scroll int
}

// NewText is the preferred method of initialisation for the Text type
func NewText(message string) *Text {
	return &Text{message: message}
}

func (t *Text) Label() string {
	return "text"
}

func (t *Text) Setup(width int, height int, raw RawPixel) {
	font := &proggy.TinySZ8pt7b

	w, _ := tinyfont.LineWidth(font, t.message)
	t.mask = mask{
		width:  max(int(w), 1),
		height: int(font.YAdvance),
	}
	t.mask.bits = make([]bool, t.mask.width*t.mask.height)
	tinyfont.WriteLine(&t.mask, font, 0, int16(font.YAdvance)-2, t.message, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	t.fg = raw(pixel.RGB222{R: 3, G: 3, B: 3})
	t.height = height
	t.bg = make([]uint8, height)
	for y := range height {
		t.bg[y] = raw(pixel.RGB222{B: uint8(y * 4 / height)})
	}
	t.scroll = 0
}

// the text is drawn twice its natural size
const textScale = 2

func (t *Text) Draw(row []byte, scanLine int) {
	bg := t.bg[scanLine]
	top := (t.height - t.mask.height*textScale) / 2
	my := (scanLine - top) / textScale
	if scanLine < top || my >= t.mask.height {
		for x := range row {
			row[x] = bg
		}
		return
	}

	bits := t.mask.bits[my*t.mask.width : (my+1)*t.mask.width]
	for x := range row {
		mx := ((x + t.scroll) / textScale) % t.mask.width
		if bits[mx] {
			pixel.SetInRow(row, x, t.fg)
		} else {
			pixel.SetInRow(row, x, bg)
		}
	}
}

func (t *Text) Tick() {
	t.scroll++
	if t.scroll >= t.mask.width*textScale {
		t.scroll = 0
	}
}
