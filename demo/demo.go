// Package demo contains scanline renderers for the direct controller. A
// renderer never holds a frame; every scanline is computed when the interrupt
// handler asks for it.
package demo

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/directvga/hardware/pixel"
)

// RawPixel converts a colour into a native pixel with the correct sync bits
type RawPixel func(pixel.RGB222) uint8

// Pattern is implemented by every renderer
type Pattern interface {
	Label() string

	// Setup is called whenever the viewport changes. Any lookup tables
	// should be created here because Draw() is called in interrupt context
	Setup(width int, height int, raw RawPixel)

	// Draw one scanline into row
	Draw(row []byte, scanLine int)

	// Tick advances any animation by one frame
	Tick()
}

// Patterns returns a new instance of every pattern
func Patterns() []Pattern {
	return []Pattern{
		&Bars{},
		&Plasma{},
		NewText("DIRECT VGA"),
	}
}

// Search returns a new instance of the pattern with the label. The search is
// case insensitive
func Search(label string) (Pattern, error) {
	for _, p := range Patterns() {
		if strings.EqualFold(p.Label(), label) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("demo: unknown pattern: %s", label)
}

// Renderer binds a pattern to the direct controller. The DrawScanline function
// should be registered as the callback with the Renderer as the argument
type Renderer struct {
	pattern Pattern
	width   int
}

// NewRenderer is the preferred method of initialisation for the Renderer type
func NewRenderer(p Pattern) *Renderer {
	return &Renderer{pattern: p}
}

// Pattern returns the current pattern
func (r *Renderer) Pattern() Pattern {
	return r.pattern
}

// SetPattern changes the pattern. Setup() must be called before the pattern is
// drawn
func (r *Renderer) SetPattern(p Pattern) {
	r.pattern = p
	r.width = 0
}

// Setup prepares the pattern for the viewport
func (r *Renderer) Setup(width int, height int, raw RawPixel) {
	r.pattern.Setup(width, height, raw)
	r.width = width
}

// Tick advances the pattern's animation
func (r *Renderer) Tick() {
	r.pattern.Tick()
}

// DrawScanline has the signature of the direct controller's callback. The arg
// must be a *Renderer. The dest slice may contain more than one line
func DrawScanline(arg any, dest []byte, scanLine int) {
	r := arg.(*Renderer)
	if r.width == 0 {
		return
	}
	for i := 0; (i+1)*r.width <= len(dest); i++ {
		r.pattern.Draw(dest[i*r.width:(i+1)*r.width], scanLine+i)
	}
}
