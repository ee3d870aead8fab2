// Package gui is the meeting point between the board goroutine and whichever
// front end is displaying the monitor output. Front ends are in the
// sub-packages and communicate only through the channels in the GUI type.
package gui

import (
	"image"
)

type State int

const (
	StatePaused State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateRunning:
		return "running"
	}
	return "unknown"
}

// Image is a single completed frame as seen by the monitor. The Main image
// must not be modified after it has been sent
type Image struct {
	Main *image.RGBA

	// position of the raster at the moment the frame was sent. the front end
	// only draws the cursor when paused
	Cursor [2]int

	// ID changes whenever the display mode changes
	ID string
}

type GUI struct {
	SetImage  chan Image
	State     chan State
	UserInput chan Input

	// commands sent by the front end to the debugger. the first entry is the
	// command name
	Commands chan []string

	// called by the front end once per update. the function is optional
	UpdateGUI func() error
}

func NewGUI() *GUI {
	return &GUI{
		SetImage:  make(chan Image, 1),
		State:     make(chan State, 1),
		UserInput: make(chan Input, 10),
		Commands:  make(chan []string, 10),
	}
}

// Send offers a frame to the front end. A frame that the front end is not
// ready for is dropped and Send returns false
func (g *GUI) Send(img Image) bool {
	select {
	case g.SetImage <- img:
		return true
	default:
		return false
	}
}

// SetState informs the front end of a state change. Any state change not yet
// seen by the front end is replaced
func (g *GUI) SetState(s State) {
	for {
		select {
		case g.State <- s:
			return
		default:
			select {
			case <-g.State:
			default:
			}
		}
	}
}

// Clone copies src into a new image suitable for sending with the Image type
func Clone(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
