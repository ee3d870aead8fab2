// Package terminal displays monitor frames in a text terminal. Each character
// cell shows two vertically adjacent pixels using the upper half block
// character, the upper pixel as the foreground colour and the lower pixel as
// the background colour. Frames are scaled to fit the terminal with nearest
// neighbour sampling.
package terminal

import (
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jetsetilly/directvga/gui"
	"github.com/jetsetilly/directvga/logger"
)

const halfBlock = '▀'

// the subset of tcell.Screen used for drawing
type canvas interface {
	Size() (int, int)
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}

// draw img onto the canvas. the status line, if not empty, takes the bottom
// row of the canvas
func draw(c canvas, img *image.RGBA, status string) {
	w, h := c.Size()
	if w <= 0 || h <= 0 {
		return
	}

	rows := h
	if status != "" {
		rows--
	}

	if img != nil && rows > 0 {
		b := img.Bounds()
		for cy := range rows {
			for cx := range w {
				x := b.Min.X + cx*b.Dx()/w
				top := b.Min.Y + (cy*2)*b.Dy()/(rows*2)
				bot := b.Min.Y + (cy*2+1)*b.Dy()/(rows*2)
				st := tcell.StyleDefault.Foreground(rgb(img, x, top)).Background(rgb(img, x, bot))
				c.SetContent(cx, cy, halfBlock, nil, st)
			}
		}
	}

	if status != "" {
		st := tcell.StyleDefault.Reverse(true)
		r := []rune(status)
		for x := range w {
			ch := ' '
			if x < len(r) {
				ch = r[x]
			}
			c.SetContent(x, h-1, ch, nil, st)
		}
	}
}

func rgb(img *image.RGBA, x, y int) tcell.Color {
	o := img.PixOffset(x, y)
	return tcell.NewRGBColor(int32(img.Pix[o]), int32(img.Pix[o+1]), int32(img.Pix[o+2]))
}

type guiTerminal struct {
	g      *gui.GUI
	screen tcell.Screen
	state  gui.State
	img    gui.Image
}

func (gt *guiTerminal) status() string {
	if gt.img.ID == "" {
		return ""
	}
	return gt.img.ID + " " + gt.state.String() + "  [←/→ pattern] [space pause] [. step] [s save] [esc quit]"
}

// returns false if the terminal should close
func (gt *guiTerminal) input(ev *tcell.EventKey) bool {
	var inp gui.Input

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRight:
		inp = gui.Input{Action: gui.NextPattern}
	case tcell.KeyLeft:
		inp = gui.Input{Action: gui.PrevPattern}
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			inp = gui.Input{Action: gui.Pause}
		case '.':
			inp = gui.Input{Action: gui.StepFrame}
		case 's', 'S':
			select {
			case gt.g.Commands <- []string{"SAVE"}:
			default:
			}
		case 'q', 'Q':
			return false
		}
	}

	if inp.Action != gui.Nothing {
		select {
		case gt.g.UserInput <- inp:
		default:
		}
	}

	return true
}

// Launch takes over the terminal and runs until endGui is signalled or the
// user quits. A Quit input is sent to the debugger when the user quits
func Launch(endGui chan bool, g *gui.GUI) error {
	var state gui.State

	// wait for the first state change and a possible quit request
	select {
	case state = <-g.State:
	case <-endGui:
		return nil
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	screen.HideCursor()

	gt := &guiTerminal{
		g:      g,
		screen: screen,
		state:  state,
	}

	quit := make(chan struct{})
	defer close(quit)

	events := make(chan tcell.Event, 10)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()

	dirty := false

	for {
		select {
		case <-endGui:
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				dirty = true
			case *tcell.EventKey:
				if !gt.input(ev) {
					select {
					case g.UserInput <- gui.Input{Action: gui.Quit}:
					default:
						logger.Log(logger.Allow, "terminal", "quit request dropped")
					}
					return nil
				}
			}

		case gt.state = <-g.State:
			dirty = true

		case img := <-g.SetImage:
			gt.img = img
			dirty = true

		case <-ticker.C:
			if g.UpdateGUI != nil {
				if err := g.UpdateGUI(); err != nil {
					return err
				}
			}
			if dirty {
				draw(screen, gt.img.Main, gt.status())
				screen.Show()
				dirty = false
			}
		}
	}
}
