package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jetsetilly/directvga/gui"
)

func (eg *guiEbiten) inputKeyboard() error {
	var pressed []ebiten.Key
	pressed = inpututil.AppendJustPressedKeys(pressed)

	for _, p := range pressed {
		var inp gui.Input

		switch p {
		case ebiten.KeyEscape:
			return ebiten.Termination
		case ebiten.KeyArrowRight, ebiten.KeyNumpad6:
			inp = gui.Input{Action: gui.NextPattern}
		case ebiten.KeyArrowLeft, ebiten.KeyNumpad4:
			inp = gui.Input{Action: gui.PrevPattern}
		case ebiten.KeySpace, ebiten.KeyF3:
			inp = gui.Input{Action: gui.Pause}
		case ebiten.KeyPeriod:
			inp = gui.Input{Action: gui.StepFrame}
		case ebiten.KeyF12:
			// screenshots are saved by the debugger so that the file
			// naming is the same as the SAVE command
			select {
			case eg.g.Commands <- []string{"SAVE"}:
			default:
			}
			continue
		}

		if inp.Action == gui.Nothing {
			continue
		}

		select {
		case eg.g.UserInput <- inp:
		default:
			return nil
		}
	}

	return nil
}
