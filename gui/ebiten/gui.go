package ebiten

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jetsetilly/directvga/gui"
	"github.com/jetsetilly/directvga/logger"
	"github.com/jetsetilly/directvga/version"
)

type guiEbiten struct {
	g    *gui.GUI
	geom gui.Geometry

	endGui chan bool

	state gui.State

	main   *ebiten.Image
	mainID string
	cursor [2]int

	// width/height of incoming image from the monitor. not to be confused
	// with window dimensions
	width  int
	height int

	// a simple counter used to implement a fade-in/fade-out effect for the
	// raster cursor
	cursorFrame int
}

func (eg *guiEbiten) Update() error {
	// deal with quit condition
	select {
	case <-eg.endGui:
		return ebiten.Termination
	default:
	}

	err := eg.inputKeyboard()
	if err != nil {
		return ebiten.Termination
	}

	// change state if necessary
	select {
	case eg.state = <-eg.g.State:
	default:
	}

	if eg.g.UpdateGUI != nil {
		err := eg.g.UpdateGUI()
		if err != nil {
			return fmt.Errorf("ebiten: %w", err)
		}
	}

	// retrieve any pending images
	select {
	case img := <-eg.g.SetImage:
		eg.cursor = img.Cursor

		if img.Main != nil {
			if eg.main == nil || eg.main.Bounds() != img.Main.Bounds() {
				eg.width = img.Main.Bounds().Dx()
				eg.height = img.Main.Bounds().Dy()
				eg.main = ebiten.NewImage(eg.width, eg.height)
			}
			if img.ID != eg.mainID {
				eg.mainID = img.ID
				ebiten.SetWindowTitle(fmt.Sprintf("%s [%s]", version.Title(), img.ID))
			}
			eg.main.WritePixels(img.Main.Pix)
		}
	default:
	}

	return nil
}

func (eg *guiEbiten) Draw(screen *ebiten.Image) {
	eg.cursorFrame++

	if eg.main != nil {
		var op ebiten.DrawImageOptions
		op.Blend = ebiten.BlendSourceOver
		screen.DrawImage(eg.main, &op)

		// draw raster position if paused
		if eg.state == gui.StatePaused {
			v := uint8((math.Sin(float64(eg.cursorFrame/10))*0.5 + 0.5) * 255)
			c := color.RGBA{R: v, G: v, B: v, A: 255}
			for x := range eg.width {
				screen.Set(x, eg.cursor[1], c)
			}
			screen.Set(eg.cursor[0], eg.cursor[1]+1, c)
			screen.Set(eg.cursor[0]+1, eg.cursor[1]+1, c)
		}
	}

	eg.geom.X, eg.geom.Y = ebiten.WindowPosition()
	eg.geom.W, eg.geom.H = ebiten.WindowSize()
}

func (eg *guiEbiten) Layout(width, height int) (int, int) {
	if eg.main != nil {
		return eg.width, eg.height
	}
	return width, height
}

// Launch opens the window and runs until endGui is signalled or the window is
// closed. Must be called from the main goroutine
func Launch(endGui chan bool, g *gui.GUI) error {
	ebiten.SetWindowTitle(version.Title())
	ebiten.SetVsyncEnabled(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowPosition(10, 10)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	eg := &guiEbiten{
		endGui: endGui,
		g:      g,
		state:  gui.StateRunning,
	}

	// wait for the first state change and a possible quit request
	select {
	case eg.state = <-g.State:
	case <-endGui:
		return nil
	}

	var err error

	eg.geom, err = onWindowOpen()
	if err != nil {
		logger.Log(logger.Allow, "gui", err.Error())
	}

	defer func() {
		err := onWindowClose(eg.geom)
		if err != nil {
			logger.Log(logger.Allow, "gui", err.Error())
		}
	}()

	return ebiten.RunGame(eg)
}
