package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jetsetilly/directvga/gui"
)

func onWindowOpen() (gui.Geometry, error) {
	g, err := gui.LoadGeometry()
	if err != nil {
		return g, err
	}
	if g.Valid() {
		ebiten.SetWindowPosition(g.X, g.Y)
		ebiten.SetWindowSize(g.W, g.H)
	}
	return g, nil
}

func onWindowClose(g gui.Geometry) error {
	return gui.SaveGeometry(g)
}
