package gui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jetsetilly/directvga/resources"
)

const geometryResource = "window"

// Geometry is the position and size of a front end window
type Geometry struct {
	X, Y int
	W, H int
}

func (g Geometry) Valid() bool {
	return g.X >= 0 && g.Y >= 0 && g.W > 0 && g.H > 0
}

func (g Geometry) String() string {
	return fmt.Sprintf("%d %d %d %d", g.X, g.Y, g.W, g.H)
}

// LoadGeometry returns the previously saved geometry. The zero Geometry is
// returned if nothing has been saved
func LoadGeometry() (Geometry, error) {
	var g Geometry

	pth, err := resources.JoinPath(geometryResource)
	if err != nil {
		return g, err
	}

	b, err := os.ReadFile(pth)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return g, nil
		}
		return g, err
	}
	if len(b) == 0 {
		return g, nil
	}

	_, err = fmt.Sscanf(string(b), "%d %d %d %d", &g.X, &g.Y, &g.W, &g.H)
	if err != nil {
		return Geometry{}, fmt.Errorf("geometry: %w", err)
	}

	return g, nil
}

// SaveGeometry writes the geometry for later retrieval by LoadGeometry. Invalid
// geometry is not saved
func SaveGeometry(g Geometry) error {
	if !g.Valid() {
		return nil
	}
	pth, err := resources.JoinPath(geometryResource)
	if err != nil {
		return err
	}
	return os.WriteFile(pth, []byte(g.String()), 0600)
}
