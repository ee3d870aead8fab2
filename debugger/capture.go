package debugger

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jetsetilly/directvga/resources"
)

const capturePath = "captures"

// save the most recent monitor frame as a PNG file. if no filename is given
// then a name is generated in the resources directory
func (m *debugger) save(args []string) {
	pth, err := m.capture(args)
	if err != nil {
		fmt.Fprintln(m.out, m.styles.err.Render(fmt.Sprintf("save: %s", err.Error())))
		return
	}
	fmt.Fprintln(m.out, m.styles.debugger.Render(fmt.Sprintf("saved %s", pth)))
}

func (m *debugger) capture(args []string) (string, error) {
	img := m.board.Frame()
	if img == nil || m.board.Monitor.Frames() == 0 {
		return "", fmt.Errorf("no frame has been received by the monitor")
	}

	var pth string
	if len(args) > 0 {
		pth = args[0]
		if !strings.HasSuffix(strings.ToLower(pth), ".png") {
			pth = fmt.Sprintf("%s.png", pth)
		}
	} else {
		name := fmt.Sprintf("%s_%s.png",
			strings.ReplaceAll(m.board.VGA.Timings().Label, "@", "_"),
			time.Now().Format("20060102_150405"))

		var err error
		pth, err = resources.JoinPath(capturePath, name)
		if err != nil {
			return "", err
		}
	}

	f, err := os.Create(pth)
	if err != nil {
		return "", err
	}

	err = png.Encode(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}

	return filepath.Clean(pth), nil
}
