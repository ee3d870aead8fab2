package hardware_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/directvga/hardware"
	"github.com/jetsetilly/directvga/hardware/direct"
	"github.com/jetsetilly/directvga/hardware/pixel"
	"github.com/jetsetilly/directvga/hardware/spec"
	"github.com/jetsetilly/directvga/test"
)

func TestBoard(t *testing.T) {
	b, err := hardware.Create(hardware.DefaultConfig)
	test.DemandSuccess(t, err)
	defer b.Close()

	_, err = hardware.Create(hardware.DefaultConfig)
	test.ExpectError(t, err, direct.ErrInstanceActive)

	test.ExpectEquality(t, b.Step(), false)
	test.ExpectError(t, b.StepFrame(), hardware.ErrNotRunning)

	b.VGA.SetDrawScanlineCallback(func(_ any, dest []byte, scanLine int) {
		v := b.VGA.CreateRawPixel(pixel.RGB222{G: 3})
		for i := range dest {
			dest[i] = v
		}
	}, nil)
	test.DemandSuccess(t, b.SetResolution(spec.QVGA320x240, -1, -1, false))
	b.SetLimit(false)

	var frames int
	done := errors.New("done")
	err = b.Run(make(chan bool), func() error {
		frames++
		if frames == 3 {
			return done
		}
		return nil
	})
	test.ExpectError(t, err, done)
	test.ExpectEquality(t, b.Steps(), uint64(spec.QVGA320x240.FrameSlots()*3))
	test.ExpectEquality(t, b.Monitor.Frames(), 2)
	test.ExpectEquality(t, b.Monitor.SyncErrors(), 0)

	img := b.Frame()
	test.ExpectEquality(t, img.Bounds().Dx(), 320)
	test.ExpectEquality(t, img.Bounds().Dy(), 480)
	test.ExpectEquality(t, img.RGBAAt(100, 100).G, 255)
}

func TestStop(t *testing.T) {
	b, err := hardware.Create(hardware.DefaultConfig)
	test.DemandSuccess(t, err)
	defer b.Close()

	b.VGA.SetDrawScanlineCallback(func(any, []byte, int) {}, nil)
	test.DemandSuccess(t, b.SetResolution(spec.VGA640x480, -1, -1, false))

	stop := make(chan bool, 1)
	stop <- true
	test.ExpectSuccess(t, b.Run(stop, func() error { return nil }))
	test.ExpectEquality(t, b.Steps(), 0)
}
