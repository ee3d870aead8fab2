package spec

import "strings"

// Preset video modes. The values are taken from the common VESA/XFree86
// modelines with the vertical values of the double scan modes halved
var (
	VGA640x480 = Timings{
		Label:        "640x480@60Hz",
		Frequency:    25175000,
		HVisibleArea: 640,
		HFrontPorch:  16,
		HSyncPulse:   96,
		HBackPorch:   48,
		VVisibleArea: 480,
		VFrontPorch:  10,
		VSyncPulse:   2,
		VBackPorch:   33,
		HSyncLogic:   NegativeSync,
		VSyncLogic:   NegativeSync,
		ScanCount:    1,
	}

	VGA640x240 = Timings{
		Label:        "640x240@60Hz",
		Frequency:    25175000,
		HVisibleArea: 640,
		HFrontPorch:  16,
		HSyncPulse:   96,
		HBackPorch:   48,
		VVisibleArea: 240,
		VFrontPorch:  5,
		VSyncPulse:   1,
		VBackPorch:   16,
		HSyncLogic:   NegativeSync,
		VSyncLogic:   NegativeSync,
		ScanCount:    2,
	}

	QVGA320x240 = Timings{
		Label:        "320x240@60Hz",
		Frequency:    12600000,
		HVisibleArea: 320,
		HFrontPorch:  8,
		HSyncPulse:   48,
		HBackPorch:   24,
		VVisibleArea: 240,
		VFrontPorch:  5,
		VSyncPulse:   1,
		VBackPorch:   16,
		HSyncLogic:   NegativeSync,
		VSyncLogic:   NegativeSync,
		ScanCount:    2,
	}

	VGA512x384 = Timings{
		Label:        "512x384@60Hz",
		Frequency:    32500000,
		HVisibleArea: 512,
		HFrontPorch:  12,
		HSyncPulse:   68,
		HBackPorch:   72,
		VVisibleArea: 384,
		VFrontPorch:  1,
		VSyncPulse:   3,
		VBackPorch:   15,
		HSyncLogic:   NegativeSync,
		VSyncLogic:   NegativeSync,
		ScanCount:    1,
	}
)

// Presets lists all preset timings
var Presets = []Timings{VGA640x480, VGA640x240, QVGA320x240, VGA512x384}

// SearchPreset returns the preset with the matching label. The search is case
// insensitive and the refresh rate part of the label ("@60Hz") is optional
func SearchPreset(label string) (Timings, bool) {
	label = strings.ToUpper(label)
	for _, p := range Presets {
		l := strings.ToUpper(p.Label)
		if l == label {
			return p, true
		}
		if base, _, ok := strings.Cut(l, "@"); ok && base == label {
			return p, true
		}
	}
	return Timings{}, false
}
