package debugger

import (
	"flag"
	"fmt"
	"strings"

	"github.com/jetsetilly/directvga/hardware"
	"github.com/jetsetilly/directvga/hardware/spec"
)

const programName = "directvga"

// Options for the debugger session. Created with ParseArgs()
type Options struct {
	Mode     string
	Viewport string
	Lines    int
	AutoRun  bool
	Pattern  string
	Heap     int
	Core     int
	GUI      string
	Run      bool
	Perf     bool
	Profile  bool
}

// ParseArgs parses the command line arguments. Parsing errors cause the program
// to exit
func ParseArgs(args []string) (Options, error) {
	var opts Options

	flgs := flag.NewFlagSet(programName, flag.ExitOnError)
	flgs.StringVar(&opts.Mode, "mode", spec.QVGA320x240.Label, "display mode preset")
	flgs.StringVar(&opts.Viewport, "viewport", "full", "viewport size as WIDTHxHEIGHT or 'full'")
	flgs.IntVar(&opts.Lines, "lines", 1, "scanlines rendered per callback (power of two)")
	flgs.BoolVar(&opts.AutoRun, "autorun", true, "start video output as soon as the mode is set")
	flgs.StringVar(&opts.Pattern, "pattern", "bars", "demo pattern to draw")
	flgs.IntVar(&opts.Heap, "heap", hardware.DefaultConfig.HeapSize, "size of DMA capable heap in bytes")
	flgs.IntVar(&opts.Core, "core", hardware.DefaultConfig.Core, "core to pin the video interrupt to")
	flgs.StringVar(&opts.GUI, "gui", "ebiten", "front end: ebiten, terminal or none")
	flgs.BoolVar(&opts.Run, "run", false, "start running immediately")
	flgs.BoolVar(&opts.Perf, "perf", false, "measure interrupt handler performance")
	flgs.BoolVar(&opts.Profile, "profile", false, "create CPU profile")
	err := flgs.Parse(args)
	if err != nil {
		return opts, err
	}

	if flgs.NArg() > 0 {
		return opts, fmt.Errorf("too many arguments to debugger")
	}

	opts.GUI = strings.ToLower(opts.GUI)
	switch opts.GUI {
	case "ebiten", "terminal", "none":
	default:
		return opts, fmt.Errorf("unknown gui: %s", opts.GUI)
	}

	// the terminal front end takes over the terminal so there is no command
	// line. always run immediately
	if opts.GUI == "terminal" {
		opts.Run = true
	}

	return opts, nil
}

// Config returns the hardware configuration for the options
func (opts Options) Config() hardware.Config {
	return hardware.Config{
		HeapSize: opts.Heap,
		Core:     opts.Core,
		AutoRun:  opts.AutoRun,
	}
}

// Timings returns the timings named by the Mode field
func (opts Options) Timings() (spec.Timings, error) {
	t, ok := spec.SearchPreset(opts.Mode)
	if !ok {
		return t, fmt.Errorf("unknown mode: %s", opts.Mode)
	}
	return t, nil
}

// ViewportSize returns the width and height of the Viewport field. A size of -1
// means the full visible area
func (opts Options) ViewportSize() (int, int, error) {
	return parseViewport(opts.Viewport)
}

func parseViewport(s string) (int, int, error) {
	if strings.EqualFold(s, "full") || s == "" {
		return -1, -1, nil
	}
	var w, h int
	n, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &w, &h)
	if err != nil || n != 2 {
		return 0, 0, fmt.Errorf("viewport is not valid: %s", s)
	}
	return w, h, nil
}
