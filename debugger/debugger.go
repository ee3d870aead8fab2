package debugger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/jetsetilly/directvga/demo"
	"github.com/jetsetilly/directvga/gui"
	"github.com/jetsetilly/directvga/hardware"
	"github.com/jetsetilly/directvga/hardware/spec"
	"github.com/jetsetilly/directvga/logger"
	"github.com/jetsetilly/directvga/version"
	"golang.org/x/term"
)

type input struct {
	s   string
	err error
}

type debugger struct {
	opts Options

	guiQuit chan bool
	sig     chan os.Signal
	input   chan input

	g *gui.GUI

	board    *hardware.Board
	renderer *demo.Renderer
	patterns []demo.Pattern
	pattern  int

	// number of frames completed since the debugger started
	frame int

	// recent measurements of the interrupt handler. only filled when the
	// performance check is enabled
	recent recent

	// rule for stepping. by default (the field is nil) the step will move
	// forward one line
	stepRule func() bool
	postStep func()

	// the prompt is only printed if stdin is a terminal
	interactive bool

	out    io.Writer
	styles styles
}

func newDebugger(opts Options, guiQuit chan bool, g *gui.GUI, out io.Writer) (*debugger, error) {
	m := &debugger{
		opts:    opts,
		guiQuit: guiQuit,
		sig:     make(chan os.Signal, 1),
		input:   make(chan input, 1),
		g:       g,
		out:     out,
		styles:  newStyles(),
	}

	m.patterns = demo.Patterns()
	m.pattern = -1
	for i, p := range m.patterns {
		if strings.EqualFold(p.Label(), opts.Pattern) {
			m.pattern = i
			break // for loop
		}
	}
	if m.pattern == -1 {
		return nil, fmt.Errorf("unknown pattern: %s", opts.Pattern)
	}
	m.renderer = demo.NewRenderer(m.patterns[m.pattern])

	timings, err := opts.Timings()
	if err != nil {
		return nil, err
	}
	w, h, err := opts.ViewportSize()
	if err != nil {
		return nil, err
	}

	m.board, err = hardware.Create(opts.Config())
	if err != nil {
		return nil, err
	}

	err = m.board.VGA.SetDrawScanlineCallback(demo.DrawScanline, m.renderer)
	if err == nil {
		err = m.board.VGA.SetScanlinesPerCallBack(opts.Lines)
	}
	if err != nil {
		_ = m.board.Close()
		return nil, err
	}
	m.setPerf(opts.Perf)

	err = m.setMode(timings, w, h)
	if err != nil {
		_ = m.board.Close()
		return nil, err
	}

	return m, nil
}

func (m *debugger) close() {
	err := m.board.Close()
	if err != nil {
		logger.Log(logger.Allow, "debugger", err)
	}
}

// setMode configures the controller and prepares the renderer for the new
// viewport
func (m *debugger) setMode(timings spec.Timings, width int, height int) error {
	err := m.board.SetResolution(timings, width, height, false)
	if err != nil {
		return err
	}
	m.setupRenderer()
	return nil
}

func (m *debugger) setupRenderer() {
	vp := m.board.VGA.Viewport()
	m.renderer.Setup(vp.Width, vp.Height, m.board.VGA.CreateRawPixel)
}

func (m *debugger) setPattern(idx int) {
	n := len(m.patterns)
	m.pattern = ((idx % n) + n) % n
	m.renderer.SetPattern(m.patterns[m.pattern])
	if m.board.VGA.Configured() {
		m.setupRenderer()
	}
}

func (m *debugger) setPerf(enabled bool) {
	m.recent.reset()
	if !enabled {
		m.board.VGA.SetPerformanceCheck(false, nil)
		return
	}
	m.board.VGA.SetPerformanceCheck(true, func(cycles uint64, overrun bool) {
		m.recent.add(measurement{frame: m.frame, cycles: cycles, overrun: overrun})
	})
}

func (m *debugger) imageID() string {
	vp := m.board.VGA.Viewport()
	return fmt.Sprintf("%s %dx%d", m.board.VGA.Timings().Label, vp.Width, vp.Height)
}

// pushFrame sends the most recent monitor frame to the front end. Nothing is
// sent if the front end is still busy with the previous frame
func (m *debugger) pushFrame() {
	if len(m.g.SetImage) == cap(m.g.SetImage) {
		return
	}

	img := m.board.Frame()
	if img == nil {
		return
	}

	var y int
	if c := m.board.VGA.Chain(); c != nil {
		y = (c.Y + m.board.VGA.ScanLine()) * max(m.board.VGA.Timings().ScanCount, 1)
	}

	m.g.Send(gui.Image{
		Main:   gui.Clone(img),
		Cursor: [2]int{0, y},
		ID:     m.imageID(),
	})
}

// endFrame is called whenever a complete frame has been transmitted
func (m *debugger) endFrame() {
	m.frame++
	m.renderer.Tick()
	m.pushFrame()
}

func (m *debugger) printErr(err error) {
	fmt.Fprintln(m.out, m.styles.err.Render(err.Error()))
}

// step advances the output by one line, or until the step rule is satisfied.
// the step rule is reset after the step has completed
//
// returns true if quit signal has been received
func (m *debugger) step() bool {
	if !m.board.VGA.Running() {
		m.printErr(hardware.ErrNotRunning)
		m.stepRule = nil
		m.postStep = nil
		return false
	}

	// the number of lines stepped over
	var ct int

	// loop until the step rule returns true
	var done bool
	for !done {
		select {
		case <-m.sig:
			done = true
			continue // for loop
		case <-m.guiQuit:
			return true
		default:
		}

		if !m.board.Step() {
			m.printErr(hardware.ErrNotRunning)
			break // for loop
		}

		if m.board.HW.DMA.Current() == 0 {
			m.endFrame()
		}

		// apply step rule
		if m.stepRule == nil {
			done = true
		} else {
			done = m.stepRule()
		}

		ct++
	}

	// always send the current state of the monitor when stepping
	m.pushFrame()

	// report how many lines were stepped if it is more than one
	if ct > 1 {
		fmt.Fprintln(m.out, m.styles.debugger.Render(
			fmt.Sprintf("%d lines stepped", ct),
		))
	}

	if m.postStep == nil {
		fmt.Fprintln(m.out, m.styles.video.Render(m.status()))
	} else {
		m.postStep()
	}

	m.stepRule = nil
	m.postStep = nil

	return false
}

// a short description of the output position
func (m *debugger) status() string {
	d := m.board.HW.DMA
	return fmt.Sprintf("frame=%d desc=%d scanline=%d vsync=%v",
		m.frame, d.Current(), m.board.VGA.ScanLine(), m.board.VGA.VSync())
}

// returns true if quit signal has been received
func (m *debugger) run() bool {
	if !m.board.VGA.Running() {
		m.printErr(hardware.ErrNotRunning)
		return false
	}

	fmt.Fprintln(m.out, m.styles.debugger.Render("output running"))

	var frameCt int
	var startTime time.Time

	// sentinal errors to end the run
	var (
		endRunErr = errors.New("end run")
		quitErr   = errors.New("quit")
	)

	// hook is called after every frame
	hook := func() error {
		select {
		case <-m.sig:
			return endRunErr
		case <-m.guiQuit:
			return quitErr
		case inp := <-m.g.UserInput:
			switch inp.Action {
			case gui.Pause:
				return endRunErr
			case gui.Quit:
				return quitErr
			case gui.NextPattern:
				m.setPattern(m.pattern + 1)
			case gui.PrevPattern:
				m.setPattern(m.pattern - 1)
			case gui.Screenshot:
				m.save(nil)
			}
		case cmd := <-m.g.Commands:
			if len(cmd) > 0 && strings.ToUpper(cmd[0]) == "SAVE" {
				m.save(cmd[1:])
			} else {
				logger.Logf(logger.Allow, "debugger", "%s ignored while running", strings.Join(cmd, " "))
			}
		default:
		}

		m.endFrame()
		frameCt++

		return nil
	}

	startTime = time.Now()

	m.g.SetState(gui.StateRunning)
	err := m.board.Run(nil, hook)
	m.g.SetState(gui.StatePaused)

	if errors.Is(err, quitErr) {
		return true
	}

	m.pushFrame()

	if errors.Is(err, endRunErr) {
		fmt.Fprintln(m.out, m.styles.debugger.Render(
			fmt.Sprintf("%d frames in %.02f seconds", frameCt, time.Since(startTime).Seconds())),
		)
	} else if err != nil {
		m.printErr(err)
	}

	fmt.Fprintln(m.out, m.styles.video.Render(m.status()))

	return false
}

// translate user input from the front end into a command. returns nil if the
// input has no equivalent command
func inputCommand(inp gui.Input) []string {
	switch inp.Action {
	case gui.Pause:
		return []string{"RUN"}
	case gui.StepFrame:
		return []string{"STEP", "FRAME"}
	case gui.NextPattern:
		return []string{"PATTERN", "NEXT"}
	case gui.PrevPattern:
		return []string{"PATTERN", "PREV"}
	case gui.Screenshot:
		return []string{"SAVE"}
	case gui.Quit:
		return []string{"QUIT"}
	}
	return nil
}

func (m *debugger) loop() {
	for {
		if m.interactive {
			fmt.Fprintf(m.out, "%s> ", m.prompt())
		}

		var cmd []string

		select {
		case input := <-m.input:
			if input.err != nil {
				if !errors.Is(input.err, io.EOF) {
					m.printErr(input.err)
				}
				return
			}
			cmd = strings.Fields(input.s)
			if len(cmd) == 0 {
				cmd = []string{"STEP"}
			}
		case cmd = <-m.g.Commands:
		case inp := <-m.g.UserInput:
			cmd = inputCommand(inp)
			if cmd == nil {
				continue // for loop
			}
			if m.interactive {
				fmt.Fprintln(m.out, strings.Join(cmd, " "))
			}
		case <-m.sig:
			fmt.Fprint(m.out, "\r")
			return
		case <-m.guiQuit:
			fmt.Fprint(m.out, "\n")
			return
		}

		if m.commands(cmd) {
			return
		}
	}
}

func (m *debugger) prompt() string {
	if !m.board.VGA.Configured() {
		return "[unconfigured]"
	}
	return fmt.Sprintf("[%d %d]", m.frame, m.board.VGA.ScanLine())
}

// Launch the debugger. The function returns when the user quits or when guiQuit
// is signalled
func Launch(guiQuit chan bool, g *gui.GUI, opts Options) error {
	m, err := newDebugger(opts, guiQuit, g, os.Stdout)
	if err != nil {
		return err
	}
	defer m.close()

	g.UpdateGUI = func() error {
		m.board.Nudge()
		return nil
	}

	signal.Notify(m.sig, syscall.SIGINT)
	defer signal.Stop(m.sig)

	// the terminal front end owns stdin
	if opts.GUI != "terminal" {
		m.interactive = term.IsTerminal(int(os.Stdin.Fd()))

		go func() {
			r := bufio.NewReader(os.Stdin)
			for {
				s, err := r.ReadString('\n')
				m.input <- input{
					s:   strings.TrimSpace(s),
					err: err,
				}
				if err != nil {
					return
				}
			}
		}()
	}

	fmt.Fprintln(m.out, m.styles.debugger.Render(version.Title()))
	fmt.Fprintln(m.out, m.styles.video.Render(m.board.VGA.String()))

	if opts.Profile {
		f, err := os.Create("cpu.profile")
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer func() {
			err := f.Close()
			if err != nil {
				logger.Log(logger.Allow, "performance", err)
			}
		}()

		err = pprof.StartCPUProfile(f)
		if err != nil {
			return fmt.Errorf("performance: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	// the front end waits for the first state before opening
	g.SetState(gui.StatePaused)
	m.pushFrame()

	if opts.Run {
		if m.run() {
			return nil
		}
	}

	m.loop()

	return nil
}
