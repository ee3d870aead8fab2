package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/directvga/hardware/display"
	"github.com/jetsetilly/directvga/hardware/pixel"
	"github.com/jetsetilly/directvga/hardware/spec"
	"github.com/jetsetilly/directvga/logger"
)

var help = []string{
	"RUN                          run until interrupted",
	"STEP [LINE|FRAME n]          step one line or n lines/frames",
	"STEP SCANLINE n              step until scanline n has been rendered",
	"STEP VSYNC|INTERRUPT         step until the next vsync or interrupt",
	"START, END                   start or end video output",
	"STATUS                       state of the controller and monitor",
	"MODE [preset [viewport]]     list presets or change mode",
	"LINES [n]                    show or set scanlines per callback",
	"PATTERN [name|NEXT|PREV]     list patterns or change pattern",
	"CHAIN [ALL]                  descriptor chain summary",
	"POOL                         line pool and heap allocations",
	"READ x y [w h]               read back screen pixels",
	"SAVE [filename]              save monitor frame as PNG",
	"PERF [ON|OFF]                interrupt handler performance",
	"RECENT [n]                   recent interrupt handler measurements",
	"LOG                          show log",
	"QUIT",
}

// the maximum number of pixels printed by the READ command
const maxRead = 64

// returns true if debugger is to quit
func (m *debugger) commands(cmd []string) bool {
	if len(cmd) == 0 {
		return false
	}

	switch strings.ToUpper(cmd[0]) {
	case "R", "RUN":
		return m.run()

	case "ST", "STEP":
		if len(cmd) > 1 {
			if !m.parseStepRule(cmd[1:]) {
				break // switch
			}
		}
		return m.step()

	case "START":
		err := m.board.VGA.Run()
		if err != nil {
			m.printErr(err)
			break // switch
		}
		fmt.Fprintln(m.out, m.styles.video.Render(m.board.VGA.String()))

	case "END":
		err := m.board.VGA.End()
		if err != nil {
			m.printErr(err)
			break // switch
		}
		fmt.Fprintln(m.out, m.styles.debugger.Render("output ended. use MODE to reconfigure"))

	case "STATUS":
		fmt.Fprintln(m.out, m.styles.video.Render(m.board.VGA.String()))
		fmt.Fprintln(m.out, m.styles.video.Render(m.status()))
		fmt.Fprintln(m.out, m.styles.video.Render(
			fmt.Sprintf("lines transmitted=%d interrupts=%d monitor frames=%d sync errors=%d",
				m.board.HW.DMA.Lines(), m.board.HW.DMA.EOFs(),
				m.board.Monitor.Frames(), m.board.Monitor.SyncErrors()),
		))
		if m.board.VGA.Configured() {
			fmt.Fprintln(m.out, m.styles.video.Render(m.board.VGA.Timings().String()))
		}

	case "MODE":
		if len(cmd) == 1 {
			cur := m.board.VGA.Timings().Label
			for _, p := range spec.Presets {
				s := p.Label
				if s == cur {
					s = fmt.Sprintf("%s *", s)
				}
				fmt.Fprintln(m.out, m.styles.video.Render(s))
			}
			break // switch
		}

		timings, ok := spec.SearchPreset(cmd[1])
		if !ok {
			m.printErr(fmt.Errorf("unknown mode: %s", cmd[1]))
			break // switch
		}

		w, h := -1, -1
		if len(cmd) > 2 {
			var err error
			w, h, err = parseViewport(cmd[2])
			if err != nil {
				m.printErr(err)
				break // switch
			}
		}

		err := m.setMode(timings, w, h)
		if err != nil {
			m.printErr(err)
			break // switch
		}
		m.pushFrame()
		fmt.Fprintln(m.out, m.styles.video.Render(m.board.VGA.String()))

	case "LINES":
		if len(cmd) == 1 {
			fmt.Fprintln(m.out, m.styles.video.Render(
				fmt.Sprintf("%d scanlines per callback", m.board.VGA.ScanlinesPerCallBack()),
			))
			break // switch
		}

		n, err := strconv.Atoi(cmd[1])
		if err != nil {
			m.printErr(fmt.Errorf("%s is not a number", cmd[1]))
			break // switch
		}

		m.setLines(n)

	case "PATTERN":
		if len(cmd) == 1 {
			for i, p := range m.patterns {
				s := p.Label()
				if i == m.pattern {
					s = fmt.Sprintf("%s *", s)
				}
				fmt.Fprintln(m.out, m.styles.video.Render(s))
			}
			break // switch
		}

		switch strings.ToUpper(cmd[1]) {
		case "NEXT":
			m.setPattern(m.pattern + 1)
		case "PREV":
			m.setPattern(m.pattern - 1)
		default:
			found := false
			for i, p := range m.patterns {
				if strings.EqualFold(p.Label(), cmd[1]) {
					m.setPattern(i)
					found = true
					break // for loop
				}
			}
			if !found {
				m.printErr(fmt.Errorf("unknown pattern: %s", cmd[1]))
				break // switch
			}
		}
		fmt.Fprintln(m.out, m.styles.video.Render(
			fmt.Sprintf("pattern: %s", m.patterns[m.pattern].Label()),
		))

	case "CHAIN":
		c := m.board.VGA.Chain()
		if c == nil {
			m.printErr(fmt.Errorf("no descriptor chain"))
			break // switch
		}
		s := c.String()
		if len(cmd) < 2 || strings.ToUpper(cmd[1]) != "ALL" {
			s, _, _ = strings.Cut(s, "\n")
			s = fmt.Sprintf("%s\nframe reset descriptor: %d", s, m.board.VGA.FrameResetDescriptor())
		}
		fmt.Fprintln(m.out, m.styles.chain.Render(s))

	case "POOL":
		p := m.board.VGA.Pool()
		if p.Allocated() {
			fmt.Fprintln(m.out, m.styles.mem.Render(
				fmt.Sprintf("%d line buffers of %d bytes", p.Count(), p.Width()),
			))
		} else {
			fmt.Fprintln(m.out, m.styles.mem.Render("line pool not allocated"))
		}
		fmt.Fprintln(m.out, m.styles.mem.Render(m.board.HW.Heap.Stats().String()))
		for _, b := range m.board.HW.Heap.Blocks() {
			fmt.Fprintln(m.out, m.styles.mem.Render(b))
		}

	case "READ":
		m.read(cmd[1:])

	case "SAVE":
		m.save(cmd[1:])

	case "PERF":
		if len(cmd) > 1 {
			switch strings.ToUpper(cmd[1]) {
			case "ON":
				m.setPerf(true)
			case "OFF":
				m.setPerf(false)
			default:
				m.printErr(fmt.Errorf("unrecognised argument for PERF command: %s", cmd[1]))
				break // switch
			}
		}
		fmt.Fprintln(m.out, m.styles.perf.Render(m.board.VGA.Performance().String()))

	case "RECENT":
		n := 10
		if len(cmd) == 2 {
			var err error
			n, err = strconv.Atoi(cmd[1])
			if err != nil {
				m.printErr(fmt.Errorf("cannot use RECENT %s", cmd[1]))
				break // switch
			}
		}
		l := m.recent.last(n)
		if len(l) == 0 {
			fmt.Fprintln(m.out, m.styles.perf.Render("no measurements. use PERF ON"))
		}
		for _, e := range l {
			if e.overrun {
				fmt.Fprintln(m.out, m.styles.overrun.Render(e.String()))
			} else {
				fmt.Fprintln(m.out, m.styles.perf.Render(e.String()))
			}
		}

	case "LOG":
		logger.Tail(m.out, -1)

	case "HELP":
		for _, h := range help {
			fmt.Fprintln(m.out, m.styles.help.Render(h))
		}

	case "QUIT":
		return true

	default:
		fmt.Fprintln(m.out, m.styles.err.Render(
			fmt.Sprintf("unrecognised command: %s", strings.Join(cmd, " ")),
		))
	}

	return false
}

// the number of scanlines per callback can only be changed when the
// controller is not configured. output is ended and the current mode is
// restored with the new setting
func (m *debugger) setLines(n int) {
	timings := m.board.VGA.Timings()
	vp := m.board.VGA.Viewport()
	configured := m.board.VGA.Configured()
	prev := m.board.VGA.ScanlinesPerCallBack()

	err := m.board.VGA.End()
	if err != nil {
		m.printErr(err)
		return
	}

	err = m.board.VGA.SetScanlinesPerCallBack(n)
	if err != nil {
		m.printErr(err)
		n = prev
	}

	if configured {
		err = m.setMode(timings, vp.Width, vp.Height)
		if err != nil {
			m.printErr(err)

			// the viewport may not suit the new value. try again with the
			// previous value
			if n != prev {
				_ = m.board.VGA.SetScanlinesPerCallBack(prev)
				err = m.setMode(timings, vp.Width, vp.Height)
				if err != nil {
					m.printErr(err)
					return
				}
			}
		}
	}

	fmt.Fprintln(m.out, m.styles.video.Render(
		fmt.Sprintf("%d scanlines per callback", m.board.VGA.ScanlinesPerCallBack()),
	))
}

func (m *debugger) read(args []string) {
	if len(args) != 2 && len(args) != 4 {
		m.printErr(fmt.Errorf("READ requires an x and y coordinate and an optional width and height"))
		return
	}

	v := make([]int, len(args))
	for i, a := range args {
		var err error
		v[i], err = strconv.Atoi(a)
		if err != nil {
			m.printErr(fmt.Errorf("%s is not a number", a))
			return
		}
	}

	w, h := 1, 1
	if len(v) == 4 {
		w, h = v[2], v[3]
	}
	if w < 1 || h < 1 || w*h > maxRead {
		m.printErr(fmt.Errorf("READ area must be between 1 and %d pixels", maxRead))
		return
	}

	rect := display.Rect{X1: v[0], Y1: v[1], X2: v[0] + w - 1, Y2: v[1] + h - 1}
	dest := make([]pixel.RGB888, rect.Area())
	err := m.board.VGA.ReadScreen(rect, dest)
	if err != nil {
		m.printErr(err)
		return
	}

	for y := range h {
		var s strings.Builder
		fmt.Fprintf(&s, "%4d:", rect.Y1+y)
		for x := range w {
			c := dest[y*w+x]
			fmt.Fprintf(&s, " %02x%02x%02x", c.R, c.G, c.B)
		}
		fmt.Fprintln(m.out, m.styles.video.Render(s.String()))
	}
}
