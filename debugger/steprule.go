package debugger

import (
	"fmt"
	"strconv"
	"strings"
)

// parse an optional count argument. the count must be greater than zero
func parseCount(cmd []string, def int) (int, error) {
	if len(cmd) < 2 {
		return def, nil
	}
	n, err := strconv.Atoi(cmd[1])
	if err != nil {
		return 0, fmt.Errorf("%s is not a number", cmd[1])
	}
	if n < 1 {
		return 0, fmt.Errorf("%d is not a valid count", n)
	}
	return n, nil
}

func (m *debugger) parseStepRule(cmd []string) bool {
	rule := strings.ToUpper(cmd[0])

	switch rule {
	case "LINE", "L":
		n, err := parseCount(cmd, 1)
		if err != nil {
			fmt.Fprintln(m.out, m.styles.err.Render(err.Error()))
			return false
		}
		m.stepRule = func() bool {
			n--
			return n <= 0
		}

	case "FRAME", "FR":
		n, err := parseCount(cmd, 1)
		if err != nil {
			fmt.Fprintln(m.out, m.styles.err.Render(err.Error()))
			return false
		}
		tgt := m.frame + n
		m.stepRule = func() bool {
			return m.frame >= tgt
		}

	case "SCANLINE", "SL":
		if len(cmd) < 2 {
			fmt.Fprintln(m.out, m.styles.err.Render("STEP SCANLINE requires a scanline number"))
			return false
		}
		tgt, err := strconv.Atoi(cmd[1])
		if err != nil {
			fmt.Fprintln(m.out, m.styles.err.Render(fmt.Sprintf("%s is not a number", cmd[1])))
			return false
		}
		h := m.board.VGA.Viewport().Height
		if tgt < 0 || tgt >= h {
			fmt.Fprintln(m.out, m.styles.err.Render(fmt.Sprintf("SCANLINE %d is outside the viewport", tgt)))
			return false
		}
		limit := m.frame + 2
		m.stepRule = func() bool {
			return m.board.VGA.ScanLine() == tgt || m.frame >= limit
		}

	case "VSYNC", "VS":
		// steps until the vsync flag is raised. if the flag is already
		// raised then step until the next frame's flag
		wait := m.board.VGA.VSync()
		limit := m.frame + 2
		m.stepRule = func() bool {
			v := m.board.VGA.VSync()
			if wait {
				wait = v
				return false
			}
			return v || m.frame >= limit
		}

	case "INTERRUPT", "INTR":
		eofs := m.board.HW.DMA.EOFs()
		m.stepRule = func() bool {
			return m.board.HW.DMA.EOFs() != eofs
		}
		m.postStep = func() {
			fmt.Fprintln(m.out, m.styles.video.Render(m.status()))
			fmt.Fprintln(m.out, m.styles.chain.Render(
				fmt.Sprintf("interrupt raised by descriptor %d", m.board.HW.DMA.OutEOFDesc()),
			))
		}

	default:
		fmt.Fprintln(m.out, m.styles.err.Render(
			fmt.Sprintf("STEP %s is unsupported", rule),
		))
		return false
	}

	return true
}
