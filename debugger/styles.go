package debugger

import "github.com/charmbracelet/lipgloss"

type styles struct {
	video    lipgloss.Style
	mem      lipgloss.Style
	chain    lipgloss.Style
	perf     lipgloss.Style
	overrun  lipgloss.Style
	err      lipgloss.Style
	debugger lipgloss.Style
	help     lipgloss.Style
}

// ANSI Color reference
// 0	Black
// 1	Red
// 2	Green
// 3	Yellow
// 4	Blue
// 5	Magenta
// 6	Cyan
// 7	White
// 8	Bright Black (Gray)
// 9	Bright Red
// 10	Bright Green
// 11	Bright Yellow
// 12	Bright Blue
// 13	Bright Magenta
// 14	Bright Cyan
// 15	Bright White

func newStyles() styles {
	return styles{
		video:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(6)),
		mem:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(5)),
		chain:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(4)),
		perf:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		overrun:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)),
		err:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		debugger: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(2)),
		help:     lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
	}
}
