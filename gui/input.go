package gui

type Action int

type Input struct {
	Action Action
	Data   any
}

const (
	Nothing Action = iota

	NextPattern
	PrevPattern
	Pause
	StepFrame
	Screenshot
	Quit
)

func (a Action) String() string {
	switch a {
	case Nothing:
		return "nothing"
	case NextPattern:
		return "next pattern"
	case PrevPattern:
		return "prev pattern"
	case Pause:
		return "pause"
	case StepFrame:
		return "step frame"
	case Screenshot:
		return "screenshot"
	case Quit:
		return "quit"
	}
	return "unknown"
}
