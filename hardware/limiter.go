package hardware

import (
	"time"

	"github.com/jetsetilly/directvga/hardware/spec"
)

type limiter struct {
	tick  *time.Ticker
	nudge chan bool

	// the payload function for the Wait() method
	wait func()
}

func newLimiter(timings spec.Timings) *limiter {
	l := &limiter{
		nudge: make(chan bool, 1),
	}

	// one tick per frame
	d := timings.FrameDuration()

	// the wait() function deliberately starts slow and then changes state
	// after a few nudges to normal operation. this gives the display time to
	// settle after a mode change
	var ct int
	l.wait = func() {
		select {
		case <-time.After(time.Duration(float64(d) * 1.025)):
		case <-l.nudge:
			ct++
			if ct > 2 {
				l.tick = time.NewTicker(d)
				l.wait = func() {
					select {
					case <-l.tick.C:
					case <-l.nudge:
					}
				}
			}
		}
	}

	return l
}

func (l *limiter) Wait() {
	l.wait()
}

func (l *limiter) Nudge() {
	select {
	case l.nudge <- true:
	default:
	}
}

func (l *limiter) Stop() {
	if l.tick != nil {
		l.tick.Stop()
	}
}
