// Package interrupt models the interrupt matrix of a dual core
// microcontroller. Handlers are allocated to a source and pinned to one core.
// Sources are raised by peripherals and handlers are run when the controller
// is dispatched.
package interrupt

import (
	"errors"
	"fmt"
	"slices"
)

// Sentinel errors
var (
	ErrNoFreeSlot = errors.New("no free interrupt slot")
	ErrBadCore    = errors.New("no such core")
	ErrBadHandle  = errors.New("interrupt handle is not allocated")
)

// Source of an interrupt
type Source int

// List of valid Source values
const (
	SourceI2S0 Source = iota
	SourceI2S1
	SourceUART0
	SourceRMT
)

func (s Source) String() string {
	switch s {
	case SourceI2S0:
		return "I2S0"
	case SourceI2S1:
		return "I2S1"
	case SourceUART0:
		return "UART0"
	case SourceRMT:
		return "RMT"
	}
	return fmt.Sprintf("source%d", int(s))
}

// Flags used when allocating an interrupt
type Flags int

// List of valid Flags bits
const (
	FlagLevel1 Flags = 1 << (iota + 1)
	FlagLevel2
	FlagLevel3
	FlagIRAM
)

// Level returns the priority level encoded in the flags. The default level is
// one
func (f Flags) Level() int {
	switch {
	case f&FlagLevel3 == FlagLevel3:
		return 3
	case f&FlagLevel2 == FlagLevel2:
		return 2
	}
	return 1
}

// Handler is the function called when a source is dispatched
type Handler func(arg any)

// Handle is returned by AllocPinnedToCore and identifies the allocation
type Handle struct {
	source  Source
	flags   Flags
	core    int
	handler Handler
	arg     any
	calls   uint64
}

// Source returns the interrupt source of the handle
func (h *Handle) Source() Source {
	return h.source
}

// Core returns the core the handler is pinned to
func (h *Handle) Core() int {
	return h.core
}

// Level returns the priority level of the handler
func (h *Handle) Level() int {
	return h.flags.Level()
}

// Calls is the number of times the handler has been run
func (h *Handle) Calls() uint64 {
	return h.calls
}

func (h *Handle) String() string {
	return fmt.Sprintf("%s on core %d at level %d (%d calls)", h.source, h.core, h.Level(), h.calls)
}

// Controller is the interrupt matrix
type Controller struct {
	cores        int
	slotsPerCore int

	handles []*Handle
	pending map[Source]bool

	busiest int

	allocs int
	frees  int
}

// NewController is the preferred method of initialisation for the Controller
// type
func NewController(cores int, slotsPerCore int) *Controller {
	return &Controller{
		cores:        cores,
		slotsPerCore: slotsPerCore,
		pending:      make(map[Source]bool),
		busiest:      -1,
	}
}

// AllocPinnedToCore installs the handler for the source on the specified core.
// Only one handler can be allocated for a source
func (c *Controller) AllocPinnedToCore(source Source, flags Flags, handler Handler, arg any, core int) (*Handle, error) {
	if core < 0 || core >= c.cores {
		return nil, fmt.Errorf("%w: %d", ErrBadCore, core)
	}
	var n int
	for _, h := range c.handles {
		if h.source == source {
			return nil, fmt.Errorf("%w: %s already allocated", ErrNoFreeSlot, source)
		}
		if h.core == core {
			n++
		}
	}
	if n >= c.slotsPerCore {
		return nil, fmt.Errorf("%w: core %d", ErrNoFreeSlot, core)
	}

	h := &Handle{
		source:  source,
		flags:   flags,
		core:    core,
		handler: handler,
		arg:     arg,
	}
	c.handles = append(c.handles, h)
	c.allocs++
	return h, nil
}

// Free the handle. Any pending interrupt for the source is discarded
func (c *Controller) Free(h *Handle) error {
	i := slices.Index(c.handles, h)
	if i == -1 {
		return ErrBadHandle
	}
	c.handles = slices.Delete(c.handles, i, i+1)
	delete(c.pending, h.source)
	c.frees++
	return nil
}

// Raise marks the source as pending. The handler will be run on the next call
// to Dispatch()
func (c *Controller) Raise(source Source) {
	c.pending[source] = true
}

// Pending returns true if the source has been raised but not dispatched
func (c *Controller) Pending(source Source) bool {
	return c.pending[source]
}

// Dispatch runs the handlers of all pending sources, highest level first.
// Pending sources without a handler are left pending. Returns the number of
// handlers run
func (c *Controller) Dispatch() int {
	if len(c.pending) == 0 {
		return 0
	}

	var n int
	for level := 3; level >= 1; level-- {
		for _, h := range c.handles {
			if h.Level() != level || !c.pending[h.source] {
				continue
			}
			delete(c.pending, h.source)
			h.calls++
			h.handler(h.arg)
			n++
		}
	}
	return n
}

// SetBusiestCore records the core that is running the most CPU intensive
// tasks
func (c *Controller) SetBusiestCore(core int) {
	c.busiest = core
}

// BusiestCore returns the core recorded by SetBusiestCore() or -1
func (c *Controller) BusiestCore() int {
	return c.busiest
}

// Installed is the number of handlers currently allocated
func (c *Controller) Installed() int {
	return len(c.handles)
}

// Allocs is the number of successful calls to AllocPinnedToCore()
func (c *Controller) Allocs() int {
	return c.allocs
}

// Frees is the number of successful calls to Free()
func (c *Controller) Frees() int {
	return c.frees
}

// Handles returns the currently allocated handles
func (c *Controller) Handles() []*Handle {
	return slices.Clone(c.handles)
}
