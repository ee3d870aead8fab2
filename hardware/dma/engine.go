package dma

import "errors"

// Interrupt status bits of the output peripheral
const (
	IntOutDone uint32 = 1 << 10
	IntOutEOF  uint32 = 1 << 12
	IntAll     uint32 = 0xffffffff
)

// ErrNoChain is returned by Start() if there is no chain to stream
var ErrNoChain = errors.New("no descriptor chain")

// Sink receives every line transmitted by the Engine
type Sink interface {
	Line(lead []uint8, buf []uint8, trail []uint8)
}

// Engine streams a descriptor chain continuously. Each call to Step()
// consumes one descriptor
type Engine struct {
	chain   *Chain
	running bool
	current int

	intRaw  uint32
	intEna  uint32
	eofDesc int

	// called when an enabled interrupt is raised
	irq func()

	sink Sink

	lines uint64
	eofs  uint64
}

// NewEngine is the preferred method of initialisation for the Engine type
func NewEngine() *Engine {
	return &Engine{eofDesc: -1}
}

// AttachInterrupt sets the function that is called to raise the peripheral's
// interrupt line
func (e *Engine) AttachInterrupt(irq func()) {
	e.irq = irq
}

// AttachSink sets the destination for transmitted lines. A nil sink discards
// the lines
func (e *Engine) AttachSink(sink Sink) {
	e.sink = sink
}

// Start streaming the chain from the first descriptor
func (e *Engine) Start(chain *Chain) error {
	if chain == nil || len(chain.Descs) == 0 {
		return ErrNoChain
	}
	e.chain = chain
	e.current = 0
	e.running = true
	return nil
}

// Stop streaming. The chain is forgotten
func (e *Engine) Stop() {
	e.running = false
	e.chain = nil
	e.current = 0
}

// Running returns true if the engine is streaming
func (e *Engine) Running() bool {
	return e.running
}

// Current is the index of the next descriptor to be consumed
func (e *Engine) Current() int {
	return e.current
}

// Step consumes one descriptor. Returns false if the engine is not running
func (e *Engine) Step() bool {
	if !e.running {
		return false
	}

	d := &e.chain.Descs[e.current]
	if e.sink != nil {
		e.sink.Line(d.Lead, d.Buf, d.Trail)
	}
	e.lines++

	if d.EOF {
		e.eofDesc = e.current
		e.eofs++
		e.raise(IntOutEOF)
	}

	e.current = d.Next
	return true
}

func (e *Engine) raise(bits uint32) {
	e.intRaw |= bits
	if e.intRaw&e.intEna != 0 && e.irq != nil {
		e.irq()
	}
}

// IntStatus returns the masked interrupt status
func (e *Engine) IntStatus() uint32 {
	return e.intRaw & e.intEna
}

// ClearInt clears the interrupt status bits
func (e *Engine) ClearInt(bits uint32) {
	e.intRaw &^= bits
}

// EnableInt sets the interrupt enable bits
func (e *Engine) EnableInt(bits uint32) {
	e.intEna |= bits
}

// DisableInt clears the interrupt enable bits
func (e *Engine) DisableInt(bits uint32) {
	e.intEna &^= bits
}

// OutEOFDesc is the index of the descriptor that most recently raised an
// end-of-frame interrupt. The value is -1 if there has been no such interrupt
func (e *Engine) OutEOFDesc() int {
	return e.eofDesc
}

// Lines is the number of lines transmitted since the engine was created
func (e *Engine) Lines() uint64 {
	return e.lines
}

// EOFs is the number of end-of-frame events since the engine was created
func (e *Engine) EOFs() uint64 {
	return e.eofs
}
