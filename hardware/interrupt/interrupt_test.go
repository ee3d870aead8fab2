package interrupt_test

import (
	"testing"

	"github.com/jetsetilly/directvga/hardware/interrupt"
	"github.com/jetsetilly/directvga/test"
)

func TestAlloc(t *testing.T) {
	c := interrupt.NewController(2, 2)

	_, err := c.AllocPinnedToCore(interrupt.SourceI2S1, interrupt.FlagLevel1, func(any) {}, nil, 2)
	test.ExpectError(t, err, interrupt.ErrBadCore)

	h, err := c.AllocPinnedToCore(interrupt.SourceI2S1, interrupt.FlagLevel1|interrupt.FlagIRAM, func(any) {}, nil, 1)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, h.Core(), 1)
	test.ExpectEquality(t, h.Level(), 1)
	test.ExpectEquality(t, h.Source(), interrupt.SourceI2S1)

	// one handler per source
	_, err = c.AllocPinnedToCore(interrupt.SourceI2S1, interrupt.FlagLevel1, func(any) {}, nil, 0)
	test.ExpectError(t, err, interrupt.ErrNoFreeSlot)

	// slots per core
	_, err = c.AllocPinnedToCore(interrupt.SourceUART0, interrupt.FlagLevel2, func(any) {}, nil, 1)
	test.ExpectSuccess(t, err)
	_, err = c.AllocPinnedToCore(interrupt.SourceRMT, interrupt.FlagLevel2, func(any) {}, nil, 1)
	test.ExpectError(t, err, interrupt.ErrNoFreeSlot)

	test.ExpectEquality(t, c.Installed(), 2)
	test.ExpectEquality(t, c.Allocs(), 2)

	test.ExpectSuccess(t, c.Free(h))
	test.ExpectError(t, c.Free(h), interrupt.ErrBadHandle)
	test.ExpectEquality(t, c.Installed(), 1)
	test.ExpectEquality(t, c.Frees(), 1)
}

func TestDispatch(t *testing.T) {
	c := interrupt.NewController(2, 4)

	var order []string
	handler := func(arg any) {
		order = append(order, arg.(string))
	}

	_, err := c.AllocPinnedToCore(interrupt.SourceI2S1, interrupt.FlagLevel1, handler, "video", 1)
	test.DemandSuccess(t, err)
	_, err = c.AllocPinnedToCore(interrupt.SourceRMT, interrupt.FlagLevel2, handler, "keyboard", 1)
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, c.Dispatch(), 0)

	c.Raise(interrupt.SourceI2S1)
	c.Raise(interrupt.SourceRMT)
	c.Raise(interrupt.SourceUART0)
	test.ExpectSuccess(t, c.Pending(interrupt.SourceI2S1))

	test.ExpectEquality(t, c.Dispatch(), 2)
	test.DemandEquality(t, len(order), 2)
	test.ExpectEquality(t, order[0], "keyboard")
	test.ExpectEquality(t, order[1], "video")

	// source without a handler remains pending
	test.ExpectFailure(t, c.Pending(interrupt.SourceI2S1))
	test.ExpectSuccess(t, c.Pending(interrupt.SourceUART0))

	h := c.Handles()
	test.ExpectEquality(t, h[0].Calls(), 1)
}

func TestBusiestCore(t *testing.T) {
	c := interrupt.NewController(2, 4)
	test.ExpectEquality(t, c.BusiestCore(), -1)
	c.SetBusiestCore(1)
	test.ExpectEquality(t, c.BusiestCore(), 1)
}
