package memory_test

import (
	"testing"

	"github.com/jetsetilly/directvga/hardware/memory"
	"github.com/jetsetilly/directvga/test"
)

func TestMallocFree(t *testing.T) {
	h := memory.NewHeap(1024)

	a, err := h.Malloc("a", 512, memory.CapDMA)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, a.Len(), 512)
	test.ExpectEquality(t, a.Label(), "a")

	b, err := h.Malloc("b", 512, memory.CapDMA|memory.Cap8Bit)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, b.Caps().String(), "DMA|8BIT")

	_, err = h.Malloc("c", 1, memory.CapDMA)
	test.ExpectError(t, err, memory.ErrNoMem)

	st := h.Stats()
	test.ExpectEquality(t, st.Used, 1024)
	test.ExpectEquality(t, st.Live, 2)
	test.ExpectEquality(t, st.Allocs, 2)

	test.ExpectSuccess(t, h.Free(a))
	test.ExpectError(t, h.Free(a), memory.ErrBadFree)
	test.ExpectError(t, h.Free(nil), memory.ErrBadFree)

	st = h.Stats()
	test.ExpectEquality(t, st.Used, 512)
	test.ExpectEquality(t, st.Live, 1)
	test.ExpectEquality(t, st.Frees, 1)
	test.ExpectEquality(t, len(h.Blocks()), 1)
}

func TestForeignFree(t *testing.T) {
	h1 := memory.NewHeap(64)
	h2 := memory.NewHeap(64)
	a, err := h1.Malloc("a", 16, memory.CapDMA)
	test.DemandSuccess(t, err)
	test.ExpectError(t, h2.Free(a), memory.ErrBadFree)
}

func TestFailAfter(t *testing.T) {
	h := memory.NewHeap(1024)
	h.FailAfter(1)

	_, err := h.Malloc("a", 8, memory.CapDMA)
	test.ExpectSuccess(t, err)
	_, err = h.Malloc("b", 8, memory.CapDMA)
	test.ExpectError(t, err, memory.ErrNoMem)

	h.FailAfter(-1)
	_, err = h.Malloc("c", 8, memory.CapDMA)
	test.ExpectSuccess(t, err)
}

func TestBlockString(t *testing.T) {
	h := memory.NewHeap(64)
	b, err := h.Malloc("a", 18, memory.CapDMA)
	test.DemandSuccess(t, err)
	b.Data[0] = 0xff
	test.ExpectEquality(t, b.String(),
		"0000 : ff 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00\n0010 : 00 00")
}
