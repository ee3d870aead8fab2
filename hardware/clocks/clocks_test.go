package clocks_test

import (
	"testing"
	"time"

	"github.com/jetsetilly/directvga/hardware/clocks"
	"github.com/jetsetilly/directvga/test"
)

func TestCycles(t *testing.T) {
	test.ExpectEquality(t, clocks.Cycles(time.Microsecond), 240)
	test.ExpectEquality(t, clocks.Cycles(0), 0)
	test.ExpectEquality(t, clocks.Cycles(-time.Second), 0)
	test.ExpectEquality(t, clocks.Duration(240), time.Microsecond)
	test.ExpectEquality(t, clocks.Duration(clocks.Cycles(time.Millisecond)), time.Millisecond)
}
