package test

import (
	"errors"
	"testing"
)

// ExpectEquality is used to test equality between one value and another
func ExpectEquality[T comparable](t *testing.T, value T, expectedValue T) bool {
	t.Helper()
	if value != expectedValue {
		t.Errorf("equality test of type %T failed: '%v' does not equal '%v'", value, value, expectedValue)
		return false
	}
	return true
}

// DemandEquality is used to test equality between one value and another. If
// the test fails it is a fatal error
func DemandEquality[T comparable](t *testing.T, value T, expectedValue T) {
	t.Helper()
	if value != expectedValue {
		t.Fatalf("equality test of type %T failed: '%v' does not equal '%v'", value, value, expectedValue)
	}
}

// ExpectInequality is used to test inequality between one value and another
func ExpectInequality[T comparable](t *testing.T, value T, expectedValue T) bool {
	t.Helper()
	if value == expectedValue {
		t.Errorf("inequality test of type %T failed: '%v' does equal '%v'", value, value, expectedValue)
		return false
	}
	return true
}

// ExpectSuccess tests argument v for a success condition suitable for it's
// type. Types bool and error are treated thus:
//
//	bool == true
//	error == nil
//
// If type is nil then the test will succeed. Other types will cause the test
// to fail immediately
func ExpectSuccess(t *testing.T, v any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if !v {
			t.Errorf("a success value is expected for type %T", v)
			return false
		}
	case error:
		if v != nil {
			t.Errorf("a success value is expected for type %T (%v)", v, v)
			return false
		}
	case nil:
		return true
	default:
		t.Fatalf("unsupported type %T for ExpectSuccess()", v)
		return false
	}

	return true
}

// DemandSuccess is the same as ExpectSuccess but the test is stopped on failure
func DemandSuccess(t *testing.T, v any) {
	t.Helper()
	if !ExpectSuccess(t, v) {
		t.FailNow()
	}
}

// ExpectFailure tests argument v for a failure condition suitable for it's
// type. Types bool and error are treated thus:
//
//	bool == false
//	error != nil
//
// If type is nil then the test will fail. Other types will cause the test
// to fail immediately
func ExpectFailure(t *testing.T, v any) bool {
	t.Helper()

	switch v := v.(type) {
	case bool:
		if v {
			t.Errorf("a failure value is expected for type %T", v)
			return false
		}
	case error:
		if v == nil {
			t.Errorf("a failure value is expected for type %T", v)
			return false
		}
	case nil:
		t.Errorf("a failure value is expected for nil")
		return false
	default:
		t.Fatalf("unsupported type %T for ExpectFailure()", v)
		return false
	}

	return true
}

// ExpectError tests that err wraps the target error
func ExpectError(t *testing.T, err error, target error) bool {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("error test failed: '%v' is not '%v'", err, target)
		return false
	}
	return true
}
