// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectEquality() and ExpectInequality() functions are the most useful
// helpers. The Demand*() variants are the same but stop the test immediately
// on failure.
//
// ExpectSuccess() and ExpectFailure() test for "success" or "failure" values.
// A success value is a boolean true or a nil error. A failure value is a
// boolean false or a non-nil error.
package test
