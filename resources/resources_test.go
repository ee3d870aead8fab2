package resources_test

import (
	"os"
	"testing"

	"github.com/jetsetilly/directvga/resources"
	"github.com/jetsetilly/directvga/test"
)

func TestJoinPath(t *testing.T) {
	t.Chdir(t.TempDir())

	pth, err := resources.JoinPath("foo/bar", "baz")
	test.ExpectEquality(t, err, nil)
	test.ExpectEquality(t, pth, ".directvga/foo/bar/baz")

	pth, err = resources.JoinPath("foo", "bar", "baz")
	test.ExpectEquality(t, err, nil)
	test.ExpectEquality(t, pth, ".directvga/foo/bar/baz")

	pth, err = resources.JoinPath("foo/bar", "")
	test.ExpectEquality(t, err, nil)
	test.ExpectEquality(t, pth, ".directvga/foo/bar")

	pth, err = resources.JoinPath("", "baz")
	test.ExpectEquality(t, err, nil)
	test.ExpectEquality(t, pth, ".directvga/baz")

	pth, err = resources.JoinPath("", "")
	test.ExpectEquality(t, err, nil)
	test.ExpectEquality(t, pth, ".directvga")
}

func TestJoinPathCreatesDirectory(t *testing.T) {
	t.Chdir(t.TempDir())

	pth, err := resources.JoinPath("captures", "frame.png")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, pth, ".directvga/captures/frame.png")

	// the directory is created but the file is not
	info, err := os.Stat(".directvga/captures")
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, info.IsDir())
	_, err = os.Stat(pth)
	test.ExpectFailure(t, err)

	// an existing base path is not prepended twice
	pth, err = resources.JoinPath(".directvga/captures", "frame.png")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pth, ".directvga/captures/frame.png")
}
