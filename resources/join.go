package resources

import (
	"os"
	"path/filepath"
	"strings"
)

// JoinPath prepends the resource base path to the supplied path elements. The
// directory containing the final element is created if it does not exist
func JoinPath(path ...string) (string, error) {
	p := filepath.Join(path...)

	b, err := resourcePath()
	if err != nil {
		return "", err
	}

	// do not prepend base path if it is already present
	if !strings.HasPrefix(p, b) {
		p = filepath.Join(b, p)
	}

	// check if path already exists
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}

	// create path if necessary
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return "", err
	}

	return p, nil
}
