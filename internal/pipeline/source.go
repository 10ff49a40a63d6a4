package pipeline

import (
	"fmt"
	"os"
	"strings"

	"bvbswizard/internal/bvbs"
)

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return strings.Replace(path, "~", home, 1)
		}
	}
	return path
}

// ReadSource reads the non-blank lines of a BVBS export file.
func ReadSource(path string) ([]bvbs.Line, error) {
	f, err := os.Open(ExpandHome(path))
	if err != nil {
		return nil, fmt.Errorf("open bvbs export: %w", err)
	}
	defer f.Close()
	return bvbs.ReadLines(f)
}
