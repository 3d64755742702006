package util

import (
	"errors"
	"strings"
)

// SanitizeFileName normalizes an uploaded contract filename for storage.
// Traversal patterns are rejected; path separators are flattened so the
// stored name can never address a directory.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}
