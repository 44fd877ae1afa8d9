package util

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

const maxBaseNameLen = 100

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeFileName reduces a user-supplied filename to a safe storage base name:
// path separators and traversal are rejected, unsafe characters become underscores,
// the base name is capped and lowercased. The extension is preserved.
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

	ext := filepath.Ext(s)
	base := unsafeChars.ReplaceAllString(strings.TrimSuffix(s, ext), "_")
	if base == "" {
		base = "file"
	}
	if len(base) > maxBaseNameLen {
		base = base[:maxBaseNameLen]
	}
	return strings.ToLower(base + ext), nil
}
