package util

import (
	"errors"
	"strings"
)

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", ErrInvalidFileName
	}
	return s, nil
}

// IsImageMime reports whether a sniffed content type is one of the decodable image formats.
func IsImageMime(mime string) bool {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/jpeg", "image/png", "image/gif":
		return true
	default:
		return false
	}
}
