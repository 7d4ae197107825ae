package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateDir validates a directory path from configuration or flags.
// The path is joined onto a build directory, so it must stay inside it.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidateDir(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// extensionRegex matches a file extension with an optional leading dot.
var extensionRegex = regexp.MustCompile(`^\.?[A-Za-z0-9]+$`)

// ValidateExtension validates a file extension such as "html" or ".htm".
func ValidateExtension(ext string) error {
	if ext == "" {
		return New(ErrCodeInvalidInput, "extension cannot be empty")
	}
	if !extensionRegex.MatchString(ext) {
		return New(ErrCodeInvalidInput, "invalid extension: %q", ext)
	}
	return nil
}

// ValidateConcurrency validates the number of pages rendered in parallel.
func ValidateConcurrency(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidInput, "concurrency must be at least 1, got %d", n)
	}
	return nil
}
