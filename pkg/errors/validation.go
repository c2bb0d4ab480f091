package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateCoordinatePart validates one component (groupId, artifactId or
// version) of a Maven coordinate. The component ends up in a repository path,
// so anything that could escape the repository root is rejected.
//
// The rules are intentionally conservative:
//   - No empty parts
//   - No control characters
//   - No path separators or traversal sequences
//   - No colons (they delimit coordinate components)
//   - Maximum length of 256 characters
func ValidateCoordinatePart(kind, part string) error {
	if part == "" {
		return New(ErrCodeInvalidCoordinate, "%s cannot be empty", kind)
	}

	if len(part) > 256 {
		return New(ErrCodeInvalidCoordinate, "%s too long (max 256 characters)", kind)
	}

	for _, r := range part {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters: %q", kind, part)
		}
	}

	for _, pattern := range []string{"..", "/", "\\", ":"} {
		if strings.Contains(part, pattern) {
			return New(ErrCodeInvalidCoordinate, "%s contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}

// ValidateEntryName validates an archive entry name before it is written.
//
// Validation rules:
//   - Name cannot be empty
//   - No absolute names (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
//   - No control characters
func ValidateEntryName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "entry name cannot be empty")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "entry name contains invalid characters")
		}
	}

	if strings.HasPrefix(name, "/") {
		return New(ErrCodeInvalidPath, "entry name must be relative: %q", name)
	}

	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "entry name cannot contain path traversal sequences: %q", name)
		}
	}

	if strings.Contains(name, "\\") {
		return New(ErrCodeInvalidPath, "entry name cannot contain backslashes: %q", name)
	}

	return nil
}

// classNameRegex matches a fully qualified Java binary class name.
var classNameRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// ValidateClassName validates the entry-point class written to the manifest.
func ValidateClassName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "main class cannot be empty")
	}
	if !classNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid main class: %q", name)
	}
	return nil
}
