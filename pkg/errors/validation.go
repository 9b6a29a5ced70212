package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxDimension bounds the width and height of a rendered frame in pixels.
const MaxDimension = 8192

// ValidateDimensions checks that a frame size is positive and bounded.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "frame size must be positive, got %dx%d", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return New(ErrCodeInvalidInput, "frame size too large (max %dx%d), got %dx%d",
			MaxDimension, MaxDimension, width, height)
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values for a named numeric input.
// Pointer and wheel coordinates arrive as JSON numbers or flags, so this is the
// only structural check they need.
func ValidateFinite(name string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "%s must be a finite number", name)
		}
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
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

	return nil
}

// ValidateSessionID validates a session identifier taken from a URL.
// IDs are UUIDs, but anything short and free of separators is accepted so that
// stores keyed by other schemes keep working.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "session id too long")
	}
	if strings.ContainsAny(id, "/\\:\x00") {
		return New(ErrCodeInvalidInput, "session id contains invalid characters")
	}
	return nil
}
