package errors

import (
	"strings"
	"unicode"
)

// MaxIDLen is the widest identifier accepted anywhere in a pedigree data set,
// including an optional family-id prefix.
const MaxIDLen = 36

// ValidateID validates an individual, parent, or permanent identifier.
//
// The rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters
//   - Maximum length of MaxIDLen characters
//
// Blank-field handling ("unknown" parents) is the parser's concern; by the
// time an identifier reaches the model it must be non-empty.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidRecord, "identifier cannot be empty")
	}

	if len(id) > MaxIDLen {
		return New(ErrCodeInvalidRecord, "identifier too long (max %d characters): %q", MaxIDLen, id)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidRecord, "identifier contains control characters: %q", id)
		}
	}

	return nil
}

// ValidateLayoutPath validates a record-layout filename for safety.
// It ensures the filename carries no parent-directory traversal.
func ValidateLayoutPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidLayout, "layout path cannot be empty")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidLayout, "layout path cannot contain path traversal sequences (..)")
	}

	return nil
}
