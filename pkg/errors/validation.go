package errors

import (
	"strings"
	"unicode"
)

// ValidateName validates an element or node name for use in netlists.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace (names appear as deck tokens)
//   - No characters that collide with deck syntax ('=', '(', ')')
//   - Maximum length of 64 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidNetlist, "name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidNetlist, "name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidNetlist, "name %q contains whitespace or control characters", name)
		}
	}

	if strings.ContainsAny(name, "=()") {
		return New(ErrCodeInvalidNetlist, "name %q contains reserved deck characters", name)
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output path.
// It rejects empty paths and null bytes; directory components are allowed
// since artifacts may be written anywhere the user can write.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidFormat, "output path cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidFormat, "output path contains a null byte")
	}
	return nil
}
