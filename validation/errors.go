package validation

import (
	"errors"
	"fmt"
	"strings"

	"fileconverter/formats"
)

var (
	ErrNoExtension     = errors.New("file name has no extension")
	ErrWrongExtension  = errors.New("file extension does not match the selected conversion")
	ErrUnsupportedType = errors.New("file type not supported for this category")
	ErrUnknownCategory = errors.New("unknown category")
)

// RejectionError describes why an upload was turned away. It wraps one
// of the sentinel errors above so callers can branch with errors.Is
// while still getting a message fit for the end user.
type RejectionError struct {
	Sentinel error
	Category formats.Category
	Expected string   // set when a specific source format was pinned
	Got      string   // the extension the file actually carried
	Allowed  []string // the category's accepted extensions, when relevant
}

func (e *RejectionError) Error() string {
	switch {
	case errors.Is(e.Sentinel, ErrWrongExtension):
		return fmt.Sprintf("Incorrect file type. Please select a %s file.", strings.ToUpper(e.Expected))
	case errors.Is(e.Sentinel, ErrUnsupportedType):
		return fmt.Sprintf("Unsupported file type for %s. Supported formats: %s.",
			e.Category, strings.ToUpper(strings.Join(e.Allowed, ", ")))
	case errors.Is(e.Sentinel, ErrNoExtension):
		return "Could not determine the file format from its name."
	case errors.Is(e.Sentinel, ErrUnknownCategory):
		return fmt.Sprintf("Unknown category %q.", e.Category)
	default:
		return e.Sentinel.Error()
	}
}

func (e *RejectionError) Unwrap() error {
	return e.Sentinel
}
