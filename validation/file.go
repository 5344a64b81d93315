package validation

import (
	"fileconverter/formats"
)

// Validator checks uploaded file names against the conversion matrix.
// It is a pure pre-filter: only the trailing extension is inspected,
// never the bytes. A renamed file of the wrong type passes here and is
// rejected later by the remote provider, which does authoritative
// content detection.
type Validator struct {
	matrix formats.Matrix
}

func NewValidator(matrix formats.Matrix) *Validator {
	return &Validator{matrix: matrix}
}

// Validate decides whether a file named filename may enter a conversion
// for the given category. When pinnedSource is non-empty the user chose
// an explicit source format up front and the file's extension must
// match it exactly; otherwise any extension the category accepts will
// do. Returns nil on acceptance or a *RejectionError.
func (v *Validator) Validate(filename string, category formats.Category, pinnedSource string) error {
	ext := formats.FromFilename(filename)
	if ext == "" {
		return &RejectionError{Sentinel: ErrNoExtension, Category: category}
	}

	if pinned := formats.Normalize(pinnedSource); pinned != "" {
		if ext != pinned {
			return &RejectionError{
				Sentinel: ErrWrongExtension,
				Category: category,
				Expected: pinned,
				Got:      ext,
			}
		}
		return nil
	}

	if !formats.IsKnownCategory(string(category)) {
		return &RejectionError{Sentinel: ErrUnknownCategory, Category: category, Got: ext}
	}

	allowed := v.matrix.Extensions(category)
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return &RejectionError{
		Sentinel: ErrUnsupportedType,
		Category: category,
		Got:      ext,
		Allowed:  allowed,
	}
}
