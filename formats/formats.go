package formats

import (
	"path/filepath"
	"strings"
)

// Category groups file kinds and decides which extensions and provider
// options apply to a conversion.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryDocument Category = "document"
	CategoryArchive  Category = "archive"
	CategoryAudio    Category = "audio"
	CategoryVideo    Category = "video"
	CategoryEbook    Category = "ebook"
)

// Categories lists every known category in declaration order.
var Categories = []Category{
	CategoryImage,
	CategoryDocument,
	CategoryArchive,
	CategoryAudio,
	CategoryVideo,
	CategoryEbook,
}

// IsKnownCategory reports whether s names a declared category.
func IsKnownCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Normalize lowercases a format string and strips a leading dot, so
// ".JPG", "JPG" and "jpg" all compare equal.
func Normalize(format string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
}

// FromFilename extracts the normalized trailing extension from a file
// name. Returns "" when the name has no extension.
func FromFilename(name string) string {
	return Normalize(filepath.Ext(name))
}
