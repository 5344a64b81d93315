package formats

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Matrix is the table of legal source -> target conversions per
// category. It is built once at startup and never mutated afterwards;
// concurrent readers need no locking.
type Matrix map[Category]map[string][]string

// DefaultMatrix returns the built-in conversion table. The set is
// hand-curated against what the remote provider actually offers: tar is
// not listed under archive and webm only converts one way, to mp4.
func DefaultMatrix() Matrix {
	return Matrix{
		CategoryImage: {
			"jpg":  {"jpeg", "png", "webp", "bmp", "pdf"},
			"jpeg": {"jpg", "png", "webp", "bmp", "pdf"},
			"png":  {"jpg", "jpeg", "webp", "bmp", "pdf"},
			"webp": {"jpg", "jpeg", "png", "pdf"},
			"bmp":  {"jpg", "jpeg", "png", "webp", "pdf"},
			"pdf":  {"jpg", "jpeg", "png", "webp"},
		},
		CategoryDocument: {
			"pdf":  {"docx", "txt", "pptx"},
			"docx": {"pdf", "txt", "pptx"},
			"txt":  {"pdf", "docx"},
			"pptx": {"pdf", "docx", "txt"},
		},
		CategoryArchive: {
			"zip": {"rar", "7z"},
			"rar": {"zip", "7z"},
			"7z":  {"zip", "rar"},
		},
		CategoryAudio: {
			"mp3": {"wav", "aac", "ogg"},
			"wav": {"mp3", "aac", "ogg"},
			"aac": {"mp3", "wav", "ogg"},
			"ogg": {"mp3", "wav", "aac"},
		},
		CategoryVideo: {
			"mp4":  {"avi", "mkv", "webm"},
			"avi":  {"mp4", "mkv"},
			"mkv":  {"mp4", "avi"},
			"webm": {"mp4"},
		},
	}
}

// Load reads a replacement matrix from a YAML file. An empty path
// yields the built-in table.
func Load(path string) (Matrix, error) {
	if path == "" {
		return DefaultMatrix(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read matrix file: %w", err)
	}

	raw := map[string]map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse matrix file: %w", err)
	}

	m := Matrix{}
	for cat, entries := range raw {
		if !IsKnownCategory(cat) {
			return nil, fmt.Errorf("matrix file: unknown category %q", cat)
		}
		normalized := map[string][]string{}
		for src, targets := range entries {
			tset := make([]string, 0, len(targets))
			for _, t := range targets {
				tset = append(tset, Normalize(t))
			}
			normalized[Normalize(src)] = tset
		}
		m[Category(cat)] = normalized
	}
	return m, nil
}

// AllowedTargets returns the set of legal target formats for a source
// within a category. Unknown categories or sources yield an empty set,
// never an error; callers decide whether emptiness is a failure.
func (m Matrix) AllowedTargets(category Category, source string) map[string]bool {
	targets := map[string]bool{}
	entries, ok := m[category]
	if !ok {
		return targets
	}
	for _, t := range entries[Normalize(source)] {
		targets[t] = true
	}
	return targets
}

// CanConvert reports whether source -> target is a legal conversion in
// the given category.
func (m Matrix) CanConvert(category Category, source, target string) bool {
	return m.AllowedTargets(category, source)[Normalize(target)]
}

// Extensions returns the sorted set of extensions a category accepts
// for upload: every source key plus every target of that category.
// Targets count because the file picker advertises them and a target
// of one pair is often a legal source of another.
func (m Matrix) Extensions(category Category) []string {
	set := map[string]bool{}
	for src, targets := range m[category] {
		set[src] = true
		for _, t := range targets {
			set[t] = true
		}
	}

	exts := make([]string, 0, len(set))
	for ext := range set {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
