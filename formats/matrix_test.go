package formats

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatrix_EveryListedTargetIsAllowed(t *testing.T) {
	m := DefaultMatrix()

	for category, entries := range m {
		for source, targets := range entries {
			allowed := m.AllowedTargets(category, source)
			for _, target := range targets {
				if !allowed[target] {
					t.Errorf("AllowedTargets(%s, %s) missing %s", category, source, target)
				}
				if !m.CanConvert(category, source, target) {
					t.Errorf("CanConvert(%s, %s, %s) = false, want true", category, source, target)
				}
			}
		}
	}
}

func TestAllowedTargets_UnknownLookupsReturnEmptySet(t *testing.T) {
	m := DefaultMatrix()

	if got := m.AllowedTargets("nonsense", "jpg"); len(got) != 0 {
		t.Errorf("unknown category: got %v, want empty set", got)
	}
	if got := m.AllowedTargets(CategoryImage, "xyz"); len(got) != 0 {
		t.Errorf("unknown source: got %v, want empty set", got)
	}
	if got := m.AllowedTargets(CategoryEbook, "epub"); len(got) != 0 {
		t.Errorf("ebook has no entries: got %v, want empty set", got)
	}
}

func TestCanConvert_RejectsAbsentPairs(t *testing.T) {
	m := DefaultMatrix()

	cases := []struct {
		category Category
		source   string
		target   string
	}{
		{CategoryDocument, "docx", "zip"},
		{CategoryVideo, "mp4", "webm"}, // present
		{CategoryVideo, "webm", "avi"}, // webm only converts to mp4
		{CategoryArchive, "zip", "tar"},
		{CategoryImage, "webp", "bmp"}, // deliberate gap in the table
	}

	want := []bool{false, true, false, false, false}
	for i, c := range cases {
		if got := m.CanConvert(c.category, c.source, c.target); got != want[i] {
			t.Errorf("CanConvert(%s, %s, %s) = %v, want %v", c.category, c.source, c.target, got, want[i])
		}
	}
}

func TestCanConvert_NormalizesInputs(t *testing.T) {
	m := DefaultMatrix()

	if !m.CanConvert(CategoryImage, ".JPG", "PNG") {
		t.Error("CanConvert should normalize case and leading dots")
	}
}

func TestExtensions_UnionOfSourcesAndTargets(t *testing.T) {
	m := DefaultMatrix()

	exts := m.Extensions(CategoryVideo)
	want := []string{"avi", "mkv", "mp4", "webm"}
	if len(exts) != len(want) {
		t.Fatalf("Extensions(video) = %v, want %v", exts, want)
	}
	for i := range want {
		if exts[i] != want[i] {
			t.Fatalf("Extensions(video) = %v, want %v", exts, want)
		}
	}

	if got := m.Extensions(CategoryEbook); len(got) != 0 {
		t.Errorf("Extensions(ebook) = %v, want empty", got)
	}
}

func TestLoad_EmptyPathYieldsBuiltInTable(t *testing.T) {
	m, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if !m.CanConvert(CategoryImage, "jpg", "png") {
		t.Error("built-in table should allow jpg -> png")
	}
}

func TestLoad_YAMLOverridesBuiltInTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.yaml")
	content := []byte("image:\n  JPG: [\".png\", \"webp\"]\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write matrix file: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if !m.CanConvert(CategoryImage, "jpg", "png") {
		t.Error("loaded matrix should normalize keys and targets")
	}
	if m.CanConvert(CategoryImage, "jpg", "pdf") {
		t.Error("file table replaces the built-in one wholesale")
	}
	if m.CanConvert(CategoryDocument, "pdf", "docx") {
		t.Error("categories absent from the file should be empty")
	}
}

func TestLoad_RejectsUnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.yaml")
	if err := os.WriteFile(path, []byte("spreadsheet:\n  xls: [xlsx]\n"), 0o644); err != nil {
		t.Fatalf("write matrix file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load should reject an unknown category")
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		".JPG":  "jpg",
		"Pdf":   "pdf",
		" png ": "png",
		"":      "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromFilename(t *testing.T) {
	cases := map[string]string{
		"photo.JPG":    "jpg",
		"notes.docx":   "docx",
		"archive.tar":  "tar",
		"noextension":  "",
		"dotted.name.": "",
	}
	for in, want := range cases {
		if got := FromFilename(in); got != want {
			t.Errorf("FromFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
