package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"
)

func newTestStaging(t *testing.T) *Staging {
	t.Helper()
	s, err := NewStaging(t.TempDir(), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewStaging: %v", err)
	}
	return s
}

func TestSave_WritesUniquelyNamedFile(t *testing.T) {
	s := newTestStaging(t)

	path, err := s.Save("photo.jpg", strings.NewReader("not really a jpeg"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("staged file unreadable: %v", err)
	}
	if string(data) != "not really a jpeg" {
		t.Errorf("staged content = %q", data)
	}
	if !strings.HasSuffix(path, "photo.jpg") {
		t.Errorf("staged name %q should keep the original basename", path)
	}
}

func TestSave_SanitizesTraversalAttempts(t *testing.T) {
	s := newTestStaging(t)

	path, err := s.Save("../../etc/passwd", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != s.Dir() {
		t.Errorf("staged file %q escaped the staging dir %q", path, s.Dir())
	}
}

func TestUniqueName_NoCollisionsUnderConcurrency(t *testing.T) {
	s := newTestStaging(t)

	const n = 200
	var mu sync.Mutex
	seen := make(map[string]bool, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := s.UniqueName("upload.bin")
			mu.Lock()
			defer mu.Unlock()
			if seen[name] {
				t.Errorf("duplicate staging name %q", name)
			}
			seen[name] = true
		}()
	}
	wg.Wait()
}

func TestConcurrentJobs_OwnDisjointFiles(t *testing.T) {
	s := newTestStaging(t)

	const n = 50
	paths := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path, err := s.Save("same-name.pdf", strings.NewReader("job"))
			if err != nil {
				t.Errorf("Save: %v", err)
				return
			}
			paths[i] = path
		}(i)
	}
	wg.Wait()

	// Each job removes only its own file; the rest must survive.
	s.Remove(paths[0])
	for _, p := range paths[1:] {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("file %q should still exist: %v", p, err)
		}
	}
}

func TestRemove_MissingFileIsSilent(t *testing.T) {
	s := newTestStaging(t)
	s.Remove(filepath.Join(s.Dir(), "never-existed.tmp"))
	s.Remove("")
}

func TestSweep_ClearsStagingDir(t *testing.T) {
	s := newTestStaging(t)

	for _, name := range []string{"a.jpg", "b.pdf", "c.zip"} {
		if _, err := s.Save(name, strings.NewReader("leak")); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	s.Sweep()

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("staging dir still holds %d entries after sweep", len(entries))
	}
}
