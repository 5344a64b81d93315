package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Staging owns the local directory where uploads and provider results
// live for the duration of a single conversion. Every file placed here
// gets a unique name, so concurrent jobs never touch each other's
// files and need no locking.
type Staging struct {
	dir    string
	logger *zap.Logger
}

func NewStaging(dir string, logger *zap.Logger) (*Staging, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Staging{dir: dir, logger: logger}, nil
}

// Dir returns the staging directory path.
func (s *Staging) Dir() string {
	return s.dir
}

// UniqueName builds a collision-free staging name for an upload:
// epoch-millis plus a random suffix, with the sanitized original name
// kept for operator readability.
func (s *Staging) UniqueName(original string) string {
	base := sanitizeFilename(original)
	suffix := uuid.New().String()[:8]
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), suffix, base)
}

// Save streams r into a uniquely named file under the staging dir and
// returns its path.
func (s *Staging) Save(original string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, s.UniqueName(original))

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		s.Remove(path)
		return "", fmt.Errorf("write staged file: %w", err)
	}
	if err := dst.Close(); err != nil {
		s.Remove(path)
		return "", fmt.Errorf("close staged file: %w", err)
	}

	return path, nil
}

// Remove deletes a staged file. Best effort: a failed delete is logged
// and swallowed, it must never mask the outcome of the job that owned
// the file.
func (s *Staging) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("Failed to remove staged file",
			zap.String("path", path),
			zap.Error(err),
		)
	}
}

// Sweep deletes everything in the staging directory. Called at startup
// and on shutdown to recover files leaked by crashed jobs; per-job
// cleanup remains the primary mechanism.
func (s *Staging) Sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Warn("Failed to read staging dir", zap.String("dir", s.dir), zap.Error(err))
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.logger.Warn("Failed to sweep staged file", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("Swept staging directory",
			zap.String("dir", s.dir),
			zap.Int("removed", removed),
		)
	}
}

func sanitizeFilename(filename string) string {
	name := filepath.Base(filename)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "upload"
	}
	return name
}
