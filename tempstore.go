package wkpdf

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const (
	tempNameLength = 32
	tempNameSuffix = ".html"
	tempFilePerm   = 0o600
	maxNameRetries = 8
)

// TempStore persists inline HTML fragments as files the renderer can read
// and removes them afterwards. Safe for concurrent use.
type TempStore struct {
	fs  afero.Fs
	dir string

	mu    sync.Mutex
	paths []string
}

// NewTempStore returns a store writing into dir on fs.
// An empty dir means os.TempDir(); a nil fs means the OS filesystem.
func NewTempStore(fs afero.Fs, dir string) *TempStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = os.TempDir()
	}
	return &TempStore{fs: fs, dir: dir}
}

// Dir returns the directory files are written to.
func (s *TempStore) Dir() string {
	return s.dir
}

// Save writes content to a new uniquely named file and records its path.
// Names are derived from the content plus a random nonce, so saving the
// same fragment twice yields two files.
func (s *TempStore) Save(content []byte) (string, error) {
	for range maxNameRetries {
		path := filepath.Join(s.dir, tempName(content))

		f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, tempFilePerm)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrTempFile, err)
		}

		_, werr := f.Write(content)
		cerr := f.Close()
		if err := errors.Join(werr, cerr); err != nil {
			_ = s.fs.Remove(path)
			return "", fmt.Errorf("%w: %s: %w", ErrTempFile, path, err)
		}

		s.mu.Lock()
		s.paths = append(s.paths, path)
		s.mu.Unlock()
		return path, nil
	}
	return "", fmt.Errorf("%w: no free name in %s after %d attempts", ErrTempFile, s.dir, maxNameRetries)
}

// Cleanup removes every recorded file and forgets them. Removal failures are
// ignored: the files live in a temp directory and the conversion result does
// not depend on them.
func (s *TempStore) Cleanup() {
	s.mu.Lock()
	paths := s.paths
	s.paths = nil
	s.mu.Unlock()

	for _, p := range paths {
		_ = s.fs.Remove(p)
	}
}

// Paths returns a copy of the recorded file paths, in creation order.
func (s *TempStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// tempName hashes content with a fresh nonce into a fixed-length file name.
func tempName(content []byte) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte(uuid.NewString()))
	return hex.EncodeToString(h.Sum(nil))[:tempNameLength] + tempNameSuffix
}
