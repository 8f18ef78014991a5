// Package avatar provides storage for uploaded profile images. It defines the
// Store interface, a disk-backed implementation, and an in-memory
// implementation suitable for testing.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrInvalidExtension = errors.New("only jpg, jpeg, png and gif files are allowed")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
)

// MaxFileSize is the maximum allowed avatar size in bytes (5 MB).
const MaxFileSize = 5 * 1024 * 1024

// AllowedExtensions lists accepted avatar file extensions (lowercase, no dot).
var AllowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// ValidateExtension checks a filename against the extension whitelist and
// returns the normalized extension.
func ValidateExtension(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !AllowedExtensions[ext] {
		return "", ErrInvalidExtension
	}
	return ext, nil
}

// Store persists avatar files under a stable name and returns the relative
// path callers should record.
type Store interface {
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
}

// DiskStore writes avatars to a directory on the local filesystem.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

func (s *DiskStore) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create avatar directory: %w", err)
	}

	path := filepath.Join(s.dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create avatar file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write avatar file: %w", err)
	}
	if n > MaxFileSize {
		os.Remove(path)
		return "", ErrFileTooLarge
	}

	// The recorded path must point at the directory the file actually
	// landed in; Join also strips any leading "./" from the configured dir.
	return filepath.ToSlash(filepath.Join(s.dir, filename)), nil
}

// MemStore keeps avatars in memory. Test and development use only.
type MemStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string][]byte)}
}

func (s *MemStore) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read avatar content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return "", ErrFileTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[filename] = data
	return "uploads/avatars/" + filename, nil
}

// Get returns a stored file's content, for test assertions.
func (s *MemStore) Get(filename string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[filename]
	return data, ok
}
