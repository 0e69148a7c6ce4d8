package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"wainbox/internal/security"

	"github.com/google/uuid"
)

// Storage is the blob-URL facility: it writes uploaded attachment bytes to
// the media cache directory and hands back a locally resolvable URL. Files
// are session-scoped previews, not durable storage, and are reaped by the
// maintenance scheduler.
type Storage struct {
	cacheDir string
}

// StoredFile describes a stored attachment blob.
type StoredFile struct {
	Name      string
	URL       string
	SizeBytes int64
}

func NewStorage(cacheDir string) (*Storage, error) {
	if cacheDir == "" {
		return nil, fmt.Errorf("media cache directory is required")
	}
	if err := os.MkdirAll(cacheDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Storage{cacheDir: cacheDir}, nil
}

// Store writes the attachment to the cache dir under a fresh name and
// returns its serving URL. The original extension is preserved so MIME
// detection keeps working on the way back out.
func (s *Storage) Store(r io.Reader, filename string) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext

	path := filepath.Join(s.cacheDir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600) // #nosec G304 - name is a fresh UUID
	if err != nil {
		return nil, fmt.Errorf("failed to create media file: %w", err)
	}

	size, err := io.Copy(f, r)
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write media file: %w", err)
	}

	return &StoredFile{
		Name:      name,
		URL:       "/media/" + name,
		SizeBytes: size,
	}, nil
}

// Open returns a reader for a previously stored blob. The name is validated
// against the cache dir to block traversal.
func (s *Storage) Open(name string) (*os.File, error) {
	if err := security.ValidateFilePathWithBase(name, s.cacheDir); err != nil {
		return nil, fmt.Errorf("invalid media name: %w", err)
	}
	return os.Open(filepath.Join(s.cacheDir, name)) // #nosec G304 - validated above
}

// CleanupOldFiles removes blobs older than maxAge.
func (s *Storage) CleanupOldFiles(maxAge time.Duration) error {
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(s.cacheDir, entry.Name()))
		}
	}
	return nil
}
