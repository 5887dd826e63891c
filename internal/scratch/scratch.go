package scratch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// File is a temporary on-disk copy of one uploaded payload. It exists for
// the duration of a single request and must be released with Cleanup on
// every exit path.
type File struct {
	Path string
	Size int64
}

// Write copies the upload body into a uniquely named file under dir.
// Concurrent requests share the directory, so the name carries a
// timestamp plus a random suffix to avoid collisions.
func Write(dir string, body io.Reader) (*File, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	name := fmt.Sprintf("upload-%d-%s", time.Now().UnixNano(), uuid.New().String()[:8])
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch file: %w", err)
	}

	size, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write scratch file: %w", err)
	}

	return &File{Path: path, Size: size}, nil
}

// Open reopens the scratch file for reading.
func (f *File) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// Cleanup removes the scratch file. Removal is best-effort: failures are
// logged at debug level and otherwise ignored.
func (f *File) Cleanup() {
	if f == nil || f.Path == "" {
		return
	}
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		logrus.WithFields(logrus.Fields{
			"path":  f.Path,
			"error": err.Error(),
		}).Debug("Failed to remove scratch file")
	}
}
