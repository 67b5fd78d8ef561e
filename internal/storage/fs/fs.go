// Package fs keeps attachment bytes on the local filesystem.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/itchan-dev/scoula/internal/service"
)

type Storage struct {
	rootPath string
}

var _ service.MediaStorage = (*Storage)(nil)

func New(rootPath string) (*Storage, error) {
	p := filepath.Clean(rootPath)

	if err := os.MkdirAll(p, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root storage directory %s: %w", p, err)
	}

	return &Storage{rootPath: p}, nil
}

// Key builds the opaque storage key for a new blob: <dir>/<uuid><ext>.
// Only the extension of the original name survives, lowercased.
func Key(dir, originalFilename string) string {
	ext := strings.ToLower(path.Ext(filepath.Base(originalFilename)))
	if strings.ContainsAny(ext, `/\`) || ext == "." {
		ext = ""
	}
	return path.Join(dir, uuid.NewString()+ext)
}

// resolve maps a storage key to a path under the root, rejecting keys that escape it.
func (s *Storage) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.rootPath, clean), nil
}

// Save writes r under a generated key inside dir and returns the key and the number of bytes written.
func (s *Storage) Save(ctx context.Context, r io.Reader, dir, originalFilename string) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	key := Key(dir, originalFilename)
	fullPath, err := s.resolve(key)
	if err != nil {
		return "", 0, err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create subdirectories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create destination file: %w", err)
	}

	size, err := io.Copy(dst, r)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fullPath)
		return "", 0, fmt.Errorf("failed to write file data: %w", err)
	}

	return key, size, nil
}

// Open returns the blob stored under key. A missing blob yields an error wrapping fs.ErrNotExist.
func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("attachment %s not found: %w", key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes the blob stored under key. Deleting a missing blob is not an error.
func (s *Storage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
