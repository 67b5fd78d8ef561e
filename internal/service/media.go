package service

import (
	"context"
	"io"
)

// MediaStorage keeps attachment bytes outside of the database.
type MediaStorage interface {
	// Save stores the content of r under a generated key inside dir and returns the key
	// together with the number of bytes written. originalFilename only contributes its extension.
	Save(ctx context.Context, r io.Reader, dir, originalFilename string) (string, int64, error)

	// Open returns a reader for the stored blob. A missing blob is reported
	// with an error wrapping fs.ErrNotExist.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a blob. A missing blob is not an error.
	Delete(ctx context.Context, path string) error
}
