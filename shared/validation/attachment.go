package validation

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/itchan-dev/scoula/shared/domain"
)

const defaultMimeType = "application/octet-stream"

// Limits bounds the files of a single post.
type Limits struct {
	MaxCount     int
	MaxTotalSize int64
	AllowedMimes []string // empty allows any type
}

// ValidateAttachments opens every uploaded file and turns it into a pending file.
// Empty parts, which browsers send for an untouched file input, are skipped.
// On error every file opened so far is closed again.
func ValidateAttachments(fileHeaders []*multipart.FileHeader, limits Limits) ([]*domain.PendingFile, error) {
	var headers []*multipart.FileHeader
	for _, fh := range fileHeaders {
		if fh.Filename == "" && fh.Size == 0 {
			continue
		}
		headers = append(headers, fh)
	}
	if len(headers) == 0 {
		return nil, nil
	}
	if limits.MaxCount > 0 && len(headers) > limits.MaxCount {
		return nil, fmt.Errorf("%w: at most %d files per post", ErrTooManyAttachments, limits.MaxCount)
	}

	var total int64
	for _, fh := range headers {
		total += fh.Size
	}
	if limits.MaxTotalSize > 0 && total > limits.MaxTotalSize {
		return nil, fmt.Errorf("%w: files exceed %.1f MB", ErrPayloadTooLarge, FormatSizeMB(limits.MaxTotalSize))
	}

	allowed := BuildAllowedMimeMap(limits.AllowedMimes)
	pendingFiles := make([]*domain.PendingFile, 0, len(headers))
	for _, fh := range headers {
		mimeType := DetectMimeType(fh)
		if len(allowed) > 0 && !allowed[mimeType] {
			CloseAll(pendingFiles)
			return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fh.Filename)
		}

		file, err := fh.Open()
		if err != nil {
			CloseAll(pendingFiles)
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}

		pendingFiles = append(pendingFiles, &domain.PendingFile{
			Filename:  filepath.Base(fh.Filename),
			SizeBytes: fh.Size,
			MimeType:  mimeType,
			Data:      file,
		})
	}
	return pendingFiles, nil
}

func BuildAllowedMimeMap(mimes []string) map[string]bool {
	allowedMimes := make(map[string]bool, len(mimes))
	for _, m := range mimes {
		allowedMimes[strings.ToLower(m)] = true
	}
	return allowedMimes
}

// DetectMimeType trusts the part header unless it is missing or generic,
// then falls back to the extension and finally to application/octet-stream.
func DetectMimeType(fileHeader *multipart.FileHeader) string {
	mimeType := fileHeader.Header.Get("Content-Type")

	if mimeType == "" || mimeType == defaultMimeType {
		if detected := mime.TypeByExtension(filepath.Ext(fileHeader.Filename)); detected != "" {
			mimeType = detected
		}
	}
	if mimeType == "" {
		return defaultMimeType
	}

	// drop parameters such as charset
	if media, _, err := mime.ParseMediaType(mimeType); err == nil {
		return media
	}
	return mimeType
}

// CloseAll releases the readers of pending files.
func CloseAll(files []*domain.PendingFile) {
	for _, f := range files {
		if c, ok := f.Data.(io.Closer); ok {
			c.Close()
		}
	}
}
