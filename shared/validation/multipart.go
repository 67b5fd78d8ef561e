package validation

import (
	"errors"
	"fmt"
	"net/http"
)

// multipartOverhead leaves room for the text fields and part headers of a post form.
const multipartOverhead = 1 << 20

// parseMemory is how much of a multipart form is kept in memory, the rest spills to temp files.
const parseMemory = 8 << 20

// ParseMultipart limits the request body to maxAttachmentSize plus form overhead and parses it.
// When the limit is hit the server stops reading and the browser may see a connection reset.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxAttachmentSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, CalculateMaxRequestSize(maxAttachmentSize, multipartOverhead))

	if err := r.ParseMultipartForm(parseMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %.1f MB", ErrPayloadTooLarge, FormatSizeMB(maxAttachmentSize))
		}
		// a plain urlencoded form is fine, it just carries no files
		if errors.Is(err, http.ErrNotMultipart) {
			return r.ParseForm()
		}
		return fmt.Errorf("failed to parse multipart form: %w", err)
	}
	return nil
}

func CalculateMaxRequestSize(maxAttachmentSize int64, bufferSize int64) int64 {
	return maxAttachmentSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
