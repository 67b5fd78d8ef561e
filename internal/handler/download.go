package handler

import (
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/scoula/shared/logger"
	"github.com/itchan-dev/scoula/shared/middleware/metrics"
	"github.com/itchan-dev/scoula/shared/utils"
)

const defaultContentType = "application/octet-stream"

// contentDisposition builds an attachment header. Names outside ASCII are
// sent in the RFC 2231 filename* form.
func contentDisposition(filename string) string {
	if filename == "" {
		filename = "download"
	}
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// GET /board/download/{no}
func (h *Handler) DownloadGetHandler(w http.ResponseWriter, r *http.Request) {
	no, err := utils.ParseNo("attachment no", chi.URLParam(r, "no"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	// metadata first: a missing attachment never touches media storage
	attachment, err := h.board.GetAttachment(r.Context(), no)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	body, err := h.board.OpenAttachment(r.Context(), attachment)
	if err != nil {
		logger.Log.ErrorContext(r.Context(), "failed to open attachment", "no", attachment.No, "path", attachment.Path, "error", err)
		http.Error(w, "Failed to read attachment", http.StatusInternalServerError)
		return
	}
	defer body.Close()

	contentType := attachment.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	headers := w.Header()
	headers.Set("Content-Type", contentType)
	if attachment.Size > 0 {
		headers.Set("Content-Length", strconv.FormatInt(attachment.Size, 10))
	}
	headers.Set("Content-Disposition", contentDisposition(attachment.Filename))
	headers.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	written, err := io.Copy(w, body)
	if err != nil {
		// headers are gone already, the client has to notice the short body
		logger.Log.ErrorContext(r.Context(), "attachment stream aborted", "no", attachment.No, "written", written, "error", err)
		metrics.ObserveDownload("aborted", written)
		panic(http.ErrAbortHandler)
	}
	metrics.ObserveDownload("ok", written)
}
