package handler

import (
	"bytes"
	"net/http"

	"github.com/itchan-dev/scoula/internal/view"
	"github.com/itchan-dev/scoula/shared/csrf"
	"github.com/itchan-dev/scoula/shared/errors"
	"github.com/itchan-dev/scoula/shared/logger"
)

func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) view.Common {
	return view.Common{
		Success:   h.consumeFlash(w, r, flashCookieSuccess),
		Error:     h.consumeFlash(w, r, flashCookieError),
		CSRFToken: csrf.Token(r.Context()),
		Limits:    h.limits(),
	}
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateWithError(w, r, http.StatusOK, name, data, "")
}

// renderTemplateWithError renders into a buffer first so a failing template never
// leaves a half written page behind a 200.
func (h *Handler) renderTemplateWithError(w http.ResponseWriter, r *http.Request, status int, name string, data any, errMsg string) {
	common := h.initCommonTemplateData(w, r)
	if errMsg != "" {
		common.Error = errMsg
	}

	buf := new(bytes.Buffer)
	if err := h.renderer.Render(buf, name, view.TemplateData{Data: data, Common: common}); err != nil {
		logger.Log.ErrorContext(r.Context(), "error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderError shows the error page matching the status carried by err.
// Anything that is not a client error is logged and shown as a generic 500.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.StatusCode(err)
	switch {
	case status == http.StatusNotFound:
		h.renderTemplateWithError(w, r, status, "error/not_found", view.ErrorPage{Status: status, Message: err.Error()}, "")
	case status < http.StatusInternalServerError:
		h.renderTemplateWithError(w, r, status, "error/error", view.ErrorPage{Status: status, Message: err.Error()}, "")
	default:
		logger.Log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		h.renderTemplateWithError(w, r, status, "error/error", view.ErrorPage{Status: status, Message: "Something went wrong. Please try again later."}, "")
	}
}

// NotFound renders the not found page for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, errors.NotFound("Page %s not found", r.URL.Path))
}
