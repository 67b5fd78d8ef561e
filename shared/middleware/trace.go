package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/itchan-dev/scoula/shared/logger"
)

// Trace logs one line per request with the matched route, status and duration.
// Requests slower than slowThreshold are logged at warn level, server errors at error level.
func Trace(slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			// aborted requests re-panic past this point and are still logged
			defer func() {
				rec := recover()
				logRequest(r, ww, time.Since(start), slowThreshold, rec != nil)
				if rec != nil {
					panic(rec)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func logRequest(r *http.Request, ww chimw.WrapResponseWriter, elapsed, slowThreshold time.Duration, aborted bool) {
	route := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			route = pattern
		}
	}
	status := ww.Status()
	if status == 0 {
		status = http.StatusOK
	}

	level := slog.LevelInfo
	msg := "request"
	switch {
	case aborted:
		level = slog.LevelWarn
		msg = "request aborted"
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	case slowThreshold > 0 && elapsed > slowThreshold:
		level = slog.LevelWarn
		msg = "slow request"
	}
	logger.Log.Log(r.Context(), level, msg,
		"method", r.Method,
		"route", route,
		"status", status,
		"bytes", ww.BytesWritten(),
		"duration", elapsed,
		"request_id", chimw.GetReqID(r.Context()),
	)
}
