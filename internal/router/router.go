package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/itchan-dev/scoula/internal/setup"
	"github.com/itchan-dev/scoula/shared/csrf"
	mw "github.com/itchan-dev/scoula/shared/middleware"
	"github.com/itchan-dev/scoula/shared/middleware/metrics"
)

// New creates and configures a chi router with all the routes.
// Mutating routes accept POST only, chi answers 405 for any other method.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config.Public

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Trace(cfg.SlowRequestThreshold))
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(mw.SecurityHeaders(cfg.SecureCookies))
	r.Use(csrf.Middleware(cfg.SecureCookies))

	h := deps.Handler
	r.NotFound(h.NotFound)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Todo
	r.Get("/", h.IndexGetHandler)
	r.Route("/todo", func(r chi.Router) {
		r.Post("/insert", h.TodoInsertPostHandler)
		r.Post("/update", h.TodoUpdatePostHandler)
		r.Post("/delete", h.TodoDeletePostHandler)
	})

	// Board
	r.Route("/board", func(r chi.Router) {
		r.Get("/list", h.BoardListGetHandler)
		r.Get("/create", h.BoardCreateGetHandler)
		r.Post("/create", h.BoardCreatePostHandler)
		r.Get("/get", h.BoardGetHandler)
		r.Get("/update", h.BoardUpdateGetHandler)
		r.Post("/update", h.BoardUpdatePostHandler)
		r.Post("/delete", h.BoardDeletePostHandler)
		r.Get("/download/{no}", h.DownloadGetHandler)
		r.Post("/attachment/{no}/delete", h.AttachmentDeletePostHandler)
	})

	return r
}
