package handler

import (
	"context"
	"io"

	"github.com/itchan-dev/scoula/internal/service"
	"github.com/itchan-dev/scoula/internal/view"
	"github.com/itchan-dev/scoula/shared/config"
)

const (
	titleMaxLen  = 200
	writerMaxLen = 50
)

// Renderer executes a named view. It is implemented by view.Renderer.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	board    service.BoardService
	todo     service.TodoService
	renderer Renderer
	health   Pinger
	cfg      config.Public
}

func New(board service.BoardService, todo service.TodoService, renderer Renderer, health Pinger, cfg config.Public) *Handler {
	return &Handler{
		board:    board,
		todo:     todo,
		renderer: renderer,
		health:   health,
		cfg:      cfg,
	}
}

func (h *Handler) limits() view.Limits {
	return view.Limits{
		TitleMaxLen:            titleMaxLen,
		WriterMaxLen:           writerMaxLen,
		MaxAttachments:         h.cfg.MaxAttachmentsPerPost,
		MaxTotalAttachmentSize: h.cfg.MaxTotalAttachmentSize,
		AllowedMimeTypes:       h.cfg.AllowedMimeTypes,
	}
}
