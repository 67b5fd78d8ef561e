package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/itchan-dev/scoula/internal/view"
	"github.com/itchan-dev/scoula/shared/domain"
	"github.com/itchan-dev/scoula/shared/logger"
	"github.com/itchan-dev/scoula/shared/utils"
	"github.com/itchan-dev/scoula/shared/validation"
)

type boardForm struct {
	Title   string `validate:"required,max=200"`
	Content string `validate:"required"`
	Writer  string `validate:"required,max=50"`
}

func readBoardForm(r *http.Request) boardForm {
	return boardForm{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: r.FormValue("content"),
		Writer:  strings.TrimSpace(r.FormValue("writer")),
	}
}

func (f boardForm) view(no domain.BoardNo, fieldErrors map[string]string) view.BoardForm {
	return view.BoardForm{No: no, Title: f.Title, Content: f.Content, Writer: f.Writer, Errors: fieldErrors}
}

func boardURL(no domain.BoardNo) string {
	return fmt.Sprintf("/board/get?no=%d", no)
}

func boardEditURL(no domain.BoardNo) string {
	return fmt.Sprintf("/board/update?no=%d", no)
}

// parseBoardSubmission parses and validates a create or edit form.
// On failure it returns the message to show and the per field errors.
func (h *Handler) parseBoardSubmission(w http.ResponseWriter, r *http.Request) (boardForm, []*domain.PendingFile, map[string]string, string) {
	if err := validation.ParseMultipart(w, r, h.cfg.MaxTotalAttachmentSize); err != nil {
		return readBoardForm(r), nil, nil, err.Error()
	}

	form := readBoardForm(r)
	if fieldErrors := utils.ValidateFields(form); len(fieldErrors) > 0 {
		return form, nil, fieldErrors, "Please fix the highlighted fields."
	}

	mf := r.MultipartForm
	if mf == nil {
		return form, nil, nil, ""
	}
	files, err := validation.ValidateAttachments(mf.File["files"], validation.Limits{
		MaxCount:     h.cfg.MaxAttachmentsPerPost,
		MaxTotalSize: h.cfg.MaxTotalAttachmentSize,
		AllowedMimes: h.cfg.AllowedMimeTypes,
	})
	if err != nil {
		return form, nil, nil, err.Error()
	}
	return form, files, nil, ""
}

// GET /board/list
func (h *Handler) BoardListGetHandler(w http.ResponseWriter, r *http.Request) {
	boards, err := h.board.GetList(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderTemplate(w, r, "board/list", boards)
}

// GET /board/create
func (h *Handler) BoardCreateGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "board/create", view.BoardForm{})
}

// POST /board/create
func (h *Handler) BoardCreatePostHandler(w http.ResponseWriter, r *http.Request) {
	form, files, fieldErrors, msg := h.parseBoardSubmission(w, r)
	if msg != "" {
		h.renderTemplateWithError(w, r, http.StatusBadRequest, "board/create", form.view(0, fieldErrors), msg)
		return
	}
	defer validation.CloseAll(files)

	board := &domain.Board{Title: form.Title, Content: form.Content, Writer: form.Writer}
	if err := h.board.Create(r.Context(), board, files); err != nil {
		h.renderError(w, r, err)
		return
	}

	h.redirectWithFlash(w, r, boardURL(board.No), flashCookieSuccess, "Post created.")
}

// GET /board/get?no=
func (h *Handler) BoardGetHandler(w http.ResponseWriter, r *http.Request) {
	no, err := utils.ParseNo("no", r.URL.Query().Get("no"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	board, err := h.board.Get(r.Context(), no)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderTemplate(w, r, "board/get", board)
}

// GET /board/update?no=
func (h *Handler) BoardUpdateGetHandler(w http.ResponseWriter, r *http.Request) {
	no, err := utils.ParseNo("no", r.URL.Query().Get("no"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	board, err := h.board.Get(r.Context(), no)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderTemplate(w, r, "board/update", view.BoardForm{
		No:          board.No,
		Title:       board.Title,
		Content:     board.Content,
		Writer:      board.Writer,
		Attachments: board.Attachments,
	})
}

// POST /board/update
func (h *Handler) BoardUpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	form, files, fieldErrors, msg := h.parseBoardSubmission(w, r)
	// the form action carries no in the query so a body rejected for size still names its post
	rawNo := r.URL.Query().Get("no")
	if rawNo == "" {
		rawNo = r.FormValue("no")
	}
	no, err := utils.ParseNo("no", rawNo)
	if err != nil {
		validation.CloseAll(files)
		h.renderError(w, r, err)
		return
	}
	if msg != "" {
		page := form.view(no, fieldErrors)
		// existing attachments are shown again, a lookup failure only hides them
		if board, err := h.board.Get(r.Context(), no); err == nil {
			page.Attachments = board.Attachments
		}
		h.renderTemplateWithError(w, r, http.StatusBadRequest, "board/update", page, msg)
		return
	}
	defer validation.CloseAll(files)

	board := &domain.Board{No: no, Title: form.Title, Content: form.Content, Writer: form.Writer}
	updated, err := h.board.Update(r.Context(), board, files)
	if err != nil {
		if !updated {
			h.renderError(w, r, err)
			return
		}
		logger.Log.ErrorContext(r.Context(), "post updated but attachments failed", "board", board.String(), "error", err)
		h.redirectWithFlash(w, r, boardEditURL(no), flashCookieError, "Post updated, but some files could not be attached.")
		return
	}

	var flash string
	if updated {
		flash = "Post updated."
	}
	h.redirectWithFlash(w, r, boardURL(no), flashCookieSuccess, flash)
}

// POST /board/delete
func (h *Handler) BoardDeletePostHandler(w http.ResponseWriter, r *http.Request) {
	no, err := utils.ParseNo("no", r.FormValue("no"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	deleted, err := h.board.Delete(r.Context(), no)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	var flash string
	if deleted {
		flash = "Post deleted."
	}
	h.redirectWithFlash(w, r, "/board/list", flashCookieSuccess, flash)
}

// POST /board/attachment/{no}/delete
func (h *Handler) AttachmentDeletePostHandler(w http.ResponseWriter, r *http.Request) {
	no, err := utils.ParseNo("attachment no", chi.URLParam(r, "no"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	attachment, err := h.board.GetAttachment(r.Context(), no)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	deleted, err := h.board.DeleteAttachment(r.Context(), no)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	var flash string
	if deleted {
		flash = "Attachment removed."
	}
	h.redirectWithFlash(w, r, boardEditURL(attachment.BoardNo), flashCookieSuccess, flash)
}
