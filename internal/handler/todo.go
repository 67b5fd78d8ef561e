package handler

import (
	"net/http"
	"strings"

	"github.com/itchan-dev/scoula/shared/domain"
	"github.com/itchan-dev/scoula/shared/utils"
)

type todoForm struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=1000"`
}

// GET /
func (h *Handler) IndexGetHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todo.GetList(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderTemplate(w, r, "index", todos)
}

// POST /todo/insert
func (h *Handler) TodoInsertPostHandler(w http.ResponseWriter, r *http.Request) {
	form := todoForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if err := utils.Validate(form); err != nil {
		h.redirectWithFlash(w, r, "/", flashCookieError, err.Error())
		return
	}

	todo := &domain.Todo{Title: form.Title, Description: form.Description}
	if err := h.todo.Create(r.Context(), todo); err != nil {
		h.renderError(w, r, err)
		return
	}
	h.redirectWithFlash(w, r, "/", flashCookieSuccess, "Todo added.")
}

// POST /todo/update toggles the done flag.
func (h *Handler) TodoUpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseNo("id", r.FormValue("id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	toggled, err := h.todo.Toggle(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	var flash string
	if toggled {
		flash = "Todo updated."
	}
	h.redirectWithFlash(w, r, "/", flashCookieSuccess, flash)
}

// POST /todo/delete
func (h *Handler) TodoDeletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseNo("id", r.FormValue("id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	deleted, err := h.todo.Delete(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	var flash string
	if deleted {
		flash = "Todo deleted."
	}
	h.redirectWithFlash(w, r, "/", flashCookieSuccess, flash)
}
