package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/models"
)

// CreateTitle handles POST .../contracts/{contract}/titles.
func (h *Handler) CreateTitle(w http.ResponseWriter, r *http.Request) {
	var payload models.Title
	if !decodeBody(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, "create title", err)
		return
	}
	id, err := h.svc.CreateTitle(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"), chi.URLParam(r, "contract"), payload)
	if err != nil {
		writeError(w, "create title", err)
		return
	}
	// Re-read so the response carries the denormalized fields the store added.
	stored, err := h.svc.GetTitle(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"), chi.URLParam(r, "contract"), id)
	if err != nil {
		writeError(w, "create title", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id, Record: stored})
}

// ListTitles handles GET .../contracts/{contract}/titles.
func (h *Handler) ListTitles(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.ListTitles(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"), chi.URLParam(r, "contract"))
	if err != nil {
		writeError(w, "list titles", err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{IDs: ids})
}

// GetTitle handles GET .../titles/{title}.
func (h *Handler) GetTitle(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTitle(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), chi.URLParam(r, "title"))
	if err != nil {
		writeError(w, "get title", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateTitle handles PUT .../titles/{title}.
func (h *Handler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	var payload models.Title
	if !decodeBody(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, "update title", err)
		return
	}
	stored, err := h.svc.UpdateTitle(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), chi.URLParam(r, "title"), payload)
	if err != nil {
		writeError(w, "update title", err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// DeleteTitle handles DELETE .../titles/{title}.
func (h *Handler) DeleteTitle(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	err := h.svc.DeleteTitle(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), title)
	if err != nil {
		writeError(w, "delete title", err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: true, ID: title})
}
