package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/archive"
	"github.com/starford/fehu/internal/document"
	"github.com/starford/fehu/internal/models"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *archive.Service
	reg *document.Registry
}

// NewHandler creates a new Handler.
func NewHandler(svc *archive.Service, reg *document.Registry) *Handler {
	return &Handler{svc: svc, reg: reg}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// CreateEntity handles POST /api/accounts/{account}/entities/{entity}.
func (h *Handler) CreateEntity(w http.ResponseWriter, r *http.Request) {
	var payload models.Entity
	if !decodeBody(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, "create entity", err)
		return
	}
	stored, err := h.svc.CreateEntity(r.Context(), chi.URLParam(r, "account"), chi.URLParam(r, "entity"), payload)
	if err != nil {
		writeError(w, "create entity", err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// ListEntities handles GET /api/accounts/{account}/entities.
func (h *Handler) ListEntities(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.ListEntities(r.Context(), chi.URLParam(r, "account"))
	if err != nil {
		writeError(w, "list entities", err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{IDs: ids})
}

// GetEntity handles GET /api/accounts/{account}/entities/{entity}.
func (h *Handler) GetEntity(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.GetEntity(r.Context(), chi.URLParam(r, "account"), chi.URLParam(r, "entity"))
	if err != nil {
		writeError(w, "get entity", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// UpdateEntity handles PUT /api/accounts/{account}/entities/{entity}.
func (h *Handler) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	var payload models.Entity
	if !decodeBody(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, "update entity", err)
		return
	}
	stored, err := h.svc.UpdateEntity(r.Context(), chi.URLParam(r, "account"), chi.URLParam(r, "entity"), payload)
	if err != nil {
		writeError(w, "update entity", err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// DeleteEntity handles DELETE /api/accounts/{account}/entities/{entity}.
func (h *Handler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	if err := h.svc.DeleteEntity(r.Context(), chi.URLParam(r, "account"), entity); err != nil {
		writeError(w, "delete entity", err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: true, ID: entity})
}
