package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/models"
)

// CreateContract handles POST /api/accounts/{account}/entities/{entity}/contracts.
func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var payload models.Contract
	if !decodeBody(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, "create contract", err)
		return
	}
	id, err := h.svc.CreateContract(r.Context(), chi.URLParam(r, "account"), chi.URLParam(r, "entity"), payload)
	if err != nil {
		writeError(w, "create contract", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id, Record: payload})
}

// ListContracts handles GET /api/accounts/{account}/entities/{entity}/contracts.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.ListContracts(r.Context(), chi.URLParam(r, "account"), chi.URLParam(r, "entity"))
	if err != nil {
		writeError(w, "list contracts", err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{IDs: ids})
}

// GetContract handles GET .../contracts/{contract}.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetContract(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"), chi.URLParam(r, "contract"))
	if err != nil {
		writeError(w, "get contract", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateContract handles PUT .../contracts/{contract}.
func (h *Handler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	var payload models.Contract
	if !decodeBody(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, "update contract", err)
		return
	}
	stored, err := h.svc.UpdateContract(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"), chi.URLParam(r, "contract"), payload)
	if err != nil {
		writeError(w, "update contract", err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// DeleteContract handles DELETE .../contracts/{contract}.
func (h *Handler) DeleteContract(w http.ResponseWriter, r *http.Request) {
	contract := chi.URLParam(r, "contract")
	err := h.svc.DeleteContract(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"), contract)
	if err != nil {
		writeError(w, "delete contract", err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: true, ID: contract})
}
