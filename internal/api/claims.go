package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/models"
)

// decodeClaim reads a raw claim payload, resolves legacy key aliases, and
// unmarshals the normalized map into the schema type.
func decodeClaim(w http.ResponseWriter, r *http.Request) (models.Claim, bool) {
	var raw map[string]any
	if !decodeBody(w, r, &raw) {
		return models.Claim{}, false
	}
	normalized, err := json.Marshal(models.NormalizeClaim(raw))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid claim payload"))
		return models.Claim{}, false
	}
	var payload models.Claim
	if err := json.Unmarshal(normalized, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid claim payload"))
		return models.Claim{}, false
	}
	return payload, true
}

// CreateClaim handles POST .../contracts/{contract}/claims.
func (h *Handler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeClaim(w, r)
	if !ok {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, "create claim", err)
		return
	}
	id, err := h.svc.CreateClaim(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"), chi.URLParam(r, "contract"), payload)
	if err != nil {
		writeError(w, "create claim", err)
		return
	}
	// Re-read so the response carries the denormalized fields the store added.
	stored, err := h.svc.GetClaim(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"), chi.URLParam(r, "contract"), id)
	if err != nil {
		writeError(w, "create claim", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id, Record: stored})
}

// ListClaims handles GET .../contracts/{contract}/claims.
func (h *Handler) ListClaims(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.ListClaims(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"), chi.URLParam(r, "contract"))
	if err != nil {
		writeError(w, "list claims", err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{IDs: ids})
}

// GetClaim handles GET .../claims/{claim}.
func (h *Handler) GetClaim(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetClaim(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), chi.URLParam(r, "claim"))
	if err != nil {
		writeError(w, "get claim", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateClaim handles PUT .../claims/{claim}.
func (h *Handler) UpdateClaim(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeClaim(w, r)
	if !ok {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, "update claim", err)
		return
	}
	stored, err := h.svc.UpdateClaim(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), chi.URLParam(r, "claim"), payload)
	if err != nil {
		writeError(w, "update claim", err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// DeleteClaim handles DELETE .../claims/{claim}.
func (h *Handler) DeleteClaim(w http.ResponseWriter, r *http.Request) {
	claim := chi.URLParam(r, "claim")
	err := h.svc.DeleteClaim(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), claim)
	if err != nil {
		writeError(w, "delete claim", err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: true, ID: claim})
}

// AddDiaryEntry handles POST .../claims/{claim}/diary.
func (h *Handler) AddDiaryEntry(w http.ResponseWriter, r *http.Request) {
	var payload models.DiaryEntry
	if !decodeBody(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, "add diary entry", err)
		return
	}
	id, err := h.svc.AddDiaryEntry(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), chi.URLParam(r, "claim"), payload)
	if err != nil {
		writeError(w, "add diary entry", err)
		return
	}
	// Re-read so the response carries the defaulted timestamp.
	item, err := h.svc.GetDiaryEntry(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), chi.URLParam(r, "claim"), id)
	if err != nil {
		writeError(w, "add diary entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id, Record: item})
}

// ListDiary handles GET .../claims/{claim}/diary.
func (h *Handler) ListDiary(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListDiary(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), chi.URLParam(r, "claim"))
	if err != nil {
		writeError(w, "list diary", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": items})
}

// GetDiaryEntry handles GET .../diary/{entry}.
func (h *Handler) GetDiaryEntry(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetDiaryEntry(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), chi.URLParam(r, "claim"), chi.URLParam(r, "entry"))
	if err != nil {
		writeError(w, "get diary entry", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// UpdateDiaryEntry handles PUT .../diary/{entry}.
func (h *Handler) UpdateDiaryEntry(w http.ResponseWriter, r *http.Request) {
	var payload models.DiaryEntry
	if !decodeBody(w, r, &payload) {
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, "update diary entry", err)
		return
	}
	item, err := h.svc.UpdateDiaryEntry(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), chi.URLParam(r, "claim"), chi.URLParam(r, "entry"), payload)
	if err != nil {
		writeError(w, "update diary entry", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteDiaryEntry handles DELETE .../diary/{entry}.
func (h *Handler) DeleteDiaryEntry(w http.ResponseWriter, r *http.Request) {
	entry := chi.URLParam(r, "entry")
	err := h.svc.DeleteDiaryEntry(r.Context(),
		chi.URLParam(r, "account"), chi.URLParam(r, "entity"),
		chi.URLParam(r, "contract"), chi.URLParam(r, "claim"), entry)
	if err != nil {
		writeError(w, "delete diary entry", err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: true, ID: entry})
}
