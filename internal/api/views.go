package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/ident"
)

// defaultDueDays is the dashboard window when no days parameter is given.
const defaultDueDays = 120

func viewIDs(r *http.Request) (string, string, error) {
	acc, err := ident.Sanitize(chi.URLParam(r, "account"), "account_id")
	if err != nil {
		return "", "", err
	}
	ent, err := ident.Sanitize(chi.URLParam(r, "entity"), "entity_id")
	if err != nil {
		return "", "", err
	}
	return acc, ent, nil
}

// TitlesView handles GET .../entities/{entity}/titles-view.
func (h *Handler) TitlesView(w http.ResponseWriter, r *http.Request) {
	acc, ent, err := viewIDs(r)
	if err != nil {
		writeError(w, "titles view", err)
		return
	}
	rows, err := h.svc.Views().TitlesView(acc, ent)
	if err != nil {
		writeError(w, "titles view", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"titles": rows})
}

// ClaimsView handles GET .../entities/{entity}/claims-view.
func (h *Handler) ClaimsView(w http.ResponseWriter, r *http.Request) {
	acc, ent, err := viewIDs(r)
	if err != nil {
		writeError(w, "claims view", err)
		return
	}
	rows, err := h.svc.Views().ClaimsView(acc, ent)
	if err != nil {
		writeError(w, "claims view", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"claims": rows})
}

// SearchPolicy handles GET /api/accounts/{account}/search/policy/{policyNumber}.
func (h *Handler) SearchPolicy(w http.ResponseWriter, r *http.Request) {
	acc, err := ident.Sanitize(chi.URLParam(r, "account"), "account_id")
	if err != nil {
		writeError(w, "policy search", err)
		return
	}
	loc, err := h.svc.Views().LookupPolicy(acc, chi.URLParam(r, "policyNumber"))
	if err != nil {
		writeError(w, "policy search", err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

// DashboardDue handles GET /api/accounts/{account}/dashboard/due?days=N.
func (h *Handler) DashboardDue(w http.ResponseWriter, r *http.Request) {
	acc, err := ident.Sanitize(chi.URLParam(r, "account"), "account_id")
	if err != nil {
		writeError(w, "due dashboard", err)
		return
	}
	days := defaultDueDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("days must be a non-negative integer"))
			return
		}
		days = n
	}
	report, err := h.svc.Views().Due(acc, days)
	if err != nil {
		writeError(w, "due dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
