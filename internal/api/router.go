package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/archive"
	"github.com/starford/fehu/internal/document"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *archive.Service, reg *document.Registry, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, reg)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Route("/accounts/{account}", func(r chi.Router) {
		// Account-wide reads.
		r.Get("/search/policy/{policyNumber}", h.SearchPolicy)
		r.Get("/dashboard/due", h.DashboardDue)

		r.Get("/entities", h.ListEntities)
		r.Route("/entities/{entity}", func(r chi.Router) {
			r.Post("/", h.CreateEntity)
			r.Get("/", h.GetEntity)
			r.Put("/", h.UpdateEntity)
			r.Delete("/", h.DeleteEntity)

			// Derived views.
			r.Get("/titles-view", h.TitlesView)
			r.Get("/claims-view", h.ClaimsView)

			r.Post("/contracts", h.CreateContract)
			r.Get("/contracts", h.ListContracts)
			r.Route("/contracts/{contract}", func(r chi.Router) {
				r.Get("/", h.GetContract)
				r.Put("/", h.UpdateContract)
				r.Delete("/", h.DeleteContract)
				mountDocuments(r, h)

				r.Post("/titles", h.CreateTitle)
				r.Get("/titles", h.ListTitles)
				r.Route("/titles/{title}", func(r chi.Router) {
					r.Get("/", h.GetTitle)
					r.Put("/", h.UpdateTitle)
					r.Delete("/", h.DeleteTitle)
					mountDocuments(r, h)
				})

				r.Post("/claims", h.CreateClaim)
				r.Get("/claims", h.ListClaims)
				r.Route("/claims/{claim}", func(r chi.Router) {
					r.Get("/", h.GetClaim)
					r.Put("/", h.UpdateClaim)
					r.Delete("/", h.DeleteClaim)
					mountDocuments(r, h)

					r.Post("/diary", h.AddDiaryEntry)
					r.Get("/diary", h.ListDiary)
					r.Route("/diary/{entry}", func(r chi.Router) {
						r.Get("/", h.GetDiaryEntry)
						r.Put("/", h.UpdateDiaryEntry)
						r.Delete("/", h.DeleteDiaryEntry)
					})
				})
			})
		})
	})

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// mountDocuments attaches the document routes beneath a contract, title, or
// claim. The handler derives the scope from the URL parameters present.
func mountDocuments(r chi.Router, h *Handler) {
	r.Post("/documents", h.CreateDocument)
	r.Get("/documents", h.ListDocuments)
	r.Route("/documents/{doc}", func(r chi.Router) {
		r.Get("/", h.GetDocument)
		r.Get("/download", h.DownloadDocument)
		r.Put("/", h.UpdateDocument)
		r.Delete("/", h.DeleteDocument)
	})
}
