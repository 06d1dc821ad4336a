package api

import (
	"encoding/base64"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fehu/internal/document"
	"github.com/starford/fehu/internal/ident"
)

// scopeFromRequest derives the document scope from the URL parameters present:
// a claim or title parameter narrows the scope, otherwise the contract owns the
// documents. All identifiers are sanitized before any path is derived.
func scopeFromRequest(r *http.Request) (document.Scope, error) {
	acc, err := ident.Sanitize(chi.URLParam(r, "account"), "account_id")
	if err != nil {
		return nil, err
	}
	ent, err := ident.Sanitize(chi.URLParam(r, "entity"), "entity_id")
	if err != nil {
		return nil, err
	}
	con, err := ident.Sanitize(chi.URLParam(r, "contract"), "contract_id")
	if err != nil {
		return nil, err
	}
	if claim := chi.URLParam(r, "claim"); claim != "" {
		cl, err := ident.Sanitize(claim, "claim_id")
		if err != nil {
			return nil, err
		}
		return document.ForClaim(acc, ent, con, cl), nil
	}
	if title := chi.URLParam(r, "title"); title != "" {
		tid, err := ident.Sanitize(title, "title_id")
		if err != nil {
			return nil, err
		}
		return document.ForTitle(acc, ent, con, tid), nil
	}
	return document.ForContract(acc, ent, con), nil
}

func docID(r *http.Request) (string, error) {
	return ident.Sanitize(chi.URLParam(r, "doc"), "document_id")
}

// decodeContent decodes the optional base64 payload of a document request.
func decodeContent(w http.ResponseWriter, encoded string) ([]byte, bool) {
	if encoded == "" {
		return nil, true
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("content_base64 is not valid base64"))
		return nil, false
	}
	return content, true
}

// CreateDocument handles POST .../documents for every scope.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	sc, err := scopeFromRequest(r)
	if err != nil {
		writeError(w, "create document", err)
		return
	}
	var req CreateDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Meta.Scope = sc.Level()
	if err := req.Meta.Validate(); err != nil {
		writeError(w, "create document", err)
		return
	}
	content, ok := decodeContent(w, req.ContentBase64)
	if !ok {
		return
	}
	id, meta, err := h.reg.Create(sc, req.Meta, content)
	if err != nil {
		writeError(w, "create document", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreatedResponse{ID: id, Record: meta})
}

// ListDocuments handles GET .../documents for every scope.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	sc, err := scopeFromRequest(r)
	if err != nil {
		writeError(w, "list documents", err)
		return
	}
	ids, err := h.reg.List(sc)
	if err != nil {
		writeError(w, "list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{IDs: ids})
}

// GetDocument handles GET .../documents/{doc}.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	sc, err := scopeFromRequest(r)
	if err != nil {
		writeError(w, "get document", err)
		return
	}
	doc, err := docID(r)
	if err != nil {
		writeError(w, "get document", err)
		return
	}
	meta, err := h.reg.Get(sc, doc)
	if err != nil {
		writeError(w, "get document", err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// DownloadDocument handles GET .../documents/{doc}/download, serving the blob
// bytes with the stored MIME type and original filename.
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	sc, err := scopeFromRequest(r)
	if err != nil {
		writeError(w, "download document", err)
		return
	}
	doc, err := docID(r)
	if err != nil {
		writeError(w, "download document", err)
		return
	}
	meta, content, err := h.reg.Open(sc, doc)
	if err != nil {
		writeError(w, "download document", err)
		return
	}
	w.Header().Set("Content-Type", meta.MIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+meta.OriginalName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// UpdateDocument handles PUT .../documents/{doc}.
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	sc, err := scopeFromRequest(r)
	if err != nil {
		writeError(w, "update document", err)
		return
	}
	doc, err := docID(r)
	if err != nil {
		writeError(w, "update document", err)
		return
	}
	var req CreateDocumentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Meta.Scope = sc.Level()
	if err := req.Meta.Validate(); err != nil {
		writeError(w, "update document", err)
		return
	}
	content, ok := decodeContent(w, req.ContentBase64)
	if !ok {
		return
	}
	meta, err := h.reg.Update(sc, doc, req.Meta, content)
	if err != nil {
		writeError(w, "update document", err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// DeleteDocument handles DELETE .../documents/{doc}?delete_blob=true|false.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	sc, err := scopeFromRequest(r)
	if err != nil {
		writeError(w, "delete document", err)
		return
	}
	doc, err := docID(r)
	if err != nil {
		writeError(w, "delete document", err)
		return
	}
	deleteBlob := r.URL.Query().Get("delete_blob") == "true"
	if err := h.reg.Delete(sc, doc, deleteBlob); err != nil {
		writeError(w, "delete document", err)
		return
	}
	writeJSON(w, http.StatusOK, DeletedResponse{Deleted: true, ID: doc})
}
