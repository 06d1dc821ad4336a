package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/fehu/internal/archive"
	"github.com/starford/fehu/internal/blob"
	"github.com/starford/fehu/internal/document"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/storage"
	"github.com/starford/fehu/internal/views"
)

// testEnv sets up a temp archive, service, registry, and router for testing.
// An empty token means disabled auth mode.
func testEnv(t *testing.T, authToken string) http.Handler {
	t.Helper()

	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	builder := views.NewBuilder(store)
	svc := archive.NewService(store, builder)
	reg := document.NewRegistry(store, blob.NewStore(store))
	return NewRouter(svc, reg, authToken != "", authToken, nil)
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createEntity(t *testing.T, router http.Handler, account, entity string) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/accounts/"+account+"/entities/"+entity,
		models.Entity{Name: "Test Entity"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create entity = %d, body = %s", w.Code, w.Body.String())
	}
}

func createContract(t *testing.T, router http.Handler, account, entity, policy string) string {
	t.Helper()
	payload := models.Contract{
		Identifiers: models.ContractIdentifiers{Carrier: "AXA", PolicyNumber: policy},
		Risk:        models.Risk{Description: "fire"},
	}
	w := doJSON(t, router, http.MethodPost,
		"/accounts/"+account+"/entities/"+entity+"/contracts", payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("create contract = %d, body = %s", w.Code, w.Body.String())
	}
	var resp CreatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.ID
}

func TestEntityLifecycle(t *testing.T) {
	router := testEnv(t, "")
	createEntity(t, router, "acme", "rossi")

	w := doJSON(t, router, http.MethodGet, "/accounts/acme/entities/rossi", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d", w.Code)
	}
	var e models.Entity
	_ = json.Unmarshal(w.Body.Bytes(), &e)
	if e.Name != "Test Entity" {
		t.Errorf("name = %q", e.Name)
	}

	w = doJSON(t, router, http.MethodDelete, "/accounts/acme/entities/rossi", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/accounts/acme/entities/rossi", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestCreateEntityConflict(t *testing.T) {
	router := testEnv(t, "")
	createEntity(t, router, "acme", "e1")
	w := doJSON(t, router, http.MethodPost, "/accounts/acme/entities/e1",
		models.Entity{Name: "Again"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", w.Code)
	}
}

func TestCreateEntityValidation(t *testing.T) {
	router := testEnv(t, "")
	w := doJSON(t, router, http.MethodPost, "/accounts/acme/entities/e1",
		models.Entity{Email: "not-an-email"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid payload = %d, want 400", w.Code)
	}
}

func TestInvalidIdentifierRejected(t *testing.T) {
	router := testEnv(t, "")
	w := doJSON(t, router, http.MethodPost, "/accounts/acme/entities/indexes",
		models.Entity{Name: "X"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("reserved entity id = %d, want 400", w.Code)
	}
}

func TestContractRequiresEntity(t *testing.T) {
	router := testEnv(t, "")
	payload := models.Contract{
		Identifiers: models.ContractIdentifiers{Carrier: "AXA", PolicyNumber: "POL-1"},
	}
	w := doJSON(t, router, http.MethodPost, "/accounts/acme/entities/ghost/contracts", payload)
	if w.Code != http.StatusNotFound {
		t.Errorf("create without entity = %d, want 404", w.Code)
	}
}

func TestPolicySearch(t *testing.T) {
	router := testEnv(t, "")
	createEntity(t, router, "acme", "e1")
	cid := createContract(t, router, "acme", "e1", "POL-42")

	w := doJSON(t, router, http.MethodGet, "/accounts/acme/search/policy/POL-42", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var loc views.PolicyLocation
	_ = json.Unmarshal(w.Body.Bytes(), &loc)
	if loc.EntityID != "e1" || loc.ContractID != cid {
		t.Errorf("loc = %+v", loc)
	}

	w = doJSON(t, router, http.MethodGet, "/accounts/acme/search/policy/POL-NONE", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unindexed = %d, want 404", w.Code)
	}
}

func TestClaimAliasNormalization(t *testing.T) {
	router := testEnv(t, "")
	createEntity(t, router, "acme", "e1")
	cid := createContract(t, router, "acme", "e1", "POL-1")

	// Legacy payload keys resolved once at ingestion.
	raw := map[string]any{
		"fiscal_year":     2025,
		"claim_number":    "CL-1",
		"occurrence_date": "2025-03-01",
		"address":         "Main St 1",
		"carrier_status":  "pending",
	}
	w := doJSON(t, router, http.MethodPost,
		"/accounts/acme/entities/e1/contracts/"+cid+"/claims", raw)
	if w.Code != http.StatusCreated {
		t.Fatalf("create claim = %d, body = %s", w.Code, w.Body.String())
	}
	var resp CreatedResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)

	w = doJSON(t, router, http.MethodGet,
		"/accounts/acme/entities/e1/contracts/"+cid+"/claims/"+resp.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get claim = %d", w.Code)
	}
	var claim models.Claim
	_ = json.Unmarshal(w.Body.Bytes(), &claim)
	if claim.EventDate != "2025-03-01" || claim.EventAddress != "Main St 1" {
		t.Errorf("aliases not resolved: %+v", claim)
	}
	if claim.Status != models.ClaimUnderReview {
		t.Errorf("status = %q, want %q", claim.Status, models.ClaimUnderReview)
	}
}

func TestDocumentUploadAndDownload(t *testing.T) {
	router := testEnv(t, "")
	createEntity(t, router, "acme", "e1")
	cid := createContract(t, router, "acme", "e1", "POL-1")

	content := []byte("%PDF-1.4 test")
	req := CreateDocumentRequest{
		Meta: models.DocumentMeta{
			Category:     models.CategoryOther,
			MIME:         "application/pdf",
			OriginalName: "policy.pdf",
			Size:         int64(len(content)),
		},
		ContentBase64: base64.StdEncoding.EncodeToString(content),
	}
	base := "/accounts/acme/entities/e1/contracts/" + cid + "/documents"
	w := doJSON(t, router, http.MethodPost, base, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload = %d, body = %s", w.Code, w.Body.String())
	}
	var resp CreatedResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)

	w = doJSON(t, router, http.MethodGet, base+"/"+resp.ID+"/download", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), content) {
		t.Errorf("content mismatch: %q", w.Body.Bytes())
	}
}

func TestDocumentDeleteBlobParam(t *testing.T) {
	router := testEnv(t, "")
	createEntity(t, router, "acme", "e1")
	cid := createContract(t, router, "acme", "e1", "POL-1")

	upload := func(name string) string {
		req := CreateDocumentRequest{
			Meta: models.DocumentMeta{
				Category: models.CategoryOther, MIME: "text/plain", OriginalName: name,
			},
			ContentBase64: base64.StdEncoding.EncodeToString([]byte("same bytes")),
		}
		w := doJSON(t, router, http.MethodPost,
			"/accounts/acme/entities/e1/contracts/"+cid+"/documents", req)
		if w.Code != http.StatusCreated {
			t.Fatalf("upload = %d, body = %s", w.Code, w.Body.String())
		}
		var resp CreatedResponse
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		return resp.ID
	}
	id1 := upload("a.txt")
	id2 := upload("b.txt")

	base := "/accounts/acme/entities/e1/contracts/" + cid + "/documents/"
	w := doJSON(t, router, http.MethodDelete, base+id1+"?delete_blob=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}
	// Second record still references the shared blob; download must work.
	w = doJSON(t, router, http.MethodGet, base+id2+"/download", nil)
	if w.Code != http.StatusOK {
		t.Errorf("shared blob removed early: %d", w.Code)
	}
}

func TestTitlesViewEndpoint(t *testing.T) {
	router := testEnv(t, "")
	createEntity(t, router, "acme", "e1")
	cid := createContract(t, router, "acme", "e1", "POL-1")

	title := models.Title{Type: models.TitleInstallment,
		EffectiveDate: "2025-01-01", ExpiryDate: "2025-12-31"}
	w := doJSON(t, router, http.MethodPost,
		"/accounts/acme/entities/e1/contracts/"+cid+"/titles", title)
	if w.Code != http.StatusCreated {
		t.Fatalf("create title = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/accounts/acme/entities/e1/titles-view", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("titles-view = %d", w.Code)
	}
	var resp struct {
		Titles []views.TitleRow `json:"titles"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Titles) != 1 || resp.Titles[0].PolicyNumber != "POL-1" {
		t.Errorf("titles = %+v", resp.Titles)
	}
}

func TestCreateResponsesIncludeStoredRecord(t *testing.T) {
	router := testEnv(t, "")
	createEntity(t, router, "acme", "e1")
	cid := createContract(t, router, "acme", "e1", "POL-9")
	base := "/accounts/acme/entities/e1/contracts/" + cid

	title := models.Title{Type: models.TitleInstallment,
		EffectiveDate: "2025-01-01", ExpiryDate: "2025-12-31"}
	w := doJSON(t, router, http.MethodPost, base+"/titles", title)
	if w.Code != http.StatusCreated {
		t.Fatalf("create title = %d, body = %s", w.Code, w.Body.String())
	}
	var titleResp struct {
		ID     string       `json:"id"`
		Record models.Title `json:"record"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &titleResp); err != nil {
		t.Fatal(err)
	}
	if titleResp.Record.PolicyNumber != "POL-9" || titleResp.Record.EntityID != "e1" {
		t.Errorf("title record missing denormalized fields: %+v", titleResp.Record)
	}

	claim := map[string]any{
		"fiscal_year": 2025, "claim_number": "CL-9", "event_date": "2025-03-01",
	}
	w = doJSON(t, router, http.MethodPost, base+"/claims", claim)
	if w.Code != http.StatusCreated {
		t.Fatalf("create claim = %d, body = %s", w.Code, w.Body.String())
	}
	var claimResp struct {
		ID     string       `json:"id"`
		Record models.Claim `json:"record"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &claimResp); err != nil {
		t.Fatal(err)
	}
	if claimResp.Record.ContractNumber != "POL-9" || claimResp.Record.Carrier != "AXA" {
		t.Errorf("claim record missing denormalized fields: %+v", claimResp.Record)
	}

	w = doJSON(t, router, http.MethodPost, base+"/claims/"+claimResp.ID+"/diary",
		models.DiaryEntry{Author: "anna", Text: "called the adjuster"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add diary entry = %d, body = %s", w.Code, w.Body.String())
	}
	var diaryResp struct {
		ID     string            `json:"id"`
		Record models.DiaryEntry `json:"record"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &diaryResp); err != nil {
		t.Fatal(err)
	}
	if diaryResp.Record.Timestamp.IsZero() {
		t.Errorf("diary record should carry the defaulted timestamp: %+v", diaryResp.Record)
	}
}

func TestDashboardDueValidation(t *testing.T) {
	router := testEnv(t, "")
	w := doJSON(t, router, http.MethodGet, "/accounts/acme/dashboard/due?days=-1", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative days = %d, want 400", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/accounts/acme/dashboard/due", nil)
	if w.Code != http.StatusOK {
		t.Errorf("default window = %d, want 200", w.Code)
	}
}

func TestAuthModes(t *testing.T) {
	router := testEnv(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/accounts/acme/entities", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/accounts/acme/entities", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/accounts/acme/entities", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}
