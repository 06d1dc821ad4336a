package views

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/starford/fehu/internal/ident"
	"github.com/starford/fehu/internal/models"
	"github.com/starford/fehu/internal/storage"
	"github.com/starford/fehu/internal/testutil"
)

func seedContract(t *testing.T, store storage.Provider, account, entity, contract, carrier, policy string) {
	t.Helper()
	c := models.Contract{
		Identifiers: models.ContractIdentifiers{Carrier: carrier, PolicyNumber: policy},
		Risk:        models.Risk{Description: "fire"},
	}
	if err := store.WriteJSON(ident.ContractFile(account, entity, contract), c); err != nil {
		t.Fatal(err)
	}
}

func seedTitle(t *testing.T, store storage.Provider, account, entity, contract, title, expiry, status string) {
	t.Helper()
	tt := models.Title{
		Type:          models.TitleInstallment,
		EffectiveDate: "2025-01-01",
		ExpiryDate:    expiry,
		Status:        status,
		GrossPremium:  decimal.NewFromInt(100),
	}
	if err := store.WriteJSON(ident.TitleFile(account, entity, contract, title), tt); err != nil {
		t.Fatal(err)
	}
}

func seedClaim(t *testing.T, store storage.Provider, account, entity, contract, claim string) {
	t.Helper()
	c := models.Claim{FiscalYear: 2025, ClaimNumber: "CL-" + claim, EventDate: "2025-02-01"}
	if err := store.WriteJSON(ident.ClaimFile(account, entity, contract, claim), c); err != nil {
		t.Fatal(err)
	}
}

func TestRebuildFlattensTitles(t *testing.T) {
	_, store := testutil.TestArchive(t)
	b := NewBuilder(store)

	seedContract(t, store, "acme", "e1", "c1", "AXA", "POL-1")
	seedTitle(t, store, "acme", "e1", "c1", "t1", "2025-12-31", models.TitleUnpaid)
	seedClaim(t, store, "acme", "e1", "c1", "s1")

	if err := b.Rebuild("acme", "e1"); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	titles, err := b.TitlesView("acme", "e1")
	if err != nil {
		t.Fatalf("TitlesView: %v", err)
	}
	if len(titles) != 1 {
		t.Fatalf("titles = %d, want 1", len(titles))
	}
	row := titles[0]
	if row.ContractID != "c1" || row.TitleID != "t1" {
		t.Errorf("row ids = %q/%q", row.ContractID, row.TitleID)
	}
	if row.Carrier != "AXA" || row.PolicyNumber != "POL-1" || row.Risk != "fire" {
		t.Errorf("contract fields not denormalized: %+v", row)
	}
	if row.ExpiryDate != "2025-12-31" || row.Status != models.TitleUnpaid {
		t.Errorf("title fields wrong: %+v", row)
	}

	claims, err := b.ClaimsView("acme", "e1")
	if err != nil {
		t.Fatalf("ClaimsView: %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("claims = %d, want 1", len(claims))
	}
	if claims[0]["claim_id"] != "s1" || claims[0]["contract_id"] != "c1" {
		t.Errorf("claim row not tagged: %v", claims[0])
	}
}

func TestRebuildIsFullRecompute(t *testing.T) {
	_, store := testutil.TestArchive(t)
	b := NewBuilder(store)

	seedContract(t, store, "acme", "e1", "c1", "AXA", "POL-1")
	seedTitle(t, store, "acme", "e1", "c1", "t1", "2025-12-31", models.TitleUnpaid)
	seedTitle(t, store, "acme", "e1", "c1", "t2", "2026-06-30", models.TitlePaid)
	if err := b.Rebuild("acme", "e1"); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	// Removing a record must drop its row, not merge with the old view.
	if err := store.Remove(ident.TitleFile("acme", "e1", "c1", "t2")); err != nil {
		t.Fatal(err)
	}
	if err := b.Rebuild("acme", "e1"); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	titles, _ := b.TitlesView("acme", "e1")
	if len(titles) != 1 || titles[0].TitleID != "t1" {
		t.Errorf("stale rows survived rebuild: %+v", titles)
	}
}

func TestRebuildIdempotent(t *testing.T) {
	_, store := testutil.TestArchive(t)
	b := NewBuilder(store)

	seedContract(t, store, "acme", "e1", "c1", "AXA", "POL-1")
	seedTitle(t, store, "acme", "e1", "c1", "t1", "2025-12-31", models.TitleUnpaid)

	if err := b.Rebuild("acme", "e1"); err != nil {
		t.Fatal(err)
	}
	first, err := store.ReadFile(ident.TitlesViewFile("acme", "e1"))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Rebuild("acme", "e1"); err != nil {
		t.Fatal(err)
	}
	second, err := store.ReadFile(ident.TitlesViewFile("acme", "e1"))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("rebuild without record changes altered the view")
	}
}

func TestRebuildSkipsUnparsableRecords(t *testing.T) {
	_, store := testutil.TestArchive(t)
	b := NewBuilder(store)

	seedContract(t, store, "acme", "e1", "c1", "AXA", "POL-1")
	seedTitle(t, store, "acme", "e1", "c1", "t1", "2025-12-31", models.TitleUnpaid)
	if err := store.WriteFile(ident.TitleFile("acme", "e1", "c1", "broken"), []byte("{nope")); err != nil {
		t.Fatal(err)
	}

	if err := b.Rebuild("acme", "e1"); err != nil {
		t.Fatalf("Rebuild should tolerate corrupt records: %v", err)
	}
	titles, _ := b.TitlesView("acme", "e1")
	if len(titles) != 1 {
		t.Errorf("titles = %d, want 1 (corrupt record skipped)", len(titles))
	}
}

func TestRebuildExcludesSharedDocuments(t *testing.T) {
	_, store := testutil.TestArchive(t)
	b := NewBuilder(store)

	seedContract(t, store, "acme", "e1", "c1", "AXA", "POL-1")
	seedTitle(t, store, "acme", "e1", "c1", "t1", "2025-12-31", models.TitleUnpaid)
	meta := models.DocumentMeta{Scope: models.ScopeTitle, Category: models.CategoryOther,
		MIME: "application/pdf", OriginalName: "a.pdf", TitleID: "t1"}
	if err := store.WriteJSON(ident.DocFile(ident.TitleDocsDir("acme", "e1", "c1"), "d1"), meta); err != nil {
		t.Fatal(err)
	}

	if err := b.Rebuild("acme", "e1"); err != nil {
		t.Fatal(err)
	}
	titles, _ := b.TitlesView("acme", "e1")
	if len(titles) != 1 {
		t.Errorf("document metadata leaked into titles view: %+v", titles)
	}
}

func TestRebuildNoContractsDirIsNoop(t *testing.T) {
	_, store := testutil.TestArchive(t)
	b := NewBuilder(store)

	if err := store.WriteJSON(ident.EntityFile("acme", "e1"), models.Entity{Name: "E"}); err != nil {
		t.Fatal(err)
	}
	if err := b.Rebuild("acme", "e1"); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if store.Exists(ident.TitlesViewFile("acme", "e1")) {
		t.Error("no-op rebuild should not create view files")
	}
}

func TestViewsRebuildOnMiss(t *testing.T) {
	_, store := testutil.TestArchive(t)
	b := NewBuilder(store)

	seedContract(t, store, "acme", "e1", "c1", "AXA", "POL-1")
	seedTitle(t, store, "acme", "e1", "c1", "t1", "2025-12-31", models.TitleUnpaid)

	// No explicit Rebuild: the read must trigger one.
	titles, err := b.TitlesView("acme", "e1")
	if err != nil {
		t.Fatalf("TitlesView: %v", err)
	}
	if len(titles) != 1 {
		t.Errorf("titles = %d, want 1", len(titles))
	}
	if !store.Exists(ident.TitlesViewFile("acme", "e1")) {
		t.Error("view file should be materialized after read")
	}
}
