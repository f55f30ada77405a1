package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"proposalbuilder/services"
	"proposalbuilder/testhelpers"
)

func TestHandleCategoryRename_PersistsAcrossItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Rename Proposal")

	first := services.NewLineItem("interior paint", 3, "gallons", false, 45)
	first.Category = "Painting"
	firstRec := testhelpers.CreateTestItem(t, app, proposal.Id, first)

	second := services.NewLineItem("ceiling paint labor", 6, "hours", true, 60)
	second.Category = "Painting"
	secondRec := testhelpers.CreateTestItem(t, app, proposal.Id, second)

	other := services.NewLineItem("shingle bundles", 40, "each", false, 32)
	other.Category = "Roofing"
	otherRec := testhelpers.CreateTestItem(t, app, proposal.Id, other)

	handler := HandleCategoryRename(app)

	form := url.Values{}
	form.Set("old", "Painting")
	form.Set("new", "Paint & Finish")

	req := httptest.NewRequest(http.MethodPost,
		"/proposals/"+proposal.Id+"/categories/rename",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", proposal.Id)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var resp struct {
		Renamed int `json:"renamed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Renamed != 2 {
		t.Errorf("expected 2 renamed items, got %d", resp.Renamed)
	}

	for _, id := range []string{firstRec.Id, secondRec.Id} {
		saved, _ := app.FindRecordById("line_items", id)
		if got := saved.GetString("category"); got != "Paint & Finish" {
			t.Errorf("expected category 'Paint & Finish', got %q", got)
		}
	}
	saved, _ := app.FindRecordById("line_items", otherRec.Id)
	if got := saved.GetString("category"); got != "Roofing" {
		t.Errorf("unrelated category was renamed to %q", got)
	}
}

func TestHandleGroupRename(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Group Rename Proposal")

	item := services.NewLineItem("retaining wall block", 80, "sq ft", false, 12)
	item.ScopeGroup = "Retaining Wall"
	record := testhelpers.CreateTestItem(t, app, proposal.Id, item)

	handler := HandleGroupRename(app)

	form := url.Values{}
	form.Set("old", "retaining wall")
	form.Set("new", "Back Wall")

	req := httptest.NewRequest(http.MethodPost,
		"/proposals/"+proposal.Id+"/groups/rename",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", proposal.Id)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	saved, _ := app.FindRecordById("line_items", record.Id)
	if got := saved.GetString("scope_group"); got != "Back Wall" {
		t.Errorf("expected case-insensitive group rename, got %q", got)
	}
}

func TestHandleCategoryRemove_DeletesMembers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Remove Proposal")

	doomed := services.NewLineItem("haul away debris", 1, "lump sum", true, 400)
	doomed.Category = "Demolition"
	doomedRec := testhelpers.CreateTestItem(t, app, proposal.Id, doomed)

	keep := services.NewLineItem("shingle bundles", 40, "each", false, 32)
	keep.Category = "Roofing"
	keepRec := testhelpers.CreateTestItem(t, app, proposal.Id, keep)

	handler := HandleCategoryRemove(app)
	req := httptest.NewRequest(http.MethodDelete,
		"/proposals/"+proposal.Id+"/categories/Demolition", nil)
	req.SetPathValue("id", proposal.Id)
	req.SetPathValue("name", "Demolition")
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var resp struct {
		Removed int                    `json:"removed"`
		Totals  services.ProjectTotals `json:"totals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Removed != 1 {
		t.Errorf("expected 1 removed item, got %d", resp.Removed)
	}
	if _, err := app.FindRecordById("line_items", doomedRec.Id); err == nil {
		t.Error("expected demolition item to be deleted")
	}
	if _, err := app.FindRecordById("line_items", keepRec.Id); err != nil {
		t.Error("roofing item should survive category removal")
	}
	if resp.Totals.GrandTotal != 40*32.0 {
		t.Errorf("expected grand total %v after removal, got %v", 40*32.0, resp.Totals.GrandTotal)
	}
}

func TestHandleCategoryVisibility_HidesWholeCategory(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Visibility Proposal")

	for _, desc := range []string{"rough plumbing", "fixture install"} {
		item := services.NewLineItem(desc, 8, "hours", true, 110)
		item.Category = "Plumbing"
		testhelpers.CreateTestItem(t, app, proposal.Id, item)
	}

	handler := HandleCategoryVisibility(app)

	form := url.Values{}
	form.Set("hidden", "true")

	req := httptest.NewRequest(http.MethodPost,
		"/proposals/"+proposal.Id+"/categories/Plumbing/visibility",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("id", proposal.Id)
	req.SetPathValue("name", "Plumbing")
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var resp struct {
		Touched int                    `json:"touched"`
		Totals  services.ProjectTotals `json:"totals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Touched != 2 {
		t.Errorf("expected 2 touched items, got %d", resp.Touched)
	}
	if resp.Totals.VisibleTotal != 0 {
		t.Errorf("expected 0 visible total after hiding, got %v", resp.Totals.VisibleTotal)
	}
	if resp.Totals.HiddenTotal != 2*8*110.0 {
		t.Errorf("expected hidden total %v, got %v", 2*8*110.0, resp.Totals.HiddenTotal)
	}

	records, _ := app.FindRecordsByFilter("line_items", "proposal = {:id}", "", 0, 0,
		map[string]any{"id": proposal.Id})
	for _, record := range records {
		if !record.GetBool("is_hidden") {
			t.Errorf("item %q was not hidden", record.GetString("description"))
		}
	}
}

func TestHandleReclassifyAll_ReportsBothCounts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Reclassify Proposal")

	misc := services.NewLineItem("panel wiring rough-in", 8, "hours", true, 95)
	misc.Category = services.DefaultCategory
	miscRec := testhelpers.CreateTestItem(t, app, proposal.Id, misc)

	legacy := services.NewLineItem("drywall ceiling patch", 1, "lump sum", false, 300)
	legacy.Category = "Sheetrock"
	testhelpers.CreateTestItem(t, app, proposal.Id, legacy)

	userAssigned := services.NewLineItem("random widget", 1, "each", false, 10)
	userAssigned.Category = "Client Extras"
	userRec := testhelpers.CreateTestItem(t, app, proposal.Id, userAssigned)

	handler := HandleReclassifyAll(app)
	req := httptest.NewRequest(http.MethodPost,
		"/proposals/"+proposal.Id+"/reclassify", nil)
	req.SetPathValue("id", proposal.Id)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var resp struct {
		Changed  int `json:"changed"`
		Migrated int `json:"migrated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Changed != 2 {
		t.Errorf("expected 2 changed items, got %d", resp.Changed)
	}
	if resp.Migrated != 1 {
		t.Errorf("expected 1 migrated item, got %d", resp.Migrated)
	}

	saved, _ := app.FindRecordById("line_items", miscRec.Id)
	if got := saved.GetString("category"); got != "Electrical" {
		t.Errorf("expected reclassified category Electrical, got %q", got)
	}
	saved, _ = app.FindRecordById("line_items", userRec.Id)
	if got := saved.GetString("category"); got != "Client Extras" {
		t.Errorf("user-assigned category was overwritten to %q", got)
	}
}
