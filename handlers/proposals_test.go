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

func TestHandleProposalSave_ValidData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProposalSave(app)

	form := url.Values{}
	form.Set("title", "Kitchen Remodel")
	form.Set("client_name", "Jordan Lee")
	form.Set("markup_rate", "0.25")

	req := httptest.NewRequest(http.MethodPost, "/proposals",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	records, err := app.FindRecordsByFilter("proposals", "title = {:title}", "", 1, 0,
		map[string]any{"title": "Kitchen Remodel"})
	if err != nil || len(records) == 0 {
		t.Fatal("expected proposal to be created in database")
	}
	if got := records[0].GetFloat("markup_rate"); got != 0.25 {
		t.Errorf("expected markup rate 0.25, got %v", got)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/proposals/"+records[0].Id)
}

func TestHandleProposalSave_MissingTitle(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProposalSave(app)

	form := url.Values{}
	form.Set("client_name", "No Title")

	req := httptest.NewRequest(http.MethodPost, "/proposals",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Redirect") != "" {
		t.Error("expected no HX-Redirect for validation error")
	}
}

func TestHandleProposalSave_DefaultMarkup(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProposalSave(app)

	form := url.Values{}
	form.Set("title", "Default Markup Proposal")

	req := httptest.NewRequest(http.MethodPost, "/proposals",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	records, _ := app.FindRecordsByFilter("proposals", "title = {:title}", "", 1, 0,
		map[string]any{"title": "Default Markup Proposal"})
	if len(records) == 0 {
		t.Fatal("expected proposal to be created")
	}
	if got := records[0].GetFloat("markup_rate"); got != services.DefaultMarkupRate {
		t.Errorf("expected default markup rate %v, got %v", services.DefaultMarkupRate, got)
	}
}

func TestHandleProposalList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "List Proposal")
	testhelpers.CreateTestItem(t, app, proposal.Id,
		services.NewLineItem("framing labor", 10, "hours", true, 85))
	testhelpers.CreateTestItem(t, app, proposal.Id,
		services.NewLineItem("lumber package", 1, "lump sum", false, 4200))

	handler := HandleProposalList(app)
	req := httptest.NewRequest(http.MethodGet, "/proposals", nil)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var entries []proposalListEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 proposal, got %d", len(entries))
	}
	if entries[0].ItemCount != 2 {
		t.Errorf("expected 2 items, got %d", entries[0].ItemCount)
	}
	wantTotal := 10*85.0 + 4200
	if entries[0].GrandTotal != wantTotal {
		t.Errorf("expected grand total %v, got %v", wantTotal, entries[0].GrandTotal)
	}
}

func TestHandleProposalView_OrganizedShape(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "View Proposal")

	framing := services.NewLineItem("framing labor", 10, "hours", true, 85)
	framing.Category = "Framing"
	testhelpers.CreateTestItem(t, app, proposal.Id, framing)

	wall := services.NewLineItem("retaining wall block", 80, "sq ft", false, 12)
	wall.Category = "Masonry"
	wall.ScopeGroup = "Retaining Wall"
	testhelpers.CreateTestItem(t, app, proposal.Id, wall)

	handler := HandleProposalView(app)
	req := httptest.NewRequest(http.MethodGet, "/proposals/"+proposal.Id, nil)
	req.SetPathValue("id", proposal.Id)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var view proposalView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}

	if len(view.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(view.Categories))
	}
	// Masonry precedes Framing in canonical order
	if view.Categories[0].Name != "Masonry" || view.Categories[1].Name != "Framing" {
		t.Errorf("unexpected category order: %s, %s", view.Categories[0].Name, view.Categories[1].Name)
	}
	if len(view.Groups) != 1 || view.Groups[0] != "Retaining Wall" {
		t.Errorf("expected groups [Retaining Wall], got %v", view.Groups)
	}
	wantGrand := 10*85.0 + 80*12.0
	if view.Totals.GrandTotal != wantGrand {
		t.Errorf("expected grand total %v, got %v", wantGrand, view.Totals.GrandTotal)
	}
	if view.Summary.LaborTotal != 850 || view.Summary.MaterialsTotal != 960 {
		t.Errorf("unexpected summary split: labor %v, materials %v",
			view.Summary.LaborTotal, view.Summary.MaterialsTotal)
	}
}

func TestHandleProposalView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProposalView(app)

	req := httptest.NewRequest(http.MethodGet, "/proposals/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleProposalDelete_Cascades(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Doomed Proposal")
	item := testhelpers.CreateTestItem(t, app, proposal.Id,
		services.NewLineItem("demo work", 1, "lump sum", true, 500))

	handler := HandleProposalDelete(app)
	req := httptest.NewRequest(http.MethodDelete, "/proposals/"+proposal.Id, nil)
	req.SetPathValue("id", proposal.Id)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if _, err := app.FindRecordById("proposals", proposal.Id); err == nil {
		t.Error("expected proposal to be deleted")
	}
	if _, err := app.FindRecordById("line_items", item.Id); err == nil {
		t.Error("expected line items to be cascade-deleted")
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/proposals")
}

func TestHandleProposalActivate_SetsCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Active Proposal")

	handler := HandleProposalActivate(app)
	req := httptest.NewRequest(http.MethodPost, "/proposals/"+proposal.Id+"/activate", nil)
	req.SetPathValue("id", proposal.Id)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	found := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "active_proposal" && cookie.Value == proposal.Id {
			found = true
		}
	}
	if !found {
		t.Error("expected active_proposal cookie to be set")
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/proposals/"+proposal.Id)
}

func TestHandleProposalSummaryPage_RendersHTML(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proposal := testhelpers.CreateTestProposal(t, app, "Printable Proposal")

	visible := services.NewLineItem("tile flooring install", 200, "sq ft", true, 6)
	visible.Category = "Flooring"
	testhelpers.CreateTestItem(t, app, proposal.Id, visible)

	hidden := services.NewLineItem("contingency allowance", 1, "lump sum", false, 1000)
	hidden.IsHidden = true
	testhelpers.CreateTestItem(t, app, proposal.Id, hidden)

	handler := HandleProposalSummaryPage(app)
	req := httptest.NewRequest(http.MethodGet, "/proposals/"+proposal.Id+"/summary", nil)
	req.SetPathValue("id", proposal.Id)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	body := rec.Body.String()
	for _, frag := range []string{"Printable Proposal", "Flooring", "tile flooring install"} {
		if !strings.Contains(body, frag) {
			t.Errorf("expected summary page to contain %q", frag)
		}
	}
	if strings.Contains(body, "contingency allowance") {
		t.Error("hidden item leaked into the client-facing summary page")
	}
}
