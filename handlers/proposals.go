package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
	"proposalbuilder/templates"
)

// proposalListEntry is one row of the proposal index.
type proposalListEntry struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	ClientName string  `json:"clientName"`
	MarkupRate float64 `json:"markupRate"`
	ItemCount  int     `json:"itemCount"`
	GrandTotal float64 `json:"grandTotal"`
}

// proposalView is the fully organized proposal: the category/group partition
// plus totals, all recomputed from the live item list on every request.
type proposalView struct {
	ID         string                   `json:"id"`
	Title      string                   `json:"title"`
	ClientName string                   `json:"clientName"`
	MarkupRate float64                  `json:"markupRate"`
	Categories []services.ScopeCategory `json:"categories"`
	Groups     []string                 `json:"groups"`
	Totals     services.ProjectTotals   `json:"totals"`
	Summary    services.ProposalSummary `json:"summary"`
}

// HandleProposalList returns all proposals with derived per-proposal totals.
func HandleProposalList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindAllRecords("proposals")
		if err != nil {
			log.Printf("proposal_list: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		entries := make([]proposalListEntry, 0, len(records))
		for _, rec := range records {
			items, _, err := loadProposalItems(app, rec.Id)
			if err != nil {
				log.Printf("proposal_list: %v", err)
				items = nil
			}
			totals := services.ComputeProjectTotals(items)
			entries = append(entries, proposalListEntry{
				ID:         rec.Id,
				Title:      rec.GetString("title"),
				ClientName: rec.GetString("client_name"),
				MarkupRate: rec.GetFloat("markup_rate"),
				ItemCount:  len(items),
				GrandTotal: totals.GrandTotal,
			})
		}
		return e.JSON(http.StatusOK, entries)
	}
}

// HandleProposalSave creates a proposal from form data and redirects to it.
func HandleProposalSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		title := e.Request.FormValue("title")
		if title == "" {
			return ErrorToast(e, http.StatusBadRequest, "Title is required")
		}

		markupRate := services.DefaultMarkupRate
		if raw := e.Request.FormValue("markup_rate"); raw != "" {
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				markupRate = services.SanitizeAmount(f)
			}
		}

		col, err := app.FindCollectionByNameOrId("proposals")
		if err != nil {
			log.Printf("proposal_save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("title", title)
		record.Set("client_name", e.Request.FormValue("client_name"))
		record.Set("markup_rate", markupRate)
		if err := app.Save(record); err != nil {
			log.Printf("proposal_save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Proposal created")
		e.Response.Header().Set("HX-Redirect", "/proposals/"+record.Id)
		return e.String(http.StatusOK, "OK")
	}
}

// HandleProposalUpdate patches individual proposal fields.
func HandleProposalUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		record, err := app.FindRecordById("proposals", proposalID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		updated := false
		for key, values := range e.Request.Form {
			if len(values) == 0 {
				continue
			}
			val := values[0]
			switch key {
			case "title":
				if val == "" {
					return ErrorToast(e, http.StatusBadRequest, "Title is required")
				}
				record.Set("title", val)
				updated = true
			case "client_name":
				record.Set("client_name", val)
				updated = true
			case "markup_rate":
				if f, err := strconv.ParseFloat(val, 64); err == nil {
					record.Set("markup_rate", services.SanitizeAmount(f))
					updated = true
				}
			}
		}

		if updated {
			if err := app.Save(record); err != nil {
				log.Printf("proposal_update: error saving %s: %v", proposalID, err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		SetToast(e, "info", "Proposal saved")
		return e.JSON(http.StatusOK, map[string]any{
			"title":      record.GetString("title"),
			"markupRate": record.GetFloat("markup_rate"),
		})
	}
}

// HandleProposalDelete removes a proposal; PocketBase cascade deletes its
// line items and pricing config. Clears the active cookie if it pointed here.
func HandleProposalDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		record, err := app.FindRecordById("proposals", proposalID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("proposal_delete: error deleting %s: %v", proposalID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if cookie, err := e.Request.Cookie("active_proposal"); err == nil && cookie.Value == proposalID {
			http.SetCookie(e.Response, &http.Cookie{
				Name:   "active_proposal",
				Value:  "",
				Path:   "/",
				MaxAge: -1,
			})
		}

		SetToast(e, "success", "Proposal deleted")
		e.Response.Header().Set("HX-Redirect", "/proposals")
		return e.String(http.StatusOK, "OK")
	}
}

// buildProposalView loads a proposal and derives the organized view.
func buildProposalView(app *pocketbase.PocketBase, proposalID string) (proposalView, error) {
	record, err := app.FindRecordById("proposals", proposalID)
	if err != nil {
		return proposalView{}, err
	}

	items, _, err := loadProposalItems(app, proposalID)
	if err != nil {
		return proposalView{}, err
	}

	markupRate := record.GetFloat("markup_rate")
	return proposalView{
		ID:         record.Id,
		Title:      record.GetString("title"),
		ClientName: record.GetString("client_name"),
		MarkupRate: markupRate,
		Categories: services.Organize(items),
		Groups:     services.ListGroups(items),
		Totals:     services.ComputeProjectTotals(items),
		Summary:    services.ComputeProposalSummary(items, markupRate),
	}, nil
}

// HandleProposalView returns the organized proposal as JSON.
func HandleProposalView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		view, err := buildProposalView(app, e.Request.PathValue("id"))
		if err != nil {
			log.Printf("proposal_view: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}
		return e.JSON(http.StatusOK, view)
	}
}

// HandleProposalSummaryPage renders the printable HTML summary.
func HandleProposalSummaryPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		record, err := app.FindRecordById("proposals", proposalID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		items, _, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("proposal_summary: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		createdDate := ""
		if dt := record.GetDateTime("created"); !dt.IsZero() {
			createdDate = dt.Time().Format("Jan 2, 2006")
		}

		markupRate := record.GetFloat("markup_rate")
		data := templates.ProposalPageData{
			ID:          record.Id,
			Title:       record.GetString("title"),
			ClientName:  record.GetString("client_name"),
			CreatedDate: createdDate,
			Categories:  services.Organize(items),
			Totals:      services.ComputeProjectTotals(items),
			Summary:     services.ComputeProposalSummary(items, markupRate),
			Groups:      services.ListGroups(items),
		}
		return templates.ProposalSummaryPage(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleProposalActivate sets the active proposal cookie and redirects.
func HandleProposalActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("proposals", proposalID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		http.SetCookie(e.Response, &http.Cookie{
			Name:     "active_proposal",
			Value:    proposalID,
			Path:     "/",
			MaxAge:   60 * 60 * 24 * 30,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		SetToast(e, "success", "Proposal activated")
		e.Response.Header().Set("HX-Redirect", "/proposals/"+proposalID)
		return e.String(http.StatusOK, "OK")
	}
}

// HandleProposalDeactivate clears the active proposal cookie.
func HandleProposalDeactivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		http.SetCookie(e.Response, &http.Cookie{
			Name:   "active_proposal",
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})

		SetToast(e, "success", "Proposal deactivated")
		e.Response.Header().Set("HX-Redirect", "/proposals")
		return e.String(http.StatusOK, "OK")
	}
}
