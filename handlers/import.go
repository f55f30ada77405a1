package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// HandleItemImport bulk-imports line items from pasted free text, one item
// per line. Each parsed item is classified and auto-matched against the
// proposal's existing scope groups before saving.
func HandleItemImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("proposals", proposalID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		text := e.Request.FormValue("items")
		if text == "" {
			return ErrorToast(e, http.StatusBadRequest, "Nothing to import")
		}

		parsed := services.ParseItemList(text)
		if len(parsed) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "No items could be parsed")
		}

		existing, records, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("item_import: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		groups := services.ListGroups(existing)
		sortOrder := nextSortOrder(records)
		for _, item := range parsed {
			if matched, ok := services.AutoMatch(item.Description, groups); ok {
				item.ScopeGroup = matched
			}
			if _, err := saveNewItem(app, proposalID, item, sortOrder); err != nil {
				log.Printf("item_import: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			sortOrder++
		}

		items, _, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("item_import: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", fmt.Sprintf("Imported %d items", len(parsed)))
		return e.JSON(http.StatusOK, map[string]any{
			"imported": len(parsed),
			"totals":   services.ComputeProjectTotals(items),
		})
	}
}
