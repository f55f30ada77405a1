package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// HandleCategoryRename moves every item displayed under one category to a
// new name. Alias-aware, so renaming Miscellaneous also catches items with
// no stored category.
func HandleCategoryRename(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		oldName := e.Request.FormValue("old")
		newName := e.Request.FormValue("new")
		if oldName == "" || newName == "" {
			return ErrorToast(e, http.StatusBadRequest, "Both category names are required")
		}

		items, records, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("category_rename: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		renamed := services.RenameCategory(items, oldName, newName)
		if _, err := persistItemChanges(app, items, records); err != nil {
			log.Printf("category_rename: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Category renamed")
		return e.JSON(http.StatusOK, map[string]any{"renamed": renamed})
	}
}

// HandleGroupRename rewrites a scope group name across the proposal.
func HandleGroupRename(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		oldName := e.Request.FormValue("old")
		newName := e.Request.FormValue("new")
		if oldName == "" || newName == "" {
			return ErrorToast(e, http.StatusBadRequest, "Both group names are required")
		}

		items, records, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("group_rename: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		renamed := services.RenameGroup(items, oldName, newName)
		if _, err := persistItemChanges(app, items, records); err != nil {
			log.Printf("group_rename: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Group renamed")
		return e.JSON(http.StatusOK, map[string]any{
			"renamed": renamed,
			"groups":  services.ListGroups(items),
		})
	}
}

// HandleCategoryRemove deletes every item in a category. Destructive; the
// client is expected to confirm before calling.
func HandleCategoryRemove(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		name := e.Request.PathValue("name")
		if name == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing category name")
		}

		items, records, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("category_remove: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		kept, removed := services.RemoveCategory(items, name)
		keep := make(map[string]bool, len(kept))
		for _, item := range kept {
			keep[item.ID] = true
		}
		for id, record := range records {
			if keep[id] {
				continue
			}
			if err := app.Delete(record); err != nil {
				log.Printf("category_remove: error deleting %s: %v", id, err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		SetToast(e, "success", "Category removed")
		return e.JSON(http.StatusOK, map[string]any{
			"removed": removed,
			"totals":  services.ComputeProjectTotals(kept),
		})
	}
}

// HandleCategoryVisibility hides or shows a whole category by flipping the
// per-item flag on every member.
func HandleCategoryVisibility(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		name := e.Request.PathValue("name")
		if name == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing category name")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		hidden := e.Request.FormValue("hidden") == "true"

		items, records, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("category_visibility: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		touched := services.SetCategoryHidden(items, name, hidden)
		if _, err := persistItemChanges(app, items, records); err != nil {
			log.Printf("category_visibility: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"touched": touched,
			"totals":  services.ComputeProjectTotals(items),
		})
	}
}

// HandleReclassifyAll re-runs the classifier over every default-category item
// and migrates deprecated category names, reporting both counts.
func HandleReclassifyAll(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")

		items, records, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("reclassify_all: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		changed, migrated := services.ClassifyAll(items)
		if _, err := persistItemChanges(app, items, records); err != nil {
			log.Printf("reclassify_all: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Items reclassified")
		return e.JSON(http.StatusOK, map[string]any{
			"changed":  changed,
			"migrated": migrated,
		})
	}
}
