package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// itemResponse is the JSON shape returned after any single-item mutation.
// Totals ride along so the client never recomputes money on its own.
type itemResponse struct {
	Item         *services.LineItem     `json:"item"`
	MatchedGroup string                 `json:"matchedGroup,omitempty"`
	AutoGrouped  bool                   `json:"autoGrouped"`
	Totals       services.ProjectTotals `json:"totals"`
}

// HandleItemAdd creates a line item on a proposal. The description is run
// through the classifier and, when existing scope groups match, the item is
// auto-grouped on the way in.
func HandleItemAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("proposals", proposalID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		description := e.Request.FormValue("description")
		if description == "" {
			return ErrorToast(e, http.StatusBadRequest, "Description is required")
		}

		quantity := 1.0
		if f, err := strconv.ParseFloat(e.Request.FormValue("quantity"), 64); err == nil {
			quantity = f
		}
		rate := 0.0
		if f, err := strconv.ParseFloat(e.Request.FormValue("rate"), 64); err == nil {
			rate = f
		}
		unit := e.Request.FormValue("unit")
		if unit == "" {
			unit = "each"
		}
		isLabor := e.Request.FormValue("is_labor") == "true"

		item := services.NewLineItem(description, quantity, unit, isLabor, rate)
		item.Category = services.Classify(description)

		existing, existingRecords, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("item_add: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		matched, autoGrouped := services.AutoMatch(description, services.ListGroups(existing))
		if autoGrouped {
			item.ScopeGroup = matched
		}

		record, err := saveNewItem(app, proposalID, item, nextSortOrder(existingRecords))
		if err != nil {
			log.Printf("item_add: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		items, _, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("item_add: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Item added")
		saved := itemFromRecord(record)
		return e.JSON(http.StatusOK, itemResponse{
			Item:         saved,
			MatchedGroup: matched,
			AutoGrouped:  autoGrouped,
			Totals:       services.ComputeProjectTotals(items),
		})
	}
}

// HandleItemPatch updates individual fields on a line item. A description
// change runs the edit pipeline, which may also re-group the item; numeric
// changes re-derive the total before saving.
func HandleItemPatch(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		record, err := app.FindRecordById("line_items", itemID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		item := itemFromRecord(record)
		matched := ""
		autoGrouped := false
		updated := false

		for key, values := range e.Request.Form {
			if len(values) == 0 {
				continue
			}
			val := values[0]
			switch key {
			case "description":
				siblings, _, err := loadProposalItems(app, proposalID)
				if err != nil {
					log.Printf("item_patch: %v", err)
					siblings = nil
				}
				matched, autoGrouped = services.ApplyDescriptionEdit(item, val, services.ListGroups(siblings))
				updated = true
			case "quantity":
				if f, err := strconv.ParseFloat(val, 64); err == nil {
					item.Quantity = f
					updated = true
				}
			case "unit":
				item.Unit = val
				updated = true
			case "is_labor":
				item.IsLabor = val == "true"
				updated = true
			case "labor_rate":
				if f, err := strconv.ParseFloat(val, 64); err == nil {
					item.LaborRate = f
					updated = true
				}
			case "material_cost":
				if f, err := strconv.ParseFloat(val, 64); err == nil {
					item.MaterialCost = f
					updated = true
				}
			case "waste_factor":
				if f, err := strconv.ParseFloat(val, 64); err == nil {
					item.WasteFactor = f
					updated = true
				}
			case "category":
				item.Category = val
				updated = true
			case "is_hidden":
				item.IsHidden = val == "true"
				updated = true
			}
		}

		if updated {
			item.Recalc()
			applyItemToRecord(record, item)
			if err := app.Save(record); err != nil {
				log.Printf("item_patch: error saving %s: %v", itemID, err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}

		items, _, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("item_patch: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if autoGrouped {
			SetToast(e, "info", "Item saved and added to "+matched)
		} else {
			SetToast(e, "info", "Item saved")
		}
		return e.JSON(http.StatusOK, itemResponse{
			Item:         item,
			MatchedGroup: matched,
			AutoGrouped:  autoGrouped,
			Totals:       services.ComputeProjectTotals(items),
		})
	}
}

// HandleItemDelete removes one line item.
func HandleItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		record, err := app.FindRecordById("line_items", itemID)
		if err != nil {
			log.Printf("item_delete: not found %s: %v", itemID, err)
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("item_delete: error deleting %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		items, _, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("item_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Item deleted")
		return e.JSON(http.StatusOK, map[string]any{
			"totals": services.ComputeProjectTotals(items),
		})
	}
}

// HandleItemToggleHidden flips a line item's visibility flag. Hidden items
// stay in the list but drop out of visible totals and client-facing output.
func HandleItemToggleHidden(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		record, err := app.FindRecordById("line_items", itemID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		record.Set("is_hidden", !record.GetBool("is_hidden"))
		if err := app.Save(record); err != nil {
			log.Printf("item_toggle_hidden: error saving %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		items, _, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("item_toggle_hidden: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"isHidden": record.GetBool("is_hidden"),
			"totals":   services.ComputeProjectTotals(items),
		})
	}
}

// HandleItemAssignGroup sets or clears the scope group on a line item.
// A new name creates the group implicitly.
func HandleItemAssignGroup(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		groupName := e.Request.FormValue("group")

		items, records, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("item_assign_group: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if !services.AssignGroup(items, itemID, groupName) {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		if _, err := persistItemChanges(app, items, records); err != nil {
			log.Printf("item_assign_group: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Group updated")
		return e.JSON(http.StatusOK, map[string]any{
			"groups": services.ListGroups(items),
		})
	}
}
