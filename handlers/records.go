package handlers

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// itemFromRecord maps a line_items record into the engine's item shape.
// The record id doubles as the item id so engine results can be written back.
func itemFromRecord(record *core.Record) *services.LineItem {
	return &services.LineItem{
		ID:           record.Id,
		Description:  record.GetString("description"),
		Quantity:     record.GetFloat("quantity"),
		Unit:         record.GetString("unit"),
		IsLabor:      record.GetBool("is_labor"),
		LaborRate:    record.GetFloat("labor_rate"),
		MaterialCost: record.GetFloat("material_cost"),
		Total:        record.GetFloat("total"),
		Category:     record.GetString("category"),
		ScopeGroup:   record.GetString("scope_group"),
		IsHidden:     record.GetBool("is_hidden"),
		WasteFactor:  record.GetFloat("waste_factor"),
	}
}

// applyItemToRecord writes the engine-owned item fields back onto a record.
func applyItemToRecord(record *core.Record, item *services.LineItem) {
	record.Set("description", item.Description)
	record.Set("quantity", item.Quantity)
	record.Set("unit", item.Unit)
	record.Set("is_labor", item.IsLabor)
	record.Set("labor_rate", item.LaborRate)
	record.Set("material_cost", item.MaterialCost)
	record.Set("total", item.Total)
	record.Set("category", item.Category)
	record.Set("scope_group", item.ScopeGroup)
	record.Set("is_hidden", item.IsHidden)
	record.Set("waste_factor", item.WasteFactor)
}

// loadProposalItems fetches a proposal's line items in sort order and returns
// both the engine items and their backing records keyed by item id.
func loadProposalItems(app *pocketbase.PocketBase, proposalID string) ([]*services.LineItem, map[string]*core.Record, error) {
	records, err := app.FindRecordsByFilter(
		"line_items",
		"proposal = {:id}",
		"sort_order",
		0,
		0,
		map[string]any{"id": proposalID},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("could not load items for proposal %s: %w", proposalID, err)
	}

	items := make([]*services.LineItem, 0, len(records))
	byID := make(map[string]*core.Record, len(records))
	for _, record := range records {
		items = append(items, itemFromRecord(record))
		byID[record.Id] = record
	}
	return items, byID, nil
}

// persistItemChanges writes every item whose engine fields drifted from its
// backing record. Services mutate items in place; this is the single place
// those mutations reach the database.
func persistItemChanges(app *pocketbase.PocketBase, items []*services.LineItem, records map[string]*core.Record) (int, error) {
	saved := 0
	for _, item := range items {
		record, ok := records[item.ID]
		if !ok {
			continue
		}
		if !itemDiffersFromRecord(item, record) {
			continue
		}
		applyItemToRecord(record, item)
		if err := app.Save(record); err != nil {
			return saved, fmt.Errorf("could not save item %s: %w", item.ID, err)
		}
		saved++
	}
	return saved, nil
}

func itemDiffersFromRecord(item *services.LineItem, record *core.Record) bool {
	return item.Description != record.GetString("description") ||
		item.Quantity != record.GetFloat("quantity") ||
		item.Unit != record.GetString("unit") ||
		item.IsLabor != record.GetBool("is_labor") ||
		item.LaborRate != record.GetFloat("labor_rate") ||
		item.MaterialCost != record.GetFloat("material_cost") ||
		item.Total != record.GetFloat("total") ||
		item.Category != record.GetString("category") ||
		item.ScopeGroup != record.GetString("scope_group") ||
		item.IsHidden != record.GetBool("is_hidden") ||
		item.WasteFactor != record.GetFloat("waste_factor")
}

// nextSortOrder returns the sort_order for a newly appended item.
func nextSortOrder(records map[string]*core.Record) int {
	max := 0
	for _, record := range records {
		if v := record.GetInt("sort_order"); v > max {
			max = v
		}
	}
	return max + 1
}

// saveNewItem appends a line item record for a proposal.
func saveNewItem(app *pocketbase.PocketBase, proposalID string, item services.LineItem, sortOrder int) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId("line_items")
	if err != nil {
		return nil, fmt.Errorf("line_items collection not found: %w", err)
	}

	record := core.NewRecord(col)
	record.Set("proposal", proposalID)
	record.Set("sort_order", sortOrder)
	applyItemToRecord(record, &item)

	if err := app.Save(record); err != nil {
		return nil, fmt.Errorf("could not save new item: %w", err)
	}
	return record, nil
}
