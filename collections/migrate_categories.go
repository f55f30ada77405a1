package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"proposalbuilder/services"
)

// MigrateLegacyCategories re-classifies line items still carrying a
// deprecated category name from an earlier release. Safe to call on every
// startup -- returns early if nothing to migrate.
func MigrateLegacyCategories(app *pocketbase.PocketBase) error {
	itemsCol, err := app.FindCollectionByNameOrId("line_items")
	if err != nil {
		return fmt.Errorf("migrate: could not find line_items collection: %w", err)
	}

	deprecated := services.DeprecatedCategoryNames()
	migrated := 0
	for _, name := range deprecated {
		records, err := app.FindRecordsByFilter(
			itemsCol,
			"category = {:name}",
			"",
			0,
			0,
			map[string]any{"name": name},
		)
		if err != nil {
			return fmt.Errorf("migrate: could not query items with category %q: %w", name, err)
		}

		for _, record := range records {
			category := services.Classify(record.GetString("description"))
			record.Set("category", category)
			if err := app.Save(record); err != nil {
				return fmt.Errorf("migrate: could not update item %s: %w", record.Id, err)
			}
			migrated++
		}
	}

	if migrated > 0 {
		log.Printf("migrate: re-classified %d line items off deprecated categories", migrated)
	}
	return nil
}
