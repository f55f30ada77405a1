package collections

import (
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// seedItemList is the free-text scope list for the sample proposal. It runs
// through the same parser and classifier the import endpoint uses, so the
// seed data exercises the real pipeline instead of hand-assembled records.
const seedItemList = `Demolition of existing patio 1 ls @ 1800
Excavation and grading 12 hours @ 110
Retaining wall block 240 each @ 4.25
Drainage gravel base 8 cu yd @ 48
Retaining wall labor 32 hours @ 85
Concrete mix 30 bags @ 8.50
Rebar #4 60 each @ 9
Concrete slab pour and finish 1 ls @ 2400
Fire pit kit 1 each @ 1450
Fire pit paver base 120 sq ft @ 3.75
Sod install 900 sq ft @ 2.10
City building permit $850`

// seedGroups assigns scope groups to the seeded items by description
// keyword, mirroring how a contractor would cluster related work.
var seedGroups = []struct {
	keyword string
	group   string
}{
	{"retaining wall", "Retaining Wall"},
	{"drainage", "Retaining Wall"},
	{"concrete", "Concrete Slab"},
	{"rebar", "Concrete Slab"},
	{"fire pit", "Fire Pit"},
}

// Seed inserts a sample proposal with a classified, grouped item list.
// Safe to call on every startup because it returns early when any proposal
// records already exist.
func Seed(app *pocketbase.PocketBase) error {
	proposalsCol, err := app.FindCollectionByNameOrId("proposals")
	if err != nil {
		return fmt.Errorf("seed: could not find proposals collection: %w", err)
	}
	existing, err := app.FindAllRecords(proposalsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query proposals: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: proposals collection is empty – inserting sample proposal …")

	itemsCol, err := app.FindCollectionByNameOrId("line_items")
	if err != nil {
		return fmt.Errorf("seed: could not find line_items collection: %w", err)
	}
	pricingCol, err := app.FindCollectionByNameOrId("pricing_configs")
	if err != nil {
		return fmt.Errorf("seed: could not find pricing_configs collection: %w", err)
	}

	proposal := core.NewRecord(proposalsCol)
	proposal.Set("title", "Backyard Remodel — Sample")
	proposal.Set("client_name", "Sample Client")
	proposal.Set("markup_rate", services.DefaultMarkupRate)
	if err := app.Save(proposal); err != nil {
		return fmt.Errorf("seed: could not save proposal: %w", err)
	}

	items := services.ParseItemList(seedItemList)
	for i := range items {
		item := &items[i]
		for _, sg := range seedGroups {
			if containsFold(item.Description, sg.keyword) {
				item.ScopeGroup = sg.group
				break
			}
		}

		record := core.NewRecord(itemsCol)
		record.Set("proposal", proposal.Id)
		record.Set("sort_order", i+1)
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
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: could not save line item %d: %w", i+1, err)
		}
	}

	pricing := core.NewRecord(pricingCol)
	pricing.Set("proposal", proposal.Id)
	pricing.Set("project_type", services.ProjectTypeHome)
	pricing.Set("market_tier", services.TierMedium)
	pricing.Set("square_footage", 2000)
	pricing.Set("trades", services.DefaultTrades())
	pricing.Set("additional_costs", []services.AdditionalCost{})
	if err := app.Save(pricing); err != nil {
		return fmt.Errorf("seed: could not save pricing config: %w", err)
	}

	log.Printf("seed: inserted sample proposal with %d items", len(items))
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
