// Package collections creates and seeds the PocketBase collections backing
// the proposal builder, and runs startup data migrations.
package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// Setup programmatically creates/ensures the proposals, line_items and
// pricing_configs collections exist.
func Setup(app *pocketbase.PocketBase) {
	proposals := ensureCollection(app, "proposals", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.TextField{Name: "client_name", Required: false})
		c.Fields.Add(&core.NumberField{Name: "markup_rate", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "line_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "proposal",
			Required:      true,
			CollectionId:  proposals.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_labor"})
		c.Fields.Add(&core.NumberField{Name: "labor_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "material_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total", Required: false})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.TextField{Name: "scope_group", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_hidden"})
		c.Fields.Add(&core.NumberField{Name: "waste_factor", Required: false})
	})

	ensureCollection(app, "pricing_configs", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "proposal",
			Required:      true,
			CollectionId:  proposals.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "project_type",
			Required:  true,
			Values:    services.ProjectTypeOptions,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "market_tier",
			Required:  true,
			Values:    services.MarketTierOptions,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "square_footage", Required: false})
		c.Fields.Add(&core.BoolField{Name: "use_custom_pricing"})
		c.Fields.Add(&core.NumberField{Name: "custom_price_per_sf", Required: false})
		c.Fields.Add(&core.JSONField{Name: "trades", MaxSize: 1 << 16})
		c.Fields.Add(&core.JSONField{Name: "additional_costs", MaxSize: 1 << 16})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
