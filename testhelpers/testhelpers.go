// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/collections"
	"proposalbuilder/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProposal creates a proposal record with the given title and returns it.
func CreateTestProposal(t *testing.T, app *pocketbase.PocketBase, title string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("proposals")
	if err != nil {
		t.Fatalf("failed to find proposals collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("client_name", "Test Client")
	record.Set("markup_rate", services.DefaultMarkupRate)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test proposal: %v", err)
	}

	return record
}

// CreateTestItem creates a line item record linked to a proposal and returns it.
// The stored total is derived the same way the engine derives it.
func CreateTestItem(t *testing.T, app *pocketbase.PocketBase, proposalID string, item services.LineItem) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("line_items")
	if err != nil {
		t.Fatalf("failed to find line_items collection: %v", err)
	}

	item.Recalc()

	record := core.NewRecord(col)
	record.Set("proposal", proposalID)
	record.Set("sort_order", 1)
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
		t.Fatalf("failed to save test line item: %v", err)
	}

	return record
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

// CreateTestPricingConfig creates a pricing config record for a proposal.
func CreateTestPricingConfig(t *testing.T, app *pocketbase.PocketBase, proposalID string, cfg services.PricingConfig) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("pricing_configs")
	if err != nil {
		t.Fatalf("failed to find pricing_configs collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("proposal", proposalID)
	record.Set("project_type", cfg.ProjectType)
	record.Set("market_tier", cfg.MarketTier)
	record.Set("square_footage", cfg.SquareFootage)
	record.Set("use_custom_pricing", cfg.UseCustomPricing)
	record.Set("custom_price_per_sf", cfg.CustomPricePerSF)
	record.Set("trades", cfg.Trades)
	record.Set("additional_costs", cfg.AdditionalCosts)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test pricing config: %v", err)
	}

	return record
}
