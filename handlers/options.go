package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// HandleOptions returns the fixed vocabularies the UI builds its pick-lists
// from: units, the category vocabulary, pricing model inputs and the default
// trade breakdown.
func HandleOptions(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string]any{
			"units":                    services.UnitOptions,
			"categories":               services.CategoryNames(),
			"projectTypes":             services.ProjectTypeOptions,
			"marketTiers":              services.MarketTierOptions,
			"additionalCostCategories": services.AdditionalCostCategories,
			"defaultTrades":            services.DefaultTrades(),
			"defaultMarkupRate":        services.DefaultMarkupRate,
			"defaultWasteFactor":       services.DefaultWasteFactor,
		})
	}
}
