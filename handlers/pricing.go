package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/services"
)

// loadPricingConfig fetches the stored pricing config for a proposal, or a
// default home/medium config when none has been saved yet. The record is nil
// in the default case.
func loadPricingConfig(app *pocketbase.PocketBase, proposalID string) (services.PricingConfig, *core.Record, error) {
	records, err := app.FindRecordsByFilter(
		"pricing_configs",
		"proposal = {:id}",
		"-created",
		1,
		0,
		map[string]any{"id": proposalID},
	)
	if err != nil {
		return services.PricingConfig{}, nil, fmt.Errorf("could not load pricing config: %w", err)
	}
	if len(records) == 0 {
		return services.PricingConfig{
			ProjectType: services.ProjectTypeHome,
			MarketTier:  services.TierMedium,
			Trades:      services.DefaultTrades(),
		}, nil, nil
	}

	record := records[0]
	cfg := services.PricingConfig{
		ProjectType:      record.GetString("project_type"),
		MarketTier:       record.GetString("market_tier"),
		SquareFootage:    record.GetInt("square_footage"),
		UseCustomPricing: record.GetBool("use_custom_pricing"),
		CustomPricePerSF: record.GetFloat("custom_price_per_sf"),
	}
	if err := record.UnmarshalJSONField("trades", &cfg.Trades); err != nil {
		log.Printf("pricing: malformed trades JSON on %s, using defaults: %v", record.Id, err)
		cfg.Trades = services.DefaultTrades()
	}
	if err := record.UnmarshalJSONField("additional_costs", &cfg.AdditionalCosts); err != nil {
		log.Printf("pricing: malformed additional costs JSON on %s, ignoring: %v", record.Id, err)
		cfg.AdditionalCosts = nil
	}
	return cfg, record, nil
}

// HandlePricingView returns the stored (or default) pricing config together
// with its computed breakdown.
func HandlePricingView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("proposals", proposalID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		cfg, _, err := loadPricingConfig(app, proposalID)
		if err != nil {
			log.Printf("pricing_view: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"config":    cfg,
			"breakdown": services.ComputeBreakdown(cfg),
		})
	}
}

// HandlePricingSave stores a pricing config posted as JSON and returns the
// recomputed breakdown. One config per proposal; saving replaces it.
func HandlePricingSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("proposals", proposalID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		var cfg services.PricingConfig
		if err := e.BindBody(&cfg); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid pricing data")
		}

		_, record, err := loadPricingConfig(app, proposalID)
		if err != nil {
			log.Printf("pricing_save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if record == nil {
			col, err := app.FindCollectionByNameOrId("pricing_configs")
			if err != nil {
				log.Printf("pricing_save: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			record = core.NewRecord(col)
			record.Set("proposal", proposalID)
		}

		record.Set("project_type", cfg.ProjectType)
		record.Set("market_tier", cfg.MarketTier)
		record.Set("square_footage", cfg.SquareFootage)
		record.Set("use_custom_pricing", cfg.UseCustomPricing)
		record.Set("custom_price_per_sf", cfg.CustomPricePerSF)
		record.Set("trades", cfg.Trades)
		record.Set("additional_costs", cfg.AdditionalCosts)

		if err := app.Save(record); err != nil {
			log.Printf("pricing_save: error saving config for %s: %v", proposalID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Pricing saved")
		return e.JSON(http.StatusOK, map[string]any{
			"config":    cfg,
			"breakdown": services.ComputeBreakdown(cfg),
		})
	}
}

// HandlePricingApply converts the current breakdown into line items and
// appends them to the proposal. The conversion is one-way; later edits to
// the items never feed back into the pricing model.
func HandlePricingApply(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("proposals", proposalID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		cfg, _, err := loadPricingConfig(app, proposalID)
		if err != nil {
			log.Printf("pricing_apply: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		breakdown := services.ComputeBreakdown(cfg)
		newItems := services.BreakdownToLineItems(cfg, breakdown)

		_, records, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("pricing_apply: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		sortOrder := nextSortOrder(records)
		for _, item := range newItems {
			if _, err := saveNewItem(app, proposalID, item, sortOrder); err != nil {
				log.Printf("pricing_apply: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			sortOrder++
		}

		items, _, err := loadProposalItems(app, proposalID)
		if err != nil {
			log.Printf("pricing_apply: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", fmt.Sprintf("Added %d items from pricing model", len(newItems)))
		return e.JSON(http.StatusOK, map[string]any{
			"added":  len(newItems),
			"totals": services.ComputeProjectTotals(items),
		})
	}
}
