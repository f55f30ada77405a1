package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/collections"
	"proposalbuilder/handlers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("main: no .env file loaded: %v", err)
	}

	app := pocketbase.New()

	// Create collections, seed sample data and run startup migrations
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if os.Getenv("SKIP_SEED") == "" {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		if err := collections.MigrateLegacyCategories(app); err != nil {
			log.Printf("Warning: category migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Serve static files from ./static
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Apply active proposal middleware globally
		se.Router.BindFunc(handlers.ActiveProposalMiddleware(app))

		// ── Proposal activation ──────────────────────────────────
		se.Router.POST("/proposals/{id}/activate", handlers.HandleProposalActivate(app))
		se.Router.POST("/proposals/deactivate", handlers.HandleProposalDeactivate(app))

		// Pick-list vocabularies
		se.Router.GET("/options", handlers.HandleOptions(app))

		// ── Proposal CRUD ────────────────────────────────────────
		se.Router.GET("/proposals", handlers.HandleProposalList(app))
		se.Router.POST("/proposals", handlers.HandleProposalSave(app))
		se.Router.POST("/proposals/{id}/save", handlers.HandleProposalUpdate(app))
		se.Router.DELETE("/proposals/{id}", handlers.HandleProposalDelete(app))

		// ── Line items ───────────────────────────────────────────
		se.Router.POST("/proposals/{id}/items", handlers.HandleItemAdd(app))
		se.Router.POST("/proposals/{id}/items/import", handlers.HandleItemImport(app))
		se.Router.PATCH("/proposals/{id}/items/{itemId}", handlers.HandleItemPatch(app))
		se.Router.DELETE("/proposals/{id}/items/{itemId}", handlers.HandleItemDelete(app))
		se.Router.POST("/proposals/{id}/items/{itemId}/toggle-hidden", handlers.HandleItemToggleHidden(app))
		se.Router.POST("/proposals/{id}/items/{itemId}/group", handlers.HandleItemAssignGroup(app))

		// ── Categories and groups ────────────────────────────────
		se.Router.POST("/proposals/{id}/categories/rename", handlers.HandleCategoryRename(app))
		se.Router.POST("/proposals/{id}/categories/{name}/visibility", handlers.HandleCategoryVisibility(app))
		se.Router.DELETE("/proposals/{id}/categories/{name}", handlers.HandleCategoryRemove(app))
		se.Router.POST("/proposals/{id}/groups/rename", handlers.HandleGroupRename(app))
		se.Router.POST("/proposals/{id}/reclassify", handlers.HandleReclassifyAll(app))

		// ── Market pricing ───────────────────────────────────────
		se.Router.GET("/proposals/{id}/pricing", handlers.HandlePricingView(app))
		se.Router.PUT("/proposals/{id}/pricing", handlers.HandlePricingSave(app))
		se.Router.POST("/proposals/{id}/pricing/apply", handlers.HandlePricingApply(app))

		// ── Exports and summary page ─────────────────────────────
		se.Router.GET("/proposals/{id}/export/excel", handlers.HandleProposalExportExcel(app))
		se.Router.GET("/proposals/{id}/export/pdf", handlers.HandleProposalExportPDF(app))
		se.Router.GET("/proposals/{id}/summary", handlers.HandleProposalSummaryPage(app))

		// Organized proposal view (after specific /proposals/{id}/* routes)
		se.Router.GET("/proposals/{id}", handlers.HandleProposalView(app))

		// Redirect home to the active proposal, or the proposal list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			if active := handlers.GetActiveProposal(e.Request); active != nil {
				return e.Redirect(http.StatusFound, "/proposals/"+active.ID)
			}
			return e.Redirect(http.StatusFound, "/proposals")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
