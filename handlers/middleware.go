package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalbuilder/templates"
)

type contextKey string

const ActiveProposalKey contextKey = "activeProposal"

// GetActiveProposal extracts the active proposal from the request context.
func GetActiveProposal(r *http.Request) *templates.ActiveProposal {
	if val, ok := r.Context().Value(ActiveProposalKey).(*templates.ActiveProposal); ok {
		return val
	}
	return nil
}

// ActiveProposalMiddleware reads the "active_proposal" cookie, loads the
// proposal record and stores it in the request context so handlers can build
// links and defaults without re-reading the cookie. A stale cookie pointing
// at a deleted proposal is cleared instead of erroring.
func ActiveProposalMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var active *templates.ActiveProposal

		cookie, err := e.Request.Cookie("active_proposal")
		if err == nil && cookie.Value != "" {
			rec, err := app.FindRecordById("proposals", cookie.Value)
			if err == nil {
				active = &templates.ActiveProposal{
					ID:    rec.Id,
					Title: rec.GetString("title"),
				}
			} else {
				log.Printf("middleware: active proposal %s not found, clearing cookie", cookie.Value)
				http.SetCookie(e.Response, &http.Cookie{
					Name:   "active_proposal",
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
			}
		}

		ctx := context.WithValue(e.Request.Context(), ActiveProposalKey, active)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
