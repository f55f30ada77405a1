// Package templates renders the server-side HTML views of the proposal
// builder. Components are hand-written templ components so the handlers can
// render them straight into the response.
package templates

import "proposalbuilder/services"

// ActiveProposal is the proposal currently pinned via cookie, carried through
// the request context by the middleware.
type ActiveProposal struct {
	ID    string
	Title string
}

// ProposalPageData is everything the printable proposal summary page needs.
type ProposalPageData struct {
	ID          string
	Title       string
	ClientName  string
	CreatedDate string
	Categories  []services.ScopeCategory
	Totals      services.ProjectTotals
	Summary     services.ProposalSummary
	Groups      []string
}
