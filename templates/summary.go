package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"proposalbuilder/services"
)

// ProposalSummaryPage renders the client-facing proposal summary: every
// visible category with its groups and items, the materials/labor split and
// the grand total. Hidden items are omitted entirely; this page is what gets
// printed and handed to the client.
func ProposalSummaryPage(data ProposalPageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">"); err != nil {
			return err
		}
		fmt.Fprintf(w, "<title>%s</title>", templ.EscapeString(data.Title))
		io.WriteString(w, `<link rel="stylesheet" href="/static/css/app.css"></head><body class="proposal-summary">`)

		fmt.Fprintf(w, `<header><h1>%s</h1>`, templ.EscapeString(data.Title))
		if data.ClientName != "" {
			fmt.Fprintf(w, `<p class="client">Prepared for: %s</p>`, templ.EscapeString(data.ClientName))
		}
		if data.CreatedDate != "" {
			fmt.Fprintf(w, `<p class="date">Date: %s</p>`, templ.EscapeString(data.CreatedDate))
		}
		io.WriteString(w, "</header>")

		for _, cat := range data.Categories {
			if !cat.Visible {
				continue
			}
			fmt.Fprintf(w, `<section class="category"><h2>%s <span class="total">%s</span></h2>`,
				templ.EscapeString(cat.Name), services.FormatUSD(cat.Total))

			for _, group := range cat.Groups {
				if err := writeGroup(w, group); err != nil {
					return err
				}
			}
			io.WriteString(w, "</section>")
		}

		io.WriteString(w, `<footer class="totals"><table>`)
		fmt.Fprintf(w, `<tr><td>Materials</td><td>%s</td></tr>`, services.FormatUSD(data.Summary.MaterialsTotal))
		fmt.Fprintf(w, `<tr><td>Labor</td><td>%s</td></tr>`, services.FormatUSD(data.Summary.LaborTotal))
		fmt.Fprintf(w, `<tr><td>Subtotal</td><td>%s</td></tr>`, services.FormatUSD(data.Summary.Subtotal))
		fmt.Fprintf(w, `<tr><td>Markup (%.0f%%)</td><td>%s</td></tr>`, data.Summary.MarkupRate*100, services.FormatUSD(data.Summary.Markup))
		fmt.Fprintf(w, `<tr class="grand"><td>Grand Total</td><td>%s</td></tr>`, services.FormatUSD(data.Summary.GrandTotal))
		io.WriteString(w, "</table>")
		fmt.Fprintf(w, `<p class="in-words">%s</p>`, templ.EscapeString(services.AmountToWords(data.Summary.GrandTotal)))
		io.WriteString(w, "</footer></body></html>")
		return nil
	})
}

// writeGroup renders one scope group. Singleton pseudo-groups (empty name)
// render as a bare item row so ungrouped items do not get a fake heading.
func writeGroup(w io.Writer, group services.ScopeGroup) error {
	if group.Name == "" {
		for _, item := range group.Items {
			if item.IsHidden {
				continue
			}
			if err := writeItemRow(w, item); err != nil {
				return err
			}
		}
		return nil
	}

	fmt.Fprintf(w, `<div class="group"><h3>%s <span class="total">%s</span></h3>`,
		templ.EscapeString(group.Name), services.FormatUSD(group.Total))
	for _, item := range group.Items {
		if item.IsHidden {
			continue
		}
		if err := writeItemRow(w, item); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</div>")
	return err
}

func writeItemRow(w io.Writer, item *services.LineItem) error {
	kind := "Material"
	if item.IsLabor {
		kind = "Labor"
	}
	_, err := fmt.Fprintf(w, `<div class="item"><span class="desc">%s</span><span class="qty">%s %s</span><span class="kind">%s</span><span class="total">%s</span></div>`,
		templ.EscapeString(item.Description),
		trimQty(item.Quantity),
		templ.EscapeString(item.Unit),
		kind,
		services.FormatUSD(item.Total))
	return err
}

// trimQty drops the trailing zeros that %f would print for whole quantities.
func trimQty(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
