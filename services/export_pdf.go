package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateProposalPDF creates the client-facing proposal document using
// maroto/v2. It returns the raw PDF bytes or an error.
func GenerateProposalPDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addProposalHeader(m, data)
	addProposalItemsTable(m, data)
	addProposalTotals(m, data)
	addProposalAmountInWords(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate proposal PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addProposalHeader adds the proposal title, client name and date.
func addProposalHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(10).Add(
			col.New(7).Add(
				text.New(data.Title, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(5).Add(
				text.New("PROPOSAL", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)

	subtitle := "Date: " + data.CreatedDate
	if data.ClientName != "" {
		subtitle = "Prepared for: " + data.ClientName + " | " + subtitle
	}
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(subtitle, props.Text{
					Size:  8,
					Align: align.Left,
					Color: &props.Color{Red: 100, Green: 100, Blue: 100},
				}),
			),
		),
	)

	// Divider spacer
	m.AddRows(row.New(3))
}

// addProposalItemsTable renders the category/group/item rows. Category rows
// get a gray band, group rows go bold, item rows indent and carry qty, unit,
// rate and total.
func addProposalItemsTable(m core.Maroto, data ExportData) {
	headerProps := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerRight := headerProps
	headerRight.Align = align.Right

	m.AddRows(
		row.New(7).WithStyle(&props.Cell{
			BackgroundColor: &props.Color{Red: 51, Green: 51, Blue: 51},
		}).Add(
			col.New(1).Add(text.New("#", headerProps)),
			col.New(5).Add(text.New("Description", headerProps)),
			col.New(1).Add(text.New("Qty", headerRight)),
			col.New(1).Add(text.New("Unit", headerProps)),
			col.New(2).Add(text.New("Rate", headerRight)),
			col.New(2).Add(text.New("Total", headerRight)),
		),
	)

	for _, r := range data.Rows {
		switch r.Level {
		case RowCategory:
			m.AddRows(
				row.New(6).WithStyle(&props.Cell{
					BackgroundColor: &props.Color{Red: 232, Green: 232, Blue: 232},
				}).Add(
					col.New(1).Add(text.New(r.Index, props.Text{Size: 8, Style: fontstyle.Bold})),
					col.New(9).Add(text.New(r.Description, props.Text{Size: 8, Style: fontstyle.Bold})),
					col.New(2).Add(text.New(FormatUSD(r.Total), props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
				),
			)
		case RowGroup:
			m.AddRows(
				row.New(5).Add(
					col.New(1).Add(text.New(r.Index, props.Text{Size: 8})),
					col.New(9).Add(text.New(r.Description, props.Text{Size: 8, Style: fontstyle.Bold})),
					col.New(2).Add(text.New(FormatUSD(r.Total), props.Text{Size: 8, Align: align.Right})),
				),
			)
		case RowItem:
			m.AddRows(
				row.New(5).Add(
					col.New(1).Add(text.New(r.Index, props.Text{Size: 7})),
					col.New(5).Add(text.New(r.Description, props.Text{Size: 8, Left: 2})),
					col.New(1).Add(text.New(trimFloat(r.Quantity), props.Text{Size: 8, Align: align.Right})),
					col.New(1).Add(text.New(r.Unit, props.Text{Size: 8})),
					col.New(2).Add(text.New(FormatUSD(r.Rate), props.Text{Size: 8, Align: align.Right})),
					col.New(2).Add(text.New(FormatUSD(r.Total), props.Text{Size: 8, Align: align.Right})),
				),
			)
		}
	}
}

// addProposalTotals renders the materials/labor/markup summary block.
func addProposalTotals(m core.Maroto, data ExportData) {
	m.AddRows(row.New(4))

	addTotal := func(label string, value float64, bold bool) {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		m.AddRows(
			row.New(5).Add(
				col.New(8),
				col.New(2).Add(text.New(label, props.Text{Size: 8, Style: style, Align: align.Right})),
				col.New(2).Add(text.New(FormatUSD(value), props.Text{Size: 8, Style: style, Align: align.Right})),
			),
		)
	}

	addTotal("Materials:", data.Summary.MaterialsTotal, false)
	addTotal("Labor:", data.Summary.LaborTotal, false)
	addTotal("Subtotal:", data.Summary.Subtotal, false)
	addTotal(fmt.Sprintf("Markup (%.0f%%):", data.Summary.MarkupRate*100), data.Summary.Markup, false)
	addTotal("Grand Total:", data.Summary.GrandTotal, true)
}

// addProposalAmountInWords renders the grand total spelled out.
func addProposalAmountInWords(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(
				text.New("Amount: "+AmountToWords(data.Summary.GrandTotal), props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)
}

// trimFloat formats a quantity without trailing zeros.
func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
