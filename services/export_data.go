package services

import "strconv"

// Row levels in a proposal export.
const (
	RowCategory = 0
	RowGroup    = 1
	RowItem     = 2
)

// ExportRow is a single row in the proposal export: a category header, a
// group header, or a line item.
type ExportRow struct {
	Level       int
	Index       string // "1", "1.1", "1.1.1"
	Description string
	Quantity    float64
	Unit        string
	Rate        float64
	Total       float64
	IsLabor     bool
}

// ExportData holds everything the Excel and PDF generators need.
type ExportData struct {
	Title       string
	ClientName  string
	CreatedDate string
	Rows        []ExportRow
	Summary     ProposalSummary
	Totals      ProjectTotals
}

// BuildExportData flattens the organized view of visible items into export
// rows and attaches the proposal summary. Hidden items are excluded from
// client-facing documents; their amounts still show up nowhere but the
// internal grand total.
func BuildExportData(title, clientName, createdDate string, items []*LineItem, markupRate float64) ExportData {
	items = SanitizeItems(items)

	visible := make([]*LineItem, 0, len(items))
	for _, item := range items {
		if !item.IsHidden {
			visible = append(visible, item)
		}
	}

	data := ExportData{
		Title:       title,
		ClientName:  clientName,
		CreatedDate: createdDate,
		Summary:     ComputeProposalSummary(visible, markupRate),
		Totals:      ComputeProjectTotals(items),
	}

	for ci, cat := range Organize(visible) {
		catIndex := strconv.Itoa(ci + 1)
		data.Rows = append(data.Rows, ExportRow{
			Level:       RowCategory,
			Index:       catIndex,
			Description: cat.Name,
			Total:       cat.Total,
		})

		for gi, group := range cat.Groups {
			groupIndex := catIndex + "." + strconv.Itoa(gi+1)
			if group.Name != "" {
				data.Rows = append(data.Rows, ExportRow{
					Level:       RowGroup,
					Index:       groupIndex,
					Description: group.Name,
					Total:       group.Total,
				})
				for ii, item := range group.Items {
					data.Rows = append(data.Rows, itemRow(groupIndex+"."+strconv.Itoa(ii+1), item))
				}
				continue
			}
			// Singleton pseudo-group renders as a bare item row.
			data.Rows = append(data.Rows, itemRow(groupIndex, group.Items[0]))
		}
	}
	return data
}

func itemRow(index string, item *LineItem) ExportRow {
	return ExportRow{
		Level:       RowItem,
		Index:       index,
		Description: item.Description,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
		Rate:        item.Rate(),
		Total:       item.Total,
		IsLabor:     item.IsLabor,
	}
}
