package services

// ScopeGroup is a derived cluster of items inside a category. An empty name
// marks the singleton pseudo-group wrapping one ungrouped item, so grouped
// and flat display modes share one data shape.
type ScopeGroup struct {
	Name  string      `json:"name"`
	Items []*LineItem `json:"items"`
	Total float64     `json:"total"`
}

// ScopeCategory is a derived partition of the item list by trade category.
// Total sums non-hidden member totals; Visible is true only while no member
// item is individually hidden.
type ScopeCategory struct {
	Name    string       `json:"name"`
	Items   []*LineItem  `json:"items"`
	Groups  []ScopeGroup `json:"groups"`
	Total   float64      `json:"total"`
	Visible bool         `json:"visible"`
}

// ProjectTotals are the project-level figures, always recomputed from the
// live item list so they cannot drift.
type ProjectTotals struct {
	VisibleTotal float64 `json:"visibleTotal"`
	HiddenTotal  float64 `json:"hiddenTotal"`
	GrandTotal   float64 `json:"grandTotal"`
}

// ProposalSummary is the materials/labor split with flat markup used by the
// proposal-level summary.
type ProposalSummary struct {
	MaterialsTotal float64 `json:"materialsTotal"`
	LaborTotal     float64 `json:"laborTotal"`
	Subtotal       float64 `json:"subtotal"`
	MarkupRate     float64 `json:"markupRate"`
	Markup         float64 `json:"markup"`
	GrandTotal     float64 `json:"grandTotal"`
}

// Organize partitions items into categories and, within each category, into
// scope groups. Categories appear in canonical vocabulary order with
// user-invented names appended in first-seen order; groups keep first-seen
// order with ungrouped items trailing as singleton pseudo-groups. Items are
// never mutated.
func Organize(items []*LineItem) []ScopeCategory {
	items = SanitizeItems(items)

	byCategory := make(map[string][]*LineItem)
	var order []string
	seen := make(map[string]bool)

	for _, name := range CategoryNames() {
		seen[name] = true
		order = append(order, name)
	}
	for _, item := range items {
		name := NormalizeCategory(item.Category)
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
		byCategory[name] = append(byCategory[name], item)
	}

	var categories []ScopeCategory
	for _, name := range order {
		members := byCategory[name]
		if len(members) == 0 {
			continue
		}

		cat := ScopeCategory{Name: name, Items: members, Visible: true}
		for _, item := range members {
			if item.IsHidden {
				cat.Visible = false
			} else {
				cat.Total += item.Total
			}
		}
		cat.Groups = organizeGroups(members)
		categories = append(categories, cat)
	}
	return categories
}

// organizeGroups partitions one category's items by scope group. Named
// groups come first in first-seen order; each ungrouped item becomes its own
// pseudo-group with an empty name.
func organizeGroups(members []*LineItem) []ScopeGroup {
	byGroup := make(map[string]int)
	var groups []ScopeGroup

	for _, item := range members {
		if item.ScopeGroup == "" {
			continue
		}
		idx, ok := byGroup[item.ScopeGroup]
		if !ok {
			idx = len(groups)
			byGroup[item.ScopeGroup] = idx
			groups = append(groups, ScopeGroup{Name: item.ScopeGroup})
		}
		groups[idx].Items = append(groups[idx].Items, item)
		if !item.IsHidden {
			groups[idx].Total += item.Total
		}
	}

	for _, item := range members {
		if item.ScopeGroup != "" {
			continue
		}
		g := ScopeGroup{Items: []*LineItem{item}}
		if !item.IsHidden {
			g.Total = item.Total
		}
		groups = append(groups, g)
	}
	return groups
}

// ComputeProjectTotals derives visible, hidden and grand totals from scratch
// on every call. GrandTotal always equals VisibleTotal + HiddenTotal and the
// sum of all item totals, including for the empty list.
func ComputeProjectTotals(items []*LineItem) ProjectTotals {
	var totals ProjectTotals
	for _, item := range SanitizeItems(items) {
		if item.IsHidden {
			totals.HiddenTotal += item.Total
		} else {
			totals.VisibleTotal += item.Total
		}
	}
	totals.GrandTotal = totals.VisibleTotal + totals.HiddenTotal
	return totals
}

// ComputeProposalSummary splits the list into materials and labor and
// applies the flat markup rate on top of the subtotal. Waste factors are
// not folded in here; they stay informational per item.
func ComputeProposalSummary(items []*LineItem, markupRate float64) ProposalSummary {
	summary := ProposalSummary{MarkupRate: SanitizeAmount(markupRate)}
	for _, item := range SanitizeItems(items) {
		if item.IsLabor {
			summary.LaborTotal += item.Total
		} else {
			summary.MaterialsTotal += item.Total
		}
	}
	summary.Subtotal = summary.MaterialsTotal + summary.LaborTotal
	summary.Markup = summary.Subtotal * summary.MarkupRate
	summary.GrandTotal = summary.Subtotal + summary.Markup
	return summary
}

// SetCategoryHidden flips IsHidden uniformly on every member of the
// (alias-aware) category and returns how many items were touched. Category
// visibility is stored nowhere else; it is only ever this per-item flag.
func SetCategoryHidden(items []*LineItem, name string, hidden bool) int {
	target := NormalizeCategory(name)
	touched := 0
	for _, item := range SanitizeItems(items) {
		if NormalizeCategory(item.Category) == target {
			item.IsHidden = hidden
			touched++
		}
	}
	return touched
}
