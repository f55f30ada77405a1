package services

import (
	"math"
	"testing"
)

func TestOrganizePartitionCompleteness(t *testing.T) {
	items := []*LineItem{
		itemWithGroup("wall block", "Masonry", "Retaining Wall"),
		itemWithGroup("drainage gravel", "Masonry", "Retaining Wall"),
		itemWithGroup("flagstone", "Masonry", ""),
		itemWithGroup("stud framing labor", "Framing", ""),
		itemWithGroup("unset category", "", ""),
		nil,
	}

	categories := Organize(items)

	// Every item appears in exactly one category bucket and one group bucket.
	seen := make(map[string]int)
	for _, cat := range categories {
		for _, group := range cat.Groups {
			for _, item := range group.Items {
				seen[item.ID]++
			}
		}
	}
	if len(seen) != 5 {
		t.Fatalf("expected 5 distinct items across buckets, got %d", len(seen))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("item %s appears %d times, want exactly 1", id, count)
		}
	}
}

func TestOrganizeGroupShapes(t *testing.T) {
	items := []*LineItem{
		itemWithGroup("wall block", "Masonry", "Retaining Wall"),
		itemWithGroup("flagstone", "Masonry", ""),
		itemWithGroup("cap stones", "Masonry", "Retaining Wall"),
	}

	categories := Organize(items)
	if len(categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(categories))
	}

	groups := categories[0].Groups
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups (named + singleton), got %d", len(groups))
	}
	if groups[0].Name != "Retaining Wall" || len(groups[0].Items) != 2 {
		t.Errorf("named group = %q with %d items, want Retaining Wall with 2", groups[0].Name, len(groups[0].Items))
	}
	if groups[0].Total != 200 {
		t.Errorf("named group total = %v, want 200", groups[0].Total)
	}
	// Ungrouped item renders as a singleton pseudo-group with empty name.
	if groups[1].Name != "" || len(groups[1].Items) != 1 {
		t.Errorf("pseudo-group = %q with %d items, want empty name with 1", groups[1].Name, len(groups[1].Items))
	}
}

func TestOrganizeCategoryOrderAndAliases(t *testing.T) {
	items := []*LineItem{
		itemWithGroup("custom scope", "Pool House", ""),
		itemWithGroup("unset", "", ""),
		itemWithGroup("legacy", "Uncategorized", ""),
		itemWithGroup("shingles", "Roofing", ""),
	}

	categories := Organize(items)
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories (Roofing, Miscellaneous, Pool House), got %d", len(categories))
	}
	// Canonical vocabulary order first, then user-invented names.
	if categories[0].Name != "Roofing" {
		t.Errorf("first category = %q, want Roofing", categories[0].Name)
	}
	if categories[1].Name != DefaultCategory {
		t.Errorf("second category = %q, want %q", categories[1].Name, DefaultCategory)
	}
	if len(categories[1].Items) != 2 {
		t.Errorf("Miscellaneous has %d items, want 2 (unset + legacy alias)", len(categories[1].Items))
	}
	if categories[2].Name != "Pool House" {
		t.Errorf("third category = %q, want Pool House", categories[2].Name)
	}
}

func TestOrganizeVisibility(t *testing.T) {
	visible := itemWithGroup("a", "Roofing", "")
	hidden := itemWithGroup("b", "Roofing", "")
	hidden.IsHidden = true
	other := itemWithGroup("c", "Framing", "")

	categories := Organize([]*LineItem{visible, hidden, other})

	var roofing, framing *ScopeCategory
	for i := range categories {
		switch categories[i].Name {
		case "Roofing":
			roofing = &categories[i]
		case "Framing":
			framing = &categories[i]
		}
	}

	if roofing == nil || framing == nil {
		t.Fatal("missing expected categories")
	}
	if roofing.Visible {
		t.Error("category with a hidden member must not be visible")
	}
	// Hidden item excluded from the category total.
	if roofing.Total != 100 {
		t.Errorf("Roofing total = %v, want 100", roofing.Total)
	}
	if !framing.Visible {
		t.Error("category with no hidden members must be visible")
	}
}

func TestComputeProjectTotals(t *testing.T) {
	visible := itemWithGroup("v", "", "")
	hidden := itemWithGroup("h", "", "")
	hidden.Quantity = 0.5
	hidden.Recalc()
	hidden.IsHidden = true

	totals := ComputeProjectTotals([]*LineItem{visible, hidden})
	if totals.VisibleTotal != 100 {
		t.Errorf("VisibleTotal = %v, want 100", totals.VisibleTotal)
	}
	if totals.HiddenTotal != 50 {
		t.Errorf("HiddenTotal = %v, want 50", totals.HiddenTotal)
	}
	if totals.GrandTotal != 150 {
		t.Errorf("GrandTotal = %v, want 150", totals.GrandTotal)
	}
}

func TestTotalConservation(t *testing.T) {
	items := []*LineItem{
		itemWithGroup("a", "Roofing", ""),
		itemWithGroup("b", "Framing", "Deck"),
		itemWithGroup("c", "", ""),
	}
	items[1].IsHidden = true

	totals := ComputeProjectTotals(items)
	if totals.GrandTotal != totals.VisibleTotal+totals.HiddenTotal {
		t.Error("grand total must equal visible + hidden")
	}

	sum := 0.0
	for _, item := range items {
		sum += item.Total
	}
	if totals.GrandTotal != sum {
		t.Errorf("grand total %v != sum of item totals %v", totals.GrandTotal, sum)
	}
}

func TestComputeProjectTotalsEmpty(t *testing.T) {
	totals := ComputeProjectTotals(nil)
	if totals.GrandTotal != 0 || totals.VisibleTotal != 0 || totals.HiddenTotal != 0 {
		t.Errorf("empty list totals = %+v, want all zero", totals)
	}
}

func TestComputeProposalSummary(t *testing.T) {
	material := NewLineItem("lumber", 10, "each", false, 100) // 1000
	labor := NewLineItem("install", 5, "hours", true, 100)    // 500

	summary := ComputeProposalSummary([]*LineItem{&material, &labor}, DefaultMarkupRate)
	if summary.MaterialsTotal != 1000 {
		t.Errorf("MaterialsTotal = %v, want 1000", summary.MaterialsTotal)
	}
	if summary.LaborTotal != 500 {
		t.Errorf("LaborTotal = %v, want 500", summary.LaborTotal)
	}
	if summary.Subtotal != 1500 {
		t.Errorf("Subtotal = %v, want 1500", summary.Subtotal)
	}
	if math.Abs(summary.Markup-450) > 0.001 {
		t.Errorf("Markup = %v, want 450", summary.Markup)
	}
	if math.Abs(summary.GrandTotal-1950) > 0.001 {
		t.Errorf("GrandTotal = %v, want 1950", summary.GrandTotal)
	}
}

func TestComputeProposalSummaryBadRate(t *testing.T) {
	material := NewLineItem("lumber", 10, "each", false, 100)
	summary := ComputeProposalSummary([]*LineItem{&material}, math.NaN())
	if summary.Markup != 0 || summary.GrandTotal != 1000 {
		t.Errorf("NaN markup rate should degrade to 0, got markup %v grand %v", summary.Markup, summary.GrandTotal)
	}
}

func TestSetCategoryHidden(t *testing.T) {
	a := itemWithGroup("a", "Roofing", "")
	b := itemWithGroup("b", "Roofing", "")
	c := itemWithGroup("c", "", "")
	items := []*LineItem{a, b, c}

	if got := SetCategoryHidden(items, "Roofing", true); got != 2 {
		t.Errorf("touched %d items, want 2", got)
	}
	if !a.IsHidden || !b.IsHidden || c.IsHidden {
		t.Error("visibility flags wrong after category hide")
	}

	// Alias-aware: hiding Miscellaneous catches the unset item.
	if got := SetCategoryHidden(items, DefaultCategory, true); got != 1 {
		t.Errorf("touched %d items, want 1", got)
	}
	if !c.IsHidden {
		t.Error("aliased item not hidden")
	}

	SetCategoryHidden(items, "Roofing", false)
	if a.IsHidden || b.IsHidden {
		t.Error("unhide did not clear flags")
	}
}
