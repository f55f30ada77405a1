// Package services provides the scope classification, grouping and cost
// roll-up engine for proposals, plus formatting and export generators.
// Everything in this package is pure computation over data passed in and
// returned out; persistence and HTTP live in the handlers and collections
// packages.
package services

import (
	"log"
	"math"

	"github.com/google/uuid"
)

// Default rates applied when a proposal does not override them.
const (
	DefaultMarkupRate  = 0.30
	DefaultWasteFactor = 0.10
)

// LineItem is one unit of billable work, material or labor.
// Total is always derived via Recalc and never written directly.
type LineItem struct {
	ID           string  `json:"id"`
	Description  string  `json:"description"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	IsLabor      bool    `json:"isLabor"`
	LaborRate    float64 `json:"laborRate"`
	MaterialCost float64 `json:"materialCost"`
	Total        float64 `json:"total"`
	Category     string  `json:"category"`
	ScopeGroup   string  `json:"scopeGroup"`
	IsHidden     bool    `json:"isHidden"`
	WasteFactor  float64 `json:"wasteFactor"`
}

// NewLineItem mints a line item with a fresh id and a derived total.
// The waste factor defaults for material items; labor carries none.
func NewLineItem(description string, quantity float64, unit string, isLabor bool, rate float64) LineItem {
	item := LineItem{
		ID:          uuid.NewString(),
		Description: description,
		Quantity:    quantity,
		Unit:        unit,
		IsLabor:     isLabor,
	}
	if isLabor {
		item.LaborRate = rate
	} else {
		item.MaterialCost = rate
		item.WasteFactor = DefaultWasteFactor
	}
	item.Recalc()
	return item
}

// Rate returns the authoritative unit price for the item.
func (li *LineItem) Rate() float64 {
	if li.IsLabor {
		return li.LaborRate
	}
	return li.MaterialCost
}

// Recalc re-derives Total from quantity and the applicable rate.
// Must be called after any mutation of Quantity, LaborRate or MaterialCost.
func (li *LineItem) Recalc() {
	li.Total = SanitizeAmount(li.Quantity) * SanitizeAmount(li.Rate())
}

// WasteAdjustedTotal returns the total inflated by the item's waste factor.
// Waste is informational only and never folded into Total itself; labor
// items report their plain total.
func (li *LineItem) WasteAdjustedTotal() float64 {
	if li.IsLabor {
		return li.Total
	}
	return li.Total * (1 + SanitizeAmount(li.WasteFactor))
}

// SanitizeAmount resolves NaN, infinities and negative values to 0 so bad
// numeric fields never propagate into displayed totals.
func SanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// PerUnitCost divides total by quantity, displaying 0 instead of NaN when
// the quantity is zero.
func PerUnitCost(total, quantity float64) float64 {
	if quantity == 0 {
		return 0
	}
	return total / quantity
}

// SanitizeItems drops nil entries from an item list, logging how many were
// skipped so data loss upstream is visible. A nil slice is treated as empty.
func SanitizeItems(items []*LineItem) []*LineItem {
	if items == nil {
		return []*LineItem{}
	}
	clean := make([]*LineItem, 0, len(items))
	skipped := 0
	for _, item := range items {
		if item == nil {
			skipped++
			continue
		}
		clean = append(clean, item)
	}
	if skipped > 0 {
		log.Printf("items: skipped %d nil entries in item list", skipped)
	}
	return clean
}
