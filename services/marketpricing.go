package services

import "log"

// Project types and market tiers accepted by the pricing model.
const (
	ProjectTypeHome = "home"
	ProjectTypeADU  = "adu"

	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
	TierLuxury = "luxury"
)

// Additional cost categories.
const (
	CostUpgrade   = "upgrade"
	CostChange    = "change"
	CostAllowance = "allowance"
)

// RateRange is the $/SF bracket for one (projectType, marketTier) pair.
type RateRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Typical float64 `json:"typical"`
}

// baseRates is the fixed $/SF lookup table.
var baseRates = map[string]map[string]RateRange{
	ProjectTypeHome: {
		TierLow:    {Min: 150, Max: 250, Typical: 200},
		TierMedium: {Min: 250, Max: 350, Typical: 300},
		TierHigh:   {Min: 350, Max: 500, Typical: 425},
		TierLuxury: {Min: 500, Max: 800, Typical: 650},
	},
	ProjectTypeADU: {
		TierLow:    {Min: 200, Max: 300, Typical: 250},
		TierMedium: {Min: 300, Max: 400, Typical: 350},
		TierHigh:   {Min: 400, Max: 550, Typical: 475},
		TierLuxury: {Min: 550, Max: 850, Typical: 700},
	},
}

// Trade is one entry of the fixed trade breakdown. Percent allocates a share
// of the base budget; CustomAmount, when set, overrides the percentage-derived
// amount for this trade only.
type Trade struct {
	Name         string   `json:"name"`
	Percent      float64  `json:"percent"`
	Included     bool     `json:"included"`
	CustomAmount *float64 `json:"customAmount,omitempty"`
}

// DefaultTrades returns the default trade list with all trades included.
// The percentages intentionally do not sum to 100: overhead & profit and
// contingency-style allocations overlap base construction trades, and the
// two must not be "corrected" into a partition.
func DefaultTrades() []Trade {
	return []Trade{
		{Name: "Site Work & Excavation", Percent: 5, Included: true},
		{Name: "Foundation & Concrete", Percent: 8, Included: true},
		{Name: "Framing", Percent: 12, Included: true},
		{Name: "Roofing", Percent: 5, Included: true},
		{Name: "Exterior Finishes", Percent: 6, Included: true},
		{Name: "Windows & Doors", Percent: 5, Included: true},
		{Name: "Plumbing", Percent: 7, Included: true},
		{Name: "Electrical", Percent: 7, Included: true},
		{Name: "HVAC", Percent: 6, Included: true},
		{Name: "Insulation & Drywall", Percent: 7, Included: true},
		{Name: "Interior Finishes", Percent: 10, Included: true},
		{Name: "Flooring", Percent: 6, Included: true},
		{Name: "Cabinets & Countertops", Percent: 8, Included: true},
		{Name: "Overhead & Profit", Percent: 15, Included: true},
	}
}

// AdditionalCost is a free-form cost not tied to any trade.
type AdditionalCost struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

// PricingConfig is the full input to the top-down estimator.
type PricingConfig struct {
	ProjectType      string           `json:"projectType"`
	MarketTier       string           `json:"marketTier"`
	SquareFootage    int              `json:"squareFootage"`
	UseCustomPricing bool             `json:"useCustomPricing"`
	CustomPricePerSF float64          `json:"customPricePerSF"`
	Trades           []Trade          `json:"trades"`
	AdditionalCosts  []AdditionalCost `json:"additionalCosts"`
}

// TradeAmount is one trade's resolved dollar figure in a breakdown.
type TradeAmount struct {
	Name     string  `json:"name"`
	Percent  float64 `json:"percent"`
	Amount   float64 `json:"amount"`
	IsCustom bool    `json:"isCustom"`
}

// PricingBreakdown is the computed output of the top-down estimator.
type PricingBreakdown struct {
	PricePerSF           float64       `json:"pricePerSF"`
	TotalBase            float64       `json:"totalBase"`
	MarketLow            float64       `json:"marketLow"`
	MarketHigh           float64       `json:"marketHigh"`
	Trades               []TradeAmount `json:"trades"`
	TradeTotal           float64       `json:"tradeTotal"`
	AdditionalCostsTotal float64       `json:"additionalCostsTotal"`
	Subtotal             float64       `json:"subtotal"`
	GrandTotal           float64       `json:"grandTotal"`
	EffectivePricePerSF  float64       `json:"effectivePricePerSF"`
}

// LookupRate returns the $/SF bracket for the given project type and tier.
// Unknown combinations fail safe to home/medium and log the anomaly instead
// of erroring.
func LookupRate(projectType, marketTier string) RateRange {
	tiers, ok := baseRates[projectType]
	if !ok {
		log.Printf("pricing: unknown project type %q, falling back to %s", projectType, ProjectTypeHome)
		tiers = baseRates[ProjectTypeHome]
	}
	rate, ok := tiers[marketTier]
	if !ok {
		log.Printf("pricing: unknown market tier %q, falling back to %s", marketTier, TierMedium)
		rate = tiers[TierMedium]
	}
	return rate
}

// ComputeBreakdown derives the full top-down budget: base rate lookup, trade
// apportionment with per-trade custom overrides, additional costs, and final
// figures. GrandTotal equals the subtotal by design; overhead and profit is
// already embedded as a trade, unlike the bottom-up model's external markup.
func ComputeBreakdown(cfg PricingConfig) PricingBreakdown {
	rate := LookupRate(cfg.ProjectType, cfg.MarketTier)
	sf := float64(cfg.SquareFootage)
	if sf < 0 {
		sf = 0
	}

	var b PricingBreakdown
	b.PricePerSF = rate.Typical
	if cfg.UseCustomPricing {
		b.PricePerSF = SanitizeAmount(cfg.CustomPricePerSF)
	}
	b.TotalBase = b.PricePerSF * sf
	b.MarketLow = rate.Min * sf
	b.MarketHigh = rate.Max * sf

	trades := cfg.Trades
	if len(trades) == 0 {
		trades = DefaultTrades()
	}
	for _, trade := range trades {
		if !trade.Included {
			continue
		}
		amount := b.TotalBase * trade.Percent / 100
		custom := false
		if trade.CustomAmount != nil {
			amount = SanitizeAmount(*trade.CustomAmount)
			custom = true
		}
		b.Trades = append(b.Trades, TradeAmount{
			Name:     trade.Name,
			Percent:  trade.Percent,
			Amount:   amount,
			IsCustom: custom,
		})
		b.TradeTotal += amount
	}

	for _, cost := range cfg.AdditionalCosts {
		b.AdditionalCostsTotal += SanitizeAmount(cost.Amount)
	}

	b.Subtotal = b.TradeTotal + b.AdditionalCostsTotal
	b.GrandTotal = b.Subtotal
	if sf > 0 {
		b.EffectivePricePerSF = b.GrandTotal / sf
	}
	return b
}

// BreakdownToLineItems converts a computed breakdown into synthetic line
// items for merging into the bottom-up list: one lump-sum labor item per
// included trade and one lump-sum material item per additional cost. The
// conversion is one-way; edits to the resulting items never feed back into
// the pricing model.
func BreakdownToLineItems(cfg PricingConfig, b PricingBreakdown) []LineItem {
	items := make([]LineItem, 0, len(b.Trades)+len(cfg.AdditionalCosts))

	for _, trade := range b.Trades {
		item := NewLineItem(trade.Name, 1, "LS", true, trade.Amount)
		item.Category = Classify(trade.Name)
		items = append(items, item)
	}
	for _, cost := range cfg.AdditionalCosts {
		item := NewLineItem(cost.Description, 1, "LS", false, SanitizeAmount(cost.Amount))
		item.Category = Classify(cost.Description)
		items = append(items, item)
	}
	return items
}
