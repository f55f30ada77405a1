package services

// UnitOptions is the unit-of-measure vocabulary for line items.
var UnitOptions = []string{
	"sq ft",
	"sq yd",
	"linear ft",
	"cu yd",
	"each",
	"hours",
	"days",
	"weeks",
	"bags",
	"sheets",
	"rolls",
	"tons",
	"loads",
	"lump sum",
}

// ProjectTypeOptions lists the project types accepted by the market
// pricing model.
var ProjectTypeOptions = []string{ProjectTypeHome, ProjectTypeADU}

// MarketTierOptions lists the market tiers in ascending price order.
var MarketTierOptions = []string{TierLow, TierMedium, TierHigh, TierLuxury}

// AdditionalCostCategories lists the categories for ad-hoc pricing costs.
var AdditionalCostCategories = []string{CostUpgrade, CostChange, CostAllowance}
