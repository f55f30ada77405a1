package services

import (
	"sort"
	"strings"
)

// Canonical fallback category names.
const (
	DefaultCategory   = "Miscellaneous"
	MaterialsCategory = "Materials & Supplies"
	PermitsCategory   = "Permits & Fees"
)

// deprecatedCategories maps legacy category names that may still exist on
// persisted items to their current equivalents. Normalization and bulk
// re-classification both consult this table so the three alias-aware
// operations (aggregate, rename, remove) can never diverge.
var deprecatedCategories = map[string]string{
	"Uncategorized":          DefaultCategory,
	"General":                DefaultCategory,
	"Misc":                   DefaultCategory,
	"Sheetrock":              "Insulation & Drywall",
	"Concrete & Foundations": "Concrete Slab",
}

type classifierRule struct {
	category string
	keywords []string
}

// classifierRules is the ordered rule table for trade classification.
// First match wins, so rarer and more specific terms are declared before
// generic ones (e.g. "subfloor" under Framing shadows "floor" under
// Flooring). The order is load-bearing: reordering changes results.
var classifierRules = []classifierRule{
	{"Demolition", []string{"demolition", "demo", "tear out", "tear-out", "haul away", "disposal"}},
	{"Site Preparation", []string{"excavat", "grading", "trenching", "backfill", "site prep", "clearing", "compaction"}},
	{"Concrete Slab", []string{"concrete", "slab", "rebar", "footing", "foundation", "cement", "formwork", "pour"}},
	{"Masonry", []string{"brick", "cmu", "block wall", "stone", "mortar", "paver", "retaining wall"}},
	{"Framing", []string{"framing", "stud", "joist", "rafter", "truss", "sheathing", "subfloor", "lumber", "2x4", "2x6", "beam"}},
	{"Roofing", []string{"roof", "shingle", "underlayment", "flashing", "gutter", "fascia"}},
	{"Electrical", []string{"electric", "wiring", "light fixture", "outlet", "breaker", "panel", "conduit", "recessed light"}},
	{"Plumbing", []string{"plumb", "pipe", "drain", "sewer", "water heater", "faucet", "fixture", "valve"}},
	{"HVAC", []string{"hvac", "furnace", "ductwork", "duct", "air condition", "heat pump", "mini split", "thermostat"}},
	{"Insulation & Drywall", []string{"insulation", "drywall", "sheetrock", "gypsum", "batt", "tape and texture"}},
	{"Painting", []string{"paint", "primer", "stain", "caulk"}},
	{"Flooring", []string{"tile", "carpet", "hardwood", "laminate", "vinyl", "grout", "floor"}},
	{"Windows & Doors", []string{"window", "door", "casing", "baseboard", "trim"}},
	{"Landscaping", []string{"landscap", "sod", "irrigation", "mulch", "planting", "fence", "deck", "fire pit"}},
}

// Classify maps a free-text item description to a trade category name.
// Pure and deterministic: rules are scanned in declaration order and the
// first keyword hit wins. Unmatched descriptions fall through to the
// materials, permits and miscellaneous fallbacks in that order.
func Classify(description string) string {
	desc := strings.ToLower(description)

	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.category
			}
		}
	}

	for _, kw := range []string{"material", "supply", "supplies"} {
		if strings.Contains(desc, kw) {
			return MaterialsCategory
		}
	}
	for _, kw := range []string{"permit", "fee", "inspection"} {
		if strings.Contains(desc, kw) {
			return PermitsCategory
		}
	}

	return DefaultCategory
}

// ClassifyAll re-derives the category for every item whose current category
// is empty, the default fallback, or a deprecated legacy name. Categories a
// user assigned explicitly are left alone. It reports how many items changed
// and, separately, how many were migrated off a deprecated name.
func ClassifyAll(items []*LineItem) (changed, migrated int) {
	for _, item := range SanitizeItems(items) {
		_, deprecated := deprecatedCategories[item.Category]
		if item.Category != "" && item.Category != DefaultCategory && !deprecated {
			continue
		}

		category := Classify(item.Description)
		if deprecated {
			migrated++
		}
		if category != item.Category {
			item.Category = category
			changed++
		}
	}
	return changed, migrated
}

// NormalizeCategory resolves the implicit aliases: an unset category reads
// as Miscellaneous and deprecated legacy names read as their current
// equivalents. Every aggregation, rename and remove applies this once at
// its boundary instead of scattering equality checks.
func NormalizeCategory(name string) string {
	if name == "" {
		return DefaultCategory
	}
	if current, ok := deprecatedCategories[name]; ok {
		return current
	}
	return name
}

// DeprecatedCategoryNames returns the legacy category names that startup
// migration should rewrite, in stable sorted order.
func DeprecatedCategoryNames() []string {
	names := make([]string, 0, len(deprecatedCategories))
	for name := range deprecatedCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoryNames returns the full ordered category vocabulary for pick-lists:
// every rule category followed by the fallback categories.
func CategoryNames() []string {
	names := make([]string, 0, len(classifierRules)+3)
	for _, rule := range classifierRules {
		names = append(names, rule.category)
	}
	return append(names, MaterialsCategory, PermitsCategory, DefaultCategory)
}
