package services

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns for pulling structure out of pasted free-text item lists.
var (
	bulletPattern = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
	ratePattern   = regexp.MustCompile(`@\s*\$?\s*([\d,]+(?:\.\d+)?)(?:\s*/\s*\w+)?`)
	pricePattern  = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d+)?)`)
	qtyPattern    = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(sq\.?\s?ft\.?|sqft|sf|sq\s?yd|cu\s?yd|linear\s?f(?:ee)?t|lf|hours?|hrs?|days?|weeks?|each|ea|bags?|sheets?|rolls?|tons?|loads?|lump\s?sum|ls)\b`)
)

// unitAliases normalizes the unit vocabulary pulled out of free text.
var unitAliases = map[string]string{
	"sqft": "sq ft", "sq ft": "sq ft", "sf": "sq ft",
	"sq yd": "sq yd", "cu yd": "cu yd",
	"linear ft": "linear ft", "linear feet": "linear ft", "lf": "linear ft",
	"hr": "hours", "hrs": "hours", "hour": "hours", "hours": "hours",
	"day": "days", "days": "days", "week": "weeks", "weeks": "weeks",
	"ea": "each", "each": "each",
	"bag": "bags", "bags": "bags", "sheet": "sheets", "sheets": "sheets",
	"roll": "rolls", "rolls": "rolls", "ton": "tons", "tons": "tons",
	"load": "loads", "loads": "loads",
	"ls": "lump sum", "lump sum": "lump sum", "lumpsum": "lump sum",
}

// laborUnits and laborKeywords drive material-vs-labor detection.
var laborUnits = map[string]bool{"hours": true, "days": true, "weeks": true}

var laborKeywords = []string{
	"labor", "install", "demo", "framing crew", "crew", "electrician",
	"plumber", "painter", "carpenter", "operator", "excavation", "grading",
}

// ParseItemList turns a pasted multi-line free-text list into line items.
// One item per non-empty line; unparseable lines degrade to a quantity-1
// lump-sum item at rate 0 rather than erroring, so nothing the user typed
// is ever silently dropped. Each item is classified as it is parsed.
func ParseItemList(text string) []LineItem {
	var items []LineItem
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		item := parseLine(line)
		item.Category = Classify(item.Description)
		items = append(items, item)
	}
	return items
}

// parseLine extracts quantity, unit and rate from one line. The description
// keeps the original wording minus any bullet prefix and trailing price.
func parseLine(line string) LineItem {
	line = bulletPattern.ReplaceAllString(line, "")

	rate := 0.0
	description := line
	if m := ratePattern.FindStringSubmatchIndex(line); m != nil {
		rate = parseAmount(line[m[2]:m[3]])
		description = line[:m[0]] + line[m[1]:]
	} else if m := pricePattern.FindStringSubmatchIndex(line); m != nil {
		rate = parseAmount(line[m[2]:m[3]])
		description = line[:m[0]] + line[m[1]:]
	}

	quantity := 1.0
	unit := "lump sum"
	if m := qtyPattern.FindStringSubmatch(description); m != nil {
		quantity = parseAmount(m[1])
		if quantity == 0 {
			quantity = 1
		}
		if normalized, ok := unitAliases[normalizeUnitToken(m[2])]; ok {
			unit = normalized
		}
	}

	description = strings.Trim(strings.TrimSpace(description), "-–—: ")
	item := NewLineItem(description, quantity, unit, isLaborLine(description, unit), rate)
	return item
}

func normalizeUnitToken(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	return strings.Join(strings.Fields(strings.ReplaceAll(token, ".", "")), " ")
}

func parseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return SanitizeAmount(v)
}

func isLaborLine(description, unit string) bool {
	if laborUnits[unit] {
		return true
	}
	desc := strings.ToLower(description)
	for _, kw := range laborKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}
