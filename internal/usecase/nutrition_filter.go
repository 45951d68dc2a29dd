package usecase

import (
	"regexp"
	"strings"
)

// Heuristic lists for deciding whether a line collected under the nutrition
// section really belongs to the nutrition table.
var (
	nutritionNameHints = []string{
		"ENER", "CALOR", "PROT", "CARB", "SUG", "FIB", "FAT", "SAT", "TRANS", "SOD", "SALT",
	}
	nutritionKeepPrefixes = []string{
		"NUTRITION", "NUTRITIONAL", "SERVE", "SERVING", "PER 100", "PER100", "%RDA",
	}
	nutritionExcludeHints = []string{
		"LIC.", "M.LIC", "FSSAI", "WWW", "HTTP", "BATCH", "BARCODE", "ADDRESS",
		"FIND US", "FACEBOOK", "SCAN", "APP:", "MKT.", "MANUFACTURER", "LICENSE",
	}
)

// nutritionValueRegex matches a numeric value followed by a nutrition unit.
// RE2 has no lookahead, so "unit not immediately followed by a letter" is
// expressed with a trailing non-letter-or-end alternative.
var nutritionValueRegex = regexp.MustCompile(`(?i)\d+(\.\d+)?\s*(kcal|kj|g|mg|mcg|%)(?:[^A-Za-z]|$)`)

var nonLettersRegex = regexp.MustCompile(`[^A-Za-z]`)

// looksLikeNutritionValue reports whether text contains a value+unit pattern
// like "250 kcal" or "10g".
func looksLikeNutritionValue(text string) bool {
	return nutritionValueRegex.MatchString(text)
}

// IsNutritionFact is the heuristic filter for valid nutrition table lines:
// keep known headers, reject license/URL/address noise, keep value+unit lines,
// keep lines whose letters contain a nutrient-name fragment.
func IsNutritionFact(text string) bool {
	t := strings.TrimSpace(text)
	up := strings.ToUpper(t)

	for _, pfx := range nutritionKeepPrefixes {
		if strings.HasPrefix(up, pfx) {
			return true
		}
	}
	for _, hint := range nutritionExcludeHints {
		if strings.Contains(up, hint) {
			return false
		}
	}
	if looksLikeNutritionValue(t) {
		return true
	}

	letters := strings.ToUpper(nonLettersRegex.ReplaceAllString(t, ""))
	for _, hint := range nutritionNameHints {
		if strings.Contains(letters, hint) {
			return true
		}
	}
	return false
}
