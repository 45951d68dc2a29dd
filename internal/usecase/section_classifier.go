package usecase

import (
	"strings"

	"github.com/labellens/backend/internal/domain"
)

// sectionTriggers binds each section to its ordered trigger-substring list.
// Matching is case-sensitive substring containment, not tokenization: a
// trigger appearing inside an unrelated word still matches. That false
// positive is an accepted trade-off of the heuristic.
var sectionTriggers = map[domain.Section][]string{
	domain.SectionNutrition:   {"NUTRITION", "NUTRITIONAL INFORMATION", "NUTRITION FACTS", "NUTRITIONAL INFO", "NUTRITIONAL FACTS"},
	domain.SectionIngredients: {"INGREDIENTS", "CONTAINS"},
	domain.SectionAllergen:    {"ALLERGEN"},
	domain.SectionMRP:         {"MRP", "MAX RETAIL PRICE", "UNIT SALE PRICE", "UNIT PRICE", "PRICE", "COST", "COST PRICE"},
	domain.SectionMFD:         {"MFD", "USE BY", "BEST BEFORE", "EXPIRY", "EXPIRY DATE", "MANUFACTURED", "MANUFACTURING DATE"},
	domain.SectionQty:         {"QTY", "NET WEIGHT", "NET QTY", "WEIGHT", "VOLUME"},
}

// ClassifySection returns the first section (in enumeration order) whose
// trigger list contains a substring of text, and whether any matched.
func ClassifySection(text string) (domain.Section, bool) {
	for _, section := range domain.Sections {
		for _, trigger := range sectionTriggers[section] {
			if strings.Contains(text, trigger) {
				return section, true
			}
		}
	}
	return "", false
}
