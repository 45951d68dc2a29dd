package usecase

import (
	"log"
	"strings"

	"github.com/labellens/backend/internal/domain"
)

// sectionFieldTargets maps each spatial section to the record field its
// concatenated text overrides.
var sectionFieldTargets = map[domain.Section]string{
	domain.SectionNutrition:   "Nutritional Facts",
	domain.SectionIngredients: "Ingredients",
	domain.SectionAllergen:    "Warnings",
	domain.SectionMRP:         "Price",
	domain.SectionMFD:         "Date of Manufacturing",
	domain.SectionQty:         "Weight",
}

// FieldMerger resolves conflicts between the lexical extraction result, the
// spatial section groups, and an optional external record. Later stages
// strictly replace earlier values for the fields they target: section text
// overrides lexical extraction, and the external record overrides everything.
type FieldMerger struct {
	enableDebugLogging bool
}

// NewFieldMerger creates a merger.
func NewFieldMerger(enableDebugLogging bool) *FieldMerger {
	return &FieldMerger{enableDebugLogging: enableDebugLogging}
}

// MergeSections overlays section-derived text onto the extracted record and
// returns the merged map form. A section with no tokens leaves its target
// field untouched; a non-empty one overwrites it unconditionally.
func (m *FieldMerger) MergeSections(record *domain.FieldRecord, groups domain.SectionedGroups) domain.MergedRecord {
	merged := record.AsMerged()
	if groups == nil {
		return merged
	}

	for _, section := range domain.Sections {
		field := sectionFieldTargets[section]
		text := groups.SectionText(section)
		if text == "" {
			continue
		}
		value := text
		merged[field] = &value
		if m.enableDebugLogging {
			log.Printf("[MERGE] section %q -> %q (%d chars)", section, field, len(text))
		}
	}
	return merged
}

// MergeExternal overlays an external (CSV-sourced) record onto merged. Keys
// are applied verbatim, overwriting same-named entries regardless of
// provenance; values are trimmed but otherwise untouched. The input map is
// not mutated.
func (m *FieldMerger) MergeExternal(merged domain.MergedRecord, external map[string]string) domain.MergedRecord {
	out := merged.Clone()
	for key, value := range external {
		v := strings.TrimSpace(value)
		out[strings.TrimSpace(key)] = &v
	}
	if m.enableDebugLogging && len(external) > 0 {
		log.Printf("[MERGE] external record applied: %d keys", len(external))
	}
	return out
}
