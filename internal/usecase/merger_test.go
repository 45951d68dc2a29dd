package usecase

import (
	"testing"

	"github.com/labellens/backend/internal/domain"
)

func mergedValue(t *testing.T, m domain.MergedRecord, key string) string {
	t.Helper()
	v, ok := m[key]
	if !ok {
		t.Fatalf("key %q missing from merged record", key)
	}
	if v == nil {
		t.Fatalf("key %q is null", key)
	}
	return *v
}

func TestMergeSections_SectionTextOverridesLexical(t *testing.T) {
	m := NewFieldMerger(false)

	record := domain.NewFieldRecord()
	record.Set("Weight", "50g")

	groups := domain.NewSectionedGroups()
	groups[domain.SectionQty] = []*domain.ColumnGroup{
		{AnchorX: 10, Tokens: []domain.Token{
			token("NET WEIGHT 200G", 10, 20),
		}},
	}

	merged := m.MergeSections(record, groups)

	if got := mergedValue(t, merged, "Weight"); got != "NET WEIGHT 200G" {
		t.Errorf("Weight = %q, want section text to win", got)
	}
}

func TestMergeSections_EmptySectionLeavesLexicalValue(t *testing.T) {
	m := NewFieldMerger(false)

	record := domain.NewFieldRecord()
	record.Set("Weight", "50g")

	merged := m.MergeSections(record, domain.NewSectionedGroups())

	if got := mergedValue(t, merged, "Weight"); got != "50g" {
		t.Errorf("Weight = %q, want lexical value preserved", got)
	}
}

func TestMergeSections_AllTargets(t *testing.T) {
	m := NewFieldMerger(false)

	groups := domain.NewSectionedGroups()
	put := func(section domain.Section, text string) {
		groups[section] = []*domain.ColumnGroup{
			{AnchorX: 10, Tokens: []domain.Token{token(text, 10, 20)}},
		}
	}
	put(domain.SectionNutrition, "ENERGY 250 kcal")
	put(domain.SectionIngredients, "Wheat Flour Sugar")
	put(domain.SectionAllergen, "Contains wheat")
	put(domain.SectionMRP, "MRP RS. 49.50")
	put(domain.SectionMFD, "MFD 01-02-2023")
	put(domain.SectionQty, "NET WEIGHT 200G")

	merged := m.MergeSections(domain.NewFieldRecord(), groups)

	wants := map[string]string{
		"Nutritional Facts":     "ENERGY 250 kcal",
		"Ingredients":           "Wheat Flour Sugar",
		"Warnings":              "Contains wheat",
		"Price":                 "MRP RS. 49.50",
		"Date of Manufacturing": "MFD 01-02-2023",
		"Weight":                "NET WEIGHT 200G",
	}
	for field, want := range wants {
		if got := mergedValue(t, merged, field); got != want {
			t.Errorf("field %q = %q, want %q", field, got, want)
		}
	}
}

func TestMergeSections_JoinsColumnTexts(t *testing.T) {
	m := NewFieldMerger(false)

	groups := domain.NewSectionedGroups()
	groups[domain.SectionNutrition] = []*domain.ColumnGroup{
		{AnchorX: 10, Tokens: []domain.Token{
			token("ENERGY", 10, 20),
			token("PROTEIN", 10, 40),
		}},
		{AnchorX: 100, Tokens: []domain.Token{
			token("250 kcal", 100, 20),
		}},
	}

	merged := m.MergeSections(domain.NewFieldRecord(), groups)

	if got := mergedValue(t, merged, "Nutritional Facts"); got != "ENERGY PROTEIN 250 kcal" {
		t.Errorf("Nutritional Facts = %q", got)
	}
}

func TestMergeExternal_ExternalWinsOverEverything(t *testing.T) {
	m := NewFieldMerger(false)

	// Lexical said 50g, the qty section said 200G, the CSV says 250g.
	record := domain.NewFieldRecord()
	record.Set("Weight", "50g")

	groups := domain.NewSectionedGroups()
	groups[domain.SectionQty] = []*domain.ColumnGroup{
		{AnchorX: 10, Tokens: []domain.Token{token("NET WEIGHT 200G", 10, 20)}},
	}

	primary := m.MergeSections(record, groups)
	secondary := m.MergeExternal(primary, map[string]string{"Weight": " 250g "})

	if got := mergedValue(t, secondary, "Weight"); got != "250g" {
		t.Errorf("Weight = %q, want trimmed external value 250g", got)
	}
}

func TestMergeExternal_AddsUnknownKeys(t *testing.T) {
	m := NewFieldMerger(false)

	primary := domain.NewFieldRecord().AsMerged()
	secondary := m.MergeExternal(primary, map[string]string{"Supplier Code": "SC-42"})

	if got := mergedValue(t, secondary, "Supplier Code"); got != "SC-42" {
		t.Errorf("Supplier Code = %q, want SC-42", got)
	}
}

func TestMergeExternal_DoesNotMutateInput(t *testing.T) {
	m := NewFieldMerger(false)

	record := domain.NewFieldRecord()
	record.Set("Weight", "50g")
	primary := record.AsMerged()

	_ = m.MergeExternal(primary, map[string]string{"Weight": "250g"})

	if got := mergedValue(t, primary, "Weight"); got != "50g" {
		t.Errorf("primary record mutated: Weight = %q", got)
	}
}
