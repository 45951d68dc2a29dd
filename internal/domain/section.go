package domain

import "strings"

// Section is a semantic label for a region of a product label.
type Section string

// The fixed section set. Order matters: the classifier checks trigger lists in
// this order and the first match wins.
const (
	SectionNutrition   Section = "nutrition"
	SectionIngredients Section = "ingredients"
	SectionAllergen    Section = "allergen"
	SectionMRP         Section = "mrp"
	SectionMFD         Section = "mfd"
	SectionQty         Section = "qty"
)

// Sections lists every section in classifier order.
var Sections = []Section{
	SectionNutrition,
	SectionIngredients,
	SectionAllergen,
	SectionMRP,
	SectionMFD,
	SectionQty,
}

// ColumnGroup holds the tokens of one section that start at approximately the
// same x coordinate. AnchorX is the x_min of the first token assigned to the
// group; membership never changes after assignment and groups are never merged.
type ColumnGroup struct {
	AnchorX int     `json:"anchorX"`
	Tokens  []Token `json:"tokens"`
}

// SectionedGroups maps each section to its column groups in creation order.
// All six sections are always present, possibly with no groups.
type SectionedGroups map[Section][]*ColumnGroup

// NewSectionedGroups returns a SectionedGroups with every section keyed to an
// empty group list.
func NewSectionedGroups() SectionedGroups {
	g := make(SectionedGroups, len(Sections))
	for _, s := range Sections {
		g[s] = nil
	}
	return g
}

// SectionText joins the text of every token across the section's column groups
// with single spaces, in group creation order. Returns "" when the section has
// no tokens.
func (g SectionedGroups) SectionText(section Section) string {
	var parts []string
	for _, group := range g[section] {
		for _, tok := range group.Tokens {
			parts = append(parts, tok.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
