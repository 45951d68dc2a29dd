package usecase

import (
	"log"

	"github.com/labellens/backend/internal/domain"
)

// GrouperConfig holds the spatial grouping thresholds. All values are
// empirical pixel constants; zero values fall back to defaults.
type GrouperConfig struct {
	Tolerance          int // max |x_min - group anchor| for column membership
	AnchorTolerance    int // max |x_min - section anchor| before a token is dropped
	YCutoffNutrition   int // vertical extent allowed for the nutrition section
	YCutoffDefault     int // vertical extent allowed for every other section
	EnableDebugLogging bool
}

// SectionState is the grouping-time scan state: which section the scan is
// inside and where that section was anchored. The zero value is NoSection.
// It is threaded explicitly through the token fold so the grouper itself
// stays stateless and testable.
type SectionState struct {
	Active  domain.Section
	InState bool
	XAnchor int
	YAnchor int
}

// ColumnGrouper clusters OCR tokens into per-section, per-x-coordinate column
// groups using positional heuristics. Single pass, order-sensitive: it relies
// on the OCR-emitted token order approximating reading order.
type ColumnGrouper struct {
	tolerance          int
	anchorTolerance    int
	yCutoffNutrition   int
	yCutoffDefault     int
	enableDebugLogging bool
}

// NewColumnGrouper creates a grouper with the given thresholds, applying
// defaults for unset values.
func NewColumnGrouper(config GrouperConfig) *ColumnGrouper {
	tolerance := config.Tolerance
	if tolerance <= 0 {
		tolerance = 5
	}
	anchorTolerance := config.AnchorTolerance
	if anchorTolerance <= 0 {
		anchorTolerance = 500
	}
	yCutoffNutrition := config.YCutoffNutrition
	if yCutoffNutrition <= 0 {
		yCutoffNutrition = 2000
	}
	yCutoffDefault := config.YCutoffDefault
	if yCutoffDefault <= 0 {
		yCutoffDefault = 200
	}

	return &ColumnGrouper{
		tolerance:          tolerance,
		anchorTolerance:    anchorTolerance,
		yCutoffNutrition:   yCutoffNutrition,
		yCutoffDefault:     yCutoffDefault,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Group scans the token sequence once and returns the sectioned column groups
// together with the validated nutrition subset. The validated list is
// diagnostic only; it never removes tokens from the groups.
func (g *ColumnGrouper) Group(tokens []domain.Token) (domain.SectionedGroups, []domain.Token) {
	groups := domain.NewSectionedGroups()

	var state SectionState
	for _, tok := range tokens {
		state = g.step(state, tok, groups)
	}

	validated := g.validateNutrition(groups)
	return groups, validated
}

// step runs the per-token transition and returns the next scan state.
func (g *ColumnGrouper) step(state SectionState, tok domain.Token, groups domain.SectionedGroups) SectionState {
	// A trigger match always supersedes the current section, even mid-section,
	// re-anchoring at this token's corner.
	if section, ok := ClassifySection(tok.Text); ok {
		state = SectionState{
			Active:  section,
			InState: true,
			XAnchor: tok.Box.XMin,
			YAnchor: tok.Box.YMin,
		}
		if g.enableDebugLogging {
			log.Printf("[GROUP] section %q anchored at (%d,%d) by %q", section, state.XAnchor, state.YAnchor, tok.Text)
		}
	}

	if !state.InState {
		return state
	}

	// Horizontal noise: drop the token but keep scanning the section.
	if abs(tok.Box.XMin-state.XAnchor) > g.anchorTolerance {
		if g.enableDebugLogging {
			log.Printf("[GROUP] dropped %q: x=%d beyond anchor %d", tok.Text, tok.Box.XMin, state.XAnchor)
		}
		return state
	}

	// Vertical drift past the cutoff closes the section entirely.
	if tok.Box.YMin-state.YAnchor > g.yCutoff(state.Active) {
		if g.enableDebugLogging {
			log.Printf("[GROUP] section %q closed: y=%d past cutoff", state.Active, tok.Box.YMin)
		}
		return SectionState{}
	}

	g.assign(groups, state.Active, tok)
	return state
}

// yCutoff returns the vertical extent allowed for a section. Nutrition tables are
// tall, so they get far more room than small sections like qty or mrp.
func (g *ColumnGrouper) yCutoff(section domain.Section) int {
	if section == domain.SectionNutrition {
		return g.yCutoffNutrition
	}
	return g.yCutoffDefault
}

// assign appends the token to the first existing column group of the section
// whose anchor is within tolerance of the token's x_min, or opens a new group
// anchored there. First-seen anchor wins; groups are never merged afterwards.
func (g *ColumnGrouper) assign(groups domain.SectionedGroups, section domain.Section, tok domain.Token) {
	for _, group := range groups[section] {
		if abs(group.AnchorX-tok.Box.XMin) <= g.tolerance {
			group.Tokens = append(group.Tokens, tok)
			return
		}
	}
	groups[section] = append(groups[section], &domain.ColumnGroup{
		AnchorX: tok.Box.XMin,
		Tokens:  []domain.Token{tok},
	})
}

// validateNutrition collects the nutrition tokens that pass the content
// filter, in group creation order.
func (g *ColumnGrouper) validateNutrition(groups domain.SectionedGroups) []domain.Token {
	var validated []domain.Token
	for _, group := range groups[domain.SectionNutrition] {
		for _, tok := range group.Tokens {
			if IsNutritionFact(tok.Text) {
				validated = append(validated, tok)
			}
		}
	}
	if g.enableDebugLogging && len(validated) > 0 {
		log.Printf("[GROUP] %d validated nutrition lines", len(validated))
	}
	return validated
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
