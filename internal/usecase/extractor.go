package usecase

import (
	"log"
	"regexp"
	"strings"

	"github.com/labellens/backend/internal/domain"
)

// Rule patterns for the single-value extraction pass. Independent of each
// other; the first match in the corrected text wins per field.
var (
	weightRegex  = regexp.MustCompile(`(?i)(\d+\.?\d*)\s?(kg|g|mg|lb)`)
	sizeRegex    = regexp.MustCompile(`(?i)(\d+\.?\d*)\s?(ml|l|oz)`)
	mfgRegex     = regexp.MustCompile(`(?i)(MFD|Manufactured|Manufacturing|MFD&USE BY)[:\s-]*([0-9]{1,2}[-/][0-9]{1,2}[-/][0-9]{2,4})?`)
	expiryRegex  = regexp.MustCompile(`(?i)(EXP|Expiry|Best Before|Use By)[:\s-]*([0-9]{1,2}[-/][0-9]{1,2}[-/][0-9]{2,4})?`)
	priceRegex   = regexp.MustCompile(`(?i)(UNIT SALE PRICE|MRP RS\.?)[:\s-]*([0-9]+(?:\.[0-9]{1,2})?)`)
	barcodeRegex = regexp.MustCompile(`\b\d{8,13}\b`)

	wordRegex   = regexp.MustCompile(`\w+`)
	letterRegex = regexp.MustCompile(`[A-Za-z]`)
)

// multilineField binds a block-capture target field to the trigger keywords
// that open (and close) its block. Order matters: earlier entries claim a
// line first.
type multilineField struct {
	field    string
	keywords []string
}

var multilineFields = []multilineField{
	{field: "Ingredients", keywords: []string{"ingredients", "contents"}},
	{field: "Nutritional Facts", keywords: []string{"nutrition", "nutritional facts", "per serving"}},
}

// ExtractorConfig holds thresholds for the fuzzy mapping pass.
type ExtractorConfig struct {
	// FuzzyThreshold is the minimum 0..100 partial-similarity score for an
	// n-gram to be accepted as a field value. Defaults to 85.
	FuzzyThreshold     float64
	EnableDebugLogging bool
}

// FieldExtractor populates a FieldRecord from normalized OCR text using three
// cumulative passes: regex rules, multi-line block capture, and fuzzy n-gram
// mapping. Passes are strictly additive: a field set by an earlier pass is
// never overwritten, so re-running on identical input yields an identical
// record. An unmatched field stays nil; that is expected, not an error.
type FieldExtractor struct {
	fuzzyThreshold     float64
	enableDebugLogging bool
}

// NewFieldExtractor creates an extractor, applying defaults for unset values.
func NewFieldExtractor(config ExtractorConfig) *FieldExtractor {
	threshold := config.FuzzyThreshold
	if threshold <= 0 {
		threshold = 85
	}
	return &FieldExtractor{
		fuzzyThreshold:     threshold,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Extract runs all passes into record. correctedText is the cleaned and
// spell-corrected stream; rawText is the original pre-clean OCR text, which
// the multi-line pass needs for its line structure.
func (e *FieldExtractor) Extract(record *domain.FieldRecord, correctedText, rawText string) {
	e.extractRules(record, correctedText)
	e.extractMultiline(record, rawText)
	e.extractFuzzy(record, correctedText)
}

// extractRules is the rule-based single-value pass.
func (e *FieldExtractor) extractRules(record *domain.FieldRecord, text string) {
	if m := weightRegex.FindString(text); m != "" {
		record.Weight = &m
	}
	if m := sizeRegex.FindString(text); m != "" {
		record.SizeVolume = &m
	}
	if m := mfgRegex.FindStringSubmatch(text); m != nil {
		record.DateOfManufacturing = dateOrUnknown(m[2])
	}
	if m := expiryRegex.FindStringSubmatch(text); m != nil {
		record.ExpiryDate = dateOrUnknown(m[2])
	}
	if m := priceRegex.FindStringSubmatch(text); m != nil {
		record.Price = &m[2]
	}
	if m := barcodeRegex.FindString(text); m != "" {
		record.Barcode = &m
	}
	if e.enableDebugLogging {
		log.Printf("[EXTRACT] rule pass done")
	}
}

// dateOrUnknown returns the captured date, or "unknown" when only the keyword
// was present.
func dateOrUnknown(date string) *string {
	if date == "" {
		unknown := "unknown"
		return &unknown
	}
	return &date
}

// extractMultiline is the block-capture pass over the raw line-split text:
// a line holding a trigger keyword claims all following non-blank lines until
// a blank line or another trigger keyword.
func (e *FieldExtractor) extractMultiline(record *domain.FieldRecord, rawText string) {
	var lines []string
	for _, l := range strings.Split(rawText, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}

	for idx, line := range lines {
		lower := strings.ToLower(line)
		for _, mf := range multilineFields {
			if record.IsSet(mf.field) || !containsAny(lower, mf.keywords) {
				continue
			}
			if val := captureBlock(lines, idx); val != "" {
				record.Set(mf.field, val)
				if e.enableDebugLogging {
					log.Printf("[EXTRACT] multiline %q <- %d chars", mf.field, len(val))
				}
			}
		}
	}
}

// captureBlock concatenates the lines following idx until one carries any
// multiline trigger keyword.
func captureBlock(lines []string, idx int) string {
	var captured []string
	for j := idx + 1; j < len(lines); j++ {
		lower := strings.ToLower(lines[j])
		stop := false
		for _, mf := range multilineFields {
			if containsAny(lower, mf.keywords) {
				stop = true
				break
			}
		}
		if stop {
			break
		}
		captured = append(captured, lines[j])
	}
	return strings.TrimSpace(strings.Join(captured, " "))
}

// extractFuzzy is the keyword-to-field mapping pass: every field still empty
// gets the 1-to-4-word n-gram of the corrected text most similar to the field
// name, if that candidate clears the threshold and looks like real text.
func (e *FieldExtractor) extractFuzzy(record *domain.FieldRecord, text string) {
	tokens := wordRegex.FindAllString(text, -1)
	if len(tokens) == 0 {
		return
	}

	var ngrams []string
	for n := 1; n <= 4; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			ngrams = append(ngrams, strings.Join(tokens[i:i+n], " "))
		}
	}

	for _, field := range record.EmptyFields() {
		match, score, ok := bestMatch(field, ngrams, partialRatio)
		if !ok || score <= e.fuzzyThreshold {
			continue
		}
		if len(match) <= 2 || !letterRegex.MatchString(match) {
			continue
		}
		record.Set(field, match)
		if e.enableDebugLogging {
			log.Printf("[EXTRACT] fuzzy %q <- %q (%.1f)", field, match, score)
		}
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
