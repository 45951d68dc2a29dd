package usecase

import (
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// Compiled cleaning patterns, applied in order.
var (
	nonPrintableRegex = regexp.MustCompile(`[^\x20-\x7E\n]`)
	nonASCIIRegex     = regexp.MustCompile(`[^\x00-\x7F]+`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
	allowedCharsRegex = regexp.MustCompile(`[^A-Za-z0-9%/.,:\-\s]`)
	digitRegex        = regexp.MustCompile(`\d`)
)

// domainVocabulary holds brand/label terms that OCR frequently garbles. Fuzzy
// correction prefers these over generic dictionary suggestions.
var domainVocabulary = []string{
	"Title", "Description", "Brand", "Ingredients", "Instructions", "Nutritional",
	"Facts", "Barcode", "GS1", "EAN", "Weight", "Height", "Width", "Volume",
	"COO", "UNSPSC", "Expiry", "Manufacturing", "Category", "Sub-category",
	"MRP", "Price", "MFD", "Best Before", "Use By",
}

// baseWords is the general dictionary for the correction pass: common English
// plus the words that actually occur on food and consumer product labels.
// A word found here is passed through untouched.
var baseWords = []string{
	// function words
	"a", "an", "and", "any", "are", "as", "at", "be", "before", "best", "by",
	"contains", "do", "for", "free", "from", "if", "in", "is", "it", "keep",
	"may", "no", "not", "of", "off", "on", "or", "other", "out", "per", "the",
	"this", "to", "under", "up", "use", "with",
	// label vocabulary
	"added", "allergen", "allergens", "amount", "approx", "artificial", "batch",
	"caution", "code", "cold", "colour", "color", "consume", "contact",
	"contents", "cool", "customer", "daily", "date", "details", "diet",
	"dietary", "direct", "directions", "dry", "expiry", "facts", "flavour",
	"flavor", "food", "fssai", "grade", "gross", "imported", "info",
	"information", "ingredients", "instructions", "licence", "license",
	"manufactured", "manufacturer", "manufacturing", "marketed", "maximum",
	"net", "nutrition", "nutritional", "origin", "pack", "packed", "place",
	"please", "price", "product", "quantity", "refrigerate", "retail", "sale",
	"serving", "servings", "size", "source", "stored", "store", "sunlight",
	"unit", "value", "values", "weight",
	// nutrients and units
	"calcium", "calories", "carbohydrate", "carbohydrates", "cholesterol",
	"energy", "fat", "fats", "fiber", "fibre", "iron", "kcal", "mcg",
	"minerals", "protein", "saturated", "sodium", "sugar", "sugars", "trans",
	"vitamin", "vitamins",
	// common food words
	"butter", "cheese", "chocolate", "cocoa", "corn", "cream", "flour",
	"fruit", "juice", "milk", "oil", "palm", "powder", "rice", "salt",
	"spices", "starch", "vegetable", "water", "wheat", "yeast",
}

// NormalizerConfig holds thresholds for the correction pass.
type NormalizerConfig struct {
	// CorrectionThreshold is the minimum 0..100 similarity for a fuzzy
	// domain-vocabulary correction to be accepted. Defaults to 85.
	CorrectionThreshold float64
	EnableDebugLogging  bool
}

// Normalizer cleans and spell-corrects raw OCR text into a canonical token
// stream. It is read-only after construction and safe for concurrent use.
type Normalizer struct {
	threshold          float64
	dictionary         map[string]bool
	suggestWords       []string // sorted, for deterministic suggestions
	enableDebugLogging bool
}

// NewNormalizer builds the dictionary (base words, domain vocabulary, and the
// components of multi-word vocabulary entries) and returns a ready normalizer.
func NewNormalizer(config NormalizerConfig) *Normalizer {
	threshold := config.CorrectionThreshold
	if threshold <= 0 {
		threshold = 85
	}

	dictionary := make(map[string]bool, len(baseWords)+2*len(domainVocabulary))
	for _, w := range baseWords {
		dictionary[w] = true
	}
	for _, entry := range domainVocabulary {
		for _, part := range strings.Fields(entry) {
			dictionary[strings.ToLower(part)] = true
		}
	}

	suggestWords := make([]string, 0, len(dictionary))
	for w := range dictionary {
		suggestWords = append(suggestWords, w)
	}
	sort.Strings(suggestWords)

	return &Normalizer{
		threshold:          threshold,
		dictionary:         dictionary,
		suggestWords:       suggestWords,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Clean normalizes raw OCR text: Unicode compatibility form, printable ASCII
// only, collapsed whitespace, then the explicit allowed character set.
// Running Clean on its own output returns the input unchanged.
func (n *Normalizer) Clean(raw string) string {
	text := norm.NFKC.String(raw)
	text = nonPrintableRegex.ReplaceAllString(text, "")
	text = nonASCIIRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	text = allowedCharsRegex.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// Correct spell-corrects each whitespace-delimited word of cleaned text:
// dictionary words pass through; otherwise the best domain-vocabulary match
// above the threshold wins; otherwise the nearest dictionary suggestion, or
// the original word when nothing is close. Words containing digits are values
// (weights, dates, barcodes) and are never touched.
func (n *Normalizer) Correct(text string) string {
	words := strings.Fields(text)
	corrected := make([]string, 0, len(words))
	for _, word := range words {
		corrected = append(corrected, n.correctWord(word))
	}
	return strings.Join(corrected, " ")
}

func (n *Normalizer) correctWord(word string) string {
	if digitRegex.MatchString(word) {
		return word
	}
	if n.dictionary[strings.ToLower(word)] {
		return word
	}

	// Fuzzy match against the domain vocabulary, case-insensitive.
	lower := strings.ToLower(word)
	if match, score, ok := bestMatch(lower, lowercasedVocabulary, similarityRatio); ok && score > n.threshold {
		fixed := vocabularyByLower[match]
		if n.enableDebugLogging {
			log.Printf("[CLEAN] vocab correction %q -> %q (%.1f)", word, fixed, score)
		}
		return fixed
	}

	if suggestion, ok := n.suggest(lower); ok {
		if n.enableDebugLogging {
			log.Printf("[CLEAN] dictionary correction %q -> %q", word, suggestion)
		}
		return suggestion
	}
	return word
}

// suggest returns the closest dictionary word within edit distance 2. Ties
// resolve to the alphabetically first candidate, keeping corrections
// deterministic across runs.
func (n *Normalizer) suggest(word string) (string, bool) {
	const maxDistance = 2

	best := ""
	bestDist := maxDistance + 1
	for _, cand := range n.suggestWords {
		// Cheap length gate before computing the distance.
		if diff := len(cand) - len(word); diff > maxDistance || diff < -maxDistance {
			continue
		}
		if d := levenshtein.Distance(word, cand, levParams); d < bestDist {
			best, bestDist = cand, d
		}
	}
	if bestDist > maxDistance {
		return "", false
	}
	return best, true
}

// Lowercase lookup tables for the domain vocabulary, built once.
var (
	lowercasedVocabulary []string
	vocabularyByLower    map[string]string
)

func init() {
	vocabularyByLower = make(map[string]string, len(domainVocabulary))
	for _, entry := range domainVocabulary {
		lower := strings.ToLower(entry)
		lowercasedVocabulary = append(lowercasedVocabulary, lower)
		vocabularyByLower[lower] = entry
	}
}
