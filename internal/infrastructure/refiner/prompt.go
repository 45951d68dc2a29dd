package refiner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/labellens/backend/internal/domain"
)

// buildPrompt assembles the refinement instruction. The model receives the
// corrected OCR text plus both staged records and must return one JSON object
// keyed by the canonical field names. Values from the secondary record outrank
// the primary record when they disagree.
func buildPrompt(ocrText string, primary, secondary domain.MergedRecord) string {
	var b strings.Builder

	b.WriteString("You are a product label data refiner. Merge the extracted data below into a single JSON object.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Output ONLY a JSON object, no prose and no markdown.\n")
	b.WriteString("2. Use exactly these keys:\n")
	for _, name := range domain.FieldNames {
		fmt.Fprintf(&b, "   - %s\n", name)
	}
	b.WriteString("3. If the primary and secondary records disagree on a field, the secondary record wins.\n")
	b.WriteString("4. Use the OCR text only to fill fields both records leave null.\n")
	b.WriteString("5. Keep null for fields you cannot determine. Never invent values.\n\n")

	b.WriteString("OCR text:\n")
	b.WriteString(ocrText)
	b.WriteString("\n\n")

	b.WriteString("Primary record:\n")
	b.WriteString(recordJSON(primary))
	b.WriteString("\n\n")

	b.WriteString("Secondary record:\n")
	b.WriteString(recordJSON(secondary))
	b.WriteString("\n")

	return b.String()
}

func recordJSON(record domain.MergedRecord) string {
	if record == nil {
		return "{}"
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// recordSchema is the schema the refined output is checked against. All
// canonical fields are nullable strings; extra keys are tolerated because the
// model occasionally adds notes we strip downstream.
func recordSchema() map[string]any {
	props := make(map[string]any, len(domain.FieldNames))
	for _, name := range domain.FieldNames {
		props[name] = map[string]any{"type": []string{"string", "null"}}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}
