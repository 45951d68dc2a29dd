package usecase

import "testing"

func TestIsNutritionFact(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"table header", "NUTRITION INFORMATION", true},
		{"serving header", "Serving Size: 30g", true},
		{"per-100 header", "PER 100g", true},
		{"rda column", "%RDA", true},
		{"value with unit", "ENERGY 250 kcal", true},
		{"value without space", "10g", true},
		{"percent value", "12%", true},
		{"nutrient name only", "Saturated Fatty Acids", true},
		{"garbled nutrient name", "PR0T3IN", false},
		{"license number", "FSSAI LIC. NO 12345", false},
		{"website", "WWW.EXAMPLE.COM", false},
		{"batch line", "BATCH NO: AB123", false},
		{"manufacturer line", "MANUFACTURER: ACME FOODS", false},
		{"unit followed by letter", "8gms", false},
		{"unit at end of word ok", "SUGARS 5g", true},
		{"plain prose", "Store in a cool dry place", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNutritionFact(tt.text); got != tt.want {
				t.Errorf("IsNutritionFact(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLooksLikeNutritionValue(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"250 kcal", true},
		{"1046kJ", true},
		{"0.5 g", true},
		{"120mg", true},
		{"15 mcg", true},
		{"22%", true},
		{"8gms", false}, // unit runs into letters
		{"no numbers here", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := looksLikeNutritionValue(tt.text); got != tt.want {
				t.Errorf("looksLikeNutritionValue(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
