package domain

import (
	"encoding/json"
	"fmt"
)

// Box is an axis-aligned bounding box in pixel coordinates, as reported by the
// OCR collaborator. It marshals as the 4-element array [x_min, y_min, x_max, y_max].
type Box struct {
	XMin int
	YMin int
	XMax int
	YMax int
}

// Token is one OCR-recognized text span with its bounding box. Tokens arrive in
// the sequence order emitted by the OCR collaborator, which approximates
// reading order, and are never mutated after creation.
type Token struct {
	Box  Box    `json:"box"`
	Text string `json:"text"`
}

// OCRResult is the full output of the OCR collaborator for a single image:
// the ordered token sequence plus the same texts newline-joined.
type OCRResult struct {
	Tokens []Token `json:"tokens"`
	Text   string  `json:"text"`
}

// MarshalJSON encodes the box as [x_min, y_min, x_max, y_max].
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.XMin, b.YMin, b.XMax, b.YMax})
}

// UnmarshalJSON decodes a box from [x_min, y_min, x_max, y_max].
func (b *Box) UnmarshalJSON(data []byte) error {
	var coords [4]int
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("box must be [x_min, y_min, x_max, y_max]: %w", err)
	}
	b.XMin, b.YMin, b.XMax, b.YMax = coords[0], coords[1], coords[2], coords[3]
	return nil
}
