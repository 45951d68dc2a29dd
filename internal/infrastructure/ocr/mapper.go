package ocr

import (
	"fmt"
	"strings"

	"github.com/labellens/backend/internal/domain"
)

// mapResponse converts the inference server's parallel slices into domain
// tokens. Texts and boxes must line up; scores are informational and may be
// absent.
func mapResponse(resp *predictResponse) (*domain.OCRResult, error) {
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRFailure, resp.Error)
	}
	if len(resp.RecTexts) != len(resp.RecBoxes) {
		return nil, fmt.Errorf("%w: %d texts but %d boxes", domain.ErrOCRFailure, len(resp.RecTexts), len(resp.RecBoxes))
	}

	tokens := make([]domain.Token, 0, len(resp.RecTexts))
	lines := make([]string, 0, len(resp.RecTexts))
	for i, text := range resp.RecTexts {
		box := resp.RecBoxes[i]
		tokens = append(tokens, domain.Token{
			Box: domain.Box{
				XMin: box[0],
				YMin: box[1],
				XMax: box[2],
				YMax: box[3],
			},
			Text: text,
		})
		lines = append(lines, text)
	}

	return &domain.OCRResult{
		Tokens: tokens,
		Text:   strings.Join(lines, "\n"),
	}, nil
}
