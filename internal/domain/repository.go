package domain

import (
	"context"
	"time"
)

// OCRClient defines the interface for the external OCR collaborator. The image
// bytes are the (possibly preprocessed) upload; filename is only a hint for
// the collaborator's own diagnostics.
type OCRClient interface {
	Recognize(ctx context.Context, image []byte, filename string) (*OCRResult, error)
}

// Refiner defines the interface for the LLM refinement collaborator. It takes
// the corrected OCR text plus the primary and secondary staged records and
// returns a best-effort corrected record as a generic JSON object. A response
// that is not valid JSON must be recovered locally, never surfaced as an error.
type Refiner interface {
	Refine(ctx context.Context, ocrText string, primary, secondary MergedRecord) (map[string]any, error)
}

// ArtifactStore persists the staged JSON documents produced along the
// pipeline, keyed by the source image's base name.
type ArtifactStore interface {
	SaveJSON(baseName, suffix string, v any) (path string, err error)
	SaveRaw(name string, data []byte) (path string, err error)
}

// ImageEnhancer prepares an uploaded image for OCR (upscaling, grayscale,
// binarization). Enhancement is best-effort; callers fall back to the raw
// bytes when it fails.
type ImageEnhancer interface {
	Enhance(image []byte) ([]byte, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
