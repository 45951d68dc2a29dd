package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/labellens/backend/internal/domain"
)

// Artifact suffixes for the staged JSON documents, in pipeline order.
const (
	ArtifactOCRRaw           = "ocr_raw"
	ArtifactBoundingBoxes    = "bounding_boxes"
	ArtifactPrimaryCleaned   = "primary_cleaned"
	ArtifactPrimaryStaging   = "primary_staging"
	ArtifactSecondaryStaging = "secondary_staging"
	ArtifactTertiaryStaging  = "tertiary_staging"
)

// boundingBoxArtifact is the persisted mirror of the spatial grouping output,
// including the diagnostic validated nutrition subset.
type boundingBoxArtifact struct {
	Sections           domain.SectionedGroups `json:"sections"`
	ValidatedNutrition []domain.Token         `json:"validated_nutrition"`
}

// ExtractionServiceConfig holds configuration for the extraction service.
type ExtractionServiceConfig struct {
	CacheTTL           time.Duration
	Grouper            GrouperConfig
	Normalizer         NormalizerConfig
	Extractor          ExtractorConfig
	EnableDebugLogging bool
}

// ExtractionService runs the label field extraction pipeline for one image:
// OCR (cached by content hash), spatial grouping and lexical extraction in
// parallel conceptually but sequentially in fact, merge, and LLM refinement.
// Each invocation works on its own state; the service holds only read-only
// configuration and is safe for concurrent requests.
type ExtractionService struct {
	cache    domain.CacheRepository
	ocr      domain.OCRClient
	refiner  domain.Refiner
	store    domain.ArtifactStore
	enhancer domain.ImageEnhancer

	grouper    *ColumnGrouper
	normalizer *Normalizer
	extractor  *FieldExtractor
	merger     *FieldMerger

	cacheTTL           time.Duration
	enableDebugLogging bool
}

// NewExtractionService creates an extraction service with dependencies.
// enhancer may be nil, in which case images go to OCR as uploaded.
func NewExtractionService(
	cache domain.CacheRepository,
	ocr domain.OCRClient,
	refiner domain.Refiner,
	store domain.ArtifactStore,
	enhancer domain.ImageEnhancer,
	config ExtractionServiceConfig,
) *ExtractionService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &ExtractionService{
		cache:              cache,
		ocr:                ocr,
		refiner:            refiner,
		store:              store,
		enhancer:           enhancer,
		grouper:            NewColumnGrouper(config.Grouper),
		normalizer:         NewNormalizer(config.Normalizer),
		extractor:          NewFieldExtractor(config.Extractor),
		merger:             NewFieldMerger(config.EnableDebugLogging),
		cacheTTL:           cacheTTL,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ProcessLabel runs the full pipeline and returns the staged records. The
// intermediate JSON documents are persisted under the image's base name as a
// side effect.
func (s *ExtractionService) ProcessLabel(ctx context.Context, req *domain.ExtractRequest) (*domain.ExtractResult, error) {
	if req == nil || len(req.Image) == 0 || req.Filename == "" {
		return nil, domain.ErrInvalidRequest
	}
	base := baseName(req.Filename)

	// 1. Enhance the image for OCR; fall back to the original on failure.
	image := req.Image
	if s.enhancer != nil {
		enhanced, err := s.enhancer.Enhance(req.Image)
		if err != nil {
			log.Printf("[EXTRACT] image enhancement failed, using original: %v", err)
		} else {
			image = enhanced
		}
	}

	// 2. OCR, cached by content hash so duplicate uploads skip the collaborator.
	ocrRes, err := s.recognize(ctx, image, req.Filename)
	if err != nil {
		return nil, err
	}
	s.persist(base, ArtifactOCRRaw, ocrRes)

	// 3. Spatial grouping.
	groups, validated := s.grouper.Group(ocrRes.Tokens)
	s.persist(base, ArtifactBoundingBoxes, boundingBoxArtifact{
		Sections:           groups,
		ValidatedNutrition: validated,
	})

	// 4. Lexical normalization. The pre-extraction snapshot is written here,
	// before any rule has run, so it is always the all-null template.
	cleaned := s.normalizer.Clean(ocrRes.Text)
	corrected := s.normalizer.Correct(cleaned)
	record := domain.NewFieldRecord()
	s.persist(base, ArtifactPrimaryCleaned, record)

	// 5. Field extraction.
	s.extractor.Extract(record, corrected, ocrRes.Text)

	// 6. Merge: section text overrides lexical values.
	primary := s.merger.MergeSections(record, groups)
	s.persist(base, ArtifactPrimaryStaging, primary)

	// 7. External record overrides everything it names.
	var secondary domain.MergedRecord
	if len(req.External) > 0 {
		secondary = s.merger.MergeExternal(primary, req.External)
		s.persist(base, ArtifactSecondaryStaging, secondary)
	}

	// 8. LLM refinement.
	refined, err := s.refiner.Refine(ctx, corrected, primary, secondary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRefinerFailure, err)
	}
	s.persist(base, ArtifactTertiaryStaging, refined)

	return &domain.ExtractResult{
		Primary:   primary,
		Secondary: secondary,
		Refined:   refined,
	}, nil
}

// recognize returns the OCR result for the image, consulting the cache first.
func (s *ExtractionService) recognize(ctx context.Context, image []byte, filename string) (*domain.OCRResult, error) {
	key := ocrCacheKey(image)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			if res, err := decodeOCRResult(cached); err == nil {
				if s.enableDebugLogging {
					log.Printf("[EXTRACT] OCR cache hit for %s", filename)
				}
				return res, nil
			}
		}
	}

	res, err := s.ocr.Recognize(ctx, image, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}
	if len(res.Tokens) == 0 {
		return nil, domain.ErrNoText
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, res, s.cacheTTL); err != nil {
			log.Printf("[EXTRACT] OCR cache store failed: %v", err)
		}
	}
	return res, nil
}

// persist writes a staged artifact; persistence failures are logged, never
// fatal to the request.
func (s *ExtractionService) persist(base, suffix string, v any) {
	if s.store == nil {
		return
	}
	path, err := s.store.SaveJSON(base, suffix, v)
	if err != nil {
		log.Printf("[EXTRACT] failed to persist %s_%s: %v", base, suffix, err)
		return
	}
	if s.enableDebugLogging {
		log.Printf("[EXTRACT] saved %s", path)
	}
}

// ocrCacheKey derives the cache key from the image content, not the filename,
// so renamed duplicates still hit.
func ocrCacheKey(image []byte) string {
	sum := sha256.Sum256(image)
	return "ocr:" + hex.EncodeToString(sum[:])
}

// decodeOCRResult converts a cached value (stored through a JSON round trip)
// back into a typed result.
func decodeOCRResult(v any) (*domain.OCRResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var res domain.OCRResult
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// baseName strips the directory and extension from an uploaded filename.
func baseName(filename string) string {
	name := filepath.Base(filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
