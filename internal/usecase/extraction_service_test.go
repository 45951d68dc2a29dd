package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/labellens/backend/internal/domain"
)

type stubOCR struct {
	result *domain.OCRResult
	err    error
	calls  int
	images [][]byte
}

func (s *stubOCR) Recognize(ctx context.Context, image []byte, filename string) (*domain.OCRResult, error) {
	s.calls++
	s.images = append(s.images, image)
	return s.result, s.err
}

type stubRefiner struct {
	refined map[string]any
	err     error

	gotPrimary   domain.MergedRecord
	gotSecondary domain.MergedRecord
}

func (s *stubRefiner) Refine(ctx context.Context, ocrText string, primary, secondary domain.MergedRecord) (map[string]any, error) {
	s.gotPrimary = primary
	s.gotSecondary = secondary
	return s.refined, s.err
}

type savedArtifact struct {
	base   string
	suffix string
	value  any
}

type stubStore struct {
	saved []savedArtifact
}

func (s *stubStore) SaveJSON(baseName, suffix string, v any) (string, error) {
	s.saved = append(s.saved, savedArtifact{base: baseName, suffix: suffix, value: v})
	return baseName + "_" + suffix + ".json", nil
}

func (s *stubStore) SaveRaw(name string, data []byte) (string, error) {
	return name, nil
}

type stubEnhancer struct {
	out []byte
	err error
}

func (s *stubEnhancer) Enhance(image []byte) ([]byte, error) {
	return s.out, s.err
}

type stubCache struct {
	mu   sync.Mutex
	data map[string]interface{}
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]interface{})}
}

func (c *stubCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error { return nil }

func (c *stubCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func sampleOCRResult() *domain.OCRResult {
	return &domain.OCRResult{
		Tokens: []domain.Token{
			token("NUTRITION INFORMATION", 10, 20),
			token("ENERGY 250 kcal", 12, 50),
		},
		Text: "NUTRITION INFORMATION\nENERGY 250 kcal",
	}
}

func sampleRequest() *domain.ExtractRequest {
	return &domain.ExtractRequest{Filename: "label.png", Image: []byte("image-bytes")}
}

func TestProcessLabel_InvalidRequest(t *testing.T) {
	svc := NewExtractionService(nil, &stubOCR{}, &stubRefiner{}, nil, nil, ExtractionServiceConfig{})

	cases := []*domain.ExtractRequest{
		nil,
		{Filename: "label.png"},
		{Image: []byte("x")},
	}
	for _, req := range cases {
		if _, err := svc.ProcessLabel(context.Background(), req); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("ProcessLabel(%+v) = %v, want ErrInvalidRequest", req, err)
		}
	}
}

func TestProcessLabel_NoText(t *testing.T) {
	svc := NewExtractionService(nil, &stubOCR{result: &domain.OCRResult{}}, &stubRefiner{}, nil, nil, ExtractionServiceConfig{})

	_, err := svc.ProcessLabel(context.Background(), sampleRequest())
	if !errors.Is(err, domain.ErrNoText) {
		t.Errorf("ProcessLabel = %v, want ErrNoText", err)
	}
}

func TestProcessLabel_HappyPath(t *testing.T) {
	ocr := &stubOCR{result: sampleOCRResult()}
	refiner := &stubRefiner{refined: map[string]any{"Brand": "Acme"}}
	store := &stubStore{}

	svc := NewExtractionService(nil, ocr, refiner, store, nil, ExtractionServiceConfig{})

	result, err := svc.ProcessLabel(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("ProcessLabel returned error: %v", err)
	}

	facts := result.Primary["Nutritional Facts"]
	if facts == nil || *facts != "NUTRITION INFORMATION ENERGY 250 kcal" {
		t.Errorf("Nutritional Facts = %v, want section text", facts)
	}
	if result.Secondary != nil {
		t.Error("Secondary should be nil without an external record")
	}
	if result.Refined["Brand"] != "Acme" {
		t.Errorf("Refined = %v, want refiner output", result.Refined)
	}

	wantSuffixes := []string{
		ArtifactOCRRaw,
		ArtifactBoundingBoxes,
		ArtifactPrimaryCleaned,
		ArtifactPrimaryStaging,
		ArtifactTertiaryStaging,
	}
	if len(store.saved) != len(wantSuffixes) {
		t.Fatalf("saved %d artifacts, want %d", len(store.saved), len(wantSuffixes))
	}
	for i, want := range wantSuffixes {
		if store.saved[i].suffix != want {
			t.Errorf("artifact %d suffix = %q, want %q", i, store.saved[i].suffix, want)
		}
		if store.saved[i].base != "label" {
			t.Errorf("artifact %d base = %q, want label", i, store.saved[i].base)
		}
	}
}

func TestProcessLabel_PrimaryCleanedIsNullTemplate(t *testing.T) {
	store := &stubStore{}
	svc := NewExtractionService(nil, &stubOCR{result: sampleOCRResult()}, &stubRefiner{refined: map[string]any{}}, store, nil, ExtractionServiceConfig{})

	if _, err := svc.ProcessLabel(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("ProcessLabel returned error: %v", err)
	}

	var cleaned *domain.FieldRecord
	for _, a := range store.saved {
		if a.suffix == ArtifactPrimaryCleaned {
			cleaned = a.value.(*domain.FieldRecord)
		}
	}
	if cleaned == nil {
		t.Fatal("primary_cleaned artifact not saved")
	}
	if got := len(cleaned.EmptyFields()); got != len(domain.FieldNames) {
		t.Errorf("primary_cleaned has %d empty fields, want all %d", got, len(domain.FieldNames))
	}
}

func TestProcessLabel_ExternalRecord(t *testing.T) {
	store := &stubStore{}
	refiner := &stubRefiner{refined: map[string]any{}}
	svc := NewExtractionService(nil, &stubOCR{result: sampleOCRResult()}, refiner, store, nil, ExtractionServiceConfig{})

	req := sampleRequest()
	req.External = map[string]string{"Weight": "250g"}

	result, err := svc.ProcessLabel(context.Background(), req)
	if err != nil {
		t.Fatalf("ProcessLabel returned error: %v", err)
	}

	if result.Secondary == nil {
		t.Fatal("Secondary should be set with an external record")
	}
	weight := result.Secondary["Weight"]
	if weight == nil || *weight != "250g" {
		t.Errorf("Secondary Weight = %v, want 250g", weight)
	}

	found := false
	for _, a := range store.saved {
		if a.suffix == ArtifactSecondaryStaging {
			found = true
		}
	}
	if !found {
		t.Error("secondary_staging artifact not saved")
	}

	if refiner.gotSecondary == nil {
		t.Error("refiner should receive the secondary record")
	}
}

func TestProcessLabel_OCRCachedByContent(t *testing.T) {
	ocr := &stubOCR{result: sampleOCRResult()}
	svc := NewExtractionService(newStubCache(), ocr, &stubRefiner{refined: map[string]any{}}, nil, nil, ExtractionServiceConfig{})

	if _, err := svc.ProcessLabel(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("first ProcessLabel: %v", err)
	}
	// Same bytes under a different name still hit the cache.
	req := sampleRequest()
	req.Filename = "renamed.png"
	if _, err := svc.ProcessLabel(context.Background(), req); err != nil {
		t.Fatalf("second ProcessLabel: %v", err)
	}

	if ocr.calls != 1 {
		t.Errorf("OCR called %d times, want 1 (second call cached)", ocr.calls)
	}
}

func TestProcessLabel_EnhancerFallback(t *testing.T) {
	ocr := &stubOCR{result: sampleOCRResult()}
	enhancer := &stubEnhancer{err: errors.New("bad image")}
	svc := NewExtractionService(nil, ocr, &stubRefiner{refined: map[string]any{}}, nil, enhancer, ExtractionServiceConfig{})

	if _, err := svc.ProcessLabel(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("ProcessLabel returned error: %v", err)
	}

	if string(ocr.images[0]) != "image-bytes" {
		t.Errorf("OCR got %q, want the original bytes after enhancement failure", ocr.images[0])
	}
}

func TestProcessLabel_EnhancedImageForwarded(t *testing.T) {
	ocr := &stubOCR{result: sampleOCRResult()}
	enhancer := &stubEnhancer{out: []byte("enhanced")}
	svc := NewExtractionService(nil, ocr, &stubRefiner{refined: map[string]any{}}, nil, enhancer, ExtractionServiceConfig{})

	if _, err := svc.ProcessLabel(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("ProcessLabel returned error: %v", err)
	}

	if string(ocr.images[0]) != "enhanced" {
		t.Errorf("OCR got %q, want the enhanced bytes", ocr.images[0])
	}
}

func TestProcessLabel_RefinerFailure(t *testing.T) {
	svc := NewExtractionService(nil, &stubOCR{result: sampleOCRResult()}, &stubRefiner{err: errors.New("overloaded")}, nil, nil, ExtractionServiceConfig{})

	_, err := svc.ProcessLabel(context.Background(), sampleRequest())
	if !errors.Is(err, domain.ErrRefinerFailure) {
		t.Errorf("ProcessLabel = %v, want ErrRefinerFailure", err)
	}
}

func TestProcessLabel_OCRFailure(t *testing.T) {
	svc := NewExtractionService(nil, &stubOCR{err: errors.New("connection refused")}, &stubRefiner{}, nil, nil, ExtractionServiceConfig{})

	_, err := svc.ProcessLabel(context.Background(), sampleRequest())
	if !errors.Is(err, domain.ErrOCRFailure) {
		t.Errorf("ProcessLabel = %v, want ErrOCRFailure", err)
	}
}
