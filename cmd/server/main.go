package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/labellens/backend/config"
	httpDelivery "github.com/labellens/backend/internal/delivery/http"
	"github.com/labellens/backend/internal/infrastructure/cache"
	"github.com/labellens/backend/internal/infrastructure/csvdata"
	"github.com/labellens/backend/internal/infrastructure/ocr"
	"github.com/labellens/backend/internal/infrastructure/preprocess"
	"github.com/labellens/backend/internal/infrastructure/refiner"
	"github.com/labellens/backend/internal/infrastructure/storage"
	"github.com/labellens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting LabelLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("OCR service: %s", cfg.OCR.BaseURL)
	log.Printf("Refiner model: %s", cfg.Refiner.Model)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache(10 * time.Minute)
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	ocrClient := ocr.NewClient(cfg.OCR.BaseURL, cfg.OCR.Timeout)
	refinerClient := refiner.NewClient(cfg.Refiner.BaseURL, cfg.Refiner.APIKey, cfg.Refiner.Model)
	enhancer := preprocess.NewEnhancer(2.0)

	store, err := storage.NewFileStore(cfg.Artifacts.Dir)
	if err != nil {
		log.Fatalf("Failed to prepare artifact store: %v", err)
	}
	log.Printf("Artifacts dir: %s", cfg.Artifacts.Dir)

	debug := cfg.Server.Environment == "development"

	// Initialize usecase layer
	extractionService := usecase.NewExtractionService(
		memoryCache,
		ocrClient,
		refinerClient,
		store,
		enhancer,
		usecase.ExtractionServiceConfig{
			CacheTTL: cfg.Cache.TTL,
			Grouper: usecase.GrouperConfig{
				Tolerance:          cfg.Engine.Tolerance,
				AnchorTolerance:    cfg.Engine.AnchorTolerance,
				YCutoffNutrition:   cfg.Engine.YCutoffNutrition,
				YCutoffDefault:     cfg.Engine.YCutoffDefault,
				EnableDebugLogging: debug,
			},
			Normalizer: usecase.NormalizerConfig{
				CorrectionThreshold: float64(cfg.Engine.CorrectionThreshold),
				EnableDebugLogging:  debug,
			},
			Extractor: usecase.ExtractorConfig{
				FuzzyThreshold: float64(cfg.Engine.FuzzyThreshold),
			},
			EnableDebugLogging: debug,
		},
	)

	log.Printf("Engine: tolerance=%d, anchor=%d, fuzzy=%d, correction=%d, debug=%v",
		cfg.Engine.Tolerance,
		cfg.Engine.AnchorTolerance,
		cfg.Engine.FuzzyThreshold,
		cfg.Engine.CorrectionThreshold,
		debug)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(extractionService, csvdata.NewLoader(), store, cfg.Server.MaxUploadMB)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
