package http

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/infrastructure/csvdata"
	"github.com/labellens/backend/internal/usecase"
)

// imageExtensions are the upload formats the pipeline can decode.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".webp": true,
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	extraction *usecase.ExtractionService
	csvLoader  *csvdata.Loader
	store      domain.ArtifactStore
	maxUpload  int64
}

// NewHandler creates a new HTTP handler. maxUploadMB bounds the multipart
// form size; zero means 10 MB.
func NewHandler(extraction *usecase.ExtractionService, csvLoader *csvdata.Loader, store domain.ArtifactStore, maxUploadMB int) *Handler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &Handler{
		extraction: extraction,
		csvLoader:  csvLoader,
		store:      store,
		maxUpload:  int64(maxUploadMB) << 20,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "labellens-backend",
		"version": "1.0.0",
	})
}

// ExtractLabel accepts a multipart form with a required "image" file and an
// optional "csv" file of supplementary field values, runs the extraction
// pipeline, and returns the staged records.
func (h *Handler) ExtractLabel(c *gin.Context) {
	if h.extraction == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "extraction service not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	imageHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(imageHeader.Filename))
	if !imageExtensions[ext] {
		h.writeError(c, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext))
		return
	}

	image, err := readUpload(imageHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image upload"})
		return
	}

	external, err := h.loadExternal(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.extraction.ProcessLabel(c.Request.Context(), &domain.ExtractRequest{
		Filename: filepath.Base(imageHeader.Filename),
		Image:    image,
		External: external,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// loadExternal reads the optional CSV upload. A stored copy is kept under a
// generated name so the exact input of a past extraction can be replayed.
func (h *Handler) loadExternal(c *gin.Context) (map[string]string, error) {
	csvHeader, err := c.FormFile("csv")
	if err != nil {
		// Optional part, absence is fine.
		return nil, nil
	}

	if strings.ToLower(filepath.Ext(csvHeader.Filename)) != ".csv" {
		return nil, fmt.Errorf("supplementary data must be a .csv file")
	}

	data, err := readUpload(csvHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv upload")
	}

	if h.store != nil {
		name := fmt.Sprintf("%s.csv", uuid.New().String())
		if _, err := h.store.SaveRaw(name, data); err != nil {
			log.Printf("[HTTP] failed to store csv copy: %v", err)
		}
	}

	fields, err := h.csvLoader.Load(strings.NewReader(string(data)))
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCSV) {
			return nil, fmt.Errorf("csv file has no data rows")
		}
		return nil, fmt.Errorf("invalid csv file")
	}
	return fields, nil
}

// writeError maps pipeline errors to HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoText):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no text recognized in image"})
	case errors.Is(err, domain.ErrOCRFailure), errors.Is(err, domain.ErrRefinerFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("[HTTP] extraction failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "extraction failed"})
	}
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
