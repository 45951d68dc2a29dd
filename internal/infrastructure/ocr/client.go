package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labellens/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client talks to the OCR inference service over HTTP.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
}

// NewClient creates an OCR service client. The inference server is a single
// GPU worker, so requests are throttled to 2/sec with a small burst.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	limiter := rate.NewLimiter(rate.Limit(2), 4)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// predictRequest is the inference server's request payload.
type predictRequest struct {
	Image    string `json:"image"`
	Filename string `json:"filename,omitempty"`
}

// predictResponse mirrors the inference server's JSON output: parallel slices
// of recognized strings, their quad bounding boxes and confidence scores.
type predictResponse struct {
	RecTexts  []string    `json:"rec_texts"`
	RecBoxes  [][4]int    `json:"rec_boxes"`
	RecScores []float64   `json:"rec_scores"`
	Error     interface{} `json:"error,omitempty"`
}

// Recognize submits an image for recognition and returns the tokens sorted
// the way the server emits them (top-to-bottom reading order).
func (c *Client) Recognize(ctx context.Context, image []byte, filename string) (*domain.OCRResult, error) {
	log.Printf("[OCR] Recognize called for %q (%d bytes)", filename, len(image))

	payload, err := json.Marshal(predictRequest{
		Image:    base64.StdEncoding.EncodeToString(image),
		Filename: filename,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/predict", c.baseURL)

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			log.Printf("[OCR] Rate limiter error: %v", err)
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL, payload)
		if err != nil {
			log.Printf("[OCR] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[OCR] Service error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrOCRFailure, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var predResp predictResponse
		if err := json.Unmarshal(body, &predResp); err != nil {
			log.Printf("[OCR] JSON decode error: %v", err)
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		result, err := mapResponse(&predResp)
		if err != nil {
			return nil, err
		}

		log.Printf("[OCR] Recognized %d tokens for %q", len(result.Tokens), filename)
		return result, nil
	}

	log.Printf("[OCR] All retries failed for %q", filename)
	return nil, lastErr
}

// doRequest executes an HTTP POST with the JSON payload.
func (c *Client) doRequest(ctx context.Context, reqURL string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "LabelLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOCRFailure, err)
	}

	return resp, nil
}
