package refiner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labellens/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client calls a Gemini-style generateContent endpoint to produce the final
// refined record.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	rateLimiter *rate.Limiter
}

// NewClient creates a refiner client. The free tier allows 15 requests per
// minute, so the limiter runs at 0.25 requests/sec with a burst of 2.
func NewClient(baseURL, apiKey, model string) *Client {
	limiter := rate.NewLimiter(rate.Limit(0.25), 2)

	return &Client{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		rateLimiter: limiter,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type candidate struct {
	Content content `json:"content"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

// Refine sends the staged records to the model and returns its merged record.
// Output the model returns as non-JSON is preserved under "raw_response"
// rather than failing the whole pipeline.
func (c *Client) Refine(ctx context.Context, ocrText string, primary, secondary domain.MergedRecord) (map[string]any, error) {
	requestID := uuid.New().String()
	log.Printf("[REFINER] Refine called, request_id=%s model=%s", requestID, c.model)

	prompt := buildPrompt(ocrText, primary, secondary)

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			log.Printf("[REFINER] Rate limiter error: %v", err)
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL, payload)
		if err != nil {
			log.Printf("[REFINER] Request error (attempt %d, request_id=%s): %v", attempt, requestID, err)
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[REFINER] API error (attempt %d, request_id=%s) - Status: %d, Body: %s", attempt, requestID, resp.StatusCode, string(body))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrRefinerFailure, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var genResp generateResponse
		if err := json.Unmarshal(body, &genResp); err != nil {
			log.Printf("[REFINER] JSON decode error (request_id=%s): %v", requestID, err)
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		text := candidateText(&genResp)
		if text == "" {
			log.Printf("[REFINER] Empty candidate (request_id=%s)", requestID)
			return nil, fmt.Errorf("%w: empty response", domain.ErrRefinerFailure)
		}

		refined := parseRefined(text)
		if err := validateRefined(refined); err != nil {
			log.Printf("[REFINER] Schema validation failed (request_id=%s): %v", requestID, err)
		}

		log.Printf("[REFINER] Refined record with %d keys (request_id=%s)", len(refined), requestID)
		return refined, nil
	}

	log.Printf("[REFINER] All retries failed (request_id=%s)", requestID)
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, reqURL string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "LabelLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRefinerFailure, err)
	}

	return resp, nil
}

// candidateText joins the text parts of the first candidate.
func candidateText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// parseRefined decodes the model output, stripping markdown code fences the
// model tends to wrap JSON in. Unparseable output is wrapped instead of lost.
func parseRefined(text string) map[string]any {
	cleaned := stripFences(text)

	var refined map[string]any
	if err := json.Unmarshal([]byte(cleaned), &refined); err != nil {
		return map[string]any{"raw_response": text}
	}
	return refined
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
