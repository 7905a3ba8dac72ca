// Package enrichment researches a contact's company through the Exa search
// API and scores how promising the findings are for outreach.
package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"
)

const defaultExaBaseURL = "https://api.exa.ai"

// SearchResult is one document returned by Exa.
type SearchResult struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Text       string   `json:"text"`
	Highlights []string `json:"highlights,omitempty"`
	Summary    string   `json:"summary,omitempty"`
}

// SearchParams shapes one Exa search call.
type SearchParams struct {
	Query              string
	Category           string
	StartPublishedDate string
	ExcludeDomains     []string
	NumResults         int
}

type searchRequest struct {
	Query              string          `json:"query"`
	Type               string          `json:"type"`
	NumResults         int             `json:"numResults"`
	Category           string          `json:"category,omitempty"`
	StartPublishedDate string          `json:"startPublishedDate,omitempty"`
	ExcludeDomains     []string        `json:"excludeDomains,omitempty"`
	Contents           requestContents `json:"contents"`
}

type requestContents struct {
	Text       textOptions      `json:"text"`
	Highlights highlightOptions `json:"highlights"`
}

type textOptions struct {
	MaxCharacters int `json:"maxCharacters"`
}

type highlightOptions struct {
	NumSentences int `json:"numSentences"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// ExaClient calls the Exa neural search API.
type ExaClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewExaClient creates an Exa client from configuration.
func NewExaClient(cfg config.EnrichmentConfig, log *logger.Logger) *ExaClient {
	return &ExaClient{
		baseURL: defaultExaBaseURL,
		apiKey:  cfg.GetExaAPIKey(),
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		log:     log,
	}
}

// Search runs one neural search against Exa.
func (c *ExaClient) Search(ctx context.Context, params SearchParams) ([]SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	numResults := params.NumResults
	if numResults == 0 {
		numResults = 5
	}

	body, err := json.Marshal(searchRequest{
		Query:              params.Query,
		Type:               "neural",
		NumResults:         numResults,
		Category:           params.Category,
		StartPublishedDate: params.StartPublishedDate,
		ExcludeDomains:     params.ExcludeDomains,
		Contents: requestContents{
			Text:       textOptions{MaxCharacters: 1500},
			Highlights: highlightOptions{NumSentences: 3},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa search: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read exa response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("exa_search_failed", "status", resp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("exa search: status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal exa response: %w", err)
	}
	return parsed.Results, nil
}
