// OMDb API implementation of [Enricher]
//
// Response fields based on https://www.omdbapi.com/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/shopspring/decimal"
)

const (
	omdbBaseURL        = "https://www.omdbapi.com/"
	omdbDefaultTimeout = 10 * time.Second
	omdbMissing        = "N/A"
)

// OMDbMovie is the subset of the OMDb title lookup response used for enrichment.
type OMDbMovie struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	IMDbRating string `json:"imdbRating"`
	Poster     string `json:"Poster"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// OMDbClient implements [Enricher] against the OMDb HTTP API.
type OMDbClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ Enricher = (*OMDbClient)(nil)

// Option configures an [OMDbClient].
type Option func(*OMDbClient)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *OMDbClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewOMDbClient creates an OMDb client.
//
// An empty baseURL falls back to the public endpoint and a non-positive timeout to 10 seconds.
func NewOMDbClient(apiKey, baseURL string, timeout time.Duration, opts ...Option) (*OMDbClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: omdb api key required", shared.ErrMissingCredentials)
	}

	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = omdbBaseURL
	}
	if timeout <= 0 {
		timeout = omdbDefaultTimeout
	}

	client := &OMDbClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name returns the service name.
func (c *OMDbClient) Name() string {
	return "OMDb"
}

// Fetch looks up title on OMDb and maps the match onto a [models.Enrichment].
func (c *OMDbClient) Fetch(ctx context.Context, title string) (*models.Enrichment, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", shared.ErrInvalidInput)
	}

	var payload OMDbMovie
	if err := c.doRequest(ctx, title, &payload); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", shared.ErrNoData, title, err)
	}

	if payload.Response != "True" {
		reason := strings.TrimSpace(payload.Error)
		if reason == "" {
			reason = "no match"
		}
		return nil, fmt.Errorf("%w: %q: %s", shared.ErrNoData, title, reason)
	}

	enrichment := payload.Enrichment()
	if enrichment.Empty() {
		return nil, fmt.Errorf("%w: %q: match has no year, rating or poster", shared.ErrNoData, title)
	}
	return enrichment, nil
}

func (c *OMDbClient) doRequest(ctx context.Context, title string, result any) error {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("t", title)

	endpoint := c.baseURL + "/?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("omdb API error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Enrichment converts the raw response, dropping values OMDb marks as missing.
func (m OMDbMovie) Enrichment() *models.Enrichment {
	return &models.Enrichment{
		Title:  strings.TrimSpace(m.Title),
		Year:   parseOMDbYear(m.Year),
		Rating: parseOMDbRating(m.IMDbRating),
		Poster: parseOMDbPoster(m.Poster),
	}
}

// parseOMDbYear reads the leading four digits, so ranges like "2010–2014" map to 2010.
func parseOMDbYear(raw string) *int {
	raw = strings.TrimSpace(raw)
	if len(raw) < 4 {
		return nil
	}
	year, err := strconv.Atoi(raw[:4])
	if err != nil || year < models.MinYear || year > models.MaxYear {
		return nil
	}
	return &year
}

func parseOMDbRating(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == omdbMissing {
		return nil
	}
	rating, err := decimal.NewFromString(raw)
	if err != nil || rating.LessThan(models.MinRating) || rating.GreaterThan(models.MaxRating) {
		return nil
	}
	return &rating
}

func parseOMDbPoster(raw string) string {
	raw = strings.TrimSpace(raw)
	switch raw {
	case omdbMissing, "None":
		return ""
	default:
		return raw
	}
}
