// Package recipedb provides the HTTP client for the external recipe database
// API and normalizes its loosely-shaped responses into canonical candidates.
package recipedb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/planner"
	"github.com/platewise/v1/internal/ports/outbound"
)

// requestTimeout bounds every provider call, independent of the caller's
// context.
const requestTimeout = 15 * time.Second

// Config holds provider connection settings.
type Config struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// Client implements outbound.RecipeProvider against the recipe database API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new recipe database client.
func NewClient(config Config, logger *zap.Logger) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.recipedb.example.com/v1"
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  config.APIKey,
		client: &http.Client{
			Timeout: requestTimeout,
		},
		logger: logger.Named("recipedb"),
	}
}

// FetchPage requests one page of search results and normalizes each entry.
// Entries that cannot yield a usable candidate are skipped, not fatal.
func (c *Client) FetchPage(ctx context.Context, q outbound.PageQuery) ([]planner.Candidate, error) {
	params := url.Values{}
	params.Set("q", q.SearchTerm)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.PageSize))
	if q.DietType != "" {
		params.Set("diet", q.DietType)
	}
	if len(q.Allergies) > 0 {
		params.Set("excludeIngredients", strings.Join(q.Allergies, ","))
	}

	body, err := c.get(ctx, "/recipes/search", params)
	if err != nil {
		return nil, err
	}

	entries, err := decodeEntries(body)
	if err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	candidates := make([]planner.Candidate, 0, len(entries))
	for _, entry := range entries {
		candidate, ok := Normalize(entry)
		if !ok {
			c.logger.Debug("skipping unusable provider entry")
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// FetchRecipe requests a single recipe by provider id.
func (c *Client) FetchRecipe(ctx context.Context, id string) (*planner.Candidate, error) {
	body, err := c.get(ctx, "/recipes/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var entry map[string]any
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("decode recipe response: %w", err)
	}

	candidate, ok := Normalize(entry)
	if !ok {
		return nil, fmt.Errorf("recipe %s has no usable fields", id)
	}
	return &candidate, nil
}

// FetchRecipeOfDay requests the provider's daily featured recipe. The API
// wraps it under a day key; a bare recipe object is accepted too.
func (c *Client) FetchRecipeOfDay(ctx context.Context) (*planner.Candidate, error) {
	body, err := c.get(ctx, "/recipes/recipe-of-the-day", nil)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Day map[string]any `json:"day"`
	}
	entry := map[string]any{}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Day != nil {
		entry = wrapped.Day
	} else if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("decode recipe-of-the-day response: %w", err)
	}

	candidate, ok := Normalize(entry)
	if !ok {
		return nil, fmt.Errorf("recipe of the day has no usable fields")
	}
	return &candidate, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("provider returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path),
		)
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return body, nil
}

// decodeEntries accepts both response shapes the API is known to emit: an
// object with a results array, or a bare array.
func decodeEntries(body []byte) ([]map[string]any, error) {
	var wrapped struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Results != nil {
		return wrapped.Results, nil
	}

	var bare []map[string]any
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, err
	}
	return bare, nil
}
