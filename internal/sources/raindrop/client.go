// Package raindrop fetches the bookmark collection from a Raindrop-style
// REST API. It satisfies the orchestrator's fetch callback; the engine
// itself never sees these transport details.
package raindrop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/linkshelf/shelf/internal/domain"
	"github.com/linkshelf/shelf/internal/logger"
)

const (
	// DefaultBaseURL is the public API endpoint.
	DefaultBaseURL = "https://api.raindrop.io/rest/v1"

	// perPage is the API's maximum page size.
	perPage = 50

	// allCollections is the pseudo-collection covering every bookmark.
	allCollections = "0"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// Fetch retrieves the complete collection, walking the API's pages.
func (c *Client) Fetch(ctx context.Context) ([]domain.Bookmark, error) {
	var items []apiItem
	for page := 0; ; page++ {
		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		items = append(items, resp.Items...)
		if len(resp.Items) == 0 || len(items) >= resp.Count {
			break
		}
	}

	c.logger.Debug("fetched bookmarks from raindrop",
		logger.Int("count", len(items)))
	return mapItems(items), nil
}

func (c *Client) fetchPage(ctx context.Context, page int) (*listResponse, error) {
	q := url.Values{}
	q.Set("perpage", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("sort", "-created")

	endpoint := fmt.Sprintf("%s/raindrops/%s?%s", c.baseURL, allCollections, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build raindrop request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("raindrop request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("raindrop responded %d for page %d", resp.StatusCode, page)
	}

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode raindrop response: %w", err)
	}
	if !out.Result {
		return nil, fmt.Errorf("raindrop returned result=false for page %d", page)
	}
	return &out, nil
}
