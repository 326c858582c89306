package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// Wikipedia resolves historical lookups through the REST summary API,
// falling back to full-text search when an exact title misses.
type Wikipedia struct {
	client  *http.Client
	baseURL string
}

func NewWikipedia() *Wikipedia {
	return &Wikipedia{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://en.wikipedia.org",
	}
}

// Summary returns the page summary for an exact title, nil on a miss.
func (w *Wikipedia) Summary(ctx context.Context, title string) (*domain.WikiExtract, error) {
	endpoint := w.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("wikipedia returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Title        string `json:"title"`
		Extract      string `json:"extract"`
		ContentURLs  struct {
			Desktop struct {
				Page string `json:"page"`
			} `json:"desktop"`
		} `json:"content_urls"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.Extract == "" {
		return nil, nil
	}
	return &domain.WikiExtract{
		Title:   payload.Title,
		Extract: payload.Extract,
		URL:     payload.ContentURLs.Desktop.Page,
	}, nil
}

// Search finds the best-matching article for a query and returns its
// summary, nil when nothing matches.
func (w *Wikipedia) Search(ctx context.Context, query string) (*domain.WikiExtract, error) {
	q := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {"1"},
		"format":   {"json"},
	}
	endpoint := w.baseURL + "/w/api.php?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("wikipedia returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(payload.Query.Search) == 0 {
		return nil, nil
	}
	return w.Summary(ctx, payload.Query.Search[0].Title)
}
