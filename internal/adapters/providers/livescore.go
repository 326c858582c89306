package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// LiveScoreNews pulls football headlines from the LiveScore news feed.
type LiveScoreNews struct {
	client  *http.Client
	baseURL string
}

func NewLiveScoreNews(baseURL string) *LiveScoreNews {
	if baseURL == "" {
		baseURL = "https://prod-cdn-mev-api.livescore.com/v1"
	}
	return &LiveScoreNews{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
	}
}

// TopNews returns the latest football headlines, newest first.
func (l *LiveScoreNews) TopNews(ctx context.Context, limit int) ([]domain.NewsItem, error) {
	if limit <= 0 {
		limit = 10
	}
	endpoint := fmt.Sprintf("%s/api/app/news/soccer?count=%d", l.baseURL, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("livescore request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("livescore returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Articles []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	items := make([]domain.NewsItem, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		item := domain.NewsItem{
			Title:   a.Title,
			URL:     a.URL,
			Snippet: a.Description,
		}
		if ts, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			item.PublishedAt = ts
		}
		items = append(items, item)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}
