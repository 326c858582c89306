package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// Scorebat pulls highlight clips from the free Scorebat video API.
type Scorebat struct {
	client  *http.Client
	baseURL string
}

func NewScorebat() *Scorebat {
	return &Scorebat{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://www.scorebat.com/video-api/v3",
	}
}

// LatestByTeam returns recent highlight videos mentioning the team.
func (s *Scorebat) LatestByTeam(ctx context.Context, team string, limit int) ([]domain.Video, error) {
	if limit <= 0 {
		limit = 3
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scorebat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("scorebat returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Response []struct {
			Title        string `json:"title"`
			MatchviewURL string `json:"matchviewUrl"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	needle := strings.ToLower(team)
	videos := make([]domain.Video, 0, limit)
	for _, v := range payload.Response {
		if !strings.Contains(strings.ToLower(v.Title), needle) {
			continue
		}
		videos = append(videos, domain.Video{Title: v.Title, URL: v.MatchviewURL})
		if len(videos) >= limit {
			break
		}
	}
	return videos, nil
}
