package providers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// ClubElo fetches club strength ratings from api.clubelo.com. The API
// returns CSV keyed by club name with no spaces.
type ClubElo struct {
	client  *http.Client
	baseURL string
}

func NewClubElo() *ClubElo {
	return &ClubElo{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "http://api.clubelo.com",
	}
}

// TeamElo returns the team's current Elo rating, nil when unknown.
func (c *ClubElo) TeamElo(ctx context.Context, team string) (*domain.EloRating, error) {
	slug := strings.ReplaceAll(team, " ", "")
	endpoint := c.baseURL + "/" + slug

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clubelo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clubelo returned status %d", resp.StatusCode)
	}

	// CSV columns: Rank,Club,Country,Level,Elo,From,To. The last row is
	// the current rating window.
	records, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse clubelo csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	row := records[len(records)-1]
	if len(row) < 5 {
		return nil, nil
	}
	elo, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return nil, fmt.Errorf("bad elo value %q: %w", row[4], err)
	}
	rating := &domain.EloRating{Team: row[1], Elo: elo}
	if rank, err := strconv.Atoi(row[0]); err == nil {
		rating.Rank = rank
	}
	return rating, nil
}
