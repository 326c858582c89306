package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// APIFootball is the api-sports.io v3 client: fixture search across all
// leagues, head-to-head, player stats and lineups. Team IDs are resolved
// through the search endpoint and cached for the process lifetime.
type APIFootball struct {
	client  *http.Client
	baseURL string
	apiKey  string

	mu      sync.Mutex
	teamIDs map[string]int
}

func NewAPIFootball(apiKey string) *APIFootball {
	return &APIFootball{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://v3.football.api-sports.io",
		apiKey:  apiKey,
		teamIDs: make(map[string]int),
	}
}

func (a *APIFootball) teamID(ctx context.Context, team string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(team))

	a.mu.Lock()
	if id, ok := a.teamIDs[key]; ok {
		a.mu.Unlock()
		return id, nil
	}
	a.mu.Unlock()

	var payload struct {
		Response []struct {
			Team struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			} `json:"team"`
		} `json:"response"`
	}
	endpoint := a.baseURL + "/teams?search=" + url.QueryEscape(team)
	if err := a.get(ctx, endpoint, &payload); err != nil {
		return 0, err
	}
	if len(payload.Response) == 0 {
		return 0, fmt.Errorf("team not found: %s", team)
	}

	id := payload.Response[0].Team.ID
	a.mu.Lock()
	a.teamIDs[key] = id
	a.mu.Unlock()
	return id, nil
}

// NextFixture returns the team's next scheduled match, nil when none.
func (a *APIFootball) NextFixture(ctx context.Context, team string) (*domain.Match, error) {
	id, err := a.teamID(ctx, team)
	if err != nil {
		return nil, err
	}
	matches, err := a.fixtures(ctx, fmt.Sprintf("%s/fixtures?team=%d&next=1", a.baseURL, id))
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return &matches[0], nil
}

// LastResult returns the team's most recent finished match, nil when none.
func (a *APIFootball) LastResult(ctx context.Context, team string) (*domain.Match, error) {
	id, err := a.teamID(ctx, team)
	if err != nil {
		return nil, err
	}
	matches, err := a.fixtures(ctx, fmt.Sprintf("%s/fixtures?team=%d&last=1", a.baseURL, id))
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return &matches[0], nil
}

// LastResultBetween returns the most recent finished meeting of two teams.
func (a *APIFootball) LastResultBetween(ctx context.Context, teamA, teamB string) (*domain.Match, error) {
	meetings, err := a.HeadToHead(ctx, teamA, teamB, 1)
	if err != nil || len(meetings) == 0 {
		return nil, err
	}
	return &meetings[0], nil
}

// FindMatchResult returns the most recent meeting the named winner
// actually won against the opponent, or nil when no such match exists.
func (a *APIFootball) FindMatchResult(ctx context.Context, winner, opponent string) (*domain.Match, error) {
	meetings, err := a.HeadToHead(ctx, winner, opponent, 20)
	if err != nil {
		return nil, err
	}
	for i := range meetings {
		m := meetings[i]
		if !m.Finished() {
			continue
		}
		won := (strings.EqualFold(m.Home, winner) && *m.HomeScore > *m.AwayScore) ||
			(strings.EqualFold(m.Away, winner) && *m.AwayScore > *m.HomeScore)
		if won {
			return &m, nil
		}
	}
	return nil, nil
}

// HeadToHead returns recent meetings between two teams, newest first.
func (a *APIFootball) HeadToHead(ctx context.Context, teamA, teamB string, limit int) ([]domain.Match, error) {
	idA, err := a.teamID(ctx, teamA)
	if err != nil {
		return nil, err
	}
	idB, err := a.teamID(ctx, teamB)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	endpoint := fmt.Sprintf("%s/fixtures/headtohead?h2h=%d-%d&last=%d", a.baseURL, idA, idB, limit)
	return a.fixtures(ctx, endpoint)
}

// PlayerSeasonStats searches for a player and returns their current
// season line, nil when not found.
func (a *APIFootball) PlayerSeasonStats(ctx context.Context, player string) (*domain.PlayerStats, error) {
	season := currentSeason(time.Now())
	endpoint := fmt.Sprintf("%s/players?search=%s&season=%d", a.baseURL, url.QueryEscape(player), season)

	var payload struct {
		Response []struct {
			Player struct {
				Name string `json:"name"`
			} `json:"player"`
			Statistics []struct {
				Team struct {
					Name string `json:"name"`
				} `json:"team"`
				Games struct {
					Appearences int    `json:"appearences"`
					Minutes     int    `json:"minutes"`
					Rating      string `json:"rating"`
				} `json:"games"`
				Goals struct {
					Total   int `json:"total"`
					Assists int `json:"assists"`
				} `json:"goals"`
			} `json:"statistics"`
		} `json:"response"`
	}
	if err := a.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if len(payload.Response) == 0 || len(payload.Response[0].Statistics) == 0 {
		return nil, nil
	}

	entry := payload.Response[0]
	st := entry.Statistics[0]
	stats := &domain.PlayerStats{
		Name:        entry.Player.Name,
		Team:        st.Team.Name,
		Appearances: st.Games.Appearences,
		Minutes:     st.Games.Minutes,
		Goals:       st.Goals.Total,
		Assists:     st.Goals.Assists,
	}
	fmt.Sscanf(st.Games.Rating, "%f", &stats.Rating)
	return stats, nil
}

// NextLineups returns the published lineup for a team's next fixture,
// nil when nothing is published yet.
func (a *APIFootball) NextLineups(ctx context.Context, team string) (*domain.Lineup, error) {
	next, err := a.NextFixture(ctx, team)
	if err != nil || next == nil {
		return nil, err
	}

	var payload struct {
		Response []struct {
			Team struct {
				Name string `json:"name"`
			} `json:"team"`
			Formation string `json:"formation"`
			StartXI   []struct {
				Player struct {
					Name string `json:"name"`
				} `json:"player"`
			} `json:"startXI"`
		} `json:"response"`
	}
	endpoint := fmt.Sprintf("%s/fixtures/lineups?fixture=%d", a.baseURL, next.ID)
	if err := a.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	for _, entry := range payload.Response {
		if !strings.EqualFold(entry.Team.Name, team) {
			continue
		}
		lineup := &domain.Lineup{
			Team:      entry.Team.Name,
			Formation: entry.Formation,
			Confirmed: true,
		}
		for _, p := range entry.StartXI {
			lineup.Players = append(lineup.Players, p.Player.Name)
		}
		return lineup, nil
	}
	return nil, nil
}

func (a *APIFootball) fixtures(ctx context.Context, endpoint string) ([]domain.Match, error) {
	var payload struct {
		Response []afFixture `json:"response"`
	}
	if err := a.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	matches := make([]domain.Match, 0, len(payload.Response))
	for _, f := range payload.Response {
		matches = append(matches, f.toDomain())
	}
	return matches, nil
}

func (a *APIFootball) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-apisports-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("api-football request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api-football returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// currentSeason maps a date to the European season start year: August
// onward belongs to the season that started that year.
func currentSeason(now time.Time) int {
	if now.Month() >= time.August {
		return now.Year()
	}
	return now.Year() - 1
}

type afFixture struct {
	Fixture struct {
		ID    int64     `json:"id"`
		Date  time.Time `json:"date"`
		Venue struct {
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		Name string `json:"name"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

func (f afFixture) toDomain() domain.Match {
	status := "SCHEDULED"
	switch f.Fixture.Status.Short {
	case "FT", "AET", "PEN":
		status = "FINISHED"
	case "1H", "2H", "HT", "ET", "P", "LIVE":
		status = "IN_PLAY"
	}
	return domain.Match{
		ID:        f.Fixture.ID,
		When:      f.Fixture.Date,
		Home:      f.Teams.Home.Name,
		Away:      f.Teams.Away.Name,
		HomeScore: f.Goals.Home,
		AwayScore: f.Goals.Away,
		Status:    status,
		League:    f.League.Name,
		Venue:     f.Fixture.Venue.Name,
		City:      f.Fixture.Venue.City,
	}
}
