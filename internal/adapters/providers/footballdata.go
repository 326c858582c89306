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

// FootballData is the football-data.org v4 client: scheduled matches,
// standings and top scorers for the major European competitions.
type FootballData struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewFootballData(apiKey string) *FootballData {
	return &FootballData{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: "https://api.football-data.org/v4",
		apiKey:  apiKey,
	}
}

// football-data.org team IDs for the clubs the alias table covers.
var fdTeamIDs = map[string]int{
	"real madrid":     86,
	"barcelona":       81,
	"atlético madrid": 78,
	"sevilla":         559,
	"valencia":        95,
	"athletic club":   77,
	"real sociedad":   92,
	"villarreal":      94,
	"real betis":      90,
	"arsenal":         57,
	"chelsea":         61,
	"liverpool":       64,
	"manchester city": 65,
	"manchester utd":  66,
	"tottenham":       73,
	"newcastle":       67,
	"bayern munich":   5,
	"borussia dortmund": 4,
	"bayer leverkusen":  3,
	"juventus":        109,
	"inter":           108,
	"milan":           98,
	"napoli":          113,
	"roma":            100,
	"psg":             524,
	"monaco":          548,
	"marseille":       516,
	"porto":           503,
	"benfica":         1903,
	"sporting cp":     498,
	"ajax":            678,
}

// competition codes keyed by the normalized competition name.
var fdCompetitions = map[string]string{
	"laliga":           "PD",
	"premier league":   "PL",
	"serie a":          "SA",
	"bundesliga":       "BL1",
	"ligue 1":          "FL1",
	"champions league": "CL",
	"eredivisie":       "DED",
	"primeira liga":    "PPL",
}

func (f *FootballData) teamID(team string) (int, error) {
	id, ok := fdTeamIDs[strings.ToLower(strings.TrimSpace(team))]
	if !ok {
		return 0, fmt.Errorf("unknown team: %s", team)
	}
	return id, nil
}

func competitionCode(name string) string {
	if code, ok := fdCompetitions[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return "PD"
}

// TeamMatches returns a team's matches filtered by status (SCHEDULED,
// FINISHED, or empty for all), most relevant first.
func (f *FootballData) TeamMatches(ctx context.Context, team string, status string, limit int) ([]domain.Match, error) {
	id, err := f.teamID(team)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}

	q := url.Values{"limit": {fmt.Sprint(limit)}}
	if status != "" {
		q.Set("status", status)
	}
	endpoint := fmt.Sprintf("%s/teams/%d/matches?%s", f.baseURL, id, q.Encode())

	var payload struct {
		Matches []fdMatch `json:"matches"`
	}
	if err := f.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		matches = append(matches, m.toDomain())
	}
	return matches, nil
}

// CompetitionTable returns the total standings of a competition.
func (f *FootballData) CompetitionTable(ctx context.Context, competition string) ([]domain.TableRow, error) {
	code := competitionCode(competition)
	endpoint := fmt.Sprintf("%s/competitions/%s/standings", f.baseURL, code)

	var payload struct {
		Standings []struct {
			Type  string `json:"type"`
			Table []struct {
				Position int `json:"position"`
				Team     struct {
					ShortName string `json:"shortName"`
					Name      string `json:"name"`
				} `json:"team"`
				PlayedGames int `json:"playedGames"`
				Points      int `json:"points"`
			} `json:"table"`
		} `json:"standings"`
	}
	if err := f.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	for _, s := range payload.Standings {
		if s.Type != "TOTAL" {
			continue
		}
		rows := make([]domain.TableRow, 0, len(s.Table))
		for _, t := range s.Table {
			name := t.Team.ShortName
			if name == "" {
				name = t.Team.Name
			}
			rows = append(rows, domain.TableRow{
				Position: t.Position,
				Team:     name,
				Played:   t.PlayedGames,
				Points:   t.Points,
			})
		}
		return rows, nil
	}
	return nil, fmt.Errorf("no total standings for %s", competition)
}

// CompetitionScorers returns the competition's top scorers.
func (f *FootballData) CompetitionScorers(ctx context.Context, competition string, limit int) ([]domain.Scorer, error) {
	code := competitionCode(competition)
	if limit <= 0 {
		limit = 10
	}
	endpoint := fmt.Sprintf("%s/competitions/%s/scorers?limit=%d", f.baseURL, code, limit)

	var payload struct {
		Scorers []struct {
			Player struct {
				Name string `json:"name"`
			} `json:"player"`
			Team struct {
				ShortName string `json:"shortName"`
			} `json:"team"`
			Goals int `json:"goals"`
		} `json:"scorers"`
	}
	if err := f.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	scorers := make([]domain.Scorer, 0, len(payload.Scorers))
	for _, s := range payload.Scorers {
		scorers = append(scorers, domain.Scorer{
			Player: s.Player.Name,
			Team:   s.Team.ShortName,
			Goals:  s.Goals,
		})
	}
	return scorers, nil
}

func (f *FootballData) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Auth-Token", f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("football-data request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("football-data returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type fdMatch struct {
	ID          int64     `json:"id"`
	UTCDate     time.Time `json:"utcDate"`
	Status      string    `json:"status"`
	Competition struct {
		Name string `json:"name"`
	} `json:"competition"`
	HomeTeam struct {
		ShortName string `json:"shortName"`
	} `json:"homeTeam"`
	AwayTeam struct {
		ShortName string `json:"shortName"`
	} `json:"awayTeam"`
	Score struct {
		FullTime struct {
			Home *int `json:"home"`
			Away *int `json:"away"`
		} `json:"fullTime"`
	} `json:"score"`
}

func (m fdMatch) toDomain() domain.Match {
	return domain.Match{
		ID:        m.ID,
		When:      m.UTCDate,
		Home:      m.HomeTeam.ShortName,
		Away:      m.AwayTeam.ShortName,
		HomeScore: m.Score.FullTime.Home,
		AwayScore: m.Score.FullTime.Away,
		Status:    m.Status,
		League:    m.Competition.Name,
	}
}
