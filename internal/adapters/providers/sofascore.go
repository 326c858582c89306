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

// SofaScore is the live-data client for one configured team: score in
// play, recent form, squad and availability. SofaScore has no official
// API, so requests carry a browser-like User-Agent and every caller must
// tolerate this source failing.
type SofaScore struct {
	client    *http.Client
	baseURL   string
	userAgent string
	teamID    int
}

func NewSofaScore(userAgent string, teamID int) *SofaScore {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
	}
	if teamID == 0 {
		teamID = 2817 // Real Madrid
	}
	return &SofaScore{
		client:    &http.Client{Timeout: 15 * time.Second},
		baseURL:   "https://api.sofascore.com/api/v1",
		userAgent: userAgent,
		teamID:    teamID,
	}
}

// LiveEvent returns the team's match currently in play, nil when idle.
func (s *SofaScore) LiveEvent(ctx context.Context) (*domain.LiveEvent, error) {
	var payload struct {
		Events []sofaEvent `json:"events"`
	}
	endpoint := fmt.Sprintf("%s/team/%d/events/live", s.baseURL, s.teamID)
	if err := s.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if len(payload.Events) == 0 {
		return nil, nil
	}

	e := payload.Events[0]
	minute := 0
	if e.Time.CurrentPeriodStartTimestamp > 0 {
		minute = int(time.Since(time.Unix(e.Time.CurrentPeriodStartTimestamp, 0)).Minutes())
		if e.Status.Description == "2nd half" {
			minute += 45
		}
	}
	return &domain.LiveEvent{
		ID:          e.ID,
		Home:        e.HomeTeam.Name,
		Away:        e.AwayTeam.Name,
		HomeScore:   e.HomeScore.Current,
		AwayScore:   e.AwayScore.Current,
		Minute:      minute,
		Competition: e.Tournament.Name,
	}, nil
}

// BestPlayer returns the highest-rated player of a finished or live event.
func (s *SofaScore) BestPlayer(ctx context.Context, eventID int64) (string, float64, error) {
	var payload struct {
		BestHomeTeamPlayer *sofaBestPlayer `json:"bestHomeTeamPlayer"`
		BestAwayTeamPlayer *sofaBestPlayer `json:"bestAwayTeamPlayer"`
	}
	endpoint := fmt.Sprintf("%s/event/%d/best-players", s.baseURL, eventID)
	if err := s.get(ctx, endpoint, &payload); err != nil {
		return "", 0, err
	}

	best := payload.BestHomeTeamPlayer
	if payload.BestAwayTeamPlayer != nil &&
		(best == nil || payload.BestAwayTeamPlayer.Value > best.Value) {
		best = payload.BestAwayTeamPlayer
	}
	if best == nil {
		return "", 0, fmt.Errorf("no rated players for event %d", eventID)
	}
	return best.Player.Name, best.Value, nil
}

// TeamForm returns the team's most recent finished matches, newest first.
func (s *SofaScore) TeamForm(ctx context.Context, limit int) ([]domain.Match, error) {
	if limit <= 0 {
		limit = 5
	}
	var payload struct {
		Events []sofaEvent `json:"events"`
	}
	endpoint := fmt.Sprintf("%s/team/%d/events/last/0", s.baseURL, s.teamID)
	if err := s.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	// The feed is oldest first; walk backwards.
	matches := make([]domain.Match, 0, limit)
	for i := len(payload.Events) - 1; i >= 0 && len(matches) < limit; i-- {
		e := payload.Events[i]
		if e.Status.Type != "finished" {
			continue
		}
		home, away := e.HomeScore.Current, e.AwayScore.Current
		matches = append(matches, domain.Match{
			ID:        e.ID,
			When:      time.Unix(e.StartTimestamp, 0),
			Home:      e.HomeTeam.Name,
			Away:      e.AwayTeam.Name,
			HomeScore: &home,
			AwayScore: &away,
			Status:    "FINISHED",
			League:    e.Tournament.Name,
		})
	}
	return matches, nil
}

// Squad returns the team's current first-team players.
func (s *SofaScore) Squad(ctx context.Context) ([]domain.SquadPlayer, error) {
	var payload struct {
		Players []struct {
			Player struct {
				Name     string `json:"name"`
				Position string `json:"position"`
			} `json:"player"`
		} `json:"players"`
	}
	endpoint := fmt.Sprintf("%s/team/%d/players", s.baseURL, s.teamID)
	if err := s.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	squad := make([]domain.SquadPlayer, 0, len(payload.Players))
	for _, p := range payload.Players {
		squad = append(squad, domain.SquadPlayer{
			Name:     p.Player.Name,
			Position: p.Player.Position,
		})
	}
	return squad, nil
}

// Injuries returns currently unavailable players with the reason.
func (s *SofaScore) Injuries(ctx context.Context) ([]domain.SquadPlayer, error) {
	var payload struct {
		Players []struct {
			Player struct {
				Name     string `json:"name"`
				Position string `json:"position"`
			} `json:"player"`
			Reason string `json:"reason"`
		} `json:"players"`
	}
	endpoint := fmt.Sprintf("%s/team/%d/players/missing", s.baseURL, s.teamID)
	if err := s.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	out := make([]domain.SquadPlayer, 0, len(payload.Players))
	for _, p := range payload.Players {
		out = append(out, domain.SquadPlayer{
			Name:     p.Player.Name,
			Position: p.Player.Position,
			Status:   p.Reason,
		})
	}
	return out, nil
}

func (s *SofaScore) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sofascore request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sofascore returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type sofaEvent struct {
	ID         int64 `json:"id"`
	Tournament struct {
		Name string `json:"name"`
	} `json:"tournament"`
	Status struct {
		Type        string `json:"type"` // notstarted, inprogress, finished
		Description string `json:"description"`
	} `json:"status"`
	HomeTeam struct {
		Name string `json:"name"`
	} `json:"homeTeam"`
	AwayTeam struct {
		Name string `json:"name"`
	} `json:"awayTeam"`
	HomeScore struct {
		Current int `json:"current"`
	} `json:"homeScore"`
	AwayScore struct {
		Current int `json:"current"`
	} `json:"awayScore"`
	StartTimestamp int64 `json:"startTimestamp"`
	Time           struct {
		CurrentPeriodStartTimestamp int64 `json:"currentPeriodStartTimestamp"`
	} `json:"time"`
}

type sofaBestPlayer struct {
	Value  float64 `json:"value"`
	Player struct {
		Name string `json:"name"`
	} `json:"player"`
}
