package domain

import "time"

// Match is one fixture or finished game, normalized across providers
type Match struct {
	ID        int64     `json:"id,omitempty"`
	When      time.Time `json:"when"`
	Home      string    `json:"home"`
	Away      string    `json:"away"`
	HomeScore *int      `json:"home_score,omitempty"` // nil until finished
	AwayScore *int      `json:"away_score,omitempty"`
	Status    string    `json:"status"` // SCHEDULED, TIMED, IN_PLAY, FINISHED
	League    string    `json:"league,omitempty"`
	Venue     string    `json:"venue,omitempty"`
	City      string    `json:"city,omitempty"`
}

// Finished reports whether the match has a full-time score.
func (m Match) Finished() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// LiveEvent is a match currently in play
type LiveEvent struct {
	ID          int64  `json:"id"`
	Home        string `json:"home"`
	Away        string `json:"away"`
	HomeScore   int    `json:"home_score"`
	AwayScore   int    `json:"away_score"`
	Minute      int    `json:"minute"`
	Competition string `json:"competition,omitempty"`
}

// TableRow is one standings row
type TableRow struct {
	Position int    `json:"pos"`
	Team     string `json:"team"`
	Played   int    `json:"played"`
	Points   int    `json:"pts"`
}

// Scorer is one top-scorer entry
type Scorer struct {
	Player string `json:"player"`
	Team   string `json:"team"`
	Goals  int    `json:"goals"`
}

// SquadPlayer is one squad or injury-list entry
type SquadPlayer struct {
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
	Status   string `json:"status,omitempty"` // injury/unavailability note
}

// PlayerStats is a season stat line for one player
type PlayerStats struct {
	Name        string  `json:"name"`
	Team        string  `json:"team,omitempty"`
	Appearances int     `json:"appearances"`
	Minutes     int     `json:"minutes"`
	Goals       int     `json:"goals"`
	Assists     int     `json:"assists"`
	Rating      float64 `json:"rating,omitempty"`
}

// Lineup is a probable or confirmed starting eleven
type Lineup struct {
	Team      string   `json:"team"`
	Formation string   `json:"formation,omitempty"`
	Players   []string `json:"players"`
	Confirmed bool     `json:"confirmed"`
}

// NewsItem is one headline
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	Snippet     string    `json:"snippet,omitempty"`
}

// WikiExtract is a Wikipedia page summary
type WikiExtract struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	URL     string `json:"url,omitempty"`
}

// EloRating is a club strength estimate
type EloRating struct {
	Team string  `json:"team"`
	Elo  float64 `json:"elo"`
	Rank int     `json:"rank,omitempty"`
}

// Video is one highlight clip
type Video struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Weather is a point forecast for a venue
type Weather struct {
	TempC         float64 `json:"temp_c"`
	Precipitation float64 `json:"precipitation_mm"`
	WindKPH       float64 `json:"wind_kph"`
	Summary       string  `json:"summary,omitempty"`
}
