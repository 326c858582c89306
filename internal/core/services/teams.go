package services

import (
	"regexp"
	"sort"
	"strings"
)

// Alias vocabulary for entity extraction out of free text. Minimal seeds,
// expanded incrementally; aliases map to the canonical display name plus
// the Football-Data numeric ID the providers key on.

type teamAlias struct {
	Canonical string
	ID        int64
}

var teamAliases = map[string]teamAlias{
	// Real Madrid priority
	"real madrid": {"Real Madrid", 86}, "realmadrid": {"Real Madrid", 86},
	"los blancos": {"Real Madrid", 86}, "madrid": {"Real Madrid", 86},
	// LaLiga rivals
	"barcelona": {"Barcelona", 81}, "fc barcelona": {"Barcelona", 81},
	"barca": {"Barcelona", 81}, "barça": {"Barcelona", 81},
	"atletico madrid": {"Atlético Madrid", 78}, "atletico": {"Atlético Madrid", 78},
	"atleti": {"Atlético Madrid", 78}, "atlético": {"Atlético Madrid", 78},
	"sevilla": {"Sevilla", 559}, "valencia": {"Valencia", 95},
	"athletic bilbao": {"Athletic Club", 77}, "athletic": {"Athletic Club", 77},
	// Premier League
	"manchester united": {"Manchester United", 66}, "man utd": {"Manchester United", 66},
	"manchester city": {"Manchester City", 65}, "man city": {"Manchester City", 65},
	"arsenal": {"Arsenal", 57}, "chelsea": {"Chelsea", 61},
	"liverpool": {"Liverpool", 64}, "tottenham": {"Tottenham", 73},
	// Serie A
	"juventus": {"Juventus", 109}, "inter": {"Inter", 108},
	"ac milan": {"AC Milan", 98}, "milan": {"AC Milan", 98},
	"napoli": {"Napoli", 492}, "roma": {"Roma", 100},
	// Bundesliga
	"bayern munich": {"Bayern Munich", 5}, "bayern": {"Bayern Munich", 5},
	"dortmund": {"Borussia Dortmund", 4}, "bvb": {"Borussia Dortmund", 4},
	"leverkusen": {"Bayer Leverkusen", 161}, "leipzig": {"RB Leipzig", 173},
	// Ligue 1
	"psg": {"PSG", 524}, "paris": {"PSG", 524},
	"marseille": {"Marseille", 516}, "lyon": {"Lyon", 80}, "monaco": {"Monaco", 548},
}

var compAliases = map[string]string{
	"laliga": "LaLiga", "la liga": "LaLiga", "primera": "LaLiga",
	"ucl": "Champions League", "champions league": "Champions League",
	"europa league": "Europa League", "europa": "Europa League",
	"copa del rey": "Copa del Rey", "copa": "Copa del Rey",
	"premier league": "Premier League", "epl": "Premier League",
	"serie a": "Serie A", "bundesliga": "Bundesliga", "ligue 1": "Ligue 1",
}

var playerAliases = map[string]string{
	"ronaldo": "Cristiano Ronaldo", "cr7": "Cristiano Ronaldo",
	"vini": "Vinícius Júnior", "vinicius": "Vinícius Júnior", "vinícius": "Vinícius Júnior",
	"bellingham": "Jude Bellingham", "benzema": "Karim Benzema",
	"mbappe": "Kylian Mbappé", "mbappé": "Kylian Mbappé",
	"haaland": "Erling Haaland", "messi": "Lionel Messi",
}

var spaceRe = regexp.MustCompile(`\s+`)

func normText(s string) string {
	return spaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// aliasesByLength returns the alias keys longest-first so that
// "manchester united" wins over "united"-style substrings.
func aliasesByLength() []string {
	keys := make([]string, 0, len(teamAliases))
	for k := range teamAliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// ExtractTeams returns the canonical team names mentioned in the text,
// in order of appearance, without duplicates.
func ExtractTeams(text string) []string {
	t := normText(text)

	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	seen := map[string]bool{}
	for _, alias := range aliasesByLength() {
		idx := strings.Index(t, alias)
		if idx < 0 {
			continue
		}
		canon := teamAliases[alias].Canonical
		if seen[canon] {
			continue
		}
		seen[canon] = true
		hits = append(hits, hit{pos: idx, name: canon})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}

// ResolveTeam maps free text to a canonical team name, defaulting to
// Real Madrid when the text looks like a match query but names nobody.
func ResolveTeam(text, defaultTeam string) string {
	teams := ExtractTeams(text)
	if len(teams) > 0 {
		return teams[0]
	}
	return defaultTeam
}

// ResolveTeamID maps a canonical team name back to its provider ID.
// Returns 0 when unknown.
func ResolveTeamID(name string) int64 {
	n := normText(name)
	if a, ok := teamAliases[n]; ok {
		return a.ID
	}
	for _, a := range teamAliases {
		if normText(a.Canonical) == n {
			return a.ID
		}
	}
	return 0
}

// ResolveCompetition maps free text to a canonical competition name.
func ResolveCompetition(text, defaultComp string) string {
	t := normText(text)
	for alias, canon := range compAliases {
		if strings.Contains(t, alias) {
			return canon
		}
	}
	return defaultComp
}

// ResolvePlayer maps free text to a player name. Full names pass through.
func ResolvePlayer(text string) string {
	t := normText(text)
	for alias, name := range playerAliases {
		if strings.Contains(t, alias) {
			return name
		}
	}
	if len(strings.Fields(t)) >= 2 {
		return strings.TrimSpace(text)
	}
	return ""
}

// Winner-phrase patterns for outcome queries ("when X beat Y").
var winnerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)when\s+(.+?)\s+beat\b`),
	regexp.MustCompile(`(?i)\b(.+?)\s+defeated\b`),
	regexp.MustCompile(`(?i)\b(.+?)\s+won\s+against\b`),
	regexp.MustCompile(`(?i)when\s+did\s+(.+?)\s+(?:beat|defeat|win)\b`),
}

// ExtractWinner pulls the claimed winner's canonical name out of outcome
// phrasing. Empty string when no pattern matches or the phrase names no
// known team.
func ExtractWinner(text string) string {
	for _, re := range winnerPatterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		teams := ExtractTeams(m[1])
		if len(teams) > 0 {
			return teams[len(teams)-1]
		}
	}
	return ""
}
