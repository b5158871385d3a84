package httpapi

import (
	"bytes"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/cup-tracker/internal/domain/match"
	"github.com/riskibarqy/cup-tracker/internal/domain/scorer"
	"github.com/riskibarqy/cup-tracker/internal/domain/standing"
	"github.com/riskibarqy/cup-tracker/internal/usecase"
)

type matchDTO struct {
	ID        int    `json:"id"`
	Stage     string `json:"stage"`
	Label     string `json:"label,omitempty"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeScore *int   `json:"homeScore"`
	AwayScore *int   `json:"awayScore"`
	Fixed     bool   `json:"fixed"`
	Completed bool   `json:"completed"`
}

type matchUpdateDTO struct {
	Applied bool      `json:"applied"`
	Match   *matchDTO `json:"match,omitempty"`
}

type standingRowDTO struct {
	Position       int    `json:"position"`
	Team           string `json:"team"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
}

type groupTableDTO struct {
	Group string           `json:"group"`
	Rows  []standingRowDTO `json:"rows"`
}

type scorerDTO struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Team  string `json:"team"`
	Goals int    `json:"goals"`
}

type scorerUpdateDTO struct {
	Scorer  scorerDTO `json:"scorer"`
	Created bool      `json:"created"`
}

type leaderboardEntryDTO struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Team  string `json:"team"`
	Goals int    `json:"goals"`
}

type boardDTO struct {
	Groups           []groupTableDTO       `json:"groups"`
	Fixtures         []matchDTO            `json:"fixtures"`
	Knockout         []matchDTO            `json:"knockout"`
	TopScorers       []leaderboardEntryDTO `json:"topScorers"`
	CompletedMatches int                   `json:"completedMatches"`
	TotalMatches     int                   `json:"totalMatches"`
	GeneratedAt      string                `json:"generatedAt"`
}

type submitScoreRequest struct {
	HomeScore scoreValue `json:"homeScore"`
	AwayScore scoreValue `json:"awayScore"`
	Completed bool       `json:"completed"`
}

type fixMatchRequest struct {
	HomeTeam string `json:"homeTeam" validate:"required,max=100"`
	AwayTeam string `json:"awayTeam" validate:"required,max=100,nefield=HomeTeam"`
}

type knockoutResultRequest struct {
	HomeTeam  string     `json:"homeTeam" validate:"required,max=100"`
	AwayTeam  string     `json:"awayTeam" validate:"required,max=100,nefield=HomeTeam"`
	HomeScore scoreValue `json:"homeScore"`
	AwayScore scoreValue `json:"awayScore"`
	Completed bool       `json:"completed"`
}

type scorerRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Team  string `json:"team" validate:"required,max=100"`
	Goals *int   `json:"goals" validate:"required,min=0"`
}

// scoreValue accepts a goal count sent as a number, a string or null. The
// raw text is parsed by the match lifecycle rules.
type scoreValue string

func (v *scoreValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = ""
		return nil
	case data[0] == '"':
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = scoreValue(s)
		return nil
	default:
		*v = scoreValue(data)
		return nil
	}
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:        m.ID,
		Stage:     string(m.Stage),
		Label:     m.Label,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
		Fixed:     m.IsFixed(),
		Completed: m.Completed,
	}
}

func matchesToDTO(matches []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchToDTO(m))
	}
	return out
}

func matchUpdateToDTO(u usecase.MatchUpdate) matchUpdateDTO {
	if !u.Applied {
		return matchUpdateDTO{}
	}
	item := matchToDTO(u.Match)
	return matchUpdateDTO{Applied: true, Match: &item}
}

func groupTableToDTO(t usecase.GroupTable) groupTableDTO {
	rows := make([]standingRowDTO, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, standingRowToDTO(row))
	}
	return groupTableDTO{Group: t.Name, Rows: rows}
}

func standingRowToDTO(row standing.Row) standingRowDTO {
	return standingRowDTO{
		Position:       row.Position,
		Team:           row.Team,
		Played:         row.Played,
		Won:            row.Won,
		Drawn:          row.Drawn,
		Lost:           row.Lost,
		GoalsFor:       row.GoalsFor,
		GoalsAgainst:   row.GoalsAgainst,
		GoalDifference: row.GoalDifference,
		Points:         row.Points,
	}
}

func scorersToDTO(scorers []scorer.Scorer) []scorerDTO {
	out := make([]scorerDTO, 0, len(scorers))
	for i, s := range scorers {
		out = append(out, scorerDTO{Index: i, Name: s.Name, Team: s.Team, Goals: s.Goals})
	}
	return out
}

func leaderboardToDTO(ranked []scorer.Scorer) []leaderboardEntryDTO {
	out := make([]leaderboardEntryDTO, 0, len(ranked))
	for i, s := range ranked {
		out = append(out, leaderboardEntryDTO{Rank: i + 1, Name: s.Name, Team: s.Team, Goals: s.Goals})
	}
	return out
}

func boardToDTO(b usecase.Board) boardDTO {
	groups := make([]groupTableDTO, 0, len(b.Groups))
	for _, g := range b.Groups {
		groups = append(groups, groupTableToDTO(g))
	}
	return boardDTO{
		Groups:           groups,
		Fixtures:         matchesToDTO(b.Fixtures),
		Knockout:         matchesToDTO(b.Knockout),
		TopScorers:       leaderboardToDTO(b.TopScorers),
		CompletedMatches: b.CompletedMatches,
		TotalMatches:     b.TotalMatches,
		GeneratedAt:      b.GeneratedAt.Format(time.RFC3339),
	}
}
