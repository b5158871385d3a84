package standing

import (
	"sort"

	"github.com/riskibarqy/cup-tracker/internal/domain/match"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// Row is one team's line in a group table. It is derived on every call and
// never stored.
type Row struct {
	Position       int
	Team           string
	Played         int
	Won            int
	Drawn          int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
}

// Compute folds counted results into a ranked table for groupTeams. A match
// contributes to each side that belongs to the group, so cross-group fixtures
// are handled per side. Ties on points, goal difference and goals for keep
// the groupTeams order.
func Compute(groupTeams []string, matches []match.Match) []Row {
	rows := make([]Row, len(groupTeams))
	index := make(map[string]int, len(groupTeams))
	for i, team := range groupTeams {
		rows[i] = Row{Team: team}
		if _, dup := index[team]; !dup {
			index[team] = i
		}
	}

	for _, m := range matches {
		if !m.Counts() {
			continue
		}
		home, away := *m.HomeScore, *m.AwayScore
		if i, ok := index[m.HomeTeam]; ok && m.HomeTeam != "" {
			rows[i].record(home, away)
		}
		if i, ok := index[m.AwayTeam]; ok && m.AwayTeam != "" {
			rows[i].record(away, home)
		}
	}

	for i := range rows {
		rows[i].GoalDifference = rows[i].GoalsFor - rows[i].GoalsAgainst
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].GoalDifference != rows[j].GoalDifference {
			return rows[i].GoalDifference > rows[j].GoalDifference
		}
		return rows[i].GoalsFor > rows[j].GoalsFor
	})

	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

func (r *Row) record(own, opponent int) {
	r.Played++
	r.GoalsFor += own
	r.GoalsAgainst += opponent
	switch {
	case own > opponent:
		r.Won++
		r.Points += pointsWin
	case own < opponent:
		r.Lost++
	default:
		r.Drawn++
		r.Points += pointsDraw
	}
}
