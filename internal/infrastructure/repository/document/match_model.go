package document

import (
	"strings"

	"github.com/riskibarqy/cup-tracker/internal/domain/match"
)

type matchDocumentModel struct {
	ID        *int    `json:"id"`
	Stage     string  `json:"stage,omitempty"`
	Label     string  `json:"label,omitempty"`
	HomeTeam  *string `json:"homeTeam"`
	AwayTeam  *string `json:"awayTeam"`
	HomeScore flexInt `json:"homeScore"`
	AwayScore flexInt `json:"awayScore"`
	Fixed     *bool   `json:"fixed,omitempty"`
	Completed bool    `json:"completed"`
}

func matchToModel(m match.Match) matchDocumentModel {
	id := m.ID
	fixed := m.IsFixed()
	return matchDocumentModel{
		ID:        &id,
		Stage:     string(m.Stage),
		Label:     m.Label,
		HomeTeam:  stringOrNil(m.HomeTeam),
		AwayTeam:  stringOrNil(m.AwayTeam),
		HomeScore: intOf(m.HomeScore),
		AwayScore: intOf(m.AwayScore),
		Fixed:     &fixed,
		Completed: m.Completed,
	}
}

// toDomain upgrades old-shape records: a missing stage means a group match,
// and a half-entered or negative score is treated as no score.
func (r *matchDocumentModel) toDomain() (match.Match, bool) {
	if r == nil || r.ID == nil {
		return match.Match{}, false
	}

	stage := match.Stage(strings.ToLower(strings.TrimSpace(r.Stage)))
	if !stage.Valid() {
		stage = match.StageGroup
	}

	m := match.Match{
		ID:        *r.ID,
		Stage:     stage,
		Label:     r.Label,
		HomeTeam:  derefString(r.HomeTeam),
		AwayTeam:  derefString(r.AwayTeam),
		HomeScore: r.HomeScore.value,
		AwayScore: r.AwayScore.value,
		Completed: r.Completed,
	}
	if !validGoals(m.HomeScore) || !validGoals(m.AwayScore) {
		m.HomeScore, m.AwayScore = nil, nil
	}

	switch {
	case stage == match.StageGroup:
		m.Fixed = true
	case r.Fixed != nil:
		m.Fixed = *r.Fixed
	default:
		m.Fixed = m.HomeTeam != "" && m.AwayTeam != ""
	}
	return m, true
}

func decodeMatches(data []byte) ([]match.Match, error) {
	rows, err := decodeList[matchDocumentModel](data)
	if err != nil {
		return nil, err
	}
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		if m, ok := row.toDomain(); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func encodeMatches(matches []match.Match) ([]byte, error) {
	rows := make([]matchDocumentModel, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, matchToModel(m))
	}
	return encodeList(rows)
}

func validGoals(v *int) bool {
	return v != nil && *v >= 0
}

func stringOrNil(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
