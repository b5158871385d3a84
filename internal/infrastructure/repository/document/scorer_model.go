package document

import (
	"strings"

	"github.com/riskibarqy/cup-tracker/internal/domain/scorer"
)

type scorerDocumentModel struct {
	Name  string  `json:"name"`
	Team  string  `json:"team"`
	Goals flexInt `json:"goals"`
}

func (r *scorerDocumentModel) toDomain() (scorer.Scorer, bool) {
	if r == nil || strings.TrimSpace(r.Name) == "" {
		return scorer.Scorer{}, false
	}
	goals := 0
	if r.Goals.value != nil && *r.Goals.value > 0 {
		goals = *r.Goals.value
	}
	return scorer.Scorer{Name: r.Name, Team: r.Team, Goals: goals}, true
}

func decodeScorers(data []byte) ([]scorer.Scorer, error) {
	rows, err := decodeList[scorerDocumentModel](data)
	if err != nil {
		return nil, err
	}
	out := make([]scorer.Scorer, 0, len(rows))
	for _, row := range rows {
		if s, ok := row.toDomain(); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func encodeScorers(scorers []scorer.Scorer) ([]byte, error) {
	rows := make([]scorerDocumentModel, 0, len(scorers))
	for _, s := range scorers {
		goals := s.Goals
		rows = append(rows, scorerDocumentModel{Name: s.Name, Team: s.Team, Goals: flexInt{value: &goals}})
	}
	return encodeList(rows)
}
