package scorer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation = errors.New("invalid scorer input")
	ErrNotFound   = errors.New("scorer not found")
)

// DefaultLeaderboardSize is how many scorers the public board shows.
const DefaultLeaderboardSize = 5

// Scorer is one player's goal tally for one team.
type Scorer struct {
	Name  string
	Team  string
	Goals int
}

// Normalize trims fields and checks the scorer can be stored.
func Normalize(s Scorer) (Scorer, error) {
	s.Name = strings.TrimSpace(s.Name)
	s.Team = strings.TrimSpace(s.Team)
	if s.Name == "" {
		return Scorer{}, fmt.Errorf("%w: player name is required", ErrValidation)
	}
	if s.Team == "" {
		return Scorer{}, fmt.Errorf("%w: team is required", ErrValidation)
	}
	if s.Goals < 0 {
		return Scorer{}, fmt.Errorf("%w: goals must be >= 0", ErrValidation)
	}
	return s, nil
}

// Rank orders scorers by goals, highest first. Equal tallies keep their
// input order.
func Rank(scorers []Scorer) []Scorer {
	out := append([]Scorer(nil), scorers...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Goals > out[j].Goals
	})
	return out
}

// Top is the first n entries of Rank.
func Top(scorers []Scorer, n int) []Scorer {
	ranked := Rank(scorers)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Names lists distinct player names in first-seen order.
func Names(scorers []Scorer) []string {
	seen := make(map[string]struct{}, len(scorers))
	out := make([]string, 0, len(scorers))
	for _, s := range scorers {
		if _, ok := seen[s.Name]; ok {
			continue
		}
		seen[s.Name] = struct{}{}
		out = append(out, s.Name)
	}
	return out
}
