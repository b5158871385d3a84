package scorer

import (
	"fmt"
	"strings"
)

// MatchMode decides when two entries name the same player. Team is always
// compared exactly.
type MatchMode string

const (
	MatchCaseInsensitive MatchMode = "case_insensitive"
	MatchExact           MatchMode = "exact"
)

func ParseMatchMode(v string) (MatchMode, error) {
	switch mode := MatchMode(strings.ToLower(strings.TrimSpace(v))); mode {
	case MatchCaseInsensitive, MatchExact:
		return mode, nil
	case "":
		return MatchCaseInsensitive, nil
	default:
		return "", fmt.Errorf("invalid scorer match mode %q: valid values are %s, %s", v, MatchCaseInsensitive, MatchExact)
	}
}

func (m MatchMode) Same(a, b Scorer) bool {
	if a.Team != b.Team {
		return false
	}
	if m == MatchExact {
		return a.Name == b.Name
	}
	return strings.EqualFold(a.Name, b.Name)
}

// IndexOf finds the entry for s's (name, team) pair.
func IndexOf(scorers []Scorer, s Scorer, mode MatchMode) int {
	for i := range scorers {
		if mode.Same(scorers[i], s) {
			return i
		}
	}
	return -1
}

// Upsert adds s, or sets the goals of the entry already holding its pair.
// The stored name keeps its original spelling. The bool reports an append.
func Upsert(scorers []Scorer, s Scorer, mode MatchMode) ([]Scorer, bool, error) {
	s, err := Normalize(s)
	if err != nil {
		return nil, false, err
	}

	out := append([]Scorer(nil), scorers...)
	if idx := IndexOf(out, s, mode); idx >= 0 {
		out[idx].Goals = s.Goals
		return out, false, nil
	}
	return append(out, s), true, nil
}

// ReplaceAt overwrites the entry at index. The edit may not collide with the
// pair of another entry.
func ReplaceAt(scorers []Scorer, index int, s Scorer, mode MatchMode) ([]Scorer, error) {
	s, err := Normalize(s)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(scorers) {
		return nil, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	for i := range scorers {
		if i != index && mode.Same(scorers[i], s) {
			return nil, fmt.Errorf("%w: %s (%s) is already listed", ErrValidation, scorers[i].Name, scorers[i].Team)
		}
	}

	out := append([]Scorer(nil), scorers...)
	out[index] = s
	return out, nil
}

// DeleteAt removes the entry at index and returns it.
func DeleteAt(scorers []Scorer, index int) ([]Scorer, Scorer, error) {
	if index < 0 || index >= len(scorers) {
		return nil, Scorer{}, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}

	removed := scorers[index]
	out := make([]Scorer, 0, len(scorers)-1)
	out = append(out, scorers[:index]...)
	out = append(out, scorers[index+1:]...)
	return out, removed, nil
}
